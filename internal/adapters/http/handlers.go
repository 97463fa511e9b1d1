package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"regexp"
	"strconv"
	"time"

	"signsheet/internal/adapters/http/middleware"
	auditStore "signsheet/internal/adapters/storage/audit"
	"signsheet/internal/application/orchestrators"
	appstate "signsheet/internal/application/state"
	"signsheet/internal/domain/attendee"
	auditDomain "signsheet/internal/domain/audit"
	"signsheet/internal/domain/token"
	"signsheet/internal/domain/training"
)

// timeNow is a variable for testability.
var timeNow = time.Now

// internalError logs the real error and returns a generic message to the client.
// This prevents leaking internal details per OWASP A05.
func internalError(w http.ResponseWriter, err error) {
	slog.Error("internal_error", "error", err.Error())
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

// strictDecode decodes JSON from the request body, rejecting unknown fields.
func strictDecode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// baseURL resolves the origin for shareable links: configured override
// first, otherwise derived from the request.
func baseURL(r *http.Request) string {
	if deps.BaseURL != "" {
		return deps.BaseURL
	}
	scheme := "http"
	if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return scheme + "://" + r.Host
}

// registerRoutes attaches all API handlers to the mux.
func registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/bootstrap", handleBootstrap)
	mux.HandleFunc("/api/admin/login", handleAdminLogin)
	mux.HandleFunc("/api/admin/logout", handleAdminLogout)
	mux.HandleFunc("/api/admin/audit", handleAdminAudit)
	mux.HandleFunc("/api/kiosk/unlock", handleKioskUnlock)
	mux.HandleFunc("/api/info", handleInfo)
	mux.HandleFunc("/api/attendees", handleAttendees)
	mux.HandleFunc("/api/attendees/delete", handleAttendeesDelete)
	mux.HandleFunc("/api/links/join", handleJoinLink)
	mux.HandleFunc("/api/share", handleShare)
	mux.HandleFunc("/api/export.pdf", handleExportPDF)
}

// importAck reports what a bootstrap-time import did.
type importAck struct {
	Outcome string `json:"outcome"`
	Name    string `json:"name,omitempty"`
}

// bootstrapResponse is the initial view state handed to a fresh page load.
type bootstrapResponse struct {
	Mode     string              `json:"mode"`
	Admin    bool                `json:"admin"`
	Info     training.Info       `json:"info"`
	Roster   []attendee.Attendee `json:"roster,omitempty"`
	Import   *importAck          `json:"import,omitempty"`
	CleanURL string              `json:"cleanUrl"`
}

// handleBootstrap performs the one-shot startup reconcile (GET /api/bootstrap).
// The client mirrors its page URL's query params here; the handler seeds
// session info from a join-link `d` payload, imports a relayed submission
// `token` for admins, and reports the URL the client should display.
// PRE: none (works for anonymous kiosk loads)
// POST: Stored info and roster are only written inside an admin session
func handleBootstrap(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	ctx := r.Context()
	q := r.URL.Query()

	resp := bootstrapResponse{
		Mode:  q.Get(token.ParamMode),
		Admin: middleware.IsAdmin(ctx),
	}

	// Join-link seeding: field-by-field defaulted. Only an admin session
	// persists the payload; for visitors the seed stays response-local, so
	// a forged or stale link can never rewrite the stored info or its PIN.
	// A payload that will not decode is ignored.
	var seeded *training.Info
	if d := q.Get(token.ParamData); d != "" {
		seeded = token.DecodeInfo(d)
	}
	if seeded != nil && resp.Admin {
		if _, err := orchestrators.ExecuteSeedFromJoinLink(ctx, orchestrators.SeedFromJoinLinkInput{Info: *seeded},
			orchestrators.SeedFromJoinLinkDeps{State: deps.State, Now: timeNow}); err != nil {
			internalError(w, err)
			return
		}
	}

	// Submission import runs only inside an authenticated admin session.
	// Anonymous visitors carrying a token keep it in their URL untouched.
	if tok := q.Get(token.ParamToken); tok != "" && resp.Admin {
		result, err := orchestrators.ExecuteImportSubmission(ctx, orchestrators.ImportSubmissionInput{Token: tok},
			orchestrators.ImportSubmissionDeps{State: deps.State, AuditStore: deps.AuditStore, Now: timeNow})
		if err != nil {
			internalError(w, err)
			return
		}
		resp.Import = &importAck{Outcome: string(result.Outcome), Name: result.Name}
	}

	resp.Info = deps.State.Info()
	if !resp.Admin {
		if seeded != nil {
			view := *seeded
			view.FillDefaults(timeNow())
			resp.Info = view
		}
		// PIN checks happen server-side; visitors never see the code.
		resp.Info.AccessCode = ""
	}
	pageURL := "/"
	if r.URL.RawQuery != "" {
		pageURL = "/?" + r.URL.RawQuery
	}
	if resp.Admin {
		resp.Roster = deps.State.Roster()
		pageURL = token.StripToken(pageURL)
	}
	resp.CleanURL = pageURL

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// handleAdminLogin authenticates the admin credential pair (POST /api/admin/login).
// POST: On success a session cookie is set; failures are generic
func handleAdminLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		ID       string `json:"id"`
		Password string `json:"password"`
	}
	if err := strictDecode(r, &req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	err := orchestrators.ExecuteAdminLogin(r.Context(), orchestrators.AdminLoginInput{
		ID:       req.ID,
		Password: req.Password,
	}, orchestrators.AdminLoginDeps{
		Credentials: deps.Credentials,
		AuditStore:  deps.AuditStore,
	})
	if err != nil {
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
		return
	}

	sessionToken, err := sessions.Create(req.ID)
	if err != nil {
		internalError(w, err)
		return
	}
	middleware.SetSessionCookie(w, sessionToken)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]bool{"admin": true})
}

// handleAdminLogout ends the admin session (POST /api/admin/logout).
func handleAdminLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	sess, ok := middleware.GetSessionFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if tok := middleware.SessionTokenFromRequest(r); tok != "" {
		sessions.Delete(tok)
	}
	middleware.ClearSessionCookie(w)

	if err := deps.AuditStore.Save(r.Context(), auditDomain.NewEvent(sess.AdminID, auditDomain.ActionLogout)); err != nil {
		slog.Warn("audit_event", "event", "audit_save_failed", "error", err)
	}
	slog.Info("auth_event", "event", "admin_logout")
	w.WriteHeader(http.StatusNoContent)
}

// handleAdminAudit lists recent audit events (GET /api/admin/audit).
// PRE: User must be authenticated as admin
func handleAdminAudit(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if !middleware.IsAdmin(r.Context()) {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	filter := auditStore.Filter{}
	if action := r.URL.Query().Get("action"); action != "" {
		act := auditDomain.Action(action)
		filter.Action = &act
	}
	if resourceID := r.URL.Query().Get("resource_id"); resourceID != "" {
		filter.ResourceID = &resourceID
	}

	limit := 100
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l <= 1000 {
			limit = l
		}
	}

	events, err := deps.AuditStore.List(r.Context(), filter, limit)
	if err != nil {
		internalError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(events)
}

// handleKioskUnlock checks the participant PIN (POST /api/kiosk/unlock).
// POST: Returns 204 on a match; 401 with a generic message otherwise
func handleKioskUnlock(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		PIN string `json:"pin"`
	}
	if err := strictDecode(r, &req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	err := orchestrators.ExecuteKioskUnlock(r.Context(), orchestrators.KioskUnlockInput{PIN: req.PIN},
		orchestrators.KioskUnlockDeps{State: deps.State})
	if err != nil {
		http.Error(w, "wrong PIN", http.StatusUnauthorized)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleInfo reads or replaces the training info (GET/PUT /api/info).
// PRE: User must be authenticated as admin
func handleInfo(w http.ResponseWriter, r *http.Request) {
	if !middleware.IsAdmin(r.Context()) {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	switch r.Method {
	case "GET":
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(deps.State.Info())

	case "PUT":
		var info training.Info
		if err := strictDecode(r, &info); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}
		updated, err := orchestrators.ExecuteUpdateInfo(r.Context(), orchestrators.UpdateInfoInput{Info: info},
			orchestrators.UpdateInfoDeps{State: deps.State, AuditStore: deps.AuditStore, Now: timeNow})
		if err != nil {
			internalError(w, err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(updated)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// attendeeRequest is one signature capture submission. Non-admin requests
// must carry the current PIN; kiosk auth lives in the browser tab, so the
// server re-checks it on every submission.
type attendeeRequest struct {
	Name      string `json:"name"`
	Role      string `json:"role"`
	Signature string `json:"signature"`
	Type      string `json:"type"`
	PIN       string `json:"pin,omitempty"`
}

// handleAttendees lists the roster or records a signature (GET/POST /api/attendees).
// PRE: GET requires admin; POST requires admin or the current PIN
// POST: A recorded kiosk submission also returns its relay link
func handleAttendees(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case "GET":
		if !middleware.IsAdmin(r.Context()) {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(deps.State.Roster())

	case "POST":
		var req attendeeRequest
		if err := strictDecode(r, &req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}

		isAdmin := middleware.IsAdmin(r.Context())
		if !isAdmin {
			err := orchestrators.ExecuteKioskUnlock(r.Context(), orchestrators.KioskUnlockInput{PIN: req.PIN},
				orchestrators.KioskUnlockDeps{State: deps.State})
			if err != nil {
				http.Error(w, "wrong PIN", http.StatusUnauthorized)
				return
			}
			// Kiosk visitors sign as participants; only admins add trainers.
			req.Type = attendee.TypeParticipant
		}

		recorded, err := orchestrators.ExecuteRecordSignature(r.Context(), orchestrators.RecordSignatureInput{
			Name:      req.Name,
			Role:      req.Role,
			Signature: req.Signature,
			Type:      req.Type,
		}, orchestrators.RecordSignatureDeps{State: deps.State, AuditStore: deps.AuditStore, Now: timeNow})
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		resp := struct {
			attendee.Attendee
			SubmissionLink string `json:"submissionLink,omitempty"`
		}{Attendee: recorded}
		if !isAdmin {
			link, err := token.SubmissionLink(baseURL(r), recorded)
			if err != nil {
				internalError(w, err)
				return
			}
			resp.SubmissionLink = link
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(resp)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// handleAttendeesDelete removes one attendee by id (POST /api/attendees/delete).
// PRE: User must be authenticated as admin
func handleAttendeesDelete(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if !middleware.IsAdmin(r.Context()) {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req struct {
		ID string `json:"id"`
	}
	if err := strictDecode(r, &req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	err := orchestrators.ExecuteRemoveAttendee(r.Context(), orchestrators.RemoveAttendeeInput{ID: req.ID},
		orchestrators.RemoveAttendeeDeps{State: deps.State, AuditStore: deps.AuditStore})
	if errors.Is(err, appstate.ErrNotFound) {
		http.Error(w, "attendee not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleJoinLink returns the current join link (GET /api/links/join).
// PRE: User must be authenticated as admin
func handleJoinLink(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if !middleware.IsAdmin(r.Context()) {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	link, err := token.JoinLink(baseURL(r), deps.State.Info())
	if err != nil {
		internalError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"link": link})
}

// handleShare emails the join link to a participant (POST /api/share).
// PRE: User must be authenticated as admin
func handleShare(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if !middleware.IsAdmin(r.Context()) {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req struct {
		Recipient string `json:"recipient"`
	}
	if err := strictDecode(r, &req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	err := orchestrators.ExecuteShareJoinLink(r.Context(), orchestrators.ShareJoinLinkInput{
		Recipient: req.Recipient,
		BaseURL:   baseURL(r),
	}, orchestrators.ShareJoinLinkDeps{
		State:      deps.State,
		Sender:     deps.Sender,
		AuditStore: deps.AuditStore,
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

var filenameSanitizer = regexp.MustCompile(`[^a-zA-Z0-9]`)

// handleExportPDF renders the attendance sheet (GET /api/export.pdf).
// PRE: User must be authenticated as admin
func handleExportPDF(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if !middleware.IsAdmin(r.Context()) {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	doc, err := orchestrators.ExecuteExportSheet(r.Context(), orchestrators.ExportSheetDeps{
		Info:       deps.State,
		Roster:     deps.State,
		Renderer:   deps.Renderer,
		AuditStore: deps.AuditStore,
	})
	if err != nil {
		internalError(w, err)
		return
	}

	name := filenameSanitizer.ReplaceAllString(deps.State.Info().ActivityName, "_")
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "Daftar_Hadir_"+name+".pdf"))
	if _, err := w.Write(doc); err != nil {
		slog.Warn("export_event", "event", "response_write_failed", "error", err)
	}
}
