package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"signsheet/internal/domain/attendee"
	"signsheet/internal/domain/audit"
)

// ErrInvalidSignature rejects signature blobs that are not PNG data URLs.
var ErrInvalidSignature = errors.New("signature must be a PNG data URL")

// signaturePrefix is the only blob shape the capture widget produces.
const signaturePrefix = "data:image/png;base64,"

// RecordSignatureInput carries one captured signature submission.
type RecordSignatureInput struct {
	Name      string
	Role      string
	Signature string
	Type      string
}

// RecordSignatureDeps holds dependencies for RecordSignature.
type RecordSignatureDeps struct {
	State      RosterState
	AuditStore AuditStore
	Now        func() time.Time // injectable for testing
}

// ExecuteRecordSignature appends a signed attendance record to the roster.
// Called for admin-side additions (trainers, walk-ups) and kiosk
// submissions alike; the gates have already run by the time this executes.
// PRE: Name, Role, Signature are non-empty; Type is a valid tag
// POST: Roster gained one record with a fresh local id, durably
func ExecuteRecordSignature(ctx context.Context, input RecordSignatureInput, deps RecordSignatureDeps) (attendee.Attendee, error) {
	now := nowOrDefault(deps.Now)

	a := attendee.Attendee{
		ID:        attendee.NewID(now),
		Name:      strings.TrimSpace(input.Name),
		Role:      strings.TrimSpace(input.Role),
		Signature: input.Signature,
		Type:      input.Type,
		Timestamp: now.UnixMilli(),
	}
	if err := a.Validate(); err != nil {
		return attendee.Attendee{}, err
	}
	if !strings.HasPrefix(a.Signature, signaturePrefix) {
		return attendee.Attendee{}, ErrInvalidSignature
	}

	if err := deps.State.Append(ctx, a); err != nil {
		return attendee.Attendee{}, err
	}

	recordAudit(ctx, deps.AuditStore, audit.NewEvent("form", audit.ActionAttendeeAdded).
		WithResource(a.ID).WithDetails(a.Name))
	slog.Info("roster_event", "event", "signature_recorded", "attendee_id", a.ID, "type", a.Type)
	return a, nil
}

// RemoveAttendeeInput carries input for attendee removal.
type RemoveAttendeeInput struct {
	ID string
}

// RemoveAttendeeDeps holds dependencies for RemoveAttendee.
type RemoveAttendeeDeps struct {
	State      RosterState
	AuditStore AuditStore
}

// ExecuteRemoveAttendee deletes one record by id.
// PRE: Caller is an authenticated admin; ID is non-empty
// POST: Exactly the matching record is gone; order of the rest unchanged
func ExecuteRemoveAttendee(ctx context.Context, input RemoveAttendeeInput, deps RemoveAttendeeDeps) error {
	if input.ID == "" {
		return errors.New("attendee ID is required")
	}
	if err := deps.State.Remove(ctx, input.ID); err != nil {
		return err
	}

	recordAudit(ctx, deps.AuditStore, audit.NewEvent("admin", audit.ActionAttendeeRemove).
		WithResource(input.ID))
	slog.Info("roster_event", "event", "attendee_removed", "attendee_id", input.ID)
	return nil
}
