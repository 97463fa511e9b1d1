package orchestrators

import (
	"context"
	"log/slog"
	"time"

	"signsheet/internal/domain/audit"
	"signsheet/internal/domain/token"
)

// ImportOutcome tags the result of an import attempt.
type ImportOutcome string

const (
	// ImportedNew means the token carried a record the roster had not seen.
	ImportedNew ImportOutcome = "imported"
	// ImportedDuplicate means the token was a re-import and was discarded.
	ImportedDuplicate ImportOutcome = "duplicate"
	// ImportedNothing means the token was absent, malformed, or nameless.
	ImportedNothing ImportOutcome = "none"
)

// ImportSubmissionInput carries the raw token from the URL.
type ImportSubmissionInput struct {
	Token string
}

// ImportSubmissionResult reports what the import did.
type ImportSubmissionResult struct {
	Outcome ImportOutcome
	Name    string // imported person, for the acknowledgment
	ID      string // fresh local id of the appended record
}

// ImportSubmissionDeps holds dependencies for ImportSubmission.
type ImportSubmissionDeps struct {
	State      RosterState
	AuditStore AuditStore
	Now        func() time.Time // injectable for testing
}

// ExecuteImportSubmission merges one inbound submission token into the
// roster. This is the only cross-session write path: a participant signed on
// their own device and relayed the link out-of-band. Dedup is heuristic
// (exact name plus timestamp proximity) because the token carries no stable
// identity to key on.
// PRE: Caller is an authenticated admin; never run in kiosk mode
// POST: Re-importing the same token adds at most one record overall
func ExecuteImportSubmission(ctx context.Context, input ImportSubmissionInput, deps ImportSubmissionDeps) (ImportSubmissionResult, error) {
	none := ImportSubmissionResult{Outcome: ImportedNothing}
	if input.Token == "" {
		return none, nil
	}

	incoming := token.DecodeAttendee(input.Token, nowOrDefault(deps.Now))
	if incoming == nil || incoming.Name == "" {
		slog.Info("import_event", "event", "token_rejected")
		return none, nil
	}

	if existing, ok := deps.State.FindDuplicate(*incoming); ok {
		slog.Info("import_event", "event", "duplicate_discarded", "attendee_id", existing.ID)
		return ImportSubmissionResult{Outcome: ImportedDuplicate, Name: incoming.Name, ID: existing.ID}, nil
	}

	if err := deps.State.Append(ctx, *incoming); err != nil {
		return none, err
	}

	recordAudit(ctx, deps.AuditStore, audit.NewEvent("admin", audit.ActionImport).
		WithResource(incoming.ID).WithDetails(incoming.Name))
	slog.Info("import_event", "event", "submission_imported", "attendee_id", incoming.ID)
	return ImportSubmissionResult{Outcome: ImportedNew, Name: incoming.Name, ID: incoming.ID}, nil
}
