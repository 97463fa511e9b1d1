package orchestrators

import (
	"context"
	"log/slog"
	"time"

	"signsheet/internal/domain/attendee"
	"signsheet/internal/domain/audit"
	"signsheet/internal/domain/training"
)

// InfoState is the training-info surface of the application state.
type InfoState interface {
	Info() training.Info
	SetInfo(ctx context.Context, info training.Info) error
}

// RosterState is the roster surface of the application state.
type RosterState interface {
	Roster() []attendee.Attendee
	Append(ctx context.Context, a attendee.Attendee) error
	Remove(ctx context.Context, id string) error
	FindDuplicate(candidate attendee.Attendee) (attendee.Attendee, bool)
}

// AuditStore persists audit trail events.
type AuditStore interface {
	Save(ctx context.Context, event audit.Event) error
}

// recordAudit saves an audit event best-effort. A broken audit trail must
// never fail the operation it describes.
func recordAudit(ctx context.Context, store AuditStore, event audit.Event) {
	if store == nil {
		return
	}
	if err := store.Save(ctx, event); err != nil {
		slog.Warn("audit_event", "event", "audit_save_failed", "action", event.Action, "error", err)
	}
}

// nowOrDefault resolves the injectable clock used by orchestrators.
func nowOrDefault(now func() time.Time) time.Time {
	if now != nil {
		return now()
	}
	return time.Now()
}
