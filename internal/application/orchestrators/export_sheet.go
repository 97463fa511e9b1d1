package orchestrators

import (
	"context"
	"fmt"
	"log/slog"

	"signsheet/internal/domain/attendee"
	"signsheet/internal/domain/audit"
	"signsheet/internal/domain/training"
)

// SheetRenderer turns the final attendee list and training metadata into a
// formatted attendance sheet. The core only supplies the inputs and observes
// the outcome.
type SheetRenderer interface {
	Render(info training.Info, roster []attendee.Attendee) ([]byte, error)
}

// ExportSheetDeps holds dependencies for ExportSheet.
type ExportSheetDeps struct {
	Info       InfoState
	Roster     RosterState
	Renderer   SheetRenderer
	AuditStore AuditStore
}

// ExecuteExportSheet renders the current roster as an attendance sheet.
// State is unchanged whether rendering succeeds or fails.
// PRE: Caller is an authenticated admin
// POST: Returns the rendered document, or the renderer's failure
func ExecuteExportSheet(ctx context.Context, deps ExportSheetDeps) ([]byte, error) {
	info := deps.Info.Info()
	roster := deps.Roster.Roster()

	doc, err := deps.Renderer.Render(info, roster)
	if err != nil {
		slog.Error("export_event", "event", "export_failed", "error", err)
		return nil, fmt.Errorf("failed to render attendance sheet: %w", err)
	}

	recordAudit(ctx, deps.AuditStore, audit.NewEvent("admin", audit.ActionExport).
		WithDetails(fmt.Sprintf("%d attendees", len(roster))))
	slog.Info("export_event", "event", "sheet_exported", "attendees", len(roster))
	return doc, nil
}
