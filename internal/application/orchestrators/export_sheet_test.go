package orchestrators

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"signsheet/internal/domain/attendee"
	"signsheet/internal/domain/audit"
	"signsheet/internal/domain/training"
)

// mockRenderer implements SheetRenderer for testing.
type mockRenderer struct {
	doc        []byte
	err        error
	gotInfo    training.Info
	gotRoster  []attendee.Attendee
	renderCall int
}

func (m *mockRenderer) Render(info training.Info, roster []attendee.Attendee) ([]byte, error) {
	m.renderCall++
	m.gotInfo = info
	m.gotRoster = roster
	if m.err != nil {
		return nil, m.err
	}
	return m.doc, nil
}

// TestExecuteExportSheet_RendersCurrentState tests that the renderer receives
// the live info and roster.
func TestExecuteExportSheet_RendersCurrentState(t *testing.T) {
	info := &mockInfoState{info: training.Info{ActivityName: "Session", AccessCode: "4821"}}
	roster := &mockRosterState{roster: []attendee.Attendee{
		{ID: "a1", Name: "Ana"},
		{ID: "a2", Name: "Ben"},
	}}
	renderer := &mockRenderer{doc: []byte("%PDF-1.4 fake")}
	auditStore := &mockAuditStore{}

	doc, err := ExecuteExportSheet(context.Background(), ExportSheetDeps{
		Info: info, Roster: roster, Renderer: renderer, AuditStore: auditStore,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.Equal(doc, renderer.doc) {
		t.Error("expected the renderer's output verbatim")
	}
	if renderer.gotInfo.ActivityName != "Session" {
		t.Errorf("expected renderer to see current info, got %q", renderer.gotInfo.ActivityName)
	}
	if len(renderer.gotRoster) != 2 {
		t.Errorf("expected renderer to see 2 attendees, got %d", len(renderer.gotRoster))
	}
	if !auditStore.hasAction(audit.ActionExport) {
		t.Error("expected a sheet_exported audit event")
	}
}

// TestExecuteExportSheet_RendererFailure tests that a render error surfaces
// and leaves state alone.
func TestExecuteExportSheet_RendererFailure(t *testing.T) {
	roster := &mockRosterState{roster: []attendee.Attendee{{ID: "a1", Name: "Ana"}}}
	renderer := &mockRenderer{err: errors.New("bad image")}
	auditStore := &mockAuditStore{}

	_, err := ExecuteExportSheet(context.Background(), ExportSheetDeps{
		Info: &mockInfoState{}, Roster: roster, Renderer: renderer, AuditStore: auditStore,
	})
	if err == nil {
		t.Fatal("expected render error to surface")
	}
	if len(roster.roster) != 1 {
		t.Error("expected roster untouched by export")
	}
	if len(auditStore.events) != 0 {
		t.Error("expected no audit event for a failed export")
	}
}

// TestExecuteExportSheet_EmptyRoster tests exporting with nobody signed in.
func TestExecuteExportSheet_EmptyRoster(t *testing.T) {
	renderer := &mockRenderer{doc: []byte("%PDF-1.4 empty")}

	doc, err := ExecuteExportSheet(context.Background(), ExportSheetDeps{
		Info: &mockInfoState{}, Roster: &mockRosterState{}, Renderer: renderer,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(doc) == 0 {
		t.Error("expected a rendered document even for an empty roster")
	}
}
