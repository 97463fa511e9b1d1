package orchestrators

import (
	"context"
	"errors"
	"time"

	"signsheet/internal/domain/attendee"
	"signsheet/internal/domain/audit"
	"signsheet/internal/domain/training"
)

// mockInfoState implements InfoState for testing.
type mockInfoState struct {
	info   training.Info
	setErr error
}

func (m *mockInfoState) Info() training.Info { return m.info }

func (m *mockInfoState) SetInfo(_ context.Context, info training.Info) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.info = info
	return nil
}

// mockRosterState implements RosterState for testing.
type mockRosterState struct {
	roster    []attendee.Attendee
	appendErr error
}

func (m *mockRosterState) Roster() []attendee.Attendee { return m.roster }

func (m *mockRosterState) Append(_ context.Context, a attendee.Attendee) error {
	if m.appendErr != nil {
		return m.appendErr
	}
	m.roster = append(m.roster, a)
	return nil
}

func (m *mockRosterState) Remove(_ context.Context, id string) error {
	for i, a := range m.roster {
		if a.ID == id {
			m.roster = append(m.roster[:i], m.roster[i+1:]...)
			return nil
		}
	}
	return errors.New("not found")
}

func (m *mockRosterState) FindDuplicate(candidate attendee.Attendee) (attendee.Attendee, bool) {
	for _, a := range m.roster {
		if a.SameSubmission(candidate) {
			return a, true
		}
	}
	return attendee.Attendee{}, false
}

// mockAuditStore implements AuditStore for testing.
type mockAuditStore struct {
	events  []audit.Event
	saveErr error
}

func (m *mockAuditStore) Save(_ context.Context, event audit.Event) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.events = append(m.events, event)
	return nil
}

// hasAction reports whether an event with the given action was recorded.
func (m *mockAuditStore) hasAction(action audit.Action) bool {
	for _, e := range m.events {
		if e.Action == action {
			return true
		}
	}
	return false
}

var fixedTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func fixedNow() time.Time { return fixedTime }
