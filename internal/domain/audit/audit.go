package audit

import (
	"time"

	"github.com/google/uuid"
)

// Action represents the admin action that occurred.
type Action string

const (
	ActionLogin          Action = "admin_login"
	ActionLogout         Action = "admin_logout"
	ActionInfoUpdated    Action = "info_updated"
	ActionAttendeeAdded  Action = "attendee_added"
	ActionAttendeeRemove Action = "attendee_removed"
	ActionImport         Action = "submission_imported"
	ActionExport         Action = "sheet_exported"
	ActionShare          Action = "join_link_shared"
)

// Event represents a single audit log entry.
type Event struct {
	ID         string    `json:"id"`
	Timestamp  time.Time `json:"timestamp"`
	Action     Action    `json:"action"`
	Actor      string    `json:"actor"`
	ResourceID string    `json:"resource_id"`
	Details    string    `json:"details"`
}

// NewEvent creates a new audit event with the current timestamp.
// PRE: actor and action are non-empty
// POST: Returns an Event with a fresh id and the provided fields
func NewEvent(actor string, action Action) Event {
	return Event{
		ID:        uuid.New().String(),
		Timestamp: time.Now(),
		Action:    action,
		Actor:     actor,
	}
}

// WithResource sets the affected resource id.
// POST: Event resource field is populated
func (e Event) WithResource(resourceID string) Event {
	e.ResourceID = resourceID
	return e
}

// WithDetails sets the human-readable event description.
// POST: Event details are set
func (e Event) WithDetails(details string) Event {
	e.Details = details
	return e
}
