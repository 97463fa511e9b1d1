package state

import (
	"context"
	"errors"

	"signsheet/internal/domain/attendee"
	"signsheet/internal/domain/training"
)

// Fixed durable keys. Collaborators never see them; the store owns them.
const (
	KeyTrainingInfo = "training_info"
	KeyRoster       = "attendee_roster"
)

// ErrNotFound signals that no value has ever been persisted under a key.
var ErrNotFound = errors.New("state key not found")

// Store persists the two durable snapshots backing the in-memory state.
// Writes are full-value: every save serialises the complete entity.
type Store interface {
	LoadInfo(ctx context.Context) (training.Info, error)
	SaveInfo(ctx context.Context, info training.Info) error
	LoadRoster(ctx context.Context) ([]attendee.Attendee, error)
	SaveRoster(ctx context.Context, roster []attendee.Attendee) error
}
