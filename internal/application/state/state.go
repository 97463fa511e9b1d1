// Package state holds the process-wide attendance state: one training info
// record and the attendee roster. It is the only mutation funnel — every
// change is synchronously re-serialised to durable storage before the call
// returns, so the in-memory and on-disk representations never diverge.
package state

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	storeadapter "signsheet/internal/adapters/storage/state"
	"signsheet/internal/domain/attendee"
	"signsheet/internal/domain/training"
)

// ErrNotFound signals a roster operation that matched no attendee.
var ErrNotFound = errors.New("attendee not found")

// State is the explicit application state object. Created once at startup
// and passed by reference to whichever component needs it.
type State struct {
	mu     sync.RWMutex
	info   training.Info
	roster []attendee.Attendee
	store  storeadapter.Store
}

// Load seeds a State from durable storage, falling back to defaults for
// anything absent or corrupt. Corrupt values are logged and replaced; there
// is no recovery authority to repair them.
// POST: Returned state has a valid info (non-empty access code)
func Load(ctx context.Context, store storeadapter.Store, now time.Time) (*State, error) {
	s := &State{store: store}

	info, err := store.LoadInfo(ctx)
	switch {
	case err == nil:
		info.FillDefaults(now)
		s.info = info
	case errors.Is(err, storeadapter.ErrNotFound):
		s.info = training.NewDefault(now)
	default:
		slog.Warn("state_event", "event", "info_load_failed", "error", err)
		s.info = training.NewDefault(now)
	}

	roster, err := store.LoadRoster(ctx)
	switch {
	case err == nil:
		s.roster = roster
	case errors.Is(err, storeadapter.ErrNotFound):
		s.roster = nil
	default:
		slog.Warn("state_event", "event", "roster_load_failed", "error", err)
		s.roster = nil
	}

	return s, nil
}

// Info returns a copy of the current training info.
func (s *State) Info() training.Info {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.info
}

// Roster returns a copy of the current roster in insertion order.
func (s *State) Roster() []attendee.Attendee {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]attendee.Attendee, len(s.roster))
	copy(out, s.roster)
	return out
}

// SetInfo replaces the training info and persists it.
// PRE: info has a non-empty access code
// POST: In-memory and durable values are identical
func (s *State) SetInfo(ctx context.Context, info training.Info) error {
	if err := info.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.SaveInfo(ctx, info); err != nil {
		return err
	}
	s.info = info
	return nil
}

// Append adds an attendee to the end of the roster and persists it.
// No uniqueness is enforced here; dedup belongs to the import path.
// PRE: a has been validated
// POST: Roster gained exactly one record at the end, durably
func (s *State) Append(ctx context.Context, a attendee.Attendee) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := make([]attendee.Attendee, len(s.roster), len(s.roster)+1)
	copy(next, s.roster)
	next = append(next, a)
	if err := s.store.SaveRoster(ctx, next); err != nil {
		return err
	}
	s.roster = next
	return nil
}

// Remove deletes the attendee with the given id and persists the roster.
// POST: Exactly the matching record is gone; order of the rest is unchanged
func (s *State) Remove(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := make([]attendee.Attendee, 0, len(s.roster))
	found := false
	for _, a := range s.roster {
		if a.ID == id {
			found = true
			continue
		}
		next = append(next, a)
	}
	if !found {
		return ErrNotFound
	}
	if err := s.store.SaveRoster(ctx, next); err != nil {
		return err
	}
	s.roster = next
	return nil
}

// FindDuplicate reports an existing record that looks like a re-import of
// the candidate: same name, timestamp within the dedup window.
func (s *State) FindDuplicate(candidate attendee.Attendee) (attendee.Attendee, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.roster {
		if a.SameSubmission(candidate) {
			return a, true
		}
	}
	return attendee.Attendee{}, false
}
