package state

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"signsheet/internal/adapters/storage"
	"signsheet/internal/domain/attendee"
	"signsheet/internal/domain/training"
)

// SQLiteStore implements Store over the app_state table.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new state store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// LoadInfo retrieves the persisted training info.
// POST: Returns ErrNotFound if never saved, a parse error if corrupt
func (s *SQLiteStore) LoadInfo(ctx context.Context) (training.Info, error) {
	raw, err := s.load(ctx, KeyTrainingInfo)
	if err != nil {
		return training.Info{}, err
	}
	var info training.Info
	if err := json.Unmarshal([]byte(raw), &info); err != nil {
		return training.Info{}, fmt.Errorf("corrupt training info: %w", err)
	}
	return info, nil
}

// SaveInfo persists the full training info snapshot.
// PRE: info has been validated
// POST: The durable value matches info exactly
func (s *SQLiteStore) SaveInfo(ctx context.Context, info training.Info) error {
	return s.save(ctx, KeyTrainingInfo, info)
}

// LoadRoster retrieves the persisted attendee roster in insertion order.
// POST: Returns ErrNotFound if never saved, a parse error if corrupt
func (s *SQLiteStore) LoadRoster(ctx context.Context) ([]attendee.Attendee, error) {
	raw, err := s.load(ctx, KeyRoster)
	if err != nil {
		return nil, err
	}
	var roster []attendee.Attendee
	if err := json.Unmarshal([]byte(raw), &roster); err != nil {
		return nil, fmt.Errorf("corrupt roster: %w", err)
	}
	return roster, nil
}

// SaveRoster persists the full roster snapshot.
// POST: The durable value matches roster exactly, order included
func (s *SQLiteStore) SaveRoster(ctx context.Context, roster []attendee.Attendee) error {
	if roster == nil {
		roster = []attendee.Attendee{}
	}
	return s.save(ctx, KeyRoster, roster)
}

func (s *SQLiteStore) load(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		"SELECT value FROM app_state WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

func (s *SQLiteStore) save(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to serialise %s: %w", key, err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO app_state (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value=excluded.value, updated_at=excluded.updated_at`,
		key, string(data), time.Now().Format(time.RFC3339Nano))
	return err
}
