package audit

import (
	"context"
	"database/sql"
	"time"

	"signsheet/internal/adapters/storage"
	domain "signsheet/internal/domain/audit"
)

const dateLayout = "2006-01-02T15:04:05.999999999Z07:00"

// SQLiteStore implements the audit Store interface using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new audit event store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Save persists an audit event.
// PRE: event is valid
// POST: Event is persisted
func (s *SQLiteStore) Save(ctx context.Context, event domain.Event) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO audit_event (id, timestamp, action, actor, resource_id, details)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		event.ID, event.Timestamp.Format(dateLayout), string(event.Action),
		event.Actor, event.ResourceID, event.Details)
	return err
}

// List returns audit events with optional filtering.
// PRE: limit > 0
// POST: Returns events ordered by timestamp desc
func (s *SQLiteStore) List(ctx context.Context, filter Filter, limit int) ([]domain.Event, error) {
	query := `SELECT id, timestamp, action, actor, resource_id, details FROM audit_event WHERE 1=1`
	args := []any{}

	if filter.Action != nil {
		query += " AND action = ?"
		args = append(args, string(*filter.Action))
	}
	if filter.ResourceID != nil {
		query += " AND resource_id = ?"
		args = append(args, *filter.ResourceID)
	}

	query += " ORDER BY timestamp DESC LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []domain.Event
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, rows.Err()
}

// scanEvent scans a single row into an Event.
func scanEvent(rows *sql.Rows) (domain.Event, error) {
	var e domain.Event
	var timestamp string
	var resourceID, details sql.NullString
	if err := rows.Scan(&e.ID, &timestamp, &e.Action, &e.Actor, &resourceID, &details); err != nil {
		return domain.Event{}, err
	}
	e.ResourceID = resourceID.String
	e.Details = details.String
	e.Timestamp, _ = time.Parse(dateLayout, timestamp)
	return e, nil
}
