package state

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	_ "modernc.org/sqlite"

	"signsheet/internal/adapters/storage"
	"signsheet/internal/domain/attendee"
	"signsheet/internal/domain/training"
)

func newTestStore(t *testing.T) (*SQLiteStore, *sql.DB) {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := storage.InitDB(db); err != nil {
		t.Fatalf("InitDB failed: %v", err)
	}
	return NewSQLiteStore(db), db
}

// TestLoadInfo_NotFound verifies a fresh store reports absence, not an empty value.
func TestLoadInfo_NotFound(t *testing.T) {
	store, _ := newTestStore(t)
	if _, err := store.LoadInfo(context.Background()); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if _, err := store.LoadRoster(context.Background()); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

// TestSaveLoadInfo_RoundTrip verifies write-through persistence of the info snapshot.
func TestSaveLoadInfo_RoundTrip(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	info := training.Info{
		ActivityName:   "ISO Training",
		InstrumentName: "Balance",
		Date:           "Senin, 2 Maret 2026",
		Location:       "Lab 1",
		AccessCode:     "4821",
	}
	if err := store.SaveInfo(ctx, info); err != nil {
		t.Fatalf("SaveInfo failed: %v", err)
	}
	got, err := store.LoadInfo(ctx)
	if err != nil {
		t.Fatalf("LoadInfo failed: %v", err)
	}
	if got != info {
		t.Errorf("round trip mismatch: got %+v, want %+v", got, info)
	}

	// A second save overwrites in place.
	info.AccessCode = "9000"
	if err := store.SaveInfo(ctx, info); err != nil {
		t.Fatalf("second SaveInfo failed: %v", err)
	}
	got, _ = store.LoadInfo(ctx)
	if got.AccessCode != "9000" {
		t.Errorf("overwrite not applied: %+v", got)
	}
}

// TestSaveLoadRoster_PreservesOrder verifies the roster snapshot keeps insertion order.
func TestSaveLoadRoster_PreservesOrder(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	roster := []attendee.Attendee{
		{ID: "a1", Name: "First", Role: "QA", Signature: "sig", Type: attendee.TypeTrainer, Timestamp: 1},
		{ID: "a2", Name: "Second", Role: "Ops", Signature: "sig", Type: attendee.TypeParticipant, Timestamp: 2},
		{ID: "a3", Name: "Third", Role: "Lab", Signature: "sig", Type: attendee.TypeParticipant, Timestamp: 3},
	}
	if err := store.SaveRoster(ctx, roster); err != nil {
		t.Fatalf("SaveRoster failed: %v", err)
	}
	got, err := store.LoadRoster(ctx)
	if err != nil {
		t.Fatalf("LoadRoster failed: %v", err)
	}
	if len(got) != len(roster) {
		t.Fatalf("len = %d, want %d", len(got), len(roster))
	}
	for i := range roster {
		if got[i] != roster[i] {
			t.Errorf("position %d: got %+v, want %+v", i, got[i], roster[i])
		}
	}
}

// TestSaveRoster_Nil verifies a nil roster persists as an empty list.
func TestSaveRoster_Nil(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	if err := store.SaveRoster(ctx, nil); err != nil {
		t.Fatalf("SaveRoster(nil) failed: %v", err)
	}
	got, err := store.LoadRoster(ctx)
	if err != nil {
		t.Fatalf("LoadRoster failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected empty roster, got %+v", got)
	}
}

// TestLoad_CorruptValue verifies corrupt durable data surfaces as an error
// (callers fall back to defaults rather than propagate).
func TestLoad_CorruptValue(t *testing.T) {
	store, db := newTestStore(t)
	ctx := context.Background()

	if _, err := db.Exec(
		"INSERT INTO app_state (key, value, updated_at) VALUES (?, ?, ?)",
		KeyTrainingInfo, "{not json", "2026-03-01T00:00:00Z"); err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	if _, err := store.LoadInfo(ctx); err == nil || errors.Is(err, ErrNotFound) {
		t.Errorf("expected a parse error, got %v", err)
	}

	if _, err := db.Exec(
		"INSERT INTO app_state (key, value, updated_at) VALUES (?, ?, ?)",
		KeyRoster, `{"not":"a list"}`, "2026-03-01T00:00:00Z"); err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	if _, err := store.LoadRoster(ctx); err == nil || errors.Is(err, ErrNotFound) {
		t.Errorf("expected a parse error, got %v", err)
	}
}
