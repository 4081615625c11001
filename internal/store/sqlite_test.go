package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/rghosal/cvpilot/internal/model"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func record(id string, createdAt time.Time) model.HistoryRecord {
	return model.HistoryRecord{
		ID:          id,
		CreatedAt:   createdAt,
		CVChars:     200,
		JDChars:     300,
		Status:      "done",
		AdaptedCV:   "Contact Information\nWork Experience\nSkills",
		CoverLetter: "Dear Team,",
	}
}

func TestRecordThenGet(t *testing.T) {
	s := newTestStore(t)

	want := record("run-1", time.Now().UTC())
	if err := s.Record(want); err != nil {
		t.Fatalf("Record: %v", err)
	}

	got, err := s.Get("run-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.ID != want.ID || got.Status != want.Status || got.AdaptedCV != want.AdaptedCV {
		t.Errorf("Get = %+v, want %+v", got, want)
	}
	if got.CVChars != 200 || got.JDChars != 300 {
		t.Errorf("char counts = %d/%d, want 200/300", got.CVChars, got.JDChars)
	}
}

func TestGetUnknownReturnsError(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.Get("does-not-exist"); err == nil {
		t.Fatal("expected error for unknown run ID")
	}
}

func TestRecordIdempotent(t *testing.T) {
	s := newTestStore(t)

	rec := record("run-2", time.Now().UTC())
	if err := s.Record(rec); err != nil {
		t.Fatalf("first Record: %v", err)
	}
	if err := s.Record(rec); err != nil {
		t.Fatalf("second Record (duplicate): %v", err)
	}

	recs, err := s.List(10)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(recs) != 1 {
		t.Errorf("List returned %d records, want 1", len(recs))
	}
}

func TestListNewestFirst(t *testing.T) {
	s := newTestStore(t)

	now := time.Now().UTC()
	if err := s.Record(record("old", now.Add(-time.Hour))); err != nil {
		t.Fatal(err)
	}
	if err := s.Record(record("new", now)); err != nil {
		t.Fatal(err)
	}

	recs, err := s.List(10)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(recs) != 2 || recs[0].ID != "new" {
		t.Errorf("List order = %v, want newest first", recs)
	}
}

func TestCleanupDeletesOldRuns(t *testing.T) {
	s := newTestStore(t)

	now := time.Now().UTC()
	if err := s.Record(record("ancient", now.Add(-48*time.Hour))); err != nil {
		t.Fatal(err)
	}
	if err := s.Record(record("fresh", now)); err != nil {
		t.Fatal(err)
	}

	if err := s.Cleanup(24 * time.Hour); err != nil {
		t.Fatalf("Cleanup: %v", err)
	}

	recs, err := s.List(10)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(recs) != 1 || recs[0].ID != "fresh" {
		t.Errorf("after cleanup List = %v, want only fresh", recs)
	}
}

func TestErrorRunKeepsKind(t *testing.T) {
	s := newTestStore(t)

	rec := record("run-err", time.Now().UTC())
	rec.Status = "error"
	rec.ErrorKind = "word_limit"
	rec.CoverLetter = ""
	if err := s.Record(rec); err != nil {
		t.Fatalf("Record: %v", err)
	}

	got, err := s.Get("run-err")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.ErrorKind != "word_limit" {
		t.Errorf("ErrorKind = %q, want word_limit", got.ErrorKind)
	}
}
