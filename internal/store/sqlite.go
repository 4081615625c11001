package store

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/rghosal/cvpilot/internal/model"
)

// Ensure SQLiteStore implements model.HistoryStore.
var _ model.HistoryStore = (*SQLiteStore)(nil)

// SQLiteStore persists generation history in a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath and ensures
// the generations table exists.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// Verify the connection is alive.
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging sqlite db: %w", err)
	}

	createTable := `CREATE TABLE IF NOT EXISTS generations (
		id           TEXT PRIMARY KEY,
		created_at   DATETIME DEFAULT CURRENT_TIMESTAMP,
		cv_chars     INTEGER NOT NULL,
		jd_chars     INTEGER NOT NULL,
		status       TEXT NOT NULL,
		error_kind   TEXT NOT NULL DEFAULT '',
		adapted_cv   TEXT NOT NULL DEFAULT '',
		cover_letter TEXT NOT NULL DEFAULT ''
	)`
	if _, err := db.Exec(createTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating generations table: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Record inserts one run. Re-recording the same ID is a no-op.
func (s *SQLiteStore) Record(rec model.HistoryRecord) error {
	_, err := s.db.Exec(
		`INSERT OR IGNORE INTO generations
		 (id, created_at, cv_chars, jd_chars, status, error_kind, adapted_cv, cover_letter)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.CreatedAt.UTC(), rec.CVChars, rec.JDChars,
		rec.Status, rec.ErrorKind, rec.AdaptedCV, rec.CoverLetter,
	)
	if err != nil {
		return fmt.Errorf("recording run %s: %w", rec.ID, err)
	}
	return nil
}

// List returns the most recent runs, newest first.
func (s *SQLiteStore) List(limit int) ([]model.HistoryRecord, error) {
	rows, err := s.db.Query(
		`SELECT id, created_at, cv_chars, jd_chars, status, error_kind, adapted_cv, cover_letter
		 FROM generations ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var recs []model.HistoryRecord
	for rows.Next() {
		var rec model.HistoryRecord
		if err := rows.Scan(&rec.ID, &rec.CreatedAt, &rec.CVChars, &rec.JDChars,
			&rec.Status, &rec.ErrorKind, &rec.AdaptedCV, &rec.CoverLetter); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

// Get returns a single run by ID.
func (s *SQLiteStore) Get(id string) (model.HistoryRecord, error) {
	var rec model.HistoryRecord
	err := s.db.QueryRow(
		`SELECT id, created_at, cv_chars, jd_chars, status, error_kind, adapted_cv, cover_letter
		 FROM generations WHERE id = ?`, id).
		Scan(&rec.ID, &rec.CreatedAt, &rec.CVChars, &rec.JDChars,
			&rec.Status, &rec.ErrorKind, &rec.AdaptedCV, &rec.CoverLetter)
	if err == sql.ErrNoRows {
		return model.HistoryRecord{}, fmt.Errorf("run %s not found", id)
	}
	if err != nil {
		return model.HistoryRecord{}, fmt.Errorf("getting run %s: %w", id, err)
	}
	return rec, nil
}

// Cleanup deletes runs older than the given duration.
func (s *SQLiteStore) Cleanup(olderThan time.Duration) error {
	cutoff := time.Now().UTC().Add(-olderThan)
	_, err := s.db.Exec("DELETE FROM generations WHERE created_at < ?", cutoff)
	if err != nil {
		return fmt.Errorf("cleaning up runs older than %v: %w", olderThan, err)
	}
	return nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
