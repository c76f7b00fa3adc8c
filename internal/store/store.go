// Package store handles SQLite persistence.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/verte-zerg/buddytype/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// MaxScores is how many score entries are retained.
const MaxScores = 100

// Store wraps SQLite access for score history.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS scores (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			created_at INTEGER NOT NULL,
			wpm INTEGER NOT NULL,
			raw_wpm INTEGER NOT NULL,
			accuracy REAL NOT NULL,
			consistency REAL NOT NULL,
			lang TEXT NOT NULL,
			mode TEXT NOT NULL,
			duration INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_scores_created_at ON scores(created_at);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// AppendScore stores entry and prunes everything but the newest MaxScores
// entries. An empty ID is replaced with a fresh UUID; the stored ID is returned.
func (s *Store) AppendScore(ctx context.Context, entry model.ScoreEntry) (string, error) {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO scores (id, created_at, wpm, raw_wpm, accuracy, consistency, lang, mode, duration)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID,
		entry.Date.UnixNano(),
		entry.WPM,
		entry.RawWPM,
		entry.Accuracy,
		entry.Consistency,
		entry.Language,
		string(entry.Mode),
		entry.Duration,
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert score: %w", err)
	}
	_, err = tx.ExecContext(ctx,
		`DELETE FROM scores WHERE seq NOT IN (
			SELECT seq FROM scores ORDER BY created_at DESC, seq DESC LIMIT ?
		)`, MaxScores)
	if err != nil {
		return "", fmt.Errorf("failed to prune scores: %w", err)
	}
	if err = tx.Commit(); err != nil {
		return "", err
	}
	return entry.ID, nil
}

// ListScores returns stored scores newest first. An empty lang lists all.
func (s *Store) ListScores(ctx context.Context, lang string) ([]model.ScoreEntry, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if lang != "" {
		clauses = append(clauses, "lang = ?")
		args = append(args, lang)
	}
	query := fmt.Sprintf(`SELECT id, created_at, wpm, raw_wpm, accuracy, consistency, lang, mode, duration
		FROM scores
		WHERE %s
		ORDER BY created_at DESC, seq DESC`, strings.Join(clauses, " AND "))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var entries []model.ScoreEntry
	for rows.Next() {
		var (
			entry     model.ScoreEntry
			createdAt int64
			mode      string
		)
		if err := rows.Scan(&entry.ID, &createdAt, &entry.WPM, &entry.RawWPM, &entry.Accuracy,
			&entry.Consistency, &entry.Language, &mode, &entry.Duration); err != nil {
			return nil, err
		}
		entry.Date = time.Unix(0, createdAt)
		entry.Mode = model.TestMode(mode)
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}
