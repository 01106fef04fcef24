package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db  *sql.DB
	mu  sync.RWMutex
	now func() time.Time
}

// NewSQLiteStore opens (creating if needed) the database at dbPath.
// Use ":memory:" for a throwaway store.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// A single connection keeps ":memory:" databases coherent and serializes writers.
	db.SetMaxOpenConns(1)

	store := &SQLiteStore{db: db, now: time.Now}
	if err := store.initialize(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return store, nil
}

func (s *SQLiteStore) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS resolutions (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL UNIQUE,
		config_path TEXT NOT NULL,
		snapshot TEXT NOT NULL DEFAULT '',
		outcome TEXT NOT NULL,
		error_kind TEXT NOT NULL DEFAULT '',
		error TEXT NOT NULL DEFAULT '',
		duration_us INTEGER NOT NULL DEFAULT 0,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_resolutions_config ON resolutions(config_path, outcome);
	CREATE INDEX IF NOT EXISTS idx_resolutions_created ON resolutions(created_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Record inserts e.
func (s *SQLiteStore) Record(ctx context.Context, e *Entry) error {
	if e == nil {
		return errors.New("nil history entry")
	}
	if e.Outcome != OutcomeSuccess && e.Outcome != OutcomeRejected {
		return fmt.Errorf("invalid outcome %q", e.Outcome)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = s.now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO resolutions (id, config_path, snapshot, outcome, error_kind, error, duration_us, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.ConfigPath, e.Snapshot, string(e.Outcome), e.ErrorKind, e.Error,
		e.Duration.Microseconds(), e.CreatedAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("insert resolution: %w", err)
	}
	return nil
}

const selectColumns = "SELECT id, config_path, snapshot, outcome, error_kind, error, duration_us, created_at FROM resolutions"

// List returns entries newest first.
func (s *SQLiteStore) List(ctx context.Context, limit int) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := selectColumns + " ORDER BY seq DESC"
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query resolutions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return entries, nil
}

// Get returns the entry with id or ErrNotFound.
func (s *SQLiteStore) Get(ctx context.Context, id string) (*Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.queryOne(ctx, selectColumns+" WHERE id = ?", id)
}

// LastSuccess returns the newest successful entry for configPath or ErrNotFound.
func (s *SQLiteStore) LastSuccess(ctx context.Context, configPath string) (*Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.queryOne(ctx, selectColumns+" WHERE config_path = ? AND outcome = ? ORDER BY seq DESC LIMIT 1",
		configPath, string(OutcomeSuccess))
}

func (s *SQLiteStore) queryOne(ctx context.Context, query string, args ...any) (*Entry, error) {
	e, err := scanEntry(s.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return e, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (*Entry, error) {
	var (
		e          Entry
		outcome    string
		durationUS int64
		createdAt  int64
	)
	if err := row.Scan(&e.ID, &e.ConfigPath, &e.Snapshot, &outcome, &e.ErrorKind, &e.Error, &durationUS, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan resolution: %w", err)
	}
	e.Outcome = Outcome(outcome)
	e.Duration = time.Duration(durationUS) * time.Microsecond
	e.CreatedAt = time.Unix(0, createdAt)
	return &e, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}
