package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"jobalert/internal/domain"
)

type SQLite struct {
	mu   sync.RWMutex
	Pool *sql.DB
}

func OpenSQLite(path string) (*SQLite, error) {
	// modernc sqlite uses DSN like: file:foo.db?_pragma=busy_timeout(5000)
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)", path)

	pool, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	pool.SetMaxOpenConns(1) // sqlite typically wants 1 writer
	pool.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := pool.PingContext(ctx); err != nil {
		_ = pool.Close()
		return nil, err
	}

	if err := migrateSQLite(ctx, pool); err != nil {
		_ = pool.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return &SQLite{Pool: pool}, nil
}

func migrateSQLite(ctx context.Context, db *sql.DB) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var v int
	if err := tx.QueryRowContext(ctx, `PRAGMA user_version;`).Scan(&v); err != nil {
		return err
	}
	if v >= 1 {
		return tx.Commit()
	}

	if _, err := tx.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS seen_jobs (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  title TEXT NOT NULL,
  company TEXT NOT NULL,
  location TEXT NOT NULL,
  link TEXT NOT NULL UNIQUE,
  source TEXT NOT NULL,
  posted_time TEXT NOT NULL DEFAULT '',
  created_at TEXT NOT NULL
);
`); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `PRAGMA user_version = 1;`); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *SQLite) InsertIfAbsent(ctx context.Context, j domain.Job) (bool, error) {
	link := strings.TrimSpace(j.Link)
	if link == "" {
		return false, ErrEmptyLink
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.Pool.ExecContext(ctx, `
INSERT OR IGNORE INTO seen_jobs (title, company, location, link, source, posted_time, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?);`,
		j.Title, j.Company, j.Location, link, string(j.Source), j.PostedTime, nowText(),
	)
	if err != nil {
		return false, fmt.Errorf("insert seen job: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("insert seen job: %w", err)
	}
	return n > 0, nil
}

func (s *SQLite) Has(ctx context.Context, link string) (bool, error) {
	link = strings.TrimSpace(link)
	if link == "" {
		return false, ErrEmptyLink
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int
	err := s.Pool.QueryRowContext(ctx, `SELECT COUNT(*) FROM seen_jobs WHERE link = ?;`, link).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("lookup seen job: %w", err)
	}
	return n > 0, nil
}

func (s *SQLite) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int
	if err := s.Pool.QueryRowContext(ctx, `SELECT COUNT(*) FROM seen_jobs;`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count seen jobs: %w", err)
	}
	return n, nil
}

func (s *SQLite) SizeBytes(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var pages, pageSize int64
	if err := s.Pool.QueryRowContext(ctx, `PRAGMA page_count;`).Scan(&pages); err != nil {
		return 0, fmt.Errorf("page count: %w", err)
	}
	if err := s.Pool.QueryRowContext(ctx, `PRAGMA page_size;`).Scan(&pageSize); err != nil {
		return 0, fmt.Errorf("page size: %w", err)
	}
	return pages * pageSize, nil
}

// ClearAll deletes every row and resets the id sequence.
func (s *SQLite) ClearAll(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.Pool.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `DELETE FROM seen_jobs;`)
	if err != nil {
		return 0, fmt.Errorf("clear seen jobs: %w", err)
	}
	n, _ := res.RowsAffected()

	if _, err := tx.ExecContext(ctx, `DELETE FROM sqlite_sequence WHERE name = 'seen_jobs';`); err != nil {
		return 0, fmt.Errorf("reset sequence: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return n, nil
}

func (s *SQLite) Close() error {
	if s == nil || s.Pool == nil {
		return nil
	}
	return s.Pool.Close()
}
