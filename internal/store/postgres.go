package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"jobalert/internal/domain"
)

// Postgres relies on the unique index on link; no process-side locking.
type Postgres struct {
	pool *pgxpool.Pool
}

func OpenPostgres(ctx context.Context, dsn string) (*Postgres, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, fmt.Errorf("postgres store: empty dsn")
	}

	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("unable to parse database url: %w", err)
	}
	cfg.MaxConns = 4
	cfg.MaxConnLifetime = time.Hour

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("database unreachable: %w", err)
	}

	if _, err := pool.Exec(ctx, `
CREATE TABLE IF NOT EXISTS seen_jobs (
  id BIGSERIAL PRIMARY KEY,
  title TEXT NOT NULL,
  company TEXT NOT NULL,
  location TEXT NOT NULL,
  link TEXT NOT NULL UNIQUE,
  source TEXT NOT NULL,
  posted_time TEXT NOT NULL DEFAULT '',
  created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`); err != nil {
		pool.Close()
		return nil, fmt.Errorf("create seen_jobs: %w", err)
	}

	return &Postgres{pool: pool}, nil
}

func (p *Postgres) InsertIfAbsent(ctx context.Context, j domain.Job) (bool, error) {
	link := strings.TrimSpace(j.Link)
	if link == "" {
		return false, ErrEmptyLink
	}

	tag, err := p.pool.Exec(ctx,
		`INSERT INTO seen_jobs (title, company, location, link, source, posted_time)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (link) DO NOTHING`,
		j.Title, j.Company, j.Location, link, string(j.Source), j.PostedTime,
	)
	if err != nil {
		return false, fmt.Errorf("insert seen job: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (p *Postgres) Has(ctx context.Context, link string) (bool, error) {
	link = strings.TrimSpace(link)
	if link == "" {
		return false, ErrEmptyLink
	}
	var ok bool
	err := p.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM seen_jobs WHERE link = $1)`, link).Scan(&ok)
	if err != nil {
		return false, fmt.Errorf("lookup seen job: %w", err)
	}
	return ok, nil
}

func (p *Postgres) Count(ctx context.Context) (int, error) {
	var n int
	if err := p.pool.QueryRow(ctx, `SELECT COUNT(*) FROM seen_jobs`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count seen jobs: %w", err)
	}
	return n, nil
}

func (p *Postgres) SizeBytes(ctx context.Context) (int64, error) {
	var n int64
	if err := p.pool.QueryRow(ctx, `SELECT pg_total_relation_size('seen_jobs')`).Scan(&n); err != nil {
		return 0, fmt.Errorf("relation size: %w", err)
	}
	return n, nil
}

func (p *Postgres) ClearAll(ctx context.Context) (int64, error) {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tag, err := tx.Exec(ctx, `DELETE FROM seen_jobs`)
	if err != nil {
		return 0, fmt.Errorf("clear seen jobs: %w", err)
	}
	if _, err := tx.Exec(ctx, `ALTER SEQUENCE seen_jobs_id_seq RESTART WITH 1`); err != nil {
		return 0, fmt.Errorf("reset sequence: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (p *Postgres) Close() error {
	if p.pool != nil {
		p.pool.Close()
	}
	return nil
}
