// Package store persists the links of jobs that have already been alerted.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"jobalert/internal/domain"
)

var ErrEmptyLink = errors.New("store: empty link")

// SeenStore is the persisted record of admitted jobs, unique on link.
type SeenStore interface {
	// InsertIfAbsent reports true only when the link was not stored before.
	InsertIfAbsent(ctx context.Context, job domain.Job) (bool, error)
	// Has reports whether link is stored without writing anything.
	Has(ctx context.Context, link string) (bool, error)
	Count(ctx context.Context) (int, error)
	SizeBytes(ctx context.Context) (int64, error)
	// ClearAll removes every record and returns how many were deleted.
	ClearAll(ctx context.Context) (int64, error)
	Close() error
}

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Options struct {
	Driver string
	Path   string // sqlite file
	DSN    string // postgres connection string
}

func Open(ctx context.Context, opts Options) (SeenStore, error) {
	switch strings.ToLower(opts.Driver) {
	case "", DriverSQLite:
		return OpenSQLite(opts.Path)
	case DriverPostgres:
		return OpenPostgres(ctx, opts.DSN)
	default:
		return nil, fmt.Errorf("unknown store driver %q", opts.Driver)
	}
}

func nowText() string {
	return time.Now().UTC().Format("2006-01-02 15:04:05")
}
