// Package dedup admits each job link at most once, within a cycle and
// across cycles.
package dedup

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"jobalert/internal/domain"
	"jobalert/internal/logging"
	"jobalert/internal/store"
)

// ErrPersistence wraps a store failure for a single record.
var ErrPersistence = errors.New("dedup: persistence failure")

// Gate is single-cycle state and is not safe for concurrent use.
type Gate struct {
	st   store.SeenStore
	log  *logging.Logger
	seen map[string]struct{}
}

func NewGate(st store.SeenStore, log *logging.Logger) *Gate {
	if log == nil {
		log = logging.NewNop()
	}
	return &Gate{st: st, log: log, seen: make(map[string]struct{})}
}

// Admit reports whether job is new. A store conflict is (false, nil);
// a store failure is (false, ErrPersistence) and the caller moves on.
func (g *Gate) Admit(ctx context.Context, job domain.Job) (bool, error) {
	link := strings.TrimSpace(job.Link)
	if link == "" {
		return false, nil
	}
	if _, dup := g.seen[link]; dup {
		return false, nil
	}
	g.seen[link] = struct{}{}

	added, err := g.st.InsertIfAbsent(ctx, job)
	if err != nil {
		g.log.Warn("persist seen job", "link", link, "err", err)
		return false, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if !added {
		g.log.Debug("already alerted", "link", link)
	}
	return added, nil
}

// Pending reports whether job would be admitted, without storing it. The
// link still joins the in-batch set so a later copy is not counted twice.
func (g *Gate) Pending(ctx context.Context, job domain.Job) (bool, error) {
	link := strings.TrimSpace(job.Link)
	if link == "" {
		return false, nil
	}
	if _, dup := g.seen[link]; dup {
		return false, nil
	}
	g.seen[link] = struct{}{}

	stored, err := g.st.Has(ctx, link)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return !stored, nil
}

// Seen is the number of distinct links offered this cycle.
func (g *Gate) Seen() int { return len(g.seen) }
