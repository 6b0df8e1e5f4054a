// Package rank selects fresh postings and orders them for dispatch.
package rank

import (
	"fmt"
	"strings"
	"time"

	"jobalert/internal/domain"
)

// Strategy admits jobs younger than maxAgeHours and orders them.
// Implementations must not mutate Link, Title or Company.
type Strategy interface {
	Name() string
	Select(jobs []domain.Job, maxAgeHours int, now time.Time) []domain.Job
}

const (
	NameStrict  = "strict"
	NameLenient = "lenient"
)

// ByName returns the strategy registered under name.
func ByName(name string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case NameStrict:
		return Strict{}, nil
	case NameLenient:
		return Lenient{}, nil
	default:
		return nil, fmt.Errorf("unknown recency strategy %q", name)
	}
}
