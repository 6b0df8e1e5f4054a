package rank

import (
	"sort"
	"time"

	"jobalert/internal/domain"
	"jobalert/internal/reltime"
)

// Strict admits only jobs whose posting time can be resolved.
type Strict struct{}

func (Strict) Name() string { return NameStrict }

func (Strict) Select(jobs []domain.Job, maxAgeHours int, now time.Time) []domain.Job {
	maxAge := time.Duration(maxAgeHours) * time.Hour
	out := make([]domain.Job, 0, len(jobs))

	for _, j := range jobs {
		if j.ParsedTime == nil {
			t, ok := reltime.Parse(j.PostedTime, now)
			if !ok {
				continue
			}
			j.ParsedTime = &t
		}
		if now.Sub(*j.ParsedTime) > maxAge {
			continue
		}
		j.PostedTime = reltime.Format(*j.ParsedTime, now)
		out = append(out, j)
	}

	sort.SliceStable(out, func(a, b int) bool {
		return out[a].ParsedTime.After(*out[b].ParsedTime)
	})
	return out
}
