package rank

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"jobalert/internal/domain"
)

// Lenient trusts free-text hints when a site's timestamps are unreliable.
// Jobs without any time text are kept.
type Lenient struct{}

var (
	recentTokens = []string{"minute", "hour", "today", "just now", "now", "recent"}
	freshTokens  = []string{"minute", "hour", "today"}
	hoursRe      = regexp.MustCompile(`(\d+)\s*hour`)
)

func (Lenient) Name() string { return NameLenient }

func (Lenient) Select(jobs []domain.Job, maxAgeHours int, _ time.Time) []domain.Job {
	out := make([]domain.Job, 0, len(jobs))
	for _, j := range jobs {
		if lenientAdmit(j.PostedTime, maxAgeHours) {
			out = append(out, j)
		}
	}

	// Lexical tie-break on the raw text, kept for deterministic output.
	sort.SliceStable(out, func(a, b int) bool {
		ba, bb := bucket(out[a].PostedTime), bucket(out[b].PostedTime)
		if ba != bb {
			return ba < bb
		}
		return out[a].PostedTime < out[b].PostedTime
	})
	return out
}

func lenientAdmit(posted string, maxAgeHours int) bool {
	text := strings.ToLower(strings.TrimSpace(posted))
	if text == "" {
		return true
	}
	if strings.Contains(text, "hour") {
		if m := hoursRe.FindStringSubmatch(text); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil && n <= maxAgeHours {
				return true
			}
		}
	}
	return containsAny(text, recentTokens)
}

func bucket(posted string) int {
	if containsAny(strings.ToLower(posted), freshTokens) {
		return 0
	}
	return 1
}

func containsAny(s string, tokens []string) bool {
	for _, t := range tokens {
		if strings.Contains(s, t) {
			return true
		}
	}
	return false
}
