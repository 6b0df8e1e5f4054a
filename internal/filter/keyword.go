// Package filter decides whether a job title matches the configured
// interest profile.
package filter

import (
	"strings"

	"golang.org/x/text/cases"
)

// Profile is an ordered, case-folded keyword set. It is immutable once built.
type Profile struct {
	keywords []string
}

func NewProfile(keywords []string) Profile {
	out := make([]string, 0, len(keywords))
	for _, k := range keywords {
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		out = append(out, fold(k))
	}
	return Profile{keywords: out}
}

// Keywords returns a copy of the folded keywords.
func (p Profile) Keywords() []string {
	return append([]string(nil), p.keywords...)
}

func (p Profile) Len() int { return len(p.keywords) }

// Matches reports whether any keyword occurs in title, ignoring case.
func (p Profile) Matches(title string) bool {
	if len(p.keywords) == 0 {
		return false
	}
	text := fold(title)
	for _, k := range p.keywords {
		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}

// Matches is a one-shot form of Profile.Matches.
func Matches(title string, keywords []string) bool {
	return NewProfile(keywords).Matches(title)
}

// Casers carry state, so each call gets its own.
func fold(s string) string {
	return cases.Fold().String(s)
}
