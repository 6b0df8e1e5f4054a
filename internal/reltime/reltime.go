// Package reltime converts between relative time phrases ("2 hours ago")
// and absolute instants.
package reltime

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Recently is shown by callers when a posting carries no usable time text.
const Recently = "Recently"

// Months are approximated as 30 days.
const month = 30 * 24 * time.Hour

var instantPhrases = []string{"just now", "just posted", "today"}

// Checked in order; the first match wins.
var unitPatterns = []struct {
	re   *regexp.Regexp
	unit time.Duration
}{
	{regexp.MustCompile(`(\d+)\+?\s*seconds?\s+ago`), time.Second},
	{regexp.MustCompile(`(\d+)\+?\s*minutes?\s+ago`), time.Minute},
	{regexp.MustCompile(`(\d+)\+?\s*hours?\s+ago`), time.Hour},
	{regexp.MustCompile(`(\d+)\+?\s*days?\s+ago`), 24 * time.Hour},
	{regexp.MustCompile(`(\d+)\+?\s*weeks?\s+ago`), 7 * 24 * time.Hour},
	{regexp.MustCompile(`(\d+)\+?\s*months?\s+ago`), month},
}

// Parse resolves a relative phrase against now. It reports false when no
// known pattern matches.
func Parse(text string, now time.Time) (time.Time, bool) {
	t := strings.ToLower(strings.TrimSpace(text))
	if t == "" {
		return time.Time{}, false
	}

	for _, p := range instantPhrases {
		if strings.Contains(t, p) {
			return now, true
		}
	}

	for _, p := range unitPatterns {
		m := p.re.FindStringSubmatch(t)
		if m == nil {
			continue
		}
		n, err := strconv.ParseInt(m[1], 10, 64)
		if err != nil || n > math.MaxInt64/int64(p.unit) {
			return time.Time{}, false
		}
		return now.Add(-time.Duration(n) * p.unit), true
	}
	return time.Time{}, false
}

// ParseRelative is Parse against the current time.
func ParseRelative(text string) (time.Time, bool) {
	return Parse(text, time.Now())
}

// Format renders t relative to now.
func Format(t, now time.Time) string {
	d := now.Sub(t)
	if d < time.Minute {
		return "Just now"
	}
	if d < time.Hour {
		return fmt.Sprintf("%d minutes ago", int(d/time.Minute))
	}

	days := int(d / (24 * time.Hour))
	switch {
	case days == 0:
		return fmt.Sprintf("%d hours ago", int(d/time.Hour))
	case days == 1:
		return "1 day ago"
	case days < 7:
		return fmt.Sprintf("%d days ago", days)
	case days < 30:
		return fmt.Sprintf("%d weeks ago", days/7)
	default:
		return t.Format("Jan 02, 2006")
	}
}

// FormatRelative is Format against the current time.
func FormatRelative(t time.Time) string {
	return Format(t, time.Now())
}

// FormatText returns site-provided text verbatim.
func FormatText(raw string) string {
	return raw
}
