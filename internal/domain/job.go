package domain

import (
	"strings"
	"time"
)

// Source tags the site a job was scraped from.
type Source string

const (
	SourceLinkedIn Source = "LinkedIn"
	SourceNaukri   Source = "Naukri"
)

// CompanyUnknown is stored when a card carries no company name.
const CompanyUnknown = "Not specified"

type Job struct {
	Title      string
	Company    string
	Location   string
	Link       string // dedup key
	Source     Source
	PostedTime string     // site text or a normalized relative string
	ParsedTime *time.Time // recency filter only; never persisted or sent
}

// Normalize collapses whitespace and fills the company/location defaults.
// It reports false when the job has no title and must be dropped.
func (j *Job) Normalize(defaultLocation string) bool {
	j.Title = CleanText(j.Title)
	j.Company = CleanText(j.Company)
	j.Location = NormalizeLocation(j.Location)
	j.Link = strings.TrimSpace(j.Link)
	j.PostedTime = CleanText(j.PostedTime)

	if j.Company == "" {
		j.Company = CompanyUnknown
	}
	if j.Location == "" {
		j.Location = defaultLocation
	}
	return j.Title != ""
}

func CleanText(s string) string {
	s = strings.ReplaceAll(s, "\u00a0", " ")
	s = strings.Join(strings.Fields(s), " ")
	return strings.TrimSpace(s)
}

// NormalizeLocation drops a "Location:" label and repeated comma parts.
func NormalizeLocation(loc string) string {
	loc = CleanText(loc)
	loc = strings.TrimSpace(strings.TrimPrefix(loc, "Location:"))
	if loc == "" {
		return ""
	}

	seen := map[string]bool{}
	var out []string
	for _, p := range strings.Split(loc, ",") {
		p = CleanText(p)
		k := strings.ToLower(p)
		if p == "" || seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, p)
	}
	return strings.Join(out, ", ")
}
