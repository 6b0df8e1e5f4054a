package notify

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"jobalert/internal/domain"
)

func TestFormatJob(t *testing.T) {
	j := domain.Job{
		Title:      "Go <Backend> Engineer",
		Company:    "A&B Labs",
		Location:   "Bengaluru",
		Link:       "https://x.test/jobs/1?a=1&b=2",
		Source:     domain.SourceLinkedIn,
		PostedTime: "2 hours ago",
	}

	got := FormatJob(j)

	assert.Contains(t, got, "<b>Go &lt;Backend&gt; Engineer</b>")
	assert.Contains(t, got, "A&amp;B Labs")
	assert.Contains(t, got, "Bengaluru")
	assert.Contains(t, got, "Posted:</b> 2 hours ago")
	assert.Contains(t, got, `<a href="https://x.test/jobs/1?a=1&amp;b=2">Link</a>`)
	assert.Contains(t, got, "Source:</b> LinkedIn")
}

func TestFormatJob_QuoteInLink(t *testing.T) {
	got := FormatJob(domain.Job{Title: "SRE", Company: "Acme", Location: "Pune", Link: `https://x.test/a"onclick="x`, Source: domain.SourceNaukri})
	assert.Contains(t, got, `<a href="https://x.test/a&#34;onclick=&#34;x">Link</a>`)
}

func TestFormatJob_OmitsMissingPosted(t *testing.T) {
	got := FormatJob(domain.Job{Title: "SRE", Company: "Acme", Location: "Pune", Link: "l", Source: domain.SourceNaukri})
	assert.NotContains(t, got, "Posted")
}

func TestFormatSummary(t *testing.T) {
	at := time.Date(2026, 3, 15, 9, 30, 0, 0, time.UTC)
	got := FormatSummary(Stats{At: at, Scanned: 40, New: 12, Sent: 10, Deferred: 2, StoreCount: 300, StoreBytes: 2048})

	assert.Contains(t, got, "2026-03-15 09:30")
	assert.Contains(t, got, "Total Scanned: 40")
	assert.Contains(t, got, "New Jobs Found: 12")
	assert.Contains(t, got, "Successfully Sent: 10")
	assert.Contains(t, got, "Deferred: 2")
	assert.Contains(t, got, "DB Size: 2.0 KB")
	assert.Contains(t, got, "Total Jobs in DB: 300")

	assert.NotContains(t, FormatSummary(Stats{At: at}), "Deferred")
}

func TestFormatMaintenanceMessages(t *testing.T) {
	at := time.Date(2026, 3, 15, 2, 0, 0, 0, time.UTC)

	assert.Contains(t, FormatHeartbeat(7, 1536, at), "Jobs in DB: 7")
	assert.Contains(t, FormatHeartbeat(7, 1536, at), "1.5 KB")
	assert.Contains(t, FormatCleanup(55, at), "Removed 55 jobs")
	assert.Equal(t, "❌ Error in scraping cycle: boom &lt;x&gt;", FormatError(errors.New("boom <x>")))

	start := FormatStartup(StartupInfo{Location: "India", Keywords: []string{"go", "sre"}, IntervalMinutes: 30, CleanupAt: "02:00"})
	assert.Contains(t, start, "Keywords: go, sre")
	assert.Contains(t, start, "Interval: 30 minutes")
	assert.Contains(t, start, "daily at 02:00")
}
