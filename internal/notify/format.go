package notify

import (
	"fmt"
	"html"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"jobalert/internal/domain"
)

// esc escapes element text. Attribute values go through html.EscapeString,
// which also escapes quotes.
func esc(s string) string { return tgbotapi.EscapeText(tgbotapi.ModeHTML, s) }

// FormatJob renders one alert. Posted time is omitted when unknown.
func FormatJob(j domain.Job) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🏢 <b>%s</b>\n", esc(j.Title))
	fmt.Fprintf(&b, "🏭 <b>Company:</b> %s\n", esc(j.Company))
	fmt.Fprintf(&b, "📍 <b>Location:</b> %s\n", esc(j.Location))
	if j.PostedTime != "" {
		fmt.Fprintf(&b, "⏰ <b>Posted:</b> %s\n", esc(j.PostedTime))
	}
	fmt.Fprintf(&b, "🔗 <b>Apply:</b> <a href=\"%s\">Link</a>\n", html.EscapeString(j.Link))
	fmt.Fprintf(&b, "📱 <b>Source:</b> %s", esc(string(j.Source)))
	return b.String()
}

// Stats is what a cycle reports back to the chat.
type Stats struct {
	At         time.Time
	Scanned    int
	New        int
	Sent       int
	Deferred   int
	StoreCount int
	StoreBytes int64
}

func FormatSummary(s Stats) string {
	var b strings.Builder
	b.WriteString("📊 <b>Scraping Cycle Complete</b>\n")
	fmt.Fprintf(&b, "⏰ Time: %s\n", s.At.Format("2006-01-02 15:04"))
	fmt.Fprintf(&b, "🔍 Total Scanned: %d\n", s.Scanned)
	fmt.Fprintf(&b, "🆕 New Jobs Found: %d\n", s.New)
	fmt.Fprintf(&b, "📤 Successfully Sent: %d\n", s.Sent)
	if s.Deferred > 0 {
		fmt.Fprintf(&b, "⏳ Deferred: %d\n", s.Deferred)
	}
	fmt.Fprintf(&b, "💾 DB Size: %s\n", kb(s.StoreBytes))
	fmt.Fprintf(&b, "🗃️ Total Jobs in DB: %d", s.StoreCount)
	return b.String()
}

func FormatHeartbeat(count int, size int64, at time.Time) string {
	return fmt.Sprintf("💓 <b>Job Bot Heartbeat</b>\n🗃️ Jobs in DB: %d\n💾 DB Size: %s\n⏰ Time: %s",
		count, kb(size), at.Format("15:04"))
}

func FormatCleanup(deleted int64, at time.Time) string {
	return fmt.Sprintf("🧹 <b>Daily Cleanup Complete</b>\n🗑️ Removed %d jobs\n⏰ Time: %s",
		deleted, at.Format("2006-01-02 15:04"))
}

type StartupInfo struct {
	Location        string
	Keywords        []string
	IntervalMinutes int
	CleanupAt       string
}

func FormatStartup(s StartupInfo) string {
	var b strings.Builder
	b.WriteString("🤖 <b>Job Alert Bot Activated!</b>\n")
	fmt.Fprintf(&b, "📍 Location: %s\n", esc(s.Location))
	fmt.Fprintf(&b, "🔍 Keywords: %s\n", esc(strings.Join(s.Keywords, ", ")))
	fmt.Fprintf(&b, "⏰ Interval: %d minutes\n", s.IntervalMinutes)
	if s.CleanupAt == "" {
		b.WriteString("🧹 Auto-cleanup: disabled")
	} else {
		fmt.Fprintf(&b, "🧹 Auto-cleanup: daily at %s", esc(s.CleanupAt))
	}
	return b.String()
}

func FormatError(err error) string {
	return "❌ Error in scraping cycle: " + esc(err.Error())
}

func kb(n int64) string {
	return fmt.Sprintf("%.1f KB", float64(n)/1024)
}
