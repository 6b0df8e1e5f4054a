package rank

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobalert/internal/domain"
)

var now = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

func links(jobs []domain.Job) []string {
	out := make([]string, 0, len(jobs))
	for _, j := range jobs {
		out = append(out, j.Link)
	}
	return out
}

func TestByName(t *testing.T) {
	s, err := ByName("Strict")
	require.NoError(t, err)
	assert.Equal(t, NameStrict, s.Name())

	s, err = ByName(" lenient ")
	require.NoError(t, err)
	assert.Equal(t, NameLenient, s.Name())

	_, err = ByName("fuzzy")
	assert.Error(t, err)
}

func TestStrict_AgeBound(t *testing.T) {
	jobs := []domain.Job{
		{Link: "a", PostedTime: "2 hours ago"},
		{Link: "b", PostedTime: "30 hours ago"},
		{Link: "c", PostedTime: "Recently"},
		{Link: "d", PostedTime: ""},
	}

	got := Strict{}.Select(jobs, 24, now)

	require.Len(t, got, 1)
	assert.Equal(t, "a", got[0].Link)
	assert.Equal(t, "2 hours ago", got[0].PostedTime)
	require.NotNil(t, got[0].ParsedTime)
	assert.Equal(t, now.Add(-2*time.Hour), *got[0].ParsedTime)
}

func TestStrict_OrdersNewestFirst(t *testing.T) {
	old := now.Add(-10 * time.Hour)
	jobs := []domain.Job{
		{Link: "old", ParsedTime: &old, PostedTime: "raw"},
		{Link: "mid", PostedTime: "3 hours ago"},
		{Link: "new", PostedTime: "15 minutes ago"},
	}

	got := Strict{}.Select(jobs, 24, now)

	assert.Equal(t, []string{"new", "mid", "old"}, links(got))
	assert.Equal(t, "10 hours ago", got[2].PostedTime)
}

func TestStrict_ExactBoundaryAdmitted(t *testing.T) {
	got := Strict{}.Select([]domain.Job{{Link: "x", PostedTime: "1 day ago"}}, 24, now)
	assert.Len(t, got, 1)
}

func TestStrict_DoesNotMutateInput(t *testing.T) {
	jobs := []domain.Job{{Link: "a", PostedTime: "2 hours ago"}}
	Strict{}.Select(jobs, 24, now)
	assert.Nil(t, jobs[0].ParsedTime)
	assert.Equal(t, "2 hours ago", jobs[0].PostedTime)
}

func TestLenient_Admission(t *testing.T) {
	tests := []struct {
		posted string
		want   bool
	}{
		{"3 hours ago", true},
		{"5 days ago", false},
		{"", true},
		{"Just now", true},
		{"Today", true},
		{"Recently", true},
		{"30+ Days Ago", false},
		{"2 weeks ago", false},
	}

	for _, tt := range tests {
		t.Run(tt.posted, func(t *testing.T) {
			got := Lenient{}.Select([]domain.Job{{Link: "x", PostedTime: tt.posted}}, 24, now)
			assert.Equal(t, tt.want, len(got) == 1)
		})
	}
}

func TestLenient_Order(t *testing.T) {
	jobs := []domain.Job{
		{Link: "recent", PostedTime: "Recently"},
		{Link: "h5", PostedTime: "5 hours ago"},
		{Link: "none", PostedTime: ""},
		{Link: "h10", PostedTime: "10 hours ago"},
		{Link: "m3", PostedTime: "3 minutes ago"},
	}

	got := Lenient{}.Select(jobs, 24, now)

	// fresh bucket sorted lexically, then the rest
	assert.Equal(t, []string{"h10", "m3", "h5", "none", "recent"}, links(got))
}

func TestSelect_EmptyInput(t *testing.T) {
	assert.Empty(t, Strict{}.Select(nil, 24, now))
	assert.Empty(t, Lenient{}.Select(nil, 24, now))
}
