package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJobNormalize_Defaults(t *testing.T) {
	j := Job{Title: "  Java Developer \n", Link: " https://x.test/1 "}

	ok := j.Normalize("remote")

	assert.True(t, ok)
	assert.Equal(t, "Java Developer", j.Title)
	assert.Equal(t, CompanyUnknown, j.Company)
	assert.Equal(t, "remote", j.Location)
	assert.Equal(t, "https://x.test/1", j.Link)
}

func TestJobNormalize_KeepsValues(t *testing.T) {
	j := Job{Title: "SRE", Company: "Acme", Location: "Pune", PostedTime: " 2 hours  ago "}

	assert.True(t, j.Normalize("remote"))
	assert.Equal(t, "Acme", j.Company)
	assert.Equal(t, "Pune", j.Location)
	assert.Equal(t, "2 hours ago", j.PostedTime)
}

func TestJobNormalize_EmptyTitle(t *testing.T) {
	j := Job{Title: "   ", Company: "Acme"}
	assert.False(t, j.Normalize("remote"))
}

func TestNormalizeLocation(t *testing.T) {
	tests := map[string]string{
		"":                                  "",
		"Location:":                         "",
		"Pune":                              "Pune",
		"Location: Bengaluru, Karnataka":    "Bengaluru, Karnataka",
		"Bengaluru, bengaluru , Hyderabad,": "Bengaluru, Hyderabad",
	}
	for in, want := range tests {
		assert.Equal(t, want, NormalizeLocation(in), "input %q", in)
	}
}
