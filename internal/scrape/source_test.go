package scrape

import (
	"errors"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobalert/internal/domain"
)

func TestFirstText_PriorityOrder(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(
		`<div><span class="b">second</span><span class="a"> </span><span class="c">third</span></div>`))
	require.NoError(t, err)

	// .a matches first in priority but is blank, so .c wins over earlier .b
	assert.Equal(t, "third", FirstText(doc.Selection, ".a", ".c", ".b"))
	assert.Equal(t, "", FirstText(doc.Selection, ".missing"))
}

func TestCards_FirstNonEmptySelector(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(
		`<ul><li class="x">1</li><li class="x">2</li><li class="x">3</li></ul>`))
	require.NoError(t, err)

	assert.Equal(t, 2, Cards(doc, 2, ".none", "li.x").Length())
	assert.Equal(t, 3, Cards(doc, 0, "li.x").Length())
	assert.Zero(t, Cards(doc, 5, ".none").Length())
}

func TestUnavailable(t *testing.T) {
	err := Unavailable(domain.SourceNaukri, errors.New("timeout"))
	assert.ErrorIs(t, err, ErrSourceUnavailable)
	assert.Equal(t, "Naukri: source unavailable: timeout", err.Error())
}

func TestSlug(t *testing.T) {
	assert.Equal(t, "java-spring-boot", Slug("  Java  Spring Boot "))
}
