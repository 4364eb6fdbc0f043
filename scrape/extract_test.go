package scrape

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func TestFirstTextFallbackOrder(t *testing.T) {
	doc := mustDoc(t, `<html><body><h2 class="present">found</h2></body></html>`)

	text := FirstText(doc,
		SelectorText("h1.missing"),
		SelectorText("h2.present"),
		SelectorText("h3"),
	)
	assert.Equal(t, "found", text)

	assert.Empty(t, FirstText(doc, SelectorText(".nope")))
}

func TestAttrText(t *testing.T) {
	doc := mustDoc(t, `<html><head><meta name="description" content=" A tagline "></head></html>`)

	assert.Equal(t, "A tagline", AttrText("meta[name='description']", "content")(doc))
	assert.Empty(t, AttrText("meta[name='missing']", "content")(doc))
}

func TestParagraphsText(t *testing.T) {
	doc := mustDoc(t, `<html><body>
		<div class="content"><p>one</p><p>  </p><p>two</p><p>three</p></div>
	</body></html>`)

	assert.Equal(t, "one two", ParagraphsText(".content p", 3)(doc))
	assert.Equal(t, "one two three", ParagraphsText(".content p", 8)(doc))
}

func TestSectionText(t *testing.T) {
	doc := mustDoc(t, `<html><body>
		<h2>Inspiration</h2>
		<div><p>we were inspired</p></div>
		<h2>What it does:</h2>
		<div><p>It finds ideas.</p><ul><li>fast</li><li>cheap</li></ul></div>
		<h2>How we built it</h2>
		<div><p>with go</p></div>
	</body></html>`)

	text := SectionText("what it does")(doc)
	assert.Equal(t, "It finds ideas.\n• fast\n• cheap", text)
}

func TestSectionTextStopsAtNextHeading(t *testing.T) {
	doc := mustDoc(t, `<html><body>
		<h3>What it does</h3>
		<p>only this</p>
		<h3>Challenges</h3>
		<p>not this</p>
	</body></html>`)

	assert.Equal(t, "only this", SectionText("what it does")(doc))
}

func TestSectionTextMissingHeading(t *testing.T) {
	doc := mustDoc(t, `<html><body><h2>Inspiration</h2><p>nope</p></body></html>`)
	assert.Empty(t, SectionText("what it does")(doc))
}

func TestMergeTags(t *testing.T) {
	merged := MergeTags([]string{"Python", "B2B / SaaS"}, []string{"python", "React"})
	assert.Equal(t, []string{"b2b-saas", "python", "react"}, merged)
}

func TestCleanText(t *testing.T) {
	assert.Equal(t, "a b c", CleanText("  a\n\tb   c  "))
	assert.Empty(t, CleanText("  \n "))
}
