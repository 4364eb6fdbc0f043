package scrape

import (
	"testing"

	"github.com/poiesic/ideasurf/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestYCPageURL(t *testing.T) {
	adapter := NewYCAdapter()

	url, ok := adapter.PageURL("Fall 2025", 1)
	require.True(t, ok)
	assert.Equal(t, "https://www.ycombinator.com/companies?batch=Fall%202025", url)

	_, ok = adapter.PageURL("Fall 2025", 2)
	assert.False(t, ok)
}

func TestYCCollectItems(t *testing.T) {
	doc := mustDoc(t, `<html><body>
		<a class="company_card" href="/companies/acme">
			<span class="_coName_x1">Acme</span>
			<span class="_coLocation_x1">San Francisco, CA</span>
			<div class="mb-1.5 text-sm"><span>Robots for everyone</span></div>
			<div class="pillWrapper_y2">
				<span class="pill_z3">B2B</span>
				<span class="pill_z3">Robotics</span>
			</div>
		</a>
		<a class="company_card" href="/companies/nameless">
			Fallback Name
			extra line
		</a>
	</body></html>`)

	items := NewYCAdapter().CollectItems("Fall 2025", doc)
	require.Len(t, items, 2)

	first := items[0].Record
	assert.Equal(t, "Acme", first.Name)
	assert.Equal(t, "https://www.ycombinator.com/companies/acme", first.CanonicalURL)
	assert.Equal(t, "San Francisco, CA", core.StringValue(first.Location))
	assert.Equal(t, "Robots for everyone", core.StringValue(first.ShortDescription))
	assert.Equal(t, []string{"B2B", "Robotics"}, first.Tags)
	assert.Equal(t, "Fall 2025", core.StringValue(first.Batch))

	// Name element missing: first text line of the card is used.
	assert.Equal(t, "Fallback Name", items[1].Record.Name)
}

func TestYCExtractDetail(t *testing.T) {
	doc := mustDoc(t, `<html><body>
		<div class="prose max-w-full whitespace-pre-line">Acme builds robots.</div>
		<div class="flex flex-row justify-between"><span>Founded:</span><span>2024</span></div>
		<div class="flex flex-row justify-between"><span>Batch:</span><a href="/batch">Fall 2025</a></div>
		<div class="flex flex-row justify-between"><span>Team Size:</span><span>12</span></div>
		<div class="flex flex-row justify-between"><span>Status:</span><span>Active</span></div>
		<div class="flex flex-row justify-between"><span>Primary Partner:</span><span>Jane Doe</span></div>
	</body></html>`)

	item := &Item{Record: &core.ProjectRecord{Name: "Acme", Source: core.SourceYC}}
	NewYCAdapter().ExtractDetail(doc, item)

	assert.Equal(t, "Acme builds robots.", core.StringValue(item.Record.LongDescription))
	assert.Equal(t, "2024", core.StringValue(item.Record.Founded))
	assert.Equal(t, "Fall 2025", core.StringValue(item.Record.Batch))
	assert.Equal(t, "12", core.StringValue(item.Record.TeamSize))
	assert.Equal(t, "Active", core.StringValue(item.Record.Status))
	assert.Equal(t, "Jane Doe", core.StringValue(item.Record.PrimaryPartner))
}
