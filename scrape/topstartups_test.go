package scrape

import (
	"testing"

	"github.com/poiesic/ideasurf/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const topStartupsCardHTML = `<html><body>
	<div class="col-12 col-md-6 col-xl-4 infinite-item">
		<div class="card card-body">
			<h3><a id="startup-website-link" href="https://acme.example.com">Acme</a></h3>
			<p><span id="card-header">What they do:</span> Robots for warehouses</p>
			<span id="industry-tags">Robotics</span>
			<span id="industry-tags">Logistics</span>
			<span id="funding-tags">Series A</span>
			<span id="company-size-tags">11-50 employees</span>
			<div id="item-card-filter">
				<p>
					HQ: Austin, TX
					Founded in 2021
				</p>
			</div>
		</div>
	</div>
	<div class="col-12 col-md-6 col-xl-4 infinite-item">
		<div class="card card-body">
			<h3><a id="startup-website-link" href="https://bare.example.com">Bare</a></h3>
		</div>
	</div>
	<div class="col-12 col-md-6 col-xl-4 infinite-item">
		<div class="card card-body">
			<h3><a id="startup-website-link" href="https://noname.example.com"></a></h3>
		</div>
	</div>
</body></html>`

func TestTopStartupsCollectItems(t *testing.T) {
	doc := mustDoc(t, topStartupsCardHTML)

	items := NewTopStartupsAdapter().CollectItems("", doc)
	require.Len(t, items, 2)

	acme := items[0].Record
	assert.Equal(t, "Acme", acme.Name)
	assert.Equal(t, "https://acme.example.com", acme.CanonicalURL)
	assert.Equal(t, "Robots for warehouses", core.StringValue(acme.ShortDescription))
	assert.Equal(t, []string{"Robotics", "Logistics", "Series A"}, acme.Tags)
	assert.Equal(t, "11-50 employees", core.StringValue(acme.TeamSize))
	assert.Equal(t, "Austin, TX", core.StringValue(acme.Location))
	assert.Equal(t, "2021", core.StringValue(acme.Founded))

	// A card missing everything but its name link still yields an item;
	// the optional fields just stay unset.
	bare := items[1].Record
	assert.Equal(t, "Bare", bare.Name)
	assert.Nil(t, bare.ShortDescription)
	assert.Nil(t, bare.TeamSize)
	assert.Empty(t, bare.Tags)
}

func TestTopStartupsPageURL(t *testing.T) {
	adapter := NewTopStartupsAdapter()

	url, ok := adapter.PageURL("", 1)
	require.True(t, ok)
	assert.Equal(t, topStartupsURL, url)

	_, ok = adapter.PageURL("", 2)
	assert.False(t, ok)
	assert.False(t, adapter.NeedsDetail())
}
