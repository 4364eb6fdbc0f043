package scrape

import (
	"fmt"
	"net/url"

	"github.com/PuerkitoBio/goquery"
	"github.com/poiesic/ideasurf/core"
)

// Item is one listing entry: the detail-page locator plus the record
// fields read so far. Adapters that need a detail visit fill the rest of
// the record in ExtractDetail.
type Item struct {
	// Locator is the URL of the item's detail page.
	Locator string

	// Record accumulates the extracted fields.
	Record *core.ProjectRecord
}

// Adapter knows how to scrape one listing site.
type Adapter interface {
	// Source identifies the site.
	Source() core.Source

	// PageURL returns the listing URL for the given batch and 1-based
	// page number, or false when the site has no such page. Single-page
	// sites return false for every page after the first.
	PageURL(batch string, page int) (string, bool)

	// ListingOptions is the render plan for listing pages.
	ListingOptions() []RenderOption

	// CollectItems reads listing cards out of a rendered listing page.
	CollectItems(batch string, doc *goquery.Document) []*Item

	// NeedsDetail reports whether items require a detail-page visit
	// before they are complete.
	NeedsDetail() bool

	// DetailOptions is the render plan for detail pages.
	DetailOptions() []RenderOption

	// ExtractDetail fills the item's record from a rendered detail page.
	ExtractDetail(doc *goquery.Document, item *Item)
}

// ForSource returns the adapter for a source.
func ForSource(source core.Source) (Adapter, error) {
	switch source {
	case core.SourceYC:
		return NewYCAdapter(), nil
	case core.SourceDevpost:
		return NewDevpostAdapter(), nil
	case core.SourceProductHunt:
		return NewProductHuntAdapter(), nil
	case core.SourceTopStartups:
		return NewTopStartupsAdapter(), nil
	default:
		return nil, fmt.Errorf("%w: %q", core.ErrUnknownSource, source)
	}
}

// resolveURL resolves href against base, returning href unchanged when
// either side fails to parse.
func resolveURL(base, href string) string {
	b, err := url.Parse(base)
	if err != nil {
		return href
	}
	h, err := url.Parse(href)
	if err != nil {
		return href
	}
	return b.ResolveReference(h).String()
}
