package scrape

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/poiesic/ideasurf/core"
)

const ycBaseURL = "https://www.ycombinator.com"

// YCAdapter scrapes the Y Combinator company directory. The directory is
// a single filtered page per batch; the per-company page carries the long
// description and the founded/batch/team-size info rows.
type YCAdapter struct{}

var _ Adapter = (*YCAdapter)(nil)

// NewYCAdapter creates a Y Combinator directory adapter.
func NewYCAdapter() *YCAdapter {
	return &YCAdapter{}
}

func (a *YCAdapter) Source() core.Source {
	return core.SourceYC
}

// PageURL filters the directory by batch name, e.g. "Fall 2025".
func (a *YCAdapter) PageURL(batch string, page int) (string, bool) {
	if page > 1 {
		return "", false
	}
	return ycBaseURL + "/companies?batch=" + strings.ReplaceAll(batch, " ", "%20"), true
}

func (a *YCAdapter) ListingOptions() []RenderOption {
	return []RenderOption{
		WaitFor("a[class*='company_']"),
		ScrollToBottom(),
	}
}

func (a *YCAdapter) CollectItems(batch string, doc *goquery.Document) []*Item {
	var items []*Item
	doc.Find("a[class*='company_']").Each(func(_ int, card *goquery.Selection) {
		href, ok := card.Attr("href")
		if !ok {
			return
		}
		link := resolveURL(ycBaseURL, href)

		name := CleanText(card.Find("span[class*='_coName']").First().Text())
		if name == "" {
			// Class names are build artifacts; fall back to the card's
			// first text line.
			name = firstLine(card.Text())
		}

		location := CleanText(card.Find("span[class*='_coLocation']").First().Text())

		short := CleanText(card.Find("div.mb-1\\.5.text-sm span").First().Text())
		if short == "" {
			short = CleanText(card.Find("div[class*='text-sm'] span").First().Text())
		}

		var tags []string
		card.Find("div[class*='pillWrapper'] span[class*='pill']").Each(func(_ int, pill *goquery.Selection) {
			if tag := CleanText(pill.Text()); tag != "" {
				tags = append(tags, tag)
			}
		})

		items = append(items, &Item{
			Locator: link,
			Record: &core.ProjectRecord{
				Name:             name,
				ShortDescription: core.OptionalString(short),
				CanonicalURL:     link,
				Source:           core.SourceYC,
				Tags:             tags,
				Batch:            core.OptionalString(batch),
				Location:         core.OptionalString(location),
			},
		})
	})
	return items
}

func (a *YCAdapter) NeedsDetail() bool {
	return true
}

func (a *YCAdapter) DetailOptions() []RenderOption {
	return []RenderOption{
		WaitFor("div.prose.max-w-full.whitespace-pre-line"),
	}
}

func (a *YCAdapter) ExtractDetail(doc *goquery.Document, item *Item) {
	long := strings.TrimSpace(doc.Find("div.prose.max-w-full.whitespace-pre-line").First().Text())
	item.Record.LongDescription = core.OptionalString(long)

	// Info rows are label/value pairs: Founded, Batch, Team Size, Status,
	// Primary Partner.
	doc.Find("div.flex.flex-row.justify-between").Each(func(_ int, row *goquery.Selection) {
		label := strings.TrimSuffix(strings.ToLower(CleanText(row.Find("span").First().Text())), ":")
		if label == "" {
			return
		}
		value := core.OptionalString(CleanText(row.Find("span:not(:first-child), a").First().Text()))
		switch {
		case strings.Contains(label, "founded"):
			item.Record.Founded = value
		case strings.Contains(label, "batch"):
			item.Record.Batch = value
		case strings.Contains(label, "team size"):
			item.Record.TeamSize = value
		case strings.Contains(label, "status"):
			item.Record.Status = value
		case strings.Contains(label, "primary partner"):
			item.Record.PrimaryPartner = value
		}
	})
}
