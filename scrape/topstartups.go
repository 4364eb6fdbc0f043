package scrape

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/poiesic/ideasurf/core"
)

const topStartupsURL = "https://topstartups.io/"

// TopStartupsAdapter scrapes the TopStartups index. Everything lives on a
// single infinite-scroll page behind a "show more" button, and the cards
// carry every field, so no detail visits are needed.
type TopStartupsAdapter struct{}

var _ Adapter = (*TopStartupsAdapter)(nil)

// NewTopStartupsAdapter creates a TopStartups adapter.
func NewTopStartupsAdapter() *TopStartupsAdapter {
	return &TopStartupsAdapter{}
}

func (a *TopStartupsAdapter) Source() core.Source {
	return core.SourceTopStartups
}

func (a *TopStartupsAdapter) PageURL(batch string, page int) (string, bool) {
	if page > 1 {
		return "", false
	}
	return topStartupsURL, true
}

func (a *TopStartupsAdapter) ListingOptions() []RenderOption {
	return []RenderOption{
		WaitFor("div.infinite-item"),
		ScrollToBottom(),
		Click("#load-button"),
	}
}

func (a *TopStartupsAdapter) CollectItems(batch string, doc *goquery.Document) []*Item {
	var items []*Item
	doc.Find("div.col-12.col-md-6.col-xl-4.infinite-item").Each(func(_ int, wrap *goquery.Selection) {
		card := wrap.Find("div.card.card-body").First()

		nameLink := card.Find("h3 a#startup-website-link").First()
		name := CleanText(nameLink.Text())
		href, ok := nameLink.Attr("href")
		if !ok || name == "" {
			return
		}

		// The description paragraph starts with a "What they do:" header
		// span.
		var short string
		card.Find("p").EachWithBreak(func(_ int, p *goquery.Selection) bool {
			if p.Find("#card-header").Length() == 0 {
				return true
			}
			short = strings.TrimSpace(strings.TrimPrefix(CleanText(p.Text()), "What they do:"))
			return false
		})

		var tags []string
		card.Find("span#industry-tags, span#funding-tags").Each(func(_ int, tag *goquery.Selection) {
			if text := CleanText(tag.Text()); text != "" {
				tags = append(tags, text)
			}
		})

		teamSize := CleanText(card.Find("span#company-size-tags").First().Text())

		var location, founded string
		card.Find("#item-card-filter p").Each(func(_ int, p *goquery.Selection) {
			for _, line := range strings.Split(p.Text(), "\n") {
				line = CleanText(line)
				switch {
				case strings.Contains(line, "Founded"):
					fields := strings.Fields(line)
					founded = fields[len(fields)-1]
				case strings.Contains(line, "HQ:"):
					location = strings.TrimSpace(line[strings.Index(line, ":")+1:])
				}
			}
		})

		items = append(items, &Item{
			Locator: href,
			Record: &core.ProjectRecord{
				Name:             name,
				ShortDescription: core.OptionalString(short),
				CanonicalURL:     href,
				Source:           core.SourceTopStartups,
				Tags:             tags,
				Founded:          core.OptionalString(founded),
				TeamSize:         core.OptionalString(teamSize),
				Location:         core.OptionalString(location),
			},
		})
	})
	return items
}

func (a *TopStartupsAdapter) NeedsDetail() bool {
	return false
}

func (a *TopStartupsAdapter) DetailOptions() []RenderOption {
	return nil
}

func (a *TopStartupsAdapter) ExtractDetail(doc *goquery.Document, item *Item) {}
