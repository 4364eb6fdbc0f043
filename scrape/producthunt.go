package scrape

import (
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/poiesic/ideasurf/core"
)

const productHuntBaseURL = "https://www.producthunt.com"

// ProductHuntAdapter scrapes a Product Hunt daily leaderboard. The batch
// is the leaderboard date in 2006-01-02 form; an unparseable batch falls
// back to yesterday's board, the most recent one that is complete.
type ProductHuntAdapter struct{}

var _ Adapter = (*ProductHuntAdapter)(nil)

// NewProductHuntAdapter creates a Product Hunt leaderboard adapter.
func NewProductHuntAdapter() *ProductHuntAdapter {
	return &ProductHuntAdapter{}
}

func (a *ProductHuntAdapter) Source() core.Source {
	return core.SourceProductHunt
}

func (a *ProductHuntAdapter) PageURL(batch string, page int) (string, bool) {
	if page > 1 {
		return "", false
	}
	day := leaderboardDay(batch)
	return fmt.Sprintf("%s/leaderboard/daily/%04d/%02d/%02d",
		productHuntBaseURL, day.Year(), day.Month(), day.Day()), true
}

func (a *ProductHuntAdapter) ListingOptions() []RenderOption {
	return []RenderOption{
		WaitFor("main"),
	}
}

func (a *ProductHuntAdapter) CollectItems(batch string, doc *goquery.Document) []*Item {
	day := leaderboardDay(batch).Format("20060102")
	seen := make(map[string]bool)
	var items []*Item
	doc.Find("a[href*='/products/']").Each(func(_ int, anchor *goquery.Selection) {
		href, ok := anchor.Attr("href")
		if !ok || strings.Contains(href, "#") {
			return
		}
		link := resolveURL(productHuntBaseURL, href)
		if seen[link] {
			return
		}
		seen[link] = true
		items = append(items, &Item{
			Locator: link,
			Record: &core.ProjectRecord{
				CanonicalURL: link,
				Source:       core.SourceProductHunt,
				Batch:        core.OptionalString(day),
			},
		})
	})
	return items
}

func (a *ProductHuntAdapter) NeedsDetail() bool {
	return true
}

func (a *ProductHuntAdapter) DetailOptions() []RenderOption {
	return []RenderOption{
		WaitFor("h1"),
	}
}

func (a *ProductHuntAdapter) ExtractDetail(doc *goquery.Document, item *Item) {
	item.Record.Name = FirstText(doc, SelectorText("h1"))
	item.Record.ShortDescription = core.OptionalString(FirstText(doc, SelectorText("h2")))
	item.Record.LongDescription = core.OptionalString(FirstText(doc,
		ParagraphsText("main p", 8),
	))
	item.Record.Tags = MergeTags(item.Record.Tags, launchTags(doc))

	// Products are identified by where they live, not by their launch
	// page. The outbound product link carries a ref=producthunt marker;
	// the launch page remains the fallback identity.
	if external := externalProductURL(doc); external != "" {
		item.Record.CanonicalURL = external
	}
}

// launchTags reads the launch-tag topics, falling back to any topic link
// on the page when the tag container is missing.
func launchTags(doc *goquery.Document) []string {
	collect := func(selector string) []string {
		var tags []string
		doc.Find(selector).Each(func(_ int, anchor *goquery.Selection) {
			if tag := CleanText(anchor.Text()); tag != "" {
				tags = append(tags, strings.ToLower(tag))
			}
		})
		return tags
	}

	tags := collect("[data-test='launch-tags'] a[href*='/topics/']")
	if len(tags) == 0 {
		tags = collect("a[href*='/topics/']")
	}
	return tags
}

// externalProductURL finds the product's own site link.
func externalProductURL(doc *goquery.Document) string {
	var external string
	doc.Find("a").EachWithBreak(func(_ int, anchor *goquery.Selection) bool {
		href, ok := anchor.Attr("href")
		if !ok {
			return true
		}
		if strings.Contains(href, "ref=producthunt") && !strings.Contains(href, "producthunt.com") {
			external = href
			return false
		}
		return true
	})
	return external
}

func leaderboardDay(batch string) time.Time {
	if day, err := time.Parse("2006-01-02", batch); err == nil {
		return day
	}
	return time.Now().UTC().AddDate(0, 0, -1)
}
