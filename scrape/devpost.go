package scrape

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/poiesic/ideasurf/core"
)

const (
	// defaultDevpostListing is the featured-project search; winning
	// hackathon projects surface there.
	defaultDevpostListing = "https://devpost.com/software/search?query=is%3Afeatured"

	// maxDevpostPages bounds the listing crawl. The pipeline usually stops
	// earlier, when a page yields nothing new.
	maxDevpostPages = 24
)

// DevpostAdapter scrapes Devpost's project gallery. Listing pages only
// yield project links; every field comes from the detail page.
type DevpostAdapter struct{}

var _ Adapter = (*DevpostAdapter)(nil)

// NewDevpostAdapter creates a Devpost gallery adapter.
func NewDevpostAdapter() *DevpostAdapter {
	return &DevpostAdapter{}
}

func (a *DevpostAdapter) Source() core.Source {
	return core.SourceDevpost
}

// PageURL appends a page parameter to the listing URL. The batch is
// interpreted as a listing URL override; anything that is not an absolute
// URL selects the featured search.
func (a *DevpostAdapter) PageURL(batch string, page int) (string, bool) {
	if page > maxDevpostPages {
		return "", false
	}
	base := batch
	if !strings.HasPrefix(base, "http") {
		base = defaultDevpostListing
	}
	sep := "?"
	if strings.Contains(base, "?") {
		sep = "&"
	}
	return fmt.Sprintf("%s%spage=%d", base, sep, page), true
}

func (a *DevpostAdapter) ListingOptions() []RenderOption {
	return []RenderOption{
		WaitFor("a[href*='/software/']"),
	}
}

func (a *DevpostAdapter) CollectItems(batch string, doc *goquery.Document) []*Item {
	seen := make(map[string]bool)
	var items []*Item
	doc.Find("a[href*='/software/']").Each(func(_ int, anchor *goquery.Selection) {
		href, ok := anchor.Attr("href")
		if !ok {
			return
		}
		href = resolveURL("https://devpost.com/", href)
		if !isProjectURL(href) || seen[href] {
			return
		}
		seen[href] = true
		items = append(items, &Item{
			Locator: href,
			Record: &core.ProjectRecord{
				CanonicalURL: href,
				Source:       core.SourceDevpost,
			},
		})
	})
	return items
}

func (a *DevpostAdapter) NeedsDetail() bool {
	return true
}

func (a *DevpostAdapter) DetailOptions() []RenderOption {
	return []RenderOption{
		WaitFor("h1"),
	}
}

func (a *DevpostAdapter) ExtractDetail(doc *goquery.Document, item *Item) {
	item.Record.Name = FirstText(doc,
		SelectorText("h1#app-title"),
		SelectorText("h1.title"),
		SelectorText("h1"),
	)

	item.Record.ShortDescription = core.OptionalString(FirstText(doc,
		SelectorText("p#app-tagline"),
		SelectorText(".app-tagline"),
		SelectorText(".small.tagline"),
		AttrText("meta[name='description']", "content"),
	))

	item.Record.LongDescription = core.OptionalString(FirstText(doc,
		SectionText("what it does", "what does it do"),
		whatItDoesContainer,
		ParagraphsText("#app-details-left .large-12 p", 8),
		ParagraphsText(".app-details .content p", 8),
		ParagraphsText(".gallery p", 8),
	))

	item.Record.Tags = MergeTags(item.Record.Tags, builtWithTags(doc))
}

// isProjectURL reports whether a URL points at a Devpost project page
// rather than a listing, filter, or built-with page.
func isProjectURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	if u.Host != "devpost.com" && u.Host != "www.devpost.com" {
		return false
	}
	if !strings.HasPrefix(u.Path, "/software/") {
		return false
	}
	var segs []string
	for _, seg := range strings.Split(u.Path, "/") {
		if seg != "" {
			segs = append(segs, seg)
		}
	}
	if len(segs) != 2 {
		return false
	}
	switch segs[1] {
	case "built-with", "search", "popular", "new":
		return false
	}
	return u.RawQuery == ""
}

// whatItDoesContainer reads the "what it does" section when it is exposed
// through container attributes instead of a heading.
func whatItDoesContainer(doc *goquery.Document) string {
	var result string
	selector := "section[id*='what-it-does'], div[id*='what-it-does'], " +
		"[data-section*='what-it-does'], [data-tab*='what-it-does']"
	doc.Find(selector).EachWithBreak(func(_ int, container *goquery.Selection) bool {
		var parts []string
		container.Find("p").Each(func(_ int, p *goquery.Selection) {
			if text := CleanText(p.Text()); text != "" {
				parts = append(parts, text)
			}
		})
		container.Find("li").Each(func(_ int, li *goquery.Selection) {
			if text := CleanText(li.Text()); text != "" {
				parts = append(parts, "• "+text)
			}
		})
		if len(parts) > 0 {
			result = strings.Join(parts, "\n")
			return false
		}
		return true
	})
	return result
}

// builtWithTags collects the project's "Built With" technology tags.
// Anchors into the built-with gallery carry the canonical slug in their
// href; visible text is the fallback.
func builtWithTags(doc *goquery.Document) []string {
	set := make(map[string]bool)
	add := func(raw string) {
		if tag := core.NormalizeTag(raw); tag != "" {
			set[tag] = true
		}
	}

	selectors := []string{
		"section#built-with a", "section#built-with li",
		".built-with a", ".built-with li",
		"ul#built-with a", "ul#built-with li",
		".tags a[href*='/software/built-with/']",
	}
	for _, selector := range selectors {
		doc.Find(selector).Each(func(_ int, el *goquery.Selection) {
			if href, ok := el.Attr("href"); ok && strings.Contains(href, "/software/built-with/") {
				if u, err := url.Parse(href); err == nil {
					if slug := u.Path[strings.LastIndex(u.Path, "/")+1:]; slug != "" {
						add(slug)
						return
					}
				}
			}
			if text := CleanText(el.Text()); text != "" {
				add(text)
			}
		})
	}

	// Heading-based fallback for pages without a built-with container.
	if len(set) == 0 {
		doc.Find("h2, h3").EachWithBreak(func(_ int, h *goquery.Selection) bool {
			if !strings.EqualFold(CleanText(h.Text()), "built with") {
				return true
			}
			for sib := h.Next(); sib.Length() > 0; sib = sib.Next() {
				if isHeading(goquery.NodeName(sib)) {
					break
				}
				sib.Find("a, li, span").Each(func(_ int, el *goquery.Selection) {
					if text := CleanText(el.Text()); text != "" {
						add(text)
					}
				})
			}
			return false
		})
	}

	tags := make([]string, 0, len(set))
	for tag := range set {
		tags = append(tags, tag)
	}
	return core.NormalizeTags(tags)
}
