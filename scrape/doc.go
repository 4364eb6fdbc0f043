// Package scrape collects startup and project listings from public
// directory sites and maps them onto project records.
//
// A Session renders JavaScript-heavy pages into goquery documents; the
// chromedp subpackage provides the headless-browser implementation. An
// Adapter knows one site: how to build listing URLs, what to wait for
// before the page is usable, how to read listing cards, and how to pull
// the remaining fields from a detail page.
//
// Field extraction is fallback-driven. Listing sites change their markup
// without notice, so every field is read through an ordered chain of
// strategies and the first non-empty result wins.
package scrape
