// Package ingestion runs scraped items through dedup, embedding, and
// persistence.
//
// The Pipeline walks an adapter's listing pages, collects items, fills
// them from detail pages, and hands novel items to a worker pool that
// embeds and stores them. The Gate in front of the pool keeps known
// items from ever reaching the embedding provider.
package ingestion
