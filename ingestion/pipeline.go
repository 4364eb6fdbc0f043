// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package ingestion

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/ideasurf/ai"
	"github.com/poiesic/ideasurf/core"
	"github.com/poiesic/ideasurf/scrape"
	"github.com/poiesic/ideasurf/storage"
)

const (
	// defaultPoolSize keeps embedding sequential; providers rate-limit
	// hard and the scraper is the bottleneck anyway.
	defaultPoolSize = 1

	defaultJitterMin = 600 * time.Millisecond
	defaultJitterMax = 1600 * time.Millisecond
)

// Tally counts what happened to the items of one pipeline run.
type Tally struct {
	// Pages is the number of listing pages rendered.
	Pages int `json:"pages"`
	// Collected is the number of distinct items read off listing pages.
	Collected int `json:"collected"`
	// Duplicates is the number of items the dedup gate turned away.
	Duplicates int `json:"duplicates"`
	// Inserted is the number of records embedded and persisted.
	Inserted int `json:"inserted"`
	// Invalid is the number of items that failed validation after
	// extraction.
	Invalid int `json:"invalid"`
	// ItemFailures is the number of items whose detail page could not be
	// rendered.
	ItemFailures int `json:"item_failures"`
	// ProviderFailures is the number of embedding calls that failed.
	ProviderFailures int `json:"provider_failures"`
	// StoreFailures is the number of persist attempts that failed.
	StoreFailures int `json:"store_failures"`
}

// Pipeline ingests one source: walk listing pages, extract items, gate
// out known ones, then embed and persist the rest on a worker pool.
type Pipeline struct {
	repo      storage.ProjectRepository
	embedder  ai.Embedder
	model     string
	gate      *Gate
	pool      *ants.Pool
	pageCap   int
	itemCap   int
	jitterMin time.Duration
	jitterMax time.Duration
	logger    *slog.Logger
}

// PipelineOption configures a Pipeline.
type PipelineOption func(*Pipeline)

// WithPageCap bounds the number of listing pages per run. Zero means no
// cap; adapters still stop at their own page limits.
func WithPageCap(pages int) PipelineOption {
	return func(p *Pipeline) {
		p.pageCap = pages
	}
}

// WithItemCap bounds the number of items processed per run. Zero means
// no cap.
func WithItemCap(items int) PipelineOption {
	return func(p *Pipeline) {
		p.itemCap = items
	}
}

// WithJitter sets the pause range between item visits.
func WithJitter(min, max time.Duration) PipelineOption {
	return func(p *Pipeline) {
		p.jitterMin = min
		p.jitterMax = max
	}
}

// WithPoolSize sets the embed-and-persist worker count.
func WithPoolSize(size int) PipelineOption {
	return func(p *Pipeline) {
		if size > 0 {
			pool, err := ants.NewPool(size)
			if err == nil {
				p.pool.Release()
				p.pool = pool
			}
		}
	}
}

// WithLogger sets the pipeline logger.
func WithLogger(logger *slog.Logger) PipelineOption {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// NewPipeline creates a pipeline writing to repo with vectors from
// embedder. The model tag is stored on every record so searches can
// refuse to compare vectors from different models.
func NewPipeline(repo storage.ProjectRepository, embedder ai.Embedder, model string, opts ...PipelineOption) (*Pipeline, error) {
	if repo == nil {
		return nil, ErrRepositoryRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	pool, err := ants.NewPool(defaultPoolSize)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		repo:      repo,
		embedder:  embedder,
		model:     model,
		pool:      pool,
		jitterMin: defaultJitterMin,
		jitterMax: defaultJitterMax,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.logger = p.logger.With("component", "pipeline")
	p.gate = NewGate(repo, p.logger)

	return p, nil
}

// Close releases the worker pool.
func (p *Pipeline) Close() error {
	p.pool.Release()
	return nil
}

// Run ingests one batch from one source. Pagination stops when the
// adapter runs out of pages, a page yields nothing new, or the page cap
// is hit. The returned tally is complete: Run waits for in-flight embed
// work before returning.
func (p *Pipeline) Run(ctx context.Context, session scrape.Session, adapter scrape.Adapter, batch string) (*Tally, error) {
	tally := &Tally{}
	var mu sync.Mutex
	var wg sync.WaitGroup

	seen := make(map[string]bool)
	logger := p.logger.With("source", adapter.Source(), "batch", batch)

	defer wg.Wait()

	for page := 1; ; page++ {
		if p.pageCap > 0 && page > p.pageCap {
			break
		}
		if ctx.Err() != nil {
			return tally, ctx.Err()
		}

		url, ok := adapter.PageURL(batch, page)
		if !ok {
			break
		}

		doc, err := session.RenderPage(ctx, url, adapter.ListingOptions()...)
		if err != nil {
			if page == 1 {
				return tally, err
			}
			logger.Warn("listing page failed, stopping pagination", "page", page, "error", err)
			break
		}
		tally.Pages++

		novel := 0
		capped := false
		for _, item := range adapter.CollectItems(batch, doc) {
			if ctx.Err() != nil {
				return tally, ctx.Err()
			}
			if seen[item.Locator] {
				continue
			}
			seen[item.Locator] = true
			novel++

			if p.itemCap > 0 && tally.Collected >= p.itemCap {
				capped = true
				break
			}
			tally.Collected++

			p.processItem(ctx, session, adapter, item, tally, &mu, &wg, logger)
			scrape.Jitter(ctx, p.jitterMin, p.jitterMax)
		}

		logger.Info("listing page processed", "page", page, "new_items", novel)
		if novel == 0 || capped {
			break
		}
	}

	wg.Wait()
	logger.Info("ingestion run finished",
		"pages", tally.Pages,
		"collected", tally.Collected,
		"inserted", tally.Inserted,
		"duplicates", tally.Duplicates,
		"invalid", tally.Invalid,
		"item_failures", tally.ItemFailures,
		"provider_failures", tally.ProviderFailures,
		"store_failures", tally.StoreFailures,
	)
	return tally, nil
}

func (p *Pipeline) processItem(ctx context.Context, session scrape.Session, adapter scrape.Adapter, item *scrape.Item, tally *Tally, mu *sync.Mutex, wg *sync.WaitGroup, logger *slog.Logger) {
	if adapter.NeedsDetail() {
		err := session.WithDetail(ctx, item.Locator, func(doc *goquery.Document) error {
			adapter.ExtractDetail(doc, item)
			return nil
		}, adapter.DetailOptions()...)
		if err != nil {
			logger.Warn("detail page failed", "url", item.Locator, "error", err)
			tally.ItemFailures++
			return
		}
	}

	record := item.Record
	record.Tags = core.NormalizeTags(record.Tags)

	if err := core.ValidateProjectRecord(record); err != nil {
		logger.Warn("extracted record invalid", "url", item.Locator, "error", err)
		tally.Invalid++
		return
	}

	record.Id = core.IDFromContent(record.CanonicalURL)

	// Gate before any embedding spend.
	if p.gate.SeenBefore(ctx, record.CanonicalURL) {
		logger.Debug("skipping known item", "url", record.CanonicalURL)
		mu.Lock()
		tally.Duplicates++
		mu.Unlock()
		return
	}

	wg.Add(1)
	task := func() {
		defer wg.Done()
		p.embedAndPersist(ctx, record, tally, mu, logger)
	}
	if err := p.pool.Submit(task); err != nil {
		wg.Done()
		logger.Error("submitting embed task failed", "url", record.CanonicalURL, "error", err)
		tally.ItemFailures++
	}
}

func (p *Pipeline) embedAndPersist(ctx context.Context, record *core.ProjectRecord, tally *Tally, mu *sync.Mutex, logger *slog.Logger) {
	vector, err := p.embedder.EmbedText(ctx, core.CanonicalText(record))
	if err != nil {
		logger.Error("embedding failed", "url", record.CanonicalURL, "error", err)
		mu.Lock()
		tally.ProviderFailures++
		mu.Unlock()
		return
	}
	record.Vector = vector
	record.EmbeddingModel = p.model

	if err := p.repo.AddProjectRecords(ctx, record); err != nil {
		mu.Lock()
		defer mu.Unlock()
		if errors.Is(err, storage.ErrDuplicateKey) {
			// A concurrent run won the race; the record is stored.
			tally.Duplicates++
			return
		}
		logger.Error("persisting record failed", "url", record.CanonicalURL, "error", err)
		tally.StoreFailures++
		return
	}

	mu.Lock()
	tally.Inserted++
	mu.Unlock()
	logger.Info("ingested project", "name", record.Name, "url", record.CanonicalURL)
}
