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


package ideasurf

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/poiesic/ideasurf/ai"
	"github.com/poiesic/ideasurf/ai/openai"
	"github.com/poiesic/ideasurf/core"
	"github.com/poiesic/ideasurf/ingestion"
	"github.com/poiesic/ideasurf/scrape"
	"github.com/poiesic/ideasurf/scrape/chromedp"
	"github.com/poiesic/ideasurf/search"
	"github.com/poiesic/ideasurf/storage"
	"github.com/poiesic/ideasurf/storage/badger"
)

// Database wires the project store to an embedding provider and exposes
// the ingestion and search entry points.
type Database struct {
	backend  *badger.Backend
	repo     storage.ProjectRepository
	embedder ai.Embedder
	aiConfig *ai.Config
	headless bool
	logger   *slog.Logger
}

// DatabaseOption configures a Database.
type DatabaseOption func(*databaseOptions)

type databaseOptions struct {
	aiConfig *ai.Config
	headless bool
}

// WithAIConfig sets the embedding provider configuration.
func WithAIConfig(config *ai.Config) DatabaseOption {
	return func(o *databaseOptions) {
		o.aiConfig = config
	}
}

// WithHeadlessBrowser toggles headless mode for scrape sessions.
func WithHeadlessBrowser(headless bool) DatabaseOption {
	return func(o *databaseOptions) {
		o.headless = headless
	}
}

// NewDatabase opens the store at filePath and connects the embedding
// provider.
func NewDatabase(filePath string, opts ...DatabaseOption) (*Database, error) {
	options := &databaseOptions{
		aiConfig: ai.DefaultConfig(),
		headless: true,
	}
	for _, opt := range opts {
		opt(options)
	}

	backend, err := badger.OpenBackend(filePath, false)
	if err != nil {
		return nil, err
	}
	repo := badger.NewProjectRepository(backend)

	embedder, err := openai.NewEmbedder(options.aiConfig)
	if err != nil {
		backend.Close()
		return nil, err
	}

	return &Database{
		backend:  backend,
		repo:     repo,
		embedder: embedder,
		aiConfig: options.aiConfig,
		headless: options.headless,
		logger:   slog.Default(),
	}, nil
}

// Close releases storage resources.
func (db *Database) Close() error {
	if err := db.repo.Close(); err != nil {
		db.logger.Error("error closing project repository", "err", err)
		return err
	}
	if err := db.backend.Close(); err != nil {
		db.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

// ProjectRepository exposes the underlying store.
func (db *Database) ProjectRepository() storage.ProjectRepository {
	return db.repo
}

// NewIngestionPipeline creates a pipeline writing to this database.
func (db *Database) NewIngestionPipeline(opts ...ingestion.PipelineOption) (*ingestion.Pipeline, error) {
	return ingestion.NewPipeline(db.repo, db.embedder, db.aiConfig.Model, opts...)
}

// NewSearcher creates a searcher over this database.
func (db *Database) NewSearcher(opts ...search.SearcherOption) (*search.Searcher, error) {
	return search.NewSearcher(db.repo, db.embedder, db.aiConfig.Model, opts...)
}

// Scrape runs the source's adapter over the given batches in a fresh
// browser session and ingests what it finds. It implements
// server.Ingestor. One failed batch does not stop the rest; the error
// returned reflects the last batch failure, if any.
func (db *Database) Scrape(ctx context.Context, source core.Source, batches []string) ([]*ingestion.Tally, error) {
	adapter, err := scrape.ForSource(source)
	if err != nil {
		return nil, err
	}

	session, err := chromedp.NewSession(chromedp.WithHeadless(db.headless))
	if err != nil {
		return nil, fmt.Errorf("starting browser session: %w", err)
	}
	defer session.Close()

	pipeline, err := db.NewIngestionPipeline()
	if err != nil {
		return nil, err
	}
	defer pipeline.Close()

	var tallies []*ingestion.Tally
	var lastErr error
	for _, batch := range batches {
		tally, err := pipeline.Run(ctx, session, adapter, batch)
		if err != nil {
			db.logger.Error("scrape batch failed", "source", source, "batch", batch, "err", err)
			lastErr = err
		}
		if tally != nil {
			tallies = append(tallies, tally)
		}
		if ctx.Err() != nil {
			return tallies, ctx.Err()
		}
	}
	return tallies, lastErr
}
