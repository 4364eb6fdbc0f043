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


package search

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/poiesic/ideasurf/ai"
	"github.com/poiesic/ideasurf/core"
	"github.com/poiesic/ideasurf/storage"
)

const (
	// DefaultLimit is the result count when the caller doesn't specify
	// one.
	DefaultLimit = 5

	defaultMinSimilarity = 0.0
)

// Searcher embeds query text and finds similar project records.
type Searcher struct {
	repo          storage.ProjectRepository
	embedder      ai.Embedder
	model         string
	minSimilarity float32
	logger        *slog.Logger
}

// SearcherOption configures a Searcher.
type SearcherOption func(*Searcher)

// WithMinSimilarity sets the similarity floor for results.
func WithMinSimilarity(min float32) SearcherOption {
	return func(s *Searcher) {
		s.minSimilarity = min
	}
}

// WithLogger sets the searcher logger.
func WithLogger(logger *slog.Logger) SearcherOption {
	return func(s *Searcher) {
		s.logger = logger
	}
}

// NewSearcher creates a searcher. The model tag must match the one the
// ingestion pipeline stores, or every record will be filtered out as
// incomparable.
func NewSearcher(repo storage.ProjectRepository, embedder ai.Embedder, model string, opts ...SearcherOption) (*Searcher, error) {
	if repo == nil {
		return nil, ErrRepositoryRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	s := &Searcher{
		repo:          repo,
		embedder:      embedder,
		model:         model,
		minSimilarity: defaultMinSimilarity,
		logger:        slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("component", "search")

	return s, nil
}

// Search embeds the query and returns up to limit records from the given
// sources, most similar first. Empty sources select the default source
// set; limit <= 0 selects DefaultLimit.
func (s *Searcher) Search(ctx context.Context, query string, sources []core.Source, limit int) ([]*core.SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	if len(sources) == 0 {
		sources = core.DefaultSearchSources()
	}
	for _, source := range sources {
		if !source.Valid() {
			return nil, fmt.Errorf("%w: %q", core.ErrUnknownSource, source)
		}
	}

	vector, err := s.embedder.EmbedText(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	results, err := s.repo.FindSimilar(ctx, vector, s.model, sources, s.minSimilarity, limit)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("search complete", "query", query, "sources", sources, "results", len(results))
	return results, nil
}
