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
	"log/slog"

	"github.com/poiesic/ideasurf/storage"
)

// Gate decides whether a canonical URL has been ingested before. It
// fails closed: when the store cannot be consulted, the URL is treated
// as seen, so a storage outage can never cause duplicate embedding
// spend. The worst case is a missed item that the next run picks up.
type Gate struct {
	repo   storage.ProjectRepository
	logger *slog.Logger
}

// NewGate creates a dedup gate over the repository.
func NewGate(repo storage.ProjectRepository, logger *slog.Logger) *Gate {
	if logger == nil {
		logger = slog.Default()
	}
	return &Gate{
		repo:   repo,
		logger: logger.With("component", "gate"),
	}
}

// SeenBefore reports whether the canonical URL is already persisted.
func (g *Gate) SeenBefore(ctx context.Context, url string) bool {
	exists, err := g.repo.ExistsByURL(ctx, url)
	if err != nil {
		g.logger.Error("existence check failed, treating as seen", "url", url, "error", err)
		return true
	}
	return exists
}
