package ingestion

import (
	"context"
	"errors"
	"testing"

	"github.com/poiesic/ideasurf/core"
	badgerstore "github.com/poiesic/ideasurf/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGateSeenBefore(t *testing.T) {
	repo, backend, err := badgerstore.NewMemoryRepository()
	require.NoError(t, err)
	defer backend.Close()

	ctx := context.Background()
	gate := NewGate(repo, nil)

	assert.False(t, gate.SeenBefore(ctx, "https://acme.example.com"))

	record := &core.ProjectRecord{
		Name:           "Acme",
		CanonicalURL:   "https://acme.example.com",
		Source:         core.SourceYC,
		Vector:         []float32{1, 0},
		EmbeddingModel: "test",
	}
	require.NoError(t, repo.AddProjectRecords(ctx, record))

	assert.True(t, gate.SeenBefore(ctx, "https://acme.example.com"))
	assert.False(t, gate.SeenBefore(ctx, "https://other.example.com"))
}

func TestGateFailsClosed(t *testing.T) {
	gate := NewGate(&erroringRepo{err: errors.New("store is down")}, nil)

	// An unreachable store must read as "seen": no embedding spend on
	// items we cannot vouch for.
	assert.True(t, gate.SeenBefore(context.Background(), "https://acme.example.com"))
}
