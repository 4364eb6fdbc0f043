package ideasurf

import (
	"testing"

	"github.com/poiesic/ideasurf/ai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDatabase(t *testing.T) {
	db, err := NewDatabase(t.TempDir(), WithAIConfig(ai.NewConfig(
		ai.WithHost("http://localhost:11434"),
		ai.WithModel("embeddinggemma"),
	)))
	require.NoError(t, err)
	defer db.Close()

	assert.NotNil(t, db.ProjectRepository())

	searcher, err := db.NewSearcher()
	require.NoError(t, err)
	assert.NotNil(t, searcher)

	pipeline, err := db.NewIngestionPipeline()
	require.NoError(t, err)
	require.NoError(t, pipeline.Close())
}
