package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIDFromContent(t *testing.T) {
	id1 := IDFromContent("https://devpost.com/software/example")
	id2 := IDFromContent("https://devpost.com/software/example")
	id3 := IDFromContent("https://devpost.com/software/other")

	assert.Equal(t, id1, id2, "identical content must produce identical IDs")
	assert.NotEqual(t, id1, id3)
	assert.NotZero(t, id1)
}

func TestParseSource(t *testing.T) {
	for _, s := range Sources {
		parsed, err := ParseSource(string(s))
		require.NoError(t, err)
		assert.Equal(t, s, parsed)
	}

	_, err := ParseSource("myspace")
	assert.ErrorIs(t, err, ErrUnknownSource)
}

func TestCanonicalTextDeterminism(t *testing.T) {
	record := &ProjectRecord{
		Name:             "NoteTaker",
		ShortDescription: OptionalString("AI note-taking app"),
		CanonicalURL:     "https://example.com/notetaker",
		Source:           SourceYC,
		Tags:             []string{"ai", "productivity"},
		Batch:            OptionalString("Fall 2025"),
	}

	text := CanonicalText(record)
	assert.Equal(t, text, CanonicalText(record), "canonical text must be deterministic")
	assert.Equal(t,
		"Project name: NoteTaker\n"+
			"Short description: AI note-taking app\n"+
			"Long description: \n"+
			"Tags: ai, productivity\n"+
			"Batch: Fall 2025\n"+
			"Source: yc",
		text)
}

func TestCanonicalTextAbsentFields(t *testing.T) {
	record := &ProjectRecord{
		Name:         "Bare",
		CanonicalURL: "https://example.com/bare",
		Source:       SourceDevpost,
	}

	text := CanonicalText(record)
	assert.NotContains(t, text, "<nil>")
	assert.Contains(t, text, "Long description: \n")
}

func TestProjectRecordSerializationRoundTrip(t *testing.T) {
	record := ProjectRecord{
		Id:               IDFromContent("https://example.com/p"),
		Name:             "Example",
		ShortDescription: OptionalString("short"),
		CanonicalURL:     "https://example.com/p",
		Source:           SourceProductHunt,
		Tags:             []string{"ai", "saas"},
		Batch:            OptionalString("20251110"),
		TeamSize:         OptionalString("11-50"),
		Vector:           []float32{0.25, -1.5, 0, 3.25},
		EmbeddingModel:   "text-embedding-3-small",
		IngestedAt:       time.Now().UTC().Truncate(time.Microsecond),
	}

	buf := make([]byte, ProjectRecordMUS.Size(record))
	n := ProjectRecordMUS.Marshal(record, buf)
	require.Equal(t, len(buf), n)

	decoded, n, err := ProjectRecordMUS.Unmarshal(buf)
	require.NoError(t, err)
	assert.Equal(t, len(buf), n)
	assert.Equal(t, record.Id, decoded.Id)
	assert.Equal(t, record.Name, decoded.Name)
	assert.Equal(t, record.ShortDescription, decoded.ShortDescription)
	assert.Nil(t, decoded.LongDescription)
	assert.Equal(t, record.CanonicalURL, decoded.CanonicalURL)
	assert.Equal(t, record.Source, decoded.Source)
	assert.Equal(t, record.Tags, decoded.Tags)
	assert.Equal(t, record.Vector, decoded.Vector)
	assert.Equal(t, record.EmbeddingModel, decoded.EmbeddingModel)
	assert.True(t, record.IngestedAt.Equal(decoded.IngestedAt))
}
