package core

import (
	"encoding/binary"
	"strings"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// It is generated by content-based hashing of the canonical URL, so the same
// listing always maps to the same ID regardless of when it was scraped.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// Source identifies the external listing site a record was scraped from.
type Source string

const (
	// SourceYC is the Y Combinator batch directory.
	SourceYC Source = "yc"
	// SourceDevpost is the Devpost featured hackathon-winner search.
	SourceDevpost Source = "devpost"
	// SourceProductHunt is the Product Hunt daily leaderboard.
	SourceProductHunt Source = "producthunt"
	// SourceTopStartups is the topstartups.io curated list.
	SourceTopStartups Source = "topstartups"
)

// Sources lists every supported source tag.
var Sources = []Source{SourceYC, SourceDevpost, SourceProductHunt, SourceTopStartups}

// DefaultSearchSources returns the sources searched when a query does not
// name any explicitly.
func DefaultSearchSources() []Source {
	return []Source{SourceYC, SourceDevpost}
}

// Valid reports whether s is a known source tag.
func (s Source) Valid() bool {
	switch s {
	case SourceYC, SourceDevpost, SourceProductHunt, SourceTopStartups:
		return true
	}
	return false
}

// ParseSource converts a source tag string into a Source. Matching is
// case-insensitive and ignores surrounding whitespace.
func ParseSource(raw string) (Source, error) {
	s := Source(strings.ToLower(strings.TrimSpace(raw)))
	if !s.Valid() {
		return "", ErrUnknownSource
	}
	return s, nil
}

// ProjectRecord is the canonical representation of a scraped project or
// startup listing. Optional fields are pointers: nil means the source did
// not provide the field. An empty string is never stored in an optional
// field.
//
// Records are immutable once persisted. The canonical URL is the sole dedup
// key across the store.
type ProjectRecord struct {
	Id               ID
	Name             string
	ShortDescription *string
	LongDescription  *string
	CanonicalURL     string
	Source           Source
	Tags             []string // normalized set, sorted
	Batch            *string
	Founded          *string
	TeamSize         *string
	Status           *string
	PrimaryPartner   *string
	Location         *string
	Vector           []float32 // embedding vector (populated before persist)
	EmbeddingModel   string    // model tag the vector was produced with
	IngestedAt       time.Time
}

// SearchResult pairs a record with its similarity score for a query.
// Score is a normalized fraction in [0, 1].
type SearchResult struct {
	Record *ProjectRecord
	Score  float32
}
