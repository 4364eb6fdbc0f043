package ingestion

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/poiesic/ideasurf/ai/mock"
	"github.com/poiesic/ideasurf/core"
	"github.com/poiesic/ideasurf/scrape"
	"github.com/poiesic/ideasurf/storage"
	badgerstore "github.com/poiesic/ideasurf/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubSession serves the page number back as a document title so the
// stub adapter knows which listing page it is looking at.
type stubSession struct {
	renderErr map[string]error
	detailErr map[string]error
	rendered  []string
}

var _ scrape.Session = (*stubSession)(nil)

func (s *stubSession) RenderPage(ctx context.Context, url string, opts ...scrape.RenderOption) (*goquery.Document, error) {
	if err := s.renderErr[url]; err != nil {
		return nil, err
	}
	s.rendered = append(s.rendered, url)
	html := fmt.Sprintf("<html><head><title>%s</title></head><body></body></html>", url)
	return goquery.NewDocumentFromReader(strings.NewReader(html))
}

func (s *stubSession) WithDetail(ctx context.Context, url string, fn func(doc *goquery.Document) error, opts ...scrape.RenderOption) error {
	if err := s.detailErr[url]; err != nil {
		return err
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader("<html><body></body></html>"))
	if err != nil {
		return err
	}
	return fn(doc)
}

func (s *stubSession) Close() error {
	return nil
}

// stubAdapter emits canned items per listing page. Records are built
// fresh on every CollectItems call, as real adapters do.
type stubAdapter struct {
	pages       [][]string // page -> item names
	invalid     map[string]bool
	needsDetail bool
}

var _ scrape.Adapter = (*stubAdapter)(nil)

func (a *stubAdapter) Source() core.Source { return core.SourceYC }

func (a *stubAdapter) PageURL(batch string, page int) (string, bool) {
	if page > len(a.pages) {
		return "", false
	}
	return fmt.Sprintf("page-%d", page), true
}

func (a *stubAdapter) ListingOptions() []scrape.RenderOption { return nil }

func (a *stubAdapter) CollectItems(batch string, doc *goquery.Document) []*scrape.Item {
	var page int
	fmt.Sscanf(doc.Find("title").Text(), "page-%d", &page)

	var items []*scrape.Item
	for _, name := range a.pages[page-1] {
		url := "https://example.com/" + name
		record := &core.ProjectRecord{
			Name:         name,
			CanonicalURL: url,
			Source:       core.SourceYC,
		}
		if a.invalid[name] {
			record.Name = ""
		}
		items = append(items, &scrape.Item{Locator: url, Record: record})
	}
	return items
}

func (a *stubAdapter) NeedsDetail() bool                    { return a.needsDetail }
func (a *stubAdapter) DetailOptions() []scrape.RenderOption { return nil }
func (a *stubAdapter) ExtractDetail(doc *goquery.Document, item *scrape.Item) {
}

// erroringRepo fails every existence check.
type erroringRepo struct {
	storage.ProjectRepository
	err error
}

func (r *erroringRepo) ExistsByURL(ctx context.Context, url string) (bool, error) {
	return false, r.err
}

func newTestPipeline(t *testing.T, repo storage.ProjectRepository, embedder *mock.MockEmbedder) *Pipeline {
	t.Helper()
	p, err := NewPipeline(repo, embedder, "mock-model", WithJitter(0, 0))
	require.NoError(t, err)
	t.Cleanup(func() { p.Close() })
	return p
}

func TestPipelineRunIngestsAndIsIdempotent(t *testing.T) {
	repo, backend, err := badgerstore.NewMemoryRepository()
	require.NoError(t, err)
	defer backend.Close()

	embedder := mock.NewMockEmbedder()
	pipeline := newTestPipeline(t, repo, embedder)

	adapter := &stubAdapter{pages: [][]string{{"alpha", "beta", "gamma"}}}
	ctx := context.Background()

	tally, err := pipeline.Run(ctx, &stubSession{}, adapter, "Fall 2025")
	require.NoError(t, err)
	assert.Equal(t, 1, tally.Pages)
	assert.Equal(t, 3, tally.Collected)
	assert.Equal(t, 3, tally.Inserted)
	assert.Equal(t, 0, tally.Duplicates)

	count, err := repo.CountBySource(ctx, core.SourceYC)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	// Second run over identical listings: every item hits the gate and
	// the provider is never called again.
	callsAfterFirst := embedder.CallCount()
	tally, err = pipeline.Run(ctx, &stubSession{}, adapter, "Fall 2025")
	require.NoError(t, err)
	assert.Equal(t, 3, tally.Duplicates)
	assert.Equal(t, 0, tally.Inserted)
	assert.Equal(t, callsAfterFirst, embedder.CallCount())

	count, err = repo.CountBySource(ctx, core.SourceYC)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestPipelineStoresEmbeddingMetadata(t *testing.T) {
	repo, backend, err := badgerstore.NewMemoryRepository()
	require.NoError(t, err)
	defer backend.Close()

	embedder := mock.NewMockEmbedder()
	pipeline := newTestPipeline(t, repo, embedder)
	adapter := &stubAdapter{pages: [][]string{{"alpha"}}}

	_, err = pipeline.Run(context.Background(), &stubSession{}, adapter, "")
	require.NoError(t, err)

	record, err := repo.GetProjectRecord(context.Background(), core.IDFromContent("https://example.com/alpha"))
	require.NoError(t, err)
	assert.Equal(t, "mock-model", record.EmbeddingModel)
	assert.NotEmpty(t, record.Vector)
	assert.False(t, record.IngestedAt.IsZero())
}

func TestPipelineStopsOnStaleListingPage(t *testing.T) {
	repo, backend, err := badgerstore.NewMemoryRepository()
	require.NoError(t, err)
	defer backend.Close()

	pipeline := newTestPipeline(t, repo, mock.NewMockEmbedder())

	// Page 3 repeats page 2; pagination must stop there and never
	// request page 4.
	adapter := &stubAdapter{pages: [][]string{
		{"alpha", "beta"},
		{"gamma"},
		{"gamma"},
		{"delta"},
	}}
	session := &stubSession{}

	tally, err := pipeline.Run(context.Background(), session, adapter, "")
	require.NoError(t, err)
	assert.Equal(t, 3, tally.Pages)
	assert.Equal(t, 3, tally.Collected)
	assert.NotContains(t, session.rendered, "page-4")
}

func TestPipelinePageCap(t *testing.T) {
	repo, backend, err := badgerstore.NewMemoryRepository()
	require.NoError(t, err)
	defer backend.Close()

	embedder := mock.NewMockEmbedder()
	p, err := NewPipeline(repo, embedder, "mock-model", WithJitter(0, 0), WithPageCap(2))
	require.NoError(t, err)
	defer p.Close()

	adapter := &stubAdapter{pages: [][]string{{"a"}, {"b"}, {"c"}}}
	tally, err := p.Run(context.Background(), &stubSession{}, adapter, "")
	require.NoError(t, err)
	assert.Equal(t, 2, tally.Pages)
	assert.Equal(t, 2, tally.Inserted)
}

func TestPipelineItemCap(t *testing.T) {
	repo, backend, err := badgerstore.NewMemoryRepository()
	require.NoError(t, err)
	defer backend.Close()

	embedder := mock.NewMockEmbedder()
	p, err := NewPipeline(repo, embedder, "mock-model", WithJitter(0, 0), WithItemCap(2))
	require.NoError(t, err)
	defer p.Close()

	adapter := &stubAdapter{pages: [][]string{{"a", "b", "c", "d"}}}
	tally, err := p.Run(context.Background(), &stubSession{}, adapter, "")
	require.NoError(t, err)
	assert.Equal(t, 2, tally.Collected)
	assert.Equal(t, 2, tally.Inserted)
}

func TestPipelineCountsInvalidItems(t *testing.T) {
	repo, backend, err := badgerstore.NewMemoryRepository()
	require.NoError(t, err)
	defer backend.Close()

	pipeline := newTestPipeline(t, repo, mock.NewMockEmbedder())
	adapter := &stubAdapter{
		pages:   [][]string{{"good", "broken"}},
		invalid: map[string]bool{"broken": true},
	}

	tally, err := pipeline.Run(context.Background(), &stubSession{}, adapter, "")
	require.NoError(t, err)
	assert.Equal(t, 1, tally.Inserted)
	assert.Equal(t, 1, tally.Invalid)
}

func TestPipelineCountsDetailFailures(t *testing.T) {
	repo, backend, err := badgerstore.NewMemoryRepository()
	require.NoError(t, err)
	defer backend.Close()

	pipeline := newTestPipeline(t, repo, mock.NewMockEmbedder())
	adapter := &stubAdapter{pages: [][]string{{"alpha", "beta"}}, needsDetail: true}
	session := &stubSession{detailErr: map[string]error{
		"https://example.com/beta": errors.New("tab crashed"),
	}}

	tally, err := pipeline.Run(context.Background(), session, adapter, "")
	require.NoError(t, err)
	assert.Equal(t, 1, tally.Inserted)
	assert.Equal(t, 1, tally.ItemFailures)
}

func TestPipelineCountsProviderFailures(t *testing.T) {
	repo, backend, err := badgerstore.NewMemoryRepository()
	require.NoError(t, err)
	defer backend.Close()

	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		return nil, errors.New("provider unavailable")
	}
	pipeline := newTestPipeline(t, repo, embedder)
	adapter := &stubAdapter{pages: [][]string{{"alpha"}}}

	tally, err := pipeline.Run(context.Background(), &stubSession{}, adapter, "")
	require.NoError(t, err)
	assert.Equal(t, 0, tally.Inserted)
	assert.Equal(t, 1, tally.ProviderFailures)

	count, err := repo.CountBySource(context.Background(), core.SourceYC)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestPipelineGateFailureSkipsEmbedding(t *testing.T) {
	repo, backend, err := badgerstore.NewMemoryRepository()
	require.NoError(t, err)
	defer backend.Close()

	embedder := mock.NewMockEmbedder()
	broken := &erroringRepo{ProjectRepository: repo, err: errors.New("store is down")}
	pipeline := newTestPipeline(t, broken, embedder)
	adapter := &stubAdapter{pages: [][]string{{"alpha"}}}

	tally, err := pipeline.Run(context.Background(), &stubSession{}, adapter, "")
	require.NoError(t, err)
	assert.Equal(t, 1, tally.Duplicates)
	assert.Equal(t, 0, tally.Inserted)
	assert.Equal(t, 0, embedder.CallCount())
}

func TestPipelineFirstPageRenderErrorFails(t *testing.T) {
	repo, backend, err := badgerstore.NewMemoryRepository()
	require.NoError(t, err)
	defer backend.Close()

	pipeline := newTestPipeline(t, repo, mock.NewMockEmbedder())
	adapter := &stubAdapter{pages: [][]string{{"alpha"}}}
	session := &stubSession{renderErr: map[string]error{
		"page-1": errors.New("navigation failed"),
	}}

	_, err = pipeline.Run(context.Background(), session, adapter, "")
	assert.Error(t, err)
}
