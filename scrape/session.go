package scrape

import (
	"context"

	"github.com/PuerkitoBio/goquery"
)

// RenderPlan describes what a page needs before its DOM is worth reading.
type RenderPlan struct {
	// WaitSelector, when set, is waited on before the DOM is captured.
	// The wait is best-effort: an element that never appears does not
	// fail the render.
	WaitSelector string

	// ScrollToBottom repeatedly scrolls the page until its height stops
	// growing, forcing infinite-scroll listings to load everything.
	ScrollToBottom bool

	// ClickSelector, when set, is clicked after scrolling (a "show more"
	// button). A missing element is not an error.
	ClickSelector string
}

// RenderOption configures a RenderPlan.
type RenderOption func(*RenderPlan)

// WaitFor waits for the selector before capturing the DOM.
func WaitFor(selector string) RenderOption {
	return func(p *RenderPlan) {
		p.WaitSelector = selector
	}
}

// ScrollToBottom scrolls until the page height stops growing.
func ScrollToBottom() RenderOption {
	return func(p *RenderPlan) {
		p.ScrollToBottom = true
	}
}

// Click clicks the selector after any scrolling, then scrolls again if
// scrolling was requested.
func Click(selector string) RenderOption {
	return func(p *RenderPlan) {
		p.ClickSelector = selector
	}
}

// NewRenderPlan builds a plan from options.
func NewRenderPlan(opts ...RenderOption) *RenderPlan {
	plan := &RenderPlan{}
	for _, opt := range opts {
		opt(plan)
	}
	return plan
}

// Session renders pages into parseable documents. Implementations own a
// browser (or equivalent) and must be closed when done.
type Session interface {
	// RenderPage navigates to url, executes the render plan, and returns
	// the resulting DOM.
	RenderPage(ctx context.Context, url string, opts ...RenderOption) (*goquery.Document, error)

	// WithDetail renders url in a throwaway tab and hands the document to
	// fn. The tab is closed when fn returns, so listing state in the main
	// tab survives detail visits.
	WithDetail(ctx context.Context, url string, fn func(doc *goquery.Document) error, opts ...RenderOption) error

	// Close shuts down the browser.
	Close() error
}
