// Package chromedp implements scrape.Session on a headless Chrome
// browser driven over the DevTools protocol.
package chromedp

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	cdp "github.com/chromedp/chromedp"
	"github.com/poiesic/ideasurf/scrape"
)

const (
	defaultPageTimeout = 45 * time.Second

	// Listing sites serve degraded markup to obvious automation.
	userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) " +
		"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"
)

// Config holds session settings.
type Config struct {
	Headless    bool
	PageTimeout time.Duration
	Logger      *slog.Logger
}

// Option configures a session.
type Option func(*Config)

// WithHeadless toggles headless mode. Headful runs are useful when
// debugging selector changes.
func WithHeadless(headless bool) Option {
	return func(c *Config) {
		c.Headless = headless
	}
}

// WithPageTimeout bounds a single page render.
func WithPageTimeout(timeout time.Duration) Option {
	return func(c *Config) {
		c.PageTimeout = timeout
	}
}

// WithLogger sets the session logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}

// Session drives one browser process. The main tab holds listing pages;
// detail pages are rendered in short-lived child tabs.
type Session struct {
	allocCancel   context.CancelFunc
	browserCtx    context.Context
	browserCancel context.CancelFunc
	pageTimeout   time.Duration
	logger        *slog.Logger
}

var _ scrape.Session = (*Session)(nil)

// NewSession starts a browser.
func NewSession(opts ...Option) (*Session, error) {
	config := &Config{
		Headless:    true,
		PageTimeout: defaultPageTimeout,
		Logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(config)
	}

	allocOpts := []cdp.ExecAllocatorOption{
		cdp.NoFirstRun,
		cdp.NoDefaultBrowserCheck,
		cdp.Flag("no-sandbox", true),
		cdp.Flag("disable-gpu", true),
		cdp.Flag("disable-dev-shm-usage", true),
		cdp.Flag("disable-blink-features", "AutomationControlled"),
		cdp.WindowSize(1920, 1080),
		cdp.UserAgent(userAgent),
	}
	if config.Headless {
		allocOpts = append(allocOpts, cdp.Headless)
	}

	allocCtx, allocCancel := cdp.NewExecAllocator(context.Background(), allocOpts...)
	browserCtx, browserCancel := cdp.NewContext(allocCtx)

	// Start the browser now so a broken Chrome install fails here
	// instead of on the first page.
	if err := cdp.Run(browserCtx); err != nil {
		browserCancel()
		allocCancel()
		return nil, err
	}

	return &Session{
		allocCancel:   allocCancel,
		browserCtx:    browserCtx,
		browserCancel: browserCancel,
		pageTimeout:   config.PageTimeout,
		logger:        config.Logger.With("component", "chromedp"),
	}, nil
}

// RenderPage implements scrape.Session.
func (s *Session) RenderPage(ctx context.Context, url string, opts ...scrape.RenderOption) (*goquery.Document, error) {
	return s.render(ctx, s.browserCtx, url, scrape.NewRenderPlan(opts...))
}

// WithDetail implements scrape.Session. The detail page gets its own tab
// so the listing tab keeps its state.
func (s *Session) WithDetail(ctx context.Context, url string, fn func(doc *goquery.Document) error, opts ...scrape.RenderOption) error {
	tabCtx, tabCancel := cdp.NewContext(s.browserCtx)
	defer tabCancel()

	doc, err := s.render(ctx, tabCtx, url, scrape.NewRenderPlan(opts...))
	if err != nil {
		return err
	}
	return fn(doc)
}

// Close shuts down the browser.
func (s *Session) Close() error {
	s.browserCancel()
	s.allocCancel()
	return nil
}

func (s *Session) render(ctx context.Context, tabCtx context.Context, url string, plan *scrape.RenderPlan) (*goquery.Document, error) {
	s.logger.Debug("rendering page", "url", url)

	runCtx, cancel := context.WithTimeout(tabCtx, s.pageTimeout)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	tasks := cdp.Tasks{cdp.Navigate(url)}
	if plan.WaitSelector != "" {
		tasks = append(tasks, boundedWait(plan.WaitSelector, 20*time.Second))
	}
	if plan.ScrollToBottom {
		tasks = append(tasks, scrollToBottom())
	}
	if plan.ClickSelector != "" {
		tasks = append(tasks, bestEffortClick(plan.ClickSelector))
		if plan.ScrollToBottom {
			tasks = append(tasks, scrollToBottom())
		}
	}

	var html string
	tasks = append(tasks, cdp.OuterHTML("html", &html, cdp.ByQuery))

	if err := cdp.Run(runCtx, tasks); err != nil {
		return nil, err
	}
	return goquery.NewDocumentFromReader(strings.NewReader(html))
}

// boundedWait waits for a selector for up to d, then gives up without
// failing the render. Pages with changed markup still get captured and
// extraction falls through its fallback chains.
func boundedWait(selector string, d time.Duration) cdp.ActionFunc {
	return func(ctx context.Context) error {
		waitCtx, cancel := context.WithTimeout(ctx, d)
		defer cancel()
		if err := cdp.WaitReady(selector, cdp.ByQuery).Do(waitCtx); err != nil && ctx.Err() != nil {
			return err
		}
		return nil
	}
}

// bestEffortClick clicks a selector if it exists. Show-more buttons
// disappear once everything is loaded.
func bestEffortClick(selector string) cdp.ActionFunc {
	return func(ctx context.Context) error {
		clickCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := cdp.Click(selector, cdp.ByQuery).Do(clickCtx); err != nil {
			if ctx.Err() != nil {
				return err
			}
			return nil
		}
		return cdp.Sleep(2 * time.Second).Do(ctx)
	}
}

// scrollToBottom scrolls until the document height stops growing,
// forcing infinite-scroll listings to load all items.
func scrollToBottom() cdp.ActionFunc {
	return func(ctx context.Context) error {
		var last int64
		if err := cdp.Evaluate("document.body.scrollHeight", &last).Do(ctx); err != nil {
			return err
		}
		for {
			err := cdp.Evaluate("window.scrollTo(0, document.body.scrollHeight)", nil).Do(ctx)
			if err != nil {
				return err
			}
			if err := cdp.Sleep(2 * time.Second).Do(ctx); err != nil {
				return err
			}
			var current int64
			if err := cdp.Evaluate("document.body.scrollHeight", &current).Do(ctx); err != nil {
				return err
			}
			if current == last {
				return nil
			}
			last = current
		}
	}
}
