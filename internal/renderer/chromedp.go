// Package renderer provides page acquisition: a chromedp-backed headless
// renderer for pages that build their content client-side, and a plain
// HTTP fetcher for pages that do not.
package renderer

import (
	"context"
	"fmt"
	"sync"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/calebmartin/seedwatch/internal/watch"
)

// Config controls page acquisition for both renderer implementations.
type Config struct {
	UserAgent    string
	WaitSelector string
}

// ChromedpRenderer renders pages with headless Chrome. The browser process
// is long-lived; each Render runs in a fresh tab that is torn down before
// the call returns, whatever the exit path.
type ChromedpRenderer struct {
	allocatorCancel context.CancelFunc
	browserCtx      context.Context
	browserCancel   context.CancelFunc
	waitSelector    string
	logger          *zap.Logger
}

// NewChromedpRenderer launches the browser and warms it up.
func NewChromedpRenderer(cfg Config, logger *zap.Logger) (*ChromedpRenderer, error) {
	opts := chromedp.DefaultExecAllocatorOptions[:]
	opts = append(opts,
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.UserAgent(cfg.UserAgent),
	)
	allocatorCtx, allocatorCancel := chromedp.NewExecAllocator(context.Background(), opts...)
	browserCtx, browserCancel := chromedp.NewContext(allocatorCtx)
	if err := chromedp.Run(browserCtx); err != nil {
		allocatorCancel()
		browserCancel()
		return nil, fmt.Errorf("chromedp warmup: %w", err)
	}

	return &ChromedpRenderer{
		allocatorCancel: allocatorCancel,
		browserCtx:      browserCtx,
		browserCancel:   browserCancel,
		waitSelector:    cfg.WaitSelector,
		logger:          logger,
	}, nil
}

// Close tears down the browser and allocator contexts.
func (r *ChromedpRenderer) Close() error {
	if r == nil {
		return nil
	}
	r.browserCancel()
	r.allocatorCancel()
	return nil
}

// Render navigates to rawURL, waits for the configured selector to become
// visible, and returns the settled DOM. The caller's context carries the
// timeout budget; cancellation is forwarded into the tab.
func (r *ChromedpRenderer) Render(ctx context.Context, rawURL string) (watch.Page, error) {
	tabCtx, cancelTab := chromedp.NewContext(r.browserCtx)
	defer cancelTab()

	stopForward := forwardCancel(ctx, cancelTab)
	defer stopForward()

	meta := &responseMeta{}
	r.recordResponse(tabCtx, meta)

	var html string
	tasks := chromedp.Tasks{
		network.Enable(),
		chromedp.Navigate(rawURL),
		chromedp.WaitVisible(r.waitSelector, chromedp.ByQuery),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	}
	if err := chromedp.Run(tabCtx, tasks); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return watch.Page{}, fmt.Errorf("render %s: %w", rawURL, ctxErr)
		}
		return watch.Page{}, fmt.Errorf("chromedp run: %w", err)
	}

	return watch.Page{
		URL:        rawURL,
		StatusCode: meta.status(),
		Body:       []byte(html),
	}, nil
}

type responseMeta struct {
	once       sync.Once
	statusCode int
}

func (m *responseMeta) status() int {
	return m.statusCode
}

// recordResponse captures the status code of the main document response.
func (r *ChromedpRenderer) recordResponse(tabCtx context.Context, meta *responseMeta) {
	chromedp.ListenTarget(tabCtx, func(ev interface{}) {
		resp, ok := ev.(*network.EventResponseReceived)
		if !ok || resp.Type != network.ResourceTypeDocument {
			return
		}
		meta.once.Do(func() {
			meta.statusCode = int(resp.Response.Status)
		})
	})
}

// forwardCancel propagates cancellation of parent into cancel. chromedp tab
// contexts must derive from the browser context, so the caller's deadline
// cannot be attached directly.
func forwardCancel(parent context.Context, cancel context.CancelFunc) func() {
	if parent == nil {
		return func() {}
	}
	done := make(chan struct{})
	go func() {
		select {
		case <-parent.Done():
			cancel()
		case <-done:
		}
	}()
	return func() { close(done) }
}
