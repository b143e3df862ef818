package renderer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gocolly/colly/v2"
	"go.uber.org/zap"

	"github.com/calebmartin/seedwatch/internal/watch"
)

// StaticFetcher implements watch.Renderer over plain HTTP via Colly, for
// targets that render their stock list server-side. No JavaScript runs.
type StaticFetcher struct {
	baseCollector *colly.Collector
	logger        *zap.Logger
}

// NewStaticFetcher constructs a configured Colly-based fetcher.
func NewStaticFetcher(cfg Config, timeout time.Duration, logger *zap.Logger) *StaticFetcher {
	base := colly.NewCollector(
		colly.UserAgent(cfg.UserAgent),
		colly.AllowURLRevisit(),
	)
	base.SetRequestTimeout(timeout)

	return &StaticFetcher{
		baseCollector: base,
		logger:        logger,
	}
}

type fetchResult struct {
	page watch.Page
	err  error
}

// Render fetches rawURL once and returns the raw body as the page.
func (f *StaticFetcher) Render(ctx context.Context, rawURL string) (watch.Page, error) {
	collector := f.baseCollector.Clone()
	resultCh := make(chan fetchResult, 1)
	var once sync.Once
	send := func(res fetchResult) {
		once.Do(func() { resultCh <- res })
	}

	collector.OnResponse(func(r *colly.Response) {
		send(fetchResult{page: watch.Page{
			URL:        rawURL,
			StatusCode: r.StatusCode,
			Body:       append([]byte{}, r.Body...),
		}})
	})
	collector.OnError(func(_ *colly.Response, err error) {
		if err == nil {
			err = errors.New("unknown colly error")
		}
		send(fetchResult{err: err})
	})

	if err := collector.Visit(rawURL); err != nil {
		return watch.Page{}, fmt.Errorf("visit %s: %w", rawURL, err)
	}
	collector.Wait()

	select {
	case res := <-resultCh:
		if err := ctx.Err(); err != nil {
			return watch.Page{}, err
		}
		if res.err != nil {
			return watch.Page{}, fmt.Errorf("fetch %s: %w", rawURL, res.err)
		}
		return res.page, nil
	case <-ctx.Done():
		return watch.Page{}, ctx.Err()
	}
}
