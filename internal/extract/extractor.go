// Package extract locates item containers in rendered HTML. All selector
// strings live here, configured at startup; the polling core never sees
// them.
package extract

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/calebmartin/seedwatch/internal/watch"
)

// Config holds the CSS selectors that couple the extractor to the target
// page's markup.
type Config struct {
	ContainerSelector string
	NameSelector      string
	StatusSelector    string
}

// Extractor pulls raw (label, status) observations out of a page.
type Extractor struct {
	cfg    Config
	logger *zap.Logger
}

// New creates an Extractor.
func New(cfg Config, logger *zap.Logger) *Extractor {
	return &Extractor{cfg: cfg, logger: logger}
}

// Extract returns one observation per item container, in document order.
// A container missing its name or status element is skipped and logged;
// the rest of the snapshot is unaffected.
func (e *Extractor) Extract(page watch.Page) ([]watch.RawObservation, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page.Body))
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}

	var obs []watch.RawObservation
	doc.Find(e.cfg.ContainerSelector).Each(func(i int, sel *goquery.Selection) {
		name := sel.Find(e.cfg.NameSelector)
		status := sel.Find(e.cfg.StatusSelector)
		if name.Length() == 0 || status.Length() == 0 {
			e.logger.Warn("item container missing expected elements",
				zap.Int("index", i),
				zap.String("url", page.URL),
			)
			return
		}
		obs = append(obs, watch.RawObservation{
			Label:      strings.TrimSpace(name.First().Text()),
			StatusText: strings.TrimSpace(status.First().Text()),
		})
	})
	return obs, nil
}
