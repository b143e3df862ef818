package watch

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/calebmartin/seedwatch/internal/metrics"
)

// ErrEmptyExtraction indicates the extractor found no item containers on a
// page that should list items, which usually means the markup changed.
var ErrEmptyExtraction = errors.New("empty extraction")

// ErrNoWatchedItems indicates containers were found but none normalized to
// a watched name. Fail-closed: a renamed watch-list item must not read as
// permanently out of stock.
var ErrNoWatchedItems = errors.New("no watched items in snapshot")

// CycleConfig holds the per-cycle knobs the Checker needs.
type CycleConfig struct {
	URL           string
	RenderTimeout time.Duration
	Subject       string
}

// Checker runs one full poll cycle: render, extract, normalize, diff,
// notify. It owns the Tracker and therefore the notified set.
type Checker struct {
	renderer   Renderer
	extractor  Extractor
	normalizer *Normalizer
	tracker    *Tracker
	notifier   Notifier
	cfg        CycleConfig
	logger     *zap.Logger
}

// NewChecker wires a Checker from its collaborators.
func NewChecker(
	renderer Renderer,
	extractor Extractor,
	normalizer *Normalizer,
	tracker *Tracker,
	notifier Notifier,
	cfg CycleConfig,
	logger *zap.Logger,
) *Checker {
	return &Checker{
		renderer:   renderer,
		extractor:  extractor,
		normalizer: normalizer,
		tracker:    tracker,
		notifier:   notifier,
		cfg:        cfg,
		logger:     logger,
	}
}

// RunCycle executes one poll cycle. Acquisition and extraction failures
// abort the cycle without touching tracker state; notifier failures do
// not roll it back: delivery is a single attempt, never a retry queue.
func (c *Checker) RunCycle(ctx context.Context) CycleResult {
	renderCtx, cancel := context.WithTimeout(ctx, c.cfg.RenderTimeout)
	defer cancel()

	page, err := c.renderer.Render(renderCtx, c.cfg.URL)
	if err != nil {
		return failed(fmt.Errorf("render page: %w", err))
	}

	raw, err := c.extractor.Extract(page)
	if err != nil {
		return failed(fmt.Errorf("extract items: %w", err))
	}
	if len(raw) == 0 {
		return failed(ErrEmptyExtraction)
	}

	snapshot := make(Snapshot, 0, len(raw))
	for _, obs := range raw {
		if rec, ok := c.normalizer.Normalize(obs); ok {
			snapshot = append(snapshot, rec)
		}
	}
	if len(snapshot) == 0 {
		return failed(ErrNoWatchedItems)
	}

	available := 0
	for _, rec := range snapshot {
		c.logger.Debug("watched item observed",
			zap.String("name", rec.Name),
			zap.Int("quantity", rec.Quantity),
		)
		if rec.Quantity > 0 {
			available++
		}
	}
	metrics.SetItemsAvailable(available)

	delta := c.tracker.Delta(snapshot)
	if len(delta) == 0 {
		return CycleResult{Outcome: OutcomeNoChange}
	}

	// One message covers the whole delta; never one per item.
	body := formatAlertBody(delta)
	if err := c.notifier.Notify(ctx, c.cfg.Subject, body); err != nil {
		metrics.ObserveNotification("error")
		c.logger.Error("notification delivery failed",
			zap.Int("items", len(delta)),
			zap.Error(err),
		)
	} else {
		metrics.ObserveNotification("sent")
		c.logger.Info("availability alert sent", zap.Int("items", len(delta)))
	}

	return CycleResult{Outcome: OutcomeNotified, Notified: len(delta)}
}

func failed(err error) CycleResult {
	return CycleResult{Outcome: OutcomeFailed, Err: err}
}

func formatAlertBody(delta Snapshot) string {
	var b strings.Builder
	b.WriteString("The following target seeds are now available:\n\n")
	for _, rec := range delta {
		fmt.Fprintf(&b, "- %s: %d available!\n", rec.Name, rec.Quantity)
	}
	return strings.TrimSpace(b.String())
}
