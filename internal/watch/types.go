// Package watch implements the stock polling core: quantity parsing,
// snapshot normalization, availability tracking, and the poll cycle.
package watch

// RawObservation is one item container as found on the page, before
// normalization. Discarded once normalized.
type RawObservation struct {
	Label      string
	StatusText string
}

// ItemRecord is a normalized item: display name plus parsed stock count.
type ItemRecord struct {
	Name     string
	Quantity int
}

// Snapshot is the ordered sequence of normalized records extracted from one
// page fetch. Consumed entirely within one poll cycle.
type Snapshot []ItemRecord

// Page is a fetched document handed to the extractor.
type Page struct {
	URL        string
	StatusCode int
	Body       []byte
}

// CycleOutcome classifies the result of one poll cycle.
type CycleOutcome string

const (
	// OutcomeNotified means the cycle found newly available items and
	// attempted a notification.
	OutcomeNotified CycleOutcome = "notified"
	// OutcomeNoChange means the cycle completed with nothing new to report.
	OutcomeNoChange CycleOutcome = "no_change"
	// OutcomeFailed means the cycle aborted before the tracker was consulted.
	OutcomeFailed CycleOutcome = "failed"
)

// CycleResult carries the outcome of one poll cycle back to the loop.
type CycleResult struct {
	Outcome  CycleOutcome
	Notified int
	Err      error
}

// WatchSet is the immutable set of item names the operator cares about.
type WatchSet map[string]struct{}

// NewWatchSet builds a WatchSet from the configured item names.
func NewWatchSet(names []string) WatchSet {
	ws := make(WatchSet, len(names))
	for _, n := range names {
		ws[n] = struct{}{}
	}
	return ws
}

// Contains reports whether name is watched.
func (ws WatchSet) Contains(name string) bool {
	_, ok := ws[name]
	return ok
}
