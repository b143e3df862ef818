package watch

import "strings"

// Normalizer maps raw observations into canonical item records, filtered
// against the watch-list. Pure; no shared state.
type Normalizer struct {
	watch  WatchSet
	suffix string
	parser *QuantityParser
}

// NewNormalizer builds a Normalizer. suffix is stripped from the end of
// every label before matching (e.g. " Seed").
func NewNormalizer(watch WatchSet, suffix string, parser *QuantityParser) *Normalizer {
	return &Normalizer{
		watch:  watch,
		suffix: suffix,
		parser: parser,
	}
}

// Normalize converts one raw observation into an ItemRecord. The second
// return value is false when the candidate name is not on the watch-list;
// that is a filter decision, not an error.
func (n *Normalizer) Normalize(raw RawObservation) (ItemRecord, bool) {
	name := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(raw.Label), n.suffix))
	if !n.watch.Contains(name) {
		return ItemRecord{}, false
	}
	return ItemRecord{
		Name:     name,
		Quantity: n.parser.Parse(raw.StatusText),
	}, true
}
