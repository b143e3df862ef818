package watch

import (
	"regexp"
	"strconv"
)

// QuantityParser pulls a stock count out of free-form status text.
type QuantityParser struct {
	re *regexp.Regexp
}

// NewQuantityParser builds a parser that matches the first integer after
// the given marker token (e.g. "Stock:").
func NewQuantityParser(marker string) *QuantityParser {
	return &QuantityParser{
		re: regexp.MustCompile(regexp.QuoteMeta(marker) + `\s*(\d+)`),
	}
}

// Parse returns the quantity found in statusText, or 0 when no marker
// matches. Upstream markup is not contractually stable, so absence of a
// match is a valid silent zero, never an error.
func (p *QuantityParser) Parse(statusText string) int {
	m := p.re.FindStringSubmatch(statusText)
	if m == nil {
		return 0
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return n
}
