package watch

import "context"

// Renderer fetches a URL and returns the document after client-side
// rendering has settled. Implementations own browser lifecycle; the core
// only sees the rendered page.
type Renderer interface {
	Render(ctx context.Context, rawURL string) (Page, error)
}

// Extractor locates item containers in a rendered page and returns one raw
// observation per container, in document order.
type Extractor interface {
	Extract(page Page) ([]RawObservation, error)
}

// Notifier attempts delivery of one alert message.
type Notifier interface {
	Notify(ctx context.Context, subject, body string) error
}
