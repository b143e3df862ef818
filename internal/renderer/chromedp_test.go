package renderer

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestChromedpRenderer_Render(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `<!doctype html><html><body><script>
			setTimeout(function() {
				document.body.innerHTML =
					'<div class="seed-item"><h2>Beanstalk Seed</h2><p class="text-green-500">Stock: 3</p></div>';
			}, 50);
		</script></body></html>`)
	}))
	defer srv.Close()

	renderer, err := NewChromedpRenderer(Config{
		UserAgent:    "test-agent",
		WaitSelector: ".seed-item",
	}, zap.NewNop())
	if err != nil {
		t.Skipf("chromedp unavailable: %v", err)
	}
	defer renderer.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	page, err := renderer.Render(ctx, srv.URL)
	if err != nil {
		t.Skipf("render failed: %v", err)
	}
	if !strings.Contains(string(page.Body), "Stock: 3") {
		t.Fatal("rendered body missing late content")
	}
}

func TestForwardCancel(t *testing.T) {
	t.Parallel()

	parent, cancelParent := context.WithCancel(context.Background())
	canceled := make(chan struct{})
	stop := forwardCancel(parent, func() { close(canceled) })
	defer stop()

	cancelParent()
	select {
	case <-canceled:
	case <-time.After(time.Second):
		t.Fatal("cancellation was not forwarded")
	}
}

func TestForwardCancel_NilParent(t *testing.T) {
	t.Parallel()

	stop := forwardCancel(nil, func() { t.Fatal("cancel must not fire") })
	stop()
}
