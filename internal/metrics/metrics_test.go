package metrics

import (
	"testing"
	"time"
)

func TestInitIsIdempotent(t *testing.T) {
	Init()
	Init()

	// Recording through every helper must not panic once initialized.
	ObserveCycle("no_change", 2*time.Second)
	ObserveCycle("failed", 30*time.Second)
	ObserveNotification("sent")
	ObserveNotification("error")
	SetItemsAvailable(2)

	if Handler() == nil {
		t.Fatal("expected a scrape handler")
	}
}
