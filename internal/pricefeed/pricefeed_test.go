package pricefeed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aurum-app/aurum/pkg/logger"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(server.URL, 5*time.Second, logger.NewNop())
}

func TestFetchValidPayload(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"gold": 2512.30, "silver": 31.15, "currency": "USD", "rates": {"EUR": 0.92, "GBP": 0.79}, "timestamp": 1748750400}`))
	})

	snapshot, err := c.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if snapshot.GoldPrice != 2512.30 {
		t.Errorf("gold price = %v, want 2512.30", snapshot.GoldPrice)
	}
	if snapshot.SilverPrice != 31.15 {
		t.Errorf("silver price = %v, want 31.15", snapshot.SilverPrice)
	}
	if snapshot.Currency != "USD" {
		t.Errorf("currency = %q, want USD", snapshot.Currency)
	}
	if len(snapshot.Rates) != 2 {
		t.Errorf("rates = %d entries, want 2", len(snapshot.Rates))
	}
	if snapshot.FetchedAt.Unix() != 1748750400 {
		t.Errorf("fetchedAt = %v, want provider timestamp", snapshot.FetchedAt)
	}
}

func TestFetchRejectsMalformedPayloads(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing gold price", `{"silver": 31, "rates": {"EUR": 0.92}}`},
		{"zero gold price", `{"gold": 0, "silver": 31, "rates": {"EUR": 0.92}}`},
		{"negative gold price", `{"gold": -5, "silver": 31, "rates": {"EUR": 0.92}}`},
		{"missing rates", `{"gold": 2500, "silver": 31}`},
		{"non-positive rate", `{"gold": 2500, "silver": 31, "rates": {"EUR": 0}}`},
		{"not json", `<html>maintenance</html>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			})
			if _, err := c.Fetch(context.Background()); err == nil {
				t.Errorf("Fetch should reject payload %q", tt.body)
			}
		})
	}
}

func TestFetchRejectsErrorStatus(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	})
	if _, err := c.Fetch(context.Background()); err == nil {
		t.Error("Fetch should fail on a non-200 status")
	}
}

func TestFetchDefaultsCurrency(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"gold": 2500, "silver": 31, "rates": {"EUR": 0.92}}`))
	})
	snapshot, err := c.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if snapshot.Currency != "USD" {
		t.Errorf("currency = %q, want USD default", snapshot.Currency)
	}
}
