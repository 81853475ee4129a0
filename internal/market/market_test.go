package market

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/walletwise/walletwise/internal/config"
)

func newTestGateway(t *testing.T, handler http.HandlerFunc) *Gateway {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewGateway(config.MarketConfig{
		BaseURL: srv.URL,
		Timeout: 2 * time.Second,
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestSpotPrice(t *testing.T) {
	t.Parallel()

	g := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/simple/price" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("ids"); got != "bitcoin" {
			t.Errorf("ids = %q, want bitcoin", got)
		}
		if got := r.URL.Query().Get("include_24hr_change"); got != "true" {
			t.Errorf("include_24hr_change = %q, want true", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"bitcoin": {"usd": 67234.12, "usd_24h_change": -3.21}}`))
	})

	quote := g.SpotPrice(context.Background(), "bitcoin", "usd")
	if quote == nil {
		t.Fatal("quote = nil, want value")
	}
	if quote.Price != 67234.12 {
		t.Errorf("price = %v, want 67234.12", quote.Price)
	}
	if quote.Change24h != -3.21 {
		t.Errorf("change = %v, want -3.21", quote.Change24h)
	}
}

func TestSpotPriceFailSoft(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "server error status",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusTooManyRequests)
			},
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte("not json"))
			},
		},
		{
			name: "asset missing from response",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`{"ethereum": {"usd": 1}}`))
			},
		},
		{
			name: "price field missing",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`{"bitcoin": {"usd_24h_change": 1.5}}`))
			},
		},
		{
			name: "change field missing",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`{"bitcoin": {"usd": 50000}}`))
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			g := newTestGateway(t, tc.handler)
			if quote := g.SpotPrice(context.Background(), "bitcoin", "usd"); quote != nil {
				t.Errorf("quote = %+v, want nil", quote)
			}
		})
	}
}

func TestSpotPriceIdempotent(t *testing.T) {
	t.Parallel()

	g := newTestGateway(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"bitcoin": {"usd": 50000.0, "usd_24h_change": 1.5}}`))
	})

	first := g.SpotPrice(context.Background(), "bitcoin", "usd")
	second := g.SpotPrice(context.Background(), "bitcoin", "usd")
	if first == nil || second == nil {
		t.Fatal("quotes should be available")
	}
	if *first != *second {
		t.Errorf("repeated lookups diverged: %+v vs %+v", first, second)
	}
}

func TestSpotPriceUnreachableProvider(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close()

	g := NewGateway(config.MarketConfig{BaseURL: srv.URL, Timeout: time.Second},
		slog.New(slog.NewTextHandler(io.Discard, nil)))
	if quote := g.SpotPrice(context.Background(), "bitcoin", "usd"); quote != nil {
		t.Errorf("quote = %+v, want nil", quote)
	}
}

func TestAssetID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		symbol string
		want   string
	}{
		{"btc", "bitcoin"},
		{"BTC", "bitcoin"},
		{" eth ", "ethereum"},
		{"usdt", "tether"},
		{"sol", "solana"},
		{"dogecoin", "dogecoin"},
	}

	for _, tc := range tests {
		t.Run(tc.symbol, func(t *testing.T) {
			t.Parallel()

			if got := AssetID(tc.symbol); got != tc.want {
				t.Errorf("AssetID(%q) = %q, want %q", tc.symbol, got, tc.want)
			}
		})
	}
}

func TestConvert(t *testing.T) {
	t.Parallel()

	g := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"bitcoin": {"mxn": 1200000.0, "mxn_24h_change": 0.5}}`))
	})

	result, ok := g.Convert(context.Background(), 0.5, "btc", "mxn")
	if !ok {
		t.Fatal("Convert() reported no price")
	}
	if result != 600000.0 {
		t.Errorf("result = %v, want 600000", result)
	}
}

func TestConvertUnavailable(t *testing.T) {
	t.Parallel()

	g := newTestGateway(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	if _, ok := g.Convert(context.Background(), 1, "btc", "usd"); ok {
		t.Error("Convert() reported success without a price")
	}
}
