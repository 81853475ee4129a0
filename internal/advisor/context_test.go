package advisor

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/walletwise/walletwise/internal/config"
	"github.com/walletwise/walletwise/internal/market"
)

// fakeMarket serves simple/price responses keyed by "<asset> <currency>".
// Pairs absent from the map get an empty object, which the gateway treats
// as an unavailable quote.
func fakeMarket(t *testing.T, quotes map[string][2]float64) *market.Gateway {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		asset := r.URL.Query().Get("ids")
		currency := r.URL.Query().Get("vs_currencies")
		q, ok := quotes[asset+" "+currency]
		if !ok {
			_, _ = w.Write([]byte(`{}`))
			return
		}
		body := `{"` + asset + `": {"` + currency + `": ` + formatFloat(q[0]) + `, "` + currency + `_24h_change": ` + formatFloat(q[1]) + `}}`
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	return market.NewGateway(config.MarketConfig{BaseURL: srv.URL, Timeout: 2 * time.Second}, testLogger())
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func TestBuildFixedContext(t *testing.T) {
	t.Parallel()

	got := BuildFixedContext(DefaultProfile(), DefaultPortfolio(), DefaultTransactions())

	for _, want := range []string{
		"--- CONTEXTO FIJO DEL USUARIO ---",
		"--- FIN DEL CONTEXTO FIJO ---",
		"Juan Pérez",
		"Moderado",
		"45823.67",
		"Historial de transacciones",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("fixed context missing %q", want)
		}
	}
}

func TestAdvisorContext(t *testing.T) {
	t.Parallel()

	g := fakeMarket(t, map[string][2]float64{
		"bitcoin usd":  {67234.129, -3.216},
		"ethereum usd": {3200.5, 1.2},
	})
	b := NewMarketContextBuilder(g, testLogger())

	got := b.AdvisorContext(context.Background())
	if !strings.Contains(got, "- Bitcoin: $67234.13, cambio 24h: -3.22%") {
		t.Errorf("missing bitcoin line, got:\n%s", got)
	}
	if !strings.Contains(got, "- Ethereum: $3200.50, cambio 24h: 1.20%") {
		t.Errorf("missing ethereum line, got:\n%s", got)
	}
}

func TestAdvisorContextOmitsUnavailableAssets(t *testing.T) {
	t.Parallel()

	g := fakeMarket(t, map[string][2]float64{
		"bitcoin usd": {50000, 2.5},
	})
	b := NewMarketContextBuilder(g, testLogger())

	got := b.AdvisorContext(context.Background())
	if !strings.Contains(got, "Bitcoin") {
		t.Errorf("bitcoin line missing, got:\n%s", got)
	}
	if strings.Contains(got, "Ethereum") {
		t.Errorf("unavailable ethereum should be omitted, got:\n%s", got)
	}
}

func TestAdvisorContextEmptyWhenNothingAvailable(t *testing.T) {
	t.Parallel()

	g := fakeMarket(t, nil)
	b := NewMarketContextBuilder(g, testLogger())

	if got := b.AdvisorContext(context.Background()); got != "" {
		t.Errorf("context = %q, want empty", got)
	}
}

func TestTransactionContext(t *testing.T) {
	t.Parallel()

	g := fakeMarket(t, map[string][2]float64{
		"bitcoin usd":  {67000, 1},
		"bitcoin mxn":  {1340000, 1},
		"ethereum usd": {3200, -0.5},
		"ethereum mxn": {64000, -0.5},
		"tether usd":   {1.0004, 0},
	})
	b := NewMarketContextBuilder(g, testLogger())

	got := b.TransactionContext(context.Background())
	for _, want := range []string{
		"- Bitcoin (BTC): $67000.00 USD | $1340000.00 MXN | Cambio 24h: 1.00%",
		"- Ethereum (ETH): $3200.00 USD | $64000.00 MXN | Cambio 24h: -0.50%",
		"- Tether (USDT): $1.0004 USD (stablecoin)",
		"Tasas de cambio aprox: 1 USD = 20 MXN",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("transaction context missing %q, got:\n%s", want, got)
		}
	}
}

func TestTransactionContextSkipsMXNWhenUnavailable(t *testing.T) {
	t.Parallel()

	g := fakeMarket(t, map[string][2]float64{
		"bitcoin usd": {67000, 1},
	})
	b := NewMarketContextBuilder(g, testLogger())

	got := b.TransactionContext(context.Background())
	if !strings.Contains(got, "- Bitcoin (BTC): $67000.00 USD | Cambio 24h: 1.00%") {
		t.Errorf("bitcoin line should omit MXN, got:\n%s", got)
	}
	if strings.Contains(got, "Ethereum") || strings.Contains(got, "Tether") {
		t.Errorf("unavailable assets should be omitted, got:\n%s", got)
	}
}
