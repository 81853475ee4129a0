// Package market wraps the external spot-price provider. All lookups fail
// soft: any transport, status, or payload problem yields a nil quote, never
// an error, so callers simply omit the missing fact.
package market

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/walletwise/walletwise/internal/config"
)

// Quote is an ephemeral price snapshot for one asset in one currency.
// It is fetched per request and never cached.
type Quote struct {
	Price     float64
	Change24h float64
}

// Gateway performs spot-price lookups against a CoinGecko-compatible API.
// It holds no mutable state and is safe for concurrent use.
type Gateway struct {
	baseURL    string
	httpClient *http.Client
	log        *slog.Logger
}

// NewGateway creates a Gateway with a bounded per-request timeout.
func NewGateway(cfg config.MarketConfig, log *slog.Logger) *Gateway {
	return &Gateway{
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: cfg.Timeout},
		log:        log.With("component", "market_gateway"),
	}
}

// SpotPrice returns the current price and 24h change for assetID expressed
// in vsCurrency, or nil if the provider could not supply both values.
// A single attempt is made per call; failures are logged, never raised.
func (g *Gateway) SpotPrice(ctx context.Context, assetID, vsCurrency string) *Quote {
	if vsCurrency == "" {
		vsCurrency = "usd"
	}
	vsCurrency = strings.ToLower(vsCurrency)

	reqURL := fmt.Sprintf("%s/simple/price?ids=%s&vs_currencies=%s&include_24hr_change=true",
		g.baseURL, url.QueryEscape(assetID), url.QueryEscape(vsCurrency))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		g.log.WarnContext(ctx, "Failed to build price request", "asset", assetID, "error", err)
		return nil
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		g.log.WarnContext(ctx, "Price lookup failed", "asset", assetID, "currency", vsCurrency, "error", err)
		return nil
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			g.log.WarnContext(ctx, "Failed to close price response body", "error", closeErr)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		g.log.WarnContext(ctx, "Price provider returned non-OK status", "asset", assetID, "status", resp.StatusCode)
		return nil
	}

	var payload map[string]map[string]float64
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		g.log.WarnContext(ctx, "Failed to decode price response", "asset", assetID, "error", err)
		return nil
	}

	entry, ok := payload[assetID]
	if !ok {
		g.log.WarnContext(ctx, "Price response missing asset", "asset", assetID)
		return nil
	}

	price, okPrice := entry[vsCurrency]
	change, okChange := entry[vsCurrency+"_24h_change"]
	if !okPrice || !okChange {
		g.log.WarnContext(ctx, "Price response missing fields", "asset", assetID, "currency", vsCurrency)
		return nil
	}

	return &Quote{Price: price, Change24h: change}
}

// assetAliases maps common ticker symbols to provider asset identifiers.
var assetAliases = map[string]string{
	"btc":      "bitcoin",
	"bitcoin":  "bitcoin",
	"eth":      "ethereum",
	"ethereum": "ethereum",
	"usdt":     "tether",
	"tether":   "tether",
	"usdc":     "usd-coin",
	"sol":      "solana",
	"solana":   "solana",
	"matic":    "matic-network",
	"polygon":  "matic-network",
}

// AssetID resolves a user-facing symbol to the provider's asset identifier.
// Unknown symbols pass through lowercased, letting the provider decide.
func AssetID(symbol string) string {
	s := strings.ToLower(strings.TrimSpace(symbol))
	if id, ok := assetAliases[s]; ok {
		return id
	}
	return s
}

// Convert translates an amount from one asset or currency into another using
// the current spot price. The boolean is false when no price was available.
func (g *Gateway) Convert(ctx context.Context, amount float64, from, to string) (float64, bool) {
	quote := g.SpotPrice(ctx, AssetID(from), strings.ToLower(to))
	if quote == nil {
		return 0, false
	}
	return amount * quote.Price, true
}
