package advisor

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/walletwise/walletwise/internal/market"
)

// BuildFixedContext renders the user profile, portfolio and transaction
// history as a system-prompt block. The data is serialized as indented JSON
// so the model can quote exact figures back to the user.
func BuildFixedContext(profile Profile, portfolio Portfolio, transactions []Transaction) string {
	profileJSON, _ := json.MarshalIndent(profile, "", "  ")
	portfolioJSON, _ := json.MarshalIndent(portfolio, "", "  ")
	txJSON, _ := json.MarshalIndent(transactions, "", "  ")

	var b strings.Builder
	b.WriteString("--- CONTEXTO FIJO DEL USUARIO ---\n")
	b.WriteString("Perfil del usuario:\n")
	b.Write(profileJSON)
	b.WriteString("\n\nPortafolio actual:\n")
	b.Write(portfolioJSON)
	b.WriteString("\n\nHistorial de transacciones:\n")
	b.Write(txJSON)
	b.WriteString("\n--- FIN DEL CONTEXTO FIJO ---")

	return b.String()
}

// MarketContextBuilder assembles live-market system prompts from the price
// gateway. Assets that cannot be quoted are simply omitted from the output.
type MarketContextBuilder struct {
	gateway *market.Gateway
	log     *slog.Logger
}

// NewMarketContextBuilder creates a MarketContextBuilder.
func NewMarketContextBuilder(gateway *market.Gateway, log *slog.Logger) *MarketContextBuilder {
	return &MarketContextBuilder{gateway: gateway, log: log}
}

// AdvisorContext returns the market block for investment conversations:
// current BTC and ETH prices in USD with their 24h change. Returns "" when
// no asset could be quoted.
func (b *MarketContextBuilder) AdvisorContext(ctx context.Context) string {
	var btc, eth *market.Quote

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		btc = b.gateway.SpotPrice(gctx, "bitcoin", "usd")
		return nil
	})
	g.Go(func() error {
		eth = b.gateway.SpotPrice(gctx, "ethereum", "usd")
		return nil
	})
	_ = g.Wait()

	var lines []string
	if btc != nil {
		lines = append(lines, fmt.Sprintf("- Bitcoin: $%.2f, cambio 24h: %.2f%%", btc.Price, btc.Change24h))
	}
	if eth != nil {
		lines = append(lines, fmt.Sprintf("- Ethereum: $%.2f, cambio 24h: %.2f%%", eth.Price, eth.Change24h))
	}
	if len(lines) == 0 {
		return ""
	}

	return "Contexto de mercado actual (información en tiempo real):\n" + strings.Join(lines, "\n")
}

// EducationContext returns the market block for education conversations:
// current ETH and BTC prices in USD with their 24h change. Returns "" when
// no asset could be quoted.
func (b *MarketContextBuilder) EducationContext(ctx context.Context) string {
	var eth, btc *market.Quote

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		eth = b.gateway.SpotPrice(gctx, "ethereum", "usd")
		return nil
	})
	g.Go(func() error {
		btc = b.gateway.SpotPrice(gctx, "bitcoin", "usd")
		return nil
	})
	_ = g.Wait()

	var lines []string
	if eth != nil {
		lines = append(lines, fmt.Sprintf("Ethereum (ETH): $%.2f, cambio 24h: %.2f%%", eth.Price, eth.Change24h))
	}
	if btc != nil {
		lines = append(lines, fmt.Sprintf("Bitcoin (BTC): $%.2f, cambio 24h: %.2f%%", btc.Price, btc.Change24h))
	}
	if len(lines) == 0 {
		return ""
	}

	return "--- CONTEXTO DE MERCADO EN TIEMPO REAL ---\n" + strings.Join(lines, "\n")
}

// TransactionContext returns the market block for transaction conversations:
// BTC, ETH and USDT in USD plus BTC and ETH in MXN, with an approximate
// USD/MXN rate note. Returns "" when no asset could be quoted.
func (b *MarketContextBuilder) TransactionContext(ctx context.Context) string {
	var btcUSD, ethUSD, usdt, btcMXN, ethMXN *market.Quote

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		btcUSD = b.gateway.SpotPrice(gctx, "bitcoin", "usd")
		return nil
	})
	g.Go(func() error {
		ethUSD = b.gateway.SpotPrice(gctx, "ethereum", "usd")
		return nil
	})
	g.Go(func() error {
		usdt = b.gateway.SpotPrice(gctx, "tether", "usd")
		return nil
	})
	g.Go(func() error {
		btcMXN = b.gateway.SpotPrice(gctx, "bitcoin", "mxn")
		return nil
	})
	g.Go(func() error {
		ethMXN = b.gateway.SpotPrice(gctx, "ethereum", "mxn")
		return nil
	})
	_ = g.Wait()

	var lines []string
	if btcUSD != nil {
		line := fmt.Sprintf("- Bitcoin (BTC): $%.2f USD", btcUSD.Price)
		if btcMXN != nil {
			line += fmt.Sprintf(" | $%.2f MXN", btcMXN.Price)
		}
		line += fmt.Sprintf(" | Cambio 24h: %.2f%%", btcUSD.Change24h)
		lines = append(lines, line)
	}
	if ethUSD != nil {
		line := fmt.Sprintf("- Ethereum (ETH): $%.2f USD", ethUSD.Price)
		if ethMXN != nil {
			line += fmt.Sprintf(" | $%.2f MXN", ethMXN.Price)
		}
		line += fmt.Sprintf(" | Cambio 24h: %.2f%%", ethUSD.Change24h)
		lines = append(lines, line)
	}
	if usdt != nil {
		lines = append(lines, fmt.Sprintf("- Tether (USDT): $%.4f USD (stablecoin)", usdt.Price))
	}
	if len(lines) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("Precios de mercado actuales:\n")
	sb.WriteString(strings.Join(lines, "\n"))
	sb.WriteString("\n\nTasas de cambio aprox: 1 USD = 20 MXN")
	return sb.String()
}
