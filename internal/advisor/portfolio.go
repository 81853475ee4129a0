package advisor

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
)

// Profile describes the user the assistant advises.
type Profile struct {
	Name        string `json:"nombre"`
	RiskProfile string `json:"perfil_riesgo"`
	Goal        string `json:"objetivo"`
}

// Holding is one position in the portfolio: quantity held and its reference
// unit price in USD.
type Holding struct {
	Amount   float64 `json:"cantidad"`
	PriceUSD float64 `json:"precio_usd"`
}

// Portfolio is the user's portfolio snapshot. It is loaded once at startup
// and read-only afterwards.
type Portfolio struct {
	TotalValueUSD float64            `json:"valor_total_usd"`
	Change24hPct  float64            `json:"rentabilidad_24h_pct"`
	Distribution  map[string]float64 `json:"distribucion"`
	Holdings      map[string]Holding `json:"detalle"`
}

// Transaction is one historical portfolio movement.
type Transaction struct {
	Date     string  `json:"fecha"`
	Asset    string  `json:"activo"`
	Amount   float64 `json:"cantidad"`
	Kind     string  `json:"tipo"`
	PriceUSD float64 `json:"precio_usd"`
}

// DefaultProfile returns the demo user profile.
func DefaultProfile() Profile {
	return Profile{
		Name:        "Juan Pérez",
		RiskProfile: "Moderado",
		Goal:        "Crecimiento moderado en 12-24 meses",
	}
}

// DefaultPortfolio returns the built-in portfolio fixture.
func DefaultPortfolio() Portfolio {
	return Portfolio{
		TotalValueUSD: 45823.67,
		Change24hPct:  12.34,
		Distribution: map[string]float64{
			"bitcoin":     0.35,
			"ethereum":    0.30,
			"stablecoins": 0.20,
			"other":       0.15,
		},
		Holdings: map[string]Holding{
			"bitcoin":     {Amount: 0.8, PriceUSD: 30000},
			"ethereum":    {Amount: 5, PriceUSD: 3200},
			"stablecoins": {Amount: 9000, PriceUSD: 1},
			"other":       {Amount: 2000, PriceUSD: 1},
		},
	}
}

// DefaultTransactions returns the historical transactions fixture.
func DefaultTransactions() []Transaction {
	return []Transaction{
		{Date: "2025-10-10", Asset: "bitcoin", Amount: 0.5, Kind: "compra", PriceUSD: 25000},
		{Date: "2025-09-15", Asset: "ethereum", Amount: 5, Kind: "compra", PriceUSD: 3000},
		{Date: "2025-08-01", Asset: "stablecoins", Amount: 9000, Kind: "compra", PriceUSD: 1},
	}
}

// LoadPortfolio reads a portfolio snapshot from a JSON file. When path is
// empty or the file cannot be read or parsed, the built-in fixture is
// returned instead; a bad portfolio file must not prevent startup.
func LoadPortfolio(path string, log *slog.Logger) Portfolio {
	if path == "" {
		return DefaultPortfolio()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		log.Warn("Failed to read portfolio file, using built-in fixture", "path", path, "error", err)
		return DefaultPortfolio()
	}

	var p Portfolio
	if err := json.Unmarshal(data, &p); err != nil {
		log.Warn("Failed to parse portfolio file, using built-in fixture", "path", path, "error", err)
		return DefaultPortfolio()
	}

	log.Info("Portfolio loaded from file", "path", path, "total_value_usd", fmt.Sprintf("%.2f", p.TotalValueUSD))
	return p
}
