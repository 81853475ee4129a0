// Package monitor runs a periodic market volatility sweep and caches the
// latest alert for the advisor greeting.
package monitor

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sync/atomic"

	"github.com/go-co-op/gocron/v2"

	"github.com/walletwise/walletwise/internal/config"
	"github.com/walletwise/walletwise/internal/market"
)

// Monitor periodically checks Bitcoin's 24h change against a volatility
// threshold. When the threshold is crossed an alert message is cached; it is
// cleared again once the market calms down.
type Monitor struct {
	gateway   *market.Gateway
	interval  gocron.JobDefinition
	threshold float64
	scheduler gocron.Scheduler
	alert     atomic.Value
	log       *slog.Logger
}

// New creates a Monitor. Call Start to begin sweeping.
func New(gateway *market.Gateway, cfg config.MonitorConfig, log *slog.Logger) (*Monitor, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	m := &Monitor{
		gateway:   gateway,
		interval:  gocron.DurationJob(cfg.Interval),
		threshold: cfg.ChangeThreshold,
		scheduler: scheduler,
		log:       log.With("component", "monitor"),
	}
	m.alert.Store("")

	return m, nil
}

// Start runs an initial sweep and schedules recurring ones.
func (m *Monitor) Start(ctx context.Context) error {
	m.sweep(ctx)

	_, err := m.scheduler.NewJob(
		m.interval,
		gocron.NewTask(m.sweep, ctx),
		gocron.WithName("volatility-sweep"),
	)
	if err != nil {
		return fmt.Errorf("failed to schedule volatility sweep: %w", err)
	}

	m.scheduler.Start()
	m.log.InfoContext(ctx, "Volatility monitor started", "threshold_pct", m.threshold)
	return nil
}

// Stop shuts the scheduler down.
func (m *Monitor) Stop() error {
	if err := m.scheduler.Shutdown(); err != nil {
		return fmt.Errorf("failed to stop scheduler: %w", err)
	}
	return nil
}

// Alert returns the cached volatility alert, or "" when the market is calm.
func (m *Monitor) Alert() string {
	s, _ := m.alert.Load().(string)
	return s
}

func (m *Monitor) sweep(ctx context.Context) {
	quote := m.gateway.SpotPrice(ctx, "bitcoin", "usd")
	if quote == nil {
		m.log.WarnContext(ctx, "Volatility sweep skipped, no quote available")
		return
	}

	if math.Abs(quote.Change24h) < m.threshold {
		m.alert.Store("")
		return
	}

	alert := fmt.Sprintf(
		"🚨 **ALERTA DE VOLATILIDAD**: Bitcoin ha variado %.2f%% en las últimas 24 horas (precio actual: $%.2f USD). Recomiendo revisar tu portafolio.",
		quote.Change24h, quote.Price)
	m.alert.Store(alert)
	m.log.InfoContext(ctx, "Volatility alert raised", "change_24h_pct", quote.Change24h, "price_usd", quote.Price)
}
