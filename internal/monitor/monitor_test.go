package monitor

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/walletwise/walletwise/internal/config"
	"github.com/walletwise/walletwise/internal/market"
)

func newTestMonitor(t *testing.T, change24h string, available bool) *Monitor {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if !available {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"bitcoin": {"usd": 67000.0, "usd_24h_change": ` + change24h + `}}`))
	}))
	t.Cleanup(srv.Close)

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	gateway := market.NewGateway(config.MarketConfig{BaseURL: srv.URL, Timeout: time.Second}, log)

	m, err := New(gateway, config.MonitorConfig{
		Enabled:         true,
		Interval:        time.Minute,
		ChangeThreshold: 10.0,
	}, log)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return m
}

func TestSweepRaisesAlertAboveThreshold(t *testing.T) {
	t.Parallel()

	m := newTestMonitor(t, "15.3", true)
	m.sweep(context.Background())

	alert := m.Alert()
	if alert == "" {
		t.Fatal("expected an alert for a 15.3% move")
	}
	for _, want := range []string{"ALERTA DE VOLATILIDAD", "15.30%", "$67000.00"} {
		if !strings.Contains(alert, want) {
			t.Errorf("alert missing %q: %s", want, alert)
		}
	}
}

func TestSweepRaisesAlertOnNegativeMove(t *testing.T) {
	t.Parallel()

	m := newTestMonitor(t, "-12.5", true)
	m.sweep(context.Background())

	if !strings.Contains(m.Alert(), "-12.50%") {
		t.Errorf("alert should preserve the sign: %q", m.Alert())
	}
}

func TestSweepClearsAlertWhenCalm(t *testing.T) {
	t.Parallel()

	m := newTestMonitor(t, "2.0", true)
	m.alert.Store("previous alert")
	m.sweep(context.Background())

	if got := m.Alert(); got != "" {
		t.Errorf("alert = %q, want cleared", got)
	}
}

func TestSweepKeepsAlertWhenQuoteUnavailable(t *testing.T) {
	t.Parallel()

	m := newTestMonitor(t, "", false)
	m.alert.Store("stale alert")
	m.sweep(context.Background())

	if got := m.Alert(); got != "stale alert" {
		t.Errorf("alert = %q, want the stale alert kept", got)
	}
}

func TestStartAndStop(t *testing.T) {
	t.Parallel()

	m := newTestMonitor(t, "11.0", true)
	if err := m.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if m.Alert() == "" {
		t.Error("initial sweep should have raised an alert")
	}
	if err := m.Stop(); err != nil {
		t.Errorf("Stop() error = %v", err)
	}
}
