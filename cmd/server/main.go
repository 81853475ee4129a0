// Package main contains the entrypoint for the assistant HTTP server.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/walletwise/walletwise/internal/advisor"
	"github.com/walletwise/walletwise/internal/config"
	"github.com/walletwise/walletwise/internal/intent"
	"github.com/walletwise/walletwise/internal/llm"
	"github.com/walletwise/walletwise/internal/logger"
	"github.com/walletwise/walletwise/internal/market"
	"github.com/walletwise/walletwise/internal/monitor"
	"github.com/walletwise/walletwise/internal/server"
	"github.com/walletwise/walletwise/internal/store"

	_ "modernc.org/sqlite"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	exitCode := run(ctx)
	stop()
	os.Exit(exitCode)
}

// run initializes all application components (config, logger, db, llm client,
// market gateway, pipelines, monitor, http server), handles graceful
// shutdown, and returns an exit code (0 for success, 1 for failure).
func run(ctx context.Context) int {
	configPath := flag.String("config", "./config.yaml", "Path to configuration file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		slog.Error("Failed to load configuration", "path", *configPath, "error", err)
		return 1
	}

	log := logger.NewLogger(cfg.Logger.Level, cfg.Logger.JSON)
	log.Info("Logger initialized", "level", cfg.Logger.Level, "json", cfg.Logger.JSON)

	db, err := store.NewDB(cfg.Database.Path)
	if err != nil {
		log.Error("Failed to connect to database", "path", cfg.Database.Path, "error", err)
		return 1
	}
	defer store.CloseDB(db)
	st := store.NewStore(db, log)

	llmClient, err := llm.NewClient(ctx, cfg.LLM, log)
	if err != nil {
		log.Error("Failed to initialize LLM client", "error", err)
		return 1
	}

	gateway := market.NewGateway(cfg.Market, log)
	classifier := intent.NewClassifier(llmClient, log)

	mon, err := monitor.New(gateway, cfg.Monitor, log)
	if err != nil {
		log.Error("Failed to create volatility monitor", "error", err)
		return 1
	}
	alertFn := func() string { return "" }
	if cfg.Monitor.Enabled {
		if err := mon.Start(ctx); err != nil {
			log.Error("Failed to start volatility monitor", "error", err)
			return 1
		}
		defer func() {
			if err := mon.Stop(); err != nil {
				log.Warn("Failed to stop volatility monitor", "error", err)
			}
		}()
		alertFn = mon.Alert
	}

	mktContext := advisor.NewMarketContextBuilder(gateway, log)
	profile := advisor.DefaultProfile()
	portfolio := advisor.LoadPortfolio(cfg.Advisor.PortfolioPath, log)
	transactions := advisor.DefaultTransactions()

	advisorVariant := advisor.NewAdvisorVariant(profile, portfolio, transactions, mktContext, alertFn)
	transactionVariant := advisor.NewTransactionVariant(st, mktContext, log)
	educationVariant := advisor.NewEducationVariant(mktContext)

	pipelines := server.Pipelines{
		Advisor:     advisor.NewPipeline(classifier, llmClient, advisorVariant, log),
		Transaction: advisor.NewPipeline(classifier, llmClient, transactionVariant, log),
		Education:   advisor.NewPipeline(classifier, llmClient, educationVariant, log),
	}

	srv := server.New(cfg.Server, pipelines, classifier, llmClient, gateway, st, log)
	httpServer := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("HTTP server listening", "addr", cfg.Server.Addr)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info("Shutdown signal received")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP server failed", "error", err)
			return 1
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown failed", "error", err)
		return 1
	}

	log.Info("Server stopped gracefully.")
	return 0
}
