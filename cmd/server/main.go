package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"marketinsights/internal/config"
	"marketinsights/internal/ingest"
	"marketinsights/internal/insights"
	"marketinsights/internal/logger"
	"marketinsights/internal/mailer"
	"marketinsights/internal/news"
	"marketinsights/internal/storage"
	"marketinsights/internal/telegram"
	"marketinsights/internal/web"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	dbPath := flag.String("db", "", "path to SQLite database (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}
	if *dbPath != "" {
		cfg.Database.Path = *dbPath
	}

	log := logger.New(cfg.Logging.Level)
	log.Info("starting market-insights", "db", cfg.Database.Path)

	if cfg.OpenAI.APIKey != "" {
		log.Info("insights enabled")
	} else {
		log.Info("insights in demo mode, set OPENAI_API_KEY for live responses")
	}

	db, err := storage.NewDatabase(cfg.Database.Path)
	if err != nil {
		log.Error("database init failed", "error", err)
		os.Exit(1)
	}
	repo := storage.NewRepository(db)

	notifier := telegram.NewNotifier(cfg, log)
	server := web.NewServer(
		repo,
		cfg,
		log,
		ingest.NewAlphaVantageClient(log),
		ingest.NewYahooClient(log),
		insights.NewClient(cfg, log),
		news.NewProvider(),
		mailer.New(cfg, log),
		notifier,
	)

	go func() {
		if err := server.Start(); err != nil {
			log.Error("web server error", "error", err)
			os.Exit(1)
		}
	}()

	notifier.NotifyStatus(fmt.Sprintf("📈 Market Insights started on port %d", cfg.Server.Port))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	log.Info("shutdown signal received", "signal", sig.String())

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("web server shutdown error", "error", err)
	}

	notifier.NotifyStatus("🛑 Market Insights stopped")
	log.Info("market-insights stopped")
}
