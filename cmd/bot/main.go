package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"TradeFalcon/internal/collector"
	"TradeFalcon/internal/config"
	"TradeFalcon/internal/executor"
	"TradeFalcon/internal/ledger"
	"TradeFalcon/internal/scheduler"
	"TradeFalcon/internal/screener"
	"TradeFalcon/internal/store"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] TradeFalcon starting...")

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	// Init market data collector
	if cfg.DataSource.BaseURL == "" {
		log.Fatalf("[FATAL] data_source.base_url is required")
	}
	fetcher := collector.NewRESTFetcher(cfg.DataSource.BaseURL, cfg.DataSource.APIKey, cfg.Proxy)
	log.Printf("[INFO] market data source: %s", fetcher.Name())
	col := collector.New(fetcher, 30*time.Second)

	// Init screener feed
	var feed screener.Feed
	switch {
	case cfg.Screener.BaseURL != "":
		feed = screener.NewRESTFeed(cfg.Screener.BaseURL, cfg.Proxy)
	case cfg.Screener.FilePath != "":
		feed = screener.NewFileFeed(cfg.Screener.FilePath)
	default:
		log.Fatalf("[FATAL] screener.base_url or screener.file_path is required")
	}
	log.Printf("[INFO] screener feed: %s", feed.Name())
	cachedFeed := screener.NewCachedFeed(feed, 30*time.Second)

	// Init ledger store
	var st store.Store
	if cfg.Database.SQLitePath != "" {
		ss, err := store.NewSQLiteStore(cfg.Database.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite store failed, using in-memory: %v", err)
			st = store.NewMemoryStore()
		} else {
			st = ss
			defer ss.Close()
		}
	} else {
		st = store.NewMemoryStore()
	}

	// Init ledger
	ldg, err := ledger.New(st, cfg.Trading.InitialBalance)
	if err != nil {
		log.Fatalf("[FATAL] init ledger: %v", err)
	}

	// Init executor
	exec := executor.New(cfg, col, cachedFeed, ldg)

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Init scheduler
	sched := scheduler.NewScheduler(ctx, exec)
	if err := sched.RegisterAll(cfg.Schedule.ScanCron, cfg.Schedule.MonitorCron); err != nil {
		log.Fatalf("[FATAL] register cron tasks: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	// Optional: run immediately on start
	if os.Getenv("RUN_ON_START") == "true" {
		log.Println("[INFO] RUN_ON_START enabled, executing feed scan now")
		go sched.RunScanNow()
	}

	log.Println("[INFO] TradeFalcon is running. Press Ctrl+C to stop.")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	cancel()
	log.Println("[INFO] TradeFalcon stopped")
}
