package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fx-signal-bot/internal/engine"
	"fx-signal-bot/internal/logger"
	"fx-signal-bot/internal/sched"
	"fx-signal-bot/internal/store"
	"fx-signal-bot/internal/web"
)

func must(err error) {
	if err != nil {
		log.Fatal(err)
	}
}

func main() {
	must(initializeSystem())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	defer func() { _ = logger.Shutdown(ctx) }()

	cfg, err := loadConfig(ctx)
	must(err)

	compressOldHistory(ctx)

	src, err := initializeFeed(ctx, cfg)
	must(err)
	sink, err := initializeNotifier(ctx, cfg)
	must(err)
	st := store.NewFileStore(cfg.StorePath)

	eng := engine.New(cfg, src, sink, st)
	logger.Info(ctx, "Bot started",
		"pairs", len(cfg.Pairs),
		"source", cfg.DataSource,
		"open_signals", st.Len(),
	)

	srv := web.NewServer(cfg.Web.Addr, eng, sink, os.Getenv("WEB_TEST_TOKEN"))
	srv.Start(ctx)

	runner := sched.NewRunner(
		sched.Job{
			Name:     "open",
			Interval: time.Duration(cfg.OpenIntervalSeconds) * time.Second,
			Fn:       eng.EvaluateOpens,
		},
		sched.Job{
			Name:     "close",
			Interval: time.Duration(cfg.CloseIntervalSeconds) * time.Second,
			Fn:       eng.EvaluateCloses,
		},
	)

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigc
		logger.Info(ctx, "Shutting down...")
		cancel()
	}()

	runner.Run(ctx)

	shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
	defer stop()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn(ctx, "Web server shutdown failed", "error", err)
	}
}
