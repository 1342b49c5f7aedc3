// Package main is the entry point for the oxy-orbit viewer.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/Carmen-Shannon/oxy-orbit/engine"
	"github.com/Carmen-Shannon/oxy-orbit/engine/config"
	"github.com/Carmen-Shannon/oxy-orbit/engine/logger"
	"github.com/Carmen-Shannon/oxy-orbit/engine/window"
)

func main() {
	os.Exit(run())
}

func run() int {
	flags, err := config.ParseFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Flag error: %v\n", err)
		return 2
	}

	cfg, err := config.Load(flags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		return 1
	}

	log, err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		return 1
	}
	defer logger.Sync()

	log.Info("=== oxy-orbit ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	w, err := window.NewWindow(
		window.WithConfig(cfg.Window),
		window.WithLogger(log),
	)
	if err != nil {
		log.Error("failed to open window", zap.Error(err))
		return 1
	}

	eng, err := engine.NewEngine(
		engine.WithWindow(w),
		engine.WithConfig(cfg),
		engine.WithLogger(log),
	)
	if err != nil {
		log.Error("failed to create engine", zap.Error(err))
		_ = w.Close()
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := eng.Run(ctx); err != nil {
		log.Error("viewer error", zap.Error(err))
		return 1
	}

	log.Info("viewer closed normally")
	return 0
}
