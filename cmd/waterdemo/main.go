// Package main is the entry point for the interactive water demo.
package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-water/internal/config"
	"github.com/Faultbox/midgard-water/internal/demo"
	"github.com/Faultbox/midgard-water/internal/logger"
)

func main() {
	// Parse CLI flags first
	config.ParseFlags()
	os.Exit(run())
}

// run starts the demo and returns the process exit code. Deferred cleanup
// runs before main exits.
func run() int {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		return 1
	}

	// Initialize logger
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		return 1
	}
	defer logger.Sync()

	logger.Info("=== Midgard Water ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	d, err := demo.New(cfg)
	if err != nil {
		logger.Error("failed to create demo", zap.Error(err))
		return 1
	}
	defer d.Close()

	if err := d.Run(); err != nil {
		logger.Error("demo error", zap.Error(err))
		return 1
	}

	logger.Info("demo closed normally")
	return 0
}
