// Package main runs the water pipeline on a headless host and prints a
// YAML report of the passes, targets and mirror cameras it produced.
package main

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/Faultbox/midgard-water/internal/config"
	"github.com/Faultbox/midgard-water/internal/engine/headless"
	"github.com/Faultbox/midgard-water/internal/logger"
	"github.com/Faultbox/midgard-water/internal/probe"
)

// Exit codes.
const (
	exitOK     = 0
	exitFailed = 1
	exitLeaked = 2
)

func main() {
	config.ParseFlags()
	os.Exit(run(os.Stdout))
}

// run executes the probe and returns the process exit code. Deferred
// cleanup, the logger flush included, runs before main exits.
func run(out io.Writer) int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		return exitFailed
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		return exitFailed
	}
	defer logger.Sync()

	report, err := probe.Run(cfg, headless.New(cfg.Lighting.PixelLights))
	if err != nil {
		logger.Error("probe failed", zap.Error(err))
		return exitFailed
	}

	if err := writeReport(out, report); err != nil {
		logger.Error("writing report", zap.Error(err))
		return exitFailed
	}
	if report.Leaked > 0 {
		logger.Warn("render targets leaked", zap.Int("count", report.Leaked))
		return exitLeaked
	}
	return exitOK
}

func writeReport(out io.Writer, report *probe.Report) error {
	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	if err := enc.Encode(report); err != nil {
		return err
	}
	return enc.Close()
}
