package config

import (
	"flag"

	"github.com/Faultbox/midgard-water/internal/engine/water"
)

var (
	flagConfig      = flag.String("config", "", "Path to config file")
	flagDebug       = flag.Bool("debug", false, "Enable debug logging")
	flagMode        = flag.String("mode", "", "Water mode: simple, reflective or refractive")
	flagTextureSize = flag.Int("texture-size", 0, "Reflection/refraction texture size")
	flagWindowed    = flag.Bool("windowed", false, "Run in windowed mode")
	flagFullscreen  = flag.Bool("fullscreen", false, "Run in fullscreen mode")
	flagWidth       = flag.Int("width", 0, "Window width")
	flagHeight      = flag.Int("height", 0, "Window height")
	flagFrames      = flag.Int("frames", 0, "Frames to run (headless probe)")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) error {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagMode != "" {
		mode, err := water.ParseMode(*flagMode)
		if err != nil {
			return err
		}
		cfg.Water.Mode = mode
	}
	if *flagTextureSize > 0 {
		cfg.Water.TextureSize = *flagTextureSize
	}
	if *flagWindowed {
		cfg.Graphics.Fullscreen = false
	}
	if *flagFullscreen {
		cfg.Graphics.Fullscreen = true
	}
	if *flagWidth > 0 {
		cfg.Graphics.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Graphics.Height = *flagHeight
	}
	if *flagFrames > 0 {
		cfg.Probe.Frames = *flagFrames
	}
	return nil
}
