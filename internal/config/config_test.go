package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/multierr"

	"github.com/Faultbox/midgard-water/internal/engine/camera"
	"github.com/Faultbox/midgard-water/internal/engine/rendertarget"
	"github.com/Faultbox/midgard-water/internal/engine/water"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	// Test graphics defaults
	if cfg.Graphics.Width != 1280 {
		t.Errorf("expected width 1280, got %d", cfg.Graphics.Width)
	}
	if cfg.Graphics.Height != 720 {
		t.Errorf("expected height 720, got %d", cfg.Graphics.Height)
	}
	if cfg.Graphics.Fullscreen {
		t.Error("expected fullscreen to be false by default")
	}
	if !cfg.Graphics.VSync {
		t.Error("expected vsync to be true by default")
	}

	// Test water defaults
	if cfg.Water.Mode != water.Refractive {
		t.Errorf("expected refractive mode, got %v", cfg.Water.Mode)
	}
	if cfg.Water.TextureSize != 256 {
		t.Errorf("expected texture size 256, got %d", cfg.Water.TextureSize)
	}
	if cfg.Water.ClipPlaneOffset != 0.07 {
		t.Errorf("expected clip plane offset 0.07, got %f", cfg.Water.ClipPlaneOffset)
	}
	if !cfg.Water.DisablePixelLights {
		t.Error("expected pixel lights disabled in mirror passes by default")
	}
	if cfg.Water.ReflectLayers != camera.AllLayers || cfg.Water.RefractLayers != camera.AllLayers {
		t.Error("expected all layers reflected and refracted by default")
	}

	// Test logging defaults
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "" {
		t.Errorf("expected empty log file, got %s", cfg.Logging.LogFile)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestWaterSettings(t *testing.T) {
	cfg := Default()
	cfg.Water.LocalKeywords = true
	cfg.Water.ReflectLayers = 0x0f

	s := cfg.Water.Settings()
	if s.Mode != water.Refractive || s.TextureSize != 256 || !s.LocalKeywords || s.ReflectLayers != 0x0f {
		t.Errorf("Settings() = %+v", s)
	}
}

func TestLoadFromFile(t *testing.T) {
	// Create temporary config file
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
graphics:
  width: 1920
  height: 1080
  fullscreen: true
  vsync: false
  fps_limit: 144

water:
  mode: reflective
  texture_size: 512
  clip_plane_offset: 0.1
  local_keywords: true

wave:
  speed: [1, 2, 3, 4]
  scale: 0.1

lighting:
  pixel_lights: 2

logging:
  level: "debug"
  log_file: "water.log"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	// Load config
	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Verify values were loaded
	if cfg.Graphics.Width != 1920 {
		t.Errorf("expected width 1920, got %d", cfg.Graphics.Width)
	}
	if cfg.Graphics.Height != 1080 {
		t.Errorf("expected height 1080, got %d", cfg.Graphics.Height)
	}
	if !cfg.Graphics.Fullscreen {
		t.Error("expected fullscreen to be true")
	}
	if cfg.Graphics.VSync {
		t.Error("expected vsync to be false")
	}
	if cfg.Graphics.FPSLimit != 144 {
		t.Errorf("expected fps limit 144, got %d", cfg.Graphics.FPSLimit)
	}

	if cfg.Water.Mode != water.Reflective {
		t.Errorf("expected reflective mode, got %v", cfg.Water.Mode)
	}
	if cfg.Water.TextureSize != 512 {
		t.Errorf("expected texture size 512, got %d", cfg.Water.TextureSize)
	}
	if cfg.Water.ClipPlaneOffset != 0.1 {
		t.Errorf("expected clip plane offset 0.1, got %f", cfg.Water.ClipPlaneOffset)
	}
	if !cfg.Water.LocalKeywords {
		t.Error("expected local keywords")
	}
	// Untouched keys keep their defaults.
	if !cfg.Water.DisablePixelLights {
		t.Error("expected disable_pixel_lights default to survive")
	}

	if cfg.Wave.Speed != [4]float32{1, 2, 3, 4} || cfg.Wave.Scale != 0.1 {
		t.Errorf("unexpected wave config %+v", cfg.Wave)
	}
	if cfg.Lighting.PixelLights != 2 {
		t.Errorf("expected 2 pixel lights, got %d", cfg.Lighting.PixelLights)
	}

	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "water.log" {
		t.Errorf("expected log file 'water.log', got %s", cfg.Logging.LogFile)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	// Create temporary config file with invalid YAML
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")

	invalidYAML := `
graphics:
  width: not a number
  invalid syntax here
`

	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	// Try to load - should error
	cfg := Default()
	err := loadFromFile(cfg, configPath)
	if err == nil {
		t.Error("expected error loading invalid YAML, got nil")
	}
}

func TestLoadFromFileUnknownMode(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte("water:\n  mode: glossy\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	if err := loadFromFile(Default(), configPath); err == nil {
		t.Error("expected error for unknown water mode")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	err := loadFromFile(cfg, "/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Graphics.Width = 0
	cfg.Water.TextureSize = -1
	cfg.Lighting.PixelLights = -2
	cfg.Logging.Level = "verbose"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	if n := len(multierr.Errors(err)); n != 4 {
		t.Errorf("expected 4 errors, got %d: %v", n, err)
	}
	if !errors.Is(err, rendertarget.ErrInvalidSize) {
		t.Error("expected texture size error to wrap ErrInvalidSize")
	}
}

func TestSaveToRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.Water.Mode = water.Simple
	cfg.Water.TextureSize = 128
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "mode: simple") {
		t.Errorf("mode not written as text:\n%s", data)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("loading saved config: %v", err)
	}
	if loaded.Water.Mode != water.Simple || loaded.Water.TextureSize != 128 {
		t.Errorf("loaded water config %+v", loaded.Water)
	}
}

func TestSaveWritesExplicitPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "water.yaml")
	*flagConfig = path
	defer func() { *flagConfig = "" }()

	if got := SavePath(); got != path {
		t.Fatalf("SavePath = %s, want %s", got, path)
	}

	cfg := Default()
	cfg.Water.Mode = water.Reflective
	cfg.Water.TextureSize = 512
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatal(err)
	}
	if loaded.Water.Mode != water.Reflective || loaded.Water.TextureSize != 512 {
		t.Errorf("loaded water config %+v", loaded.Water)
	}
}

func TestSavePathDefault(t *testing.T) {
	if got, want := SavePath(), filepath.Join(ConfigDir(), "config.yaml"); got != want {
		t.Errorf("SavePath = %s, want %s", got, want)
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()

	// Just verify it returns a non-empty path
	// Actual path depends on OS
	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}

	// Verify path is absolute
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	// Save current directory
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)

	// Create temp directory and change to it
	tmpDir := t.TempDir()
	os.Chdir(tmpDir)

	// No config file exists - should return empty
	path := findConfigFile()
	if path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	// Create config.yaml in current directory
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("graphics:\n  width: 800\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}

	// Should find it now
	path = findConfigFile()
	if path == "" {
		t.Error("expected to find config.yaml in current directory")
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name     string
		setup    func()
		verify   func(*Config)
		teardown func()
	}{
		{
			name: "debug flag",
			setup: func() {
				*flagDebug = true
			},
			verify: func(cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
			},
			teardown: func() {
				*flagDebug = false
			},
		},
		{
			name: "mode flag",
			setup: func() {
				*flagMode = "Reflective"
			},
			verify: func(cfg *Config) {
				if cfg.Water.Mode != water.Reflective {
					t.Errorf("expected reflective mode, got %v", cfg.Water.Mode)
				}
			},
			teardown: func() {
				*flagMode = ""
			},
		},
		{
			name: "texture size flag",
			setup: func() {
				*flagTextureSize = 1024
			},
			verify: func(cfg *Config) {
				if cfg.Water.TextureSize != 1024 {
					t.Errorf("expected texture size 1024, got %d", cfg.Water.TextureSize)
				}
			},
			teardown: func() {
				*flagTextureSize = 0
			},
		},
		{
			name: "windowed flag",
			setup: func() {
				*flagWindowed = true
			},
			verify: func(cfg *Config) {
				if cfg.Graphics.Fullscreen {
					t.Error("expected fullscreen to be false with windowed flag")
				}
			},
			teardown: func() {
				*flagWindowed = false
			},
		},
		{
			name: "fullscreen flag",
			setup: func() {
				*flagFullscreen = true
			},
			verify: func(cfg *Config) {
				if !cfg.Graphics.Fullscreen {
					t.Error("expected fullscreen to be true with fullscreen flag")
				}
			},
			teardown: func() {
				*flagFullscreen = false
			},
		},
		{
			name: "width and height flags",
			setup: func() {
				*flagWidth = 2560
				*flagHeight = 1440
			},
			verify: func(cfg *Config) {
				if cfg.Graphics.Width != 2560 {
					t.Errorf("expected width 2560, got %d", cfg.Graphics.Width)
				}
				if cfg.Graphics.Height != 1440 {
					t.Errorf("expected height 1440, got %d", cfg.Graphics.Height)
				}
			},
			teardown: func() {
				*flagWidth = 0
				*flagHeight = 0
			},
		},
		{
			name: "frames flag",
			setup: func() {
				*flagFrames = 10
			},
			verify: func(cfg *Config) {
				if cfg.Probe.Frames != 10 {
					t.Errorf("expected 10 frames, got %d", cfg.Probe.Frames)
				}
			},
			teardown: func() {
				*flagFrames = 0
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Setup
			tt.setup()
			defer tt.teardown()

			// Apply flags to default config
			cfg := Default()
			if err := applyFlags(cfg); err != nil {
				t.Fatalf("applyFlags: %v", err)
			}

			// Verify
			tt.verify(cfg)
		})
	}
}

func TestApplyFlagsBadMode(t *testing.T) {
	*flagMode = "opaque"
	defer func() { *flagMode = "" }()

	if err := applyFlags(Default()); err == nil {
		t.Error("expected error for unknown mode flag")
	}
}

func TestLoadPriority(t *testing.T) {
	// Create temporary config file
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
graphics:
  width: 1600
  height: 900
water:
  texture_size: 512
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	// Set flag to override config file
	*flagConfig = configPath
	*flagWidth = 1920
	*flagTextureSize = 128
	defer func() {
		*flagConfig = ""
		*flagWidth = 0
		*flagTextureSize = 0
	}()

	// Load config
	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Width should be from flag (1920), not file (1600)
	if cfg.Graphics.Width != 1920 {
		t.Errorf("expected width 1920 from flag, got %d", cfg.Graphics.Width)
	}

	// Height should be from file (900) since no flag override
	if cfg.Graphics.Height != 900 {
		t.Errorf("expected height 900 from file, got %d", cfg.Graphics.Height)
	}

	if cfg.Water.TextureSize != 128 {
		t.Errorf("expected texture size 128 from flag, got %d", cfg.Water.TextureSize)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte("water:\n  texture_size: -5\n"), 0644); err != nil {
		t.Fatal(err)
	}
	*flagConfig = configPath
	defer func() { *flagConfig = "" }()

	if _, err := Load(); err == nil {
		t.Error("expected Load to reject a negative texture size")
	}
}
