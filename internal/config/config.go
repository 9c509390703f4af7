// Package config handles water demo configuration loading and management.
package config

import (
	"fmt"

	"go.uber.org/multierr"

	"github.com/Faultbox/midgard-water/internal/engine/camera"
	"github.com/Faultbox/midgard-water/internal/engine/water"
)

// Config holds all settings.
type Config struct {
	Graphics GraphicsConfig `yaml:"graphics"`
	Water    WaterConfig    `yaml:"water"`
	Wave     WaveConfig     `yaml:"wave"`
	Lighting LightingConfig `yaml:"lighting"`
	Probe    ProbeConfig    `yaml:"probe"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// GraphicsConfig holds display and rendering settings.
type GraphicsConfig struct {
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	Fullscreen bool `yaml:"fullscreen"`
	VSync      bool `yaml:"vsync"`
	FPSLimit   int  `yaml:"fps_limit"`
}

// WaterConfig holds the settings of every water surface.
type WaterConfig struct {
	Mode               water.Mode `yaml:"mode"`
	DisablePixelLights bool       `yaml:"disable_pixel_lights"`
	TextureSize        int        `yaml:"texture_size"`
	ClipPlaneOffset    float32    `yaml:"clip_plane_offset"`
	ReflectLayers      uint32     `yaml:"reflect_layers"`
	RefractLayers      uint32     `yaml:"refract_layers"`
	LocalKeywords      bool       `yaml:"local_keywords"`
}

// WaveConfig holds the water material parameters.
type WaveConfig struct {
	Speed           [4]float32 `yaml:"speed"`
	Scale           float32    `yaml:"scale"`
	Distortion      float32    `yaml:"reflection_distortion"`
	HorizonColor    [4]float32 `yaml:"horizon_color"`
	RefractionColor [4]float32 `yaml:"refraction_color"`
}

// LightingConfig holds scene lighting settings.
type LightingConfig struct {
	PixelLights int `yaml:"pixel_lights"`
	// Sun angles in degrees: longitude around Y, latitude above the horizon.
	SunLongitude float32 `yaml:"sun_longitude"`
	SunLatitude  float32 `yaml:"sun_latitude"`
}

// ProbeConfig holds settings of the headless probe.
type ProbeConfig struct {
	Frames  int `yaml:"frames"`
	Viewers int `yaml:"viewers"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	s := water.DefaultSettings()
	return &Config{
		Graphics: GraphicsConfig{
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
			FPSLimit:   0,
		},
		Water: WaterConfig{
			Mode:               s.Mode,
			DisablePixelLights: s.DisablePixelLights,
			TextureSize:        s.TextureSize,
			ClipPlaneOffset:    s.ClipPlaneOffset,
			ReflectLayers:      camera.AllLayers,
			RefractLayers:      camera.AllLayers,
		},
		Wave: WaveConfig{
			Speed:           [4]float32{19, 9, -16, -7},
			Scale:           0.063,
			Distortion:      0.044,
			HorizonColor:    [4]float32{0.17, 0.29, 0.38, 1},
			RefractionColor: [4]float32{0.34, 0.85, 0.92, 1},
		},
		Lighting: LightingConfig{
			PixelLights:  4,
			SunLongitude: 53,
			SunLatitude:  63,
		},
		Probe: ProbeConfig{
			Frames:  3,
			Viewers: 1,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Settings converts the water section to surface settings.
func (w WaterConfig) Settings() water.Settings {
	return water.Settings{
		Mode:               w.Mode,
		DisablePixelLights: w.DisablePixelLights,
		TextureSize:        w.TextureSize,
		ClipPlaneOffset:    w.ClipPlaneOffset,
		ReflectLayers:      w.ReflectLayers,
		RefractLayers:      w.RefractLayers,
		LocalKeywords:      w.LocalKeywords,
	}
}

// Validate reports every value no component could run with.
func (c *Config) Validate() error {
	var err error
	if c.Graphics.Width <= 0 || c.Graphics.Height <= 0 {
		err = multierr.Append(err, fmt.Errorf("graphics: invalid size %dx%d", c.Graphics.Width, c.Graphics.Height))
	}
	if c.Graphics.FPSLimit < 0 {
		err = multierr.Append(err, fmt.Errorf("graphics: negative fps limit %d", c.Graphics.FPSLimit))
	}
	if e := c.Water.Settings().Validate(); e != nil {
		err = multierr.Append(err, fmt.Errorf("water: %w", e))
	}
	if c.Lighting.PixelLights < 0 {
		err = multierr.Append(err, fmt.Errorf("lighting: negative pixel light count %d", c.Lighting.PixelLights))
	}
	if c.Probe.Frames < 0 || c.Probe.Viewers < 0 {
		err = multierr.Append(err, fmt.Errorf("probe: negative frames or viewers"))
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error", "":
	default:
		err = multierr.Append(err, fmt.Errorf("logging: unknown level %q", c.Logging.Level))
	}
	return err
}
