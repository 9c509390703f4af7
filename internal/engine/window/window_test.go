package window

import "testing"

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Title != "Midgard Water" {
		t.Errorf("Title = %q", cfg.Title)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		t.Errorf("size = %dx%d", cfg.Width, cfg.Height)
	}
	if cfg.DepthBits != 24 || cfg.Samples != 0 || !cfg.VSync {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestNewRejectsSize(t *testing.T) {
	for _, size := range [][2]int{{0, 720}, {1280, 0}, {-1, -1}} {
		cfg := DefaultConfig()
		cfg.Width, cfg.Height = size[0], size[1]
		if w, err := New(cfg); err == nil {
			w.Close()
			t.Errorf("New(%dx%d) succeeded", size[0], size[1])
		}
	}
}
