package probe

import (
	"errors"
	"slices"
	"testing"

	"github.com/Faultbox/midgard-water/internal/config"
	"github.com/Faultbox/midgard-water/internal/engine/headless"
	"github.com/Faultbox/midgard-water/internal/engine/water"
	"gopkg.in/yaml.v3"
)

func TestRunDefault(t *testing.T) {
	h := headless.New(4)
	r, err := Run(config.Default(), h)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if r.Frames != 3 || r.Viewers != 1 {
		t.Errorf("frames/viewers = %d/%d", r.Frames, r.Viewers)
	}
	if r.MirrorRenders < 2*r.Frames {
		t.Errorf("mirror renders = %d, want at least %d", r.MirrorRenders, 2*r.Frames)
	}
	if r.Renders != r.Frames*r.Viewers+r.MirrorRenders {
		t.Errorf("renders = %d, mirror = %d", r.Renders, r.MirrorRenders)
	}
	if r.Leaked != 0 {
		t.Errorf("leaked %d targets", r.Leaked)
	}
	if r.Releases != r.Allocations {
		t.Errorf("releases = %d, allocations = %d", r.Releases, r.Allocations)
	}
	if !slices.Equal(r.Keywords, []string{water.KeywordRefractive}) {
		t.Errorf("keywords = %v", r.Keywords)
	}

	lake := r.Surfaces[0]
	if lake.Frames != 3 || lake.Reentrant != 0 || lake.Failures != 0 || lake.Panics != 0 {
		t.Errorf("lake counters = %+v", lake)
	}
	if lake.Mode != "refractive" {
		t.Errorf("lake mode = %s", lake.Mode)
	}
	if lake.MirrorCameras != 2 {
		t.Errorf("lake mirror cameras = %d, want 2", lake.MirrorCameras)
	}
	if lake.ReflectionSize != 256 || lake.RefractionSize != 256 {
		t.Errorf("lake targets = %d/%d", lake.ReflectionSize, lake.RefractionSize)
	}
}

func TestRunViewers(t *testing.T) {
	cfg := config.Default()
	cfg.Probe.Viewers = 3
	cfg.Probe.Frames = 2
	r, err := Run(cfg, headless.New(4))
	if err != nil {
		t.Fatal(err)
	}
	if got := r.Surfaces[0].MirrorCameras; got != 6 {
		t.Errorf("lake mirror cameras = %d, want 6", got)
	}
	if got := r.Surfaces[0].Frames; got != 6 {
		t.Errorf("lake frames = %d, want 6", got)
	}
}

func TestRunModes(t *testing.T) {
	tests := []struct {
		name     string
		mode     water.Mode
		noTarget bool
		want     string
		keyword  string
		mirror   bool
	}{
		{"simple", water.Simple, false, "simple", water.KeywordSimple, false},
		{"reflective", water.Reflective, false, "reflective", water.KeywordReflective, true},
		{"no render targets", water.Refractive, true, "simple", water.KeywordSimple, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.Water.Mode = tt.mode
			h := headless.New(4)
			h.NoRenderTargets = tt.noTarget
			r, err := Run(cfg, h)
			if err != nil {
				t.Fatal(err)
			}
			if r.Surfaces[0].Mode != tt.want {
				t.Errorf("mode = %s, want %s", r.Surfaces[0].Mode, tt.want)
			}
			if !slices.Equal(r.Keywords, []string{tt.keyword}) {
				t.Errorf("keywords = %v", r.Keywords)
			}
			if (r.MirrorRenders > 0) != tt.mirror {
				t.Errorf("mirror renders = %d", r.MirrorRenders)
			}
			if !tt.mirror && r.Allocations != 0 {
				t.Errorf("allocations = %d, want 0", r.Allocations)
			}
		})
	}
}

func TestRunNothing(t *testing.T) {
	cfg := config.Default()
	cfg.Probe.Frames = 0
	if _, err := Run(cfg, headless.New(4)); !errors.Is(err, ErrNothingToProbe) {
		t.Errorf("err = %v, want ErrNothingToProbe", err)
	}
}

func TestRunRestoresHook(t *testing.T) {
	h := headless.New(4)
	if _, err := Run(config.Default(), h); err != nil {
		t.Fatal(err)
	}
	if h.OnRender != nil {
		t.Error("OnRender left installed")
	}
}

func TestViewers(t *testing.T) {
	cams := Viewers(4)
	if len(cams) != 4 {
		t.Fatalf("%d viewers", len(cams))
	}
	ids := map[uint64]bool{}
	for _, c := range cams {
		if c.Position.Y != viewerHeight {
			t.Errorf("%s at y=%v", c.Name, c.Position.Y)
		}
		// looking down toward the origin
		if c.Forward.Y >= 0 {
			t.Errorf("%s forward = %+v", c.Name, c.Forward)
		}
		ids[uint64(c.ID)] = true
	}
	if len(ids) != 4 {
		t.Error("viewer IDs not unique")
	}
}

func TestReportYAML(t *testing.T) {
	r, err := Run(config.Default(), headless.New(4))
	if err != nil {
		t.Fatal(err)
	}
	out, err := yaml.Marshal(r)
	if err != nil {
		t.Fatal(err)
	}
	var back Report
	if err := yaml.Unmarshal(out, &back); err != nil {
		t.Fatal(err)
	}
	if back.Renders != r.Renders || len(back.Surfaces) != len(r.Surfaces) {
		t.Errorf("decoded report = %+v", back)
	}
}
