// Package probe drives the water pipeline on a headless host and reports
// what it rendered and allocated. It is used to check a configuration
// without a window or GPU.
package probe

import (
	"errors"
	"fmt"
	gomath "math"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-water/internal/config"
	"github.com/Faultbox/midgard-water/internal/engine/camera"
	"github.com/Faultbox/midgard-water/internal/engine/headless"
	"github.com/Faultbox/midgard-water/internal/engine/rendertarget"
	"github.com/Faultbox/midgard-water/internal/engine/scene"
	"github.com/Faultbox/midgard-water/internal/engine/visibility"
	"github.com/Faultbox/midgard-water/internal/logger"
	"github.com/Faultbox/midgard-water/pkg/math"
)

// ErrNothingToProbe is returned when the configuration asks for zero frames
// or zero viewers.
var ErrNothingToProbe = errors.New("probe: no frames or viewers")

// frameStep is the simulated time between probe frames.
const frameStep = time.Second / 60

// Viewer orbit around the scene origin.
const (
	viewerDistance = 25
	viewerHeight   = 10
)

// Report summarizes a probe run.
type Report struct {
	Frames        int             `yaml:"frames"`
	Viewers       int             `yaml:"viewers"`
	Renders       int             `yaml:"renders"`
	MirrorRenders int             `yaml:"mirrorRenders"`
	Allocations   int             `yaml:"allocations"`
	Releases      int             `yaml:"releases"`
	Leaked        int             `yaml:"leaked"`
	Keywords      []string        `yaml:"keywords"`
	Surfaces      []SurfaceReport `yaml:"surfaces"`
}

// SurfaceReport holds the counters of one water surface.
type SurfaceReport struct {
	ID             uint64 `yaml:"id"`
	Mode           string `yaml:"mode"`
	Frames         int    `yaml:"frames"`
	Skipped        int    `yaml:"skipped"`
	Reentrant      int    `yaml:"reentrant"`
	Failures       int    `yaml:"failures"`
	Panics         int    `yaml:"panics"`
	MirrorCameras  int    `yaml:"mirrorCameras"`
	ReflectionSize int    `yaml:"reflectionSize"`
	RefractionSize int    `yaml:"refractionSize"`
}

// Viewers returns n cameras spaced evenly on a circle around the origin,
// all looking at it.
func Viewers(n int) []*camera.Camera {
	cams := make([]*camera.Camera, 0, n)
	for i := range n {
		yaw := 2 * gomath.Pi * float64(i) / float64(n)
		cam := camera.New(fmt.Sprintf("Viewer %d", i))
		cam.Position = math.Vec3{
			X: viewerDistance * float32(gomath.Sin(yaw)),
			Y: viewerHeight,
			Z: viewerDistance * float32(gomath.Cos(yaw)),
		}
		cam.LookAt(math.Vec3{}, math.Up)
		cams = append(cams, cam)
	}
	return cams
}

// Run builds the scene on h and renders cfg.Probe.Frames frames for
// cfg.Probe.Viewers viewers. Every render, mirror renders included,
// notifies the visible surfaces the way a real host does.
func Run(cfg *config.Config, h *headless.Host) (*Report, error) {
	if cfg.Probe.Frames <= 0 || cfg.Probe.Viewers <= 0 {
		return nil, ErrNothingToProbe
	}

	sc, err := scene.Build(cfg, h, h)
	if err != nil {
		return nil, fmt.Errorf("building scene: %w", err)
	}

	d := visibility.NewDispatcher()
	sc.Register(d)
	prevHook := h.OnRender
	h.OnRender = func(cam *camera.Camera, _ rendertarget.Target) error {
		d.Notify(cam)
		return nil
	}
	defer func() { h.OnRender = prevHook }()

	viewers := Viewers(cfg.Probe.Viewers)
	for i := range cfg.Probe.Frames {
		frame := h.BeginFrame()
		sc.Update(time.Duration(i) * frameStep)
		for _, v := range viewers {
			if err := h.Render(v, nil); err != nil {
				sc.Destroy()
				return nil, fmt.Errorf("frame %d, %s: %w", frame, v.Name, err)
			}
		}
	}

	report := &Report{
		Frames:      cfg.Probe.Frames,
		Viewers:     cfg.Probe.Viewers,
		Allocations: h.Allocations(),
		Keywords:    h.EnabledKeywords(),
	}
	for _, call := range h.Renders() {
		report.Renders++
		if call.Target != "" {
			report.MirrorRenders++
		}
	}
	for _, s := range sc.Surfaces {
		st := s.Stats()
		sr := SurfaceReport{
			ID:            s.ID(),
			Mode:          s.LastMode().String(),
			Frames:        st.Frames,
			Skipped:       st.Skipped,
			Reentrant:     st.Reentrant,
			Failures:      st.Failures,
			Panics:        st.Panics,
			MirrorCameras: s.MirrorCameras(),
		}
		if t := s.Target(rendertarget.Reflection); t != nil {
			sr.ReflectionSize = t.Size()
		}
		if t := s.Target(rendertarget.Refraction); t != nil {
			sr.RefractionSize = t.Size()
		}
		report.Surfaces = append(report.Surfaces, sr)
	}

	sc.Destroy()
	report.Releases = h.Releases()
	report.Leaked = h.Live()

	logger.Info("probe finished",
		zap.Int("frames", report.Frames),
		zap.Int("viewers", report.Viewers),
		zap.Int("renders", report.Renders),
		zap.Int("mirrorRenders", report.MirrorRenders),
		zap.Int("leaked", report.Leaked),
	)
	return report, nil
}
