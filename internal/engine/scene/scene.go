// Package scene builds the demo world: solid boxes around a lake and a
// raised pond, each pond a water surface with its own material.
package scene

import (
	"fmt"
	"time"

	"github.com/Faultbox/midgard-water/internal/config"
	"github.com/Faultbox/midgard-water/internal/engine/material"
	"github.com/Faultbox/midgard-water/internal/engine/renderctx"
	"github.com/Faultbox/midgard-water/internal/engine/rendertarget"
	"github.com/Faultbox/midgard-water/internal/engine/visibility"
	"github.com/Faultbox/midgard-water/internal/engine/water"
	"github.com/Faultbox/midgard-water/pkg/math"
)

// Material properties of the water shader not driven by the surface.
const (
	HorizonColorProperty = "_HorizonColor"
	RefrColorProperty    = "_RefrColor"
	DistortionProperty   = "_ReflDistort"
)

// Box is a solid axis-aligned box.
type Box struct {
	Center math.Vec3
	Size   math.Vec3
	Color  [3]float32
	Layer  uint
}

// Scene holds the world contents.
type Scene struct {
	Boxes    []Box
	Surfaces []*water.Surface
	Guard    *renderctx.Guard
}

type pond struct {
	name                   string
	minX, maxX, minZ, maxZ float32
	level                  float32
}

var ponds = []pond{
	{name: "lake", minX: -30, maxX: 30, minZ: -30, maxZ: 30, level: 0},
	{name: "pond", minX: 34, maxX: 44, minZ: -5, maxZ: 5, level: 1.5},
}

// Build creates the scene. Every surface shares one render guard and
// renders through host.
func Build(cfg *config.Config, host water.Host, alloc rendertarget.Allocator) (*Scene, error) {
	s := &Scene{Guard: renderctx.NewGuard()}

	for _, p := range ponds {
		mesh := &water.Mesh{
			Plane:    water.BuildPlane(p.minX, p.maxX, p.minZ, p.maxZ, p.level),
			Material: NewWaterMaterial(p.name, cfg.Wave),
		}
		surface, err := water.New(host, alloc, s.Guard, mesh, cfg.Water.Settings())
		if err != nil {
			s.Destroy()
			return nil, fmt.Errorf("creating %s: %w", p.name, err)
		}
		s.Surfaces = append(s.Surfaces, surface)
	}

	s.Boxes = []Box{
		// lake bed and pond basin, both visible through refraction
		{Center: math.Vec3{X: 0, Y: -4, Z: 0}, Size: math.Vec3{X: 64, Y: 1, Z: 64}, Color: [3]float32{0.45, 0.38, 0.28}},
		{Center: math.Vec3{X: 39, Y: 0, Z: 0}, Size: math.Vec3{X: 12, Y: 2, Z: 12}, Color: [3]float32{0.5, 0.5, 0.48}},
		// pillars standing in the lake
		{Center: math.Vec3{X: -8, Y: 1, Z: -8}, Size: math.Vec3{X: 2, Y: 10, Z: 2}, Color: [3]float32{0.8, 0.25, 0.2}},
		{Center: math.Vec3{X: 8, Y: 1, Z: -8}, Size: math.Vec3{X: 2, Y: 10, Z: 2}, Color: [3]float32{0.2, 0.7, 0.3}},
		{Center: math.Vec3{X: -8, Y: 1, Z: 8}, Size: math.Vec3{X: 2, Y: 10, Z: 2}, Color: [3]float32{0.2, 0.35, 0.85}},
		{Center: math.Vec3{X: 8, Y: 1, Z: 8}, Size: math.Vec3{X: 2, Y: 10, Z: 2}, Color: [3]float32{0.85, 0.8, 0.2}},
		// sunken block, only seen by refraction
		{Center: math.Vec3{X: 0, Y: -2, Z: 0}, Size: math.Vec3{X: 4, Y: 2, Z: 4}, Color: [3]float32{0.9, 0.5, 0.1}},
		// floating block, only seen by reflection from low angles
		{Center: math.Vec3{X: 0, Y: 9, Z: 0}, Size: math.Vec3{X: 3, Y: 1, Z: 3}, Color: [3]float32{0.9, 0.9, 0.9}},
	}
	return s, nil
}

// NewWaterMaterial returns a water material initialized from wave settings.
func NewWaterMaterial(name string, wave config.WaveConfig) *material.Material {
	m := material.New(name, "water")
	m.SetVector(water.WaveSpeedProperty, math.Vec4(wave.Speed))
	m.SetFloat(water.WaveScaleProperty, wave.Scale)
	m.SetFloat(DistortionProperty, wave.Distortion)
	m.SetVector(HorizonColorProperty, math.Vec4(wave.HorizonColor))
	m.SetVector(RefrColorProperty, math.Vec4(wave.RefractionColor))
	return m
}

// Register adds every surface to a visibility dispatcher.
func (s *Scene) Register(d *visibility.Dispatcher) {
	for _, surface := range s.Surfaces {
		d.Add(surface, surface.Layer)
	}
}

// Update advances the wave animation of every surface.
func (s *Scene) Update(sinceLoad time.Duration) {
	for _, surface := range s.Surfaces {
		surface.Update(sinceLoad)
	}
}

// SetMode changes the requested mode of every surface.
func (s *Scene) SetMode(m water.Mode) {
	for _, surface := range s.Surfaces {
		surface.Settings.Mode = m
	}
}

// SetTextureSize changes the target size of every surface.
func (s *Scene) SetTextureSize(size int) {
	for _, surface := range s.Surfaces {
		surface.Settings.TextureSize = size
	}
}

// Destroy frees the targets and mirror cameras of every surface.
func (s *Scene) Destroy() {
	for _, surface := range s.Surfaces {
		surface.Destroy()
	}
}
