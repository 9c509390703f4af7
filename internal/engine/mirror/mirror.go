// Package mirror caches the auxiliary cameras a water surface renders its
// reflection and refraction from, one per viewing camera.
package mirror

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-water/internal/engine/camera"
	"github.com/Faultbox/midgard-water/internal/logger"
	"github.com/Faultbox/midgard-water/pkg/math"
)

// Origin is where a new mirror camera is placed before its first render.
type Origin struct {
	Position math.Vec3
	Forward  math.Vec3
	Up       math.Vec3
}

// Cache maps viewing cameras to mirror cameras for one surface and purpose.
// The cache owns its cameras; Destroy drops them all at once.
type Cache struct {
	purpose string
	owner   uint64
	entries map[camera.ID]*camera.Camera
	created int
}

// NewCache returns an empty cache. purpose and owner only feed camera names.
func NewCache(purpose string, owner uint64) *Cache {
	return &Cache{
		purpose: purpose,
		owner:   owner,
		entries: make(map[camera.ID]*camera.Camera),
	}
}

// GetOrCreate returns the mirror camera for viewer, creating it at origin
// on first sight. created reports whether a new camera was made.
func (c *Cache) GetOrCreate(viewer *camera.Camera, origin Origin) (mirror *camera.Camera, created bool) {
	if cam, ok := c.entries[viewer.ID]; ok {
		return cam, false
	}

	cam := camera.New(fmt.Sprintf("Water Camera id%d for %d", c.owner, viewer.ID))
	cam.Enabled = false
	cam.Hidden = true
	cam.Position = origin.Position
	cam.Forward = origin.Forward
	cam.Up = origin.Up

	c.entries[viewer.ID] = cam
	c.created++

	logger.Debug("water mirror camera created",
		zap.String("purpose", c.purpose),
		zap.String("name", cam.Name),
		zap.Uint64("viewer", uint64(viewer.ID)),
	)
	return cam, true
}

// Lookup returns the cached mirror camera for a viewer ID.
func (c *Cache) Lookup(viewer camera.ID) (*camera.Camera, bool) {
	cam, ok := c.entries[viewer]
	return cam, ok
}

// Forget drops the entry of a viewer that no longer exists.
func (c *Cache) Forget(viewer camera.ID) {
	delete(c.entries, viewer)
}

// Len returns the number of cached cameras.
func (c *Cache) Len() int {
	return len(c.entries)
}

// Created returns how many cameras the cache has ever made.
func (c *Cache) Created() int {
	return c.created
}

// Destroy drops every cached camera.
func (c *Cache) Destroy() {
	for id, cam := range c.entries {
		cam.Target = nil
		delete(c.entries, id)
	}
}

// Sync copies the projection and clear settings of src onto dst. Mirror
// cameras are cached, so this runs every frame to follow the viewer.
func Sync(dst, src *camera.Camera) {
	if dst == nil {
		return
	}

	dst.ClearFlags = src.ClearFlags
	dst.Background = src.Background

	if src.ClearFlags == camera.ClearSkybox {
		if src.Skybox.Enabled && src.Skybox.Material != "" {
			dst.Skybox = camera.Skybox{Enabled: true, Material: src.Skybox.Material}
		} else {
			dst.Skybox.Enabled = false
		}
	}

	dst.Far = src.Far
	dst.Near = src.Near
	dst.Orthographic = src.Orthographic
	dst.FieldOfView = src.FieldOfView
	dst.Aspect = src.Aspect
	dst.OrthographicSize = src.OrthographicSize
}
