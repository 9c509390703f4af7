// Package rendertarget manages the offscreen color+depth targets a water
// surface renders its reflection and refraction into.
package rendertarget

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-water/internal/logger"
)

// DepthBits is the depth buffer precision of every water target.
const DepthBits = 16

var (
	// ErrInvalidSize is returned for non-positive target sizes.
	ErrInvalidSize = errors.New("render target size must be positive")

	// ErrRetryNextFrame is returned when allocation already failed this frame.
	ErrRetryNextFrame = errors.New("render target allocation failed this frame")
)

// Target is a square offscreen color target with a depth buffer.
type Target interface {
	Name() string
	Size() int
	// Texture returns the backend texture handle sampled by materials.
	Texture() uint32
	Release()
}

// Allocator creates backend targets.
type Allocator interface {
	Allocate(name string, size, depthBits int) (Target, error)
}

// AllocatorFunc adapts a function to Allocator.
type AllocatorFunc func(name string, size, depthBits int) (Target, error)

// Allocate calls f.
func (f AllocatorFunc) Allocate(name string, size, depthBits int) (Target, error) {
	return f(name, size, depthBits)
}

// EnsureTarget returns existing when it is present and lastSize equals
// requested. Otherwise it releases existing, allocates a new target of the
// requested size and returns it with its size. On failure the returned
// target is nil and lastSize is reset to 0.
func EnsureTarget(existing Target, lastSize, requested int, alloc func(size int) (Target, error)) (Target, int, error) {
	if requested <= 0 {
		return existing, lastSize, fmt.Errorf("%w: %d", ErrInvalidSize, requested)
	}
	if existing != nil && lastSize == requested {
		return existing, lastSize, nil
	}
	if existing != nil {
		existing.Release()
	}
	t, err := alloc(requested)
	if err != nil {
		return nil, 0, err
	}
	return t, requested, nil
}

// Kind selects a pool slot.
type Kind int

const (
	Reflection Kind = iota
	Refraction
)

func (k Kind) String() string {
	switch k {
	case Reflection:
		return "reflection"
	case Refraction:
		return "refraction"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

func (k Kind) prefix() string {
	if k == Refraction {
		return "__WaterRefraction"
	}
	return "__WaterReflection"
}

type slot struct {
	target      Target
	lastSize    int
	failedFrame uint64
	failed      bool
}

// Stats counts pool activity.
type Stats struct {
	Allocations int
	Releases    int
	Failures    int
}

// Pool owns one reflection and one refraction target for a single surface.
type Pool struct {
	alloc Allocator
	owner uint64
	slots [2]slot
	stats Stats
}

// NewPool returns an empty pool. owner is appended to target names.
func NewPool(alloc Allocator, owner uint64) *Pool {
	return &Pool{alloc: alloc, owner: owner}
}

// Ensure returns the kind's target sized to size, reallocating when the size
// changed. After a failed allocation the slot stays empty and Ensure returns
// ErrRetryNextFrame for the rest of that frame.
func (p *Pool) Ensure(kind Kind, size int, frame uint64) (Target, error) {
	s := &p.slots[kind]
	if s.failed && s.failedFrame == frame {
		return nil, ErrRetryNextFrame
	}

	hadTarget := s.target != nil
	prevSize := s.lastSize
	name := fmt.Sprintf("%s%d", kind.prefix(), p.owner)

	t, got, err := EnsureTarget(s.target, s.lastSize, size, func(n int) (Target, error) {
		if s.target != nil {
			p.stats.Releases++
			s.target = nil
		}
		return p.alloc.Allocate(name, n, DepthBits)
	})
	if err != nil {
		if errors.Is(err, ErrInvalidSize) {
			return s.target, err
		}
		s.target, s.lastSize = nil, 0
		s.failed, s.failedFrame = true, frame
		p.stats.Failures++
		return nil, fmt.Errorf("allocating %s target %dx%d: %w", kind, size, size, err)
	}

	if t != s.target {
		s.target = t
		p.stats.Allocations++
		logger.Debug("water render target allocated",
			zap.String("name", name),
			zap.Int("size", got),
			zap.Bool("resized", hadTarget),
			zap.Int("prevSize", prevSize),
		)
	}
	s.lastSize = got
	s.failed = false
	return t, nil
}

// Target returns the kind's current target, or nil.
func (p *Pool) Target(kind Kind) Target {
	return p.slots[kind].target
}

// Stats returns allocation counters.
func (p *Pool) Stats() Stats {
	return p.stats
}

// Release frees both targets.
func (p *Pool) Release() {
	for i := range p.slots {
		s := &p.slots[i]
		if s.target != nil {
			s.target.Release()
			p.stats.Releases++
		}
		*s = slot{}
	}
}
