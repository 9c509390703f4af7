package water

import (
	"fmt"
	"strings"
)

// Mode is the water rendering tier. Higher modes include the lower ones.
type Mode int

const (
	Simple Mode = iota
	Reflective
	Refractive
)

func (m Mode) String() string {
	switch m {
	case Simple:
		return "simple"
	case Reflective:
		return "reflective"
	case Refractive:
		return "refractive"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// ParseMode parses a mode name, case-insensitively.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "simple":
		return Simple, nil
	case "reflective":
		return Reflective, nil
	case "refractive":
		return Refractive, nil
	}
	return Simple, fmt.Errorf("unknown water mode %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (m Mode) MarshalText() ([]byte, error) {
	if m < Simple || m > Refractive {
		return nil, fmt.Errorf("invalid water mode %d", int(m))
	}
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Mode) UnmarshalText(text []byte) error {
	parsed, err := ParseMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// EffectiveMode caps the requested mode by what the hardware supports.
func EffectiveMode(requested, supported Mode) Mode {
	return min(requested, supported)
}

// TargetSupport reports whether offscreen color targets are available.
type TargetSupport interface {
	SupportsRenderTargets() bool
}

// HardwareSupport returns the best mode the host can render for a surface.
func HardwareSupport(host TargetSupport, hasRenderable bool) Mode {
	if !hasRenderable || !host.SupportsRenderTargets() {
		return Simple
	}
	return Refractive
}
