package framebuffer

import (
	"errors"
	"testing"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/midgard-water/internal/engine/rendertarget"
)

var _ rendertarget.Allocator = Allocator{}

func TestDepthFormat(t *testing.T) {
	tests := []struct {
		bits    int
		want    uint32
		wantErr bool
	}{
		{16, gl.DEPTH_COMPONENT16, false},
		{24, gl.DEPTH_COMPONENT24, false},
		{32, gl.DEPTH_COMPONENT32F, false},
		{8, 0, true},
	}
	for _, tt := range tests {
		got, err := depthFormat(tt.bits)
		if (err != nil) != tt.wantErr {
			t.Errorf("depthFormat(%d) err = %v", tt.bits, err)
			continue
		}
		if got != tt.want {
			t.Errorf("depthFormat(%d) = 0x%x, want 0x%x", tt.bits, got, tt.want)
		}
	}
}

// Validation happens before any GL call, so no context is needed.
func TestNewRejectsInvalidInput(t *testing.T) {
	if _, err := New("x", 0, 16); !errors.Is(err, rendertarget.ErrInvalidSize) {
		t.Errorf("size 0: err = %v, want ErrInvalidSize", err)
	}
	if _, err := (Allocator{}).Allocate("x", -4, 16); !errors.Is(err, rendertarget.ErrInvalidSize) {
		t.Errorf("size -4: err = %v, want ErrInvalidSize", err)
	}
	if _, err := New("x", 64, 12); err == nil {
		t.Error("expected error for 12-bit depth")
	}
}
