package lighting

import "testing"

func TestSunDirection(t *testing.T) {
	tests := []struct {
		name         string
		lon, lat     float32
		wantX, wantY float32
		wantZ        float32
	}{
		{"overhead", 0, 90, 0, -1, 0},
		{"horizon south", 0, 0, 0, 0, -1},
		{"horizon east", 90, 0, -1, 0, 0},
		{"45 up from +Z", 0, 45, 0, -0.7071, -0.7071},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := SunDirection(tt.lon, tt.lat)
			if abs(d.X-tt.wantX) > 1e-4 || abs(d.Y-tt.wantY) > 1e-4 || abs(d.Z-tt.wantZ) > 1e-4 {
				t.Errorf("SunDirection(%v, %v) = %+v", tt.lon, tt.lat, d)
			}
			if l := d.Length(); abs(l-1) > 1e-5 {
				t.Errorf("length = %v", l)
			}
		})
	}
}

func abs(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
