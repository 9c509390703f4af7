package water

import (
	"testing"

	"gopkg.in/yaml.v3"
)

type fakeSupport bool

func (f fakeSupport) SupportsRenderTargets() bool { return bool(f) }

func TestEffectiveModeIsMinimum(t *testing.T) {
	modes := []Mode{Simple, Reflective, Refractive}
	for _, requested := range modes {
		for _, supported := range modes {
			got := EffectiveMode(requested, supported)
			want := requested
			if supported < want {
				want = supported
			}
			if got != want {
				t.Errorf("EffectiveMode(%v, %v) = %v, want %v", requested, supported, got, want)
			}
		}
	}
}

func TestHardwareSupport(t *testing.T) {
	tests := []struct {
		name          string
		targets       bool
		hasRenderable bool
		want          Mode
	}{
		{"full", true, true, Refractive},
		{"no targets", false, true, Simple},
		{"no renderable", true, false, Simple},
		{"nothing", false, false, Simple},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HardwareSupport(fakeSupport(tt.targets), tt.hasRenderable); got != tt.want {
				t.Errorf("HardwareSupport = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseMode(t *testing.T) {
	for _, m := range []Mode{Simple, Reflective, Refractive} {
		got, err := ParseMode(m.String())
		if err != nil || got != m {
			t.Errorf("ParseMode(%q) = %v, %v", m.String(), got, err)
		}
	}
	if got, err := ParseMode(" Reflective "); err != nil || got != Reflective {
		t.Errorf("ParseMode is not case-insensitive: %v, %v", got, err)
	}
	if _, err := ParseMode("mirror"); err == nil {
		t.Error("expected error for unknown mode")
	}
}

func TestModeYAML(t *testing.T) {
	var doc struct {
		Mode Mode `yaml:"mode"`
	}
	if err := yaml.Unmarshal([]byte("mode: reflective\n"), &doc); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if doc.Mode != Reflective {
		t.Errorf("Mode = %v, want reflective", doc.Mode)
	}

	if err := yaml.Unmarshal([]byte("mode: shiny\n"), &doc); err == nil {
		t.Error("expected error for unknown mode")
	}

	if _, err := Mode(7).MarshalText(); err == nil {
		t.Error("expected error marshalling invalid mode")
	}
}

func TestApplyKeywordsEnablesExactlyOne(t *testing.T) {
	for _, m := range []Mode{Simple, Reflective, Refractive} {
		flags := map[string]bool{}
		ApplyKeywords(KeywordSetterFunc(func(name string, on bool) { flags[name] = on }), m)

		if len(flags) != 3 {
			t.Fatalf("%v: %d keywords written, want 3", m, len(flags))
		}
		enabled := 0
		for _, on := range flags {
			if on {
				enabled++
			}
		}
		if enabled != 1 {
			t.Errorf("%v: %d keywords enabled, want 1", m, enabled)
		}
	}

	flags := map[string]bool{}
	ApplyKeywords(KeywordSetterFunc(func(name string, on bool) { flags[name] = on }), Reflective)
	if !flags[KeywordReflective] {
		t.Error("WATER_REFLECTIVE not enabled for reflective mode")
	}
}
