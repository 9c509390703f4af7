package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/Faultbox/midgard-water/internal/probe"
)

func TestRunDefaultConfig(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Chdir(t.TempDir())

	var out bytes.Buffer
	if code := run(&out); code != exitOK {
		t.Fatalf("exit code = %d, want %d", code, exitOK)
	}
	for _, want := range []string{"frames: 3", "leaked: 0", "surfaces:"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("report missing %q:\n%s", want, out.String())
		}
	}
}

func TestWriteReport(t *testing.T) {
	var out bytes.Buffer
	r := &probe.Report{Frames: 2, Viewers: 1, Keywords: []string{"WATER_SIMPLE"}}
	if err := writeReport(&out, r); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "  - WATER_SIMPLE") {
		t.Errorf("keyword item missing:\n%s", out.String())
	}
}
