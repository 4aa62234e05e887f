package main

import (
	"strings"
	"testing"

	"github.com/spf13/pflag"

	"github.com/vovakirdan/tickengine/internal/config"
)

// newRunFlags mirrors the run command's flags on a fresh set.
func newRunFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("run", pflag.ContinueOnError)
	fs.StringVar(&flagBackend, "backend", "", "")
	fs.BoolVar(&flagFullscreen, "fullscreen", false, "")
	fs.BoolVar(&flagWindowed, "windowed", false, "")
	fs.IntVar(&flagFPSCap, "fps", 0, "")
	fs.Float64Var(&flagStep, "step", 0, "")
	fs.BoolVar(&flagNoAudio, "no-audio", false, "")
	return fs
}

func TestApplyRunFlags(t *testing.T) {
	fs := newRunFlags()
	if err := fs.Parse([]string{"--backend", "Terminal", "--windowed", "--fps", "25", "--step", "5", "--no-audio"}); err != nil {
		t.Fatal(err)
	}

	cfg := config.Default()
	if err := applyRunFlags(fs, &cfg); err != nil {
		t.Fatalf("applyRunFlags() error = %v", err)
	}
	if cfg.Display.Backend != "terminal" {
		t.Errorf("backend = %q, expected terminal", cfg.Display.Backend)
	}
	if cfg.Window.Fullscreen {
		t.Error("fullscreen = true, expected windowed")
	}
	if cfg.Loop.FPSCap != 25 || cfg.Loop.FixedStepMs != 5 {
		t.Errorf("loop = %+v, expected fps 25 step 5", cfg.Loop)
	}
	if cfg.Audio.Enabled {
		t.Error("audio still enabled")
	}
}

func TestApplyRunFlagsUnsetKeepsConfig(t *testing.T) {
	fs := newRunFlags()
	if err := fs.Parse(nil); err != nil {
		t.Fatal(err)
	}

	cfg := config.Default()
	if err := applyRunFlags(fs, &cfg); err != nil {
		t.Fatalf("applyRunFlags() error = %v", err)
	}
	if cfg.Display.Backend != config.Default().Display.Backend || !cfg.Window.Fullscreen || cfg.Loop.FixedStepMs != 10 {
		t.Errorf("config changed without flags: %+v", cfg)
	}
}

func TestApplyRunFlagsRejects(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown backend", []string{"--backend", "vulkan"}},
		{"zero step", []string{"--step", "0"}},
		{"negative fps", []string{"--fps=-1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := newRunFlags()
			if err := fs.Parse(tt.args); err != nil {
				t.Fatal(err)
			}
			cfg := config.Default()
			if err := applyRunFlags(fs, &cfg); err == nil {
				t.Errorf("applyRunFlags(%v) returned nil error", tt.args)
			}
		})
	}
}

func TestInfoLines(t *testing.T) {
	cfg := config.Default()
	lines := strings.Join(infoLines(cfg, "embedded"), "\n")

	for _, want := range []string{"embedded", "16.667 ms (60 Hz, fallback)", "10 ms", "25/37 px", "clamp"} {
		if !strings.Contains(lines, want) {
			t.Errorf("infoLines() missing %q:\n%s", want, lines)
		}
	}

	cfg.Loop.FPSCap = 50
	lines = strings.Join(infoLines(cfg, "embedded"), "\n")
	if !strings.Contains(lines, "20.000 ms (50 Hz, fps cap)") {
		t.Errorf("infoLines() with cap missing interval:\n%s", lines)
	}
}
