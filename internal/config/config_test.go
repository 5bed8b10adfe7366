package config

import (
	"errors"
	"flag"
	"io"
	"math"
	"testing"
)

func TestDefault(t *testing.T) {
	c := Default()

	if c.MinDepth != 10000 || c.MaxDepth != 100000 {
		t.Errorf("depth window: got [%d, %d], want [10000, 100000]", c.MinDepth, c.MaxDepth)
	}
	if c.Goal != 100 {
		t.Errorf("Goal: got %d, want 100", c.Goal)
	}
	if c.Resolution != 1000 {
		t.Errorf("Resolution: got %d, want 1000", c.Resolution)
	}
	if c.Exponent != 1.0 || c.Brightness != 0.2 {
		t.Errorf("tone: got exponent %g brightness %g, want 1 and 0.2", c.Exponent, c.Brightness)
	}
	if c.Output != "defaultBuddha" {
		t.Errorf("Output: got %q, want defaultBuddha", c.Output)
	}
	if c.Workers < 1 {
		t.Errorf("Workers: got %d, want at least 1", c.Workers)
	}
	if err := c.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestBind(t *testing.T) {
	c := Default()
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	c.Bind(fs)

	args := []string{
		"-d", "100", "-D", "1000", "-j", "5000", "-g", "5",
		"-o", "out", "-r", "50", "-e", "0.5", "-b", "0.4",
		"-no-jitter", "-palette", "#000000:#ffffff", "-workers", "3",
	}
	if err := fs.Parse(args); err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if c.MinDepth != 100 || c.MaxDepth != 1000 || c.PlotDepth != 5000 || c.Goal != 5 {
		t.Errorf("depths/goal: got %d %d %d %d", c.MinDepth, c.MaxDepth, c.PlotDepth, c.Goal)
	}
	if c.Output != "out" || c.Resolution != 50 {
		t.Errorf("output: got %q res %d", c.Output, c.Resolution)
	}
	if c.Exponent != 0.5 || c.Brightness != 0.4 {
		t.Errorf("tone: got %g %g", c.Exponent, c.Brightness)
	}
	if !c.NoJitter || c.Palette != "#000000:#ffffff" || c.Workers != 3 {
		t.Errorf("extras: got jitter=%v palette=%q workers=%d", !c.NoJitter, c.Palette, c.Workers)
	}
}

func TestApplyEnv(t *testing.T) {
	c := Default()
	c.ApplyEnv(func(key string) string {
		if key == LogLevelEnv {
			return "debug"
		}
		return ""
	})
	if !c.Debug {
		t.Error("Debug should be enabled by the log level variable")
	}

	c = Default()
	c.ApplyEnv(func(string) string { return "" })
	if c.Debug {
		t.Error("Debug should be off without the variable")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr error
	}{
		{"goal too large", func(c *Config) { c.Goal = MaxSeeds + 1 }, ErrOverflow},
		{"resolution too large", func(c *Config) { c.Resolution = MaxResolution + 1 }, ErrOverflow},
		{"zero goal", func(c *Config) { c.Goal = 0 }, ErrInvalid},
		{"zero resolution", func(c *Config) { c.Resolution = 0 }, ErrInvalid},
		{"inverted window", func(c *Config) { c.MinDepth, c.MaxDepth = 10, 5 }, ErrInvalid},
		{"negative depth", func(c *Config) { c.MinDepth = -1 }, ErrInvalid},
		{"zero plot depth", func(c *Config) { c.PlotDepth = 0 }, ErrInvalid},
		{"zero exponent", func(c *Config) { c.Exponent = 0 }, ErrInvalid},
		{"nan exponent", func(c *Config) { c.Exponent = math.NaN() }, ErrInvalid},
		{"negative brightness", func(c *Config) { c.Brightness = -0.1 }, ErrInvalid},
		{"zero passes", func(c *Config) { c.MaxPasses = 0 }, ErrInvalid},
		{"zero workers", func(c *Config) { c.Workers = 0 }, ErrInvalid},
		{"negative thumbnail", func(c *Config) { c.Thumbnail = -1 }, ErrInvalid},
		{"empty output", func(c *Config) { c.Output = "" }, ErrInvalid},
		{"at capacity", func(c *Config) { c.Goal, c.Resolution = MaxSeeds, MaxResolution }, nil},
		{"equal window", func(c *Config) { c.MinDepth, c.MaxDepth = 500, 500 }, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.mutate(&c)
			err := c.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error: got %v, want %v", err, tt.wantErr)
			}
		})
	}
}
