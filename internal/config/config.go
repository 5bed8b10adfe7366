package config

import (
	"errors"
	"flag"
	"fmt"
	"math"
	"runtime"
)

// Capacity bounds. Goals and resolutions above these are rejected before any
// memory is allocated.
const (
	MaxSeeds      = 10_000_000
	MaxResolution = 10_000
)

// Defaults applied by Default.
const (
	DefaultMinDepth   = 10_000
	DefaultMaxDepth   = 100_000
	DefaultPlotDepth  = 1_000_000
	DefaultGoal       = 100
	DefaultOutput     = "defaultBuddha"
	DefaultResolution = 1000
	DefaultExponent   = 1.0
	DefaultBrightness = 0.2
	DefaultMaxPasses  = 1000
)

// LogLevelEnv names the environment variable that controls log verbosity.
const LogLevelEnv = "BUDDHABROT_LOG_LEVEL"

var (
	// ErrOverflow is returned when a goal or resolution exceeds the
	// capacity bounds.
	ErrOverflow = errors.New("configuration exceeds capacity")

	// ErrInvalid is returned for values that are out of range for other
	// reasons (negative depths, inverted windows, non-positive exponent).
	ErrInvalid = errors.New("invalid configuration")
)

// Config holds the parameters of a single run. It is filled once from flags
// and environment and treated as read-only afterwards.
type Config struct {
	// Sampling
	MinDepth  int // smallest accepted escape depth
	MaxDepth  int // largest accepted escape depth
	Goal      int // number of seeds to collect
	MaxPasses int // raster passes before giving up
	NoJitter  bool
	RandSeed  int64 // 0 selects a time-based seed

	// Rendering
	PlotDepth   int
	Resolution  int
	Exponent    float64
	Brightness  float64
	IncludeEdge bool   // count visits that map to row/column 0
	Palette     string // "" for grayscale, or "#dark:#light"

	// Output
	Output    string // image name; ".png" is appended when missing
	Thumbnail int    // thumbnail width in pixels, 0 disables
	SeedsIn   string // seed file to resume from
	SeedsOut  string // seed file to write after sampling

	// Runtime
	Workers      int
	ProgressAddr string // listen address for the websocket progress feed
	Debug        bool
}

// Default returns a Config populated with the stock run parameters.
func Default() Config {
	return Config{
		MinDepth:   DefaultMinDepth,
		MaxDepth:   DefaultMaxDepth,
		Goal:       DefaultGoal,
		MaxPasses:  DefaultMaxPasses,
		PlotDepth:  DefaultPlotDepth,
		Resolution: DefaultResolution,
		Exponent:   DefaultExponent,
		Brightness: DefaultBrightness,
		Output:     DefaultOutput,
		Workers:    runtime.NumCPU(),
	}
}

// Bind registers the run flags on fs, using the current values of c as
// defaults. The single-letter flags keep the classic command line working.
func (c *Config) Bind(fs *flag.FlagSet) {
	fs.IntVar(&c.MinDepth, "d", c.MinDepth, "minimum iteration depth for accepted seeds")
	fs.IntVar(&c.MaxDepth, "D", c.MaxDepth, "maximum iteration depth for accepted seeds")
	fs.IntVar(&c.PlotDepth, "j", c.PlotDepth, "iteration depth when plotting escape orbits")
	fs.IntVar(&c.Goal, "g", c.Goal, "goal number of seeds to find")
	fs.StringVar(&c.Output, "o", c.Output, "output image name (.png is appended)")
	fs.IntVar(&c.Resolution, "r", c.Resolution, "output image resolution")
	fs.Float64Var(&c.Exponent, "e", c.Exponent, "tone exponent: <1 emphasizes rarely hit cells, >1 frequently hit cells")
	fs.Float64Var(&c.Brightness, "b", c.Brightness, "overall brightness")

	fs.IntVar(&c.MaxPasses, "passes", c.MaxPasses, "maximum raster passes before giving up")
	fs.BoolVar(&c.NoJitter, "no-jitter", c.NoJitter, "sample the exact raster without random jitter")
	fs.Int64Var(&c.RandSeed, "seed", c.RandSeed, "random seed for jitter (0 = time based)")
	fs.BoolVar(&c.IncludeEdge, "include-edge", c.IncludeEdge, "count orbit visits on the first image row and column")
	fs.StringVar(&c.Palette, "palette", c.Palette, "two-color palette as #dark:#light (default grayscale)")
	fs.IntVar(&c.Thumbnail, "thumb", c.Thumbnail, "also write a thumbnail of this width")
	fs.StringVar(&c.SeedsIn, "seeds-in", c.SeedsIn, "resume from seeds stored in this file")
	fs.StringVar(&c.SeedsOut, "seeds-out", c.SeedsOut, "store accepted seeds in this file")
	fs.IntVar(&c.Workers, "workers", c.Workers, "number of worker goroutines")
	fs.StringVar(&c.ProgressAddr, "progress-addr", c.ProgressAddr, "serve a websocket progress feed on this address")
}

// ApplyEnv reads environment overrides through getenv.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if getenv(LogLevelEnv) == "debug" {
		c.Debug = true
	}
}

// Validate checks capacity bounds and value ranges. Errors wrap ErrOverflow
// or ErrInvalid.
func (c *Config) Validate() error {
	if err := CheckGoal(c.Goal); err != nil {
		return err
	}
	if err := CheckResolution(c.Resolution); err != nil {
		return err
	}
	if c.MinDepth < 0 || c.MaxDepth < c.MinDepth {
		return fmt.Errorf("%w: depth window [%d, %d]", ErrInvalid, c.MinDepth, c.MaxDepth)
	}
	if c.PlotDepth <= 0 {
		return fmt.Errorf("%w: plot depth %d must be positive", ErrInvalid, c.PlotDepth)
	}
	if !(c.Exponent > 0) || math.IsInf(c.Exponent, 0) {
		return fmt.Errorf("%w: exponent %g must be positive and finite", ErrInvalid, c.Exponent)
	}
	if !(c.Brightness >= 0) || math.IsInf(c.Brightness, 0) {
		return fmt.Errorf("%w: brightness %g must be non-negative and finite", ErrInvalid, c.Brightness)
	}
	if c.MaxPasses <= 0 {
		return fmt.Errorf("%w: passes %d must be positive", ErrInvalid, c.MaxPasses)
	}
	if c.Workers <= 0 {
		return fmt.Errorf("%w: workers %d must be positive", ErrInvalid, c.Workers)
	}
	if c.Thumbnail < 0 {
		return fmt.Errorf("%w: thumbnail width %d is negative", ErrInvalid, c.Thumbnail)
	}
	if c.Output == "" {
		return fmt.Errorf("%w: output name is empty", ErrInvalid)
	}
	return nil
}

// CheckGoal validates a seed goal against MaxSeeds.
func CheckGoal(goal int) error {
	if goal <= 0 {
		return fmt.Errorf("%w: goal %d must be positive", ErrInvalid, goal)
	}
	if goal > MaxSeeds {
		return fmt.Errorf("%w: goal %d exceeds %d seeds", ErrOverflow, goal, MaxSeeds)
	}
	return nil
}

// CheckResolution validates an output resolution against MaxResolution.
func CheckResolution(res int) error {
	if res <= 0 {
		return fmt.Errorf("%w: resolution %d must be positive", ErrInvalid, res)
	}
	if res > MaxResolution {
		return fmt.Errorf("%w: resolution %d exceeds %d", ErrOverflow, res, MaxResolution)
	}
	return nil
}
