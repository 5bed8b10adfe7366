package sampler

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/bruce5f/buddhabrotCLU/internal/config"
	"github.com/bruce5f/buddhabrotCLU/internal/fractal"
	"github.com/bruce5f/buddhabrotCLU/internal/progress"
)

// DefaultChecks is the number of grid points visited per full pass.
const DefaultChecks = 2_500_000

var (
	// ErrGoalUnreachable is returned when the pass budget runs out before
	// the goal is met. The seeds found so far are returned with it.
	ErrGoalUnreachable = errors.New("seed goal not reached")

	// ErrInvalidWindow is returned for negative or inverted depth windows.
	ErrInvalidWindow = errors.New("invalid depth window")
)

// Sampler sweeps the plane for seeds whose escape depth falls in a window.
//
// A Sampler is not safe for concurrent use; its random source is consumed
// sequentially so results are reproducible for a fixed seed.
type Sampler struct {
	checks    int
	jitter    bool
	rng       *rand.Rand
	progress  progress.Sink
	maxPasses int
	workers   int
	maxDepth  int
	capacity  int
}

// Option configures a Sampler.
type Option func(*Sampler)

// WithChecks sets the number of grid points per pass. The grid step is
// PlaneSize / sqrt(checks).
func WithChecks(n int) Option {
	return func(s *Sampler) { s.checks = n }
}

// WithJitter enables or disables the random displacement of grid points.
func WithJitter(on bool) Option {
	return func(s *Sampler) { s.jitter = on }
}

// WithRand sets the random source used for jitter.
func WithRand(r *rand.Rand) Option {
	return func(s *Sampler) { s.rng = r }
}

// WithProgress sets the sink that receives an event after each row.
func WithProgress(p progress.Sink) Option {
	return func(s *Sampler) { s.progress = p }
}

// WithMaxPasses bounds the number of full raster passes.
func WithMaxPasses(n int) Option {
	return func(s *Sampler) { s.maxPasses = n }
}

// WithWorkers sets how many rows are classified concurrently.
func WithWorkers(n int) Option {
	return func(s *Sampler) { s.workers = n }
}

// WithMaxDepth sets the classification cap for each candidate.
func WithMaxDepth(n int) Option {
	return func(s *Sampler) { s.maxDepth = n }
}

// WithCapacity sets the largest accepted goal.
func WithCapacity(n int) Option {
	return func(s *Sampler) { s.capacity = n }
}

// New creates a Sampler with the stock settings, adjusted by opts.
func New(opts ...Option) *Sampler {
	s := &Sampler{
		checks:    DefaultChecks,
		jitter:    true,
		progress:  progress.Discard,
		maxPasses: config.DefaultMaxPasses,
		workers:   1,
		maxDepth:  fractal.MaxDepth,
		capacity:  config.MaxSeeds,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if s.progress == nil {
		s.progress = progress.Discard
	}
	if s.checks < 1 {
		s.checks = 1
	}
	if s.workers < 1 {
		s.workers = 1
	}
	if s.maxPasses < 1 {
		s.maxPasses = 1
	}
	return s
}

// FromConfig creates a Sampler for a run configuration. A zero RandSeed
// leaves the time-based source in place. extra options are applied last.
func FromConfig(cfg config.Config, extra ...Option) *Sampler {
	opts := []Option{
		WithJitter(!cfg.NoJitter),
		WithMaxPasses(cfg.MaxPasses),
		WithWorkers(cfg.Workers),
	}
	if cfg.RandSeed != 0 {
		opts = append(opts, WithRand(rand.New(rand.NewSource(cfg.RandSeed))))
	}
	return New(append(opts, extra...)...)
}

// Step returns the grid spacing DX.
func (s *Sampler) Step() float64 {
	return fractal.PlaneSize / math.Sqrt(float64(s.checks))
}

// Accepts reports whether c would be kept for the window [minDepth, maxDepth].
// Seeds inside the cardioid or period-2 bulb are never accepted.
func (s *Sampler) Accepts(c complex128, minDepth, maxDepth int) bool {
	if fractal.InCardioidOrBulb(c) {
		return false
	}
	r := fractal.Classify(c, s.maxDepth)
	return r.Escaped && r.Depth >= minDepth && r.Depth <= maxDepth
}

// Sample appends accepted seeds to seeds until len(seeds) == goal.
//
// The plane is swept column by column along the real axis, each column
// bottom to top along the imaginary axis. Passes repeat, with fresh jitter,
// until the goal is met or the pass budget is spent. On budget exhaustion or
// cancellation the seeds found so far are returned with the error.
func (s *Sampler) Sample(ctx context.Context, seeds []complex128, goal, minDepth, maxDepth int) ([]complex128, error) {
	if goal > s.capacity {
		return seeds, fmt.Errorf("%w: goal %d exceeds %d seeds", config.ErrOverflow, goal, s.capacity)
	}
	if minDepth < 0 || maxDepth < minDepth {
		return seeds, fmt.Errorf("%w: [%d, %d]", ErrInvalidWindow, minDepth, maxDepth)
	}
	if len(seeds) >= goal {
		return seeds, nil
	}

	dx := s.Step()
	xs := gridLine(fractal.PlaneXStart, dx)
	ys := gridLine(fractal.PlaneYStart, dx)
	start := len(seeds)

	rows := make([][]complex128, s.workers)
	rngs := make([]*rand.Rand, s.workers)

	// Without jitter every pass visits the same points, so a second pass
	// could only repeat seeds already found.
	passes := s.maxPasses
	if !s.jitter {
		passes = 1
	}

	for pass := 1; pass <= passes; pass++ {
		for i := 0; i < len(xs); i += s.workers {
			if err := ctx.Err(); err != nil {
				return seeds, err
			}

			batch := min(s.workers, len(xs)-i)
			for k := 0; k < batch; k++ {
				rngs[k] = s.rowRand()
			}
			s.scanRows(xs[i:i+batch], ys, dx, rngs, rows, minDepth, maxDepth)

			for k := 0; k < batch; k++ {
				for _, c := range rows[k] {
					seeds = append(seeds, c)
					if len(seeds) >= goal {
						s.progress.Report(progress.NewEvent(len(seeds), goal, pass))
						return seeds, nil
					}
				}
				s.progress.Report(progress.NewEvent(len(seeds), goal, pass))
			}
		}
	}

	return seeds, fmt.Errorf("%w: found %d of %d new seeds after %d passes",
		ErrGoalUnreachable, len(seeds)-start, goal-start, passes)
}

// rowRand derives an independent generator for one row so that concurrent
// rows never share a source and the draw order stays fixed.
func (s *Sampler) rowRand() *rand.Rand {
	if !s.jitter {
		return nil
	}
	return rand.New(rand.NewSource(s.rng.Int63()))
}

// scanRows classifies each column in xs, writing the accepted points of
// xs[k] to out[k].
func (s *Sampler) scanRows(xs, ys []float64, dx float64, rngs []*rand.Rand, out [][]complex128, minDepth, maxDepth int) {
	if len(xs) == 1 {
		out[0] = s.scanRow(xs[0], ys, dx, rngs[0], out[0][:0], minDepth, maxDepth)
		return
	}

	var wg sync.WaitGroup
	for k := range xs {
		wg.Add(1)
		go func(k int) {
			defer wg.Done()
			out[k] = s.scanRow(xs[k], ys, dx, rngs[k], out[k][:0], minDepth, maxDepth)
		}(k)
	}
	wg.Wait()
}

// scanRow walks one column of the raster at real part a.
func (s *Sampler) scanRow(a float64, ys []float64, dx float64, rng *rand.Rand, dst []complex128, minDepth, maxDepth int) []complex128 {
	for _, b := range ys {
		c := jitter(a, b, dx, rng)
		if s.Accepts(c, minDepth, maxDepth) {
			dst = append(dst, c)
		}
	}
	return dst
}

// jitter displaces the grid point (a, b) by a random angle and a random
// radius up to dx. A nil rng leaves the point on the grid.
func jitter(a, b, dx float64, rng *rand.Rand) complex128 {
	if rng == nil {
		return complex(a, b)
	}
	angle := 2 * math.Pi * rng.Float64()
	radius := dx * rng.Float64()
	return complex(a+radius*math.Cos(angle), b+radius*math.Sin(angle))
}

// gridLine returns start, start+dx, ... for every value below start+PlaneSize.
func gridLine(start, dx float64) []float64 {
	n := int(math.Ceil(fractal.PlaneSize / dx))
	line := make([]float64, 0, n)
	for k := 0; k < n; k++ {
		v := start + float64(k)*dx
		if v >= start+fractal.PlaneSize {
			break
		}
		line = append(line, v)
	}
	return line
}
