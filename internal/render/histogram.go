package render

import (
	"context"
	"fmt"
	"math"
	"sync"

	"github.com/bruce5f/buddhabrotCLU/internal/config"
	"github.com/bruce5f/buddhabrotCLU/internal/fractal"
)

// partialCellBudget caps the total cells held by per-worker partial
// histograms; beyond it fewer workers are used.
const partialCellBudget = 1 << 28

// Histogram is a square grid of orbit visit counts.
//
// Cells are indexed by (x, y) where x follows the real axis and y the
// imaginary axis. Counts only ever increase and saturate instead of
// wrapping.
type Histogram struct {
	Res   int
	Cells []uint32 // row-major on x: Cells[x*Res+y]
}

// NewHistogram allocates a zeroed res × res histogram. Resolutions above
// config.MaxResolution are rejected.
func NewHistogram(res int) (*Histogram, error) {
	if err := config.CheckResolution(res); err != nil {
		return nil, err
	}
	return &Histogram{Res: res, Cells: make([]uint32, res*res)}, nil
}

// At returns the count of cell (x, y).
func (h *Histogram) At(x, y int) uint32 {
	return h.Cells[x*h.Res+y]
}

// Inc adds one visit to cell (x, y). Counts saturate at math.MaxUint32.
func (h *Histogram) Inc(x, y int) {
	i := x*h.Res + y
	if h.Cells[i] != math.MaxUint32 {
		h.Cells[i]++
	}
}

// Merge adds every count of o into h, saturating at math.MaxUint32. Both
// must share a resolution.
func (h *Histogram) Merge(o *Histogram) {
	for i, n := range o.Cells {
		h.Cells[i] = uint32(min(uint64(h.Cells[i])+uint64(n), math.MaxUint32))
	}
}

// Total returns the sum of all counts.
func (h *Histogram) Total() uint64 {
	var sum uint64
	for _, n := range h.Cells {
		sum += uint64(n)
	}
	return sum
}

// Mapper converts plane coordinates into histogram cells.
type Mapper struct {
	Res int

	// IncludeEdge admits cells in row and column 0, which are dropped by
	// default.
	IncludeEdge bool
}

// Cell maps z to (x, y) with x = floor((re - PlaneXStart) / PlaneSize * res)
// and y likewise on the imaginary axis. ok is false when the cell falls
// outside the grid.
func (m Mapper) Cell(z complex128) (x, y int, ok bool) {
	fx := math.Floor((real(z) - fractal.PlaneXStart) / fractal.PlaneSize * float64(m.Res))
	fy := math.Floor((imag(z) - fractal.PlaneYStart) / fractal.PlaneSize * float64(m.Res))

	lo := 1.0
	if m.IncludeEdge {
		lo = 0
	}
	if fx < lo || fy < lo || fx >= float64(m.Res) || fy >= float64(m.Res) {
		return 0, 0, false
	}
	return int(fx), int(fy), true
}

// Accumulate replays every seed's orbit for up to plotDepth steps and counts
// the cells it visits. Work is split across workers, each filling its own
// partial histogram; partials are summed at the end so the result does not
// depend on scheduling.
func Accumulate(ctx context.Context, seeds []complex128, plotDepth int, m Mapper, workers int) (*Histogram, error) {
	hist, err := NewHistogram(m.Res)
	if err != nil {
		return nil, err
	}
	if plotDepth <= 0 {
		return nil, fmt.Errorf("%w: plot depth %d must be positive", config.ErrInvalid, plotDepth)
	}

	workers = clampWorkers(workers, len(seeds), m.Res)
	if workers <= 1 {
		if err := accumulateInto(ctx, hist, seeds, plotDepth, m, 0, 1); err != nil {
			return nil, err
		}
		return hist, nil
	}

	partials := make([]*Histogram, workers)
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		partials[w] = &Histogram{Res: m.Res, Cells: make([]uint32, m.Res*m.Res)}
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			errs[w] = accumulateInto(ctx, partials[w], seeds, plotDepth, m, w, workers)
		}(w)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	for _, p := range partials {
		hist.Merge(p)
	}
	return hist, nil
}

// accumulateInto plots seeds[offset], seeds[offset+stride], ... into h.
func accumulateInto(ctx context.Context, h *Histogram, seeds []complex128, plotDepth int, m Mapper, offset, stride int) error {
	for n, i := 0, offset; i < len(seeds); n, i = n+1, i+stride {
		if n%64 == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		fractal.Orbit(seeds[i], plotDepth, func(z complex128) {
			if x, y, ok := m.Cell(z); ok {
				h.Inc(x, y)
			}
		})
	}
	return nil
}

func clampWorkers(workers, seeds, res int) int {
	if workers > seeds {
		workers = seeds
	}
	if limit := partialCellBudget / (res * res); workers > limit {
		workers = limit
	}
	return max(workers, 1)
}
