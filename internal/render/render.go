package render

import (
	"context"
	"image"
)

// Options are the rendering parameters.
type Options struct {
	PlotDepth   int
	Resolution  int
	Exponent    float64
	Brightness  float64
	Workers     int
	IncludeEdge bool
	Palette     Palette // nil selects Grayscale
}

// Result holds the rendered image and the data it was derived from.
type Result struct {
	Image     *image.NRGBA
	Histogram *Histogram
	Stats     Stats
}

// Degenerate reports whether the histogram was empty, in which case Image is
// entirely white.
func (r *Result) Degenerate() bool {
	return r.Stats.Degenerate()
}

// Render accumulates the orbits of seeds into a histogram and tone-maps it.
// seeds is only read.
func Render(ctx context.Context, seeds []complex128, opts Options) (*Result, error) {
	m := Mapper{Res: opts.Resolution, IncludeEdge: opts.IncludeEdge}
	hist, err := Accumulate(ctx, seeds, opts.PlotDepth, m, opts.Workers)
	if err != nil {
		return nil, err
	}

	st := ComputeStats(hist)
	img := ToneMap(hist, st, opts.Exponent, opts.Brightness, opts.Palette)

	return &Result{
		Image:     img,
		Histogram: hist,
		Stats:     st,
	}, nil
}
