package render

import (
	"image"
	"math"
)

// Stats summarizes a histogram for normalization.
type Stats struct {
	Mean      float64 `json:"mean"`      // mean count over populated cells
	Max       uint32  `json:"max"`       // largest count, diagnostic only
	Populated int     `json:"populated"` // cells with at least one visit
	Total     uint64  `json:"total"`     // sum of all counts
}

// Degenerate reports whether no cell was visited, leaving the mean undefined.
func (s Stats) Degenerate() bool {
	return s.Populated == 0
}

// ComputeStats scans h once. Cells with zero visits are excluded from the mean.
func ComputeStats(h *Histogram) Stats {
	var st Stats
	for _, n := range h.Cells {
		if n == 0 {
			continue
		}
		st.Populated++
		st.Total += uint64(n)
		if n > st.Max {
			st.Max = n
		}
	}
	if st.Populated > 0 {
		st.Mean = float64(st.Total) / float64(st.Populated)
	}
	return st
}

// Tone maps a visit count to luminance:
//
//	1 - (count/mean)^exponent * brightness
//
// clamped to [0, 1]. Unvisited cells are white (1). A non-positive mean
// yields white for every count.
func Tone(count uint32, mean, exponent, brightness float64) float64 {
	if !(mean > 0) {
		return 1
	}
	l := 1 - math.Pow(float64(count)/mean, exponent)*brightness
	return clamp01(l)
}

func clamp01(v float64) float64 {
	switch {
	case v > 1:
		return 1
	case v >= 0:
		return v
	default:
		// Negative values and NaN.
		return 0
	}
}

// Luminance is a res × res grid of tone-mapped values in [0, 1], indexed
// like the histogram.
type Luminance struct {
	Res    int
	Values []float64
}

// At returns the luminance of cell (x, y).
func (l *Luminance) At(x, y int) float64 {
	return l.Values[x*l.Res+y]
}

// ToneLuminance applies Tone to every cell of h.
func ToneLuminance(h *Histogram, st Stats, exponent, brightness float64) *Luminance {
	lum := &Luminance{Res: h.Res, Values: make([]float64, len(h.Cells))}
	for i, n := range h.Cells {
		lum.Values[i] = Tone(n, st.Mean, exponent, brightness)
	}
	return lum
}

// ToneMap renders h straight to an image. Histogram cell (x, y) becomes the
// pixel at column y, row x, which stands the figure upright.
func ToneMap(h *Histogram, st Stats, exponent, brightness float64, p Palette) *image.NRGBA {
	if p == nil {
		p = Grayscale{}
	}
	img := image.NewNRGBA(image.Rect(0, 0, h.Res, h.Res))
	for x := 0; x < h.Res; x++ {
		for y := 0; y < h.Res; y++ {
			l := Tone(h.At(x, y), st.Mean, exponent, brightness)
			img.SetNRGBA(y, x, p.Color(l))
		}
	}
	return img
}
