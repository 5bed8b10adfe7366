// Package render turns accepted seeds into a Buddhabrot density image.
//
// Rendering runs in three steps:
//
//  1. Accumulate: each seed's orbit is replayed from z = 0 for up to the plot
//     depth or until it escapes. Every visited z is mapped to a histogram
//     cell and counted. Seeds are spread over workers with private partial
//     histograms that are summed afterwards.
//
//  2. ComputeStats: the mean over populated cells (zero cells excluded) and
//     the maximum count.
//
//  3. ToneMap: luminance = 1 - (count/mean)^exponent * brightness, clamped to
//     [0, 1] and passed through a Palette. Unvisited cells are white; a cell
//     at the mean gets 1 - brightness.
//
// # Coordinates
//
// Histogram x follows the real axis and y the imaginary axis. The image is
// the transpose: cell (x, y) is drawn at column y, row x.
//
// The mapping floor((component - start) / 3 * res) discards cells whose index
// is 0 unless Mapper.IncludeEdge is set.
//
// # Empty Histograms
//
// When no orbit lands on the grid the mean is undefined. Tone treats this as
// white everywhere, and Result.Degenerate reports it so callers can warn.
package render
