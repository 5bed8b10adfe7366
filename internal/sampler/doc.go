// Package sampler collects Buddhabrot seeds: points c whose orbit under
// z = z² + c escapes after a number of iterations inside a depth window.
//
// The plane [-2, 1] × [-1.5, 1.5] is swept as a raster with spacing
// 3/sqrt(checks). Each grid point is displaced by a random angle and a radius
// of up to one spacing before classification, so repeated passes visit
// different points. Passes repeat until the goal is met or the pass budget
// is spent, in which case ErrGoalUnreachable is returned along with the
// seeds found so far. With jitter disabled the grid never moves, so the
// sweep stops after a single pass.
//
// Rows may be classified concurrently. Every row draws from its own
// generator derived in row order, so the result is the same for any worker
// count.
package sampler
