// Package fractal implements escape-time classification for the quadratic
// Mandelbrot recurrence z ← z² + c.
//
// Points of the complex plane are plain complex128 values. All arithmetic is
// double precision and the escape radius is exactly 2.0.
//
// # Classification
//
// Classify reports whether the orbit of a seed c leaves the disc |z| <= 2 and,
// if so, at which iteration index. Two heuristics avoid spending the full
// iteration budget on orbits that never escape:
//
//   - Membership: seeds inside the main cardioid or the period-2 bulb are
//     recognised with closed-form tests and reported as bounded immediately.
//   - Cycle detection: a snapshot of z is taken at power-of-two iteration
//     indices (2, 4, 8, ...). When a later value lands within 1e-8 of the
//     snapshot the orbit is periodic and is reported as bounded.
//
// # Depth Convention
//
// The escape test runs before each update, so Depth is the number of updates
// performed before |z| > 2 was observed. z starts at the origin, so the
// smallest possible escape depth is 1 (for |c| > 2).
//
// # Plane
//
// The constants PlaneXStart, PlaneYStart and PlaneSize describe the square
// [-2, 1] × [-1.5, 1.5] that is both swept for seeds and mapped onto the
// output image.
package fractal
