// Package sink writes rendered images to disk.
//
// Files are PNG encoded through disintegration/imaging and replaced
// atomically: the image is written beside the destination and renamed over
// it, so a failure never leaves a truncated file. Every failure wraps
// ErrWrite.
//
// Summarize reports the tonal spread of an image using bild's channel
// histograms, which the CLI logs after each render.
package sink
