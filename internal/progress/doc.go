// Package progress carries advisory sampling progress to observers.
//
// The sampler reports an Event after every completed raster row. The only
// guarantee is that Found never decreases within a run and eventually reaches
// Goal when sampling succeeds.
//
// Available sinks:
//   - Writer: a self-overwriting terminal line, "Found 3/100 points (3%)"
//   - NewLogger: one log line per event
//   - Hub: a websocket endpoint that broadcasts events as JSON
//   - Multi: fan-out to several sinks
//   - Discard: drops everything
package progress
