// Package config defines the run parameters and their validation.
//
// A Config is built once from Default, command-line flags (Bind) and the
// environment (ApplyEnv), then validated. Nothing in the engine mutates it.
//
// # Capacity
//
// Seed goals and output resolutions are bounded by MaxSeeds and
// MaxResolution. Exceeding either fails fast with an error wrapping
// ErrOverflow instead of attempting a huge allocation.
//
// # Environment
//
//	BUDDHABROT_LOG_LEVEL=debug    Enable debug logging
package config
