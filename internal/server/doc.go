// Package server implements an MCP (Model Context Protocol) tool server for
// Buddhabrot rendering.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
//   - buddhabrot_classify: Escape-time classification of a single point
//   - buddhabrot_sample: Collect seeds in a depth window, optionally into a seed file
//   - buddhabrot_render: Render seeds (from a file or freshly sampled) to PNG
//
// Sampling and rendering take the same parameters as the command line, with
// zero or missing values falling back to the same defaults.
//
// # Seed Caching
//
// Seed files are cached by path for the lifetime of the server, so rendering
// the same seeds at several resolutions or exposures reads the file once.
// Files written by buddhabrot_sample replace their cache entry.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: Additional error details (typically the Go error string)
//
// A sampling run that exhausts its pass budget is not an error; the result
// reports complete=false together with the seeds that were found.
//
// # Usage
//
//	srv := server.New(server.WithVersion(version))
//	if err := srv.Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
package server
