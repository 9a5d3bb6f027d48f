// Package server implements the MCP (Model Context Protocol) server for map
// label translation.
//
// It exposes the translator and the map pipeline as MCP tools so that an AI
// client can translate Cyrillic place names or process whole scanned maps.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Logs go to stderr so they never mix with responses.
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Text Operations:
//   - map_translate_text: Translate Cyrillic text to Romanian
//   - map_clean_text: Strip non-ASCII and punctuation
//   - map_phrases: List the phrase override dictionary
//
// Image Operations:
//   - image_load: Load an image and get metadata
//   - map_recognize: OCR and translate labels without writing files
//   - map_process: Full pipeline with annotated map, CSV and report
//
// # Image Caching
//
// Images are cached by path and reused across tool calls for the lifetime of
// the server process. map_process and map_recognize share the cache with
// image_load.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: Additional error details (typically the Go error string)
//
// Lines that are not valid JSON get a -32700 parse error with a null id.
//
// # Usage
//
//	srv := server.New(cfg, logger)
//	if err := srv.Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
package server
