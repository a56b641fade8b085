// Package mcp provides an MCP (Model Context Protocol) server adapter for
// microverse. It lets AI assistants query the corpus and request control
// patches.
package mcp

import "errors"

// ErrMissingRetrievalService is returned when the retrieval service is not provided.
var ErrMissingRetrievalService = errors.New("mcp: retrieval service is required")
