package mcp

import (
	"github.com/custodia-labs/microverse/internal/core/ports/driving"
)

// Ports aggregates the driving ports the MCP server calls.
type Ports struct {
	// Retrieval provides search and corpus counts.
	Retrieval driving.RetrievalService

	// Intent maps queries to control patches. Optional; the intent tool
	// is only registered when set.
	Intent driving.IntentService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Retrieval == nil {
		return ErrMissingRetrievalService
	}
	return nil
}
