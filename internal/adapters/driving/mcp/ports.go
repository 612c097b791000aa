package mcp

import (
	"github.com/custodia-labs/ragent/internal/core/ports/driving"
)

// Ports aggregates the driving port interfaces used by the MCP server.
type Ports struct {
	// Ask answers questions and retrieves chunks.
	Ask driving.AskService

	// Status backs the status resource. Optional.
	Status driving.StatusService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Ask == nil {
		return ErrMissingAskService
	}
	return nil
}
