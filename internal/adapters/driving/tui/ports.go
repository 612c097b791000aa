// Package tui provides the interactive chat interface for ragent.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/ragent/internal/core/ports/driving"
)

// Ports aggregates the driving port interfaces used by the TUI.
type Ports struct {
	// Ask answers questions from the index.
	Ask driving.AskService

	// Status backs the status view. Optional.
	Status driving.StatusService
}

// NewPorts creates a new Ports aggregate with the given services.
func NewPorts(ask driving.AskService, status driving.StatusService) *Ports {
	return &Ports{Ask: ask, Status: status}
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Ask == nil {
		return ErrMissingAskService
	}
	return nil
}
