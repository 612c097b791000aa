package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// uriScheme is the custom URI scheme for ragent resources.
const uriScheme = "ragent://"

// statusInfo is the JSON shape of the status resource.
type statusInfo struct {
	EmbeddingProvider string `json:"embedding_provider"`
	EmbeddingModel    string `json:"embedding_model"`
	LLMProvider       string `json:"llm_provider"`
	LLMModel          string `json:"llm_model"`
	CredentialPresent bool   `json:"credential_present"`
	CredentialWarning string `json:"credential_warning,omitempty"`
	StoreBackend      string `json:"store_backend"`
	StoreLocation     string `json:"store_location"`
	StoreExists       bool   `json:"store_exists"`
	Entries           int    `json:"entries"`
	Dimensions        int    `json:"dimensions"`
}

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	if s.ports.Status == nil {
		return
	}
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "status",
		Name:        "status",
		Description: "Configured providers and vector store statistics",
		MIMEType:    "application/json",
	}, s.handleStatusResource)
}

// handleStatusResource returns the pipeline diagnostics. API keys are never included.
func (s *Server) handleStatusResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	status, err := s.ports.Status.Status(ctx)
	if err != nil {
		return nil, fmt.Errorf("collecting status: %w", err)
	}

	info := statusInfo{
		EmbeddingProvider: status.Settings.Embedding.Provider.String(),
		EmbeddingModel:    status.Settings.Embedding.Model,
		LLMProvider:       status.Settings.LLM.Provider.String(),
		LLMModel:          status.Settings.LLM.Model,
		CredentialPresent: status.Credential.Present,
		CredentialWarning: status.Credential.Warning,
		StoreBackend:      status.Store.Backend.String(),
		StoreLocation:     status.Store.Location,
		StoreExists:       status.Store.Exists,
		Entries:           status.Store.Entries,
		Dimensions:        status.Store.Dimensions,
	}

	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling status: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
