package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// uriScheme is the custom URI scheme for microverse resources.
const uriScheme = "microverse://"

// CorpusURI is the corpus summary resource.
const CorpusURI = uriScheme + "corpus"

// corpusInfo is the body of the corpus resource.
type corpusInfo struct {
	Documents int `json:"documents"`
}

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         CorpusURI,
		Name:        "corpus",
		Description: "Summary of the indexed corpus",
		MIMEType:    "application/json",
	}, s.handleCorpusResource)
}

// handleCorpusResource returns the corpus summary.
func (s *Server) handleCorpusResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	n, err := s.ports.Retrieval.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("counting documents: %w", err)
	}

	data, err := json.MarshalIndent(corpusInfo{Documents: n}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling corpus info: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
