package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/microverse/internal/core/domain"
	"github.com/custodia-labs/microverse/internal/core/ports/driving"
)

// SearchInput is the input schema for the search tool.
type SearchInput struct {
	Query string `json:"query" jsonschema:"the text to find semantically related passages for"`
	K     int    `json:"k,omitempty" jsonschema:"maximum number of results (default 5, max 50)"`
}

// SearchOutput is the output schema for the search tool.
type SearchOutput struct {
	Results []SearchResultOutput  `json:"results"`
	Stats   domain.RetrievalStats `json:"stats"`
}

// SearchResultOutput represents a single search result.
type SearchResultOutput struct {
	ID         string   `json:"id"`
	Work       string   `json:"work"`
	Author     string   `json:"author"`
	Content    string   `json:"content"`
	Topic      []string `json:"topic,omitempty"`
	Similarity float64  `json:"similarity"`
}

// IntentInput is the input schema for the intent tool.
type IntentInput struct {
	Query string `json:"query" jsonschema:"the prompt to turn into visual and audio controls"`
	TopK  int    `json:"topK,omitempty" jsonschema:"number of passages to draw controls from (default 3)"`
}

// CountOutput is the output schema for the count tool.
type CountOutput struct {
	Count int `json:"count"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search",
		Description: "Find corpus passages semantically related to a query",
	}, s.handleSearch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "count",
		Description: "Count the documents in the corpus",
	}, s.handleCount)

	if s.ports.Intent != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "intent",
			Description: "Map a query to a visual and audio control patch",
		}, s.handleIntent)
	}
}

// handleSearch handles the search tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	result, err := s.ports.Retrieval.Retrieve(ctx, input.Query, input.K)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	output := SearchOutput{
		Results: make([]SearchResultOutput, len(result.Results)),
		Stats:   result.Stats,
	}
	for i := range result.Results {
		r := &result.Results[i]
		output.Results[i] = SearchResultOutput{
			ID:         r.ID,
			Work:       r.Work,
			Author:     r.Author,
			Content:    r.Content,
			Topic:      r.Topic,
			Similarity: r.Similarity,
		}
	}
	return nil, output, nil
}

// handleIntent handles the intent tool invocation.
func (s *Server) handleIntent(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input IntentInput,
) (*mcp.CallToolResult, domain.ControlPatch, error) {
	topK := input.TopK
	if topK <= 0 {
		topK = driving.DefaultIntentTopK
	}
	patch, err := s.ports.Intent.Intent(ctx, input.Query, topK)
	if err != nil {
		return nil, domain.ControlPatch{}, err
	}
	return nil, *patch, nil
}

// handleCount handles the count tool invocation.
func (s *Server) handleCount(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ struct{},
) (*mcp.CallToolResult, CountOutput, error) {
	n, err := s.ports.Retrieval.Count(ctx)
	if err != nil {
		return nil, CountOutput{}, err
	}
	return nil, CountOutput{Count: n}, nil
}
