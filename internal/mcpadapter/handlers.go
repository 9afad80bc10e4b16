package mcpadapter

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/povarna/generative-ai-agents/anime-recommender/internal/catalog"
	"github.com/povarna/generative-ai-agents/anime-recommender/internal/recommend"
)

const ToolName = "recommend_anime"

type Recommender interface {
	Recommend(ctx context.Context, req recommend.Request) ([]catalog.Item, error)
}

// RecommendInput is the MCP tool input schema (matches HTTP API field names).
type RecommendInput struct {
	Query  string   `json:"query,omitempty" jsonschema:"free-text description of what to watch"`
	Genres []string `json:"genres,omitempty" jsonschema:"genre filters, a row matches when any genre is part of its Genres field"`
}

type RecommendOutput struct {
	Count int              `json:"count"`
	Items []map[string]any `json:"items"`
}

// NewRecommendHandler returns a tool handler that uses the given engine.
// Pass the returned function to mcp.AddTool.
func NewRecommendHandler(engine Recommender) func(context.Context, *mcp.CallToolRequest, RecommendInput) (*mcp.CallToolResult, RecommendOutput, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input RecommendInput) (*mcp.CallToolResult, RecommendOutput, error) {
		return Recommend(ctx, engine, req, input)
	}
}

// Recommend runs the recommendation pipeline and returns the rows as records.
func Recommend(
	ctx context.Context,
	engine Recommender,
	req *mcp.CallToolRequest,
	input RecommendInput,
) (*mcp.CallToolResult, RecommendOutput, error) {
	items, err := engine.Recommend(ctx, recommend.Request{
		Query:  input.Query,
		Genres: input.Genres,
	})
	if err != nil {
		return nil, RecommendOutput{}, err
	}

	output := RecommendOutput{
		Count: len(items),
		Items: make([]map[string]any, len(items)),
	}
	for i, item := range items {
		output.Items[i] = item.Record()
	}

	return nil, output, nil
}

// NewServer builds an MCP server exposing the recommend tool.
func NewServer(engine Recommender, version string) *mcp.Server {
	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    "anime-recommender",
			Version: version,
		}, nil,
	)

	mcp.AddTool(server, &mcp.Tool{
		Name:        ToolName,
		Description: "Recommend anime from a free-text description and optional genre filters",
	}, NewRecommendHandler(engine))

	return server
}
