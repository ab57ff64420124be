package server

import (
	"context"
	"net/http"

	"github.com/mikeboe/deep-research/pkg/research"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type DeepResearchArgs struct {
	Question string `json:"question" jsonschema:"the research question"`
	Mode     string `json:"mode,omitempty" jsonschema:"one of default, deeper, summarise, just_links; detected from the question when empty"`
	Name     string `json:"name,omitempty" jsonschema:"name of the reader"`
	City     string `json:"city,omitempty" jsonschema:"city used to localise sub-questions"`
	Interest string `json:"interest,omitempty" jsonschema:"topic the reader cares about"`
	Style    string `json:"style,omitempty" jsonschema:"summary style, for example concise or bullet-points"`
}

type DeepResearchResult struct {
	Report     string   `json:"report"`
	References []string `json:"references"`
}

// NewMCPServer exposes the research engine as the deep_research tool.
func NewMCPServer(s *Service) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{Name: "deep-research-mcp", Version: "1.0.0"}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "deep_research",
		Description: "Research a question across several perspectives and return a cited report.",
	}, s.deepResearchTool)

	return server
}

// NewMCPHandler serves server over the streamable HTTP transport.
func NewMCPHandler(server *mcp.Server) http.Handler {
	return mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server { return server }, nil)
}

func (s *Service) deepResearchTool(ctx context.Context, _ *mcp.CallToolRequest, args DeepResearchArgs) (*mcp.CallToolResult, DeepResearchResult, error) {
	report, err := s.Research(ctx, CreateJobRequest{
		Question: args.Question,
		Mode:     args.Mode,
		Profile: research.Profile{
			Name:     args.Name,
			City:     args.City,
			Interest: args.Interest,
			Style:    args.Style,
		},
	})
	if err != nil {
		return nil, DeepResearchResult{}, err
	}

	out := DeepResearchResult{Report: report.Text, References: report.References.URLs()}
	if out.References == nil {
		out.References = []string{}
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: report.Text}},
	}, out, nil
}
