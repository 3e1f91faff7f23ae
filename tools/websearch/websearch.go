// Package websearch provides a Tavily-backed web search tool.
package websearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"

	"github.com/bridgekit-ai/toolbridge/pkg/llmutils"
	"github.com/bridgekit-ai/toolbridge/tools"
	"github.com/cockroachdb/errors"
	tavilygo "github.com/diverged/tavily-go"
	tavilyModels "github.com/diverged/tavily-go/models"
	mcp "github.com/metoro-io/mcp-golang"
)

const ToolName = "web_search"

// TokenEnvVarName holds the Tavily API key.
const TokenEnvVarName = "TAVILY_API_KEY"

// SearchRequest is the tool input.
type SearchRequest struct {
	Query string `json:"query" jsonschema:"required,description=The query to search the web for."`
}

// SearchResult is the structure of a search response.
type SearchResult struct {
	Results []tavilyModels.SearchResult `json:"results"`
	Answer  string                      `json:"answer,omitempty"`
}

// String renders the result for a prompt.
func (r *SearchResult) String() string {
	var buf bytes.Buffer
	if r.Answer != "" {
		fmt.Fprintf(&buf, "ANSWER: %s\n", r.Answer)
	}
	for _, result := range r.Results {
		fmt.Fprintf(&buf, "- URL: %s\n", result.URL)
		fmt.Fprintf(&buf, "  TITLE: %s\n", result.Title)
		fmt.Fprintf(&buf, "  SCORE: %f\n", result.Score)
		fmt.Fprintf(&buf, "  CONTENT: %s\n", result.Content)
	}
	return buf.String()
}

// Tool searches the web through the Tavily API.
type Tool struct {
	name        string
	description string

	apikey     string
	baseURL    string
	httpClient *http.Client
}

var (
	_ tools.Tool[SearchRequest, SearchResult] = (*Tool)(nil)
	_ tools.IMCPTool                          = (*Tool)(nil)
)

// New creates the tool. The API key comes from the environment.
func New() (*Tool, error) {
	apikey := os.Getenv(TokenEnvVarName)
	if apikey == "" {
		return nil, errors.Errorf("%s is not set", TokenEnvVarName)
	}
	return &Tool{
		name:        ToolName,
		description: "Search the web and return ranked results with an aggregated answer.",
		apikey:      apikey,
		httpClient:  http.DefaultClient,
	}, nil
}

func (t *Tool) WithBaseURL(baseURL string) *Tool {
	t.baseURL = baseURL
	return t
}

func (t *Tool) WithHTTPClient(client *http.Client) *Tool {
	t.httpClient = client
	return t
}

func (t *Tool) Name() string {
	return t.name
}

func (t *Tool) Description() string {
	return t.description
}

// Run performs one search.
func (t *Tool) Run(ctx context.Context, req *SearchRequest) (*SearchResult, error) {
	if req.Query == "" {
		return nil, errors.New("invalid request: empty query")
	}

	client := tavilygo.NewClient(t.apikey)
	if t.baseURL != "" {
		client.BaseURL = t.baseURL
	}
	if t.httpClient != nil {
		client.HTTPClient = t.httpClient
	}

	resp, err := tavilygo.Search(client, tavilyModels.SearchRequest{
		Query:         req.Query,
		SearchDepth:   "basic",
		IncludeAnswer: true,
	})
	if err != nil {
		return nil, errors.WithMessage(err, "failed to perform search")
	}

	return &SearchResult{
		Results: resp.Results,
		Answer:  resp.Answer,
	}, nil
}

// Call executes the tool with a JSON input.
func (t *Tool) Call(ctx context.Context, input string) (string, error) {
	var req SearchRequest
	if err := json.Unmarshal(llmutils.CleanJSON([]byte(input)), &req); err != nil {
		return "", errors.WithMessage(err, "failed to unmarshal input")
	}
	out, err := t.Run(ctx, &req)
	if err != nil {
		return "", err
	}
	return llmutils.ToJSON(out), nil
}

// RegisterMCP exposes the tool on an MCP server.
func (t *Tool) RegisterMCP(registrator tools.McpServerRegistrator) error {
	return registrator.RegisterTool(t.name, t.description, t.RunMCP)
}

// RunMCP is the MCP handler.
func (t *Tool) RunMCP(req SearchRequest) (*mcp.ToolResponse, error) {
	out, err := t.Run(context.Background(), &req)
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResponse(mcp.NewTextContent(llmutils.ToJSON(out))), nil
}
