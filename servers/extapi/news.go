package extapi

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"
	"time"

	"github.com/bridgekit-ai/toolbridge/pkg/llmutils"
	"github.com/bridgekit-ai/toolbridge/tools"
	"github.com/cockroachdb/errors"
	mcp "github.com/metoro-io/mcp-golang"
)

const (
	maxNewsLimit     = 20
	defaultNewsLimit = 5
)

// clampNewsLimit keeps pageSize inside NewsAPI's accepted range; zero and
// negative values take the default.
func clampNewsLimit(limit int) int {
	if limit <= 0 {
		return defaultNewsLimit
	}
	if limit > maxNewsLimit {
		return maxNewsLimit
	}
	return limit
}

// Article is one normalized news story.
type Article struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	Source      string `json:"source"`
	PublishedAt string `json:"published_at"`
	Author      string `json:"author,omitempty"`
}

type newsAPIResponse struct {
	TotalResults int `json:"totalResults"`
	Articles     []struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		URL         string `json:"url"`
		PublishedAt string `json:"publishedAt"`
		Author      string `json:"author"`
		Source      struct {
			Name string `json:"name"`
		} `json:"source"`
	} `json:"articles"`
}

// LatestNewsRequest asks for top headlines.
type LatestNewsRequest struct {
	Category string `json:"category,omitempty" jsonschema:"description=Headline category. Defaults to general."`
	Country  string `json:"country,omitempty" jsonschema:"description=Two-letter country code. Defaults to us."`
	Limit    int    `json:"limit,omitempty" jsonschema:"description=Number of articles, at most 20. Defaults to 5."`
}

// LatestNewsReport is the normalized headline listing.
type LatestNewsReport struct {
	Category     string    `json:"category"`
	Country      string    `json:"country"`
	TotalResults int       `json:"total_results"`
	Articles     []Article `json:"articles"`
	FetchedAt    string    `json:"fetched_at"`
}

// LatestNewsTool returns top headlines.
type LatestNewsTool struct {
	svc *Service
}

var _ tools.IMCPTool = (*LatestNewsTool)(nil)

func (t *LatestNewsTool) Name() string { return "get_latest_news" }

func (t *LatestNewsTool) Description() string {
	return "Get the latest news headlines by category and country."
}

func (t *LatestNewsTool) Run(ctx context.Context, req *LatestNewsRequest) (*LatestNewsReport, error) {
	if t.svc.cfg.NewsKey == "" {
		return nil, errors.Errorf("%s is not set", NewsKeyEnv)
	}
	category := req.Category
	if category == "" {
		category = "general"
	}
	country := req.Country
	if country == "" {
		country = "us"
	}
	limit := clampNewsLimit(req.Limit)

	params := url.Values{}
	params.Set("apiKey", t.svc.cfg.NewsKey)
	params.Set("category", category)
	params.Set("country", country)
	params.Set("pageSize", strconv.Itoa(limit))

	var data newsAPIResponse
	if err := t.svc.getJSON(ctx, t.svc.cfg.NewsBaseURL+"/top-headlines", params, &data); err != nil {
		return nil, err
	}

	report := &LatestNewsReport{
		Category:     category,
		Country:      country,
		TotalResults: data.TotalResults,
		FetchedAt:    time.Now().Format(time.RFC3339),
	}
	for _, a := range data.Articles {
		report.Articles = append(report.Articles, Article{
			Title:       a.Title,
			Description: a.Description,
			URL:         a.URL,
			Source:      a.Source.Name,
			PublishedAt: a.PublishedAt,
			Author:      a.Author,
		})
	}
	return report, nil
}

func (t *LatestNewsTool) Call(ctx context.Context, input string) (string, error) {
	var req LatestNewsRequest
	if err := json.Unmarshal(llmutils.CleanJSON([]byte(input)), &req); err != nil {
		return "", errors.WithMessage(err, "failed to unmarshal input")
	}
	out, err := t.Run(ctx, &req)
	if err != nil {
		return "", err
	}
	return llmutils.ToJSON(out), nil
}

func (t *LatestNewsTool) RegisterMCP(registrator tools.McpServerRegistrator) error {
	return registrator.RegisterTool(t.Name(), t.Description(), t.RunMCP)
}

func (t *LatestNewsTool) RunMCP(req LatestNewsRequest) (*mcp.ToolResponse, error) {
	out, err := t.Run(context.Background(), &req)
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResponse(mcp.NewTextContent(llmutils.ToJSON(out))), nil
}

// SearchNewsRequest searches articles by keyword.
type SearchNewsRequest struct {
	Query    string `json:"query" jsonschema:"required,description=Keywords to search for."`
	Language string `json:"language,omitempty" jsonschema:"description=Two-letter language code. Defaults to en."`
	Limit    int    `json:"limit,omitempty" jsonschema:"description=Number of articles, at most 20. Defaults to 5."`
}

// SearchNewsReport is the normalized search listing.
type SearchNewsReport struct {
	Query        string    `json:"query"`
	Language     string    `json:"language"`
	TotalResults int       `json:"total_results"`
	Articles     []Article `json:"articles"`
	FetchedAt    string    `json:"fetched_at"`
}

// SearchNewsTool searches news articles by keyword.
type SearchNewsTool struct {
	svc *Service
}

var _ tools.IMCPTool = (*SearchNewsTool)(nil)

func (t *SearchNewsTool) Name() string { return "search_news" }

func (t *SearchNewsTool) Description() string {
	return "Search news articles by keyword, newest first."
}

func (t *SearchNewsTool) Run(ctx context.Context, req *SearchNewsRequest) (*SearchNewsReport, error) {
	if t.svc.cfg.NewsKey == "" {
		return nil, errors.Errorf("%s is not set", NewsKeyEnv)
	}
	if req.Query == "" {
		return nil, errors.New("invalid request: empty query")
	}
	language := req.Language
	if language == "" {
		language = "en"
	}
	limit := clampNewsLimit(req.Limit)

	params := url.Values{}
	params.Set("apiKey", t.svc.cfg.NewsKey)
	params.Set("q", req.Query)
	params.Set("language", language)
	params.Set("sortBy", "publishedAt")
	params.Set("pageSize", strconv.Itoa(limit))

	var data newsAPIResponse
	if err := t.svc.getJSON(ctx, t.svc.cfg.NewsBaseURL+"/everything", params, &data); err != nil {
		return nil, err
	}

	report := &SearchNewsReport{
		Query:        req.Query,
		Language:     language,
		TotalResults: data.TotalResults,
		FetchedAt:    time.Now().Format(time.RFC3339),
	}
	for _, a := range data.Articles {
		report.Articles = append(report.Articles, Article{
			Title:       a.Title,
			Description: a.Description,
			URL:         a.URL,
			Source:      a.Source.Name,
			PublishedAt: a.PublishedAt,
		})
	}
	return report, nil
}

func (t *SearchNewsTool) Call(ctx context.Context, input string) (string, error) {
	var req SearchNewsRequest
	if err := json.Unmarshal(llmutils.CleanJSON([]byte(input)), &req); err != nil {
		return "", errors.WithMessage(err, "failed to unmarshal input")
	}
	out, err := t.Run(ctx, &req)
	if err != nil {
		return "", err
	}
	return llmutils.ToJSON(out), nil
}

func (t *SearchNewsTool) RegisterMCP(registrator tools.McpServerRegistrator) error {
	return registrator.RegisterTool(t.Name(), t.Description(), t.RunMCP)
}

func (t *SearchNewsTool) RunMCP(req SearchNewsRequest) (*mcp.ToolResponse, error) {
	out, err := t.Run(context.Background(), &req)
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResponse(mcp.NewTextContent(llmutils.ToJSON(out))), nil
}
