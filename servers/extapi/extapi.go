// Package extapi is an MCP server exposing external HTTP APIs: weather,
// news headlines and IP geolocation.
package extapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/bridgekit-ai/toolbridge/tools"
	"github.com/cockroachdb/errors"
	"github.com/effective-security/xlog"
)

var logger = xlog.NewPackageLogger("github.com/bridgekit-ai/toolbridge", "extapi")

// Key environment variables.
const (
	OpenWeatherKeyEnv = "OPENWEATHER_API_KEY"
	NewsKeyEnv        = "NEWS_API_KEY"
)

const (
	defaultWeatherBaseURL = "https://api.openweathermap.org/data/2.5"
	defaultNewsBaseURL    = "https://newsapi.org/v2"
	defaultIPBaseURL      = "http://ip-api.com"

	requestTimeout = 10 * time.Second
)

// Config carries API keys and optional endpoint overrides.
type Config struct {
	OpenWeatherKey string
	NewsKey        string

	WeatherBaseURL string
	NewsBaseURL    string
	IPBaseURL      string
	HTTPClient     *http.Client
}

// ConfigFromEnv reads the API keys from the environment. Missing keys are
// not fatal; the affected tools fail on use.
func ConfigFromEnv() Config {
	return Config{
		OpenWeatherKey: os.Getenv(OpenWeatherKeyEnv),
		NewsKey:        os.Getenv(NewsKeyEnv),
	}
}

// Service bundles the external API tools.
type Service struct {
	cfg    Config
	client *http.Client
}

// NewService applies defaults and creates the service.
func NewService(cfg Config) *Service {
	if cfg.WeatherBaseURL == "" {
		cfg.WeatherBaseURL = defaultWeatherBaseURL
	}
	if cfg.NewsBaseURL == "" {
		cfg.NewsBaseURL = defaultNewsBaseURL
	}
	if cfg.IPBaseURL == "" {
		cfg.IPBaseURL = defaultIPBaseURL
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: requestTimeout}
	}
	return &Service{
		cfg:    cfg,
		client: client,
	}
}

// Tools returns every tool of the service.
func (s *Service) Tools() []tools.IMCPTool {
	return []tools.IMCPTool{
		&WeatherTool{svc: s},
		&ForecastTool{svc: s},
		&LatestNewsTool{svc: s},
		&SearchNewsTool{svc: s},
		&IPInfoTool{svc: s},
	}
}

// RegisterMCP registers every tool on the server.
func (s *Service) RegisterMCP(registrator tools.McpServerRegistrator) error {
	return tools.RegisterAll(registrator, s.Tools()...)
}

// getJSON performs a GET and decodes the JSON body into out.
func (s *Service) getJSON(ctx context.Context, rawURL string, params url.Values, out any) error {
	u := rawURL
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return errors.WithStack(err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return errors.WithMessage(err, "request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		logger.KV(xlog.WARNING,
			"reason", "api_error",
			"url", rawURL,
			"status", resp.StatusCode,
		)
		return errors.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.WithMessage(err, "failed to decode response")
	}
	return nil
}
