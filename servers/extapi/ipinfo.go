package extapi

import (
	"context"
	"encoding/json"

	"github.com/bridgekit-ai/toolbridge/pkg/llmutils"
	"github.com/bridgekit-ai/toolbridge/tools"
	"github.com/cockroachdb/errors"
	mcp "github.com/metoro-io/mcp-golang"
)

// IPInfoRequest looks an address up. Empty means the caller's own address.
type IPInfoRequest struct {
	IPAddress string `json:"ip_address,omitempty" jsonschema:"description=IPv4 or IPv6 address. Omit for the caller's own address."`
}

// IPInfoReport is the normalized geolocation answer.
type IPInfoReport struct {
	IP           string  `json:"ip"`
	Country      string  `json:"country"`
	CountryCode  string  `json:"country_code"`
	Region       string  `json:"region"`
	City         string  `json:"city"`
	Zip          string  `json:"zip"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	Timezone     string  `json:"timezone"`
	ISP          string  `json:"isp"`
	Organization string  `json:"organization"`
}

type ipAPIResponse struct {
	Status     string  `json:"status"`
	Message    string  `json:"message"`
	Query      string  `json:"query"`
	Country    string  `json:"country"`
	Code       string  `json:"countryCode"`
	RegionName string  `json:"regionName"`
	City       string  `json:"city"`
	Zip        string  `json:"zip"`
	Lat        float64 `json:"lat"`
	Lon        float64 `json:"lon"`
	Timezone   string  `json:"timezone"`
	ISP        string  `json:"isp"`
	Org        string  `json:"org"`
}

// IPInfoTool resolves geolocation and provider data for an IP address.
type IPInfoTool struct {
	svc *Service
}

var _ tools.IMCPTool = (*IPInfoTool)(nil)

func (t *IPInfoTool) Name() string { return "get_ip_info" }

func (t *IPInfoTool) Description() string {
	return "Get geolocation and provider information for an IP address."
}

func (t *IPInfoTool) Run(ctx context.Context, req *IPInfoRequest) (*IPInfoReport, error) {
	u := t.svc.cfg.IPBaseURL + "/json/"
	if req.IPAddress != "" {
		u += req.IPAddress
	}

	var data ipAPIResponse
	if err := t.svc.getJSON(ctx, u, nil, &data); err != nil {
		return nil, err
	}
	if data.Status == "fail" {
		return nil, errors.Errorf("lookup failed: %s", data.Message)
	}

	return &IPInfoReport{
		IP:           data.Query,
		Country:      data.Country,
		CountryCode:  data.Code,
		Region:       data.RegionName,
		City:         data.City,
		Zip:          data.Zip,
		Latitude:     data.Lat,
		Longitude:    data.Lon,
		Timezone:     data.Timezone,
		ISP:          data.ISP,
		Organization: data.Org,
	}, nil
}

func (t *IPInfoTool) Call(ctx context.Context, input string) (string, error) {
	var req IPInfoRequest
	if err := json.Unmarshal(llmutils.CleanJSON([]byte(input)), &req); err != nil {
		return "", errors.WithMessage(err, "failed to unmarshal input")
	}
	out, err := t.Run(ctx, &req)
	if err != nil {
		return "", err
	}
	return llmutils.ToJSON(out), nil
}

func (t *IPInfoTool) RegisterMCP(registrator tools.McpServerRegistrator) error {
	return registrator.RegisterTool(t.Name(), t.Description(), t.RunMCP)
}

func (t *IPInfoTool) RunMCP(req IPInfoRequest) (*mcp.ToolResponse, error) {
	out, err := t.Run(context.Background(), &req)
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResponse(mcp.NewTextContent(llmutils.ToJSON(out))), nil
}
