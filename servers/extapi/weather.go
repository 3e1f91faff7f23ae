package extapi

import (
	"context"
	"encoding/json"
	"net/url"
	"time"

	"github.com/bridgekit-ai/toolbridge/pkg/llmutils"
	"github.com/bridgekit-ai/toolbridge/tools"
	"github.com/cockroachdb/errors"
	mcp "github.com/metoro-io/mcp-golang"
)

// WeatherRequest asks for current conditions in one city.
type WeatherRequest struct {
	City        string `json:"city" jsonschema:"required,description=City name."`
	CountryCode string `json:"country_code,omitempty" jsonschema:"description=ISO country code. Defaults to JP."`
}

// WeatherReport is the normalized current weather.
type WeatherReport struct {
	City               string  `json:"city"`
	Country            string  `json:"country"`
	Temperature        float64 `json:"temperature"`
	FeelsLike          float64 `json:"feels_like"`
	Humidity           int     `json:"humidity"`
	Pressure           int     `json:"pressure"`
	WeatherMain        string  `json:"weather_main"`
	WeatherDescription string  `json:"weather_description"`
	WindSpeed          float64 `json:"wind_speed"`
	VisibilityKm       float64 `json:"visibility"`
	Timestamp          string  `json:"timestamp"`
}

// openWeatherCurrent mirrors the fields used from the upstream payload.
type openWeatherCurrent struct {
	Name string `json:"name"`
	Sys  struct {
		Country string `json:"country"`
	} `json:"sys"`
	Main struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		Humidity  int     `json:"humidity"`
		Pressure  int     `json:"pressure"`
	} `json:"main"`
	Weather []struct {
		Main        string `json:"main"`
		Description string `json:"description"`
	} `json:"weather"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
	Visibility int `json:"visibility"`
}

// WeatherTool returns current conditions for a city.
type WeatherTool struct {
	svc *Service
}

var _ tools.IMCPTool = (*WeatherTool)(nil)

func (t *WeatherTool) Name() string { return "get_weather" }

func (t *WeatherTool) Description() string {
	return "Get the current weather for a city."
}

func (t *WeatherTool) Run(ctx context.Context, req *WeatherRequest) (*WeatherReport, error) {
	if t.svc.cfg.OpenWeatherKey == "" {
		return nil, errors.Errorf("%s is not set", OpenWeatherKeyEnv)
	}
	country := req.CountryCode
	if country == "" {
		country = "JP"
	}

	params := url.Values{}
	params.Set("q", req.City+","+country)
	params.Set("appid", t.svc.cfg.OpenWeatherKey)
	params.Set("units", "metric")

	var data openWeatherCurrent
	if err := t.svc.getJSON(ctx, t.svc.cfg.WeatherBaseURL+"/weather", params, &data); err != nil {
		return nil, err
	}
	if len(data.Weather) == 0 {
		return nil, errors.New("upstream returned no weather conditions")
	}

	return &WeatherReport{
		City:               data.Name,
		Country:            data.Sys.Country,
		Temperature:        data.Main.Temp,
		FeelsLike:          data.Main.FeelsLike,
		Humidity:           data.Main.Humidity,
		Pressure:           data.Main.Pressure,
		WeatherMain:        data.Weather[0].Main,
		WeatherDescription: data.Weather[0].Description,
		WindSpeed:          data.Wind.Speed,
		VisibilityKm:       float64(data.Visibility) / 1000,
		Timestamp:          time.Now().Format(time.RFC3339),
	}, nil
}

func (t *WeatherTool) Call(ctx context.Context, input string) (string, error) {
	var req WeatherRequest
	if err := json.Unmarshal(llmutils.CleanJSON([]byte(input)), &req); err != nil {
		return "", errors.WithMessage(err, "failed to unmarshal input")
	}
	out, err := t.Run(ctx, &req)
	if err != nil {
		return "", err
	}
	return llmutils.ToJSON(out), nil
}

func (t *WeatherTool) RegisterMCP(registrator tools.McpServerRegistrator) error {
	return registrator.RegisterTool(t.Name(), t.Description(), t.RunMCP)
}

func (t *WeatherTool) RunMCP(req WeatherRequest) (*mcp.ToolResponse, error) {
	out, err := t.Run(context.Background(), &req)
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResponse(mcp.NewTextContent(llmutils.ToJSON(out))), nil
}

// ForecastRequest asks for a multi-day forecast.
type ForecastRequest struct {
	City        string `json:"city" jsonschema:"required,description=City name."`
	Days        int    `json:"days,omitempty" jsonschema:"description=Days of forecast, 1 to 5. Defaults to 5."`
	CountryCode string `json:"country_code,omitempty" jsonschema:"description=ISO country code. Defaults to JP."`
}

// ForecastEntry is one three-hour slot.
type ForecastEntry struct {
	Time            string  `json:"time"`
	Temperature     float64 `json:"temperature"`
	Weather         string  `json:"weather"`
	RainProbability float64 `json:"rain_probability"`
}

// DailyForecast groups the slots of one day.
type DailyForecast struct {
	Date      string          `json:"date"`
	Forecasts []ForecastEntry `json:"forecasts"`
}

// ForecastReport is the normalized forecast.
type ForecastReport struct {
	City           string          `json:"city"`
	Country        string          `json:"country"`
	DailyForecasts []DailyForecast `json:"daily_forecasts"`
}

type openWeatherForecast struct {
	List []struct {
		Dt   int64 `json:"dt"`
		Main struct {
			Temp float64 `json:"temp"`
		} `json:"main"`
		Weather []struct {
			Description string `json:"description"`
		} `json:"weather"`
		Pop float64 `json:"pop"`
	} `json:"list"`
	City struct {
		Name    string `json:"name"`
		Country string `json:"country"`
	} `json:"city"`
}

// ForecastTool returns a forecast in three-hour slots grouped by day.
type ForecastTool struct {
	svc *Service
}

var _ tools.IMCPTool = (*ForecastTool)(nil)

func (t *ForecastTool) Name() string { return "get_weather_forecast" }

func (t *ForecastTool) Description() string {
	return "Get a weather forecast for a city, up to five days."
}

func (t *ForecastTool) Run(ctx context.Context, req *ForecastRequest) (*ForecastReport, error) {
	if t.svc.cfg.OpenWeatherKey == "" {
		return nil, errors.Errorf("%s is not set", OpenWeatherKeyEnv)
	}
	days := req.Days
	if days == 0 {
		days = 5
	}
	if days < 1 || days > 5 {
		return nil, errors.New("days must be between 1 and 5")
	}
	country := req.CountryCode
	if country == "" {
		country = "JP"
	}

	params := url.Values{}
	params.Set("q", req.City+","+country)
	params.Set("appid", t.svc.cfg.OpenWeatherKey)
	params.Set("units", "metric")

	var data openWeatherForecast
	if err := t.svc.getJSON(ctx, t.svc.cfg.WeatherBaseURL+"/forecast", params, &data); err != nil {
		return nil, err
	}

	report := &ForecastReport{
		City:    data.City.Name,
		Country: data.City.Country,
	}

	// the 3-hour slots arrive flat; regroup them per calendar day
	var (
		current string
		day     *DailyForecast
	)
	limit := days * 8
	if limit > len(data.List) {
		limit = len(data.List)
	}
	for _, item := range data.List[:limit] {
		ts := time.Unix(item.Dt, 0)
		date := ts.Format("2006-01-02")
		if date != current {
			current = date
			report.DailyForecasts = append(report.DailyForecasts, DailyForecast{Date: date})
			day = &report.DailyForecasts[len(report.DailyForecasts)-1]
		}
		desc := ""
		if len(item.Weather) > 0 {
			desc = item.Weather[0].Description
		}
		day.Forecasts = append(day.Forecasts, ForecastEntry{
			Time:            ts.Format("15:04"),
			Temperature:     item.Main.Temp,
			Weather:         desc,
			RainProbability: item.Pop * 100,
		})
	}
	if len(report.DailyForecasts) > days {
		report.DailyForecasts = report.DailyForecasts[:days]
	}
	return report, nil
}

func (t *ForecastTool) Call(ctx context.Context, input string) (string, error) {
	var req ForecastRequest
	if err := json.Unmarshal(llmutils.CleanJSON([]byte(input)), &req); err != nil {
		return "", errors.WithMessage(err, "failed to unmarshal input")
	}
	out, err := t.Run(ctx, &req)
	if err != nil {
		return "", err
	}
	return llmutils.ToJSON(out), nil
}

func (t *ForecastTool) RegisterMCP(registrator tools.McpServerRegistrator) error {
	return registrator.RegisterTool(t.Name(), t.Description(), t.RunMCP)
}

func (t *ForecastTool) RunMCP(req ForecastRequest) (*mcp.ToolResponse, error) {
	out, err := t.Run(context.Background(), &req)
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResponse(mcp.NewTextContent(llmutils.ToJSON(out))), nil
}
