package toolserver_test

import (
	"testing"

	"github.com/bridgekit-ai/toolbridge/toolserver"
	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
)

func weatherDescriptor() toolserver.ToolDescriptor {
	return toolserver.ToolDescriptor{
		Server:    "weather",
		Name:      "get_weather",
		Qualified: "weather__get_weather",
		Params: []toolserver.ParamInfo{
			{Name: "city", Type: "string", Required: true},
			{Name: "days", Type: "int"},
			{Name: "detailed", Type: "bool"},
			{Name: "threshold", Type: "float"},
			{Name: "sources", Type: "array"},
			{Name: "filters", Type: "object"},
		},
	}
}

func TestValidateArguments(t *testing.T) {
	desc := weatherDescriptor()

	tcases := []struct {
		name string
		args map[string]any
		err  string
	}{
		{
			name: "valid full",
			args: map[string]any{
				"city":      "Tokyo",
				"days":      float64(3),
				"detailed":  true,
				"threshold": 0.5,
				"sources":   []any{"jma"},
				"filters":   map[string]any{"lang": "en"},
			},
		},
		{
			name: "valid minimal",
			args: map[string]any{"city": "Tokyo"},
		},
		{
			name: "missing required",
			args: map[string]any{"days": float64(3)},
			err:  `tool "weather__get_weather" requires parameter "city"`,
		},
		{
			name: "null required",
			args: map[string]any{"city": nil},
			err:  `tool "weather__get_weather" requires parameter "city"`,
		},
		{
			name: "unknown parameter",
			args: map[string]any{"city": "Tokyo", "country": "JP"},
			err:  `tool "weather__get_weather" has no parameter "country"`,
		},
		{
			name: "wrong type",
			args: map[string]any{"city": 42.0},
			err:  `parameter "city" of tool "weather__get_weather" expects string`,
		},
		{
			name: "fractional int",
			args: map[string]any{"city": "Tokyo", "days": 2.5},
			err:  `parameter "days" of tool "weather__get_weather" expects int`,
		},
	}

	for _, tc := range tcases {
		t.Run(tc.name, func(t *testing.T) {
			err := toolserver.ValidateArguments(desc, tc.args)
			if tc.err == "" {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, toolserver.ErrInvalidArguments))
			assert.ErrorContains(t, err, tc.err)
		})
	}
}
