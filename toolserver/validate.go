package toolserver

import (
	"github.com/cockroachdb/errors"
)

// ErrInvalidArguments marks arguments rejected before dispatch.
var ErrInvalidArguments = errors.New("invalid arguments")

// ValidateArguments checks planned arguments against the tool descriptor
// before anything is sent to the server. Required parameters must be present
// and non-null; scalar parameters must carry a compatible JSON type. Unknown
// parameters are rejected so a hallucinated field fails here rather than on
// the server.
func ValidateArguments(t ToolDescriptor, args map[string]any) error {
	byName := make(map[string]ParamInfo, len(t.Params))
	for _, p := range t.Params {
		byName[p.Name] = p
	}

	for name, value := range args {
		p, ok := byName[name]
		if !ok {
			return errors.WithMessagef(ErrInvalidArguments, "tool %q has no parameter %q", t.Qualified, name)
		}
		if value == nil {
			continue
		}
		if !typeMatches(p.Type, value) {
			return errors.WithMessagef(ErrInvalidArguments,
				"parameter %q of tool %q expects %s", name, t.Qualified, p.Type)
		}
	}

	for _, p := range t.Params {
		if !p.Required {
			continue
		}
		if v, ok := args[p.Name]; !ok || v == nil {
			return errors.WithMessagef(ErrInvalidArguments,
				"tool %q requires parameter %q", t.Qualified, p.Name)
		}
	}
	return nil
}

// typeMatches checks a decoded JSON value against a catalog type. Numbers
// decode as float64, so int accepts any number without a fractional part.
func typeMatches(typ string, value any) bool {
	switch typ {
	case "string":
		_, ok := value.(string)
		return ok
	case "int":
		f, ok := value.(float64)
		return ok && f == float64(int64(f))
	case "float":
		_, ok := value.(float64)
		return ok
	case "bool":
		_, ok := value.(bool)
		return ok
	case "array":
		_, ok := value.([]any)
		return ok
	case "object":
		_, ok := value.(map[string]any)
		return ok
	default:
		return true
	}
}
