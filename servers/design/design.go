// Package design is an MCP server answering questions about a design
// system: components, style types, design tokens and icons, all loaded from
// JSON files in a data directory.
package design

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bridgekit-ai/toolbridge/pkg/llmutils"
	"github.com/bridgekit-ai/toolbridge/tools"
	"github.com/cockroachdb/errors"
	"github.com/effective-security/xlog"
	mcp "github.com/metoro-io/mcp-golang"
)

var logger = xlog.NewPackageLogger("github.com/bridgekit-ai/toolbridge", "design")

// ComponentProp is one prop of a component.
type ComponentProp struct {
	Name        string `json:"name"`
	Type        string `json:"type,omitempty"`
	Description string `json:"description,omitempty"`
	Required    bool   `json:"required,omitempty"`
}

// Component is one UI component of the design system.
type Component struct {
	Name        string          `json:"name"`
	Category    string          `json:"category,omitempty"`
	Description string          `json:"description,omitempty"`
	Props       []ComponentProp `json:"props,omitempty"`
	Example     string          `json:"example,omitempty"`
}

// Icon is one icon of the design system.
type Icon struct {
	Name        string   `json:"name"`
	Category    string   `json:"category,omitempty"`
	Description string   `json:"description,omitempty"`
	Keywords    []string `json:"keywords,omitempty"`
	SVG         string   `json:"svg,omitempty"`
	Usage       string   `json:"usage,omitempty"`
}

// Service serves design system lookups from a data directory holding
// components.json, style-types.json, design-tokens.json and icons.json.
type Service struct {
	components []Component
	styleTypes map[string]any
	tokens     map[string]map[string]any
	icons      []Icon
}

// NewService loads the data directory. Missing files leave the matching
// section empty; malformed files are an error.
func NewService(dataDir string) (*Service, error) {
	s := &Service{
		styleTypes: map[string]any{},
		tokens:     map[string]map[string]any{},
	}
	if err := loadJSON(filepath.Join(dataDir, "components.json"), &s.components); err != nil {
		return nil, err
	}
	if err := loadJSON(filepath.Join(dataDir, "style-types.json"), &s.styleTypes); err != nil {
		return nil, err
	}
	if err := loadJSON(filepath.Join(dataDir, "design-tokens.json"), &s.tokens); err != nil {
		return nil, err
	}
	if err := loadJSON(filepath.Join(dataDir, "icons.json"), &s.icons); err != nil {
		return nil, err
	}
	logger.KV(xlog.INFO,
		"status", "loaded",
		"dir", dataDir,
		"components", len(s.components),
		"icons", len(s.icons),
	)
	return s, nil
}

func loadJSON(path string, out any) error {
	bs, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.WithMessagef(err, "failed to read %q", path)
	}
	if err := json.Unmarshal(bs, out); err != nil {
		return errors.WithMessagef(err, "failed to parse %q", path)
	}
	return nil
}

// Tools returns every tool of the service.
func (s *Service) Tools() []tools.IMCPTool {
	return []tools.IMCPTool{
		&ComponentsTool{svc: s},
		&StyleTypesTool{svc: s},
		&DesignTokensTool{svc: s},
		&IconListTool{svc: s},
		&IconDetailTool{svc: s},
	}
}

// RegisterMCP registers every tool on the server.
func (s *Service) RegisterMCP(registrator tools.McpServerRegistrator) error {
	return tools.RegisterAll(registrator, s.Tools()...)
}

// ComponentsRequest optionally filters by category.
type ComponentsRequest struct {
	Category string `json:"category,omitempty" jsonschema:"description=Filter by category, for example form or layout."`
}

// ComponentsTool lists the components of the design system.
type ComponentsTool struct {
	svc *Service
}

var _ tools.IMCPTool = (*ComponentsTool)(nil)

func (t *ComponentsTool) Name() string { return "get_components" }

func (t *ComponentsTool) Description() string {
	return "List design system components with their props and usage examples."
}

func (t *ComponentsTool) Run(ctx context.Context, req *ComponentsRequest) (string, error) {
	components := t.svc.components
	if len(components) == 0 {
		return "No components are defined.", nil
	}
	if req.Category != "" {
		var filtered []Component
		for _, c := range components {
			if c.Category == req.Category {
				filtered = append(filtered, c)
			}
		}
		if len(filtered) == 0 {
			return fmt.Sprintf("No components found in category %q.", req.Category), nil
		}
		components = filtered
	}

	var sb strings.Builder
	sb.WriteString("# Components\n\n")
	for _, c := range components {
		fmt.Fprintf(&sb, "## %s\n", c.Name)
		fmt.Fprintf(&sb, "- **Category**: %s\n", orNA(c.Category))
		fmt.Fprintf(&sb, "- **Description**: %s\n", orNA(c.Description))
		if len(c.Props) > 0 {
			sb.WriteString("- **Props**:\n")
			for _, p := range c.Props {
				req := "optional"
				if p.Required {
					req = "required"
				}
				typ := p.Type
				if typ == "" {
					typ = "any"
				}
				fmt.Fprintf(&sb, "  - `%s` (%s, %s): %s\n", p.Name, typ, req, p.Description)
			}
		}
		if c.Example != "" {
			fmt.Fprintf(&sb, "- **Example**:\n```tsx\n%s\n```\n", c.Example)
		}
		sb.WriteString("\n")
	}
	return sb.String(), nil
}

func (t *ComponentsTool) Call(ctx context.Context, input string) (string, error) {
	var req ComponentsRequest
	if err := json.Unmarshal(llmutils.CleanJSON([]byte(input)), &req); err != nil {
		return "", errors.WithMessage(err, "failed to unmarshal input")
	}
	return t.Run(ctx, &req)
}

func (t *ComponentsTool) RegisterMCP(registrator tools.McpServerRegistrator) error {
	return registrator.RegisterTool(t.Name(), t.Description(), t.RunMCP)
}

func (t *ComponentsTool) RunMCP(req ComponentsRequest) (*mcp.ToolResponse, error) {
	out, err := t.Run(context.Background(), &req)
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResponse(mcp.NewTextContent(out)), nil
}

// StyleTypesRequest has no parameters.
type StyleTypesRequest struct{}

// StyleTypesTool lists the style types available in the design system.
type StyleTypesTool struct {
	svc *Service
}

var _ tools.IMCPTool = (*StyleTypesTool)(nil)

func (t *StyleTypesTool) Name() string { return "get_style_types" }

func (t *StyleTypesTool) Description() string {
	return "List available style types such as colors, sizes and variants."
}

func (t *StyleTypesTool) Run(ctx context.Context, _ *StyleTypesRequest) (string, error) {
	if len(t.svc.styleTypes) == 0 {
		return "No style types are defined.", nil
	}

	var sb strings.Builder
	sb.WriteString("# Style Types\n\n")
	for _, styleType := range sortedKeys(t.svc.styleTypes) {
		fmt.Fprintf(&sb, "## %s\n", styleType)
		switch values := t.svc.styleTypes[styleType].(type) {
		case []any:
			for _, v := range values {
				if m, ok := v.(map[string]any); ok {
					fmt.Fprintf(&sb, "- `%v`: %v\n", m["name"], m["description"])
				} else {
					fmt.Fprintf(&sb, "- `%v`\n", v)
				}
			}
		case map[string]any:
			for _, k := range sortedKeys(values) {
				fmt.Fprintf(&sb, "- `%s`: %v\n", k, values[k])
			}
		}
		sb.WriteString("\n")
	}
	return sb.String(), nil
}

func (t *StyleTypesTool) Call(ctx context.Context, input string) (string, error) {
	return t.Run(ctx, &StyleTypesRequest{})
}

func (t *StyleTypesTool) RegisterMCP(registrator tools.McpServerRegistrator) error {
	return registrator.RegisterTool(t.Name(), t.Description(), t.RunMCP)
}

func (t *StyleTypesTool) RunMCP(req StyleTypesRequest) (*mcp.ToolResponse, error) {
	out, err := t.Run(context.Background(), &req)
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResponse(mcp.NewTextContent(out)), nil
}

// DesignTokensRequest optionally narrows to one token type.
type DesignTokensRequest struct {
	TokenType string `json:"token_type,omitempty" jsonschema:"description=Token type, for example color or spacing."`
}

// DesignTokensTool lists design token values.
type DesignTokensTool struct {
	svc *Service
}

var _ tools.IMCPTool = (*DesignTokensTool)(nil)

func (t *DesignTokensTool) Name() string { return "get_design_tokens" }

func (t *DesignTokensTool) Description() string {
	return "Get design token values such as colors, spacing and typography."
}

func (t *DesignTokensTool) Run(ctx context.Context, req *DesignTokensRequest) (string, error) {
	tokens := t.svc.tokens
	if len(tokens) == 0 {
		return "No design tokens are defined.", nil
	}
	if req.TokenType != "" {
		values, ok := tokens[req.TokenType]
		if !ok {
			return fmt.Sprintf("Token type %q not found. Available: %s",
				req.TokenType, strings.Join(sortedKeys(tokens), ", ")), nil
		}
		tokens = map[string]map[string]any{req.TokenType: values}
	}

	var sb strings.Builder
	sb.WriteString("# Design Tokens\n\n")
	for _, category := range sortedKeys(tokens) {
		fmt.Fprintf(&sb, "## %s\n", category)
		values := tokens[category]
		for _, name := range sortedKeys(values) {
			switch v := values[name].(type) {
			case map[string]any:
				fmt.Fprintf(&sb, "- `%s`:\n", name)
				for _, k := range sortedKeys(v) {
					fmt.Fprintf(&sb, "  - %s: `%v`\n", k, v[k])
				}
			default:
				fmt.Fprintf(&sb, "- `%s`: `%v`\n", name, v)
			}
		}
		sb.WriteString("\n")
	}
	return sb.String(), nil
}

func (t *DesignTokensTool) Call(ctx context.Context, input string) (string, error) {
	var req DesignTokensRequest
	if err := json.Unmarshal(llmutils.CleanJSON([]byte(input)), &req); err != nil {
		return "", errors.WithMessage(err, "failed to unmarshal input")
	}
	return t.Run(ctx, &req)
}

func (t *DesignTokensTool) RegisterMCP(registrator tools.McpServerRegistrator) error {
	return registrator.RegisterTool(t.Name(), t.Description(), t.RunMCP)
}

func (t *DesignTokensTool) RunMCP(req DesignTokensRequest) (*mcp.ToolResponse, error) {
	out, err := t.Run(context.Background(), &req)
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResponse(mcp.NewTextContent(out)), nil
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
