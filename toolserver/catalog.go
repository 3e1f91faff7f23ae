package toolserver

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/effective-security/xlog"
	"github.com/invopop/jsonschema"
)

// QualifiedSeparator joins a server name and a tool name into the identifier
// the planner emits.
const QualifiedSeparator = "__"

// ParamInfo is one input parameter of a tool, in the order the server
// declared it.
type ParamInfo struct {
	Name        string
	Type        string
	Description string
	Required    bool
}

// ToolDescriptor is the catalog view of one tool on one server.
type ToolDescriptor struct {
	Server      string
	Name        string
	Qualified   string
	Description string
	Params      []ParamInfo
}

// Catalog is an immutable snapshot of every tool on every connected server.
type Catalog struct {
	tools   []ToolDescriptor
	byQName map[string]int
}

// SplitQualified breaks server__tool into its parts. The tool name keeps any
// further separators it contains.
func SplitQualified(qualified string) (server, tool string, ok bool) {
	server, tool, ok = strings.Cut(qualified, QualifiedSeparator)
	if !ok || server == "" || tool == "" {
		return "", "", false
	}
	return server, tool, true
}

// BuildCatalog lists every connected server and folds the results into a
// catalog sorted by qualified name. A listing failure on one server leaves a
// gap, not an error; the failed servers are returned for reporting.
func BuildCatalog(ctx context.Context, reg *Registry) (*Catalog, map[string]error) {
	failed := make(map[string]error)
	var tools []ToolDescriptor

	for _, server := range reg.Names() {
		infos, err := reg.ListTools(ctx, server)
		if err != nil {
			logger.ContextKV(ctx, xlog.ERROR,
				"reason", "list_failed",
				"server", server,
				"err", err.Error(),
			)
			failed[server] = err
			continue
		}
		for _, info := range infos {
			tools = append(tools, ToolDescriptor{
				Server:      server,
				Name:        info.Name,
				Qualified:   server + QualifiedSeparator + info.Name,
				Description: info.Description,
				Params:      parseParams(info.InputSchema),
			})
		}
	}

	sort.Slice(tools, func(i, j int) bool {
		return tools[i].Qualified < tools[j].Qualified
	})
	byQName := make(map[string]int, len(tools))
	for i, t := range tools {
		byQName[t.Qualified] = i
	}
	return &Catalog{tools: tools, byQName: byQName}, failed
}

// Tools returns the descriptors sorted by qualified name.
func (c *Catalog) Tools() []ToolDescriptor {
	return c.tools
}

// Len returns the number of tools in the catalog.
func (c *Catalog) Len() int {
	return len(c.tools)
}

// Find looks a tool up by its qualified name.
func (c *Catalog) Find(qualified string) (ToolDescriptor, bool) {
	i, ok := c.byQName[qualified]
	if !ok {
		return ToolDescriptor{}, false
	}
	return c.tools[i], true
}

// Servers returns the distinct server names present in the catalog, sorted.
func (c *Catalog) Servers() []string {
	seen := make(map[string]bool)
	var names []string
	for _, t := range c.tools {
		if !seen[t.Server] {
			seen[t.Server] = true
			names = append(names, t.Server)
		}
	}
	sort.Strings(names)
	return names
}

// DescribeForPrompt renders the catalog as the tool list section of a
// planning prompt. The output is byte-identical for equal catalogs.
func (c *Catalog) DescribeForPrompt() string {
	var sb strings.Builder
	for _, t := range c.tools {
		fmt.Fprintf(&sb, "- %s: %s\n", t.Qualified, t.Description)
		if len(t.Params) == 0 {
			sb.WriteString("  parameters: none\n")
			continue
		}
		sb.WriteString("  parameters:\n")
		for _, p := range t.Params {
			req := "optional"
			if p.Required {
				req = "required"
			}
			if p.Description != "" {
				fmt.Fprintf(&sb, "    - %s (%s, %s): %s\n", p.Name, p.Type, req, p.Description)
			} else {
				fmt.Fprintf(&sb, "    - %s (%s, %s)\n", p.Name, p.Type, req)
			}
		}
	}
	return sb.String()
}

// parseParams extracts the parameter list from a tool input schema,
// preserving the property order the server declared. A schema that cannot be
// parsed yields an empty parameter list.
func parseParams(raw json.RawMessage) []ParamInfo {
	if len(raw) == 0 {
		return nil
	}
	var schema jsonschema.Schema
	if err := json.Unmarshal(raw, &schema); err != nil {
		logger.KV(xlog.WARNING, "reason", "unparsable_schema", "err", err.Error())
		return nil
	}
	if schema.Properties == nil {
		return nil
	}

	required := make(map[string]bool, len(schema.Required))
	for _, name := range schema.Required {
		required[name] = true
	}

	var params []ParamInfo
	for pair := schema.Properties.Oldest(); pair != nil; pair = pair.Next() {
		prop := pair.Value
		params = append(params, ParamInfo{
			Name:        pair.Key,
			Type:        mapSchemaType(prop),
			Description: prop.Description,
			Required:    required[pair.Key],
		})
	}
	return params
}

// mapSchemaType folds a JSON Schema type into the small vocabulary the
// planner prompt uses. Unknown and missing types degrade to string.
func mapSchemaType(s *jsonschema.Schema) string {
	if s == nil {
		return "string"
	}
	switch s.Type {
	case "string":
		return "string"
	case "integer":
		return "int"
	case "number":
		return "float"
	case "boolean":
		return "bool"
	case "array":
		return "array"
	case "object":
		return "object"
	default:
		return "string"
	}
}
