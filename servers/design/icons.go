package design

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/bridgekit-ai/toolbridge/pkg/llmutils"
	"github.com/bridgekit-ai/toolbridge/tools"
	"github.com/cockroachdb/errors"
	mcp "github.com/metoro-io/mcp-golang"
)

// IconListRequest optionally filters by category.
type IconListRequest struct {
	Category string `json:"category,omitempty" jsonschema:"description=Filter by category, for example action or navigation."`
}

// IconListTool lists available icons grouped by category.
type IconListTool struct {
	svc *Service
}

var _ tools.IMCPTool = (*IconListTool)(nil)

func (t *IconListTool) Name() string { return "get_icon_list" }

func (t *IconListTool) Description() string {
	return "List available icons, grouped by category."
}

func (t *IconListTool) Run(ctx context.Context, req *IconListRequest) (string, error) {
	icons := t.svc.icons
	if len(icons) == 0 {
		return "No icons are defined.", nil
	}
	if req.Category != "" {
		var filtered []Icon
		for _, i := range icons {
			if i.Category == req.Category {
				filtered = append(filtered, i)
			}
		}
		if len(filtered) == 0 {
			return fmt.Sprintf("No icons found in category %q.", req.Category), nil
		}
		icons = filtered
	}

	grouped := make(map[string][]Icon)
	for _, icon := range icons {
		cat := icon.Category
		if cat == "" {
			cat = "other"
		}
		grouped[cat] = append(grouped[cat], icon)
	}

	var sb strings.Builder
	sb.WriteString("# Icons\n\n")
	for _, cat := range sortedKeys(grouped) {
		fmt.Fprintf(&sb, "## %s\n", cat)
		for _, icon := range grouped[cat] {
			fmt.Fprintf(&sb, "- `%s`: %s\n", icon.Name, icon.Description)
		}
		sb.WriteString("\n")
	}
	return sb.String(), nil
}

func (t *IconListTool) Call(ctx context.Context, input string) (string, error) {
	var req IconListRequest
	if err := json.Unmarshal(llmutils.CleanJSON([]byte(input)), &req); err != nil {
		return "", errors.WithMessage(err, "failed to unmarshal input")
	}
	return t.Run(ctx, &req)
}

func (t *IconListTool) RegisterMCP(registrator tools.McpServerRegistrator) error {
	return registrator.RegisterTool(t.Name(), t.Description(), t.RunMCP)
}

func (t *IconListTool) RunMCP(req IconListRequest) (*mcp.ToolResponse, error) {
	out, err := t.Run(context.Background(), &req)
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResponse(mcp.NewTextContent(out)), nil
}

// IconDetailRequest names one icon.
type IconDetailRequest struct {
	IconName string `json:"icon_name" jsonschema:"required,description=Name of the icon."`
}

// IconDetailTool returns the full definition of one icon.
type IconDetailTool struct {
	svc *Service
}

var _ tools.IMCPTool = (*IconDetailTool)(nil)

func (t *IconDetailTool) Name() string { return "get_icon_detail" }

func (t *IconDetailTool) Description() string {
	return "Get details of one icon, including SVG data and usage."
}

func (t *IconDetailTool) Run(ctx context.Context, req *IconDetailRequest) (string, error) {
	if len(t.svc.icons) == 0 {
		return "No icons are defined.", nil
	}

	var icon *Icon
	for i := range t.svc.icons {
		if t.svc.icons[i].Name == req.IconName {
			icon = &t.svc.icons[i]
			break
		}
	}
	if icon == nil {
		var examples []string
		for i, ic := range t.svc.icons {
			if i == 10 {
				break
			}
			examples = append(examples, ic.Name)
		}
		return fmt.Sprintf("Icon %q not found. For example: %s",
			req.IconName, strings.Join(examples, ", ")), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", icon.Name)
	fmt.Fprintf(&sb, "- **Category**: %s\n", orNA(icon.Category))
	fmt.Fprintf(&sb, "- **Description**: %s\n", orNA(icon.Description))
	if len(icon.Keywords) > 0 {
		fmt.Fprintf(&sb, "- **Keywords**: %s\n", strings.Join(icon.Keywords, ", "))
	}
	if icon.SVG != "" {
		fmt.Fprintf(&sb, "\n## SVG\n```svg\n%s\n```\n", icon.SVG)
	}
	if icon.Usage != "" {
		fmt.Fprintf(&sb, "\n## Usage\n```tsx\n%s\n```\n", icon.Usage)
	}
	return sb.String(), nil
}

func (t *IconDetailTool) Call(ctx context.Context, input string) (string, error) {
	var req IconDetailRequest
	if err := json.Unmarshal(llmutils.CleanJSON([]byte(input)), &req); err != nil {
		return "", errors.WithMessage(err, "failed to unmarshal input")
	}
	return t.Run(ctx, &req)
}

func (t *IconDetailTool) RegisterMCP(registrator tools.McpServerRegistrator) error {
	return registrator.RegisterTool(t.Name(), t.Description(), t.RunMCP)
}

func (t *IconDetailTool) RunMCP(req IconDetailRequest) (*mcp.ToolResponse, error) {
	out, err := t.Run(context.Background(), &req)
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResponse(mcp.NewTextContent(out)), nil
}
