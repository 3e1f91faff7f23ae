package design_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/bridgekit-ai/toolbridge/servers/design"
	"github.com/bridgekit-ai/toolbridge/tools"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) *design.Service {
	t.Helper()
	svc, err := design.NewService("testdata")
	require.NoError(t, err)
	return svc
}

func findTool(t *testing.T, svc *design.Service, name string) tools.IMCPTool {
	t.Helper()
	for _, tool := range svc.Tools() {
		if tool.Name() == name {
			return tool
		}
	}
	t.Fatalf("tool %q not found", name)
	return nil
}

func TestNewService(t *testing.T) {
	svc := newTestService(t)

	var names []string
	for _, tool := range svc.Tools() {
		names = append(names, tool.Name())
	}
	assert.Equal(t, []string{
		"get_components",
		"get_style_types",
		"get_design_tokens",
		"get_icon_list",
		"get_icon_detail",
	}, names)
}

func TestNewService_EmptyDir(t *testing.T) {
	svc, err := design.NewService(t.TempDir())
	require.NoError(t, err)

	out, err := findTool(t, svc, "get_components").Call(context.Background(), `{}`)
	require.NoError(t, err)
	assert.Equal(t, "No components are defined.", out)
}

func TestNewService_Malformed(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "icons.json"), []byte(`{broken`), 0644))

	_, err := design.NewService(dir)
	assert.ErrorContains(t, err, "failed to parse")
}

func TestComponentsTool(t *testing.T) {
	svc := newTestService(t)
	tool := findTool(t, svc, "get_components")
	ctx := context.Background()

	out, err := tool.Call(ctx, `{}`)
	require.NoError(t, err)
	assert.Contains(t, out, "## Button")
	assert.Contains(t, out, "## Stack")
	assert.Contains(t, out, "`variant` (string, required): Visual variant.")
	assert.Contains(t, out, "`disabled` (boolean, optional)")
	assert.Contains(t, out, "<Button variant=\"primary\">Save</Button>")

	out, err = tool.Call(ctx, `{"category": "layout"}`)
	require.NoError(t, err)
	assert.Contains(t, out, "## Stack")
	assert.NotContains(t, out, "## Button")

	out, err = tool.Call(ctx, `{"category": "nonexistent"}`)
	require.NoError(t, err)
	assert.Equal(t, `No components found in category "nonexistent".`, out)
}

func TestStyleTypesTool(t *testing.T) {
	svc := newTestService(t)

	out, err := findTool(t, svc, "get_style_types").Call(context.Background(), `{}`)
	require.NoError(t, err)
	assert.Contains(t, out, "## color")
	assert.Contains(t, out, "- `primary`: Brand color.")
	assert.Contains(t, out, "- `sm`")
	assert.Contains(t, out, "- `solid`: Filled background")
}

func TestDesignTokensTool(t *testing.T) {
	svc := newTestService(t)
	tool := findTool(t, svc, "get_design_tokens")
	ctx := context.Background()

	out, err := tool.Call(ctx, `{}`)
	require.NoError(t, err)
	assert.Contains(t, out, "## color")
	assert.Contains(t, out, "- `brand-500`: `#3366ff`")
	assert.Contains(t, out, "- `body`:\n  - font-size: `14px`")

	out, err = tool.Call(ctx, `{"token_type": "spacing"}`)
	require.NoError(t, err)
	assert.Contains(t, out, "- `md`: `16px`")
	assert.NotContains(t, out, "brand-500")

	out, err = tool.Call(ctx, `{"token_type": "shadow"}`)
	require.NoError(t, err)
	assert.Equal(t, `Token type "shadow" not found. Available: color, spacing, typography`, out)
}

func TestIconListTool(t *testing.T) {
	svc := newTestService(t)
	tool := findTool(t, svc, "get_icon_list")
	ctx := context.Background()

	out, err := tool.Call(ctx, `{}`)
	require.NoError(t, err)
	assert.Contains(t, out, "## action")
	assert.Contains(t, out, "## navigation")
	assert.Contains(t, out, "- `check`: Confirmation mark.")

	out, err = tool.Call(ctx, `{"category": "status"}`)
	require.NoError(t, err)
	assert.Contains(t, out, "check")
	assert.NotContains(t, out, "trash")
}

func TestIconDetailTool(t *testing.T) {
	svc := newTestService(t)
	tool := findTool(t, svc, "get_icon_detail")
	ctx := context.Background()

	out, err := tool.Call(ctx, `{"icon_name": "check"}`)
	require.NoError(t, err)
	assert.Contains(t, out, "# check")
	assert.Contains(t, out, "**Keywords**: done, success")
	assert.Contains(t, out, "## SVG")
	assert.Contains(t, out, "## Usage")

	out, err = tool.Call(ctx, `{"icon_name": "sparkles"}`)
	require.NoError(t, err)
	assert.Contains(t, out, `Icon "sparkles" not found.`)
	assert.Contains(t, out, "check")
}
