// Package tools defines the interfaces a tool implements to be served over
// MCP, plus helpers shared by the bundled servers.
package tools

import (
	"context"

	"github.com/bridgekit-ai/toolbridge/pkg/llmutils"
	"github.com/effective-security/xlog"
)

var logger = xlog.NewPackageLogger("github.com/bridgekit-ai/toolbridge", "tools")

// McpServerRegistrator is the subset of the MCP server used to expose tools.
type McpServerRegistrator interface {
	RegisterTool(name string, description string, handler any) error
}

// ITool is a single callable capability.
type ITool interface {
	// Name returns the name of the tool.
	Name() string
	// Description returns the description of the tool, to be used in the
	// prompt. Should not exceed LLM model limit.
	Description() string

	// Call executes the tool with a JSON input and returns the result.
	Call(context.Context, string) (string, error)
}

// Tool is a typed tool.
type Tool[I any, O any] interface {
	ITool
	Run(context.Context, *I) (*O, error)
}

// IMCPTool extends ITool with registration on an MCP server.
type IMCPTool interface {
	ITool
	RegisterMCP(registrator McpServerRegistrator) error
}

type toolDescription struct {
	Name        string `json:"Name"`
	Description string `json:"Description"`
}

type toolsDescription struct {
	Tools []toolDescription `json:"Tools"`
}

// GetDescriptions renders a JSON summary of the given tools.
func GetDescriptions(list ...ITool) string {
	var d toolsDescription
	for _, tool := range list {
		d.Tools = append(d.Tools, toolDescription{
			Name:        tool.Name(),
			Description: tool.Description(),
		})
	}
	return llmutils.BackticksJSON(llmutils.ToJSONIndent(d))
}

// RegisterAll registers every tool on the server, stopping at the first
// failure.
func RegisterAll(registrator McpServerRegistrator, list ...IMCPTool) error {
	described := make([]ITool, 0, len(list))
	for _, tool := range list {
		if err := tool.RegisterMCP(registrator); err != nil {
			return err
		}
		described = append(described, tool)
	}
	logger.KV(xlog.DEBUG, "registered", len(described), "tools", GetDescriptions(described...))
	return nil
}
