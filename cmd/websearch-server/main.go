// Command websearch-server serves Tavily web search over MCP on stdio.
package main

import (
	"fmt"
	"os"

	"github.com/bridgekit-ai/toolbridge/tools/websearch"
	"github.com/effective-security/xlog"
	mcp "github.com/metoro-io/mcp-golang"
	"github.com/metoro-io/mcp-golang/transport/stdio"
)

func main() {
	xlog.SetFormatter(xlog.NewStringFormatter(os.Stderr))
	xlog.SetGlobalLogLevel(xlog.INFO)

	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	tool, err := websearch.New()
	if err != nil {
		return err
	}

	server := mcp.NewServer(stdio.NewStdioServerTransport())
	if err := tool.RegisterMCP(server); err != nil {
		return err
	}
	if err := server.Serve(); err != nil {
		return err
	}
	select {}
}
