// Command design-server serves design system lookups over MCP on stdio.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/bridgekit-ai/toolbridge/servers/design"
	"github.com/effective-security/xlog"
	mcp "github.com/metoro-io/mcp-golang"
	"github.com/metoro-io/mcp-golang/transport/stdio"
)

var dataDir = flag.String("data", "design-data", "directory with the design system JSON files")

func main() {
	flag.Parse()
	xlog.SetFormatter(xlog.NewStringFormatter(os.Stderr))
	xlog.SetGlobalLogLevel(xlog.INFO)

	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	svc, err := design.NewService(*dataDir)
	if err != nil {
		return err
	}

	server := mcp.NewServer(stdio.NewStdioServerTransport())
	if err := svc.RegisterMCP(server); err != nil {
		return err
	}
	if err := server.Serve(); err != nil {
		return err
	}
	select {}
}
