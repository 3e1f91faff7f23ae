package toolserver

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"os/exec"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/xlog"
	mcpclient "github.com/metoro-io/mcp-golang"
	"github.com/metoro-io/mcp-golang/transport/stdio"
)

var logger = xlog.NewPackageLogger("github.com/bridgekit-ai/toolbridge", "toolserver")

// ToolInfo describes a single tool as advertised by a server.
type ToolInfo struct {
	Name        string
	Description string
	InputSchema json.RawMessage
}

// Conn is a live session with one tool server.
type Conn interface {
	// ListTools returns the tools the server advertises.
	ListTools(ctx context.Context) ([]ToolInfo, error)
	// CallTool invokes a tool by its server-local name.
	CallTool(ctx context.Context, name string, args map[string]any) (*Result, error)
	// Close tears the session down. It is safe to call more than once.
	Close() error
}

// Dialer establishes a session with a tool server from its descriptor.
type Dialer interface {
	Dial(ctx context.Context, d Descriptor) (Conn, error)
}

// StdioDialer launches the server as a child process and speaks MCP over its
// stdin and stdout pipes.
type StdioDialer struct{}

// Dial starts the child process and completes the protocol handshake. The
// process is killed if any setup step fails.
func (StdioDialer) Dial(ctx context.Context, d Descriptor) (Conn, error) {
	cmd := exec.Command(d.Command, d.Args...)
	cmd.Env = os.Environ()
	for k, v := range d.Env {
		cmd.Env = append(cmd.Env, k+"="+v)
	}
	cmd.Stderr = os.Stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, errors.WithMessagef(err, "failed to open stdin for %q", d.Name)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, errors.WithMessagef(err, "failed to open stdout for %q", d.Name)
	}
	if err := cmd.Start(); err != nil {
		return nil, errors.WithMessagef(err, "failed to start server %q", d.Name)
	}

	client := mcpclient.NewClient(stdio.NewStdioServerTransportWithIO(stdout, stdin))
	if _, err := client.Initialize(ctx); err != nil {
		_ = stdin.Close()
		_ = cmd.Process.Kill()
		_ = cmd.Wait()
		return nil, errors.WithMessagef(err, "failed to initialize server %q", d.Name)
	}

	logger.ContextKV(ctx, xlog.DEBUG,
		"status", "connected",
		"server", d.Name,
		"command", d.Command,
	)
	return &stdioConn{
		name:   d.Name,
		client: client,
		cmd:    cmd,
		stdin:  stdin,
	}, nil
}

type stdioConn struct {
	name   string
	client *mcpclient.Client
	cmd    *exec.Cmd
	stdin  io.WriteCloser

	mu     sync.Mutex
	closed bool
}

func (c *stdioConn) ListTools(ctx context.Context) ([]ToolInfo, error) {
	var (
		infos  []ToolInfo
		cursor *string
	)
	for {
		resp, err := c.client.ListTools(ctx, cursor)
		if err != nil {
			return nil, wrapTimeout(ctx, errors.WithMessagef(err, "failed to list tools on %q", c.name), "list")
		}
		for _, t := range resp.Tools {
			info := ToolInfo{Name: t.Name}
			if t.Description != nil {
				info.Description = *t.Description
			}
			if t.InputSchema != nil {
				bs, err := json.Marshal(t.InputSchema)
				if err != nil {
					return nil, errors.WithMessagef(err, "invalid input schema for tool %q on %q", t.Name, c.name)
				}
				info.InputSchema = bs
			}
			infos = append(infos, info)
		}
		if resp.NextCursor == nil {
			break
		}
		cursor = resp.NextCursor
	}
	return infos, nil
}

func (c *stdioConn) CallTool(ctx context.Context, name string, args map[string]any) (*Result, error) {
	resp, err := c.client.CallTool(ctx, name, args)
	if err != nil {
		return nil, wrapTimeout(ctx, errors.WithMessagef(err, "tool %q failed on %q", name, c.name), "call")
	}
	return newResult(resp), nil
}

func (c *stdioConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true

	_ = c.stdin.Close()
	if c.cmd.Process != nil {
		_ = c.cmd.Process.Kill()
	}
	_ = c.cmd.Wait()
	logger.KV(xlog.DEBUG, "status", "disconnected", "server", c.name)
	return nil
}
