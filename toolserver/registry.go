package toolserver

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/bridgekit-ai/toolbridge/pkg/metricskey"
	"github.com/cockroachdb/errors"
	"github.com/effective-security/xlog"
)

const (
	// DefaultConnectTimeout bounds the process spawn and handshake.
	DefaultConnectTimeout = 15 * time.Second
	// DefaultListTimeout bounds a tool listing.
	DefaultListTimeout = 15 * time.Second
	// DefaultCallTimeout bounds a single tool invocation.
	DefaultCallTimeout = 60 * time.Second
)

// ConnectReport summarizes a ConnectAll pass. Connected and Failed are both
// sorted by server name.
type ConnectReport struct {
	Connected []string
	Failed    map[string]error
}

// Registry owns one connection per configured server. Connections are created
// by ConnectAll and released by DisconnectAll; a failure on one server never
// affects the others.
type Registry struct {
	dialer Dialer

	connectTimeout time.Duration
	listTimeout    time.Duration
	callTimeout    time.Duration

	mu    sync.RWMutex
	conns map[string]Conn
}

// RegistryOption mutates registry construction.
type RegistryOption func(*Registry)

// WithDialer overrides the stdio dialer.
func WithDialer(d Dialer) RegistryOption {
	return func(r *Registry) {
		r.dialer = d
	}
}

// WithTimeouts overrides the per-operation deadlines. Zero values keep the
// defaults.
func WithTimeouts(connect, list, call time.Duration) RegistryOption {
	return func(r *Registry) {
		if connect > 0 {
			r.connectTimeout = connect
		}
		if list > 0 {
			r.listTimeout = list
		}
		if call > 0 {
			r.callTimeout = call
		}
	}
}

// NewRegistry creates an empty registry.
func NewRegistry(ops ...RegistryOption) *Registry {
	r := &Registry{
		dialer:         StdioDialer{},
		connectTimeout: DefaultConnectTimeout,
		listTimeout:    DefaultListTimeout,
		callTimeout:    DefaultCallTimeout,
		conns:          make(map[string]Conn),
	}
	for _, op := range ops {
		op(r)
	}
	return r
}

// ConnectAll dials every descriptor in parallel. Failed servers are recorded
// in the report and skipped; they do not abort the pass.
func (r *Registry) ConnectAll(ctx context.Context, descriptors []Descriptor) *ConnectReport {
	report := &ConnectReport{
		Failed: make(map[string]error),
	}

	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)
	for _, d := range descriptors {
		wg.Add(1)
		go func(d Descriptor) {
			defer wg.Done()

			dialCtx, cancel := context.WithTimeout(ctx, r.connectTimeout)
			defer cancel()

			conn, err := r.dialer.Dial(dialCtx, d)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				err = wrapTimeout(dialCtx, err, "connect")
				logger.ContextKV(ctx, xlog.ERROR,
					"reason", "connect_failed",
					"server", d.Name,
					"err", err.Error(),
				)
				metricskey.StatsServerConnectsFailed.IncrCounter(1, d.Name)
				report.Failed[d.Name] = err
				return
			}
			r.mu.Lock()
			r.conns[d.Name] = conn
			r.mu.Unlock()
			report.Connected = append(report.Connected, d.Name)
		}(d)
	}
	wg.Wait()

	sort.Strings(report.Connected)
	return report
}

// Has reports whether a live connection exists for the server.
func (r *Registry) Has(server string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.conns[server]
	return ok
}

// Names returns the connected server names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.conns))
	for name := range r.conns {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) conn(server string) (Conn, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	conn, ok := r.conns[server]
	if !ok {
		return nil, errors.WithMessagef(ErrUnknownServer, "%s", server)
	}
	return conn, nil
}

// ListTools returns the tools advertised by one connected server.
func (r *Registry) ListTools(ctx context.Context, server string) ([]ToolInfo, error) {
	conn, err := r.conn(server)
	if err != nil {
		return nil, err
	}

	listCtx, cancel := context.WithTimeout(ctx, r.listTimeout)
	defer cancel()

	infos, err := conn.ListTools(listCtx)
	if err != nil {
		return nil, errors.WithMessagef(ErrServerUnavailable, "%s: %s", server, err.Error())
	}
	return infos, nil
}

// Call invokes one tool on one connected server.
func (r *Registry) Call(ctx context.Context, server, tool string, args map[string]any) (*Result, error) {
	conn, err := r.conn(server)
	if err != nil {
		return nil, err
	}

	callCtx, cancel := context.WithTimeout(ctx, r.callTimeout)
	defer cancel()

	return conn.CallTool(callCtx, tool, args)
}

// DisconnectAll closes every connection, best effort, and empties the
// registry.
func (r *Registry) DisconnectAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for name, conn := range r.conns {
		if err := conn.Close(); err != nil {
			logger.KV(xlog.WARNING,
				"reason", "close_failed",
				"server", name,
				"err", err.Error(),
			)
		}
	}
	r.conns = make(map[string]Conn)
}
