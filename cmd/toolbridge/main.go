// Command toolbridge is an interactive client that routes natural language
// queries to MCP tool servers through an LLM.
package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/bridgekit-ai/toolbridge/engine"
	"github.com/bridgekit-ai/toolbridge/llmfactory"
	"github.com/bridgekit-ai/toolbridge/pkg/chat"
	"github.com/bridgekit-ai/toolbridge/store"
	"github.com/bridgekit-ai/toolbridge/toolserver"
	"github.com/cockroachdb/errors"
	"github.com/effective-security/xlog"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

var (
	serversFile string
	llmFile     string
	provider    string
	redisAddr   string
	debug       bool
)

var rootCmd = &cobra.Command{
	Use:   "toolbridge",
	Short: "Interactive natural-language client for MCP tool servers",
	Long: `toolbridge connects to the MCP servers declared in a config file,
collects their tools, and answers questions on the terminal by routing them
through an LLM: either directly or via one of the collected tools.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd.Context())
	},
}

func init() {
	rootCmd.Flags().StringVar(&serversFile, "servers", "mcp_servers.json", "MCP servers config file")
	rootCmd.Flags().StringVar(&llmFile, "llm", "llm.yaml", "LLM providers config file")
	rootCmd.Flags().StringVar(&provider, "provider", "", "LLM provider name, defaults to the first configured")
	rootCmd.Flags().StringVar(&redisAddr, "redis", "", "Redis address for persistent history, empty for in-memory")
	rootCmd.Flags().BoolVar(&debug, "debug", false, "verbose logging")
}

func main() {
	xlog.SetFormatter(xlog.NewStringFormatter(os.Stderr))
	xlog.SetGlobalLogLevel(xlog.INFO)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	if debug {
		xlog.SetGlobalLogLevel(xlog.DEBUG)
	}

	cfg, err := toolserver.LoadConfig(serversFile)
	if err != nil && !errors.Is(err, toolserver.ErrConfigMissing) {
		return err
	}
	if errors.Is(err, toolserver.ErrConfigMissing) {
		fmt.Printf("Config %s not found, starting without tool servers.\n", serversFile)
	}

	factory, err := llmfactory.Load(llmFile)
	if err != nil {
		return err
	}
	completer, err := completerFrom(factory)
	if err != nil {
		return err
	}

	registry := toolserver.NewRegistry()
	defer registry.DisconnectAll()

	report := registry.ConnectAll(ctx, cfg.Descriptors())
	for server, connErr := range report.Failed {
		fmt.Printf("Failed to connect to %s: %s\n", server, connErr)
	}
	fmt.Printf("Connected to %d of %d servers", len(report.Connected), len(cfg.Descriptors()))
	if len(report.Connected) > 0 {
		fmt.Printf(" (%s)", strings.Join(report.Connected, ", "))
	}
	fmt.Println()

	catalog, listFailed := toolserver.BuildCatalog(ctx, registry)
	for server, listErr := range listFailed {
		fmt.Printf("Failed to list tools on %s: %s\n", server, listErr)
	}
	fmt.Printf("%d tools available. Type /help for commands.\n\n", catalog.Len())

	session := engine.NewSession(messageStore())
	orch := engine.NewOrchestrator(
		engine.NewPlanner(completer),
		engine.NewDispatcher(registry, catalog),
		engine.NewInterpreter(completer),
		registry,
		catalog,
		session,
		engine.WithCallback(engine.NewPrinterCallback(os.Stdout)),
	)

	return repl(ctx, orch, os.Stdin, os.Stdout)
}

func completerFrom(factory llmfactory.Factory) (chat.Completer, error) {
	if provider != "" {
		return factory.CompleterByName(provider)
	}
	return factory.DefaultCompleter()
}

func messageStore() store.MessageStore {
	if redisAddr == "" {
		return store.NewMemoryStore()
	}
	client := redis.NewClient(&redis.Options{Addr: redisAddr})
	return store.NewRedisStore(client, "toolbridge")
}

// repl reads input on a separate goroutine so that a pending read never
// blocks context cancellation; Ctrl+C ends the session even with no input.
func repl(ctx context.Context, orch *engine.Orchestrator, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	lines := make(chan string)
	go func() {
		defer close(lines)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		fmt.Fprint(out, "> ")
		select {
		case <-ctx.Done():
			fmt.Fprintln(out, "\nGoodbye.")
			return nil
		case raw, ok := <-lines:
			if !ok {
				fmt.Fprintln(out)
				return scanner.Err()
			}
			line := strings.TrimSpace(raw)
			if line == "" {
				continue
			}

			if res := orch.HandleCommand(ctx, line); res.Handled {
				fmt.Fprintln(out, res.Output)
				if res.Quit {
					return nil
				}
				continue
			}

			fmt.Fprintln(out, orch.Process(ctx, line))
			fmt.Fprintln(out)
		}
	}
}
