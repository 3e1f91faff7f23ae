// Command apiserver exposes the query engine and prompt registry over HTTP.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/bridgekit-ai/toolbridge/apiserver"
	"github.com/bridgekit-ai/toolbridge/llmfactory"
	"github.com/bridgekit-ai/toolbridge/pkg/chat"
	"github.com/bridgekit-ai/toolbridge/pkg/prompts"
	"github.com/bridgekit-ai/toolbridge/store"
	"github.com/bridgekit-ai/toolbridge/toolserver"
	"github.com/cockroachdb/errors"
	"github.com/effective-security/xlog"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

var logger = xlog.NewPackageLogger("github.com/bridgekit-ai/toolbridge", "apiserver-cli")

var (
	listenAddr  string
	serversFile string
	llmFile     string
	provider    string
	promptsFile string
	redisAddr   string
	debug       bool
)

var rootCmd = &cobra.Command{
	Use:          "apiserver",
	Short:        "HTTP front end for the toolbridge engine",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd.Context())
	},
}

func init() {
	rootCmd.Flags().StringVar(&listenAddr, "listen", ":8080", "listen address")
	rootCmd.Flags().StringVar(&serversFile, "servers", "mcp_servers.json", "MCP servers config file")
	rootCmd.Flags().StringVar(&llmFile, "llm", "llm.yaml", "LLM providers config file")
	rootCmd.Flags().StringVar(&provider, "provider", "", "LLM provider name, defaults to the first configured")
	rootCmd.Flags().StringVar(&promptsFile, "prompts", "", "optional prompt templates JSON file")
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
		logger.KV(xlog.WARNING, "reason", "config_missing", "path", serversFile)
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
		logger.KV(xlog.ERROR, "server", server, "err", connErr.Error())
	}
	logger.KV(xlog.INFO,
		"connected", len(report.Connected),
		"configured", len(cfg.Descriptors()),
		"servers", strings.Join(report.Connected, ","),
	)

	catalog, listFailed := toolserver.BuildCatalog(ctx, registry)
	for server, listErr := range listFailed {
		logger.KV(xlog.ERROR, "server", server, "err", listErr.Error())
	}
	logger.KV(xlog.INFO, "tools", catalog.Len())

	manager := prompts.NewManager()
	if promptsFile != "" {
		if err := manager.LoadFile(promptsFile); err != nil {
			return err
		}
	}

	srv := apiserver.New(apiserver.Deps{
		Registry:  registry,
		Catalog:   catalog,
		Prompts:   manager,
		Completer: completer,
		Messages:  messageStore(),
	})

	httpSrv := &http.Server{
		Addr:              listenAddr,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.KV(xlog.INFO, "listen", listenAddr)
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		return errors.WithMessage(err, "server shutdown")
	}
	logger.KV(xlog.INFO, "status", "stopped")
	return nil
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
