package commands

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/loomkit/loom/internal/config"
	"github.com/loomkit/loom/internal/rpc"
	"github.com/loomkit/loom/internal/version"
	"github.com/loomkit/loom/internal/web/server"
)

var serveTransport string

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the component server",
		Long: `Run the component server over the selected transport.

Transports:
  stdio - newline-delimited JSON-RPC over stdin/stdout (editor/agent hosts)
  http  - HTTP server with /rpc, WebSocket bridge, assets and metrics

Examples:
  loom serve
  loom serve --transport http`,
		RunE: runServe,
	}

	cmd.Flags().StringVarP(&serveTransport, "transport", "t", "stdio", "Transport to serve on (stdio, http)")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	if serveTransport != "stdio" && serveTransport != "http" {
		return fmt.Errorf("invalid transport %q (want stdio or http)", serveTransport)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	logger, err := config.NewLogger(cfg.Log)
	if err != nil {
		return err
	}
	defer logger.Sync()

	dispatcher, err := buildAnalytics(cfg, logger)
	if err != nil {
		return err
	}
	if dispatcher != nil {
		defer func() {
			if err := dispatcher.Close(); err != nil {
				logger.Warn("close analytics dispatcher", zap.Error(err))
			}
		}()
	}

	env, err := setupWith(cfg, logger, dispatcher)
	if err != nil {
		return err
	}

	rpcServer := rpc.NewServer(env.service, dispatcher, version.Version, logger)

	if serveTransport == "stdio" {
		return rpcServer.Start(cmd.Context())
	}

	httpServer, err := server.New(server.Config{
		Addr:         cfg.Server.Addr(),
		AuthEnabled:  cfg.Server.Auth.Enabled,
		AuthSecret:   cfg.Server.Auth.Secret,
		APIKeyHashes: cfg.Server.Auth.APIKeyHashes,
	}, rpcServer, env.service.Store(), logger)
	if err != nil {
		return err
	}

	infoColor := color.New(color.FgCyan)
	infoColor.Fprintf(cmd.OutOrStdout(), "Serving on http://%s\n", cfg.Server.Addr())
	return httpServer.Run(context.Background())
}
