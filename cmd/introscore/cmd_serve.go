package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/spboyer/introscore/internal/webapi"
	"github.com/spboyer/introscore/internal/webserver"
	"github.com/spf13/cobra"
)

func newServeCommand() *cobra.Command {
	var (
		host           string
		port           int
		allowRemote    bool
		allowedOrigins []string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP scoring API",
		Long: `Start the HTTP scoring API.

Endpoints:
  POST /api/score    Score {"transcript": "...", "duration_seconds": 60}
  GET  /api/rubric   List the criteria and their maximum points
  GET  /api/health   Health check
  GET  /metrics      Prometheus metrics

The server binds to loopback by default. Use --allow-remote to bind to other
interfaces. Blank transcripts are rejected with 400; an unavailable semantic or
sentiment backend yields 503 with "retryable": true.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadProjectConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("host") {
				cfg.Server.Host = host
			}
			if cmd.Flags().Changed("port") {
				cfg.Server.Port = port
			}
			if cmd.Flags().Changed("allowed-origin") {
				cfg.Server.AllowedOrigins = allowedOrigins
			}

			logger := slog.Default()
			bindHost := resolveHost(cfg.Server.Host, allowRemote, logger)

			s, err := buildScorer(cfg)
			if err != nil {
				return err
			}

			handlers := webapi.NewHandlers(s.scorer, logger)
			srv, err := webserver.New(webserver.Config{
				Host:    bindHost,
				Port:    cfg.Server.Port,
				Handler: webapi.NewRouter(handlers, cfg.Server.AllowedOrigins),
				Logger:  logger,
			})
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmdContext(cmd), os.Interrupt, syscall.SIGTERM)
			defer stop()

			fmt.Fprintf(cmd.ErrOrStderr(), "introscore API: http://%s\n", srv.Addr())
			return srv.ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVar(&host, "host", "", "Host to bind (default from config, 127.0.0.1)")
	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to listen on (default from config, 8080)")
	cmd.Flags().BoolVar(&allowRemote, "allow-remote", false,
		"Allow binding to non-loopback addresses (WARNING: exposes the API to the network with no authentication)")
	cmd.Flags().StringArrayVar(&allowedOrigins, "allowed-origin", nil, "Origin allowed by CORS (can be repeated)")

	return cmd
}

func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// resolveHost keeps the server on loopback unless --allow-remote is set.
func resolveHost(host string, allowRemote bool, logger *slog.Logger) string {
	if allowRemote {
		logger.Warn("HTTP server binding beyond loopback, no authentication is provided", "host", host)
		return host
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		return "127.0.0.1"
	}
	if ip := net.ParseIP(host); ip != nil && !ip.IsLoopback() {
		logger.Info("Ignoring non-loopback host without --allow-remote", "host", host)
		return "127.0.0.1"
	}
	return host
}
