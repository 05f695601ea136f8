package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/aretw0/hyperwalk"
	mcpAdapter "github.com/aretw0/hyperwalk/internal/adapters/mcp"
	"github.com/aretw0/hyperwalk/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start an MCP server exposing traversals as tools",
	Long: `Starts a Model Context Protocol server on stdin/stdout with the tools
'traverse' and 'describe'. Headers, credentials and timeouts from the
configuration apply to every traversal.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSettings(cmd)
		if err != nil {
			return err
		}

		metrics, err := observability.NewMetrics(prometheus.DefaultRegisterer)
		if err != nil {
			return err
		}
		opts := []hyperwalk.Option{hyperwalk.WithLifecycleHooks(metrics.Hooks())}
		if topts := s.cfg.TransportOptions(); len(topts) > 0 {
			opts = append(opts, hyperwalk.WithTransportOptions(topts...))
		}

		if addr, _ := cmd.Flags().GetString("metrics-addr"); addr != "" {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
			go func() {
				if err := serve(cmd.Context(), srv, func() {}); err != nil {
					s.logger.Error("metrics server failed", "error", err)
				}
			}()
		}

		s.logger.Debug("starting mcp server", "version", hyperwalk.Version)
		if err := mcpAdapter.NewServer(s.logger, opts...).ServeStdio(); err != nil {
			return fmt.Errorf("mcp server: %w", err)
		}
		return nil
	},
}

func init() {
	mcpCmd.Flags().String("metrics-addr", "", "Serve Prometheus metrics on this address (e.g. :9090)")
	rootCmd.AddCommand(mcpCmd)
}
