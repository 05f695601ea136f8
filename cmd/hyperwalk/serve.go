package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	demo "github.com/aretw0/hyperwalk/internal/adapters/http"
	"github.com/aretw0/hyperwalk/internal/cli"
	"github.com/aretw0/hyperwalk/internal/presentation/tui"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the demo hypermedia API",
	Long: `Starts a small order API to try hyperwalk against. HAL documents are served
under / and plain JSON documents under /json. Prometheus metrics are served at /metrics.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSettings(cmd)
		if err != nil {
			return err
		}
		addr, _ := cmd.Flags().GetString("addr")

		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		mux.Handle("/", demo.NewHandler(demo.NewStore(), s.logger))

		srv := &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}
		return serve(cmd.Context(), srv, func() {
			if cli.IsTerminal(cmd.OutOrStdout()) {
				tui.PrintBanner(cmd.OutOrStdout(), s.printer.Termenv())
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Serving demo API on http://localhost%s\n", addr)
		})
	},
}

// serve runs srv until ctx is cancelled, then shuts it down gracefully.
func serve(ctx context.Context, srv *http.Server, started func()) error {
	serverErrors := make(chan error, 1)
	go func() {
		started()
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func init() {
	serveCmd.Flags().String("addr", ":8080", "Address to listen on")
	rootCmd.AddCommand(serveCmd)
}
