package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/toolgate/toolgate"
	httpAdapter "github.com/toolgate/toolgate/internal/adapters/http"
	"github.com/toolgate/toolgate/internal/presentation/tui"
)

var serveCmd = &cobra.Command{
	Use:   "serve <vendor>",
	Short: "Start a vendor tool server over plain HTTP",
	Long: `Starts one vendor's tools as a stateless HTTP server:
GET /tools lists the capability catalog, POST /tools/{name} dispatches a
call, GET /metrics exposes Prometheus metrics.`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: toolgate.Vendors(),
	Run: func(cmd *cobra.Command, args []string) {
		vendor := args[0]

		gate, cfg, err := buildGate(cmd, vendor)
		if err != nil {
			fmt.Printf("Error initializing toolgate: %v\n", err)
			os.Exit(1)
		}
		if port, _ := cmd.Flags().GetInt("port"); cmd.Flags().Changed("port") {
			cfg.Port = port
		}

		handler := httpAdapter.NewHandler(gate.Registry, gate.Dispatcher, gate.Metrics)
		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", cfg.Port),
			Handler: handler,
		}

		serverErrors := make(chan error, 1)
		go func() {
			tui.PrintBanner(os.Stderr, vendor, toolgate.Version)
			fmt.Fprintf(os.Stderr, "Listening on %s\n", srv.Addr)
			serverErrors <- srv.ListenAndServe()
		}()

		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-serverErrors:
			fmt.Printf("Server error: %v\n", err)
			os.Exit(1)

		case sig := <-shutdown:
			fmt.Fprintf(os.Stderr, "\nShutting down... Signal: %v\n", sig)

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				srv.Close()
				fmt.Printf("Could not stop server gracefully: %v\n", err)
				os.Exit(1)
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().Int("port", 8080, "Port to listen on")
}
