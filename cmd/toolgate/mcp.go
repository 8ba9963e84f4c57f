package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/toolgate/toolgate"
	"github.com/toolgate/toolgate/internal/adapters/mcp"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp <vendor>",
	Short: "Run a vendor tool server over the Model Context Protocol",
	Long: `Starts one vendor's tools as an MCP server.

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local host integration.
- sse: Uses Server-Sent Events over HTTP. Ideal for remote hosts or debuggers.`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: toolgate.Vendors(),
	Run: func(cmd *cobra.Command, args []string) {
		vendor := args[0]
		transport, _ := cmd.Flags().GetString("transport")
		port, _ := cmd.Flags().GetInt("port")

		gate, cfg, err := buildGate(cmd, vendor)
		if err != nil {
			log.Fatalf("Error initializing toolgate: %v", err)
		}
		if cmd.Flags().Changed("port") {
			cfg.Port = port
		}

		srv := mcp.NewServer("toolgate-"+vendor, toolgate.Version, gate.Registry, gate.Dispatcher)

		switch transport {
		case "stdio":
			// Logs must not corrupt JSON-RPC on Stdout.
			log.SetOutput(os.Stderr)
			slog.Info("starting MCP server (stdio)", "vendor", vendor)
			if err := srv.ServeStdio(); err != nil {
				slog.Error("MCP server execution failed", "err", err)
				os.Exit(1)
			}
		case "sse":
			slog.Info("starting MCP server (SSE)", "vendor", vendor, "port", cfg.Port)

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := srv.ServeSSE(ctx, cfg.Port); err != nil {
				if err != http.ErrServerClosed {
					slog.Error("MCP server execution failed", "err", err)
					os.Exit(1)
				}
			}
			slog.Info("MCP server stopped gracefully")
		default:
			log.Fatalf("Unknown transport: %s. Supported: stdio, sse", transport)
		}
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)

	mcpCmd.Flags().String("transport", "stdio", "Transport protocol to use: 'stdio' or 'sse'")
	mcpCmd.Flags().Int("port", 8080, "Port to listen on (only for SSE)")
}
