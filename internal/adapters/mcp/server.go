// Package mcp exposes a tool registry over the Model Context Protocol.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/toolgate/toolgate/internal/dispatch"
	"github.com/toolgate/toolgate/pkg/tool"
)

// Server bridges the dispatcher to an MCP server. Tool listing reproduces the
// registry's registration order; every call result is a single text content
// block holding the JSON response envelope, success or failure alike.
type Server struct {
	dispatcher *dispatch.Dispatcher
	registry   *tool.Registry
	mcpServer  *server.MCPServer
}

// NewServer creates an MCP server advertising every registered tool.
func NewServer(name, version string, registry *tool.Registry, dispatcher *dispatch.Dispatcher) *Server {
	s := &Server{
		dispatcher: dispatcher,
		registry:   registry,
		mcpServer:  server.NewMCPServer(name, version),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout. Diagnostics must go to
// stderr; the protocol owns stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		slog.Info("MCP server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		slog.Info("shutdown signal received, stopping SSE server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	for _, desc := range s.registry.List() {
		raw, err := json.Marshal(desc.Args.JSONSchema())
		if err != nil {
			// Schemas are static data; a marshal failure is a programming error.
			panic(fmt.Sprintf("marshaling schema for tool %s: %v", desc.Name, err))
		}
		mcpTool := mcp.NewToolWithRawSchema(desc.Name, desc.Description, raw)
		s.mcpServer.AddTool(mcpTool, s.callHandler(desc.Name))
	}
}

// callHandler adapts one registered tool to the MCP call interface. Failures
// are reported inside the envelope, never as protocol-level errors, so hosts
// always receive the kind and suggestions.
func (s *Server) callHandler(toolName string) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		resp := s.dispatcher.Dispatch(ctx, dispatch.CallRequest{
			Tool:      toolName,
			Arguments: request.GetArguments(),
		})

		payload, err := json.Marshal(resp)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("serializing response envelope: %v", err)), nil
		}
		return mcp.NewToolResultText(string(payload)), nil
	}
}

func (s *Server) registerResources() {
	// EXPOSE: toolgate://tools
	s.mcpServer.AddResource(mcp.NewResource("toolgate://tools", "Tool Catalog",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		catalog := make([]map[string]any, 0)
		for _, desc := range s.registry.List() {
			catalog = append(catalog, map[string]any{
				"name":        desc.Name,
				"description": desc.Description,
				"credentials": desc.Credentials,
				"inputSchema": desc.Args.JSONSchema(),
			})
		}
		jsonBytes, err := json.Marshal(catalog)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal tool catalog: %w", err)
		}

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      "toolgate://tools",
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}
