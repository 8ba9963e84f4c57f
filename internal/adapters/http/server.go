// Package http exposes the tool registry over plain HTTP, mirroring the MCP
// surface for hosts that speak REST instead of the protocol.
package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/toolgate/toolgate/internal/dispatch"
	"github.com/toolgate/toolgate/internal/observability"
	"github.com/toolgate/toolgate/pkg/tool"
)

// Server routes tool listing and call requests to the dispatcher.
type Server struct {
	Registry   *tool.Registry
	Dispatcher *dispatch.Dispatcher
	Metrics    *observability.Metrics
}

// toolInfo is one entry of the GET /tools listing.
type toolInfo struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Credentials []string       `json:"credentials,omitempty"`
	InputSchema map[string]any `json:"inputSchema"`
}

// NewHandler creates the HTTP handler. A well-formed tool call always gets
// status 200 with the envelope carrying success or failure; non-200 statuses
// are reserved for unroutable paths and malformed request bodies.
func NewHandler(registry *tool.Registry, dispatcher *dispatch.Dispatcher, metrics *observability.Metrics) http.Handler {
	s := &Server{
		Registry:   registry,
		Dispatcher: dispatcher,
		Metrics:    metrics,
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.health)
	r.Get("/tools", s.listTools)
	r.Post("/tools/{name}", s.callTool)
	if metrics != nil {
		r.Method(http.MethodGet, "/metrics", metrics.Handler())
	}
	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// listTools reproduces the registry's registration order.
func (s *Server) listTools(w http.ResponseWriter, r *http.Request) {
	descriptors := s.Registry.List()
	infos := make([]toolInfo, 0, len(descriptors))
	for _, desc := range descriptors {
		infos = append(infos, toolInfo{
			Name:        desc.Name,
			Description: desc.Description,
			Credentials: desc.Credentials,
			InputSchema: desc.Args.JSONSchema(),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"tools": infos})
}

func (s *Server) callTool(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	args := map[string]any{}
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&args); err != nil {
			http.Error(w, "invalid JSON request body", http.StatusBadRequest)
			slog.Warn("tool call: invalid request body", "tool", name, "error", err)
			return
		}
	}

	resp := s.Dispatcher.Dispatch(r.Context(), dispatch.CallRequest{
		Tool:      name,
		Arguments: args,
	})
	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("writing response", "error", err)
	}
}
