package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toolgate/toolgate/internal/dispatch"
	"github.com/toolgate/toolgate/internal/observability"
	"github.com/toolgate/toolgate/pkg/credentials"
	"github.com/toolgate/toolgate/pkg/schema"
	"github.com/toolgate/toolgate/pkg/tool"
)

func newHandler(t *testing.T) http.Handler {
	t.Helper()
	registry := tool.NewRegistry()
	registry.MustRegister(tool.Descriptor{
		Name:        "greet",
		Description: "Greets a person by name.",
		Args: schema.Object{Fields: schema.Fields{
			"name": {Type: schema.String(), Required: true},
		}},
		Handler: func(ctx context.Context, inv tool.Invocation) (any, error) {
			return map[string]any{"greeting": "hello " + inv.Args["name"].(string)}, nil
		},
	})
	dispatcher := dispatch.New(registry, credentials.NewResolver(nil))
	return NewHandler(registry, dispatcher, observability.New("test"))
}

func TestListTools(t *testing.T) {
	rec := httptest.NewRecorder()
	newHandler(t).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/tools", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Tools []struct {
			Name        string         `json:"name"`
			InputSchema map[string]any `json:"inputSchema"`
		} `json:"tools"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Tools, 1)
	assert.Equal(t, "greet", body.Tools[0].Name)
	assert.Equal(t, "object", body.Tools[0].InputSchema["type"])
}

func TestCallTool_SuccessEnvelope(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/tools/greet", strings.NewReader(`{"name": "ada"}`))
	rec := httptest.NewRecorder()
	newHandler(t).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp tool.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.OK)
	assert.Equal(t, "greet", resp.Meta.Tool)
	assert.Equal(t, "hello ada", resp.Data.(map[string]any)["greeting"])
}

func TestCallTool_FailureStaysHTTP200(t *testing.T) {
	// Failures live inside the envelope; HTTP 200 signals only that the call
	// was well formed and routed.
	req := httptest.NewRequest(http.MethodPost, "/tools/nope", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	newHandler(t).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp tool.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.OK)
	assert.Equal(t, tool.KindUnknownTool, resp.Error.Kind)
}

func TestCallTool_MalformedBodyIs400(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/tools/greet", strings.NewReader(`{broken`))
	rec := httptest.NewRecorder()
	newHandler(t).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealthAndMetricsRoutes(t *testing.T) {
	h := newHandler(t)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}
