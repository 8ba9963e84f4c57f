package vendorclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toolgate/toolgate/pkg/tool"
)

func newTestClient(handler http.HandlerFunc) (*Client, *httptest.Server) {
	srv := httptest.NewServer(handler)
	return New(WithHTTPClient(srv.Client())), srv
}

func TestDo_ParsesSuccessBody(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"total_count": 2, "items": [{"name":"a"},{"name":"b"}]}`))
	})
	defer srv.Close()

	resp, err := client.Do(context.Background(), RequestSpec{Method: http.MethodGet, URL: srv.URL})
	require.NoError(t, err)

	data := resp.Data.(map[string]any)
	assert.Equal(t, float64(2), data["total_count"])
}

func TestDo_AttachesBearerAuth(t *testing.T) {
	var gotAuth string
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{}`))
	})
	defer srv.Close()

	_, err := client.Do(context.Background(), RequestSpec{
		Method: http.MethodGet,
		URL:    srv.URL,
		Auth:   BearerToken("ghp_secret"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Bearer ghp_secret", gotAuth)
}

func TestDo_AttachesQueryKeyAuth(t *testing.T) {
	var gotQuery url.Values
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Write([]byte(`{}`))
	})
	defer srv.Close()

	_, err := client.Do(context.Background(), RequestSpec{
		Method: http.MethodGet,
		URL:    srv.URL,
		Query:  url.Values{"q": []string{"tshirts"}},
		Auth:   QueryKey{Param: "api_key", Value: "serp_secret"},
	})
	require.NoError(t, err)
	assert.Equal(t, "serp_secret", gotQuery.Get("api_key"))
	assert.Equal(t, "tshirts", gotQuery.Get("q"))
}

func TestDo_BasicAuthEncodesKeySecret(t *testing.T) {
	var user, secret string
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		user, secret, _ = r.BasicAuth()
		w.Write([]byte(`{}`))
	})
	defer srv.Close()

	_, err := client.Do(context.Background(), RequestSpec{
		Method: http.MethodGet,
		URL:    srv.URL,
		Auth:   BasicAuth{User: "key", Secret: "token"},
	})
	require.NoError(t, err)
	assert.Equal(t, "key", user)
	assert.Equal(t, "token", secret)
}

func TestDo_ClassifiesStatuses(t *testing.T) {
	cases := []struct {
		name   string
		status int
		header http.Header
		want   tool.Kind
	}{
		{"unauthorized", 401, nil, tool.KindVendorAuth},
		{"forbidden", 403, nil, tool.KindVendorPermission},
		{"forbidden rate limited", 403, http.Header{"X-Ratelimit-Remaining": []string{"0"}}, tool.KindVendorRateLimit},
		{"not found", 404, nil, tool.KindVendorNotFound},
		{"conflict", 409, nil, tool.KindVendorConflict},
		{"unprocessable", 422, nil, tool.KindValidation},
		{"bad request", 400, nil, tool.KindValidation},
		{"too many requests", 429, nil, tool.KindVendorRateLimit},
		{"server error", 500, nil, tool.KindVendorGeneric},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
				for key, values := range tc.header {
					for _, v := range values {
						w.Header().Add(key, v)
					}
				}
				w.WriteHeader(tc.status)
				w.Write([]byte(`{"message":"nope"}`))
			})
			defer srv.Close()

			_, err := client.Do(context.Background(), RequestSpec{Method: http.MethodGet, URL: srv.URL})
			require.Error(t, err)

			var te *tool.Error
			require.True(t, errors.As(err, &te))
			assert.Equal(t, tc.want, te.Kind)
			assert.Contains(t, te.Message, "nope")
			assert.NotEmpty(t, te.VendorDetail, "raw vendor payload must be preserved")
		})
	}
}

func TestDo_RateLimitResetFromHeader(t *testing.T) {
	reset := time.Unix(1924992000, 0).UTC()
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-RateLimit-Reset", "1924992000")
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"message":"rate limit exceeded"}`))
	})
	defer srv.Close()

	_, err := client.Do(context.Background(), RequestSpec{Method: http.MethodGet, URL: srv.URL})

	var te *tool.Error
	require.True(t, errors.As(err, &te))
	require.Equal(t, tool.KindVendorRateLimit, te.Kind)
	// ResetAt must come from the header, not from the clock.
	assert.True(t, te.ResetAt.Equal(reset), "ResetAt = %v, want %v", te.ResetAt, reset)
}

func TestDo_ResponseSchemaMismatchIsContractDrift(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"object":{"sha": 42}}`))
	})
	defer srv.Close()

	responseSchema := openapi3.NewObjectSchema().
		WithProperty("object", openapi3.NewObjectSchema().
			WithProperty("sha", openapi3.NewStringSchema()))

	_, err := client.Do(context.Background(), RequestSpec{
		Method:         http.MethodGet,
		URL:            srv.URL,
		ResponseSchema: responseSchema,
	})

	var te *tool.Error
	require.True(t, errors.As(err, &te))
	assert.Equal(t, tool.KindResponseValidation, te.Kind)
}

func TestDo_SerializesJSONBody(t *testing.T) {
	var gotBody map[string]any
	var gotContentType string
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Write([]byte(`{}`))
	})
	defer srv.Close()

	_, err := client.Do(context.Background(), RequestSpec{
		Method: http.MethodPost,
		URL:    srv.URL,
		Body:   map[string]any{"message": "update", "force": true},
	})
	require.NoError(t, err)
	assert.Equal(t, "application/json", gotContentType)
	assert.Equal(t, "update", gotBody["message"])
	assert.Equal(t, true, gotBody["force"])
}

func TestDo_TransportFailureIsInternal(t *testing.T) {
	client := New(WithTimeout(100 * time.Millisecond))

	_, err := client.Do(context.Background(), RequestSpec{
		Method: http.MethodGet,
		URL:    "http://127.0.0.1:1", // nothing listens here
	})

	var te *tool.Error
	require.True(t, errors.As(err, &te))
	assert.Equal(t, tool.KindInternal, te.Kind)
}
