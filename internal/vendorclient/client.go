// Package vendorclient builds and sends HTTP requests against wrapped vendor
// APIs. It owns the three boundary concerns every integration shares: auth
// attachment, non-2xx classification into the failure taxonomy, and optional
// structural validation of 2xx response bodies against a declared schema.
package vendorclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/toolgate/toolgate/pkg/tool"
)

// RequestSpec describes one outbound vendor call. Specs are built fresh from
// validated arguments per invocation and never shared across calls.
type RequestSpec struct {
	Method string
	URL    string
	Query  url.Values
	Header http.Header
	// Body is JSON-serialized when non-nil.
	Body any
	Auth Auth
	// ResponseSchema, when set, structurally validates the decoded 2xx body.
	// A mismatch is a response-validation failure (contract drift), distinct
	// from a vendor rejection.
	ResponseSchema *openapi3.Schema
}

// Response is a parsed 2xx vendor reply.
type Response struct {
	Status int
	Header http.Header
	Body   json.RawMessage
	// Data is the JSON-decoded body (nil for empty bodies).
	Data any
}

// Client sends RequestSpecs. It is safe for concurrent use; slow vendor calls
// never block unrelated invocations.
type Client struct {
	httpClient *http.Client
	logger     *slog.Logger
	timeout    time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient substitutes the underlying transport (tests inject
// httptest-backed clients here).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger sets the diagnostic logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// WithTimeout sets the per-call deadline applied around each vendor request.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// New creates a vendor client with a 30s default per-call deadline.
func New(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{},
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		timeout:    30 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Do sends the request and returns the parsed response. Non-2xx statuses are
// classified into the taxonomy; transport faults surface as internal errors.
func (c *Client) Do(ctx context.Context, spec RequestSpec) (*Response, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := c.buildRequest(ctx, spec)
	if err != nil {
		return nil, tool.Errorf(tool.KindInternal, "building vendor request: %v", err)
	}

	c.logger.DebugContext(ctx, "vendor request", "method", req.Method, "url", redactURL(req.URL))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, tool.Errorf(tool.KindInternal, "vendor request failed: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, tool.Errorf(tool.KindInternal, "reading vendor response: %v", err)
	}

	c.logger.DebugContext(ctx, "vendor response", "status", resp.StatusCode, "bytes", len(body))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, classify(resp.StatusCode, resp.Header, body)
	}

	out := &Response{Status: resp.StatusCode, Header: resp.Header, Body: body}
	if len(bytes.TrimSpace(body)) > 0 {
		if err := json.Unmarshal(body, &out.Data); err != nil {
			return nil, tool.Errorf(tool.KindResponseValidation, "vendor returned non-JSON body: %v", err)
		}
	}

	if spec.ResponseSchema != nil {
		if err := spec.ResponseSchema.VisitJSON(out.Data); err != nil {
			return nil, tool.Errorf(tool.KindResponseValidation, "vendor response shape mismatch: %v", err)
		}
	}
	return out, nil
}

func (c *Client) buildRequest(ctx context.Context, spec RequestSpec) (*http.Request, error) {
	u, err := url.Parse(spec.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid url %q: %w", spec.URL, err)
	}
	if len(spec.Query) > 0 {
		q := u.Query()
		for key, values := range spec.Query {
			for _, v := range values {
				q.Add(key, v)
			}
		}
		u.RawQuery = q.Encode()
	}

	var body io.Reader
	if spec.Body != nil {
		raw, err := json.Marshal(spec.Body)
		if err != nil {
			return nil, fmt.Errorf("serializing request body: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, spec.Method, u.String(), body)
	if err != nil {
		return nil, err
	}
	for key, values := range spec.Header {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
	if spec.Body != nil && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	if spec.Auth != nil {
		spec.Auth.Apply(req)
	}
	return req, nil
}

// redactURL strips query values before logging, since API-key auth schemes
// place secrets in the query string.
func redactURL(u *url.URL) string {
	clean := *u
	if clean.RawQuery != "" {
		q := clean.Query()
		for key := range q {
			q.Set(key, "redacted")
		}
		clean.RawQuery = q.Encode()
	}
	return clean.String()
}
