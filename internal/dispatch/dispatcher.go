// Package dispatch routes inbound tool calls through validation, credential
// resolution and handler execution, producing the uniform response envelope.
//
// Each call walks a fixed state machine:
//
//	Received → Validated → CredentialsResolved → Executing → Succeeded|Failed
//
// Every transition fails closed: an unknown tool is rejected before any
// schema lookup, schema violations are reported in full before credentials
// are touched, and missing credentials abort before any vendor call. Calls
// share no mutable state, so slow vendor calls never stall unrelated ones.
package dispatch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/toolgate/toolgate/internal/observability"
	"github.com/toolgate/toolgate/pkg/credentials"
	"github.com/toolgate/toolgate/pkg/schema"
	"github.com/toolgate/toolgate/pkg/tool"
)

// CallRequest is one inbound tool call: the tool name plus raw arguments,
// which may embed a __credentials__ object.
type CallRequest struct {
	Tool      string
	Arguments map[string]any
}

// Dispatcher executes tool calls against a registry. It is stateless between
// calls and safe for concurrent use.
type Dispatcher struct {
	registry *tool.Registry
	resolver *credentials.Resolver
	logger   *slog.Logger
	metrics  *observability.Metrics
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithLogger sets the diagnostic logger.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Dispatcher) { d.logger = logger }
}

// WithMetrics enables Prometheus instrumentation of calls.
func WithMetrics(m *observability.Metrics) Option {
	return func(d *Dispatcher) { d.metrics = m }
}

// New creates a dispatcher over the given registry and credential resolver.
func New(registry *tool.Registry, resolver *credentials.Resolver, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		registry: registry,
		resolver: resolver,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Dispatch runs one tool call to completion. It always returns a well-formed
// envelope; errors never escape as panics or raw values.
func (d *Dispatcher) Dispatch(ctx context.Context, req CallRequest) *tool.Response {
	started := time.Now()
	resp := d.dispatch(ctx, req, started)
	d.observe(req.Tool, resp, started)
	return resp
}

func (d *Dispatcher) dispatch(ctx context.Context, req CallRequest, started time.Time) *tool.Response {
	// Received → unknown tools short-circuit before any schema lookup.
	desc := d.registry.Lookup(req.Tool)
	if desc == nil {
		err := tool.Errorf(tool.KindUnknownTool, "unknown tool %q", req.Tool).
			WithSuggestions("List the server's capabilities to see the available tool names.")
		return tool.Failure(req.Tool, err, started)
	}

	// Credentials are stripped before validation so the reserved field never
	// counts against the schema.
	embedded, args := credentials.Extract(req.Arguments)

	// Received → Validated. Reports every violated field, not just the first.
	validated, err := desc.Args.Validate(args)
	if err != nil {
		verr := tool.Errorf(tool.KindValidation, "invalid arguments: %v", err).
			WithSuggestions(fmt.Sprintf("Fix the following fields and retry: %s.",
				strings.Join(schema.ViolatedFields(err), ", ")))
		return tool.Failure(req.Tool, verr, started)
	}

	// Validated → CredentialsResolved. Always before any network call.
	bundle, err := d.resolver.Resolve(embedded, desc.Credentials)
	if err != nil {
		return tool.Failure(req.Tool, tool.Wrap(tool.KindMissingCredential, err), started)
	}

	d.logger.DebugContext(ctx, "executing tool", "tool", desc.Name, "credentials", bundle)

	// CredentialsResolved → Executing → terminal.
	data, err := d.execute(ctx, desc, tool.Invocation{Args: validated, Credentials: bundle})
	if err != nil {
		d.logger.WarnContext(ctx, "tool call failed", "tool", desc.Name, "err", err)
		return tool.Failure(req.Tool, err, started)
	}
	return tool.Success(req.Tool, data, started)
}

// execute runs the handler with panic recovery: a programming fault becomes
// an internal-error envelope, never a crashed process or a raw stack trace
// on the protocol channel.
func (d *Dispatcher) execute(ctx context.Context, desc *tool.Descriptor, inv tool.Invocation) (data any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = tool.Errorf(tool.KindInternal, "tool %s panicked: %v", desc.Name, r)
		}
	}()
	return desc.Handler(ctx, inv)
}

func (d *Dispatcher) observe(toolName string, resp *tool.Response, started time.Time) {
	outcome := "success"
	if !resp.OK {
		outcome = string(resp.Error.Kind)
	}
	d.metrics.ObserveCall(toolName, outcome, time.Since(started))
}
