package toolgate

import (
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"time"

	"github.com/toolgate/toolgate/internal/dispatch"
	"github.com/toolgate/toolgate/internal/integrations/github"
	"github.com/toolgate/toolgate/internal/integrations/greenapi"
	"github.com/toolgate/toolgate/internal/integrations/serpapi"
	"github.com/toolgate/toolgate/internal/logging"
	"github.com/toolgate/toolgate/internal/observability"
	"github.com/toolgate/toolgate/internal/vendorclient"
	"github.com/toolgate/toolgate/pkg/credentials"
	"github.com/toolgate/toolgate/pkg/tool"
)

// Version is the toolgate release version.
const Version = "0.1.0"

// Gate is the assembled tool server for one vendor: its registry, dispatcher
// and metrics, ready to hand to a transport adapter.
type Gate struct {
	Vendor     string
	Registry   *tool.Registry
	Dispatcher *dispatch.Dispatcher
	Metrics    *observability.Metrics

	logger *slog.Logger
}

type options struct {
	logger     *slog.Logger
	httpClient *http.Client
	baseURL    string
	timeout    time.Duration
}

// Option configures Gate assembly.
type Option func(*options)

// WithLogger sets the logger shared by the dispatcher and vendor client.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithHTTPClient substitutes the outbound HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *options) { o.httpClient = hc }
}

// WithBaseURL overrides the vendor API root.
func WithBaseURL(u string) Option {
	return func(o *options) { o.baseURL = u }
}

// WithVendorTimeout sets the per-call deadline on outbound vendor requests.
func WithVendorTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

// vendorCredentials names the ambient credential keys each vendor may read
// from the environment at assembly time.
var vendorCredentials = map[string][]string{
	"github":   {github.CredentialToken},
	"serpapi":  {serpapi.CredentialKey},
	"greenapi": {greenapi.CredentialInstance, greenapi.CredentialToken},
}

// Vendors lists the supported vendor names in stable order.
func Vendors() []string {
	names := make([]string, 0, len(vendorCredentials))
	for name := range vendorCredentials {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// New assembles the tool server for the named vendor. Ambient credential
// defaults are read from the environment once, here; per-call credentials
// still override them key by key on every call.
func New(vendor string, opts ...Option) (*Gate, error) {
	o := options{
		logger:  logging.NewNop(),
		timeout: 30 * time.Second,
	}
	for _, opt := range opts {
		opt(&o)
	}

	keys, ok := vendorCredentials[vendor]
	if !ok {
		return nil, fmt.Errorf("unknown vendor %q (supported: %v)", vendor, Vendors())
	}

	clientOpts := []vendorclient.Option{
		vendorclient.WithLogger(o.logger),
		vendorclient.WithTimeout(o.timeout),
	}
	if o.httpClient != nil {
		clientOpts = append(clientOpts, vendorclient.WithHTTPClient(o.httpClient))
	}
	client := vendorclient.New(clientOpts...)

	registry := tool.NewRegistry()
	switch vendor {
	case "github":
		ghOpts := []github.Option{github.WithLogger(o.logger)}
		if o.baseURL != "" {
			ghOpts = append(ghOpts, github.WithBaseURL(o.baseURL))
		}
		github.New(client, ghOpts...).Register(registry)
	case "serpapi":
		var spOpts []serpapi.Option
		if o.baseURL != "" {
			spOpts = append(spOpts, serpapi.WithBaseURL(o.baseURL))
		}
		serpapi.New(client, spOpts...).Register(registry)
	case "greenapi":
		var gaOpts []greenapi.Option
		if o.baseURL != "" {
			gaOpts = append(gaOpts, greenapi.WithBaseURL(o.baseURL))
		}
		greenapi.New(client, gaOpts...).Register(registry)
	}

	metrics := observability.New(vendor)
	dispatcher := dispatch.New(registry,
		credentials.NewResolver(credentials.FromEnv(keys...)),
		dispatch.WithLogger(o.logger),
		dispatch.WithMetrics(metrics),
	)

	return &Gate{
		Vendor:     vendor,
		Registry:   registry,
		Dispatcher: dispatcher,
		Metrics:    metrics,
		logger:     o.logger,
	}, nil
}
