// Package credentials resolves per-call vendor secrets.
//
// Credentials are never process-global: every tool call carries its own
// Bundle, assembled from the reserved __credentials__ argument field with
// ambient environment defaults as fallback. Bundles redact themselves when
// logged through slog.
package credentials

import (
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"
)

// ArgsKey is the reserved argument field conventionally carrying per-call
// credentials in inbound tool calls.
const ArgsKey = "__credentials__"

// Bundle maps credential keys to secret values, scoped to a single tool call.
// It is never persisted and never serialized into response bodies.
type Bundle map[string]string

// Get returns the secret for key and whether it is present and non-empty.
func (b Bundle) Get(key string) (string, bool) {
	v, ok := b[key]
	return v, ok && v != ""
}

// Keys returns the credential keys in sorted order, without values.
func (b Bundle) Keys() []string {
	keys := make([]string, 0, len(b))
	for k := range b {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// LogValue implements slog.LogValuer. Secret values never reach log output;
// only the key names are reported.
func (b Bundle) LogValue() slog.Value {
	return slog.StringValue(fmt.Sprintf("bundle(%s)", strings.Join(b.Keys(), ",")))
}

// MissingError reports required credential keys absent from both the inbound
// call and the ambient defaults. It is raised before any vendor call is made.
type MissingError struct {
	Keys []string
}

func (e *MissingError) Error() string {
	return fmt.Sprintf("missing required credentials: %s", strings.Join(e.Keys, ", "))
}

// FromEnv builds an ambient default bundle from the given environment
// variables. Unset or empty variables are omitted.
func FromEnv(keys ...string) Bundle {
	b := Bundle{}
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			b[k] = v
		}
	}
	return b
}

// Extract pulls the embedded __credentials__ object out of raw call arguments.
// It returns the embedded bundle (possibly empty) and a copy of the arguments
// with the reserved field removed, so credentials never enter schema
// validation or handler argument maps.
func Extract(args map[string]any) (Bundle, map[string]any) {
	embedded := Bundle{}
	stripped := make(map[string]any, len(args))
	for k, v := range args {
		if k != ArgsKey {
			stripped[k] = v
		}
	}
	raw, ok := args[ArgsKey].(map[string]any)
	if !ok {
		return embedded, stripped
	}
	for k, v := range raw {
		if s, ok := v.(string); ok && s != "" {
			embedded[k] = s
		}
	}
	return embedded, stripped
}

// Resolver merges embedded call credentials over ambient defaults.
type Resolver struct {
	defaults Bundle
}

// NewResolver creates a resolver with the given ambient defaults
// (typically loaded from the environment at startup).
func NewResolver(defaults Bundle) *Resolver {
	if defaults == nil {
		defaults = Bundle{}
	}
	return &Resolver{defaults: defaults}
}

// Resolve produces the per-call bundle. Embedded values take precedence over
// ambient defaults key by key. If any required key is absent after merging,
// Resolve fails with a MissingError naming every missing key.
func (r *Resolver) Resolve(embedded Bundle, required []string) (Bundle, error) {
	merged := Bundle{}
	for k, v := range r.defaults {
		merged[k] = v
	}
	for k, v := range embedded {
		merged[k] = v
	}

	var missing []string
	for _, key := range required {
		if _, ok := merged.Get(key); !ok {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, &MissingError{Keys: missing}
	}
	return merged, nil
}
