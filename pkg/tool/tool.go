package tool

import (
	"context"

	"github.com/toolgate/toolgate/pkg/credentials"
	"github.com/toolgate/toolgate/pkg/schema"
)

// Handler executes a tool call. Args have already been validated against the
// descriptor's schema (defaults applied, credentials stripped); Credentials
// hold the resolved per-call bundle.
type Handler func(ctx context.Context, inv Invocation) (any, error)

// Invocation is the validated input of a single tool call.
// It exists only for the duration of the call.
type Invocation struct {
	Args        map[string]any
	Credentials credentials.Bundle
}

// Descriptor declares a tool: its name (unique within a server), description,
// argument shape, and the credential keys that must resolve before the
// handler runs. Descriptors are immutable after registration.
type Descriptor struct {
	Name        string
	Description string
	Args        schema.Object
	// Credentials lists the credential keys the handler requires. Dispatch
	// fails before any vendor call when one cannot be resolved.
	Credentials []string
	Handler     Handler
}
