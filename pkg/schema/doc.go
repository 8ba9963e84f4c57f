// Package schema describes and validates tool argument shapes.
//
// A tool declares its accepted arguments as an Object: a set of named fields,
// each with a type, a required flag, an optional default and an optional
// description. Validation is a pure function over the declared shape and the
// raw argument map; it reports every violation it finds, not just the first.
//
// Basic usage:
//
//	args := schema.Object{
//	    Fields: schema.Fields{
//	        "query":    {Type: schema.String(), Required: true, Description: "Search query"},
//	        "per_page": {Type: schema.Int(), Default: 30},
//	    },
//	}
//
//	clean, err := args.Validate(map[string]any{"query": "language:go"})
//	// clean contains defaults applied; err aggregates all violations.
//
// Unknown fields are accepted and ignored for forward compatibility unless
// Strict is set. The package has no dependencies beyond the standard library
// so it can be embedded anywhere a declarative argument contract is needed.
package schema
