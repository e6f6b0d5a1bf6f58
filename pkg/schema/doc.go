// Package schema encodes documents to their exchange form and decodes them
// back with structural validation.
//
// The exchange form is a JSON object with exactly three keys:
//
//	{
//	    "rootNodes": [...],
//	    "rootEdges": [...],
//	    "version": 1
//	}
//
// Decoding runs in two passes. The envelope is first checked against a small
// field schema (presence and type of each top-level key, no unknown keys).
// The typed node tree is then walked and every structural problem (duplicate
// ids, unknown levels, children at the wrong level, children under an
// outcome) is collected. All failures are reported together in an
// AggregateError wrapped in a *domain.ParseError.
//
// Field schemas can also be used on their own:
//
//	s := schema.Schema{
//	    "label":   schema.String(),
//	    "retries": schema.Int(),
//	    "tags":    schema.Slice(schema.String()),
//	}
//	if err := schema.Validate(s, data); err != nil {
//	    // handle validation errors
//	}
package schema
