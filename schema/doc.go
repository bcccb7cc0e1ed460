// Package schema describes tool input schemas as data.
//
// Schemas are built explicitly rather than reflected from handler
// signatures, and the same value serves two purposes: it is serialized into
// the tools/list response and compiled (JSON Schema draft 2020-12) to
// validate tools/call arguments before a handler runs.
//
// # Building Schemas
//
//	in := schema.Object(
//	    schema.Required("message", schema.String("Text to echo back")),
//	    schema.Prop("sides", schema.Integer("Number of faces").Min(2).WithDefault(6)),
//	)
//
// # Validation
//
//	if err := in.Validate(args); err != nil {
//	    var verrs schema.ValidationErrors
//	    errors.As(err, &verrs) // one entry per failing field
//	}
package schema
