// Package traits defines the annotation markers read while post-processing a
// generated OpenAPI document, and the registry that turns raw trait nodes from
// the model into typed values.
//
// Custom traits:
//
//   - com.example#const: the member holds a constant. An empty object is the
//     marker form (the member's default is the constant); any other node is
//     the constant itself.
//   - com.example#memberExample: an example value for a member.
//   - com.example#errorExample: a list of {title, documentation?, content}
//     examples for an error structure.
//
// The prelude traits error, httpError, http and default are decoded here too
// because the mappers depend on them.
package traits
