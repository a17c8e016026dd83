// Package problem models RFC 7807 problem details as a closed set of
// variants: access, server, domain and validation problems. Each variant
// serializes to the standard envelope (type, title, status, detail,
// instance) plus its own fields, and Decode rebuilds the variant from the
// type URI and the code discriminator.
//
// Variants are immutable once built. Builders validate required fields and
// return an error instead of producing a partial problem.
package problem
