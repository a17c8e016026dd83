// Package model holds the API-description shape graph the document mappers
// read: structures, members, lists, unions, operations, resources and
// services, each carrying raw trait nodes keyed by trait shape ID.
//
// Models are decoded from the Smithy JSON AST ("smithy": "2.0"), in either its
// JSON or YAML encoding, through Parse. Shape and member declaration order is
// preserved. The model is read-only once built; callers share it freely.
package model
