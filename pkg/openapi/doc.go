// Package openapi exposes the generated OpenAPI document as a mutable object
// tree together with the loader and validator contracts that surround the
// mapper pipeline. Implementations live under internal/ to keep kin-openapi
// hidden from consumers; mappers only ever see map[string]any.
package openapi
