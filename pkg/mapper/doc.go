// Package mapper post-processes a generated OpenAPI document using traits
// declared on the model it was generated from. Mappers run in a Pipeline,
// ordered by Order() then Name(), each receiving the previous mapper's output.
package mapper
