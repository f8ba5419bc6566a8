// Package model defines the collaborator contracts the form builder consumes
// from a bound object: attribute access, column metadata, association
// metadata, validation reflection and error collections. Every contract is
// optional; an object that implements none of them is treated as a duck-typed
// value whose attributes have no schema. Adapters for plain Go structs and
// OpenAPI documents live under pkg/providers.
package model
