// Package openapi holds the source and document wrappers used to feed OpenAPI
// component schemas into the form builder. Parsing lives in
// providers/openapi; loading implementations live under internal/loader.
package openapi
