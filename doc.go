// Package jsonschema implements a JSON Schema Draft 6 engine for Go: a
// pure decoder (DecodeSchema/DecodeSchemaValue) that turns a schema
// document into a closed set of typed Go values, a resolver
// (CollectIds/ResolveRef) that follows "$id"/"$ref" across a pool of
// schemas without any implicit network access, and a validator
// (Validate) that checks an already-decoded JSON value against a
// schema and accumulates every violation it finds rather than
// stopping at the first one.
//
// Credit to https://github.com/santhosh-tekuri/jsonschema for format validators.
package jsonschema
