package jsonschema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveRefJSONPointerWithinSameDocument(t *testing.T) {
	schema, derr := DecodeSchema([]byte(`{
		"definitions": { "pos": {"type": "integer", "minimum": 0} },
		"properties": { "x": {"$ref": "#/definitions/pos"} }
	}`))
	require.Nil(t, derr)
	pool := CollectIds(schema, "")

	target, rerr := ResolveRef(pool, pool.RootNamespace(), "#/definitions/pos")
	require.Nil(t, rerr)
	require.NotNil(t, target)
	require.NotNil(t, target.Type)
	assert.Equal(t, []string{"integer"}, target.Type.Names)
}

func TestResolveRefUnresolvableYieldsValidationError(t *testing.T) {
	schema, derr := DecodeSchema([]byte(`{"$ref": "#/definitions/missing"}`))
	require.Nil(t, derr)
	pool := CollectIds(schema, "")

	result := Validate(DefaultValidationOptions(), pool, map[string]any{}, schema)
	require.False(t, result.IsValid())
	assert.Equal(t, UnresolvableReference, result.Errors[0].Details)
}

func TestResolveRefAbsoluteIDAcrossNamespaces(t *testing.T) {
	schema, derr := DecodeSchema([]byte(`{
		"$id": "https://example.com/schemas/root.json",
		"definitions": {
			"positiveInt": {
				"$id": "https://example.com/schemas/positive-int.json",
				"type": "integer",
				"minimum": 1
			}
		},
		"$ref": "https://example.com/schemas/positive-int.json"
	}`))
	require.Nil(t, derr)
	pool := CollectIds(schema, "")

	result := Validate(DefaultValidationOptions(), pool, float64(5), schema)
	assert.True(t, result.IsValid(), "errors: %v", result.Errors)

	result = Validate(DefaultValidationOptions(), pool, float64(-1), schema)
	require.False(t, result.IsValid())
	assert.Equal(t, Minimum, result.Errors[0].Details)
}
