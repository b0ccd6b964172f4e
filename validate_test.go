package jsonschema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mustValidate decodes schemaJSON, builds a pool for it, and validates
// instance against it with the package defaults.
func mustValidate(t *testing.T, schemaJSON string, instance any) *Result {
	t.Helper()
	schema, derr := DecodeSchema([]byte(schemaJSON))
	require.Nil(t, derr, "decode: %v", derr)
	pool := CollectIds(schema, "")
	return Validate(DefaultValidationOptions(), pool, instance, schema)
}

func codes(result *Result) []Code {
	out := make([]Code, len(result.Errors))
	for i, e := range result.Errors {
		out[i] = e.Details
	}
	return out
}

// S1: plain "type": "integer".
func TestValidateS1Type(t *testing.T) {
	schemaJSON := `{"type": "integer"}`

	result := mustValidate(t, schemaJSON, float64(3))
	assert.True(t, result.IsValid())

	result = mustValidate(t, schemaJSON, float64(3.5))
	require.False(t, result.IsValid())
	require.Len(t, result.Errors, 1)
	assert.Equal(t, InvalidType, result.Errors[0].Details)
	assert.Equal(t, "", result.Errors[0].JSONPointer)
}

// S2: required + nested maxLength.
func TestValidateS2RequiredAndProperties(t *testing.T) {
	schemaJSON := `{
		"type": "object",
		"required": ["a"],
		"properties": { "a": { "type": "string", "maxLength": 3 } }
	}`

	result := mustValidate(t, schemaJSON, map[string]any{"a": "hello"})
	require.False(t, result.IsValid())
	require.Len(t, result.Errors, 1)
	assert.Equal(t, MaxLength, result.Errors[0].Details)
	assert.Equal(t, "/a", result.Errors[0].JSONPointer)

	result = mustValidate(t, schemaJSON, map[string]any{})
	require.False(t, result.IsValid())
	require.Len(t, result.Errors, 1)
	assert.Equal(t, Required, result.Errors[0].Details)
	assert.Equal(t, "", result.Errors[0].JSONPointer)
	assert.Equal(t, "a", result.Errors[0].Params["key"])
}

// S3: tuple items with additionalItems: false.
func TestValidateS3ItemsTuple(t *testing.T) {
	schemaJSON := `{
		"items": [ {"type":"integer"}, {"type":"string"} ],
		"additionalItems": false
	}`

	result := mustValidate(t, schemaJSON, []any{float64(1), "x"})
	assert.True(t, result.IsValid())

	result = mustValidate(t, schemaJSON, []any{float64(1), "x", true})
	require.False(t, result.IsValid())
	require.Len(t, result.Errors, 1)
	assert.Equal(t, AdditionalItemsDisallowed, result.Errors[0].Details)
	assert.Equal(t, "/2", result.Errors[0].JSONPointer)
	assert.EqualValues(t, 2, result.Errors[0].Params["index"])
}

// S4: oneOf integer/number — an integer instance matches both branches.
func TestValidateS4OneOf(t *testing.T) {
	schemaJSON := `{ "oneOf": [ {"type":"integer"}, {"type":"number"} ] }`

	result := mustValidate(t, schemaJSON, float64(3))
	require.False(t, result.IsValid())
	require.Len(t, result.Errors, 1)
	assert.Equal(t, OneOfManyMatch, result.Errors[0].Details)

	result = mustValidate(t, schemaJSON, float64(3.5))
	assert.True(t, result.IsValid())
}

// S5: recursive $ref through "definitions".
func TestValidateS5RecursiveRef(t *testing.T) {
	schemaJSON := `{
		"$id": "root",
		"definitions": {
			"node": {
				"type": "object",
				"properties": { "next": { "$ref": "#/definitions/node" } }
			}
		},
		"$ref": "#/definitions/node"
	}`

	result := mustValidate(t, schemaJSON, map[string]any{
		"next": map[string]any{"next": map[string]any{}},
	})
	assert.True(t, result.IsValid(), "errors: %v", result.Errors)

	result = mustValidate(t, schemaJSON, map[string]any{"next": float64(42)})
	require.False(t, result.IsValid())
	require.Len(t, result.Errors, 1)
	assert.Equal(t, InvalidType, result.Errors[0].Details)
	assert.Equal(t, "/next", result.Errors[0].JSONPointer)
}

// S6: unified "dependencies", both the array and schema forms.
func TestValidateS6Dependencies(t *testing.T) {
	schemaJSON := `{
		"dependencies": {
			"a": ["b"],
			"c": {"required":["d"]}
		}
	}`

	result := mustValidate(t, schemaJSON, map[string]any{
		"a": float64(1), "b": float64(2), "c": float64(3), "d": float64(4),
	})
	assert.True(t, result.IsValid())

	result = mustValidate(t, schemaJSON, map[string]any{"a": float64(1)})
	require.False(t, result.IsValid())
	require.Len(t, result.Errors, 1)
	assert.Equal(t, Required, result.Errors[0].Details)
	assert.Equal(t, "b", result.Errors[0].Params["key"])

	result = mustValidate(t, schemaJSON, map[string]any{"c": float64(1)})
	require.False(t, result.IsValid())
	require.Len(t, result.Errors, 1)
	assert.Equal(t, Required, result.Errors[0].Details)
	assert.Equal(t, "d", result.Errors[0].Params["key"])
}

// Boolean-schema laws: true accepts everything, false rejects everything.
func TestValidateBooleanSchemas(t *testing.T) {
	trueSchema := &Schema{Boolean: boolPtr(true)}
	falseSchema := &Schema{Boolean: boolPtr(false)}
	pool := CollectIds(trueSchema, "")

	result := Validate(DefaultValidationOptions(), pool, "anything", trueSchema)
	assert.True(t, result.IsValid())

	pool = CollectIds(falseSchema, "")
	result = Validate(DefaultValidationOptions(), pool, "anything", falseSchema)
	require.False(t, result.IsValid())
	assert.Equal(t, AlwaysFail, result.Errors[0].Details)
}

// Errors accumulate rather than short-circuiting at the first failure.
func TestValidateAccumulatesErrors(t *testing.T) {
	schemaJSON := `{
		"type": "string",
		"minLength": 10,
		"pattern": "^[0-9]+$"
	}`
	result := mustValidate(t, schemaJSON, "abc")
	require.False(t, result.IsValid())
	assert.ElementsMatch(t, []Code{MinLength, Pattern}, codes(result))
}

// allOf reports one AllOfFailed per failing branch, not just the first.
func TestValidateAllOfMultipleBranches(t *testing.T) {
	schemaJSON := `{
		"allOf": [
			{"minimum": 10},
			{"maximum": 1}
		]
	}`
	result := mustValidate(t, schemaJSON, float64(5))
	require.False(t, result.IsValid())
	assert.Len(t, result.Errors, 2)
	for _, e := range result.Errors {
		assert.Equal(t, AllOfFailed, e.Details)
	}
}

// uniqueItems reports the first duplicate pair found.
func TestValidateUniqueItems(t *testing.T) {
	schemaJSON := `{"uniqueItems": true}`
	result := mustValidate(t, schemaJSON, []any{float64(1), float64(2), float64(1)})
	require.False(t, result.IsValid())
	require.Len(t, result.Errors, 1)
	assert.Equal(t, NotUnique, result.Errors[0].Details)
	assert.EqualValues(t, 0, result.Errors[0].Params["indexA"])
	assert.EqualValues(t, 2, result.Errors[0].Params["indexB"])
}

// Structural equality treats differently-keyed-but-equal objects and
// numerically-equal numbers as the same value for enum purposes.
func TestValidateEnumStructuralEquality(t *testing.T) {
	schemaJSON := `{"enum": [{"a":1,"b":2}]}`
	result := mustValidate(t, schemaJSON, map[string]any{"b": float64(2), "a": float64(1)})
	assert.True(t, result.IsValid())

	result = mustValidate(t, schemaJSON, map[string]any{"a": float64(1)})
	assert.False(t, result.IsValid())
}

// multipleOf tolerates binary floating-point imprecision.
func TestValidateMultipleOfFloatingPointTolerance(t *testing.T) {
	schemaJSON := `{"multipleOf": 0.1}`
	result := mustValidate(t, schemaJSON, 0.3)
	assert.True(t, result.IsValid(), "errors: %v", result.Errors)
}

func boolPtr(b bool) *bool { return &b }
