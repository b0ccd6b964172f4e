package jsonschema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeSchemaBoolean(t *testing.T) {
	schema, derr := DecodeSchema([]byte(`true`))
	require.Nil(t, derr)
	assert.True(t, schema.IsBoolean())
	assert.True(t, schema.BooleanValue())

	schema, derr = DecodeSchema([]byte(`false`))
	require.Nil(t, derr)
	assert.True(t, schema.IsBoolean())
	assert.False(t, schema.BooleanValue())
}

func TestDecodeSchemaRejectsNonObjectNonBoolean(t *testing.T) {
	_, derr := DecodeSchema([]byte(`"not a schema"`))
	require.NotNil(t, derr)
	assert.Equal(t, DecodeInvalidType, derr.Code)
}

func TestDecodeTypeKeywordShapes(t *testing.T) {
	single, derr := DecodeSchema([]byte(`{"type": "string"}`))
	require.Nil(t, derr)
	require.NotNil(t, single.Type)
	assert.Equal(t, SingleType, single.Type.Kind)
	assert.Equal(t, []string{"string"}, single.Type.Names)

	nullable, derr := DecodeSchema([]byte(`{"type": ["string", "null"]}`))
	require.Nil(t, derr)
	require.NotNil(t, nullable.Type)
	assert.Equal(t, NullableType, nullable.Type.Kind)
	assert.ElementsMatch(t, []string{"string", "null"}, nullable.Type.Names)

	union, derr := DecodeSchema([]byte(`{"type": ["string", "integer", "boolean"]}`))
	require.Nil(t, derr)
	require.NotNil(t, union.Type)
	assert.Equal(t, UnionType, union.Type.Kind)
	assert.ElementsMatch(t, []string{"string", "integer", "boolean"}, union.Type.Names)
}

func TestDecodeEnumRejectsDuplicates(t *testing.T) {
	_, derr := DecodeSchema([]byte(`{"enum": [1, 2, 1]}`))
	require.NotNil(t, derr)
	assert.Equal(t, DecodeDuplicateEnumValue, derr.Code)
}

func TestDecodeEnumRejectsStructuralDuplicates(t *testing.T) {
	// 1 and 1.0 are structurally the same JSON number.
	_, derr := DecodeSchema([]byte(`{"enum": [1, 1.0]}`))
	require.NotNil(t, derr)
	assert.Equal(t, DecodeDuplicateEnumValue, derr.Code)
}

func TestDecodeLegacyIDFallback(t *testing.T) {
	schema, derr := DecodeSchema([]byte(`{"id": "root", "type": "object"}`))
	require.Nil(t, derr)
	assert.Equal(t, "root", schema.ID)

	// "$id" takes precedence when both are present.
	schema, derr = DecodeSchema([]byte(`{"id": "legacy", "$id": "modern", "type": "object"}`))
	require.Nil(t, derr)
	assert.Equal(t, "modern", schema.ID)
}

func TestDecodeItemsTupleVsSingle(t *testing.T) {
	single, derr := DecodeSchema([]byte(`{"items": {"type": "string"}}`))
	require.Nil(t, derr)
	require.NotNil(t, single.Items)
	assert.Equal(t, ItemDefinition, single.Items.Kind)
	assert.NotNil(t, single.Items.Single)

	tuple, derr := DecodeSchema([]byte(`{"items": [{"type": "string"}, {"type": "integer"}]}`))
	require.Nil(t, derr)
	require.NotNil(t, tuple.Items)
	assert.Equal(t, ArrayOfItems, tuple.Items.Kind)
	assert.Len(t, tuple.Items.Tuple, 2)
}

func TestDecodeDependenciesUnifiedForm(t *testing.T) {
	schema, derr := DecodeSchema([]byte(`{
		"dependencies": {
			"a": ["b", "c"],
			"d": {"required": ["e"]}
		}
	}`))
	require.Nil(t, derr)
	require.Contains(t, schema.Dependencies, "a")
	assert.Equal(t, ArrayPropNames, schema.Dependencies["a"].Kind)
	assert.Equal(t, []string{"b", "c"}, schema.Dependencies["a"].Props)

	require.Contains(t, schema.Dependencies, "d")
	assert.Equal(t, PropSchema, schema.Dependencies["d"].Kind)
	require.NotNil(t, schema.Dependencies["d"].Schema)
}

func TestDecodeExclusiveBoundaryBothForms(t *testing.T) {
	numberForm, derr := DecodeSchema([]byte(`{"exclusiveMaximum": 10}`))
	require.Nil(t, derr)
	require.NotNil(t, numberForm.ExclusiveMaximum)
	assert.Equal(t, NumberForm, numberForm.ExclusiveMaximum.Kind)

	boolForm, derr := DecodeSchema([]byte(`{"maximum": 10, "exclusiveMaximum": true}`))
	require.Nil(t, derr)
	require.NotNil(t, boolForm.ExclusiveMaximum)
	assert.Equal(t, BoolForm, boolForm.ExclusiveMaximum.Kind)
	assert.True(t, boolForm.ExclusiveMaximum.Bool)
}

func TestDecodeRejectsNegativeCounts(t *testing.T) {
	cases := []string{
		`{"type":"string","minLength":-5}`,
		`{"type":"string","maxLength":-1}`,
		`{"type":"array","minItems":-1}`,
		`{"type":"array","maxItems":-1}`,
		`{"type":"object","minProperties":-1}`,
		`{"type":"object","maxProperties":-1}`,
	}
	for _, schemaJSON := range cases {
		_, derr := DecodeSchema([]byte(schemaJSON))
		require.NotNil(t, derr, "expected decode error for %s", schemaJSON)
		assert.Equal(t, DecodeNegativeCount, derr.Code, "schema: %s", schemaJSON)
	}
}

func TestDecodePreservesUnknownKeywordsInExtra(t *testing.T) {
	schema, derr := DecodeSchema([]byte(`{"type": "string", "unevaluatedProperties": false}`))
	require.Nil(t, derr)
	assert.Contains(t, schema.Extra, "unevaluatedProperties")
}

// Round trip: encoding a decoded schema and re-decoding it produces a
// structurally equal document. Both encodes return the schema's stored
// "source" value, so this checks that decoding keeps that value intact.
func TestEncodeDecodeRoundTrip(t *testing.T) {
	original := map[string]any{
		"type":     "object",
		"required": []any{"a"},
		"properties": map[string]any{
			"a": map[string]any{"type": "string", "minLength": float64(1)},
		},
	}
	schema, derr := DecodeSchemaValue(original)
	require.Nil(t, derr)

	encoded, err := EncodeSchemaValue(schema)
	require.NoError(t, err)

	reDecoded, derr := DecodeSchemaValue(encoded)
	require.Nil(t, derr)

	reEncoded, err := EncodeSchemaValue(reDecoded)
	require.NoError(t, err)

	a, err := normalizeValue(encoded)
	require.NoError(t, err)
	b, err := normalizeValue(reEncoded)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}
