package jsonschema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCustomFormatEnforcedWhenEnabled(t *testing.T) {
	compiler := NewCompiler()
	compiler.RegisterFormat("even-length", func(v any) bool {
		s, ok := v.(string)
		if !ok {
			return true
		}
		return len(s)%2 == 0
	}, "string")

	schema, err := compiler.Compile([]byte(`{"type": "string", "format": "even-length"}`))
	require.NoError(t, err)
	pool := CollectIds(schema, "")

	opts := DefaultValidationOptions()
	opts.EnabledFormats = map[string]bool{"even-length": true}

	result := Validate(opts, pool, "abc", schema)
	require.False(t, result.IsValid())
	require.Len(t, result.Errors, 1)
	assert.Equal(t, Format, result.Errors[0].Details)

	result = Validate(opts, pool, "abcd", schema)
	assert.True(t, result.IsValid())
}

func TestCustomFormatIgnoredUnlessEnabled(t *testing.T) {
	compiler := NewCompiler()
	compiler.RegisterFormat("even-length", func(v any) bool {
		s, ok := v.(string)
		return !ok || len(s)%2 == 0
	}, "string")

	schema, err := compiler.Compile([]byte(`{"type": "string", "format": "even-length"}`))
	require.NoError(t, err)
	pool := CollectIds(schema, "")

	result := Validate(DefaultValidationOptions(), pool, "abc", schema)
	assert.True(t, result.IsValid(), "a format absent from EnabledFormats must not gate validation")
}

func TestValidationErrorCarriesSchemaLocationWhenCompiled(t *testing.T) {
	compiler := NewCompiler()
	schema, err := compiler.Compile([]byte(`{"type": "integer"}`), "https://example.com/schemas/root.json")
	require.NoError(t, err)
	pool := CollectIds(schema, "")

	result := Validate(DefaultValidationOptions(), pool, "not an integer", schema)
	require.False(t, result.IsValid())
	assert.Equal(t, "https://example.com/schemas/root.json#", result.Errors[0].SchemaLocation)
}

func TestValidationErrorSchemaLocationEmptyWithoutCompile(t *testing.T) {
	schema, derr := DecodeSchema([]byte(`{"type": "integer"}`))
	require.Nil(t, derr)
	pool := CollectIds(schema, "")

	result := Validate(DefaultValidationOptions(), pool, "not an integer", schema)
	require.False(t, result.IsValid())
	assert.Empty(t, result.Errors[0].SchemaLocation)
}

func TestUnregisterFormatStopsEnforcement(t *testing.T) {
	compiler := NewCompiler()
	compiler.RegisterFormat("even-length", func(v any) bool {
		s, ok := v.(string)
		return !ok || len(s)%2 == 0
	}, "string")
	compiler.UnregisterFormat("even-length")

	schema, err := compiler.Compile([]byte(`{"type": "string", "format": "even-length"}`))
	require.NoError(t, err)
	pool := CollectIds(schema, "")

	opts := DefaultValidationOptions()
	opts.EnabledFormats = map[string]bool{"even-length": true}

	result := Validate(opts, pool, "abc", schema)
	assert.True(t, result.IsValid())
}
