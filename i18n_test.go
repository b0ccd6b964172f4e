package jsonschema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalizeRendersBothEmbeddedLocales(t *testing.T) {
	schema, derr := DecodeSchema([]byte(`{"type": "integer"}`))
	require.Nil(t, derr)
	pool := CollectIds(schema, "")

	result := Validate(DefaultValidationOptions(), pool, "not an integer", schema)
	require.False(t, result.IsValid())

	en, err := NewLocalizer("en")
	require.NoError(t, err)
	zh, err := NewLocalizer("zh-Hans")
	require.NoError(t, err)

	enMsg := result.Errors[0].Localize(en)
	zhMsg := result.Errors[0].Localize(zh)

	assert.NotEmpty(t, enMsg)
	assert.NotEmpty(t, zhMsg)
	assert.NotEqual(t, enMsg, zhMsg)
}

func TestLocalizeFallsBackToErrorWithoutLocalizer(t *testing.T) {
	err := &ValidationError{JSONPointer: "", Keyword: "type", Details: InvalidType, Params: map[string]any{"expected": "integer"}}
	assert.Equal(t, err.Error(), err.Localize(nil))
}
