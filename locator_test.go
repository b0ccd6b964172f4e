package jsonschema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocateAndSetBuildsIntermediateContainers(t *testing.T) {
	schema, derr := DecodeSchema([]byte(`{
		"type": "object",
		"properties": {
			"user": {
				"type": "object",
				"properties": {
					"tags": { "type": "array", "items": {"type": "string"} }
				}
			}
		}
	}`))
	require.Nil(t, derr)
	pool := CollectIds(schema, "")

	out, err := LocateAndSet(pool, pool.RootNamespace(), schema, nil, "/user/tags/0", "first")
	require.NoError(t, err)

	obj, ok := out.(map[string]any)
	require.True(t, ok)
	user, ok := obj["user"].(map[string]any)
	require.True(t, ok)
	tags, ok := user["tags"].([]any)
	require.True(t, ok)
	require.Len(t, tags, 1)
	assert.Equal(t, "first", tags[0])
}

func TestLocateAndSetPreservesExistingSiblings(t *testing.T) {
	schema, derr := DecodeSchema([]byte(`{"type": "object"}`))
	require.Nil(t, derr)
	pool := CollectIds(schema, "")

	instance := map[string]any{"existing": "value"}
	out, err := LocateAndSet(pool, pool.RootNamespace(), schema, instance, "/added", float64(1))
	require.NoError(t, err)

	obj := out.(map[string]any)
	assert.Equal(t, "value", obj["existing"])
	assert.Equal(t, float64(1), obj["added"])
	// original instance map must not have been mutated in place.
	_, hadAdded := instance["added"]
	assert.False(t, hadAdded)
}

func TestLocateAndSetSelectsAnyOfBranchByValueKind(t *testing.T) {
	schema, derr := DecodeSchema([]byte(`{
		"type": "object",
		"properties": {
			"value": {
				"anyOf": [
					{"type": "string"},
					{"type": "integer"}
				]
			}
		}
	}`))
	require.Nil(t, derr)
	pool := CollectIds(schema, "")

	out, err := LocateAndSet(pool, pool.RootNamespace(), schema, nil, "/value", float64(7))
	require.NoError(t, err)
	obj := out.(map[string]any)
	assert.Equal(t, float64(7), obj["value"])

	prop, ok := schema.Properties.Get("value")
	require.True(t, ok)
	assert.Same(t, prop.AnyOf[1], selectBranch(prop, float64(7)))
}
