package jsonschema

import "github.com/goccy/go-json"

// EncodeSchema serializes schema back to JSON bytes. When schema carries
// its original decoded source (the common case — anything that went
// through DecodeSchema/DecodeSchemaValue), the source is what gets
// marshaled, so round-tripping a document keeps every keyword the
// original author wrote, not only those this engine has a typed field
// for. The source is the parsed value rather than the original bytes, so
// whitespace and key order are not reproduced. For a schema
// assembled programmatically (no source), EncodeSchema falls back to
// EncodeSchemaValue's typed-field reconstruction.
func EncodeSchema(schema *Schema) ([]byte, error) {
	value, err := EncodeSchemaValue(schema)
	if err != nil {
		return nil, err
	}
	return json.Marshal(value)
}

// EncodeSchemaValue produces the generic any-tree (bool, or
// map[string]any) that EncodeSchema marshals, without forcing a JSON byte
// encoding — useful when the caller wants to feed the result into its
// own JSON/YAML writer.
func EncodeSchemaValue(schema *Schema) (any, error) {
	if schema == nil {
		return nil, nil
	}
	if schema.source != nil {
		return schema.source, nil
	}
	if schema.IsBoolean() {
		return schema.BooleanValue(), nil
	}
	return encodeFromFields(schema), nil
}

// encodeFromFields reconstructs a plain map from a Schema's typed fields,
// the inverse of decodeObjectSchema, for schemas that were never decoded
// from a source document (e.g. built up via Go code).
func encodeFromFields(s *Schema) map[string]any {
	out := make(map[string]any)

	if s.ID != "" {
		out["$id"] = s.ID
	}
	if s.Schema != "" {
		out["$schema"] = s.Schema
	}
	if s.Ref != "" {
		out["$ref"] = s.Ref
	}
	if s.Format != nil {
		out["format"] = *s.Format
	}
	if len(s.Defs) > 0 {
		defs := make(map[string]any, len(s.Defs))
		for k, v := range s.Defs {
			defs[k], _ = EncodeSchemaValue(v)
		}
		out["definitions"] = defs
	}

	encodeList := func(list []*Schema) []any {
		if len(list) == 0 {
			return nil
		}
		arr := make([]any, len(list))
		for i, sub := range list {
			arr[i], _ = EncodeSchemaValue(sub)
		}
		return arr
	}
	if v := encodeList(s.AllOf); v != nil {
		out["allOf"] = v
	}
	if v := encodeList(s.AnyOf); v != nil {
		out["anyOf"] = v
	}
	if v := encodeList(s.OneOf); v != nil {
		out["oneOf"] = v
	}
	if s.Not != nil {
		out["not"], _ = EncodeSchemaValue(s.Not)
	}

	if s.Items != nil {
		switch s.Items.Kind {
		case ItemDefinition:
			out["items"], _ = EncodeSchemaValue(s.Items.Single)
		case ArrayOfItems:
			out["items"] = encodeList(s.Items.Tuple)
		}
	}
	if s.AdditionalItems != nil {
		out["additionalItems"], _ = EncodeSchemaValue(s.AdditionalItems)
	}
	if s.Contains != nil {
		out["contains"], _ = EncodeSchemaValue(s.Contains)
	}

	encodeMap := func(sm *SchemaMap) map[string]any {
		if sm.Len() == 0 {
			return nil
		}
		m := make(map[string]any, sm.Len())
		for _, k := range sm.Keys {
			m[k], _ = EncodeSchemaValue(sm.Values[k])
		}
		return m
	}
	if v := encodeMap(s.Properties); v != nil {
		out["properties"] = v
	}
	if v := encodeMap(s.PatternProperties); v != nil {
		out["patternProperties"] = v
	}
	if s.AdditionalProperties != nil {
		out["additionalProperties"], _ = EncodeSchemaValue(s.AdditionalProperties)
	}
	if s.PropertyNames != nil {
		out["propertyNames"], _ = EncodeSchemaValue(s.PropertyNames)
	}

	if len(s.Dependencies) > 0 {
		deps := make(map[string]any, len(s.Dependencies))
		for k, dep := range s.Dependencies {
			switch dep.Kind {
			case ArrayPropNames:
				arr := make([]any, len(dep.Props))
				for i, p := range dep.Props {
					arr[i] = p
				}
				deps[k] = arr
			case PropSchema:
				deps[k], _ = EncodeSchemaValue(dep.Schema)
			}
		}
		out["dependencies"] = deps
	}

	if s.Type != nil {
		switch s.Type.Kind {
		case SingleType:
			out["type"] = s.Type.Names[0]
		case NullableType, UnionType:
			arr := make([]any, len(s.Type.Names))
			for i, n := range s.Type.Names {
				arr[i] = n
			}
			out["type"] = arr
		}
	}
	if len(s.Enum) > 0 {
		out["enum"] = s.Enum
	}
	if s.Const != nil {
		out["const"] = s.Const.Value
	}

	if s.MultipleOf != nil {
		out["multipleOf"] = ratToAny(s.MultipleOf)
	}
	if s.Maximum != nil {
		out["maximum"] = ratToAny(s.Maximum)
	}
	if s.Minimum != nil {
		out["minimum"] = ratToAny(s.Minimum)
	}
	if s.ExclusiveMaximum != nil {
		out["exclusiveMaximum"] = exclusiveBoundaryToAny(s.ExclusiveMaximum)
	}
	if s.ExclusiveMinimum != nil {
		out["exclusiveMinimum"] = exclusiveBoundaryToAny(s.ExclusiveMinimum)
	}

	if s.MaxLength != nil {
		out["maxLength"] = *s.MaxLength
	}
	if s.MinLength != nil {
		out["minLength"] = *s.MinLength
	}
	if s.Pattern != nil {
		out["pattern"] = *s.Pattern
	}
	if s.MaxItems != nil {
		out["maxItems"] = *s.MaxItems
	}
	if s.MinItems != nil {
		out["minItems"] = *s.MinItems
	}
	if s.UniqueItems != nil {
		out["uniqueItems"] = *s.UniqueItems
	}
	if s.MaxProperties != nil {
		out["maxProperties"] = *s.MaxProperties
	}
	if s.MinProperties != nil {
		out["minProperties"] = *s.MinProperties
	}
	if len(s.Required) > 0 {
		arr := make([]any, len(s.Required))
		for i, r := range s.Required {
			arr[i] = r
		}
		out["required"] = arr
	}

	if s.Title != nil {
		out["title"] = *s.Title
	}
	if s.Description != nil {
		out["description"] = *s.Description
	}
	if s.Default != nil {
		out["default"] = s.Default
	}
	if len(s.Examples) > 0 {
		out["examples"] = s.Examples
	}

	for k, v := range s.Extra {
		out[k] = v
	}

	return out
}

func ratToAny(r *Rat) any {
	if r.IsInt() {
		return r.Num().Int64()
	}
	f, _ := r.Float64()
	return f
}

func exclusiveBoundaryToAny(b *ExclusiveBoundary) any {
	if b.Kind == BoolForm {
		return b.Bool
	}
	return ratToAny(b.Num)
}
