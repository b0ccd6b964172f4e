package jsonschema

import (
	"fmt"

	"github.com/goccy/go-json"
)

// DecodeCode enumerates the closed set of reasons a schema document can
// fail to decode into the data model.
type DecodeCode string

const (
	DecodeInvalidJSON        DecodeCode = "InvalidJSON"
	DecodeInvalidType        DecodeCode = "InvalidSchemaType"
	DecodeEmptyEnum          DecodeCode = "EmptyEnum"
	DecodeDuplicateEnumValue DecodeCode = "DuplicateEnumValue"
	DecodeEmptyCombinator    DecodeCode = "EmptyCombinator"
	DecodeInvalidItems       DecodeCode = "InvalidItems"
	DecodeInvalidDependency  DecodeCode = "InvalidDependency"
	DecodeInvalidExclusive   DecodeCode = "InvalidExclusiveBoundary"
	DecodeInvalidNumber      DecodeCode = "InvalidNumber"
	DecodeNegativeCount      DecodeCode = "NegativeCount"
)

// DecodeError reports why DecodeSchema/DecodeSchemaValue rejected a
// document; decoding is all-or-nothing, so only one is ever returned.
type DecodeError struct {
	Code    DecodeCode
	Pointer string
	Detail  string
}

func (e *DecodeError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s at %s: %s", e.Code, e.Pointer, e.Detail)
	}
	return fmt.Sprintf("%s at %s", e.Code, e.Pointer)
}

func decodeErr(code DecodeCode, pointer, detail string) *DecodeError {
	if pointer == "" {
		pointer = "#"
	}
	return &DecodeError{Code: code, Pointer: pointer, Detail: detail}
}

// DecodeSchema parses raw JSON bytes and decodes the result into the
// draft-6 data model. JSON parsing itself is delegated to
// goccy/go-json; DecodeSchema's own job starts once that parse
// has produced a generic any-tree.
func DecodeSchema(data []byte) (*Schema, *DecodeError) {
	var value any
	if err := json.Unmarshal(data, &value); err != nil {
		return nil, decodeErr(DecodeInvalidJSON, "#", err.Error())
	}
	return DecodeSchemaValue(value)
}

// DecodeSchemaValue decodes an already-parsed JSON value (the caller is
// expected to have parsed it; this package never shells out to a JSON
// parser of its own beyond the convenience DecodeSchema wrapper above).
func DecodeSchemaValue(value any) (*Schema, *DecodeError) {
	return decodeSchemaAt(value, "")
}

func decodeSchemaAt(value any, pointer string) (*Schema, *DecodeError) {
	switch v := value.(type) {
	case bool:
		b := v
		return &Schema{Boolean: &b, source: v}, nil
	case map[string]any:
		return decodeObjectSchema(v, pointer)
	default:
		return nil, decodeErr(DecodeInvalidType, pointer, "schema must be a boolean or an object")
	}
}

func decodeObjectSchema(m map[string]any, pointer string) (*Schema, *DecodeError) {
	s := &Schema{source: m, Extra: make(map[string]any)}

	for key, raw := range m {
		if _, known := knownSchemaFields[key]; !known {
			s.Extra[key] = raw
			continue
		}
	}
	if len(s.Extra) == 0 {
		s.Extra = nil
	}

	if v, ok := m["$id"].(string); ok {
		s.ID = v
	} else if v, ok := m["id"].(string); ok {
		// legacy draft-4-style "id": only consulted when "$id" is absent.
		s.ID = v
	}
	if v, ok := m["$schema"].(string); ok {
		s.Schema = v
	}
	if v, ok := m["$ref"].(string); ok {
		s.Ref = v
	}
	if v, ok := m["format"].(string); ok {
		s.Format = &v
	}
	if v, ok := m["title"].(string); ok {
		s.Title = &v
	}
	if v, ok := m["description"].(string); ok {
		s.Description = &v
	}
	if v, ok := m["default"]; ok {
		s.Default = v
	}
	if v, ok := m["examples"].([]any); ok {
		s.Examples = v
	}
	if v, ok := m["pattern"].(string); ok {
		s.Pattern = &v
	}

	if v, ok := m["definitions"].(map[string]any); ok {
		defs := make(map[string]*Schema, len(v))
		for name, sub := range v {
			child, derr := decodeSchemaAt(sub, pointer+"/definitions/"+name)
			if derr != nil {
				return nil, derr
			}
			defs[name] = child
		}
		s.Defs = defs
	}

	decodeList := func(key string) ([]*Schema, *DecodeError) {
		raw, ok := m[key].([]any)
		if !ok {
			return nil, nil
		}
		if len(raw) == 0 {
			return nil, decodeErr(DecodeEmptyCombinator, pointer+"/"+key, key+" must not be empty")
		}
		out := make([]*Schema, len(raw))
		for i, item := range raw {
			child, derr := decodeSchemaAt(item, fmt.Sprintf("%s/%s/%d", pointer, key, i))
			if derr != nil {
				return nil, derr
			}
			out[i] = child
		}
		return out, nil
	}

	var derr *DecodeError
	if s.AllOf, derr = decodeList("allOf"); derr != nil {
		return nil, derr
	}
	if s.AnyOf, derr = decodeList("anyOf"); derr != nil {
		return nil, derr
	}
	if s.OneOf, derr = decodeList("oneOf"); derr != nil {
		return nil, derr
	}
	if raw, ok := m["not"]; ok {
		if s.Not, derr = decodeSchemaAt(raw, pointer+"/not"); derr != nil {
			return nil, derr
		}
	}

	if err := decodeItemsKeyword(s, m, pointer); err != nil {
		return nil, err
	}
	if raw, ok := m["contains"]; ok {
		if s.Contains, derr = decodeSchemaAt(raw, pointer+"/contains"); derr != nil {
			return nil, derr
		}
	}

	if err := decodeSchemaMapField(&s.Properties, m, "properties", pointer); err != nil {
		return nil, err
	}
	if err := decodeSchemaMapField(&s.PatternProperties, m, "patternProperties", pointer); err != nil {
		return nil, err
	}
	if raw, ok := m["additionalProperties"]; ok {
		if s.AdditionalProperties, derr = decodeSchemaAt(raw, pointer+"/additionalProperties"); derr != nil {
			return nil, derr
		}
	}
	if raw, ok := m["propertyNames"]; ok {
		if s.PropertyNames, derr = decodeSchemaAt(raw, pointer+"/propertyNames"); derr != nil {
			return nil, derr
		}
	}

	if err := decodeDependenciesKeyword(s, m, pointer); err != nil {
		return nil, err
	}

	if err := decodeTypeKeyword(s, m, pointer); err != nil {
		return nil, err
	}
	if err := decodeEnumKeyword(s, m, pointer); err != nil {
		return nil, err
	}
	if raw, ok := m["const"]; ok {
		s.Const = &ConstValue{Value: raw}
	}

	if err := decodeNumericKeywords(s, m, pointer); err != nil {
		return nil, err
	}

	for _, count := range []struct {
		keyword string
		dest    **float64
	}{
		{"maxLength", &s.MaxLength},
		{"minLength", &s.MinLength},
		{"maxItems", &s.MaxItems},
		{"minItems", &s.MinItems},
		{"maxProperties", &s.MaxProperties},
		{"minProperties", &s.MinProperties},
	} {
		v, ok := toFloat64(m[count.keyword])
		if !ok {
			continue
		}
		if v < 0 {
			return nil, decodeErr(DecodeNegativeCount, pointer+"/"+count.keyword, count.keyword+" must not be negative")
		}
		*count.dest = &v
	}
	if v, ok := m["uniqueItems"].(bool); ok {
		s.UniqueItems = &v
	}

	if raw, ok := m["required"].([]any); ok {
		req := make([]string, 0, len(raw))
		for _, item := range raw {
			if str, ok := item.(string); ok {
				req = append(req, str)
			}
		}
		s.Required = req
	}

	return s, nil
}

func decodeSchemaMapField(dst **SchemaMap, m map[string]any, key, pointer string) *DecodeError {
	raw, ok := m[key].(map[string]any)
	if !ok {
		return nil
	}
	sm := NewSchemaMap()
	for _, name := range sortedKeys(raw) {
		child, derr := decodeSchemaAt(raw[name], pointer+"/"+key+"/"+name)
		if derr != nil {
			return derr
		}
		sm.Set(name, child)
	}
	*dst = sm
	return nil
}

func decodeItemsKeyword(s *Schema, m map[string]any, pointer string) *DecodeError {
	raw, ok := m["items"]
	if !ok {
		return nil
	}
	switch v := raw.(type) {
	case []any:
		tuple := make([]*Schema, len(v))
		for i, item := range v {
			child, derr := decodeSchemaAt(item, fmt.Sprintf("%s/items/%d", pointer, i))
			if derr != nil {
				return derr
			}
			tuple[i] = child
		}
		s.Items = &Items{Kind: ArrayOfItems, Tuple: tuple}
	default:
		child, derr := decodeSchemaAt(v, pointer+"/items")
		if derr != nil {
			return derr
		}
		s.Items = &Items{Kind: ItemDefinition, Single: child}
	}
	if raw, ok := m["additionalItems"]; ok {
		child, derr := decodeSchemaAt(raw, pointer+"/additionalItems")
		if derr != nil {
			return derr
		}
		s.AdditionalItems = child
	}
	return nil
}

func decodeDependenciesKeyword(s *Schema, m map[string]any, pointer string) *DecodeError {
	raw, ok := m["dependencies"].(map[string]any)
	if !ok {
		return nil
	}
	deps := make(map[string]*Dependency, len(raw))
	for name, v := range raw {
		depPointer := pointer + "/dependencies/" + name
		switch vv := v.(type) {
		case []any:
			props := make([]string, 0, len(vv))
			for _, item := range vv {
				str, ok := item.(string)
				if !ok {
					return decodeErr(DecodeInvalidDependency, depPointer, "array dependency entries must be strings")
				}
				props = append(props, str)
			}
			deps[name] = &Dependency{Kind: ArrayPropNames, Props: props}
		case bool, map[string]any:
			child, derr := decodeSchemaAt(vv, depPointer)
			if derr != nil {
				return derr
			}
			deps[name] = &Dependency{Kind: PropSchema, Schema: child}
		default:
			return decodeErr(DecodeInvalidDependency, depPointer, "dependency must be an array of names or a schema")
		}
	}
	s.Dependencies = deps
	return nil
}

var primitiveTypeNames = map[string]struct{}{
	"null": {}, "boolean": {}, "object": {}, "array": {}, "number": {}, "string": {}, "integer": {},
}

func decodeTypeKeyword(s *Schema, m map[string]any, pointer string) *DecodeError {
	raw, ok := m["type"]
	if !ok {
		return nil
	}
	switch v := raw.(type) {
	case string:
		if _, valid := primitiveTypeNames[v]; !valid {
			return decodeErr(DecodeInvalidType, pointer+"/type", "unknown primitive type name: "+v)
		}
		s.Type = &Type{Kind: SingleType, Names: []string{v}}
	case []any:
		if len(v) == 0 {
			return decodeErr(DecodeInvalidType, pointer+"/type", "type array must not be empty")
		}
		names := make([]string, 0, len(v))
		seen := make(map[string]bool, len(v))
		for _, item := range v {
			str, ok := item.(string)
			if !ok {
				return decodeErr(DecodeInvalidType, pointer+"/type", "type array entries must be strings")
			}
			if _, valid := primitiveTypeNames[str]; !valid {
				return decodeErr(DecodeInvalidType, pointer+"/type", "unknown primitive type name: "+str)
			}
			if seen[str] {
				continue
			}
			seen[str] = true
			names = append(names, str)
		}
		kind := UnionType
		if len(names) == 1 {
			kind = SingleType
		}
		if len(names) == 2 {
			for _, n := range names {
				if n == "null" {
					kind = NullableType
				}
			}
		}
		sortStrings(names)
		s.Type = &Type{Kind: kind, Names: names}
	default:
		return decodeErr(DecodeInvalidType, pointer+"/type", "type must be a string or an array of strings")
	}
	return nil
}

func sortStrings(s []string) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1] > s[j]; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}

func decodeEnumKeyword(s *Schema, m map[string]any, pointer string) *DecodeError {
	raw, ok := m["enum"].([]any)
	if !ok {
		return nil
	}
	if len(raw) == 0 {
		return decodeErr(DecodeEmptyEnum, pointer+"/enum", "enum must not be empty")
	}
	seen := make(map[string]int, len(raw))
	for i, v := range raw {
		key, err := normalizeValue(v)
		if err != nil {
			return decodeErr(DecodeInvalidType, fmt.Sprintf("%s/enum/%d", pointer, i), err.Error())
		}
		if prior, dup := seen[key]; dup {
			return decodeErr(DecodeDuplicateEnumValue, fmt.Sprintf("%s/enum/%d", pointer, i),
				fmt.Sprintf("duplicates enum value at index %d", prior))
		}
		seen[key] = i
	}
	s.Enum = raw
	return nil
}

func decodeNumericKeywords(s *Schema, m map[string]any, pointer string) *DecodeError {
	if raw, ok := m["multipleOf"]; ok {
		r, ok := numericToRat(raw)
		if !ok {
			return decodeErr(DecodeInvalidNumber, pointer+"/multipleOf", "multipleOf must be a number")
		}
		s.MultipleOf = r
	}
	if raw, ok := m["maximum"]; ok {
		r, ok := numericToRat(raw)
		if !ok {
			return decodeErr(DecodeInvalidNumber, pointer+"/maximum", "maximum must be a number")
		}
		s.Maximum = r
	}
	if raw, ok := m["minimum"]; ok {
		r, ok := numericToRat(raw)
		if !ok {
			return decodeErr(DecodeInvalidNumber, pointer+"/minimum", "minimum must be a number")
		}
		s.Minimum = r
	}
	if raw, ok := m["exclusiveMaximum"]; ok {
		b, derr := decodeExclusiveBoundary(raw, pointer+"/exclusiveMaximum")
		if derr != nil {
			return derr
		}
		s.ExclusiveMaximum = b
	}
	if raw, ok := m["exclusiveMinimum"]; ok {
		b, derr := decodeExclusiveBoundary(raw, pointer+"/exclusiveMinimum")
		if derr != nil {
			return derr
		}
		s.ExclusiveMinimum = b
	}
	return nil
}

func decodeExclusiveBoundary(raw any, pointer string) (*ExclusiveBoundary, *DecodeError) {
	switch v := raw.(type) {
	case bool:
		return &ExclusiveBoundary{Kind: BoolForm, Bool: v}, nil
	default:
		r, ok := numericToRat(v)
		if !ok {
			return nil, decodeErr(DecodeInvalidExclusive, pointer, "must be a boolean or a number")
		}
		return &ExclusiveBoundary{Kind: NumberForm, Num: r}, nil
	}
}

func numericToRat(v any) (*Rat, bool) {
	switch v.(type) {
	case float64, float32, int, int64, int32, string:
		r := NewRat(v)
		return r, r != nil
	default:
		return nil, false
	}
}

func toFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}
