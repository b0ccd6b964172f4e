package jsonschema

import (
	"fmt"
	"reflect"
	"sort"

	"github.com/goccy/go-json"
)

// evaluateType checks the instance's runtime kind against schema.Type's
// accepted name set. It returns nil on success or a params map describing
// the mismatch (used to build a ValidationError by the caller).
func evaluateType(schema *Schema, instance any) map[string]any {
	if schema.Type == nil || schema.Type.Kind == AnyType {
		return nil
	}
	actual := getDataType(instance)
	for _, name := range schema.Type.Names {
		if name == actual {
			return nil
		}
		// "number" schemas also accept instances classified as "integer".
		if name == "number" && actual == "integer" {
			return nil
		}
	}
	return map[string]any{"expected": schema.Type.Names, "actual": actual}
}

// evaluateEnum reports the instance as a non-match when it is
// structurally unequal (see normalizeValue) to every member of
// schema.Enum.
func evaluateEnum(schema *Schema, instance any) map[string]any {
	if len(schema.Enum) == 0 {
		return nil
	}
	got, err := normalizeValue(instance)
	if err != nil {
		return map[string]any{"value": instance}
	}
	for _, candidate := range schema.Enum {
		if want, err := normalizeValue(candidate); err == nil && want == got {
			return nil
		}
	}
	return map[string]any{"value": instance}
}

// evaluateConst reports the instance as a mismatch when it is
// structurally unequal to schema.Const.Value.
func evaluateConst(schema *Schema, instance any) map[string]any {
	if schema.Const == nil {
		return nil
	}
	got, err1 := normalizeValue(instance)
	want, err2 := normalizeValue(schema.Const.Value)
	if err1 != nil || err2 != nil || got != want {
		return map[string]any{"value": instance}
	}
	return nil
}

// normalizeValue renders v into a canonical string such that two JSON
// values are structurally equal (same kind; numbers by numeric value;
// arrays pairwise; objects as key->value maps, independent of key
// order) iff their normalized forms are equal. Used by enum, const and
// uniqueItems, all of which the specification defines via the same
// structural-equality notion rather than Go's reflect.DeepEqual (which
// would, for instance, distinguish float64(1) from json.Number("1")).
func normalizeValue(v any) (string, error) {
	switch x := v.(type) {
	case nil:
		return "null", nil
	case bool:
		if x {
			return "b:true", nil
		}
		return "b:false", nil
	case string:
		return "s:" + x, nil
	case float64:
		return "n:" + fmt.Sprintf("%g", x), nil
	case float32:
		return "n:" + fmt.Sprintf("%g", float64(x)), nil
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		// rendered as float64 so an int and the equal float64 share a key.
		f, _ := NewRat(x).Float64()
		return "n:" + fmt.Sprintf("%g", f), nil
	case json.Number:
		return "n:" + x.String(), nil
	case []any:
		parts := make([]string, len(x))
		for i, item := range x {
			p, err := normalizeValue(item)
			if err != nil {
				return "", err
			}
			parts[i] = p
		}
		return "a:[" + joinComma(parts) + "]", nil
	case map[string]any:
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, len(keys))
		for i, k := range keys {
			p, err := normalizeValue(x[k])
			if err != nil {
				return "", err
			}
			parts[i] = k + ":" + p
		}
		return "o:{" + joinComma(parts) + "}", nil
	default:
		return normalizeReflect(v)
	}
}

// normalizeReflect handles the uncommon case of a typed Go slice/map
// (rather than []any/map[string]any) reaching normalizeValue, falling
// back to the value's JSON encoding for anything else so the function
// always terminates with a deterministic string.
func normalizeReflect(v any) (string, error) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		parts := make([]string, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			p, err := normalizeValue(rv.Index(i).Interface())
			if err != nil {
				return "", err
			}
			parts[i] = p
		}
		return "a:[" + joinComma(parts) + "]", nil
	case reflect.Map:
		keys := rv.MapKeys()
		names := make([]string, len(keys))
		for i, k := range keys {
			names[i] = fmt.Sprint(k.Interface())
		}
		sort.Strings(names)
		lookup := make(map[string]any, len(keys))
		for _, k := range keys {
			lookup[fmt.Sprint(k.Interface())] = rv.MapIndex(k).Interface()
		}
		parts := make([]string, len(names))
		for i, name := range names {
			p, err := normalizeValue(lookup[name])
			if err != nil {
				return "", err
			}
			parts[i] = name + ":" + p
		}
		return "o:{" + joinComma(parts) + "}", nil
	}

	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return "j:" + string(data), nil
}

func joinComma(parts []string) string {
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += ","
		}
		out += p
	}
	return out
}

// applyDefaults returns a copy of instance with, for every object node,
// any property named by a "properties" entry that is both missing from
// the instance and has a "default" filled in from that default. Arrays
// and already-present properties are walked but never overwritten.
func (ev *evaluator) applyDefaults(s *Schema, instance any) any {
	if s == nil || s.IsBoolean() {
		return instance
	}

	switch v := instance.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, val := range v {
			out[k] = val
		}
		if s.Properties != nil {
			for _, name := range s.Properties.Keys {
				sub, _ := s.Properties.Get(name)
				if sub == nil {
					continue
				}
				if existing, ok := out[name]; ok {
					out[name] = ev.applyDefaults(sub, existing)
					continue
				}
				if sub.Default != nil {
					out[name] = ev.applyDefaults(sub, sub.Default)
				}
			}
		}
		return out
	case []any:
		if s.Items == nil {
			return v
		}
		out := make([]any, len(v))
		for i, item := range v {
			switch s.Items.Kind {
			case ItemDefinition:
				out[i] = ev.applyDefaults(s.Items.Single, item)
			case ArrayOfItems:
				if i < len(s.Items.Tuple) {
					out[i] = ev.applyDefaults(s.Items.Tuple[i], item)
				} else {
					out[i] = item
				}
			default:
				out[i] = item
			}
		}
		return out
	default:
		return instance
	}
}
