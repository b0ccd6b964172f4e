package jsonschema

import (
	"net/url"
	"strconv"

	"github.com/kaptinlin/jsonpointer"
)

// ParsePointer splits an RFC 6901 JSON Pointer into its unescaped
// reference tokens, delegating ~0/~1 escaping to kaptinlin/jsonpointer.
func ParsePointer(pointer string) []string {
	return jsonpointer.Parse(pointer)
}

// FormatPointer joins reference tokens back into an RFC 6901 JSON
// Pointer string.
func FormatPointer(tokens ...string) string {
	return jsonpointer.Format(tokens...)
}

// navigateSchema walks a JSON Pointer's tokens through a Schema tree,
// following only the keywords that can own a subschema at that position
// (properties/<name>, items/<index>, definitions/<name>, and so on). It
// is used by $ref resolution (resolve.go); the auxiliary value locator
// (locator.go) walks the schema with its own propertySchema/itemSchema.
func navigateSchema(root *Schema, pointer string) (*Schema, *ResolveError) {
	if pointer == "" || pointer == "/" {
		return root, nil
	}
	tokens := ParsePointer(pointer)
	for i, rawToken := range tokens {
		decoded, err := url.PathUnescape(rawToken)
		if err != nil {
			return nil, &ResolveError{Code: ResolveBadPointer, Pointer: pointer}
		}
		tokens[i] = decoded
	}
	next, ok := schemaKeywordChild(root, tokens[0], tokens[1:])
	if !ok {
		return nil, &ResolveError{Code: ResolveNotFound, Pointer: pointer}
	}
	return next, nil
}

// schemaKeywordChild resolves the first token of a pointer against the
// schema-level keywords that can host a subschema, consuming as many
// subsequent tokens as the keyword needs (e.g. "properties"/"name", or
// "items"/"0").
func schemaKeywordChild(s *Schema, keyword string, rest []string) (*Schema, bool) {
	need := func(n int) bool { return len(rest) >= n }

	switch keyword {
	case "properties":
		if need(1) && s.Properties != nil {
			if child, ok := s.Properties.Get(rest[0]); ok {
				return navigateRemainder(child, rest[1:])
			}
		}
	case "patternProperties":
		if need(1) && s.PatternProperties != nil {
			if child, ok := s.PatternProperties.Get(rest[0]); ok {
				return navigateRemainder(child, rest[1:])
			}
		}
	case "additionalProperties":
		if s.AdditionalProperties != nil {
			return navigateRemainder(s.AdditionalProperties, rest)
		}
	case "propertyNames":
		if s.PropertyNames != nil {
			return navigateRemainder(s.PropertyNames, rest)
		}
	case "definitions":
		if need(1) {
			if child, ok := s.Defs[rest[0]]; ok {
				return navigateRemainder(child, rest[1:])
			}
		}
	case "items":
		if s.Items == nil {
			return nil, false
		}
		switch s.Items.Kind {
		case ItemDefinition:
			return navigateRemainder(s.Items.Single, rest)
		case ArrayOfItems:
			if need(1) {
				idx, err := strconv.Atoi(rest[0])
				if err == nil && idx >= 0 && idx < len(s.Items.Tuple) {
					return navigateRemainder(s.Items.Tuple[idx], rest[1:])
				}
			}
		}
	case "additionalItems":
		if s.AdditionalItems != nil {
			return navigateRemainder(s.AdditionalItems, rest)
		}
	case "contains":
		if s.Contains != nil {
			return navigateRemainder(s.Contains, rest)
		}
	case "not":
		if s.Not != nil {
			return navigateRemainder(s.Not, rest)
		}
	case "allOf", "anyOf", "oneOf":
		if need(1) {
			idx, err := strconv.Atoi(rest[0])
			if err != nil {
				return nil, false
			}
			var list []*Schema
			switch keyword {
			case "allOf":
				list = s.AllOf
			case "anyOf":
				list = s.AnyOf
			case "oneOf":
				list = s.OneOf
			}
			if idx >= 0 && idx < len(list) {
				return navigateRemainder(list[idx], rest[1:])
			}
		}
	case "dependencies":
		if need(1) {
			if dep, ok := s.Dependencies[rest[0]]; ok && dep.Kind == PropSchema {
				return navigateRemainder(dep.Schema, rest[1:])
			}
		}
	}
	return nil, false
}

func navigateRemainder(s *Schema, rest []string) (*Schema, bool) {
	if s == nil {
		return nil, false
	}
	if len(rest) == 0 {
		return s, true
	}
	next, ok := schemaKeywordChild(s, rest[0], rest[1:])
	return next, ok
}
