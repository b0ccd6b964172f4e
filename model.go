package jsonschema

import (
	"regexp"
)

// knownSchemaFields contains every keyword this draft-6 implementation
// understands. Anything else found on a schema object is preserved
// verbatim in Extra rather than dropped.
var knownSchemaFields = map[string]struct{}{
	"$id": {},
	// legacy draft-4-style "id" (no leading "$"): consulted only when
	// "$id" is absent, see decodeObjectSchema.
	"id":          {},
	"$schema":     {},
	"$ref":        {},
	"definitions": {},
	"$comment":    {},

	"allOf": {}, "anyOf": {}, "oneOf": {}, "not": {},
	"items": {}, "additionalItems": {}, "contains": {},
	"properties": {}, "patternProperties": {}, "additionalProperties": {}, "propertyNames": {},
	"dependencies": {},

	"type": {}, "enum": {}, "const": {},
	"multipleOf": {}, "maximum": {}, "exclusiveMaximum": {}, "minimum": {}, "exclusiveMinimum": {},
	"maxLength": {}, "minLength": {}, "pattern": {},
	"maxItems": {}, "minItems": {}, "uniqueItems": {},
	"maxProperties": {}, "minProperties": {}, "required": {},

	"format": {},

	"title": {}, "description": {}, "default": {}, "examples": {},
}

// Schema is the closed sum type Boolean|Object described by the data
// model: a schema value is either a plain bool (always-pass/always-fail)
// or an object carrying keywords.
type Schema struct {
	compiledPatterns      map[string]*regexp.Regexp
	compiler              *Compiler
	parent                *Schema
	uri                   string
	baseURI               string
	compiledStringPattern *regexp.Regexp

	// source carries the parsed value this schema was decoded from, used
	// by EncodeSchema so a round trip keeps every keyword regardless of
	// which typed fields this version of the engine understands.
	source any

	// Boolean holds the value when this Schema is the boolean form; nil
	// when it is an object schema.
	Boolean *bool `json:"-"`

	ID     string  `json:"$id,omitempty"`
	Schema string  `json:"$schema,omitempty"`
	Ref    string  `json:"$ref,omitempty"`
	Format *string `json:"format,omitempty"`

	Defs map[string]*Schema `json:"definitions,omitempty"`

	AllOf []*Schema `json:"allOf,omitempty"`
	AnyOf []*Schema `json:"anyOf,omitempty"`
	OneOf []*Schema `json:"oneOf,omitempty"`
	Not   *Schema   `json:"not,omitempty"`

	// Items is the draft-6 items sum type: NoItems | ItemDefinition(schema
	// applies to every element) | ArrayOfItems(schema per position).
	Items           *Items  `json:"items,omitempty"`
	AdditionalItems *Schema `json:"additionalItems,omitempty"`
	Contains        *Schema `json:"contains,omitempty"`

	Properties           *SchemaMap `json:"properties,omitempty"`
	PatternProperties    *SchemaMap `json:"patternProperties,omitempty"`
	AdditionalProperties *Schema    `json:"additionalProperties,omitempty"`
	PropertyNames        *Schema    `json:"propertyNames,omitempty"`

	// Dependencies is the draft-6 unified keyword: each property name maps
	// to either an array of required property names or a subschema.
	Dependencies map[string]*Dependency `json:"dependencies,omitempty"`

	// Type is the closed sum type AnyType | SingleType | NullableType |
	// UnionType, see DecodeSchema for how the four shapes are recognized.
	Type  *Type       `json:"type,omitempty"`
	Enum  []any       `json:"enum,omitempty"`
	Const *ConstValue `json:"const,omitempty"`

	MultipleOf       *Rat `json:"multipleOf,omitempty"`
	Maximum          *Rat `json:"maximum,omitempty"`
	ExclusiveMaximum *ExclusiveBoundary `json:"exclusiveMaximum,omitempty"`
	Minimum          *Rat `json:"minimum,omitempty"`
	ExclusiveMinimum *ExclusiveBoundary `json:"exclusiveMinimum,omitempty"`

	MaxLength *float64 `json:"maxLength,omitempty"`
	MinLength *float64 `json:"minLength,omitempty"`
	Pattern   *string  `json:"pattern,omitempty"`

	MaxItems    *float64 `json:"maxItems,omitempty"`
	MinItems    *float64 `json:"minItems,omitempty"`
	UniqueItems *bool    `json:"uniqueItems,omitempty"`

	MaxProperties *float64 `json:"maxProperties,omitempty"`
	MinProperties *float64 `json:"minProperties,omitempty"`
	Required      []string `json:"required,omitempty"`

	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Default     any     `json:"default,omitempty"`
	Examples    []any   `json:"examples,omitempty"`

	// Extra preserves keywords this engine does not recognize, keyed by
	// name, so a decode/encode round trip never silently drops data.
	Extra map[string]any `json:"-"`
}

// ItemsKind discriminates the draft-6 Items sum type.
type ItemsKind int

const (
	// NoItems means the "items" keyword was absent.
	NoItems ItemsKind = iota
	// ItemDefinition means "items" held a single schema applying to every
	// array element.
	ItemDefinition
	// ArrayOfItems means "items" held an array of schemas, one per
	// positional index; elements beyond the array's length are governed
	// by additionalItems.
	ArrayOfItems
)

// Items is the closed sum type for the draft-6 "items" keyword.
type Items struct {
	Kind   ItemsKind
	Single *Schema   // set when Kind == ItemDefinition
	Tuple  []*Schema // set when Kind == ArrayOfItems
}

// TypeKind discriminates the draft-6 Type sum type.
type TypeKind int

const (
	// AnyType means the "type" keyword was absent; any instance type is
	// accepted by this keyword (other keywords may still constrain it).
	AnyType TypeKind = iota
	// SingleType means "type" held exactly one primitive name, either as a
	// bare string or as a one-element array.
	SingleType
	// NullableType means "type" held a two-element array whose second
	// member (order-independent) was "null" — sugar for UnionType{X,null}.
	NullableType
	// UnionType means "type" held an array of more than the nullable
	// special case, i.e. a general set of acceptable primitive names.
	UnionType
)

// Type is the closed sum type for the draft-6 "type" keyword. Names is
// always populated with the literal set of accepted JSON Schema primitive
// type names, sorted and without duplicates, regardless of Kind — Kind
// records which of the three shapes the names form. A one-element array
// decodes to SingleType, so a schema encoded from its typed fields writes
// it back as a bare string.
type Type struct {
	Kind  TypeKind
	Names []string
}

// DependencyKind discriminates the draft-6 Dependency sum type.
type DependencyKind int

const (
	// ArrayPropNames means the dependency value was an array of required
	// property names.
	ArrayPropNames DependencyKind = iota
	// PropSchema means the dependency value was a (sub)schema.
	PropSchema
)

// Dependency is the closed sum type for one entry of the draft-6
// "dependencies" keyword.
type Dependency struct {
	Kind   DependencyKind
	Props  []string // set when Kind == ArrayPropNames
	Schema *Schema  // set when Kind == PropSchema
}

// ExclusiveBoundaryKind discriminates the draft-4-compatible bool-or-number
// form of exclusiveMinimum/exclusiveMaximum that draft-6 still accepts.
type ExclusiveBoundaryKind int

const (
	// BoolForm is the draft-4 form: a bare true/false modifying the
	// sibling minimum/maximum keyword.
	BoolForm ExclusiveBoundaryKind = iota
	// NumberForm is the draft-6 form: a standalone numeric boundary.
	NumberForm
)

// ExclusiveBoundary is the closed sum type for exclusiveMinimum/
// exclusiveMaximum, which draft-6 accepts in either its own numeric form
// or the legacy draft-4 boolean form.
type ExclusiveBoundary struct {
	Kind ExclusiveBoundaryKind
	Bool bool
	Num  *Rat
}

// ConstValue wraps the "const" keyword's value so its presence (a
// non-nil *ConstValue whose Value may legitimately be nil, for JSON
// null) is distinguishable from its absence (a nil *ConstValue).
type ConstValue struct {
	Value any
}

// SchemaMap is an insertion-ordered map of property name to schema, used
// by "properties" and "patternProperties". The decoder inserts names in
// sorted order (the parsed source object does not keep the document's key
// order), so validation visits them in the same order on every run.
type SchemaMap struct {
	Keys   []string
	Values map[string]*Schema
}

// NewSchemaMap returns an empty, ready-to-use SchemaMap.
func NewSchemaMap() *SchemaMap {
	return &SchemaMap{Values: make(map[string]*Schema)}
}

// Set inserts or overwrites the schema for key, appending to Keys only on
// first insertion so existing order is preserved.
func (m *SchemaMap) Set(key string, schema *Schema) {
	if _, exists := m.Values[key]; !exists {
		m.Keys = append(m.Keys, key)
	}
	m.Values[key] = schema
}

// Get returns the schema for key and whether it was present.
func (m *SchemaMap) Get(key string) (*Schema, bool) {
	s, ok := m.Values[key]
	return s, ok
}

// Len returns the number of entries.
func (m *SchemaMap) Len() int {
	if m == nil {
		return 0
	}
	return len(m.Keys)
}

// IsBoolean reports whether this schema is the boolean-valued form.
func (s *Schema) IsBoolean() bool {
	return s != nil && s.Boolean != nil
}

// BooleanValue returns the boolean schema's value; callers must check
// IsBoolean first.
func (s *Schema) BooleanValue() bool {
	return s.Boolean != nil && *s.Boolean
}
