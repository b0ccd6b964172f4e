package jsonschema

import (
	"sync"

	"github.com/goccy/go-json"
	"github.com/goccy/go-yaml"
)

// FormatDef defines a custom format validation rule.
type FormatDef struct {
	// Type restricts which JSON Schema instance type this format applies
	// to ("string", "number", ...); empty means it applies to all types.
	Type string

	Validate func(any) bool
}

// Compiler owns the JSON/YAML codec configuration and the custom-format
// registry shared across a group of schemas. It holds no $ref resolution
// state of its own — that is the SchemataPool's job (see pool.go) — and it
// never fetches anything over the network.
type Compiler struct {
	DefaultBaseURI string

	jsonEncoder func(v any) ([]byte, error)
	jsonDecoder func(data []byte, v any) error

	customFormats   map[string]*FormatDef
	customFormatsRW sync.RWMutex
}

// NewCompiler creates a Compiler with the goccy/go-json codec.
func NewCompiler() *Compiler {
	return &Compiler{
		customFormats: make(map[string]*FormatDef),
		jsonEncoder:   func(v any) ([]byte, error) { return json.Marshal(v) },
		jsonDecoder:   func(data []byte, v any) error { return json.Unmarshal(data, v) },
	}
}

// WithEncoderJSON configures a custom JSON encoder implementation.
func (c *Compiler) WithEncoderJSON(encoder func(v any) ([]byte, error)) *Compiler {
	c.jsonEncoder = encoder
	return c
}

// WithDecoderJSON configures a custom JSON decoder implementation.
func (c *Compiler) WithDecoderJSON(decoder func(data []byte, v any) error) *Compiler {
	c.jsonDecoder = decoder
	return c
}

// SetDefaultBaseURI sets the base URI used when a root schema carries no
// $id of its own.
func (c *Compiler) SetDefaultBaseURI(baseURI string) *Compiler {
	c.DefaultBaseURI = baseURI
	return c
}

// Compile decodes jsonSchema and initializes it (URI/baseURI composition
// and nested-schema walk) without resolving any $ref — resolution is
// explicit, via CollectIds/ResolveRef, so a schema can be compiled
// before every schema it references has been loaded into a pool.
func (c *Compiler) Compile(jsonSchema []byte, uris ...string) (*Schema, error) {
	schema, err := DecodeSchema(jsonSchema)
	if err != nil {
		return nil, err
	}
	if schema.ID == "" && len(uris) > 0 {
		schema.ID = uris[0]
	}
	schema.initializeSchema(c, nil)
	if err := schema.validateRegexSyntax(); err != nil {
		return nil, err
	}
	return schema, nil
}

// CompileYAML decodes a YAML schema document via goccy/go-yaml, converts
// it to the generic any-tree DecodeSchemaValue expects, then compiles it
// exactly as Compile does for JSON. This is the alternate schema-document
// front door; draft-6 content-media-type handling for instance values is
// out of scope.
func (c *Compiler) CompileYAML(yamlSchema []byte, uris ...string) (*Schema, error) {
	var value any
	if err := yaml.Unmarshal(yamlSchema, &value); err != nil {
		return nil, ErrYAMLUnmarshal
	}
	schema, err := DecodeSchemaValue(value)
	if err != nil {
		return nil, err
	}
	if schema.ID == "" && len(uris) > 0 {
		schema.ID = uris[0]
	}
	schema.initializeSchema(c, nil)
	if err := schema.validateRegexSyntax(); err != nil {
		return nil, err
	}
	return schema, nil
}

// RegisterFormat registers a custom format validator. The optional
// typeName restricts it to a single instance type.
func (c *Compiler) RegisterFormat(name string, validator func(any) bool, typeName ...string) *Compiler {
	c.customFormatsRW.Lock()
	defer c.customFormatsRW.Unlock()

	var t string
	if len(typeName) > 0 {
		t = typeName[0]
	}
	c.customFormats[name] = &FormatDef{Type: t, Validate: validator}
	return c
}

// UnregisterFormat removes a custom format.
func (c *Compiler) UnregisterFormat(name string) *Compiler {
	c.customFormatsRW.Lock()
	defer c.customFormatsRW.Unlock()
	delete(c.customFormats, name)
	return c
}

func (c *Compiler) getCustomFormat(name string) (*FormatDef, bool) {
	c.customFormatsRW.RLock()
	defer c.customFormatsRW.RUnlock()
	f, ok := c.customFormats[name]
	return f, ok
}
