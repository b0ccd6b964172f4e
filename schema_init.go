package jsonschema

import (
	"errors"
	"regexp"
	"slices"
	"strconv"

	"github.com/kaptinlin/jsonpointer"
)

var defaultCompiler = NewCompiler()

// initializeSchema sets up URI/baseURI composition and the recursive
// nested-schema walk; it registers no anchors. It never resolves $ref —
// that is left to ResolveRef so a schema can be initialized before
// every schema it points at exists in a pool.
func (s *Schema) initializeSchema(compiler *Compiler, parent *Schema) {
	if compiler != nil {
		s.compiler = compiler
	}
	s.parent = parent

	effectiveCompiler := s.GetCompiler()

	parentBaseURI := s.getParentBaseURI()
	if parentBaseURI == "" {
		parentBaseURI = effectiveCompiler.DefaultBaseURI
	}

	if s.ID != "" {
		if isValidURI(s.ID) {
			s.uri = s.ID
			s.baseURI = getBaseURI(s.ID)
		} else {
			resolved := resolveRelativeURI(parentBaseURI, s.ID)
			s.uri = resolved
			s.baseURI = getBaseURI(resolved)
		}
	} else {
		s.baseURI = parentBaseURI
	}

	if s.baseURI == "" && s.uri != "" && isValidURI(s.uri) {
		s.baseURI = getBaseURI(s.uri)
	}

	initializeNestedSchemas(s, compiler)
}

// initializeNestedSchemas recurses into every applicator keyword that can
// carry a child schema, per the draft-6 keyword set.
func initializeNestedSchemas(s *Schema, compiler *Compiler) {
	initChild := func(child *Schema) {
		if child != nil {
			child.initializeSchema(compiler, s)
		}
	}

	for _, def := range s.Defs {
		initChild(def)
	}
	for _, schema := range s.AllOf {
		initChild(schema)
	}
	for _, schema := range s.AnyOf {
		initChild(schema)
	}
	for _, schema := range s.OneOf {
		initChild(schema)
	}
	initChild(s.Not)

	if s.Items != nil {
		switch s.Items.Kind {
		case ItemDefinition:
			initChild(s.Items.Single)
		case ArrayOfItems:
			for _, item := range s.Items.Tuple {
				initChild(item)
			}
		}
	}
	initChild(s.AdditionalItems)
	initChild(s.Contains)

	if s.Properties != nil {
		for _, key := range s.Properties.Keys {
			initChild(s.Properties.Values[key])
		}
	}
	if s.PatternProperties != nil {
		for _, key := range s.PatternProperties.Keys {
			initChild(s.PatternProperties.Values[key])
		}
	}
	initChild(s.AdditionalProperties)
	initChild(s.PropertyNames)

	for _, dep := range s.Dependencies {
		if dep.Kind == PropSchema {
			initChild(dep.Schema)
		}
	}
}

// validateRegexSyntax walks pattern and patternProperties keywords and
// reports any that are not valid Go RE2 syntax.
func (s *Schema) validateRegexSyntax() error {
	if s == nil {
		return nil
	}
	visited := make(map[*Schema]bool)
	errs := s.collectRegexErrors(nil, visited)
	if len(errs) == 0 {
		return nil
	}
	return errors.Join(append([]error{ErrRegexValidation}, errs...)...)
}

func (s *Schema) collectRegexErrors(pathTokens []string, visited map[*Schema]bool) []error {
	if s == nil || visited[s] {
		return nil
	}
	visited[s] = true

	var errs []error

	if s.Pattern != nil {
		if err := compilePattern(*s.Pattern); err != nil {
			tokens := slices.Concat(pathTokens, []string{"pattern"})
			errs = append(errs, &RegexPatternError{Keyword: "pattern", Location: "#" + jsonpointer.Format(tokens...), Pattern: *s.Pattern, Err: err})
		}
	}
	if s.PatternProperties != nil {
		for _, pattern := range s.PatternProperties.Keys {
			tokens := slices.Concat(pathTokens, []string{"patternProperties", pattern})
			if err := compilePattern(pattern); err != nil {
				errs = append(errs, &RegexPatternError{Keyword: "patternProperties", Location: "#" + jsonpointer.Format(tokens...), Pattern: pattern, Err: err})
				continue
			}
			errs = append(errs, s.PatternProperties.Values[pattern].collectRegexErrors(tokens, visited)...)
		}
	}

	addSchema := func(child *Schema, token string) {
		if child == nil {
			return
		}
		errs = append(errs, child.collectRegexErrors(slices.Concat(pathTokens, []string{token}), visited)...)
	}
	addSchemaSlice := func(children []*Schema, prefix string) {
		for i, child := range children {
			errs = append(errs, child.collectRegexErrors(slices.Concat(pathTokens, []string{prefix, strconv.Itoa(i)}), visited)...)
		}
	}

	if s.Properties != nil {
		for _, key := range s.Properties.Keys {
			errs = append(errs, s.Properties.Values[key].collectRegexErrors(slices.Concat(pathTokens, []string{"properties", key}), visited)...)
		}
	}
	for key, def := range s.Defs {
		errs = append(errs, def.collectRegexErrors(slices.Concat(pathTokens, []string{"definitions", key}), visited)...)
	}
	for key, dep := range s.Dependencies {
		if dep.Kind == PropSchema {
			errs = append(errs, dep.Schema.collectRegexErrors(slices.Concat(pathTokens, []string{"dependencies", key}), visited)...)
		}
	}

	addSchema(s.AdditionalProperties, "additionalProperties")
	addSchema(s.PropertyNames, "propertyNames")
	addSchema(s.Contains, "contains")
	addSchema(s.Not, "not")
	addSchema(s.AdditionalItems, "additionalItems")
	if s.Items != nil {
		switch s.Items.Kind {
		case ItemDefinition:
			addSchema(s.Items.Single, "items")
		case ArrayOfItems:
			addSchemaSlice(s.Items.Tuple, "items")
		}
	}

	addSchemaSlice(s.AllOf, "allOf")
	addSchemaSlice(s.AnyOf, "anyOf")
	addSchemaSlice(s.OneOf, "oneOf")

	return errs
}

func compilePattern(pattern string) error {
	if pattern == "" {
		return nil
	}
	_, err := regexp.Compile(pattern)
	return err
}

// GetSchemaURI returns the resolved URI for this schema, falling back to
// the root schema's URI.
func (s *Schema) GetSchemaURI() string {
	if s.uri != "" {
		return s.uri
	}
	if root := s.getRootSchema(); root.uri != "" {
		return root.uri
	}
	return ""
}

// GetSchemaLocation renders a schema-location string for an error: this
// schema's URI plus the given fragment.
func (s *Schema) GetSchemaLocation(fragment string) string {
	return s.GetSchemaURI() + "#" + fragment
}

func (s *Schema) getRootSchema() *Schema {
	if s.parent != nil {
		return s.parent.getRootSchema()
	}
	return s
}

func (s *Schema) getParentBaseURI() string {
	for p := s.parent; p != nil; p = p.parent {
		if p.baseURI != "" {
			return p.baseURI
		}
	}
	return ""
}

// SetCompiler attaches a Compiler to this schema.
func (s *Schema) SetCompiler(compiler *Compiler) *Schema {
	s.compiler = compiler
	return s
}

// GetCompiler returns the effective Compiler, looking up through parents
// and falling back to a package-level default.
func (s *Schema) GetCompiler() *Compiler {
	if s.compiler != nil {
		return s.compiler
	}
	if s.parent != nil {
		return s.parent.GetCompiler()
	}
	return defaultCompiler
}
