package jsonschema

import (
	"math/big"
	"regexp"
	"sort"
	"strconv"
)

// Validate checks instance against sub, a schema reachable through pool
// (the pool must already contain every schema sub's $refs can reach —
// see CollectIds). The namespace sub itself resolves under is taken
// from pool.RootNamespace(), the key CollectIds stored the root schema
// under (its own "$id" when it has one), so a bare (non-URI) "$id" like "root" addresses the same pool entries
// on both the collecting and the validating side.
func Validate(opts ValidationOptions, pool *SchemataPool, instance any, sub *Schema) *Result {
	opts = opts.applyDefaultsToZero()
	ev := &evaluator{opts: opts, pool: pool, pending: map[string]bool{}}

	out := instance
	if opts.ApplyDefaults {
		out = ev.applyDefaults(sub, instance)
	}

	errs := ev.eval(sub, pool.RootNamespace(), out, "", 0)
	return &Result{Instance: out, Errors: errs}
}

// evaluator carries the state threaded through one top-level Validate
// call: the read-only pool, the options, and the $ref cycle guard.
type evaluator struct {
	opts    ValidationOptions
	pool    *SchemataPool
	pending map[string]bool
}

// childPointer appends one reference token to an already-formatted JSON
// Pointer, delegating ~0/~1 escaping to the same jsonpointer package used
// for $ref navigation.
func childPointer(pointer, token string) string {
	return FormatPointer(append(ParsePointer(pointer), token)...)
}

// eval is the recursive dispatch described by spec.md §4.5: boolean
// shortcuts, then $ref precedence, then the keyword groups in a fixed
// order so error sequences stay stable across runs.
func (ev *evaluator) eval(s *Schema, ns string, instance any, pointer string, depth int) []*ValidationError {
	if s == nil {
		return nil
	}
	if depth > ev.opts.MaxDepth {
		return []*ValidationError{newErr(pointer, "", RecursionLimit, nil)}
	}

	if s.IsBoolean() {
		if s.BooleanValue() {
			return nil
		}
		return []*ValidationError{newErr(pointer, "", AlwaysFail, nil)}
	}

	var errs []*ValidationError
	if s.Ref != "" {
		refErrs, handled := ev.evalRef(s, ns, instance, pointer, depth)
		if handled {
			errs = refErrs
		} else {
			// ignoreRefSiblingKeywords is false: also validate the
			// sibling keywords on this same subschema.
			errs = append(errs, refErrs...)
			errs = append(errs, ev.evalKeywords(s, ns, instance, pointer, depth)...)
		}
	} else {
		errs = ev.evalKeywords(s, ns, instance, pointer, depth)
	}

	annotateSchemaLocation(s, errs)
	return errs
}

// annotateSchemaLocation stamps every not-yet-located error produced at
// this node with s's own GetSchemaLocation, so an error surfaced from
// deep inside a $ref/combinator chain still names the schema node that
// rejected it, not just the instance pointer. A schema built directly
// via DecodeSchema (never passed through Compiler.Compile) has no URI of
// its own and leaves SchemaLocation empty, same as before this existed.
func annotateSchemaLocation(s *Schema, errs []*ValidationError) {
	loc := s.GetSchemaURI()
	if loc == "" {
		return
	}
	for _, e := range errs {
		if e.SchemaLocation == "" {
			e.SchemaLocation = s.GetSchemaLocation("")
		}
	}
}

// evalRef resolves and validates against a "$ref" target. handled is
// false only when IgnoreRefSiblingKeywords is off, signaling the caller
// to also run the sibling keywords.
func (ev *evaluator) evalRef(s *Schema, ns string, instance any, pointer string, depth int) (errs []*ValidationError, handled bool) {
	key := ns + "|" + s.Ref + "|" + pointer
	if ev.pending[key] {
		// Same (ref, instance location) already being validated further
		// up the call stack: this is the recursive-schema case, treat as
		// success rather than expand forever.
		return nil, ev.opts.IgnoreRefSiblingKeywords
	}

	target, rerr := ResolveRef(ev.pool, ns, s.Ref)
	if rerr != nil {
		return []*ValidationError{newErr(pointer, "$ref", UnresolvableReference, map[string]any{"ref": s.Ref})}, ev.opts.IgnoreRefSiblingKeywords
	}

	ev.pending[key] = true
	defer delete(ev.pending, key)

	// The target's own namespace is whatever base ref's non-fragment part
	// resolved to against ns — the same computation ResolveRef performs
	// internally — since target itself may carry no "$id" of its own.
	targetNS := ns
	if base, _ := splitRef(s.Ref); base != "" {
		if isAbsoluteURI(base) {
			targetNS = base
		} else {
			targetNS = resolveRelativeURI(ns, base)
		}
	}
	errs = ev.eval(target, targetNS, instance, pointer, depth+1)
	return errs, ev.opts.IgnoreRefSiblingKeywords
}

// evalKeywords applies every keyword group to an already-ref-resolved
// (or ref-less) subschema node.
func (ev *evaluator) evalKeywords(s *Schema, ns string, instance any, pointer string, depth int) []*ValidationError {
	var errs []*ValidationError

	if err := evaluateType(s, instance); err != nil {
		errs = append(errs, newErr(pointer, "type", InvalidType, err))
	}
	if err := evaluateEnum(s, instance); err != nil {
		errs = append(errs, newErr(pointer, "enum", NotInEnum, err))
	}
	if err := evaluateConst(s, instance); err != nil {
		errs = append(errs, newErr(pointer, "const", NotConst, err))
	}

	switch v := instance.(type) {
	case float64:
		errs = append(errs, ev.evalNumeric(s, v, pointer)...)
	case string:
		errs = append(errs, ev.evalString(s, v, pointer)...)
	case []any:
		errs = append(errs, ev.evalArray(s, ns, v, pointer, depth)...)
	case map[string]any:
		errs = append(errs, ev.evalObject(s, ns, v, pointer, depth)...)
	}

	errs = append(errs, ev.evalCombinators(s, ns, instance, pointer, depth)...)

	return errs
}

// evalCombinators handles allOf/anyOf/oneOf/not, each validating the
// full instance against the indicated subschemas at the same pointer.
func (ev *evaluator) evalCombinators(s *Schema, ns string, instance any, pointer string, depth int) []*ValidationError {
	var errs []*ValidationError

	for i, sub := range s.AllOf {
		if sub == nil {
			continue
		}
		subErrs := ev.eval(sub, subNamespace(sub, ns), instance, pointer, depth+1)
		if len(subErrs) > 0 {
			errs = append(errs, newErr(pointer, "allOf", AllOfFailed, map[string]any{"branch": i, "inner": subErrs}))
		}
	}

	if len(s.AnyOf) > 0 {
		var allBranchErrs []*ValidationError
		matched := false
		for _, sub := range s.AnyOf {
			if sub == nil {
				continue
			}
			subErrs := ev.eval(sub, subNamespace(sub, ns), instance, pointer, depth+1)
			if len(subErrs) == 0 {
				matched = true
				break
			}
			allBranchErrs = append(allBranchErrs, subErrs...)
		}
		if !matched {
			errs = append(errs, newErr(pointer, "anyOf", AnyOfFailed, map[string]any{"branches": allBranchErrs}))
		}
	}

	if len(s.OneOf) > 0 {
		var matchedIndices []int
		for i, sub := range s.OneOf {
			if sub == nil {
				continue
			}
			if subErrs := ev.eval(sub, subNamespace(sub, ns), instance, pointer, depth+1); len(subErrs) == 0 {
				matchedIndices = append(matchedIndices, i)
			}
		}
		switch len(matchedIndices) {
		case 1:
			// exactly one match: success
		case 0:
			errs = append(errs, newErr(pointer, "oneOf", OneOfNoneMatch, nil))
		default:
			errs = append(errs, newErr(pointer, "oneOf", OneOfManyMatch, map[string]any{"indices": matchedIndices}))
		}
	}

	if s.Not != nil {
		if subErrs := ev.eval(s.Not, subNamespace(s.Not, ns), instance, pointer, depth+1); len(subErrs) == 0 {
			errs = append(errs, newErr(pointer, "not", NotDisallowed, nil))
		}
	}

	return errs
}

// subNamespace computes the namespace a child schema validates under,
// mirroring collectIds exactly so a bare (non-URI) "$id" resolves to the
// same pool key on both the collecting and the validating side.
func subNamespace(sub *Schema, parentNS string) string {
	if sub == nil || sub.IsBoolean() || sub.ID == "" {
		return parentNS
	}
	if isValidURI(sub.ID) {
		return sub.ID
	}
	return resolveRelativeURI(parentNS, sub.ID)
}

// evalNumeric applies multipleOf/maximum/exclusiveMaximum/minimum/
// exclusiveMinimum. It only runs for instance values decoded as
// float64, which is how both integers and non-integers arrive once
// parsed by encoding/json-compatible decoders.
func (ev *evaluator) evalNumeric(s *Schema, v float64, pointer string) []*ValidationError {
	var errs []*ValidationError
	value := NewRat(v)
	if value == nil {
		return nil
	}

	if s.MultipleOf != nil {
		if !isMultipleOf(value, s.MultipleOf) {
			errs = append(errs, newErr(pointer, "multipleOf", MultipleOf, map[string]any{"multipleOf": ratToAny(s.MultipleOf)}))
		}
	}
	if s.Maximum != nil && value.Cmp(s.Maximum.Rat) > 0 {
		errs = append(errs, newErr(pointer, "maximum", Maximum, map[string]any{"maximum": ratToAny(s.Maximum)}))
	}
	if s.Minimum != nil && value.Cmp(s.Minimum.Rat) < 0 {
		errs = append(errs, newErr(pointer, "minimum", Minimum, map[string]any{"minimum": ratToAny(s.Minimum)}))
	}
	if s.ExclusiveMaximum != nil {
		switch s.ExclusiveMaximum.Kind {
		case NumberForm:
			if value.Cmp(s.ExclusiveMaximum.Num.Rat) >= 0 {
				errs = append(errs, newErr(pointer, "exclusiveMaximum", ExclusiveMaximum, map[string]any{"exclusiveMaximum": ratToAny(s.ExclusiveMaximum.Num)}))
			}
		case BoolForm:
			if s.ExclusiveMaximum.Bool && s.Maximum != nil && value.Cmp(s.Maximum.Rat) >= 0 {
				errs = append(errs, newErr(pointer, "exclusiveMaximum", ExclusiveMaximum, map[string]any{"exclusiveMaximum": ratToAny(s.Maximum)}))
			}
		}
	}
	if s.ExclusiveMinimum != nil {
		switch s.ExclusiveMinimum.Kind {
		case NumberForm:
			if value.Cmp(s.ExclusiveMinimum.Num.Rat) <= 0 {
				errs = append(errs, newErr(pointer, "exclusiveMinimum", ExclusiveMinimum, map[string]any{"exclusiveMinimum": ratToAny(s.ExclusiveMinimum.Num)}))
			}
		case BoolForm:
			if s.ExclusiveMinimum.Bool && s.Minimum != nil && value.Cmp(s.Minimum.Rat) <= 0 {
				errs = append(errs, newErr(pointer, "exclusiveMinimum", ExclusiveMinimum, map[string]any{"exclusiveMinimum": ratToAny(s.Minimum)}))
			}
		}
	}
	return errs
}

// isMultipleOf reports whether value/m is exactly an integer, using
// rational arithmetic on the numbers' shortest decimal forms so 0.1's
// binary imprecision never produces a false MultipleOf failure.
func isMultipleOf(value, m *Rat) bool {
	if m.Sign() == 0 {
		return false
	}
	quotient := new(big.Rat).Quo(value.Rat, m.Rat)
	return quotient.IsInt()
}

// evalString applies maxLength/minLength (counted in Unicode code
// points)/pattern/format.
func (ev *evaluator) evalString(s *Schema, v string, pointer string) []*ValidationError {
	var errs []*ValidationError
	length := float64(len([]rune(v)))

	if s.MaxLength != nil && length > *s.MaxLength {
		errs = append(errs, newErr(pointer, "maxLength", MaxLength, map[string]any{"maxLength": *s.MaxLength}))
	}
	if s.MinLength != nil && length < *s.MinLength {
		errs = append(errs, newErr(pointer, "minLength", MinLength, map[string]any{"minLength": *s.MinLength}))
	}
	if s.Pattern != nil {
		if re, err := s.compiledPattern(); err == nil && !re.MatchString(v) {
			errs = append(errs, newErr(pointer, "pattern", Pattern, map[string]any{"pattern": *s.Pattern}))
		}
	}
	if s.Format != nil && ev.opts.EnabledFormats[*s.Format] {
		if validator, ok := Formats[*s.Format]; ok {
			if !validator(v) {
				errs = append(errs, newErr(pointer, "format", Format, map[string]any{"format": *s.Format}))
			}
		} else if def, ok := s.GetCompiler().getCustomFormat(*s.Format); ok {
			if (def.Type == "" || def.Type == "string") && !def.Validate(v) {
				errs = append(errs, newErr(pointer, "format", Format, map[string]any{"format": *s.Format}))
			}
		}
	}
	return errs
}

// evalArray applies items/additionalItems/maxItems/minItems/
// uniqueItems/contains.
func (ev *evaluator) evalArray(s *Schema, ns string, v []any, pointer string, depth int) []*ValidationError {
	var errs []*ValidationError

	if s.Items != nil {
		switch s.Items.Kind {
		case ItemDefinition:
			for i, item := range v {
				errs = append(errs, ev.eval(s.Items.Single, subNamespace(s.Items.Single, ns), item, childPointer(pointer, strconv.Itoa(i)), depth+1)...)
			}
		case ArrayOfItems:
			for i, item := range v {
				itemPointer := childPointer(pointer, strconv.Itoa(i))
				if i < len(s.Items.Tuple) {
					errs = append(errs, ev.eval(s.Items.Tuple[i], subNamespace(s.Items.Tuple[i], ns), item, itemPointer, depth+1)...)
					continue
				}
				switch {
				case s.AdditionalItems == nil:
					// absent: additional elements pass unconstrained
				case s.AdditionalItems.IsBoolean():
					if !s.AdditionalItems.BooleanValue() {
						errs = append(errs, newErr(itemPointer, "additionalItems", AdditionalItemsDisallowed, map[string]any{"index": i}))
					}
				default:
					errs = append(errs, ev.eval(s.AdditionalItems, subNamespace(s.AdditionalItems, ns), item, itemPointer, depth+1)...)
				}
			}
		}
	}

	count := float64(len(v))
	if s.MaxItems != nil && count > *s.MaxItems {
		errs = append(errs, newErr(pointer, "maxItems", MaxItems, map[string]any{"maxItems": *s.MaxItems}))
	}
	if s.MinItems != nil && count < *s.MinItems {
		errs = append(errs, newErr(pointer, "minItems", MinItems, map[string]any{"minItems": *s.MinItems}))
	}
	if s.UniqueItems != nil && *s.UniqueItems {
		if a, b, dup := firstDuplicate(v); dup {
			errs = append(errs, newErr(pointer, "uniqueItems", NotUnique, map[string]any{"indexA": a, "indexB": b}))
		}
	}
	if s.Contains != nil {
		found := false
		for _, item := range v {
			if len(ev.eval(s.Contains, subNamespace(s.Contains, ns), item, pointer, depth+1)) == 0 {
				found = true
				break
			}
		}
		if !found {
			errs = append(errs, newErr(pointer, "contains", Contains, nil))
		}
	}

	return errs
}

func firstDuplicate(v []any) (a, b int, found bool) {
	seen := make(map[string]int, len(v))
	for i, item := range v {
		key, err := normalizeValue(item)
		if err != nil {
			continue
		}
		if prior, ok := seen[key]; ok {
			return prior, i, true
		}
		seen[key] = i
	}
	return 0, 0, false
}

// evalObject applies required/properties/patternProperties/
// additionalProperties/maxProperties/minProperties/dependencies/
// propertyNames.
func (ev *evaluator) evalObject(s *Schema, ns string, v map[string]any, pointer string, depth int) []*ValidationError {
	var errs []*ValidationError

	// "required" may repeat a name syntactically; validation treats it as
	// a set, so a repeated name still produces exactly one error.
	reportedMissing := make(map[string]bool, len(s.Required))
	for _, name := range s.Required {
		if _, ok := v[name]; !ok && !reportedMissing[name] {
			reportedMissing[name] = true
			errs = append(errs, newErr(pointer, "required", Required, map[string]any{"key": name}))
		}
	}

	matched := make(map[string]bool, len(v))

	if s.Properties != nil {
		for _, name := range s.Properties.Keys {
			value, ok := v[name]
			if !ok {
				continue
			}
			matched[name] = true
			sub, _ := s.Properties.Get(name)
			errs = append(errs, ev.eval(sub, subNamespace(sub, ns), value, childPointer(pointer, name), depth+1)...)
		}
	}

	if s.PatternProperties != nil {
		for _, pattern := range s.PatternProperties.Keys {
			sub, _ := s.PatternProperties.Get(pattern)
			re, err := s.compiledPatternProperty(pattern)
			if err != nil {
				continue
			}
			for _, key := range sortedKeys(v) {
				if !re.MatchString(key) {
					continue
				}
				matched[key] = true
				errs = append(errs, ev.eval(sub, subNamespace(sub, ns), v[key], childPointer(pointer, key), depth+1)...)
			}
		}
	}

	if s.AdditionalProperties != nil {
		keys := sortedKeys(v)
		for _, key := range keys {
			if matched[key] {
				continue
			}
			if s.AdditionalProperties.IsBoolean() {
				if !s.AdditionalProperties.BooleanValue() {
					errs = append(errs, newErr(childPointer(pointer, key), "additionalProperties", AdditionalPropertiesDisallowed, map[string]any{"name": key}))
				}
				continue
			}
			errs = append(errs, ev.eval(s.AdditionalProperties, subNamespace(s.AdditionalProperties, ns), v[key], childPointer(pointer, key), depth+1)...)
		}
	}

	if s.PropertyNames != nil {
		for _, key := range sortedKeys(v) {
			errs = append(errs, ev.eval(s.PropertyNames, subNamespace(s.PropertyNames, ns), key, pointer, depth+1)...)
		}
	}

	count := float64(len(v))
	if s.MaxProperties != nil && count > *s.MaxProperties {
		errs = append(errs, newErr(pointer, "maxProperties", MaxProperties, map[string]any{"maxProperties": *s.MaxProperties}))
	}
	if s.MinProperties != nil && count < *s.MinProperties {
		errs = append(errs, newErr(pointer, "minProperties", MinProperties, map[string]any{"minProperties": *s.MinProperties}))
	}

	for _, name := range sortedDependencyKeys(s.Dependencies) {
		if _, present := v[name]; !present {
			continue
		}
		dep := s.Dependencies[name]
		switch dep.Kind {
		case ArrayPropNames:
			for _, req := range dep.Props {
				if _, ok := v[req]; !ok {
					errs = append(errs, newErr(pointer, "dependencies", Required, map[string]any{"key": req}))
				}
			}
		case PropSchema:
			errs = append(errs, ev.eval(dep.Schema, subNamespace(dep.Schema, ns), v, pointer, depth+1)...)
		}
	}

	return errs
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedDependencyKeys(deps map[string]*Dependency) []string {
	keys := make([]string, 0, len(deps))
	for k := range deps {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// compiledPattern lazily compiles and caches s.Pattern under
// s.compiledStringPattern, shared by every instance this schema
// validates. validateRegexSyntax (run at compile time) guarantees this
// only fails for patterns assembled outside the normal Compile path.
func (s *Schema) compiledPattern() (*regexp.Regexp, error) {
	if s.compiledStringPattern != nil {
		return s.compiledStringPattern, nil
	}
	re, err := regexp.Compile(*s.Pattern)
	if err != nil {
		return nil, err
	}
	s.compiledStringPattern = re
	return re, nil
}

// compiledPatternProperty lazily compiles and caches one
// patternProperties key under s.compiledPatterns.
func (s *Schema) compiledPatternProperty(pattern string) (*regexp.Regexp, error) {
	if s.compiledPatterns == nil {
		s.compiledPatterns = make(map[string]*regexp.Regexp)
	}
	if re, ok := s.compiledPatterns[pattern]; ok {
		return re, nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}
	s.compiledPatterns[pattern] = re
	return re, nil
}
