package jsonschema

import "strconv"

// LocateError reports why LocateAndSet could not place a value.
type LocateError struct {
	Pointer string
	Reason  string
}

func (e *LocateError) Error() string {
	return "cannot set value at " + e.Pointer + ": " + e.Reason
}

// LocateAndSet is the auxiliary write path the draft-6 source's legacy
// "setValue" helper implied but the core validator never needed: it
// locates the subschema at pointer within schema — resolving "$ref" and
// picking the first "anyOf"/"oneOf" branch whose "type" accepts value's
// JSON kind — then places value at that pointer inside a copy of
// instance, creating intermediate objects or arrays as the schema along
// the way dictates. instance may be nil, in which case the whole
// structure is built from scratch.
//
// It does not validate the result; call Validate separately if that
// matters to the caller.
func LocateAndSet(pool *SchemataPool, ns string, schema *Schema, instance any, pointer string, value any) (any, error) {
	tokens := ParsePointer(pointer)
	return locateAndSet(pool, ns, schema, instance, tokens, value, pointer)
}

func locateAndSet(pool *SchemataPool, ns string, schema *Schema, instance any, tokens []string, value any, fullPointer string) (any, error) {
	schema = resolveSchemaChain(pool, ns, schema)

	if len(tokens) == 0 {
		return value, nil
	}

	token := tokens[0]
	rest := tokens[1:]

	if instance == nil {
		switch containerKindForSchema(schema, token) {
		case "array":
			instance = []any{}
		default:
			instance = map[string]any{}
		}
	}

	switch inst := instance.(type) {
	case map[string]any:
		childSchema := selectBranch(propertySchema(schema, token), value)
		newChild, err := locateAndSet(pool, ns, childSchema, inst[token], rest, value, fullPointer)
		if err != nil {
			return nil, err
		}
		out := make(map[string]any, len(inst)+1)
		for k, v := range inst {
			out[k] = v
		}
		out[token] = newChild
		return out, nil

	case []any:
		idx, err := strconv.Atoi(token)
		if err != nil || idx < 0 {
			return nil, &LocateError{Pointer: fullPointer, Reason: "array index token is not a non-negative integer: " + token}
		}
		out := make([]any, len(inst))
		copy(out, inst)
		for len(out) <= idx {
			out = append(out, nil)
		}
		childSchema := selectBranch(itemSchema(schema, idx), value)
		newChild, err := locateAndSet(pool, ns, childSchema, out[idx], rest, value, fullPointer)
		if err != nil {
			return nil, err
		}
		out[idx] = newChild
		return out, nil

	default:
		return nil, &LocateError{Pointer: fullPointer, Reason: "cannot descend into a non-container value"}
	}
}

// resolveSchemaChain follows "$ref" until it reaches a schema with no
// ref of its own, bounded so a cyclic schema cannot loop forever.
func resolveSchemaChain(pool *SchemataPool, ns string, schema *Schema) *Schema {
	for i := 0; schema != nil && !schema.IsBoolean() && schema.Ref != "" && i < 64; i++ {
		next, err := ResolveRef(pool, ns, schema.Ref)
		if err != nil {
			return schema
		}
		schema = next
	}
	return schema
}

// selectBranch picks the first anyOf/oneOf branch whose "type" accepts
// value's JSON kind, falling back to schema itself when there is no
// combinator, no match, or no schema at all.
func selectBranch(schema *Schema, value any) *Schema {
	if schema == nil || schema.IsBoolean() {
		return schema
	}
	kind := getDataType(value)
	for _, candidates := range [][]*Schema{schema.AnyOf, schema.OneOf} {
		for _, branch := range candidates {
			if branch == nil || branch.IsBoolean() {
				continue
			}
			if branch.Type == nil || branch.Type.Kind == AnyType {
				return branch
			}
			for _, name := range branch.Type.Names {
				if name == kind || (name == "number" && kind == "integer") {
					return branch
				}
			}
		}
		if len(candidates) > 0 {
			// No branch matched value's kind: fall through to the outer
			// schema rather than guessing.
			return schema
		}
	}
	return schema
}

func propertySchema(schema *Schema, name string) *Schema {
	if schema == nil || schema.IsBoolean() || schema.Properties == nil {
		return nil
	}
	child, _ := schema.Properties.Get(name)
	return child
}

func itemSchema(schema *Schema, idx int) *Schema {
	if schema == nil || schema.IsBoolean() || schema.Items == nil {
		return nil
	}
	switch schema.Items.Kind {
	case ItemDefinition:
		return schema.Items.Single
	case ArrayOfItems:
		if idx < len(schema.Items.Tuple) {
			return schema.Items.Tuple[idx]
		}
		return schema.AdditionalItems
	}
	return nil
}

// containerKindForSchema guesses whether the container that should hold
// token is an array or an object, from the schema's declared type, or
// from the token's own shape (a non-negative integer suggests an array
// index) when the schema is silent.
func containerKindForSchema(schema *Schema, token string) string {
	if schema != nil && !schema.IsBoolean() && schema.Type != nil {
		for _, name := range schema.Type.Names {
			if name == "array" {
				return "array"
			}
			if name == "object" {
				return "object"
			}
		}
	}
	if idx, err := strconv.Atoi(token); err == nil && idx >= 0 {
		return "array"
	}
	return "object"
}
