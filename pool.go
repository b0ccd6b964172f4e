package jsonschema

// SchemataPool is a read-only-after-build, namespace-keyed collection of
// every schema reachable from a root, indexed by every $id it (or a
// descendant) declares plus the root's own synthetic namespace. It is
// built once by IdCollector and then shared across any number of Validate
// calls — nothing in RefResolver or Validate mutates it.
type SchemataPool struct {
	byURI    map[string]*Schema
	anchors  map[string]map[string]*Schema // uri -> anchor name -> schema
	rootNS   string
	resolved map[*Schema]string // schema -> namespace it was collected under
}

func newSchemataPool(rootNS string) *SchemataPool {
	return &SchemataPool{
		byURI:    make(map[string]*Schema),
		anchors:  make(map[string]map[string]*Schema),
		rootNS:   rootNS,
		resolved: make(map[*Schema]string),
	}
}

func (p *SchemataPool) put(uri string, s *Schema) {
	if _, exists := p.byURI[uri]; !exists {
		p.byURI[uri] = s
	}
	p.resolved[s] = uri
}

func (p *SchemataPool) putAnchor(uri, anchor string, s *Schema) {
	if p.anchors[uri] == nil {
		p.anchors[uri] = make(map[string]*Schema)
	}
	if _, exists := p.anchors[uri][anchor]; !exists {
		p.anchors[uri][anchor] = s
	}
}

// Get looks up a schema by its exact namespace key.
func (p *SchemataPool) Get(uri string) (*Schema, bool) {
	s, ok := p.byURI[uri]
	return s, ok
}

// RootNamespace returns the namespace the root schema of this pool was
// collected under.
func (p *SchemataPool) RootNamespace() string {
	return p.rootNS
}

// CollectIds walks root (and every schema nested within it via every
// applicator keyword) and returns a SchemataPool mapping every namespace
// introduced by an "$id" to the subschema that declared it, plus the
// synthetic root namespace used when root has no $id of its own.
//
// Ids are collected from the decoded tree rather than from raw JSON, since
// by the time CollectIds runs every subschema has already been through
// DecodeSchema and so already carries its own ID field; this mirrors the
// teacher's initializeSchemaCore walk, generalized into an explicit,
// reusable pool rather than a side effect of compilation.
func CollectIds(root *Schema, rootNamespace string) *SchemataPool {
	if rootNamespace == "" {
		rootNamespace = "#"
	}

	// The pool's root namespace must be the same key collectIds will put
	// the root schema under, even when the root carries its own "$id" —
	// otherwise RootNamespace() would point at a key the pool never
	// populates.
	effectiveRootNS := rootNamespace
	if root != nil && !root.IsBoolean() && root.ID != "" {
		if isValidURI(root.ID) {
			effectiveRootNS = root.ID
		} else {
			effectiveRootNS = resolveRelativeURI(rootNamespace, root.ID)
		}
	}

	pool := newSchemataPool(effectiveRootNS)
	collectIds(root, rootNamespace, pool)
	return pool
}

func collectIds(s *Schema, ns string, pool *SchemataPool) {
	if s == nil || s.IsBoolean() {
		if s != nil {
			pool.put(ns, s)
		}
		return
	}

	effectiveNS := ns
	if s.ID != "" {
		if isValidURI(s.ID) {
			effectiveNS = s.ID
		} else {
			effectiveNS = resolveRelativeURI(ns, s.ID)
		}
	}
	pool.put(effectiveNS, s)

	for _, def := range s.Defs {
		collectIds(def, effectiveNS, pool)
	}
	for _, sub := range s.AllOf {
		collectIds(sub, effectiveNS, pool)
	}
	for _, sub := range s.AnyOf {
		collectIds(sub, effectiveNS, pool)
	}
	for _, sub := range s.OneOf {
		collectIds(sub, effectiveNS, pool)
	}
	if s.Not != nil {
		collectIds(s.Not, effectiveNS, pool)
	}
	if s.Items != nil {
		switch s.Items.Kind {
		case ItemDefinition:
			collectIds(s.Items.Single, effectiveNS, pool)
		case ArrayOfItems:
			for _, item := range s.Items.Tuple {
				collectIds(item, effectiveNS, pool)
			}
		}
	}
	if s.AdditionalItems != nil {
		collectIds(s.AdditionalItems, effectiveNS, pool)
	}
	if s.Contains != nil {
		collectIds(s.Contains, effectiveNS, pool)
	}
	if s.Properties != nil {
		for _, key := range s.Properties.Keys {
			collectIds(s.Properties.Values[key], effectiveNS, pool)
		}
	}
	if s.PatternProperties != nil {
		for _, key := range s.PatternProperties.Keys {
			collectIds(s.PatternProperties.Values[key], effectiveNS, pool)
		}
	}
	if s.AdditionalProperties != nil {
		collectIds(s.AdditionalProperties, effectiveNS, pool)
	}
	if s.PropertyNames != nil {
		collectIds(s.PropertyNames, effectiveNS, pool)
	}
	for _, dep := range s.Dependencies {
		if dep.Kind == PropSchema {
			collectIds(dep.Schema, effectiveNS, pool)
		}
	}
}
