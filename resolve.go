package jsonschema

import "strings"

// ResolveCode enumerates the closed set of reasons $ref resolution can
// fail; a failure never aborts Validate, it surfaces as a single
// UnresolvableReference validation error at the point of use.
type ResolveCode string

const (
	ResolveNotFound   ResolveCode = "NamespaceNotFound"
	ResolveBadPointer ResolveCode = "BadPointer"
	ResolveCycle      ResolveCode = "Cycle"
)

// ResolveError reports why ResolveRef could not locate the schema a $ref
// pointed at.
type ResolveError struct {
	Code    ResolveCode
	Ref     string
	Pointer string
}

func (e *ResolveError) Error() string {
	switch e.Code {
	case ResolveBadPointer:
		return "invalid JSON pointer segment in reference: " + e.Ref
	case ResolveCycle:
		return "cyclic reference: " + e.Ref
	default:
		return "unresolvable reference: " + e.Ref
	}
}

// ResolveRef implements the draft-6 $ref algorithm: split ref into a
// namespace part and a fragment part, resolve the namespace against ns
// (the referring schema's own namespace) to an absolute URI, look that
// URI up in pool, then apply the fragment — either a JSON Pointer (when
// it starts with "/") or a plain-name anchor (an $id ending in that
// fragment, already present in pool under its own composed namespace).
func ResolveRef(pool *SchemataPool, ns, ref string) (*Schema, *ResolveError) {
	if ref == "#" {
		root, ok := pool.Get(pool.RootNamespace())
		if !ok {
			return nil, &ResolveError{Code: ResolveNotFound, Ref: ref}
		}
		return root, nil
	}

	base, fragment := splitRef(ref)

	targetNS := ns
	if base != "" {
		if isAbsoluteURI(base) {
			targetNS = base
		} else {
			targetNS = resolveRelativeURI(ns, base)
		}
	}

	target, ok := pool.Get(targetNS)
	if !ok {
		// A fragment-only ref ("#/foo") resolves against the current
		// namespace itself.
		if base == "" {
			target, ok = pool.Get(ns)
		}
		if !ok {
			return nil, &ResolveError{Code: ResolveNotFound, Ref: ref}
		}
	}

	if fragment == "" {
		return target, nil
	}
	if strings.HasPrefix(fragment, "/") {
		schema, rerr := navigateSchema(target, fragment)
		if rerr != nil {
			rerr.Ref = ref
			return nil, rerr
		}
		return schema, nil
	}

	// Plain-name fragment: an $id of the form "<namespace>#<name>" was
	// collected under its own composed namespace by CollectIds.
	anchoredNS := targetNS + "#" + fragment
	if schema, ok := pool.Get(anchoredNS); ok {
		return schema, nil
	}
	return nil, &ResolveError{Code: ResolveNotFound, Ref: ref}
}
