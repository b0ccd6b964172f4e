package jsonschema

import "github.com/kaptinlin/go-i18n"

// Code enumerates the closed set of reasons an instance can fail
// validation. Unlike the decoder's DecodeCode (which aborts decoding),
// a Code is one entry in an accumulated list — validation never stops
// at the first failure.
type Code string

const (
	AlwaysFail                     Code = "AlwaysFail"
	InvalidType                    Code = "InvalidType"
	Required                       Code = "Required"
	NotInEnum                      Code = "NotInEnum"
	NotConst                       Code = "NotConst"
	MultipleOf                     Code = "MultipleOf"
	Maximum                        Code = "Maximum"
	ExclusiveMaximum               Code = "ExclusiveMaximum"
	Minimum                        Code = "Minimum"
	ExclusiveMinimum               Code = "ExclusiveMinimum"
	MaxLength                      Code = "MaxLength"
	MinLength                      Code = "MinLength"
	Pattern                        Code = "Pattern"
	Format                         Code = "Format"
	MaxItems                       Code = "MaxItems"
	MinItems                       Code = "MinItems"
	NotUnique                      Code = "NotUnique"
	Contains                       Code = "Contains"
	MaxProperties                  Code = "MaxProperties"
	MinProperties                  Code = "MinProperties"
	AdditionalPropertiesDisallowed Code = "AdditionalPropertiesDisallowed"
	AdditionalItemsDisallowed      Code = "AdditionalItemsDisallowed"
	PropertyNamesInvalid           Code = "PropertyNames"
	InvalidDependency              Code = "InvalidDependency"
	AllOfFailed                    Code = "AllOfFailed"
	AnyOfFailed                    Code = "AnyOfFailed"
	OneOfNoneMatch                 Code = "OneOfNoneMatch"
	OneOfManyMatch                 Code = "OneOfManyMatch"
	NotDisallowed                  Code = "NotDisallowed"
	UnresolvableReference          Code = "UnresolvableReference"
	RecursionLimit                 Code = "RecursionLimit"
)

// ValidationError is one entry in a Result's accumulated failure list.
// JSONPointer names the instance location; Details is the closed Code
// that drove this entry, and Params carries whatever that code needs to
// render a message (expected/actual types, missing key, indices, ...).
// SchemaLocation names the offending schema node's own URI (via
// Schema.GetSchemaLocation), populated only when the schema reached
// evalKeywords through Compiler.Compile (which resolves "$id"/baseURI);
// schemas built directly via DecodeSchema carry no such URI and leave it
// empty.
type ValidationError struct {
	JSONPointer    string
	Keyword        string
	Details        Code
	Params         map[string]any
	SchemaLocation string
}

func (e *ValidationError) Error() string {
	return replace(string(e.Details), e.Params)
}

// Localize renders this error's message through a go-i18n localizer keyed
// by Details, falling back to Error() when localizer is nil.
func (e *ValidationError) Localize(localizer *i18n.Localizer) string {
	if localizer == nil {
		return e.Error()
	}
	return localizer.Get(string(e.Details), i18n.Vars(e.Params))
}

func newErr(pointer, keyword string, details Code, params map[string]any) *ValidationError {
	return &ValidationError{JSONPointer: pointer, Keyword: keyword, Details: details, Params: params}
}

// Result is the outcome of a single Validate call: the instance (possibly
// a defaults-filled copy, see ValidationOptions.ApplyDefaults) and the
// ordered, possibly empty list of failures found against it.
type Result struct {
	Instance any
	Errors   []*ValidationError
}

// IsValid reports whether validation produced no errors.
func (r *Result) IsValid() bool {
	return len(r.Errors) == 0
}

func (r *Result) add(pointer, keyword string, details Code, params map[string]any) {
	r.Errors = append(r.Errors, newErr(pointer, keyword, details, params))
}

func (r *Result) absorb(other *Result) {
	if other == nil {
		return
	}
	r.Errors = append(r.Errors, other.Errors...)
}

// ValidationOptions governs the optional behaviors of Validate. The zero
// value is not ready to use; call DefaultValidationOptions to get the
// spec-mandated defaults, then override individual fields.
type ValidationOptions struct {
	// ApplyDefaults, when true, fills object properties missing from the
	// instance with their schema's "default" in the returned copy.
	ApplyDefaults bool

	// IgnoreRefSiblingKeywords, when true (the draft-6 default), means a
	// "$ref" makes every sibling keyword in the same subschema a no-op:
	// validation runs only against the referent.
	IgnoreRefSiblingKeywords bool

	// EnabledFormats is the set of format names "format" actually
	// enforces; names outside the set, and any name not in the format
	// registry at all, are ignored. Default: empty (format is inert).
	EnabledFormats map[string]bool

	// MaxDepth caps the nesting depth of subschema evaluation (every
	// descent into a child schema or a $ref target counts). Default: 128.
	MaxDepth int
}

// DefaultValidationOptions returns the spec-mandated defaults:
// IgnoreRefSiblingKeywords true, no enabled formats, MaxDepth 128.
func DefaultValidationOptions() ValidationOptions {
	return ValidationOptions{
		IgnoreRefSiblingKeywords: true,
		EnabledFormats:           map[string]bool{},
		MaxDepth:                 128,
	}
}

func (o ValidationOptions) applyDefaultsToZero() ValidationOptions {
	if o.MaxDepth == 0 {
		o.MaxDepth = 128
	}
	if o.EnabledFormats == nil {
		o.EnabledFormats = map[string]bool{}
	}
	return o
}
