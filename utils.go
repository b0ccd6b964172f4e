package jsonschema

import (
	"fmt"
	"math/big"
	"net/url"
	"path"
	"reflect"
	"strings"

	"github.com/goccy/go-json"
)

// replace substitutes "{param}"-style placeholders in a message template,
// the format locales/*.json uses. ValidationError.Error() renders through
// it with the Details code name as the template; Localize goes through
// the go-i18n localizer instead.
func replace(template string, params map[string]interface{}) string {
	for key, value := range params {
		placeholder := "{" + key + "}"
		template = strings.ReplaceAll(template, placeholder, fmt.Sprint(value))
	}

	return template
}

// getDataType classifies v into one of the JSON Schema instance kinds
// ("null", "boolean", "integer", "number", "string", "array", "object",
// "unknown") that generic.go's evaluateType and locator.go's
// selectBranch/containerKindForSchema switch on. An integer-valued
// float64 (e.g. decoded 3.0) is reported as "integer", matching
// spec.md's IntegerType/NumberType distinction.
func getDataType(v interface{}) string {
	switch v := v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case json.Number:
		// Try as an integer first
		if _, ok := new(big.Int).SetString(string(v), 10); ok {
			return "integer" // json.Number without a decimal part, can be considered an integer
		}
		// Fallback to big float to check if it is an integer
		if bigFloat, ok := new(big.Float).SetString(string(v)); ok {
			if _, acc := bigFloat.Int(nil); acc == big.Exact {
				return "integer"
			}
			return "number"
		}
	case float32, float64:
		// Convert to big.Float to check if it can be considered an integer
		bigFloat := new(big.Float).SetFloat64(reflect.ValueOf(v).Float())
		if _, acc := bigFloat.Int(nil); acc == big.Exact {
			return "integer" // Treated as integer if no fractional part
		}
		return "number"
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return "integer"
	case string:
		return "string"
	case []interface{}:
		return "array"
	case []bool, []json.Number, []float32, []float64, []int, []int8, []int16, []int32, []int64, []uint, []uint8, []uint16, []uint32, []uint64, []string:
		return "array"
	case map[string]interface{}:
		return "object"
	default:
		return "unknown"
	}
	return "unknown"
}

// The remaining helpers compute the two namespace models this repo keeps
// side by side (see DESIGN.md §5): isValidURI/resolveRelativeURI is the
// looser, $id-string-only model collectIds/ResolveRef/Validate key pool
// entries by; getBaseURI is schema_init.go's stricter scheme+host model,
// used only for GetSchemaURI/GetSchemaLocation diagnostics.

// isValidURI reports whether s parses as a request URI: true for URIs
// with a scheme and for absolute paths ("/node.json"), false for bare,
// schemeless $id strings like "root" or "definitions/node.json", which
// callers then compose through resolveRelativeURI.
func isValidURI(s string) bool {
	_, err := url.ParseRequestURI(s)
	return err == nil
}

// resolveRelativeURI resolves relativeURL against baseURI the way a
// nested schema's "$id" composes with its parent's namespace
// (collectIds, subNamespace, evalRef's $ref continuation).
func resolveRelativeURI(baseURI, relativeURL string) string {
	if isAbsoluteURI(relativeURL) {
		return relativeURL
	}
	base, err := url.Parse(baseURI)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return relativeURL
	}
	rel, err := url.Parse(relativeURL)
	if err != nil {
		return relativeURL
	}
	return base.ResolveReference(rel).String()
}

// isAbsoluteURI reports whether urlStr carries both a scheme and a host,
// the threshold resolveRelativeURI/ResolveRef/evalRef use to decide a namespace
// stands on its own rather than composing against its parent's.
func isAbsoluteURI(urlStr string) bool {
	u, err := url.Parse(urlStr)
	return err == nil && u.Scheme != "" && u.Host != ""
}

// getBaseURI derives the directory-level base URI an $id composes
// relative URIs against, for schema_init.go's initializeSchema/
// GetSchemaLocation. Returns "" when id lacks a scheme+host, which is
// exactly the case CollectIds's looser model exists to also handle.
func getBaseURI(id string) string {
	if id == "" {
		return ""
	}
	u, err := url.Parse(id)
	if err != nil {
		return ""
	}
	if strings.HasSuffix(u.Path, "/") {
		return u.String()
	}
	u.Path = path.Dir(u.Path)
	if u.Path == "." {
		u.Path = "/"
	}
	if u.Path != "/" && !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	if u.Scheme == "" || u.Host == "" {
		return ""
	}
	return u.String()
}

// splitRef splits a "$ref" value into its base-URI part and its fragment
// (the part after "#"), the shape ResolveRef/evalRef's $ref-continuation
// namespace computation both consume.
func splitRef(ref string) (baseURI string, anchor string) {
	parts := strings.SplitN(ref, "#", 2)
	if len(parts) == 2 {
		return parts[0], parts[1]
	}
	return ref, ""
}

// isJSONPointer reports whether a "$ref" fragment is a JSON Pointer
// ("/a/b") as opposed to a plain anchor name ("#node").
func isJSONPointer(s string) bool {
	return strings.HasPrefix(s, "/")
}
