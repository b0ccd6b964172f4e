package jsonschema

import (
	"errors"
	"fmt"
)

// ErrYAMLUnmarshal is returned when a YAML schema document cannot be parsed.
var ErrYAMLUnmarshal = errors.New("yaml unmarshal failed")

// ErrRegexValidation wraps the combined result of validateRegexSyntax; the
// actual per-pattern failures are joined alongside it as *RegexPatternError.
var ErrRegexValidation = errors.New("schema contains invalid regular expressions")

// ErrUnsupportedRatType is returned when a value cannot be interpreted as a
// JSON number for Rat conversion (neither a numeric Go type nor a string).
var ErrUnsupportedRatType = errors.New("unsupported type for rational conversion")

// ErrRatConversion is returned when a numeric-looking string fails to parse
// as a rational number.
var ErrRatConversion = errors.New("failed to convert value to rational number")

// ErrIPv6AddressNotEnclosed is returned by the URI format checks when a
// host holding an IPv6 address is not wrapped in square brackets.
var ErrIPv6AddressNotEnclosed = errors.New("ipv6 address is not enclosed in brackets")

// ErrInvalidIPv6Address is returned by the URI format checks when a
// bracketed host is not a valid IPv6 address.
var ErrInvalidIPv6Address = errors.New("invalid ipv6 address")

// RegexPatternError reports a single keyword whose pattern failed to
// compile as a regular expression, with enough location info to point a
// caller at the offending part of the schema document.
type RegexPatternError struct {
	Keyword  string
	Location string
	Pattern  string
	Err      error
}

func (e *RegexPatternError) Error() string {
	return fmt.Sprintf("%s at %s: invalid pattern %q: %v", e.Keyword, e.Location, e.Pattern, e.Err)
}

func (e *RegexPatternError) Unwrap() error {
	return e.Err
}
