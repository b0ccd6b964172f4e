package jsonschema

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/goccy/go-json"
)

// Rat wraps a big.Rat so multipleOf/maximum/minimum/exclusiveMaximum/
// exclusiveMinimum (validate.go's evalNumeric) compare instance numbers
// exactly — binary float64 arithmetic alone would reject, e.g., 0.3 as
// not a multiple of 0.1.
type Rat struct {
	*big.Rat
}

// UnmarshalJSON implements the json.Unmarshaler interface for Rat.
func (r *Rat) UnmarshalJSON(data []byte) error {
	var tmp interface{}
	if err := json.Unmarshal(data, &tmp); err != nil {
		return err
	}

	converted, err := convertToBigRat(tmp)
	if err != nil {
		return err
	}

	r.Rat = converted
	return nil
}

// MarshalJSON implements the json.Marshaler interface for Rat.
func (r *Rat) MarshalJSON() ([]byte, error) {
	formattedValue := FormatRat(r)
	if strings.Contains(formattedValue, "/") {
		// Output as a JSON string if it still contains a fraction
		return json.Marshal(formattedValue)
	}
	// Output as a JSON number
	return []byte(formattedValue), nil
}

// convertToBigRat converts a decoded JSON number (float64 from the
// codec, or occasionally a plain Go numeric/string literal from a
// hand-built schema keyword) to an exact big.Rat.
func convertToBigRat(data interface{}) (*big.Rat, error) {
	var str string
	switch v := data.(type) {
	case float64, float32, int, int64, int32, int16, int8, uint, uint64, uint32, uint16, uint8:
		str = fmt.Sprint(v)
	case string:
		str = v
	default:
		return nil, ErrUnsupportedRatType
	}

	numRat := new(big.Rat)
	if _, ok := numRat.SetString(str); !ok {
		return nil, ErrRatConversion
	}
	return numRat, nil
}

// NewRat converts a multipleOf/maximum/minimum/exclusiveMaximum/
// exclusiveMinimum keyword value (or the instance number being checked
// against one) into a Rat, or nil if value isn't numeric.
func NewRat(value interface{}) *Rat {
	converted, err := convertToBigRat(value)
	if err != nil {
		return nil
	}
	return &Rat{converted}
}

// FormatRat renders r as a decimal string with at most 10 fractional
// digits and trailing zeros trimmed (used by Rat.MarshalJSON).
func FormatRat(r *Rat) string {
	if r == nil {
		return "null"
	}

	if r.IsInt() {
		return r.Num().String()
	}

	// 10 fractional digits comfortably covers float64's ~15-17 significant
	// decimal digits for the magnitudes schema keywords use in practice.
	dec := r.FloatString(10)

	trimmed := strings.TrimRight(dec, "0")
	trimmed = strings.TrimRight(trimmed, ".")
	if trimmed == "" {
		return "0"
	}
	return trimmed
}
