package constraint

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"typeshift/src/locale"
)

var (
	numberMatch  = regexp.MustCompile(`^[-+]?\d+([.,]\d+)?([eE][+-]?\d+)?$`)
	leadingZero  = regexp.MustCompile(`^[-+]?0\d`)
	plainInteger = regexp.MustCompile(`^[-+]?\d+$`)
)

// IsNumber reports whether s looks like a number. Both '.' and ',' are
// accepted as the decimal separator regardless of locale.
func IsNumber(s string) bool {
	return numberMatch.MatchString(s)
}

// FitsDecimal128 reports whether d can be stored as an IEEE 754-2008
// decimal128 without rounding: at most 34 significant digits and an exponent
// in [-6176, 6111].
func FitsDecimal128(d decimal.Decimal) bool {
	_, ok := primitive.ParseDecimal128FromBigInt(d.Coefficient(), int(d.Exponent()))
	return ok
}

// parseCanonical parses a number written with '.' as the decimal separator.
// It returns an int64 for plain integers that fit, a decimal.Decimal when the
// value fits decimal128, a float64 otherwise, and nil when the value is not
// a number or not finite.
func parseCanonical(s string) interface{} {
	s = strings.TrimPrefix(strings.TrimSpace(s), "+")
	if s == "" {
		return nil
	}

	if plainInteger.MatchString(s) {
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return i
		}
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil
	}
	if FitsDecimal128(d) {
		return d
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return nil
	}
	return f
}

// ParseNumber parses s under the conventions of loc. Strings matching
// IsNumber take the locale-agnostic path with the first ',' read as the
// decimal separator; anything else has the locale's group separators
// removed first. Values with significant leading zeros ("007") are not
// numbers. The result is nil when s is not a number.
func ParseNumber(loc *locale.Locale, s string) interface{} {
	s = strings.TrimSpace(s)
	if leadingZero.MatchString(s) {
		return nil
	}
	if IsNumber(s) {
		return parseCanonical(strings.Replace(s, ",", ".", 1))
	}
	if loc == nil {
		return nil
	}
	normalized := loc.Normalize(s)
	if leadingZero.MatchString(normalized) || !IsNumber(normalized) {
		return nil
	}
	return parseCanonical(normalized)
}

// encodeNumber is the generic, constraint-agnostic encoding. Only strings
// matching IsNumber and json.Number values are converted; ok is false when
// the value was left as is.
func encodeNumber(value interface{}) (interface{}, bool) {
	var s string
	switch v := value.(type) {
	case string:
		s = v
	case json.Number:
		s = v.String()
	default:
		return value, false
	}

	if !IsNumber(s) || leadingZero.MatchString(s) {
		return value, false
	}
	n := parseCanonical(strings.Replace(s, ",", ".", 1))
	if n == nil {
		return value, false
	}
	return n, true
}

// isNativeNumber reports whether value already has a numeric storage type.
func isNativeNumber(value interface{}) bool {
	switch value.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64,
		float32, float64, decimal.Decimal, *decimal.Decimal:
		return true
	}
	return false
}

// ToDecimal converts a stored numeric value to a decimal. ok is false for
// non-numeric values.
func ToDecimal(value interface{}) (decimal.Decimal, bool) {
	switch v := value.(type) {
	case int:
		return decimal.NewFromInt(int64(v)), true
	case int32:
		return decimal.NewFromInt32(v), true
	case int64:
		return decimal.NewFromInt(v), true
	case uint32:
		return decimal.NewFromInt(int64(v)), true
	case float32:
		return decimal.NewFromFloat32(v), true
	case float64:
		if math.IsInf(v, 0) || math.IsNaN(v) {
			return decimal.Zero, false
		}
		return decimal.NewFromFloat(v), true
	case decimal.Decimal:
		return v, true
	case *decimal.Decimal:
		if v == nil {
			return decimal.Zero, false
		}
		return *v, true
	case json.Number:
		d, err := decimal.NewFromString(v.String())
		return d, err == nil
	}
	return decimal.Zero, false
}
