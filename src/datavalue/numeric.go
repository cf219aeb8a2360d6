// Package datavalue wraps attribute values for display and filtering.
package datavalue

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"typeshift/src/config"
	"typeshift/src/constraint"
	"typeshift/src/locale"
)

// NumericDataValue is an immutable numeric attribute value. The canonical
// number is nil when the raw value is not a number.
type NumericDataValue struct {
	value      interface{}
	number     *decimal.Decimal
	decimals   *int
	percentage bool
}

// NewNumber wraps a Number attribute value.
func NewNumber(value interface{}, cfg config.NumberConfig, loc *locale.Locale) NumericDataValue {
	v := NumericDataValue{value: value, decimals: cfg.Decimals}
	if d, ok := parseDecimal(value, loc); ok {
		d = roundHalfDown(d, cfg.Decimals)
		v.number = &d
	}
	return v
}

// NewPercentage wraps a Percentage attribute value. Strings ending in "%"
// are percent amounts ("12.5%" is 0.125); anything else is already a
// fraction. The decimals setting rounds the fraction.
func NewPercentage(value interface{}, cfg config.PercentageConfig, loc *locale.Locale) NumericDataValue {
	v := NumericDataValue{value: value, decimals: cfg.Decimals, percentage: true}

	raw := value
	shift := false
	if s, ok := value.(string); ok {
		trimmed := strings.TrimSpace(s)
		if strings.HasSuffix(trimmed, "%") {
			raw = strings.TrimSpace(strings.TrimSuffix(trimmed, "%"))
			shift = true
		}
	}

	fraction, ok := parseDecimal(raw, loc)
	if !ok {
		return v
	}
	if shift {
		fraction = fraction.Shift(-2)
	}
	fraction = roundHalfDown(fraction, cfg.Decimals)
	v.number = &fraction
	return v
}

func parseDecimal(value interface{}, loc *locale.Locale) (decimal.Decimal, bool) {
	if s, ok := value.(string); ok {
		n := constraint.ParseNumber(loc, s)
		if n == nil {
			return decimal.Zero, false
		}
		return constraint.ToDecimal(n)
	}
	return constraint.ToDecimal(value)
}

// roundHalfDown rounds to the given number of decimal places, ties toward
// zero. A nil precision leaves d untouched.
func roundHalfDown(d decimal.Decimal, decimals *int) decimal.Decimal {
	if decimals == nil {
		return d
	}
	places := int32(*decimals)
	truncated := d.Truncate(places)
	half := decimal.New(5, -(places + 1))
	if d.Sub(truncated).Abs().GreaterThan(half) {
		return d.Round(places)
	}
	return truncated
}

// Number returns the canonical number, nil when invalid.
func (v NumericDataValue) Number() *decimal.Decimal {
	return v.number
}

// Value returns the raw value the data value was built from.
func (v NumericDataValue) Value() interface{} {
	return v.value
}

// IsValid reports whether the raw value parsed as a number.
func (v NumericDataValue) IsValid() bool {
	return v.number != nil
}

// Serialize returns the storage form: the canonical number, or the raw
// value when invalid.
func (v NumericDataValue) Serialize() interface{} {
	if v.number == nil {
		return v.value
	}
	return *v.number
}

// Format renders the value for display. Percentages are shown as percent
// amounts with a trailing "%". Invalid values render as their trimmed raw
// text.
func (v NumericDataValue) Format() string {
	if v.number == nil {
		switch raw := v.value.(type) {
		case nil:
			return ""
		case string:
			return strings.TrimSpace(raw)
		default:
			return strings.TrimSpace(fmt.Sprint(raw))
		}
	}
	if v.percentage {
		return v.number.Shift(2).String() + "%"
	}
	if v.decimals != nil && *v.decimals > 0 {
		return v.number.StringFixed(int32(*v.decimals))
	}
	return v.number.String()
}

func (v NumericDataValue) String() string {
	return v.Format()
}

func (v NumericDataValue) compare(other NumericDataValue) int {
	return v.number.Cmp(*other.number)
}

// IsEqual compares the canonical numbers, or the formatted text when either
// side is invalid.
func (v NumericDataValue) IsEqual(other NumericDataValue) bool {
	if v.IsValid() && other.IsValid() {
		return v.compare(other) == 0
	}
	return v.Format() == other.Format()
}

func (v NumericDataValue) IsNotEqual(other NumericDataValue) bool {
	return !v.IsEqual(other)
}

// GreaterThan orders invalid values below every valid one.
func (v NumericDataValue) GreaterThan(other NumericDataValue) bool {
	if v.IsValid() && other.IsValid() {
		return v.compare(other) > 0
	}
	return v.IsValid() && !other.IsValid()
}

func (v NumericDataValue) GreaterThanEquals(other NumericDataValue) bool {
	if v.IsValid() && other.IsValid() {
		return v.compare(other) >= 0
	}
	return v.IsValid() && !other.IsValid()
}

func (v NumericDataValue) LowerThan(other NumericDataValue) bool {
	if v.IsValid() && other.IsValid() {
		return v.compare(other) < 0
	}
	return !v.IsValid() && other.IsValid()
}

func (v NumericDataValue) LowerThanEquals(other NumericDataValue) bool {
	if v.IsValid() && other.IsValid() {
		return v.compare(other) <= 0
	}
	return !v.IsValid() && other.IsValid()
}

// IsEmpty reports a value with no number. Unparsable text such as "xx"
// is empty for filtering even though Format still shows it.
func (v NumericDataValue) IsEmpty() bool {
	return !v.IsValid()
}

func (v NumericDataValue) IsNotEmpty() bool {
	return !v.IsEmpty()
}

// Between is inclusive at both ends.
func (v NumericDataValue) Between(from, to NumericDataValue) bool {
	return v.GreaterThanEquals(from) && v.LowerThanEquals(to)
}

type conditionFunc func(v NumericDataValue, operands []NumericDataValue) bool

func binary(f func(v, other NumericDataValue) bool) conditionFunc {
	return func(v NumericDataValue, operands []NumericDataValue) bool {
		if len(operands) < 1 {
			return false
		}
		return f(v, operands[0])
	}
}

var conditions = map[constraint.ConditionType]conditionFunc{
	constraint.ConditionEquals:        binary(NumericDataValue.IsEqual),
	constraint.ConditionNotEquals:     binary(NumericDataValue.IsNotEqual),
	constraint.ConditionLowerThan:     binary(NumericDataValue.LowerThan),
	constraint.ConditionLowerThanEq:   binary(NumericDataValue.LowerThanEquals),
	constraint.ConditionGreaterThan:   binary(NumericDataValue.GreaterThan),
	constraint.ConditionGreaterThanEq: binary(NumericDataValue.GreaterThanEquals),
	constraint.ConditionBetween: func(v NumericDataValue, operands []NumericDataValue) bool {
		return len(operands) >= 2 && v.Between(operands[0], operands[1])
	},
	constraint.ConditionNotBetween: func(v NumericDataValue, operands []NumericDataValue) bool {
		return len(operands) >= 2 && !v.Between(operands[0], operands[1])
	},
	constraint.ConditionIsEmpty: func(v NumericDataValue, _ []NumericDataValue) bool {
		return v.IsEmpty()
	},
	constraint.ConditionNotEmpty: func(v NumericDataValue, _ []NumericDataValue) bool {
		return v.IsNotEmpty()
	},
}

// Evaluate checks the value against a filter condition. Unknown conditions
// and missing operands evaluate to false.
func (v NumericDataValue) Evaluate(condition constraint.ConditionType, operands ...NumericDataValue) bool {
	f, ok := conditions[condition]
	if !ok {
		return false
	}
	return f(v, operands)
}
