package datavalue

import (
	"fmt"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"typeshift/src/config"
	"typeshift/src/constraint"
	"typeshift/src/locale"
)

func intp(i int) *int { return &i }

func number(value interface{}) NumericDataValue {
	return NewNumber(value, config.NumberConfig{}, locale.MustParse("en"))
}

func TestNewNumber(t *testing.T) {
	v := number("2,5")
	require.True(t, v.IsValid())
	assert.True(t, decimal.RequireFromString("2.5").Equal(*v.Number()))
	assert.Equal(t, "2.5", v.Format())

	v = number(int64(7))
	assert.Equal(t, "7", v.Format())

	v = number("  abc ")
	assert.False(t, v.IsValid())
	assert.Equal(t, "abc", v.Format())
	assert.Equal(t, "  abc ", v.Serialize())

	v = number("007")
	assert.False(t, v.IsValid())
}

func TestRoundingIsHalfDown(t *testing.T) {
	cfg := config.NumberConfig{Decimals: intp(2)}
	en := locale.MustParse("en")

	assert.Equal(t, "2.34", NewNumber("2.345", cfg, en).Format())
	assert.Equal(t, "2.35", NewNumber("2.346", cfg, en).Format())
	assert.Equal(t, "-2.34", NewNumber("-2.345", cfg, en).Format())
	assert.Equal(t, "3.00", NewNumber(3, cfg, en).Format())
}

func TestPercentage(t *testing.T) {
	en := locale.MustParse("en")

	v := NewPercentage("12.5%", config.PercentageConfig{}, en)
	require.True(t, v.IsValid())
	assert.True(t, decimal.RequireFromString("0.125").Equal(*v.Number()))
	assert.Equal(t, "12.5%", v.Format())

	v = NewPercentage(decimal.RequireFromString("0.125"), config.PercentageConfig{}, en)
	assert.Equal(t, "12.5%", v.Format())

	v = NewPercentage("33.335 %", config.PercentageConfig{Decimals: intp(2)}, en)
	assert.Equal(t, "33%", v.Format())

	v = NewPercentage("33.335 %", config.PercentageConfig{Decimals: intp(4)}, en)
	assert.Equal(t, "33.33%", v.Format())

	v = NewPercentage("30", config.PercentageConfig{}, en)
	assert.True(t, decimal.NewFromInt(30).Equal(*v.Number()))
	assert.Equal(t, "3000%", v.Format())

	v = NewPercentage("12,5 %", config.PercentageConfig{}, locale.MustParse("cs"))
	assert.Equal(t, "12.5%", v.Format())
}

func TestComparisons(t *testing.T) {
	one, two, invalid, empty := number("1"), number("2.0"), number("x"), number(nil)

	assert.True(t, two.IsEqual(number("2")))
	assert.True(t, one.LowerThan(two))
	assert.True(t, two.GreaterThanEquals(two))
	assert.True(t, one.GreaterThan(invalid))
	assert.True(t, invalid.LowerThan(one))
	assert.False(t, invalid.GreaterThan(one))
	assert.True(t, invalid.IsEqual(number(" x ")))
	assert.True(t, empty.IsEmpty())
	assert.True(t, invalid.IsEmpty())
	assert.False(t, number(0).IsEmpty())
}

func TestEvaluate(t *testing.T) {
	v := number("5")

	tests := []struct {
		condition constraint.ConditionType
		operands  []NumericDataValue
		want      bool
	}{
		{constraint.ConditionEquals, []NumericDataValue{number("5.00")}, true},
		{constraint.ConditionNotEquals, []NumericDataValue{number("5")}, false},
		{constraint.ConditionLowerThan, []NumericDataValue{number("6")}, true},
		{constraint.ConditionLowerThanEq, []NumericDataValue{number("5")}, true},
		{constraint.ConditionGreaterThan, []NumericDataValue{number("6")}, false},
		{constraint.ConditionGreaterThanEq, []NumericDataValue{number("4")}, true},
		{constraint.ConditionBetween, []NumericDataValue{number("1"), number("5")}, true},
		{constraint.ConditionNotBetween, []NumericDataValue{number("1"), number("5")}, false},
		{constraint.ConditionIsEmpty, nil, false},
		{constraint.ConditionNotEmpty, nil, true},
		{constraint.ConditionEquals, nil, false},
		{constraint.ConditionBetween, []NumericDataValue{number("1")}, false},
		{"contains", []NumericDataValue{number("5")}, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.condition), func(t *testing.T) {
			assert.Equal(t, tt.want, v.Evaluate(tt.condition, tt.operands...))
		})
	}
}

type comparison func(v, other NumericDataValue) bool

func TestNumberComparisons(t *testing.T) {
	en := locale.MustParse("en")
	n := func(value interface{}) NumericDataValue { return NewNumber(value, config.NumberConfig{}, en) }
	d3 := func(value interface{}) NumericDataValue { return NewNumber(value, config.NumberConfig{Decimals: intp(3)}, en) }
	d0 := func(value interface{}) NumericDataValue { return NewNumber(value, config.NumberConfig{Decimals: intp(0)}, en) }

	tests := []struct {
		name    string
		compare comparison
		a, b    NumericDataValue
		want    bool
	}{
		{"trimmed eq int", NumericDataValue.IsEqual, n(" 1"), n(1), true},
		{"string eq float32", NumericDataValue.IsEqual, n("1"), n(float32(1.0)), true},
		{"decimal neq float32", NumericDataValue.IsEqual, n(decimal.NewFromInt(1)), n(float32(1.1)), false},
		{"trailing zeros", NumericDataValue.IsEqual, n(decimal.RequireFromString("30.32")), n("30.3200"), true},
		{"nil eq blank", NumericDataValue.IsEqual, n(nil), n(""), true},
		{"nil eq nil", NumericDataValue.IsEqual, n(nil), n(nil), true},
		{"nil eq number", NumericDataValue.IsEqual, n(nil), n("1"), false},
		{"exponent", NumericDataValue.IsEqual, n("1000000"), n("1e6"), true},
		{"float exponent", NumericDataValue.IsEqual, n("1000000"), n(1e6), true},
		{"small", NumericDataValue.IsEqual, n("0.0001"), n(10e-5), true},
		{"decimals 3", NumericDataValue.IsEqual, d3("1.111"), d3(1.111234), true},
		{"decimals 3 rounds up", NumericDataValue.IsEqual, d3("1.111"), d3(1.111634), false},
		{"decimals 0", NumericDataValue.IsEqual, d0("1.234"), d0(1.2031), true},
		{"decimals 0 rounds up", NumericDataValue.IsEqual, d0("1.567"), d0(2.2031), true},
		{"string neq int", NumericDataValue.IsNotEqual, n("30"), n(30), false},
		{"number neq nil", NumericDataValue.IsNotEqual, n("1333"), n(nil), true},
		{"gt equal", NumericDataValue.GreaterThan, n("30"), n(30), false},
		{"gte equal", NumericDataValue.GreaterThanEquals, n("30"), n(30), true},
		{"gt nil nil", NumericDataValue.GreaterThan, n(nil), n(nil), false},
		{"gt number nil", NumericDataValue.GreaterThan, n("1333"), n(nil), true},
		{"gt text order", NumericDataValue.GreaterThan, n("3"), n("25"), false},
		{"gte fraction", NumericDataValue.GreaterThanEquals, n("1333"), n("1299.999"), true},
		{"lt equal", NumericDataValue.LowerThan, n("3"), n(3), false},
		{"lt float32", NumericDataValue.LowerThan, n(decimal.NewFromInt(10)), n(float32(10.1)), true},
		{"lt nil number", NumericDataValue.LowerThan, n(nil), n("1"), true},
		{"lt number nil", NumericDataValue.LowerThan, n("1333"), n(nil), false},
		{"lte text order", NumericDataValue.LowerThanEquals, n("3"), n("25"), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.compare(tt.a, tt.b))
		})
	}
}

func TestPercentageComparisons(t *testing.T) {
	en := locale.MustParse("en")
	p := func(value interface{}) NumericDataValue { return NewPercentage(value, config.PercentageConfig{}, en) }
	d3 := func(value interface{}) NumericDataValue { return NewPercentage(value, config.PercentageConfig{Decimals: intp(3)}, en) }
	d0 := func(value interface{}) NumericDataValue { return NewPercentage(value, config.PercentageConfig{Decimals: intp(0)}, en) }

	tests := []struct {
		name    string
		compare comparison
		a, b    NumericDataValue
		want    bool
	}{
		{"plain string is a fraction", NumericDataValue.IsEqual, p("1"), p(1), true},
		{"percent sign shifts", NumericDataValue.IsEqual, p("10%"), p(0.1), true},
		{"hundred percent vs 0.9", NumericDataValue.IsEqual, p(" 100%"), p(0.9), false},
		{"hundred percent", NumericDataValue.IsEqual, p("  100%  "), p(1), true},
		{"nil eq blank", NumericDataValue.IsEqual, p(nil), p(""), true},
		{"nil eq number", NumericDataValue.IsEqual, p(nil), p("1"), false},
		{"decimals 3", NumericDataValue.IsEqual, d3("1.111"), d3(1.111234), true},
		{"decimals 3 percent", NumericDataValue.IsEqual, d3("111.1111%"), d3(1.111234), true},
		{"decimals 3 rounds up", NumericDataValue.IsEqual, d3("1.111"), d3(1.111634), false},
		{"decimals 0", NumericDataValue.IsEqual, d0("1.234"), d0(1.2031), true},
		{"decimals 0 rounds up", NumericDataValue.IsEqual, d0("1.567"), d0(2.2031), true},
		{"plain string neq int", NumericDataValue.IsNotEqual, p("30"), p(30), false},
		{"decimal neq float32", NumericDataValue.IsNotEqual, p(decimal.NewFromInt(1)), p(float32(1.1)), true},
		{"percent neq nil", NumericDataValue.IsNotEqual, p("1333%"), p(nil), true},
		{"fraction vs percent amount", NumericDataValue.IsNotEqual, p(decimal.RequireFromString("1330.32")), p("1330.3200%"), true},
		{"same fraction", NumericDataValue.IsNotEqual, p(decimal.RequireFromString("13.3032")), p("1330.3200%"), false},
		{"percent vs float32", NumericDataValue.IsNotEqual, p("300%"), p(float32(3.000)), false},
		{"gt whole number", NumericDataValue.GreaterThan, p("30%"), p(30), false},
		{"gt fraction", NumericDataValue.GreaterThan, p("  30%"), p(0.2), true},
		{"gt larger fraction", NumericDataValue.GreaterThan, p(" 30%"), p(0.5), false},
		{"gte equal", NumericDataValue.GreaterThanEquals, p("3000%"), p(30), true},
		{"gt nil percent", NumericDataValue.GreaterThan, p(nil), p("1%"), false},
		{"gt percents", NumericDataValue.GreaterThan, p("3%"), p("25%"), false},
		{"gte percents", NumericDataValue.GreaterThanEquals, p("1333%"), p("1299.999%"), true},
		{"lt equal", NumericDataValue.LowerThan, p("3"), p(3), false},
		{"lt percent above", NumericDataValue.LowerThan, p("3"), p("301%"), true},
		{"lte equal", NumericDataValue.LowerThanEquals, p("30"), p(30), true},
		{"lt fraction vs percent", NumericDataValue.LowerThan, p(decimal.RequireFromString("0.1")), p("10.1%"), true},
		{"lt nil number", NumericDataValue.LowerThan, p(nil), p("1"), true},
		{"lt percents", NumericDataValue.LowerThan, p("3%"), p("25%"), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.compare(tt.a, tt.b))
		})
	}
}

func TestIsEmpty(t *testing.T) {
	en := locale.MustParse("en")

	tests := []struct {
		value interface{}
		want  bool
	}{
		{"3", false},
		{"3%", false},
		{30, false},
		{"  ", true},
		{"", true},
		{nil, true},
		{"xx", true},
		{"xx%", true},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.value), func(t *testing.T) {
			assert.Equal(t, tt.want, NewPercentage(tt.value, config.PercentageConfig{}, en).IsEmpty())
			if s, ok := tt.value.(string); !ok || !strings.HasSuffix(s, "%") {
				assert.Equal(t, !tt.want, NewNumber(tt.value, config.NumberConfig{}, en).IsNotEmpty())
			}
		})
	}
}
