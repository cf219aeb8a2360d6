package constraint

import (
	"encoding/json"
	"math/big"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"typeshift/src/config"
)

func newManager(t *testing.T) *Manager {
	t.Helper()
	m, err := NewManager("en_US")
	require.NoError(t, err)
	return m
}

func constraintOf(t config.ConstraintType) *config.Constraint {
	return config.MustConstraint(t, nil)
}

func assertDecimal(t *testing.T, want string, got interface{}) {
	t.Helper()
	d, ok := got.(decimal.Decimal)
	require.True(t, ok, "expected decimal.Decimal, got %T (%v)", got, got)
	assert.True(t, decimal.RequireFromString(want).Equal(d), "want %s, got %s", want, d)
}

// hugeNumber is MaxFloat64 squared: finite as text, not a decimal128 and not
// a float64.
func hugeNumber() string {
	max := new(big.Float).SetFloat64(1.7976931348623157e308)
	i, _ := new(big.Float).Mul(max, max).Int(nil)
	return i.String()
}

func TestEncodeTypes(t *testing.T) {
	m := newManager(t)

	encode := func(v interface{}) interface{} {
		got, err := m.Encode(v)
		require.NoError(t, err)
		return got
	}

	assertDecimal(t, "2.34", encode("2.34"))
	assertDecimal(t, "2340", encode("2,34e3"))
	assertDecimal(t, "-0.00234", encode("-2.34e-3"))
	assert.Equal(t, "2019-01-20", encode("2019-01-20"))
	assert.Equal(t, int64(2), encode("2"))
	assert.Equal(t, int64(5), encode("+5"))
	assert.Equal(t, "a2", encode("a2"))
	assert.Equal(t, int64(42), encode(json.Number("42")))
	assert.Equal(t, true, encode(true))

	long := hugeNumber()
	assert.Equal(t, long, encode(long))
}

func TestLeadingZeros(t *testing.T) {
	m := newManager(t)

	got, err := m.Encode("0042")
	require.NoError(t, err)
	assert.Equal(t, "0042", got)

	got, err = m.Encode("0.5")
	require.NoError(t, err)
	assertDecimal(t, "0.5", got)

	got, err = m.Encode("0")
	require.NoError(t, err)
	assert.Equal(t, int64(0), got)
}

func TestDecimal128Boundary(t *testing.T) {
	m := newManager(t)

	// 40 significant digits: finite, too precise for decimal128.
	precise := "1234567890.123456789012345678901234567891"
	got, err := m.EncodeConstraint(precise, constraintOf(config.ConstraintTypeNumber))
	require.NoError(t, err)
	f, ok := got.(float64)
	require.True(t, ok, "expected float64, got %T", got)
	assert.InDelta(t, 1234567890.1234567, f, 1e-6)

	got, err = m.EncodeConstraint("123454.434563456345", constraintOf(config.ConstraintTypeNumber))
	require.NoError(t, err)
	assertDecimal(t, "123454.434563456345", got)

	assert.True(t, FitsDecimal128(decimal.RequireFromString("1e6111")))
	assert.False(t, FitsDecimal128(decimal.RequireFromString("1"+strings.Repeat("1", 34))))
}

func TestNumberRoundTrip(t *testing.T) {
	m := newManager(t)
	number := constraintOf(config.ConstraintTypeNumber)

	for _, s := range []string{"2", "-17", "0.02", "2,5", "1e3", "-2.34e-3", "123454.434563456345", "9223372036854775808"} {
		t.Run(s, func(t *testing.T) {
			encoded, err := m.EncodeConstraint(s, number)
			require.NoError(t, err)
			decoded, err := m.Decode(encoded, number)
			require.NoError(t, err)
			reencoded, err := m.EncodeConstraint(decoded, number)
			require.NoError(t, err)

			want, ok := ToDecimal(encoded)
			require.True(t, ok)
			got, ok := ToDecimal(reencoded)
			require.True(t, ok)
			assert.True(t, want.Equal(got), "%s != %s", want, got)
		})
	}
}

func TestDateTimeConstraint(t *testing.T) {
	m := newManager(t)
	dateTime := constraintOf(config.ConstraintTypeDateTime)
	want := time.UnixMilli(1234567890).UTC()

	kolkata := time.FixedZone("IST", 5*3600+1800)
	local := want.In(kolkata).Format("2006-01-02T15:04:05.000")

	for _, s := range []string{
		want.In(kolkata).Format(PrimaryDateLayout),
		local + "GMT+5:30",
		want.In(kolkata).Format("2006-01-02T15:04:05.000-0700"),
		want.In(kolkata).Format("2006-01-02T15:04:05.000Z07:00"),
		want.Format("2006-01-02T15:04:05.000Z"),
	} {
		t.Run(s, func(t *testing.T) {
			got, err := m.EncodeConstraint(s, dateTime)
			require.NoError(t, err)
			require.IsType(t, time.Time{}, got)
			assert.True(t, want.Equal(got.(time.Time)))
			assert.Equal(t, time.UTC, got.(time.Time).Location())
		})
	}

	got, err := m.EncodeConstraint("yesterday", dateTime)
	require.NoError(t, err)
	assert.Equal(t, "yesterday", got)

	decoded, err := m.Decode(want, dateTime)
	require.NoError(t, err)
	assert.Equal(t, "1970-01-15T06:56:07.890+0000", decoded)
}

func TestBooleanConstraint(t *testing.T) {
	m := newManager(t)
	boolean := constraintOf(config.ConstraintTypeBoolean)

	for in, want := range map[string]interface{}{
		"true":       true,
		"yes":        "yes",
		"   fAlse  ": false,
	} {
		got, err := m.EncodeConstraint(in, boolean)
		require.NoError(t, err)
		assert.Equal(t, want, got, in)
	}
}

func TestPercentageConstraint(t *testing.T) {
	m := newManager(t)
	percentage := constraintOf(config.ConstraintTypePercentage)

	for _, s := range []string{"12%", "12 %", "1,2e1 %", "12e-2"} {
		got, err := m.EncodeConstraint(s, percentage)
		require.NoError(t, err)
		assertDecimal(t, "0.12", got)
	}

	got, err := m.EncodeConstraint("12.5%", percentage)
	require.NoError(t, err)
	assertDecimal(t, "0.125", got)

	got, err = m.EncodeConstraint("1,234.5%", percentage)
	require.NoError(t, err)
	assertDecimal(t, "12.345", got)

	got, err = m.EncodeConstraint(0.5, percentage)
	require.NoError(t, err)
	assert.Equal(t, 0.5, got)

	got, err = m.EncodeConstraint("lots", percentage)
	require.NoError(t, err)
	assert.Equal(t, "lots", got)
}

func TestDurationConstraint(t *testing.T) {
	m := newManager(t)
	duration := config.MustConstraint(config.ConstraintTypeDuration, map[string]interface{}{"type": "Work"})

	got, err := m.EncodeConstraint("3600000", duration)
	require.NoError(t, err)
	assert.Equal(t, int64(3600000), got)

	got, err = m.EncodeConstraint("1d2h", duration)
	require.NoError(t, err)
	assert.Equal(t, int64(10*3600000), got)

	got, err = m.EncodeConstraint("soon", duration)
	require.NoError(t, err)
	assert.Equal(t, "soon", got)
}

func TestSelectConstraint(t *testing.T) {
	m := newManager(t)
	sel := constraintOf(config.ConstraintTypeSelect)

	got, err := m.EncodeConstraint("42", sel)
	require.NoError(t, err)
	assert.Equal(t, int64(42), got)

	for _, s := range []string{"007", "+1", "4.0", "v1"} {
		got, err := m.EncodeConstraint(s, sel)
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}
}

func TestCoordinatesConstraint(t *testing.T) {
	m := newManager(t)
	coordinates := constraintOf(config.ConstraintTypeCoordinates)
	want := GeoPoint{Lat: 40.123, Lng: -74.123}

	for _, s := range []string{
		"40.123, -74.123",
		"40.123°N 74.123°W",
		`40°7´22.8"N 74°7´22.8"W`,
		"40°7.38'N, 74°7.38'W",
		`N40°7’22.8, W74°7’22.8"`,
		"40 7 22.8, W74 7 22.8",
		"40.123N 74.123W",
		"74.123W 40.123N",
	} {
		t.Run(s, func(t *testing.T) {
			got, err := m.EncodeConstraint(s, coordinates)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}

	for _, s := range []string{"95, 10", "north", "40°75'N 74W"} {
		got, err := m.EncodeConstraint(s, coordinates)
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}
}

func TestTryHard(t *testing.T) {
	m := newManager(t)

	got, err := m.EncodeConstraint("12%", nil)
	require.NoError(t, err)
	assert.Equal(t, "12%", got)

	got, err = m.EncodeForFce("12%", nil)
	require.NoError(t, err)
	assertDecimal(t, "0.12", got)

	const stamp = "2013-12-01T23:12:18.784Z"
	got, err = m.EncodeConstraint(stamp, nil)
	require.NoError(t, err)
	assert.Equal(t, stamp, got)

	got, err = m.EncodeForFce(stamp, nil)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2013, 12, 1, 23, 12, 18, 784000000, time.UTC), got)

	got, err = m.EncodeConstraint("True", nil)
	require.NoError(t, err)
	assert.Equal(t, "True", got)

	got, err = m.EncodeForFce("True", nil)
	require.NoError(t, err)
	assert.Equal(t, true, got)

	got, err = m.EncodeForFce("4410", nil)
	require.NoError(t, err)
	assert.Equal(t, int64(4410), got)

	got, err = m.EncodeForFce("04410", nil)
	require.NoError(t, err)
	assert.Equal(t, "04410", got)

	got, err = m.EncodeForFce("40°7.38'N, 74°7.38'W", nil)
	require.NoError(t, err)
	assert.Equal(t, GeoPoint{Lat: 40.123, Lng: -74.123}, got)

	got, err = m.EncodeForFce("2,5", constraintOf(config.ConstraintTypeBoolean))
	require.NoError(t, err)
	assertDecimal(t, "2.5", got)
}

func TestDecode(t *testing.T) {
	m := newManager(t)

	got, err := m.Decode(decimal.RequireFromString("0.125"), nil)
	require.NoError(t, err)
	assert.Equal(t, "0.125", got)

	got, err = m.Decode(GeoPoint{Lat: 40.123, Lng: -74.123}, nil)
	require.NoError(t, err)
	assert.Equal(t, "40.123, -74.123", got)

	got, err = m.Decode(map[string]interface{}{"type": "Point", "coordinates": []interface{}{-74.123, 40.123}}, nil)
	require.NoError(t, err)
	assert.Equal(t, "40.123, -74.123", got)

	got, err = m.Decode(int64(7), nil)
	require.NoError(t, err)
	assert.Equal(t, int64(7), got)
}

func TestLocaleNotSet(t *testing.T) {
	var m Manager

	_, err := m.Encode("1")
	assert.ErrorIs(t, err, ErrLocaleNotSet)
	_, err = m.EncodeConstraint("1", nil)
	assert.ErrorIs(t, err, ErrLocaleNotSet)
	_, err = m.Decode("1", nil)
	assert.ErrorIs(t, err, ErrLocaleNotSet)
	_, err = m.EncodeDataTypes(config.Collection{}, DataDocument{"a": "1"})
	assert.ErrorIs(t, err, ErrLocaleNotSet)

	_, err = NewManager("!!")
	assert.Error(t, err)
}

func TestEncodeDecodeDataTypes(t *testing.T) {
	m := newManager(t)
	collection := config.Collection{
		ID: "c1",
		Attributes: []config.Attribute{
			{ID: "a1", Constraint: constraintOf(config.ConstraintTypeNumber)},
			{ID: "a2", Constraint: constraintOf(config.ConstraintTypeBoolean)},
			{ID: "a3", Constraint: constraintOf(config.ConstraintTypeDateTime)},
			{ID: "a4"},
		},
	}
	doc := DataDocument{
		IDKey: "42",
		"a1":  "2,5",
		"a2":  "TRUE",
		"a3":  "2013-12-01T23:12:18.784+0000",
		"a4":  "17",
	}

	encoded, err := m.EncodeDataTypes(collection, doc)
	require.NoError(t, err)
	assert.Equal(t, "42", encoded[IDKey])
	assertDecimal(t, "2.5", encoded["a1"])
	assert.Equal(t, true, encoded["a2"])
	assert.Equal(t, time.Date(2013, 12, 1, 23, 12, 18, 784000000, time.UTC), encoded["a3"])
	assert.Equal(t, int64(17), encoded["a4"])
	assert.Equal(t, "2,5", doc["a1"], "input document must not change")

	decoded, err := m.DecodeDataTypes(collection, encoded)
	require.NoError(t, err)
	want := DataDocument{IDKey: "42", "a1": "2.5", "a2": true, "a3": "2013-12-01T23:12:18.784+0000", "a4": int64(17)}
	if diff := cmp.Diff(want, decoded); diff != "" {
		t.Errorf("DecodeDataTypes() mismatch (-want +got):\n%s", diff)
	}
}

func TestApplyPatch(t *testing.T) {
	doc := DataDocument{IDKey: "1", "a": 1, "b": 2}
	got := ApplyPatch(doc, DataDocument{"a": 3, SetKey: map[string]interface{}{"c": ""}})
	want := DataDocument{IDKey: "1", "a": 3, "b": 2, "c": ""}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ApplyPatch() mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, doc, ApplyPatch(doc, nil))
}
