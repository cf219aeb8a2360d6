package database

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"math/big"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"typeshift/src/constraint"
)

// ErrDecimalOverflow is returned when a decimal cannot be stored as
// Decimal128 without rounding.
var ErrDecimalOverflow = errors.New("decimal does not fit decimal128")

// EncodeDocument renders a data document as canonical MongoDB extended JSON:
// decimals travel as $numberDecimal, dates as $date and points as GeoJSON.
// Keys are written in sorted order.
func EncodeDocument(doc constraint.DataDocument) ([]byte, error) {
	d, err := toBSONDocument(doc)
	if err != nil {
		return nil, err
	}
	return bson.MarshalExtJSON(d, true, false)
}

// DecodeDocument reads canonical or relaxed extended JSON. Decimal128 values
// come back as decimal.Decimal, dates as UTC time.Time, GeoJSON points as
// constraint.GeoPoint and all integers as int64.
func DecodeDocument(data []byte) (constraint.DataDocument, error) {
	var m primitive.M
	if err := bson.UnmarshalExtJSON(data, false, &m); err != nil {
		return nil, fmt.Errorf("failed to parse document: %w", err)
	}
	return fromBSONDocument(m)
}

func toBSONDocument(doc map[string]interface{}) (primitive.D, error) {
	keys := make([]string, 0, len(doc))
	for k := range doc {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	d := make(primitive.D, 0, len(keys))
	for _, k := range keys {
		v, err := toBSONValue(doc[k])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", k, err)
		}
		d = append(d, primitive.E{Key: k, Value: v})
	}
	return d, nil
}

func toBSONValue(value interface{}) (interface{}, error) {
	switch v := value.(type) {
	case nil, string, bool, int64, float64:
		return v, nil
	case int:
		return int64(v), nil
	case int8:
		return int64(v), nil
	case int16:
		return int64(v), nil
	case int32:
		return int64(v), nil
	case uint8:
		return int64(v), nil
	case uint16:
		return int64(v), nil
	case uint32:
		return int64(v), nil
	case uint:
		return fromUint64(uint64(v))
	case uint64:
		return fromUint64(v)
	case float32:
		return float64(v), nil
	case json.Number:
		n := constraint.ParseNumber(nil, v.String())
		if n == nil {
			return v.String(), nil
		}
		return toBSONValue(n)
	case decimal.Decimal:
		return toDecimal128(v)
	case *decimal.Decimal:
		if v == nil {
			return nil, nil
		}
		return toDecimal128(*v)
	case time.Time:
		return primitive.NewDateTimeFromTime(v), nil
	case constraint.GeoPoint:
		return toBSONDocument(v.GeoJSON())
	case constraint.DataDocument:
		return toBSONDocument(v)
	case map[string]interface{}:
		return toBSONDocument(v)
	case []string:
		a := make(primitive.A, 0, len(v))
		for _, s := range v {
			a = append(a, s)
		}
		return a, nil
	case []interface{}:
		a := make(primitive.A, 0, len(v))
		for i, item := range v {
			converted, err := toBSONValue(item)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			a = append(a, converted)
		}
		return a, nil
	}
	return nil, fmt.Errorf("unsupported value type %T", value)
}

func fromUint64(v uint64) (interface{}, error) {
	if v <= math.MaxInt64 {
		return int64(v), nil
	}
	return toDecimal128(decimal.NewFromBigInt(new(big.Int).SetUint64(v), 0))
}

func toDecimal128(d decimal.Decimal) (primitive.Decimal128, error) {
	d128, ok := primitive.ParseDecimal128FromBigInt(d.Coefficient(), int(d.Exponent()))
	if !ok {
		return primitive.Decimal128{}, fmt.Errorf("%w: %s", ErrDecimalOverflow, d.String())
	}
	return d128, nil
}

func fromBSONDocument(m map[string]interface{}) (constraint.DataDocument, error) {
	doc := make(constraint.DataDocument, len(m))
	for k, v := range m {
		converted, err := fromBSONValue(v)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", k, err)
		}
		doc[k] = converted
	}
	return doc, nil
}

func fromBSONValue(value interface{}) (interface{}, error) {
	switch v := value.(type) {
	case primitive.Decimal128:
		bi, exp, err := v.BigInt()
		if err != nil {
			return nil, fmt.Errorf("decimal %s: %w", v.String(), err)
		}
		return decimal.NewFromBigInt(bi, int32(exp)), nil
	case primitive.DateTime:
		return v.Time().UTC(), nil
	case int32:
		return int64(v), nil
	case primitive.M:
		return fromBSONNested(v)
	case map[string]interface{}:
		return fromBSONNested(v)
	case primitive.D:
		m := make(map[string]interface{}, len(v))
		for _, e := range v {
			m[e.Key] = e.Value
		}
		return fromBSONNested(m)
	case primitive.A:
		list := make([]interface{}, 0, len(v))
		for i, item := range v {
			converted, err := fromBSONValue(item)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			list = append(list, converted)
		}
		return list, nil
	}
	return value, nil
}

func fromBSONNested(m map[string]interface{}) (interface{}, error) {
	doc, err := fromBSONDocument(m)
	if err != nil {
		return nil, err
	}
	if p, ok := constraint.GeoPointFromGeoJSON(doc); ok {
		return p, nil
	}
	return map[string]interface{}(doc), nil
}
