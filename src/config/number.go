package config

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// NumberConfig configures Number attributes. Decimals is nil when values are
// not rounded.
type NumberConfig struct {
	Decimals *int `json:"decimals,omitempty" yaml:"decimals,omitempty"`
}

func (NumberConfig) ConstraintType() ConstraintType { return ConstraintTypeNumber }

// PercentageConfig configures Percentage attributes.
type PercentageConfig struct {
	Decimals *int `json:"decimals,omitempty" yaml:"decimals,omitempty"`
}

func (PercentageConfig) ConstraintType() ConstraintType { return ConstraintTypePercentage }

// intValue reads an integer out of a raw config map. YAML and JSON hand us
// int, int64, float64 or numeric strings depending on the source.
func intValue(raw map[string]interface{}, key string) (int64, bool) {
	v, ok := raw[key]
	if !ok || v == nil {
		return 0, false
	}
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint64:
		if n > math.MaxInt64 {
			return 0, false
		}
		return int64(n), true
	case float64:
		if n != math.Trunc(n) {
			return 0, false
		}
		return int64(n), true
	case fmt.Stringer:
		i, err := strconv.ParseInt(strings.TrimSpace(n.String()), 10, 64)
		return i, err == nil
	case string:
		i, err := strconv.ParseInt(strings.TrimSpace(n), 10, 64)
		return i, err == nil
	}
	return 0, false
}

func intPtr(raw map[string]interface{}, key string) *int {
	i, ok := intValue(raw, key)
	if !ok {
		return nil
	}
	n := int(i)
	return &n
}

func stringValue(raw map[string]interface{}, key string) string {
	switch v := raw[key].(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

func boolValue(raw map[string]interface{}, key string) bool {
	switch v := raw[key].(type) {
	case bool:
		return v
	case string:
		b, _ := strconv.ParseBool(strings.TrimSpace(v))
		return b
	}
	return false
}
