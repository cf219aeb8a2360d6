package constraint

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"typeshift/src/config"
	"typeshift/src/duration"
	"typeshift/src/locale"
)

// ErrLocaleNotSet is returned by every encode and decode operation of a
// Manager without a locale.
var ErrLocaleNotSet = errors.New("no locale was set in constraint manager")

// tryHardOrder lists the types attempted when the declared type does not
// accept a value in try-hard mode.
var tryHardOrder = []config.ConstraintType{
	config.ConstraintTypePercentage,
	config.ConstraintTypeBoolean,
	config.ConstraintTypeDateTime,
	config.ConstraintTypeNumber,
	config.ConstraintTypeCoordinates,
}

// Manager converts attribute values between their raw input form, their
// typed storage form and their display form. It is immutable once the locale
// is set and safe for concurrent use.
type Manager struct {
	locale      *locale.Locale
	dateParsers []dateParser
}

// NewManager returns a manager for the given language tag.
func NewManager(tag string) (*Manager, error) {
	m := &Manager{}
	if err := m.SetLocale(tag); err != nil {
		return nil, err
	}
	return m, nil
}

// SetLocale (re)initializes the locale dependent tables.
func (m *Manager) SetLocale(tag string) error {
	loc, err := locale.Parse(tag)
	if err != nil {
		return fmt.Errorf("failed to set locale: %w", err)
	}
	m.locale = loc
	m.dateParsers = dateParsers()
	return nil
}

// Locale returns the manager's locale, nil when none was set.
func (m *Manager) Locale() *locale.Locale {
	return m.locale
}

// ParseNumber parses a number under the manager's locale. See ParseNumber.
func (m *Manager) ParseNumber(s string) interface{} {
	return ParseNumber(m.locale, s)
}

// Encode is the generic, constraint-agnostic encoding: number-like strings
// become numbers, everything else is returned unchanged.
func (m *Manager) Encode(value interface{}) (interface{}, error) {
	if m.locale == nil {
		return nil, ErrLocaleNotSet
	}
	encoded, _ := encodeNumber(value)
	return encoded, nil
}

// EncodeConstraint encodes value for storage under constraint c. A nil
// constraint is None. Values the constraint does not accept are returned
// unchanged.
func (m *Manager) EncodeConstraint(value interface{}, c *config.Constraint) (interface{}, error) {
	return m.encode(value, c, false)
}

// EncodeForFce encodes value for formula evaluation: when the declared type
// does not accept the value, every other known interpretation is tried
// before the generic number encoding.
func (m *Manager) EncodeForFce(value interface{}, c *config.Constraint) (interface{}, error) {
	return m.encode(value, c, true)
}

func (m *Manager) encode(value interface{}, c *config.Constraint, tryHard bool) (interface{}, error) {
	if m.locale == nil {
		return nil, ErrLocaleNotSet
	}
	if value == nil {
		return nil, nil
	}

	declared := constraintType(c)
	if encoded, ok := m.encodeAs(declared, value, c); ok {
		return encoded, nil
	}
	if !tryHard {
		return value, nil
	}

	for _, t := range tryHardOrder {
		if t == declared {
			continue
		}
		if s, isString := value.(string); t == config.ConstraintTypeCoordinates && isString && IsNumber(strings.TrimSpace(s)) {
			continue
		}
		if encoded, ok := m.encodeAs(t, value, nil); ok {
			logrus.Debugf("Encoded value as %s instead of %s", t, declared)
			return encoded, nil
		}
	}
	encoded, _ := encodeNumber(value)
	return encoded, nil
}

func constraintType(c *config.Constraint) config.ConstraintType {
	if c == nil || c.Type == "" {
		return config.ConstraintTypeNone
	}
	return c.Type
}

// encodeAs interprets value as type t. ok reports whether t accepted the
// value; a value already in t's storage form is accepted as is.
func (m *Manager) encodeAs(t config.ConstraintType, value interface{}, c *config.Constraint) (interface{}, bool) {
	switch t {
	case config.ConstraintTypeNone, config.ConstraintTypeNumber:
		return encodeNumber(value)
	case config.ConstraintTypePercentage:
		return m.encodePercentage(value)
	case config.ConstraintTypeDuration:
		return m.encodeDuration(value, c)
	case config.ConstraintTypeBoolean:
		return encodeBoolean(value)
	case config.ConstraintTypeDateTime:
		return m.encodeDateTime(value)
	case config.ConstraintTypeSelect:
		return encodeSelect(value)
	case config.ConstraintTypeCoordinates:
		return encodeCoordinates(value)
	}
	return value, false
}

func (m *Manager) encodePercentage(value interface{}) (interface{}, bool) {
	if isNativeNumber(value) {
		return value, true
	}
	s, ok := value.(string)
	if !ok {
		return encodeNumber(value)
	}

	trimmed := strings.TrimSpace(s)
	if !strings.HasSuffix(trimmed, "%") {
		return encodeNumber(value)
	}
	n := m.ParseNumber(strings.TrimSpace(strings.TrimSuffix(trimmed, "%")))
	switch v := n.(type) {
	case int64:
		return decimal.NewFromInt(v).Shift(-2), true
	case decimal.Decimal:
		return v.Shift(-2), true
	case float64:
		return v / 100, true
	}
	return value, false
}

func (m *Manager) encodeDuration(value interface{}, c *config.Constraint) (interface{}, bool) {
	if isNativeNumber(value) {
		return value, true
	}
	if encoded, ok := encodeNumber(value); ok {
		return encoded, true
	}
	s, ok := value.(string)
	if !ok {
		return value, false
	}

	var cfg config.DurationConfig
	if c != nil {
		cfg, _ = c.Config.(config.DurationConfig)
	}
	ms, ok := duration.Parse(s, duration.ConversionsFor(cfg), duration.LabelsFor(m.locale.Language()))
	if !ok {
		return value, false
	}
	return ms, true
}

func encodeBoolean(value interface{}) (interface{}, bool) {
	switch v := value.(type) {
	case bool:
		return v, true
	case string:
		trimmed := strings.TrimSpace(v)
		if strings.EqualFold(trimmed, "true") {
			return true, true
		}
		if strings.EqualFold(trimmed, "false") {
			return false, true
		}
	}
	return value, false
}

func (m *Manager) encodeDateTime(value interface{}) (interface{}, bool) {
	switch v := value.(type) {
	case time.Time:
		return v, true
	case string:
		if t, ok := m.parseDateTime(v); ok {
			return t, true
		}
	}
	return value, false
}

// encodeSelect keeps select codes as integers only when the integer renders
// back to the same text, so "007" stays a string.
func encodeSelect(value interface{}) (interface{}, bool) {
	s, ok := value.(string)
	if !ok {
		return value, false
	}
	i, err := strconv.ParseInt(s, 10, 64)
	if err != nil || strconv.FormatInt(i, 10) != s {
		return value, false
	}
	return i, true
}

func encodeCoordinates(value interface{}) (interface{}, bool) {
	switch v := value.(type) {
	case GeoPoint:
		return v, true
	case string:
		if p, ok := ParseCoordinates(v); ok {
			return p, true
		}
	}
	return value, false
}

// Decode renders a stored value for display. Values without a display form
// are returned unchanged.
func (m *Manager) Decode(value interface{}, c *config.Constraint) (interface{}, error) {
	if m.locale == nil {
		return nil, ErrLocaleNotSet
	}

	switch v := value.(type) {
	case time.Time:
		return FormatDateTime(v), nil
	case decimal.Decimal:
		return v.String(), nil
	case *decimal.Decimal:
		if v == nil {
			return nil, nil
		}
		return v.String(), nil
	case GeoPoint:
		return v.String(), nil
	case map[string]interface{}:
		if p, ok := GeoPointFromGeoJSON(v); ok {
			return p.String(), nil
		}
	case DataDocument:
		if p, ok := GeoPointFromGeoJSON(v); ok {
			return p.String(), nil
		}
	case json.Number:
		return v.String(), nil
	}
	return value, nil
}

type valueProcessor func(value interface{}, c *config.Constraint) (interface{}, error)

// EncodeDataTypes returns a copy of doc with every value except the
// identifier encoded under its attribute's constraint.
func (m *Manager) EncodeDataTypes(resource config.AttributesResource, doc DataDocument) (DataDocument, error) {
	return processData(doc, config.Constraints(resource), m.EncodeConstraint)
}

// DecodeDataTypes returns a copy of doc with every value except the
// identifier decoded under its attribute's constraint.
func (m *Manager) DecodeDataTypes(resource config.AttributesResource, doc DataDocument) (DataDocument, error) {
	return processData(doc, config.Constraints(resource), m.Decode)
}

func processData(doc DataDocument, constraints map[string]*config.Constraint, process valueProcessor) (DataDocument, error) {
	if doc == nil {
		return nil, nil
	}
	result := make(DataDocument, len(doc))
	for key, value := range doc {
		if key == IDKey {
			result[key] = value
			continue
		}
		processed, err := process(value, constraints[key])
		if err != nil {
			return nil, err
		}
		result[key] = processed
	}
	return result, nil
}
