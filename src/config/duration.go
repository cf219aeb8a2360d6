package config

import (
	"fmt"
	"strings"
)

// DurationType selects the unit convention of a Duration attribute.
type DurationType string

const (
	DurationTypeCustom  DurationType = "Custom"
	DurationTypeClassic DurationType = "Classic"
	DurationTypeWork    DurationType = "Work"
)

// DurationUnit is one step of the week > day > hour > minute > second ladder.
type DurationUnit string

const (
	DurationUnitWeek   DurationUnit = "w"
	DurationUnitDay    DurationUnit = "d"
	DurationUnitHour   DurationUnit = "h"
	DurationUnitMinute DurationUnit = "m"
	DurationUnitSecond DurationUnit = "s"
)

// DurationUnits lists the units from the largest to the smallest.
var DurationUnits = []DurationUnit{
	DurationUnitWeek,
	DurationUnitDay,
	DurationUnitHour,
	DurationUnitMinute,
	DurationUnitSecond,
}

// DurationConfig configures Duration attributes. Conversions holds the
// per-unit multipliers of a Custom convention: s is milliseconds per second,
// m seconds per minute, h minutes per hour, d hours per day, w days per week.
type DurationConfig struct {
	Type        DurationType           `json:"type" yaml:"type"`
	Conversions map[DurationUnit]int64 `json:"conversions,omitempty" yaml:"conversions,omitempty"`
}

func (DurationConfig) ConstraintType() ConstraintType { return ConstraintTypeDuration }

func parseDurationConfig(raw map[string]interface{}) (DurationConfig, error) {
	cfg := DurationConfig{Type: DurationTypeClassic}

	switch t := strings.TrimSpace(stringValue(raw, "type")); {
	case t == "":
	case strings.EqualFold(t, string(DurationTypeCustom)):
		cfg.Type = DurationTypeCustom
	case strings.EqualFold(t, string(DurationTypeClassic)):
		cfg.Type = DurationTypeClassic
	case strings.EqualFold(t, string(DurationTypeWork)):
		cfg.Type = DurationTypeWork
	default:
		return cfg, fmt.Errorf("unknown duration type: %s", t)
	}

	conversions, _ := raw["conversions"].(map[string]interface{})
	if len(conversions) == 0 {
		return cfg, nil
	}
	cfg.Conversions = make(map[DurationUnit]int64, len(conversions))
	for _, unit := range DurationUnits {
		if v, ok := intValue(conversions, string(unit)); ok {
			if v <= 0 {
				return cfg, fmt.Errorf("duration conversion %s must be positive, got %d", unit, v)
			}
			cfg.Conversions[unit] = v
		}
	}
	return cfg, nil
}
