package config

import (
	"fmt"
)

// SelectOption is one allowed value of a Select attribute.
type SelectOption struct {
	Value        string `json:"value" yaml:"value"`
	DisplayValue string `json:"displayValue,omitempty" yaml:"displayValue,omitempty"`
}

// SelectConfig configures Select attributes. Options keep their declared
// order.
type SelectConfig struct {
	Options       []SelectOption `json:"options" yaml:"options"`
	DisplayValues bool           `json:"displayValues,omitempty" yaml:"displayValues,omitempty"`
	Multi         bool           `json:"multi,omitempty" yaml:"multi,omitempty"`
}

func (SelectConfig) ConstraintType() ConstraintType { return ConstraintTypeSelect }

// DisplayValuesOf returns the display values in option order.
func (s SelectConfig) DisplayValuesOf() []string {
	values := make([]string, 0, len(s.Options))
	for _, o := range s.Options {
		values = append(values, o.DisplayValue)
	}
	return values
}

func parseSelectConfig(raw map[string]interface{}) (SelectConfig, error) {
	cfg := SelectConfig{
		DisplayValues: boolValue(raw, "displayValues"),
		Multi:         boolValue(raw, "multi"),
	}

	rawOptions, ok := raw["options"]
	if !ok || rawOptions == nil {
		return cfg, nil
	}
	list, ok := rawOptions.([]interface{})
	if !ok {
		return cfg, fmt.Errorf("select options must be a list, got %T", rawOptions)
	}
	for i, item := range list {
		m, ok := item.(map[string]interface{})
		if !ok {
			return cfg, fmt.Errorf("select option %d must be an object, got %T", i, item)
		}
		cfg.Options = append(cfg.Options, SelectOption{
			Value:        stringValue(m, "value"),
			DisplayValue: stringValue(m, "displayValue"),
		})
	}
	return cfg, nil
}
