package converter

import (
	"fmt"
	"strings"

	"typeshift/src/config"
	"typeshift/src/constraint"
)

// translation rewrites a source value through a lookup table. Unknown
// scalars map to themselves with ignoreMissing, to "" otherwise. fromArray
// joins list values into one string, toArray splits strings on commas into a
// list; unknown list items are always kept as they are.
type translation struct {
	from, to      string
	table         map[string]interface{}
	ignoreMissing bool
	fromArray     bool
	toArray       bool
}

func (t translation) item(key string) interface{} {
	if v, ok := t.table[key]; ok {
		return v
	}
	return key
}

func (t translation) lookup(key string, original interface{}) interface{} {
	if v, ok := t.table[key]; ok {
		return v
	}
	if t.ignoreMissing {
		return original
	}
	return ""
}

// value translates original. array reports whether one of the array modes
// applied.
func (t translation) value(original interface{}) (result interface{}, array bool) {
	if list, ok := original.([]interface{}); ok && t.fromArray {
		values := make([]string, 0, len(list))
		for _, v := range list {
			values = append(values, fmt.Sprint(t.item(fmt.Sprint(v))))
		}
		return strings.Join(values, ", "), true
	}
	if s, ok := original.(string); ok && t.toArray {
		parts := strings.Split(s, ",")
		values := make([]interface{}, 0, len(parts))
		for _, part := range parts {
			part = strings.TrimSpace(part)
			values = append(values, t.item(part))
		}
		return values, true
	}
	return t.lookup(fmt.Sprint(original), original), false
}

// PatchDocument only touches documents that already hold the target
// attribute. Scalar values are patched when the translation changes them.
func (t translation) PatchDocument(doc constraint.DataDocument) constraint.DataDocument {
	if len(t.table) == 0 && !t.fromArray && !t.toArray {
		return nil
	}
	if _, ok := doc[t.to]; !ok {
		return nil
	}
	original := doc[t.from]
	if original == nil {
		return nil
	}

	value, array := t.value(original)
	if !array && (len(t.table) == 0 || fmt.Sprint(value) == fmt.Sprint(original)) {
		return nil
	}
	return constraint.DataDocument{t.to: value}
}

func (t translation) Close() error { return nil }

// NoneToColorConverter maps CSS colour names to hex codes. Unknown names are
// kept. The table does not depend on the target's configuration.
type NoneToColorConverter struct{}

func (NoneToColorConverter) FromTypes() []config.ConstraintType {
	return []config.ConstraintType{config.ConstraintTypeNone}
}

func (NoneToColorConverter) ToTypes() []config.ConstraintType {
	return []config.ConstraintType{config.ConstraintTypeColor}
}

func (NoneToColorConverter) Init(env Env) Conversion {
	t := translation{
		from:          env.From.ID,
		to:            env.To.ID,
		table:         make(map[string]interface{}, len(cssColors)),
		ignoreMissing: true,
	}
	for name, hex := range cssColors {
		t.table[name] = hex
	}
	return t
}

// NullToSelectConverter maps display labels to option values. Unknown labels
// become "", and the target is always set explicitly.
type NullToSelectConverter struct{}

func (NullToSelectConverter) FromTypes() []config.ConstraintType {
	return []config.ConstraintType{config.ConstraintTypeNone}
}

func (NullToSelectConverter) ToTypes() []config.ConstraintType {
	return []config.ConstraintType{config.ConstraintTypeSelect}
}

func (NullToSelectConverter) Init(env Env) Conversion {
	if env.To.Constraint == nil {
		return noPatch{}
	}
	cfg, ok := env.To.Constraint.Config.(config.SelectConfig)
	if !ok {
		return noPatch{}
	}

	table := make(map[string]interface{}, 2*len(cfg.Options))
	for _, o := range cfg.Options {
		table[o.Value] = o.Value
	}
	for _, o := range cfg.Options {
		if o.DisplayValue != "" {
			table[o.DisplayValue] = o.Value
		}
	}
	return nullToSelect{translation{
		from:    env.From.ID,
		to:      env.To.ID,
		table:   table,
		toArray: cfg.Multi,
	}}
}

type nullToSelect struct {
	translation
}

func (c nullToSelect) PatchDocument(doc constraint.DataDocument) constraint.DataDocument {
	original, ok := doc[c.from]
	if !ok || original == nil {
		return nil
	}
	if s, ok := original.(string); ok {
		original = strings.TrimSpace(s)
	}
	value, _ := c.value(original)
	return constraint.DataDocument{constraint.SetKey: constraint.DataDocument{c.to: value}}
}

// SelectToNoneConverter renders option values as their display labels.
// Multi-select lists become one comma-separated string.
type SelectToNoneConverter struct{}

func (SelectToNoneConverter) FromTypes() []config.ConstraintType {
	return []config.ConstraintType{config.ConstraintTypeSelect}
}

func (SelectToNoneConverter) ToTypes() []config.ConstraintType {
	return []config.ConstraintType{config.ConstraintTypeNone}
}

func (SelectToNoneConverter) Init(env Env) Conversion {
	if env.From.Constraint == nil {
		return noPatch{}
	}
	cfg, ok := env.From.Constraint.Config.(config.SelectConfig)
	if !ok {
		return noPatch{}
	}

	table := make(map[string]interface{}, len(cfg.Options))
	for _, o := range cfg.Options {
		if cfg.DisplayValues && o.DisplayValue != "" {
			table[o.Value] = o.DisplayValue
		}
	}
	return translation{
		from:          env.From.ID,
		to:            env.To.ID,
		table:         table,
		ignoreMissing: true,
		fromArray:     true,
	}
}
