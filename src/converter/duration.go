package converter

import (
	"typeshift/src/config"
	"typeshift/src/constraint"
	"typeshift/src/duration"
)

// DurationToNoneConverter renders millisecond durations in unit notation.
type DurationToNoneConverter struct{}

func (DurationToNoneConverter) FromTypes() []config.ConstraintType {
	return []config.ConstraintType{config.ConstraintTypeDuration}
}

func (DurationToNoneConverter) ToTypes() []config.ConstraintType {
	return []config.ConstraintType{config.ConstraintTypeNone}
}

// Init reads the Duration configuration of the source attribute, falling
// back to the target.
func (DurationToNoneConverter) Init(env Env) Conversion {
	for _, attr := range []config.Attribute{env.From, env.To} {
		if attr.Constraint == nil {
			continue
		}
		if cfg, ok := attr.Constraint.Config.(config.DurationConfig); ok {
			return durationToNone{
				from:        env.From.ID,
				to:          env.To.ID,
				conversions: duration.ConversionsFor(cfg),
				labels:      duration.LabelsFor(language(env)),
			}
		}
	}
	return noPatch{}
}

type durationToNone struct {
	from, to    string
	conversions duration.Conversions
	labels      duration.Labels
}

func (c durationToNone) PatchDocument(doc constraint.DataDocument) constraint.DataDocument {
	value := doc[c.from]
	if s, ok := value.(string); ok {
		if !constraint.IsNumber(s) {
			return nil
		}
		value = constraint.ParseNumber(nil, s)
	}
	d, ok := constraint.ToDecimal(value)
	if !ok {
		return nil
	}

	formatted := duration.Format(d.IntPart(), c.conversions, c.labels)
	if formatted == "" {
		return nil
	}
	return constraint.DataDocument{c.to: formatted}
}

func (c durationToNone) Close() error { return nil }
