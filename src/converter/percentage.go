package converter

import (
	"strings"

	"github.com/shopspring/decimal"

	"typeshift/src/config"
	"typeshift/src/constraint"
)

// NoneToPercentageConverter turns "12.5%" text into the fraction 0.125.
type NoneToPercentageConverter struct{}

func (NoneToPercentageConverter) FromTypes() []config.ConstraintType {
	return []config.ConstraintType{config.ConstraintTypeNone}
}

func (NoneToPercentageConverter) ToTypes() []config.ConstraintType {
	return []config.ConstraintType{config.ConstraintTypePercentage}
}

func (NoneToPercentageConverter) Init(env Env) Conversion {
	return noneToPercentage{from: env.From.ID, to: env.To.ID, manager: env.Manager}
}

type noneToPercentage struct {
	from, to string
	manager  *constraint.Manager
}

func (c noneToPercentage) PatchDocument(doc constraint.DataDocument) constraint.DataDocument {
	s, ok := doc[c.from].(string)
	if !ok {
		return nil
	}
	trimmed := strings.TrimSpace(s)
	if !strings.HasSuffix(trimmed, "%") {
		return nil
	}

	encoded, err := c.manager.Encode(strings.TrimSpace(strings.TrimSuffix(trimmed, "%")))
	if err != nil {
		return nil
	}
	switch n := encoded.(type) {
	case int64:
		return constraint.DataDocument{c.to: decimal.NewFromInt(n).Shift(-2)}
	case decimal.Decimal:
		return constraint.DataDocument{c.to: n.Shift(-2)}
	case float64:
		return constraint.DataDocument{c.to: n / 100}
	}
	return nil
}

func (c noneToPercentage) Close() error { return nil }
