package converter

import (
	"math"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"typeshift/src/config"
	"typeshift/src/constraint"
	"typeshift/src/datefmt"
)

// dateFormat returns the first non-empty DateTime display format of the
// pair, source first.
func dateFormat(env Env) string {
	for _, attr := range []config.Attribute{env.From, env.To} {
		if attr.Constraint == nil {
			continue
		}
		if cfg, ok := attr.Constraint.Config.(config.DateTimeConfig); ok && strings.TrimSpace(cfg.Format) != "" {
			return cfg.Format
		}
	}
	return ""
}

func compileDateFormat(env Env) *datefmt.Parser {
	format := dateFormat(env)
	if format == "" {
		return nil
	}
	parser, err := datefmt.Compile(format, language(env))
	if err != nil {
		logrus.Debugf("Cannot compile date format %q: %v", format, err)
		return nil
	}
	return parser
}

// DateToNoneConverter renders stored dates as display text.
type DateToNoneConverter struct{}

func (DateToNoneConverter) FromTypes() []config.ConstraintType {
	return []config.ConstraintType{config.ConstraintTypeDateTime}
}

func (DateToNoneConverter) ToTypes() []config.ConstraintType {
	return []config.ConstraintType{config.ConstraintTypeNone}
}

func (DateToNoneConverter) Init(env Env) Conversion {
	parser := compileDateFormat(env)
	if parser == nil {
		return noPatch{}
	}
	return dateToNone{from: env.From.ID, to: env.To.ID, parser: parser}
}

type dateToNone struct {
	from, to string
	parser   *datefmt.Parser
}

func (c dateToNone) PatchDocument(doc constraint.DataDocument) constraint.DataDocument {
	t, ok := asTime(doc[c.from])
	if !ok {
		return nil
	}
	return constraint.DataDocument{c.to: c.parser.Format(t.UTC())}
}

func (c dateToNone) Close() error { return nil }

// asTime accepts dates and epoch milliseconds.
func asTime(value interface{}) (time.Time, bool) {
	if t, ok := value.(time.Time); ok {
		return t, true
	}
	d, ok := constraint.ToDecimal(value)
	if !ok {
		return time.Time{}, false
	}
	f := d.InexactFloat64()
	if math.Abs(f) > float64(math.MaxInt64) {
		return time.Time{}, false
	}
	return time.UnixMilli(d.IntPart()), true
}

// NoneToDateConverter parses display text into dates.
type NoneToDateConverter struct{}

func (NoneToDateConverter) FromTypes() []config.ConstraintType {
	return []config.ConstraintType{config.ConstraintTypeNone}
}

func (NoneToDateConverter) ToTypes() []config.ConstraintType {
	return []config.ConstraintType{config.ConstraintTypeDateTime}
}

func (NoneToDateConverter) Init(env Env) Conversion {
	parser := compileDateFormat(env)
	if parser == nil {
		return noPatch{}
	}
	return noneToDate{from: env.From.ID, to: env.To.ID, parser: parser}
}

type noneToDate struct {
	from, to string
	parser   *datefmt.Parser
}

// PatchDocument never reinterprets number-like text as a date.
func (c noneToDate) PatchDocument(doc constraint.DataDocument) constraint.DataDocument {
	s, ok := doc[c.from].(string)
	if !ok || constraint.IsNumber(strings.TrimSpace(s)) {
		return nil
	}
	t, err := c.parser.Parse(s)
	if err != nil {
		return nil
	}
	return constraint.DataDocument{c.to: t.UTC()}
}

func (c noneToDate) Close() error { return nil }
