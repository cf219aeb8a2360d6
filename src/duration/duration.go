// Package duration converts between millisecond durations and their unit
// notation ("1d2h30m") under the Classic, Work and Custom conventions.
package duration

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"typeshift/src/config"
)

// Conversions maps every unit to its length in milliseconds.
type Conversions map[config.DurationUnit]int64

// Labels maps every unit to its display label.
type Labels map[config.DurationUnit]string

// Unit multipliers, from second up: milliseconds per second, seconds per
// minute, minutes per hour, hours per day, days per week.
var (
	classicMultipliers = map[config.DurationUnit]int64{
		config.DurationUnitSecond: 1000,
		config.DurationUnitMinute: 60,
		config.DurationUnitHour:   60,
		config.DurationUnitDay:    24,
		config.DurationUnitWeek:   7,
	}
	workMultipliers = map[config.DurationUnit]int64{
		config.DurationUnitSecond: 1000,
		config.DurationUnitMinute: 60,
		config.DurationUnitHour:   60,
		config.DurationUnitDay:    8,
		config.DurationUnitWeek:   5,
	}
)

// smallest first
var ascendingUnits = []config.DurationUnit{
	config.DurationUnitSecond,
	config.DurationUnitMinute,
	config.DurationUnitHour,
	config.DurationUnitDay,
	config.DurationUnitWeek,
}

// ConversionsFor builds the millisecond ladder of a Duration configuration.
// Custom multipliers missing from the configuration fall back to Classic.
func ConversionsFor(cfg config.DurationConfig) Conversions {
	multipliers := classicMultipliers
	switch cfg.Type {
	case config.DurationTypeWork:
		multipliers = workMultipliers
	case config.DurationTypeCustom:
		multipliers = make(map[config.DurationUnit]int64, len(classicMultipliers))
		for unit, m := range classicMultipliers {
			multipliers[unit] = m
			if custom, ok := cfg.Conversions[unit]; ok && custom > 0 {
				multipliers[unit] = custom
			}
		}
	}

	conversions := make(Conversions, len(ascendingUnits))
	length := int64(1)
	for _, unit := range ascendingUnits {
		length *= multipliers[unit]
		conversions[unit] = length
	}
	return conversions
}

// LabelsFor returns the unit labels of a language; Czech abbreviates week as
// "t" (týden).
func LabelsFor(language string) Labels {
	labels := Labels{
		config.DurationUnitWeek:   "w",
		config.DurationUnitDay:    "d",
		config.DurationUnitHour:   "h",
		config.DurationUnitMinute: "m",
		config.DurationUnitSecond: "s",
	}
	if strings.EqualFold(language, "cs") {
		labels[config.DurationUnitWeek] = "t"
	}
	return labels
}

// Format decomposes ms greedily into the largest units first and joins the
// non-zero amounts with their labels. The sub-second remainder is dropped;
// durations shorter than a second format as "".
func Format(ms int64, conversions Conversions, labels Labels) string {
	if ms < 0 {
		formatted := Format(-ms, conversions, labels)
		if formatted == "" {
			return ""
		}
		return "-" + formatted
	}

	var sb strings.Builder
	remaining := ms
	for _, unit := range config.DurationUnits {
		length := conversions[unit]
		if length <= 0 {
			continue
		}
		amount := remaining / length
		remaining %= length
		if amount > 0 {
			sb.WriteString(decimal.NewFromInt(amount).String())
			sb.WriteString(labels[unit])
		}
	}
	return sb.String()
}

var (
	notationMatch = regexp.MustCompile(`^-?(?:\d+(?:[.,]\d+)?[[:alpha:]]+)+$`)
	notationPart  = regexp.MustCompile(`(\d+(?:[.,]\d+)?)([[:alpha:]]+)`)
)

// Parse reads unit notation such as "1d2h", "1.5h" or "2t 3d" into
// milliseconds. Both the given labels and the English ones are accepted,
// case-insensitively.
func Parse(s string, conversions Conversions, labels Labels) (int64, bool) {
	compact := strings.Join(strings.Fields(s), "")
	if compact == "" || !notationMatch.MatchString(compact) {
		return 0, false
	}

	units := make(map[string]config.DurationUnit)
	for unit, label := range LabelsFor("en") {
		units[label] = unit
	}
	for unit, label := range labels {
		units[strings.ToLower(label)] = unit
	}

	total := decimal.Zero
	for _, part := range notationPart.FindAllStringSubmatch(compact, -1) {
		unit, ok := units[strings.ToLower(part[2])]
		if !ok {
			return 0, false
		}
		amount, err := decimal.NewFromString(strings.Replace(part[1], ",", ".", 1))
		if err != nil {
			return 0, false
		}
		total = total.Add(amount.Mul(decimal.NewFromInt(conversions[unit])))
	}

	ms := total.Round(0).IntPart()
	if strings.HasPrefix(compact, "-") {
		ms = -ms
	}
	return ms, true
}
