package datefmt

import "strings"

type names struct {
	months          [12]string
	monthsGenitive  [12]string
	monthsShort     [12]string
	weekdays        [7]string
	weekdaysShort   [7]string
	meridiem        [2]string
	meridiemLetters [2]string
}

var english = names{
	months: [12]string{"January", "February", "March", "April", "May", "June",
		"July", "August", "September", "October", "November", "December"},
	monthsShort: [12]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun",
		"Jul", "Aug", "Sep", "Oct", "Nov", "Dec"},
	weekdays:        [7]string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"},
	weekdaysShort:   [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"},
	meridiem:        [2]string{"AM", "PM"},
	meridiemLetters: [2]string{"am", "pm"},
}

var czech = names{
	months: [12]string{"leden", "únor", "březen", "duben", "květen", "červen",
		"červenec", "srpen", "září", "říjen", "listopad", "prosinec"},
	monthsGenitive: [12]string{"ledna", "února", "března", "dubna", "května", "června",
		"července", "srpna", "září", "října", "listopadu", "prosince"},
	monthsShort: [12]string{"led", "úno", "bře", "dub", "kvě", "čvn",
		"čvc", "srp", "zář", "říj", "lis", "pro"},
	weekdays:        [7]string{"neděle", "pondělí", "úterý", "středa", "čtvrtek", "pátek", "sobota"},
	weekdaysShort:   [7]string{"ne", "po", "út", "st", "čt", "pá", "so"},
	meridiem:        [2]string{"dop.", "odp."},
	meridiemLetters: [2]string{"dop.", "odp."},
}

func namesFor(language string) *names {
	if strings.EqualFold(language, "cs") {
		return &czech
	}
	return &english
}

// matchName finds the longest candidate that prefixes s, case-insensitively.
// It returns the candidate index and the matched byte length.
func matchName(s string, candidates ...[]string) (int, int) {
	lower := strings.ToLower(s)
	best, bestLen := -1, 0
	for _, list := range candidates {
		for i, c := range list {
			if c == "" {
				continue
			}
			lc := strings.ToLower(c)
			if len(lc) > bestLen && strings.HasPrefix(lower, lc) {
				best, bestLen = i, len(lc)
			}
		}
	}
	return best, bestLen
}
