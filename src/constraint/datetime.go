package constraint

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// PrimaryDateLayout is the canonical rendering of stored dates, the Go
// spelling of yyyy-MM-dd'T'HH:mm:ss.SSSZ.
const PrimaryDateLayout = "2006-01-02T15:04:05.000-0700"

const localDateLayout = "2006-01-02T15:04:05.000"

// gmtOffset matches the localized offset form, e.g. "GMT", "GMT+5:30" or
// "GMT-8".
var gmtOffset = regexp.MustCompile(`^(.+?)GMT(?:([+-])(\d{1,2})(?::(\d{2}))?)?$`)

// dateParser parses one accepted textual form of a date-time.
type dateParser func(s string) (time.Time, bool)

func layoutParser(layout string) dateParser {
	return func(s string) (time.Time, bool) {
		t, err := time.Parse(layout, s)
		if err != nil {
			return time.Time{}, false
		}
		return t, true
	}
}

func parseGMTOffset(s string) (time.Time, bool) {
	m := gmtOffset.FindStringSubmatch(s)
	if m == nil {
		return time.Time{}, false
	}
	offset := 0
	if m[2] != "" {
		hours, _ := strconv.Atoi(m[3])
		minutes := 0
		if m[4] != "" {
			minutes, _ = strconv.Atoi(m[4])
		}
		if hours > 18 || minutes > 59 {
			return time.Time{}, false
		}
		offset = hours*3600 + minutes*60
		if m[2] == "-" {
			offset = -offset
		}
	}
	t, err := time.ParseInLocation(localDateLayout, m[1], time.FixedZone("", offset))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// dateParsers returns the accepted date-time forms in priority order: the
// primary layout, then the GMT, ISO offset and ISO offset-or-Z variants.
func dateParsers() []dateParser {
	return []dateParser{
		layoutParser(PrimaryDateLayout),
		parseGMTOffset,
		layoutParser("2006-01-02T15:04:05.000-07"),
		layoutParser("2006-01-02T15:04:05.000-07:00"),
		layoutParser("2006-01-02T15:04:05.000Z07"),
		layoutParser("2006-01-02T15:04:05.000Z0700"),
		layoutParser("2006-01-02T15:04:05.000Z07:00"),
	}
}

// parseDateTime tries every accepted form, first success wins. The result
// is in UTC.
func (m *Manager) parseDateTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, parse := range m.dateParsers {
		if t, ok := parse(s); ok {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// FormatDateTime renders t in the primary layout in UTC.
func FormatDateTime(t time.Time) string {
	return t.UTC().Format(PrimaryDateLayout)
}
