// Package datefmt formats and parses dates with moment-style patterns such
// as "DD.MM.YYYY HH:mm" or "D. MMMM YYYY".
package datefmt

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

type kind int

const (
	literal kind = iota
	year4
	year2
	monthName
	monthShort
	month2
	month1
	day2
	day1
	weekday
	weekdayShort
	hour2
	hour1
	hour12x2
	hour12x1
	minute2
	minute1
	second2
	second1
	millis
	meridiemUpper
	meridiemLower
	zoneCompact
	zoneColon
)

// longest first so that "MMMM" wins over "MM"
var tokenTable = []struct {
	text string
	kind kind
}{
	{"YYYY", year4},
	{"MMMM", monthName},
	{"dddd", weekday},
	{"MMM", monthShort},
	{"ddd", weekdayShort},
	{"SSS", millis},
	{"YY", year2},
	{"MM", month2},
	{"DD", day2},
	{"HH", hour2},
	{"hh", hour12x2},
	{"mm", minute2},
	{"ss", second2},
	{"ZZ", zoneCompact},
	{"M", month1},
	{"D", day1},
	{"H", hour1},
	{"h", hour12x1},
	{"m", minute1},
	{"s", second1},
	{"A", meridiemUpper},
	{"a", meridiemLower},
	{"Z", zoneColon},
}

type token struct {
	kind     kind
	text     string
	genitive bool
}

// Parser is a compiled pattern. It is immutable and safe for concurrent use.
type Parser struct {
	pattern string
	tokens  []token
	names   *names
}

// Compile tokenizes a pattern for the given language. Text inside square
// brackets is literal.
func Compile(pattern, language string) (*Parser, error) {
	if strings.TrimSpace(pattern) == "" {
		return nil, fmt.Errorf("empty date pattern")
	}

	var tokens []token
	addLiteral := func(s string) {
		if n := len(tokens); n > 0 && tokens[n-1].kind == literal {
			tokens[n-1].text += s
			return
		}
		tokens = append(tokens, token{kind: literal, text: s})
	}

	seenDay := false
	for rest := pattern; rest != ""; {
		if rest[0] == '[' {
			end := strings.IndexByte(rest, ']')
			if end < 0 {
				return nil, fmt.Errorf("unterminated literal in date pattern %q", pattern)
			}
			addLiteral(rest[1:end])
			rest = rest[end+1:]
			continue
		}

		matched := false
		for _, t := range tokenTable {
			if strings.HasPrefix(rest, t.text) {
				tok := token{kind: t.kind, text: t.text}
				switch t.kind {
				case day1, day2:
					seenDay = true
				case monthName:
					tok.genitive = seenDay
				}
				tokens = append(tokens, tok)
				rest = rest[len(t.text):]
				matched = true
				break
			}
		}
		if !matched {
			_, size := utf8.DecodeRuneInString(rest)
			addLiteral(rest[:size])
			rest = rest[size:]
		}
	}

	return &Parser{pattern: pattern, tokens: tokens, names: namesFor(language)}, nil
}

// Pattern returns the source pattern.
func (p *Parser) Pattern() string {
	return p.pattern
}

func (p *Parser) monthName(t token, month time.Month) string {
	if t.genitive && p.names.monthsGenitive[month-1] != "" {
		return p.names.monthsGenitive[month-1]
	}
	return p.names.months[month-1]
}

// Format renders t in its own location.
func (p *Parser) Format(t time.Time) string {
	var sb strings.Builder
	for _, tok := range p.tokens {
		switch tok.kind {
		case literal:
			sb.WriteString(tok.text)
		case year4:
			fmt.Fprintf(&sb, "%04d", t.Year())
		case year2:
			fmt.Fprintf(&sb, "%02d", t.Year()%100)
		case monthName:
			sb.WriteString(p.monthName(tok, t.Month()))
		case monthShort:
			sb.WriteString(p.names.monthsShort[t.Month()-1])
		case month2:
			fmt.Fprintf(&sb, "%02d", int(t.Month()))
		case month1:
			sb.WriteString(strconv.Itoa(int(t.Month())))
		case day2:
			fmt.Fprintf(&sb, "%02d", t.Day())
		case day1:
			sb.WriteString(strconv.Itoa(t.Day()))
		case weekday:
			sb.WriteString(p.names.weekdays[t.Weekday()])
		case weekdayShort:
			sb.WriteString(p.names.weekdaysShort[t.Weekday()])
		case hour2:
			fmt.Fprintf(&sb, "%02d", t.Hour())
		case hour1:
			sb.WriteString(strconv.Itoa(t.Hour()))
		case hour12x2:
			fmt.Fprintf(&sb, "%02d", hour12(t.Hour()))
		case hour12x1:
			sb.WriteString(strconv.Itoa(hour12(t.Hour())))
		case minute2:
			fmt.Fprintf(&sb, "%02d", t.Minute())
		case minute1:
			sb.WriteString(strconv.Itoa(t.Minute()))
		case second2:
			fmt.Fprintf(&sb, "%02d", t.Second())
		case second1:
			sb.WriteString(strconv.Itoa(t.Second()))
		case millis:
			fmt.Fprintf(&sb, "%03d", t.Nanosecond()/int(time.Millisecond))
		case meridiemUpper:
			sb.WriteString(p.names.meridiem[t.Hour()/12])
		case meridiemLower:
			sb.WriteString(p.names.meridiemLetters[t.Hour()/12])
		case zoneCompact:
			sb.WriteString(t.Format("-0700"))
		case zoneColon:
			sb.WriteString(t.Format("-07:00"))
		}
	}
	return sb.String()
}

func hour12(h int) int {
	if h%12 == 0 {
		return 12
	}
	return h % 12
}

type fields struct {
	year, month, day           int
	hour, minute, second, msec int
	pm                         *bool
	twelveHour                 bool
	zone                       *time.Location
}

// Parse reads s according to the pattern. Missing fields default to
// 1970-01-01 00:00:00 UTC. The whole input must be consumed and the result
// must be a real calendar date.
func (p *Parser) Parse(s string) (time.Time, error) {
	f := fields{year: 1970, month: 1, day: 1}
	rest := strings.TrimSpace(s)

	for _, tok := range p.tokens {
		var err error
		rest, err = p.parseToken(tok, rest, &f)
		if err != nil {
			return time.Time{}, fmt.Errorf("cannot parse %q as %q: %w", s, p.pattern, err)
		}
	}
	if strings.TrimSpace(rest) != "" {
		return time.Time{}, fmt.Errorf("cannot parse %q as %q: unexpected trailing text %q", s, p.pattern, rest)
	}

	hour := f.hour
	if f.twelveHour {
		if hour < 1 || hour > 12 {
			return time.Time{}, fmt.Errorf("hour out of range in %q", s)
		}
		hour %= 12
		if f.pm != nil && *f.pm {
			hour += 12
		}
	}
	if hour > 23 || f.minute > 59 || f.second > 59 {
		return time.Time{}, fmt.Errorf("time out of range in %q", s)
	}

	loc := time.UTC
	if f.zone != nil {
		loc = f.zone
	}
	t := time.Date(f.year, time.Month(f.month), f.day, hour, f.minute, f.second, f.msec*int(time.Millisecond), loc)
	if t.Year() != f.year || int(t.Month()) != f.month || t.Day() != f.day {
		return time.Time{}, fmt.Errorf("invalid date in %q", s)
	}
	return t, nil
}

func (p *Parser) parseToken(tok token, s string, f *fields) (string, error) {
	switch tok.kind {
	case literal:
		lit := strings.TrimSpace(tok.text)
		trimmed := strings.TrimLeft(s, " ")
		if lit == "" {
			return trimmed, nil
		}
		if !strings.HasPrefix(strings.ToLower(trimmed), strings.ToLower(lit)) {
			return s, fmt.Errorf("expected %q", tok.text)
		}
		return strings.TrimLeft(trimmed[len(lit):], " "), nil
	case year4:
		return digits(s, 4, 4, &f.year)
	case year2:
		rest, err := digits(s, 2, 2, &f.year)
		if err == nil {
			if f.year > 68 {
				f.year += 1900
			} else {
				f.year += 2000
			}
		}
		return rest, err
	case monthName:
		i, n := matchName(s, p.names.months[:], p.names.monthsGenitive[:])
		if i < 0 {
			return s, fmt.Errorf("expected month name")
		}
		f.month = i + 1
		return s[n:], nil
	case monthShort:
		i, n := matchName(s, p.names.monthsShort[:])
		if i < 0 {
			return s, fmt.Errorf("expected month abbreviation")
		}
		f.month = i + 1
		return s[n:], nil
	case month2, month1:
		return digits(s, 1, 2, &f.month)
	case day2, day1:
		return digits(s, 1, 2, &f.day)
	case weekday:
		if i, n := matchName(s, p.names.weekdays[:]); i >= 0 {
			return s[n:], nil
		}
		return s, fmt.Errorf("expected weekday")
	case weekdayShort:
		if i, n := matchName(s, p.names.weekdaysShort[:]); i >= 0 {
			return s[n:], nil
		}
		return s, fmt.Errorf("expected weekday abbreviation")
	case hour2, hour1:
		return digits(s, 1, 2, &f.hour)
	case hour12x2, hour12x1:
		f.twelveHour = true
		return digits(s, 1, 2, &f.hour)
	case minute2, minute1:
		return digits(s, 1, 2, &f.minute)
	case second2, second1:
		return digits(s, 1, 2, &f.second)
	case millis:
		start := s
		rest, err := digits(s, 1, 3, &f.msec)
		if err == nil {
			for n := len(start) - len(rest); n < 3; n++ {
				f.msec *= 10
			}
		}
		return rest, err
	case meridiemUpper, meridiemLower:
		i, n := matchName(s, p.names.meridiem[:], p.names.meridiemLetters[:])
		if i < 0 {
			return s, fmt.Errorf("expected AM or PM")
		}
		pm := i == 1
		f.pm = &pm
		return s[n:], nil
	case zoneCompact, zoneColon:
		return parseZone(s, f)
	}
	return s, fmt.Errorf("unsupported token %q", tok.text)
}

func digits(s string, min, max int, dst *int) (string, error) {
	n := 0
	for n < len(s) && n < max && s[n] >= '0' && s[n] <= '9' {
		n++
	}
	if n < min {
		return s, fmt.Errorf("expected %d to %d digits", min, max)
	}
	v, err := strconv.Atoi(s[:n])
	if err != nil {
		return s, err
	}
	*dst = v
	return s[n:], nil
}

func parseZone(s string, f *fields) (string, error) {
	if strings.HasPrefix(s, "Z") {
		f.zone = time.UTC
		return s[1:], nil
	}
	if s == "" || (s[0] != '+' && s[0] != '-') {
		return s, fmt.Errorf("expected zone offset")
	}
	sign := 1
	if s[0] == '-' {
		sign = -1
	}
	var hours, minutes int
	rest, err := digits(s[1:], 2, 2, &hours)
	if err != nil {
		return s, err
	}
	rest = strings.TrimPrefix(rest, ":")
	rest, err = digits(rest, 2, 2, &minutes)
	if err != nil {
		return s, err
	}
	if hours > 18 || minutes > 59 {
		return s, fmt.Errorf("zone offset out of range")
	}
	f.zone = time.FixedZone("", sign*(hours*3600+minutes*60))
	return rest, nil
}
