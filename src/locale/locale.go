// Package locale resolves the number formatting conventions of a language
// tag.
package locale

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

const (
	nbsp       = "\u00a0"
	narrowNbsp = "\u202f"
)

// Locale is an immutable set of number formatting conventions.
type Locale struct {
	Tag              language.Tag
	DecimalSeparator string
	GroupSeparator   string
}

// Parse resolves a tag such as "en", "cs" or "cs_CZ".
func Parse(tag string) (*Locale, error) {
	tag = strings.TrimSpace(strings.ReplaceAll(tag, "_", "-"))
	if tag == "" {
		return nil, fmt.Errorf("empty locale tag")
	}
	t, err := language.Parse(tag)
	if err != nil {
		return nil, fmt.Errorf("invalid locale tag %q: %w", tag, err)
	}

	decimal, group := separators(t)
	return &Locale{Tag: t, DecimalSeparator: decimal, GroupSeparator: group}, nil
}

// MustParse is Parse for tags known to be valid.
func MustParse(tag string) *Locale {
	l, err := Parse(tag)
	if err != nil {
		panic(err)
	}
	return l
}

// separators derives the separators by formatting a sample number, since
// x/text does not expose its symbol tables.
func separators(t language.Tag) (decimal, group string) {
	sample := message.NewPrinter(t).Sprintf("%v", number.Decimal(1234567.5, number.MinFractionDigits(1)))
	digits := []rune(sample)

	// The sample ends in "...7<decimal>5" and has a group mark after the 1.
	decimal, group = ".", ","
	if len(digits) >= 3 && digits[len(digits)-1] == '5' {
		decimal = string(digits[len(digits)-2])
	}
	if len(digits) >= 2 && digits[0] == '1' && (digits[1] < '0' || digits[1] > '9') {
		group = string(digits[1])
	} else if len(digits) >= 2 && digits[0] == '1' {
		group = ""
	}
	if decimal == group {
		return ".", ","
	}
	return decimal, group
}

// Language returns the base language code, e.g. "cs" for "cs-CZ".
func (l *Locale) Language() string {
	base, _ := l.Tag.Base()
	return base.String()
}

func (l *Locale) String() string {
	return l.Tag.String()
}

// Normalize removes group separators and rewrites the decimal separator to a
// dot, leaving the sign and exponent untouched.
func (l *Locale) Normalize(s string) string {
	s = strings.TrimSpace(s)
	if l.GroupSeparator != "" {
		s = strings.ReplaceAll(s, l.GroupSeparator, "")
	}
	if l.GroupSeparator == nbsp || l.GroupSeparator == narrowNbsp || l.GroupSeparator == " " {
		s = strings.NewReplacer(nbsp, "", narrowNbsp, "", " ", "").Replace(s)
	}
	if l.DecimalSeparator != "." {
		s = strings.Replace(s, l.DecimalSeparator, ".", 1)
	}
	return s
}
