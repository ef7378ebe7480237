// Package semester implements UQAM semester code arithmetic.
//
// The portal identifies a term by a five digit code YYYYT, where T is
// 1 (Hiver), 2 (Été) or 3 (Automne). Codes order naturally: a larger
// code is a later term.
package semester

import (
	"strconv"
	"time"
)

// Code is a portal semester code in the YYYYT format.
type Code int

// Term digits as used by the portal.
const (
	TermHiver   = 1 // January through April
	TermEte     = 2 // May through August
	TermAutomne = 3 // September through December
)

// CodeAt returns the semester code for the given date.
func CodeAt(t time.Time) Code {
	year := t.Year()

	var term int
	switch m := int(t.Month()); {
	case m <= 4:
		term = TermHiver
	case m <= 8:
		term = TermEte
	default:
		term = TermAutomne
	}

	return Code(year*10 + term)
}

// CurrentCode returns the semester code for today's date.
func CurrentCode() Code {
	return CodeAt(time.Now())
}

// Year returns the calendar year encoded in the code.
func (c Code) Year() int {
	return int(c) / 10
}

// Term returns the term digit encoded in the code.
func (c Code) Term() int {
	return int(c) % 10
}

// String returns the decimal representation of the code.
func (c Code) String() string {
	return strconv.Itoa(int(c))
}

// FormatName returns a human readable label such as "Hiver 2025".
// Malformed codes (anything other than exactly five digits, or an
// unknown term digit) are returned as their decimal string unchanged;
// this is a display fallback, never an error.
func FormatName(c Code) string {
	s := c.String()
	if len(s) != 5 {
		return s
	}

	switch c.Term() {
	case TermHiver:
		return "Hiver " + strconv.Itoa(c.Year())
	case TermEte:
		return "Été " + strconv.Itoa(c.Year())
	case TermAutomne:
		return "Automne " + strconv.Itoa(c.Year())
	default:
		return s
	}
}
