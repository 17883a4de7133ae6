// Package nationalid validates 13-digit national identity numbers and
// extracts the data encoded in them.
//
// A national ID carries the holder's date of birth in its first six digits
// (YYMMDD) and a Luhn check digit in its last position.
//
// Domain Purity: no I/O and no clock reads. Everything here is a pure
// function of its arguments.
package nationalid

import "time"

// Length is the number of digits in a national ID.
const Length = 13

// centuryPivot splits two-digit birth years: values below it belong to the
// 2000s, everything else to the 1900s.
const centuryPivot = 30

// FixtureIDs returns the demo identities that reconciliation exempts from
// the checksum rule unless configured otherwise. Neither passes Valid.
func FixtureIDs() []string {
	return []string{"0001010000001", "9999999999999"}
}

// UnknownBirthDate is used when a birth date cannot be derived from an ID.
var UnknownBirthDate = time.Date(1900, time.January, 1, 0, 0, 0, 0, time.UTC)

// Valid reports whether s is exactly 13 ASCII digits with a valid Luhn check
// digit. Scanning right to left, the rightmost digit is taken as-is and every
// second digit after it is doubled, subtracting 9 when the doubled value
// exceeds 9.
func Valid(s string) bool {
	if len(s) != Length {
		return false
	}
	sum := 0
	double := false
	for i := len(s) - 1; i >= 0; i-- {
		c := s[i]
		if c < '0' || c > '9' {
			return false
		}
		n := int(c - '0')
		if double {
			n *= 2
			if n > 9 {
				n -= 9
			}
		}
		sum += n
		double = !double
	}
	return sum%10 == 0
}

// WellFormed reports whether s has the shape of a national ID (13 ASCII
// digits) without checking the check digit.
func WellFormed(s string) bool {
	if len(s) != Length {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// BirthDate derives the holder's date of birth from the YYMMDD prefix.
// Returns false when the prefix is not a real calendar date.
func BirthDate(id string) (time.Time, bool) {
	if !WellFormed(id) {
		return time.Time{}, false
	}
	yy := twoDigits(id[0:2])
	mm := twoDigits(id[2:4])
	dd := twoDigits(id[4:6])

	year := ExpandYear(yy)
	if mm < 1 || mm > 12 || dd < 1 {
		return time.Time{}, false
	}
	t := time.Date(year, time.Month(mm), dd, 0, 0, 0, 0, time.UTC)
	// time.Date normalises overflow (e.g. Feb 30 -> Mar 2); reject that.
	if t.Month() != time.Month(mm) || t.Day() != dd {
		return time.Time{}, false
	}
	return t, true
}

// BirthDateOrUnknown is BirthDate with UnknownBirthDate as the fallback.
func BirthDateOrUnknown(id string) time.Time {
	if t, ok := BirthDate(id); ok {
		return t
	}
	return UnknownBirthDate
}

// ExpandYear maps a two-digit year onto the 1930-2029 window used by IDs.
func ExpandYear(yy int) int {
	if yy < centuryPivot {
		return 2000 + yy
	}
	return 1900 + yy
}

// Redact returns a log-safe form of an ID that keeps only the last four
// characters for correlation.
func Redact(id string) string {
	if len(id) <= 4 {
		return "****"
	}
	return "****" + id[len(id)-4:]
}

func twoDigits(s string) int {
	return int(s[0]-'0')*10 + int(s[1]-'0')
}
