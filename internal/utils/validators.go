package utils

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf16"
)

// emailChar excludes '@' and whitespace as browsers define it: RE2's \s plus
// vertical tab, Unicode separators and the BOM.
const emailChar = `[^\s\x0B\p{Z}\x{FEFF}@]`

var (
	emailPattern  = regexp.MustCompile(`^` + emailChar + `+@` + emailChar + `+\.` + emailChar + `+$`)
	nonDigit      = regexp.MustCompile(`\D`)
	sevenDigitsRe = regexp.MustCompile(`^\d{7}$`)
)

// IsValidEmail checks for the local@domain.tld shape.
func IsValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// DigitsOnly strips every character that is not an ASCII digit.
func DigitsOnly(s string) string {
	return nonDigit.ReplaceAllString(s, "")
}

// IsSevenDigits reports whether s is exactly seven ASCII digits.
func IsSevenDigits(s string) bool {
	return sevenDigitsRe.MatchString(s)
}

// isBrowserSpace matches the characters String.prototype.trim removes: the BOM
// counts, NEL does not.
func isBrowserSpace(r rune) bool {
	if r == '\uFEFF' {
		return true
	}
	return r != '\u0085' && unicode.IsSpace(r)
}

// TrimmedLength trims surrounding whitespace and counts UTF-16 code units, the
// length a browser reports for the same input.
func TrimmedLength(s string) int {
	n := 0
	for _, r := range strings.TrimFunc(s, isBrowserSpace) {
		if l := utf16.RuneLen(r); l > 0 {
			n += l
		} else {
			n++
		}
	}
	return n
}
