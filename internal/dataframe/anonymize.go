package dataframe

import (
	"math/rand"
	"regexp"
	"strings"
)

// Previews shown to the code-generation model should not leak obviously
// sensitive values. Anonymize rewrites cells that look like emails, phone
// numbers or card numbers; everything else passes through untouched.

var (
	emailPattern = regexp.MustCompile(`^[\w.+-]+@[\w-]+\.[\w.-]+$`)
	phonePattern = regexp.MustCompile(`^\+?[\d\s().-]{7,}$`)
	cardPattern  = regexp.MustCompile(`^(?:\d[ -]?){13,19}$`)
)

// Anonymize returns a copy of the frame with sensitive-looking string
// cells replaced by synthetic values of the same shape.
func Anonymize(f *Frame) *Frame {
	rows := make([][]any, len(f.rows))
	for r, row := range f.rows {
		rows[r] = make([]any, len(row))
		for c, v := range row {
			rows[r][c] = anonymizeCell(v)
		}
	}
	return &Frame{name: f.name, columns: f.columns, index: f.index, rows: rows}
}

func anonymizeCell(v any) any {
	s, ok := v.(string)
	if !ok {
		return v
	}
	switch {
	case emailPattern.MatchString(s):
		at := strings.IndexByte(s, '@')
		return randomLetters(len(s[:at])) + s[at:]
	case cardPattern.MatchString(s), phonePattern.MatchString(s):
		return scrambleDigits(s)
	default:
		return v
	}
}

func randomLetters(n int) string {
	const letters = "abcdefghijklmnopqrstuvwxyz"
	if n < 1 {
		n = 1
	}
	b := make([]byte, n)
	for i := range b {
		b[i] = letters[rand.Intn(len(letters))]
	}
	return string(b)
}

func scrambleDigits(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= '0' && c <= '9' {
			b[i] = byte('0' + rand.Intn(10))
		}
	}
	return string(b)
}
