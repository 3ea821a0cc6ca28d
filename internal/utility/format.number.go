package utility

import "strconv"

// ParseLeadingInt reads the optional sign and leading decimal digits of s,
// ignoring leading whitespace and anything after the digits ("12abc" -> 12).
// ok is false when no digit was found.
func ParseLeadingInt(s string) (int64, bool) {
	i := 0
	for i < len(s) && (s[i] == ' ' || s[i] == '\t' || s[i] == '\n' || s[i] == '\r') {
		i++
	}

	start := i
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	digits := i
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == digits {
		return 0, false
	}

	n, err := strconv.ParseInt(s[start:i], 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// PositiveIntOr returns the leading integer of s, or def when it is missing, zero or negative
func PositiveIntOr(s string, def int64) int64 {
	n, ok := ParseLeadingInt(s)
	if !ok || n <= 0 {
		return def
	}
	return n
}
