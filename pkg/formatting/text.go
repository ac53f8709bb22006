package formatting

import "unicode/utf8"

// Truncate returns the first limit characters (runes) of s and the number of
// characters that were dropped. A non-positive limit returns s unchanged.
func Truncate(s string, limit int) (string, int) {
	if limit <= 0 {
		return s, 0
	}

	count := 0
	for i := range s {
		if count == limit {
			return s[:i], utf8.RuneCountInString(s[i:])
		}
		count++
	}
	return s, 0
}

// CharCount returns the number of characters (runes) in s.
func CharCount(s string) int {
	return utf8.RuneCountInString(s)
}
