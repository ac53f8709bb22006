// Package formatting converts values to and from human-readable forms:
// byte sizes for configuration and logs, and character-bounded text.
package formatting

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// ErrInvalidSize is returned by ParseBytes for malformed input.
var ErrInvalidSize = errors.New("invalid byte size")

// Sizes are base-1024. The IEC spellings (KiB, MiB, ...) are accepted as aliases.
var units = []string{"B", "KB", "MB", "GB", "TB", "PB", "EB"}

// FormatBytes renders n with the largest unit that keeps the value at or
// above one, e.g. 1536 KB at precision 1 renders as "1.5 MB".
func FormatBytes(n int64, precision int) string {
	precision = max(precision, 0)

	size := float64(n)
	i := 0
	for ; i < len(units)-1 && (size >= 1024 || size <= -1024); i++ {
		size /= 1024
	}

	if i == 0 {
		return strconv.FormatInt(n, 10) + " B"
	}
	return strconv.FormatFloat(size, 'f', precision, 64) + " " + units[i]
}

// ParseBytes parses sizes such as "20MB", "512 kb", "1.5GiB" or a bare byte
// count. Unit matching is case-insensitive.
func ParseBytes(s string) (int64, error) {
	s = strings.TrimSpace(s)

	split := strings.IndexFunc(s, func(r rune) bool {
		return !unicode.IsDigit(r) && r != '.'
	})
	num, unit := s, ""
	if split >= 0 {
		num, unit = s[:split], strings.TrimSpace(s[split:])
	}

	if num == "" {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSize, s)
	}

	value, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSize, s)
	}

	multiplier, ok := unitMultiplier(unit)
	if !ok {
		return 0, fmt.Errorf("%w: unknown unit %q", ErrInvalidSize, unit)
	}

	return int64(value * float64(multiplier)), nil
}

func unitMultiplier(unit string) (int64, bool) {
	unit = strings.ToUpper(unit)
	if unit == "" {
		return 1, true
	}
	if len(unit) == 3 && unit[1] == 'I' {
		unit = unit[:1] + unit[2:]
	}

	var m int64 = 1
	for _, u := range units {
		if u == unit {
			return m, true
		}
		m *= 1024
	}
	return 0, false
}
