// Package sizes parses partition size arguments.
package sizes

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrGarbage is returned alongside a zero size when the text is not a valid size.
var ErrGarbage = errors.New("garbage after end of number")

// ParseKilobytes converts a size argument into kilobytes. The number follows C strtoul
// base-0 rules (0x prefix for hex, leading 0 for octal, decimal otherwise) and may be
// followed by one case-insensitive K, M or G suffix; no suffix means K.
//
// Invalid input yields 0 together with ErrGarbage. Callers treat 0 as an empty
// partition, so the error is informational.
func ParseKilobytes(text string) (uint64, error) {
	s := strings.TrimLeft(text, " \t\n\v\f\r")
	s = strings.TrimPrefix(s, "+")

	digits, rest := splitNumber(s)
	var n uint64
	if digits != "" {
		var err error
		n, err = strconv.ParseUint(digits, 0, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q: %v", ErrGarbage, text, err)
		}
	}

	var shift uint
	switch strings.ToLower(rest) {
	case "", "k":
	case "m":
		shift = 10
	case "g":
		shift = 20
	default:
		return 0, fmt.Errorf("%w: %q", ErrGarbage, text)
	}

	if n > math.MaxUint64>>shift {
		return 0, fmt.Errorf("%w: %q overflows", ErrGarbage, text)
	}
	return n << shift, nil
}

// splitNumber returns the longest prefix of s that strtoul with base 0 would consume.
func splitNumber(s string) (number, rest string) {
	if len(s) > 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') && isHex(s[2]) {
		i := 2
		for i < len(s) && isHex(s[i]) {
			i++
		}
		return s[:i], s[i:]
	}
	if len(s) > 0 && s[0] == '0' {
		i := 1
		for i < len(s) && s[i] >= '0' && s[i] <= '7' {
			i++
		}
		return s[:i], s[i:]
	}
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	return s[:i], s[i:]
}

func isHex(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

// ParseUint parses an integer argument with C strtoul base-0 rules, ignoring anything
// after the number. It is used for the numeric options that the original command line
// accepted in decimal, octal or hex.
func ParseUint(text string, bitSize int) (uint64, error) {
	s := strings.TrimPrefix(strings.TrimLeft(text, " \t\n\v\f\r"), "+")
	digits, _ := splitNumber(s)
	if digits == "" {
		return 0, fmt.Errorf("invalid number %q", text)
	}
	return strconv.ParseUint(digits, 0, bitSize)
}
