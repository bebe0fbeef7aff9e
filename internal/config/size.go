package config

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrInvalidSize is returned for size strings ParseSize cannot read.
var ErrInvalidSize = errors.New("invalid size")

// ParseSize converts a size such as "20M", "1.5t" or "-500m" into bytes.
//
// A bare integer, optionally signed, is taken as a byte count. Otherwise the
// last character must be one of k, m, g, t (any case), scaling the preceding
// number, which may be fractional, by the matching power of 1024. Fractional
// results are truncated toward zero.
func ParseSize(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: empty string", ErrInvalidSize)
	}

	last := s[len(s)-1]
	if '0' <= last && last <= '9' {
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrInvalidSize, s)
		}
		return n, nil
	}

	power := strings.IndexByte("kmgt", lower(last))
	if power < 0 {
		return 0, fmt.Errorf("%w: unknown unit %q in %q", ErrInvalidSize, string(last), s)
	}

	number, err := strconv.ParseFloat(s[:len(s)-1], 64)
	if err != nil || math.IsNaN(number) || math.IsInf(number, 0) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSize, s)
	}

	bytes := number * math.Pow(1024, float64(power+1))
	if bytes >= math.MaxInt64 || bytes <= math.MinInt64 {
		return 0, fmt.Errorf("%w: %q is out of range", ErrInvalidSize, s)
	}
	return int64(bytes), nil
}

func lower(c byte) byte {
	if 'A' <= c && c <= 'Z' {
		return c + 'a' - 'A'
	}
	return c
}
