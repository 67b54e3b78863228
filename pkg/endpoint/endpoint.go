// Package endpoint turns user-supplied text into interval endpoints.
//
// An endpoint is either a decimal integer or a dotted IPv4 address, which is
// mapped to its 32-bit numeric value so address ranges can be stored in an
// interval tree next to plain numbers.
package endpoint

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ErrNotNumeric is returned for text that is neither an integer nor an IPv4
// address.
var ErrNotNumeric = errors.New("not a numeric endpoint")

// Parse converts a single endpoint.
func Parse(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errors.Wrap(ErrNotNumeric, "empty endpoint")
	}

	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return v, nil
	}

	if strings.Count(s, ".") == 3 {
		if v, err := IP2Long(s); err == nil {
			return int64(v), nil
		}
	}

	return 0, errors.Wrapf(ErrNotNumeric, "%q", s)
}

// ParseRange converts "a-b", "a,b", "a b", an IPv4 CIDR block or a single
// endpoint (giving a degenerate range) into its two endpoints. The order of
// the endpoints is not checked.
func ParseRange(s string) (low, high int64, err error) {
	s = strings.TrimSpace(s)

	if strings.Contains(s, "/") {
		start, end, err := CIDRToIPRange(s)
		if err != nil {
			return 0, 0, err
		}
		return int64(start), int64(end), nil
	}

	parts := splitRange(s)
	switch len(parts) {
	case 1:
		v, err := Parse(parts[0])
		return v, v, err
	case 2:
		if low, err = Parse(parts[0]); err != nil {
			return 0, 0, err
		}
		if high, err = Parse(parts[1]); err != nil {
			return 0, 0, err
		}
		return low, high, nil
	default:
		return 0, 0, errors.Wrapf(ErrNotNumeric, "malformed range %q", s)
	}
}

func splitRange(s string) []string {
	if strings.ContainsAny(s, ",; \t") {
		return strings.Fields(strings.Map(func(r rune) rune {
			if r == ',' || r == ';' {
				return ' '
			}
			return r
		}, s))
	}
	// A leading minus belongs to the first number.
	if i := strings.Index(s[min(1, len(s)):], "-"); i >= 0 {
		i++
		return []string{s[:i], s[i+1:]}
	}
	return []string{s}
}

// Format renders v as an IPv4 address when asIP is set and v fits, as a
// decimal otherwise.
func Format(v int64, asIP bool) string {
	if asIP && v >= 0 && v <= 0xffffffff {
		return Long2IP(uint32(v))
	}
	return strconv.FormatInt(v, 10)
}
