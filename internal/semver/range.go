package semver

import (
	"fmt"
	"strings"
)

// Range is an interval over registry versions. The syntax follows the
// interval notation used by package manifests:
//
//	1.0          minimum 1.0.0, inclusive
//	[1.0,2.0)    1.0.0 <= v < 2.0.0
//	(,1.0]       v <= 1.0.0
//	[1.0]        exactly 1.0.0
type Range struct {
	Min        *Version
	Max        *Version
	IncludeMin bool
	IncludeMax bool

	raw string
}

// ParseRange parses a range expression.
func ParseRange(s string) (*Range, error) {
	r := &Range{raw: s}

	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return nil, fmt.Errorf("empty version range")
	}

	open := trimmed[0]
	if open != '[' && open != '(' {
		// Bare version: inclusive minimum, unbounded above.
		min, err := Parse(trimmed)
		if err != nil {
			return nil, fmt.Errorf("invalid version range %q: %w", s, err)
		}
		r.Min = min
		r.IncludeMin = true
		return r, nil
	}

	last := trimmed[len(trimmed)-1]
	if last != ']' && last != ')' {
		return nil, fmt.Errorf("invalid version range %q: unterminated interval", s)
	}
	r.IncludeMin = open == '['
	r.IncludeMax = last == ']'

	inner := trimmed[1 : len(trimmed)-1]
	lo, hi, found := strings.Cut(inner, ",")
	if !found {
		// [1.0] pins an exact version; (1.0) would exclude everything.
		if open != '[' || last != ']' {
			return nil, fmt.Errorf("invalid version range %q: single version must use [v]", s)
		}
		v, err := Parse(strings.TrimSpace(inner))
		if err != nil {
			return nil, fmt.Errorf("invalid version range %q: %w", s, err)
		}
		r.Min, r.Max = v, v
		return r, nil
	}

	lo = strings.TrimSpace(lo)
	hi = strings.TrimSpace(hi)
	if lo == "" && hi == "" {
		return nil, fmt.Errorf("invalid version range %q: both bounds empty", s)
	}
	if lo != "" {
		min, err := Parse(lo)
		if err != nil {
			return nil, fmt.Errorf("invalid version range %q: %w", s, err)
		}
		r.Min = min
	}
	if hi != "" {
		max, err := Parse(hi)
		if err != nil {
			return nil, fmt.Errorf("invalid version range %q: %w", s, err)
		}
		r.Max = max
	}
	if r.Min != nil && r.Max != nil && r.Min.Compare(r.Max) > 0 {
		return nil, fmt.Errorf("invalid version range %q: lower bound above upper bound", s)
	}
	return r, nil
}

// String returns the range exactly as it was written.
func (r *Range) String() string {
	return r.raw
}

// Satisfies reports whether v falls inside the range.
func (r *Range) Satisfies(v *Version) bool {
	if r.Min != nil {
		c := v.Compare(r.Min)
		if c < 0 || (c == 0 && !r.IncludeMin) {
			return false
		}
	}
	if r.Max != nil {
		c := v.Compare(r.Max)
		if c > 0 || (c == 0 && !r.IncludeMax) {
			return false
		}
	}
	return true
}
