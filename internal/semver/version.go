// Package semver implements the registry's version model: up to four
// numeric parts with optional prerelease label and build metadata, plus
// interval ranges over those versions.
//
// Registry versions are a superset of semantic versions. A fourth
// "revision" part is accepted for compatibility with legacy packages
// ("1.0.0.1"), and short forms like "1.0" are filled out to three parts.
// The normalized form drops a zero revision and strips build metadata, so
// "1.0", "1.0.0" and "1.0.0.0" all normalize to "1.0.0".
package semver

import (
	"fmt"
	"strconv"
	"strings"
)

// Version is a parsed registry version.
type Version struct {
	Major      uint64
	Minor      uint64
	Patch      uint64
	Revision   uint64
	Prerelease string
	Metadata   string

	original string
}

// Parse parses a version string. A leading "v" is tolerated.
func Parse(s string) (*Version, error) {
	v := &Version{original: s}

	rest := strings.TrimSpace(s)
	rest = strings.TrimPrefix(rest, "v")
	if rest == "" {
		return nil, fmt.Errorf("empty version")
	}

	if i := strings.IndexByte(rest, '+'); i >= 0 {
		v.Metadata = rest[i+1:]
		rest = rest[:i]
	}
	if i := strings.IndexByte(rest, '-'); i >= 0 {
		v.Prerelease = rest[i+1:]
		rest = rest[:i]
		if v.Prerelease == "" {
			return nil, fmt.Errorf("invalid version %q: empty prerelease label", s)
		}
	}

	parts := strings.Split(rest, ".")
	if len(parts) > 4 {
		return nil, fmt.Errorf("invalid version %q: more than four parts", s)
	}
	nums := make([]uint64, len(parts))
	for i, p := range parts {
		n, err := strconv.ParseUint(p, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid version %q: part %q is not numeric", s, p)
		}
		nums[i] = n
	}

	v.Major = nums[0]
	if len(nums) > 1 {
		v.Minor = nums[1]
	}
	if len(nums) > 2 {
		v.Patch = nums[2]
	}
	if len(nums) > 3 {
		v.Revision = nums[3]
	}
	return v, nil
}

// MustParse parses a version string and panics on failure. For tests and
// compile-time constants.
func MustParse(s string) *Version {
	v, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return v
}

// Original returns the version string exactly as the author supplied it.
func (v *Version) Original() string {
	return v.original
}

// String returns the normalized form: major.minor.patch, a non-zero
// revision, and the prerelease label. Build metadata is stripped.
func (v *Version) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d.%d.%d", v.Major, v.Minor, v.Patch)
	if v.Revision > 0 {
		fmt.Fprintf(&b, ".%d", v.Revision)
	}
	if v.Prerelease != "" {
		b.WriteByte('-')
		b.WriteString(v.Prerelease)
	}
	return b.String()
}

// IsPrerelease reports whether the version carries a prerelease label.
func (v *Version) IsPrerelease() bool {
	return v.Prerelease != ""
}

// Compare returns -1, 0 or 1 ordering v against o. Numeric parts are
// compared first, then prerelease labels with semver precedence: a
// release outranks any prerelease of the same numeric version, and
// labels compare identifier by identifier, case-insensitively. Build
// metadata never participates.
func (v *Version) Compare(o *Version) int {
	if c := compareUint(v.Major, o.Major); c != 0 {
		return c
	}
	if c := compareUint(v.Minor, o.Minor); c != 0 {
		return c
	}
	if c := compareUint(v.Patch, o.Patch); c != 0 {
		return c
	}
	if c := compareUint(v.Revision, o.Revision); c != 0 {
		return c
	}
	return comparePrerelease(v.Prerelease, o.Prerelease)
}

func compareUint(a, b uint64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func comparePrerelease(a, b string) int {
	if a == "" && b == "" {
		return 0
	}
	if a == "" {
		return 1
	}
	if b == "" {
		return -1
	}

	as := strings.Split(strings.ToLower(a), ".")
	bs := strings.Split(strings.ToLower(b), ".")
	for i := 0; i < len(as) && i < len(bs); i++ {
		if c := compareIdentifier(as[i], bs[i]); c != 0 {
			return c
		}
	}
	switch {
	case len(as) < len(bs):
		return -1
	case len(as) > len(bs):
		return 1
	default:
		return 0
	}
}

func compareIdentifier(a, b string) int {
	an, aerr := strconv.ParseUint(a, 10, 64)
	bn, berr := strconv.ParseUint(b, 10, 64)
	switch {
	case aerr == nil && berr == nil:
		return compareUint(an, bn)
	case aerr == nil:
		// Numeric identifiers sort below alphanumeric ones.
		return -1
	case berr == nil:
		return 1
	default:
		return strings.Compare(a, b)
	}
}
