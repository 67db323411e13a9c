// Package version implements the SDK's version handling: parsing and
// ordering the gateway's mixed semantic/non-semantic version strings,
// and resolving catalog queries against them.
package version

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var semverPattern = regexp.MustCompile(`^v?(\d+)(?:\.(\d+))?(?:\.(\d+))?$`)

// SemVer is an ordered (major, minor, patch) triple. Missing components
// default to zero. Parsed from strings matching ^v?\d+(\.\d+){0,2}$.
type SemVer struct {
	Major, Minor, Patch int
}

// Parse parses s into a SemVer. A leading "v" is stripped.
func Parse(s string) (SemVer, error) {
	m := semverPattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return SemVer{}, fmt.Errorf("version: %q is not a valid version string", s)
	}
	major, _ := strconv.Atoi(m[1])
	minor, patch := 0, 0
	if m[2] != "" {
		minor, _ = strconv.Atoi(m[2])
	}
	if m[3] != "" {
		patch, _ = strconv.Atoi(m[3])
	}
	return SemVer{Major: major, Minor: minor, Patch: patch}, nil
}

// IsSemantic reports whether s contains a dot — the resolver's test
// for "semantic" vs. plain-integer ("non-semantic") version strings.
func IsSemantic(s string) bool {
	return strings.Contains(s, ".")
}

// String formats v as "v<major>.<minor>.<patch>".
func (v SemVer) String() string {
	return fmt.Sprintf("v%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// Compare returns -1, 0, or 1 as v is less than, equal to, or greater
// than other, comparing lexicographically over (major, minor, patch).
func (v SemVer) Compare(other SemVer) int {
	if v.Major != other.Major {
		return compareInt(v.Major, other.Major)
	}
	if v.Minor != other.Minor {
		return compareInt(v.Minor, other.Minor)
	}
	return compareInt(v.Patch, other.Patch)
}

// Equal reports whether v and other have the same triple.
func (v SemVer) Equal(other SemVer) bool {
	return v.Compare(other) == 0
}

func compareInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
