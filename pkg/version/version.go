package version

import (
	"sort"
	"strconv"
	"strings"
)

// Number represents a dotted numeric version with up to four components,
// e.g. "2.1.10.8038". Missing or non-numeric components are treated as 0,
// so parsing never fails. The original string is kept for display.
type Number struct {
	Major int
	Minor int
	Patch int
	Build int
	Raw   string
}

// Parse converts a version string into a Number. Anything that is not a
// clean non-negative integer in a component position becomes 0.
func Parse(s string) Number {
	n := Number{Raw: s}
	parts := strings.Split(strings.TrimSpace(s), ".")
	read := func(i int) int {
		if i >= len(parts) {
			return 0
		}
		v, err := strconv.Atoi(strings.TrimSpace(parts[i]))
		if err != nil || v < 0 {
			return 0
		}
		return v
	}
	n.Major = read(0)
	n.Minor = read(1)
	n.Patch = read(2)
	n.Build = read(3)
	return n
}

// String returns the original version string.
func (n Number) String() string {
	return n.Raw
}

// Compare compares two Numbers component-wise.
// Returns -1 if n < other, 0 if equal, 1 if n > other.
func (n Number) Compare(other Number) int {
	pairs := [4][2]int{
		{n.Major, other.Major},
		{n.Minor, other.Minor},
		{n.Patch, other.Patch},
		{n.Build, other.Build},
	}
	for _, p := range pairs {
		if p[0] != p[1] {
			if p[0] < p[1] {
				return -1
			}
			return 1
		}
	}
	return 0
}

// Less reports whether n orders before other.
func (n Number) Less(other Number) bool {
	return n.Compare(other) < 0
}

// CompareStrings compares two version strings numerically.
// A concrete version always outranks the empty string.
func CompareStrings(a, b string) int {
	if a == "" && b == "" {
		return 0
	}
	if a == "" {
		return -1
	}
	if b == "" {
		return 1
	}
	return Parse(a).Compare(Parse(b))
}

// SortDescending sorts version strings newest first, in place, and returns
// the slice for convenience.
func SortDescending(versions []string) []string {
	sort.SliceStable(versions, func(i, j int) bool {
		return CompareStrings(versions[i], versions[j]) > 0
	})
	return versions
}

// Latest returns the maximum version among the given strings.
// The second return is false when the slice is empty.
func Latest(versions []string) (string, bool) {
	best := ""
	for _, v := range versions {
		if CompareStrings(v, best) > 0 {
			best = v
		}
	}
	return best, best != ""
}

// HasPrefix reports whether v matches the dotted prefix spec, i.e. whether
// v starts with spec followed by a dot ("8.1" matches "8.1.23" but not
// "8.10.0"). An exact equal string also matches.
func HasPrefix(v, spec string) bool {
	if strings.EqualFold(v, spec) {
		return true
	}
	return strings.HasPrefix(strings.ToLower(v), strings.ToLower(spec)+".")
}

// MatchPrefix filters versions down to those matching the dotted prefix
// spec, preserving input order.
func MatchPrefix(spec string, versions []string) []string {
	var matched []string
	for _, v := range versions {
		if HasPrefix(v, spec) {
			matched = append(matched, v)
		}
	}
	return matched
}
