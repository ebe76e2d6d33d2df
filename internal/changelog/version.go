package changelog

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/Masterminds/semver/v3"
)

var (
	versionPattern        = regexp.MustCompile(`^(\d{1,3})\.(\d{1,3})\.(\d{1,3})$`)
	versionHeadingPattern = regexp.MustCompile(`^##\s+\[(\d{1,3})\.(\d{1,3})\.(\d{1,3})\]`)
)

// Version is a three-part dotted numeric release identifier.
// It is a value type: Increment returns a new Version.
type Version struct {
	Major int
	Minor int
	Patch int
}

// ParseVersion parses text of the exact form "major.minor.patch", where each
// component is 1-3 digits. Prefixes such as "v", prerelease tags and
// surrounding whitespace are rejected.
func ParseVersion(text string) (Version, error) {
	m := versionPattern.FindStringSubmatch(text)
	if m == nil {
		return Version{}, fmt.Errorf("%w: %q (expected: X.Y.Z)", ErrInvalidVersionFormat, text)
	}
	return versionFromGroups(m[1:]), nil
}

// versionFromGroups converts three regexp digit groups into a Version.
// The groups are already known to be 1-3 ASCII digits, so leading zeros
// ("01") are read as plain integers.
func versionFromGroups(groups []string) Version {
	var parts [3]uint64
	for i, g := range groups {
		parts[i], _ = strconv.ParseUint(g, 10, 64)
	}
	return fromSemver(*semver.New(parts[0], parts[1], parts[2], "", ""))
}

func fromSemver(sv semver.Version) Version {
	return Version{Major: int(sv.Major()), Minor: int(sv.Minor()), Patch: int(sv.Patch())}
}

func (v Version) toSemver() *semver.Version {
	return semver.New(uint64(v.Major), uint64(v.Minor), uint64(v.Patch), "", "")
}

// String returns the version as "major.minor.patch".
func (v Version) String() string {
	return v.toSemver().String()
}

// Increment returns the next version. A minor bump resets patch to zero;
// otherwise patch is incremented. Major is never changed.
func (v Version) Increment(bumpMinor bool) Version {
	if bumpMinor {
		return fromSemver(v.toSemver().IncMinor())
	}
	return fromSemver(v.toSemver().IncPatch())
}

// Compare returns -1 if v < other, 0 if equal, 1 if v > other.
func (v Version) Compare(other Version) int {
	return v.toSemver().Compare(other.toSemver())
}

// ParseVersionHeading extracts the version from a "## [x.y.z]" heading line.
// Anything after the closing bracket (usually " - date") is ignored.
func ParseVersionHeading(line string) (Version, bool) {
	m := versionHeadingPattern.FindStringSubmatch(line)
	if m == nil {
		return Version{}, false
	}
	return versionFromGroups(m[1:]), true
}

// IsVersionHeading reports whether line starts a version section.
func IsVersionHeading(line string) bool {
	return versionHeadingPattern.MatchString(line)
}

// FindVersions returns every version heading in lines, in file order.
func FindVersions(lines []string) []Version {
	var versions []Version
	for _, line := range lines {
		if v, ok := ParseVersionHeading(line); ok {
			versions = append(versions, v)
		}
	}
	return versions
}

// LatestVersion returns the highest version heading in lines using integer
// ordering, so 1.10.0 wins over 1.9.0 regardless of position in the file.
func LatestVersion(lines []string) (Version, error) {
	versions := FindVersions(lines)
	if len(versions) == 0 {
		return Version{}, ErrNoVersionFound
	}

	latest := versions[0]
	for _, v := range versions[1:] {
		if v.Compare(latest) > 0 {
			latest = v
		}
	}
	return latest, nil
}
