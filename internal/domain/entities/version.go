package entities

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/mod/semver"
)

var (
	rangePrefixPattern = regexp.MustCompile(`^[\^~><=]+`)
	coercePattern      = regexp.MustCompile(
		`(\d+)(?:\.(\d+))?(?:\.(\d+)(?:-([0-9A-Za-z-]+(?:\.[0-9A-Za-z-]+)*))?)?`,
	)
	referenceTagPattern = regexp.MustCompile(`#(v?)([\d.]+)`)
)

// RangePrefix returns the leading run of range operators (^, ~, >, <, =).
func RangePrefix(version string) string {
	return rangePrefixPattern.FindString(version)
}

// StripRangePrefix removes the leading run of range operators.
func StripRangePrefix(version string) string {
	return strings.TrimPrefix(version, RangePrefix(version))
}

// Coerce extracts the first version-looking run of digits from the input and
// returns it as a canonical "vMAJOR.MINOR.PATCH[-pre]" string. Missing minor or
// patch components default to zero and build metadata is dropped.
func Coerce(version string) (string, bool) {
	match := coercePattern.FindStringSubmatch(version)
	if match == nil {
		return "", false
	}

	parts := make([]uint64, 3) //nolint:mnd // major, minor, patch
	for i := range parts {
		if match[i+1] == "" {
			continue
		}
		value, err := strconv.ParseUint(match[i+1], 10, 64)
		if err != nil {
			return "", false
		}
		parts[i] = value
	}

	canonical := "v" + strconv.FormatUint(parts[0], 10) +
		"." + strconv.FormatUint(parts[1], 10) +
		"." + strconv.FormatUint(parts[2], 10)
	if match[4] != "" && semver.IsValid(canonical+"-"+match[4]) {
		canonical += "-" + match[4]
	}

	if !semver.IsValid(canonical) {
		return "", false
	}
	return canonical, true
}

// IsNewer reports whether latest is strictly greater than the declared version.
// When either side cannot be read as a version, any textual difference counts.
func IsNewer(current, latest string) bool {
	stripped := StripRangePrefix(current)

	currentVersion, currentOK := Coerce(stripped)
	latestVersion, latestOK := Coerce(latest)
	if !currentOK || !latestOK {
		return stripped != latest
	}

	return semver.Compare(latestVersion, currentVersion) > 0
}

// UpdatedDeclarationText keeps the range prefix of the declared text and puts
// the latest version after it.
func UpdatedDeclarationText(current, latest string) string {
	return RangePrefix(current) + latest
}

// ExtractReferenceTag returns the version in the trailing "#v1.2.3" fragment of
// a git reference such as "github:foundry-rs/forge-std#v1.9.5".
func ExtractReferenceTag(raw string) (string, bool) {
	matches := referenceTagPattern.FindAllStringSubmatch(raw, -1)
	if len(matches) == 0 {
		return "", false
	}
	return matches[len(matches)-1][2], true
}

// ReplaceReferenceTag swaps the version in the trailing "#v1.2.3" fragment and
// keeps the "v" marker only when the original fragment had one.
func ReplaceReferenceTag(raw, latest string) string {
	locations := referenceTagPattern.FindAllStringSubmatchIndex(raw, -1)
	if len(locations) == 0 {
		return raw
	}

	last := locations[len(locations)-1]
	marker := raw[last[2]:last[3]]
	return raw[:last[0]] + "#" + marker + strings.TrimPrefix(latest, "v") + raw[last[1]:]
}
