package validation

import (
	"regexp"
)

// Location codes are hyphen-joined uppercase alphanumeric segments, coarse to
// fine: country, region, market (e.g. "US-TX-AUS").
var locationCodeRe = regexp.MustCompile(`^[A-Z0-9]{2,8}(-[A-Z0-9]{2,8})*$`)

// Snapshot versions: lowercase slug with optional year suffix (e.g. "baseline-2024").
var snapshotVersionRe = regexp.MustCompile(`^[a-z][a-z0-9]*(-[a-z0-9]+)*$`)

func IsValidLocationCode(code string) bool {
	return locationCodeRe.MatchString(code)
}

func IsValidSnapshotVersion(version string) bool {
	return snapshotVersionRe.MatchString(version)
}
