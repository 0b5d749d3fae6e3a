package enums

import "fmt"

// RoastProfile is the roast level a bean is sold at.
type RoastProfile string

const (
	RoastProfileLight      RoastProfile = "light"
	RoastProfileMedium     RoastProfile = "medium"
	RoastProfileMediumDark RoastProfile = "medium-dark"
	RoastProfileDark       RoastProfile = "dark"
)

var validRoastProfiles = []RoastProfile{
	RoastProfileLight,
	RoastProfileMedium,
	RoastProfileMediumDark,
	RoastProfileDark,
}

// String implements fmt.Stringer.
func (r RoastProfile) String() string {
	return string(r)
}

// IsValid reports whether the value is a known RoastProfile.
func (r RoastProfile) IsValid() bool {
	for _, candidate := range validRoastProfiles {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseRoastProfile converts raw input into a RoastProfile.
func ParseRoastProfile(value string) (RoastProfile, error) {
	for _, candidate := range validRoastProfiles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid roast profile %q", value)
}
