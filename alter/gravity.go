package alter

import "sort"

// DefaultGravity anchors crops when no Gravity attribute is given
const DefaultGravity = "C"

var gravities = map[string]string{
	"C":  "Center",
	"E":  "East",
	"NE": "NorthEast",
	"N":  "North",
	"NW": "NorthWest",
	"SE": "SouthEast",
	"S":  "South",
	"SW": "SouthWest",
	"W":  "West",
}

// LookupGravity resolves a gravity code to the tool's gravity name.
// Matching is exact and case-sensitive.
func LookupGravity(code string) (string, error) {
	name, ok := gravities[code]
	if !ok {
		return "", &UnknownGravityError{Code: code}
	}
	return name, nil
}

// GravityCodes returns the recognised codes, sorted
func GravityCodes() []string {
	codes := make([]string, 0, len(gravities))
	for code := range gravities {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}
