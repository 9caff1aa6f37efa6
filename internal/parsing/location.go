package parsing

import (
	"regexp"
)

const (
	// LocationRemote is reported for postings that read as remote
	LocationRemote = "Remote"
	// LocationUnspecified is reported when no location is found
	LocationUnspecified = "Not specified"
)

// Work modes reported by DetectWorkMode
const (
	WorkModeRemote      = "remote"
	WorkModeHybrid      = "hybrid"
	WorkModeOnsite      = "onsite"
	WorkModeUnspecified = "unspecified"
)

// LocationInfo is the location string and remote flag of a posting
type LocationInfo struct {
	Location string `json:"location"`
	IsRemote bool   `json:"isRemote"`
}

var remotePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)100%\s*remote`),
	regexp.MustCompile(`(?i)\bfully\s+remote\b`),
	regexp.MustCompile(`(?i)\bremote[- ]first\b`),
	regexp.MustCompile(`(?i)\bremote\s+(?:position|role|opportunity|job)\b`),
	regexp.MustCompile(`(?i)\bwork\s+(?:from\s+home|remotely)\b`),
	regexp.MustCompile(`(?i)\bwfh\b`),
	regexp.MustCompile(`(?im)^\s*(?:\*\*)?location\s*:\s*(?:\*\*)?\s*remote\b`),
}

var (
	locationLabel = regexp.MustCompile(`(?im)^\s*(?:\*\*)?(?:location|based\s+in|office\s+in|office\s+location)\s*:\s*(?:\*\*)?\s*([^\n]+?)\s*$`)
	cityState     = regexp.MustCompile(`\b([A-Z][a-zA-Z]+(?:\s+[A-Z][a-zA-Z]+){0,2}),\s*(AL|AK|AZ|AR|CA|CO|CT|DE|FL|GA|HI|ID|IL|IN|IA|KS|KY|LA|ME|MD|MA|MI|MN|MS|MO|MT|NE|NV|NH|NJ|NM|NY|NC|ND|OH|OK|OR|PA|RI|SC|SD|TN|TX|UT|VT|VA|WA|WV|WI|WY|DC)\b`)

	hybridPattern = regexp.MustCompile(`(?i)\bhybrid\b`)
	onsitePattern = regexp.MustCompile(`(?i)\b(?:on-?site|on\s+site|in[- ]office|in[- ]person)\b`)
)

// majorCities is scanned in order when no label or City, ST pair is present
var majorCities = []string{
	"New York", "San Francisco", "Los Angeles", "Seattle", "Austin", "Boston", "Chicago",
	"Denver", "Atlanta", "Miami", "San Diego", "San Jose", "Portland", "Dallas", "Houston",
	"Philadelphia", "Phoenix", "Washington", "London", "Toronto", "Vancouver", "Berlin",
	"Amsterdam", "Paris", "Dublin", "Singapore", "Sydney", "Bangalore", "Tel Aviv",
}

var majorCityPatterns = func() []*regexp.Regexp {
	patterns := make([]*regexp.Regexp, len(majorCities))
	for i, city := range majorCities {
		patterns[i] = regexp.MustCompile(`\b` + regexp.QuoteMeta(city) + `\b`)
	}
	return patterns
}()

// IsRemote reports whether any remote phrasing appears in the text
func IsRemote(text string) bool {
	for _, re := range remotePatterns {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

// ExtractLocationInfo returns the posting location. A remote phrasing short-circuits
// to Remote; otherwise a location label, a "City, ST" pair, and the major-city list are
// tried in order before falling back to LocationUnspecified.
func ExtractLocationInfo(text string) LocationInfo {
	if IsRemote(text) {
		return LocationInfo{Location: LocationRemote, IsRemote: true}
	}

	if m := locationLabel.FindStringSubmatch(text); m != nil {
		if loc := cleanCandidate(m[1]); loc != "" && runeLen(loc) < 100 {
			return LocationInfo{Location: loc}
		}
	}

	if m := cityState.FindStringSubmatch(text); m != nil {
		return LocationInfo{Location: m[1] + ", " + m[2]}
	}

	for i, re := range majorCityPatterns {
		if re.MatchString(text) {
			return LocationInfo{Location: majorCities[i]}
		}
	}

	return LocationInfo{Location: LocationUnspecified}
}

// DetectWorkMode classifies the posting as remote, hybrid or onsite.
// Hybrid takes precedence over remote.
func DetectWorkMode(text string, isRemote bool) string {
	switch {
	case hybridPattern.MatchString(text):
		return WorkModeHybrid
	case isRemote:
		return WorkModeRemote
	case onsitePattern.MatchString(text):
		return WorkModeOnsite
	}
	return WorkModeUnspecified
}
