package parsing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractLocationInfo(t *testing.T) {
	tests := []struct {
		name string
		text string
		want LocationInfo
	}{
		{"Remote short-circuits location label", "Location: Austin, TX\nThis is a fully remote position.", LocationInfo{LocationRemote, true}},
		{"100 percent remote", "Work: 100% remote, anywhere in the US", LocationInfo{LocationRemote, true}},
		{"Work from home", "You can work from home most days", LocationInfo{LocationRemote, true}},
		{"Location label", "Location: Denver, CO", LocationInfo{"Denver, CO", false}},
		{"City and state", "Our office is in Seattle, WA.", LocationInfo{"Seattle, WA", false}},
		{"Major city list", "Offices in London and Berlin.", LocationInfo{"London", false}},
		{"Fallback", "", LocationInfo{LocationUnspecified, false}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractLocationInfo(tt.text))
		})
	}
}

func TestIsRemote(t *testing.T) {
	assert.True(t, IsRemote("This is a remote-first company"))
	assert.True(t, IsRemote("Location: Remote"))
	assert.True(t, IsRemote("WFH friendly"))
	assert.False(t, IsRemote("Remote controls for drones"))
	assert.False(t, IsRemote(""))
}

func TestDetectWorkMode(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		isRemote bool
		want     string
	}{
		{"Hybrid wins over remote", "Hybrid: 2 days remote per week", true, WorkModeHybrid},
		{"Remote", "Fully remote", true, WorkModeRemote},
		{"Onsite", "This role is on-site in Chicago.", false, WorkModeOnsite},
		{"In office", "Work in-office with the team", false, WorkModeOnsite},
		{"Unspecified", "", false, WorkModeUnspecified},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectWorkMode(tt.text, tt.isRemote))
		})
	}
}
