package fetch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectPlatform(t *testing.T) {
	tests := []struct {
		url  string
		want Platform
	}{
		{"https://job-boards.greenhouse.io/doordashusa/jobs/7063751", PlatformGreenhouse},
		{"https://boards.greenhouse.io/company/jobs/123", PlatformGreenhouse},
		{"https://greenhouse.io/jobs/456", PlatformGreenhouse},
		{"https://jobs.lever.co/company/job-id", PlatformLever},
		{"https://company.wd5.myworkdayjobs.com/en-US/External", PlatformWorkday},
		{"https://workday.com/jobs", PlatformWorkday},
		{"https://jobs.ashbyhq.com/acme/123", PlatformAshby},
		{"https://www.linkedin.com/jobs/view/4012345", PlatformLinkedIn},
		{"https://www.linkedin.com/in/someone", PlatformUnknown},
		{"https://jobs.smartrecruiters.com/Acme/7437", PlatformSmartRecruiters},
		{"https://acme.bamboohr.com/careers/42", PlatformBambooHR},
		{"https://example.com/jobs", PlatformUnknown},
		{"https://notgreenhouse.io/jobs", PlatformUnknown},
		{"https://indeed.com/viewjob", PlatformUnknown},
		{"://bad", PlatformUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectPlatform(tt.url))
		})
	}
}

func TestPlatform_ContentSelectors(t *testing.T) {
	assert.Equal(t, ".job__description.body", PlatformGreenhouse.ContentSelectors()[0])
	assert.Equal(t, ".show-more-less-html__markup", PlatformLinkedIn.ContentSelectors()[0])

	generic := PlatformUnknown.ContentSelectors()
	assert.Equal(t, ".job-description", generic[0])
	assert.Contains(t, generic, "main")
	assert.Contains(t, generic, "article")
}

func TestPlatform_NoiseSelectors(t *testing.T) {
	unknown := PlatformUnknown.NoiseSelectors()
	assert.Contains(t, unknown, "form")
	assert.Contains(t, unknown, ".cookie-banner")
	assert.Len(t, unknown, len(commonNoise))

	greenhouse := PlatformGreenhouse.NoiseSelectors()
	assert.Contains(t, greenhouse, "#application-form")
	assert.Contains(t, greenhouse, ".voluntary-self-id")
	assert.Contains(t, PlatformLinkedIn.NoiseSelectors(), ".sign-in-modal")

	// the shared list must not pick up board selectors
	assert.Len(t, commonNoise, len(unknown))
	assert.NotContains(t, commonNoise, ".voluntary-self-id")
}
