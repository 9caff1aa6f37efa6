package fetch

import (
	"net/url"
	"strings"
)

// Platform names the job board a posting is hosted on.
type Platform string

// Known platforms
const (
	PlatformGreenhouse      Platform = "greenhouse"
	PlatformLever           Platform = "lever"
	PlatformWorkday         Platform = "workday"
	PlatformAshby           Platform = "ashby"
	PlatformLinkedIn        Platform = "linkedin"
	PlatformSmartRecruiters Platform = "smartrecruiters"
	PlatformBambooHR        Platform = "bamboohr"
	PlatformUnknown         Platform = "unknown"
)

// platformRule says how to recognise a board and where its description lives.
// A rule matches when the host ends with one of hosts and, if pathPrefix is
// set, the path starts with it.
type platformRule struct {
	platform   Platform
	hosts      []string
	pathPrefix string
	content    []string
	noise      []string
}

var platformRules = []platformRule{
	{
		platform: PlatformGreenhouse,
		hosts:    []string{"greenhouse.io"},
		content:  []string{".job__description.body", ".job__description", ".job-description__content", "#content", ".job-post-container"},
		noise:    []string{".application--wrapper", ".voluntary-self-id", ".voluntary-self-id-wrapper", "#usa_self_id_section", ".post-apply"},
	},
	{
		platform: PlatformLever,
		hosts:    []string{"lever.co"},
		content:  []string{".posting-page", ".section-wrapper.page-full-width", ".posting-description", ".content"},
		noise:    []string{".apply-section", ".lever-application-form", ".posting-apply"},
	},
	{
		platform: PlatformWorkday,
		hosts:    []string{"myworkdayjobs.com", "workday.com"},
		content:  []string{"[data-automation-id='jobDescription']", ".gwt-HTML", ".job-description"},
		noise:    []string{"[data-automation-id='applyButton']", ".application-section"},
	},
	{
		platform: PlatformAshby,
		hosts:    []string{"ashbyhq.com"},
		content:  []string{"[class*='descriptionText']", ".ashby-job-posting-right-pane", "main"},
	},
	{
		platform:   PlatformLinkedIn,
		hosts:      []string{"linkedin.com"},
		pathPrefix: "/jobs",
		content:    []string{".show-more-less-html__markup", ".description__text", ".job-description"},
		noise:      []string{".top-card-layout__cta-container", ".similar-jobs", ".sign-in-modal"},
	},
	{
		platform: PlatformSmartRecruiters,
		hosts:    []string{"smartrecruiters.com"},
		content:  []string{"[itemprop='description']", ".job-sections", "main"},
		noise:    []string{".job-apply", "#st-apply"},
	},
	{
		platform: PlatformBambooHR,
		hosts:    []string{"bamboohr.com"},
		content:  []string{".BambooRichText", "#js-jobs-description", "main"},
		noise:    []string{".ResAts__apply", ".BambooHR-ATS-board"},
	},
}

// genericContent is tried, in order, on pages from unknown boards
var genericContent = []string{
	".job-description",
	".job-content",
	"#job-description",
	"#job-content",
	".posting-content",
	".job-details",
	"[data-testid='job-description']",
	"main",
	"article",
	".content",
	"#content",
}

// commonNoise is removed from every page before the description is selected
var commonNoise = []string{
	"nav", "footer", "header", "script", "style", "noscript", "iframe",
	".ad", ".advertisement", ".ads", ".sidebar", ".popup",
	"form", "#application-form", ".application-form", ".application--container",
	".apply-button-container", "[data-testid='application-form']",
	".voluntary-disclosure", ".eeo-statement", ".eeo-section", "[data-testid='eeo']",
	".legal-disclosure", ".self-identification",
	".social-share", ".share-buttons", ".social-links",
	".cookie-banner", ".cookie-consent", ".gdpr-notice",
}

// DetectPlatform identifies the job board from a posting URL.
func DetectPlatform(rawURL string) Platform {
	u, err := url.Parse(rawURL)
	if err != nil {
		return PlatformUnknown
	}
	host := strings.ToLower(u.Hostname())
	for _, r := range platformRules {
		if r.matches(host, u.Path) {
			return r.platform
		}
	}
	return PlatformUnknown
}

func (r platformRule) matches(host, path string) bool {
	if r.pathPrefix != "" && !strings.HasPrefix(path, r.pathPrefix) {
		return false
	}
	for _, h := range r.hosts {
		if host == h || strings.HasSuffix(host, "."+h) {
			return true
		}
	}
	return false
}

func (p Platform) rule() (platformRule, bool) {
	for _, r := range platformRules {
		if r.platform == p {
			return r, true
		}
	}
	return platformRule{}, false
}

// ContentSelectors lists where the description may live, most specific first.
// Unknown boards get the generic job page selectors.
func (p Platform) ContentSelectors() []string {
	if r, ok := p.rule(); ok {
		return r.content
	}
	return genericContent
}

// NoiseSelectors lists the elements stripped before selection: the common set
// plus anything the board adds.
func (p Platform) NoiseSelectors() []string {
	out := append([]string(nil), commonNoise...)
	if r, ok := p.rule(); ok {
		out = append(out, r.noise...)
	}
	return out
}
