package parsing

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/jonathan/job-match-analyzer/internal/types"
)

const maxTeamSize = 10000

var teamSizePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bteam\s+of\s+(?:about\s+|around\s+|approximately\s+|over\s+|~\s*)?(\d{1,5})\b`),
	regexp.MustCompile(`(?i)\b(\d{1,5})[- ](?:person|people|member)\s+team\b`),
	regexp.MustCompile(`(?i)\bteam\s+size\s*[:\-]?\s*(\d{1,5})\b`),
	regexp.MustCompile(`(?i)\b(\d{1,5})\s+(?:engineers|developers|people|members|designers|analysts)\s+(?:on|in)\s+(?:the|our)\s+team\b`),
}

// ExtractTeamSize returns the team size stated in the posting, or nil when none is found
func ExtractTeamSize(text string) *int {
	for _, re := range teamSizePatterns {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			n, err := strconv.Atoi(m[1])
			if err != nil || n < 1 || n > maxTeamSize {
				continue
			}
			return &n
		}
	}
	return nil
}

// industryRule maps an industry name to keywords that indicate it
type industryRule struct {
	name     string
	keywords *regexp.Regexp
}

func keywordPattern(keywords ...string) *regexp.Regexp {
	quoted := make([]string, len(keywords))
	for i, k := range keywords {
		quoted[i] = regexp.QuoteMeta(k)
	}
	return regexp.MustCompile(`(?i)\b(?:` + strings.Join(quoted, "|") + `)\b`)
}

// industryRules is evaluated in order; Technology comes last since most postings mention software
var industryRules = []industryRule{
	{"Healthcare", keywordPattern("healthcare", "health care", "hospital", "hospitals", "clinical", "clinic", "patient", "patients", "pharmaceutical", "pharma", "biotech", "telehealth", "medical device", "medical devices", "life sciences")},
	{"Finance", keywordPattern("fintech", "banking", "bank", "financial services", "investment", "investments", "trading", "payments", "lending", "asset management", "wealth management", "hedge fund", "insurtech", "capital markets")},
	{"Education", keywordPattern("edtech", "education technology", "university", "school district", "k-12", "e-learning", "students", "higher education", "curriculum")},
	{"E-commerce", keywordPattern("e-commerce", "ecommerce", "online marketplace", "online retail", "marketplace", "direct-to-consumer", "dtc")},
	{"Retail", keywordPattern("retail", "retailer", "brick-and-mortar", "merchandising", "store operations", "consumer goods")},
	{"Manufacturing", keywordPattern("manufacturing", "factory", "factories", "production line", "industrial automation", "plant operations")},
	{"Logistics", keywordPattern("logistics", "supply chain", "freight", "shipping", "warehouse", "warehousing", "fulfillment", "transportation")},
	{"Marketing", keywordPattern("advertising", "ad tech", "adtech", "marketing agency", "digital agency", "media agency")},
	{"Government", keywordPattern("government", "public sector", "federal", "defense", "security clearance", "municipal")},
	{"Nonprofit", keywordPattern("nonprofit", "non-profit", "ngo", "charity", "philanthropy")},
	{"Technology", keywordPattern("saas", "software company", "tech company", "technology company", "cloud platform", "developer tools", "b2b software", "startup", "software as a service")},
}

// DetectIndustry returns the first industry whose keywords appear outside the benefits
// section, or nil when none match.
func DetectIndustry(text string) *string {
	body := withoutSection(text, SectionBenefits)
	for _, rule := range industryRules {
		if rule.keywords.MatchString(body) {
			name := rule.name
			return &name
		}
	}
	return nil
}

// Seniority levels reported by DetectSeniority
const (
	SeniorityEntry     = "entry"
	SeniorityMid       = "mid"
	SenioritySenior    = "senior"
	SeniorityLead      = "lead"
	SeniorityExecutive = "executive"
)

var seniorityByTitle = []struct {
	level   string
	pattern *regexp.Regexp
}{
	{SeniorityExecutive, regexp.MustCompile(`(?i)\b(?:chief|cto|ceo|cfo|coo|cio|vp|vice president|director|head of)\b`)},
	{SeniorityLead, regexp.MustCompile(`(?i)\b(?:lead|principal|staff|architect|manager)\b`)},
	{SenioritySenior, regexp.MustCompile(`(?i)\b(?:senior|sr)\b`)},
	{SeniorityEntry, regexp.MustCompile(`(?i)\b(?:junior|jr|entry[- ]level|intern|internship|graduate|new grad|trainee|apprentice)\b`)},
	{SeniorityMid, regexp.MustCompile(`(?i)\b(?:mid[- ]level|intermediate|ii)\b`)},
}

// DetectSeniority classifies the role from title keywords, falling back to the
// required years of experience. Without either signal the role is treated as mid level.
func DetectSeniority(title string, requiredYears int) string {
	for _, s := range seniorityByTitle {
		if s.pattern.MatchString(title) {
			return s.level
		}
	}
	switch {
	case requiredYears >= 8:
		return SeniorityLead
	case requiredYears >= 5:
		return SenioritySenior
	case requiredYears >= 2:
		return SeniorityMid
	case requiredYears > 0:
		return SeniorityEntry
	}
	return SeniorityMid
}

// Job types reported by DetectJobType
const (
	JobTypeFullTime   = "full_time"
	JobTypePartTime   = "part_time"
	JobTypeContract   = "contract"
	JobTypeTemporary  = "temporary"
	JobTypeInternship = "internship"
)

var (
	internTitle         = regexp.MustCompile(`(?i)\bintern(?:ship)?\b`)
	employmentTypeLabel = regexp.MustCompile(`(?im)^\s*(?:\*\*)?(?:employment|job|position)\s+type\s*:\s*(?:\*\*)?\s*([^\n]+)$`)

	// jobTypePatterns is scanned in order, so a full-time posting that mentions
	// contractors elsewhere stays full time
	jobTypePatterns = []struct {
		jobType string
		pattern *regexp.Regexp
	}{
		{JobTypeFullTime, regexp.MustCompile(`(?i)\b(?:full[- ]time|permanent|fte)\b`)},
		{JobTypePartTime, regexp.MustCompile(`(?i)\bpart[- ]time\b`)},
		{JobTypeInternship, regexp.MustCompile(`(?i)\binternship\b`)},
		{JobTypeContract, regexp.MustCompile(`(?i)\b(?:contract|contractor|freelance|c2c|1099)\b`)},
		{JobTypeTemporary, regexp.MustCompile(`(?i)\b(?:temporary|temp|seasonal|fixed[- ]term)\b`)},
	}
)

func classifyJobType(text string) (string, bool) {
	for _, jt := range jobTypePatterns {
		if jt.pattern.MatchString(text) {
			return jt.jobType, true
		}
	}
	return "", false
}

// DetectJobType classifies the employment type. An intern title wins, then an explicit
// employment-type label, then keywords anywhere in the text. Defaults to full time.
func DetectJobType(title, text string) string {
	if internTitle.MatchString(title) {
		return JobTypeInternship
	}
	if m := employmentTypeLabel.FindStringSubmatch(text); m != nil {
		if jobType, ok := classifyJobType(m[1]); ok {
			return jobType
		}
	}
	if jobType, ok := classifyJobType(text); ok {
		return jobType
	}
	return JobTypeFullTime
}

var cultureSignals = []struct {
	signal  string
	pattern *regexp.Regexp
}{
	{"collaborative", regexp.MustCompile(`(?i)\b(?:collaborat\w*|teamwork|cross-functional)\b`)},
	{"fast-paced", regexp.MustCompile(`(?i)\b(?:fast[- ]paced|high[- ]growth|hyper[- ]growth|dynamic environment)\b`)},
	{"innovative", regexp.MustCompile(`(?i)\b(?:innovat\w*|cutting[- ]edge|experiment\w*)\b`)},
	{"work-life balance", regexp.MustCompile(`(?i)\b(?:work[- ]life balance|flexible (?:hours|schedule|working)|sustainable pace)\b`)},
	{"diversity and inclusion", regexp.MustCompile(`(?i)\b(?:diversity|diverse|inclusion|inclusive|equal opportunity|belonging)\b`)},
	{"learning culture", regexp.MustCompile(`(?i)\b(?:mentorship|mentoring|growth mindset|continuous learning|learning culture)\b`)},
	{"ownership", regexp.MustCompile(`(?i)\b(?:ownership|autonomy|autonomous|self[- ]starter|bias for action)\b`)},
	{"customer focus", regexp.MustCompile(`(?i)\b(?:customer[- ](?:obsessed|focused|centric|first)|customer focus)\b`)},
	{"mission-driven", regexp.MustCompile(`(?i)\b(?:mission[- ]driven|our mission|social impact|make an impact)\b`)},
	{"remote-friendly", regexp.MustCompile(`(?i)\b(?:distributed team|remote[- ]friendly|async(?:hronous)? communication)\b`)},
}

// DetectCultureSignals returns the culture signals present in the text, in a fixed order
func DetectCultureSignals(text string) []string {
	signals := make([]string, 0)
	for _, c := range cultureSignals {
		if c.pattern.MatchString(text) {
			signals = append(signals, c.signal)
		}
	}
	return signals
}

var (
	salaryPattern = regexp.MustCompile(`(?i)([$€£])\s?(\d{1,3}(?:,\d{3})+|\d+(?:\.\d+)?)\s*(k)?(?:\s*(?:-|–|to)\s*[$€£]?\s?(\d{1,3}(?:,\d{3})+|\d+(?:\.\d+)?)\s*(k)?)?(?:\s*(?:/|per|an|a)\s*(hour|hr|year|yr|annum|annually|month|mo)\b)?`)

	currencyCodes = map[string]string{"$": "USD", "€": "EUR", "£": "GBP"}
)

// hourlyCeiling separates hourly rates from annual salaries when no period is stated
const hourlyCeiling = 500

// ExtractSalary returns the first salary figure or range quoted with a currency symbol.
// A "k" suffix multiplies by 1000; without an explicit period, amounts under 500 are
// read as hourly and everything else as yearly.
func ExtractSalary(text string) *types.SalaryInfo {
	for _, m := range salaryPattern.FindAllStringSubmatch(text, -1) {
		minVal, ok := parseAmount(m[2], m[3] != "")
		if !ok {
			continue
		}
		maxVal := minVal
		if m[4] != "" {
			v, ok := parseAmount(m[4], m[5] != "")
			if !ok {
				continue
			}
			maxVal = v
			// "$120-150k" applies the suffix to both ends
			if m[3] == "" && m[5] != "" && minVal < 1000 {
				minVal *= 1000
			}
		}
		if maxVal < minVal {
			minVal, maxVal = maxVal, minVal
		}

		period := salaryPeriod(m[6])
		if period == "" {
			period = "year"
			if maxVal < hourlyCeiling {
				period = "hour"
			}
		}
		return &types.SalaryInfo{
			Min:      minVal,
			Max:      maxVal,
			Currency: currencyCodes[m[1]],
			Period:   period,
			Raw:      strings.TrimSpace(m[0]),
		}
	}
	return nil
}

func parseAmount(s string, thousands bool) (float64, bool) {
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil || v <= 0 {
		return 0, false
	}
	if thousands {
		v *= 1000
	}
	return v, true
}

func salaryPeriod(s string) string {
	switch strings.ToLower(s) {
	case "hour", "hr":
		return "hour"
	case "month", "mo":
		return "month"
	case "year", "yr", "annum", "annually":
		return "year"
	}
	return ""
}
