package ranking

import (
	"strings"
)

// matchUserSkill returns the first user skill that contains the job skill or is
// contained by it, compared case-insensitively.
func matchUserSkill(jobSkill string, userSkills []string) (string, bool) {
	job := strings.ToLower(strings.TrimSpace(jobSkill))
	if job == "" {
		return "", false
	}

	for _, userSkill := range userSkills {
		user := strings.ToLower(strings.TrimSpace(userSkill))
		if user == "" {
			continue
		}
		if strings.Contains(user, job) || strings.Contains(job, user) {
			return userSkill, true
		}
	}

	return "", false
}
