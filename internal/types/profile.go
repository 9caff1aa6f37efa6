// Package types provides type definitions for structured data used throughout the job-match-analyzer system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"bytes"
	"encoding/json"
	"errors"
)

// UserProfile is the candidate profile as supplied by callers. Every field is optional.
type UserProfile struct {
	Skills          []SkillEntry     `json:"skills,omitempty"`
	WorkExperience  []WorkExperience `json:"workExperience,omitempty"`
	Education       []Education      `json:"education,omitempty"`
	YearsExperience float64          `json:"yearsExperience,omitempty"`
	Summary         string           `json:"summary,omitempty"`
}

// ErrProfileNotObject is returned when a profile document is not a JSON object
var ErrProfileNotObject = errors.New("profile must be a JSON object")

// UnmarshalJSON decodes each field independently so that one badly typed field
// (for example "yearsExperience": "five") leaves the rest of the profile intact.
func (p *UserProfile) UnmarshalJSON(data []byte) error {
	*p = UserProfile{}
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		return nil
	}
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return ErrProfileNotObject
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		return err
	}

	if raw, ok := fields["skills"]; ok {
		_ = json.Unmarshal(raw, &p.Skills)
	}
	if raw, ok := fields["workExperience"]; ok {
		_ = json.Unmarshal(raw, &p.WorkExperience)
	}
	if raw, ok := fields["education"]; ok {
		_ = json.Unmarshal(raw, &p.Education)
	}
	if raw, ok := fields["yearsExperience"]; ok {
		var years float64
		if err := json.Unmarshal(raw, &years); err == nil && years > 0 {
			p.YearsExperience = years
		}
	}
	if raw, ok := fields["summary"]; ok {
		_ = json.Unmarshal(raw, &p.Summary)
	}
	return nil
}

// SkillEntryKind identifies which shape a profile skill entry arrived in
type SkillEntryKind int

const (
	// SkillKindUnknown covers null, numbers, booleans, arrays and objects without a name
	SkillKindUnknown SkillEntryKind = iota
	// SkillKindPlain is a bare JSON string
	SkillKindPlain
	// SkillKindNamed is an object carrying "name"
	SkillKindNamed
	// SkillKindLabeled is an object carrying "skillName"
	SkillKindLabeled
)

// SkillEntry is a tagged union over the skill shapes accepted in a profile.
// Decoding never fails; unrecognized shapes become SkillKindUnknown.
type SkillEntry struct {
	Kind  SkillEntryKind
	Value string
	Years *int
}

// PlainName builds a bare-string skill entry
func PlainName(name string) SkillEntry {
	return SkillEntry{Kind: SkillKindPlain, Value: name}
}

// NamedSkill builds an object entry of the form {"name": ...}
func NamedSkill(name string) SkillEntry {
	return SkillEntry{Kind: SkillKindNamed, Value: name}
}

// LabeledSkill builds an object entry of the form {"skillName": ...}
func LabeledSkill(name string) SkillEntry {
	return SkillEntry{Kind: SkillKindLabeled, Value: name}
}

// UnknownSkill builds an entry that normalizes to nothing
func UnknownSkill() SkillEntry {
	return SkillEntry{Kind: SkillKindUnknown}
}

// WithYears returns a copy of the entry carrying years of experience
func (s SkillEntry) WithYears(years int) SkillEntry {
	s.Years = &years
	return s
}

// UnmarshalJSON decodes any JSON value into a SkillEntry without returning an error
func (s *SkillEntry) UnmarshalJSON(data []byte) error {
	*s = UnknownSkill()
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil
	}

	switch trimmed[0] {
	case '"':
		var name string
		if err := json.Unmarshal(trimmed, &name); err == nil {
			*s = PlainName(name)
		}
	case '{':
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &fields); err != nil {
			return nil
		}
		if name, ok := stringField(fields, "skillName"); ok {
			*s = LabeledSkill(name)
		} else if name, ok := stringField(fields, "name"); ok {
			*s = NamedSkill(name)
		} else {
			return nil
		}
		if raw, ok := fields["years"]; ok {
			var years float64
			if err := json.Unmarshal(raw, &years); err == nil && years >= 0 {
				*s = s.WithYears(int(years))
			}
		}
	}

	return nil
}

// MarshalJSON encodes the entry back into the shape it was decoded from
func (s SkillEntry) MarshalJSON() ([]byte, error) {
	switch s.Kind {
	case SkillKindPlain:
		return json.Marshal(s.Value)
	case SkillKindNamed:
		return json.Marshal(struct {
			Name  string `json:"name"`
			Years *int   `json:"years,omitempty"`
		}{s.Value, s.Years})
	case SkillKindLabeled:
		return json.Marshal(struct {
			SkillName string `json:"skillName"`
			Years     *int   `json:"years,omitempty"`
		}{s.Value, s.Years})
	default:
		return []byte("null"), nil
	}
}

func stringField(fields map[string]json.RawMessage, key string) (string, bool) {
	raw, ok := fields[key]
	if !ok {
		return "", false
	}
	var value string
	if err := json.Unmarshal(raw, &value); err != nil {
		return "", false
	}
	return value, true
}

// WorkExperience is a single entry of the candidate's work history
type WorkExperience struct {
	Title       string  `json:"title,omitempty"`
	Company     string  `json:"company,omitempty"`
	Industry    string  `json:"industry,omitempty"`
	Description string  `json:"description,omitempty"`
	Years       float64 `json:"years,omitempty"`
}

// UnmarshalJSON accepts an object or a bare string (treated as the description).
// Any other shape decodes to an empty entry.
func (w *WorkExperience) UnmarshalJSON(data []byte) error {
	*w = WorkExperience{}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil
	}

	switch trimmed[0] {
	case '"':
		_ = json.Unmarshal(trimmed, &w.Description)
	case '{':
		type plain WorkExperience
		var decoded plain
		if err := json.Unmarshal(trimmed, &decoded); err == nil {
			*w = WorkExperience(decoded)
		}
	}
	return nil
}

// Education is a single degree entry of the candidate's profile
type Education struct {
	Degree string `json:"degree,omitempty"` // associate, bachelor, master, phd
	Field  string `json:"field,omitempty"`
	School string `json:"school,omitempty"`
}

// UnmarshalJSON accepts an object or a bare string (treated as the degree)
func (e *Education) UnmarshalJSON(data []byte) error {
	*e = Education{}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil
	}

	switch trimmed[0] {
	case '"':
		_ = json.Unmarshal(trimmed, &e.Degree)
	case '{':
		type plain Education
		var decoded plain
		if err := json.Unmarshal(trimmed, &decoded); err == nil {
			*e = Education(decoded)
		}
	}
	return nil
}
