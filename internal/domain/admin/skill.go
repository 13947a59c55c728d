package admin

import (
	"errors"
	"unicode/utf8"
)

const maxSkillNameLen = 100

// Skill is a guard capability tag.
type Skill struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	GuardProfiles []GuardProfile `json:"guardProfiles,omitempty"`
}

// CreateSkillRequest is the body of POST /guards/skills.
type CreateSkillRequest struct {
	Name string `json:"name"`
}

// Validate trims and checks the skill name.
func (r *CreateSkillRequest) Validate() error {
	r.Name = trimmed(r.Name)
	if r.Name == "" {
		return errors.New("name is required")
	}
	if utf8.RuneCountInString(r.Name) > maxSkillNameLen {
		return errors.New("name cannot exceed 100 characters")
	}
	return nil
}
