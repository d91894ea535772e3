package screening

import (
	"strings"

	_ "embed"
)

//go:embed prompts/experience.md
var experienceTemplate string

//go:embed prompts/skill.md
var skillTemplate string

// DefaultRole is the target role profile used when none is configured.
const DefaultRole = "C++ developer"

func buildExperiencePrompt(application string) string {
	template := experienceTemplate
	if strings.TrimSpace(template) == "" {
		template = "Categorize the candidate as 'Entry-level', 'Mid-level', or 'Senior-level'.\n\nApplication:\n{{APPLICATION}}"
	}

	return strings.ReplaceAll(template, "{{APPLICATION}}", application)
}

func buildSkillPrompt(role, application string) string {
	if strings.TrimSpace(role) == "" {
		role = DefaultRole
	}

	template := skillTemplate
	if strings.TrimSpace(template) == "" {
		template = "You are screening applications for a {{ROLE}} role. Respond with exactly either 'Match' or 'No Match'.\n\nApplication:\n{{APPLICATION}}"
	}

	prompt := strings.ReplaceAll(template, "{{ROLE}}", role)
	return strings.ReplaceAll(prompt, "{{APPLICATION}}", application)
}
