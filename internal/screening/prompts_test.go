package screening

import (
	"strings"
	"testing"
)

func TestBuildExperiencePrompt(t *testing.T) {
	prompt := buildExperiencePrompt("7 years of C++")

	if !strings.Contains(prompt, "7 years of C++") {
		t.Fatalf("application text missing from prompt: %s", prompt)
	}
	if strings.Contains(prompt, "{{APPLICATION}}") {
		t.Fatalf("placeholder left unsubstituted: %s", prompt)
	}
}

func TestBuildSkillPrompt(t *testing.T) {
	prompt := buildSkillPrompt("Rust developer", "embedded experience")

	if !strings.Contains(prompt, "Rust developer role") {
		t.Fatalf("role missing from prompt: %s", prompt)
	}
	if !strings.Contains(prompt, "embedded experience") {
		t.Fatalf("application text missing from prompt: %s", prompt)
	}
	if strings.Contains(prompt, "{{ROLE}}") || strings.Contains(prompt, "{{APPLICATION}}") {
		t.Fatalf("placeholder left unsubstituted: %s", prompt)
	}
}

func TestBuildSkillPromptDefaultsRole(t *testing.T) {
	prompt := buildSkillPrompt("  ", "application")

	if !strings.Contains(prompt, DefaultRole+" role") {
		t.Fatalf("expected default role in prompt: %s", prompt)
	}
}
