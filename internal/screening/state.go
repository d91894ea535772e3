// Package screening implements the candidate screening workflow: two
// classifier-backed stages, a deterministic routing rule, and three terminal
// outcomes.
package screening

// ExperienceLevel is the closed set of experience buckets a candidate can be
// normalized into.
type ExperienceLevel string

const (
	ExperienceEntry   ExperienceLevel = "Entry-level"
	ExperienceMid     ExperienceLevel = "Mid-level"
	ExperienceSenior  ExperienceLevel = "Senior-level"
	ExperienceUnknown ExperienceLevel = "Unknown"
)

// SkillMatch is the skill assessment verdict.
type SkillMatch string

const (
	SkillMatched    SkillMatch = "Match"
	SkillNotMatched SkillMatch = "No Match"
)

// Outcome is the terminal decision of a screening run.
type Outcome string

const (
	OutcomeInterview Outcome = "Interview Scheduled"
	OutcomeEscalated Outcome = "Candidate Escalated"
	OutcomeRejected  Outcome = "Candidate Rejected"
)

// State is the mutable record threaded through a single workflow run.
// Application is set once at the start; each remaining field is written by
// exactly one stage. A State lives for one run and is discarded after the
// result is read back.
type State struct {
	Application string
	Experience  ExperienceLevel
	Skill       SkillMatch
	Response    Outcome
}

// Result is the fixed three-field output of a screening run.
type Result struct {
	ExperienceLevel string `json:"experience_level"`
	SkillMatch      string `json:"skill_match"`
	Response        string `json:"response"`
}
