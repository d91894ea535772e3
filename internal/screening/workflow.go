package screening

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/hireloop/screener/internal/ai"
	"github.com/hireloop/screener/internal/logger"
)

// Stage identifies one node of the workflow graph.
type Stage int

const (
	StageCategorizeExperience Stage = iota
	StageAssessSkillset
	StageRouteApplication
	StageScheduleInterview
	StageEscalateToRecruiter
	StageRejectApplication
	stageDone
)

func (s Stage) String() string {
	switch s {
	case StageCategorizeExperience:
		return "categorize_experience"
	case StageAssessSkillset:
		return "assess_skillset"
	case StageRouteApplication:
		return "route_application"
	case StageScheduleInterview:
		return "schedule_interview"
	case StageEscalateToRecruiter:
		return "escalate_to_recruiter"
	case StageRejectApplication:
		return "reject_application"
	case stageDone:
		return "done"
	default:
		return fmt.Sprintf("stage(%d)", int(s))
	}
}

// Engine runs the screening workflow over a State. The graph is acyclic with
// a single conditional branch, so it is expressed as a step function driven
// to completion rather than a general graph framework.
type Engine struct {
	classifier ai.Classifier
	role       string
	maxLogLen  int
	logger     *zap.Logger
}

// NewEngine creates the workflow engine. The role names the target position
// used by the skill assessment prompt.
func NewEngine(classifier ai.Classifier, role string, maxLogLen int, log *zap.Logger) *Engine {
	if strings.TrimSpace(role) == "" {
		role = DefaultRole
	}

	if maxLogLen <= 0 {
		maxLogLen = 200
	}

	if log == nil {
		log = zap.NewNop()
	}

	return &Engine{
		classifier: classifier,
		role:       role,
		maxLogLen:  maxLogLen,
		logger:     log,
	}
}

// Run executes the workflow to a terminal stage, mutating state along the
// way. A classifier failure aborts the run and propagates; no partial result
// is produced.
func (e *Engine) Run(ctx context.Context, state *State) error {
	for stage := StageCategorizeExperience; stage != stageDone; {
		next, err := e.step(ctx, stage, state)
		if err != nil {
			return fmt.Errorf("stage %s: %w", stage, err)
		}
		stage = next
	}

	return nil
}

func (e *Engine) step(ctx context.Context, stage Stage, state *State) (Stage, error) {
	switch stage {
	case StageCategorizeExperience:
		raw, err := e.classifier.Classify(ctx, buildExperiencePrompt(state.Application))
		if err != nil {
			return stageDone, err
		}

		state.Experience = normalizeExperience(raw)
		e.logger.Debug("experience categorized",
			zap.String("raw_reply", logger.Truncate(raw, e.maxLogLen)),
			zap.String("experience_level", string(state.Experience)),
		)

		return StageAssessSkillset, nil

	case StageAssessSkillset:
		raw, err := e.classifier.Classify(ctx, buildSkillPrompt(e.role, state.Application))
		if err != nil {
			return stageDone, err
		}

		state.Skill = normalizeSkill(raw)
		e.logger.Debug("skillset assessed",
			zap.String("role", e.role),
			zap.String("raw_reply", logger.Truncate(raw, e.maxLogLen)),
			zap.String("skill_match", string(state.Skill)),
		)

		return StageRouteApplication, nil

	case StageRouteApplication:
		return routeApplication(state), nil

	case StageScheduleInterview:
		state.Response = OutcomeInterview
		return e.finish(stage, state), nil

	case StageEscalateToRecruiter:
		state.Response = OutcomeEscalated
		return e.finish(stage, state), nil

	case StageRejectApplication:
		state.Response = OutcomeRejected
		return e.finish(stage, state), nil

	default:
		return stageDone, fmt.Errorf("unknown stage %q", stage)
	}
}

func (e *Engine) finish(stage Stage, state *State) Stage {
	e.logger.Info("screening decided",
		zap.String("terminal_stage", stage.String()),
		zap.String("experience_level", string(state.Experience)),
		zap.String("skill_match", string(state.Skill)),
		zap.String("response", string(state.Response)),
	)

	return stageDone
}

// routeApplication selects the terminal stage. It is a pure function of
// state: skill match dominates seniority.
func routeApplication(state *State) Stage {
	if state.Skill == SkillMatched {
		return StageScheduleInterview
	}

	if state.Experience == ExperienceSenior {
		return StageEscalateToRecruiter
	}

	return StageRejectApplication
}

// normalizeExperience maps a raw model reply onto the experience buckets.
// Keywords are checked in a fixed priority order; the first match wins. The
// lenient substring match tolerates verbose model output.
func normalizeExperience(raw string) ExperienceLevel {
	low := strings.ToLower(raw)

	switch {
	case strings.Contains(low, "entry"):
		return ExperienceEntry
	case strings.Contains(low, "mid"):
		return ExperienceMid
	case strings.Contains(low, "senior"):
		return ExperienceSenior
	}

	return ExperienceUnknown
}

// normalizeSkill maps a raw model reply onto the skill verdict. "no match"
// must be checked before "match", which it contains as a substring. Anything
// unrecognized defaults to no match.
func normalizeSkill(raw string) SkillMatch {
	low := strings.ToLower(raw)

	if strings.Contains(low, "no match") {
		return SkillNotMatched
	}

	if strings.Contains(low, "match") {
		return SkillMatched
	}

	return SkillNotMatched
}
