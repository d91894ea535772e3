package screening

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/hireloop/screener/internal/ai"
)

// Config carries the settings of a Screener.
type Config struct {
	// Role is the target position the skill assessment screens for.
	Role string
	// MaxLogLength bounds raw model replies in debug logs.
	MaxLogLength int
}

// Screener is the single entry point for running a screening. Each call
// operates on a fresh State, so concurrent runs are independent.
type Screener struct {
	engine *Engine
	logger *zap.Logger
}

// New creates a Screener on top of the provided classifier.
func New(classifier ai.Classifier, cfg Config, log *zap.Logger) *Screener {
	if log == nil {
		log = zap.NewNop()
	}

	return &Screener{
		engine: NewEngine(classifier, cfg.Role, cfg.MaxLogLength, log),
		logger: log,
	}
}

// Run screens the application text and returns the three-field result. The
// text is treated as opaque; no validation is performed. Classifier failures
// abort the run and propagate instead of degrading into default values.
func (s *Screener) Run(ctx context.Context, application string) (*Result, error) {
	state := &State{Application: application}

	if err := s.engine.Run(ctx, state); err != nil {
		return nil, fmt.Errorf("screening run: %w", err)
	}

	return s.readback(state), nil
}

// readback extracts the result, substituting safe defaults for fields a
// stage never set. That can only happen through an engine bug, so every
// substitution is logged rather than applied silently.
func (s *Screener) readback(state *State) *Result {
	result := &Result{
		ExperienceLevel: string(state.Experience),
		SkillMatch:      string(state.Skill),
		Response:        string(state.Response),
	}

	if state.Experience == "" {
		s.logger.Warn("experience level missing after workflow run, substituting default",
			zap.String("default", string(ExperienceUnknown)),
		)
		result.ExperienceLevel = string(ExperienceUnknown)
	}

	if state.Skill == "" {
		s.logger.Warn("skill match missing after workflow run, substituting default",
			zap.String("default", string(SkillNotMatched)),
		)
		result.SkillMatch = string(SkillNotMatched)
	}

	if state.Response == "" {
		s.logger.Warn("response missing after workflow run, substituting default",
			zap.String("default", string(OutcomeRejected)),
		)
		result.Response = string(OutcomeRejected)
	}

	return result
}
