// Package ai defines the classifier port consumed by the screening workflow.
package ai

import (
	"context"
	"errors"
)

// ErrUnavailable indicates that the backing model call could not be completed
// (network, auth, quota, or an unusable response). Callers must treat it as
// fatal for the current screening run.
var ErrUnavailable = errors.New("classifier unavailable")

// Classifier sends a prompt to a language model and returns its raw text
// reply. No schema is enforced at this layer; normalization of the reply is
// the caller's concern.
type Classifier interface {
	Classify(ctx context.Context, prompt string) (string, error)
}
