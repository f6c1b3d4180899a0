package classifier

import (
	"context"
	"log"
	"time"

	"grievancedesk-backend/models"
)

// DefaultTimeout bounds a single remote classification attempt
const DefaultTimeout = 10 * time.Second

// Fallback tries the primary classifier once with a bounded timeout and
// answers with the rule-based result on any failure. Because the
// rule-based path is total, the composed classifier never errors.
type Fallback struct {
	primary  Classifier
	fallback *RuleBased
	timeout  time.Duration
}

// NewFallback composes a primary classifier with the rule-based one.
// A nil primary degenerates to the rule-based classifier alone.
func NewFallback(primary Classifier, timeout time.Duration) *Fallback {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Fallback{
		primary:  primary,
		fallback: NewRuleBased(),
		timeout:  timeout,
	}
}

// Classify returns the primary result when it arrives in time and is
// well-formed, otherwise the deterministic rule-based result
func (f *Fallback) Classify(ctx context.Context, complaint string) (*models.AnalysisResult, error) {
	if f.primary != nil {
		attemptCtx, cancel := context.WithTimeout(ctx, f.timeout)
		defer cancel()

		result, err := f.primary.Classify(attemptCtx, complaint)
		if err == nil {
			return result, nil
		}
		log.Printf("Warning: remote classification failed, using rule-based analysis: %v", err)
	}

	return f.fallback.Classify(ctx, complaint)
}
