package simulation

import (
	"fmt"
	"math/rand/v2"

	"github.com/BarkinBalci/event-dataset-generator/internal/config"
)

// RetentionCurve is a step function from signup age in days to daily activity probability.
// Each day is an independent Bernoulli draw; there is no memory of past activity.
type RetentionCurve struct {
	steps []config.RetentionStep
	tail  float64
}

// NewRetentionCurve validates r and builds the curve. The curve must be non-increasing.
func NewRetentionCurve(r config.Retention) (*RetentionCurve, error) {
	if len(r.Steps) == 0 {
		return nil, fmt.Errorf("retention curve needs at least one step")
	}
	prevAge, prevProb := -1, 1.0
	for i, s := range r.Steps {
		if s.MaxAgeDays <= prevAge {
			return nil, fmt.Errorf("retention step %d: max age %d does not increase", i, s.MaxAgeDays)
		}
		if s.Probability < 0 || s.Probability > prevProb {
			return nil, fmt.Errorf("retention step %d: probability %.4f breaks the non-increasing curve", i, s.Probability)
		}
		prevAge, prevProb = s.MaxAgeDays, s.Probability
	}
	if r.Tail < 0 || r.Tail > prevProb {
		return nil, fmt.Errorf("retention tail %.4f breaks the non-increasing curve", r.Tail)
	}

	steps := make([]config.RetentionStep, len(r.Steps))
	copy(steps, r.Steps)
	return &RetentionCurve{steps: steps, tail: r.Tail}, nil
}

// Probability returns the activity probability at age days since signup
func (c *RetentionCurve) Probability(age int) float64 {
	if age < 0 {
		return 0
	}
	for _, s := range c.steps {
		if age <= s.MaxAgeDays {
			return s.Probability
		}
	}
	return c.tail
}

// IsActive draws once from rng and reports whether a user of the given age is active
func (c *RetentionCurve) IsActive(rng *rand.Rand, age int) bool {
	return rng.Float64() < c.Probability(age)
}
