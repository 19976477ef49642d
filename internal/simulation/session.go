package simulation

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/BarkinBalci/event-dataset-generator/internal/config"
	"github.com/BarkinBalci/event-dataset-generator/internal/domain"
)

const (
	minSessionsPerDay = 1
	maxSessionsPerDay = 3
)

// SessionSynthesizer produces time-ordered funnel event sequences for one session
type SessionSynthesizer struct {
	regular          *categorical
	promotion        *categorical
	eventsPerSession config.IntRange
}

// NewSessionSynthesizer builds both the regular and the promotion-boosted stage distributions.
// On promotion days purchase and add_to_cart weights are multiplied by boost before renormalizing.
func NewSessionSynthesizer(weights config.Distribution, eventsPerSession config.IntRange, boost float64) (*SessionSynthesizer, error) {
	if eventsPerSession.Min < 0 || eventsPerSession.Min > eventsPerSession.Max {
		return nil, fmt.Errorf("events per session range [%d,%d] is invalid", eventsPerSession.Min, eventsPerSession.Max)
	}
	if !(boost > 0) {
		return nil, fmt.Errorf("promotion boost %.2f must be > 0", boost)
	}

	regular, err := newCategorical("event_weights", weights)
	if err != nil {
		return nil, err
	}

	boosted := weights.Weights()
	for i, name := range weights.Names() {
		if name == domain.EventPurchase || name == domain.EventAddToCart {
			boosted[i] *= boost
		}
	}
	promotion, err := newWeighted("event_weights", weights.Names(), boosted)
	if err != nil {
		return nil, err
	}

	return &SessionSynthesizer{regular: regular, promotion: promotion, eventsPerSession: eventsPerSession}, nil
}

// SessionCount draws the number of sessions for an active user-day
func (s *SessionSynthesizer) SessionCount(rng *rand.Rand) int {
	return minSessionsPerDay + rng.IntN(maxSessionsPerDay-minSessionsPerDay+1)
}

// StageProbability returns the normalized probability of a funnel stage
func (s *SessionSynthesizer) StageProbability(stage string, promotion bool) float64 {
	if promotion {
		return s.promotion.probability(stage)
	}
	return s.regular.probability(stage)
}

// Synthesize builds session idx of user on date. Event ids are left zero for the caller to assign.
func (s *SessionSynthesizer) Synthesize(rng *rand.Rand, user domain.User, date time.Time, idx int, promotion bool) (domain.Session, []domain.Event) {
	dist := s.regular
	if promotion {
		dist = s.promotion
	}

	sessionID := fmt.Sprintf("%d-%s-%d", user.UserID, date.Format("20060102"), idx)
	n := s.eventsPerSession.Min + rng.IntN(s.eventsPerSession.Max-s.eventsPerSession.Min+1)
	events := make([]domain.Event, 0, n+2)

	newEvent := func(name string, at time.Time) domain.Event {
		return domain.Event{
			SessionID: sessionID,
			UserID:    user.UserID,
			EventName: name,
			EventTime: at,
			Segment:   user.Segment,
			EventDate: dayOf(at),
		}
	}

	clock := sampleTimeOfDay(rng, date)
	events = append(events, newEvent(domain.EventSessionStart, clock))

	for range n {
		name := dist.sample(rng)
		clock = clock.Add(nextGap(rng))
		ev := newEvent(name, clock)
		if name == domain.EventPurchase {
			amount := sampleAmount(rng)
			ev.Amount = &amount
		}
		events = append(events, ev)
	}

	clock = clock.Add(nextGap(rng))
	events = append(events, newEvent(domain.EventSessionEnd, clock))

	first, last := events[0].EventTime, events[len(events)-1].EventTime
	session := domain.Session{
		SessionID:      sessionID,
		UserID:         user.UserID,
		SessionStart:   first,
		SessionEnd:     last,
		IsPromotionDay: promotion,
		LengthSec:      int64(last.Sub(first).Seconds()),
	}

	return session, events
}
