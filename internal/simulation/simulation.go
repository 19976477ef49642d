// Package simulation generates the synthetic behavioral dataset one date at a time.
package simulation

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/BarkinBalci/event-dataset-generator/internal/config"
	"github.com/BarkinBalci/event-dataset-generator/internal/domain"
)

const (
	maxProductID      = 5000
	couponProbability = 0.3
)

// Simulation carries the seeded random source and every piece of per-run state.
// It is not safe for concurrent use; independent runs use independent Simulations.
type Simulation struct {
	rng        *rand.Rand
	seed       int64
	profile    *config.Profile
	start      time.Time
	end        time.Time
	days       int
	population *Population
	retention  *RetentionCurve
	sessions   *SessionSynthesizer
	promotions PromotionCalendar
	acc        *DailyAccumulator

	nextEventID    int64
	nextPurchaseID int64
	totals         domain.RunSummary
}

// New validates the profile and builds the population. The seed comes from the profile
// when set, otherwise from now.
func New(p *config.Profile, now time.Time) (*Simulation, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	start, end, err := p.Resolve(now)
	if err != nil {
		return nil, &domain.ConfigError{Problems: []string{err.Error()}}
	}

	seed := now.UnixNano()
	if p.Seed != nil {
		seed = *p.Seed
	}

	retention, err := NewRetentionCurve(p.Retention)
	if err != nil {
		return nil, &domain.ConfigError{Problems: []string{err.Error()}}
	}
	synth, err := NewSessionSynthesizer(p.EventWeights, p.EventsPerSession, p.Promotion.Boost)
	if err != nil {
		return nil, &domain.ConfigError{Problems: []string{err.Error()}}
	}

	rng := rand.New(rand.NewPCG(uint64(seed), uint64(seed)^0x9e3779b97f4a7c15))
	days := daysBetween(start, end) + 1

	population, err := BuildPopulation(rng, start, days, PopulationConfig{
		DailyNewUsers: p.DailyNewUsers,
		MaxUsers:      p.MaxUsers,
		Devices:       p.Devices,
		Channels:      p.Channels,
		Segments:      p.Segments,
	})
	if err != nil {
		return nil, &domain.ConfigError{Problems: []string{err.Error()}}
	}

	s := &Simulation{
		rng:        rng,
		seed:       seed,
		profile:    p,
		start:      start,
		end:        end,
		days:       days,
		population: population,
		retention:  retention,
		sessions:   synth,
		promotions: PickPromotionDays(rng, start, end, p.Promotion.DaysPerMonth),
		acc:        NewDailyAccumulator(start, end),
	}
	s.totals = domain.RunSummary{
		GeneratorType: p.GeneratorType,
		StartDate:     start,
		EndDate:       end,
		Seed:          seed,
		Days:          days,
		Users:         int64(population.Len()),
	}

	return s, nil
}

func (s *Simulation) Seed() int64                   { return s.seed }
func (s *Simulation) Days() int                     { return s.days }
func (s *Simulation) Start() time.Time              { return s.start }
func (s *Simulation) End() time.Time                { return s.end }
func (s *Simulation) Population() *Population       { return s.population }
func (s *Simulation) Promotions() PromotionCalendar { return s.promotions }

// Summary returns the running totals; it is complete once every day has been simulated
func (s *Simulation) Summary() domain.RunSummary {
	return s.totals
}

// SimulateDay produces every row for day index i. Days must be simulated in order
// since rollups for a date are emitted once that date can no longer change.
func (s *Simulation) SimulateDay(i int) (*domain.DayBatch, error) {
	if i < 0 || i >= s.days {
		return nil, fmt.Errorf("day index %d outside [0,%d)", i, s.days)
	}

	date := s.start.AddDate(0, 0, i)
	promo := s.promotions.Contains(date)
	batch := &domain.DayBatch{Date: date, Index: i, Users: s.population.NewOn(i)}

	for _, u := range s.population.SignedUp(i) {
		if !s.retention.IsActive(s.rng, daysBetween(u.SignupDate, date)) {
			continue
		}

		n := s.sessions.SessionCount(s.rng)
		for idx := range n {
			session, events := s.sessions.Synthesize(s.rng, u, date, idx, promo)
			for j := range events {
				s.nextEventID++
				events[j].EventID = s.nextEventID
				if events[j].IsPurchase() {
					s.nextPurchaseID++
					batch.Purchases = append(batch.Purchases, domain.Purchase{
						PurchaseID:   s.nextPurchaseID,
						UserID:       u.UserID,
						SessionID:    session.SessionID,
						PurchaseTime: events[j].EventTime,
						Amount:       *events[j].Amount,
						ProductID:    int64(1 + s.rng.IntN(maxProductID)),
						CouponUsed:   s.rng.Float64() < couponProbability,
					})
				}
			}
			batch.Sessions = append(batch.Sessions, session)
			batch.Events = append(batch.Events, events...)
		}
	}

	s.acc.AddUsers(batch.Users)
	s.acc.AddSessions(batch.Sessions)
	s.acc.AddEvents(batch.Events)
	s.acc.AddPurchases(batch.Purchases)
	batch.Metrics = s.acc.FinalizeThrough(i)

	s.totals.Sessions += int64(len(batch.Sessions))
	s.totals.Events += int64(len(batch.Events))
	s.totals.Purchases += int64(len(batch.Purchases))

	return batch, nil
}

// Run simulates every date in order and hands each batch to fn. It stops at the first error
// from fn or when ctx is done.
func (s *Simulation) Run(ctx context.Context, fn func(*domain.DayBatch) error) error {
	for i := range s.days {
		if err := ctx.Err(); err != nil {
			return err
		}
		batch, err := s.SimulateDay(i)
		if err != nil {
			return err
		}
		if err := fn(batch); err != nil {
			return err
		}
	}
	return nil
}
