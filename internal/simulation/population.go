package simulation

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/BarkinBalci/event-dataset-generator/internal/config"
	"github.com/BarkinBalci/event-dataset-generator/internal/domain"
)

// PopulationConfig drives signup growth
type PopulationConfig struct {
	DailyNewUsers config.IntRange
	// MaxUsers caps the population; 0 disables the cap
	MaxUsers int
	Devices  config.Distribution
	Channels config.Distribution
	Segments config.Distribution
}

// Population is the read-only user registry of a run. User ids are sequential from 1,
// so users signed up by any date form a prefix of the registry.
type Population struct {
	users      []domain.User
	signedUpBy []int
}

// BuildPopulation grows the user base day by day over days dates starting at start.
// Invalid ranges or weights fail before any user is created.
func BuildPopulation(rng *rand.Rand, start time.Time, days int, cfg PopulationConfig) (*Population, error) {
	if cfg.DailyNewUsers.Min < 0 || cfg.DailyNewUsers.Min > cfg.DailyNewUsers.Max {
		return nil, fmt.Errorf("daily new users range [%d,%d] is invalid", cfg.DailyNewUsers.Min, cfg.DailyNewUsers.Max)
	}
	if cfg.MaxUsers < 0 {
		return nil, fmt.Errorf("max users %d is negative", cfg.MaxUsers)
	}
	devices, err := newCategorical("devices", cfg.Devices)
	if err != nil {
		return nil, err
	}
	channels, err := newCategorical("channels", cfg.Channels)
	if err != nil {
		return nil, err
	}
	segments, err := newCategorical("segments", cfg.Segments)
	if err != nil {
		return nil, err
	}

	p := &Population{signedUpBy: make([]int, days)}
	span := cfg.DailyNewUsers.Max - cfg.DailyNewUsers.Min + 1

	for d := range days {
		day := start.AddDate(0, 0, d)
		n := cfg.DailyNewUsers.Min + rng.IntN(span)
		if cfg.MaxUsers > 0 {
			n = min(n, cfg.MaxUsers-len(p.users))
		}

		for range n {
			p.users = append(p.users, domain.User{
				UserID:     int64(len(p.users) + 1),
				SignupDate: day,
				Device:     devices.sample(rng),
				Channel:    channels.sample(rng),
				Segment:    segments.sample(rng),
			})
		}
		p.signedUpBy[d] = len(p.users)
	}

	return p, nil
}

// Len returns the number of users
func (p *Population) Len() int {
	return len(p.users)
}

// User looks up a user by id
func (p *Population) User(id int64) (domain.User, bool) {
	if id < 1 || id > int64(len(p.users)) {
		return domain.User{}, false
	}
	return p.users[id-1], true
}

// Users returns the whole registry. Callers must not modify it.
func (p *Population) Users() []domain.User {
	return p.users
}

// SignedUp returns the users whose signup date is on or before day index d
func (p *Population) SignedUp(d int) []domain.User {
	if d < 0 || d >= len(p.signedUpBy) {
		return nil
	}
	return p.users[:p.signedUpBy[d]]
}

// NewOn returns the users who signed up on day index d
func (p *Population) NewOn(d int) []domain.User {
	if d < 0 || d >= len(p.signedUpBy) {
		return nil
	}
	from := 0
	if d > 0 {
		from = p.signedUpBy[d-1]
	}
	return p.users[from:p.signedUpBy[d]]
}
