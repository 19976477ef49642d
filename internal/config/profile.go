package config

import (
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/BarkinBalci/event-dataset-generator/internal/domain"
)

// Sink names accepted in Profile.Sinks
const (
	SinkClickHouse = "clickhouse"
	SinkPostgres   = "postgres"
	SinkMySQL      = "mysql"
	SinkSQLite     = "sqlite"
	SinkMemory     = "memory"
)

// KnownSinks lists every sink name the factory can open
var KnownSinks = []string{SinkClickHouse, SinkPostgres, SinkMySQL, SinkSQLite, SinkMemory}

const (
	dateLayout            = "2006-01-02"
	DefaultBatchThreshold = 200_000
)

// IntRange is an inclusive [Min, Max] integer range
type IntRange struct {
	Min int `yaml:"min" json:"min"`
	Max int `yaml:"max" json:"max"`
}

// Weighted is one entry of a categorical distribution
type Weighted struct {
	Name   string  `yaml:"name" json:"name"`
	Weight float64 `yaml:"weight" json:"weight"`
}

// Distribution is an ordered categorical distribution. Order matters for reproducible sampling.
type Distribution []Weighted

// Names returns the category names in order
func (d Distribution) Names() []string {
	names := make([]string, len(d))
	for i, w := range d {
		names[i] = w.Name
	}
	return names
}

// Weights returns the raw weights in order
func (d Distribution) Weights() []float64 {
	weights := make([]float64, len(d))
	for i, w := range d {
		weights[i] = w.Weight
	}
	return weights
}

// RetentionStep applies Probability to every signup age up to and including MaxAgeDays
type RetentionStep struct {
	MaxAgeDays  int     `yaml:"max_age_days" json:"max_age_days"`
	Probability float64 `yaml:"probability" json:"probability"`
}

// Retention overrides the activity curve; Tail applies past the last step
type Retention struct {
	Steps []RetentionStep `yaml:"steps" json:"steps"`
	Tail  float64         `yaml:"tail" json:"tail"`
}

type Promotion struct {
	DaysPerMonth IntRange `yaml:"days_per_month" json:"days_per_month"`
	Boost        float64  `yaml:"boost" json:"boost"`
}

// Profile is the generation configuration for one run
type Profile struct {
	GeneratorType    string       `yaml:"generator_type" json:"generator_type"`
	StartDate        string       `yaml:"start_date" json:"start_date"`
	EndDate          string       `yaml:"end_date" json:"end_date"`
	Days             int          `yaml:"days" json:"days"`
	DailyNewUsers    IntRange     `yaml:"daily_new_users" json:"daily_new_users"`
	MaxUsers         int          `yaml:"max_users" json:"max_users"`
	Devices          Distribution `yaml:"devices" json:"devices"`
	Channels         Distribution `yaml:"channels" json:"channels"`
	Segments         Distribution `yaml:"segments" json:"segments"`
	EventsPerSession IntRange     `yaml:"events_per_session" json:"events_per_session"`
	EventWeights     Distribution `yaml:"event_weights" json:"event_weights"`
	Promotion        Promotion    `yaml:"promotion" json:"promotion"`
	Retention        Retention    `yaml:"retention" json:"retention"`
	Sinks            []string     `yaml:"sinks" json:"sinks"`
	Seed             *int64       `yaml:"seed" json:"seed,omitempty"`
	BatchThreshold   int          `yaml:"batch_threshold" json:"batch_threshold"`
}

// DefaultRetention is the step curve used when a profile does not override it
func DefaultRetention() Retention {
	return Retention{
		Steps: []RetentionStep{
			{MaxAgeDays: 0, Probability: 1.00},
			{MaxAgeDays: 1, Probability: 0.45},
			{MaxAgeDays: 7, Probability: 0.20},
			{MaxAgeDays: 30, Probability: 0.08},
			{MaxAgeDays: 90, Probability: 0.03},
		},
		Tail: 0.01,
	}
}

// DefaultProfile returns a Profile with a ~200-day run ending today
func DefaultProfile() *Profile {
	return &Profile{
		GeneratorType: "advanced",
		Days:          200,
		DailyNewUsers: IntRange{Min: 50, Max: 300},
		MaxUsers:      50000,
		Devices: Distribution{
			{Name: "web", Weight: 1}, {Name: "android", Weight: 1}, {Name: "ios", Weight: 1},
		},
		Channels: Distribution{
			{Name: "organic", Weight: 1}, {Name: "paid_search", Weight: 1}, {Name: "display", Weight: 1},
			{Name: "email", Weight: 1}, {Name: "affiliate", Weight: 1},
		},
		Segments: Distribution{
			{Name: "light", Weight: 0.5}, {Name: "regular", Weight: 0.3},
			{Name: "heavy", Weight: 0.15}, {Name: "vip", Weight: 0.05},
		},
		EventsPerSession: IntRange{Min: 2, Max: 8},
		EventWeights: Distribution{
			{Name: domain.EventViewHome, Weight: 0.9},
			{Name: domain.EventViewProduct, Weight: 0.6},
			{Name: domain.EventSearch, Weight: 0.15},
			{Name: domain.EventAddToCart, Weight: 0.1},
			{Name: domain.EventPurchase, Weight: 0.03},
		},
		Promotion:      Promotion{DaysPerMonth: IntRange{Min: 2, Max: 4}, Boost: 2.0},
		Retention:      DefaultRetention(),
		Sinks:          []string{SinkSQLite},
		BatchThreshold: DefaultBatchThreshold,
	}
}

// LoadProfile reads a YAML profile on top of DefaultProfile. An empty path returns the defaults.
func LoadProfile(path string) (*Profile, error) {
	p := DefaultProfile()
	if path == "" {
		return p, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, p); err != nil {
		return nil, fmt.Errorf("failed to parse profile %s: %w", path, err)
	}

	return p, nil
}

// Resolve returns the inclusive run date range, anchored to now when only Days is set
func (p *Profile) Resolve(now time.Time) (time.Time, time.Time, error) {
	var start, end time.Time
	var err error

	if p.EndDate != "" {
		if end, err = time.Parse(dateLayout, p.EndDate); err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("end_date: %w", err)
		}
	} else {
		y, m, d := now.UTC().Date()
		end = time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	}

	switch {
	case p.StartDate != "":
		if start, err = time.Parse(dateLayout, p.StartDate); err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("start_date: %w", err)
		}
	case p.Days > 0:
		start = end.AddDate(0, 0, -(p.Days - 1))
	default:
		return time.Time{}, time.Time{}, fmt.Errorf("either start_date or days is required")
	}

	if start.After(end) {
		return time.Time{}, time.Time{}, fmt.Errorf("start_date %s is after end_date %s",
			start.Format(dateLayout), end.Format(dateLayout))
	}

	return start, end, nil
}

// Validate checks the whole profile and reports every problem at once
func (p *Profile) Validate() error {
	var problems []string
	add := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	if _, _, err := p.Resolve(time.Now()); err != nil {
		add("date range: %v", err)
	}
	if strings.TrimSpace(p.GeneratorType) == "" {
		add("generator_type: required")
	}

	checkRange := func(name string, r IntRange, min int) {
		if r.Min < min {
			add("%s: min %d is below %d", name, r.Min, min)
		}
		if r.Min > r.Max {
			add("%s: min %d > max %d", name, r.Min, r.Max)
		}
	}
	checkRange("daily_new_users", p.DailyNewUsers, 0)
	checkRange("events_per_session", p.EventsPerSession, 0)
	checkRange("promotion.days_per_month", p.Promotion.DaysPerMonth, 0)

	if p.MaxUsers < 0 {
		add("max_users: must be >= 0 (0 means unlimited)")
	}
	if p.Promotion.Boost <= 0 {
		add("promotion.boost: must be > 0")
	}
	if p.BatchThreshold <= 0 {
		add("batch_threshold: must be > 0")
	}

	checkDistribution := func(name string, d Distribution) {
		if len(d) == 0 {
			add("%s: at least one entry required", name)
			return
		}
		seen := make(map[string]bool, len(d))
		for _, w := range d {
			if w.Name == "" {
				add("%s: entry with empty name", name)
			}
			if seen[w.Name] {
				add("%s: duplicate entry %q", name, w.Name)
			}
			seen[w.Name] = true
			if !(w.Weight > 0) {
				add("%s: weight for %q must be > 0", name, w.Name)
			}
		}
	}
	checkDistribution("devices", p.Devices)
	checkDistribution("channels", p.Channels)
	checkDistribution("segments", p.Segments)
	checkDistribution("event_weights", p.EventWeights)

	funnel := []string{domain.EventViewHome, domain.EventViewProduct, domain.EventSearch, domain.EventAddToCart, domain.EventPurchase}
	for _, w := range p.EventWeights {
		if !slices.Contains(funnel, w.Name) {
			add("event_weights: unknown funnel stage %q", w.Name)
		}
	}

	problems = append(problems, p.Retention.problems()...)

	if len(p.Sinks) == 0 {
		add("sinks: at least one sink required")
	}
	seenSinks := make(map[string]bool, len(p.Sinks))
	for _, s := range p.Sinks {
		if !slices.Contains(KnownSinks, s) {
			add("sinks: unknown sink %q (supported: %s)", s, strings.Join(KnownSinks, ", "))
		}
		if seenSinks[s] {
			add("sinks: duplicate sink %q", s)
		}
		seenSinks[s] = true
	}

	if len(problems) > 0 {
		return &domain.ConfigError{Problems: problems}
	}
	return nil
}

func (r Retention) problems() []string {
	var problems []string
	prevAge := -1
	prevProb := 1.0
	for i, s := range r.Steps {
		if s.MaxAgeDays <= prevAge {
			problems = append(problems, fmt.Sprintf("retention.steps[%d]: max_age_days must increase", i))
		}
		if s.Probability < 0 || s.Probability > 1 {
			problems = append(problems, fmt.Sprintf("retention.steps[%d]: probability must be within [0,1]", i))
		}
		if s.Probability > prevProb {
			problems = append(problems, fmt.Sprintf("retention.steps[%d]: curve must be non-increasing", i))
		}
		prevAge, prevProb = s.MaxAgeDays, s.Probability
	}
	if len(r.Steps) == 0 {
		problems = append(problems, "retention.steps: at least one step required")
	}
	if r.Tail < 0 || r.Tail > prevProb {
		problems = append(problems, "retention.tail: must be within [0, last step probability]")
	}
	return problems
}
