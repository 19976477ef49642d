package service

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"github.com/BarkinBalci/event-dataset-generator/internal/config"
	"github.com/BarkinBalci/event-dataset-generator/internal/domain"
	"github.com/BarkinBalci/event-dataset-generator/internal/dto"
	"github.com/BarkinBalci/event-dataset-generator/internal/job"
	"github.com/BarkinBalci/event-dataset-generator/internal/lineage"
	"github.com/BarkinBalci/event-dataset-generator/internal/pipeline"
	"github.com/BarkinBalci/event-dataset-generator/internal/repository"
	"github.com/BarkinBalci/event-dataset-generator/internal/repository/sinks"
	"github.com/BarkinBalci/event-dataset-generator/internal/simulation"
)

const (
	StatusIdle      = "idle"
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusError     = "error"

	defaultVersionsLimit = 50
)

// ErrNoActiveJob is returned by Cancel when nothing is running
var ErrNoActiveJob = errors.New("no generation job is running")

// ProfileSource returns the base profile every run starts from
type ProfileSource func() (*config.Profile, error)

// GeneratorService runs generations and serves their progress and lineage
type GeneratorService struct {
	opener   SinkOpener
	jobs     *job.Manager
	registry *lineage.Registry
	profile  ProfileSource
	meter    metric.Meter
	now      func() time.Time
	log      *zap.Logger
}

func NewGeneratorService(opener SinkOpener, jobs *job.Manager, registry *lineage.Registry, profile ProfileSource, meter metric.Meter, log *zap.Logger) *GeneratorService {
	return &GeneratorService{
		opener:   opener,
		jobs:     jobs,
		registry: registry,
		profile:  profile,
		meter:    meter,
		now:      time.Now,
		log:      log,
	}
}

// Generate runs one complete generation synchronously: simulate every date, stream the
// rows into every sink, promote them, then append one lineage record per sink.
// report receives the share of dates processed; it may be nil.
func (s *GeneratorService) Generate(ctx context.Context, p *config.Profile, report job.ReportFunc) (*domain.RunSummary, error) {
	if report == nil {
		report = func(float64) {}
	}

	sim, err := simulation.New(p, s.now())
	if err != nil {
		return nil, err
	}

	stores, err := s.opener.OpenAll(ctx, p.Sinks)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := sinks.CloseAll(stores); err != nil {
			s.log.Warn("Failed to close sinks", zap.Error(err))
		}
	}()

	sinkList := make([]repository.Sink, len(stores))
	ledgers := make([]lineage.Ledger, len(stores))
	for i, st := range stores {
		sinkList[i] = st
		ledgers[i] = st
	}

	coord, err := pipeline.NewCoordinator(sinkList, pipeline.Config{Threshold: p.BatchThreshold}, s.meter, s.log)
	if err != nil {
		return nil, err
	}

	s.log.Info("Generation started",
		zap.String("generator_type", p.GeneratorType),
		zap.Time("start", sim.Start()),
		zap.Time("end", sim.End()),
		zap.Int64("seed", sim.Seed()),
		zap.Int("users", sim.Population().Len()),
		zap.Strings("sinks", p.Sinks))

	if err := coord.Begin(ctx); err != nil {
		return nil, err
	}

	days := float64(sim.Days())
	runErr := sim.Run(ctx, func(b *domain.DayBatch) error {
		if err := coord.Add(ctx, b); err != nil {
			return err
		}
		report(float64(b.Index+1) / days * 100)
		return nil
	})
	// the coordinator keeps the first failure of the run, which is usually also runErr
	if err := cmp.Or(coord.Close(ctx), runErr); err != nil {
		return nil, fmt.Errorf("generation aborted: %w", err)
	}

	if err := coord.Promote(ctx); err != nil {
		return nil, fmt.Errorf("generation aborted: %w", err)
	}

	summary := sim.Summary()
	summary.CompletedAt = s.now().UTC()

	versions, err := s.registry.Record(ctx, ledgers, summary)
	summary.Versions = versions
	if err != nil {
		return nil, fmt.Errorf("failed to record dataset version: %w", err)
	}

	s.log.Info("Generation completed",
		zap.Int64("users", summary.Users),
		zap.Int64("sessions", summary.Sessions),
		zap.Int64("events", summary.Events),
		zap.Int64("purchases", summary.Purchases),
		zap.Int("flushes", coord.Flushes()))

	return &summary, nil
}

// BuildProfile applies the request overrides to the base profile and validates it
func (s *GeneratorService) BuildProfile(req *dto.CreateGenerationRequest) (*config.Profile, error) {
	p, err := s.profile()
	if err != nil {
		return nil, &domain.ConfigError{Problems: []string{err.Error()}}
	}

	if req != nil {
		// start_date and days are alternatives; whichever is given replaces the other
		if req.Days > 0 {
			p.Days, p.StartDate = req.Days, ""
		}
		if req.StartDate != "" {
			p.StartDate, p.Days = req.StartDate, 0
		}
		if req.EndDate != "" {
			p.EndDate = req.EndDate
		}
		if req.Seed != nil {
			p.Seed = req.Seed
		}
		if len(req.Sinks) > 0 {
			p.Sinks = req.Sinks
		}
		if req.DailyNewUsers != nil {
			p.DailyNewUsers = config.IntRange{Min: req.DailyNewUsers.Min, Max: req.DailyNewUsers.Max}
		}
		if req.EventsPerSession != nil {
			p.EventsPerSession = config.IntRange{Min: req.EventsPerSession.Min, Max: req.EventsPerSession.Max}
		}
		if req.MaxUsers != nil {
			p.MaxUsers = *req.MaxUsers
		}
		if req.BatchThreshold > 0 {
			p.BatchThreshold = req.BatchThreshold
		}
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// StartGeneration validates the request and runs the generation as a background job.
// The job is not bound to any request context.
func (s *GeneratorService) StartGeneration(req *dto.CreateGenerationRequest) (*dto.CreateGenerationResponse, error) {
	p, err := s.BuildProfile(req)
	if err != nil {
		return nil, err
	}

	j, err := s.jobs.Start(context.Background(), func(ctx context.Context, report job.ReportFunc) (*domain.RunSummary, error) {
		return s.Generate(ctx, p, report)
	})
	if err != nil {
		return nil, err
	}

	return &dto.CreateGenerationResponse{JobID: j.ID(), Status: StatusRunning}, nil
}

// Progress maps the latest job onto the idle/running/completed/error record
func (s *GeneratorService) Progress() *dto.ProgressResponse {
	snap, ok := s.jobs.Status()
	if !ok {
		return &dto.ProgressResponse{Status: StatusIdle}
	}
	return progressOf(snap)
}

func progressOf(snap job.Snapshot) *dto.ProgressResponse {
	resp := &dto.ProgressResponse{JobID: snap.ID, Progress: snap.Progress}
	switch snap.State {
	case job.StateCompleted:
		resp.Status = StatusCompleted
	case job.StateFailed:
		resp.Status = StatusError
		if snap.Err != nil {
			resp.Error = snap.Err.Error()
		}
	default:
		resp.Status = StatusRunning
	}
	return resp
}

// Cancel stops the running job
func (s *GeneratorService) Cancel() error {
	j := s.jobs.Current()
	if j == nil || j.Snapshot().State.Terminal() {
		return ErrNoActiveJob
	}
	j.Cancel()
	return nil
}

// ListVersions reads the lineage ledger of one sink, newest first. An empty sink name
// selects the first sink of the base profile.
func (s *GeneratorService) ListVersions(ctx context.Context, req *dto.ListVersionsRequest) (*dto.ListVersionsResponse, error) {
	name := req.Sink
	if name == "" {
		p, err := s.profile()
		if err != nil {
			return nil, &domain.ConfigError{Problems: []string{err.Error()}}
		}
		if len(p.Sinks) == 0 {
			return nil, &domain.ConfigError{Problems: []string{"sinks: at least one sink required"}}
		}
		name = p.Sinks[0]
	}
	limit := req.Limit
	if limit <= 0 {
		limit = defaultVersionsLimit
	}

	store, err := s.opener.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := store.Close(); err != nil {
			s.log.Warn("Failed to close sink", zap.String("sink", name), zap.Error(err))
		}
	}()

	if err := store.EnsureLedger(ctx); err != nil {
		return nil, domain.NewSinkError(name, "ensure ledger", domain.ErrSinkUnavailable, err)
	}
	versions, err := store.ListVersions(ctx, limit)
	if err != nil {
		return nil, domain.NewSinkError(name, "list versions", domain.ErrSinkUnavailable, err)
	}

	resp := &dto.ListVersionsResponse{Sink: name, Versions: make([]dto.DatasetVersionResponse, len(versions))}
	for i, v := range versions {
		resp.Versions[i] = dto.DatasetVersionResponse{
			VersionID:     v.VersionID,
			CreatedAt:     v.CreatedAt,
			GeneratorType: v.GeneratorType,
			StartDate:     v.StartDate.Format(time.DateOnly),
			EndDate:       v.EndDate.Format(time.DateOnly),
			NUsers:        v.NUsers,
			NEvents:       v.NEvents,
		}
	}
	return resp, nil
}

// Health checks that the base profile still loads
func (s *GeneratorService) Health(context.Context) error {
	_, err := s.profile()
	return err
}
