// Package memory keeps a generated dataset in process, for dry runs and tests.
package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/BarkinBalci/event-dataset-generator/internal/config"
	"github.com/BarkinBalci/event-dataset-generator/internal/domain"
)

// Dataset is one generation's rows
type Dataset struct {
	Users        []domain.User
	Sessions     []domain.Session
	Events       []domain.Event
	Purchases    []domain.Purchase
	DailyMetrics []domain.DailyMetric
}

// Sink implements repository.Store in memory. It is safe for concurrent use.
type Sink struct {
	mu       sync.RWMutex
	staging  Dataset
	live     Dataset
	versions []domain.DatasetVersion
	closed   bool
}

func NewSink() *Sink {
	return &Sink{}
}

func (s *Sink) Name() string { return config.SinkMemory }

func (s *Sink) InitSchema(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.staging = Dataset{}
	return nil
}

func (s *Sink) ClearTables(ctx context.Context) error {
	return s.InitSchema(ctx)
}

func (s *Sink) InsertUsers(_ context.Context, users []domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.staging.Users = append(s.staging.Users, users...)
	return nil
}

func (s *Sink) InsertSessions(_ context.Context, sessions []domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.staging.Sessions = append(s.staging.Sessions, sessions...)
	return nil
}

func (s *Sink) InsertEvents(_ context.Context, events []domain.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.staging.Events = append(s.staging.Events, events...)
	return nil
}

func (s *Sink) InsertPurchases(_ context.Context, purchases []domain.Purchase) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.staging.Purchases = append(s.staging.Purchases, purchases...)
	return nil
}

func (s *Sink) InsertDailyMetrics(_ context.Context, metrics []domain.DailyMetric) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.staging.DailyMetrics = append(s.staging.DailyMetrics, metrics...)
	return nil
}

func (s *Sink) Promote(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.live, s.staging = s.staging, Dataset{}
	return nil
}

// Live returns the promoted dataset
func (s *Sink) Live() Dataset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.live
}

// Staged returns rows written since the last InitSchema that are not promoted yet
func (s *Sink) Staged() Dataset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.staging
}

func (s *Sink) EnsureLedger(context.Context) error { return nil }

func (s *Sink) MaxVersionID(context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var id int64
	for _, v := range s.versions {
		id = max(id, v.VersionID)
	}
	return id, nil
}

func (s *Sink) AppendVersion(_ context.Context, v domain.DatasetVersion) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.versions = append(s.versions, v)
	return nil
}

func (s *Sink) ListVersions(_ context.Context, limit int) ([]domain.DatasetVersion, error) {
	s.mu.RLock()
	versions := slices.Clone(s.versions)
	s.mu.RUnlock()

	slices.SortFunc(versions, func(a, b domain.DatasetVersion) int {
		switch {
		case a.VersionID > b.VersionID:
			return -1
		case a.VersionID < b.VersionID:
			return 1
		}
		return 0
	})
	if limit > 0 && len(versions) > limit {
		versions = versions[:limit]
	}
	return versions, nil
}

func (s *Sink) Ping(context.Context) error { return nil }

// Close keeps the data readable; a memory sink has nothing to release
func (s *Sink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// Closed reports whether Close was called
func (s *Sink) Closed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.closed
}
