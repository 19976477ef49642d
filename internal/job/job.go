// Package job runs one generation at a time in the background and exposes its progress.
package job

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/BarkinBalci/event-dataset-generator/internal/domain"
)

type State string

const (
	StatePending   State = "pending"
	StateRunning   State = "running"
	StateCompleted State = "completed"
	StateFailed    State = "failed"
)

// Terminal reports whether no further transition can happen
func (s State) Terminal() bool {
	return s == StateCompleted || s == StateFailed
}

// ReportFunc publishes progress as a percentage in [0, 100]
type ReportFunc func(percent float64)

// Func is the work a job runs
type Func func(ctx context.Context, report ReportFunc) (*domain.RunSummary, error)

// Snapshot is a consistent copy of a job's observable state
type Snapshot struct {
	ID         string
	State      State
	Progress   float64
	Err        error
	CreatedAt  time.Time
	StartedAt  time.Time
	FinishedAt time.Time
	Result     *domain.RunSummary
}

// Job is a single background run
type Job struct {
	id     string
	cancel context.CancelFunc
	done   chan struct{}

	mu   sync.RWMutex
	snap Snapshot
}

func (j *Job) ID() string { return j.id }

// Cancel requests the run to stop; the job ends Failed with context.Canceled
func (j *Job) Cancel() {
	j.cancel()
}

// Done is closed once the job reached a terminal state
func (j *Job) Done() <-chan struct{} {
	return j.done
}

// Wait blocks until the job finishes or ctx is done and returns the job's error
func (j *Job) Wait(ctx context.Context) error {
	select {
	case <-j.done:
		return j.Snapshot().Err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (j *Job) Snapshot() Snapshot {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.snap
}

// report keeps the latest value; it never blocks on readers for longer than a copy
func (j *Job) report(percent float64) {
	percent = min(max(percent, 0), 100)
	j.mu.Lock()
	if j.snap.State == StateRunning {
		j.snap.Progress = percent
	}
	j.mu.Unlock()
}

func (j *Job) markRunning(at time.Time) {
	j.mu.Lock()
	j.snap.State = StateRunning
	j.snap.StartedAt = at
	j.mu.Unlock()
}

func (j *Job) complete(result *domain.RunSummary, err error, at time.Time) {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.snap.FinishedAt = at
	j.snap.Result = result
	if err != nil {
		j.snap.State = StateFailed
		j.snap.Err = err
		return
	}
	if result == nil {
		j.snap.State = StateFailed
		j.snap.Err = errors.New("job finished without a result")
		return
	}
	j.snap.State = StateCompleted
	j.snap.Progress = 100
}
