package job

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/BarkinBalci/event-dataset-generator/internal/domain"
)

// FinishHook observes every job once it reaches a terminal state
type FinishHook func(Snapshot)

// Manager allows a single job at a time and remembers the most recent one
type Manager struct {
	mu      sync.Mutex
	current *Job
	hooks   []FinishHook
	now     func() time.Time
	log     *zap.Logger
}

func NewManager(log *zap.Logger, hooks ...FinishHook) *Manager {
	return &Manager{hooks: hooks, now: time.Now, log: log}
}

// Start launches fn in the background. The job is bound to ctx: cancelling ctx cancels it.
// It returns domain.ErrJobRunning while another job has not finished.
func (m *Manager) Start(ctx context.Context, fn Func) (*Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current != nil && !m.current.Snapshot().State.Terminal() {
		return nil, fmt.Errorf("%w: %s", domain.ErrJobRunning, m.current.ID())
	}

	jobCtx, cancel := context.WithCancel(ctx)
	j := &Job{
		id:     uuid.NewString(),
		cancel: cancel,
		done:   make(chan struct{}),
	}
	j.snap = Snapshot{ID: j.id, State: StatePending, CreatedAt: m.now()}
	m.current = j

	go m.run(jobCtx, j, fn)

	return j, nil
}

func (m *Manager) run(ctx context.Context, j *Job, fn Func) {
	defer j.cancel()

	j.markRunning(m.now())
	m.log.Info("Job started", zap.String("job_id", j.id))

	result, err := m.call(ctx, j, fn)
	j.complete(result, err, m.now())
	defer close(j.done)

	snap := j.Snapshot()
	if snap.Err != nil {
		m.log.Error("Job failed", zap.String("job_id", j.id), zap.Error(snap.Err))
	} else {
		m.log.Info("Job completed",
			zap.String("job_id", j.id),
			zap.Duration("took", snap.FinishedAt.Sub(snap.StartedAt)))
	}

	for _, hook := range m.hooks {
		hook(snap)
	}
}

// call runs fn, turning a panic into a job failure
func (m *Manager) call(ctx context.Context, j *Job, fn Func) (result *domain.RunSummary, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("job panicked: %v", r)
		}
	}()
	return fn(ctx, j.report)
}

// Current returns the most recent job, nil before the first Start
func (m *Manager) Current() *Job {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// Status returns the most recent job's snapshot; ok is false before the first Start
func (m *Manager) Status() (snap Snapshot, ok bool) {
	j := m.Current()
	if j == nil {
		return Snapshot{}, false
	}
	return j.Snapshot(), true
}
