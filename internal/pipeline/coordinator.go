// Package pipeline streams generated rows into every configured sink in bounded batches.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/BarkinBalci/event-dataset-generator/internal/config"
	"github.com/BarkinBalci/event-dataset-generator/internal/domain"
	"github.com/BarkinBalci/event-dataset-generator/internal/repository"
)

// Config configures the coordinator
type Config struct {
	// Threshold is the exact row count of every flush except the last
	Threshold int
}

var errNotStarted = errors.New("coordinator not started")

// Coordinator buffers day batches and flushes them to all sinks once Threshold rows
// accumulate. One buffer is written in the background while the next one fills.
//
// Usage: Begin, Add per day, Close, then Promote once Close succeeded.
type Coordinator struct {
	sinks     []repository.Sink
	threshold int
	inst      *instruments
	log       *zap.Logger

	buf      chunk
	queue    chan chunk
	group    *errgroup.Group
	groupCtx context.Context
	waitErr  error

	started bool
	closed  bool
	// err is the first failure of the run; once set every call returns it
	err error

	flushes atomic.Int64
	rows    atomic.Int64
}

// NewCoordinator creates a coordinator over sinks. A zero Threshold falls back to the default.
func NewCoordinator(sinks []repository.Sink, cfg Config, meter metric.Meter, log *zap.Logger) (*Coordinator, error) {
	if len(sinks) == 0 {
		return nil, &domain.ConfigError{Problems: []string{"sinks: at least one sink required"}}
	}
	threshold := cfg.Threshold
	if threshold == 0 {
		threshold = config.DefaultBatchThreshold
	}
	if threshold < 0 {
		return nil, &domain.ConfigError{Problems: []string{fmt.Sprintf("batch_threshold: %d must be > 0", threshold)}}
	}

	inst, err := newInstruments(meter)
	if err != nil {
		return nil, err
	}

	return &Coordinator{
		sinks:     sinks,
		threshold: threshold,
		inst:      inst,
		log:       log,
	}, nil
}

// Begin prepares every sink's tables and starts the background writer
func (c *Coordinator) Begin(ctx context.Context) error {
	if c.started {
		return errors.New("coordinator already started")
	}

	var g errgroup.Group
	for _, s := range c.sinks {
		g.Go(func() error {
			if err := s.InitSchema(ctx); err != nil {
				c.log.Error("Failed to initialize sink schema", zap.String("sink", s.Name()), zap.Error(err))
				return domain.NewSinkError(s.Name(), "init schema", domain.ErrSinkUnavailable, err)
			}
			if err := s.ClearTables(ctx); err != nil {
				c.log.Error("Failed to clear sink tables", zap.String("sink", s.Name()), zap.Error(err))
				return domain.NewSinkError(s.Name(), "clear tables", domain.ErrSinkUnavailable, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	c.queue = make(chan chunk)
	c.group, c.groupCtx = errgroup.WithContext(ctx)
	c.group.Go(func() error { return c.writeLoop(c.groupCtx) })
	c.started = true

	c.log.Info("Persistence pipeline started",
		zap.Int("sinks", len(c.sinks)),
		zap.Int("threshold", c.threshold))
	return nil
}

// Add buffers one day of rows, handing every full buffer to the writer.
// It fails fast once any sink write has failed.
func (c *Coordinator) Add(ctx context.Context, b *domain.DayBatch) error {
	if !c.started || c.closed {
		return errNotStarted
	}
	if c.err != nil {
		return c.err
	}
	// a writer failure stops the run before another day is buffered
	select {
	case <-c.groupCtx.Done():
		c.abort(c.finish())
		return c.err
	default:
	}

	rest := chunkOf(b)
	for rest.rows() > 0 {
		var head chunk
		head, rest = rest.split(c.threshold - c.buf.rows())
		c.buf.absorb(head)

		if c.buf.rows() >= c.threshold {
			if err := c.handoff(ctx); err != nil {
				return err
			}
		}
	}
	return nil
}

func (c *Coordinator) handoff(ctx context.Context) error {
	select {
	case c.queue <- c.buf:
		c.buf = chunk{}
		return nil
	case <-c.groupCtx.Done():
		c.abort(c.finish())
	case <-ctx.Done():
		c.abort(ctx.Err())
	}
	return c.err
}

func (c *Coordinator) abort(err error) {
	if c.err == nil && err != nil {
		c.err = err
	}
}

// Close flushes any partial buffer and waits for every write to finish.
// It returns the first failure of the run.
func (c *Coordinator) Close(ctx context.Context) error {
	if !c.started {
		return errNotStarted
	}

	if !c.closed && c.err == nil && c.buf.rows() > 0 {
		_ = c.handoff(ctx)
	}
	c.abort(c.finish())

	if c.err == nil {
		c.log.Info("Persistence pipeline drained",
			zap.Int64("flushes", c.flushes.Load()),
			zap.Int64("rows", c.rows.Load()))
	}
	return c.err
}

// finish stops the writer once and returns its error
func (c *Coordinator) finish() error {
	if !c.closed {
		c.closed = true
		close(c.queue)
		c.waitErr = c.group.Wait()
	}
	return c.waitErr
}

func (c *Coordinator) writeLoop(ctx context.Context) error {
	for {
		select {
		case ch, ok := <-c.queue:
			if !ok {
				return nil
			}
			if err := c.flush(ctx, ch); err != nil {
				return err
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// flush writes one buffer to every sink in parallel. A failing sink does not interrupt
// the others; the first error is returned.
func (c *Coordinator) flush(ctx context.Context, ch chunk) error {
	n := c.flushes.Add(1)
	c.inst.flushes.Add(ctx, 1)

	var g errgroup.Group
	for _, s := range c.sinks {
		g.Go(func() error {
			start := time.Now()
			err := c.writeSink(ctx, s, ch)
			c.inst.recordFlush(ctx, s.Name(), time.Since(start), err)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	c.rows.Add(int64(ch.rows()))
	c.log.Info("Flush written",
		zap.Int64("flush", n),
		zap.Int("rows", ch.rows()),
		zap.Int("events", len(ch.events)))
	return nil
}

func (c *Coordinator) writeSink(ctx context.Context, s repository.Sink, ch chunk) error {
	steps := []struct {
		table string
		n     int
		write func() error
	}{
		{repository.UsersTable.Name, len(ch.users), func() error { return s.InsertUsers(ctx, ch.users) }},
		{repository.SessionsTable.Name, len(ch.sessions), func() error { return s.InsertSessions(ctx, ch.sessions) }},
		{repository.EventsTable.Name, len(ch.events), func() error { return s.InsertEvents(ctx, ch.events) }},
		{repository.PurchasesTable.Name, len(ch.purchases), func() error { return s.InsertPurchases(ctx, ch.purchases) }},
		{repository.DailyMetricsTable.Name, len(ch.metrics), func() error { return s.InsertDailyMetrics(ctx, ch.metrics) }},
	}

	for _, step := range steps {
		if step.n == 0 {
			continue
		}
		if err := step.write(); err != nil {
			c.log.Error("Sink write failed",
				zap.String("sink", s.Name()),
				zap.String("table", step.table),
				zap.Int("rows", step.n),
				zap.Error(err))
			return domain.NewSinkError(s.Name(), "insert "+step.table, domain.ErrSinkWrite, err)
		}
		c.inst.recordRows(ctx, s.Name(), step.table, step.n)
	}
	return nil
}

// Promote swaps staged rows into the live tables of every sink. Sinks are promoted
// independently; a failure on one leaves the others promoted.
func (c *Coordinator) Promote(ctx context.Context) error {
	if !c.closed || c.err != nil {
		return errors.New("promote requires a successfully closed coordinator")
	}

	var g errgroup.Group
	for _, s := range c.sinks {
		g.Go(func() error {
			if err := s.Promote(ctx); err != nil {
				c.log.Error("Failed to promote sink", zap.String("sink", s.Name()), zap.Error(err))
				return domain.NewSinkError(s.Name(), "promote", domain.ErrSinkWrite, err)
			}
			return nil
		})
	}
	return g.Wait()
}

// Flushes returns the number of flushes issued so far
func (c *Coordinator) Flushes() int {
	return int(c.flushes.Load())
}

// Rows returns the number of rows written to every sink
func (c *Coordinator) Rows() int64 {
	return c.rows.Load()
}
