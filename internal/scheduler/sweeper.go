// Package scheduler drives periodic notification sweeps aligned to
// quarter-hour wall-clock boundaries.
package scheduler

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/sandeepkv93/taskping/internal/model"
)

// DefaultInterval is the wake cadence. The evaluator's tolerance must be
// at least this long or boundary crossings fall between sweeps.
const DefaultInterval = 15 * time.Minute

var ErrStopped = errors.New("scheduler: stopped")

// SnapshotProvider supplies the tasks worth evaluating: status != done
// and a notification kind other than none.
type SnapshotProvider interface {
	ListActiveNotifiable(ctx context.Context) ([]model.Task, error)
}

// Evaluator is the pure fire decision.
type Evaluator interface {
	Evaluate(task model.Task, now time.Time) (model.FiredNotification, bool)
}

// Dispatcher delivers one fired notification.
type Dispatcher interface {
	Fire(ctx context.Context, n model.FiredNotification, task model.Task) error
}

// Clock abstracts wall time so tests can simulate wake boundaries
// without sleeping.
type Clock interface {
	Now() time.Time
	After(d time.Duration) <-chan time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time                         { return time.Now() }
func (systemClock) After(d time.Duration) <-chan time.Time { return time.After(d) }

type Sweeper struct {
	provider   SnapshotProvider
	eval       Evaluator
	dispatcher Dispatcher
	clock      Clock
	log        logrus.FieldLogger
	interval   time.Duration

	out     chan model.FiredNotification
	dropped uint64

	sweepMu sync.Mutex // serializes the periodic loop against CheckNow

	mu      sync.Mutex
	started bool
	stopped bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

func NewSweeper(provider SnapshotProvider, eval Evaluator, dispatcher Dispatcher, log logrus.FieldLogger) *Sweeper {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Sweeper{
		provider:   provider,
		eval:       eval,
		dispatcher: dispatcher,
		clock:      systemClock{},
		log:        log,
		interval:   DefaultInterval,
		out:        make(chan model.FiredNotification, 16),
		stopCh:     make(chan struct{}),
		doneCh:     make(chan struct{}),
	}
}

// WithClock replaces the wall clock. Must be called before Start.
func (s *Sweeper) WithClock(clock Clock) *Sweeper {
	s.clock = clock
	return s
}

// WithInterval replaces the wake cadence. Must be called before Start.
func (s *Sweeper) WithInterval(interval time.Duration) *Sweeper {
	if interval > 0 {
		s.interval = interval
	}
	return s
}

// Interval reports the configured wake cadence.
func (s *Sweeper) Interval() time.Duration {
	return s.interval
}

// C streams fired notifications to an observer (the TUI). Emission is
// non-blocking; a slow observer loses events, never delivery.
func (s *Sweeper) C() <-chan model.FiredNotification {
	return s.out
}

// Dropped reports how many observer events were discarded.
func (s *Sweeper) Dropped() uint64 {
	return atomic.LoadUint64(&s.dropped)
}

func (s *Sweeper) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return
	}
	s.started = true
	go s.loop()
}

func (s *Sweeper) Stop() {
	s.mu.Lock()
	if !s.started || s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	close(s.stopCh)
	s.mu.Unlock()
	<-s.doneCh

	// emit checks stopped under mu, so once this close runs no
	// in-flight sweep can send on out.
	s.mu.Lock()
	close(s.out)
	s.mu.Unlock()
}

// CheckNow runs exactly one sweep on demand and returns what fired. It
// shares the periodic code path and serializes against it, so a manual
// check can never double-fire a boundary.
func (s *Sweeper) CheckNow(ctx context.Context) ([]model.FiredNotification, error) {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return nil, ErrStopped
	}
	s.mu.Unlock()
	return s.sweep(ctx)
}

func (s *Sweeper) loop() {
	defer close(s.doneCh)

	// Converge on quarter-hour boundaries regardless of process start
	// time, then sweep immediately at the first boundary.
	initial := DelayToNextBoundary(s.clock.Now(), s.interval)
	s.log.WithField("delay", initial.String()).Info("scheduler waiting for first boundary")

	select {
	case <-s.clock.After(initial):
	case <-s.stopCh:
		return
	}

	for {
		if _, err := s.sweep(context.Background()); err != nil {
			s.log.WithError(err).Error("notification sweep failed")
		}
		select {
		case <-s.clock.After(s.interval):
		case <-s.stopCh:
			return
		}
	}
}

// sweep evaluates every active task once. Per-task failures are logged
// and skipped; only a snapshot failure aborts the sweep.
func (s *Sweeper) sweep(ctx context.Context) ([]model.FiredNotification, error) {
	s.sweepMu.Lock()
	defer s.sweepMu.Unlock()

	tasks, err := s.provider.ListActiveNotifiable(ctx)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	fired := make([]model.FiredNotification, 0)
	for _, task := range tasks {
		n, ok := s.eval.Evaluate(task, now)
		if !ok {
			continue
		}
		fired = append(fired, n)
		if err := s.dispatcher.Fire(ctx, n, task); err != nil {
			s.log.WithField("task", task.ID).WithError(err).Warn("notification delivery failed")
		}
		s.emit(n)
	}

	if len(fired) > 0 {
		s.log.WithField("count", len(fired)).Info("sweep fired notifications")
	}
	return fired, nil
}

func (s *Sweeper) emit(n model.FiredNotification) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		atomic.AddUint64(&s.dropped, 1)
		return
	}
	select {
	case s.out <- n:
	default:
		atomic.AddUint64(&s.dropped, 1)
	}
}

// DelayToNextBoundary computes how long to sleep until the next
// wall-clock boundary of the given interval within the hour (:00, :15,
// :30, :45 for the default cadence).
func DelayToNextBoundary(now time.Time, interval time.Duration) time.Duration {
	intervalMin := int(interval / time.Minute)
	if intervalMin <= 0 || 60%intervalMin != 0 {
		return interval
	}
	minute := now.Minute()
	wait := intervalMin - minute%intervalMin
	next := time.Date(now.Year(), now.Month(), now.Day(), now.Hour(), minute, 0, 0, now.Location()).
		Add(time.Duration(wait) * time.Minute)
	return next.Sub(now)
}
