package schedule

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/marketbrief/marketbrief/internal/store"
)

// Runner executes one day's work for a task kind.
type Runner interface {
	Run(ctx context.Context, taskKind string, day time.Time) error
}

// RunnerFunc is a function adapter for Runner.
type RunnerFunc func(ctx context.Context, taskKind string, day time.Time) error

func (f RunnerFunc) Run(ctx context.Context, taskKind string, day time.Time) error {
	return f(ctx, taskKind, day)
}

// Task is one daily trigger window.
type Task struct {
	Kind      string        // Unique task kind
	Hour      int           // Local fire hour
	Minute    int           // Local fire minute
	Tolerance time.Duration // Window width past the fire time
}

// NewTask parses an "HH:MM" local fire time into a Task.
func NewTask(kind, at string, tolerance time.Duration) (Task, error) {
	t, err := time.Parse("15:04", at)
	if err != nil {
		return Task{}, fmt.Errorf("task %s: parse fire time %q: %w", kind, at, err)
	}
	return Task{
		Kind:      kind,
		Hour:      t.Hour(),
		Minute:    t.Minute(),
		Tolerance: tolerance,
	}, nil
}

// Config holds scheduler configuration.
type Config struct {
	PollInterval time.Duration  // Tick interval (default: 1m)
	Zone         *time.Location // Local timezone for trigger windows
	Tasks        []Task
}

// Scheduler drives all daily tasks from a single polling loop.
type Scheduler struct {
	cfg     Config
	markers store.MarkerStore
	runner  Runner
	logger  *slog.Logger

	now func() time.Time

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a Scheduler.
func New(cfg Config, markers store.MarkerStore, runner Runner, logger *slog.Logger) *Scheduler {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = time.Minute
	}
	if cfg.Zone == nil {
		cfg.Zone = time.UTC
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		cfg:     cfg,
		markers: markers,
		runner:  runner,
		logger:  logger,
		now:     time.Now,
	}
}

// Start begins the polling loop.
func (s *Scheduler) Start(ctx context.Context) error {
	s.ctx, s.cancel = context.WithCancel(ctx)

	s.wg.Add(1)
	go s.run()

	s.logger.Info("scheduler started",
		"poll_interval", s.cfg.PollInterval,
		"tasks", len(s.cfg.Tasks),
		"zone", s.cfg.Zone.String(),
	)

	return nil
}

// Stop gracefully shuts down the scheduler, waiting for an in-flight task.
func (s *Scheduler) Stop(ctx context.Context) error {
	if s.cancel != nil {
		s.cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("scheduler stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// run is the main polling loop.
func (s *Scheduler) run() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.cfg.PollInterval)
	defer ticker.Stop()

	// Tick immediately on start so a restart inside a window still fires.
	s.tick()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			s.tick()
		}
	}
}

// tick checks every task's window against the current local time.
func (s *Scheduler) tick() {
	now := s.now().In(s.cfg.Zone)

	for _, task := range s.cfg.Tasks {
		window := triggerWindow(task, now)
		if now.Before(window.start) || !now.Before(window.end) {
			continue
		}
		s.fire(task, now)
	}
}

type window struct {
	start, end time.Time
}

// triggerWindow computes the task's window for now's calendar day.
func triggerWindow(task Task, now time.Time) window {
	start := time.Date(now.Year(), now.Month(), now.Day(), task.Hour, task.Minute, 0, 0, now.Location())
	return window{start: start, end: start.Add(task.Tolerance)}
}

// fire runs one task for today unless its marker is already committed.
// The marker is committed before the runner starts.
func (s *Scheduler) fire(task Task, now time.Time) {
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	committed, err := s.markers.Exists(s.ctx, task.Kind, day)
	if err != nil {
		s.logger.Error("marker check failed, will retry next tick",
			"task", task.Kind,
			"day", store.DateKey(day),
			"err", err,
		)
		return
	}
	if committed {
		s.logger.Debug("task already fired today",
			"task", task.Kind,
			"day", store.DateKey(day),
		)
		return
	}

	if err := s.markers.Commit(s.ctx, task.Kind, day); err != nil {
		s.logger.Error("marker commit failed, will retry next tick",
			"task", task.Kind,
			"day", store.DateKey(day),
			"err", err,
		)
		return
	}

	start := time.Now()
	s.logger.Info("task fired",
		"task", task.Kind,
		"day", store.DateKey(day),
	)

	// A failed day is not retried: the marker stays committed.
	if err := s.runner.Run(s.ctx, task.Kind, day); err != nil {
		s.logger.Error("task run failed, day will not be retried",
			"task", task.Kind,
			"day", store.DateKey(day),
			"err", err,
		)
		return
	}

	s.logger.Info("task complete",
		"task", task.Kind,
		"day", store.DateKey(day),
		"duration", time.Since(start),
	)
}
