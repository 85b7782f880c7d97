// Package scheduler runs named jobs on cron schedules.
package scheduler

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/turtacn/JurisCompare/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/JurisCompare/pkg/errors"
)

// parser accepts standard 5-field expressions and descriptors such as
// "@hourly" or "@every 15m".
var parser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// Job is a scheduled unit of work.  ctx ends when the scheduler stops.
type Job func(ctx context.Context) error

// ParseSchedule validates spec.
func ParseSchedule(spec string) (cron.Schedule, error) {
	sched, err := parser.Parse(strings.TrimSpace(spec))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "invalid cron schedule").WithDetail("schedule=" + spec)
	}
	return sched, nil
}

// Scheduler runs jobs.  Overlapping runs of one job are skipped and panics
// are recovered.
type Scheduler struct {
	cron   *cron.Cron
	logger logging.Logger

	mu     sync.Mutex
	ctx    context.Context
	cancel context.CancelFunc
	jobs   map[string]cron.EntryID
}

// New creates a stopped Scheduler.
func New(logger logging.Logger) *Scheduler {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	logger = logger.Named("scheduler")
	adapter := cronLogger{logger}
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron: cron.New(
			cron.WithParser(parser),
			cron.WithLogger(adapter),
			cron.WithChain(cron.Recover(adapter), cron.SkipIfStillRunning(adapter)),
		),
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
		jobs:   make(map[string]cron.EntryID),
	}
}

// Add registers job under name.  Names are unique.
func (s *Scheduler) Add(name, spec string, job Job) error {
	sched, err := ParseSchedule(spec)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.jobs[name]; ok {
		return errors.Newf(errors.ErrCodeConflict, "job %q already scheduled", name)
	}
	s.jobs[name] = s.cron.Schedule(sched, cron.FuncJob(func() { s.run(name, job) }))
	s.logger.Info("job scheduled", logging.String("job", name), logging.String("schedule", spec))
	return nil
}

func (s *Scheduler) run(name string, job Job) {
	start := time.Now()
	err := job(s.ctx)
	if err != nil {
		s.logger.Error("job failed", logging.String("job", name), logging.Duration("elapsed", time.Since(start)), logging.Err(err))
		return
	}
	s.logger.Debug("job completed", logging.String("job", name), logging.Duration("elapsed", time.Since(start)))
}

// Next returns the next activation of name.
func (s *Scheduler) Next(name string) (time.Time, bool) {
	s.mu.Lock()
	id, ok := s.jobs[name]
	s.mu.Unlock()
	if !ok {
		return time.Time{}, false
	}
	return s.cron.Entry(id).Next, true
}

// Len returns the number of scheduled jobs.
func (s *Scheduler) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.jobs)
}

// Start runs the scheduler in the background until Stop or ctx ends.
func (s *Scheduler) Start(ctx context.Context) {
	s.cron.Start()
	go func() {
		select {
		case <-ctx.Done():
			s.Stop(context.Background())
		case <-s.ctx.Done():
		}
	}()
}

// Stop cancels running jobs' context and waits for them up to ctx.
func (s *Scheduler) Stop(ctx context.Context) {
	s.cancel()
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		s.logger.Warn("scheduler stop timed out")
	}
}

// cronLogger adapts logging.Logger to cron.Logger.
type cronLogger struct {
	l logging.Logger
}

func (c cronLogger) Info(msg string, keysAndValues ...interface{}) {
	c.l.Debug(msg, fields(keysAndValues)...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	c.l.Error(msg, append(fields(keysAndValues), logging.Err(err))...)
}

func fields(kv []interface{}) []logging.Field {
	out := make([]logging.Field, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		out = append(out, logging.Any(fmt.Sprint(kv[i]), kv[i+1]))
	}
	return out
}

//Personal.AI order the ending
