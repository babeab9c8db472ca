package scheduler

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"upperroom/pkg/logger"
)

// Job is a unit of work fired by a trigger. Jobs are idempotent by design
// and tolerate partial downstream failure; a returned error is logged, never
// retried or propagated.
type Job func(ctx context.Context) error

// Scheduler owns the process-wide set of named daily triggers, all evaluated
// in one fixed timezone so firing times do not drift with the host clock's
// locale.
type Scheduler struct {
	mu sync.Mutex

	log        *logger.Logger
	loc        *time.Location
	jobTimeout time.Duration

	parser  cron.Parser
	c       *cron.Cron
	entries map[string]cron.EntryID
	started bool
}

func New(loc *time.Location, jobTimeout time.Duration, log *logger.Logger) *Scheduler {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	return &Scheduler{
		log:        log,
		loc:        loc,
		jobTimeout: jobTimeout,
		parser:     parser,
		c:          cron.New(cron.WithParser(parser), cron.WithLocation(loc)),
		entries:    map[string]cron.EntryID{},
	}
}

// RegisterDaily installs a trigger firing every day at atHHMM in the
// scheduler's timezone. Registering an existing name replaces the prior
// trigger; this is how configuration reload swaps firing times without a
// restart.
func (s *Scheduler) RegisterDaily(name, atHHMM string, job Job) error {
	hour, minute, err := parseHHMM(atHHMM)
	if err != nil {
		return err
	}
	spec := fmt.Sprintf("%d %d * * *", minute, hour)

	s.mu.Lock()
	defer s.mu.Unlock()

	if prior, ok := s.entries[name]; ok {
		s.c.Remove(prior)
		s.log.Info("Replacing scheduler trigger", "trigger", name)
	}

	id, err := s.c.AddFunc(spec, func() {
		s.fire(name, job)
	})
	if err != nil {
		return fmt.Errorf("failed to register trigger %q: %w", name, err)
	}
	s.entries[name] = id

	s.log.Info("Scheduler trigger registered",
		"trigger", name,
		"at", atHHMM,
		"tz", s.loc.String(),
	)
	return nil
}

// Start begins the timer loop. Calling it again on a running scheduler is a
// no-op.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return
	}
	s.started = true
	s.c.Start()
	s.log.Info("Scheduler started", "triggers", len(s.entries), "tz", s.loc.String())
}

// Stop halts the timer loop. In-flight jobs get a bounded grace period; the
// scheduler does not wait for them beyond that.
func (s *Scheduler) Stop(drainTimeout time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return
	}
	s.started = false

	done := s.c.Stop().Done()
	select {
	case <-done:
	case <-time.After(drainTimeout):
		s.log.Warn("Scheduler stopped with jobs still in flight")
	}
	s.log.Info("Scheduler stopped")
}

// Triggers returns the registered trigger names. Used at startup logging and
// in tests.
func (s *Scheduler) Triggers() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.entries))
	for name := range s.entries {
		names = append(names, name)
	}
	return names
}

func (s *Scheduler) fire(name string, job Job) {
	start := time.Now()
	ctx, cancel := context.WithTimeout(context.Background(), s.jobTimeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			s.log.Error("Scheduler job panicked", "trigger", name, "panic", r)
		}
	}()

	s.log.Info("Scheduler trigger fired", "trigger", name)
	if err := job(ctx); err != nil {
		s.log.Error("Scheduler job failed",
			"trigger", name,
			"error", err,
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return
	}
	s.log.Info("Scheduler job completed",
		"trigger", name,
		"duration_ms", time.Since(start).Milliseconds(),
	)
}

func parseHHMM(s string) (hour, minute int, err error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid time %q, expected HH:MM", s)
	}
	hour, err = strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("invalid hour in %q", s)
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("invalid minute in %q", s)
	}
	return hour, minute, nil
}
