package scheduler

import (
	"sync"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/i474232898/weather-watchface/internal/logging"
)

const (
	everySecond = "* * * * * *"
	everyMinute = "0 * * * * *"
)

// TickFunc receives each tick.
type TickFunc func(at time.Time)

// Scheduler delivers clock ticks aligned to wall-clock seconds or minutes.
// The resolution can be switched at any time; the running job is replaced.
type Scheduler struct {
	scheduler *gocron.Scheduler
	onTick    TickFunc

	mu         sync.Mutex
	job        *gocron.Job
	resolution time.Duration
}

// New creates a Scheduler that starts with per-minute ticks in loc.
func New(loc *time.Location, onTick TickFunc) *Scheduler {
	s := gocron.NewScheduler(loc)
	s.SingletonModeAll()
	return &Scheduler{
		scheduler:  s,
		onTick:     onTick,
		resolution: time.Minute,
	}
}

// Start schedules the tick job and starts the underlying scheduler.
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.scheduleLocked(s.resolution); err != nil {
		return err
	}
	s.scheduler.StartAsync()
	return nil
}

// SetResolution switches between per-second and per-minute ticks. Anything
// below a minute means per-second ticks.
func (s *Scheduler) SetResolution(d time.Duration) {
	if d < time.Minute {
		d = time.Second
	} else {
		d = time.Minute
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if d == s.resolution && s.job != nil {
		return
	}
	if err := s.scheduleLocked(d); err != nil {
		logging.Error("scheduler: failed to switch tick resolution", "resolution", d, "err", err)
	}
}

// Resolution returns the current tick resolution.
func (s *Scheduler) Resolution() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resolution
}

func (s *Scheduler) scheduleLocked(d time.Duration) error {
	expr := everyMinute
	if d == time.Second {
		expr = everySecond
	}

	job, err := s.scheduler.CronWithSeconds(expr).Do(func() {
		s.onTick(time.Now())
	})
	if err != nil {
		return err
	}

	if s.job != nil {
		s.scheduler.RemoveByReference(s.job)
	}
	s.job = job
	s.resolution = d
	logging.Debug("scheduler: tick resolution set", "resolution", d)
	return nil
}

// Stop stops the scheduler and cancels any future ticks.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
