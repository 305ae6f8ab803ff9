package dashboard

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
)

// DefaultInterval is the refresh period of the dashboard.
const DefaultInterval = time.Second

// Scheduler drives Dashboard.Tick on a fixed interval while running. A
// symbol change tears the timer down and starts a fresh one, so the next
// tick comes one full interval after the change.
type Scheduler struct {
	dash     *Dashboard
	interval time.Duration
	restart  chan struct{}
	active   atomic.Bool
	restarts atomic.Uint64

	mu        sync.RWMutex
	listeners []func(Snapshot)
}

// NewScheduler creates a scheduler for d and subscribes it to symbol changes.
func NewScheduler(d *Dashboard, interval time.Duration) *Scheduler {
	if interval <= 0 {
		interval = DefaultInterval
	}
	s := &Scheduler{
		dash:     d,
		interval: interval,
		restart:  make(chan struct{}, 1),
	}
	d.OnSelect(func(string) { s.Restart() })
	return s
}

// OnTick registers fn to receive every post-tick snapshot. Listeners run in
// registration order on the scheduler goroutine.
func (s *Scheduler) OnTick(fn func(Snapshot)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Restart asks the running loop to replace its timer. Requests made while
// one is already pending collapse into it.
func (s *Scheduler) Restart() {
	select {
	case s.restart <- struct{}{}:
	default:
	}
}

// Active reports whether the timer is running.
func (s *Scheduler) Active() bool {
	return s.active.Load()
}

// Restarts returns how many times the timer has been replaced.
func (s *Scheduler) Restarts() uint64 {
	return s.restarts.Load()
}

// Interval returns the tick period.
func (s *Scheduler) Interval() time.Duration {
	return s.interval
}

// Run ticks the dashboard until ctx is cancelled. Only this goroutine calls
// Tick, so ticks never overlap.
func (s *Scheduler) Run(ctx context.Context) {
	s.active.Store(true)
	defer s.active.Store(false)

	ticker := time.NewTicker(s.interval)
	defer func() { ticker.Stop() }()

	log.Info().Dur("interval", s.interval).Str("symbol", s.dash.Symbol()).Msg("dashboard timer started")

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("dashboard timer stopped")
			return
		case <-s.restart:
			ticker.Stop()
			ticker = time.NewTicker(s.interval)
			s.restarts.Add(1)
			log.Debug().Str("symbol", s.dash.Symbol()).Msg("dashboard timer restarted")
		case <-ticker.C:
			s.emit(s.dash.Tick())
		}
	}
}

func (s *Scheduler) emit(snap Snapshot) {
	s.mu.RLock()
	listeners := append([]func(Snapshot){}, s.listeners...)
	s.mu.RUnlock()
	for _, fn := range listeners {
		fn(snap)
	}
}
