package rotation

import (
	"context"
	"fmt"
	"log"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/macshift/macshift/internal/domain"
	"github.com/macshift/macshift/internal/port"
)

const (
	// stopGrace bounds how long Stop waits for the loop to exit. The
	// loop's sleep is interruptible, so in practice it exits well under
	// a second; the grace period only matters when a controller call
	// is wedged.
	stopGrace = 5 * time.Second

	// errorBackoff is the fixed delay after an unclassified loop error.
	errorBackoff = 60 * time.Second
)

// Scheduler runs the rotation control loop: it decides when to rotate,
// what address to rotate to, and records every outcome. One instance owns
// at most one background goroutine; Start, Stop, Status and UpdateConfig
// are safe to call from any goroutine.
type Scheduler struct {
	controller port.InterfaceController
	events     port.EventRecorder

	mu      sync.Mutex
	cfg     domain.ScheduleConfig
	running bool
	cancel  context.CancelFunc
	done    chan struct{}

	// seams for tests
	now      func() time.Time
	interval func(domain.ScheduleConfig) time.Duration
	backoff  time.Duration
	grace    time.Duration
}

func NewScheduler(controller port.InterfaceController, events port.EventRecorder) *Scheduler {
	return &Scheduler{
		controller: controller,
		events:     events,
		now:        time.Now,
		interval: func(cfg domain.ScheduleConfig) time.Duration {
			return cfg.NextInterval()
		},
		backoff: errorBackoff,
		grace:   stopGrace,
	}
}

// Start begins the rotation loop on its own goroutine and returns
// immediately; it does not block for the first rotation. Pre-flight
// checks reject a second concurrent loop, a config violating an
// invariant, a disabled config, a process without privileges, and an
// interface that cannot be enumerated. The validation here is what keeps
// a bad interval range out of the loop's interval draw. Privileges are
// checked once; a later loss surfaces as per-rotation failures instead.
func (s *Scheduler) Start(cfg domain.ScheduleConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return domain.ErrAlreadyRunning
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if !cfg.Enabled {
		return domain.ErrDisabled
	}
	if !s.controller.Elevated() {
		return domain.ErrPrivilegeRequired
	}
	ifaces, err := s.controller.ListInterfaces(context.Background())
	if err != nil {
		return err
	}
	if _, ok := ifaces[cfg.Interface]; !ok {
		return fmt.Errorf("%w: %q", domain.ErrInterfaceNotFound, cfg.Interface)
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cfg = cfg
	s.running = true
	s.cancel = cancel
	s.done = make(chan struct{})
	go s.run(ctx, s.done)
	log.Printf("scheduler: started for interface %q", cfg.Interface)
	return nil
}

// Stop requests the loop to exit and waits up to the grace period. The
// loop never performs a final rotation after a stop request. Stop returns
// nil even when the grace period elapses; the loop exits on its own as
// soon as its current controller call returns.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return domain.ErrNotRunning
	}
	cancel := s.cancel
	done := s.done
	s.mu.Unlock()

	cancel()
	select {
	case <-done:
	case <-time.After(s.grace):
		log.Printf("scheduler: loop did not exit within %s", s.grace)
	}
	return nil
}

// Status reports whether the loop is running and the config it runs with.
func (s *Scheduler) Status() (bool, domain.ScheduleConfig) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running, s.cfg
}

// UpdateConfig swaps the config snapshot the loop reads at the top of
// each iteration. It never starts or stops the loop.
func (s *Scheduler) UpdateConfig(cfg domain.ScheduleConfig) {
	s.mu.Lock()
	s.cfg = cfg
	s.mu.Unlock()
}

func (s *Scheduler) snapshot() domain.ScheduleConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg
}

func (s *Scheduler) run(ctx context.Context, done chan struct{}) {
	defer func() {
		s.mu.Lock()
		if s.done == done {
			s.running = false
			s.cancel = nil
		}
		s.mu.Unlock()
		close(done)
		log.Printf("scheduler: loop stopped")
	}()

	for {
		if !sleep(ctx, s.interval(s.snapshot())) {
			return
		}
		for {
			cfg := s.snapshot()
			err := s.iterate(ctx, cfg)
			if err == nil {
				break
			}
			log.Printf("scheduler: iteration on %q: %v, backing off %s", cfg.Interface, err, s.backoff)
			if !sleep(ctx, s.backoff) {
				return
			}
		}
	}
}

// iterate performs one rotation attempt. A panicking controller is
// contained here: availability of the loop takes priority over surfacing
// transient errors.
func (s *Scheduler) iterate(ctx context.Context, cfg domain.ScheduleConfig) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("rotation panic: %v", r)
		}
	}()
	s.rotateOnce(ctx, cfg)
	return nil
}

func (s *Scheduler) rotateOnce(ctx context.Context, cfg domain.ScheduleConfig) {
	now := s.now()
	if !cfg.InWindow(now) {
		s.events.Record(domain.NewRotationEvent(now, cfg.Interface, "", "",
			domain.OutcomeSkippedOutOfWindow,
			fmt.Sprintf("outside active window %s-%s", cfg.WindowStart, cfg.WindowEnd)))
		return
	}

	target := pickTarget(cfg)
	previous := domain.UnknownAddress
	if addr, err := s.controller.CurrentAddress(ctx, cfg.Interface); err == nil {
		previous = addr
	} else {
		log.Printf("scheduler: read current address of %q: %v", cfg.Interface, err)
	}

	if err := s.controller.SetAddress(ctx, cfg.Interface, target); err != nil {
		// Retried on the next scheduled tick, never immediately.
		log.Printf("scheduler: set %q to %s: %v", cfg.Interface, target, err)
		s.events.Record(domain.NewRotationEvent(now, cfg.Interface, previous, target,
			domain.OutcomeFailure, err.Error()))
		return
	}
	s.events.Record(domain.NewRotationEvent(now, cfg.Interface, previous, target,
		domain.OutcomeSuccess, ""))
}

func pickTarget(cfg domain.ScheduleConfig) domain.MacAddress {
	if cfg.AddressSource == domain.SourceCustomList && len(cfg.CustomAddresses) > 0 {
		return cfg.CustomAddresses[rand.IntN(len(cfg.CustomAddresses))]
	}
	return domain.RandomMac()
}

// sleep waits for d or until the context is cancelled. Returns false on
// cancellation so the loop can exit without a final rotation.
func sleep(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
