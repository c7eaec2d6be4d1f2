package rotation

import (
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/macshift/macshift/internal/domain"
	"github.com/macshift/macshift/internal/port"
)

// Control coordinates the persisted schedule config with the scheduler's
// lifecycle. It owns the authoritative in-memory config; every accepted
// edit is persisted and pushed to the scheduler for its next iteration.
type Control struct {
	sched *Scheduler
	repo  port.ConfigRepository

	mu  sync.Mutex
	cfg domain.ScheduleConfig
}

func NewControl(sched *Scheduler, repo port.ConfigRepository) *Control {
	c := &Control{sched: sched, repo: repo}
	cfg := repo.Load()
	if err := cfg.Validate(); err != nil {
		log.Printf("control: persisted config invalid, using defaults: %v", err)
		cfg = domain.DefaultScheduleConfig()
	}
	c.cfg = cfg
	c.sched.UpdateConfig(c.cfg)
	return c
}

// ConfigEdits holds field-level changes to the schedule config. Nil
// fields are left untouched.
type ConfigEdits struct {
	Interface            *string
	Mode                 *domain.RotationMode
	FixedIntervalMinutes *int
	RandomMinMinutes     *int
	RandomMaxMinutes     *int
	AddressSource        *domain.AddressSource
	CustomAddresses      []domain.MacAddress
	WindowStart          *string
	WindowEnd            *string
	Enabled              *bool
}

// Configure applies the edits to a copy of the current config, validates
// it, then swaps it in, persists it and hands it to the scheduler. An
// edit that violates an invariant is rejected with a ValidationError and
// neither the in-memory nor the persisted config changes.
func (c *Control) Configure(edits ConfigEdits) (domain.ScheduleConfig, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	next := c.cfg
	if edits.Interface != nil {
		next.Interface = *edits.Interface
	}
	if edits.Mode != nil {
		next.Mode = *edits.Mode
	}
	if edits.FixedIntervalMinutes != nil {
		next.FixedIntervalMinutes = *edits.FixedIntervalMinutes
	}
	if edits.RandomMinMinutes != nil {
		next.RandomMinMinutes = *edits.RandomMinMinutes
	}
	if edits.RandomMaxMinutes != nil {
		next.RandomMaxMinutes = *edits.RandomMaxMinutes
	}
	if edits.AddressSource != nil {
		next.AddressSource = *edits.AddressSource
	}
	if edits.CustomAddresses != nil {
		next.CustomAddresses = append([]domain.MacAddress(nil), edits.CustomAddresses...)
	}
	if edits.WindowStart != nil {
		next.WindowStart = *edits.WindowStart
	}
	if edits.WindowEnd != nil {
		next.WindowEnd = *edits.WindowEnd
	}
	if edits.Enabled != nil {
		next.Enabled = *edits.Enabled
	}

	if err := next.Validate(); err != nil {
		return c.cfg, err
	}

	c.cfg = next
	if err := c.repo.Save(next); err != nil {
		// In-memory config stays authoritative for this process.
		log.Printf("control: save schedule config: %v", err)
	}
	c.sched.UpdateConfig(next)
	return next, nil
}

// Config returns the current in-memory config.
func (c *Control) Config() domain.ScheduleConfig {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cfg
}

// Start launches the rotation loop with the current config.
func (c *Control) Start() error {
	return c.sched.Start(c.Config())
}

// Stop halts the rotation loop.
func (c *Control) Stop() error {
	return c.sched.Stop()
}

// Snapshot combines the scheduler's run state with the current config.
type Snapshot struct {
	Running bool
	Config  domain.ScheduleConfig
}

// Status returns a read-only snapshot.
func (c *Control) Status() Snapshot {
	running, _ := c.sched.Status()
	return Snapshot{Running: running, Config: c.Config()}
}

// StatusText renders the snapshot for humans.
func (c *Control) StatusText() string {
	s := c.Status()
	state := "stopped"
	if s.Running {
		state = "running"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "scheduler: %s\n", state)
	fmt.Fprintf(&b, "interface: %s\n", s.Config.Interface)
	switch s.Config.Mode {
	case domain.ModeFixedInterval:
		fmt.Fprintf(&b, "rotation: every %d minutes\n", s.Config.FixedIntervalMinutes)
	case domain.ModeRandomRange:
		fmt.Fprintf(&b, "rotation: every %d-%d minutes (random)\n", s.Config.RandomMinMinutes, s.Config.RandomMaxMinutes)
	}
	switch s.Config.AddressSource {
	case domain.SourceCustomList:
		fmt.Fprintf(&b, "addresses: custom list (%d entries)\n", len(s.Config.CustomAddresses))
	default:
		fmt.Fprintf(&b, "addresses: random locally administered\n")
	}
	fmt.Fprintf(&b, "active window: %s-%s\n", s.Config.WindowStart, s.Config.WindowEnd)
	fmt.Fprintf(&b, "enabled: %v\n", s.Config.Enabled)
	return b.String()
}

// Reload re-reads the persisted config, picking up edits made by another
// process. An invalid file is ignored; the new config applies from the
// scheduler's next iteration and never starts or stops the loop.
func (c *Control) Reload() {
	cfg := c.repo.Load()
	if err := cfg.Validate(); err != nil {
		log.Printf("control: reloaded config invalid, keeping current: %v", err)
		return
	}
	c.mu.Lock()
	c.cfg = cfg
	c.mu.Unlock()
	c.sched.UpdateConfig(cfg)
	log.Printf("control: schedule config reloaded")
}
