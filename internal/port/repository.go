package port

import "github.com/macshift/macshift/internal/domain"

// ConfigRepository persists the schedule configuration.
type ConfigRepository interface {
	// Load returns the persisted config merged over defaults. It fails
	// soft: unreadable or corrupt state yields the all-defaults config.
	Load() domain.ScheduleConfig

	// Save persists the full config. A concurrent Load must never
	// observe a half-written file.
	Save(cfg domain.ScheduleConfig) error
}

// EventRecorder appends rotation events to a process-wide sink. Recording
// must not fail the caller; sink errors are the sink's problem.
type EventRecorder interface {
	Record(event domain.RotationEvent)
}
