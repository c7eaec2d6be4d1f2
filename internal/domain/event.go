package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// RotationOutcome classifies one rotation attempt.
type RotationOutcome string

const (
	OutcomeSuccess            RotationOutcome = "success"
	OutcomeFailure            RotationOutcome = "failure"
	OutcomeSkippedOutOfWindow RotationOutcome = "skipped-out-of-window"
)

// UnknownAddress is recorded as the previous address when the interface's
// current MAC could not be read.
const UnknownAddress MacAddress = "unknown"

// RotationEvent is one record of the append-only rotation log. The
// scheduler writes these for observability and never reads them back.
type RotationEvent struct {
	ID        string
	Timestamp time.Time
	Interface string
	Previous  MacAddress
	Target    MacAddress
	Outcome   RotationOutcome
	Detail    string
}

// NewRotationEvent stamps a fresh event with a unique ID.
func NewRotationEvent(ts time.Time, iface string, previous, target MacAddress, outcome RotationOutcome, detail string) RotationEvent {
	return RotationEvent{
		ID:        uuid.New().String(),
		Timestamp: ts,
		Interface: iface,
		Previous:  previous,
		Target:    target,
		Outcome:   outcome,
		Detail:    detail,
	}
}

// String renders the event as one human-readable timestamped log line.
func (e RotationEvent) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s rotation=%s interface=%q", e.Timestamp.Format(time.RFC3339), e.ID, e.Interface)
	if e.Previous != "" {
		fmt.Fprintf(&b, " previous=%s", e.Previous)
	}
	if e.Target != "" {
		fmt.Fprintf(&b, " target=%s", e.Target)
	}
	fmt.Fprintf(&b, " outcome=%s", e.Outcome)
	if e.Detail != "" {
		fmt.Fprintf(&b, " detail=%q", e.Detail)
	}
	return b.String()
}
