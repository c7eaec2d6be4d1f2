package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors surfaced by the scheduler's control operations.
var (
	// ErrAlreadyRunning is returned by Start when a loop is already active.
	ErrAlreadyRunning = errors.New("scheduler already running")

	// ErrNotRunning is returned by Stop when no loop is active.
	ErrNotRunning = errors.New("scheduler not running")

	// ErrDisabled is returned by Start when the config has rotation
	// switched off.
	ErrDisabled = errors.New("rotation disabled in config")

	// ErrPrivilegeRequired is returned by Start when the process lacks
	// the rights to change interface addresses.
	ErrPrivilegeRequired = errors.New("administrator or root privileges required")

	// ErrInterfaceNotFound is returned when the named adapter is not
	// among the enumerable interfaces.
	ErrInterfaceNotFound = errors.New("network interface not found")
)

// ValidationError rejects a malformed address or config edit. It is
// returned before any state is mutated, so the config stays unchanged.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Msg
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Msg)
}

// ControllerError records a failed OS-level interface operation.
// Use errors.As to extract the operation and interface from wrapped errors.
type ControllerError struct {
	Op        string // "list", "get", "set"
	Interface string
	Err       error
}

func (e *ControllerError) Error() string {
	if e.Interface == "" {
		return fmt.Sprintf("interface controller %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("interface controller %s %q: %v", e.Op, e.Interface, e.Err)
}

// Unwrap returns the underlying error.
func (e *ControllerError) Unwrap() error {
	return e.Err
}
