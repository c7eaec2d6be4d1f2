package port

import (
	"context"

	"github.com/macshift/macshift/internal/domain"
)

// InterfaceController abstracts the OS-specific tooling that inspects and
// mutates network interfaces. The scheduler never sees command syntax; any
// implementation of this contract is interchangeable.
type InterfaceController interface {
	// ListInterfaces returns interface name -> current MAC address.
	ListInterfaces(ctx context.Context) (map[string]domain.MacAddress, error)

	// CurrentAddress returns the current MAC address of one interface,
	// or domain.ErrInterfaceNotFound.
	CurrentAddress(ctx context.Context, name string) (domain.MacAddress, error)

	// SetAddress attempts to change the interface's MAC address. The OS
	// may silently refuse (vendor/driver limits); a nil return only means
	// the commands succeeded.
	SetAddress(ctx context.Context, name string, addr domain.MacAddress) error

	// Elevated reports whether the process has the privileges needed to
	// change interface addresses.
	Elevated() bool
}
