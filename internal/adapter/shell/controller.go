package shell

import (
	"context"
	"fmt"

	"github.com/macshift/macshift/internal/domain"
)

// Controller implements the InterfaceController port by shelling out to
// the platform's network tooling (ip/ifconfig on Linux, ifconfig on macOS,
// PowerShell on Windows). The command sequences are selected per platform
// at build time; parsing is shared.
type Controller struct {
	run Runner
}

func NewController() *Controller {
	return &Controller{run: execRunner{}}
}

// NewControllerWithRunner injects a Runner, for tests.
func NewControllerWithRunner(r Runner) *Controller {
	return &Controller{run: r}
}

// ListInterfaces returns interface name -> current MAC address.
func (c *Controller) ListInterfaces(ctx context.Context) (map[string]domain.MacAddress, error) {
	ifaces, err := c.listInterfaces(ctx)
	if err != nil {
		return nil, &domain.ControllerError{Op: "list", Err: err}
	}
	return ifaces, nil
}

// CurrentAddress returns the current MAC address of one interface.
func (c *Controller) CurrentAddress(ctx context.Context, name string) (domain.MacAddress, error) {
	ifaces, err := c.listInterfaces(ctx)
	if err != nil {
		return "", &domain.ControllerError{Op: "get", Interface: name, Err: err}
	}
	addr, ok := ifaces[name]
	if !ok {
		return "", fmt.Errorf("%w: %q", domain.ErrInterfaceNotFound, name)
	}
	return addr, nil
}

// SetAddress attempts to change the interface's MAC address.
func (c *Controller) SetAddress(ctx context.Context, name string, addr domain.MacAddress) error {
	if !domain.ValidMac(string(addr)) {
		return &domain.ValidationError{Field: "address", Msg: fmt.Sprintf("invalid MAC address %q", addr)}
	}
	if err := c.setAddress(ctx, name, addr); err != nil {
		return &domain.ControllerError{Op: "set", Interface: name, Err: err}
	}
	return nil
}

// RestoreAddress reverts the interface to its burned-in MAC address by
// clearing any override and bouncing the interface. Some drivers only
// revert after an adapter restart or reboot; a nil return means the
// commands succeeded, not that the hardware address is back.
func (c *Controller) RestoreAddress(ctx context.Context, name string) error {
	if err := c.restoreAddress(ctx, name); err != nil {
		return &domain.ControllerError{Op: "restore", Interface: name, Err: err}
	}
	return nil
}

// Elevated reports whether the process can change interface addresses.
func (c *Controller) Elevated() bool {
	return elevated()
}

// runSequence executes commands in order, stopping at the first failure.
func (c *Controller) runSequence(ctx context.Context, cmds [][]string) error {
	for _, cmd := range cmds {
		if _, err := c.run.Run(ctx, cmd[0], cmd[1:]...); err != nil {
			return err
		}
	}
	return nil
}
