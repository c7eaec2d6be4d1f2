//go:build linux

package shell

import (
	"context"

	"github.com/macshift/macshift/internal/domain"
)

func (c *Controller) listInterfaces(ctx context.Context) (map[string]domain.MacAddress, error) {
	out, err := c.run.Run(ctx, "ip", "link", "show")
	if err == nil {
		if ifaces := parseIPLink(out); len(ifaces) > 0 {
			return ifaces, nil
		}
	}

	// Legacy systems without iproute2.
	out, ferr := c.run.Run(ctx, "ifconfig")
	if ferr != nil {
		if err != nil {
			return nil, err
		}
		return nil, ferr
	}
	return parseIfconfig(out), nil
}

func (c *Controller) setAddress(ctx context.Context, name string, addr domain.MacAddress) error {
	target := string(domain.NormalizeMac(string(addr), ":"))

	err := c.runSequence(ctx, [][]string{
		{"ip", "link", "set", "dev", name, "down"},
		{"ip", "link", "set", "dev", name, "address", target},
		{"ip", "link", "set", "dev", name, "up"},
	})
	if err == nil {
		return nil
	}

	if ferr := c.runSequence(ctx, [][]string{
		{"ifconfig", name, "down"},
		{"ifconfig", name, "hw", "ether", target},
		{"ifconfig", name, "up"},
	}); ferr == nil {
		return nil
	}
	return err
}

// restoreAddress bounces the interface; the driver comes back up with the
// burned-in address when no explicit override was persisted.
func (c *Controller) restoreAddress(ctx context.Context, name string) error {
	err := c.runSequence(ctx, [][]string{
		{"ip", "link", "set", "dev", name, "down"},
		{"ip", "link", "set", "dev", name, "up"},
	})
	if err == nil {
		return nil
	}

	if ferr := c.runSequence(ctx, [][]string{
		{"ifconfig", name, "down"},
		{"ifconfig", name, "up"},
	}); ferr == nil {
		return nil
	}
	return err
}
