//go:build darwin

package shell

import (
	"context"
	"strings"

	"github.com/macshift/macshift/internal/domain"
)

const airportPath = "/System/Library/PrivateFrameworks/Apple80211.framework/Versions/Current/Resources/airport"

func (c *Controller) listInterfaces(ctx context.Context) (map[string]domain.MacAddress, error) {
	out, err := c.run.Run(ctx, "ifconfig")
	if err != nil {
		return nil, err
	}
	return parseIfconfig(out), nil
}

func (c *Controller) setAddress(ctx context.Context, name string, addr domain.MacAddress) error {
	target := string(domain.NormalizeMac(string(addr), ":"))

	// Wi-Fi interfaces must disassociate before the ether change sticks.
	// Best effort: airport is gone on recent macOS releases.
	if strings.HasPrefix(name, "en") {
		c.run.Run(ctx, airportPath, "-z")
	}

	return c.runSequence(ctx, [][]string{
		{"ifconfig", name, "down"},
		{"ifconfig", name, "ether", target},
		{"ifconfig", name, "up"},
	})
}

func (c *Controller) restoreAddress(ctx context.Context, name string) error {
	return c.runSequence(ctx, [][]string{
		{"ifconfig", name, "down"},
		{"ifconfig", name, "up"},
	})
}
