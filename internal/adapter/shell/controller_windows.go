//go:build windows

package shell

import (
	"context"
	"fmt"

	"golang.org/x/sys/windows"

	"github.com/macshift/macshift/internal/domain"
)

const psListAdapters = `Get-NetAdapter | Where-Object {$_.MacAddress} | ForEach-Object { "$($_.Name)|$($_.MacAddress)" }`

func (c *Controller) listInterfaces(ctx context.Context) (map[string]domain.MacAddress, error) {
	out, err := c.run.Run(ctx, "powershell", "-Command", psListAdapters)
	if err == nil {
		if ifaces := parseNetAdapterPairs(out); len(ifaces) > 0 {
			return ifaces, nil
		}
	}

	out, ferr := c.run.Run(ctx, "ipconfig", "/all")
	if ferr != nil {
		if err != nil {
			return nil, err
		}
		return nil, ferr
	}
	return parseIpconfig(out), nil
}

func (c *Controller) setAddress(ctx context.Context, name string, addr domain.MacAddress) error {
	dashMac := string(domain.NormalizeMac(string(addr), "-"))
	disable := fmt.Sprintf(`Disable-NetAdapter -Name "%s" -Confirm:$false`, name)
	set := fmt.Sprintf(`Set-NetAdapter -Name "%s" -MacAddress "%s"`, name, dashMac)
	enable := fmt.Sprintf(`Enable-NetAdapter -Name "%s" -Confirm:$false`, name)

	if _, err := c.run.Run(ctx, "powershell", "-Command", disable); err != nil {
		return err
	}
	if _, err := c.run.Run(ctx, "powershell", "-Command", set); err != nil {
		// Leave the adapter usable even when the driver rejects the address.
		c.run.Run(ctx, "powershell", "-Command", enable)
		return err
	}
	_, err := c.run.Run(ctx, "powershell", "-Command", enable)
	return err
}

// restoreAddress clears the MAC override (an empty MacAddress resets the
// adapter to its permanent address) and bounces the adapter.
func (c *Controller) restoreAddress(ctx context.Context, name string) error {
	reset := fmt.Sprintf(`Set-NetAdapter -Name "%s" -MacAddress ""`, name)
	disable := fmt.Sprintf(`Disable-NetAdapter -Name "%s" -Confirm:$false`, name)
	enable := fmt.Sprintf(`Enable-NetAdapter -Name "%s" -Confirm:$false`, name)

	if _, err := c.run.Run(ctx, "powershell", "-Command", disable); err != nil {
		return err
	}
	if _, err := c.run.Run(ctx, "powershell", "-Command", reset); err != nil {
		c.run.Run(ctx, "powershell", "-Command", enable)
		return err
	}
	_, err := c.run.Run(ctx, "powershell", "-Command", enable)
	return err
}

func elevated() bool {
	return windows.GetCurrentProcessToken().IsElevated()
}
