package shell

import (
	"regexp"
	"strings"

	"github.com/macshift/macshift/internal/domain"
)

var (
	ipLinkEtherRe = regexp.MustCompile(`link/ether\s+([0-9A-Fa-f:]{17})`)
	etherRe       = regexp.MustCompile(`(?:ether|HWaddr)\s+([0-9A-Fa-f:]{17})`)
	physAddrRe    = regexp.MustCompile(`([0-9A-Fa-f]{2}(?:-[0-9A-Fa-f]{2}){5})`)
)

// parseIPLink extracts interface name -> MAC from `ip link show` output.
// Header lines start at column 0 ("2: eth0: <BROADCAST...>"); the address
// follows on an indented "link/ether" line.
func parseIPLink(out string) map[string]domain.MacAddress {
	ifaces := make(map[string]domain.MacAddress)
	var current string
	for _, line := range strings.Split(out, "\n") {
		if line == "" {
			continue
		}
		if !strings.HasPrefix(line, " ") && strings.Contains(line, ": ") {
			parts := strings.Split(line, ":")
			if len(parts) >= 2 {
				current = strings.TrimSpace(parts[1])
				// veth0@if5 -> veth0
				if i := strings.Index(current, "@"); i >= 0 {
					current = current[:i]
				}
			}
			continue
		}
		if current == "" {
			continue
		}
		if m := ipLinkEtherRe.FindStringSubmatch(line); m != nil && domain.ValidMac(m[1]) {
			ifaces[current] = domain.NormalizeMac(m[1], ":")
			current = ""
		}
	}
	return ifaces
}

// parseIfconfig extracts interface name -> MAC from ifconfig output,
// covering both the BSD/macOS "ether" form and the legacy Linux "HWaddr"
// form (where the address sits on the header line itself).
func parseIfconfig(out string) map[string]domain.MacAddress {
	ifaces := make(map[string]domain.MacAddress)
	var current string
	for _, line := range strings.Split(out, "\n") {
		if line == "" {
			continue
		}
		if !strings.HasPrefix(line, " ") && !strings.HasPrefix(line, "\t") {
			fields := strings.Fields(line)
			if len(fields) == 0 {
				continue
			}
			current = strings.TrimSuffix(fields[0], ":")
			if m := etherRe.FindStringSubmatch(line); m != nil && domain.ValidMac(m[1]) {
				ifaces[current] = domain.NormalizeMac(m[1], ":")
			}
			continue
		}
		if current == "" {
			continue
		}
		if m := etherRe.FindStringSubmatch(line); m != nil && domain.ValidMac(m[1]) {
			if _, seen := ifaces[current]; !seen {
				ifaces[current] = domain.NormalizeMac(m[1], ":")
			}
		}
	}
	return ifaces
}

// parseNetAdapterPairs extracts name -> MAC from the PowerShell
// Get-NetAdapter query that emits one "Name|MacAddress" pair per line.
func parseNetAdapterPairs(out string) map[string]domain.MacAddress {
	ifaces := make(map[string]domain.MacAddress)
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || !strings.Contains(line, "|") {
			continue
		}
		name, mac, _ := strings.Cut(line, "|")
		name = strings.TrimSpace(name)
		mac = strings.TrimSpace(mac)
		if name == "" || !domain.ValidMac(mac) {
			continue
		}
		ifaces[name] = domain.NormalizeMac(mac, ":")
	}
	return ifaces
}

// parseIpconfig extracts adapter name -> MAC from `ipconfig /all` output,
// the fallback when PowerShell is unavailable.
func parseIpconfig(out string) map[string]domain.MacAddress {
	ifaces := make(map[string]domain.MacAddress)
	var current string
	for _, line := range strings.Split(out, "\n") {
		trimmed := strings.TrimSpace(line)
		lower := strings.ToLower(trimmed)
		if strings.Contains(lower, "adapter ") && strings.HasSuffix(trimmed, ":") {
			// "Ethernet adapter Ethernet0:" / "Wireless LAN adapter Wi-Fi:"
			name := strings.TrimSuffix(trimmed, ":")
			if i := strings.Index(strings.ToLower(name), "adapter "); i >= 0 {
				name = name[i+len("adapter "):]
			}
			current = strings.TrimSpace(name)
			continue
		}
		if current == "" || !strings.Contains(trimmed, "Physical Address") {
			continue
		}
		if m := physAddrRe.FindStringSubmatch(trimmed); m != nil && domain.ValidMac(m[1]) {
			ifaces[current] = domain.NormalizeMac(m[1], ":")
			current = ""
		}
	}
	return ifaces
}
