package domain

import (
	"strings"
	"testing"
)

func TestValidMac(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"00:11:22:33:44:55", true},
		{"00-11-22-33-44-55", true},
		{"aa:bb:cc:dd:ee:ff", true},
		{"AA:BB:CC:DD:EE:FF", true},
		{"aA:Bb:cC:dD:Ee:fF", true},
		{"00:11:22:33:44", false},
		{"00:11:22:33:44:55:66", false},
		{"00:11:22:33:44:5", false},
		{"001122334455", false},
		{"00:11:22:33:44:gg", false},
		{"x00:11:22:33:44:55", false},
		{"00:11:22:33:44:55x", false},
		{"", false},
	}
	for _, c := range cases {
		if got := ValidMac(c.in); got != c.want {
			t.Errorf("ValidMac(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestNormalizeMac(t *testing.T) {
	cases := []struct {
		in   string
		sep  string
		want MacAddress
	}{
		{"aa:bb:cc:dd:ee:ff", ":", "AA:BB:CC:DD:EE:FF"},
		{"AA-BB-CC-DD-EE-FF", ":", "AA:BB:CC:DD:EE:FF"},
		{"aa:bb:cc:dd:ee:ff", "-", "AA-BB-CC-DD-EE-FF"},
		{"02:1a:2b:3c:4d:5e", "", "021A2B3C4D5E"},
	}
	for _, c := range cases {
		if got := NormalizeMac(c.in, c.sep); got != c.want {
			t.Errorf("NormalizeMac(%q, %q) = %q, want %q", c.in, c.sep, got, c.want)
		}
	}
}

func TestNormalizeMacRoundTrip(t *testing.T) {
	inputs := []string{"aa:bb:cc:dd:ee:ff", "02-06-0A-0E-12-34", "00:00:00:00:00:00"}
	for _, in := range inputs {
		if !ValidMac(in) {
			t.Fatalf("test input %q should be valid", in)
		}
		out := string(NormalizeMac(in, ":"))
		if !ValidMac(out) {
			t.Errorf("NormalizeMac(%q) = %q is not valid", in, out)
		}
	}
}

func TestRandomMac(t *testing.T) {
	allowed := map[string]bool{"02": true, "06": true, "0A": true, "0E": true}
	for i := 0; i < 1000; i++ {
		mac := string(RandomMac())
		if !ValidMac(mac) {
			t.Fatalf("RandomMac() = %q is not valid", mac)
		}
		first := mac[:2]
		if !allowed[first] {
			t.Fatalf("RandomMac() first octet %q not locally administered unicast", first)
		}
		if strings.Count(mac, ":") != 5 {
			t.Fatalf("RandomMac() = %q not colon separated", mac)
		}
	}
}
