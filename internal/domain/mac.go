package domain

import (
	"fmt"
	"math/rand/v2"
	"regexp"
	"strings"
)

// MacAddress is the textual form of a six-octet hardware address.
// Canonical form is six uppercase hex pairs joined by ":".
type MacAddress string

var macPattern = regexp.MustCompile(`^([0-9A-Fa-f]{2}[:-]){5}[0-9A-Fa-f]{2}$`)

// First octets with the locally-administered bit set and the unicast bit
// clear. Generated addresses always start with one of these.
var localFirstOctets = []string{"02", "06", "0A", "0E"}

// ValidMac reports whether text is a MAC address in colon- or
// hyphen-separated form (XX:XX:XX:XX:XX:XX or XX-XX-XX-XX-XX-XX).
func ValidMac(text string) bool {
	return macPattern.MatchString(text)
}

// NormalizeMac strips the delimiters from a valid MAC address and re-joins
// the uppercase hex pairs with the given separator. The caller must check
// ValidMac first; the result is unspecified for malformed input.
func NormalizeMac(text, separator string) MacAddress {
	clean := strings.ToUpper(strings.NewReplacer(":", "", "-", "").Replace(text))
	pairs := make([]string, 0, 6)
	for i := 0; i+2 <= len(clean); i += 2 {
		pairs = append(pairs, clean[i:i+2])
	}
	return MacAddress(strings.Join(pairs, separator))
}

// RandomMac generates a random locally administered unicast address in
// canonical form. math/rand is deliberate: this is a usability generator,
// not a security primitive.
func RandomMac() MacAddress {
	pairs := make([]string, 6)
	pairs[0] = localFirstOctets[rand.IntN(len(localFirstOctets))]
	for i := 1; i < 6; i++ {
		pairs[i] = fmt.Sprintf("%02X", rand.IntN(256))
	}
	return MacAddress(strings.Join(pairs, ":"))
}
