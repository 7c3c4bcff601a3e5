// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package types

import (
	"errors"
	"fmt"
	"net/netip"
	"strings"
)

// ErrInvalidAddress is returned when a textual network address cannot be
// parsed into either an IPv4 or IPv6 address.
var ErrInvalidAddress = errors.New("invalid IP address")

// IP is a single network address, together with its (reverse-DNS) name. An
// empty Name signals a yet unresolved address.
type IP struct {
	Addr netip.Addr `json:"address"` // a single network IP (v4/v6) address
	Name string     `json:"name"`    // resolved name, or "" if not yet resolved
}

// NewIP returns a new and yet unresolved IP, given its textual
// representation. It returns an error wrapping [ErrInvalidAddress] if s isn't
// a valid IPv4 or IPv6 address literal.
func NewIP(s string) (IP, error) {
	addr, err := netip.ParseAddr(strings.TrimSpace(s))
	if err != nil {
		return IP{}, fmt.Errorf("%w: %q", ErrInvalidAddress, s)
	}
	return IP{Addr: addr}, nil
}

// NewNamedIP returns a new IP that already has been resolved to the specified
// name.
func NewNamedIP(s string, name string) (IP, error) {
	ip, err := NewIP(s)
	if err != nil {
		return IP{}, err
	}
	ip.Name = name
	return ip, nil
}

// MustIP is like NewIP, but panics if s isn't a valid address literal. It
// simplifies safe initializations of IP values, such as in tests.
func MustIP(s string) IP {
	ip, err := NewIP(s)
	if err != nil {
		panic(err)
	}
	return ip
}

// WithName returns a copy of this IP with its name set to the specified name.
func (ip IP) WithName(name string) IP {
	return IP{Addr: ip.Addr, Name: name}
}

// IsResolved returns true if this IP has a name.
func (ip IP) IsResolved() bool { return ip.Name != "" }

// Compare returns an integer comparing two IPs, first by address and then by
// name. The result will be 0 if ip == other, -1 if ip < other, and +1 if ip >
// other.
func (ip IP) Compare(other IP) int {
	if c := ip.Addr.Compare(other.Addr); c != 0 {
		return c
	}
	return strings.Compare(ip.Name, other.Name)
}

// String returns the address, followed by its name in parentheses unless
// unresolved.
func (ip IP) String() string {
	if ip.Name == "" {
		return ip.Addr.String()
	}
	return ip.Addr.String() + " (" + ip.Name + ")"
}
