// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package types

import (
	"slices"
)

// IPList is an ordered list of [IP] records. It keeps duplicates.
//
// The zero value is an empty list ready to use.
type IPList struct {
	ips []IP
}

// NewIPList returns a new list containing the specified IPs, in order.
func NewIPList(ips ...IP) IPList {
	return IPList{ips: slices.Clone(ips)}
}

// ParseIPList returns a new list of unresolved IPs, parsed from the specified
// textual addresses. It stops at the first invalid address, returning an error
// wrapping [ErrInvalidAddress].
func ParseIPList(addrs ...string) (IPList, error) {
	l := IPList{ips: make([]IP, 0, len(addrs))}
	for _, addr := range addrs {
		ip, err := NewIP(addr)
		if err != nil {
			return IPList{}, err
		}
		l.ips = append(l.ips, ip)
	}
	return l, nil
}

// NamedIPList returns a new list of already resolved IPs, given pairs of
// (address, name).
func NamedIPList(pairs ...[2]string) (IPList, error) {
	l := IPList{ips: make([]IP, 0, len(pairs))}
	for _, pair := range pairs {
		ip, err := NewNamedIP(pair[0], pair[1])
		if err != nil {
			return IPList{}, err
		}
		l.ips = append(l.ips, ip)
	}
	return l, nil
}

// Push appends an IP to the end of the list.
func (l *IPList) Push(ip IP) {
	l.ips = append(l.ips, ip)
}

// Len returns the number of IPs in the list.
func (l IPList) Len() int { return len(l.ips) }

// IsEmpty returns true if the list doesn't contain any IPs.
func (l IPList) IsEmpty() bool { return len(l.ips) == 0 }

// At returns (a copy of) the IP at the specified index. It panics if idx is out
// of range.
func (l IPList) At(idx int) IP { return l.ips[idx] }

// Set replaces the IP at the specified index. It panics if idx is out of
// range.
func (l *IPList) Set(idx int, ip IP) { l.ips[idx] = ip }

// All returns a copy of the IPs in the list, so callers are free to modify the
// returned slice.
func (l IPList) All() []IP { return slices.Clone(l.ips) }

// Clone returns an independent copy of this list.
func (l IPList) Clone() IPList { return IPList{ips: slices.Clone(l.ips)} }

// Sort the list in place, by address first and name second. Sorting is stable
// with respect to identical records.
func (l *IPList) Sort() {
	slices.SortStableFunc(l.ips, IP.Compare)
}

// Equal returns true if both lists contain the same IPs in the same order.
func (l IPList) Equal(other IPList) bool {
	return slices.Equal(l.ips, other.ips)
}

// Addrs returns the textual addresses of all IPs in the list, in order.
func (l IPList) Addrs() []string {
	addrs := make([]string, 0, len(l.ips))
	for _, ip := range l.ips {
		addrs = append(addrs, ip.Addr.String())
	}
	return addrs
}
