// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package resolver

import (
	"context"
	"errors"
	"net"
	"strings"
	"time"

	"github.com/siemens/ptrdig/types"
)

// addrLookuper does reverse lookups; it is satisfied by [net.Resolver].
type addrLookuper interface {
	LookupAddr(ctx context.Context, addr string) ([]string, error)
}

// realResolver asks the system resolver.
type realResolver struct {
	lookup  addrLookuper
	timeout time.Duration
}

func newRealResolver(o options) *realResolver {
	lookup := o.lookup
	if lookup == nil {
		lookup = net.DefaultResolver
	}
	return &realResolver{
		lookup:  lookup,
		timeout: o.timeout,
	}
}

func (r *realResolver) Solve(ip types.IP) types.IP {
	ctx := context.Background()
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}
	addr := ip.Addr.String()
	names, err := r.lookup.LookupAddr(ctx, addr)
	if err != nil {
		// Go's resolver reports a missing PTR record as "not found", where
		// other resolvers would simply echo the address.
		var dnserr *net.DNSError
		if errors.As(err, &dnserr) && dnserr.IsNotFound {
			return ip.WithName(NoPTRName)
		}
		return ip.WithName(err.Error())
	}
	return ip.WithName(ptrName(addr, names))
}

func (r *realResolver) String() string { return "realresolver using LookupAddr" }

// ptrName returns the first of the specified PTR names without its trailing
// dot, or NoPTRName if there is no name or it just echoes the address.
func ptrName(addr string, names []string) string {
	if len(names) == 0 {
		return NoPTRName
	}
	name := strings.TrimSuffix(names[0], ".")
	if name == "" || name == addr {
		return NoPTRName
	}
	return name
}

// withLookuper makes a Real resolver use the specified reverse lookup instead
// of the system resolver.
func withLookuper(l addrLookuper) Option {
	return func(o *options) {
		o.lookup = l
	}
}
