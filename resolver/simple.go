// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package resolver

import (
	"fmt"
	"time"

	"github.com/siemens/ptrdig/types"

	"github.com/jonboulle/clockwork"
)

// nullResolver uses the textual address as the name.
type nullResolver struct{}

func (nullResolver) Solve(ip types.IP) types.IP {
	return ip.WithName(ip.Addr.String())
}

func (nullResolver) String() string { return "nullresolver" }

// fakeResolver returns a fixed name for all addresses, except for any preset
// names.
type fakeResolver struct {
	name    string
	presets map[string]string // read-only after creation.
}

func (r *fakeResolver) Solve(ip types.IP) types.IP {
	if name, ok := r.presets[ip.Addr.String()]; ok {
		return ip.WithName(name)
	}
	return ip.WithName(r.name)
}

func (r *fakeResolver) String() string {
	return "fakeresolver with " + r.name
}

// sleepResolver is a fakeResolver taking its time.
type sleepResolver struct {
	name    string
	latency time.Duration
	clock   clockwork.Clock
}

func (r *sleepResolver) Solve(ip types.IP) types.IP {
	r.clock.Sleep(r.latency)
	return ip.WithName(r.name)
}

func (r *sleepResolver) String() string {
	return fmt.Sprintf("sleepresolver with %s after %s", r.name, r.latency)
}
