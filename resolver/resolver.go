// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package resolver

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/siemens/ptrdig/types"

	"github.com/jonboulle/clockwork"
	"github.com/thediveo/lxkns/ops"
	"github.com/thediveo/lxkns/ops/relations"
	"github.com/thediveo/lxkns/species"
)

// FakeName is the placeholder name returned by the [Fake] and [Sleep]
// resolvers, unless configured otherwise.
const FakeName = "some.host.invalid"

// NoPTRName is the name given to addresses without any PTR record.
const NoPTRName = "some.host.invalid"

// Defaults for the optional resolver settings.
const (
	DefaultLatency = time.Millisecond
	DefaultTimeout = 2 * time.Second
	DefaultServer  = "127.0.0.1:53"
)

// ErrUnknownResType is returned when parsing an unknown resolver type name.
var ErrUnknownResType = errors.New("unknown resolver type")

// Resolver resolves a single IP address into its (reverse-DNS) name.
// Implementations must be safe for concurrent use.
type Resolver interface {
	// Solve returns a new IP with the same address as the specified ip and
	// with its name set to the name found. It never fails, but instead
	// returns a descriptive name.
	Solve(ip types.IP) types.IP
}

// Solver is an opaque handle to a particular [Resolver] implementation. Copies
// of a Solver share the same resolver. The zero Solver behaves like a [Null]
// resolver.
type Solver struct {
	r Resolver
}

// NewSolver returns a new Solver for the specified Resolver. This allows
// plugging in application-specific resolvers.
func NewSolver(r Resolver) Solver {
	return Solver{r: r}
}

// Solve resolves the specified IP using the Solver's resolver.
func (s Solver) Solve(ip types.IP) types.IP {
	if s.r == nil {
		return nullResolver{}.Solve(ip)
	}
	return s.r.Solve(ip)
}

// String returns a short description of the resolver used.
func (s Solver) String() string {
	if s.r == nil {
		return nullResolver{}.String()
	}
	if str, ok := s.r.(fmt.Stringer); ok {
		return str.String()
	}
	return fmt.Sprintf("%T", s.r)
}

// ResType selects the kind of resolver to create with [New].
type ResType int

// The available kinds of resolvers.
const (
	Real  ResType = iota // system resolver (default).
	DNS                  // direct PTR queries to a DNS server.
	Null                 // address as its own name.
	Fake                 // fixed placeholder name.
	Sleep                // fixed placeholder name after some delay.
)

var resTypeNames = map[ResType]string{
	Real:  "real",
	DNS:   "dns",
	Null:  "null",
	Fake:  "fake",
	Sleep: "sleep",
}

// String returns the clear-text representation of a ResType value.
func (t ResType) String() string {
	if name, ok := resTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("ResType(%d)", t)
}

// ParseResType returns the ResType for the specified (case-insensitive) name.
func ParseResType(s string) (ResType, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for t, name := range resTypeNames {
		if name == s {
			return t, nil
		}
	}
	return 0, fmt.Errorf("%w %q", ErrUnknownResType, s)
}

// Option can be passed to [New] when creating new resolvers. Options not
// applicable to the requested type of resolver are silently ignored.
type Option func(*options)

type options struct {
	name    string             // placeholder name for Fake and Sleep.
	presets map[string]string  // preset names for Fake.
	latency time.Duration      // Sleep delay.
	clock   clockwork.Clock    // Sleep clock.
	timeout time.Duration      // per-lookup timeout for Real and DNS.
	server  string             // DNS server address.
	netns   relations.Relation // network namespace for DNS queries, or nil.
	nsref   string             // filesystem reference of netns.
	lookup  addrLookuper       // for Real; nil uses the system resolver.
}

// WithName sets the placeholder name returned by [Fake] and [Sleep]
// resolvers.
func WithName(name string) Option {
	return func(o *options) {
		o.name = name
	}
}

// WithPresets tells a [Fake] resolver to return the names from the specified
// list for matching addresses, instead of the placeholder name.
func WithPresets(l types.IPList) Option {
	return func(o *options) {
		o.presets = make(map[string]string, l.Len())
		for _, ip := range l.All() {
			o.presets[ip.Addr.String()] = ip.Name
		}
	}
}

// WithLatency sets the delay of a [Sleep] resolver for each address.
func WithLatency(d time.Duration) Option {
	if d < 0 {
		panic(fmt.Errorf("resolver: latency must not be negative, got: %s", d))
	}
	return func(o *options) {
		o.latency = d
	}
}

// WithClock sets the clock a [Sleep] resolver uses for its delays.
func WithClock(clock clockwork.Clock) Option {
	return func(o *options) {
		o.clock = clock
	}
}

// WithTimeout sets the maximum time a single reverse lookup may take when
// using the [Real] or [DNS] resolvers. A zero timeout disables the per-lookup
// timeout.
func WithTimeout(d time.Duration) Option {
	if d < 0 {
		panic(fmt.Errorf("resolver: timeout must not be negative, got: %s", d))
	}
	return func(o *options) {
		o.timeout = d
	}
}

// WithServer sets the DNS server address (in "host:port" format) a [DNS]
// resolver queries.
func WithServer(addr string) Option {
	return func(o *options) {
		o.server = addr
	}
}

// InNetworkNamespace optionally runs the queries of a [DNS] resolver inside
// the network namespace referenced by the specified filesystem path, such as
// "/proc/666/ns/net". An empty path keeps the current network namespace.
func InNetworkNamespace(netnsref string) Option {
	return func(o *options) {
		o.nsref = netnsref
		if netnsref == "" {
			o.netns = nil
			return
		}
		o.netns = ops.NewTypedNamespacePath(netnsref, species.CLONE_NEWNET)
	}
}

// New returns a new Solver using the specified kind of resolver, configured
// using the optionally specified options. Unknown kinds fall back to [Real].
func New(t ResType, opts ...Option) Solver {
	o := options{
		name:    FakeName,
		latency: DefaultLatency,
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(&o)
	}
	switch t {
	case Null:
		return Solver{r: nullResolver{}}
	case Fake:
		return Solver{r: &fakeResolver{name: o.name, presets: o.presets}}
	case Sleep:
		clock := o.clock
		if clock == nil {
			clock = clockwork.NewRealClock()
		}
		return Solver{r: &sleepResolver{name: o.name, latency: o.latency, clock: clock}}
	case DNS:
		return Solver{r: newDNSResolver(o)}
	default:
		return Solver{r: newRealResolver(o)}
	}
}
