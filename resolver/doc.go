/*
Package resolver implements the pluggable reverse-DNS resolution capability of
ptrdig: given an unresolved [types.IP], a [Resolver] returns a new IP with the
same address and the name found for it.

Available resolvers, selected by [ResType] when calling [New]:

  - [Real] uses the system resolver's reverse lookup (the default).
  - [DNS] sends PTR queries directly to a specific DNS server, optionally from
    inside a different network namespace, such as a container's.
  - [Null] doesn't resolve at all, but uses the textual address as its name.
  - [Fake] always returns the same placeholder name, "some.host.invalid",
    unless told otherwise. Use it in tests.
  - [Sleep] behaves like [Fake], but takes its time, simulating a network
    round trip. Use it for benchmarking.

Resolvers never fail: when a lookup fails, the error message becomes the name.
An address without a PTR record gets the [NoPTRName] placeholder name.

# Solvers

[New] hands out [Solver] values, wrapping the selected Resolver. Solvers are
cheap to copy, with all copies sharing the same underlying resolver. As
resolvers don't carry any mutable state, a single Solver can be used
concurrently by any number of workers without further synchronization.

Usage

	solver := resolver.New(resolver.DNS,
	    resolver.WithServer("127.0.0.11:53"),
	    resolver.InNetworkNamespace("/proc/666/ns/net"))
	ip := solver.Solve(types.MustIP("172.17.0.2"))
*/
package resolver
