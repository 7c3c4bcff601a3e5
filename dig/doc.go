/*
Package dig digs out the reverse-DNS names of a whole batch of network
addresses, using a [resolver.Solver] for resolving the individual addresses.

Batches are resolved either sequentially or in parallel. Parallel resolution
runs as a three-stage pipeline:

	feeder --> workers --> collector

The feeder pushes the addresses to resolve into an unbuffered channel. The
worker stage issues exactly one resolution task per address onto a scheduler
limited to the requested number of jobs, see package
[github.com/siemens/ptrdig/sched]. The resolved addresses are then sent to the
collector, which gathers them into the result list. As workers race each other,
the results come in no particular order, so the result list finally gets sorted
by address and name. Sequential resolution sorts its result the same way, so
both ways are interchangeable.

Resolving never fails because of an individual address that cannot be
resolved; instead, the name then describes the problem. The number of resolved
addresses thus always equals the number of addresses to resolve.

Usage

	l, _ := types.ParseIPList("1.1.1.1", "2606:4700:4700::1111", "192.0.2.1")
	digger := dig.New(dig.WithBackend(sched.Tasks))
	names, err := digger.Resolve(l, 4, resolver.New(resolver.Real))

# Limits

A [Digger] refuses to use more jobs than its maximum number of jobs, which
defaults to the number of logical CPUs of the host, see [MaxJobs].
*/
package dig
