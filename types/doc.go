/*
Package types defines ptrdig's information model. Which is rather simple and
revolves around an [IP] record, pairing a network address with its reverse-DNS
name, and an [IPList] holding such records in insertion order.

# Value Semantics

ptrdig resolves addresses concurrently, passing records through channels
between a feeder, a bunch of workers, and a collector. [IP] thus is a small,
comparable value type that gets copied instead of shared: a resolution step
never updates a record in place, but instead returns a new record with the same
address and the resolved name, see [IP.WithName]. This avoids a locking mess as
well as a whole class of subtle bugs.

An [IPList] in turn owns its records; handing out records via [IPList.At] or
[IPList.All] always returns copies. Resolving a list never touches the input
list but builds a fresh result list.

# Ordering

Parallel resolution completes in no particular order, so results get normalized
using [IPList.Sort]: records are ordered first by address (all IPv4 addresses
before any IPv6 address, then numerically) and second by name.
*/
package types
