// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package dig

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/siemens/ptrdig/resolver"
	"github.com/siemens/ptrdig/sched"
	"github.com/siemens/ptrdig/types"

	"github.com/thediveo/lxkns/log"
	"go.uber.org/atomic"
)

var (
	// ErrTooManyJobs is returned when asking for more parallel jobs than the
	// Digger's maximum.
	ErrTooManyJobs = errors.New("too many jobs")
	// ErrInvalidJobs is returned when asking for less than a single job.
	ErrInvalidJobs = errors.New("invalid number of jobs")
	// ErrPipelineBroken is returned when the parallel pipeline failed to
	// deliver a result for each address.
	ErrPipelineBroken = errors.New("resolution pipeline broken")
)

// ProgressFunc gets called each time another address has been resolved, with
// the number of addresses resolved so far and the total number of addresses
// to resolve in this batch. It is always called from the same goroutine for
// a particular batch.
type ProgressFunc func(done, total int)

// Digger resolves batches of addresses, either sequentially or in parallel. A
// Digger can be used concurrently.
type Digger struct {
	maxJobs  int
	backend  sched.Backend
	progress ProgressFunc

	batches  atomic.Int64 // number of successfully resolved batches.
	resolved atomic.Int64 // total number of resolved addresses.
}

// DiggerOption can be passed to New when creating new [Digger] objects.
type DiggerOption func(*Digger)

// Stats reports the work done by a Digger so far.
type Stats struct {
	Batches   int64 `json:"batches"`   // number of successfully resolved batches.
	Addresses int64 `json:"addresses"` // total number of resolved addresses.
}

// MaxJobs returns the default maximum number of parallel jobs, which is the
// number of logical CPUs of this host.
func MaxJobs() int {
	return runtime.NumCPU()
}

// New returns a new Digger. By default, a Digger allows up to [MaxJobs]
// parallel jobs and runs them on the [sched.Threads] backend.
//
// The Digger can be configured during creation using several options:
//   - [WithMaxJobs]
//   - [WithBackend]
//   - [WithProgress]
func New(options ...DiggerOption) *Digger {
	d := &Digger{
		maxJobs: MaxJobs(),
		backend: sched.Threads,
	}
	for _, opt := range options {
		opt(d)
	}
	return d
}

// WithMaxJobs sets the maximum number of parallel jobs, instead of the number
// of logical CPUs.
func WithMaxJobs(max int) DiggerOption {
	if max < 1 {
		panic(fmt.Errorf("Digger: maximum number of jobs must be at least 1, got: %d", max))
	}
	return func(d *Digger) {
		d.maxJobs = max
	}
}

// WithBackend sets the scheduler backend for parallel resolution.
func WithBackend(b sched.Backend) DiggerOption {
	return func(d *Digger) {
		d.backend = b
	}
}

// WithProgress sets a function to be called whenever another address in a
// batch has been resolved.
func WithProgress(fn ProgressFunc) DiggerOption {
	return func(d *Digger) {
		d.progress = fn
	}
}

// MaxJobs returns the maximum number of parallel jobs of this Digger.
func (d *Digger) MaxJobs() int { return d.maxJobs }

// Stats returns the work done by this Digger so far.
func (d *Digger) Stats() Stats {
	return Stats{
		Batches:   d.batches.Load(),
		Addresses: d.resolved.Load(),
	}
}

// Resolve the names of all addresses in the specified list, using the
// specified Solver and number of parallel jobs. It returns a new list with the
// resolved addresses, sorted by address and name. The passed list is left
// untouched.
//
// A single job resolves the list sequentially, while more jobs resolve it in
// parallel. Resolve returns an error wrapping [ErrTooManyJobs] if njobs
// exceeds the Digger's maximum number of jobs, or [ErrInvalidJobs] if njobs is
// less than 1. Both checks come before any work is done. Resolving an empty
// list returns an empty list.
func (d *Digger) Resolve(l types.IPList, njobs int, s resolver.Solver) (types.IPList, error) {
	if njobs < 1 {
		return types.IPList{}, fmt.Errorf("%w: %d", ErrInvalidJobs, njobs)
	}
	if njobs > d.maxJobs {
		return types.IPList{}, fmt.Errorf("%w: %d requested, but at most %d allowed",
			ErrTooManyJobs, njobs, d.maxJobs)
	}
	var result types.IPList
	switch {
	case l.IsEmpty():
		log.Debugf("nothing to resolve")
		return types.IPList{}, nil
	case l.Len() == 1:
		// Nothing to gain from any pipeline.
		log.Debugf("resolving single address inline using %s", s)
		ip, err := solve(s, l.At(0))
		if err != nil {
			return types.IPList{}, err
		}
		result = types.NewIPList(ip)
		d.report(1, 1)
	case njobs == 1:
		log.Debugf("resolving %d addresses sequentially using %s", l.Len(), s)
		var err error
		result, err = sequentialSolve(l, s, d.progress)
		if err != nil {
			return types.IPList{}, err
		}
	default:
		log.Debugf("resolving %d addresses with %d %s jobs using %s",
			l.Len(), njobs, d.backend, s)
		var err error
		result, err = parallelSolve(l, s, njobs, d.backend, d.progress)
		if err != nil {
			return types.IPList{}, err
		}
	}
	d.batches.Inc()
	d.resolved.Add(int64(result.Len()))
	return result, nil
}

func (d *Digger) report(done, total int) {
	if d.progress != nil {
		d.progress(done, total)
	}
}

// Resolve the names of all addresses in the specified list using a default
// Digger, see [Digger.Resolve] for details.
func Resolve(l types.IPList, njobs int, s resolver.Solver) (types.IPList, error) {
	return New().Resolve(l, njobs, s)
}
