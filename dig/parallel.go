// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package dig

import (
	"fmt"

	"github.com/siemens/ptrdig/resolver"
	"github.com/siemens/ptrdig/sched"
	"github.com/siemens/ptrdig/types"
)

// ParallelSolve resolves the addresses in the specified list using njobs
// concurrent jobs on the specified scheduler backend. It returns a new list
// sorted by address and name. ParallelSolve returns an error wrapping
// [ErrPipelineBroken] if any resolution task failed to deliver its result.
//
// Please note that ParallelSolve doesn't check njobs against any maximum, but
// returns an error wrapping [ErrInvalidJobs] if njobs is less than 1.
func ParallelSolve(l types.IPList, s resolver.Solver, njobs int, backend sched.Backend) (types.IPList, error) {
	if njobs < 1 {
		return types.IPList{}, fmt.Errorf("%w: %d", ErrInvalidJobs, njobs)
	}
	return parallelSolve(l, s, njobs, backend, nil)
}

func parallelSolve(
	l types.IPList,
	s resolver.Solver,
	njobs int,
	backend sched.Backend,
	progress ProgressFunc,
) (types.IPList, error) {
	// Don't set up the plumbing just to see nothing flowing through it.
	if l.IsEmpty() {
		return types.IPList{}, nil
	}
	total := l.Len()
	results, wait := fanOut(queue(l), s, sched.New(backend, njobs), njobs)
	collected := collect(results, total, progress)
	// The collector finishes only after the worker stage has closed the
	// results channel, so the scheduler has already finished as well.
	result := <-collected
	if err := <-wait; err != nil {
		return types.IPList{}, fmt.Errorf("%w: %s", ErrPipelineBroken, err.Error())
	}
	if result.Len() != total {
		return types.IPList{}, fmt.Errorf("%w: %d results for %d addresses",
			ErrPipelineBroken, result.Len(), total)
	}
	result.Sort()
	return result, nil
}

// queue sends all addresses of the specified list to the returned channel,
// closing it afterwards. The feeder works on its own copy of the list.
func queue(l types.IPList) <-chan types.IP {
	ips := l.All()
	feed := make(chan types.IP)
	go func() {
		defer close(feed)
		for _, ip := range ips {
			feed <- ip
		}
	}()
	return feed
}

// fanOut schedules a resolution task for each address received from the
// specified channel until the channel gets closed. Each task sends its
// resolved address into the returned results channel, which gets closed after
// all tasks have finished. The scheduler outcome is finally sent to the
// returned wait channel.
func fanOut(
	feed <-chan types.IP,
	s resolver.Solver,
	scheduler sched.Scheduler,
	njobs int,
) (<-chan types.IP, <-chan error) {
	results := make(chan types.IP, njobs)
	wait := make(chan error, 1) // never block.
	go func() {
		for ip := range feed {
			ip := ip
			scheduler.Go(func() error {
				results <- s.Solve(ip)
				return nil
			})
		}
		err := scheduler.Wait()
		close(results)
		wait <- err
	}()
	return results, wait
}

// collect gathers the resolved addresses received from the specified channel
// into a new list until the channel is closed, and then sends the list to the
// returned channel.
func collect(results <-chan types.IP, total int, progress ProgressFunc) <-chan types.IPList {
	collected := make(chan types.IPList, 1)
	go func() {
		var l types.IPList
		for ip := range results {
			l.Push(ip)
			if progress != nil {
				progress(l.Len(), total)
			}
		}
		collected <- l
	}()
	return collected
}
