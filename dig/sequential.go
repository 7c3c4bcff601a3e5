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

// SequentialSolve resolves the addresses in the specified list one after
// another, returning a new list sorted by address and name. Same as
// [ParallelSolve], it returns an error wrapping [ErrPipelineBroken] if
// resolving any address failed to deliver a result.
func SequentialSolve(l types.IPList, s resolver.Solver) (types.IPList, error) {
	return sequentialSolve(l, s, nil)
}

func sequentialSolve(l types.IPList, s resolver.Solver, progress ProgressFunc) (types.IPList, error) {
	total := l.Len()
	result := types.NewIPList()
	for idx := 0; idx < total; idx++ {
		ip, err := solve(s, l.At(idx))
		if err != nil {
			return types.IPList{}, err
		}
		result.Push(ip)
		if progress != nil {
			progress(idx+1, total)
		}
	}
	result.Sort()
	return result, nil
}

// solve resolves a single address, reporting a panicking resolver as a broken
// pipeline the same way the parallel pipeline does.
func solve(s resolver.Solver, ip types.IP) (types.IP, error) {
	var resolved types.IP
	if err := sched.Guard(func() error {
		resolved = s.Solve(ip)
		return nil
	}); err != nil {
		return types.IP{}, fmt.Errorf("%w: %s", ErrPipelineBroken, err.Error())
	}
	return resolved, nil
}
