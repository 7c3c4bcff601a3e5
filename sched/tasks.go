// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package sched

import (
	"golang.org/x/sync/errgroup"
)

// tasks is a Scheduler running each task in its own goroutine, with a limited
// number of goroutines at any time.
type tasks struct {
	group errgroup.Group
}

func newTasks(limit int) *tasks {
	t := &tasks{}
	t.group.SetLimit(limit)
	return t
}

// Go blocks until the task can be started without exceeding the limit.
func (t *tasks) Go(task func() error) {
	t.group.Go(func() error { return Guard(task) })
}

// Wait waits for all started tasks to finish.
func (t *tasks) Wait() error {
	return t.group.Wait()
}
