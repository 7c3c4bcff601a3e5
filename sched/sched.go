// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package sched

import (
	"errors"
	"fmt"
	"strings"
)

// ErrTaskPanicked is wrapped by errors reported for tasks that panicked.
var ErrTaskPanicked = errors.New("task panicked")

// ErrUnknownBackend is returned when parsing an unknown backend name.
var ErrUnknownBackend = errors.New("unknown scheduler backend")

// Scheduler runs tasks concurrently, with a limit on the number of tasks
// running at the same time.
type Scheduler interface {
	// Go schedules the specified task to be run.
	Go(task func() error)
	// Wait for all scheduled tasks to finish and then return the first error
	// reported by any task, if any. A Scheduler must not be used anymore
	// after Wait.
	Wait() error
}

// Backend selects the kind of Scheduler to create with [New].
type Backend int

// The available scheduler backends.
const (
	Threads Backend = iota // fixed-size worker pool.
	Tasks                  // limited set of lightweight goroutines.
)

// String returns the clear-text representation of a Backend value.
func (b Backend) String() string {
	switch b {
	case Threads:
		return "threads"
	case Tasks:
		return "tasks"
	}
	return fmt.Sprintf("Backend(%d)", b)
}

// ParseBackend returns the Backend for the specified (case-insensitive)
// name.
func ParseBackend(s string) (Backend, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "threads":
		return Threads, nil
	case "tasks":
		return Tasks, nil
	}
	return 0, fmt.Errorf("%w %q", ErrUnknownBackend, s)
}

// New returns a new Scheduler of the specified backend kind, running at most
// limit tasks at the same time. New panics if limit is less than 1.
func New(b Backend, limit int) Scheduler {
	if limit < 1 {
		panic(fmt.Errorf("sched: limit must be at least 1, got: %d", limit))
	}
	switch b {
	case Tasks:
		return newTasks(limit)
	default:
		return newThreads(limit)
	}
}

// Guard runs the specified task, turning a panic into an error wrapping
// [ErrTaskPanicked].
func Guard(task func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrTaskPanicked, r)
		}
	}()
	return task()
}
