// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package sched

import (
	"sync"

	"github.com/gammazero/workerpool"
)

// threads is a Scheduler running tasks on a fixed-size worker pool. At most
// twice the pool size tasks can be outstanding (running or waiting for a
// worker), further calls to Go block until some task has finished.
type threads struct {
	workers *workerpool.WorkerPool
	slots   chan struct{} // one per outstanding task.
	mu      sync.Mutex    // protects err
	err     error         // first task error, if any.
}

func newThreads(size int) *threads {
	return &threads{
		workers: workerpool.New(size),
		slots:   make(chan struct{}, 2*size),
	}
}

// Go enqueues the task; it gets executed as soon as a worker becomes
// available. Go blocks while the pool's queue is full.
func (t *threads) Go(task func() error) {
	t.slots <- struct{}{}
	t.workers.Submit(func() {
		defer func() { <-t.slots }()
		if err := Guard(task); err != nil {
			t.mu.Lock()
			if t.err == nil {
				t.err = err
			}
			t.mu.Unlock()
		}
	})
}

// Wait waits for all enqueued tasks to finish, and then shuts down the worker
// pool.
func (t *threads) Wait() error {
	t.workers.StopWait()
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.err
}
