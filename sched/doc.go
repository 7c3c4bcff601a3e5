/*
Package sched abstracts from how concurrent tasks get scheduled, so that the
same fan-out/fan-in pipeline can run on different backends:

  - [Threads] runs tasks on a fixed-size pool of long-running worker
    goroutines, queueing tasks until a worker becomes available. Submitting a
    task blocks only while twice the pool size tasks are outstanding.
  - [Tasks] runs each task in its own lightweight goroutine, but admits only a
    limited number of them at any time. Submitting a task blocks until the
    task can be started.

Both backends limit the number of tasks running at the same time and report the
first error returned by any task. A panicking task doesn't take down the
process, but instead is reported as an error wrapping [ErrTaskPanicked]; use
[Guard] for the same treatment outside of any scheduler.

# Acknowledgements

Under its hood, [Threads] leverages [github.com/gammazero/workerpool] and
[Tasks] leverages [golang.org/x/sync/errgroup].
*/
package sched
