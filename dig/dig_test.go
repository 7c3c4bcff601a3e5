// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package dig

import (
	"fmt"
	"math/rand"
	"net/netip"
	"time"

	"github.com/siemens/ptrdig/resolver"
	"github.com/siemens/ptrdig/sched"
	"github.com/siemens/ptrdig/types"

	"go.uber.org/atomic"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	. "github.com/onsi/gomega/gleak"
	. "github.com/thediveo/success"
)

// gaugingResolver names addresses after themselves, after some delay, while
// keeping track of the maximum number of concurrent Solve calls.
type gaugingResolver struct {
	running    atomic.Int64
	maxrunning atomic.Int64
	calls      atomic.Int64
}

func (r *gaugingResolver) Solve(ip types.IP) types.IP {
	r.calls.Inc()
	now := r.running.Inc()
	defer r.running.Dec()
	for {
		max := r.maxrunning.Load()
		if now <= max || r.maxrunning.CompareAndSwap(max, now) {
			break
		}
	}
	time.Sleep(5 * time.Millisecond)
	return ip.WithName("host-" + ip.Addr.String() + ".invalid")
}

// panickyResolver panics on a particular address.
type panickyResolver struct {
	addr netip.Addr
}

func (r panickyResolver) Solve(ip types.IP) types.IP {
	if ip.Addr == r.addr {
		panic("the disc world ends here")
	}
	return ip.WithName(ip.Addr.String())
}

// randomIPList returns a list of n random IPv4 and IPv6 addresses, with a few
// duplicates thrown in.
func randomIPList(rnd *rand.Rand, n int) types.IPList {
	var l types.IPList
	for i := 0; i < n; i++ {
		if i > 0 && rnd.Intn(10) == 0 {
			l.Push(l.At(rnd.Intn(l.Len())))
			continue
		}
		if rnd.Intn(2) == 0 {
			var b [4]byte
			rnd.Read(b[:])
			l.Push(types.IP{Addr: netip.AddrFrom4(b)})
			continue
		}
		var b [16]byte
		rnd.Read(b[:])
		l.Push(types.IP{Addr: netip.AddrFrom16(b)})
	}
	return l
}

var backends = []sched.Backend{sched.Threads, sched.Tasks}

var _ = Describe("digging names", func() {

	const maxjobs = 4

	var somehosts types.IPList

	BeforeEach(func() {
		somehosts = Successful(types.ParseIPList("1.1.1.1", "2606:4700:4700::1111", "192.0.2.1"))

		goodgos := Goroutines()
		DeferCleanup(func() {
			Eventually(Goroutines).WithTimeout(3 * time.Second).WithPolling(250 * time.Millisecond).
				ShouldNot(HaveLeaked(goodgos))
		})
	})

	It("panics on an invalid maximum number of jobs", func() {
		Expect(func() { WithMaxJobs(0) }).To(Panic())
	})

	It("defaults to the number of logical CPUs", func() {
		Expect(New().MaxJobs()).To(Equal(MaxJobs()))
		Expect(New(WithMaxJobs(42)).MaxJobs()).To(Equal(42))
	})

	Context("admission control", func() {

		It("rejects too many jobs", func() {
			d := New(WithMaxJobs(maxjobs))
			_, err := d.Resolve(somehosts, maxjobs+1, resolver.New(resolver.Fake))
			Expect(err).To(MatchError(ErrTooManyJobs))

			_, err = Resolve(somehosts, MaxJobs()+1, resolver.New(resolver.Fake))
			Expect(err).To(MatchError(ErrTooManyJobs))
		})

		It("rejects too many jobs before doing any work", func() {
			r := &gaugingResolver{}
			_, err := New(WithMaxJobs(1)).Resolve(somehosts, 2, resolver.NewSolver(r))
			Expect(err).To(MatchError(ErrTooManyJobs))
			Expect(r.calls.Load()).To(BeZero())
		})

		It("rejects less than a single job", func() {
			for _, njobs := range []int{0, -1} {
				_, err := Resolve(somehosts, njobs, resolver.New(resolver.Fake))
				Expect(err).To(MatchError(ErrInvalidJobs))
			}
		})

	})

	It("resolves an empty list into an empty list", func() {
		for _, njobs := range []int{1, maxjobs} {
			l := Successful(New(WithMaxJobs(maxjobs)).Resolve(types.IPList{}, njobs, resolver.New(resolver.Fake)))
			Expect(l.IsEmpty()).To(BeTrue())
		}
		for _, backend := range backends {
			l := Successful(ParallelSolve(types.IPList{}, resolver.New(resolver.Fake), maxjobs, backend))
			Expect(l.IsEmpty()).To(BeTrue())
		}
		Expect(Successful(SequentialSolve(types.IPList{}, resolver.New(resolver.Fake))).IsEmpty()).To(BeTrue())
	})

	It("resolves a single address inline", func() {
		r := &gaugingResolver{}
		l := Successful(New(WithMaxJobs(maxjobs)).Resolve(
			types.NewIPList(types.MustIP("192.0.2.1")), maxjobs, resolver.NewSolver(r)))
		Expect(l.All()).To(ConsistOf(types.MustIP("192.0.2.1").WithName("host-192.0.2.1.invalid")))
		Expect(r.calls.Load()).To(Equal(int64(1)))
	})

	DescribeTable("resolves the same fake names regardless of the number of jobs",
		func(njobs int, backend sched.Backend) {
			d := New(WithMaxJobs(MaxJobs()), WithBackend(backend))
			if njobs == 0 {
				njobs = d.MaxJobs()
			}
			l := Successful(d.Resolve(somehosts, njobs, resolver.New(resolver.Fake)))
			Expect(l.All()).To(Equal([]types.IP{
				types.MustIP("1.1.1.1").WithName("some.host.invalid"),
				types.MustIP("192.0.2.1").WithName("some.host.invalid"),
				types.MustIP("2606:4700:4700::1111").WithName("some.host.invalid"),
			}))
		},
		Entry("sequentially", 1, sched.Threads),
		Entry("with max threads", 0, sched.Threads),
		Entry("with max tasks", 0, sched.Tasks),
	)

	It("leaves the input list untouched", func() {
		orig := somehosts.Clone()
		for _, njobs := range []int{1, 2} {
			_ = Successful(New(WithMaxJobs(2)).Resolve(somehosts, njobs, resolver.New(resolver.Null)))
			Expect(somehosts.Equal(orig)).To(BeTrue())
		}
	})

	It("preserves lengths and resolves equivalently", func() {
		rnd := rand.New(rand.NewSource(42))
		d := func(backend sched.Backend) *Digger {
			return New(WithMaxJobs(maxjobs), WithBackend(backend))
		}
		for _, size := range []int{0, 1, 2, 3, 7, 16, 100} {
			l := randomIPList(rnd, size)
			for _, solver := range []resolver.Solver{
				resolver.New(resolver.Null),
				resolver.New(resolver.Fake),
			} {
				reference := Successful(SequentialSolve(l, solver))
				Expect(reference.Len()).To(Equal(size))
				for njobs := 1; njobs <= maxjobs; njobs++ {
					for _, backend := range backends {
						By(fmt.Sprintf("resolving %d addresses with %d %s jobs using %s",
							size, njobs, backend, solver))
						result := Successful(d(backend).Resolve(l, njobs, solver))
						Expect(result.Len()).To(Equal(size))
						Expect(result.All()).To(ConsistOf(reference.All()))
						Expect(result.Equal(reference)).To(BeTrue(), "canonical order mismatch")
					}
				}
			}
		}
	})

	It("produces deterministic results", func() {
		rnd := rand.New(rand.NewSource(666))
		l := randomIPList(rnd, 50)
		for _, backend := range backends {
			d := New(WithMaxJobs(maxjobs), WithBackend(backend))
			first := Successful(d.Resolve(l, maxjobs, resolver.New(resolver.Null)))
			second := Successful(d.Resolve(l, maxjobs, resolver.New(resolver.Null)))
			Expect(first.Equal(second)).To(BeTrue())
			Expect(first.All()).To(HaveEach(HaveField("Name", Not(BeEmpty()))))
		}
	})

	DescribeTable("never runs more than the requested number of jobs",
		func(backend sched.Backend) {
			const njobs = 3
			r := &gaugingResolver{}
			l := randomIPList(rand.New(rand.NewSource(1)), 30)
			result := Successful(ParallelSolve(l, resolver.NewSolver(r), njobs, backend))
			Expect(result.Len()).To(Equal(30))
			Expect(r.calls.Load()).To(Equal(int64(30)), "one resolution task per address")
			Expect(r.maxrunning.Load()).To(And(BeNumerically(">=", 1), BeNumerically("<=", njobs)))
		},
		Entry("threads", sched.Threads),
		Entry("tasks", sched.Tasks),
	)

	DescribeTable("reports a broken pipeline instead of panicking",
		func(addrs []string, njobs int, backend sched.Backend) {
			l := Successful(types.ParseIPList(addrs...))
			s := resolver.NewSolver(panickyResolver{addr: netip.MustParseAddr("192.0.2.3")})
			var result types.IPList
			var err error
			Expect(func() {
				result, err = New(WithMaxJobs(maxjobs), WithBackend(backend)).Resolve(l, njobs, s)
			}).NotTo(Panic())
			Expect(err).To(MatchError(ErrPipelineBroken))
			Expect(err).To(MatchError(ContainSubstring("task panicked: the disc world ends here")))
			Expect(result.IsEmpty()).To(BeTrue())
		},
		Entry("threads", []string{"192.0.2.1", "192.0.2.2", "192.0.2.3", "192.0.2.4"}, 2, sched.Threads),
		Entry("tasks", []string{"192.0.2.1", "192.0.2.2", "192.0.2.3", "192.0.2.4"}, 2, sched.Tasks),
		Entry("sequentially", []string{"192.0.2.1", "192.0.2.3"}, 1, sched.Tasks),
		Entry("single address", []string{"192.0.2.3"}, maxjobs, sched.Tasks),
	)

	It("reports a broken pipeline when resolving sequentially", func() {
		l := Successful(types.ParseIPList("192.0.2.3", "192.0.2.1"))
		_, err := SequentialSolve(l, resolver.NewSolver(panickyResolver{addr: netip.MustParseAddr("192.0.2.3")}))
		Expect(err).To(MatchError(ErrPipelineBroken))
	})

	It("rejects invalid numbers of parallel jobs", func() {
		for _, backend := range backends {
			for _, njobs := range []int{0, -1} {
				var err error
				Expect(func() {
					_, err = ParallelSolve(somehosts, resolver.New(resolver.Fake), njobs, backend)
				}).NotTo(Panic())
				Expect(err).To(MatchError(ErrInvalidJobs))
			}
		}
	})

	DescribeTable("reports progress",
		func(njobs int, backend sched.Backend) {
			var dones []int
			var totals []int
			d := New(WithMaxJobs(maxjobs), WithBackend(backend), WithProgress(func(done, total int) {
				dones = append(dones, done)
				totals = append(totals, total)
			}))
			l := randomIPList(rand.New(rand.NewSource(7)), 10)
			_ = Successful(d.Resolve(l, njobs, resolver.New(resolver.Fake)))
			Expect(dones).To(Equal([]int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}))
			Expect(totals).To(HaveEach(10))
		},
		Entry("sequentially", 1, sched.Threads),
		Entry("threads", maxjobs, sched.Threads),
		Entry("tasks", maxjobs, sched.Tasks),
	)

	It("keeps statistics", func() {
		d := New(WithMaxJobs(maxjobs))
		Expect(d.Stats()).To(BeZero())
		_ = Successful(d.Resolve(somehosts, 1, resolver.New(resolver.Fake)))
		_ = Successful(d.Resolve(somehosts, 2, resolver.New(resolver.Fake)))
		_, _ = d.Resolve(somehosts, maxjobs+1, resolver.New(resolver.Fake))
		Expect(d.Stats()).To(Equal(Stats{Batches: 2, Addresses: 6}))
	})

	It("resolves with latency", func() {
		l := randomIPList(rand.New(rand.NewSource(3)), 20)
		s := resolver.New(resolver.Sleep, resolver.WithLatency(time.Millisecond))
		for _, backend := range backends {
			result := Successful(ParallelSolve(l, s, maxjobs, backend))
			Expect(result.All()).To(HaveEach(HaveField("Name", resolver.FakeName)))
		}
	})

})
