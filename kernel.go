package coexsim

//
// Discrete-event kernel
//
// A single cooperative scheduler over an integer-microsecond virtual
// clock. Processes are goroutines, but the kernel guarantees that only
// one of them is ever actually running at a time: every yield point
// (Sleep, or a channel-arbiter wait) hands control back to the kernel's
// dispatch loop over an unbuffered rendezvous channel before blocking on
// its own per-process wake channel, and the dispatch loop never starts a
// second process until the first has yielded again. This is the same
// baton-passing discipline the teacher's link-forwarding goroutines use
// around their Wg/channel handoff, generalized to cooperative scheduling
// instead of real-time delivery. Because no two processes ever touch
// shared state concurrently, the Channel/Station/Gnb fields below need
// no mutexes.
//

import (
	"container/heap"
)

// wake is delivered to a [Proc] when the kernel resumes it.
type wake struct {
	// Interrupted reports whether this resumption is an out-of-band
	// interrupt (see [Kernel.Interrupt]) rather than a normal timeout.
	Interrupted bool
}

// Proc is a cooperative simulation process: one goroutine, one pending
// resumption at a time.
type Proc struct {
	name  string
	k     *Kernel
	ch    chan wake
	token uint64
}

// Name returns the process's diagnostic name.
func (p *Proc) Name() string { return p.name }

type event struct {
	time        int64
	seq         uint64
	token       uint64
	interrupted bool
	proc        *Proc
}

type eventHeap []*event

func (h eventHeap) Len() int { return len(h) }
func (h eventHeap) Less(i, j int) bool {
	if h[i].time != h[j].time {
		return h[i].time < h[j].time
	}
	return h[i].seq < h[j].seq
}
func (h eventHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *eventHeap) Push(x any)        { *h = append(*h, x.(*event)) }
func (h *eventHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return item
}

// Kernel is the discrete-event scheduler/kernel described in spec.md §4.1.
type Kernel struct {
	now     int64
	events  eventHeap
	seq     uint64
	yielded chan struct{}
	procs   []*Proc
}

// NewKernel creates a [Kernel] with its virtual clock at zero.
func NewKernel() *Kernel {
	return &Kernel{
		yielded: make(chan struct{}),
	}
}

// Now returns the current simulated time in microseconds.
func (k *Kernel) Now() int64 { return k.now }

// Spawn starts a new cooperative process running fn. The caller must
// invoke Spawn only from the kernel's own goroutine: either before
// [Kernel.RunUntil] is called, or from within a process body that is
// itself currently running (i.e. has not yet yielded).
func (k *Kernel) Spawn(name string, fn func(p *Proc)) *Proc {
	p := &Proc{name: name, k: k, ch: make(chan wake, 1)}
	k.procs = append(k.procs, p)
	go func() {
		fn(p)
		k.yielded <- struct{}{}
	}()
	<-k.yielded
	return p
}

// push schedules an event for p at the given absolute simulated time,
// tagged with p's current token so that a later [Kernel.Interrupt] can
// invalidate it.
func (k *Kernel) push(p *Proc, at int64, interrupted bool) {
	k.seq++
	heap.Push(&k.events, &event{time: at, seq: k.seq, token: p.token, interrupted: interrupted, proc: p})
}

// yieldAndWait hands control back to the dispatch loop and blocks until
// the kernel resumes this process.
func (k *Kernel) yieldAndWait(p *Proc) bool {
	k.yielded <- struct{}{}
	w := <-p.ch
	return w.Interrupted
}

// Sleep suspends the calling process for delta microseconds and reports
// whether the wait was cut short by an [Kernel.Interrupt]. delta must be
// non-negative.
func (k *Kernel) Sleep(p *Proc, delta int64) bool {
	k.push(p, k.now+delta, false)
	return k.yieldAndWait(p)
}

// wakeNow schedules an immediate (same simulated instant) resumption of p,
// used by resource hand-off (lock release, queue preemption) rather than
// a process's own timeout.
func (k *Kernel) wakeNow(p *Proc, interrupted bool) {
	k.push(p, k.now, interrupted)
}

// Interrupt raises an asynchronous interrupted signal against p: any
// timeout p is currently counting down is invalidated, and p is instead
// resumed, at the current simulated time, with Interrupted set. p
// observes this on its next yield boundary, per spec.md §4.1/§5.
func (k *Kernel) Interrupt(p *Proc) {
	p.token++
	k.wakeNow(p, true)
}

// Wait blocks the calling process until some other code path calls
// [Kernel.wakeNow] against it (used by the channel arbiter's mutex
// waiters, which have no timeout of their own).
func (k *Kernel) Wait(p *Proc) bool {
	return k.yieldAndWait(p)
}

// RunUntil advances simulated time, firing ready events in
// (time, insertion-order) order, until the virtual clock reaches or
// would exceed horizon microseconds. Ties at the same timestamp are
// broken by FIFO insertion order, and every nondeterministic choice made
// by processes flows through a seeded [RNG], so two runs with identical
// seed and configuration are byte-identical (spec.md P6).
func (k *Kernel) RunUntil(horizon int64) {
	for k.events.Len() > 0 {
		next := k.events[0]
		if next.time > horizon {
			break
		}
		ev := heap.Pop(&k.events).(*event)
		if ev.token != ev.proc.token {
			// Stale: this process moved on (e.g. was interrupted again,
			// or already disposed of this timeout) since the event was
			// scheduled.
			continue
		}
		k.now = ev.time
		ev.proc.ch <- wake{Interrupted: ev.interrupted}
		<-k.yielded
	}
	if k.now < horizon {
		k.now = horizon
	}
}
