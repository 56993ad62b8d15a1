package coexsim

//
// Channel Arbiter
//

import "math"

// bigNum mirrors the original simulator's priority offset: tx_queue
// priorities are bigNum-frameTime, so a longer pending transmission
// (smaller priority value, in SimPy's lower-wins convention) outranks a
// shorter one.
const bigNum int64 = 100000

// sinrNode is the view of a [WifiStation] or [NRUGnb] the channel needs
// to estimate SINR.
type sinrNode interface {
	Name() string
	TxPowerDBm() float64
}

// Channel is the shared-medium arbiter described in spec.md §4.2: at
// most one node holds tx_lock at a time, and tx_queue is a capacity-1
// priority-preemptive resource that awards the medium to whichever
// simultaneous contender has the longest pending transmission.
type Channel struct {
	Logger Logger

	// NoiseFloorDBm is the channel noise floor used by CalculateSINR.
	NoiseFloorDBm float64

	lockHolder  *Proc
	lockWaiters []*Proc

	queueHolder         *Proc
	queueHolderPriority int64

	txWifi        []string
	txNRU         []string
	epochCollided bool

	backoffWifi []*Proc
	backoffNRU  []*Proc

	AirtimeDataWifi map[string]int64
	AirtimeCtrlWifi map[string]int64
	AirtimeDataNRU  map[string]int64
	AirtimeCtrlNRU  map[string]int64

	SucceededWifi int64
	FailedWifi    int64
	SucceededNRU  int64
	FailedNRU     int64

	Stations map[string]*WifiStation
	Gnbs     map[string]*NRUGnb

	// stationOrder and gnbOrder record registration order, so every
	// iteration over the population (SINR interference sums, metrics
	// aggregation) is reproducible across runs with the same seed.
	stationOrder []string
	gnbOrder     []string

	// BackoffHistogram is a supplemented diagnostic (see SPEC_FULL.md §D):
	// counts of every drawn backoff value, across both technologies.
	BackoffHistogram map[int64]int64
}

// NewChannel creates an empty [Channel] with the given noise floor.
func NewChannel(logger Logger, noiseFloorDBm float64) *Channel {
	if logger == nil {
		logger = &nullLogger{}
	}
	return &Channel{
		Logger:          logger,
		NoiseFloorDBm:   noiseFloorDBm,
		AirtimeDataWifi: make(map[string]int64),
		AirtimeCtrlWifi: make(map[string]int64),
		AirtimeDataNRU:  make(map[string]int64),
		AirtimeCtrlNRU:  make(map[string]int64),
		Stations:        make(map[string]*WifiStation),
		Gnbs:            make(map[string]*NRUGnb),
	}
}

// RegisterStation adds s to the channel's registry, used both for
// airtime bookkeeping and for the dynamic CW controller's broadcasts.
func (ch *Channel) RegisterStation(s *WifiStation) {
	ch.Stations[s.Name()] = s
	ch.stationOrder = append(ch.stationOrder, s.Name())
	ch.AirtimeDataWifi[s.Name()] = 0
	ch.AirtimeCtrlWifi[s.Name()] = 0
}

// RegisterGnb adds g to the channel's registry.
func (ch *Channel) RegisterGnb(g *NRUGnb) {
	ch.Gnbs[g.Name()] = g
	ch.gnbOrder = append(ch.gnbOrder, g.Name())
	ch.AirtimeDataNRU[g.Name()] = 0
	ch.AirtimeCtrlNRU[g.Name()] = 0
}

func (ch *Channel) recordBackoffDraw(v int64) {
	if ch.BackoffHistogram == nil {
		ch.BackoffHistogram = make(map[int64]int64)
	}
	ch.BackoffHistogram[v]++
}

// acquireLock blocks the calling process until tx_lock is free, then
// takes it, and reports whether it did. Waiters are woken in FIFO
// order; a waiter that finds the lock taken again by the time it runs
// simply re-queues. A waiter that lost the tx_queue to a later, higher-
// priority contender while blocked here must not take the lock on wake:
// every pass re-validates that p still holds the queue (when anyone
// does) and bails out superseded, leaving the lock to the real winner.
func (ch *Channel) acquireLock(k *Kernel, p *Proc) bool {
	for ch.lockHolder != nil {
		if ch.queueHolder != nil && ch.queueHolder != p {
			return false
		}
		ch.lockWaiters = append(ch.lockWaiters, p)
		k.Wait(p)
		ch.lockWaiters = removeProc(ch.lockWaiters, p)
	}
	if ch.queueHolder != nil && ch.queueHolder != p {
		return false
	}
	ch.lockHolder = p
	return true
}

// lockIdle reports whether tx_lock is currently free.
func (ch *Channel) lockIdle() bool {
	return ch.lockHolder == nil
}

// waitLockIdle blocks the calling process until tx_lock is free, without
// taking it (used by the DIFS/backoff wait and the NR-U gap check).
func (ch *Channel) waitLockIdle(k *Kernel, p *Proc) {
	for ch.lockHolder != nil {
		ch.lockWaiters = append(ch.lockWaiters, p)
		k.Wait(p)
		ch.lockWaiters = removeProc(ch.lockWaiters, p)
	}
}

// releaseLock frees tx_lock and wakes every waiter: idle-watchers all
// need to see the medium go free, and would-be holders re-contend in
// FIFO wake order, the first of them taking the lock and the rest
// re-queueing.
func (ch *Channel) releaseLock(k *Kernel) {
	ch.lockHolder = nil
	waiters := ch.lockWaiters
	ch.lockWaiters = nil
	for _, w := range waiters {
		k.wakeNow(w, false)
	}
}

// contendQueue implements the tx_queue priority-preemptive race of
// spec.md §4.2/§4.3: the first contender provisionally wins and keeps the
// queue until its busy period ends (see endTx); a later, higher-priority
// (smaller value) contender within that period preempts it, interrupting
// the loser.
func (ch *Channel) contendQueue(k *Kernel, p *Proc, priority int64) bool {
	if ch.queueHolder == nil {
		ch.queueHolder = p
		ch.queueHolderPriority = priority
		return true
	}
	if priority < ch.queueHolderPriority {
		loser := ch.queueHolder
		ch.queueHolder = p
		ch.queueHolderPriority = priority
		k.Interrupt(loser)
		return true
	}
	return false
}

// resetQueue discards stale priority state, as spec.md §4.2 requires
// after every collision.
func (ch *Channel) resetQueue() {
	ch.queueHolder = nil
	ch.queueHolderPriority = 0
}

// addBackoffWifi registers p as counting down a Wi-Fi backoff.
func (ch *Channel) addBackoffWifi(p *Proc) { ch.backoffWifi = append(ch.backoffWifi, p) }

// addBackoffNRU registers p as counting down an NR-U backoff.
func (ch *Channel) addBackoffNRU(p *Proc) { ch.backoffNRU = append(ch.backoffNRU, p) }

// removeBackoff removes p from whichever backoff list it is in, called
// when a countdown elapses uninterrupted.
func (ch *Channel) removeBackoff(p *Proc) {
	ch.backoffWifi = removeProc(ch.backoffWifi, p)
	ch.backoffNRU = removeProc(ch.backoffNRU, p)
}

func removeProc(list []*Proc, p *Proc) []*Proc {
	for i, q := range list {
		if q == p {
			return append(list[:i], list[i+1:]...)
		}
	}
	return list
}

// interruptBackoffLists broadcasts an interrupt to every process counting
// down a backoff, in both technologies. Must be called, per spec.md §5,
// after the transmitter has joined its tx list and before its frame-
// duration timeout starts.
func (ch *Channel) interruptBackoffLists(k *Kernel) {
	for _, w := range ch.backoffWifi {
		k.Interrupt(w)
	}
	for _, n := range ch.backoffNRU {
		k.Interrupt(n)
	}
}

// clearBackoffLists drops both backoff lists, once the medium has gone
// busy and every waiter has been told to recompute its residue.
func (ch *Channel) clearBackoffLists() {
	ch.backoffWifi = nil
	ch.backoffNRU = nil
}

// beginTxWifi/beginTxNRU/endTx/isTransmitting track who is currently
// occupying the medium, for the collision rule and for SINR. A busy
// period starts when the medium goes from empty to occupied and ends
// when the last occupant leaves; spec.md §4.2's collision rule is
// evaluated over that whole busy period, not just at its start, so a
// late joiner still spoils every other occupant's frame.

func (ch *Channel) beginTxWifi(name string) {
	if len(ch.txWifi)+len(ch.txNRU) > 0 {
		ch.epochCollided = true
	}
	ch.txWifi = append(ch.txWifi, name)
}

func (ch *Channel) beginTxNRU(name string) {
	if len(ch.txWifi)+len(ch.txNRU) > 0 {
		ch.epochCollided = true
	}
	ch.txNRU = append(ch.txNRU, name)
}

func (ch *Channel) isTransmitting(name string) bool {
	for _, n := range ch.txWifi {
		if n == name {
			return true
		}
	}
	for _, n := range ch.txNRU {
		if n == name {
			return true
		}
	}
	return false
}

// endTx removes name from the busy period and reports whether its
// transmission collided with some other occupant at any point during
// that period.
func (ch *Channel) endTx(name string) bool {
	collided := ch.epochCollided
	ch.txWifi = removeName(ch.txWifi, name)
	ch.txNRU = removeName(ch.txNRU, name)
	if len(ch.txWifi)+len(ch.txNRU) == 0 {
		ch.epochCollided = false
		ch.resetQueue()
	}
	return collided
}

func removeName(list []string, name string) []string {
	for i, n := range list {
		if n == name {
			return append(list[:i], list[i+1:]...)
		}
	}
	return list
}

// allSinrNodes returns every registered station and gNB as a [sinrNode],
// the view [CalculateSINR] needs to account for interference. Nodes come
// out in registration order, so the interference sum is reproducible.
func (ch *Channel) allSinrNodes() []sinrNode {
	nodes := make([]sinrNode, 0, len(ch.Stations)+len(ch.Gnbs))
	for _, name := range ch.stationOrder {
		nodes = append(nodes, ch.Stations[name])
	}
	for _, name := range ch.gnbOrder {
		nodes = append(nodes, ch.Gnbs[name])
	}
	return nodes
}

// CalculateSINR estimates the SINR, in dB, of node against interference
// from every other currently-transmitting node in all, per spec.md §4.6.
func (ch *Channel) CalculateSINR(node sinrNode, all []sinrNode) float64 {
	signal := math.Pow(10, node.TxPowerDBm()/10)
	var interference float64
	for _, other := range all {
		if other.Name() == node.Name() {
			continue
		}
		if ch.isTransmitting(other.Name()) {
			interference += math.Pow(10, other.TxPowerDBm()/10)
		}
	}
	noise := math.Pow(10, ch.NoiseFloorDBm/10)
	total := interference + noise
	if total <= 0 {
		return 100
	}
	return 10 * math.Log10(signal/total)
}
