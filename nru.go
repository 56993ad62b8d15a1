package coexsim

//
// NR-U LBT Cat-4 gNB
//

// NRUGnb is one 5G NR-U Cat-4 LBT contender on the shared [Channel]. It
// defers for a prioritization period plus a freezable backoff counted in
// observation slots, then transmits for up to MCOT once it reaches its
// synchronization slot boundary, per spec.md §4.4. In gap-synchronized
// mode it waits out the gap to the next boundary with the medium idle;
// in reservation-signal mode it instead fills that gap with a
// reservation signal so it need not re-contend.
type NRUGnb struct {
	name string
	cfg  NRUConfig
	ch   *Channel
	rng  RNG
	log  Logger

	gapMode bool

	cwMin, cwMax int64 // mutable: the Controller may retune these

	// desync is this gNB's fixed offset into the synchronization grid,
	// drawn once at construction (spec.md §4.4's per-gNB desync draw).
	desync int64

	packetID      int
	Transmissions []Transmission
	Latencies     []int64

	// SINRSamples records the estimated SINR, in dB, at the moment each
	// successful transmission completed.
	SINRSamples []float64
}

// NewNRUGnb creates a gNB named name, contending on ch in gapMode (true
// for gap-synchronized, false for reservation-signal).
func NewNRUGnb(name string, cfg NRUConfig, ch *Channel, rng RNG, log Logger, gapMode bool) *NRUGnb {
	if log == nil {
		log = &nullLogger{}
	}
	return &NRUGnb{
		name:    name,
		cfg:     cfg,
		ch:      ch,
		rng:     rng,
		log:     log,
		gapMode: gapMode,
		cwMin:   cfg.CWMin,
		cwMax:   cfg.CWMax,
		desync:  uniform(rng, cfg.MinSyncDesync, cfg.MaxSyncDesync),
	}
}

// Name implements sinrNode.
func (g *NRUGnb) Name() string { return g.name }

// TxPowerDBm implements sinrNode.
func (g *NRUGnb) TxPowerDBm() float64 { return g.cfg.TxPowerDBm }

// SetContentionWindow retunes the gNB's CW bounds, used by [Controller]
// to steer fairness (spec.md §4.5).
func (g *NRUGnb) SetContentionWindow(cwMin, cwMax int64) {
	g.cwMin, g.cwMax = cwMin, cwMax
}

// Run drives the gNB's cooperative process body.
func (g *NRUGnb) Run(k *Kernel, p *Proc) {
	for {
		g.packetID++
		genTime := k.Now()
		retries := 0
		cw := g.cwMin

		for {
			g.contend(k, p, cw)

			rs, ok := g.transmit(k, p)
			if ok {
				total := g.cfg.mcotMicros()
				g.Transmissions = append(g.Transmissions, Transmission{
					Total:   total,
					GnbName: g.name,
					Start:   k.Now() - total,
					Airtime: total - rs,
					RS:      rs,
					Retries: retries,
					End:     k.Now(),
				})
				g.Latencies = append(g.Latencies, k.Now()-genTime)
				break
			}

			retries++
			if retries > g.cfg.RLimit {
				g.log.Debugf("%s: dropping transmission after %d retries", g.name, retries)
				break
			}
			cw = nextCW(cw, retries, g.cwMin, g.cwMax)
		}
	}
}

// contend draws a backoff in observation slots and counts down the
// prioritization period plus that backoff as one freezable residue, per
// spec.md §4.4. In gap mode the dead air to the sync grid is waited out
// first, sized from the undecremented residue, so the countdown itself
// is what lands on the boundary; an interruption mid-countdown
// recomputes the residue and restarts the whole sequence, gap included.
func (g *NRUGnb) contend(k *Kernel, p *Proc, cw int64) {
	slots := uniform(g.rng, 0, cw)
	g.ch.recordBackoffDraw(slots)
	pp := g.cfg.prioritizationPeriod()
	backoff := slots*g.cfg.ObsSlot + pp

	for {
		g.ch.waitLockIdle(k, p)

		if g.gapMode {
			// Advance the target boundary until the residue fits before
			// it, fill the slack with dead air, and recheck that the
			// medium stayed idle through the gap.
			timeToBoundary := g.gapToBoundary(k.Now())
			for backoff >= timeToBoundary {
				timeToBoundary += g.cfg.SyncSlotDuration
			}
			gap := timeToBoundary - backoff
			if gap < 0 {
				panic("coexsim: negative gap time")
			}
			if gap > 0 {
				k.Sleep(p, gap)
			}
			if !g.ch.lockIdle() {
				continue
			}
		}

		g.ch.addBackoffNRU(p)
		start := k.Now()
		intr := k.Sleep(p, backoff)
		g.ch.removeBackoff(p)
		if !intr {
			return
		}

		// Frozen mid-countdown: charge the prioritization period plus
		// every fully elapsed slot, then re-arm the PP for the retry.
		elapsed := k.Now() - start
		if elapsed <= pp {
			backoff -= pp
		} else {
			slotsWaited := (elapsed - pp) / g.cfg.ObsSlot
			backoff -= slotsWaited*g.cfg.ObsSlot + pp
		}
		if backoff < 0 {
			backoff = 0
		}
		backoff += pp
	}
}

// gapToBoundary reports how long, from now, until this gNB's next
// synchronization slot boundary.
func (g *NRUGnb) gapToBoundary(now int64) int64 {
	mod := (now - g.desync) % g.cfg.SyncSlotDuration
	if mod < 0 {
		mod += g.cfg.SyncSlotDuration
	}
	if mod == 0 {
		return 0
	}
	return g.cfg.SyncSlotDuration - mod
}

// transmit occupies the medium for MCOT and reports the
// reservation-signal duration used (if any) and whether the
// transmission completed without being preempted and without colliding
// with another occupant. Like a [WifiStation], a
// gNB that loses the shared tx_queue race still joins tx_nru and rides
// out the full transmission duration without ever touching tx_lock, so
// the collision rule sees it (spec.md §4.2).
func (g *NRUGnb) transmit(k *Kernel, p *Proc) (rs int64, ok bool) {
	// In gap mode the countdown already ended on a boundary; in
	// reservation-signal mode the distance to the next one is filled
	// with RS instead.
	if !g.gapMode {
		rs = g.gapToBoundary(k.Now())
	}

	// The reservation signal eats into the occupancy bound: total time on
	// air is always MCOT, data is whatever the RS prefix leaves of it.
	total := g.cfg.mcotMicros()
	priority := bigNum - total
	won := g.ch.contendQueue(k, p, priority)
	g.ch.beginTxNRU(g.name)
	if won {
		won = g.ch.acquireLock(k, p)
	}
	if won {
		g.ch.interruptBackoffLists(k)
		g.ch.clearBackoffLists()
	}

	if intr := k.Sleep(p, total); intr {
		// Preempted mid-transmission: give the lock back right away so
		// the preemptor can start, then ride out the duration without it.
		if won {
			g.ch.releaseLock(k)
		}
		k.Sleep(p, total)
		g.ch.endTx(g.name)
		g.ch.FailedNRU++
		return rs, false
	}

	sinr := g.ch.CalculateSINR(g, g.ch.allSinrNodes())
	collided := g.ch.endTx(g.name)
	if !collided {
		g.SINRSamples = append(g.SINRSamples, sinr)
		g.ch.AirtimeDataNRU[g.name] += total - rs
		if rs > 0 {
			g.ch.AirtimeCtrlNRU[g.name] += rs
		}
		g.ch.SucceededNRU++
		if won {
			g.ch.releaseLock(k)
		}
		return rs, true
	}

	g.ch.FailedNRU++
	if won {
		g.ch.releaseLock(k)
	}
	return rs, false
}
