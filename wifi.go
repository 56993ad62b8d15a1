package coexsim

//
// Wi-Fi DCF station
//

// WifiStation is one 802.11 DCF contender on the shared [Channel]: it
// generates a fresh frame, defers to the medium for DIFS plus a binary
// exponential backoff, transmits, and waits for the implicit ACK
// judgement, retrying with a doubled contention window on failure up to
// RLimit times, per spec.md §4.3.
type WifiStation struct {
	name string
	cfg  WifiConfig
	ch   *Channel
	rng  RNG
	log  Logger

	cwMin, cwMax int64 // mutable: the Controller may retune these

	packetID int
	queue    []Packet
	Frames   []Frame

	// Latencies records per-frame queue-to-delivery latency, in
	// microseconds, one entry per frame that was eventually delivered
	// (spec.md §D: supplemented per-packet latency tracking).
	Latencies []int64

	// SINRSamples records the estimated SINR, in dB, at the moment each
	// successful transmission completed.
	SINRSamples []float64
}

// NewWifiStation creates a station named name, contending on ch.
func NewWifiStation(name string, cfg WifiConfig, ch *Channel, rng RNG, log Logger) *WifiStation {
	if log == nil {
		log = &nullLogger{}
	}
	return &WifiStation{
		name:  name,
		cfg:   cfg,
		ch:    ch,
		rng:   rng,
		log:   log,
		cwMin: cfg.CWMin,
		cwMax: cfg.CWMax,
	}
}

// Name implements sinrNode.
func (s *WifiStation) Name() string { return s.name }

// TxPowerDBm implements sinrNode.
func (s *WifiStation) TxPowerDBm() float64 { return s.cfg.TxPowerDBm }

// SetContentionWindow retunes the station's CW bounds, used by
// [Controller] to steer fairness (spec.md §4.5).
func (s *WifiStation) SetContentionWindow(cwMin, cwMax int64) {
	s.cwMin, s.cwMax = cwMin, cwMax
}

// Run drives the station's cooperative process body: an unbounded loop
// of generate-contend-transmit-record, until the kernel's horizon is
// reached and the process is torn down along with everything else.
func (s *WifiStation) Run(k *Kernel, p *Proc) {
	for {
		s.packetID++
		s.queue = append(s.queue, Packet{
			ID:          s.packetID,
			GenTime:     k.Now(),
			PayloadSize: s.cfg.DataSize,
		})
		retries := 0
		cw := s.cwMin

		for {
			s.backoff(k, p, cw)

			ok := s.transmit(k, p)
			if ok {
				pkt := s.queue[0]
				s.queue = s.queue[1:]
				ft := s.cfg.frameTime()
				dataEnd := k.Now() - s.cfg.AckTime
				s.Frames = append(s.Frames, Frame{
					FrameTime:   ft,
					StationName: s.name,
					DataSize:    pkt.PayloadSize,
					GenTime:     pkt.GenTime,
					Retries:     retries,
					Start:       dataEnd - ft,
					End:         dataEnd,
				})
				s.Latencies = append(s.Latencies, k.Now()-pkt.GenTime)
				break
			}

			retries++
			if retries > s.cfg.RLimit {
				s.log.Debugf("%s: dropping frame after %d retries", s.name, retries)
				s.queue = s.queue[1:]
				break
			}
			cw = nextCW(cw, retries, s.cwMin, s.cwMax)
		}
	}
}

// backoff waits for DIFS of continuous idle medium, then counts down a
// freezable binary-exponential backoff, per spec.md §4.3 steps 1-4.
func (s *WifiStation) backoff(k *Kernel, p *Proc, cw int64) {
	remaining := uniform(s.rng, 0, cw)
	s.ch.recordBackoffDraw(remaining)

	for {
		s.ch.waitLockIdle(k, p)

		s.ch.addBackoffWifi(p)
		start := k.Now()
		intr := k.Sleep(p, s.cfg.DIFS+remaining*s.cfg.SlotTime)
		s.ch.removeBackoff(p)
		if !intr {
			remaining = 0
			break
		}
		elapsedSlots := (k.Now() - start - s.cfg.DIFS) / s.cfg.SlotTime
		if elapsedSlots > 0 {
			remaining -= elapsedSlots
		}
		if remaining < 0 {
			remaining = 0
		}
	}
}

// transmit races the tx_queue for the right to actually hold tx_lock,
// then occupies the medium for one frame duration and reports whether
// the frame was delivered without collision, per spec.md §4.3's
// "Transmit" paragraph: a station that loses the tx_queue race still
// joins tx_wifi and rides out the full frame duration "talking into the
// void" so the collision rule (spec.md §4.2) sees every simultaneous
// contender, it just never touches tx_lock. A winner that is itself
// later preempted (spec.md §9(c)) releases tx_lock the instant the
// preemption lands and re-waits its own full frame duration without it,
// rather than a recomputed remainder, matching the original's blanket
// interrupt handler.
func (s *WifiStation) transmit(k *Kernel, p *Proc) bool {
	ft := s.cfg.frameTime()
	priority := bigNum - ft
	won := s.ch.contendQueue(k, p, priority)
	s.ch.beginTxWifi(s.name)
	if won {
		won = s.ch.acquireLock(k, p)
	}
	if won {
		s.ch.interruptBackoffLists(k)
		s.ch.clearBackoffLists()
	}

	if intr := k.Sleep(p, ft); intr {
		// Preempted mid-frame: give the lock back right away so the
		// preemptor can start, then ride out the frame without it.
		if won {
			s.ch.releaseLock(k)
		}
		k.Sleep(p, ft)
		s.ch.endTx(s.name)
		s.ch.FailedWifi++
		k.Sleep(p, s.cfg.AckTimeout)
		return false
	}

	sinr := s.ch.CalculateSINR(s, s.ch.allSinrNodes())
	collided := s.ch.endTx(s.name)
	if !collided {
		s.SINRSamples = append(s.SINRSamples, sinr)
		s.ch.AirtimeDataWifi[s.name] += ft
		s.ch.AirtimeCtrlWifi[s.name] += s.cfg.AckTime
		k.Sleep(p, s.cfg.AckTime)
		s.ch.SucceededWifi++
		if won {
			s.ch.releaseLock(k)
		}
		return true
	}

	s.ch.FailedWifi++
	k.Sleep(p, s.cfg.AckTimeout)
	if won {
		s.ch.releaseLock(k)
	}
	return false
}

// nextCW applies binary exponential backoff, per spec.md §4.3: the
// window doubles (minus one) on every retry, clamped to cwMax.
func nextCW(cw int64, retries int, cwMin, cwMax int64) int64 {
	upper := int64(1)<<uint(retries)*(cwMin+1) - 1
	if upper > cwMax {
		upper = cwMax
	}
	if upper < cwMin {
		upper = cwMin
	}
	return upper
}
