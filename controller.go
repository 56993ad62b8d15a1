package coexsim

//
// Dynamic contention-window controller
//

// CWAdjustment records one controller decision: the new CW bounds of
// both technologies, the fairness sample that triggered the change, and
// the airtime deltas the sample was computed from. The Reason field is a
// diagnostic the original implementation computed but never recorded.
type CWAdjustment struct {
	// Time is the simulated time, in microseconds, the adjustment fired.
	Time int64

	// WifiCWMin/WifiCWMax and NRUCWMin/NRUCWMax are the bounds in force
	// after the adjustment, broadcast to every node of each technology.
	WifiCWMin, WifiCWMax int64
	NRUCWMin, NRUCWMax   int64

	// Fairness is the two-technology Jain's index sample that triggered
	// this adjustment.
	Fairness float64

	// WifiAirtime and NRUAirtime are the per-interval data-airtime
	// deltas, in microseconds, the fairness sample was computed from.
	WifiAirtime, NRUAirtime int64

	// Reason names which technology's dominance triggered the change.
	Reason string
}

// Controller periodically samples per-technology aggregate throughput
// and retunes both technologies' contention windows to steer the
// two-technology Jain's fairness index toward a target, per spec.md
// §4.5. It owns the canonical CW bounds for each technology and
// broadcasts every change to the registered stations and gNBs.
type Controller struct {
	ch  *Channel
	cfg ControllerConfig

	wifiCWMin, wifiCWMax int64
	nruCWMin, nruCWMax   int64

	prevWifiAirtime, prevNRUAirtime int64

	History []CWAdjustment
}

// NewController creates a [Controller] seeded with each technology's
// starting CW bounds.
func NewController(ch *Channel, cfg ControllerConfig, wifi WifiConfig, nru NRUConfig) *Controller {
	return &Controller{
		ch:        ch,
		cfg:       cfg,
		wifiCWMin: wifi.CWMin,
		wifiCWMax: wifi.CWMax,
		nruCWMin:  nru.CWMin,
		nruCWMax:  nru.CWMax,
	}
}

// Run drives the controller's cooperative process body: wake up every
// MeasurementInterval, sample, and adjust.
func (c *Controller) Run(k *Kernel, p *Proc) {
	for {
		if intr := k.Sleep(p, c.cfg.MeasurementInterval); intr {
			continue
		}
		c.sample(k.Now())
	}
}

func (c *Controller) sample(now int64) {
	wifiAirtime := sumAirtime(c.ch.AirtimeDataWifi)
	nruAirtime := sumAirtime(c.ch.AirtimeDataNRU)
	dWifi := wifiAirtime - c.prevWifiAirtime
	dNRU := nruAirtime - c.prevNRUAirtime
	c.prevWifiAirtime, c.prevNRUAirtime = wifiAirtime, nruAirtime

	fairness := jainIndex([]float64{float64(dWifi), float64(dNRU)})
	if fairness >= c.cfg.TargetFairness {
		return
	}

	var reason string
	switch {
	case float64(dWifi) > 1.1*float64(dNRU):
		reason = "wifi-dominant"
		c.retune(&c.wifiCWMin, &c.wifiCWMax, c.cfg.AdjustmentStep)
		c.retune(&c.nruCWMin, &c.nruCWMax, -c.cfg.AdjustmentStep)
	case float64(dNRU) > 1.1*float64(dWifi):
		reason = "nru-dominant"
		c.retune(&c.nruCWMin, &c.nruCWMax, c.cfg.AdjustmentStep)
		c.retune(&c.wifiCWMin, &c.wifiCWMax, -c.cfg.AdjustmentStep)
	default:
		// Below target but neither technology dominates by the 1.1x
		// threshold: leave both windows alone.
		return
	}

	for _, s := range c.ch.Stations {
		s.SetContentionWindow(c.wifiCWMin, c.wifiCWMax)
	}
	for _, g := range c.ch.Gnbs {
		g.SetContentionWindow(c.nruCWMin, c.nruCWMax)
	}

	c.History = append(c.History, CWAdjustment{
		Time:        now,
		WifiCWMin:   c.wifiCWMin,
		WifiCWMax:   c.wifiCWMax,
		NRUCWMin:    c.nruCWMin,
		NRUCWMax:    c.nruCWMax,
		Fairness:    fairness,
		WifiAirtime: dWifi,
		NRUAirtime:  dNRU,
		Reason:      reason,
	})
}

// retune nudges one technology's CW_min by delta, clamped to the
// controller's bounds, and rederives CW_max as min(4*CW_min, MaxCW).
func (c *Controller) retune(cwMin, cwMax *int64, delta int64) {
	newMin := clampInt64(*cwMin+delta, c.cfg.MinCW, c.cfg.MaxCW)
	newMax := newMin * 4
	if newMax > c.cfg.MaxCW {
		newMax = c.cfg.MaxCW
	}
	*cwMin, *cwMax = newMin, newMax
}

func sumAirtime(m map[string]int64) int64 {
	var total int64
	for _, v := range m {
		total += v
	}
	return total
}

func clampInt64(v, lo, hi int64) int64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// jainIndex computes Jain's fairness index over xs: (sum xs)^2 /
// (n * sum xs^2), the standard measure spec.md §4.6 uses both for the
// controller's two-technology sample and for the per-node fairness
// reported in a [RunResult]. An all-zero input is maximally fair.
func jainIndex(xs []float64) float64 {
	if len(xs) == 0 {
		return 1
	}
	var sum, sumSq float64
	for _, x := range xs {
		sum += x
		sumSq += x * x
	}
	if sumSq == 0 {
		return 1
	}
	return (sum * sum) / (float64(len(xs)) * sumSq)
}
