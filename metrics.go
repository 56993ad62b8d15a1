package coexsim

//
// Metrics aggregation
//

import (
	"github.com/montanaflynn/stats"
)

// RunResult is the per-run output record of spec.md §6: collision
// probability, throughput, latency, fairness, SINR, and channel
// occupancy/efficiency, per technology and combined.
type RunResult struct {
	Seed            int64
	SimMicros       int64
	NumWifiStations int
	NumNRUGnbs      int

	WifiCWMin, WifiCWMax int64
	NRUCWMin, NRUCWMax   int64

	WifiSucceeded, WifiFailed int64
	NRUSucceeded, NRUFailed   int64

	// WifiPLR and NRUPLR are the fraction of transmission attempts that
	// collided, per technology.
	WifiPLR float64
	NRUPLR  float64

	// WifiThroughputMbps and NRUThroughputMbps are successful data
	// airtime converted to a nominal bit rate.
	WifiThroughputMbps  float64
	NRUThroughputMbps   float64
	TotalThroughputMbps float64

	WifiAvgLatencyUs    float64
	NRUAvgLatencyUs     float64
	WifiLatencyStdDevUs float64
	NRULatencyStdDevUs  float64

	WifiAvgSINRDb float64
	NRUAvgSINRDb  float64

	// WifiOccupancy and NRUOccupancy are the fraction of the run each
	// technology spent occupying the medium, data and control airtime
	// both included.
	WifiOccupancy     float64
	NRUOccupancy      float64
	CombinedOccupancy float64

	// WifiEfficiency and NRUEfficiency count data airtime only, as a
	// fraction of the run: occupancy minus the ACK/reservation-signal
	// overhead.
	WifiEfficiency  float64
	NRUEfficiency   float64
	TotalEfficiency float64

	// TraditionalFairness is Jain's index over the two technologies'
	// normalized channel occupancy; JainFairness is the same index over
	// their throughputs; JainFairnessPerNode is Jain's index over every
	// individual node's throughput.
	TraditionalFairness float64
	JainFairness        float64
	JainFairnessPerNode float64

	// JointMetric is TraditionalFairness times CombinedOccupancy, a
	// single scalar combining fairness and channel use.
	JointMetric float64

	// WifiAccessDelayUs and NRUAccessDelayUs are the heuristic estimated
	// access delays of spec.md §4.6, derived from each technology's
	// final CW_min and collision probability.
	WifiAccessDelayUs float64
	NRUAccessDelayUs  float64

	ControllerHistory []CWAdjustment
	BackoffHistogram  map[int64]int64
}

// collect builds a [RunResult] from a finished [Scenario] run.
func collect(cfg ScenarioConfig, horizon int64, ch *Channel, ctl *Controller) *RunResult {
	r := &RunResult{
		Seed:             cfg.Seed,
		SimMicros:        horizon,
		NumWifiStations:  cfg.NumWifiStations,
		NumNRUGnbs:       cfg.NumNRUGnbs,
		WifiSucceeded:    ch.SucceededWifi,
		WifiFailed:       ch.FailedWifi,
		NRUSucceeded:     ch.SucceededNRU,
		NRUFailed:        ch.FailedNRU,
		BackoffHistogram: ch.BackoffHistogram,
	}

	if ctl != nil {
		r.WifiCWMin, r.WifiCWMax = ctl.wifiCWMin, ctl.wifiCWMax
		r.NRUCWMin, r.NRUCWMax = ctl.nruCWMin, ctl.nruCWMax
		r.ControllerHistory = ctl.History
	} else {
		r.WifiCWMin, r.WifiCWMax = cfg.Wifi.CWMin, cfg.Wifi.CWMax
		r.NRUCWMin, r.NRUCWMax = cfg.NRU.CWMin, cfg.NRU.CWMax
	}

	if n := r.WifiSucceeded + r.WifiFailed; n > 0 {
		r.WifiPLR = float64(r.WifiFailed) / float64(n)
	}
	if n := r.NRUSucceeded + r.NRUFailed; n > 0 {
		r.NRUPLR = float64(r.NRUFailed) / float64(n)
	}

	wifiDataAirtime := sumAirtime(ch.AirtimeDataWifi)
	wifiCtrlAirtime := sumAirtime(ch.AirtimeCtrlWifi)
	nruDataAirtime := sumAirtime(ch.AirtimeDataNRU)
	nruCtrlAirtime := sumAirtime(ch.AirtimeCtrlNRU)

	if horizon > 0 {
		r.WifiOccupancy = float64(wifiDataAirtime+wifiCtrlAirtime) / float64(horizon)
		r.NRUOccupancy = float64(nruDataAirtime+nruCtrlAirtime) / float64(horizon)
		r.CombinedOccupancy = r.WifiOccupancy + r.NRUOccupancy
		r.WifiEfficiency = float64(wifiDataAirtime) / float64(horizon)
		r.NRUEfficiency = float64(nruDataAirtime) / float64(horizon)
		r.TotalEfficiency = r.WifiEfficiency + r.NRUEfficiency
		r.WifiThroughputMbps = r.WifiEfficiency * cfg.NominalWifiMbps
		r.NRUThroughputMbps = r.NRUEfficiency * cfg.NominalNRUMbps
		r.TotalThroughputMbps = r.WifiThroughputMbps + r.NRUThroughputMbps
	}

	var wifiLatencies, nruLatencies, wifiSINR, nruSINR []float64
	var allNodeThroughput []float64

	for _, name := range ch.stationOrder {
		s := ch.Stations[name]
		for _, l := range s.Latencies {
			wifiLatencies = append(wifiLatencies, float64(l))
		}
		for _, v := range s.SINRSamples {
			wifiSINR = append(wifiSINR, v)
		}
		var t float64
		if horizon > 0 {
			t = float64(ch.AirtimeDataWifi[s.Name()]) / float64(horizon) * cfg.NominalWifiMbps
		}
		allNodeThroughput = append(allNodeThroughput, t)
	}
	for _, name := range ch.gnbOrder {
		g := ch.Gnbs[name]
		for _, l := range g.Latencies {
			nruLatencies = append(nruLatencies, float64(l))
		}
		for _, v := range g.SINRSamples {
			nruSINR = append(nruSINR, v)
		}
		var t float64
		if horizon > 0 {
			t = float64(ch.AirtimeDataNRU[g.Name()]) / float64(horizon) * cfg.NominalNRUMbps
		}
		allNodeThroughput = append(allNodeThroughput, t)
	}

	r.WifiAvgLatencyUs, r.WifiLatencyStdDevUs = meanStdDev(wifiLatencies)
	r.NRUAvgLatencyUs, r.NRULatencyStdDevUs = meanStdDev(nruLatencies)
	r.WifiAvgSINRDb, _ = meanStdDev(wifiSINR)
	r.NRUAvgSINRDb, _ = meanStdDev(nruSINR)

	r.TraditionalFairness = jainIndex([]float64{r.WifiOccupancy, r.NRUOccupancy})
	r.JainFairness = jainIndex([]float64{r.WifiThroughputMbps, r.NRUThroughputMbps})
	r.JainFairnessPerNode = jainIndex(allNodeThroughput)
	r.JointMetric = r.TraditionalFairness * r.CombinedOccupancy

	r.WifiAccessDelayUs = (float64(r.WifiCWMin) / 2) * float64(cfg.Wifi.SlotTime) * (1 + 2*r.WifiPLR)
	nruBase := (float64(r.NRUCWMin)/2)*float64(cfg.NRU.ObsSlot) + float64(cfg.NRU.prioritizationPeriod())
	r.NRUAccessDelayUs = nruBase * (1 + 2*r.NRUPLR)

	return r
}

// meanStdDev reports the mean and (population) standard deviation of
// xs, using montanaflynn/stats so the run report doesn't hand-roll its
// own numerically naive variance accumulator.
func meanStdDev(xs []float64) (mean, stdDev float64) {
	if len(xs) == 0 {
		return 0, 0
	}
	mean, _ = stats.Mean(stats.Float64Data(xs))
	stdDev, _ = stats.StandardDeviation(stats.Float64Data(xs))
	return mean, stdDev
}
