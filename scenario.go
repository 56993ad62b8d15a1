package coexsim

//
// Scenario assembly and sweeps
//

import (
	"fmt"
	"strconv"
	"strings"
)

// Scenario wires a [Kernel], a [Channel], a population of [WifiStation]
// and [NRUGnb] processes, and an optional [Controller] into one runnable
// simulation, per spec.md §6.
type Scenario struct {
	cfg     ScenarioConfig
	log     Logger
	kernel  *Kernel
	channel *Channel
	ctl     *Controller
}

// NewScenario validates cfg and assembles a [Scenario] ready to [Scenario.Run].
func NewScenario(cfg ScenarioConfig, log Logger) (*Scenario, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = &nullLogger{}
	}
	return &Scenario{cfg: cfg, log: log}, nil
}

// Run executes the scenario to completion and returns its [RunResult].
// Every call re-assembles the kernel, channel, and population from
// scratch, so a Scenario can be run more than once.
func (sc *Scenario) Run() (*RunResult, error) {
	rng := NewRNG(sc.cfg.Seed)
	sc.kernel = NewKernel()
	sc.channel = NewChannel(sc.log, sc.cfg.NoiseFloorDBm)

	for i := 0; i < sc.cfg.NumWifiStations; i++ {
		name := fmt.Sprintf("wifi-%d", i)
		station := NewWifiStation(name, sc.cfg.Wifi, sc.channel, rng, sc.log)
		sc.channel.RegisterStation(station)
		sc.kernel.Spawn(name, func(p *Proc) { station.Run(sc.kernel, p) })
	}

	for i := 0; i < sc.cfg.NumNRUGnbs; i++ {
		name := fmt.Sprintf("nru-%d", i)
		gnb := NewNRUGnb(name, sc.cfg.NRU, sc.channel, rng, sc.log, sc.cfg.GapMode)
		sc.channel.RegisterGnb(gnb)
		sc.kernel.Spawn(name, func(p *Proc) { gnb.Run(sc.kernel, p) })
	}

	if sc.cfg.Controller.Enabled {
		sc.ctl = NewController(sc.channel, sc.cfg.Controller, sc.cfg.Wifi, sc.cfg.NRU)
		sc.kernel.Spawn("controller", func(p *Proc) { sc.ctl.Run(sc.kernel, p) })
	}

	horizon := int64(sc.cfg.SimSeconds * 1e6)
	sc.kernel.RunUntil(horizon)

	return collect(sc.cfg, horizon, sc.channel, sc.ctl), nil
}

// SweepConfig describes a grid of scenario runs over a list of seeds and
// a list of configuration variants, the way an out-of-scope CLI
// front-end would drive repeated runs for statistical confidence.
type SweepConfig struct {
	Seeds    []int64
	Variants []ScenarioConfig
}

// Sweep runs every (variant, seed) pair in cfg and returns one
// [RunResult] per run, in variant-major, seed-minor order.
func Sweep(cfg SweepConfig, log Logger) ([]*RunResult, error) {
	var results []*RunResult
	for _, variant := range cfg.Variants {
		for _, seed := range cfg.Seeds {
			run := variant
			run.Seed = seed
			sc, err := NewScenario(run, log)
			if err != nil {
				return nil, err
			}
			result, err := sc.Run()
			if err != nil {
				return nil, err
			}
			results = append(results, result)
		}
	}
	return results, nil
}

// csvHeader and CSVRow define the flattened per-run record spec.md §6
// writes out, one row per [RunResult]. Floats are emitted at full double
// precision and integers exactly, so two runs with the same seed produce
// byte-identical rows.
var csvHeader = []string{
	"seed", "wifi_nodes", "nru_nodes",
	"wifi_cw_min", "wifi_cw_max", "nru_cw_min", "nru_cw_max",
	"wifi_throughput", "nru_throughput", "total_throughput",
	"wifi_plr", "nru_plr",
	"wifi_latency", "nru_latency",
	"wifi_access_delay", "nru_access_delay",
	"wifi_sinr", "nru_sinr",
	"traditional_fairness", "jains_fairness", "joint_metric",
	"wifi_cot", "nru_cot", "total_cot",
	"wifi_efficiency", "nru_efficiency", "total_efficiency",
}

// CSVHeader returns the column names of [CSVRow], in order.
func CSVHeader() []string { return append([]string(nil), csvHeader...) }

func formatFull(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }

// CSVRow flattens r into one CSV record matching [CSVHeader]'s order.
func CSVRow(r *RunResult) []string {
	i := strconv.FormatInt
	return []string{
		i(r.Seed, 10), strconv.Itoa(r.NumWifiStations), strconv.Itoa(r.NumNRUGnbs),
		i(r.WifiCWMin, 10), i(r.WifiCWMax, 10), i(r.NRUCWMin, 10), i(r.NRUCWMax, 10),
		formatFull(r.WifiThroughputMbps), formatFull(r.NRUThroughputMbps), formatFull(r.TotalThroughputMbps),
		formatFull(r.WifiPLR), formatFull(r.NRUPLR),
		formatFull(r.WifiAvgLatencyUs), formatFull(r.NRUAvgLatencyUs),
		formatFull(r.WifiAccessDelayUs), formatFull(r.NRUAccessDelayUs),
		formatFull(r.WifiAvgSINRDb), formatFull(r.NRUAvgSINRDb),
		formatFull(r.TraditionalFairness), formatFull(r.JainFairnessPerNode), formatFull(r.JointMetric),
		formatFull(r.WifiOccupancy), formatFull(r.NRUOccupancy), formatFull(r.CombinedOccupancy),
		formatFull(r.WifiEfficiency), formatFull(r.NRUEfficiency), formatFull(r.TotalEfficiency),
	}
}

// CSV renders results as a complete CSV document, header included.
func CSV(results []*RunResult) string {
	var b strings.Builder
	b.WriteString(strings.Join(CSVHeader(), ","))
	b.WriteByte('\n')
	for _, r := range results {
		b.WriteString(strings.Join(CSVRow(r), ","))
		b.WriteByte('\n')
	}
	return b.String()
}

// adjustmentCSVHeader defines the optional controller adjustment log of
// spec.md §6, one row per [CWAdjustment].
var adjustmentCSVHeader = []string{
	"seed", "time_us",
	"wifi_cw_min", "wifi_cw_max", "nru_cw_min", "nru_cw_max",
	"fairness", "wifi_airtime", "nru_airtime",
}

// AdjustmentCSVHeader returns the column names of [AdjustmentCSVRow].
func AdjustmentCSVHeader() []string { return append([]string(nil), adjustmentCSVHeader...) }

// AdjustmentCSVRow flattens one controller adjustment into a CSV record.
func AdjustmentCSVRow(seed int64, a CWAdjustment) []string {
	i := strconv.FormatInt
	return []string{
		i(seed, 10), i(a.Time, 10),
		i(a.WifiCWMin, 10), i(a.WifiCWMax, 10), i(a.NRUCWMin, 10), i(a.NRUCWMax, 10),
		formatFull(a.Fairness), i(a.WifiAirtime, 10), i(a.NRUAirtime, 10),
	}
}

// AdjustmentCSV renders r's controller history as a complete CSV
// document, header included; it is empty-bodied when the controller was
// disabled or never adjusted anything.
func AdjustmentCSV(r *RunResult) string {
	var b strings.Builder
	b.WriteString(strings.Join(AdjustmentCSVHeader(), ","))
	b.WriteByte('\n')
	for _, a := range r.ControllerHistory {
		b.WriteString(strings.Join(AdjustmentCSVRow(r.Seed, a), ","))
		b.WriteByte('\n')
	}
	return b.String()
}
