package coexsim

//
// Prometheus export
//

import "github.com/prometheus/client_golang/prometheus"

// PrometheusExporter publishes a [RunResult] as a set of gauges, for a
// batch-sweep dashboard to scrape after the fact; the kernel itself runs
// a scenario to completion synchronously, so there is no "live" run to
// instrument mid-flight.
type PrometheusExporter struct {
	registry *prometheus.Registry

	wifiThroughput prometheus.Gauge
	nruThroughput  prometheus.Gauge
	wifiPLR        prometheus.Gauge
	nruPLR         prometheus.Gauge
	jainFairness   prometheus.Gauge
	jointMetric    prometheus.Gauge
}

// NewPrometheusExporter creates an exporter with its own registry, so
// repeated sweep runs don't collide with any process-global registry.
func NewPrometheusExporter() *PrometheusExporter {
	e := &PrometheusExporter{
		registry: prometheus.NewRegistry(),
		wifiThroughput: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "coexsim_wifi_throughput_mbps", Help: "Wi-Fi aggregate throughput of the most recent run.",
		}),
		nruThroughput: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "coexsim_nru_throughput_mbps", Help: "NR-U aggregate throughput of the most recent run.",
		}),
		wifiPLR: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "coexsim_wifi_plr", Help: "Wi-Fi collision-induced packet loss ratio of the most recent run.",
		}),
		nruPLR: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "coexsim_nru_plr", Help: "NR-U collision-induced packet loss ratio of the most recent run.",
		}),
		jainFairness: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "coexsim_jain_fairness", Help: "Per-node Jain's fairness index of the most recent run.",
		}),
		jointMetric: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "coexsim_joint_metric", Help: "Joint fairness/efficiency metric of the most recent run.",
		}),
	}
	e.registry.MustRegister(e.wifiThroughput, e.nruThroughput, e.wifiPLR, e.nruPLR, e.jainFairness, e.jointMetric)
	return e
}

// Observe overwrites every gauge with r's values.
func (e *PrometheusExporter) Observe(r *RunResult) {
	e.wifiThroughput.Set(r.WifiThroughputMbps)
	e.nruThroughput.Set(r.NRUThroughputMbps)
	e.wifiPLR.Set(r.WifiPLR)
	e.nruPLR.Set(r.NRUPLR)
	e.jainFairness.Set(r.JainFairnessPerNode)
	e.jointMetric.Set(r.JointMetric)
}

// Registry returns the underlying [prometheus.Registry], for a caller to
// mount behind promhttp.HandlerFor.
func (e *PrometheusExporter) Registry() *prometheus.Registry { return e.registry }
