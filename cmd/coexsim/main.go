// Command coexsim runs Wi-Fi/NR-U coexistence simulations and reports
// their results as CSV.
package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/apex/log"
	apexcli "github.com/apex/log/handlers/cli"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/bassosimone/coexsim"
)

// apexLogger adapts apex/log's package-level logger to [coexsim.Logger].
type apexLogger struct{}

func (apexLogger) Debugf(format string, v ...any) { log.Debugf(format, v...) }
func (apexLogger) Debug(message string)           { log.Debug(message) }
func (apexLogger) Infof(format string, v ...any)  { log.Infof(format, v...) }
func (apexLogger) Info(message string)            { log.Info(message) }
func (apexLogger) Warnf(format string, v ...any)  { log.Warnf(format, v...) }
func (apexLogger) Warn(message string)            { log.Warn(message) }

var _ coexsim.Logger = apexLogger{}

var (
	seed            int64
	simSeconds      float64
	numWifi         int
	numNRU          int
	gapMode         bool
	controllerOn    bool
	sweepSeedsCount int
	adjustmentLog   string
)

var rootCmd = &cobra.Command{
	Use:   "coexsim",
	Short: "Wi-Fi / NR-U channel-coexistence simulator",
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a single scenario and print its CSV result",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := coexsim.DefaultScenarioConfig()
		cfg.Seed = seed
		cfg.SimSeconds = simSeconds
		cfg.NumWifiStations = numWifi
		cfg.NumNRUGnbs = numNRU
		cfg.GapMode = gapMode
		cfg.Controller.Enabled = controllerOn

		sc, err := coexsim.NewScenario(cfg, apexLogger{})
		if err != nil {
			return err
		}
		result, err := sc.Run()
		if err != nil {
			return err
		}
		fmt.Print(coexsim.CSV([]*coexsim.RunResult{result}))
		if adjustmentLog != "" {
			if err := os.WriteFile(adjustmentLog, []byte(coexsim.AdjustmentCSV(result)), 0644); err != nil {
				return err
			}
			log.Infof("wrote %d controller adjustments to %s", len(result.ControllerHistory), adjustmentLog)
		}
		return nil
	},
}

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Run the same scenario across a range of seeds and print all results",
	RunE: func(cmd *cobra.Command, args []string) error {
		variant := coexsim.DefaultScenarioConfig()
		variant.SimSeconds = simSeconds
		variant.NumWifiStations = numWifi
		variant.NumNRUGnbs = numNRU
		variant.GapMode = gapMode
		variant.Controller.Enabled = controllerOn

		seeds := make([]int64, sweepSeedsCount)
		for i := range seeds {
			seeds[i] = seed + int64(i)
		}

		results, err := coexsim.Sweep(coexsim.SweepConfig{
			Seeds:    seeds,
			Variants: []coexsim.ScenarioConfig{variant},
		}, apexLogger{})
		if err != nil {
			return err
		}
		fmt.Print(coexsim.CSV(results))
		return nil
	},
}

var metricsAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run a single scenario, then serve its result as Prometheus metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := coexsim.DefaultScenarioConfig()
		cfg.Seed = seed
		cfg.SimSeconds = simSeconds
		cfg.NumWifiStations = numWifi
		cfg.NumNRUGnbs = numNRU
		cfg.GapMode = gapMode
		cfg.Controller.Enabled = controllerOn

		sc, err := coexsim.NewScenario(cfg, apexLogger{})
		if err != nil {
			return err
		}
		result, err := sc.Run()
		if err != nil {
			return err
		}

		exporter := coexsim.NewPrometheusExporter()
		exporter.Observe(result)

		log.Infof("serving metrics on %s/metrics", metricsAddr)
		http.Handle("/metrics", promhttp.HandlerFor(exporter.Registry(), promhttp.HandlerOpts{}))
		return http.ListenAndServe(metricsAddr, nil)
	},
}

func init() {
	log.SetHandler(apexcli.Default)

	runCmd.Flags().Int64Var(&seed, "seed", 1, "RNG seed")
	runCmd.Flags().Float64Var(&simSeconds, "sim-seconds", 10, "simulated duration, in seconds")
	runCmd.Flags().IntVar(&numWifi, "num-wifi", 1, "number of Wi-Fi stations")
	runCmd.Flags().IntVar(&numNRU, "num-nru", 0, "number of NR-U gNBs")
	runCmd.Flags().BoolVar(&gapMode, "gap-mode", true, "use gap-synchronized NR-U LBT (false selects reservation-signal mode)")
	runCmd.Flags().BoolVar(&controllerOn, "controller", false, "enable the dynamic contention-window controller")
	runCmd.Flags().StringVar(&adjustmentLog, "adjustment-log", "", "also write the controller adjustment log as CSV to this path")

	sweepCmd.Flags().Int64Var(&seed, "seed", 1, "first RNG seed of the sweep")
	sweepCmd.Flags().IntVar(&sweepSeedsCount, "count", 10, "number of seeds to sweep")
	sweepCmd.Flags().Float64Var(&simSeconds, "sim-seconds", 10, "simulated duration, in seconds")
	sweepCmd.Flags().IntVar(&numWifi, "num-wifi", 1, "number of Wi-Fi stations")
	sweepCmd.Flags().IntVar(&numNRU, "num-nru", 0, "number of NR-U gNBs")
	sweepCmd.Flags().BoolVar(&gapMode, "gap-mode", true, "use gap-synchronized NR-U LBT (false selects reservation-signal mode)")
	sweepCmd.Flags().BoolVar(&controllerOn, "controller", false, "enable the dynamic contention-window controller")

	serveCmd.Flags().Int64Var(&seed, "seed", 1, "RNG seed")
	serveCmd.Flags().Float64Var(&simSeconds, "sim-seconds", 10, "simulated duration, in seconds")
	serveCmd.Flags().IntVar(&numWifi, "num-wifi", 1, "number of Wi-Fi stations")
	serveCmd.Flags().IntVar(&numNRU, "num-nru", 0, "number of NR-U gNBs")
	serveCmd.Flags().BoolVar(&gapMode, "gap-mode", true, "use gap-synchronized NR-U LBT (false selects reservation-signal mode)")
	serveCmd.Flags().BoolVar(&controllerOn, "controller", false, "enable the dynamic contention-window controller")
	serveCmd.Flags().StringVar(&metricsAddr, "addr", ":9107", "address to serve /metrics on")

	rootCmd.AddCommand(runCmd, sweepCmd, serveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.WithError(err).Fatal("coexsim")
		os.Exit(1)
	}
}
