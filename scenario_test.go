package coexsim

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestScenarioIsDeterministicGivenTheSameSeed(t *testing.T) {
	cfg := DefaultScenarioConfig()
	cfg.NumWifiStations = 4
	cfg.NumNRUGnbs = 2
	cfg.SimSeconds = 2
	cfg.Seed = 99

	run := func() *RunResult {
		sc, err := NewScenario(cfg, nil)
		if err != nil {
			t.Fatalf("NewScenario: %v", err)
		}
		result, err := sc.Run()
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
		return result
	}

	a, b := run(), run()
	if diff := cmp.Diff(a, b); diff != "" {
		t.Fatalf("expected identical seeds to reproduce byte-identical results (-a +b):\n%s", diff)
	}
}

func TestScenarioCSVRowIsByteIdenticalAcrossReruns(t *testing.T) {
	cfg := DefaultScenarioConfig()
	cfg.NumWifiStations = 1
	cfg.NumNRUGnbs = 1
	cfg.SimSeconds = 2
	cfg.Seed = 3

	run := func() string {
		sc, err := NewScenario(cfg, nil)
		if err != nil {
			t.Fatalf("NewScenario: %v", err)
		}
		result, err := sc.Run()
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
		return strings.Join(CSVRow(result), ",")
	}

	if a, b := run(), run(); a != b {
		t.Fatalf("expected byte-identical CSV rows for the same seed:\n%s\n%s", a, b)
	}
}

func TestScenarioAirtimeNeverExceedsTheHorizon(t *testing.T) {
	cfg := DefaultScenarioConfig()
	cfg.NumWifiStations = 3
	cfg.NumNRUGnbs = 3
	cfg.GapMode = false
	cfg.SimSeconds = 2
	cfg.Seed = 5

	sc, err := NewScenario(cfg, nil)
	if err != nil {
		t.Fatalf("NewScenario: %v", err)
	}
	result, err := sc.Run()
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if result.WifiOccupancy > 1 || result.NRUOccupancy > 1 {
		t.Fatalf("per-technology occupancy cannot exceed 1: wifi=%v nru=%v",
			result.WifiOccupancy, result.NRUOccupancy)
	}
	if result.CombinedOccupancy > 1 {
		t.Fatalf("successful airtime is serialized by tx_lock, so combined occupancy cannot exceed 1: %v",
			result.CombinedOccupancy)
	}
	if result.WifiEfficiency > result.WifiOccupancy || result.NRUEfficiency > result.NRUOccupancy {
		t.Fatalf("data-only airtime cannot exceed total airtime: %+v", result)
	}
}

func TestScenarioControllerImprovesFairnessUnderNRUDominance(t *testing.T) {
	base := DefaultScenarioConfig()
	base.NumWifiStations = 3
	base.NumNRUGnbs = 3
	base.GapMode = false
	base.SimSeconds = 5
	base.Seed = 17

	run := func(controller bool) *RunResult {
		cfg := base
		cfg.Controller.Enabled = controller
		sc, err := NewScenario(cfg, nil)
		if err != nil {
			t.Fatalf("NewScenario: %v", err)
		}
		result, err := sc.Run()
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
		return result
	}

	uncontrolled := run(false)
	controlled := run(true)

	if len(uncontrolled.ControllerHistory) != 0 {
		t.Fatal("expected no adjustments with the controller disabled")
	}
	if len(controlled.ControllerHistory) == 0 {
		t.Fatal("expected at least one adjustment with NR-U dominating in reservation-signal mode")
	}
	if controlled.WifiCWMin == base.Wifi.CWMin && controlled.NRUCWMin == base.NRU.CWMin {
		t.Fatalf("expected the final cw bounds to reflect the adjustments, got %+v", controlled)
	}

	target := base.Controller.TargetFairness
	distUncontrolled := target - uncontrolled.JainFairnessPerNode
	distControlled := target - controlled.JainFairnessPerNode
	if distUncontrolled < 0 {
		t.Skipf("seed produced a fair run without the controller (fairness=%v), nothing to improve",
			uncontrolled.JainFairnessPerNode)
	}
	if distControlled > distUncontrolled {
		t.Fatalf("expected the controller to move fairness toward the target: without=%v with=%v",
			uncontrolled.JainFairnessPerNode, controlled.JainFairnessPerNode)
	}
}

func TestAdjustmentCSVCarriesOneRowPerAdjustment(t *testing.T) {
	r := &RunResult{
		Seed: 9,
		ControllerHistory: []CWAdjustment{
			{Time: 1_000_000, WifiCWMin: 20, WifiCWMax: 80, NRUCWMin: 10, NRUCWMax: 40,
				Fairness: 0.5, WifiAirtime: 900_000, NRUAirtime: 100_000, Reason: "wifi-dominant"},
			{Time: 2_000_000, WifiCWMin: 25, WifiCWMax: 100, NRUCWMin: 7, NRUCWMax: 28,
				Fairness: 0.6, WifiAirtime: 800_000, NRUAirtime: 200_000, Reason: "wifi-dominant"},
		},
	}

	csv := AdjustmentCSV(r)
	lines := strings.Split(strings.TrimRight(csv, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 1 header + 2 rows, got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[1], "9,1000000,20,80,10,40,") {
		t.Fatalf("unexpected first adjustment row: %s", lines[1])
	}
}

func TestNewScenarioRejectsInvalidConfig(t *testing.T) {
	cfg := DefaultScenarioConfig()
	cfg.SimSeconds = 0
	if _, err := NewScenario(cfg, nil); err == nil {
		t.Fatal("expected a non-positive simulated duration to be rejected")
	}
}

func TestSweepProducesOneResultPerSeed(t *testing.T) {
	variant := DefaultScenarioConfig()
	variant.NumWifiStations = 2
	variant.SimSeconds = 1

	results, err := Sweep(SweepConfig{
		Seeds:    []int64{1, 2, 3},
		Variants: []ScenarioConfig{variant},
	}, nil)
	if err != nil {
		t.Fatalf("Sweep: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
}

func TestCSVHasOneDataRowPerResultPlusHeader(t *testing.T) {
	variant := DefaultScenarioConfig()
	variant.SimSeconds = 1

	results, err := Sweep(SweepConfig{
		Seeds:    []int64{1, 2},
		Variants: []ScenarioConfig{variant},
	}, nil)
	if err != nil {
		t.Fatalf("Sweep: %v", err)
	}

	csv := CSV(results)
	lines := strings.Split(strings.TrimRight(csv, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 1 header + 2 data rows, got %d lines", len(lines))
	}
	if len(strings.Split(lines[0], ",")) != len(CSVHeader()) {
		t.Fatalf("expected the header row to match CSVHeader's column count")
	}
}
