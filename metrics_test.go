package coexsim

import "testing"

func TestTraditionalFairnessEqualSharesIsOne(t *testing.T) {
	if got := jainIndex([]float64{50, 50}); got != 1 {
		t.Fatalf("expected equal occupancies to score 1.0, got %v", got)
	}
}

func TestTraditionalFairnessBothZeroIsOne(t *testing.T) {
	if got := jainIndex([]float64{0, 0}); got != 1 {
		t.Fatalf("expected an idle channel to score 1.0, got %v", got)
	}
}

func TestMeanStdDevOfEmptyIsZero(t *testing.T) {
	mean, dev := meanStdDev(nil)
	if mean != 0 || dev != 0 {
		t.Fatalf("expected zero mean/stddev on empty input, got mean=%v dev=%v", mean, dev)
	}
}

func TestMeanStdDevOfConstantIsZeroSpread(t *testing.T) {
	mean, dev := meanStdDev([]float64{5, 5, 5})
	if mean != 5 {
		t.Fatalf("expected mean 5, got %v", mean)
	}
	if dev != 0 {
		t.Fatalf("expected zero stddev for a constant series, got %v", dev)
	}
}

func TestCollectReportsLoneStationAsCollisionFree(t *testing.T) {
	cfg := DefaultScenarioConfig()
	cfg.NumWifiStations = 1
	cfg.NumNRUGnbs = 0
	cfg.SimSeconds = 2

	sc, err := NewScenario(cfg, nil)
	if err != nil {
		t.Fatalf("NewScenario: %v", err)
	}
	result, err := sc.Run()
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if result.WifiPLR != 0 {
		t.Fatalf("expected zero packet loss with a single contender, got %v", result.WifiPLR)
	}
	if result.WifiThroughputMbps <= 0 {
		t.Fatalf("expected positive throughput, got %v", result.WifiThroughputMbps)
	}
	if result.JainFairnessPerNode != 1 {
		t.Fatalf("expected a single node to be maximally fair by definition, got %v", result.JainFairnessPerNode)
	}
}
