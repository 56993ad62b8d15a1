package coexsim

import "testing"

func TestJainIndexPerfectFairnessIsOne(t *testing.T) {
	if got := jainIndex([]float64{10, 10, 10}); got != 1 {
		t.Fatalf("expected perfectly equal shares to score 1.0, got %v", got)
	}
}

func TestJainIndexAllZeroIsMaximallyFair(t *testing.T) {
	if got := jainIndex([]float64{0, 0}); got != 1 {
		t.Fatalf("expected an idle channel to score 1.0, got %v", got)
	}
}

func TestJainIndexSkewedSharesScoresBelowOne(t *testing.T) {
	got := jainIndex([]float64{90, 10})
	if got >= 1 || got <= 0 {
		t.Fatalf("expected a skewed split to score strictly between 0 and 1, got %v", got)
	}
}

func TestControllerThrottlesTheLeadingTechnology(t *testing.T) {
	ch := NewChannel(&nullLogger{}, -95)
	ch.AirtimeDataWifi["a"] = 900_000
	ch.AirtimeDataNRU["b"] = 100_000

	cfg := DefaultControllerConfig()
	cfg.Enabled = true
	ctl := NewController(ch, cfg, DefaultWifiConfig(), DefaultNRUConfig())

	ctl.sample(1_000_000)

	if len(ctl.History) != 1 {
		t.Fatalf("expected one adjustment record, got %d", len(ctl.History))
	}
	if ctl.wifiCWMin <= DefaultWifiConfig().CWMin {
		t.Fatalf("expected wifi's lead to grow its cw_min (throttling it), got %d", ctl.wifiCWMin)
	}
	if ctl.nruCWMin >= DefaultNRUConfig().CWMin {
		t.Fatalf("expected nru's deficit to shrink its cw_min (favoring it), got %d", ctl.nruCWMin)
	}
	rec := ctl.History[0]
	if rec.Reason != "wifi-dominant" {
		t.Fatalf("expected a wifi-dominant record, got %q", rec.Reason)
	}
	if rec.WifiAirtime != 900_000 || rec.NRUAirtime != 100_000 {
		t.Fatalf("expected the record to carry the sampled airtime deltas, got %+v", rec)
	}
	if rec.WifiCWMin != ctl.wifiCWMin || rec.NRUCWMin != ctl.nruCWMin {
		t.Fatalf("expected the record to carry the new cw bounds, got %+v", rec)
	}
}

func TestControllerLeavesFairRunsAlone(t *testing.T) {
	ch := NewChannel(&nullLogger{}, -95)
	ch.AirtimeDataWifi["a"] = 500_000
	ch.AirtimeDataNRU["b"] = 500_000

	cfg := DefaultControllerConfig()
	cfg.Enabled = true
	ctl := NewController(ch, cfg, DefaultWifiConfig(), DefaultNRUConfig())

	ctl.sample(1_000_000)

	if len(ctl.History) != 0 {
		t.Fatalf("expected no adjustment when already fair, got %d", len(ctl.History))
	}
}
