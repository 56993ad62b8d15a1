package coexsim

import "testing"

func TestParseScenarioConfigParsesAFullDocument(t *testing.T) {
	doc := []byte(`
num_wifi_stations: 3
num_nru_gnbs: 1
seed: 7
sim_seconds: 5
gap_mode: true
noise_floor_dbm: -95
nominal_wifi_mbps: 866.7
nominal_nru_mbps: 1200
wifi:
  data_size: 1472
  cw_min: 15
  cw_max: 63
  r_limit: 7
  mcs: 7
  difs: 34
  slot_time: 9
  ack_time: 44
  ack_timeout: 45
  tx_power_dbm: 23
nru:
  deter_period: 16
  obs_slot: 9
  sync_slot_duration: 1000
  min_sync_desync: 0
  max_sync_desync: 1000
  m: 3
  cw_min: 15
  cw_max: 63
  mcot: 6
  r_limit: 7
  tx_power_dbm: 23
controller:
  enabled: false
  measurement_interval: 1000000
  adjustment_step: 5
  target_fairness: 0.95
  min_cw: 7
  max_cw: 511
`)

	cfg, err := ParseScenarioConfig(doc)
	if err != nil {
		t.Fatalf("ParseScenarioConfig: %v", err)
	}
	if cfg.NumWifiStations != 3 || cfg.NumNRUGnbs != 1 || cfg.Seed != 7 {
		t.Fatalf("unexpected top-level fields: %+v", cfg)
	}
	if cfg.Wifi.CWMax != 63 || cfg.NRU.MCOT != 6 {
		t.Fatalf("unexpected nested fields: wifi=%+v nru=%+v", cfg.Wifi, cfg.NRU)
	}
	if cfg.Wifi.FrameTimeFunc == nil {
		t.Fatal("expected a default FrameTimeFunc to be installed")
	}
}

func TestParseScenarioConfigRejectsInvalidBounds(t *testing.T) {
	doc := []byte(`
num_wifi_stations: 1
sim_seconds: 1
wifi:
  cw_min: 100
  cw_max: 10
  slot_time: 9
nru:
  obs_slot: 9
  deter_period: 16
  sync_slot_duration: 1000
  mcot: 6
`)
	if _, err := ParseScenarioConfig(doc); err == nil {
		t.Fatal("expected cw_max < cw_min to be rejected")
	}
}
