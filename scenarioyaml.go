package coexsim

//
// YAML scenario files
//

import "gopkg.in/yaml.v3"

// yamlScenario is the on-disk shape of a scenario file: a flat,
// fully-scalar mirror of [ScenarioConfig] a human can hand-edit.
// FrameTimeFunc has no serializable form, so a loaded [WifiConfig]
// always gets [DefaultFrameTimeFunc].
type yamlScenario struct {
	NumWifiStations int     `yaml:"num_wifi_stations"`
	NumNRUGnbs      int     `yaml:"num_nru_gnbs"`
	Seed            int64   `yaml:"seed"`
	SimSeconds      float64 `yaml:"sim_seconds"`
	GapMode         bool    `yaml:"gap_mode"`
	NoiseFloorDBm   float64 `yaml:"noise_floor_dbm"`
	NominalWifiMbps float64 `yaml:"nominal_wifi_mbps"`
	NominalNRUMbps  float64 `yaml:"nominal_nru_mbps"`

	Wifi struct {
		DataSize   int     `yaml:"data_size"`
		CWMin      int64   `yaml:"cw_min"`
		CWMax      int64   `yaml:"cw_max"`
		RLimit     int     `yaml:"r_limit"`
		MCS        int     `yaml:"mcs"`
		DIFS       int64   `yaml:"difs"`
		SlotTime   int64   `yaml:"slot_time"`
		AckTime    int64   `yaml:"ack_time"`
		AckTimeout int64   `yaml:"ack_timeout"`
		TxPowerDBm float64 `yaml:"tx_power_dbm"`
	} `yaml:"wifi"`

	NRU struct {
		DeterPeriod      int64   `yaml:"deter_period"`
		ObsSlot          int64   `yaml:"obs_slot"`
		SyncSlotDuration int64   `yaml:"sync_slot_duration"`
		MinSyncDesync    int64   `yaml:"min_sync_desync"`
		MaxSyncDesync    int64   `yaml:"max_sync_desync"`
		M                int64   `yaml:"m"`
		CWMin            int64   `yaml:"cw_min"`
		CWMax            int64   `yaml:"cw_max"`
		MCOT             int64   `yaml:"mcot"`
		RLimit           int     `yaml:"r_limit"`
		TxPowerDBm       float64 `yaml:"tx_power_dbm"`
	} `yaml:"nru"`

	Controller struct {
		Enabled             bool    `yaml:"enabled"`
		MeasurementInterval int64   `yaml:"measurement_interval"`
		AdjustmentStep      int64   `yaml:"adjustment_step"`
		TargetFairness      float64 `yaml:"target_fairness"`
		MinCW               int64   `yaml:"min_cw"`
		MaxCW               int64   `yaml:"max_cw"`
	} `yaml:"controller"`
}

// ParseScenarioConfig parses a YAML scenario file. Every section must be
// fully specified: unlike [DefaultScenarioConfig], this loader does not
// merge partial sections over defaults.
func ParseScenarioConfig(data []byte) (ScenarioConfig, error) {
	var y yamlScenario
	if err := yaml.Unmarshal(data, &y); err != nil {
		return ScenarioConfig{}, err
	}
	cfg := ScenarioConfig{
		NumWifiStations: y.NumWifiStations,
		NumNRUGnbs:      y.NumNRUGnbs,
		Seed:            y.Seed,
		SimSeconds:      y.SimSeconds,
		GapMode:         y.GapMode,
		NoiseFloorDBm:   y.NoiseFloorDBm,
		NominalWifiMbps: y.NominalWifiMbps,
		NominalNRUMbps:  y.NominalNRUMbps,
		Wifi: WifiConfig{
			DataSize:      y.Wifi.DataSize,
			CWMin:         y.Wifi.CWMin,
			CWMax:         y.Wifi.CWMax,
			RLimit:        y.Wifi.RLimit,
			MCS:           y.Wifi.MCS,
			FrameTimeFunc: DefaultFrameTimeFunc,
			DIFS:          y.Wifi.DIFS,
			SlotTime:      y.Wifi.SlotTime,
			AckTime:       y.Wifi.AckTime,
			AckTimeout:    y.Wifi.AckTimeout,
			TxPowerDBm:    y.Wifi.TxPowerDBm,
		},
		NRU: NRUConfig{
			DeterPeriod:      y.NRU.DeterPeriod,
			ObsSlot:          y.NRU.ObsSlot,
			SyncSlotDuration: y.NRU.SyncSlotDuration,
			MinSyncDesync:    y.NRU.MinSyncDesync,
			MaxSyncDesync:    y.NRU.MaxSyncDesync,
			M:                y.NRU.M,
			CWMin:            y.NRU.CWMin,
			CWMax:            y.NRU.CWMax,
			MCOT:             y.NRU.MCOT,
			RLimit:           y.NRU.RLimit,
			TxPowerDBm:       y.NRU.TxPowerDBm,
		},
		Controller: ControllerConfig{
			Enabled:             y.Controller.Enabled,
			MeasurementInterval: y.Controller.MeasurementInterval,
			AdjustmentStep:      y.Controller.AdjustmentStep,
			TargetFairness:      y.Controller.TargetFairness,
			MinCW:               y.Controller.MinCW,
			MaxCW:               y.Controller.MaxCW,
		},
	}
	return cfg, cfg.Validate()
}
