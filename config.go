package coexsim

//
// Configuration structs
//
// These mirror spec.md §6's external interfaces: per-run configuration
// that the out-of-scope CLI front-end and scenario sweep machinery pass
// in. Nothing here computes PHY data rates or frame-time arithmetic
// beyond the injectable defaults below, which exist only so the package
// is runnable standalone.
//

import "fmt"

// WifiConfig configures the Wi-Fi DCF state machine (spec.md §6).
type WifiConfig struct {
	// DataSize is the payload size in bytes.
	DataSize int

	// CWMin and CWMax bound the binary exponential backoff draw.
	CWMin, CWMax int64

	// RLimit is the retry limit before a frame is dropped.
	RLimit int

	// MCS is the modulation and coding scheme index, passed to
	// FrameTimeFunc.
	MCS int

	// FrameTime, if non-zero, is used as a fixed frame duration in
	// microseconds instead of calling FrameTimeFunc, per spec.md §9(b).
	FrameTime int64

	// FrameTimeFunc computes the frame duration when FrameTime is zero.
	FrameTimeFunc FrameTimeFunc

	// DIFS is the DCF inter-frame space in microseconds.
	DIFS int64

	// SlotTime is the backoff slot duration in microseconds (9 per spec).
	SlotTime int64

	// AckTime is the ACK frame duration in microseconds, accounted as
	// control airtime on success.
	AckTime int64

	// AckTimeout is the wait after a collision, per spec.md §4.3.
	AckTimeout int64

	// TxPowerDBm is the station's transmit power, used by SINR.
	TxPowerDBm float64
}

// DefaultWifiConfig returns the reference parameters used throughout
// spec.md §8's scenarios.
func DefaultWifiConfig() WifiConfig {
	return WifiConfig{
		DataSize:      1472,
		CWMin:         15,
		CWMax:         63,
		RLimit:        7,
		MCS:           7,
		FrameTime:     0,
		FrameTimeFunc: DefaultFrameTimeFunc,
		DIFS:          34,
		SlotTime:      9,
		AckTime:       44,
		AckTimeout:    45,
		TxPowerDBm:    23,
	}
}

func (c WifiConfig) validate() error {
	if c.CWMin < 0 || c.CWMax < c.CWMin {
		return fmt.Errorf("coexsim: invalid wifi cw bounds: min=%d max=%d", c.CWMin, c.CWMax)
	}
	if c.RLimit < 0 {
		return fmt.Errorf("coexsim: negative wifi r_limit: %d", c.RLimit)
	}
	if c.SlotTime <= 0 || c.DIFS < 0 || c.AckTime < 0 || c.AckTimeout < 0 {
		return fmt.Errorf("coexsim: invalid wifi timing constant (slot time must be positive, others non-negative)")
	}
	if c.FrameTime == 0 && c.FrameTimeFunc == nil {
		return fmt.Errorf("coexsim: wifi config needs FrameTime or FrameTimeFunc")
	}
	return nil
}

// frameTime resolves the configured frame duration for a fresh frame.
func (c WifiConfig) frameTime() int64 {
	if c.FrameTime > 0 {
		return c.FrameTime
	}
	return c.FrameTimeFunc(c.DataSize, c.MCS)
}

// NRUConfig configures the NR-U LBT Cat-4 state machine (spec.md §6).
type NRUConfig struct {
	// DeterPeriod is the deterministic part of the prioritization period.
	DeterPeriod int64

	// ObsSlot is the observation slot duration in microseconds (9 per spec).
	ObsSlot int64

	// SyncSlotDuration is the synchronization slot length in microseconds.
	SyncSlotDuration int64

	// MinSyncDesync and MaxSyncDesync bound the per-gNB initial desync draw.
	MinSyncDesync, MaxSyncDesync int64

	// M is the number of observation slots in the prioritization period.
	M int64

	// CWMin and CWMax bound the binary exponential backoff draw.
	CWMin, CWMax int64

	// MCOT is the maximum channel occupancy time, in milliseconds.
	MCOT int64

	// RLimit is the retry limit before a transmission is dropped.
	RLimit int

	// TxPowerDBm is the gNB's transmit power, used by SINR.
	TxPowerDBm float64
}

// DefaultNRUConfig returns the reference parameters used throughout
// spec.md §8's scenarios.
func DefaultNRUConfig() NRUConfig {
	return NRUConfig{
		DeterPeriod:      16,
		ObsSlot:          9,
		SyncSlotDuration: 1000,
		MinSyncDesync:    0,
		MaxSyncDesync:    1000,
		M:                3,
		CWMin:            15,
		CWMax:            63,
		MCOT:             6,
		RLimit:           7,
		TxPowerDBm:       23,
	}
}

func (c NRUConfig) validate() error {
	if c.CWMin < 0 || c.CWMax < c.CWMin {
		return fmt.Errorf("coexsim: invalid nru cw bounds: min=%d max=%d", c.CWMin, c.CWMax)
	}
	if c.MinSyncDesync > c.MaxSyncDesync {
		return fmt.Errorf("coexsim: min_desync(%d) > max_desync(%d)", c.MinSyncDesync, c.MaxSyncDesync)
	}
	if c.ObsSlot <= 0 || c.DeterPeriod < 0 || c.SyncSlotDuration <= 0 || c.MCOT <= 0 {
		return fmt.Errorf("coexsim: invalid nru timing constant (obs slot, sync slot and mcot must be positive, deter period non-negative)")
	}
	if c.RLimit < 0 {
		return fmt.Errorf("coexsim: negative nru r_limit: %d", c.RLimit)
	}
	return nil
}

func (c NRUConfig) prioritizationPeriod() int64 {
	return c.DeterPeriod + c.M*c.ObsSlot
}

func (c NRUConfig) mcotMicros() int64 {
	return c.MCOT * 1000
}

// ControllerConfig configures the dynamic CW controller of spec.md §4.5.
type ControllerConfig struct {
	// Enabled activates the controller for the run.
	Enabled bool

	// MeasurementInterval is the sampling period in microseconds.
	MeasurementInterval int64

	// AdjustmentStep is how much CW_min is nudged per adjustment.
	AdjustmentStep int64

	// TargetFairness is the Jain's-index target.
	TargetFairness float64

	// MinCW and MaxCW bound every adjustment.
	MinCW, MaxCW int64
}

// DefaultControllerConfig returns spec.md §4.5's defaults, disabled.
func DefaultControllerConfig() ControllerConfig {
	return ControllerConfig{
		Enabled:             false,
		MeasurementInterval: 1_000_000,
		AdjustmentStep:      5,
		TargetFairness:      0.95,
		MinCW:               7,
		MaxCW:               511,
	}
}

func (c ControllerConfig) validate() error {
	if !c.Enabled {
		return nil
	}
	if c.MeasurementInterval <= 0 {
		return fmt.Errorf("coexsim: non-positive measurement interval: %d", c.MeasurementInterval)
	}
	if c.MinCW < 0 || c.MaxCW < c.MinCW {
		return fmt.Errorf("coexsim: invalid controller cw bounds: min=%d max=%d", c.MinCW, c.MaxCW)
	}
	return nil
}

// ScenarioConfig is the full per-run configuration of spec.md §6.
type ScenarioConfig struct {
	// NumWifiStations and NumNRUGnbs size the population.
	NumWifiStations int
	NumNRUGnbs      int

	// Seed seeds the single RNG every nondeterministic draw flows
	// through, per spec.md §5.
	Seed int64

	// SimSeconds is the simulated horizon, in seconds.
	SimSeconds float64

	// Wifi and NRU are the per-technology configurations.
	Wifi WifiConfig
	NRU  NRUConfig

	// GapMode selects the gap-synchronized NR-U variant; false selects
	// the reservation-signal-padded variant.
	GapMode bool

	// Controller configures the optional dynamic CW controller.
	Controller ControllerConfig

	// NoiseFloorDBm is the channel noise floor used by SINR estimation.
	NoiseFloorDBm float64

	// NominalWifiMbps and NominalNRUMbps are the external PHY rate
	// constants spec.md §4.6 uses to turn efficiency into throughput.
	NominalWifiMbps float64
	NominalNRUMbps  float64
}

// DefaultScenarioConfig returns a single-channel scenario with the
// defaults spec.md §8 uses for its reference runs.
func DefaultScenarioConfig() ScenarioConfig {
	return ScenarioConfig{
		NumWifiStations: 1,
		NumNRUGnbs:      0,
		Seed:            1,
		SimSeconds:      10,
		Wifi:            DefaultWifiConfig(),
		NRU:             DefaultNRUConfig(),
		GapMode:         true,
		Controller:      DefaultControllerConfig(),
		NoiseFloorDBm:   -95,
		NominalWifiMbps: 866.7,
		NominalNRUMbps:  1200.0,
	}
}

// Validate reports the first configuration error found. Misconfiguration
// is a programming fault, per spec.md §7: callers are expected to check
// this before starting a run, not to recover from it mid-simulation.
func (c ScenarioConfig) Validate() error {
	if c.NumWifiStations < 0 || c.NumNRUGnbs < 0 {
		return fmt.Errorf("coexsim: negative node count")
	}
	if c.SimSeconds <= 0 {
		return fmt.Errorf("coexsim: non-positive simulated duration: %v", c.SimSeconds)
	}
	if err := c.Wifi.validate(); err != nil {
		return err
	}
	if err := c.NRU.validate(); err != nil {
		return err
	}
	if err := c.Controller.validate(); err != nil {
		return err
	}
	return nil
}

// DefaultFrameTimeFunc is a simplified single-spatial-stream 802.11
// MCS-to-PHY-rate approximation, used when a [WifiConfig] leaves
// FrameTime at zero. It is a stand-in for the real frame-time arithmetic
// spec.md §6 treats as an external collaborator, not a validated PHY
// model.
func DefaultFrameTimeFunc(payloadSize, mcs int) int64 {
	rates := [8]float64{6.5, 13, 19.5, 26, 39, 52, 58.5, 65} // Mbps, MCS0..7
	rate := rates[len(rates)-1]
	if mcs >= 0 && mcs < len(rates) {
		rate = rates[mcs]
	}
	const preambleOverheadUs = 40
	bits := float64(payloadSize) * 8
	return int64(bits/rate) + preambleOverheadUs
}
