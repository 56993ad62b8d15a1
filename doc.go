// Package coexsim is a discrete-event simulator for the coexistence of
// Wi-Fi (IEEE 802.11 DCF) and 5G NR-U (3GPP LBT Category 4) on a shared
// unlicensed channel.
//
// A [Kernel] drives an integer-microsecond virtual clock over a heap of
// scheduled events. [WifiStation] and [NRUGnb] are cooperative processes,
// one goroutine each, that contend for a shared [Channel]: a DIFS-plus-
// binary-exponential-backoff state machine for Wi-Fi, and a prioritization-
// period-plus-observation-slot state machine, in gap-synchronized or
// reservation-signal-padded variants, for NR-U. An optional [Controller]
// retunes both technologies' contention windows periodically to steer
// Jain's fairness index toward a target.
//
// Use [NewScenario] to assemble a run from a [WifiConfig] and an
// [NRUConfig], then call [Scenario.Run] to execute it to completion and
// obtain a [RunResult]. [Sweep] drives N×M seed sweeps across a
// [SweepConfig] the way the out-of-scope CLI front-end would.
package coexsim
