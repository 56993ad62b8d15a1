package coexsim

import "testing"

func TestNRUGnbSingleNodeAlwaysSucceeds(t *testing.T) {
	k := NewKernel()
	ch := NewChannel(&nullLogger{}, -95)
	rng := NewRNG(7)
	cfg := DefaultNRUConfig()

	gnb := NewNRUGnb("solo", cfg, ch, rng, nil, true)
	ch.RegisterGnb(gnb)
	k.Spawn(gnb.Name(), func(p *Proc) { gnb.Run(k, p) })

	k.RunUntil(5_000_000)

	if len(gnb.Transmissions) == 0 {
		t.Fatal("expected the lone gNB to complete at least one transmission")
	}
	if ch.FailedNRU != 0 {
		t.Fatalf("a lone gNB cannot collide, got %d failures", ch.FailedNRU)
	}
}

func TestNRUGapToBoundaryWrapsAroundSyncGrid(t *testing.T) {
	rng := NewRNG(1)
	cfg := DefaultNRUConfig()
	cfg.SyncSlotDuration = 1000

	g := NewNRUGnb("g", cfg, nil, rng, nil, true)
	g.desync = 200

	if got := g.gapToBoundary(200); got != 0 {
		t.Fatalf("expected zero gap exactly on the boundary, got %d", got)
	}
	if got := g.gapToBoundary(250); got != 950 {
		t.Fatalf("expected 950us to the next boundary, got %d", got)
	}
	if got := g.gapToBoundary(1150); got != 50 {
		t.Fatalf("expected wraparound to find the next boundary at 1200, got %d", got)
	}
}

func TestNRUGapModeTransmissionsStartOnSyncBoundaries(t *testing.T) {
	k := NewKernel()
	ch := NewChannel(&nullLogger{}, -95)
	rng := NewRNG(11)
	cfg := DefaultNRUConfig()

	gnb := NewNRUGnb("aligned", cfg, ch, rng, nil, true)
	ch.RegisterGnb(gnb)
	k.Spawn(gnb.Name(), func(p *Proc) { gnb.Run(k, p) })

	k.RunUntil(5_000_000)

	if len(gnb.Transmissions) == 0 {
		t.Fatal("expected at least one transmission")
	}
	for _, tx := range gnb.Transmissions {
		if tx.RS != 0 {
			t.Fatalf("gap mode must not emit reservation signals, got rs=%d", tx.RS)
		}
		if (tx.Start-gnb.desync)%cfg.SyncSlotDuration != 0 {
			t.Fatalf("transmission at %d is not aligned to the sync grid (desync=%d, slot=%d)",
				tx.Start, gnb.desync, cfg.SyncSlotDuration)
		}
	}
}

func TestNRUReservationSignalModeFillsTheGap(t *testing.T) {
	k := NewKernel()
	ch := NewChannel(&nullLogger{}, -95)
	rng := NewRNG(3)
	cfg := DefaultNRUConfig()

	gnb := NewNRUGnb("rs", cfg, ch, rng, nil, false)
	ch.RegisterGnb(gnb)
	k.Spawn(gnb.Name(), func(p *Proc) { gnb.Run(k, p) })

	k.RunUntil(3_000_000)

	if len(gnb.Transmissions) == 0 {
		t.Fatal("expected at least one transmission in reservation-signal mode")
	}
	for _, tx := range gnb.Transmissions {
		if tx.Total != cfg.MCOT*1000 {
			t.Fatalf("expected every transmission to occupy exactly MCOT, got %d", tx.Total)
		}
		if tx.Total != tx.RS+tx.Airtime {
			t.Fatalf("expected Total = RS + Airtime, got total=%d rs=%d airtime=%d", tx.Total, tx.RS, tx.Airtime)
		}
		if (tx.Start+tx.RS-gnb.desync)%cfg.SyncSlotDuration != 0 {
			t.Fatalf("expected the data portion to begin on a sync boundary, got start=%d rs=%d", tx.Start, tx.RS)
		}
	}
}
