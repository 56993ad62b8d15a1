package coexsim

import (
	"testing"
)

func TestKernelSleepOrdering(t *testing.T) {
	k := NewKernel()
	var order []string

	k.Spawn("a", func(p *Proc) {
		k.Sleep(p, 100)
		order = append(order, "a")
	})
	k.Spawn("b", func(p *Proc) {
		k.Sleep(p, 50)
		order = append(order, "b")
	})

	k.RunUntil(1000)

	if len(order) != 2 || order[0] != "b" || order[1] != "a" {
		t.Fatalf("expected [b a], got %v", order)
	}
	if k.Now() != 1000 {
		t.Fatalf("expected clock to reach the horizon, got %d", k.Now())
	}
}

func TestKernelInterruptCutsSleepShort(t *testing.T) {
	k := NewKernel()
	var target *Proc
	var interrupted bool
	var finishedAt int64

	target = k.Spawn("sleeper", func(p *Proc) {
		interrupted = k.Sleep(p, 1000)
		finishedAt = k.Now()
	})

	k.Spawn("interruptor", func(p *Proc) {
		k.Sleep(p, 10)
		k.Interrupt(target)
	})

	k.RunUntil(2000)

	if !interrupted {
		t.Fatal("expected the sleeper to observe an interrupt")
	}
	if finishedAt != 10 {
		t.Fatalf("expected the sleeper to resume at t=10, got %d", finishedAt)
	}
}

func TestKernelWaitWakeNow(t *testing.T) {
	k := NewKernel()
	var woke bool

	waiter := k.Spawn("waiter", func(p *Proc) {
		k.Wait(p)
		woke = true
	})

	k.Spawn("waker", func(p *Proc) {
		k.Sleep(p, 5)
		k.wakeNow(waiter, false)
	})

	k.RunUntil(100)

	if !woke {
		t.Fatal("expected the waiter to be woken")
	}
}
