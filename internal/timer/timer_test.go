package timer

import (
	"testing"
	"time"
)

var epoch = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

func TestHasElapsedIsPure(t *testing.T) {
	clk := NewFakeClock(epoch)
	tm := New(clk, 100*time.Millisecond)

	clk.Advance(99 * time.Millisecond)
	if tm.HasElapsed() {
		t.Error("should not have elapsed at 99ms")
	}

	clk.Advance(1 * time.Millisecond)
	for i := 0; i < 3; i++ {
		if !tm.HasElapsed() {
			t.Fatalf("call %d: expected elapsed at 100ms", i)
		}
	}
}

func TestCheckAndResetFiresOncePerInterval(t *testing.T) {
	clk := NewFakeClock(epoch)
	tm := New(clk, 100*time.Millisecond)

	fires := 0
	// 1ms ticks over one second
	for i := 0; i < 1000; i++ {
		clk.Advance(time.Millisecond)
		if tm.CheckAndReset() {
			fires++
		}
	}
	if fires != 10 {
		t.Errorf("expected 10 fires in 1s at 100ms, got %d", fires)
	}
}

func TestCheckAndResetNoMutationWhenNotElapsed(t *testing.T) {
	clk := NewFakeClock(epoch)
	tm := New(clk, 100*time.Millisecond)

	clk.Advance(60 * time.Millisecond)
	if tm.CheckAndReset() {
		t.Fatal("should not fire at 60ms")
	}
	clk.Advance(40 * time.Millisecond)
	if !tm.CheckAndReset() {
		t.Fatal("should fire at 100ms; failed check must not restamp")
	}
	if tm.CheckAndReset() {
		t.Error("must not re-fire in the same instant")
	}
}

func TestCheckAndResetAfterLongGapFiresOnce(t *testing.T) {
	clk := NewFakeClock(epoch)
	tm := New(clk, 100*time.Millisecond)

	clk.Advance(time.Second)
	if !tm.CheckAndReset() {
		t.Fatal("expected fire after 1s gap")
	}
	if tm.CheckAndReset() {
		t.Error("a long gap must not produce catch-up fires")
	}
}

func TestZeroIntervalNeverFires(t *testing.T) {
	clk := NewFakeClock(epoch)
	tm := New(clk, 0)

	for i := 0; i < 5; i++ {
		clk.Advance(time.Hour)
		if tm.HasElapsed() {
			t.Fatal("zero interval must never elapse")
		}
		if tm.CheckAndReset() {
			t.Fatal("zero interval must never fire")
		}
	}

	tm.SetInterval(-time.Second)
	if tm.CheckAndReset() {
		t.Error("negative interval must never fire")
	}
}

func TestSetIntervalKeepsStamp(t *testing.T) {
	clk := NewFakeClock(epoch)
	tm := New(clk, time.Second)

	clk.Advance(300 * time.Millisecond)
	tm.SetInterval(250 * time.Millisecond)
	if !tm.HasElapsed() {
		t.Error("shortened interval should elapse against the existing stamp")
	}
}

func TestReset(t *testing.T) {
	clk := NewFakeClock(epoch)
	tm := New(clk, 100*time.Millisecond)

	clk.Advance(150 * time.Millisecond)
	tm.Reset()
	if tm.HasElapsed() {
		t.Error("should not be elapsed right after Reset")
	}
	if got := tm.Elapsed(); got != 0 {
		t.Errorf("Elapsed after Reset: got %v, want 0", got)
	}
}

func TestPeriodFromHz(t *testing.T) {
	tests := []struct {
		hz   uint32
		want time.Duration
	}{
		{0, 0},
		{1, time.Second},
		{2, 500 * time.Millisecond},
		{4, 250 * time.Millisecond},
	}
	for _, tt := range tests {
		if got := PeriodFromHz(tt.hz); got != tt.want {
			t.Errorf("PeriodFromHz(%d): got %v, want %v", tt.hz, got, tt.want)
		}
	}
}
