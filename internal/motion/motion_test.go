package motion

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/sweeney/beacon-scanner/internal/timer"
)

var epoch = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestRecordAngles(t *testing.T) {
	a := NewAggregator(nil, timer.NewFakeClock(epoch), 0)
	a.Record(1, 0, 1)  // 45 degrees about XZ, level on YZ
	a.Record(0, 1, 1)  // level on XZ, 45 about YZ
	a.Record(0, 0, 1)  // flat, at rest
	a.Record(0, 0, -1) // upside down

	m := a.PrepareForNextInterval()
	if m.Samples != 4 {
		t.Fatalf("samples: got %d", m.Samples)
	}
	// atan2(0, -1) is 180 degrees on both axes.
	if want := (45.0 + 0 + 0 + 180) / 4; !near(m.AvgAngleXZ, want) {
		t.Errorf("xz: got %v, want %v", m.AvgAngleXZ, want)
	}
	if want := (0 + 45.0 + 0 + 180) / 4; !near(m.AvgAngleYZ, want) {
		t.Errorf("yz: got %v, want %v", m.AvgAngleYZ, want)
	}
	if want := 2 * (math.Sqrt2 - 1); !near(m.TotalMovement, want) {
		t.Errorf("movement: got %v, want %v", m.TotalMovement, want)
	}
}

func TestPrepareForNextIntervalResetLaw(t *testing.T) {
	a := NewAggregator(nil, timer.NewFakeClock(epoch), 0)
	a.Record(0, 0, 2)
	a.Record(0, 0, 1)

	first := a.PrepareForNextInterval()
	if a.Pending() != 0 {
		t.Fatalf("accumulators not reset: %d pending", a.Pending())
	}
	if first.TotalMovement != 1 || first.Samples != 2 {
		t.Fatalf("first interval: %+v", first)
	}
	if a.Latched() != first {
		t.Error("Latched must return the last latch")
	}

	// Latched values stay frozen while the next interval accumulates.
	a.Record(1, 0, 0)
	if a.Latched() != first {
		t.Error("latched stats changed before the next latch")
	}

	second := a.PrepareForNextInterval()
	if second.Samples != 1 || !near(second.AvgAngleXZ, 90) {
		t.Errorf("intervals must be independent, got %+v", second)
	}

	empty := a.PrepareForNextInterval()
	if empty.Samples != 0 || empty.AvgAngleXZ != 0 || empty.AvgAngleYZ != 0 || empty.TotalMovement != 0 {
		t.Errorf("an interval without samples must latch zeros, got %+v", empty)
	}
}

func TestUpdateIsTimerGated(t *testing.T) {
	clk := timer.NewFakeClock(epoch)
	sensor := &FakeAccelerometer{Z: 1}
	a := NewAggregator(sensor, clk, 100*time.Millisecond)
	a.Setup(nil)

	for i := 0; i < 100; i++ {
		clk.Advance(10 * time.Millisecond)
		a.Update()
	}
	if sensor.Reads != 10 {
		t.Errorf("expected 10 reads in 1s at 100ms, got %d", sensor.Reads)
	}
	if a.Pending() != 10 {
		t.Errorf("pending: got %d", a.Pending())
	}
}

func TestUpdateSkipsFailedReads(t *testing.T) {
	clk := timer.NewFakeClock(epoch)
	sensor := &FakeAccelerometer{Err: errors.New("nack")}
	a := NewAggregator(sensor, clk, 100*time.Millisecond)
	a.Setup(nil)

	clk.Advance(100 * time.Millisecond)
	a.Update()
	clk.Advance(100 * time.Millisecond)
	a.Update()
	if sensor.Reads != 2 || a.Pending() != 0 {
		t.Fatalf("reads=%d pending=%d", sensor.Reads, a.Pending())
	}

	sensor.Err = nil
	sensor.Z = 1
	clk.Advance(100 * time.Millisecond)
	a.Update()
	if a.Pending() != 1 {
		t.Errorf("recovered read not recorded")
	}
}

func TestNoSensorReportsZero(t *testing.T) {
	clk := timer.NewFakeClock(epoch)
	a := NewAggregator(nil, clk, 0)
	a.Setup(nil)
	clk.Advance(time.Second)
	a.Update()

	if m := a.PrepareForNextInterval(); m.Samples != 0 || m.TotalMovement != 0 {
		t.Errorf("got %+v", m)
	}
}

type silentBus struct{ txs int }

func (b *silentBus) Tx(addr uint16, w, r []byte) error {
	b.txs++
	for i := range r {
		r[i] = 0
	}
	return nil
}

func TestNewLIS3DHNotConnected(t *testing.T) {
	b := &silentBus{}
	if _, err := NewLIS3DH(b, 0x19); !errors.Is(err, ErrNoSensor) {
		t.Fatalf("expected ErrNoSensor, got %v", err)
	}
	if b.txs == 0 {
		t.Error("expected the driver to probe the bus")
	}
}
