package pipeline

import (
	"math"
	"testing"
	"time"

	"github.com/sweeney/beacon-scanner/internal/event"
	"github.com/sweeney/beacon-scanner/internal/netstate"
)

func TestNoScanWhileDisconnected(t *testing.T) {
	h := newHarness(t)
	h.advance(20 * time.Second)
	if h.scanner.Starts != 0 {
		t.Errorf("scanned %d times without a link", h.scanner.Starts)
	}
}

func TestScanEveryInterval(t *testing.T) {
	h := newHarness(t)
	h.poster.Respond(200, `{}`, nil)
	h.connect(t)
	h.completeScan(t, nil)

	h.advance(5990 * time.Millisecond)
	if h.scanner.Starts != 1 {
		t.Fatalf("early scan: %d starts", h.scanner.Starts)
	}
	h.advance(10 * time.Millisecond)
	if h.scanner.Starts != 2 || h.coord.Phase() != Scanning {
		t.Fatalf("expected second scan at 6s, %d starts, phase %s", h.scanner.Starts, h.coord.Phase())
	}
	if h.coord.Scans() != 1 || !h.coord.LastScan().Equal(epoch.Add(500*time.Millisecond)) {
		t.Errorf("scans=%d last=%v", h.coord.Scans(), h.coord.LastScan())
	}
}

func TestScanTimeoutReturnsToIdle(t *testing.T) {
	h := newHarness(t)
	h.connect(t)

	h.advance(9990 * time.Millisecond)
	if h.coord.Phase() != Scanning {
		t.Fatal("gave up too early")
	}
	h.advance(10 * time.Millisecond)
	if h.coord.Phase() != Idle {
		t.Fatal("expected Idle after duration plus slack")
	}

	// A completion arriving after the timeout is ignored.
	h.scanner.Complete(scanResults)
	h.s.Tick()
	if h.coord.Scans() != 0 || len(h.poster.Requests()) != 0 {
		t.Errorf("late completion was reported")
	}
}

func TestRefusedScanRetriesNextInterval(t *testing.T) {
	h := newHarness(t)
	h.scanner.Refuse = true
	h.link.Info = netstate.Info{Connected: true}
	h.advance(500 * time.Millisecond)
	if h.coord.Phase() != Idle {
		t.Fatal("refused scan must stay Idle")
	}

	h.scanner.Refuse = false
	h.advance(5 * time.Second)
	if h.scanner.Starts != 0 {
		t.Fatal("retry must wait for the interval")
	}
	h.advance(time.Second)
	if h.scanner.Starts != 1 {
		t.Errorf("expected retry after the interval, %d starts", h.scanner.Starts)
	}
}

func TestMotionLatchedPerScan(t *testing.T) {
	h := newHarness(t)
	var got []event.Movement
	h.s.Bus().Subscribe(event.KindScanComplete, &watcher{fn: func(e event.Event) {
		got = append(got, e.(event.ScanComplete).Movement)
	}})

	h.accel.X, h.accel.Z = 1, 1
	h.connect(t)
	h.completeScan(t, nil)
	if len(got) != 1 || got[0].Samples != 5 || math.Abs(got[0].AvgAngleXZ-45) > 1e-9 {
		t.Fatalf("first interval: %+v", got)
	}

	h.accel.X = 0
	h.advance(6 * time.Second)
	h.completeScan(t, nil)
	if len(got) != 2 || got[1].Samples != 60 || got[1].AvgAngleXZ != 0 {
		t.Errorf("second interval must only hold its own samples: %+v", got[1])
	}
}

func TestSyncTimerIgnoresNonPositive(t *testing.T) {
	h := newHarness(t)
	h.s.Bus().Publish(event.SyncTimer{Wait: 0})
	h.s.Bus().Publish(event.SyncTimer{Wait: -time.Second})
	if h.coord.Interval() != 6*time.Second {
		t.Errorf("interval: got %v", h.coord.Interval())
	}
}

func TestUplinkDropsWhileInFlight(t *testing.T) {
	h := newHarness(t)
	h.link.Info = netstate.Info{Connected: true}
	h.advance(500 * time.Millisecond)

	block := make(chan struct{})
	h.uplink.poster = blockingPoster{release: block}
	h.s.Bus().Publish(event.DataReady{JSON: []byte(`{}`)})
	h.s.Bus().Publish(event.DataReady{JSON: []byte(`{}`)})
	if !h.uplink.InFlight() {
		t.Fatal("expected upload in flight")
	}
	close(block)
	h.settle(t)
	if sent, failed := h.uplink.Counts(); sent+failed != 1 {
		t.Errorf("expected exactly one upload, sent=%d failed=%d", sent, failed)
	}
}
