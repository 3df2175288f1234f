package pipeline

import (
	"context"
	"log"
	"time"

	"github.com/sweeney/beacon-scanner/internal/bus"
	"github.com/sweeney/beacon-scanner/internal/event"
	"github.com/sweeney/beacon-scanner/internal/netstate"
	"github.com/sweeney/beacon-scanner/internal/scan"
	"github.com/sweeney/beacon-scanner/internal/timer"
)

// Default scan timing.
const (
	DefaultScanDuration = 5 * time.Second
	DefaultScanInterval = DefaultScanDuration + time.Second
	scanTimeoutSlack    = 5 * time.Second
)

// Phase is the Coordinator's scan state.
type Phase int

const (
	Idle Phase = iota
	Scanning
)

func (p Phase) String() string {
	if p == Scanning {
		return "Scanning"
	}
	return "Idle"
}

// CoordinatorConfig sets scan timing.
type CoordinatorConfig struct {
	// Interval between scan starts.
	Interval time.Duration
	// Duration of one scan; a scan not completed within Duration plus a
	// few seconds is abandoned.
	Duration time.Duration
}

// Coordinator starts a scan every interval while the link is up and, when
// the scan completes, latches motion and publishes ScanComplete.
type Coordinator struct {
	ctx     context.Context
	scanner scan.Scanner
	mailbox Mailbox
	motion  Latcher
	state   *netstate.State
	bus     *bus.Bus

	interval  time.Duration
	scanTimer timer.Timer
	timeout   timer.Timer

	phase    Phase
	pending  bool // scan at the next tick
	resynced bool
	scans    uint64
	lastScan time.Time
	clock    timer.Clock
}

// NewCoordinator creates a Coordinator and binds it as the only listener
// of the scanner built by factory.
func NewCoordinator(ctx context.Context, cfg CoordinatorConfig, factory scan.Factory, mb Mailbox, motion Latcher, state *netstate.State, clock timer.Clock) *Coordinator {
	if clock == nil {
		clock = timer.SystemClock{}
	}
	if cfg.Duration <= 0 {
		cfg.Duration = DefaultScanDuration
	}
	if cfg.Interval <= 0 {
		cfg.Interval = cfg.Duration + time.Second
	}
	c := &Coordinator{
		ctx:       ctx,
		mailbox:   mb,
		motion:    motion,
		state:     state,
		clock:     clock,
		interval:  cfg.Interval,
		scanTimer: timer.New(clock, cfg.Interval),
		timeout:   timer.New(clock, cfg.Duration+scanTimeoutSlack),
	}
	c.scanner = factory(c)
	return c
}

// Phase returns the current scan state.
func (c *Coordinator) Phase() Phase { return c.phase }

// Scans returns how many scans have completed.
func (c *Coordinator) Scans() uint64 { return c.scans }

// LastScan returns when the last scan completed.
func (c *Coordinator) LastScan() time.Time { return c.lastScan }

// Interval returns the scan timer's current period.
func (c *Coordinator) Interval() time.Duration { return c.scanTimer.Interval }

func (c *Coordinator) Setup(b *bus.Bus) {
	c.bus = b
	b.Subscribe(event.KindWifiConnected, c)
	b.Subscribe(event.KindSyncTimer, c)
	c.scanTimer.Reset()
	c.pending = c.state != nil && c.state.Connected()
}

func (c *Coordinator) Update() {
	switch c.phase {
	case Scanning:
		if c.timeout.CheckAndReset() {
			log.Printf("scan: no completion after %v, giving up", c.timeout.Interval)
			c.phase = Idle
		}
	case Idle:
		if c.state != nil && !c.state.Connected() {
			return
		}
		if c.pending || c.scanTimer.HasElapsed() {
			c.start()
		}
	}
}

func (c *Coordinator) start() {
	c.pending = false
	c.scanTimer.Reset()
	if c.resynced {
		c.scanTimer.SetInterval(c.interval)
		c.resynced = false
	}
	if !c.scanner.StartScan() {
		log.Printf("scan: scanner refused to start, retrying next interval")
		return
	}
	c.phase = Scanning
	c.timeout.Reset()
}

func (c *Coordinator) OnEvent(e event.Event) {
	switch e := e.(type) {
	case event.WifiConnected:
		c.pending = true
	case event.SyncTimer:
		if e.Wait <= 0 {
			return
		}
		log.Printf("scan: resync, next scan in %v", e.Wait)
		c.scanTimer.SetInterval(e.Wait)
		c.scanTimer.Reset()
		c.resynced = true
	}
}

// OnScanComplete implements scan.Listener. It may be called on any
// goroutine; the result is handled on the scheduler goroutine.
func (c *Coordinator) OnScanComplete(results []scan.Result) {
	if err := run(c.ctx, c.mailbox, func() { c.complete(results) }); err != nil {
		log.Printf("scan: dropped completion: %v", err)
	}
}

func (c *Coordinator) complete(results []scan.Result) {
	if c.phase != Scanning {
		log.Printf("scan: ignoring late completion with %d results", len(results))
		return
	}
	c.phase = Idle
	c.scans++
	c.lastScan = c.clock.Now()

	var m event.Movement
	if c.motion != nil {
		m = c.motion.PrepareForNextInterval()
	}
	log.Printf("scan: complete, %d devices, %d motion samples", len(results), m.Samples)
	if c.bus != nil {
		c.bus.Publish(event.ScanComplete{Results: results, Movement: m})
	}
}
