package main

import (
	"context"
	"log"
	"time"

	"github.com/sweeney/beacon-scanner/internal/bus"
	"github.com/sweeney/beacon-scanner/internal/button"
	"github.com/sweeney/beacon-scanner/internal/config"
	"github.com/sweeney/beacon-scanner/internal/debounce"
	"github.com/sweeney/beacon-scanner/internal/event"
	"github.com/sweeney/beacon-scanner/internal/led"
	"github.com/sweeney/beacon-scanner/internal/motion"
	"github.com/sweeney/beacon-scanner/internal/mqtt"
	"github.com/sweeney/beacon-scanner/internal/netstate"
	"github.com/sweeney/beacon-scanner/internal/pipeline"
	"github.com/sweeney/beacon-scanner/internal/report"
	"github.com/sweeney/beacon-scanner/internal/sched"
	"github.com/sweeney/beacon-scanner/internal/status"
	"github.com/sweeney/beacon-scanner/internal/timer"
	"github.com/sweeney/beacon-scanner/internal/transport"
	"github.com/sweeney/beacon-scanner/internal/vibration"
)

type nodeDeps struct {
	opts    options
	cfg     config.Config
	hw      *hardware
	clock   timer.Clock
	link    netstate.Link
	poster  transport.Poster
	pub     mqtt.Publisher // nil disables the mirror
	tracker *status.Tracker
	mac     string
}

// node is one scheduler generation. Maintenance mode discards it and
// builds a fresh one from the reloaded configuration.
type node struct {
	sched *sched.Scheduler
	state *netstate.State
	agg   *motion.Aggregator
	coord *pipeline.Coordinator
	rep   *pipeline.Reporter
	up    *pipeline.Uplink
	disp  *pipeline.Dispatcher
	leds  *led.Manager
	vib   *vibration.Manager

	maintenance chan struct{}
}

func newNode(ctx context.Context, d nodeDeps) *node {
	s := sched.New(bus.New(), sched.DefaultMailboxLen)
	n := &node{
		sched:       s,
		state:       netstate.NewState(d.mac, netstate.ScannerName(d.cfg.ScannerName, d.mac)),
		maintenance: make(chan struct{}, 1),
	}

	conn := netstate.NewConnectivity(d.link, n.state, d.clock, netstate.DefaultCheckInterval)
	n.agg = motion.NewAggregator(d.hw.accel, d.clock, motion.DefaultSampleInterval)
	n.coord = pipeline.NewCoordinator(ctx, pipeline.CoordinatorConfig{
		Interval: d.opts.scanInterval,
		Duration: d.opts.scanDuration,
	}, d.hw.scanner, s, n.agg, n.state, d.clock)
	n.rep = pipeline.NewReporter(n.state, report.Filter{
		ServiceUUID: d.opts.serviceUUID,
		NamePrefix:  d.opts.namePrefix,
	})
	n.up = pipeline.NewUplink(ctx, d.poster, d.cfg.ServerURL, s)
	n.leds = led.NewManager(d.hw.strip, led.NewRegistry(d.clock))
	n.vib = vibration.NewManager(d.hw.motor, vibration.NewRegistry(d.clock))
	n.disp = pipeline.NewDispatcher(n.leds, n.vib)

	// Connectivity first so every later process sees this tick's link state.
	s.Register(conn, n.agg, n.coord, n.rep, n.up, n.disp, n.leds, n.vib)

	if d.hw.button != nil {
		s.Register(button.NewWatcher(d.hw.button, d.clock, debounce.DefaultWindow, n.requestMaintenance))
	}
	if d.pub != nil {
		s.Register(mqtt.NewMirror(d.pub))
	}
	if d.opts.verbose {
		s.Register(&payloadLogger{})
	}
	s.Register(
		status.NewRecorder(d.tracker, d.clock),
		newMonitor(n, d.tracker, d.pub, d.clock, d.opts.heartbeat),
	)
	return n
}

func (n *node) requestMaintenance() {
	select {
	case n.maintenance <- struct{}{}:
	default:
	}
}

// payloadLogger logs each report body for -verbose.
type payloadLogger struct{}

func (p *payloadLogger) Setup(b *bus.Bus) { b.Subscribe(event.KindDataReady, p) }
func (p *payloadLogger) Update()          {}
func (p *payloadLogger) OnEvent(e event.Event) {
	if dr, ok := e.(event.DataReady); ok {
		log.Printf("report: %s", dr.JSON)
	}
}

// monitor copies node state into the status tracker every tick and sends
// the periodic heartbeat.
type monitor struct {
	n         *node
	tracker   *status.Tracker
	pub       mqtt.Publisher
	heartbeat timer.Timer
}

func newMonitor(n *node, tracker *status.Tracker, pub mqtt.Publisher, clock timer.Clock, every time.Duration) *monitor {
	return &monitor{n: n, tracker: tracker, pub: pub, heartbeat: timer.New(clock, every)}
}

func (m *monitor) Setup(*bus.Bus) { m.heartbeat.Reset() }

func (m *monitor) Update() {
	m.refresh()
	if m.heartbeat.CheckAndReset() {
		publishSystem(m.pub, m.tracker, "HEARTBEAT", "", false)
	}
}

func (m *monitor) OnEvent(event.Event) {}

func (m *monitor) refresh() {
	n := m.n
	info := n.state.Info()
	m.tracker.SetNetwork(n.state.Connected(), &status.NetworkInfo{
		Type:       info.Type,
		IP:         info.IP,
		Status:     info.Status,
		Gateway:    info.Gateway,
		WifiStatus: info.WifiStatus,
		SSID:       info.SSID,
	})
	m.tracker.SetScanner(status.ScannerState{
		Phase:      n.coord.Phase().String(),
		Scans:      n.coord.Scans(),
		LastScan:   n.coord.LastScan(),
		IntervalMs: n.coord.Interval().Milliseconds(),
	})
	sent, failed := n.up.Counts()
	m.tracker.SetUplink(status.UplinkState{Sent: sent, Failed: failed, LastStatus: n.up.LastStatus()})
	m.tracker.SetBehaviors(string(n.leds.CurrentKind()), string(n.vib.CurrentKind()))
	m.tracker.SetMovement(n.agg.Latched())
	if cs, ok := m.pub.(mqtt.ConnectionStatus); ok {
		m.tracker.SetMQTTConnected(cs.IsConnected())
	}
}
