// Package status provides a thread-safe status tracker for the beacon-scanner
// daemon. The scheduler goroutine writes it; HTTP handlers read snapshots.
package status

import (
	"sync"
	"time"

	"github.com/sweeney/beacon-scanner/internal/event"
)

// NetworkInfo contains network state. This is a local copy to avoid
// importing internal/netstate from status.
type NetworkInfo struct {
	Type       string
	IP         string
	Status     string
	Gateway    string
	WifiStatus string
	SSID       string
}

// Config contains daemon configuration for display.
type Config struct {
	DeviceID       string
	ScannerName    string
	ServerURL      string
	Broker         string
	HTTPAddr       string
	TickMs         int64
	ScanIntervalMs int64
	ScanDurationMs int64
	HeartbeatMs    int64
}

// ScannerState describes the scan coordinator.
type ScannerState struct {
	Phase      string
	Scans      uint64
	LastScan   time.Time
	IntervalMs int64
}

// UplinkState describes uploads to the report server.
type UplinkState struct {
	Sent       uint64
	Failed     uint64
	LastStatus int
}

// ReportState is fed from bus events by Recorder.
type ReportState struct {
	Last           time.Time // last DataReady
	Bytes          int
	LastResponse   time.Time
	Disconnects    int
	LastDisconnect string
}

// Snapshot is a point-in-time view of daemon state.
// It is a value type — safe to use after the lock is released.
type Snapshot struct {
	Connected     bool
	Network       *NetworkInfo
	Scanner       ScannerState
	Uplink        UplinkState
	Reports       ReportState
	LED           string
	Vibration     string
	Movement      event.Movement
	MQTTConnected bool
	StartTime     time.Time
	Now           time.Time
	Config        Config
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Tracker holds mutable daemon state behind an RWMutex.
type Tracker struct {
	mu   sync.RWMutex
	snap Snapshot
	now  func() time.Time
}

// NewTracker creates a Tracker with the given start time and config.
func NewTracker(startTime time.Time, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{
			StartTime: startTime,
			Config:    cfg,
		},
		now: time.Now,
	}
}

// SetNetwork sets link connectivity and the network details, if known.
func (t *Tracker) SetNetwork(connected bool, info *NetworkInfo) {
	t.mu.Lock()
	t.snap.Connected = connected
	t.snap.Network = info
	t.mu.Unlock()
}

// SetScanner records the coordinator's state.
func (t *Tracker) SetScanner(s ScannerState) {
	t.mu.Lock()
	t.snap.Scanner = s
	t.mu.Unlock()
}

// SetUplink records upload counters.
func (t *Tracker) SetUplink(u UplinkState) {
	t.mu.Lock()
	t.snap.Uplink = u
	t.mu.Unlock()
}

// SetBehaviors records the active LED and vibration behavior kinds.
func (t *Tracker) SetBehaviors(led, vibration string) {
	t.mu.Lock()
	t.snap.LED = led
	t.snap.Vibration = vibration
	t.mu.Unlock()
}

// SetMovement records the most recently latched motion statistics.
func (t *Tracker) SetMovement(m event.Movement) {
	t.mu.Lock()
	t.snap.Movement = m
	t.mu.Unlock()
}

// SetConfig replaces the configuration summary, e.g. after the
// maintenance shell changed a setting.
func (t *Tracker) SetConfig(cfg Config) {
	t.mu.Lock()
	t.snap.Config = cfg
	t.mu.Unlock()
}

// SetMQTTConnected sets the MQTT connection status.
func (t *Tracker) SetMQTTConnected(connected bool) {
	t.mu.Lock()
	t.snap.MQTTConnected = connected
	t.mu.Unlock()
}

func (t *Tracker) updateReports(fn func(r *ReportState)) {
	t.mu.Lock()
	fn(&t.snap.Reports)
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the daemon state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	t.mu.RUnlock()
	if s.Network != nil {
		n := *s.Network
		s.Network = &n
	}
	s.Now = t.now()
	return s
}
