// Package netstate owns the node's connectivity flag and identity. The
// Connectivity process is the only writer; everything else reads State on
// the scheduler goroutine.
package netstate

import (
	"log"
	"strings"
	"time"

	"github.com/sweeney/beacon-scanner/internal/bus"
	"github.com/sweeney/beacon-scanner/internal/event"
	"github.com/sweeney/beacon-scanner/internal/timer"
)

// DefaultCheckInterval is how often the link is polled.
const DefaultCheckInterval = 500 * time.Millisecond

// Info describes the network link.
type Info struct {
	Connected  bool
	Type       string `env:"NETWORK_TYPE"`
	IP         string `env:"NETWORK_IP"`
	Status     string `env:"NETWORK_STATUS"`
	Gateway    string `env:"NETWORK_GATEWAY"`
	WifiStatus string `env:"NETWORK_WIFI_STATUS"`
	SSID       string `env:"NETWORK_WIFI_SSID"`
}

// Link reports the current state of the network link.
type Link interface {
	Check() (Info, error)
}

// State is the shared connectivity and identity record. It is not safe for
// concurrent use.
type State struct {
	deviceID    string
	scannerName string

	connected bool
	info      Info
	changed   time.Time
}

// NewState creates a disconnected State.
func NewState(deviceID, scannerName string) *State {
	return &State{deviceID: deviceID, scannerName: scannerName}
}

// DeviceID returns the identifier reported as scanner_id.
func (s *State) DeviceID() string { return s.deviceID }

// ScannerName returns the human-readable node name.
func (s *State) ScannerName() string { return s.scannerName }

// Connected reports whether the network link is up.
func (s *State) Connected() bool { return s.connected }

// Info returns the last link reading.
func (s *State) Info() Info { return s.info }

// Since returns when connectivity last changed.
func (s *State) Since() time.Time { return s.changed }

// ScannerName builds "<base>-<last two MAC octets>", e.g. "scanner-EEFF".
func ScannerName(base, mac string) string {
	hex := strings.ToUpper(strings.ReplaceAll(mac, ":", ""))
	if len(hex) > 4 {
		hex = hex[len(hex)-4:]
	}
	if hex == "" {
		return base
	}
	return base + "-" + hex
}

// Connectivity polls the link and publishes transitions: WifiConnected when
// the link comes up and ServerDisconnected when it drops.
type Connectivity struct {
	link  Link
	state *State
	check timer.Timer
	clock timer.Clock
	bus   *bus.Bus

	checkFailed bool
}

// NewConnectivity creates the writer for state.
func NewConnectivity(link Link, state *State, clock timer.Clock, interval time.Duration) *Connectivity {
	if clock == nil {
		clock = timer.SystemClock{}
	}
	if interval <= 0 {
		interval = DefaultCheckInterval
	}
	return &Connectivity{link: link, state: state, clock: clock, check: timer.New(clock, interval)}
}

func (c *Connectivity) Setup(b *bus.Bus) {
	c.bus = b
	c.check.Reset()
}

func (c *Connectivity) Update() {
	if c.check.CheckAndReset() {
		c.poll()
	}
}

func (c *Connectivity) OnEvent(event.Event) {}

func (c *Connectivity) poll() {
	if c.link == nil {
		return
	}
	info, err := c.link.Check()
	if err != nil {
		if !c.checkFailed {
			log.Printf("netstate: check link: %v", err)
			c.checkFailed = true
		}
		info = Info{Status: "unknown"}
	} else {
		c.checkFailed = false
	}
	c.state.info = info
	if info.Connected == c.state.connected {
		return
	}

	c.state.connected = info.Connected
	c.state.changed = c.clock.Now()
	if info.Connected {
		log.Printf("netstate: connected (ip=%s ssid=%s)", info.IP, info.SSID)
		if c.bus != nil {
			c.bus.Publish(event.WifiConnected{})
		}
		return
	}
	log.Printf("netstate: disconnected")
	if c.bus != nil {
		c.bus.Publish(event.ServerDisconnected{Reason: "link down"})
	}
}

// StaticLink is a Link with a fixed answer, for tests and for running
// without link monitoring.
type StaticLink struct {
	Info Info
	Err  error
}

func (l *StaticLink) Check() (Info, error) { return l.Info, l.Err }
