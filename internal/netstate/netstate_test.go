package netstate

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sweeney/beacon-scanner/internal/bus"
	"github.com/sweeney/beacon-scanner/internal/event"
	"github.com/sweeney/beacon-scanner/internal/timer"
)

var epoch = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

type recorder struct{ got []event.Event }

func (r *recorder) Setup(*bus.Bus)        {}
func (r *recorder) Update()               {}
func (r *recorder) OnEvent(e event.Event) { r.got = append(r.got, e) }

func TestScannerName(t *testing.T) {
	tests := []struct {
		base, mac, want string
	}{
		{"scanner", "aa:bb:cc:dd:ee:ff", "scanner-EEFF"},
		{"scanner", "AA:BB:CC:DD:EE:0F", "scanner-EE0F"},
		{"node", "", "node"},
		{"node", "ab", "node-AB"},
	}
	for _, tt := range tests {
		if got := ScannerName(tt.base, tt.mac); got != tt.want {
			t.Errorf("ScannerName(%q, %q) = %q, want %q", tt.base, tt.mac, got, tt.want)
		}
	}
}

func TestConnectivityPublishesTransitions(t *testing.T) {
	clk := timer.NewFakeClock(epoch)
	link := &StaticLink{}
	state := NewState("AA:BB:CC:DD:EE:FF", "scanner-EEFF")
	c := NewConnectivity(link, state, clk, 500*time.Millisecond)

	b := bus.New()
	rec := &recorder{}
	b.Subscribe(event.KindWifiConnected, rec)
	b.Subscribe(event.KindServerDisconnected, rec)
	c.Setup(b)

	link.Info = Info{Connected: true, IP: "10.0.0.5", Status: "connected"}
	clk.Advance(400 * time.Millisecond)
	c.Update()
	if state.Connected() {
		t.Fatal("link must not be polled before the check interval")
	}

	clk.Advance(100 * time.Millisecond)
	c.Update()
	if !state.Connected() || state.Info().IP != "10.0.0.5" {
		t.Fatalf("state: connected=%v info=%+v", state.Connected(), state.Info())
	}
	if !state.Since().Equal(epoch.Add(500 * time.Millisecond)) {
		t.Errorf("since: got %v", state.Since())
	}

	// No event while the link stays up.
	clk.Advance(500 * time.Millisecond)
	c.Update()

	link.Info = Info{Status: "disconnected"}
	clk.Advance(500 * time.Millisecond)
	c.Update()

	if len(rec.got) != 2 {
		t.Fatalf("events: got %v", rec.got)
	}
	if rec.got[0].Kind() != event.KindWifiConnected {
		t.Errorf("first event: %s", rec.got[0].Kind())
	}
	if d, ok := rec.got[1].(event.ServerDisconnected); !ok || d.Reason != "link down" {
		t.Errorf("second event: %#v", rec.got[1])
	}
}

func TestConnectivityCheckErrorMeansDown(t *testing.T) {
	clk := timer.NewFakeClock(epoch)
	link := &StaticLink{Info: Info{Connected: true}}
	state := NewState("id", "name")
	c := NewConnectivity(link, state, clk, 0)
	c.Setup(bus.New())

	clk.Advance(DefaultCheckInterval)
	c.Update()
	if !state.Connected() {
		t.Fatal("precondition: expected connected")
	}

	link.Err = errors.New("helper gone")
	clk.Advance(DefaultCheckInterval)
	c.Update()
	if state.Connected() {
		t.Error("a failed check must read as disconnected")
	}
}

func TestEnvFileLink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pi-helper.env")
	content := `# written by pi-helper
NETWORK_TYPE=wifi
NETWORK_IP="192.168.1.50"
NETWORK_STATUS=connected
NETWORK_GATEWAY=192.168.1.1
NETWORK_WIFI_STATUS=associated
NETWORK_WIFI_SSID='home'
garbage line
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	info, err := (&EnvFileLink{Path: path}).Check()
	if err != nil {
		t.Fatal(err)
	}
	want := Info{
		Connected:  true,
		Type:       "wifi",
		IP:         "192.168.1.50",
		Status:     "connected",
		Gateway:    "192.168.1.1",
		WifiStatus: "associated",
		SSID:       "home",
	}
	if info != want {
		t.Errorf("got  %+v\nwant %+v", info, want)
	}

	os.WriteFile(path, []byte("NETWORK_STATUS=disconnected\n"), 0o644)
	info, _ = (&EnvFileLink{Path: path}).Check()
	if info.Connected {
		t.Error("disconnected status must not read as connected")
	}
}

func TestEnvFileLinkIgnoresProcessEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pi-helper.env")
	if err := os.WriteFile(path, []byte("NETWORK_STATUS=connected\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("NETWORK_IP", "10.0.0.9")

	info, err := (&EnvFileLink{Path: path}).Check()
	if err != nil {
		t.Fatal(err)
	}
	if info.IP != "" {
		t.Errorf("ip must come from the file only, got %q", info.IP)
	}
	if !info.Connected {
		t.Error("expected connected")
	}
}

func TestEnvFileLinkMissing(t *testing.T) {
	l := &EnvFileLink{Path: filepath.Join(t.TempDir(), "nope.env")}
	if _, err := l.Check(); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestInterfaceLinkLoopback(t *testing.T) {
	info, err := (&InterfaceLink{Name: "lo"}).Check()
	if err != nil {
		t.Skipf("no loopback interface: %v", err)
	}
	if info.Connected {
		t.Error("loopback has no global unicast address")
	}
}
