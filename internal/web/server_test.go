package web

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sweeney/beacon-scanner/internal/status"
)

func newTestServer(t *testing.T) (*httptest.Server, *status.Tracker) {
	t.Helper()
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	cfg := status.Config{
		DeviceID:       "AABBCCDDEEFF",
		ScannerName:    "scanner-DDEEFF",
		ServerURL:      "http://192.168.1.165:5000/data",
		Broker:         "tcp://192.168.1.200:1883",
		HTTPAddr:       ":80",
		TickMs:         10,
		ScanIntervalMs: 6000,
		ScanDurationMs: 5000,
		HeartbeatMs:    900000,
	}
	tr := status.NewTracker(start, cfg)
	srv := New(":0", tr)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts, tr
}

func getJSON(t *testing.T, url string) status.StatusJSON {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		t.Errorf("status: got %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type: got %q, want application/json", ct)
	}

	var sj status.StatusJSON
	if err := json.NewDecoder(resp.Body).Decode(&sj); err != nil {
		t.Fatalf("decode JSON: %v", err)
	}
	return sj
}

func getBody(t *testing.T, url string) (int, string) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(b)
}

func TestJSONEndpoint(t *testing.T) {
	ts, tr := newTestServer(t)
	tr.SetNetwork(true, &status.NetworkInfo{Type: "wifi", IP: "192.168.1.42", Status: "connected", SSID: "MyNet"})
	tr.SetScanner(status.ScannerState{Phase: "Scanning", Scans: 3, IntervalMs: 6000})
	tr.SetUplink(status.UplinkState{Sent: 2, Failed: 1, LastStatus: 200})
	tr.SetBehaviors("HeartBeat", "Pulse")
	tr.SetMQTTConnected(true)

	sj := getJSON(t, ts.URL+"/index.json")

	if sj.Status.DeviceID != "AABBCCDDEEFF" {
		t.Errorf("DeviceID: got %q", sj.Status.DeviceID)
	}
	if !sj.Status.Connected {
		t.Error("expected Connected=true")
	}
	if sj.Status.Scanner.State != "Scanning" || sj.Status.Scanner.Scans != 3 {
		t.Errorf("scanner: got %+v", sj.Status.Scanner)
	}
	if sj.Status.Uplink.LastStatus != 200 || sj.Status.Uplink.Failed != 1 {
		t.Errorf("uplink: got %+v", sj.Status.Uplink)
	}
	if sj.Status.Behaviors.LED != "HeartBeat" || sj.Status.Behaviors.Vibration != "Pulse" {
		t.Errorf("behaviors: got %+v", sj.Status.Behaviors)
	}
	if !sj.Status.MQTT.Connected || sj.Status.MQTT.Broker != "tcp://192.168.1.200:1883" {
		t.Errorf("mqtt: got %+v", sj.Status.MQTT)
	}
	if sj.Status.Network == nil || sj.Status.Network.IP != "192.168.1.42" {
		t.Errorf("network: got %+v", sj.Status.Network)
	}
	if sj.Status.Config.ScanIntervalMs != 6000 {
		t.Errorf("Config.ScanIntervalMs: got %d", sj.Status.Config.ScanIntervalMs)
	}
}

func TestJSONUnknownBeforeFirstTick(t *testing.T) {
	ts, _ := newTestServer(t)

	sj := getJSON(t, ts.URL+"/index.json")

	if sj.Status.Scanner.State != "UNKNOWN" {
		t.Errorf("scanner state before first tick: got %q, want UNKNOWN", sj.Status.Scanner.State)
	}
	if sj.Status.Network != nil {
		t.Error("expected no network before first poll")
	}
}

func TestHTMLEndpoints(t *testing.T) {
	ts, tr := newTestServer(t)
	tr.SetBehaviors("Breathing", "Off")
	tr.SetScanner(status.ScannerState{Phase: "Idle", Scans: 9})

	for _, path := range []string{"/", "/index.html"} {
		t.Run(path, func(t *testing.T) {
			resp, err := http.Get(ts.URL + path)
			if err != nil {
				t.Fatalf("GET %s: %v", path, err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != 200 {
				t.Errorf("status: got %d, want 200", resp.StatusCode)
			}
			if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
				t.Errorf("Content-Type: got %q, want text/html", ct)
			}
			b, _ := io.ReadAll(resp.Body)
			body := string(b)
			for _, want := range []string{"scanner-DDEEFF", `<td id="led">Breathing</td>`, `class="idle">Idle</td>`, "never"} {
				if !strings.Contains(body, want) {
					t.Errorf("body missing %q", want)
				}
			}
		})
	}
}

func TestNotFoundForUnknownPath(t *testing.T) {
	ts, _ := newTestServer(t)

	code, _ := getBody(t, ts.URL+"/nonexistent")
	if code != 404 {
		t.Errorf("status: got %d, want 404", code)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Post(ts.URL+"/index.json", "application/json", strings.NewReader("{}"))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("status: got %d, want 405", resp.StatusCode)
	}
}

func TestStateChangesReflectedInResponse(t *testing.T) {
	ts, tr := newTestServer(t)

	if sj := getJSON(t, ts.URL+"/index.json"); sj.Status.Connected {
		t.Error("expected Connected=false initially")
	}

	tr.SetNetwork(true, nil)
	tr.SetUplink(status.UplinkState{Sent: 1, LastStatus: 200})

	sj := getJSON(t, ts.URL+"/index.json")
	if !sj.Status.Connected {
		t.Error("expected Connected=true after update")
	}
	if sj.Status.Uplink.Sent != 1 {
		t.Errorf("Uplink.Sent: got %d, want 1", sj.Status.Uplink.Sent)
	}
}
