package scan

import "testing"

type recordingListener struct {
	calls   int
	results []Result
}

func (r *recordingListener) OnScanComplete(results []Result) {
	r.calls++
	r.results = results
}

func TestDisplayName(t *testing.T) {
	tests := []struct {
		r    Result
		want string
	}{
		{Result{Name: "beacon-1", Address: "AA:BB"}, "beacon-1"},
		{Result{Address: "AA:BB"}, "AA:BB"},
	}
	for _, tt := range tests {
		if got := tt.r.DisplayName(); got != tt.want {
			t.Errorf("DisplayName(%+v): got %q, want %q", tt.r, got, tt.want)
		}
	}
}

func TestFakeScannerRejectsConcurrentScan(t *testing.T) {
	l := &recordingListener{}
	f := NewFakeScanner(l)

	if !f.StartScan() {
		t.Fatal("first scan should start")
	}
	if f.StartScan() {
		t.Error("second scan must be refused while scanning")
	}
	if f.Starts != 1 {
		t.Errorf("Starts: got %d, want 1", f.Starts)
	}

	f.Complete([]Result{{Name: "b", Address: "01", RSSI: -60}})
	if l.calls != 1 || len(l.results) != 1 {
		t.Fatalf("listener: got %d calls, %d results", l.calls, len(l.results))
	}
	if f.Scanning() {
		t.Error("should not be scanning after Complete")
	}
	if !f.StartScan() {
		t.Error("scan should start again after completion")
	}
}

func TestFakeScannerRefuse(t *testing.T) {
	f := NewFakeScanner(&recordingListener{})
	f.Refuse = true
	if f.StartScan() {
		t.Error("refusing scanner must not start")
	}
}

func TestFakeFactoryBindsListener(t *testing.T) {
	var fs *FakeScanner
	l := &recordingListener{}
	s := FakeFactory(&fs)(l)
	if s != fs {
		t.Fatal("factory should expose the scanner it built")
	}
	fs.StartScan()
	fs.Complete(nil)
	if l.calls != 1 {
		t.Errorf("bound listener not called")
	}
}

func TestRadioSharedAcrossScanners(t *testing.T) {
	r := &radio{}
	if !r.acquire() {
		t.Fatal("idle radio refused")
	}
	// a second scanner on the same adapter, e.g. after a restart
	if r.acquire() {
		t.Error("busy radio accepted a second scan")
	}
	r.release()
	if !r.acquire() {
		t.Error("released radio refused")
	}
}
