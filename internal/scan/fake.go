package scan

import "sync"

// FakeScanner records scan requests and lets tests complete them.
type FakeScanner struct {
	mu       sync.Mutex
	listener Listener
	scanning bool

	// Starts counts accepted StartScan calls.
	Starts int

	// Refuse, if set, makes StartScan fail as if the radio rejected it.
	Refuse bool
}

// NewFakeScanner creates a FakeScanner bound to l.
func NewFakeScanner(l Listener) *FakeScanner {
	return &FakeScanner{listener: l}
}

// FakeFactory returns a Factory that stores the created scanner in *out.
func FakeFactory(out **FakeScanner) Factory {
	return func(l Listener) Scanner {
		*out = NewFakeScanner(l)
		return *out
	}
}

// StartScan marks a scan as running.
func (f *FakeScanner) StartScan() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.scanning || f.Refuse {
		return false
	}
	f.scanning = true
	f.Starts++
	return true
}

// Scanning reports whether a scan is in progress.
func (f *FakeScanner) Scanning() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.scanning
}

// Complete finishes the running scan with results and notifies the listener
// synchronously on the caller's goroutine.
func (f *FakeScanner) Complete(results []Result) {
	f.mu.Lock()
	f.scanning = false
	l := f.listener
	f.mu.Unlock()
	if l != nil {
		l.OnScanComplete(results)
	}
}
