// Package scan defines the beacon scanning collaborator: a Scanner that runs
// one scan at a time and reports completion to exactly one Listener.
package scan

import (
	"errors"
	"sync"
	"time"
)

// ErrBusy is returned when a scan is requested while one is running.
var ErrBusy = errors.New("scan: already scanning")

// Result is a single discovered radio.
type Result struct {
	Name         string // empty when the device advertised no name
	Address      string
	RSSI         int
	ServiceMatch bool // advertises the configured beacon service
}

// DisplayName returns the advertised name, falling back to the address.
func (r Result) DisplayName() string {
	if r.Name != "" {
		return r.Name
	}
	return r.Address
}

// Listener receives scan completions. Completions may arrive on any
// goroutine; implementations must hand them to their own thread.
type Listener interface {
	OnScanComplete(results []Result)
}

// Scanner starts asynchronous scans.
type Scanner interface {
	// StartScan begins a scan and returns false if one is already running
	// or the radio refused to start.
	StartScan() bool
}

// Factory builds a Scanner bound to its single Listener. Binding at
// construction means a scanner can never report to more than one owner.
type Factory func(l Listener) Scanner

// Options configures a scan.
type Options struct {
	Duration    time.Duration
	ServiceUUID string // beacon service; empty disables service matching
}

// radio guards one adapter. Every scanner a factory builds shares it, so a
// scan left running by a discarded scanner still blocks its replacement.
type radio struct {
	mu   sync.Mutex
	busy bool
}

func (r *radio) acquire() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.busy {
		return false
	}
	r.busy = true
	return true
}

func (r *radio) release() {
	r.mu.Lock()
	r.busy = false
	r.mu.Unlock()
}
