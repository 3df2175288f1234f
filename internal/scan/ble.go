//go:build linux

package scan

import (
	"fmt"
	"log"
	"sync"
	"time"

	"tinygo.org/x/bluetooth"
)

// BLEScanner scans for advertising beacons through BlueZ.
type BLEScanner struct {
	adapter    *bluetooth.Adapter
	duration   time.Duration
	service    bluetooth.UUID
	hasService bool
	listener   Listener
	radio      *radio
}

// NewBLE enables the adapter and returns a Factory for scanners using it.
func NewBLE(adapter *bluetooth.Adapter, opts Options) (Factory, error) {
	if err := adapter.Enable(); err != nil {
		return nil, fmt.Errorf("enable bluetooth adapter: %w", err)
	}

	var (
		svc bluetooth.UUID
		has bool
	)
	if opts.ServiceUUID != "" {
		u, err := bluetooth.ParseUUID(opts.ServiceUUID)
		if err != nil {
			return nil, fmt.Errorf("parse service uuid %q: %w", opts.ServiceUUID, err)
		}
		svc, has = u, true
	}

	r := &radio{}
	return func(l Listener) Scanner {
		return &BLEScanner{
			radio:      r,
			adapter:    adapter,
			duration:   opts.Duration,
			service:    svc,
			hasService: has,
			listener:   l,
		}
	}, nil
}

// StartScan begins a non-continuous scan of the configured duration.
func (s *BLEScanner) StartScan() bool {
	if !s.radio.acquire() {
		return false
	}
	go s.run()
	return true
}

func (s *BLEScanner) run() {
	var (
		mu      sync.Mutex
		seen    = make(map[string]int)
		results []Result
	)

	stop := time.AfterFunc(s.duration, func() {
		if err := s.adapter.StopScan(); err != nil {
			log.Printf("scan: stop: %v", err)
		}
	})

	err := s.adapter.Scan(func(_ *bluetooth.Adapter, dev bluetooth.ScanResult) {
		r := Result{
			Name:    dev.LocalName(),
			Address: dev.Address.String(),
			RSSI:    int(dev.RSSI),
		}
		if s.hasService {
			r.ServiceMatch = dev.HasServiceUUID(s.service)
		}

		mu.Lock()
		defer mu.Unlock()
		// Keep first-seen order; later advertisements refresh RSSI.
		if i, ok := seen[r.Address]; ok {
			results[i] = r
			return
		}
		seen[r.Address] = len(results)
		results = append(results, r)
	})
	stop.Stop()
	if err != nil {
		log.Printf("scan: %v", err)
	}

	mu.Lock()
	out := results
	mu.Unlock()

	s.radio.release()
	s.listener.OnScanComplete(out)
}
