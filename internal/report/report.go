// Package report assembles the JSON payload posted to the server after
// each scan.
package report

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sweeney/beacon-scanner/internal/event"
	"github.com/sweeney/beacon-scanner/internal/scan"
)

// Report is the payload posted after each scan.
type Report struct {
	ScannerID string   `json:"scanner_id"`
	Beacons   []Beacon `json:"beacons"`
	Movement  Movement `json:"movement"`
}

// Beacon is one matching radio seen during the scan.
type Beacon struct {
	Name string `json:"name"`
	RSSI int    `json:"rssi"`
}

// Movement carries the latched motion statistics.
type Movement struct {
	AvgAngleXZ    float64 `json:"avgAngleXZ"`
	AvgAngleYZ    float64 `json:"avgAngleYZ"`
	TotalMovement float64 `json:"totalMovement"`
}

// Filter selects which scan results are beacons. A result matches when it
// advertises the configured service or its name has the configured prefix.
// With neither configured every result matches.
type Filter struct {
	ServiceUUID string
	NamePrefix  string
}

// Match reports whether r passes the filter.
func (f Filter) Match(r scan.Result) bool {
	if f.ServiceUUID == "" && f.NamePrefix == "" {
		return true
	}
	if f.ServiceUUID != "" && r.ServiceMatch {
		return true
	}
	return f.NamePrefix != "" && r.Name != "" && strings.HasPrefix(r.Name, f.NamePrefix)
}

// Build assembles a report. Beacons keep the order of results.
func Build(scannerID string, results []scan.Result, m event.Movement, f Filter) Report {
	r := Report{
		ScannerID: scannerID,
		Beacons:   make([]Beacon, 0, len(results)),
		Movement: Movement{
			AvgAngleXZ:    m.AvgAngleXZ,
			AvgAngleYZ:    m.AvgAngleYZ,
			TotalMovement: m.TotalMovement,
		},
	}
	for _, res := range results {
		if !f.Match(res) {
			continue
		}
		r.Beacons = append(r.Beacons, Beacon{Name: res.DisplayName(), RSSI: res.RSSI})
	}
	return r
}

// Encode serializes the report.
func Encode(r Report) ([]byte, error) {
	if r.Beacons == nil {
		r.Beacons = []Beacon{}
	}
	b, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("encode report: %w", err)
	}
	return b, nil
}
