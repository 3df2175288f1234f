// Package event defines the closed set of events exchanged over the bus.
// Each variant carries only what its consumers need; subscribers switch on
// the concrete type.
package event

import (
	"time"

	"github.com/sweeney/beacon-scanner/internal/scan"
)

// Kind identifies an event variant for subscription.
type Kind int

const (
	KindScanComplete Kind = iota
	KindDataReady
	KindHTTPResponse
	KindWifiConnected
	KindServerDisconnected
	KindSyncTimer
)

var kindNames = [...]string{
	KindScanComplete:       "ScanComplete",
	KindDataReady:          "DataReady",
	KindHTTPResponse:       "HttpResponse",
	KindWifiConnected:      "WifiConnected",
	KindServerDisconnected: "ServerDisconnected",
	KindSyncTimer:          "SyncTimer",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "Unknown"
	}
	return kindNames[k]
}

// Event is implemented only by the variants in this package.
type Event interface {
	Kind() Kind
	sealed()
}

// Movement is the motion statistics latched for one scan interval.
type Movement struct {
	AvgAngleXZ    float64 // degrees
	AvgAngleYZ    float64 // degrees
	TotalMovement float64 // summed deviation from 1 g
	Samples       int
}

// ScanComplete carries a finished scan and the interval's latched motion.
type ScanComplete struct {
	Results  []scan.Result
	Movement Movement
}

// DataReady carries a serialized report ready for upload.
type DataReady struct {
	JSON []byte
}

// HTTPResponse carries the body of a successful upload response.
type HTTPResponse struct {
	Body []byte
}

// WifiConnected is published when the network link comes up.
type WifiConnected struct{}

// ServerDisconnected is published when the link drops or an upload fails.
type ServerDisconnected struct {
	Reason string
}

// SyncTimer asks the scan scheduler to wait Wait before the next scan.
type SyncTimer struct {
	Wait time.Duration
}

func (ScanComplete) Kind() Kind       { return KindScanComplete }
func (DataReady) Kind() Kind          { return KindDataReady }
func (HTTPResponse) Kind() Kind       { return KindHTTPResponse }
func (WifiConnected) Kind() Kind      { return KindWifiConnected }
func (ServerDisconnected) Kind() Kind { return KindServerDisconnected }
func (SyncTimer) Kind() Kind          { return KindSyncTimer }

func (ScanComplete) sealed()       {}
func (DataReady) sealed()          {}
func (HTTPResponse) sealed()       {}
func (WifiConnected) sealed()      {}
func (ServerDisconnected) sealed() {}
func (SyncTimer) sealed()          {}
