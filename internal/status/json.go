package status

import (
	"encoding/json"
	"time"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Event         string        `json:"event,omitempty"`
	Reason        string        `json:"reason,omitempty"`
	DeviceID      string        `json:"device_id"`
	ScannerName   string        `json:"scanner_name"`
	Connected     bool          `json:"connected"`
	UptimeSeconds int64         `json:"uptime_seconds"`
	StartTime     string        `json:"start_time"`
	Timestamp     string        `json:"timestamp"`
	Scanner       ScannerJSON   `json:"scanner"`
	Uplink        UplinkJSON    `json:"uplink"`
	Behaviors     BehaviorsJSON `json:"behaviors"`
	Movement      MovementJSON  `json:"movement"`
	MQTT          MQTTStatus    `json:"mqtt"`
	Network       *NetworkJSON  `json:"network,omitempty"`
	Config        ConfigJSON    `json:"config"`
}

// ScannerJSON reports the scan coordinator.
type ScannerJSON struct {
	State      string `json:"state"`
	Scans      uint64 `json:"scans"`
	LastScan   string `json:"last_scan,omitempty"`
	IntervalMs int64  `json:"interval_ms"`
}

// UplinkJSON reports uploads to the report server.
type UplinkJSON struct {
	Sent           uint64 `json:"sent"`
	Failed         uint64 `json:"failed"`
	LastStatus     int    `json:"last_http_status"`
	LastReport     string `json:"last_report,omitempty"`
	ReportBytes    int    `json:"report_bytes"`
	LastResponse   string `json:"last_response,omitempty"`
	Disconnects    int    `json:"disconnects"`
	LastDisconnect string `json:"last_disconnect,omitempty"`
}

// BehaviorsJSON names the active output behaviors.
type BehaviorsJSON struct {
	LED       string `json:"led"`
	Vibration string `json:"vibration"`
}

// MovementJSON uses the report's field names.
type MovementJSON struct {
	AvgAngleXZ    float64 `json:"avgAngleXZ"`
	AvgAngleYZ    float64 `json:"avgAngleYZ"`
	TotalMovement float64 `json:"totalMovement"`
	Samples       int     `json:"samples"`
}

// MQTTStatus reports MQTT connection state.
type MQTTStatus struct {
	Connected bool   `json:"connected"`
	Broker    string `json:"broker"`
}

// NetworkJSON is the JSON representation of network info.
type NetworkJSON struct {
	Type       string `json:"type"`
	IP         string `json:"ip"`
	Status     string `json:"status"`
	Gateway    string `json:"gateway"`
	WifiStatus string `json:"wifi_status"`
	SSID       string `json:"ssid"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	ServerURL      string `json:"server_url"`
	TickMs         int64  `json:"tick_ms"`
	ScanIntervalMs int64  `json:"scan_interval_ms"`
	ScanDurationMs int64  `json:"scan_duration_ms"`
	HeartbeatMs    int64  `json:"heartbeat_ms"`
	Broker         string `json:"broker"`
	HTTPAddr       string `json:"http_addr"`
}

func stamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func orUnknown(s string) string {
	if s == "" {
		return "UNKNOWN"
	}
	return s
}

func buildInner(snap Snapshot) StatusInner {
	inner := StatusInner{
		DeviceID:      snap.Config.DeviceID,
		ScannerName:   snap.Config.ScannerName,
		Connected:     snap.Connected,
		UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:     stamp(snap.StartTime),
		Timestamp:     stamp(snap.Now),
		Scanner: ScannerJSON{
			State:      orUnknown(snap.Scanner.Phase),
			Scans:      snap.Scanner.Scans,
			LastScan:   stamp(snap.Scanner.LastScan),
			IntervalMs: snap.Scanner.IntervalMs,
		},
		Uplink: UplinkJSON{
			Sent:           snap.Uplink.Sent,
			Failed:         snap.Uplink.Failed,
			LastStatus:     snap.Uplink.LastStatus,
			LastReport:     stamp(snap.Reports.Last),
			ReportBytes:    snap.Reports.Bytes,
			LastResponse:   stamp(snap.Reports.LastResponse),
			Disconnects:    snap.Reports.Disconnects,
			LastDisconnect: snap.Reports.LastDisconnect,
		},
		Behaviors: BehaviorsJSON{
			LED:       orUnknown(snap.LED),
			Vibration: orUnknown(snap.Vibration),
		},
		Movement: MovementJSON{
			AvgAngleXZ:    snap.Movement.AvgAngleXZ,
			AvgAngleYZ:    snap.Movement.AvgAngleYZ,
			TotalMovement: snap.Movement.TotalMovement,
			Samples:       snap.Movement.Samples,
		},
		MQTT: MQTTStatus{Connected: snap.MQTTConnected, Broker: snap.Config.Broker},
		Config: ConfigJSON{
			ServerURL:      snap.Config.ServerURL,
			TickMs:         snap.Config.TickMs,
			ScanIntervalMs: snap.Config.ScanIntervalMs,
			ScanDurationMs: snap.Config.ScanDurationMs,
			HeartbeatMs:    snap.Config.HeartbeatMs,
			Broker:         snap.Config.Broker,
			HTTPAddr:       snap.Config.HTTPAddr,
		},
	}
	if snap.Network != nil {
		inner.Network = &NetworkJSON{
			Type:       snap.Network.Type,
			IP:         snap.Network.IP,
			Status:     snap.Network.Status,
			Gateway:    snap.Network.Gateway,
			WifiStatus: snap.Network.WifiStatus,
			SSID:       snap.Network.SSID,
		}
	}
	return inner
}

// FormatJSON returns the JSON status for the web endpoint (no event/reason).
func FormatJSON(snap Snapshot) []byte {
	data, _ := json.MarshalIndent(StatusJSON{Status: buildInner(snap)}, "", "  ")
	return data
}

// FormatStatusEvent returns the JSON status for an MQTT system event.
func FormatStatusEvent(snap Snapshot, event, reason string) []byte {
	inner := buildInner(snap)
	inner.Event = event
	inner.Reason = reason

	data, _ := json.Marshal(StatusJSON{Status: inner})
	return data
}
