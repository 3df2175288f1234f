package mqtt

// FakePublisher records published messages for test assertions.
type FakePublisher struct {
	// Reports contains every mirrored report payload.
	Reports [][]byte

	// SystemEvents contains all system events that were published.
	SystemEvents []SystemEvent

	// SystemPayloads contains the JSON payloads for system events.
	SystemPayloads [][]byte

	// ReportError, if set, will be returned by PublishReport.
	ReportError error

	// PublishSystemError, if set, will be returned by PublishSystem.
	PublishSystemError error

	// Closed tracks if Close was called.
	Closed bool

	// Connected controls the return value of IsConnected.
	Connected bool
}

// NewFakePublisher creates a FakePublisher for testing.
func NewFakePublisher() *FakePublisher {
	return &FakePublisher{}
}

// PublishReport records the report payload.
func (f *FakePublisher) PublishReport(payload []byte) error {
	if f.ReportError != nil {
		return f.ReportError
	}
	f.Reports = append(f.Reports, payload)
	return nil
}

// PublishSystem records the system event.
func (f *FakePublisher) PublishSystem(event SystemEvent) error {
	if f.PublishSystemError != nil {
		return f.PublishSystemError
	}

	f.SystemEvents = append(f.SystemEvents, event)

	payload, err := FormatSystemPayload(event)
	if err != nil {
		return err
	}
	f.SystemPayloads = append(f.SystemPayloads, payload)

	return nil
}

// Close marks the publisher as closed.
func (f *FakePublisher) Close() error {
	f.Closed = true
	return nil
}

// IsConnected reports whether the fake publisher is "connected".
func (f *FakePublisher) IsConnected() bool {
	return f.Connected
}

// Reset clears recorded messages.
func (f *FakePublisher) Reset() {
	f.Reports = nil
	f.SystemEvents = nil
	f.SystemPayloads = nil
	f.Closed = false
	f.ReportError = nil
	f.PublishSystemError = nil
	f.Connected = false
}
