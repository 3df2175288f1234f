package mqtt

import (
	"log"

	"github.com/sweeney/beacon-scanner/internal/bus"
	"github.com/sweeney/beacon-scanner/internal/event"
)

// Mirror is a process that republishes every DataReady payload.
type Mirror struct {
	pub       Publisher
	published int
	failed    int
}

func NewMirror(pub Publisher) *Mirror {
	return &Mirror{pub: pub}
}

// Counts returns mirrored and failed reports.
func (m *Mirror) Counts() (published, failed int) { return m.published, m.failed }

func (m *Mirror) Setup(b *bus.Bus) {
	b.Subscribe(event.KindDataReady, m)
}

func (m *Mirror) Update() {}

func (m *Mirror) OnEvent(e event.Event) {
	dr, ok := e.(event.DataReady)
	if !ok {
		return
	}
	if err := m.pub.PublishReport(dr.JSON); err != nil {
		m.failed++
		log.Printf("mqtt: mirror report: %v", err)
		return
	}
	m.published++
}
