package pipeline

import (
	"log"

	"github.com/sweeney/beacon-scanner/internal/bus"
	"github.com/sweeney/beacon-scanner/internal/event"
	"github.com/sweeney/beacon-scanner/internal/netstate"
	"github.com/sweeney/beacon-scanner/internal/report"
)

// Reporter turns ScanComplete into a DataReady payload.
type Reporter struct {
	state  *netstate.State
	filter report.Filter
	bus    *bus.Bus

	last report.Report
}

func NewReporter(state *netstate.State, filter report.Filter) *Reporter {
	return &Reporter{state: state, filter: filter}
}

// Last returns the most recent report built.
func (r *Reporter) Last() report.Report { return r.last }

func (r *Reporter) Setup(b *bus.Bus) {
	r.bus = b
	b.Subscribe(event.KindScanComplete, r)
}

func (r *Reporter) Update() {}

func (r *Reporter) OnEvent(e event.Event) {
	sc, ok := e.(event.ScanComplete)
	if !ok {
		return
	}
	if !r.state.Connected() {
		log.Printf("report: not connected, skipping")
		return
	}

	rep := report.Build(r.state.DeviceID(), sc.Results, sc.Movement, r.filter)
	data, err := report.Encode(rep)
	if err != nil {
		log.Printf("report: %v", err)
		return
	}
	r.last = rep
	log.Printf("report: %d of %d devices matched", len(rep.Beacons), len(sc.Results))
	r.bus.Publish(event.DataReady{JSON: data})
}
