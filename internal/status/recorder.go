package status

import (
	"github.com/sweeney/beacon-scanner/internal/bus"
	"github.com/sweeney/beacon-scanner/internal/event"
	"github.com/sweeney/beacon-scanner/internal/timer"
)

// Recorder is a process that notes report traffic on the tracker.
type Recorder struct {
	tracker *Tracker
	clock   timer.Clock
}

func NewRecorder(t *Tracker, clock timer.Clock) *Recorder {
	if clock == nil {
		clock = timer.SystemClock{}
	}
	return &Recorder{tracker: t, clock: clock}
}

func (r *Recorder) Setup(b *bus.Bus) {
	b.Subscribe(event.KindDataReady, r)
	b.Subscribe(event.KindHTTPResponse, r)
	b.Subscribe(event.KindServerDisconnected, r)
}

func (r *Recorder) Update() {}

func (r *Recorder) OnEvent(e event.Event) {
	now := r.clock.Now()
	switch e := e.(type) {
	case event.DataReady:
		r.tracker.updateReports(func(s *ReportState) {
			s.Last = now
			s.Bytes = len(e.JSON)
		})
	case event.HTTPResponse:
		r.tracker.updateReports(func(s *ReportState) { s.LastResponse = now })
	case event.ServerDisconnected:
		r.tracker.updateReports(func(s *ReportState) {
			s.Disconnects++
			s.LastDisconnect = e.Reason
		})
	}
}
