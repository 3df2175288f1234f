package pipeline

import (
	"log"

	"github.com/sweeney/beacon-scanner/internal/bus"
	"github.com/sweeney/beacon-scanner/internal/directive"
	"github.com/sweeney/beacon-scanner/internal/event"
	"github.com/sweeney/beacon-scanner/internal/led"
	"github.com/sweeney/beacon-scanner/internal/vibration"
)

// Dispatcher decodes server responses and routes each directive to its
// output manager. Directives are applied independently: a bad LED entry
// does not stop the vibration entry, and nothing here resets a behavior
// that is not named.
type Dispatcher struct {
	leds LEDTarget
	vib  VibrationTarget
	bus  *bus.Bus

	applied  uint64
	rejected uint64
}

func NewDispatcher(leds LEDTarget, vib VibrationTarget) *Dispatcher {
	return &Dispatcher{leds: leds, vib: vib}
}

// Counts returns how many directives were applied and rejected.
func (d *Dispatcher) Counts() (applied, rejected uint64) { return d.applied, d.rejected }

func (d *Dispatcher) Setup(b *bus.Bus) {
	d.bus = b
	b.Subscribe(event.KindHTTPResponse, d)
}

func (d *Dispatcher) Update() {}

func (d *Dispatcher) OnEvent(e event.Event) {
	resp, ok := e.(event.HTTPResponse)
	if !ok {
		return
	}
	set, err := directive.Parse(resp.Body)
	if err != nil {
		log.Printf("dispatch: %v", err)
		return
	}
	for _, err := range set.Dropped {
		d.rejected++
		log.Printf("dispatch: dropped entry: %v", err)
	}

	if set.LED != nil && d.leds != nil {
		d.applyLED(set.LED)
	}
	if set.Vibration != nil && d.vib != nil {
		d.applyVibration(set.Vibration)
	}
	if set.Wait > 0 && d.bus != nil {
		d.bus.Publish(event.SyncTimer{Wait: set.Wait})
	}
}

func (d *Dispatcher) applyLED(s *directive.Spec) {
	p, err := led.DecodeParams(s.Params)
	if err != nil {
		d.rejected++
		log.Printf("dispatch: led %s: %v", s.Type, err)
		return
	}
	out, err := d.leds.Apply(s.Type, p)
	if err != nil {
		d.rejected++
		log.Printf("dispatch: led %s: %v", s.Type, err)
		return
	}
	d.applied++
	log.Printf("dispatch: led %s %s", s.Type, out)
}

func (d *Dispatcher) applyVibration(s *directive.Spec) {
	p, err := vibration.DecodeParams(s.Params)
	if err != nil {
		d.rejected++
		log.Printf("dispatch: vibration %s: %v", s.Type, err)
		return
	}
	out, err := d.vib.Apply(s.Type, p)
	if err != nil {
		d.rejected++
		log.Printf("dispatch: vibration %s: %v", s.Type, err)
		return
	}
	d.applied++
	log.Printf("dispatch: vibration %s %s", s.Type, out)
}
