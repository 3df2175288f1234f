package vibration

import (
	"fmt"
	"time"

	"github.com/sweeney/beacon-scanner/internal/timer"
)

// Off holds the motor at zero duty.
type Off struct {
	base
}

func (*Off) Kind() Kind { return KindOff }

func (o *Off) Setup(out Motor) {
	o.bind(out)
	o.write(0)
}

func (*Off) Update()                   {}
func (*Off) UpdateParams(Params) error { return nil }
func (*Off) configure(Params) error    { return nil }

// Constant holds the motor at a fixed duty.
type Constant struct {
	base
	intensity uint8
}

func (*Constant) Kind() Kind { return KindConstant }

// Intensity returns the configured duty.
func (c *Constant) Intensity() uint8 { return c.intensity }

func (c *Constant) Setup(out Motor) {
	c.bind(out)
	c.write(c.intensity)
}

func (*Constant) Update() {}

func (c *Constant) UpdateParams(p Params) error {
	if p.Intensity != nil && *p.Intensity != c.intensity {
		c.intensity = *p.Intensity
		c.write(c.intensity)
	}
	return nil
}

func (c *Constant) configure(p Params) error {
	if err := needIntensity(KindConstant, p); err != nil {
		return err
	}
	c.intensity = *p.Intensity
	return nil
}

// Burst toggles the motor on and off every 1000/frequency ms, starting
// off. Frequency 0 leaves the motor off.
type Burst struct {
	base
	intensity uint8
	frequency uint32

	toggle timer.Timer
	on     bool
}

func newBurst(clock timer.Clock) *Burst {
	return &Burst{
		base:      base{clock: clock},
		frequency: DefaultBurstFrequency,
		toggle:    timer.New(clock, timer.PeriodFromHz(DefaultBurstFrequency)),
	}
}

func (*Burst) Kind() Kind { return KindBurst }

// Intensity returns the on duty.
func (b *Burst) Intensity() uint8 { return b.intensity }

// Frequency returns the toggle rate in Hz.
func (b *Burst) Frequency() uint32 { return b.frequency }

// On reports whether the motor is in the on half of the cycle.
func (b *Burst) On() bool { return b.on }

func (b *Burst) Setup(out Motor) {
	b.bind(out)
	b.on = false
	b.toggle.Reset()
	b.write(0)
}

func (b *Burst) Update() {
	if !b.toggle.CheckAndReset() {
		return
	}
	b.on = !b.on
	if b.on {
		b.write(b.intensity)
	} else {
		b.write(0)
	}
}

func (b *Burst) setFrequency(hz uint32) {
	b.frequency = hz
	b.toggle.SetInterval(timer.PeriodFromHz(hz))
}

func (b *Burst) UpdateParams(p Params) error {
	if p.Intensity != nil {
		b.intensity = *p.Intensity
		if b.on {
			b.write(b.intensity)
		}
	}
	if p.Frequency != nil {
		b.setFrequency(*p.Frequency)
		if *p.Frequency == 0 && b.on {
			b.on = false
			b.write(0)
		}
	}
	return nil
}

func (b *Burst) configure(p Params) error {
	if err := needIntensity(KindBurst, p); err != nil {
		return err
	}
	b.intensity = *p.Intensity
	b.setFrequency(DefaultBurstFrequency)
	if p.Frequency != nil {
		b.setFrequency(*p.Frequency)
	}
	return nil
}

// Pulse opens every 1000/frequency ms period with a short on-pulse of
// width, then holds the motor off. Frequency 0 leaves the motor off.
type Pulse struct {
	base
	intensity uint8
	frequency uint32

	period timer.Timer
	width  timer.Timer
	on     bool
}

func newPulse(clock timer.Clock) *Pulse {
	return &Pulse{
		base:      base{clock: clock},
		frequency: DefaultPulseFrequency,
		period:    timer.New(clock, timer.PeriodFromHz(DefaultPulseFrequency)),
		width:     timer.New(clock, DefaultPulseWidth),
	}
}

func (*Pulse) Kind() Kind { return KindPulse }

// Intensity returns the pulse duty.
func (p *Pulse) Intensity() uint8 { return p.intensity }

// Frequency returns pulses per second.
func (p *Pulse) Frequency() uint32 { return p.frequency }

// Width returns the on-time of each pulse.
func (p *Pulse) Width() time.Duration { return p.width.Interval }

// On reports whether a pulse is in progress.
func (p *Pulse) On() bool { return p.on }

func (p *Pulse) Setup(out Motor) {
	p.bind(out)
	p.on = false
	p.period.Reset()
	p.write(0)
}

func (p *Pulse) Update() {
	if p.on && p.width.CheckAndReset() {
		p.on = false
		p.write(0)
	}
	if p.period.CheckAndReset() {
		p.on = true
		p.width.Reset()
		p.write(p.intensity)
	}
}

func (p *Pulse) setFrequency(hz uint32) {
	p.frequency = hz
	p.period.SetInterval(timer.PeriodFromHz(hz))
}

// checkWidth rejects a pulse that would fill its whole period.
func checkWidth(hz uint32, width time.Duration) error {
	if period := timer.PeriodFromHz(hz); hz > 0 && width >= period {
		return fmt.Errorf("%w: pulse width %v must be shorter than the %v period", ErrInvalidParams, width, period)
	}
	return nil
}

func (p *Pulse) UpdateParams(pp Params) error {
	hz, width := p.frequency, p.width.Interval
	if pp.Frequency != nil {
		hz = *pp.Frequency
	}
	if pp.Width != nil {
		width = *pp.Width
	}
	if err := checkWidth(hz, width); err != nil {
		return err
	}

	if pp.Intensity != nil {
		p.intensity = *pp.Intensity
		if p.on {
			p.write(p.intensity)
		}
	}
	p.setFrequency(hz)
	p.width.SetInterval(width)
	return nil
}

func (p *Pulse) configure(pp Params) error {
	if err := needIntensity(KindPulse, pp); err != nil {
		return err
	}
	hz, width := DefaultPulseFrequency, DefaultPulseWidth
	if pp.Frequency != nil {
		hz = *pp.Frequency
	}
	if pp.Width != nil {
		width = *pp.Width
	}
	if err := checkWidth(hz, width); err != nil {
		return err
	}

	p.intensity = *pp.Intensity
	p.setFrequency(hz)
	p.width.SetInterval(width)
	return nil
}
