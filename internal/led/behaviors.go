package led

import (
	"fmt"
	"math"
	"time"

	"github.com/sweeney/beacon-scanner/internal/timer"
)

// Off clears the strip once.
type Off struct {
	base
}

func (*Off) Kind() Kind { return KindOff }

func (o *Off) Setup(out Strip) {
	o.bind(out)
	o.clear()
}

func (*Off) Update()                   {}
func (*Off) UpdateParams(Params) error { return nil }
func (*Off) configure(Params) error    { return nil }

// Solid fills the strip with one color once.
type Solid struct {
	base
	color Color
}

func (*Solid) Kind() Kind { return KindSolid }

// Color returns the fill color.
func (s *Solid) Color() Color { return s.color }

func (s *Solid) Setup(out Strip) {
	s.bind(out)
	s.fill(s.color)
}

func (*Solid) Update() {}

func (s *Solid) UpdateParams(p Params) error {
	if p.Color != nil && *p.Color != s.color {
		s.color = *p.Color
		s.fill(s.color)
	}
	return nil
}

func (s *Solid) configure(p Params) error {
	if p.Color == nil {
		return fmt.Errorf("%w: %s needs color", ErrMissingParam, KindSolid)
	}
	s.color = *p.Color
	return nil
}

// Breathing modulates brightness with a sine wave. The sine is sampled at
// 50 Hz by its own timer, independent of the scheduler rate.
type Breathing struct {
	base
	color  Color
	period time.Duration

	sample timer.Timer
	start  time.Time
}

func newBreathing(clock timer.Clock) *Breathing {
	return &Breathing{
		base:   base{clock: clock},
		period: DefaultBreathingPeriod,
		sample: timer.New(clock, breathingSampleInterval),
	}
}

func (*Breathing) Kind() Kind { return KindBreathing }

// Color returns the base color.
func (b *Breathing) Color() Color { return b.color }

// Period returns one full breath.
func (b *Breathing) Period() time.Duration { return b.period }

func (b *Breathing) Setup(out Strip) {
	b.bind(out)
	b.start = b.now()
	b.sample.Reset()
}

func (b *Breathing) Update() {
	if !b.sample.CheckAndReset() {
		return
	}
	b.fill(b.color.Scale(b.brightness(b.now().Sub(b.start))))
}

// brightness maps elapsed time onto the 0..255 sine envelope.
func (b *Breathing) brightness(elapsed time.Duration) uint8 {
	if b.period <= 0 {
		return 255
	}
	phase := float64(elapsed%b.period) / float64(b.period)
	s := math.Sin(2 * math.Pi * phase)
	return uint8(math.Round((s + 1) / 2 * 255))
}

func (b *Breathing) UpdateParams(p Params) error {
	if p.Color != nil {
		b.color = *p.Color
	}
	if p.Period != nil {
		b.period = *p.Period
	}
	return nil
}

func (b *Breathing) configure(p Params) error {
	if p.Color == nil {
		return fmt.Errorf("%w: %s needs color", ErrMissingParam, KindBreathing)
	}
	b.color = *p.Color
	b.period = DefaultBreathingPeriod
	if p.Period != nil {
		b.period = *p.Period
	}
	return nil
}

// Cycle walks a single lit pixel around the strip every delay.
type Cycle struct {
	base
	color Color

	step timer.Timer
	pos  int
}

func newCycle(clock timer.Clock) *Cycle {
	return &Cycle{
		base: base{clock: clock},
		step: timer.New(clock, DefaultCycleDelay),
	}
}

func (*Cycle) Kind() Kind { return KindCycle }

// Color returns the lit pixel color.
func (c *Cycle) Color() Color { return c.color }

// Delay returns the time between steps.
func (c *Cycle) Delay() time.Duration { return c.step.Interval }

// Position returns the next pixel to light.
func (c *Cycle) Position() int { return c.pos }

func (c *Cycle) Setup(out Strip) {
	c.bind(out)
	c.pos = 0
	c.step.Reset()
}

func (c *Cycle) Update() {
	if c.out == nil || !c.step.CheckAndReset() {
		return
	}
	n := c.out.Len()
	if n <= 0 {
		return
	}
	c.pos %= n
	c.out.Clear()
	c.out.SetPixel(c.pos, c.color)
	c.show()
	c.pos = (c.pos + 1) % n
}

func (c *Cycle) UpdateParams(p Params) error {
	if p.Color != nil {
		c.color = *p.Color
	}
	if p.Delay != nil {
		c.step.SetInterval(*p.Delay)
	}
	return nil
}

func (c *Cycle) configure(p Params) error {
	if p.Color == nil {
		return fmt.Errorf("%w: %s needs color", ErrMissingParam, KindCycle)
	}
	c.color = *p.Color
	c.step.SetInterval(DefaultCycleDelay)
	if p.Delay != nil {
		c.step.SetInterval(*p.Delay)
	}
	return nil
}
