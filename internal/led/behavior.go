// Package led drives the addressable LED strip with a closed set of
// animation behaviors. Exactly one behavior is active on the strip at a
// time; the Manager owns the strip and delegates per-tick updates.
package led

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/sweeney/beacon-scanner/internal/timer"
)

// Errors returned when a directive cannot be applied.
var (
	ErrUnknownKind   = errors.New("led: unknown behavior")
	ErrMissingParam  = errors.New("led: missing parameter")
	ErrInvalidParams = errors.New("led: invalid parameters")
)

// Kind names a behavior variant, as used on the wire.
type Kind string

const (
	KindOff       Kind = "Off"
	KindSolid     Kind = "Solid"
	KindBreathing Kind = "Breathing"
	KindHeartBeat Kind = "HeartBeat"
	KindCycle     Kind = "Cycle"
)

// Default parameter values applied on activation.
const (
	DefaultBreathingPeriod = 4 * time.Second
	DefaultHeartBeatPeriod = 1200 * time.Millisecond
	DefaultCycleDelay      = 100 * time.Millisecond

	// breathing samples its sine at 50 Hz regardless of the tick rate
	breathingSampleInterval = time.Second / 50
)

// Params holds the parameters present in a directive. Nil fields were
// absent and leave the current value untouched when patching.
type Params struct {
	Color  *Color
	Period *time.Duration
	Delay  *time.Duration
}

type wireParams struct {
	Color  *string `json:"color"`
	Period *int64  `json:"period"`
	Delay  *int64  `json:"delay"`
}

// DecodeParams decodes a directive's params object. Empty input yields
// empty Params.
func DecodeParams(raw json.RawMessage) (Params, error) {
	var p Params
	if len(raw) == 0 || string(raw) == "null" {
		return p, nil
	}

	var w wireParams
	if err := json.Unmarshal(raw, &w); err != nil {
		return p, fmt.Errorf("%w: %v", ErrInvalidParams, err)
	}
	if w.Color != nil {
		c, err := ParseColor(*w.Color)
		if err != nil {
			return p, err
		}
		p.Color = &c
	}
	if w.Period != nil {
		if *w.Period <= 0 {
			return p, fmt.Errorf("%w: period %d", ErrInvalidParams, *w.Period)
		}
		d := time.Duration(*w.Period) * time.Millisecond
		p.Period = &d
	}
	if w.Delay != nil {
		if *w.Delay <= 0 {
			return p, fmt.Errorf("%w: delay %d", ErrInvalidParams, *w.Delay)
		}
		d := time.Duration(*w.Delay) * time.Millisecond
		p.Delay = &d
	}
	return p, nil
}

// Behavior is an LED animation strategy. The variant set is closed: only
// the behaviors in this package implement it.
type Behavior interface {
	Kind() Kind

	// Setup binds the strip and resets all phase state.
	Setup(out Strip)

	// Update advances the animation. It is called every tick and never blocks.
	Update()

	// UpdateParams patches the parameters present in p in place without
	// resetting the animation phase.
	UpdateParams(p Params) error

	// configure resets parameters to defaults, applies p, and checks that
	// everything required for activation is present. Nothing is changed on
	// error.
	configure(p Params) error
}

// base carries what every behavior needs to draw.
type base struct {
	clock timer.Clock
	out   Strip

	showFailed bool
}

func (b *base) bind(out Strip) {
	b.out = out
	b.showFailed = false
}

func (b *base) now() time.Time {
	if b.clock == nil {
		return time.Now()
	}
	return b.clock.Now()
}

// show pushes the frame, logging only the first failure in a run.
func (b *base) show() {
	if b.out == nil {
		return
	}
	if err := b.out.Show(); err != nil {
		if !b.showFailed {
			log.Printf("led: show: %v", err)
			b.showFailed = true
		}
		return
	}
	b.showFailed = false
}

func (b *base) fill(c Color) {
	if b.out == nil {
		return
	}
	b.out.Fill(c)
	b.show()
}

func (b *base) clear() {
	if b.out == nil {
		return
	}
	b.out.Clear()
	b.show()
}
