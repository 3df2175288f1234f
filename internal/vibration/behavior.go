// Package vibration drives the haptic motor with a closed set of
// behaviors, mirroring the led package: a Registry of reusable instances
// and a Manager that owns the motor and delegates updates.
package vibration

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/sweeney/beacon-scanner/internal/timer"
)

var (
	ErrUnknownKind   = errors.New("vibration: unknown behavior")
	ErrMissingParam  = errors.New("vibration: missing parameter")
	ErrInvalidParams = errors.New("vibration: invalid parameters")
)

// Kind names a behavior variant, as used on the wire.
type Kind string

const (
	KindOff      Kind = "Off"
	KindConstant Kind = "Constant"
	KindBurst    Kind = "Burst"
	KindPulse    Kind = "Pulse"
)

const (
	DefaultBurstFrequency uint32 = 2
	DefaultPulseFrequency uint32 = 1
	DefaultPulseWidth            = 50 * time.Millisecond
)

// Params holds the parameters present in a directive; nil means absent.
type Params struct {
	Intensity *uint8
	Frequency *uint32
	Width     *time.Duration
}

type wireParams struct {
	Intensity *int64 `json:"intensity"`
	Frequency *int64 `json:"frequency"`
	Width     *int64 `json:"width"`
}

// DecodeParams decodes a directive's params object.
func DecodeParams(raw json.RawMessage) (Params, error) {
	var p Params
	if len(raw) == 0 || string(raw) == "null" {
		return p, nil
	}

	var w wireParams
	if err := json.Unmarshal(raw, &w); err != nil {
		return p, fmt.Errorf("%w: %v", ErrInvalidParams, err)
	}
	if w.Intensity != nil {
		if *w.Intensity < 0 || *w.Intensity > 255 {
			return p, fmt.Errorf("%w: intensity %d out of range", ErrInvalidParams, *w.Intensity)
		}
		v := uint8(*w.Intensity)
		p.Intensity = &v
	}
	if w.Frequency != nil {
		if *w.Frequency < 0 || *w.Frequency > 1000 {
			return p, fmt.Errorf("%w: frequency %d out of range", ErrInvalidParams, *w.Frequency)
		}
		v := uint32(*w.Frequency)
		p.Frequency = &v
	}
	if w.Width != nil {
		if *w.Width <= 0 {
			return p, fmt.Errorf("%w: width %d", ErrInvalidParams, *w.Width)
		}
		d := time.Duration(*w.Width) * time.Millisecond
		p.Width = &d
	}
	return p, nil
}

// Behavior is a motor pattern. The variant set is closed.
type Behavior interface {
	Kind() Kind
	Setup(out Motor)
	Update()
	UpdateParams(p Params) error
	configure(p Params) error
}

type base struct {
	clock timer.Clock
	out   Motor

	duty        uint8
	writeFailed bool
}

func (b *base) bind(out Motor) {
	b.out = out
	b.writeFailed = false
}

// write sets the duty, logging only the first failure in a run.
func (b *base) write(duty uint8) {
	b.duty = duty
	if b.out == nil {
		return
	}
	if err := b.out.SetDuty(duty); err != nil {
		if !b.writeFailed {
			log.Printf("vibration: set duty %d: %v", duty, err)
			b.writeFailed = true
		}
		return
	}
	b.writeFailed = false
}

// Duty returns the duty last written by the behavior.
func (b *base) Duty() uint8 { return b.duty }

func needIntensity(k Kind, p Params) error {
	if p.Intensity == nil {
		return fmt.Errorf("%w: %s needs intensity", ErrMissingParam, k)
	}
	return nil
}
