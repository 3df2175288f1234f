package led

import (
	"fmt"
	"time"

	"github.com/sweeney/beacon-scanner/internal/timer"
)

// BeatPhase is a state of the heartbeat animation.
type BeatPhase int

const (
	BeatIdle BeatPhase = iota
	BeatFadeIn1
	BeatFadeOut1
	BeatPause
	BeatFadeIn2
	BeatFadeOut2
)

var beatPhaseNames = [...]string{"Idle", "FadeIn1", "FadeOut1", "Pause", "FadeIn2", "FadeOut2"}

func (p BeatPhase) String() string {
	if p < 0 || int(p) >= len(beatPhaseNames) {
		return "Unknown"
	}
	return beatPhaseNames[p]
}

// Phase durations of the double pulse.
const (
	beatFadeIn1  = 60 * time.Millisecond
	beatFadeOut1 = 150 * time.Millisecond
	beatPause    = 100 * time.Millisecond
	beatFadeIn2  = 60 * time.Millisecond
	beatFadeOut2 = 400 * time.Millisecond
)

// HeartBeat plays a double pulse every period:
// FadeIn1 -> FadeOut1 -> Pause -> FadeIn2 -> FadeOut2 -> Idle.
// A phase ends only when its own timer elapses; phases are never skipped.
type HeartBeat struct {
	base
	color Color

	period timer.Timer // between beats
	beat   timer.Timer // current phase
	phase  BeatPhase
}

func newHeartBeat(clock timer.Clock) *HeartBeat {
	return &HeartBeat{
		base:   base{clock: clock},
		period: timer.New(clock, DefaultHeartBeatPeriod),
		beat:   timer.New(clock, beatFadeIn1),
	}
}

func (*HeartBeat) Kind() Kind { return KindHeartBeat }

// Color returns the pulse color.
func (h *HeartBeat) Color() Color { return h.color }

// Period returns the time between beats.
func (h *HeartBeat) Period() time.Duration { return h.period.Interval }

// Phase returns the current animation state.
func (h *HeartBeat) Phase() BeatPhase { return h.phase }

func (h *HeartBeat) Setup(out Strip) {
	h.bind(out)
	h.phase = BeatIdle
	h.period.Reset()
	h.clear()
}

func (h *HeartBeat) enter(p BeatPhase, d time.Duration) {
	h.phase = p
	h.beat.SetInterval(d)
	h.beat.Reset()
}

func (h *HeartBeat) Update() {
	switch h.phase {
	case BeatIdle:
		if h.period.CheckAndReset() {
			h.enter(BeatFadeIn1, beatFadeIn1)
		}
	case BeatFadeIn1:
		if h.fadeIn() {
			h.enter(BeatFadeOut1, beatFadeOut1)
		}
	case BeatFadeOut1:
		if h.fadeOut() {
			h.enter(BeatPause, beatPause)
		}
	case BeatPause:
		if h.beat.CheckAndReset() {
			h.enter(BeatFadeIn2, beatFadeIn2)
		}
	case BeatFadeIn2:
		if h.fadeIn() {
			h.enter(BeatFadeOut2, beatFadeOut2)
		}
	case BeatFadeOut2:
		if h.fadeOut() {
			h.phase = BeatIdle
		}
	}
}

// fadeIn ramps up linearly and reports whether the phase is over.
func (h *HeartBeat) fadeIn() bool {
	elapsed := h.beat.Elapsed()
	if elapsed >= h.beat.Interval {
		h.fill(h.color)
		return true
	}
	h.fill(h.color.Scale(ramp(elapsed, h.beat.Interval)))
	return false
}

// fadeOut ramps down linearly and reports whether the phase is over.
func (h *HeartBeat) fadeOut() bool {
	elapsed := h.beat.Elapsed()
	if elapsed >= h.beat.Interval {
		h.clear()
		return true
	}
	h.fill(h.color.Scale(255 - ramp(elapsed, h.beat.Interval)))
	return false
}

// ramp returns elapsed/total scaled to 0..255.
func ramp(elapsed, total time.Duration) uint8 {
	if total <= 0 || elapsed >= total {
		return 255
	}
	if elapsed <= 0 {
		return 0
	}
	return uint8(int64(elapsed) * 255 / int64(total))
}

func (h *HeartBeat) UpdateParams(p Params) error {
	if p.Color != nil {
		h.color = *p.Color
	}
	if p.Period != nil {
		h.period.SetInterval(*p.Period)
	}
	return nil
}

func (h *HeartBeat) configure(p Params) error {
	if p.Color == nil {
		return fmt.Errorf("%w: %s needs color", ErrMissingParam, KindHeartBeat)
	}
	h.color = *p.Color
	h.period.SetInterval(DefaultHeartBeatPeriod)
	if p.Period != nil {
		h.period.SetInterval(*p.Period)
	}
	return nil
}
