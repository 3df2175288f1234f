// Package debounce turns noisy two-level input samples into clean edges.
// It has no hardware or clock dependencies; time is passed in with each
// sample.
package debounce

import "time"

// DefaultWindow is the debounce window for a mechanical push button.
const DefaultWindow = 50 * time.Millisecond

// Edge is a debounced transition.
type Edge int

const (
	None Edge = iota
	Rising
	Falling
)

func (e Edge) String() string {
	switch e {
	case Rising:
		return "RISING"
	case Falling:
		return "FALLING"
	}
	return "NONE"
}

// Counts tracks edges since startup.
type Counts struct {
	Rising  int
	Falling int
}

// Debouncer tracks one input. The first level held for the full window
// becomes the baseline and produces no edge; after that, a level must be
// held for the window before it is reported.
type Debouncer struct {
	window time.Duration

	stable       bool
	pending      bool
	hasPending   bool
	pendingSince time.Time
	baselined    bool
	counts       Counts
}

// New creates a Debouncer with the given window.
func New(window time.Duration) *Debouncer {
	return &Debouncer{window: window}
}

// Process takes one sample and returns the edge it completes, if any.
func (d *Debouncer) Process(level bool, now time.Time) Edge {
	if !d.baselined {
		if !d.hasPending || d.pending != level {
			d.pending, d.hasPending, d.pendingSince = level, true, now
			return None
		}
		if now.Sub(d.pendingSince) >= d.window {
			d.stable = level
			d.baselined = true
			d.hasPending = false
		}
		return None
	}

	if level == d.stable {
		d.hasPending = false
		return None
	}
	if !d.hasPending || d.pending != level {
		d.pending, d.hasPending, d.pendingSince = level, true, now
		return None
	}
	if now.Sub(d.pendingSince) < d.window {
		return None
	}

	d.stable = level
	d.hasPending = false
	if level {
		d.counts.Rising++
		return Rising
	}
	d.counts.Falling++
	return Falling
}

// Stable returns the debounced level and whether a baseline exists.
func (d *Debouncer) Stable() (level, baselined bool) {
	return d.stable, d.baselined
}

// Counts returns a copy of the edge counts.
func (d *Debouncer) Counts() Counts {
	return d.counts
}
