// Package pipeline is the scan-to-feedback spine: the Coordinator triggers
// scans and latches motion, the Reporter assembles the payload, the Uplink
// posts it, and the Dispatcher routes the server's directives to the
// output managers. The stages only talk through the bus.
package pipeline

import (
	"context"

	"github.com/sweeney/beacon-scanner/internal/event"
	"github.com/sweeney/beacon-scanner/internal/led"
	"github.com/sweeney/beacon-scanner/internal/vibration"
)

// Mailbox hands work from other goroutines to the scheduler goroutine.
type Mailbox interface {
	Send(ctx context.Context, fn func()) error
}

// Latcher closes the current motion interval and returns its statistics.
type Latcher interface {
	PrepareForNextInterval() event.Movement
}

// LEDTarget accepts LED directives.
type LEDTarget interface {
	Apply(kind string, p led.Params) (led.Outcome, error)
}

// VibrationTarget accepts vibration directives.
type VibrationTarget interface {
	Apply(kind string, p vibration.Params) (vibration.Outcome, error)
}

// run executes fn on the scheduler goroutine, or inline without a mailbox.
func run(ctx context.Context, mb Mailbox, fn func()) error {
	if mb == nil {
		fn()
		return nil
	}
	return mb.Send(ctx, fn)
}
