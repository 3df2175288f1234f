package main

import (
	"errors"
	"io"

	"github.com/sweeney/beacon-scanner/internal/gpio"
	"github.com/sweeney/beacon-scanner/internal/led"
	"github.com/sweeney/beacon-scanner/internal/motion"
	"github.com/sweeney/beacon-scanner/internal/scan"
	"github.com/sweeney/beacon-scanner/internal/vibration"
)

// hardware holds the node's peripherals. Everything except the radio is
// optional: a missing peripheral is replaced by an in-memory stand-in (LEDs,
// motor) or left nil (accelerometer, button).
type hardware struct {
	strip   led.Strip
	motor   vibration.Motor
	accel   motion.Accelerometer
	button  gpio.Input
	scanner scan.Factory

	closers []io.Closer
}

// Close releases every opened peripheral.
func (h *hardware) Close() error {
	var errs []error
	for i := len(h.closers) - 1; i >= 0; i-- {
		errs = append(errs, h.closers[i].Close())
	}
	return errors.Join(errs...)
}
