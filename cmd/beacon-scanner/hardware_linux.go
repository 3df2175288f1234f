//go:build linux

package main

import (
	"fmt"
	"log"

	"tinygo.org/x/bluetooth"

	"github.com/sweeney/beacon-scanner/internal/gpio"
	"github.com/sweeney/beacon-scanner/internal/led"
	"github.com/sweeney/beacon-scanner/internal/motion"
	"github.com/sweeney/beacon-scanner/internal/scan"
	"github.com/sweeney/beacon-scanner/internal/vibration"
)

func openHardware(o options) (*hardware, error) {
	h := &hardware{}

	factory, err := scan.NewBLE(bluetooth.DefaultAdapter, scan.Options{
		Duration:    o.scanDuration,
		ServiceUUID: o.serviceUUID,
	})
	if err != nil {
		return nil, fmt.Errorf("bluetooth: %w", err)
	}
	h.scanner = factory

	if strip, err := led.NewSPIStrip(o.spiDev, o.ledCount, uint8(min(max(o.brightness, 0), 255))); err != nil {
		log.Printf("led: %v, running without LEDs", err)
		h.strip = led.NewFakeStrip(o.ledCount)
	} else {
		h.strip = strip
		h.closers = append(h.closers, strip)
	}

	if out, err := gpio.NewRealOutput(o.chip, o.motorPin); err != nil {
		log.Printf("vibration: %v, running without motor", err)
		h.motor = &vibration.FakeMotor{}
	} else {
		h.motor = &vibration.LineMotor{Line: out}
		h.closers = append(h.closers, out)
	}

	if bus, err := motion.OpenI2CDev(o.i2cDev); err != nil {
		log.Printf("motion: %v", err)
	} else if accel, err := motion.NewLIS3DH(bus, 0); err != nil {
		log.Printf("motion: %v", err)
		bus.Close()
	} else {
		h.accel = accel
		h.closers = append(h.closers, bus)
	}

	if in, err := gpio.NewRealInput(o.chip, o.buttonPin); err != nil {
		log.Printf("button: %v, maintenance only via -maintenance", err)
	} else {
		h.button = in
		h.closers = append(h.closers, in)
	}

	return h, nil
}
