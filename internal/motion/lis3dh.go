package motion

import (
	"fmt"

	"tinygo.org/x/drivers"
	"tinygo.org/x/drivers/lis3dh"
)

// LIS3DH reads an LIS3DH or register-compatible LIS2DH12 over I2C.
type LIS3DH struct {
	dev lis3dh.Device
}

// NewLIS3DH configures the sensor at addr for the ±2g range.
func NewLIS3DH(bus drivers.I2C, addr uint16) (*LIS3DH, error) {
	dev := lis3dh.New(bus)
	if addr != 0 {
		dev.Address = addr
	}
	if !dev.Connected() {
		return nil, fmt.Errorf("%w at 0x%02x", ErrNoSensor, dev.Address)
	}
	dev.Configure()
	dev.SetRange(lis3dh.RANGE_2_G)
	return &LIS3DH{dev: dev}, nil
}

// Acceleration returns the current reading in g.
func (l *LIS3DH) Acceleration() (x, y, z float64, err error) {
	ix, iy, iz, err := l.dev.ReadAcceleration()
	if err != nil {
		return 0, 0, 0, fmt.Errorf("lis3dh: %w", err)
	}
	// the driver reports micro-g
	return float64(ix) / 1e6, float64(iy) / 1e6, float64(iz) / 1e6, nil
}
