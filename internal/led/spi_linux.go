//go:build linux

package led

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// SPI_IOC_WR_MAX_SPEED_HZ from linux/spi/spidev.h.
const spiIOCWrMaxSpeedHz = 0x40046b04

// SPIStrip drives a WS2812 strip from the MOSI pin of a spidev device.
type SPIStrip struct {
	pixelBuffer
	f          *os.File
	brightness uint8
	buf        []byte
}

// NewSPIStrip opens dev (e.g. /dev/spidev0.0) for a strip of n pixels.
// brightness caps every channel to limit current draw.
func NewSPIStrip(dev string, n int, brightness uint8) (*SPIStrip, error) {
	if n <= 0 {
		return nil, fmt.Errorf("led: invalid pixel count %d", n)
	}
	f, err := os.OpenFile(dev, os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", dev, err)
	}
	if err := unix.IoctlSetPointerInt(int(f.Fd()), spiIOCWrMaxSpeedHz, ws2812SPIHz); err != nil {
		f.Close()
		return nil, fmt.Errorf("set spi speed on %s: %w", dev, err)
	}
	return &SPIStrip{
		pixelBuffer: make(pixelBuffer, n),
		f:           f,
		brightness:  brightness,
		buf:         make([]byte, 0, n*9+ws2812ResetBytes),
	}, nil
}

// Show writes the buffered frame to the strip.
func (s *SPIStrip) Show() error {
	s.buf = encodeWS2812(s.buf[:0], s.pixelBuffer, s.brightness)
	if _, err := s.f.Write(s.buf); err != nil {
		return fmt.Errorf("write spi: %w", err)
	}
	return nil
}

// Close blanks the strip and releases the device.
func (s *SPIStrip) Close() error {
	s.Clear()
	showErr := s.Show()
	if err := s.f.Close(); err != nil {
		return fmt.Errorf("close spi: %w", err)
	}
	return showErr
}
