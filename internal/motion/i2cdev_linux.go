//go:build linux

package motion

import (
	"fmt"
	"io"
	"os"
	"sync"

	"golang.org/x/sys/unix"
)

const i2cSlave = 0x0703

// I2CDev is a drivers.I2C bus over a Linux /dev/i2c-N adapter.
type I2CDev struct {
	mu   sync.Mutex
	f    *os.File
	addr uint16
	set  bool
}

// OpenI2CDev opens the adapter at path, e.g. /dev/i2c-1.
func OpenI2CDev(path string) (*I2CDev, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("open i2c adapter: %w", err)
	}
	return &I2CDev{f: f}, nil
}

// Tx writes w then reads len(r) bytes from the device at addr.
func (d *I2CDev) Tx(addr uint16, w, r []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.set || d.addr != addr {
		if err := unix.IoctlSetInt(int(d.f.Fd()), i2cSlave, int(addr)); err != nil {
			return fmt.Errorf("i2c select 0x%02x: %w", addr, err)
		}
		d.addr, d.set = addr, true
	}
	if len(w) > 0 {
		if _, err := d.f.Write(w); err != nil {
			return fmt.Errorf("i2c write 0x%02x: %w", addr, err)
		}
	}
	if len(r) > 0 {
		if _, err := io.ReadFull(d.f, r); err != nil {
			return fmt.Errorf("i2c read 0x%02x: %w", addr, err)
		}
	}
	return nil
}

// Close releases the adapter.
func (d *I2CDev) Close() error {
	return d.f.Close()
}
