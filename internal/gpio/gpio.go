// Package gpio provides the node's digital lines with hardware abstraction:
// the maintenance button input and the vibration motor output.
// The real implementation uses the Linux GPIO character device.
// The fake implementation allows testing without hardware.
package gpio

// Input reads a push button.
type Input interface {
	// Read returns true while the button is pressed. The line is active
	// low with a pull-up, so raw 0 reads as pressed.
	Read() (bool, error)

	// Close releases GPIO resources.
	Close() error
}

// Output drives an on/off line.
type Output interface {
	Set(on bool) error
	Close() error
}

// Default pins (BCM numbering).
const (
	DefaultChip      = "gpiochip0"
	DefaultPinButton = 17
	DefaultPinMotor  = 18
)
