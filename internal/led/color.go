package led

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidColor is returned for colors not in #RRGGBB form.
var ErrInvalidColor = errors.New("led: invalid color")

// Color is a packed 0xRRGGBB value.
type Color uint32

// RGB returns the channel values.
func RGB(r, g, b uint8) Color {
	return Color(uint32(r)<<16 | uint32(g)<<8 | uint32(b))
}

// ParseColor parses "#RRGGBB" (the leading '#' is optional).
func ParseColor(s string) (Color, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	return Color(v), nil
}

// Channels splits the color into its components.
func (c Color) Channels() (r, g, b uint8) {
	return uint8(c >> 16), uint8(c >> 8), uint8(c)
}

// Scale returns the color dimmed to brightness/255.
func (c Color) Scale(brightness uint8) Color {
	r, g, b := c.Channels()
	s := uint32(brightness)
	return RGB(uint8(uint32(r)*s/255), uint8(uint32(g)*s/255), uint8(uint32(b)*s/255))
}

func (c Color) String() string {
	return fmt.Sprintf("#%06X", uint32(c)&0xFFFFFF)
}
