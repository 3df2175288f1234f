package led

// WS2812 pixels are clocked out over SPI at 2.4 MHz: every data bit becomes
// three SPI bits, 110 for a one and 100 for a zero. Bytes go out in GRB
// order, MSB first, followed by a low reset period.
const (
	ws2812SPIHz      = 2_400_000
	ws2812ResetBytes = 40 // > 50us low at 2.4 MHz
)

// encodeWS2812 appends the SPI bit stream for pixels to dst.
func encodeWS2812(dst []byte, pixels []Color, brightness uint8) []byte {
	for _, c := range pixels {
		r, g, b := c.Scale(brightness).Channels()
		dst = appendSymbolByte(dst, g)
		dst = appendSymbolByte(dst, r)
		dst = appendSymbolByte(dst, b)
	}
	for i := 0; i < ws2812ResetBytes; i++ {
		dst = append(dst, 0)
	}
	return dst
}

// appendSymbolByte expands one data byte into three SPI bytes.
func appendSymbolByte(dst []byte, v uint8) []byte {
	var bits uint32
	for i := 7; i >= 0; i-- {
		bits <<= 3
		if v&(1<<uint(i)) != 0 {
			bits |= 0b110
		} else {
			bits |= 0b100
		}
	}
	return append(dst, byte(bits>>16), byte(bits>>8), byte(bits))
}

// pixelBuffer is the in-memory frame shared by hardware strips.
type pixelBuffer []Color

func (p pixelBuffer) Len() int { return len(p) }

func (p pixelBuffer) SetPixel(i int, c Color) {
	if i < 0 || i >= len(p) {
		return
	}
	p[i] = c
}

func (p pixelBuffer) Fill(c Color) {
	for i := range p {
		p[i] = c
	}
}

func (p pixelBuffer) Clear() { p.Fill(0) }
