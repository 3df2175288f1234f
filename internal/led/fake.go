package led

// FakeStrip records pixel state for test assertions.
type FakeStrip struct {
	// Pixels is the buffered frame.
	Pixels []Color

	// Frame is the last frame pushed by Show.
	Frame []Color

	// Shows counts Show calls.
	Shows int

	// ShowError, if set, is returned by Show.
	ShowError error
}

// NewFakeStrip creates a strip with n pixels.
func NewFakeStrip(n int) *FakeStrip {
	return &FakeStrip{Pixels: make([]Color, n)}
}

// Len returns the number of pixels.
func (f *FakeStrip) Len() int { return len(f.Pixels) }

// SetPixel sets one buffered pixel; out-of-range indices are ignored.
func (f *FakeStrip) SetPixel(i int, c Color) {
	if i < 0 || i >= len(f.Pixels) {
		return
	}
	f.Pixels[i] = c
}

// Fill sets every buffered pixel.
func (f *FakeStrip) Fill(c Color) {
	for i := range f.Pixels {
		f.Pixels[i] = c
	}
}

// Clear turns every buffered pixel off.
func (f *FakeStrip) Clear() { f.Fill(0) }

// Show latches the buffered pixels into Frame.
func (f *FakeStrip) Show() error {
	f.Shows++
	if f.ShowError != nil {
		return f.ShowError
	}
	f.Frame = append(f.Frame[:0], f.Pixels...)
	return nil
}

// Lit returns the index of every lit pixel in the last frame.
func (f *FakeStrip) Lit() []int {
	var lit []int
	for i, c := range f.Frame {
		if c != 0 {
			lit = append(lit, i)
		}
	}
	return lit
}
