package led

// Strip is the addressable LED output. Pixel writes are buffered until Show.
type Strip interface {
	Len() int
	SetPixel(i int, c Color)
	Fill(c Color)
	Clear()
	Show() error
}
