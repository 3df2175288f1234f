package gpio

import "errors"

// FakeInput is a test double that returns scripted button levels.
type FakeInput struct {
	// Samples contains scripted pressed values. Each Read consumes the
	// next one; once exhausted the last is repeated.
	Samples []bool

	index int

	// Closed tracks if Close was called
	Closed bool

	// ReadError, if set, will be returned by Read()
	ReadError error
}

// NewFakeInput creates a FakeInput with the given samples.
func NewFakeInput(samples ...bool) *FakeInput {
	return &FakeInput{Samples: samples}
}

// Read returns the next scripted sample.
func (f *FakeInput) Read() (bool, error) {
	if f.ReadError != nil {
		return false, f.ReadError
	}
	if len(f.Samples) == 0 {
		return false, errors.New("no samples configured")
	}
	v := f.Samples[f.index]
	if f.index < len(f.Samples)-1 {
		f.index++
	}
	return v, nil
}

// Script replaces the samples and restarts from the first.
func (f *FakeInput) Script(samples ...bool) {
	f.Samples = samples
	f.index = 0
}

// Close marks the input as closed.
func (f *FakeInput) Close() error {
	f.Closed = true
	return nil
}

// FakeOutput records every level written.
type FakeOutput struct {
	Values   []bool
	Closed   bool
	SetError error
}

func (f *FakeOutput) Set(on bool) error {
	if f.SetError != nil {
		return f.SetError
	}
	f.Values = append(f.Values, on)
	return nil
}

// On reports the last level written.
func (f *FakeOutput) On() bool {
	return len(f.Values) > 0 && f.Values[len(f.Values)-1]
}

func (f *FakeOutput) Close() error {
	f.Closed = true
	return nil
}
