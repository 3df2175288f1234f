//go:build !linux

package gpio

import "errors"

var errUnsupported = errors.New("gpio: not supported on this platform (requires Linux)")

// RealInput is not available on non-Linux platforms.
type RealInput struct{}

// NewRealInput returns an error on non-Linux platforms.
func NewRealInput(string, int) (*RealInput, error) { return nil, errUnsupported }

func (*RealInput) Read() (bool, error) { return false, errUnsupported }
func (*RealInput) Close() error        { return nil }

// RealOutput is not available on non-Linux platforms.
type RealOutput struct{}

// NewRealOutput returns an error on non-Linux platforms.
func NewRealOutput(string, int) (*RealOutput, error) { return nil, errUnsupported }

func (*RealOutput) Set(bool) error { return errUnsupported }
func (*RealOutput) Close() error   { return nil }
