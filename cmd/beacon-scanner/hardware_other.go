//go:build !linux

package main

import "errors"

func openHardware(options) (*hardware, error) {
	return nil, errors.New("bluetooth scanning requires Linux (BlueZ)")
}
