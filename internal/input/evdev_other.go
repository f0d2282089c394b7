//go:build !linux

package input

import "errors"

// 64-bit struct timeval
const timevalSize = 16

func OpenEvdev(path string) (Device, error) {
	return nil, &DeviceError{Path: path, Err: errors.New("evdev is only available on linux")}
}
