//go:build linux

package input

import (
	"encoding/binary"
	"errors"
	"path/filepath"

	"github.com/charmbracelet/log"
	"golang.org/x/sys/unix"
)

// EVIOCGRAB from linux/input.h: _IOW('E', 0x90, int)
const eviocgrab = 0x40044590

var timevalSize = binary.Size(unix.Timeval{})

type evdev struct {
	path    string
	fd      int
	grabbed bool
}

// OpenEvdev opens a device node non-blocking and asks for an exclusive grab.
// A refused grab is logged and the device is used shared.
func OpenEvdev(path string) (Device, error) {
	fd, err := unix.Open(path, unix.O_RDONLY|unix.O_NONBLOCK|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, &DeviceError{Path: path, Err: err}
	}
	d := &evdev{path: path, fd: fd}
	if err := unix.IoctlSetInt(fd, eviocgrab, 1); err != nil {
		log.WithPrefix("input").Warnf("unable to grab %s exclusively, continuing shared: %v", path, err)
	} else {
		d.grabbed = true
	}
	return d, nil
}

func (d *evdev) Name() string { return filepath.Base(d.path) }

func (d *evdev) Read(buf []byte) (int, error) {
	n, err := unix.Read(d.fd, buf)
	if err != nil {
		if errors.Is(err, unix.EAGAIN) || errors.Is(err, unix.EINTR) {
			return 0, nil
		}
		return 0, &DeviceError{Path: d.path, Err: err}
	}
	return n, nil
}

func (d *evdev) Close() error {
	if d.fd < 0 {
		return nil
	}
	if d.grabbed {
		_ = unix.IoctlSetInt(d.fd, eviocgrab, 0)
	}
	err := unix.Close(d.fd)
	d.fd = -1
	return err
}
