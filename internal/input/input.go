// Package input polls evdev keyboards (and optionally mice) for the few keys
// the slideshow reacts to: Esc quits, Space dumps the transition state.
package input

import (
	"encoding/binary"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/log"
)

// Linux input-event-codes.h
const (
	EvKey = 0x01

	KeyEsc   = 1
	KeySpace = 57

	valuePressed = 1
)

const DefaultDir = "/dev/input/by-id"

// ErrNoDevice means discovery found nothing to open.
var ErrNoDevice = errors.New("no input device found")

// DeviceError reports an input device that could not be used. It is never
// fatal; the show runs on without keyboard control.
type DeviceError struct {
	Path string
	Err  error
}

func (e *DeviceError) Error() string {
	return fmt.Sprintf("input device %s: %v", e.Path, e.Err)
}

func (e *DeviceError) Unwrap() error { return e.Err }

// Device is an opened, non-blocking event device. Read returns 0 and no error
// when no events are pending.
type Device interface {
	Name() string
	Read(buf []byte) (int, error)
	Close() error
}

// Opener opens a device for non-blocking reads, grabbing it if possible.
type Opener func(path string) (Device, error)

// Event is one input_event record.
type Event struct {
	Type  uint16
	Code  uint16
	Value int32
}

// eventSize is sizeof(struct input_event): timeval, u16 type, u16 code,
// s32 value.
var eventSize = timevalSize + 2 + 2 + 4

// Parse splits raw reads into events. A trailing partial record is ignored.
func Parse(buf []byte) []Event {
	var out []Event
	for off := 0; off+eventSize <= len(buf); off += eventSize {
		rec := buf[off : off+eventSize]
		out = append(out, Event{
			Type:  binary.LittleEndian.Uint16(rec[timevalSize : timevalSize+2]),
			Code:  binary.LittleEndian.Uint16(rec[timevalSize+2 : timevalSize+4]),
			Value: int32(binary.LittleEndian.Uint32(rec[timevalSize+4 : timevalSize+8])),
		})
	}
	return out
}

// Config selects where devices are discovered.
type Config struct {
	Dir   string
	Mouse bool
	Open  Opener
}

// Bridge owns the opened devices. Poll is called from the control thread.
type Bridge struct {
	cfg    Config
	logger *log.Logger

	keyboard Device
	mice     []Device
	buf      []byte

	// OnQuit is called when Esc is pressed.
	OnQuit func()
	// OnDiag is called when Space is pressed.
	OnDiag func()
}

func NewBridge(cfg Config) *Bridge {
	if cfg.Dir == "" {
		cfg.Dir = DefaultDir
	}
	if cfg.Open == nil {
		cfg.Open = OpenEvdev
	}
	return &Bridge{
		cfg:    cfg,
		logger: log.WithPrefix("input"),
		buf:    make([]byte, 64*eventSize),
	}
}

// Open discovers and opens the keyboard, and the mice when enabled. Without a
// keyboard it returns a *DeviceError.
func (b *Bridge) Open() error {
	b.Close()

	for _, path := range b.discover("*event-kbd*") {
		dev, err := b.cfg.Open(path)
		if err != nil {
			b.logger.Warnf("unable to open keyboard %s: %v", path, err)
			continue
		}
		b.keyboard = dev
		b.logger.Infof("using keyboard %s", dev.Name())
		break
	}

	if b.cfg.Mouse {
		for _, path := range b.discover("*event-mouse*") {
			dev, err := b.cfg.Open(path)
			if err != nil {
				b.logger.Warnf("unable to open mouse %s: %v", path, err)
				continue
			}
			b.mice = append(b.mice, dev)
			b.logger.Debugf("using mouse %s", dev.Name())
		}
	}

	if b.keyboard == nil {
		return &DeviceError{Path: b.cfg.Dir, Err: ErrNoDevice}
	}
	return nil
}

func (b *Bridge) discover(pattern string) []string {
	paths, err := filepath.Glob(filepath.Join(b.cfg.Dir, pattern))
	if err != nil {
		return nil
	}
	return paths
}

// Opened reports whether any device is open.
func (b *Bridge) Opened() bool { return b.keyboard != nil || len(b.mice) > 0 }

// Poll drains pending events without blocking.
func (b *Bridge) Poll() {
	if b.keyboard != nil {
		events, ok := b.read(b.keyboard)
		if !ok {
			b.keyboard.Close()
			b.keyboard = nil
		}
		for _, ev := range events {
			b.handleKey(ev)
		}
	}

	mice := b.mice[:0]
	for _, m := range b.mice {
		events, ok := b.read(m)
		if !ok {
			m.Close()
			continue
		}
		for _, ev := range events {
			b.logger.Debugf("mouse %s: type %d code %d value %d", m.Name(), ev.Type, ev.Code, ev.Value)
		}
		mice = append(mice, m)
	}
	b.mice = mice
}

func (b *Bridge) read(dev Device) ([]Event, bool) {
	n, err := dev.Read(b.buf)
	if err != nil {
		b.logger.Warnf("dropping %s: %v", dev.Name(), err)
		return nil, false
	}
	return Parse(b.buf[:n]), true
}

func (b *Bridge) handleKey(ev Event) {
	if ev.Type != EvKey || ev.Value != valuePressed {
		return
	}
	switch ev.Code {
	case KeyEsc:
		if b.OnQuit != nil {
			b.OnQuit()
		}
	case KeySpace:
		if b.OnDiag != nil {
			b.OnDiag()
		}
	}
}

// Close releases every device.
func (b *Bridge) Close() {
	if b.keyboard != nil {
		b.keyboard.Close()
		b.keyboard = nil
	}
	for _, m := range b.mice {
		m.Close()
	}
	b.mice = nil
}
