//go:build linux

package dispatch

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os"
	"sync"
	"time"

	"golang.org/x/sys/unix"

	"github.com/dshills/keybot/internal/input/key"
)

// ioctl requests from <linux/uinput.h>.
const (
	uiDevCreate  uint = 0x5501
	uiDevDestroy uint = 0x5502
	uiSetEvBit   uint = 0x40045564
	uiSetKeyBit  uint = 0x40045565
)

// Event types and codes from <linux/input-event-codes.h>.
const (
	evSyn     = 0x00
	evKey     = 0x01
	synReport = 0
	busUSB    = 0x03
)

const (
	uinputPath   = "/dev/uinput"
	deviceSettle = 200 * time.Millisecond
)

// uinputUserDev mirrors struct uinput_user_dev.
type uinputUserDev struct {
	Name         [80]byte
	Bustype      uint16
	Vendor       uint16
	Product      uint16
	Version      uint16
	FFEffectsMax uint32
	Absmax       [64]int32
	Absmin       [64]int32
	Absfuzz      [64]int32
	Absflat      [64]int32
}

// inputEvent mirrors struct input_event.
type inputEvent struct {
	Time  unix.Timeval
	Type  uint16
	Code  uint16
	Value int32
}

// Uinput injects key events through a virtual keyboard created with the
// Linux uinput module. The process needs write access to /dev/uinput.
type Uinput struct {
	mu     sync.Mutex
	file   *os.File
	closed bool
}

// NewUinput creates a virtual keyboard named name that can raise every key
// in the key set.
func NewUinput(name string) (*Uinput, error) {
	f, err := os.OpenFile(uinputPath, os.O_WRONLY|unix.O_NONBLOCK, 0)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", uinputPath, err)
	}
	fd := int(f.Fd())

	setup := func() error {
		if err := unix.IoctlSetInt(fd, uiSetEvBit, evKey); err != nil {
			return fmt.Errorf("enable key events: %w", err)
		}
		for _, code := range linuxKeyCodes {
			if err := unix.IoctlSetInt(fd, uiSetKeyBit, int(code)); err != nil {
				return fmt.Errorf("enable key %d: %w", code, err)
			}
		}

		dev := uinputUserDev{Bustype: busUSB, Vendor: 0x1, Product: 0x1, Version: 1}
		copy(dev.Name[:], name)
		var buf bytes.Buffer
		if err := binary.Write(&buf, binary.NativeEndian, &dev); err != nil {
			return err
		}
		if _, err := f.Write(buf.Bytes()); err != nil {
			return fmt.Errorf("write device description: %w", err)
		}

		if err := unix.IoctlSetInt(fd, uiDevCreate, 0); err != nil {
			return fmt.Errorf("create device: %w", err)
		}
		return nil
	}

	if err := setup(); err != nil {
		f.Close()
		return nil, err
	}

	// Give the input subsystem time to announce the device before the
	// first event, otherwise early events are dropped.
	time.Sleep(deviceSettle)

	return &Uinput{file: f}, nil
}

// Dispatch raises the event and a sync report.
func (u *Uinput) Dispatch(k key.Key, t key.Toggle) error {
	code, ok := LinuxKeyCode(k)
	if !ok {
		return &KeyError{Key: k, Toggle: t, Err: ErrUnsupportedKey}
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	if u.closed {
		return &KeyError{Key: k, Toggle: t, Err: ErrClosed}
	}

	data, err := encodeKeyEvent(code, t, time.Now())
	if err != nil {
		return &KeyError{Key: k, Toggle: t, Err: err}
	}
	if _, err := u.file.Write(data); err != nil {
		return &KeyError{Key: k, Toggle: t, Err: err}
	}
	return nil
}

// Close destroys the virtual keyboard.
func (u *Uinput) Close() error {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.closed {
		return nil
	}
	u.closed = true

	destroyErr := unix.IoctlSetInt(int(u.file.Fd()), uiDevDestroy, 0)
	closeErr := u.file.Close()
	if destroyErr != nil {
		return fmt.Errorf("destroy device: %w", destroyErr)
	}
	return closeErr
}

// encodeKeyEvent returns a key event followed by a SYN_REPORT.
func encodeKeyEvent(code uint16, t key.Toggle, now time.Time) ([]byte, error) {
	value := int32(0)
	if t == key.Down {
		value = 1
	}
	tv := unix.NsecToTimeval(now.UnixNano())

	events := []inputEvent{
		{Time: tv, Type: evKey, Code: code, Value: value},
		{Time: tv, Type: evSyn, Code: synReport, Value: 0},
	}

	var buf bytes.Buffer
	if err := binary.Write(&buf, binary.NativeEndian, events); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
