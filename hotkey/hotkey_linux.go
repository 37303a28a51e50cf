//go:build linux

package hotkey

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Event codes from linux/input-event-codes.h.
const (
	evKey      = 1
	keyRelease = 0
	keyPress   = 1

	codeLeftCtrl   = 29
	codeRightCtrl  = 97
	codeLeftShift  = 42
	codeRightShift = 54
	codeSpace      = 57
)

// struct input_event on 64-bit: 16 bytes of timestamp, then type, code, value.
const eventSize = 24

// chord tracks modifier state for one keyboard and reports when the full
// Ctrl+Shift+Space chord goes down or comes back up. Autorepeat events
// (value 2) leave the held state untouched.
type chord struct {
	ctrl, shift, space bool
}

func (c *chord) feed(code uint16, value int32) (down, up bool) {
	pressed := value == keyPress
	released := value == keyRelease

	switch code {
	case codeLeftCtrl, codeRightCtrl:
		c.ctrl = pressed || (!released && c.ctrl)
	case codeLeftShift, codeRightShift:
		c.shift = pressed || (!released && c.shift)
	case codeSpace:
		if pressed && !c.space && c.ctrl && c.shift {
			c.space = true
			return true, false
		}
		if released && c.space {
			c.space = false
			return false, true
		}
	}
	return false, false
}

type evdevHotkey struct {
	keydown chan struct{}
	keyup   chan struct{}
	devices []*os.File
	stop    chan struct{}
	once    sync.Once
}

func New() Hotkey {
	return &evdevHotkey{
		keydown: make(chan struct{}, 1),
		keyup:   make(chan struct{}, 1),
	}
}

func (h *evdevHotkey) Register() error {
	paths, err := keyboardDevices()
	if err != nil {
		return fmt.Errorf("scanning input devices: %w", err)
	}
	if len(paths) == 0 {
		return fmt.Errorf("no keyboard devices under /dev/input (is the user in the input group?)")
	}

	h.stop = make(chan struct{})
	for _, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			continue
		}
		h.devices = append(h.devices, f)
		go h.watch(f)
	}
	if len(h.devices) == 0 {
		return fmt.Errorf("no readable keyboard device (add the user to the input group, then re-login)")
	}
	return nil
}

func (h *evdevHotkey) watch(f *os.File) {
	buf := make([]byte, eventSize*16)
	var c chord

	for {
		select {
		case <-h.stop:
			return
		default:
		}

		n, err := f.Read(buf)
		if err != nil {
			return
		}

		for off := 0; off+eventSize <= n; off += eventSize {
			if binary.LittleEndian.Uint16(buf[off+16:]) != evKey {
				continue
			}
			code := binary.LittleEndian.Uint16(buf[off+18:])
			value := int32(binary.LittleEndian.Uint32(buf[off+20:]))

			down, up := c.feed(code, value)
			switch {
			case down:
				select {
				case h.keydown <- struct{}{}:
				default:
				}
			case up:
				select {
				case h.keyup <- struct{}{}:
				default:
				}
			}
		}
	}
}

func (h *evdevHotkey) Unregister() {
	h.once.Do(func() {
		if h.stop != nil {
			close(h.stop)
		}
		for _, f := range h.devices {
			f.Close()
		}
	})
}

func (h *evdevHotkey) Keydown() <-chan struct{} { return h.keydown }
func (h *evdevHotkey) Keyup() <-chan struct{}   { return h.keyup }

func keyboardDevices() ([]string, error) {
	entries, err := os.ReadDir("/dev/input")
	if err != nil {
		return nil, err
	}

	var paths []string
	for _, e := range entries {
		if !strings.HasPrefix(e.Name(), "event") {
			continue
		}
		if hasKeyCaps(e.Name()) {
			paths = append(paths, filepath.Join("/dev/input", e.Name()))
		}
	}
	return paths, nil
}

// hasKeyCaps reports whether the device advertises enough key capability
// bits to be a real keyboard rather than a lid switch or power button.
func hasKeyCaps(eventName string) bool {
	data, err := os.ReadFile(filepath.Join("/sys/class/input", eventName, "device", "capabilities", "key"))
	if err != nil {
		return false
	}
	return len(strings.TrimSpace(string(data))) > 10
}

// Diagnose reports whether the chord can be watched on this machine.
func Diagnose() (string, error) {
	paths, err := keyboardDevices()
	if err != nil {
		return "", fmt.Errorf("cannot scan input devices: %w", err)
	}
	if len(paths) == 0 {
		return "", fmt.Errorf("no keyboard devices under /dev/input (is the user in the input group?)")
	}

	var opened string
	for _, path := range paths {
		if f, err := os.Open(path); err == nil {
			f.Close()
			opened = path
			break
		}
	}
	if opened == "" {
		return "", fmt.Errorf("found %d keyboard(s) but none are readable (add the user to the input group)", len(paths))
	}
	return fmt.Sprintf("%d keyboard(s) found, reading %s", len(paths), opened), nil
}
