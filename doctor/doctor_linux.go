//go:build linux

package doctor

import (
	"errors"
	"os"
)

// syntheticPaste reports whether the uinput fallback can inject key events.
func syntheticPaste() (string, error) {
	f, err := os.OpenFile("/dev/uinput", os.O_WRONLY, 0)
	if err != nil {
		return "", errors.New("/dev/uinput is not writable (uinput fallback unavailable)")
	}
	f.Close()
	return "uinput key events", nil
}
