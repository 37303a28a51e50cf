package capture

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

var ErrNoDevice = errors.New("no capture device configured")

// ValidateDevice confirms the capture target is usable before the daemon
// accepts toggles. A source-list match is accepted directly; otherwise a
// short probe capture decides, since capture targets are not always listed
// under the same name.
func ValidateDevice(device, command string) error {
	if device == "" {
		return ErrNoDevice
	}
	if sourceListed(device) {
		return nil
	}
	return probe(device, command)
}

func probe(device, command string) error {
	rec := &Recorder{
		Device:  device,
		Command: command,
		Staging: filepath.Join(os.TempDir(), "quill_probe.f32"),
	}
	if err := rec.Start(); err != nil {
		return err
	}
	time.Sleep(probeDuration)
	if _, err := rec.Stop(); err != nil {
		return fmt.Errorf("probe produced no usable audio: %v", err)
	}
	return nil
}
