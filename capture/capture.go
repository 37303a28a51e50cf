// Package capture records microphone audio through an external capture
// process (pw-record) that writes raw samples to a fixed staging file.
package capture

import (
	"errors"
	"os"
	"path/filepath"
	"time"
)

const (
	SampleRate     = 16000
	Channels       = 1
	BytesPerSample = 4 // 32-bit float, little endian

	// SilenceRMS is the level below which a buffer counts as silent.
	SilenceRMS = 0.001

	// DefaultCommand is the capture binary. It must accept a PipeWire-style
	// --target and write raw f32le to the trailing path argument.
	DefaultCommand = "pw-record"

	stagingName   = "quill_recording.f32"
	stopGrace     = 2 * time.Second
	startGrace    = 250 * time.Millisecond
	probeDuration = time.Second
)

var (
	ErrStart         = errors.New("capture start failed")
	ErrStop          = errors.New("capture stop failed")
	ErrEmptyBuffer   = errors.New("empty audio buffer")
	ErrCorruptBuffer = errors.New("corrupt audio buffer")
)

// StagingPath is the fixed per-daemon recording target, overwritten by each
// session.
func StagingPath() string {
	return filepath.Join(os.TempDir(), stagingName)
}
