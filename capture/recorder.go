package capture

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"quill/log"
	"quill/proc"
)

// Recorder drives one capture subprocess at a time. The zero value records
// from the default device with pw-record into StagingPath.
type Recorder struct {
	Device    string
	Command   string // capture binary override
	Staging   string // staging file override
	KeepAudio bool   // keep the staging file after Stop/Abort

	handle *proc.Handle
}

func (r *Recorder) command() string {
	if r.Command != "" {
		return r.Command
	}
	return DefaultCommand
}

func (r *Recorder) staging() string {
	if r.Staging != "" {
		return r.Staging
	}
	return StagingPath()
}

// Start launches the capture subprocess. A process that dies within the
// start grace period is reported as a start failure with its stderr.
func (r *Recorder) Start() error {
	if r.handle != nil {
		return fmt.Errorf("%w: capture already running", ErrStart)
	}

	args := []string{
		"--target=" + r.Device,
		"--format=f32",
		"--rate=" + strconv.Itoa(SampleRate),
		"--channels=" + strconv.Itoa(Channels),
		r.staging(),
	}
	h, err := proc.Start(r.command(), args...)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStart, err)
	}

	select {
	case <-h.Done():
		reason := h.Stderr()
		if reason == "" {
			reason = "exited immediately"
		}
		return fmt.Errorf("%w: %s: %s", ErrStart, r.command(), reason)
	case <-time.After(startGrace):
	}

	r.handle = h
	return nil
}

// Running reports whether a capture subprocess is active.
func (r *Recorder) Running() bool {
	return r.handle != nil
}

// Stop terminates the subprocess, reads the staging file and validates the
// buffer. The staging file is removed unless KeepAudio is set.
func (r *Recorder) Stop() (Buffer, error) {
	h := r.handle
	r.handle = nil
	if h == nil {
		return Buffer{}, fmt.Errorf("%w: no capture in progress", ErrStop)
	}

	if err := h.Stop(stopGrace); err != nil {
		r.cleanup()
		return Buffer{}, fmt.Errorf("%w: %v", ErrStop, err)
	}

	data, err := os.ReadFile(r.staging())
	if err != nil {
		r.cleanup()
		return Buffer{}, fmt.Errorf("%w: reading staging file: %v", ErrStop, err)
	}

	buf, parseErr := ParseBuffer(data)
	r.cleanup()
	if parseErr != nil {
		return Buffer{}, parseErr
	}
	return buf, nil
}

// Abort terminates the subprocess and discards the staging file without
// reading it. Used on shutdown mid-capture.
func (r *Recorder) Abort() {
	h := r.handle
	r.handle = nil
	if h == nil {
		return
	}
	_ = h.Stop(stopGrace)
	r.cleanup()
}

func (r *Recorder) cleanup() {
	if r.KeepAudio {
		log.Debugf("keeping staging file %s", r.staging())
		return
	}
	if err := os.Remove(r.staging()); err != nil && !os.IsNotExist(err) {
		log.Warnf("could not remove staging file: %v", err)
	}
}
