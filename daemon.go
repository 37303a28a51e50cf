package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"quill/beep"
	"quill/capture"
	"quill/deliver"
	"quill/engine"
	"quill/log"
)

// recorder is the capture surface the daemon drives. *capture.Recorder
// implements it; tests substitute fakes.
type recorder interface {
	Start() error
	Stop() (capture.Buffer, error)
	Abort()
}

type deliverer interface {
	Deliver(ctx context.Context, text string) (deliver.Outcome, error)
}

// daemon owns the capture loop. One toggle opens the mic, the next one
// closes it and runs the buffer through transcription and delivery.
// Session failures log, beep, and fall back to idle; only quit stops the
// loop.
type daemon struct {
	rec recorder
	eng engine.Engine
	del deliverer

	// toggle holds at most one pending event. A toggle landing while the
	// slot is full is dropped at the sender.
	toggle chan struct{}
	quit   chan struct{}

	device    string
	printText bool
	seq       uint64
}

func newDaemon(rec recorder, eng engine.Engine, del deliverer) *daemon {
	return &daemon{
		rec:    rec,
		eng:    eng,
		del:    del,
		toggle: make(chan struct{}, 1),
		quit:   make(chan struct{}),
	}
}

func (d *daemon) run() {
	log.State("idle")
	for {
		// Checked separately so that quit wins when both are pending.
		select {
		case <-d.quit:
			return
		default:
		}

		select {
		case <-d.quit:
			return
		case <-d.toggle:
			d.session()
			d.drainToggle()
			log.State("idle")
		}
	}
}

// session runs one capture through delivery.
func (d *daemon) session() {
	d.seq++
	begin := time.Now()

	log.State("capturing")
	if err := d.rec.Start(); err != nil {
		log.Errorf("capture start: %v", err)
		beep.PlayError()
		return
	}
	log.SessionStart(d.seq, d.device)
	beep.PlayStart()

	select {
	case <-d.quit:
		d.abortCapture()
		return
	default:
	}
	select {
	case <-d.quit:
		d.abortCapture()
		return
	case <-d.toggle:
	}

	log.State("stopping")
	beep.PlayStop()
	buf, err := d.rec.Stop()
	if err != nil {
		if errors.Is(err, capture.ErrEmptyBuffer) {
			log.Warnf("nothing captured: %v", err)
		} else {
			log.Errorf("capture stop: %v", err)
		}
		beep.PlayError()
		return
	}
	if buf.Silent() {
		log.Warnf("capture looks silent (rms %.5f), transcribing anyway", buf.RMS())
	}

	log.State("transcribing")
	tBegin := time.Now()
	text, err := d.eng.Transcribe(context.Background(), engine.Request{
		Samples:    buf.Samples,
		SampleRate: capture.SampleRate,
	})
	if err != nil {
		log.Errorf("transcription: %v", err)
		beep.PlayError()
		return
	}
	stats := log.Stats{
		AudioS:       buf.Duration().Seconds(),
		TranscribeMs: float64(time.Since(tBegin).Microseconds()) / 1000,
		Engine:       d.eng.Name(),
	}

	if text == "" {
		log.Info("no speech detected")
		stats.TotalMs = float64(time.Since(begin).Microseconds()) / 1000
		log.SessionEnd(d.seq, stats)
		return
	}

	log.State("delivering")
	out, err := d.del.Deliver(context.Background(), text)
	if err != nil {
		log.Errorf("delivery: %v", err)
		beep.PlayError()
		return
	}

	log.Transcript(text)
	if d.printText {
		fmt.Println(text)
	}
	log.Info(out.String())

	stats.TotalMs = float64(time.Since(begin).Microseconds()) / 1000
	log.SessionEnd(d.seq, stats)
}

func (d *daemon) abortCapture() {
	log.Warn("shutting down mid-capture, discarding audio")
	d.rec.Abort()
}

// drainToggle drops one toggle that arrived while a session was
// finishing, so a stale press cannot immediately reopen the mic.
func (d *daemon) drainToggle() {
	select {
	case <-d.toggle:
		log.Debugf("stale toggle dropped")
	default:
	}
}
