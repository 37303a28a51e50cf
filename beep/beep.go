// Package beep gives short audible feedback for capture start, capture
// stop, and session errors. Playback is fire-and-forget; a machine with no
// usable audio output stays silent without failing the session.
package beep

import (
	"math"
	"sync"
)

var disabled bool

// Disable silences all feedback tones for the rest of the process.
func Disable() { disabled = true }

const (
	sampleRate = 44100

	// start: high pitch, snappy
	startFreq  = 1200.0
	startDecay = 60.0

	// stop: lower pitch, softer tail
	stopFreq  = 900.0
	stopDecay = 40.0

	// error: low double tick
	errorFreq  = 350.0
	errorDecay = 30.0

	tickVolume  = 0.5
	errorVolume = 0.6
)

var (
	startTone []int16
	stopTone  []int16
	errorTone []int16
	toneOnce  sync.Once
)

func initTones() {
	// 200ms tails give the output buffer time to fill before the tone
	// decays to nothing.
	startTone = tone(startFreq, 0.2, tickVolume, startDecay)
	stopTone = tone(stopFreq, 0.2, tickVolume, stopDecay)
	errorTone = doubleTone(errorFreq, 0.08, 0.05, errorVolume, errorDecay)
}

// tone synthesizes a mono sine tick with an exponential decay envelope.
func tone(freq, duration, volume, decay float64) []int16 {
	n := int(sampleRate * duration)
	samples := make([]int16, n)
	for i := range samples {
		t := float64(i) / sampleRate
		envelope := math.Exp(-t * decay)
		samples[i] = int16(math.Sin(2*math.Pi*freq*t) * 32767 * volume * envelope)
	}
	return samples
}

func doubleTone(freq, tickDur, gapDur, volume, decay float64) []int16 {
	tick := tone(freq, tickDur, volume, decay)
	gap := make([]int16, int(sampleRate*gapDur))
	out := make([]int16, 0, len(tick)*2+len(gap))
	out = append(out, tick...)
	out = append(out, gap...)
	out = append(out, tick...)
	return out
}

// Init pre-synthesizes the tones so the first beep has no startup cost.
func Init() {
	toneOnce.Do(initTones)
}

// PlayStart marks the beginning of a capture.
func PlayStart() { play(&startTone) }

// PlayStop marks the end of a capture.
func PlayStop() { play(&stopTone) }

// PlayError marks a failed session.
func PlayError() { play(&errorTone) }

func play(samples *[]int16) {
	if disabled {
		return
	}
	toneOnce.Do(initTones)
	go emit(*samples)
}
