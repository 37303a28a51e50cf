package beep

import (
	"math"
	"testing"
)

func TestToneLength(t *testing.T) {
	samples := tone(1200, 0.2, 0.5, 60)
	if want := int(0.2 * sampleRate); len(samples) != want {
		t.Errorf("len = %d, want %d", len(samples), want)
	}
}

func TestToneDecays(t *testing.T) {
	samples := tone(startFreq, 0.2, tickVolume, startDecay)

	peak := func(from, to int) int16 {
		var p int16
		for _, s := range samples[from:to] {
			if s < 0 {
				s = -s
			}
			if s > p {
				p = s
			}
		}
		return p
	}

	head := peak(0, len(samples)/8)
	tail := peak(len(samples)/2, len(samples))
	if tail >= head/4 {
		t.Errorf("envelope barely decays: head peak %d, tail peak %d", head, tail)
	}
}

func TestToneVolumeBound(t *testing.T) {
	samples := tone(stopFreq, 0.2, tickVolume, 0)
	limit := int16(math.Ceil(32767 * tickVolume))
	for i, s := range samples {
		if s > limit || s < -limit {
			t.Fatalf("sample %d = %d exceeds volume bound %d", i, s, limit)
		}
	}
}

func TestDoubleToneLayout(t *testing.T) {
	samples := doubleTone(errorFreq, 0.08, 0.05, errorVolume, errorDecay)

	tick := int(0.08 * sampleRate)
	gap := int(0.05 * sampleRate)
	if want := tick*2 + gap; len(samples) != want {
		t.Fatalf("len = %d, want %d", len(samples), want)
	}

	// The gap between the two ticks must be silent.
	for i := tick; i < tick+gap; i++ {
		if samples[i] != 0 {
			t.Fatalf("gap sample %d = %d, want 0", i, samples[i])
		}
	}
}

func TestDisableSuppressesPlayback(t *testing.T) {
	defer func() { disabled = false }()

	Disable()
	// Must return without touching any audio device.
	PlayStart()
	PlayStop()
	PlayError()
}
