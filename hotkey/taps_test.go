package hotkey

import (
	"testing"
	"time"
)

func TestTapEmitsToggle(t *testing.T) {
	fk := NewFake()
	taps := Taps(fk)

	fk.Tap()

	select {
	case <-taps:
	case <-time.After(time.Second):
		t.Fatal("no toggle after a complete tap")
	}
}

func TestPressAloneDoesNotToggle(t *testing.T) {
	fk := NewFake()
	taps := Taps(fk)

	fk.Press()

	select {
	case <-taps:
		t.Fatal("toggle fired before the chord was released")
	case <-time.After(50 * time.Millisecond):
	}

	fk.Release()
	select {
	case <-taps:
	case <-time.After(time.Second):
		t.Fatal("no toggle after release")
	}
}

func TestSequentialTaps(t *testing.T) {
	fk := NewFake()
	taps := Taps(fk)

	for i := 0; i < 3; i++ {
		fk.Tap()
		select {
		case <-taps:
		case <-time.After(time.Second):
			t.Fatalf("tap %d produced no toggle", i+1)
		}
	}
}
