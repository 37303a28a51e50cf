//go:build linux

package hotkey

import "testing"

// event mirrors the (code, value) pairs read from the kernel.
type event struct {
	code  uint16
	value int32
}

func feedAll(c *chord, events []event) (downs, ups int) {
	for _, e := range events {
		down, up := c.feed(e.code, e.value)
		if down {
			downs++
		}
		if up {
			ups++
		}
	}
	return downs, ups
}

func TestChordFullSequence(t *testing.T) {
	var c chord
	downs, ups := feedAll(&c, []event{
		{codeLeftCtrl, keyPress},
		{codeLeftShift, keyPress},
		{codeSpace, keyPress},
		{codeSpace, keyRelease},
		{codeLeftShift, keyRelease},
		{codeLeftCtrl, keyRelease},
	})
	if downs != 1 || ups != 1 {
		t.Errorf("downs=%d ups=%d, want 1 and 1", downs, ups)
	}
}

func TestChordNeedsBothModifiers(t *testing.T) {
	cases := []struct {
		name     string
		modifier uint16
	}{
		{"ctrl only", codeLeftCtrl},
		{"shift only", codeRightShift},
	}
	for _, tc := range cases {
		var c chord
		downs, _ := feedAll(&c, []event{
			{tc.modifier, keyPress},
			{codeSpace, keyPress},
		})
		if downs != 0 {
			t.Errorf("%s: chord fired with a single modifier", tc.name)
		}
	}
}

func TestChordRightHandModifiers(t *testing.T) {
	var c chord
	downs, _ := feedAll(&c, []event{
		{codeRightCtrl, keyPress},
		{codeRightShift, keyPress},
		{codeSpace, keyPress},
	})
	if downs != 1 {
		t.Errorf("right-hand modifiers should satisfy the chord")
	}
}

func TestChordAutorepeatDoesNotRefire(t *testing.T) {
	var c chord
	downs, ups := feedAll(&c, []event{
		{codeLeftCtrl, keyPress},
		{codeLeftShift, keyPress},
		{codeSpace, keyPress},
		{codeSpace, 2}, // kernel autorepeat
		{codeSpace, 2},
		{codeSpace, keyRelease},
	})
	if downs != 1 {
		t.Errorf("autorepeat refired the chord, downs=%d", downs)
	}
	if ups != 1 {
		t.Errorf("ups=%d, want 1", ups)
	}
}

func TestChordSpaceWithoutModifiers(t *testing.T) {
	var c chord
	downs, ups := feedAll(&c, []event{
		{codeSpace, keyPress},
		{codeSpace, keyRelease},
	})
	if downs != 0 || ups != 0 {
		t.Errorf("plain space triggered the chord: downs=%d ups=%d", downs, ups)
	}
}

func TestChordModifierHeldAcrossTaps(t *testing.T) {
	var c chord
	downs, ups := feedAll(&c, []event{
		{codeLeftCtrl, keyPress},
		{codeLeftShift, keyPress},
		{codeSpace, keyPress},
		{codeSpace, keyRelease},
		{codeSpace, keyPress}, // modifiers still held
		{codeSpace, keyRelease},
	})
	if downs != 2 || ups != 2 {
		t.Errorf("downs=%d ups=%d, want 2 and 2", downs, ups)
	}
}
