// Package hotkey watches for the global Ctrl+Shift+Space chord. On Linux
// it reads keyboard event devices directly so it works on Wayland and X11
// alike; elsewhere it registers through the display server.
package hotkey

type Hotkey interface {
	Register() error
	Unregister()
	Keydown() <-chan struct{}
	Keyup() <-chan struct{}
}

// Taps converts complete press/release cycles of the chord into toggle
// events. The returned channel has capacity 1; taps arriving while one is
// already pending are dropped.
func Taps(hk Hotkey) <-chan struct{} {
	ch := make(chan struct{}, 1)
	go func() {
		for {
			<-hk.Keydown()
			<-hk.Keyup()
			select {
			case ch <- struct{}{}:
			default:
			}
		}
	}()
	return ch
}
