//go:build windows

package trigger

import (
	"os"
	"os/signal"
)

// No SIGUSR2 on Windows; toggling is hotkey-only there.
func NotifyToggle(ch chan os.Signal) {}

func NotifyShutdown(ch chan os.Signal) {
	signal.Notify(ch, os.Interrupt)
}
