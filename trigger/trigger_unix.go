//go:build !windows

package trigger

import (
	"os"
	"os/signal"
	"syscall"
)

// NotifyToggle registers the capture toggle signal. The channel should be
// buffered with capacity 1; a pending toggle that has not been consumed yet
// absorbs further deliveries.
func NotifyToggle(ch chan os.Signal) {
	signal.Notify(ch, syscall.SIGUSR2)
}

func NotifyShutdown(ch chan os.Signal) {
	signal.Notify(ch, os.Interrupt, syscall.SIGTERM)
}
