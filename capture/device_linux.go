//go:build linux

package capture

import (
	"fmt"

	"github.com/jfreymuth/pulse"
)

func sourceListed(device string) bool {
	c, err := pulse.NewClient()
	if err != nil {
		return false
	}
	defer c.Close()

	sources, err := c.ListSources()
	if err != nil {
		return false
	}
	for _, s := range sources {
		if s.ID() == device || s.Name() == device {
			return true
		}
	}
	return false
}

// AvailableSources lists capture targets for startup guidance when no
// device is configured.
func AvailableSources() []string {
	c, err := pulse.NewClient()
	if err != nil {
		return nil
	}
	defer c.Close()

	sources, err := c.ListSources()
	if err != nil {
		return nil
	}
	var out []string
	for _, s := range sources {
		out = append(out, fmt.Sprintf("%s (%s)", s.ID(), s.Name()))
	}
	return out
}
