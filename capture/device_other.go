//go:build !linux

package capture

func sourceListed(device string) bool {
	return false
}

func AvailableSources() []string {
	return nil
}
