//go:build !linux && !darwin

package deliver

import "errors"

func sendPasteKeys() error {
	return errors.New("synthetic paste not supported on this platform")
}
