//go:build !linux && !darwin

package doctor

import "errors"

func syntheticPaste() (string, error) {
	return "", errors.New("synthetic paste is not supported on this platform")
}
