//go:build darwin

package doctor

func syntheticPaste() (string, error) {
	return "native key events", nil
}
