//go:build darwin

package deliver

import "github.com/micmonay/keybd_event"

func sendPasteKeys() error {
	kb, err := keybd_event.NewKeyBonding()
	if err != nil {
		return err
	}
	kb.SetKeys(keybd_event.VK_V)
	kb.HasSuper(true) // Cmd+V
	return kb.Launching()
}
