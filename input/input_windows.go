//go:build windows

package input

import (
	"fmt"
	"strings"
	"unsafe"

	"github.com/dacapoday/sendinput"
	"github.com/lxn/win"
)

// Click moves the cursor to the screen coordinate and presses the left
// mouse button once.
func Click(x, y int) error {
	if !win.SetCursorPos(int32(x), int32(y)) {
		return fmt.Errorf("input: SetCursorPos(%d, %d) failed", x, y)
	}
	events := []win.MOUSE_INPUT{
		{Type: win.INPUT_MOUSE, Mi: win.MOUSEINPUT{DwFlags: win.MOUSEEVENTF_LEFTDOWN}},
		{Type: win.INPUT_MOUSE, Mi: win.MOUSEINPUT{DwFlags: win.MOUSEEVENTF_LEFTUP}},
	}
	n := win.SendInput(uint32(len(events)), unsafe.Pointer(&events[0]), int32(unsafe.Sizeof(events[0])))
	if n != uint32(len(events)) {
		return fmt.Errorf("input: SendInput injected %d of %d events", n, len(events))
	}
	return nil
}

// Press sends one key operation (e.g. "right", "enter", "Ctrl+Right").
// Modifiers are held while the main key is pressed and released in reverse
// order afterwards.
func Press(keyOperation string) error {
	keyOperation = strings.TrimSpace(keyOperation)
	if keyOperation == "" {
		return nil
	}
	parts := strings.Split(keyOperation, "+")
	for i, p := range parts {
		parts[i] = strings.ToUpper(strings.TrimSpace(p))
	}
	var modifiers []sendinput.KeyCode
	for _, p := range parts[:len(parts)-1] {
		switch p {
		case "CTRL", "CONTROL":
			modifiers = append(modifiers, sendinput.KEY_LCONTROL)
		case "ALT":
			modifiers = append(modifiers, sendinput.KEY_LMENU)
		case "SHIFT":
			modifiers = append(modifiers, sendinput.KEY_LSHIFT)
		case "WIN":
			modifiers = append(modifiers, sendinput.KEY_LWIN)
		}
	}
	mainKey := parts[len(parts)-1]
	main := sendinput.Key(mainKey)
	if main == 0 && len(mainKey) == 1 {
		main = sendinput.KeyCode(mainKey[0])
	}
	if main == 0 {
		return fmt.Errorf("input: unknown key %q", keyOperation)
	}
	for _, m := range modifiers {
		_ = sendinput.SendKeyboardInput(m, true)
	}
	if err := sendinput.SendKeyboardInput(main, true); err != nil {
		releaseModifiers(modifiers)
		return err
	}
	if err := sendinput.SendKeyboardInput(main, false); err != nil {
		releaseModifiers(modifiers)
		return err
	}
	releaseModifiers(modifiers)
	return nil
}

func releaseModifiers(modifiers []sendinput.KeyCode) {
	for i := len(modifiers) - 1; i >= 0; i-- {
		_ = sendinput.SendKeyboardInput(modifiers[i], false)
	}
}
