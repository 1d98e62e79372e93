//go:build windows

package input

import (
	"fmt"

	"golang.org/x/sys/windows"
)

var (
	user32           = windows.NewLazySystemDLL("user32.dll")
	procSetCursorPos = user32.NewProc("SetCursorPos")
	procMouseEvent   = user32.NewProc("mouse_event")
	procKeybdEvent   = user32.NewProc("keybd_event")
	procVkKeyScanW   = user32.NewProc("VkKeyScanW")
)

// Win32 constants
const (
	MOUSEEVENTF_LEFTDOWN  = 0x0002
	MOUSEEVENTF_LEFTUP    = 0x0004
	MOUSEEVENTF_RIGHTDOWN = 0x0008
	MOUSEEVENTF_RIGHTUP   = 0x0010

	KEYEVENTF_KEYUP = 0x0002

	VK_RETURN  = 0x0D
	VK_SHIFT   = 0x10
	VK_CONTROL = 0x11
	VK_MENU    = 0x12 // ALT
)

type windowsDevice struct{}

func newPlatform() Device { return windowsDevice{} }

func (windowsDevice) MoveCursor(x, y int) error {
	if err := procSetCursorPos.Find(); err != nil {
		return fmt.Errorf("SetCursorPos: %w", err)
	}
	ret, _, err := procSetCursorPos.Call(uintptr(int32(x)), uintptr(int32(y)))
	if ret == 0 {
		return fmt.Errorf("SetCursorPos(%d, %d): %w", x, y, err)
	}
	return nil
}

func (windowsDevice) PressLeft() error    { return mouseEvent(MOUSEEVENTF_LEFTDOWN) }
func (windowsDevice) ReleaseLeft() error  { return mouseEvent(MOUSEEVENTF_LEFTUP) }
func (windowsDevice) PressRight() error   { return mouseEvent(MOUSEEVENTF_RIGHTDOWN) }
func (windowsDevice) ReleaseRight() error { return mouseEvent(MOUSEEVENTF_RIGHTUP) }

// mouseEvent posts a button transition at the current cursor position.
// mouse_event has no return value.
func mouseEvent(flags uint32) error {
	if err := procMouseEvent.Find(); err != nil {
		return fmt.Errorf("mouse_event: %w", err)
	}
	procMouseEvent.Call(uintptr(flags), 0, 0, 0, 0)
	return nil
}

func keybdEvent(vk uint16, flags uint32) {
	procKeybdEvent.Call(uintptr(vk), 0, uintptr(flags), 0)
}

// SendText taps every rune of s using the active keyboard layout. Runes the
// layout cannot produce are skipped.
func (windowsDevice) SendText(s string) error {
	if err := procKeybdEvent.Find(); err != nil {
		return fmt.Errorf("keybd_event: %w", err)
	}
	if err := procVkKeyScanW.Find(); err != nil {
		return fmt.Errorf("VkKeyScanW: %w", err)
	}
	for _, r := range s {
		vk, mods, ok := mapRune(r)
		if !ok {
			continue
		}
		for _, m := range mods {
			keybdEvent(m, 0)
		}
		keybdEvent(vk, 0)
		keybdEvent(vk, KEYEVENTF_KEYUP)
		for i := len(mods) - 1; i >= 0; i-- {
			keybdEvent(mods[i], KEYEVENTF_KEYUP)
		}
	}
	return nil
}

// mapRune resolves r to a virtual-key code and the modifier keys that must
// be held while it is tapped.
func mapRune(r rune) (vk uint16, mods []uint16, ok bool) {
	if r == '\n' {
		return VK_RETURN, nil, true
	}
	if r > 0xFFFF {
		return 0, nil, false
	}
	ret, _, _ := procVkKeyScanW.Call(uintptr(uint16(r)))
	scan := uint16(ret)
	if scan == 0xFFFF {
		return 0, nil, false
	}
	state := scan >> 8
	if state&1 != 0 {
		mods = append(mods, VK_SHIFT)
	}
	if state&2 != 0 {
		mods = append(mods, VK_CONTROL)
	}
	if state&4 != 0 {
		mods = append(mods, VK_MENU)
	}
	return scan & 0xFF, mods, true
}
