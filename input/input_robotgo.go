//go:build !windows && cgo

package input

import (
	"fmt"

	"github.com/go-vgo/robotgo"
)

// robotgoDevice drives X11 and macOS through robotgo.
type robotgoDevice struct{}

func newPlatform() Device { return robotgoDevice{} }

func (robotgoDevice) MoveCursor(x, y int) error {
	robotgo.Move(x, y)
	return nil
}

func (robotgoDevice) PressLeft() error    { return toggle(ButtonLeft, "down") }
func (robotgoDevice) ReleaseLeft() error  { return toggle(ButtonLeft, "up") }
func (robotgoDevice) PressRight() error   { return toggle(ButtonRight, "down") }
func (robotgoDevice) ReleaseRight() error { return toggle(ButtonRight, "up") }

func toggle(btn Button, dir string) error {
	if err := robotgo.Toggle(string(btn), dir); err != nil {
		return fmt.Errorf("toggle %s %s: %w", btn, dir, err)
	}
	return nil
}

// SendText types s; robotgo.TypeStr returns once the sequence is posted.
func (robotgoDevice) SendText(s string) error {
	robotgo.TypeStr(s)
	return nil
}
