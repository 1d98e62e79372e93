// Package input provides a tiny cross-platform abstraction over the mouse
// and keyboard operations the command loop needs. Each platform implements
// the Device in separate files guarded by build tags.
package input

import "errors"

// ErrUnsupported is returned by the platform device when the build has no
// way to synthesize input on this host.
var ErrUnsupported = errors.New("input injection not supported on this platform")

type Button string

const (
	ButtonLeft  Button = "left"
	ButtonRight Button = "right"
)

// Device synthesizes input events on the host.
type Device interface {
	// MoveCursor moves the cursor to absolute screen coordinates (x,y).
	MoveCursor(x, y int) error
	PressLeft() error
	ReleaseLeft() error
	PressRight() error
	ReleaseRight() error
	// SendText types s into the focused window and returns once every
	// keystroke has been delivered.
	SendText(s string) error
}

// New returns the device for the current platform.
func New() Device { return newPlatform() }
