//go:build !windows && !cgo

package input

// Pure-Go builds cannot reach robotgo; every call reports ErrUnsupported so
// the tool still runs (and dry-run still works) on such hosts.

type unsupportedDevice struct{}

func newPlatform() Device { return unsupportedDevice{} }

func (unsupportedDevice) MoveCursor(x, y int) error { return ErrUnsupported }
func (unsupportedDevice) PressLeft() error          { return ErrUnsupported }
func (unsupportedDevice) ReleaseLeft() error        { return ErrUnsupported }
func (unsupportedDevice) PressRight() error         { return ErrUnsupported }
func (unsupportedDevice) ReleaseRight() error       { return ErrUnsupported }
func (unsupportedDevice) SendText(s string) error   { return ErrUnsupported }
