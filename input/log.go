package input

import (
	log "github.com/sirupsen/logrus"
)

// LogDevice records every operation to a logger instead of touching the
// host. It backs --dry-run.
type LogDevice struct {
	logger log.FieldLogger
}

func NewLogDevice(logger log.FieldLogger) *LogDevice {
	return &LogDevice{logger: logger}
}

func (d *LogDevice) MoveCursor(x, y int) error {
	d.logger.WithFields(log.Fields{"x": x, "y": y}).Info("move cursor")
	return nil
}

func (d *LogDevice) PressLeft() error    { return d.button(ButtonLeft, "down") }
func (d *LogDevice) ReleaseLeft() error  { return d.button(ButtonLeft, "up") }
func (d *LogDevice) PressRight() error   { return d.button(ButtonRight, "down") }
func (d *LogDevice) ReleaseRight() error { return d.button(ButtonRight, "up") }

func (d *LogDevice) button(btn Button, dir string) error {
	d.logger.WithFields(log.Fields{"button": btn, "dir": dir}).Info("mouse button")
	return nil
}

func (d *LogDevice) SendText(s string) error {
	d.logger.WithField("text", s).Info("send text")
	return nil
}
