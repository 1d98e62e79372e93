// Package commands implements the read-eval loop that turns text lines into
// synthetic mouse and keyboard input.
//
// A line is split on whitespace. A single token is looked up among the
// zero-argument commands; anything longer is looked up among the
// one-argument commands with the remaining tokens rejoined by single spaces.
// Unknown names and empty lines report "Invalid Command", malformed
// positions report "Invalid Arguments", and the loop keeps going.
package commands

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"inputcommands/input"
	"inputcommands/internal/ui"

	log "github.com/sirupsen/logrus"
)

var (
	ErrInvalidCommand   = errors.New("Invalid Command")
	ErrInvalidArguments = errors.New("Invalid Arguments")
)

// maxLineSize bounds a single input line; SendKeys text can be long.
const maxLineSize = 1 << 20

// State is the loop state after a line has been handled.
type State int

const (
	Running State = iota
	Terminated
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case Terminated:
		return "terminated"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Interpreter executes command lines against a Device and writes the
// protocol output to a Console.
type Interpreter struct {
	dev     input.Device
	console *ui.Console
	logger  log.FieldLogger
	inside  func(x, y int) bool
	lock    sync.Locker

	zeroArg map[string]func() error
	oneArg  map[string]func(arg string) error
}

type Option func(*Interpreter)

func WithLogger(l log.FieldLogger) Option {
	return func(in *Interpreter) { in.logger = l }
}

// WithBounds rejects positions for which inside returns false with
// ErrInvalidArguments.
func WithBounds(inside func(x, y int) bool) Option {
	return func(in *Interpreter) { in.inside = inside }
}

// WithLock holds l for the whole of each command, so a move and its button
// transition are never interleaved with another session's.
func WithLock(l sync.Locker) Option {
	return func(in *Interpreter) { in.lock = l }
}

func New(dev input.Device, out io.Writer, opts ...Option) *Interpreter {
	in := &Interpreter{
		dev:     dev,
		console: ui.New(out),
		logger:  log.StandardLogger(),
	}
	for _, opt := range opts {
		opt(in)
	}
	in.zeroArg = map[string]func() error{
		"MouseLeftClick":  in.mouseLeftClick,
		"MouseRightClick": in.mouseRightClick,
		"Help":            in.help,
	}
	in.oneArg = map[string]func(string) error{
		"SetMousePosition": in.withPosition(in.setMousePosition),
		"MouseLeftUp":      in.withPosition(in.mouseLeftUp),
		"MouseLeftDown":    in.withPosition(in.mouseLeftDown),
		"MouseRightUp":     in.withPosition(in.mouseRightUp),
		"MouseRightDown":   in.withPosition(in.mouseRightDown),
		"SendKeys":         in.sendKeys,
	}
	return in
}

// Run executes lines from r until Exit or end of input. It returns
// Terminated after Exit and Running when r ran dry.
func (in *Interpreter) Run(r io.Reader) (State, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 4096), maxLineSize)
	for sc.Scan() {
		if in.Execute(sc.Text()) == Terminated {
			return Terminated, nil
		}
	}
	if err := sc.Err(); err != nil {
		return Running, fmt.Errorf("read command: %w", err)
	}
	return Running, nil
}

// Execute handles a single line.
func (in *Interpreter) Execute(line string) State {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		in.report("", ErrInvalidCommand)
		return Running
	}
	name := fields[0]
	if len(fields) == 1 && name == "Exit" {
		in.logger.Debug("exit requested")
		return Terminated
	}

	var run func() error
	if len(fields) == 1 {
		if fn, ok := in.zeroArg[name]; ok {
			run = fn
		}
	} else if fn, ok := in.oneArg[name]; ok {
		arg := strings.Join(fields[1:], " ")
		run = func() error { return fn(arg) }
	}
	if run == nil {
		in.report(name, ErrInvalidCommand)
		return Running
	}

	in.logger.WithField("cmd", name).Debug("dispatch")
	if in.lock != nil {
		in.lock.Lock()
		defer in.lock.Unlock()
	}
	if err := run(); err != nil {
		in.report(name, err)
	}
	return Running
}

func (in *Interpreter) report(name string, err error) {
	switch {
	case errors.Is(err, ErrInvalidCommand):
		in.console.Error(ErrInvalidCommand.Error())
	case errors.Is(err, ErrInvalidArguments):
		in.console.Error(ErrInvalidArguments.Error())
	default:
		in.logger.WithError(err).WithField("cmd", name).Warn("input injection failed")
	}
}

func (in *Interpreter) withPosition(fn func(Position) error) func(string) error {
	return func(arg string) error {
		p, err := ParsePosition(arg)
		if err != nil {
			return err
		}
		if in.inside != nil && !in.inside(p.X, p.Y) {
			return fmt.Errorf("%w: (%d, %d) is off screen", ErrInvalidArguments, p.X, p.Y)
		}
		return fn(p)
	}
}

func (in *Interpreter) help() error {
	in.console.Block(helpText)
	return nil
}

func (in *Interpreter) mouseLeftClick() error {
	if err := in.dev.PressLeft(); err != nil {
		return err
	}
	return in.dev.ReleaseLeft()
}

func (in *Interpreter) mouseRightClick() error {
	if err := in.dev.PressRight(); err != nil {
		return err
	}
	return in.dev.ReleaseRight()
}

func (in *Interpreter) setMousePosition(p Position) error {
	return in.dev.MoveCursor(p.X, p.Y)
}

func (in *Interpreter) mouseLeftUp(p Position) error {
	return in.moveThen(p, in.dev.ReleaseLeft)
}

func (in *Interpreter) mouseLeftDown(p Position) error {
	return in.moveThen(p, in.dev.PressLeft)
}

func (in *Interpreter) mouseRightUp(p Position) error {
	return in.moveThen(p, in.dev.ReleaseRight)
}

func (in *Interpreter) mouseRightDown(p Position) error {
	return in.moveThen(p, in.dev.PressRight)
}

func (in *Interpreter) moveThen(p Position, button func() error) error {
	if err := in.dev.MoveCursor(p.X, p.Y); err != nil {
		return err
	}
	return button()
}

func (in *Interpreter) sendKeys(text string) error {
	return in.dev.SendText(text)
}
