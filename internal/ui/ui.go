package ui

import (
	"fmt"
	"io"
	"os"
)

// ANSI color codes
const (
	reset = "\033[0m"
	cyan  = "\033[36m"
	red   = "\033[31m"
)

// Console writes the user-facing half of the protocol. Colors are only
// emitted when the writer is a terminal, so pipes and sockets see plain text.
type Console struct {
	w     io.Writer
	color bool
}

func New(w io.Writer) *Console {
	return &Console{w: w, color: isTTY(w)}
}

// isTTY returns true if w is a character device.
func isTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

func (c *Console) s(code, text string) string {
	if !c.color {
		return text
	}
	return code + text + reset
}

// Banner prints the startup banner:
//
//	>  Input Commands Version 1.0 By Terry Zheng  <
//	>  A simple input controller using commands.  <
func (c *Console) Banner(version string) {
	fmt.Fprintln(c.w, c.s(cyan, fmt.Sprintf(">  Input Commands Version %s By Terry Zheng  <", version)))
	fmt.Fprintln(c.w, c.s(cyan, ">  A simple input controller using commands.  <"))
	fmt.Fprintln(c.w)
}

// Error prints "Error: <msg>".
func (c *Console) Error(msg string) {
	fmt.Fprintln(c.w, c.s(red, "Error: "+msg))
}

// Block prints text surrounded by blank lines.
func (c *Console) Block(text string) {
	fmt.Fprintln(c.w)
	fmt.Fprintln(c.w, text)
	fmt.Fprintln(c.w)
}
