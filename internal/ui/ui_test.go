package ui

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConsolePlainOutput(t *testing.T) {
	var buf bytes.Buffer
	c := New(&buf)

	c.Banner("1.0")
	c.Error("Invalid Command")
	c.Block("body")

	want := ">  Input Commands Version 1.0 By Terry Zheng  <\n" +
		">  A simple input controller using commands.  <\n" +
		"\n" +
		"Error: Invalid Command\n" +
		"\nbody\n\n"
	assert.Equal(t, want, buf.String())
}

func TestConsoleColorWrapsText(t *testing.T) {
	var buf bytes.Buffer
	c := &Console{w: &buf, color: true}

	c.Error("Invalid Arguments")

	assert.Equal(t, red+"Error: Invalid Arguments"+reset+"\n", buf.String())
}
