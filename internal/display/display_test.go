package display

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckerContains(t *testing.T) {
	c := NewChecker(func() []image.Rectangle {
		return []image.Rectangle{
			image.Rect(0, 0, 1920, 1080),
			image.Rect(1920, 0, 3200, 1024),
		}
	})

	cases := []struct {
		x, y int
		want bool
	}{
		{0, 0, true},
		{1919, 1079, true},
		{1920, 1079, false},
		{2000, 500, true},
		{3200, 0, false},
		{100, 1080, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, c.Contains(tc.x, tc.y), "(%d,%d)", tc.x, tc.y)
	}
}

func TestCheckerWithoutDisplaysAcceptsAll(t *testing.T) {
	c := NewChecker(func() []image.Rectangle { return nil })
	assert.True(t, c.Contains(99999, 99999))
}
