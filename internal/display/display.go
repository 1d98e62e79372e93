package display

import (
	"image"

	"github.com/kbinani/screenshot"
)

// Source reports the bounds of every active display in virtual-screen
// coordinates.
type Source func() []image.Rectangle

// Active queries the host for its active displays.
func Active() []image.Rectangle {
	n := screenshot.NumActiveDisplays()
	bounds := make([]image.Rectangle, 0, n)
	for i := 0; i < n; i++ {
		bounds = append(bounds, screenshot.GetDisplayBounds(i))
	}
	return bounds
}

// Checker accepts a point when it lies on one of the displays reported by
// its Source.
type Checker struct {
	src Source
}

func NewChecker(src Source) *Checker {
	if src == nil {
		src = Active
	}
	return &Checker{src: src}
}

// Contains is queried on every call so hot-plugged monitors are seen.
// A host that reports no displays accepts everything.
func (c *Checker) Contains(x, y int) bool {
	bounds := c.src()
	if len(bounds) == 0 {
		return true
	}
	p := image.Pt(x, y)
	for _, b := range bounds {
		if p.In(b) {
			return true
		}
	}
	return false
}
