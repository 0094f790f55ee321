// Package capture grabs raw pixels for a screen region. Cropping is a
// separate stage so the raw capture can be tested on its own.
package capture

import (
	"errors"
	"fmt"
	"image"

	"github.com/kbinani/screenshot"

	"BookShot/window"
)

// ErrUnavailable is returned when no screen-capture capability exists, e.g.
// in a headless session. It is fatal for a whole batch run.
var ErrUnavailable = errors.New("capture: no active display")

// ErrBadRegion is returned for a region without positive area. The check runs
// before any capture is attempted.
var ErrBadRegion = errors.New("capture: region has no area")

// Region is the pixel rectangle handed to the screen grabber.
type Region struct {
	X, Y, Width, Height int
}

// LeftThird derives the capture region for a document-reader window: the left
// third of the width at full height, since only the left pane holds page
// content. Positive overrides replace the window's reported size before the
// split.
func LeftThird(g window.Geometry, overrideWidth, overrideHeight int) (Region, error) {
	w, h := g.Width, g.Height
	if overrideWidth > 0 {
		w = overrideWidth
	}
	if overrideHeight > 0 {
		h = overrideHeight
	}
	r := Region{X: g.X, Y: g.Y, Width: w / 3, Height: h}
	if r.Width <= 0 || r.Height <= 0 {
		return Region{}, ErrBadRegion
	}
	return r, nil
}

// Capture returns the raw pixels for the region.
func Capture(region Region) (image.Image, error) {
	if region.Width <= 0 || region.Height <= 0 {
		return nil, ErrBadRegion
	}
	if screenshot.NumActiveDisplays() == 0 {
		return nil, ErrUnavailable
	}
	bounds := image.Rect(region.X, region.Y, region.X+region.Width, region.Y+region.Height)
	img, err := screenshot.CaptureRect(bounds)
	if err != nil {
		return nil, fmt.Errorf("capture: %w", err)
	}
	return img, nil
}
