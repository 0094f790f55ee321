// Package crop trims captured pages to their content bounding box.
package crop

import (
	"image"
	"image/draw"

	"go.uber.org/zap"
)

// Margins shrink the detected content box inward, in pixels. Top and Left
// move the start edges in; Bottom and Right move the end edges in.
type Margins struct {
	Top, Bottom, Left, Right int
}

// Cropper finds the tight bounding box of non-background pixels and applies
// margins. Background is strictly pure white (all three channels at maximum);
// anti-aliased and near-white tones count as content.
type Cropper struct {
	log *zap.Logger
}

// New returns a Cropper that logs output dimensions, the main diagnostic for
// margin misconfiguration.
func New(logger *zap.Logger) *Cropper {
	return &Cropper{log: logger}
}

// ToContent crops img to the minimal rectangle enclosing every non-white
// pixel, then shrinks it by the margins. Each bound is clamped so it never
// crosses the opposite bound; the result can collapse to an empty region but
// never inverts. A fully white image is returned unchanged.
func (c *Cropper) ToContent(img image.Image, m Margins) image.Image {
	rgba := toRGBA(img)
	b := rgba.Bounds()
	x0, y0, x1, y1, found := contentBox(rgba)
	if !found {
		c.log.Warn("no non-white content found, keeping original",
			zap.Int("width", b.Dx()), zap.Int("height", b.Dy()))
		return img
	}
	y0 = max(b.Min.Y, y0+m.Top)
	y1 = max(y0, y1-m.Bottom)
	x0 = max(b.Min.X, x0+m.Left)
	x1 = max(x0, x1-m.Right)

	out := image.NewRGBA(image.Rect(0, 0, x1-x0, y1-y0))
	draw.Draw(out, out.Bounds(), rgba, image.Pt(x0, y0), draw.Src)
	c.log.Info("cropped to content",
		zap.Int("width", out.Bounds().Dx()), zap.Int("height", out.Bounds().Dy()))
	return out
}

// contentBox returns the half-open bounding box [x0,x1)x[y0,y1) of all pixels
// that are not pure white, in the image's own coordinate space.
func contentBox(img *image.RGBA) (x0, y0, x1, y1 int, found bool) {
	b := img.Bounds()
	x0, y0 = b.Max.X, b.Max.Y
	x1, y1 = b.Min.X, b.Min.Y
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := img.RGBAAt(x, y)
			if c.R == 0xff && c.G == 0xff && c.B == 0xff {
				continue
			}
			if x < x0 {
				x0 = x
			}
			if y < y0 {
				y0 = y
			}
			if x >= x1 {
				x1 = x + 1
			}
			if y >= y1 {
				y1 = y + 1
			}
			found = true
		}
	}
	return
}

func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba
	}
	b := img.Bounds()
	rgba := image.NewRGBA(b)
	draw.Draw(rgba, b, img, b.Min, draw.Src)
	return rgba
}
