package crop

import (
	"image"
	"image/color"
	"testing"

	"go.uber.org/zap"
)

var white = color.RGBA{0xff, 0xff, 0xff, 0xff}
var black = color.RGBA{0, 0, 0, 0xff}

// whiteImage returns a w x h pure white RGBA image.
func whiteImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, white)
		}
	}
	return img
}

// withBlackRect paints the half-open rectangle [x0,x1)x[y0,y1) black.
func withBlackRect(img *image.RGBA, x0, y0, x1, y1 int) *image.RGBA {
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			img.SetRGBA(x, y, black)
		}
	}
	return img
}

func TestToContentTightBox(t *testing.T) {
	img := withBlackRect(whiteImage(100, 80), 10, 20, 40, 50)
	out := New(zap.NewNop()).ToContent(img, Margins{})
	b := out.Bounds()
	if b.Dx() != 30 || b.Dy() != 30 {
		t.Fatalf("cropped size = %dx%d, want 30x30", b.Dx(), b.Dy())
	}
}

func TestToContentAllWhiteUnchanged(t *testing.T) {
	img := whiteImage(64, 48)
	out := New(zap.NewNop()).ToContent(img, Margins{Top: 5, Left: 5})
	b := out.Bounds()
	if b.Dx() != 64 || b.Dy() != 48 {
		t.Fatalf("all-white image resized to %dx%d, want original 64x48", b.Dx(), b.Dy())
	}
}

func TestToContentNearWhiteIsContent(t *testing.T) {
	img := whiteImage(10, 10)
	// one near-white pixel: anti-aliased tones count as content
	img.SetRGBA(4, 4, color.RGBA{0xfe, 0xff, 0xff, 0xff})
	out := New(zap.NewNop()).ToContent(img, Margins{})
	b := out.Bounds()
	if b.Dx() != 1 || b.Dy() != 1 {
		t.Fatalf("cropped size = %dx%d, want 1x1", b.Dx(), b.Dy())
	}
}

func TestToContentMargins(t *testing.T) {
	img := withBlackRect(whiteImage(100, 100), 10, 10, 90, 90)
	out := New(zap.NewNop()).ToContent(img, Margins{Top: 5, Bottom: 10, Left: 15, Right: 20})
	b := out.Bounds()
	if b.Dx() != 80-15-20 || b.Dy() != 80-5-10 {
		t.Fatalf("cropped size = %dx%d, want %dx%d", b.Dx(), b.Dy(), 45, 65)
	}
}

func TestToContentMarginClampNeverInverts(t *testing.T) {
	img := withBlackRect(whiteImage(50, 50), 20, 20, 30, 30)
	tests := []Margins{
		{Top: 1000, Bottom: 1000, Left: 1000, Right: 1000},
		{Top: 9, Bottom: 9, Left: 9, Right: 9}, // larger than the 10px box
		{Bottom: 500},
		{Right: 500},
	}
	for _, m := range tests {
		out := New(zap.NewNop()).ToContent(img, m)
		b := out.Bounds()
		if b.Dx() < 0 || b.Dy() < 0 {
			t.Fatalf("margins %+v produced negative size %dx%d", m, b.Dx(), b.Dy())
		}
	}
}

func TestToContentIdempotent(t *testing.T) {
	img := withBlackRect(whiteImage(120, 90), 15, 10, 80, 70)
	c := New(zap.NewNop())
	once := c.ToContent(img, Margins{})
	twice := c.ToContent(once, Margins{})
	ob, tb := once.Bounds(), twice.Bounds()
	if ob.Dx() != tb.Dx() || ob.Dy() != tb.Dy() {
		t.Fatalf("second crop changed size: %dx%d -> %dx%d", ob.Dx(), ob.Dy(), tb.Dx(), tb.Dy())
	}
}

func TestToContentNonZeroOrigin(t *testing.T) {
	// Screen grabs may carry non-zero bounds; cropping must still find the
	// same box.
	img := image.NewRGBA(image.Rect(100, 200, 160, 260))
	for y := 200; y < 260; y++ {
		for x := 100; x < 160; x++ {
			img.SetRGBA(x, y, white)
		}
	}
	img.SetRGBA(110, 210, black)
	img.SetRGBA(149, 239, black)
	out := New(zap.NewNop()).ToContent(img, Margins{})
	b := out.Bounds()
	if b.Dx() != 40 || b.Dy() != 30 {
		t.Fatalf("cropped size = %dx%d, want 40x30", b.Dx(), b.Dy())
	}
}
