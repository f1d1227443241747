package panel

import (
	"github.com/hajimehoshi/bitmapfont/v2"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
	"image"
	"image/color"
	"image/draw"
)

// All panels are the same small monochrome tile.
const (
	FrameWidth  = 128
	FrameHeight = 32
)

// bitmapfont glyph geometry for halfwidth characters.
const (
	glyphWidth  = 6
	glyphHeight = 12
	glyphAscent = 10
)

var frameColor = color.RGBA{255, 255, 255, 255}
var frameInk = image.NewUniform(frameColor)

// NewFrame returns a black tile ready to be drawn on and pushed.
func NewFrame() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, FrameWidth, FrameHeight))
	draw.Draw(img, img.Bounds(), &image.Uniform{color.RGBA{0, 0, 0, 255}}, image.Point{}, draw.Src)
	return img
}

func addLabel(img *image.RGBA, x, y int, label string) {
	d := &font.Drawer{
		Dst:  img,
		Src:  frameInk,
		Face: bitmapfont.Face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(label)
}

func addCenteredLabel(img *image.RGBA, y int, label string) {
	addLabel(img, (FrameWidth-len(label)*glyphWidth)/2, y, label)
}

// addBigCenteredLabel renders the label at twice the bitmap font size,
// centered, with its baseline at y. Used for the large value line.
func addBigCenteredLabel(img *image.RGBA, y int, label string) {
	w := len(label) * glyphWidth
	if w <= 0 {
		return
	}
	tmp := image.NewRGBA(image.Rect(0, 0, w, glyphHeight))
	addLabel(tmp, 0, glyphAscent, label)

	dst := image.Rect(0, 0, 2*w, 2*glyphHeight).
		Add(image.Pt((FrameWidth-2*w)/2, y-2*glyphAscent))
	xdraw.NearestNeighbor.Scale(img, dst, tmp, tmp.Bounds(), xdraw.Over, nil)
}

// addProgressBar draws an outlined bar filled proportionally to
// value/max, clamped to the bar width.
func addProgressBar(img *image.RGBA, x, y, w, h int, value, max float64) {
	outline := image.Rect(x, y, x+w, y+h)
	draw.Draw(img, image.Rect(outline.Min.X, outline.Min.Y, outline.Max.X, outline.Min.Y+1), frameInk, image.Point{}, draw.Src)
	draw.Draw(img, image.Rect(outline.Min.X, outline.Max.Y-1, outline.Max.X, outline.Max.Y), frameInk, image.Point{}, draw.Src)
	draw.Draw(img, image.Rect(outline.Min.X, outline.Min.Y, outline.Min.X+1, outline.Max.Y), frameInk, image.Point{}, draw.Src)
	draw.Draw(img, image.Rect(outline.Max.X-1, outline.Min.Y, outline.Max.X, outline.Max.Y), frameInk, image.Point{}, draw.Src)

	if max <= 0 || value <= 0 {
		return
	}
	fill := int(value / max * float64(w-2))
	if fill > w-2 {
		fill = w - 2
	}
	if fill > 0 {
		draw.Draw(img, image.Rect(x+1, y+1, x+1+fill, y+h-1), frameInk, image.Point{}, draw.Src)
	}
}
