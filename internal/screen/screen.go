package screen

import (
	"image"
	"image/color"
	imgdraw "image/draw"

	"github.com/hajimehoshi/bitmapfont/v2"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// GlyphWidth is the advance of one bitmapfont glyph in pixels.
const GlyphWidth = 6

var col = color.RGBA{255, 255, 255, 255}
var uniformImage = image.NewUniform(col)

// New returns a black canvas of the given size.
func New(width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	imgdraw.Draw(img, img.Bounds(), &image.Uniform{color.RGBA{0, 0, 0, 255}}, image.Point{}, imgdraw.Src)
	return img
}

func AddLabel(img *image.RGBA, x, y int, label string) {

	point := fixed.Point26_6{X: fixed.Int26_6((x + 4) * 64), Y: fixed.Int26_6(y * 64)}

	d := &font.Drawer{
		Dst:  img,
		Src:  uniformImage,
		Face: bitmapfont.Face,
		Dot:  point,
	}
	d.DrawString(label)
}

func AddCenteredLabel(img *image.RGBA, y int, label string) {
	AddLabel(img, (img.Bounds().Dx()-len(label)*GlyphWidth)/2, y, label)
}

// Truncate shortens label so it fits in width pixels.
func Truncate(label string, width int) string {
	max := width / GlyphWidth
	runes := []rune(label)
	if len(runes) <= max {
		return label
	}
	return string(runes[:max])
}
