package artifacts

import (
	"image"
	"image/color"
	"image/draw"
	"strconv"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/pagelens/pagelens/internal/domain"
)

var annotationColor = color.RGBA{R: 220, G: 40, B: 40, A: 255}

// Annotate draws the page's layout detections onto a copy of the rendered
// page: one outlined rectangle per block, labeled with its 1-based position
// in reading order.
func Annotate(page domain.PageResult) *image.RGBA {
	bounds := page.Image.Bounds()
	out := image.NewRGBA(bounds)
	draw.Draw(out, bounds, page.Image, bounds.Min, draw.Src)

	for i, block := range page.Blocks {
		drawOutline(out, block.Bounds.Intersect(bounds))
		drawLabel(out, block.Bounds.Min, strconv.Itoa(i+1))
	}
	return out
}

// drawOutline traces a 2px rectangle border.
func drawOutline(img *image.RGBA, r image.Rectangle) {
	if r.Empty() {
		return
	}
	for t := 0; t < 2; t++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			img.Set(x, r.Min.Y+t, annotationColor)
			img.Set(x, r.Max.Y-1-t, annotationColor)
		}
		for y := r.Min.Y; y < r.Max.Y; y++ {
			img.Set(r.Min.X+t, y, annotationColor)
			img.Set(r.Max.X-1-t, y, annotationColor)
		}
	}
}

// drawLabel renders the block number just inside the block's top-left corner.
func drawLabel(img *image.RGBA, at image.Point, label string) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(annotationColor),
		Face: basicfont.Face7x13,
		Dot: fixed.Point26_6{
			X: fixed.I(at.X + 4),
			Y: fixed.I(at.Y + basicfont.Face7x13.Height + 2),
		},
	}
	d.DrawString(label)
}
