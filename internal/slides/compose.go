package slides

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/matjam/smoothslide/internal/types"
	xdraw "golang.org/x/image/draw"
)

// Compose renders img onto a width×height canvas filled with bg, scaled
// according to mode and centred, then mirrors the result vertically so row 0
// is the bottom of the screen as GL texture coordinates expect. A nil img
// produces a plain background.
func Compose(img image.Image, width, height int, bg color.Color, mode types.ScalingMode) *image.RGBA {
	canvas := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(canvas, canvas.Bounds(), &image.Uniform{C: bg}, image.Point{}, draw.Src)

	if img != nil && !img.Bounds().Empty() && width > 0 && height > 0 {
		dst := placement(img.Bounds(), width, height, mode)
		xdraw.ApproxBiLinear.Scale(canvas, dst, img, img.Bounds(), xdraw.Over, nil)
	}

	flipVertical(canvas)
	return canvas
}

// placement returns the destination rectangle of an image of size src on a
// width×height screen.
func placement(src image.Rectangle, width, height int, mode types.ScalingMode) image.Rectangle {
	sw, sh := src.Dx(), src.Dy()

	var w, h int
	switch mode {
	case types.ScalingModeStretch:
		w, h = width, height
	case types.ScalingModeFill:
		if sw*height > sh*width {
			h = height
			w = sw * height / sh
		} else {
			w = width
			h = sh * width / sw
		}
	default:
		if sw*height > sh*width {
			w = width
			h = sh * width / sw
		} else {
			h = height
			w = sw * height / sh
		}
	}

	x := (width - w) / 2
	y := (height - h) / 2
	return image.Rect(x, y, x+w, y+h)
}

func flipVertical(img *image.RGBA) {
	b := img.Bounds()
	rowLen := b.Dx() * 4
	tmp := make([]byte, rowLen)
	for top, bottom := 0, b.Dy()-1; top < bottom; top, bottom = top+1, bottom-1 {
		t := img.Pix[top*img.Stride : top*img.Stride+rowLen]
		u := img.Pix[bottom*img.Stride : bottom*img.Stride+rowLen]
		copy(tmp, t)
		copy(t, u)
		copy(u, tmp)
	}
}
