package monopanel

import (
	"image"
	"image/draw"

	"github.com/disintegration/imaging"

	"periph.io/x/devices/v3/monopanel/framebuf"
)

// Scale selects how RenderImage sizes an image.
type Scale uint8

const (
	// Fit keeps the whole image and centres it on the background.
	Fit Scale = iota
	// Fill covers the whole buffer and crops the overflow.
	Fill
)

// RenderImage scales img to the logical bounds of buf and draws it. Colours
// are reduced by the buffer's colour model without dithering.
func RenderImage(buf *framebuf.Buffer, img image.Image, s Scale) {
	b := buf.Bounds()
	if b.Empty() {
		return
	}
	var scaled *image.NRGBA
	if s == Fill {
		scaled = imaging.Fill(img, b.Dx(), b.Dy(), imaging.Center, imaging.Lanczos)
	} else {
		scaled = imaging.Fit(img, b.Dx(), b.Dy(), imaging.Lanczos)
	}
	sb := scaled.Bounds()
	off := image.Pt((b.Dx()-sb.Dx())/2, (b.Dy()-sb.Dy())/2)
	draw.Draw(buf, sb.Add(off), scaled, sb.Min, draw.Src)
}
