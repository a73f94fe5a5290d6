package monopanel

import (
	"image"
	"image/color"
	"image/draw"
	"testing"

	"periph.io/x/devices/v3/monopanel/framebuf"
)

// halves returns a w×h image, black on the left half and white on the right.
func halves(w, h int) image.Image {
	img := image.NewGray(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)
	draw.Draw(img, image.Rect(0, 0, w/2, h), image.Black, image.Point{}, draw.Src)
	return img
}

func TestRenderImageFill(t *testing.T) {
	buf, err := framebuf.New(16, 8, framebuf.Mono1, framebuf.Off)
	if err != nil {
		t.Fatal(err)
	}
	RenderImage(buf, halves(64, 32), Fill)

	if buf.ColorAt(1, 4) != framebuf.On {
		t.Error("left side should be dark")
	}
	if buf.ColorAt(14, 4) != framebuf.Off {
		t.Error("right side should be light")
	}
}

func TestRenderImageFitCentres(t *testing.T) {
	buf, err := framebuf.New(16, 8, framebuf.GrayPacked, framebuf.White)
	if err != nil {
		t.Fatal(err)
	}
	// A square source fits as 8×8 in the middle of the 16×8 buffer.
	src := image.NewUniform(color.Black)
	square := image.NewGray(image.Rect(0, 0, 32, 32))
	draw.Draw(square, square.Bounds(), src, image.Point{}, draw.Src)
	RenderImage(buf, square, Fit)

	if buf.ColorAt(0, 4) != framebuf.White {
		t.Error("left margin should keep the background")
	}
	if buf.ColorAt(8, 4) != framebuf.Black {
		t.Error("centre should be black")
	}
	if buf.ColorAt(15, 4) != framebuf.White {
		t.Error("right margin should keep the background")
	}
}

func TestRenderImageRotated(t *testing.T) {
	buf, err := framebuf.New(16, 8, framebuf.Mono1, framebuf.Off)
	if err != nil {
		t.Fatal(err)
	}
	buf.SetRotation(framebuf.Rotate90)
	RenderImage(buf, halves(16, 32), Fill)

	// Logical bounds are 8×16; the logical left half is dark.
	if buf.ColorAt(1, 8) != framebuf.On {
		t.Error("logical left side should be dark")
	}
	if buf.ColorAt(6, 8) != framebuf.Off {
		t.Error("logical right side should be light")
	}
}
