package framebuf

import (
	"image/color"
)

// Color is a pixel value with a fixed on-wire bit pattern.
type Color interface {
	color.Color
	// Depth is the number of bits per pixel of the pattern.
	Depth() int
	// Bits returns the pattern in the low Depth() bits.
	Bits() uint8
	// Invert returns the colour whose pattern is the bitwise complement.
	Invert() Color
}

// Mono is a 1-bit colour. On is a dark (set) pixel.
type Mono bool

// Monochrome values.
const (
	Off Mono = false
	On  Mono = true
)

// RGBA implements color.Color.
func (c Mono) RGBA() (r, g, b, a uint32) {
	if c {
		return 0, 0, 0, 0xFFFF
	}
	return 0xFFFF, 0xFFFF, 0xFFFF, 0xFFFF
}

// Depth implements Color.
func (c Mono) Depth() int { return 1 }

// Bits implements Color.
func (c Mono) Bits() uint8 {
	if c {
		return 1
	}
	return 0
}

// Invert implements Color.
func (c Mono) Invert() Color { return !c }

func (c Mono) String() string {
	if c {
		return "On"
	}
	return "Off"
}

// Gray is a 2-bit colour with four fixed levels.
type Gray uint8

// Grayscale values, from lightest to darkest. The value is the on-wire
// pattern.
const (
	White Gray = 0b00
	Gray1 Gray = 0b01
	Gray2 Gray = 0b10
	Black Gray = 0b11
)

// RGBA implements color.Color.
func (c Gray) RGBA() (r, g, b, a uint32) {
	// White=0xFFFF, Gray1=0xAAAA, Gray2=0x5555, Black=0.
	y := uint32(3-(c&3)) * 0x5555
	return y, y, y, 0xFFFF
}

// Depth implements Color.
func (c Gray) Depth() int { return 2 }

// Bits implements Color.
func (c Gray) Bits() uint8 { return uint8(c & 3) }

// Invert implements Color.
func (c Gray) Invert() Color { return ^c & 3 }

func (c Gray) String() string {
	switch c & 3 {
	case White:
		return "White"
	case Gray1:
		return "Gray1"
	case Gray2:
		return "Gray2"
	default:
		return "Black"
	}
}

func luma(c color.Color) uint32 {
	r, g, b, _ := c.RGBA()
	// ITU-R 601 weights: 0.299R + 0.587G + 0.114B.
	return (299*r + 587*g + 114*b + 500) / 1000
}

func toMono(c color.Color) color.Color {
	switch v := c.(type) {
	case Mono:
		return v
	case Gray:
		return Mono(v >= Gray2)
	}
	return Mono(luma(c) < 0x8000)
}

func toGray(c color.Color) color.Color {
	switch v := c.(type) {
	case Gray:
		return v & 3
	case Mono:
		if v {
			return Black
		}
		return White
	}
	// 16-bit luminance to four levels, 3 being the lightest.
	return Gray(3 - luma(c)>>14)
}

// MonoModel converts colours to Mono.
var MonoModel = color.ModelFunc(toMono)

// GrayModel converts colours to Gray.
var GrayModel = color.ModelFunc(toGray)

// ModelFor returns the colour model of layout l.
func ModelFor(l Layout) color.Model {
	if l == Mono1 {
		return MonoModel
	}
	return GrayModel
}

// Convert returns c as a colour of the depth used by layout l.
func Convert(l Layout, c color.Color) Color {
	return ModelFor(l).Convert(c).(Color)
}
