package framebuf

import (
	"fmt"
	"image"
	"image/color"
)

// Buffer is a fixed-size bit-packed framebuffer.
//
// The length of the backing slice is Layout.Len(width, height) and never
// changes.
type Buffer struct {
	pix    []byte
	width  int
	height int
	layout Layout
	rot    Rotation
}

// New returns a width×height buffer in layout l with every pixel set to bg.
func New(width, height int, l Layout, bg Color) (*Buffer, error) {
	if err := l.Validate(width, height); err != nil {
		return nil, err
	}
	b := &Buffer{
		pix:    make([]byte, l.Len(width, height)),
		width:  width,
		height: height,
		layout: l,
	}
	b.Fill(bg)
	return b, nil
}

// Width returns the native (unrotated) width.
func (b *Buffer) Width() int { return b.width }

// Height returns the native (unrotated) height.
func (b *Buffer) Height() int { return b.height }

// Layout returns the storage layout.
func (b *Buffer) Layout() Layout { return b.layout }

// Rotation returns the rotation applied when addressing pixels.
func (b *Buffer) Rotation() Rotation { return b.rot }

// SetRotation changes the rotation. Stored bytes are left untouched.
func (b *Buffer) SetRotation(r Rotation) { b.rot = r }

// Bytes returns the packed frame, ready for transport. The slice aliases the
// buffer and must not be modified.
func (b *Buffer) Bytes() []byte { return b.pix }

// Bounds implements image.Image. It is the logical, rotated rectangle.
func (b *Buffer) Bounds() image.Rectangle {
	w, h := b.rot.Dims(b.width, b.height)
	return image.Rect(0, 0, w, h)
}

// ColorModel implements image.Image.
func (b *Buffer) ColorModel() color.Model {
	return ModelFor(b.layout)
}

// At implements image.Image.
func (b *Buffer) At(x, y int) color.Color {
	return b.ColorAt(x, y)
}

// ColorAt returns the colour stored for the logical point (x, y). Points
// outside the panel read as the zero pattern.
func (b *Buffer) ColorAt(x, y int) Color {
	a, ok := Resolve(x, y, b.width, b.height, b.rot, b.layout)
	if !ok {
		return b.fromBits(0)
	}
	return b.fromBits(b.read(a))
}

// Set implements draw.Image.
func (b *Buffer) Set(x, y int, c color.Color) {
	b.SetPixel(x, y, Convert(b.layout, c))
}

// SetPixel stores c at the logical point (x, y). Points outside the panel
// are ignored. A colour of the wrong depth is converted first.
func (b *Buffer) SetPixel(x, y int, c Color) {
	a, ok := Resolve(x, y, b.width, b.height, b.rot, b.layout)
	if !ok {
		return
	}
	if c.Depth() != b.layout.Depth() {
		c = Convert(b.layout, c)
	}
	b.write(a, c.Bits())
}

// Fill sets every pixel to c.
func (b *Buffer) Fill(c Color) {
	if c.Depth() != b.layout.Depth() {
		c = Convert(b.layout, c)
	}
	even, odd := FillBytes(b.layout, c)
	for i := range b.pix {
		if i%2 == 0 {
			b.pix[i] = even
		} else {
			b.pix[i] = odd
		}
	}
}

func (b *Buffer) String() string {
	return fmt.Sprintf("framebuf.Buffer{%dx%d %s %s}", b.width, b.height, b.layout, b.rot)
}

func (b *Buffer) read(a Address) uint8 {
	if a.Planar {
		hi := (b.pix[a.Index] & a.Mask) >> a.Shift
		lo := (b.pix[a.Index+1] & a.Mask) >> a.Shift
		return hi<<1 | lo
	}
	return (b.pix[a.Index] & a.Mask) >> a.Shift
}

func (b *Buffer) write(a Address, bits uint8) {
	if a.Planar {
		b.pix[a.Index] = b.pix[a.Index]&^a.Mask | ((bits>>1)&1)<<a.Shift
		b.pix[a.Index+1] = b.pix[a.Index+1]&^a.Mask | (bits&1)<<a.Shift
		return
	}
	// Neighbouring pixels share the byte, so only the masked field changes.
	b.pix[a.Index] = b.pix[a.Index]&^a.Mask | (bits<<a.Shift)&a.Mask
}

func (b *Buffer) fromBits(v uint8) Color {
	if b.layout == Mono1 {
		return Mono(v&1 == 1)
	}
	return Gray(v & 3)
}

// FillBytes returns the byte pattern of a solid c fill in layout l. Bytes at
// even offsets take even, odd offsets take odd; they only differ for
// GrayPlanar, where bytes alternate between bit planes.
func FillBytes(l Layout, c Color) (even, odd byte) {
	bits := c.Bits()
	switch l {
	case GrayPlanar:
		return planeByte(bits>>1&1 == 1), planeByte(bits&1 == 1)
	case GrayPacked:
		v := bits & 3
		p := v<<6 | v<<4 | v<<2 | v
		return p, p
	}
	p := planeByte(bits&1 == 1)
	return p, p
}

func planeByte(set bool) byte {
	if set {
		return 0xFF
	}
	return 0x00
}
