package framebuf

import (
	"fmt"
)

// Rotation is a clockwise coordinate transform applied at addressing time.
type Rotation uint8

// Supported rotations.
const (
	Rotate0 Rotation = iota
	Rotate90
	Rotate180
	Rotate270
)

func (r Rotation) String() string {
	switch r {
	case Rotate0:
		return "0°"
	case Rotate90:
		return "90°"
	case Rotate180:
		return "180°"
	case Rotate270:
		return "270°"
	}
	return fmt.Sprintf("Rotation(%d)", uint8(r))
}

// ParseRotation accepts 0, 90, 180 or 270 degrees.
func ParseRotation(deg int) (Rotation, error) {
	switch deg {
	case 0:
		return Rotate0, nil
	case 90:
		return Rotate90, nil
	case 180:
		return Rotate180, nil
	case 270:
		return Rotate270, nil
	}
	return Rotate0, fmt.Errorf("framebuf: unsupported rotation %d", deg)
}

// Inverse returns the rotation undoing r.
func (r Rotation) Inverse() Rotation {
	switch r {
	case Rotate90:
		return Rotate270
	case Rotate270:
		return Rotate90
	}
	return r
}

// Dims returns the logical size of a w×h panel seen through r.
func (r Rotation) Dims(w, h int) (int, int) {
	if r == Rotate90 || r == Rotate270 {
		return h, w
	}
	return w, h
}

// Contains reports whether the logical point (x, y) is visible on a w×h
// panel seen through r.
func (r Rotation) Contains(x, y, w, h int) bool {
	if x < 0 || y < 0 {
		return false
	}
	lw, lh := r.Dims(w, h)
	return x < lw && y < lh
}

// Apply maps the logical point (x, y) to device coordinates of a w×h panel.
// The caller must have checked Contains.
func (r Rotation) Apply(x, y, w, h int) (nx, ny int) {
	switch r {
	case Rotate90:
		return w - 1 - y, x
	case Rotate180:
		return w - 1 - x, h - 1 - y
	case Rotate270:
		return y, h - 1 - x
	}
	return x, y
}

// Layout is the storage format of a framebuffer.
type Layout uint8

// Supported layouts.
const (
	// Mono1 is 1 bpp, row-major, least significant bit first.
	Mono1 Layout = iota
	// GrayPacked is 2 bpp with four pixels per byte along x.
	GrayPacked
	// GrayPlanar is 2 bpp with eight pixels per byte along y, split over two
	// adjacent bit-plane bytes.
	GrayPlanar
)

func (l Layout) String() string {
	switch l {
	case Mono1:
		return "mono"
	case GrayPacked:
		return "gray-packed"
	case GrayPlanar:
		return "gray-planar"
	}
	return fmt.Sprintf("Layout(%d)", uint8(l))
}

// Depth returns the bits per pixel of l.
func (l Layout) Depth() int {
	if l == Mono1 {
		return 1
	}
	return 2
}

// Len returns the number of bytes a w×h buffer in layout l occupies.
func (l Layout) Len(w, h int) int {
	switch l {
	case GrayPacked:
		return (w*2 + 7) / 8 * h
	case GrayPlanar:
		return w * 2 * ((h + 7) / 8)
	}
	return BufferLen(w, h)
}

// Validate checks that a w×h panel can be stored in layout l.
func (l Layout) Validate(w, h int) error {
	if w <= 0 || h <= 0 {
		return fmt.Errorf("framebuf: invalid size %dx%d", w, h)
	}
	switch l {
	case Mono1:
	case GrayPacked:
		if w%4 != 0 {
			return fmt.Errorf("framebuf: %s width must be a multiple of 4, got %d", l, w)
		}
	case GrayPlanar:
		if h%8 != 0 {
			return fmt.Errorf("framebuf: %s height must be a multiple of 8, got %d", l, h)
		}
	default:
		return fmt.Errorf("framebuf: unknown layout %d", uint8(l))
	}
	return nil
}

// BufferLen is the size of a 1 bpp frame, rounding each row up to whole
// bytes. 2 bpp layouts need twice as much.
func BufferLen(w, h int) int {
	return (w + 7) / 8 * h
}

// Address locates the bits of one pixel.
type Address struct {
	// Index of the (first) byte holding the pixel.
	Index int
	// Mask selects the pixel's bits within the byte.
	Mask byte
	// Shift moves a pattern into Mask's position.
	Shift uint
	// Planar means the same Mask applies to Index and Index+1, one bit plane
	// each.
	Planar bool
}

// Resolve maps the logical point (x, y) of a width×height panel rotated by r
// to its location in layout l. Points outside the visible area return false.
func Resolve(x, y, width, height int, r Rotation, l Layout) (Address, bool) {
	if !r.Contains(x, y, width, height) {
		return Address{}, false
	}
	nx, ny := r.Apply(x, y, width, height)
	switch l {
	case GrayPacked:
		shift := uint(6 - (nx%4)*2)
		return Address{
			Index: nx/4 + (width/4)*ny,
			Mask:  0xC0 >> uint((nx%4)*2),
			Shift: shift,
		}, true
	case GrayPlanar:
		shift := uint(ny % 8)
		return Address{
			Index:  (width*2)*(ny/8) + nx*2,
			Mask:   1 << shift,
			Shift:  shift,
			Planar: true,
		}, true
	}
	shift := uint(nx % 8)
	return Address{
		Index: (width+7)/8*ny + nx/8,
		Mask:  1 << shift,
		Shift: shift,
	}, true
}
