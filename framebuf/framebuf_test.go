package framebuf

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"testing"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		w, h    int
		layout  Layout
		bg      Color
		wantLen int
		wantB0  byte
		wantB1  byte
		wantErr bool
	}{
		{"mono 144x168 off", 144, 168, Mono1, Off, 3024, 0x00, 0x00, false},
		{"mono 122x250 on", 122, 250, Mono1, On, 4000, 0xFF, 0xFF, false},
		{"packed 240x96 white", 240, 96, GrayPacked, White, 5760, 0x00, 0x00, false},
		{"packed 128x96 gray1", 128, 96, GrayPacked, Gray1, 3072, 0x55, 0x55, false},
		{"planar 128x96 gray1", 128, 96, GrayPlanar, Gray1, 3072, 0x00, 0xFF, false},
		{"planar 128x96 gray2", 128, 96, GrayPlanar, Gray2, 3072, 0xFF, 0x00, false},
		{"packed invalid width", 10, 96, GrayPacked, White, 0, 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf, err := New(tt.w, tt.h, tt.layout, tt.bg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			pix := buf.Bytes()
			if len(pix) != tt.wantLen {
				t.Errorf("len(Bytes()) = %d, want %d", len(pix), tt.wantLen)
			}
			if pix[0] != tt.wantB0 || pix[1] != tt.wantB1 {
				t.Errorf("Bytes()[0:2] = %#02x %#02x, want %#02x %#02x", pix[0], pix[1], tt.wantB0, tt.wantB1)
			}
			for x := 0; x < 4; x++ {
				if got := buf.ColorAt(x, 0); got.Bits() != tt.bg.Bits() {
					t.Errorf("ColorAt(%d, 0) = %v, want %v", x, got, tt.bg)
				}
			}
		})
	}
}

func TestBufferLenInvariant(t *testing.T) {
	buf, err := New(240, 96, GrayPacked, White)
	if err != nil {
		t.Fatal(err)
	}
	want := len(buf.Bytes())
	for _, r := range rotations {
		buf.SetRotation(r)
		buf.Fill(Black)
		buf.SetPixel(5, 5, Gray1)
		draw.Draw(buf, buf.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
		if got := len(buf.Bytes()); got != want {
			t.Fatalf("%v: len(Bytes()) = %d, want %d", r, got, want)
		}
	}
}

func TestSetPixelPackedKeepsNeighbours(t *testing.T) {
	buf, err := New(128, 96, GrayPacked, White)
	if err != nil {
		t.Fatal(err)
	}
	before := append([]byte(nil), buf.Bytes()...)

	buf.SetPixel(0, 0, Black)

	pix := buf.Bytes()
	if pix[0] != 0xC0 {
		t.Errorf("Bytes()[0] = %#02x, want 0xc0", pix[0])
	}
	if got := buf.ColorAt(1, 0); got != White {
		t.Errorf("ColorAt(1, 0) = %v, want White", got)
	}
	if !bytes.Equal(pix[1:], before[1:]) {
		t.Error("SetPixel(0, 0) modified bytes other than the first")
	}
}

func TestSetPixelPlanar(t *testing.T) {
	tests := []struct {
		c      Gray
		b0, b1 byte
	}{
		{Black, 0x01, 0x01},
		{White, 0x00, 0x00},
		{Gray1, 0x00, 0x01},
		{Gray2, 0x01, 0x00},
	}
	for _, tt := range tests {
		t.Run(tt.c.String(), func(t *testing.T) {
			buf, err := New(128, 96, GrayPlanar, White)
			if err != nil {
				t.Fatal(err)
			}
			buf.SetPixel(0, 0, tt.c)
			pix := buf.Bytes()
			if pix[0] != tt.b0 || pix[1] != tt.b1 {
				t.Errorf("planes = %#02x %#02x, want %#02x %#02x", pix[0], pix[1], tt.b0, tt.b1)
			}
			if got := buf.ColorAt(0, 0); got != tt.c {
				t.Errorf("ColorAt(0, 0) = %v, want %v", got, tt.c)
			}
			if got := buf.ColorAt(0, 1); got != White {
				t.Errorf("ColorAt(0, 1) = %v, want White", got)
			}
		})
	}
}

func TestSetPixelMono(t *testing.T) {
	buf, err := New(16, 2, Mono1, Off)
	if err != nil {
		t.Fatal(err)
	}
	buf.SetPixel(0, 0, On)
	buf.SetPixel(9, 1, On)
	want := []byte{0x01, 0x00, 0x00, 0x02}
	if !bytes.Equal(buf.Bytes(), want) {
		t.Errorf("Bytes() = %x, want %x", buf.Bytes(), want)
	}
	buf.SetPixel(0, 0, Off)
	if buf.Bytes()[0] != 0x00 {
		t.Errorf("Bytes()[0] = %#02x after Off, want 0", buf.Bytes()[0])
	}
}

func TestSetPixelOutOfBoundsIsNoop(t *testing.T) {
	for _, l := range []Layout{Mono1, GrayPacked, GrayPlanar} {
		for _, r := range rotations {
			buf, err := New(16, 8, l, White)
			if err != nil {
				t.Fatal(err)
			}
			buf.SetRotation(r)
			before := append([]byte(nil), buf.Bytes()...)
			lw, lh := r.Dims(16, 8)
			for _, p := range []image.Point{{-1, 0}, {0, -1}, {lw, 0}, {0, lh}, {-5, -5}, {lw + 3, lh + 3}} {
				buf.SetPixel(p.X, p.Y, Black)
			}
			if !bytes.Equal(buf.Bytes(), before) {
				t.Errorf("%v %v: out-of-bounds SetPixel changed the buffer", l, r)
			}
		}
	}
}

func TestRotationDoesNotRewrite(t *testing.T) {
	buf, err := New(8, 8, Mono1, Off)
	if err != nil {
		t.Fatal(err)
	}
	buf.SetPixel(0, 0, On)
	before := append([]byte(nil), buf.Bytes()...)

	buf.SetRotation(Rotate180)
	if !bytes.Equal(buf.Bytes(), before) {
		t.Error("SetRotation rewrote stored bytes")
	}
	// The pixel written at 0° now shows at the opposite corner.
	if got := buf.ColorAt(7, 7); got != On {
		t.Errorf("ColorAt(7, 7) after 180° = %v, want On", got)
	}
	if buf.Rotation() != Rotate180 {
		t.Errorf("Rotation() = %v, want 180°", buf.Rotation())
	}
}

func TestBoundsFollowRotation(t *testing.T) {
	buf, err := New(240, 96, GrayPacked, White)
	if err != nil {
		t.Fatal(err)
	}
	if got := buf.Bounds(); got != image.Rect(0, 0, 240, 96) {
		t.Errorf("Bounds() = %v", got)
	}
	buf.SetRotation(Rotate90)
	if got := buf.Bounds(); got != image.Rect(0, 0, 96, 240) {
		t.Errorf("Bounds() at 90° = %v", got)
	}
}

func TestGrayRoundTripThroughMask(t *testing.T) {
	for _, l := range []Layout{GrayPacked, GrayPlanar} {
		for _, c := range []Gray{White, Gray1, Gray2, Black} {
			buf, err := New(16, 8, l, White)
			if err != nil {
				t.Fatal(err)
			}
			buf.SetPixel(5, 3, c)
			a, _ := Resolve(5, 3, 16, 8, Rotate0, l)
			var got Gray
			if a.Planar {
				hi := buf.Bytes()[a.Index] & a.Mask >> a.Shift
				lo := buf.Bytes()[a.Index+1] & a.Mask >> a.Shift
				got = Gray(hi<<1 | lo)
			} else {
				got = Gray(buf.Bytes()[a.Index] & a.Mask >> a.Shift)
			}
			if got != c {
				t.Errorf("%v: wrote %v, read back %v", l, c, got)
			}
		}
	}
}

func TestDrawImage(t *testing.T) {
	buf, err := New(8, 4, GrayPacked, White)
	if err != nil {
		t.Fatal(err)
	}
	draw.Draw(buf, image.Rect(0, 0, 4, 4), image.NewUniform(color.Black), image.Point{}, draw.Src)
	for x := 0; x < 8; x++ {
		want := White
		if x < 4 {
			want = Black
		}
		if got := buf.At(x, 2); got != want {
			t.Errorf("At(%d, 2) = %v, want %v", x, got, want)
		}
	}
	if buf.Bytes()[0] != 0xFF || buf.Bytes()[1] != 0x00 {
		t.Errorf("row 0 = %x, want ff00", buf.Bytes()[0:2])
	}
}

func TestSetPixelConvertsDepth(t *testing.T) {
	buf, err := New(8, 1, Mono1, Off)
	if err != nil {
		t.Fatal(err)
	}
	buf.SetPixel(0, 0, Black)
	buf.SetPixel(1, 0, Gray1)
	if got := buf.Bytes()[0]; got != 0x01 {
		t.Errorf("Bytes()[0] = %#02x, want 0x01", got)
	}
}
