package framebuf

import (
	"image/color"
	"testing"
)

func TestGrayInvert(t *testing.T) {
	tests := []struct {
		c    Gray
		want Gray
	}{
		{White, Black},
		{Black, White},
		{Gray1, Gray2},
		{Gray2, Gray1},
	}
	for _, tt := range tests {
		if got := tt.c.Invert(); got != tt.want {
			t.Errorf("%v.Invert() = %v, want %v", tt.c, got, tt.want)
		}
		if got := tt.c.Invert().Invert(); got != tt.c {
			t.Errorf("%v.Invert().Invert() = %v", tt.c, got)
		}
	}
}

func TestMonoInvert(t *testing.T) {
	if On.Invert() != Off || Off.Invert() != On {
		t.Error("On and Off should be mutual inverses")
	}
}

func TestGrayRGBA(t *testing.T) {
	tests := []struct {
		c    Gray
		want uint32
	}{
		{White, 0xFFFF},
		{Gray1, 0xAAAA},
		{Gray2, 0x5555},
		{Black, 0x0000},
	}
	for _, tt := range tests {
		r, g, b, a := tt.c.RGBA()
		if r != tt.want || g != tt.want || b != tt.want || a != 0xFFFF {
			t.Errorf("%v.RGBA() = (%x, %x, %x, %x), want %x", tt.c, r, g, b, a, tt.want)
		}
	}
}

func TestGrayModelConvert(t *testing.T) {
	tests := []struct {
		name  string
		input color.Color
		want  Gray
	}{
		{"passthrough", Gray1, Gray1},
		{"black", color.Black, Black},
		{"white", color.White, White},
		{"light gray", color.Gray{Y: 0xB0}, Gray1},
		{"dark gray", color.Gray{Y: 0x50}, Gray2},
		{"mono on", On, Black},
		{"mono off", Off, White},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GrayModel.Convert(tt.input).(Gray); got != tt.want {
				t.Errorf("GrayModel.Convert(%v) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestGrayModelIdempotent(t *testing.T) {
	for _, c := range []Gray{White, Gray1, Gray2, Black} {
		// Going through RGBA must land on the same level.
		rgba := color.RGBA64Model.Convert(c)
		if got := GrayModel.Convert(rgba).(Gray); got != c {
			t.Errorf("GrayModel.Convert(RGBA(%v)) = %v", c, got)
		}
	}
}

func TestMonoModelConvert(t *testing.T) {
	tests := []struct {
		input color.Color
		want  Mono
	}{
		{color.Black, On},
		{color.White, Off},
		{Black, On},
		{Gray2, On},
		{Gray1, Off},
		{color.Gray{Y: 0x70}, On},
	}
	for _, tt := range tests {
		if got := MonoModel.Convert(tt.input).(Mono); got != tt.want {
			t.Errorf("MonoModel.Convert(%v) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestFillBytes(t *testing.T) {
	tests := []struct {
		layout    Layout
		c         Color
		even, odd byte
	}{
		{Mono1, On, 0xFF, 0xFF},
		{Mono1, Off, 0x00, 0x00},
		{GrayPacked, Black, 0xFF, 0xFF},
		{GrayPacked, Gray1, 0x55, 0x55},
		{GrayPacked, Gray2, 0xAA, 0xAA},
		{GrayPlanar, Black, 0xFF, 0xFF},
		{GrayPlanar, Gray1, 0x00, 0xFF},
		{GrayPlanar, Gray2, 0xFF, 0x00},
	}
	for _, tt := range tests {
		even, odd := FillBytes(tt.layout, tt.c)
		if even != tt.even || odd != tt.odd {
			t.Errorf("FillBytes(%v, %v) = %#02x %#02x, want %#02x %#02x", tt.layout, tt.c, even, odd, tt.even, tt.odd)
		}
	}
}
