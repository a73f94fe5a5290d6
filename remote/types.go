package remote

import (
	"periph.io/x/devices/v3/monopanel/framebuf"
)

// EmptyResponse is the reply of calls that return nothing.
type EmptyResponse struct{}

// FrameRequest carries one raw frame.
type FrameRequest struct {
	Frame []byte
}

// ColorFrameRequest carries the two frames of a three colour panel.
type ColorFrameRequest struct {
	Achromatic []byte
	Chromatic  []byte
}

// ClearRequest clears the panel to Background.
type ClearRequest struct {
	Background Color
}

// Color is a panel colour on the wire.
type Color struct {
	Depth int
	Bits  uint8
}

// InfoResponse describes the remote panel.
type InfoResponse struct {
	Name       string
	Width      int
	Height     int
	FrameLen   int
	State      string
	Background Color
	Chromatic  bool
}

func encodeColor(c framebuf.Color) Color {
	return Color{Depth: c.Depth(), Bits: c.Bits()}
}

func (c Color) decode() framebuf.Color {
	if c.Depth == 1 {
		return framebuf.Mono(c.Bits&1 == 1)
	}
	return framebuf.Gray(c.Bits & 3)
}
