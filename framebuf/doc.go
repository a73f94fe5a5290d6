// Package framebuf provides bit-packed framebuffers for 1-bit and 2-bit panels.
//
// Three storage layouts are supported:
//
// Mono1 stores one bit per pixel in rows of ceil(width/8) bytes. The least
// significant bit of each byte is the leftmost pixel:
//
//	Pixels: 0 1 2 3 4 5 6 7
//	Bits:   0 1 2 3 4 5 6 7   (bit 0 = 0x01)
//
// GrayPacked stores four 2-bit pixels per byte along x. The most significant
// field is the leftmost pixel:
//
//	Pixels: 0  1  2  3
//	Values: 3  0  1  2
//	Byte:   0b11_00_01_10 = 0xC6
//
// GrayPlanar stores a column of eight pixels in two adjacent bytes, one per
// bit plane. Bit n of both bytes belongs to row (page*8 + n).
//
// Rotation is never stored in the bytes. It is applied each time a pixel is
// addressed, so changing the rotation of a buffer that already holds content
// makes that content render transformed.
//
// Buffer implements draw.Image, which is all a generic shape or text renderer
// needs:
//
//	buf, _ := framebuf.New(240, 96, framebuf.GrayPacked, framebuf.White)
//	buf.SetRotation(framebuf.Rotate90)
//	draw.Draw(buf, buf.Bounds(), image.NewUniform(framebuf.Gray2), image.Point{}, draw.Src)
//	frame := buf.Bytes()
package framebuf
