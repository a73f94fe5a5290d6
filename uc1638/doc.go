// Package uc1638 describes panels built on the UltraChip UC1638 LCD
// controller, such as 240×96 four level grayscale modules.
//
// The controller stores four 2-bit pixels per byte along each row, which is
// framebuf.GrayPacked. Frames go to RAM through the column and page address
// registers followed by the write data command.
//
// # Usage
//
//	dev, err := monopanel.NewSPI(ctx, port, uc1638.Profile(), &monopanel.Opts{
//		DC:  gpioreg.ByName("GPIO25"),
//		RST: gpioreg.ByName("GPIO27"),
//	})
//
// The LCD shows RAM content as soon as it is written, so DisplayFrame sends
// nothing.
package uc1638
