// Package monopanel drives monochrome and grayscale LCD and e-paper panels
// over SPI.
//
// A panel is described by a Profile: geometry, RAM layout, reset timing and
// the command sequences of its controller. Dev is generic and follows the
// profile through the panel lifecycle:
//
//	New ──reset+init──▶ Ready ──Sleep──▶ Sleeping
//	                      ▲                 │
//	                      └──Init / Wake────┘
//
// New never returns a panel that is not Ready. Frame operations on a sleeping
// panel fail with ErrNotReady.
//
// Profiles for supported controllers live in sub-packages (uc1638, st7571,
// sharp1in26, ssd1680) and can be selected by name through a Registry.
//
// # Hardware Connection
//
//	Panel Pin → System Pin
//	GND       → GND
//	VCC       → 3.3V
//	SCL/CLK   → SPI Clock (SCLK)
//	SDA/MOSI  → SPI Data (MOSI)
//	DC/A0     → GPIO (not on memory LCDs)
//	CS        → SPI Chip Select, or any GPIO passed as Opts.CS
//	RST       → Optional: GPIO for hardware reset
//	BUSY      → GPIO, e-paper only
//
// A GPIO chip select is held at Profile.ChipSelect for the whole of each
// operation and released between operations.
//
// # Basic Usage
//
//	host.Init()
//	port, _ := spireg.Open("")
//	dev, _ := monopanel.NewSPI(ctx, port, uc1638.Profile(), &monopanel.Opts{
//		DC:  gpioreg.ByName("GPIO25"),
//		RST: gpioreg.ByName("GPIO27"),
//	})
//	defer dev.Halt()
//
//	buf, _ := dev.NewBuffer()
//	draw.Draw(buf, buf.Bounds(), image.NewUniform(framebuf.Gray1), image.Point{}, draw.Src)
//	dev.UpdateAndDisplayFrame(ctx, buf.Bytes())
//
// # Frame Size
//
// Frames passed to UpdateFrame must be exactly Profile.FrameLen bytes:
// ceil(width/8)*height for 1 bpp panels, twice that for 2 bpp panels.
//
// # Three Colour Panels
//
// Panels with a chromatic (red or yellow) RAM take two frames. The
// achromatic frame must be written first:
//
//	dev.UpdateAchromaticFrame(ctx, black)
//	dev.UpdateChromaticFrame(ctx, red)
//	dev.DisplayFrame(ctx)
//
// Where both frames set a pixel, the chromatic colour is shown.
//
// # Timing
//
// Reset pulse widths and settle delays come from each profile. They are
// empirical and may need adjusting for a given module.
package monopanel
