// Package sharp1in26 describes the Sharp 1.26" 144×168 memory LCD.
//
// Memory LCDs have no data/command line and no reset line. Chip select is
// active high and monopanel.Dev holds it for each operation, which frames one
// transfer: a mode byte, then per line a 1-based line address, the line data
// and a dummy byte, then two trailing dummy bytes. A set bit shows white on
// the glass, the opposite of framebuf.On.
package sharp1in26

import (
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"

	"periph.io/x/devices/v3/monopanel"
	"periph.io/x/devices/v3/monopanel/bus"
	"periph.io/x/devices/v3/monopanel/framebuf"
)

// Panel geometry.
const (
	Width  = 144
	Height = 168
)

// Mode bytes. VCOM is carried in bit 1.
const (
	displayMode bus.Opcode = 0x02
	writeLines  bus.Opcode = 0x03
	allClear    bus.Opcode = 0x06
)

// Profile returns the Sharp 1.26" profile. Wire the chip select as Opts.CS.
func Profile() *monopanel.Profile {
	return &monopanel.Profile{
		Name:       "sharp1in26",
		Width:      Width,
		Height:     Height,
		Layout:     framebuf.Mono1,
		Background: framebuf.Off,
		MaxHz:      1 * physic.MegaHertz,
		ChipSelect: gpio.High,
		Commands: bus.CommandSet{
			displayMode: "display mode",
			writeLines:  "write lines",
			allClear:    "all clear",
		},
		Frame: lineWriter{},
	}
}

// lineWriter sends frames as addressed lines.
type lineWriter struct{}

func (lineWriter) WriteFrame(w *bus.Writer, p *monopanel.Profile, frame []byte) error {
	if err := w.Command(writeLines); err != nil {
		return err
	}
	return w.Data(lines(p, frame))
}

// FillFrame uses the all clear command for white and writes every line
// otherwise.
func (l lineWriter) FillFrame(w *bus.Writer, p *monopanel.Profile, c framebuf.Color) error {
	if c.Bits() != 0 {
		even, _ := framebuf.FillBytes(p.Layout, c)
		frame := make([]byte, p.FrameLen())
		for i := range frame {
			frame[i] = even
		}
		return l.WriteFrame(w, p, frame)
	}
	if err := w.Command(allClear); err != nil {
		return err
	}
	return w.Data([]byte{0x00})
}

func (lineWriter) Opcodes() []bus.Opcode {
	return []bus.Opcode{writeLines, allClear}
}

// lines encodes frame as the line-addressed payload following the mode byte.
func lines(p *monopanel.Profile, frame []byte) []byte {
	stride := (p.Width + 7) / 8
	out := make([]byte, 0, p.Height*(stride+2)+2)
	for y := 0; y < p.Height; y++ {
		out = append(out, byte(y+1))
		for _, b := range frame[y*stride : (y+1)*stride] {
			out = append(out, ^b)
		}
		out = append(out, 0x00)
	}
	return append(out, 0x00, 0x00)
}
