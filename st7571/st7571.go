// Package st7571 describes panels built on the Sitronix ST7571 LCD
// controller, such as 128×96 four level grayscale modules.
//
// RAM is organised in pages of eight rows. Each column of a page takes two
// bytes, one per bit plane, which is framebuf.GrayPlanar. Parameters of the
// controller commands are sent in the command phase.
package st7571

import (
	"time"

	"github.com/samber/lo"

	"periph.io/x/devices/v3/monopanel"
	"periph.io/x/devices/v3/monopanel/bus"
	"periph.io/x/devices/v3/monopanel/framebuf"
)

// Panel geometry.
const (
	Width  = 128
	Height = 96
)

const (
	columnLow       bus.Opcode = 0x00 // column address bits 3:0
	columnHigh      bus.Opcode = 0x10 // column address bits 6:4
	regulatorRatio  bus.Opcode = 0x27
	powerBooster    bus.Opcode = 0x2C
	powerRegulator  bus.Opcode = 0x2E
	powerFollower   bus.Opcode = 0x2F
	modeSet         bus.Opcode = 0x38
	startLine       bus.Opcode = 0x40
	initialCOM0     bus.Opcode = 0x44
	displayDuty     bus.Opcode = 0x48
	lcdBias         bus.Opcode = 0x57
	extensionSet3   bus.Opcode = 0x7B
	electronicVol   bus.Opcode = 0x81
	adcNormal       bus.Opcode = 0xA0
	allPointsOff    bus.Opcode = 0xA4
	allPointsOn     bus.Opcode = 0xA5
	displayNormal   bus.Opcode = 0xA6
	oscillatorOn    bus.Opcode = 0xAB
	displayOff      bus.Opcode = 0xAE
	displayOn       bus.Opcode = 0xAF
	pageAddress     bus.Opcode = 0xB0 // page in bits 3:0
	shlReverse      bus.Opcode = 0xC8
	softwareReset   bus.Opcode = 0xE2
	grayModeFourLvl byte       = 0x10
)

// Profile returns the ST7571 128×96 profile.
func Profile() *monopanel.Profile {
	return &monopanel.Profile{
		Name:       "st7571",
		Width:      Width,
		Height:     Height,
		Layout:     framebuf.GrayPlanar,
		Background: framebuf.White,
		ResetLow:   10 * time.Millisecond,
		Commands:   commands(),
		Init: monopanel.Sequence{
			monopanel.Cmd(softwareReset).Then(100 * time.Millisecond),
			monopanel.Cmd(displayOff),
			monopanel.Cmd(modeSet, 0xF4),
			monopanel.Cmd(adcNormal),
			monopanel.Cmd(shlReverse),
			monopanel.Cmd(initialCOM0, 0x00),
			monopanel.Cmd(startLine, 0x00),
			monopanel.Cmd(oscillatorOn),
			monopanel.Cmd(regulatorRatio),
			monopanel.Cmd(electronicVol, 40),
			monopanel.Cmd(lcdBias),
			monopanel.Cmd(displayDuty, Height+1),
			monopanel.Cmd(powerBooster).Then(100 * time.Millisecond),
			monopanel.Cmd(powerRegulator).Then(100 * time.Millisecond),
			monopanel.Cmd(powerFollower).Then(10 * time.Millisecond),
			// Enter extension set 3, select four level gray, leave.
			monopanel.Cmd(extensionSet3, grayModeFourLvl, 0x00),
			monopanel.Cmd(displayNormal),
			monopanel.Cmd(allPointsOff),
			monopanel.Cmd(displayOn).Then(10 * time.Millisecond),
		},
		// Display off with all points on is the controller's sleep mode.
		Sleep: monopanel.Sequence{
			monopanel.Cmd(displayOff),
			monopanel.Cmd(allPointsOn),
		},
		Frame: pageWriter{},
	}
}

// pageWriter writes RAM one page at a time, addressing each page before its
// data.
type pageWriter struct{}

func (pageWriter) WriteFrame(w *bus.Writer, p *monopanel.Profile, frame []byte) error {
	for page, data := range lo.Chunk(frame, p.Width*2) {
		if err := setPage(w, page); err != nil {
			return err
		}
		if err := w.Data(data); err != nil {
			return err
		}
	}
	return nil
}

func (pageWriter) FillFrame(w *bus.Writer, p *monopanel.Profile, c framebuf.Color) error {
	even, odd := framebuf.FillBytes(p.Layout, c)
	row := make([]byte, p.Width*2)
	for i := range row {
		row[i] = lo.Ternary(i%2 == 0, even, odd)
	}
	for page := 0; page < p.Height/8; page++ {
		if err := setPage(w, page); err != nil {
			return err
		}
		if err := w.Data(row); err != nil {
			return err
		}
	}
	return nil
}

func (pageWriter) Opcodes() []bus.Opcode {
	return []bus.Opcode{pageAddress, columnHigh, columnLow}
}

func setPage(w *bus.Writer, page int) error {
	if err := w.Command(pageAddress | bus.Opcode(page&0x0F)); err != nil {
		return err
	}
	if err := w.Command(columnHigh); err != nil {
		return err
	}
	return w.Command(columnLow)
}

func commands() bus.CommandSet {
	set := bus.CommandSet{
		columnLow:      "set column address LSB",
		columnHigh:     "set column address MSB",
		regulatorRatio: "select regulator resistor",
		powerBooster:   "power control: booster",
		powerRegulator: "power control: regulator",
		powerFollower:  "power control: follower",
		modeSet:        "mode set",
		startLine:      "set display start line",
		initialCOM0:    "set initial COM0",
		displayDuty:    "set display duty",
		lcdBias:        "select LCD bias",
		extensionSet3:  "extension command set 3",
		electronicVol:  "set electronic volume",
		adcNormal:      "ADC select normal",
		allPointsOff:   "display all points normal",
		allPointsOn:    "display all points on",
		displayNormal:  "normal display",
		oscillatorOn:   "start internal oscillator",
		displayOff:     "display off",
		displayOn:      "display on",
		shlReverse:     "SHL select reverse",
		softwareReset:  "software reset",
	}
	for page := 0; page < Height/8; page++ {
		set[pageAddress|bus.Opcode(page)] = "set page address"
	}
	return set
}
