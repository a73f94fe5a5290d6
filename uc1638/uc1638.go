package uc1638

import (
	"time"

	"periph.io/x/conn/v3/physic"

	"periph.io/x/devices/v3/monopanel"
	"periph.io/x/devices/v3/monopanel/bus"
	"periph.io/x/devices/v3/monopanel/framebuf"
)

// Panel geometry.
const (
	Width  = 240
	Height = 96
)

// Controller commands.
const (
	writeData        bus.Opcode = 0x01
	setColumnAddress bus.Opcode = 0x04
	pageAddressLow   bus.Opcode = 0x60 // PA[3:0]
	pageAddressHigh  bus.Opcode = 0x70 // PA[5:4]
	setVbias         bus.Opcode = 0x81
	setLineRate      bus.Opcode = 0xA3
	setAllPixelOff   bus.Opcode = 0x94
	setMTPControl    bus.Opcode = 0xB8
	setLCDMapping    bus.Opcode = 0xC4
	setDisplayEnable bus.Opcode = 0xC9
	setColorPattern  bus.Opcode = 0xD2
	setColorMode     bus.Opcode = 0xD5
	systemReset      bus.Opcode = 0xE1
	setBiasRatio     bus.Opcode = 0xEB
	setCOMEnd        bus.Opcode = 0xF1
)

// Profile returns the UC1638 240×96 profile.
func Profile() *monopanel.Profile {
	return &monopanel.Profile{
		Name:       "uc1638",
		Width:      Width,
		Height:     Height,
		Layout:     framebuf.GrayPacked,
		Background: framebuf.White,
		ResetLow:   10 * time.Millisecond,
		MaxHz:      8 * physic.MegaHertz,
		Commands:   commands(),
		Init: monopanel.Sequence{
			monopanel.CmdData(systemReset, 0xE2).Then(10 * time.Millisecond),
			monopanel.CmdData(setColumnAddress, 0x00),
			monopanel.Cmd(setBiasRatio),
			monopanel.CmdData(setVbias, 80),
			monopanel.CmdData(setMTPControl, 0x00),
			monopanel.Cmd(setLineRate),
			monopanel.Cmd(setAllPixelOff),
			monopanel.Cmd(setLCDMapping),
			monopanel.Cmd(pageAddressLow),
			monopanel.Cmd(pageAddressHigh),
			monopanel.CmdData(setCOMEnd, Height-1),
			monopanel.Cmd(setColorPattern),
			monopanel.Cmd(setColorMode),
			monopanel.CmdData(setDisplayEnable, 0xAF).Then(100 * time.Millisecond),
		},
		Sleep: monopanel.Sequence{
			monopanel.CmdData(setDisplayEnable, 0xAE),
		},
		Frame: &monopanel.RAMWriter{
			Setup: home(),
			Write: writeData,
		},
	}
}

// home points the RAM write address at column 0, page 0.
func home() monopanel.Sequence {
	return monopanel.Sequence{
		monopanel.CmdData(setColumnAddress, 0x00),
		monopanel.Cmd(pageAddressLow),
		monopanel.Cmd(pageAddressHigh),
	}
}

func commands() bus.CommandSet {
	return bus.CommandSet{
		writeData:        "write data",
		setColumnAddress: "set column address",
		pageAddressLow:   "set page address LSB",
		pageAddressHigh:  "set page address MSB",
		setVbias:         "set Vbias potentiometer",
		setLineRate:      "set line rate",
		setAllPixelOff:   "set all pixel off",
		setMTPControl:    "set MTP operation control",
		setLCDMapping:    "set LCD mapping control",
		setDisplayEnable: "set display enable",
		setColorPattern:  "set color pattern",
		setColorMode:     "set color mode",
		systemReset:      "system reset",
		setBiasRatio:     "set LCD bias ratio",
		setCOMEnd:        "set COM end",
	}
}
