// Package ssd1680 describes three colour e-paper panels on the Solomon
// SSD1680 controller, as used by the Waveshare 2.13" (B) V4 module.
//
// The panel has a black and white RAM and a red RAM. Both take frames in
// framebuf.Mono1 layout; the most significant bit is sent first and the
// black/white RAM treats a set bit as white, so the writer mirrors and
// inverts bytes on the way out. The busy line is high during reset and
// refresh.
package ssd1680

import (
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"

	"periph.io/x/devices/v3/monopanel"
	"periph.io/x/devices/v3/monopanel/bus"
	"periph.io/x/devices/v3/monopanel/framebuf"
)

// Panel geometry. RAM rows are 16 bytes wide.
const (
	Width  = 122
	Height = 250
)

const (
	driverOutputControl   bus.Opcode = 0x01
	deepSleepMode         bus.Opcode = 0x10
	dataEntryModeSetting  bus.Opcode = 0x11
	swReset               bus.Opcode = 0x12
	tempSensorControl     bus.Opcode = 0x18
	masterActivation      bus.Opcode = 0x20
	displayUpdateControl1 bus.Opcode = 0x21
	displayUpdateControl2 bus.Opcode = 0x22
	writeRAMBW            bus.Opcode = 0x24
	writeRAMRed           bus.Opcode = 0x26
	borderWaveformControl bus.Opcode = 0x3C
	setRAMXStartEnd       bus.Opcode = 0x44
	setRAMYStartEnd       bus.Opcode = 0x45
	setRAMXCounter        bus.Opcode = 0x4E
	setRAMYCounter        bus.Opcode = 0x4F
)

// Profile returns the SSD1680 122×250 three colour profile. The busy line
// must be wired as Opts.Busy.
func Profile() *monopanel.Profile {
	last := Height - 1
	return &monopanel.Profile{
		Name:       "ssd1680",
		Width:      Width,
		Height:     Height,
		Layout:     framebuf.Mono1,
		Background: framebuf.Off,
		ResetLow:   2 * time.Millisecond,
		MaxHz:      4 * physic.MegaHertz,
		Commands:   commands(),
		Init: monopanel.Sequence{
			monopanel.Cmd(swReset).Idle(),
			monopanel.CmdData(driverOutputControl, byte(last&0xFF), byte(last>>8), 0x00),
			// x increments, then y.
			monopanel.CmdData(dataEntryModeSetting, 0x03),
			monopanel.CmdData(setRAMXStartEnd, 0x00, byte((Width+7)/8-1)),
			monopanel.CmdData(setRAMYStartEnd, 0x00, 0x00, byte(last&0xFF), byte(last>>8)),
			monopanel.CmdData(borderWaveformControl, 0x05),
			monopanel.CmdData(displayUpdateControl1, 0x00, 0x80),
			monopanel.CmdData(tempSensorControl, 0x80).Idle(),
		},
		Refresh: monopanel.Sequence{
			monopanel.CmdData(displayUpdateControl2, 0xF7),
			monopanel.Cmd(masterActivation),
		},
		Sleep: monopanel.Sequence{
			monopanel.CmdData(deepSleepMode, 0x01).Then(100 * time.Millisecond),
		},
		Frame: &monopanel.RAMWriter{
			Setup:   home(),
			Write:   writeRAMBW,
			Invert:  true,
			Reverse: true,
		},
		Busy: &monopanel.BusyPolicy{
			Active:  gpio.High,
			Poll:    10 * time.Millisecond,
			Timeout: 30 * time.Second,
		},
		Chromatic: &monopanel.Chromatic{
			Frame: &monopanel.RAMWriter{
				Setup:   home(),
				Write:   writeRAMRed,
				Reverse: true,
			},
		},
	}
}

// home resets the RAM address counters to the first byte.
func home() monopanel.Sequence {
	return monopanel.Sequence{
		monopanel.CmdData(setRAMXCounter, 0x00),
		monopanel.CmdData(setRAMYCounter, 0x00, 0x00),
	}
}

func commands() bus.CommandSet {
	return bus.CommandSet{
		driverOutputControl:   "driver output control",
		deepSleepMode:         "deep sleep mode",
		dataEntryModeSetting:  "data entry mode setting",
		swReset:               "SW reset",
		tempSensorControl:     "temperature sensor control",
		masterActivation:      "master activation",
		displayUpdateControl1: "display update control 1",
		displayUpdateControl2: "display update control 2",
		writeRAMBW:            "write RAM (black/white)",
		writeRAMRed:           "write RAM (red)",
		borderWaveformControl: "border waveform control",
		setRAMXStartEnd:       "set RAM X start/end",
		setRAMYStartEnd:       "set RAM Y start/end",
		setRAMXCounter:        "set RAM X counter",
		setRAMYCounter:        "set RAM Y counter",
	}
}
