// Package paneltest records the traffic of a panel for tests.
//
// Bus is a conn.Conn and a bus.Scheduler at once: it captures every transfer
// together with the control line levels at that moment, and records delays
// without sleeping.
package paneltest

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"time"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"
)

// Transfer is one bus transfer.
type Transfer struct {
	// DC and CS are the line levels when the transfer started.
	DC   gpio.Level
	CS   gpio.Level
	Data []byte
}

func (t Transfer) String() string {
	phase := "data"
	if t.DC == gpio.Low {
		phase = "cmd"
	}
	return fmt.Sprintf("%s[% x]", phase, t.Data)
}

// Pin is an output line that remembers every level driven on it.
type Pin struct {
	gpiotest.Pin
	Levels []gpio.Level
	// Err is returned by Out when set.
	Err error
}

// Out implements gpio.PinOut.
func (p *Pin) Out(l gpio.Level) error {
	p.Levels = append(p.Levels, l)
	if p.Err != nil {
		return p.Err
	}
	return p.Pin.Out(l)
}

// BusyPin is an input line returning scripted levels, then Idle.
type BusyPin struct {
	gpiotest.Pin
	Script []gpio.Level
	Idle   gpio.Level
	Reads  int
}

// Read implements gpio.PinIn.
func (p *BusyPin) Read() gpio.Level {
	p.Reads++
	if len(p.Script) == 0 {
		return p.Idle
	}
	l := p.Script[0]
	p.Script = p.Script[1:]
	return l
}

// Bus records transfers and delays.
type Bus struct {
	DC   *Pin
	RST  *Pin
	CS   *Pin
	Busy *BusyPin

	// Limit is reported through MaxTxSize.
	Limit int
	// FailAt makes the n-th transfer (1-based) fail.
	FailAt int

	mu        sync.Mutex
	count     int
	Transfers []Transfer
	Delays    []time.Duration
}

// New returns a Bus with DC, RST, CS and busy lines.
func New(limit int) *Bus {
	return &Bus{
		DC:    &Pin{Pin: gpiotest.Pin{N: "DC"}},
		RST:   &Pin{Pin: gpiotest.Pin{N: "RST"}},
		CS:    &Pin{Pin: gpiotest.Pin{N: "CS"}},
		Busy:  &BusyPin{Pin: gpiotest.Pin{N: "BUSY"}},
		Limit: limit,
	}
}

func (b *Bus) String() string { return "paneltest" }

// Duplex implements conn.Conn.
func (b *Bus) Duplex() conn.Duplex { return conn.Half }

// MaxTxSize implements conn.Limits.
func (b *Bus) MaxTxSize() int { return b.Limit }

// Tx implements conn.Conn.
func (b *Bus) Tx(w, r []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.count++
	if b.FailAt != 0 && b.count == b.FailAt {
		return fmt.Errorf("paneltest: transfer %d failed", b.count)
	}
	b.Transfers = append(b.Transfers, Transfer{
		DC:   b.DC.Read(),
		CS:   b.CS.Read(),
		Data: append([]byte(nil), w...),
	})
	return nil
}

// Delay implements bus.Scheduler.
func (b *Bus) Delay(ctx context.Context, d time.Duration) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Delays = append(b.Delays, d)
	return nil
}

// Yield implements bus.Scheduler.
func (b *Bus) Yield(ctx context.Context) error {
	return ctx.Err()
}

// Commands returns the command-phase transfers.
func (b *Bus) Commands() [][]byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out [][]byte
	for _, t := range b.Transfers {
		if t.DC == gpio.Low {
			out = append(out, t.Data)
		}
	}
	return out
}

// Data returns the data-phase bytes, concatenated.
func (b *Bus) Data() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []byte
	for _, t := range b.Transfers {
		if t.DC == gpio.High {
			out = append(out, t.Data...)
		}
	}
	return out
}

// Wire returns every transferred byte in order.
func (b *Bus) Wire() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	var buf bytes.Buffer
	for _, t := range b.Transfers {
		buf.Write(t.Data)
	}
	return buf.Bytes()
}

// Clear forgets the recorded transfers and delays.
func (b *Bus) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Transfers = nil
	b.Delays = nil
}
