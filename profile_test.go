package monopanel

import (
	"bytes"
	"context"
	"testing"
	"time"

	"periph.io/x/conn/v3/gpio"

	"periph.io/x/devices/v3/monopanel/bus"
	"periph.io/x/devices/v3/monopanel/framebuf"
	"periph.io/x/devices/v3/monopanel/paneltest"
)

func TestProfileValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(p *Profile)
		wantErr bool
	}{
		{"valid", func(p *Profile) {}, false},
		{"no name", func(p *Profile) { p.Name = "" }, true},
		{"zero width", func(p *Profile) { p.Width = 0 }, true},
		{"packed width not multiple of 4", func(p *Profile) {
			p.Layout = framebuf.GrayPacked
			p.Background = framebuf.White
			p.Width = 18
		}, true},
		{"planar height not multiple of 8", func(p *Profile) {
			p.Layout = framebuf.GrayPlanar
			p.Background = framebuf.White
			p.Height = 12
		}, true},
		{"background of wrong depth", func(p *Profile) { p.Background = framebuf.Gray1 }, true},
		{"no background", func(p *Profile) { p.Background = nil }, true},
		{"no frame writer", func(p *Profile) { p.Frame = nil }, true},
		{"unknown init opcode", func(p *Profile) { p.Init = append(p.Init, Cmd(0x99)) }, true},
		{"unknown write opcode", func(p *Profile) { p.Frame = &RAMWriter{Write: 0x77} }, true},
		{"no command table", func(p *Profile) {
			p.Commands = nil
			p.Init = Sequence{Cmd(0x99)}
		}, false},
		{"chromatic without frame writer", func(p *Profile) { p.Chromatic = &Chromatic{} }, true},
		{"chromatic", func(p *Profile) { p.Chromatic = &Chromatic{Frame: &RAMWriter{Write: 0x01}} }, false},
		{"busy without poll interval", func(p *Profile) { p.Busy = &BusyPolicy{Active: gpio.High} }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := testProfile()
			tt.modify(p)
			err := p.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSequenceRun(t *testing.T) {
	b := paneltest.New(4096)
	tr := bus.New(b, &bus.Opts{DC: b.DC, Scheduler: b})
	seq := Sequence{
		Cmd(0x81, 40),
		CmdData(0xE1, 0xE2).Then(10 * time.Millisecond),
		Cmd(0xAF).Idle(),
	}
	waits := 0
	err := tr.Exclusive(context.Background(), func(w *bus.Writer) error {
		return seq.Run(w, func(*bus.Writer) error {
			waits++
			return nil
		})
	})
	if err != nil {
		t.Fatal(err)
	}

	want := []paneltest.Transfer{
		{DC: gpio.Low, Data: []byte{0x81, 40}},
		{DC: gpio.Low, Data: []byte{0xE1}},
		{DC: gpio.High, Data: []byte{0xE2}},
		{DC: gpio.Low, Data: []byte{0xAF}},
	}
	if len(b.Transfers) != len(want) {
		t.Fatalf("transfers = %v, want %v", b.Transfers, want)
	}
	for i := range want {
		if b.Transfers[i].DC != want[i].DC || !bytes.Equal(b.Transfers[i].Data, want[i].Data) {
			t.Errorf("transfer %d = %v, want %v", i, b.Transfers[i], want[i])
		}
	}
	if len(b.Delays) != 1 || b.Delays[0] != 10*time.Millisecond {
		t.Errorf("delays = %v, want [10ms]", b.Delays)
	}
	if waits != 1 {
		t.Errorf("idle waits = %d, want 1", waits)
	}
}

func TestRAMWriterEncode(t *testing.T) {
	tests := []struct {
		name    string
		invert  bool
		reverse bool
		in      byte
		want    byte
	}{
		{"plain", false, false, 0x01, 0x01},
		{"invert", true, false, 0x01, 0xFE},
		{"reverse", false, true, 0x01, 0x80},
		{"both", true, true, 0x03, 0x3F},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &RAMWriter{Invert: tt.invert, Reverse: tt.reverse}
			if got := r.encode(tt.in); got != tt.want {
				t.Errorf("encode(%#x) = %#x, want %#x", tt.in, got, tt.want)
			}
		})
	}
}

func TestRAMWriterFillPlanar(t *testing.T) {
	b := paneltest.New(4096)
	tr := bus.New(b, &bus.Opts{DC: b.DC, Scheduler: b})
	p := &Profile{Width: 4, Height: 8, Layout: framebuf.GrayPlanar}
	r := &RAMWriter{Write: 0x01}

	err := tr.Exclusive(context.Background(), func(w *bus.Writer) error {
		return r.FillFrame(w, p, framebuf.Gray2)
	})
	if err != nil {
		t.Fatal(err)
	}
	want := []byte{0xFF, 0x00, 0xFF, 0x00, 0xFF, 0x00, 0xFF, 0x00}
	if got := b.Data(); !bytes.Equal(got, want) {
		t.Errorf("fill = % x, want % x", got, want)
	}
}

func TestRegistry(t *testing.T) {
	a := testProfile()
	b := testProfile()
	b.Name = "another"

	r, err := NewRegistry(a, b)
	if err != nil {
		t.Fatal(err)
	}
	if got := r.Names(); len(got) != 2 || got[0] != "another" || got[1] != "testpanel" {
		t.Errorf("Names() = %v", got)
	}
	if p, err := r.Lookup("testpanel"); err != nil || p != a {
		t.Errorf("Lookup() = %v, %v", p, err)
	}
	if _, err := r.Lookup("missing"); err == nil {
		t.Error("Lookup(missing) should fail")
	}
	if err := r.Register(testProfile()); err == nil {
		t.Error("duplicate Register() should fail")
	}
	bad := testProfile()
	bad.Name = "bad"
	bad.Frame = nil
	if err := r.Register(bad); err == nil {
		t.Error("Register() of an invalid profile should fail")
	}
}
