package monopanel

import (
	"math/bits"
	"time"

	"github.com/pkg/errors"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"

	"periph.io/x/devices/v3/monopanel/bus"
	"periph.io/x/devices/v3/monopanel/framebuf"
)

// Profile is everything model specific about a panel: geometry, timing and
// the command tables. A Dev is generic and only follows its Profile.
type Profile struct {
	// Name identifies the model in a Registry.
	Name string

	// Width and Height are the native, unrotated panel size in pixels.
	Width  int
	Height int
	// Layout is the RAM format of one frame.
	Layout framebuf.Layout
	// Background is the colour used by ClearFrame until changed.
	Background framebuf.Color

	// ResetLow is the width of the low reset pulse. These values are
	// empirical defaults; recalibrate them for new hardware.
	ResetLow time.Duration
	// MaxHz defaults to 10MHz.
	MaxHz physic.Frequency
	// SPIMode defaults to spi.Mode0.
	SPIMode spi.Mode
	// ChipSelect is the active level of a manually driven chip select.
	ChipSelect gpio.Level

	// Commands lists every opcode the controller accepts. nil disables
	// opcode validation.
	Commands bus.CommandSet

	// Init runs after the reset pulse. Refresh latches RAM onto the glass.
	// Sleep enters the low power state.
	Init    Sequence
	Refresh Sequence
	Sleep   Sequence

	// Frame writes a frame into panel RAM.
	Frame FrameWriter
	// Busy is set for panels with a busy output.
	Busy *BusyPolicy
	// Chromatic is set for three colour panels.
	Chromatic *Chromatic
}

// Step is one command of a sequence.
type Step struct {
	Op bus.Opcode
	// Params are sent with Op in the command phase.
	Params []byte
	// Data is sent after Op in the data phase.
	Data []byte
	// Delay is waited after the step.
	Delay time.Duration
	// WaitIdle waits for the busy line after the step.
	WaitIdle bool
}

// Sequence is an ordered list of steps.
type Sequence []Step

// Cmd returns a step sending op with command-phase params.
func Cmd(op bus.Opcode, params ...byte) Step {
	return Step{Op: op, Params: params}
}

// CmdData returns a step sending op followed by data.
func CmdData(op bus.Opcode, data ...byte) Step {
	return Step{Op: op, Data: data}
}

// Then returns s with a delay after it.
func (s Step) Then(d time.Duration) Step {
	s.Delay = d
	return s
}

// Idle returns s waiting for the busy line after it.
func (s Step) Idle() Step {
	s.WaitIdle = true
	return s
}

// Run sends every step through w. wait is called for steps with WaitIdle; it
// can be nil.
func (s Sequence) Run(w *bus.Writer, wait func(w *bus.Writer) error) error {
	for _, st := range s {
		if err := w.CommandParams(st.Op, st.Params...); err != nil {
			return err
		}
		if st.Data != nil {
			if err := w.Data(st.Data); err != nil {
				return err
			}
		}
		if st.Delay > 0 {
			if err := w.Delay(st.Delay); err != nil {
				return err
			}
		}
		if st.WaitIdle && wait != nil {
			if err := wait(w); err != nil {
				return err
			}
		}
	}
	return nil
}

// Opcodes returns the opcodes used by s, in order.
func (s Sequence) Opcodes() []bus.Opcode {
	ops := make([]bus.Opcode, 0, len(s))
	for _, st := range s {
		ops = append(ops, st.Op)
	}
	return ops
}

// FrameWriter moves frames into panel RAM.
type FrameWriter interface {
	// WriteFrame sends frame, which is exactly one frame in p.Layout.
	WriteFrame(w *bus.Writer, p *Profile, frame []byte) error
	// FillFrame sets the whole RAM to c.
	FillFrame(w *bus.Writer, p *Profile, c framebuf.Color) error
}

// RAMWriter is the common FrameWriter: run Setup, send the Write command,
// then the frame in the data phase.
type RAMWriter struct {
	Setup Sequence
	Write bus.Opcode
	// Invert flips every bit, for panels where a set bit is white.
	Invert bool
	// Reverse mirrors the bits of every byte, for panels where the most
	// significant bit is the leftmost pixel.
	Reverse bool
}

// WriteFrame implements FrameWriter.
func (r *RAMWriter) WriteFrame(w *bus.Writer, p *Profile, frame []byte) error {
	if err := r.Setup.Run(w, nil); err != nil {
		return err
	}
	if r.Invert || r.Reverse {
		out := make([]byte, len(frame))
		for i, b := range frame {
			out[i] = r.encode(b)
		}
		frame = out
	}
	return w.CommandWithData(r.Write, frame)
}

// FillFrame implements FrameWriter.
func (r *RAMWriter) FillFrame(w *bus.Writer, p *Profile, c framebuf.Color) error {
	if err := r.Setup.Run(w, nil); err != nil {
		return err
	}
	if err := w.Command(r.Write); err != nil {
		return err
	}
	even, odd := framebuf.FillBytes(p.Layout, c)
	even, odd = r.encode(even), r.encode(odd)
	n := p.Layout.Len(p.Width, p.Height)
	if even == odd {
		return w.RepeatByte(even, n)
	}
	return w.Data(alternate(even, odd, n))
}

// Opcodes returns the opcodes r sends.
func (r *RAMWriter) Opcodes() []bus.Opcode {
	return append(r.Setup.Opcodes(), r.Write)
}

func (r *RAMWriter) encode(b byte) byte {
	if r.Reverse {
		b = bits.Reverse8(b)
	}
	if r.Invert {
		b = ^b
	}
	return b
}

func alternate(even, odd byte, n int) []byte {
	out := make([]byte, n)
	for i := range out {
		if i%2 == 0 {
			out[i] = even
		} else {
			out[i] = odd
		}
	}
	return out
}

// BusyPolicy describes a busy output and bounds how long to wait on it.
type BusyPolicy struct {
	// Active is the level the line holds while the panel is busy.
	Active gpio.Level
	// Poll is the interval between two reads of the line.
	Poll time.Duration
	// Timeout bounds a single wait. Zero waits forever.
	Timeout time.Duration
}

// Chromatic describes the second RAM of a three colour panel. Where both
// frames set a pixel, the chromatic frame wins.
type Chromatic struct {
	Frame FrameWriter
}

// Validate returns an error when p is not usable.
func (p *Profile) Validate() error {
	if p.Name == "" {
		return errors.New("monopanel: profile has no name")
	}
	if p.Width <= 0 || p.Height <= 0 {
		return errors.Errorf("monopanel: %s: invalid size %dx%d", p.Name, p.Width, p.Height)
	}
	if err := p.Layout.Validate(p.Width, p.Height); err != nil {
		return errors.Wrap(err, "monopanel: "+p.Name)
	}
	if p.Background == nil || p.Background.Depth() != p.Layout.Depth() {
		return errors.Errorf("monopanel: %s: background must be a %d bpp colour", p.Name, p.Layout.Depth())
	}
	if p.Frame == nil {
		return errors.Errorf("monopanel: %s: no frame writer", p.Name)
	}
	if p.Chromatic != nil && p.Chromatic.Frame == nil {
		return errors.Errorf("monopanel: %s: no chromatic frame writer", p.Name)
	}
	if p.Busy != nil && p.Busy.Poll <= 0 {
		return errors.Errorf("monopanel: %s: busy poll interval must be positive", p.Name)
	}
	if p.Commands == nil {
		return nil
	}
	for _, ops := range p.opcodes() {
		for _, op := range ops {
			if err := p.Commands.Validate(op); err != nil {
				return errors.Wrap(err, "monopanel: "+p.Name)
			}
		}
	}
	return nil
}

// FrameLen returns the size in bytes of one frame.
func (p *Profile) FrameLen() int {
	return p.Layout.Len(p.Width, p.Height)
}

type opcodeLister interface {
	Opcodes() []bus.Opcode
}

func (p *Profile) opcodes() [][]bus.Opcode {
	all := [][]bus.Opcode{p.Init.Opcodes(), p.Refresh.Opcodes(), p.Sleep.Opcodes()}
	if l, ok := p.Frame.(opcodeLister); ok {
		all = append(all, l.Opcodes())
	}
	if p.Chromatic != nil {
		if l, ok := p.Chromatic.Frame.(opcodeLister); ok {
			all = append(all, l.Opcodes())
		}
	}
	return all
}

func (p *Profile) maxHz() physic.Frequency {
	if p.MaxHz == 0 {
		return 10 * physic.MegaHertz
	}
	return p.MaxHz
}
