package monopanel

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"sync"
	"time"

	"github.com/inhies/go-bytesize"
	"github.com/pkg/errors"
	"github.com/rs/xid"
	"go.uber.org/zap"
	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/spi"

	"periph.io/x/devices/v3/monopanel/bus"
	"periph.io/x/devices/v3/monopanel/framebuf"
)

// Opts is the wiring of one panel.
type Opts struct {
	// DC is the data/command select line. Memory LCDs have none.
	DC gpio.PinOut
	// RST is the reset line. nil skips the reset pulse.
	RST gpio.PinOut
	// CS is a manually driven chip select. When set, NewSPI asks the host
	// not to drive its own.
	CS gpio.PinOut
	// Busy is the busy output of e-paper panels.
	Busy gpio.PinIn

	// Rotation applies to buffers returned by NewBuffer and to Draw.
	Rotation framebuf.Rotation
	// Scheduler defaults to bus.Blocking.
	Scheduler bus.Scheduler
	// MaxTxSize overrides the transfer limit of the connection.
	MaxTxSize int
	// Logger defaults to a no-op logger.
	Logger *zap.Logger
}

// Dev is an open panel.
type Dev struct {
	p    *Profile
	t    *bus.Transport
	busy gpio.PinIn
	rot  framebuf.Rotation
	log  *zap.Logger

	mu      sync.Mutex
	state   State
	bg      framebuf.Color
	pending bool // achromatic frame written, chromatic frame due
	next    *framebuf.Buffer
}

// NewSPI connects to port with the bus settings of p and returns an
// initialised panel.
func NewSPI(ctx context.Context, port spi.Port, p *Profile, opts *Opts) (*Dev, error) {
	mode := p.SPIMode
	if opts != nil && opts.CS != nil {
		mode |= spi.NoCS
	}
	c, err := port.Connect(p.maxHz(), mode, 8)
	if err != nil {
		return nil, errors.Wrap(err, "monopanel: connect")
	}
	return New(ctx, c, p, opts)
}

// New returns a panel on c. It resets and initialises the panel before
// returning, so a Dev is always Ready.
//
// opts can be nil for a panel without control lines.
func New(ctx context.Context, c conn.Conn, p *Profile, opts *Opts) (*Dev, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if opts == nil {
		opts = &Opts{}
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	log = log.With(zap.String("session", xid.New().String()), zap.String("panel", p.Name))
	if opts.Busy != nil {
		if err := opts.Busy.In(gpio.PullNoChange, gpio.NoEdge); err != nil {
			return nil, errors.Wrap(err, "monopanel: busy line")
		}
	}
	d := &Dev{
		p: p,
		t: bus.New(c, &bus.Opts{
			DC:        opts.DC,
			RST:       opts.RST,
			CS:        opts.CS,
			Commands:  p.Commands,
			Scheduler: opts.Scheduler,
			MaxTxSize: opts.MaxTxSize,
			Logger:    log,
		}),
		busy: opts.Busy,
		rot:  opts.Rotation,
		log:  log,
		bg:   p.Background,
	}
	if err := d.Init(ctx); err != nil {
		return nil, err
	}
	return d, nil
}

// Init resets the panel and runs its initialisation sequence.
func (d *Dev) Init(ctx context.Context) error {
	return d.init(ctx, "init")
}

// Wake brings the panel out of sleep. It repeats the full reset and
// initialisation.
func (d *Dev) Wake(ctx context.Context) error {
	return d.init(ctx, "wake")
}

func (d *Dev) init(ctx context.Context, op string) error {
	start := time.Now()
	err := d.t.Exclusive(ctx, func(w *bus.Writer) error {
		d.setState(Uninitialized)
		w.SelectChip(!d.p.ChipSelect)
		if err := w.Reset(d.p.ResetLow); err != nil {
			return err
		}
		if err := d.run(w, d.p.Init); err != nil {
			return err
		}
		d.setState(Ready)
		return nil
	})
	if err != nil {
		return errors.Wrap(err, "monopanel: "+op)
	}
	d.log.With(
		zap.String("cost", time.Since(start).String()),
		zap.String("frame", bytesize.New(float64(d.p.FrameLen())).String()),
	).Info(op)
	return nil
}

// UpdateFrame writes frame into panel memory. It waits for the panel to be
// idle first.
func (d *Dev) UpdateFrame(ctx context.Context, frame []byte) error {
	if err := d.checkLen(frame); err != nil {
		return err
	}
	return d.exclusive(ctx, "update", func(w *bus.Writer) error {
		if err := d.waitIdle(w); err != nil {
			return err
		}
		return d.p.Frame.WriteFrame(w, d.p, frame)
	})
}

// DisplayFrame refreshes the panel from its memory and waits until the
// refresh completes.
func (d *Dev) DisplayFrame(ctx context.Context) error {
	return d.exclusive(ctx, "display", func(w *bus.Writer) error {
		if err := d.p.Refresh.Run(w, d.waitIdle); err != nil {
			return err
		}
		return d.waitIdle(w)
	})
}

// UpdateAndDisplayFrame writes frame and refreshes. Unlike UpdateFrame
// followed by DisplayFrame it does not wait for idle before writing.
func (d *Dev) UpdateAndDisplayFrame(ctx context.Context, frame []byte) error {
	if err := d.checkLen(frame); err != nil {
		return err
	}
	return d.exclusive(ctx, "update+display", func(w *bus.Writer) error {
		if err := d.p.Frame.WriteFrame(w, d.p, frame); err != nil {
			return err
		}
		if err := d.p.Refresh.Run(w, d.waitIdle); err != nil {
			return err
		}
		return d.waitIdle(w)
	})
}

// ClearFrame fills panel memory with the background colour. The chromatic
// memory of three colour panels is emptied.
func (d *Dev) ClearFrame(ctx context.Context) error {
	bg := d.BackgroundColor()
	return d.exclusive(ctx, "clear", func(w *bus.Writer) error {
		if err := d.waitIdle(w); err != nil {
			return err
		}
		if err := d.p.Frame.FillFrame(w, d.p, bg); err != nil {
			return err
		}
		if d.p.Chromatic != nil {
			d.setPending(false)
			return d.p.Chromatic.Frame.FillFrame(w, d.p, framebuf.Off)
		}
		return nil
	})
}

// Sleep puts the panel in its low power state. Sleeping again is a no-op.
func (d *Dev) Sleep(ctx context.Context) error {
	err := d.t.Exclusive(ctx, func(w *bus.Writer) error {
		switch s := d.State(); s {
		case Sleeping:
			return nil
		case Uninitialized:
			return errors.Wrapf(ErrNotReady, "sleep while %s", s)
		}
		if err := d.waitIdle(w); err != nil {
			return err
		}
		if err := d.run(w, d.p.Sleep); err != nil {
			return err
		}
		d.setState(Sleeping)
		return nil
	})
	if err != nil {
		return err
	}
	d.log.Info("sleep")
	return nil
}

// UpdateColorFrame writes the achromatic then the chromatic frame.
func (d *Dev) UpdateColorFrame(ctx context.Context, achromatic, chromatic []byte) error {
	if d.p.Chromatic == nil {
		return ErrNotChromatic
	}
	if err := d.checkLen(achromatic); err != nil {
		return err
	}
	if err := d.checkLen(chromatic); err != nil {
		return err
	}
	return d.exclusive(ctx, "update color", func(w *bus.Writer) error {
		if err := d.waitIdle(w); err != nil {
			return err
		}
		if err := d.p.Frame.WriteFrame(w, d.p, achromatic); err != nil {
			return err
		}
		d.setPending(false)
		return d.p.Chromatic.Frame.WriteFrame(w, d.p, chromatic)
	})
}

// UpdateAchromaticFrame writes the black and white frame. It must be followed
// by UpdateChromaticFrame.
func (d *Dev) UpdateAchromaticFrame(ctx context.Context, frame []byte) error {
	if d.p.Chromatic == nil {
		return ErrNotChromatic
	}
	if err := d.checkLen(frame); err != nil {
		return err
	}
	return d.exclusive(ctx, "update achromatic", func(w *bus.Writer) error {
		if err := d.waitIdle(w); err != nil {
			return err
		}
		if err := d.p.Frame.WriteFrame(w, d.p, frame); err != nil {
			return err
		}
		d.setPending(true)
		return nil
	})
}

// UpdateChromaticFrame writes the colour frame. Where it sets a pixel it
// takes precedence over the achromatic frame.
func (d *Dev) UpdateChromaticFrame(ctx context.Context, frame []byte) error {
	if d.p.Chromatic == nil {
		return ErrNotChromatic
	}
	if err := d.checkLen(frame); err != nil {
		return err
	}
	return d.exclusive(ctx, "update chromatic", func(w *bus.Writer) error {
		if !d.isPending() {
			return ErrFrameOrder
		}
		if err := d.p.Chromatic.Frame.WriteFrame(w, d.p, frame); err != nil {
			return err
		}
		d.setPending(false)
		return nil
	})
}

// SetBackgroundColor sets the colour used by ClearFrame. It converts c to the
// panel depth and sends nothing.
func (d *Dev) SetBackgroundColor(c framebuf.Color) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.bg = framebuf.Convert(d.p.Layout, c)
}

// BackgroundColor returns the colour used by ClearFrame.
func (d *Dev) BackgroundColor() framebuf.Color {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.bg
}

// Width returns the native panel width.
func (d *Dev) Width() int { return d.p.Width }

// Height returns the native panel height.
func (d *Dev) Height() int { return d.p.Height }

// Profile returns the profile of the panel.
func (d *Dev) Profile() *Profile { return d.p }

// State returns the lifecycle state.
func (d *Dev) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// NewBuffer returns an empty buffer matching the panel, filled with the
// background colour and using the rotation from Opts.
func (d *Dev) NewBuffer() (*framebuf.Buffer, error) {
	b, err := framebuf.New(d.p.Width, d.p.Height, d.p.Layout, d.BackgroundColor())
	if err != nil {
		return nil, err
	}
	b.SetRotation(d.rot)
	return b, nil
}

// ColorModel implements display.Drawer.
func (d *Dev) ColorModel() color.Model {
	return framebuf.ModelFor(d.p.Layout)
}

// Bounds implements display.Drawer. It is the rotated panel rectangle.
func (d *Dev) Bounds() image.Rectangle {
	w, h := d.rot.Dims(d.p.Width, d.p.Height)
	return image.Rect(0, 0, w, h)
}

// Draw implements display.Drawer. Content accumulates across calls and the
// full frame is written and refreshed each time.
func (d *Dev) Draw(dst image.Rectangle, src image.Image, sp image.Point) error {
	d.mu.Lock()
	if d.next == nil {
		b, err := framebuf.New(d.p.Width, d.p.Height, d.p.Layout, d.bg)
		if err != nil {
			d.mu.Unlock()
			return err
		}
		b.SetRotation(d.rot)
		d.next = b
	}
	draw.Draw(d.next, dst, src, sp, draw.Src)
	frame := append([]byte(nil), d.next.Bytes()...)
	d.mu.Unlock()
	return d.UpdateAndDisplayFrame(context.Background(), frame)
}

// Halt implements conn.Resource. It puts a ready panel to sleep.
func (d *Dev) Halt() error {
	if d.State() != Ready {
		return nil
	}
	return d.Sleep(context.Background())
}

func (d *Dev) String() string {
	return fmt.Sprintf("monopanel.Dev{%s, %dx%d, %s}", d.p.Name, d.p.Width, d.p.Height, d.State())
}

// exclusive runs fn holding the bus, after checking the panel is Ready.
func (d *Dev) exclusive(ctx context.Context, op string, fn func(w *bus.Writer) error) error {
	start := time.Now()
	err := d.t.Exclusive(ctx, func(w *bus.Writer) error {
		if s := d.State(); s != Ready {
			return errors.Wrapf(ErrNotReady, "%s while %s", op, s)
		}
		return d.selected(w, func() error { return fn(w) })
	})
	if err != nil {
		if bus.IsTransportError(err) {
			return errors.Wrap(err, "monopanel: "+op)
		}
		return err
	}
	d.log.With(zap.String("op", op), zap.String("cost", time.Since(start).String())).Debug("done")
	return nil
}

// selected runs fn with the manual chip select held active and releases it
// afterwards.
func (d *Dev) selected(w *bus.Writer, fn func() error) error {
	w.SelectChip(d.p.ChipSelect)
	defer w.SelectChip(!d.p.ChipSelect)
	return fn()
}

// run sends seq inside one chip select frame. An empty sequence leaves the
// line alone.
func (d *Dev) run(w *bus.Writer, seq Sequence) error {
	if len(seq) == 0 {
		return nil
	}
	return d.selected(w, func() error { return seq.Run(w, d.waitIdle) })
}

// waitIdle polls the busy line until it is released or the profile timeout
// is reached. Elapsed time is counted in poll intervals.
func (d *Dev) waitIdle(w *bus.Writer) error {
	if d.busy == nil || d.p.Busy == nil {
		return nil
	}
	pol := d.p.Busy
	for waited := time.Duration(0); d.busy.Read() == pol.Active; waited += pol.Poll {
		if pol.Timeout > 0 && waited >= pol.Timeout {
			return errors.Wrapf(ErrBusyTimeout, "%s busy for %s", d.p.Name, waited)
		}
		if err := w.Delay(pol.Poll); err != nil {
			return err
		}
	}
	return nil
}

func (d *Dev) checkLen(frame []byte) error {
	if want := d.p.FrameLen(); len(frame) != want {
		return errors.Wrapf(ErrFrameSize, "got %d bytes, want %d", len(frame), want)
	}
	return nil
}

func (d *Dev) setState(s State) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.state = s
	if s != Ready {
		d.pending = false
	}
}

func (d *Dev) setPending(v bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.pending = v
}

func (d *Dev) isPending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending
}

var _ display.Drawer = &Dev{}
var _ conn.Resource = &Dev{}
var _ ChromaticController = &Dev{}
