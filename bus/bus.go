package bus

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap"
	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
)

// Reset pulse timing. The low phase is device specific and passed to Reset.
const (
	ResetLead   = 10 * time.Millisecond
	ResetSettle = 250 * time.Millisecond
)

// Opts is the configuration of a Transport.
type Opts struct {
	// DC is the data/command select line. nil for controllers without one.
	DC gpio.PinOut
	// RST is the active-low reset line. nil skips hardware resets.
	RST gpio.PinOut
	// CS is a manually driven chip select, for controllers whose select
	// polarity the SPI host cannot produce. nil leaves CS to the SPI host.
	CS gpio.PinOut

	// Commands, when set, restricts SendCommand to the listed opcodes.
	Commands CommandSet
	// Scheduler defaults to Blocking.
	Scheduler Scheduler
	// MaxTxSize overrides the transfer limit reported by the connection.
	MaxTxSize int
	// Logger defaults to a no-op logger.
	Logger *zap.Logger
}

// Transport is exclusive access to a panel controller on a serial bus.
type Transport struct {
	c     conn.Conn
	dc    gpio.PinOut
	rst   gpio.PinOut
	cs    gpio.PinOut
	cmds  CommandSet
	sched Scheduler
	maxTx int
	log   *zap.Logger

	// sem holds one token while an operation is in flight.
	sem chan struct{}
}

// New returns a Transport writing to c.
//
// opts can be nil for a connection without control lines.
func New(c conn.Conn, opts *Opts) *Transport {
	if opts == nil {
		opts = &Opts{}
	}
	t := &Transport{
		c:     c,
		dc:    opts.DC,
		rst:   opts.RST,
		cs:    opts.CS,
		cmds:  opts.Commands,
		sched: opts.Scheduler,
		maxTx: opts.MaxTxSize,
		log:   opts.Logger,
		sem:   make(chan struct{}, 1),
	}
	if t.sched == nil {
		t.sched = Blocking{}
	}
	if t.log == nil {
		t.log = zap.NewNop()
	}
	if t.maxTx <= 0 {
		if l, ok := c.(conn.Limits); ok {
			t.maxTx = l.MaxTxSize()
		}
	}
	return t
}

func (t *Transport) String() string {
	return fmt.Sprintf("bus.Transport{%s, maxTx=%d}", t.c, t.maxTx)
}

// MaxTxSize returns the per-transfer limit in effect, or 0 when data is sent
// one byte at a time.
func (t *Transport) MaxTxSize() int { return t.maxTx }

// Scheduler returns the suspension strategy of t.
func (t *Transport) Scheduler() Scheduler { return t.sched }

// Exclusive runs fn with sole use of the transport. Everything fn sends
// through w is a single uninterrupted sequence on the bus.
func (t *Transport) Exclusive(ctx context.Context, fn func(w *Writer) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	select {
	case t.sem <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}
	defer func() { <-t.sem }()
	return fn(&Writer{t: t, ctx: ctx})
}

// SendCommand sends op in the command phase.
func (t *Transport) SendCommand(ctx context.Context, op Opcode) error {
	return t.Exclusive(ctx, func(w *Writer) error { return w.Command(op) })
}

// SendCommandParams sends op followed by params, all in the command phase.
func (t *Transport) SendCommandParams(ctx context.Context, op Opcode, params ...byte) error {
	return t.Exclusive(ctx, func(w *Writer) error { return w.CommandParams(op, params...) })
}

// SendData sends data in the data phase, split to honour the transfer limit.
func (t *Transport) SendData(ctx context.Context, data []byte) error {
	return t.Exclusive(ctx, func(w *Writer) error { return w.Data(data) })
}

// SendDataVerbatim sends data in the data phase as one transfer. The caller
// guarantees it fits the bus limit.
func (t *Transport) SendDataVerbatim(ctx context.Context, data []byte) error {
	return t.Exclusive(ctx, func(w *Writer) error { return w.DataVerbatim(data) })
}

// SendCommandWithData sends op, then data.
func (t *Transport) SendCommandWithData(ctx context.Context, op Opcode, data []byte) error {
	return t.Exclusive(ctx, func(w *Writer) error { return w.CommandWithData(op, data) })
}

// RepeatByte sends v n times in the data phase.
func (t *Transport) RepeatByte(ctx context.Context, v byte, n int) error {
	return t.Exclusive(ctx, func(w *Writer) error { return w.RepeatByte(v, n) })
}

// Reset pulses the reset line. See Writer.Reset.
func (t *Transport) Reset(ctx context.Context, low time.Duration) error {
	return t.Exclusive(ctx, func(w *Writer) error { return w.Reset(low) })
}

// Writer sends on behalf of a caller holding Transport.Exclusive. It must not
// be retained after fn returns.
type Writer struct {
	t   *Transport
	ctx context.Context
}

// Context returns the context of the exclusive section.
func (w *Writer) Context() context.Context { return w.ctx }

// Command sends op in the command phase.
func (w *Writer) Command(op Opcode) error {
	return w.CommandParams(op)
}

// CommandParams sends op and params as one command-phase transfer.
func (w *Writer) CommandParams(op Opcode, params ...byte) error {
	if w.t.cmds != nil {
		if err := w.t.cmds.Validate(op); err != nil {
			return err
		}
	}
	if err := w.phase(gpio.Low); err != nil {
		return err
	}
	return w.tx(append([]byte{byte(op)}, params...))
}

// Data sends data in the data phase, split into chunks of at most the
// transfer limit.
func (w *Writer) Data(data []byte) error {
	if err := w.phase(gpio.High); err != nil {
		return err
	}
	return w.write(data)
}

// DataVerbatim sends data in the data phase as a single transfer.
func (w *Writer) DataVerbatim(data []byte) error {
	if err := w.phase(gpio.High); err != nil {
		return err
	}
	return w.tx(data)
}

// CommandWithData sends op, then data.
func (w *Writer) CommandWithData(op Opcode, data []byte) error {
	if err := w.Command(op); err != nil {
		return err
	}
	return w.Data(data)
}

// RepeatByte sends v n times in the data phase without allocating n bytes.
// It sends nothing when n is not positive.
func (w *Writer) RepeatByte(v byte, n int) error {
	if n <= 0 {
		return nil
	}
	if err := w.phase(gpio.High); err != nil {
		return err
	}
	size := min(w.chunkSize(), n)
	chunk := bytes.Repeat([]byte{v}, size)
	for sent := 0; sent < n; sent += size {
		if sent > 0 {
			if err := w.t.sched.Yield(w.ctx); err != nil {
				return err
			}
		}
		if err := w.tx(chunk[:min(size, n-sent)]); err != nil {
			return err
		}
	}
	return nil
}

// Reset drives the reset line high for ResetLead, low for low, then high
// again and waits ResetSettle. Panels are sensitive to both the low width and
// the settle time. Without a reset line it does nothing.
func (w *Writer) Reset(low time.Duration) error {
	if w.t.rst == nil {
		return nil
	}
	w.line(w.t.rst, gpio.High, "rst")
	if err := w.Delay(ResetLead); err != nil {
		return err
	}
	w.line(w.t.rst, gpio.Low, "rst")
	if err := w.Delay(low); err != nil {
		return err
	}
	w.line(w.t.rst, gpio.High, "rst")
	return w.Delay(ResetSettle)
}

// SelectChip drives the manual chip select line. Without one it does
// nothing.
func (w *Writer) SelectChip(l gpio.Level) {
	if w.t.cs != nil {
		w.line(w.t.cs, l, "cs")
	}
}

// Delay waits d using the transport's scheduler.
func (w *Writer) Delay(d time.Duration) error {
	return w.t.sched.Delay(w.ctx, d)
}

// phase sets the select line. A failure here would send bytes in the wrong
// phase, so it aborts the operation.
func (w *Writer) phase(l gpio.Level) error {
	if w.t.dc == nil {
		return nil
	}
	if err := w.t.dc.Out(l); err != nil {
		return &Error{Op: "dc", Err: err}
	}
	return nil
}

// line sets a control line whose failure must not block initialisation.
func (w *Writer) line(p gpio.PinOut, l gpio.Level, name string) {
	if err := p.Out(l); err != nil {
		w.t.log.Warn("control line", zap.String("line", name), zap.Stringer("level", l), zap.Error(err))
	}
}

func (w *Writer) chunkSize() int {
	if w.t.maxTx <= 0 {
		return 1
	}
	return w.t.maxTx
}

func (w *Writer) write(data []byte) error {
	for i, chunk := range lo.Chunk(data, w.chunkSize()) {
		if i > 0 {
			if err := w.t.sched.Yield(w.ctx); err != nil {
				return err
			}
		}
		if err := w.tx(chunk); err != nil {
			return err
		}
	}
	return nil
}

func (w *Writer) tx(b []byte) error {
	start := time.Now()
	if err := w.t.c.Tx(b, nil); err != nil {
		return &Error{Op: "tx", Err: err}
	}
	if ce := w.t.log.Check(zap.DebugLevel, "transfer"); ce != nil {
		ext := ""
		if len(b) <= 16 {
			ext = fmt.Sprintf("%x", b)
		}
		ce.Write(
			zap.Int("sent", len(b)),
			zap.String("cost", time.Since(start).String()),
			zap.String("data", ext),
		)
	}
	return nil
}
