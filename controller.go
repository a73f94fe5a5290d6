package monopanel

import (
	"context"

	"github.com/pkg/errors"

	"periph.io/x/devices/v3/monopanel/framebuf"
)

// State is the lifecycle state of a panel.
type State uint8

// Panel states. A Dev is Ready as soon as it is returned; Sleeping goes back
// to Ready only through Init or Wake.
const (
	Uninitialized State = iota
	Ready
	Sleeping
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Ready:
		return "ready"
	case Sleeping:
		return "sleeping"
	}
	return "unknown"
}

var (
	// ErrNotReady is returned by frame operations outside the Ready state.
	ErrNotReady = errors.New("monopanel: panel is not ready")
	// ErrFrameSize is returned for a frame of the wrong length.
	ErrFrameSize = errors.New("monopanel: frame size mismatch")
	// ErrFrameOrder is returned when a chromatic frame is not preceded by
	// its achromatic frame.
	ErrFrameOrder = errors.New("monopanel: chromatic frame before achromatic frame")
	// ErrNotChromatic is returned by the chromatic operations of a two
	// colour panel.
	ErrNotChromatic = errors.New("monopanel: panel has no chromatic frame")
	// ErrBusyTimeout is returned when the busy line stays active longer than
	// the profile allows.
	ErrBusyTimeout = errors.New("monopanel: timed out waiting for panel")
)

// Controller is the lifecycle of one panel: initialise, write frames, refresh
// and sleep.
type Controller interface {
	// Init resets and initialises the panel.
	Init(ctx context.Context) error
	// Wake brings a sleeping panel back. It repeats the full reset and init.
	Wake(ctx context.Context) error
	// UpdateFrame writes frame into panel memory without refreshing.
	UpdateFrame(ctx context.Context, frame []byte) error
	// DisplayFrame refreshes the glass from panel memory.
	DisplayFrame(ctx context.Context) error
	// UpdateAndDisplayFrame writes and refreshes in one go.
	UpdateAndDisplayFrame(ctx context.Context, frame []byte) error
	// ClearFrame fills panel memory with the background colour.
	ClearFrame(ctx context.Context) error
	// Sleep enters the low power state.
	Sleep(ctx context.Context) error

	SetBackgroundColor(c framebuf.Color)
	BackgroundColor() framebuf.Color
	Width() int
	Height() int
}

// ChromaticController is a Controller for three colour panels. The
// achromatic frame must be written before the chromatic frame.
type ChromaticController interface {
	Controller
	// UpdateColorFrame writes both frames in order.
	UpdateColorFrame(ctx context.Context, achromatic, chromatic []byte) error
	UpdateAchromaticFrame(ctx context.Context, frame []byte) error
	UpdateChromaticFrame(ctx context.Context, frame []byte) error
}
