package remote

import (
	"context"
	"net/rpc"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/samber/lo"

	"periph.io/x/devices/v3/monopanel"
	"periph.io/x/devices/v3/monopanel/framebuf"
)

var _ monopanel.ChromaticController = &Client{}

// sentinels are restored on the client side so errors.Is keeps working
// across the wire.
var sentinels = []error{
	monopanel.ErrNotReady,
	monopanel.ErrFrameSize,
	monopanel.ErrFrameOrder,
	monopanel.ErrNotChromatic,
	monopanel.ErrBusyTimeout,
}

// Client drives a panel served by Proxy.
type Client struct {
	rpc  *rpc.Client
	info InfoResponse

	mu sync.Mutex
	bg framebuf.Color
}

// Dial connects to a panel served at addr.
func Dial(addr string) (*Client, error) {
	c, err := rpc.DialHTTP("tcp", addr)
	if err != nil {
		return nil, errors.Wrap(err, "remote: dial")
	}
	return NewClient(c)
}

// NewClient wraps an established rpc connection and fetches the panel
// geometry.
func NewClient(c *rpc.Client) (*Client, error) {
	cl := &Client{rpc: c}
	if err := cl.call(context.Background(), "Info", EmptyResponse{}, &cl.info); err != nil {
		return nil, err
	}
	cl.bg = cl.info.Background.decode()
	return cl, nil
}

// Info returns the panel description fetched when connecting.
func (c *Client) Info() InfoResponse {
	return c.info
}

// Close closes the underlying connection.
func (c *Client) Close() error {
	return c.rpc.Close()
}

func (c *Client) Init(ctx context.Context) error {
	return c.call(ctx, "Init", EmptyResponse{}, nil)
}

func (c *Client) Wake(ctx context.Context) error {
	return c.call(ctx, "Wake", EmptyResponse{}, nil)
}

func (c *Client) UpdateFrame(ctx context.Context, frame []byte) error {
	return c.call(ctx, "UpdateFrame", &FrameRequest{Frame: frame}, nil)
}

func (c *Client) DisplayFrame(ctx context.Context) error {
	return c.call(ctx, "DisplayFrame", EmptyResponse{}, nil)
}

func (c *Client) UpdateAndDisplayFrame(ctx context.Context, frame []byte) error {
	return c.call(ctx, "UpdateAndDisplayFrame", &FrameRequest{Frame: frame}, nil)
}

// ClearFrame clears the panel to the background colour set on this client.
func (c *Client) ClearFrame(ctx context.Context) error {
	return c.call(ctx, "ClearFrame", &ClearRequest{Background: encodeColor(c.BackgroundColor())}, nil)
}

func (c *Client) Sleep(ctx context.Context) error {
	return c.call(ctx, "Sleep", EmptyResponse{}, nil)
}

func (c *Client) UpdateColorFrame(ctx context.Context, achromatic, chromatic []byte) error {
	return c.call(ctx, "UpdateColorFrame", &ColorFrameRequest{Achromatic: achromatic, Chromatic: chromatic}, nil)
}

func (c *Client) UpdateAchromaticFrame(ctx context.Context, frame []byte) error {
	return c.call(ctx, "UpdateAchromaticFrame", &FrameRequest{Frame: frame}, nil)
}

func (c *Client) UpdateChromaticFrame(ctx context.Context, frame []byte) error {
	return c.call(ctx, "UpdateChromaticFrame", &FrameRequest{Frame: frame}, nil)
}

// SetBackgroundColor is local; the colour travels with the next ClearFrame.
func (c *Client) SetBackgroundColor(bg framebuf.Color) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.bg = bg
}

func (c *Client) BackgroundColor() framebuf.Color {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.bg
}

func (c *Client) Width() int { return c.info.Width }

func (c *Client) Height() int { return c.info.Height }

func (c *Client) call(ctx context.Context, method string, args, reply interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if reply == nil {
		reply = &EmptyResponse{}
	}
	call := c.rpc.Go(ServiceName+"."+method, args, reply, make(chan *rpc.Call, 1))
	select {
	case <-ctx.Done():
		return ctx.Err()
	case res := <-call.Done:
		return restore(res.Error)
	}
}

// restore maps a server error back onto the monopanel sentinel it wraps.
func restore(err error) error {
	se, ok := err.(rpc.ServerError)
	if !ok {
		if err != nil {
			return errors.Wrap(err, "remote")
		}
		return nil
	}
	msg := string(se)
	sentinel, found := lo.Find(sentinels, func(s error) bool {
		return strings.HasSuffix(msg, s.Error())
	})
	if !found {
		return errors.New(msg)
	}
	if prefix := strings.TrimSuffix(strings.TrimSuffix(msg, sentinel.Error()), ": "); prefix != "" {
		return errors.Wrap(sentinel, prefix)
	}
	return sentinel
}
