// Package remote exposes a panel over net/rpc, so a program without direct
// access to the SPI bus can drive it.
package remote

import (
	"context"
	"net"
	"net/http"
	"net/rpc"

	"github.com/pkg/errors"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"periph.io/x/devices/v3/monopanel"
)

// ServiceName is the name the panel service is registered under.
const ServiceName = "Panel"

// Proxy serves ctrl on srv for the lifetime of the fx application. Once
// started, srv.Addr holds the bound address.
func Proxy(ctrl monopanel.Controller, srv *http.Server, lifecycle fx.Lifecycle, log *zap.Logger) error {
	if log == nil {
		log = zap.NewNop()
	}
	rs, err := NewServer(ctrl, log)
	if err != nil {
		return err
	}
	srv.Handler = rs

	lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", srv.Addr)
			if err != nil {
				return errors.Wrap(err, "remote: listen")
			}
			srv.Addr = ln.Addr().String()
			log.With(zap.String("addr", ln.Addr().String())).Info("serving panel")
			go func() {
				if err := srv.Serve(ln); err != http.ErrServerClosed {
					log.With(zap.Error(err)).Error("serve failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})

	return nil
}

// NewServer returns an rpc server with the panel service registered. It
// implements http.Handler for rpc.DialHTTP clients.
func NewServer(ctrl monopanel.Controller, log *zap.Logger) (*rpc.Server, error) {
	if log == nil {
		log = zap.NewNop()
	}
	s := rpc.NewServer()
	if err := s.RegisterName(ServiceName, &Service{ctrl: ctrl, log: log}); err != nil {
		return nil, errors.Wrap(err, "remote: register")
	}
	return s, nil
}

// Service is the rpc receiver wrapping a Controller.
type Service struct {
	ctrl monopanel.Controller
	log  *zap.Logger
}

// describer is implemented by monopanel.Dev.
type describer interface {
	Profile() *monopanel.Profile
	State() monopanel.State
}

func (s *Service) Info(_ EmptyResponse, resp *InfoResponse) error {
	*resp = InfoResponse{
		Width:      s.ctrl.Width(),
		Height:     s.ctrl.Height(),
		Background: encodeColor(s.ctrl.BackgroundColor()),
	}
	if d, ok := s.ctrl.(describer); ok {
		resp.Name = d.Profile().Name
		resp.FrameLen = d.Profile().FrameLen()
		resp.State = d.State().String()
		resp.Chromatic = d.Profile().Chromatic != nil
		return nil
	}
	_, resp.Chromatic = s.ctrl.(monopanel.ChromaticController)
	return nil
}

func (s *Service) Init(_ EmptyResponse, _ *EmptyResponse) error {
	return s.done("init", s.ctrl.Init(context.Background()))
}

func (s *Service) Wake(_ EmptyResponse, _ *EmptyResponse) error {
	return s.done("wake", s.ctrl.Wake(context.Background()))
}

func (s *Service) UpdateFrame(req *FrameRequest, _ *EmptyResponse) error {
	return s.done("update", s.ctrl.UpdateFrame(context.Background(), req.Frame))
}

func (s *Service) DisplayFrame(_ EmptyResponse, _ *EmptyResponse) error {
	return s.done("display", s.ctrl.DisplayFrame(context.Background()))
}

func (s *Service) UpdateAndDisplayFrame(req *FrameRequest, _ *EmptyResponse) error {
	return s.done("update+display", s.ctrl.UpdateAndDisplayFrame(context.Background(), req.Frame))
}

func (s *Service) ClearFrame(req *ClearRequest, _ *EmptyResponse) error {
	s.ctrl.SetBackgroundColor(req.Background.decode())
	return s.done("clear", s.ctrl.ClearFrame(context.Background()))
}

func (s *Service) Sleep(_ EmptyResponse, _ *EmptyResponse) error {
	return s.done("sleep", s.ctrl.Sleep(context.Background()))
}

func (s *Service) UpdateColorFrame(req *ColorFrameRequest, _ *EmptyResponse) error {
	c, ok := s.ctrl.(monopanel.ChromaticController)
	if !ok {
		return monopanel.ErrNotChromatic
	}
	return s.done("update color", c.UpdateColorFrame(context.Background(), req.Achromatic, req.Chromatic))
}

func (s *Service) UpdateAchromaticFrame(req *FrameRequest, _ *EmptyResponse) error {
	c, ok := s.ctrl.(monopanel.ChromaticController)
	if !ok {
		return monopanel.ErrNotChromatic
	}
	return s.done("update achromatic", c.UpdateAchromaticFrame(context.Background(), req.Frame))
}

func (s *Service) UpdateChromaticFrame(req *FrameRequest, _ *EmptyResponse) error {
	c, ok := s.ctrl.(monopanel.ChromaticController)
	if !ok {
		return monopanel.ErrNotChromatic
	}
	return s.done("update chromatic", c.UpdateChromaticFrame(context.Background(), req.Frame))
}

func (s *Service) done(method string, err error) error {
	log := s.log.With(zap.String("method", method))
	if err != nil {
		log.With(zap.Error(err)).Info("call failed")
		return err
	}
	log.Debug("call")
	return nil
}
