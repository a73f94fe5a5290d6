package remote

import (
	"context"
	"net/http"
	"testing"

	"go.uber.org/fx/fxtest"

	"periph.io/x/devices/v3/monopanel"
	"periph.io/x/devices/v3/monopanel/paneltest"
	"periph.io/x/devices/v3/monopanel/uc1638"
)

func TestProxyLifecycle(t *testing.T) {
	b := paneltest.New(4096)
	dev, err := monopanel.New(context.Background(), b, uc1638.Profile(), &monopanel.Opts{
		DC:        b.DC,
		RST:       b.RST,
		Scheduler: b,
	})
	if err != nil {
		t.Fatalf("monopanel.New() error = %v", err)
	}

	lc := fxtest.NewLifecycle(t)
	srv := &http.Server{Addr: "127.0.0.1:0"}
	if err := Proxy(dev, srv, lc, nil); err != nil {
		t.Fatalf("Proxy() error = %v", err)
	}
	lc.RequireStart()

	c, err := Dial(srv.Addr)
	if err != nil {
		lc.RequireStop()
		t.Fatalf("Dial(%s) error = %v", srv.Addr, err)
	}
	if c.Info().Name != "uc1638" {
		t.Errorf("Info().Name = %q, want uc1638", c.Info().Name)
	}
	if err := c.Sleep(context.Background()); err != nil {
		t.Errorf("Sleep() error = %v", err)
	}
	if dev.State() != monopanel.Sleeping {
		t.Errorf("State() = %s, want sleeping", dev.State())
	}
	c.Close()

	lc.RequireStop()
	if _, err := Dial(srv.Addr); err == nil {
		t.Error("Dial() after stop should fail")
	}
}

func TestProxyListenFailure(t *testing.T) {
	b := paneltest.New(4096)
	dev, err := monopanel.New(context.Background(), b, uc1638.Profile(), &monopanel.Opts{DC: b.DC, Scheduler: b})
	if err != nil {
		t.Fatal(err)
	}

	lc := fxtest.NewLifecycle(t)
	srv := &http.Server{Addr: "127.0.0.1:-1"}
	if err := Proxy(dev, srv, lc, nil); err != nil {
		t.Fatalf("Proxy() error = %v", err)
	}
	if err := lc.Start(context.Background()); err == nil {
		lc.RequireStop()
		t.Fatal("Start() should fail on a bad listen address")
	}
}
