package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"

	"github.com/zeromicro/go-zero/core/logx"

	"github.com/marben/mandel_render/render"
)

// main is the entry point for the Mandelbrot progress server.
// It renders one image from its config and serves it along with live progress.
func main() {
	logx.MustSetup(logx.LogConf{ServiceName: "mandel-server", Mode: "console", Encoding: "plain", Level: "info"})
	logx.DisableStat()

	if err := run(); err != nil {
		logx.Errorf("run: %+v", err)
		logx.Close()
		os.Exit(1)
	}
}

func run() error {
	configFile := flag.String("f", "etc/mandel.yaml", "config file (yaml, json or toml); empty for defaults")
	addr := flag.String("addr", ":8080", "http listen address")
	flag.Parse()

	cfg, err := render.LoadConfig(*configFile)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	rs := newRenderService(cfg)
	go func() {
		rs.run()
		if _, err := rs.GetImage(context.Background()); err != nil {
			logx.Errorf("render failed: %v", err)
			return
		}
		logx.Infof("render finished, image available at /image.png")
	}()

	l, err := net.Listen("tcp", *addr)
	if err != nil {
		return fmt.Errorf("net.Listen: %w", err)
	}

	srv := webServer(l.Addr().String(), rs)
	if err := srv.Serve(l); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("httpServer: %w", err)
	}
	return nil
}
