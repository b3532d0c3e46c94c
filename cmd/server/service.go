package main

import (
	"context"
	"image"
	"sync"

	mandel "github.com/marben/mandel_render"
	"github.com/marben/mandel_render/render"
)

// renderService runs one render and shares its progress and result with
// any number of web clients.
type renderService struct {
	cfg render.Config

	done chan struct{} // closed when the render finished or failed
	img  *image.Gray
	err  error

	m      sync.Mutex
	latest render.Progress
	subs   map[chan render.Progress]struct{}
}

var _ mandel.ImgProvider = (*renderService)(nil)

func newRenderService(cfg render.Config) *renderService {
	return &renderService{
		cfg:    cfg,
		done:   make(chan struct{}),
		latest: render.Progress{TilesTotal: cfg.TileCount()},
		subs:   make(map[chan render.Progress]struct{}),
	}
}

// run renders the configured image. It must be called exactly once.
func (rs *renderService) run() {
	img, err := render.Render(rs.cfg, render.WithProgress(render.DefaultProgressInterval, rs.publish))

	rs.m.Lock()
	rs.img, rs.err = img, err
	rs.m.Unlock()
	close(rs.done)
}

// GetImage implements mandel.ImgProvider.
func (rs *renderService) GetImage(ctx context.Context) (*image.Gray, error) {
	select {
	case <-rs.done:
	case <-ctx.Done():
		return nil, context.Cause(ctx)
	}
	rs.m.Lock()
	defer rs.m.Unlock()
	return rs.img, rs.err
}

// Done is closed once the render is over.
func (rs *renderService) Done() <-chan struct{} {
	return rs.done
}

// status returns the latest progress and, once finished, the render error.
func (rs *renderService) status() (render.Progress, error) {
	rs.m.Lock()
	defer rs.m.Unlock()
	return rs.latest, rs.err
}

func (rs *renderService) publish(p render.Progress) {
	rs.m.Lock()
	defer rs.m.Unlock()

	rs.latest = p
	for ch := range rs.subs {
		select {
		case ch <- p:
		default:
			// slow subscriber; it still gets the final status on Done
		}
	}
}

// subscribe registers for progress updates. The returned func unsubscribes.
func (rs *renderService) subscribe() (<-chan render.Progress, func()) {
	ch := make(chan render.Progress, 16)

	rs.m.Lock()
	rs.subs[ch] = struct{}{}
	rs.m.Unlock()

	return ch, func() {
		rs.m.Lock()
		delete(rs.subs, ch)
		rs.m.Unlock()
	}
}
