// Package render schedules escape-time evaluation of an image across a
// fixed grid of tiles, one goroutine per tile.
package render

import (
	"fmt"
	"image"
	"runtime/debug"
	"sync"
	"time"

	"github.com/zeromicro/go-zero/core/logx"
	"golang.org/x/sync/errgroup"

	mandel "github.com/marben/mandel_render"
)

// DefaultProgressInterval is how often the progress reporter polls.
const DefaultProgressInterval = 100 * time.Millisecond

// Option configures Render.
type Option func(*options)

type options struct {
	mapper        mandel.Mapper
	progressEvery time.Duration
	onProgress    func(Progress)
}

// WithMapper replaces the pixel mapper derived from the Config.
func WithMapper(m mandel.Mapper) Option {
	return func(o *options) { o.mapper = m }
}

// WithProgress calls fn from a dedicated goroutine every time the number of
// finished tiles changed, checking at most once per interval. On success the
// last call reports every tile done. fn is never called concurrently.
func WithProgress(every time.Duration, fn func(Progress)) Option {
	return func(o *options) {
		if every > 0 {
			o.progressEvery = every
		}
		o.onProgress = fn
	}
}

// WorkerPanicError is returned when a tile worker panicked. The render is
// abandoned; no partial image is returned.
type WorkerPanicError struct {
	Tile  image.Rectangle
	Value any
}

func (e *WorkerPanicError) Error() string {
	return fmt.Sprintf("worker for tile %v panicked: %v", e.Tile, e.Value)
}

// Render computes the image described by cfg. The returned image has
// Stride == cfg.Width and len(Pix) == cfg.Width*cfg.Height.
func Render(cfg Config, opts ...Option) (*image.Gray, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := options{progressEvery: DefaultProgressInterval}
	for _, opt := range opts {
		opt(&o)
	}
	if o.mapper == nil {
		o.mapper = cfg.Mapper()
	}

	bounds := image.Rect(0, 0, cfg.Width, cfg.Height)
	tiles, err := SplitGrid(bounds, cfg.TilesX, cfg.TilesY)
	if err != nil {
		return nil, err
	}

	counter := &tileCounter{total: len(tiles)}
	var reporter *progressReporter
	if o.onProgress != nil {
		reporter = startReporter(counter, o.progressEvery, o.onProgress)
	}

	var img *image.Gray
	switch cfg.Strategy {
	case StrategySequential:
		img, err = renderSequential(bounds, tiles, o.mapper, counter)
	case StrategyLocked:
		img, err = renderLocked(bounds, tiles, o.mapper, counter)
	default:
		img, err = renderTiles(bounds, tiles, o.mapper, counter)
	}

	if reporter != nil {
		reporter.stop(err == nil)
	}
	if err != nil {
		return nil, fmt.Errorf("render %dx%d: %w", cfg.Width, cfg.Height, err)
	}
	return img, nil
}

// renderTiles gives every worker its own tile image and copies the tiles
// into the result once all workers joined. Tiles are disjoint, so no lock
// is taken.
func renderTiles(bounds image.Rectangle, tiles []image.Rectangle, m mandel.Mapper, counter *tileCounter) (*image.Gray, error) {
	tileImgs := make([]*image.Gray, len(tiles))

	var g errgroup.Group
	for i, tile := range tiles {
		g.Go(func() error {
			return runTile(tile, func() {
				tileImg := image.NewGray(tile)
				fillTile(tile, m, func(x, y int, v uint8) {
					tileImg.Pix[tileImg.PixOffset(x, y)] = v
				})
				tileImgs[i] = tileImg
				counter.tileFinished()
			})
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	img := image.NewGray(bounds)
	for _, tileImg := range tileImgs {
		copyTile(img, tileImg)
	}
	return img, nil
}

// lockedGray guards the whole image with one mutex.
type lockedGray struct {
	mu  sync.Mutex
	img *image.Gray
}

func (b *lockedGray) set(x, y int, v uint8) {
	b.mu.Lock()
	b.img.Pix[x+b.img.Rect.Dx()*y] = v
	b.mu.Unlock()
}

// renderLocked writes every pixel straight into the shared image, taking the
// image lock once per pixel.
func renderLocked(bounds image.Rectangle, tiles []image.Rectangle, m mandel.Mapper, counter *tileCounter) (*image.Gray, error) {
	shared := &lockedGray{img: image.NewGray(bounds)}

	var g errgroup.Group
	for _, tile := range tiles {
		g.Go(func() error {
			return runTile(tile, func() {
				fillTile(tile, m, shared.set)
				counter.tileFinished()
			})
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	shared.mu.Lock()
	defer shared.mu.Unlock()
	return shared.img, nil
}

// renderSequential is the single goroutine reference.
func renderSequential(bounds image.Rectangle, tiles []image.Rectangle, m mandel.Mapper, counter *tileCounter) (*image.Gray, error) {
	img := image.NewGray(bounds)
	set := func(x, y int, v uint8) {
		img.Pix[img.PixOffset(x, y)] = v
	}
	for _, tile := range tiles {
		err := runTile(tile, func() {
			fillTile(tile, m, set)
			counter.tileFinished()
		})
		if err != nil {
			return nil, err
		}
	}
	return img, nil
}

func fillTile(tile image.Rectangle, m mandel.Mapper, set func(x, y int, v uint8)) {
	for y := tile.Min.Y; y < tile.Max.Y; y++ {
		for x := tile.Min.X; x < tile.Max.X; x++ {
			set(x, y, m.Intensity(y, x))
		}
	}
}

// runTile turns a panic of work into a *WorkerPanicError.
func runTile(tile image.Rectangle, work func()) (err error) {
	defer func() {
		if v := recover(); v != nil {
			logx.Errorf("tile %v: worker panic: %v\n%s", tile, v, debug.Stack())
			err = &WorkerPanicError{Tile: tile, Value: v}
		}
	}()
	work()
	return nil
}

// copyTile copies src into dst at src's bounds, row by row.
func copyTile(dst, src *image.Gray) {
	r := src.Rect
	for y := r.Min.Y; y < r.Max.Y; y++ {
		d := dst.PixOffset(r.Min.X, y)
		s := src.PixOffset(r.Min.X, y)
		copy(dst.Pix[d:d+r.Dx()], src.Pix[s:s+r.Dx()])
	}
}
