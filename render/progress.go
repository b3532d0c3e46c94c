package render

import (
	"sync"
	"sync/atomic"
	"time"
)

// Progress is a snapshot of how many tiles of a render are done.
type Progress struct {
	TilesDone  int
	TilesTotal int
}

// Percent returns the completed share in [0, 100].
func (p Progress) Percent() float64 {
	if p.TilesTotal == 0 {
		return 100
	}
	return float64(p.TilesDone) / float64(p.TilesTotal) * 100
}

// Finished reports whether every tile is done.
func (p Progress) Finished() bool {
	return p.TilesDone >= p.TilesTotal
}

// tileCounter counts finished tiles. Workers only touch the atomic.
type tileCounter struct {
	done  atomic.Int64
	total int
}

func (c *tileCounter) tileFinished() {
	c.done.Add(1)
}

func (c *tileCounter) snapshot() Progress {
	return Progress{TilesDone: int(c.done.Load()), TilesTotal: c.total}
}

// progressReporter polls a tileCounter on its own goroutine and calls fn
// whenever the count changed since the previous tick.
type progressReporter struct {
	counter *tileCounter
	fn      func(Progress)

	last int
	quit chan struct{}
	wg   sync.WaitGroup
}

func startReporter(counter *tileCounter, every time.Duration, fn func(Progress)) *progressReporter {
	r := &progressReporter{
		counter: counter,
		fn:      fn,
		last:    -1,
		quit:    make(chan struct{}),
	}
	r.wg.Add(1)
	go r.loop(every)
	return r
}

func (r *progressReporter) loop(every time.Duration) {
	defer r.wg.Done()

	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-r.quit:
			return
		case <-ticker.C:
			r.report()
		}
	}
}

func (r *progressReporter) report() {
	p := r.counter.snapshot()
	if p.TilesDone == r.last {
		return
	}
	r.last = p.TilesDone
	r.fn(p)
}

// stop halts the reporter. With flush set a final changed snapshot is
// delivered after the loop exits, so a completed render always ends on 100%.
func (r *progressReporter) stop(flush bool) {
	close(r.quit)
	r.wg.Wait()
	if flush {
		r.report()
	}
}
