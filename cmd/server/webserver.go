package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	"github.com/coder/websocket"
	"github.com/zeromicro/go-zero/core/logx"

	"github.com/marben/mandel_render/imgout"
	"github.com/marben/mandel_render/render"
)

// progressEvent is the json message pushed to websocket clients
type progressEvent struct {
	TilesDone  int     `json:"tilesDone"`
	TilesTotal int     `json:"tilesTotal"`
	Percent    float64 `json:"percent"`
	Done       bool    `json:"done"`
	Error      string  `json:"error,omitempty"`
}

func newProgressEvent(p render.Progress) progressEvent {
	return progressEvent{
		TilesDone:  p.TilesDone,
		TilesTotal: p.TilesTotal,
		Percent:    p.Percent(),
	}
}

// webServer creates the http server exposing the rendered image and the websocket progress endpoint
func webServer(addr string, rs *renderService) *http.Server {
	srv := &http.Server{
		Addr:              addr,
		Handler:           newMux(rs),
		ReadHeaderTimeout: 5 * time.Second,
	}

	logx.Infof("listening on http://%s", addr)
	return srv
}

func newMux(rs *renderService) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /ws", websocketHandler(rs))
	mux.HandleFunc("GET /image.png", imageHandler(rs))
	return mux
}

// imageHandler waits for the render and streams it in the format given by ?format= (png by default)
func imageHandler(rs *renderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		format := imgout.PNG
		if q := r.URL.Query().Get("format"); q != "" {
			f, err := imgout.ParseFormat(q)
			if err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			format = f
		}

		img, err := rs.GetImage(r.Context())
		if err != nil {
			logx.Errorf("image request: %v", err)
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", format.ContentType())
		if err := imgout.Encode(w, img, format); err != nil {
			logx.Errorf("encode %s: %v", format, err)
		}
	}
}

// websocketHandler pushes progress events until the render is over.
// The final event has Done set.
func websocketHandler(rs *renderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			OriginPatterns: []string{"*"}, // TODO: restrict once the page is served from a fixed origin
		})
		if err != nil {
			logx.Error(err)
			return
		}
		defer c.CloseNow()

		// we never expect messages from the client
		ctx := c.CloseRead(r.Context())

		if err := streamProgress(ctx, c, rs); err != nil {
			logx.Infof("progress stream to %s: %v", r.RemoteAddr, err)
			return
		}
		c.Close(websocket.StatusNormalClosure, "render finished")
	}
}

func streamProgress(ctx context.Context, c *websocket.Conn, rs *renderService) error {
	updates, unsubscribe := rs.subscribe()
	defer unsubscribe()

	latest, _ := rs.status()
	if err := writeEvent(ctx, c, newProgressEvent(latest)); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return context.Cause(ctx)
		case p := <-updates:
			if err := writeEvent(ctx, c, newProgressEvent(p)); err != nil {
				return err
			}
		case <-rs.Done():
			p, renderErr := rs.status()
			ev := newProgressEvent(p)
			ev.Done = true
			if renderErr != nil {
				ev.Error = renderErr.Error()
			}
			return writeEvent(ctx, c, ev)
		}
	}
}

func writeEvent(ctx context.Context, c *websocket.Conn, ev progressEvent) error {
	b, err := sonic.Marshal(ev)
	if err != nil {
		return fmt.Errorf("sonic.Marshal: %w", err)
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return c.Write(ctx, websocket.MessageText, b)
}
