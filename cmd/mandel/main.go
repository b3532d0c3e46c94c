// mandel renders the Mandelbrot set on a grid of tile workers and saves it
// as a grayscale image.

package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/gops/agent"
	"github.com/zeromicro/go-zero/core/logx"

	mandel "github.com/marben/mandel_render"
	"github.com/marben/mandel_render/imgout"
	"github.com/marben/mandel_render/render"
)

func main() {
	setupLogging()
	if err := run(os.Args[1:]); err != nil {
		logx.Errorf("FATAL: %v", err)
		logx.Close()
		os.Exit(1)
	}
	logx.Close()
}

func setupLogging() {
	logx.MustSetup(logx.LogConf{
		ServiceName: "mandel",
		Mode:        "console",
		Encoding:    "plain",
		Level:       "info",
	})
	logx.DisableStat()
}

// cliOptions is everything run needs, after the config file and flags are merged.
type cliOptions struct {
	cfg           render.Config
	output        string
	progressEvery time.Duration
	gops          bool
}

// parseArgs loads the config file named by -f and lays the explicitly set
// flags over it.
func parseArgs(args []string) (cliOptions, error) {
	fs := flag.NewFlagSet("mandel", flag.ContinueOnError)
	var (
		configFile = fs.String("f", "", "config file (yaml, json or toml)")
		output     = fs.String("o", "mandel.png", "output file; the extension selects png, bmp or tiff")
		width      = fs.Int("width", 0, "image width in pixels")
		height     = fs.Int("height", 0, "image height in pixels")
		iter       = fs.Int("iter", 0, "maximum escape-time iterations")
		tilesX     = fs.Int("tiles-x", 0, "tile columns; must divide width")
		tilesY     = fs.Int("tiles-y", 0, "tile rows; must divide height")
		threshold  = fs.Float64("threshold", 0, "squared escape radius")
		region     = fs.String("region", "", "region: "+strings.Join(mandel.RegionNames(), ", "))
		strategy   = fs.String("strategy", "", "merge strategy: tiles, locked or sequential")
		progress   = fs.Duration("progress", render.DefaultProgressInterval, "progress report interval")
		gops       = fs.Bool("gops", false, "start a gops diagnostics agent")
	)
	if err := fs.Parse(args); err != nil {
		return cliOptions{}, err
	}

	cfg, err := render.LoadConfig(*configFile)
	if err != nil {
		return cliOptions{}, err
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "width":
			cfg.Width = *width
		case "height":
			cfg.Height = *height
		case "iter":
			cfg.MaxIterations = *iter
		case "tiles-x":
			cfg.TilesX = *tilesX
		case "tiles-y":
			cfg.TilesY = *tilesY
		case "threshold":
			cfg.Threshold = *threshold
		case "region":
			cfg.Region = *region
		case "strategy":
			cfg.Strategy = *strategy
		}
	})

	return cliOptions{
		cfg:           cfg,
		output:        *output,
		progressEvery: *progress,
		gops:          *gops,
	}, nil
}

// run renders the image and saves it. Nothing is written if the render fails.
func run(args []string) error {
	opts, err := parseArgs(args)
	if err != nil {
		return err
	}
	if err := opts.cfg.Validate(); err != nil {
		return err
	}
	if _, err := imgout.FormatFromPath(opts.output); err != nil {
		return err
	}

	if opts.gops {
		if err := agent.Listen(agent.Options{}); err != nil {
			return fmt.Errorf("gops agent: %w", err)
		}
		defer agent.Close()
	}

	cfg := opts.cfg
	logx.Infof("rendering %dx%d, %d iterations, %dx%d tiles, strategy %s",
		cfg.Width, cfg.Height, cfg.MaxIterations, cfg.TilesX, cfg.TilesY, cfg.Strategy)

	start := time.Now()
	img, err := render.Render(cfg, render.WithProgress(opts.progressEvery, func(p render.Progress) {
		logx.Infof("finished: %.1f%% (%d/%d tiles)", p.Percent(), p.TilesDone, p.TilesTotal)
	}))
	if err != nil {
		return err
	}
	logx.Infow("render done", logx.Field("elapsed", time.Since(start).String()))

	if err := imgout.WriteFile(opts.output, img); err != nil {
		return err
	}

	logx.Infof("fully rendered file saved to %q", opts.output)
	return nil
}
