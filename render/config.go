package render

import (
	"errors"
	"fmt"
	"math"

	"github.com/zeromicro/go-zero/core/conf"

	mandel "github.com/marben/mandel_render"
)

// ErrInvalidConfig is wrapped by every error returned from Config.Validate.
var ErrInvalidConfig = errors.New("invalid render config")

// Strategy names accepted in Config.Strategy.
const (
	StrategyTiles      = "tiles"
	StrategyLocked     = "locked"
	StrategySequential = "sequential"
)

// Config describes a single render.
//
// Width and Height must be positive and divisible by TilesX and TilesY.
// MaxIterations must not be negative; zero renders every pixel as interior.
type Config struct {
	Width         int     `json:",default=4000"`
	Height        int     `json:",default=4000"`
	MaxIterations int     `json:",default=100"`
	TilesX        int     `json:",default=4"`
	TilesY        int     `json:",default=4"`
	Threshold     float64 `json:",default=4.4"`
	Region        string  `json:",default=classic"`
	Strategy      string  `json:",default=tiles"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() Config {
	return Config{
		Width:         4000,
		Height:        4000,
		MaxIterations: 100,
		TilesX:        4,
		TilesY:        4,
		Threshold:     mandel.DefaultEscapeThreshold,
		Region:        "classic",
		Strategy:      StrategyTiles,
	}
}

// LoadConfig reads a yaml, json or toml file. Missing keys take their defaults.
// An empty path returns DefaultConfig.
func LoadConfig(path string) (Config, error) {
	if path == "" {
		return DefaultConfig(), nil
	}
	var c Config
	if err := conf.Load(path, &c); err != nil {
		return Config{}, fmt.Errorf("conf.Load %q: %w", path, err)
	}
	return c, nil
}

// Validate reports the first problem found in c.
func (c Config) Validate() error {
	switch {
	case c.Width <= 0 || c.Height <= 0:
		return fmt.Errorf("%w: image size %dx%d must be positive", ErrInvalidConfig, c.Width, c.Height)
	case c.TilesX <= 0 || c.TilesY <= 0:
		return fmt.Errorf("%w: tile grid %dx%d must be positive", ErrInvalidConfig, c.TilesX, c.TilesY)
	case c.Width%c.TilesX != 0:
		return fmt.Errorf("%w: width %d not divisible by tiles_x %d", ErrInvalidConfig, c.Width, c.TilesX)
	case c.Height%c.TilesY != 0:
		return fmt.Errorf("%w: height %d not divisible by tiles_y %d", ErrInvalidConfig, c.Height, c.TilesY)
	case c.MaxIterations < 0 || uint64(c.MaxIterations) > math.MaxUint32:
		return fmt.Errorf("%w: max_iterations %d out of range", ErrInvalidConfig, c.MaxIterations)
	case !(c.Threshold > 0) || math.IsInf(c.Threshold, 0):
		return fmt.Errorf("%w: escape threshold %v must be a positive finite number", ErrInvalidConfig, c.Threshold)
	}
	if _, err := mandel.RegionByName(c.Region); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	switch c.Strategy {
	case StrategyTiles, StrategyLocked, StrategySequential:
	default:
		return fmt.Errorf("%w: unknown strategy %q", ErrInvalidConfig, c.Strategy)
	}
	return nil
}

// Mapper builds the pixel mapper described by c. c must be valid.
func (c Config) Mapper() mandel.PixelMapper {
	region, _ := mandel.RegionByName(c.Region)
	return mandel.PixelMapper{
		Width:         c.Width,
		Height:        c.Height,
		MaxIterations: uint32(c.MaxIterations),
		Threshold:     c.Threshold,
		Region:        region,
	}
}

// TileCount is the number of workers a render of c starts.
func (c Config) TileCount() int {
	return c.TilesX * c.TilesY
}
