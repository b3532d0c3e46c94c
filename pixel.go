package mandel

import "math"

// PixelMapper turns pixel coordinates into intensities.
type PixelMapper struct {
	Width, Height int
	MaxIterations uint32
	Threshold     float64
	Region        Region
}

var _ Mapper = PixelMapper{}

// NewPixelMapper returns a mapper over the classic view with the default
// escape threshold.
func NewPixelMapper(width, height int, maxIter uint32) PixelMapper {
	return PixelMapper{
		Width:         width,
		Height:        height,
		MaxIterations: maxIter,
		Threshold:     DefaultEscapeThreshold,
		Region:        Classic,
	}
}

// Intensity implements Mapper.
func (m PixelMapper) Intensity(row, col int) uint8 {
	c := m.Region.PointAt(row, col, m.Height, m.Width)
	return FractionToIntensity(Evaluate(c, m.MaxIterations, m.Threshold))
}

// PixelToIntensity evaluates a single pixel of the classic view.
func PixelToIntensity(row, col, height, width int, maxIter uint32) uint8 {
	return NewPixelMapper(width, height, maxIter).Intensity(row, col)
}

// FractionToIntensity scales f in [0, 1] to [0, 255]. Interior points
// (f == 1) map to 255.
func FractionToIntensity(f float64) uint8 {
	v := f * 256
	switch {
	case v >= 255:
		return 255
	case v <= 0 || math.IsNaN(v):
		return 0
	}
	return uint8(v)
}
