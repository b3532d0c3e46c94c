package mandel

import (
	"context"
	"image"
)

// Mapper computes the intensity of one pixel. Implementations must be safe
// for concurrent use.
type Mapper interface {
	Intensity(row, col int) uint8
}

// ImgProvider hands out a fully rendered image, blocking until it is ready.
type ImgProvider interface {
	GetImage(ctx context.Context) (*image.Gray, error)
}
