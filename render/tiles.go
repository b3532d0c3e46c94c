package render

import (
	"fmt"
	"image"
)

// SplitGrid splits r into a tilesX × tilesY grid of equal tiles, returned in
// row-major order. r must be evenly divisible by the grid.
func SplitGrid(r image.Rectangle, tilesX, tilesY int) ([]image.Rectangle, error) {
	if tilesX <= 0 || tilesY <= 0 {
		return nil, fmt.Errorf("%w: tile grid %dx%d must be positive", ErrInvalidConfig, tilesX, tilesY)
	}

	w := r.Dx()
	h := r.Dy()
	if w%tilesX != 0 || h%tilesY != 0 {
		return nil, fmt.Errorf("%w: %dx%d image does not split into %dx%d tiles", ErrInvalidConfig, w, h, tilesX, tilesY)
	}

	tileW := w / tilesX
	tileH := h / tilesY

	tiles := make([]image.Rectangle, 0, tilesX*tilesY)
	for ty := range tilesY {
		for tx := range tilesX {
			tile := image.Rect(
				r.Min.X+tx*tileW,
				r.Min.Y+ty*tileH,
				r.Min.X+(tx+1)*tileW,
				r.Min.Y+(ty+1)*tileH,
			)
			tiles = append(tiles, tile)
		}
	}

	return tiles, nil
}
