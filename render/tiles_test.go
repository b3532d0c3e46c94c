package render

import (
	"errors"
	"image"
	"testing"
)

func TestSplitGrid_CoversEveryPixelOnce(t *testing.T) {
	tests := []struct {
		name           string
		w, h           int
		tilesX, tilesY int
	}{
		{"single tile", 4, 4, 1, 1},
		{"2x2", 4, 4, 2, 2},
		{"one tile per pixel", 4, 4, 4, 4},
		{"wide", 120, 30, 6, 3},
		{"rows only", 64, 48, 1, 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bounds := image.Rect(0, 0, tt.w, tt.h)
			tiles, err := SplitGrid(bounds, tt.tilesX, tt.tilesY)
			if err != nil {
				t.Fatalf("SplitGrid: %v", err)
			}
			if len(tiles) != tt.tilesX*tt.tilesY {
				t.Fatalf("got %d tiles, want %d", len(tiles), tt.tilesX*tt.tilesY)
			}

			hits := make([]int, tt.w*tt.h)
			for _, tile := range tiles {
				if tile.Dx() != tt.w/tt.tilesX || tile.Dy() != tt.h/tt.tilesY {
					t.Errorf("tile %v has size %dx%d", tile, tile.Dx(), tile.Dy())
				}
				for y := tile.Min.Y; y < tile.Max.Y; y++ {
					for x := tile.Min.X; x < tile.Max.X; x++ {
						hits[x+tt.w*y]++
					}
				}
			}
			for i, n := range hits {
				if n != 1 {
					t.Fatalf("pixel (%d, %d) covered %d times", i%tt.w, i/tt.w, n)
				}
			}
		})
	}
}

func TestSplitGrid_RowMajorOrder(t *testing.T) {
	tiles, err := SplitGrid(image.Rect(0, 0, 4, 4), 2, 2)
	if err != nil {
		t.Fatalf("SplitGrid: %v", err)
	}
	want := []image.Rectangle{
		image.Rect(0, 0, 2, 2),
		image.Rect(2, 0, 4, 2),
		image.Rect(0, 2, 2, 4),
		image.Rect(2, 2, 4, 4),
	}
	for i := range want {
		if tiles[i] != want[i] {
			t.Errorf("tiles[%d] = %v, want %v", i, tiles[i], want[i])
		}
	}
}

func TestSplitGrid_Rejects(t *testing.T) {
	tests := []struct {
		name           string
		w, h           int
		tilesX, tilesY int
	}{
		{"width remainder", 10, 8, 3, 2},
		{"height remainder", 8, 10, 2, 3},
		{"zero tiles", 8, 8, 0, 2},
		{"negative tiles", 8, 8, 2, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := SplitGrid(image.Rect(0, 0, tt.w, tt.h), tt.tilesX, tt.tilesY)
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("SplitGrid error = %v, want ErrInvalidConfig", err)
			}
		})
	}
}
