// Package imgout encodes rendered grayscale buffers as image files.
package imgout

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// Format is an output file format.
type Format string

const (
	PNG  Format = "png"
	BMP  Format = "bmp"
	TIFF Format = "tiff"
)

// ErrUnknownFormat is returned for formats other than png, bmp and tiff.
var ErrUnknownFormat = errors.New("unknown image format")

// ParseFormat accepts a format name, case insensitive. "tif" is TIFF.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "png":
		return PNG, nil
	case "bmp":
		return BMP, nil
	case "tif", "tiff":
		return TIFF, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// FormatFromPath picks the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return "", fmt.Errorf("%w: %q has no extension", ErrUnknownFormat, path)
	}
	return ParseFormat(ext)
}

// ContentType returns the MIME type of f.
func (f Format) ContentType() string {
	switch f {
	case BMP:
		return "image/bmp"
	case TIFF:
		return "image/tiff"
	}
	return "image/png"
}

// Encode writes img to w as an 8-bit single channel image.
func Encode(w io.Writer, img *image.Gray, f Format) error {
	if len(img.Pix) != img.Rect.Dx()*img.Rect.Dy() {
		return fmt.Errorf("buffer holds %d bytes, want %d", len(img.Pix), img.Rect.Dx()*img.Rect.Dy())
	}
	switch f {
	case PNG:
		return png.Encode(w, img)
	case BMP:
		return bmp.Encode(w, img)
	case TIFF:
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, string(f))
}

// WriteFile saves img to path, choosing the format from the extension.
func WriteFile(path string, img *image.Gray) (err error) {
	f, err := FormatFromPath(path)
	if err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %q: %w", path, cerr)
		}
	}()

	if err := Encode(file, img, f); err != nil {
		return fmt.Errorf("failed to encode %s: %w", strings.ToUpper(string(f)), err)
	}
	return nil
}
