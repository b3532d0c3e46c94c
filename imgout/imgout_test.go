package imgout

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

func gradient(w, h int) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = uint8(i * 7)
	}
	return img
}

func assertSameGray(t *testing.T, got image.Image, want *image.Gray) {
	t.Helper()
	if got.Bounds() != want.Bounds() {
		t.Fatalf("bounds = %v, want %v", got.Bounds(), want.Bounds())
	}
	b := want.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			g := color.GrayModel.Convert(got.At(x, y)).(color.Gray)
			if g.Y != want.GrayAt(x, y).Y {
				t.Fatalf("pixel (%d, %d) = %d, want %d", x, y, g.Y, want.GrayAt(x, y).Y)
			}
		}
	}
}

func TestEncode_RoundTrip(t *testing.T) {
	tests := []struct {
		format Format
		decode func(io.Reader) (image.Image, error)
	}{
		{PNG, png.Decode},
		{BMP, bmp.Decode},
		{TIFF, tiff.Decode},
	}

	src := gradient(13, 9)
	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			var buf bytes.Buffer
			if err := Encode(&buf, src, tt.format); err != nil {
				t.Fatalf("Encode: %v", err)
			}
			got, err := tt.decode(&buf)
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			assertSameGray(t, got, src)
		})
	}
}

func TestEncode_UnknownFormat(t *testing.T) {
	err := Encode(io.Discard, gradient(2, 2), Format("gif"))
	if !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("Encode(gif) = %v, want ErrUnknownFormat", err)
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path    string
		want    Format
		wantErr bool
	}{
		{"mandel.png", PNG, false},
		{"out/MANDEL.PNG", PNG, false},
		{"a.bmp", BMP, false},
		{"a.tif", TIFF, false},
		{"a.tiff", TIFF, false},
		{"a.jpg", "", true},
		{"noext", "", true},
	}

	for _, tt := range tests {
		got, err := FormatFromPath(tt.path)
		if (err != nil) != tt.wantErr {
			t.Errorf("FormatFromPath(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("FormatFromPath(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestWriteFile(t *testing.T) {
	src := gradient(16, 16)
	path := filepath.Join(t.TempDir(), "out.png")
	if err := WriteFile(path, src); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	got, err := png.Decode(f)
	if err != nil {
		t.Fatalf("png.Decode: %v", err)
	}
	assertSameGray(t, got, src)
}

func TestWriteFile_UnknownExtensionWritesNothing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.jpg")
	if err := WriteFile(path, gradient(2, 2)); !errors.Is(err, ErrUnknownFormat) {
		t.Fatalf("WriteFile = %v, want ErrUnknownFormat", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("file exists after failed WriteFile: %v", err)
	}
}
