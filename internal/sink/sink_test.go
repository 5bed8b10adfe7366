package sink

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"testing"
)

// grayImage returns a w×h opaque image filled with level v.
func grayImage(w, h int, v uint8) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{v, v, v, 0xFF})
		}
	}
	return img
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		name, want, wantThumb string
	}{
		{"defaultBuddha", "defaultBuddha.png", "defaultBuddha_thumb.png"},
		{"out/run1", "out/run1.png", "out/run1_thumb.png"},
		{"already.png", "already.png", "already_thumb.png"},
		{"LOUD.PNG", "LOUD.PNG", "LOUD_thumb.png"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := OutputPath(tt.name); got != tt.want {
				t.Errorf("OutputPath: got %q, want %q", got, tt.want)
			}
			if got := ThumbnailPath(tt.name); got != tt.wantThumb {
				t.Errorf("ThumbnailPath: got %q, want %q", got, tt.wantThumb)
			}
		})
	}
}

func TestWritePNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.png")
	src := grayImage(12, 7, 0x80)

	if err := WritePNG(path, src); err != nil {
		t.Fatalf("WritePNG failed: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("Failed to open output: %v", err)
	}
	defer f.Close()

	got, err := png.Decode(f)
	if err != nil {
		t.Fatalf("Output is not a PNG: %v", err)
	}
	if got.Bounds() != src.Bounds() {
		t.Errorf("bounds: got %v, want %v", got.Bounds(), src.Bounds())
	}
	r, _, _, _ := got.At(3, 3).RGBA()
	if r>>8 != 0x80 {
		t.Errorf("pixel: got %#x, want 0x80", r>>8)
	}
}

func TestWritePNG_NoLeftovers(t *testing.T) {
	dir := t.TempDir()
	if err := WritePNG(filepath.Join(dir, "a.png"), grayImage(4, 4, 0)); err != nil {
		t.Fatalf("WritePNG failed: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "a.png" {
		names := make([]string, len(entries))
		for i, e := range entries {
			names[i] = e.Name()
		}
		t.Errorf("directory: got %v, want [a.png]", names)
	}
}

func TestWritePNG_Failures(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name string
		path string
		img  image.Image
	}{
		{"missing directory", filepath.Join(dir, "nope", "out.png"), grayImage(2, 2, 0)},
		{"nil image", filepath.Join(dir, "nil.png"), nil},
		{"empty image", filepath.Join(dir, "empty.png"), image.NewNRGBA(image.Rect(0, 0, 0, 0))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := WritePNG(tt.path, tt.img)
			if !errors.Is(err, ErrWrite) {
				t.Fatalf("got %v, want ErrWrite", err)
			}
			if _, statErr := os.Stat(tt.path); !os.IsNotExist(statErr) {
				t.Errorf("%s should not exist after a failed write", tt.path)
			}
		})
	}
}

func TestWritePNG_KeepsOldFileOnFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keep.png")
	if err := WritePNG(path, grayImage(3, 3, 0xFF)); err != nil {
		t.Fatalf("WritePNG failed: %v", err)
	}
	before, _ := os.ReadFile(path)

	if err := WritePNG(path, nil); !errors.Is(err, ErrWrite) {
		t.Fatalf("got %v, want ErrWrite", err)
	}

	after, _ := os.ReadFile(path)
	if string(before) != string(after) {
		t.Error("failed write modified the existing file")
	}
}

func TestWriteThumbnail(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name         string
		w, h, width  int
		wantW, wantH int
	}{
		{"downscale", 200, 100, 50, 50, 25},
		{"already small", 30, 30, 50, 30, 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name+".png")
			if err := WriteThumbnail(path, grayImage(tt.w, tt.h, 0x40), tt.width); err != nil {
				t.Fatalf("WriteThumbnail failed: %v", err)
			}

			f, err := os.Open(path)
			if err != nil {
				t.Fatalf("Failed to open thumbnail: %v", err)
			}
			defer f.Close()
			cfg, err := png.DecodeConfig(f)
			if err != nil {
				t.Fatalf("Thumbnail is not a PNG: %v", err)
			}
			if cfg.Width != tt.wantW || cfg.Height != tt.wantH {
				t.Errorf("size: got %dx%d, want %dx%d", cfg.Width, cfg.Height, tt.wantW, tt.wantH)
			}
		})
	}

	if err := WriteThumbnail(filepath.Join(dir, "zero.png"), grayImage(4, 4, 0), 0); !errors.Is(err, ErrWrite) {
		t.Errorf("zero width: got %v, want ErrWrite", err)
	}
}

func TestSummarize(t *testing.T) {
	img := grayImage(10, 10, 0xFF)
	for x := 0; x < 10; x++ {
		img.SetNRGBA(x, 0, color.NRGBA{0, 0, 0, 0xFF})
	}

	s := Summarize(img)

	if s.Width != 10 || s.Height != 10 {
		t.Errorf("size: got %dx%d, want 10x10", s.Width, s.Height)
	}
	if math.Abs(s.WhiteFraction-0.9) > 1e-12 {
		t.Errorf("WhiteFraction: got %g, want 0.9", s.WhiteFraction)
	}
	if math.Abs(s.BlackFraction-0.1) > 1e-12 {
		t.Errorf("BlackFraction: got %g, want 0.1", s.BlackFraction)
	}
	if math.Abs(s.MeanLuminance-0.9) > 1e-12 {
		t.Errorf("MeanLuminance: got %g, want 0.9", s.MeanLuminance)
	}
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(image.NewNRGBA(image.Rect(0, 0, 0, 0)))
	if s != (Summary{}) {
		t.Errorf("got %+v, want zero Summary", s)
	}
}
