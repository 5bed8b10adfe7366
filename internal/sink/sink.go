package sink

import (
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/anthonynsimon/bild/histogram"
	"github.com/disintegration/imaging"
)

// ErrWrite is wrapped by every failure to produce an output file.
var ErrWrite = errors.New("image sink write failed")

// OutputPath returns the file name for an output base name. ".png" is
// appended unless name already ends with it.
func OutputPath(name string) string {
	if strings.HasSuffix(strings.ToLower(name), ".png") {
		return name
	}
	return name + ".png"
}

// ThumbnailPath returns the thumbnail file name for an output base name.
func ThumbnailPath(name string) string {
	base := name
	if strings.HasSuffix(strings.ToLower(base), ".png") {
		base = base[:len(base)-len(".png")]
	}
	return base + "_thumb.png"
}

// WritePNG encodes img as PNG at path.
//
// The image is written to a temporary file in the same directory and renamed
// into place, so a failed write leaves neither a partial file nor a changed
// destination.
func WritePNG(path string, img image.Image) (err error) {
	if img == nil || img.Bounds().Empty() {
		return fmt.Errorf("%w: %s: empty image", ErrWrite, path)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}
	defer func() {
		if err != nil {
			os.Remove(tmp.Name())
		}
	}()

	if err = imaging.Encode(tmp, img, imaging.PNG); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: encode %s: %v", ErrWrite, path, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}
	return nil
}

// WriteThumbnail scales img to width pixels, keeping the aspect ratio, and
// writes it with WritePNG. Images already narrower than width are written
// unscaled.
func WriteThumbnail(path string, img image.Image, width int) error {
	if width <= 0 {
		return fmt.Errorf("%w: %s: thumbnail width %d must be positive", ErrWrite, path, width)
	}
	if img != nil && img.Bounds().Dx() > width {
		img = imaging.Resize(img, width, 0, imaging.Lanczos)
	}
	return WritePNG(path, img)
}

// Summary describes the tonal distribution of a rendered image.
type Summary struct {
	Width         int     `json:"width"`
	Height        int     `json:"height"`
	MeanLuminance float64 `json:"mean_luminance"` // 0 (black) to 1 (white)
	WhiteFraction float64 `json:"white_fraction"` // pixels at full intensity
	BlackFraction float64 `json:"black_fraction"` // pixels at zero intensity
}

// Summarize builds a Summary from the red channel histogram of img. For
// grayscale renders this is the luminance.
func Summarize(img image.Image) Summary {
	b := img.Bounds()
	s := Summary{Width: b.Dx(), Height: b.Dy()}
	total := b.Dx() * b.Dy()
	if total == 0 {
		return s
	}

	bins := histogram.NewRGBAHistogram(img).R.Bins
	var sum float64
	for level, n := range bins {
		sum += float64(level) * float64(n)
	}
	s.MeanLuminance = sum / float64(total) / 255
	s.WhiteFraction = float64(bins[255]) / float64(total)
	s.BlackFraction = float64(bins[0]) / float64(total)
	return s
}
