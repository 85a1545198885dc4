// Package scaler shrinks whole-slide images to an uploadable size.
package scaler

import (
	"fmt"
	"image"
	"os"
	"strings"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"

	"github.com/menta2k/slide-uploader/internal/utils"
	"github.com/menta2k/slide-uploader/pkg/slide"
)

// DefaultScaleFactor divides both slide dimensions. Slides scaled by this
// factor stay under the catalog service's request size limit.
const DefaultScaleFactor = 25

// Scaler converts a slide's base layer into a scaled-down 3-channel image
// file written beside the source.
type Scaler struct {
	factor  int
	format  string
	quality int
}

// New creates a Scaler with the default factor and PNG output
func New() *Scaler {
	return &Scaler{factor: DefaultScaleFactor, format: "png", quality: 90}
}

// NewWithConfig creates a Scaler with a custom factor, output format
// (png, jpg or webp) and quality
func NewWithConfig(factor int, format string, quality int) *Scaler {
	if factor < 1 {
		factor = DefaultScaleFactor
	}
	if format == "" {
		format = "png"
	}
	if quality < 1 || quality > 100 {
		quality = 90
	}
	return &Scaler{factor: factor, format: format, quality: quality}
}

// ScaledSize returns the target dimensions for a slide of the given size.
func (sc *Scaler) ScaledSize(width, height int) (int, int) {
	return width / sc.factor, height / sc.factor
}

// ScaleToFile reads the slide's entire base layer, flattens it to 3-channel
// color, resamples it with bilinear interpolation and writes the result next
// to slidePath with the output format's extension. The downscale happens
// after the full-resolution read, so memory cost tracks the original size.
// Returns the output path.
func (sc *Scaler) ScaleToFile(s slide.Slide, slidePath string) (string, error) {
	width, height := s.Dimensions()
	targetW, targetH := sc.ScaledSize(width, height)
	if targetW < 1 || targetH < 1 {
		return "", fmt.Errorf("slide %dx%d too small for scale factor %d", width, height, sc.factor)
	}

	region, err := s.ReadRegion(image.Point{}, 0, image.Pt(width, height))
	if err != nil {
		return "", fmt.Errorf("failed to read base layer: %w", err)
	}

	img := imaging.Resize(flattenAlpha(region), targetW, targetH, imaging.Linear)

	outPath := utils.ReplaceExt(slidePath, sc.format)
	if err := sc.save(img, outPath); err != nil {
		return "", fmt.Errorf("failed to save scaled image: %w", err)
	}
	return outPath, nil
}

// save writes an image with the configured format and quality
func (sc *Scaler) save(img image.Image, path string) error {
	switch strings.ToLower(sc.format) {
	case "webp":
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		return webp.Encode(f, img, &webp.Options{Quality: float32(sc.quality)})
	case "jpg", "jpeg":
		return imaging.Save(img, path, imaging.JPEGQuality(sc.quality))
	default: // png
		return imaging.Save(img, path)
	}
}

// flattenAlpha drops the alpha channel the slide reader hands back.
func flattenAlpha(img image.Image) *image.NRGBA {
	nrgba := imaging.Clone(img)
	for i := 3; i < len(nrgba.Pix); i += 4 {
		nrgba.Pix[i] = 0xFF
	}
	return nrgba
}
