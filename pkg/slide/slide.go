// Package slide opens whole-slide images and reads pixel regions from them.
package slide

import (
	"fmt"
	"image"
	"image/draw"
	"io"
	"os"

	"golang.org/x/image/tiff"
)

// Slide is an opened whole-slide image. Implementations expose the base
// (level 0) resolution and region reads in the source's native channel
// layout, alpha included.
type Slide interface {
	// Dimensions returns the level-0 width and height in pixels.
	Dimensions() (int, int)
	// ReadRegion reads a size.X by size.Y region starting at origin from
	// the given pyramid level.
	ReadRegion(origin image.Point, level int, size image.Point) (image.Image, error)
	Close() error
}

// tiffSlide reads SVS files, which store their base layer as the first
// directory of a TIFF container. Only the header is decoded at open time;
// pixels are decoded on the first region read.
type tiffSlide struct {
	f             *os.File
	width, height int
}

// Open opens the file at path as a whole-slide image. A missing file or a
// format the decoder does not recognize is an error; callers must handle it
// rather than proceed with a dead handle.
func Open(path string) (Slide, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open slide: %w", err)
	}

	cfg, err := tiff.DecodeConfig(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("decode slide %s: %w", path, err)
	}

	return &tiffSlide{f: f, width: cfg.Width, height: cfg.Height}, nil
}

func (s *tiffSlide) Dimensions() (int, int) {
	return s.width, s.height
}

func (s *tiffSlide) ReadRegion(origin image.Point, level int, size image.Point) (image.Image, error) {
	if level != 0 {
		return nil, fmt.Errorf("level %d not available: only the base layer is decoded", level)
	}

	if _, err := s.f.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("seek slide: %w", err)
	}
	img, err := tiff.Decode(s.f)
	if err != nil {
		return nil, fmt.Errorf("read region: %w", err)
	}

	rect := image.Rectangle{Min: origin, Max: origin.Add(size)}.Intersect(img.Bounds())
	if rect.Empty() {
		return nil, fmt.Errorf("region at %v size %v is outside slide bounds %v", origin, size, img.Bounds())
	}

	out := image.NewNRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	draw.Draw(out, out.Bounds(), img, rect.Min, draw.Src)
	return out, nil
}

func (s *tiffSlide) Close() error {
	return s.f.Close()
}
