// Package slideuploader converts whole-slide microscopy images into
// scaled-down raster images and uploads them to the Clarifai catalog.
//
// A slide is processed in one pass: its identity is parsed from the
// download path, the base layer is read and shrunk by a fixed divisor,
// classification concepts are derived from a local reference table, and
// the result is posted to the catalog app. Once the service accepts the
// upload, both the scaled image and the original slide are removed to
// reclaim disk space.
//
// Basic usage:
//
//	package main
//
//	import (
//		"context"
//		"log"
//
//		slideuploader "github.com/menta2k/slide-uploader"
//		"github.com/menta2k/slide-uploader/internal/config"
//		"github.com/menta2k/slide-uploader/pkg/clarifai"
//	)
//
//	func main() {
//		cfg := config.Default()
//		cfg.APIKey = "..."
//
//		cc, err := clarifai.NewClient(cfg.Endpoint, cfg.APIKey)
//		if err != nil {
//			log.Fatal(err)
//		}
//		defer cc.Close()
//
//		pipe := slideuploader.New(cfg, cc, nil)
//		if err := pipe.Run(context.Background(), "brca/site_1/GDC123/TCGA-AB-1234-01Z.svs"); err != nil {
//			log.Fatal(err)
//		}
//	}
//
// The package consists of five main components:
//
// 1. Sample (pkg/sample): derives slide identity from the path layout
// 2. Slide (pkg/slide): opens the pyramidal image and reads its base layer
// 3. Scaler (pkg/scaler): shrinks the slide to an uploadable size
// 4. Labels (pkg/labels): builds the concept list from the reference table
// 5. Uploader (pkg/uploader): posts the image and cleans up on success
//
// Processing is entirely sequential: one slide per invocation, no shared
// state. A run that fails at any step leaves local files untouched so the
// command can simply be re-run.
package slideuploader

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/menta2k/slide-uploader/internal/config"
	"github.com/menta2k/slide-uploader/pkg/client"
	"github.com/menta2k/slide-uploader/pkg/labels"
	"github.com/menta2k/slide-uploader/pkg/metadata"
	"github.com/menta2k/slide-uploader/pkg/sample"
	"github.com/menta2k/slide-uploader/pkg/scaler"
	"github.com/menta2k/slide-uploader/pkg/slide"
	"github.com/menta2k/slide-uploader/pkg/uploader"
)

// Version of the slide uploader library
const Version = "1.0.0"

// Pipeline wires the conversion and upload components for one-slide runs.
type Pipeline struct {
	store    *metadata.Store
	scaler   *scaler.Scaler
	uploader *uploader.Uploader
	log      *slog.Logger
}

// New creates a Pipeline from a configuration and an explicitly
// constructed upload client.
func New(cfg *config.Config, uc client.UploadClient, log *slog.Logger) *Pipeline {
	if log == nil {
		log = slog.Default()
	}
	return &Pipeline{
		store:    metadata.NewStore(cfg.ReferenceFile),
		scaler:   scaler.NewWithConfig(cfg.ScaleFactor, cfg.OutputFormat, cfg.OutputQuality),
		uploader: uploader.New(uc, log),
		log:      log,
	}
}

// Run processes one slide end to end: parse identity, open, scale, build
// labels, upload, clean up. The first failing step aborts the run; nothing
// is deleted unless the upload succeeded.
func (p *Pipeline) Run(ctx context.Context, slidePath string) error {
	smp, err := sample.ParsePath(slidePath)
	if err != nil {
		return fmt.Errorf("parse slide path: %w", err)
	}

	p.log.Info("opening slide", "path", slidePath, "tcga_id", smp.TCGAID)
	s, err := slide.Open(slidePath)
	if err != nil {
		return err
	}
	defer s.Close()

	width, height := s.Dimensions()
	scaledW, scaledH := p.scaler.ScaledSize(width, height)
	p.log.Debug("scaling slide", "from", fmt.Sprintf("%dx%d", width, height), "to", fmt.Sprintf("%dx%d", scaledW, scaledH))

	outPath, err := p.scaler.ScaleToFile(s, slidePath)
	if err != nil {
		return err
	}
	p.log.Info("wrote scaled image", "path", outPath)

	row, err := p.store.Lookup(smp.TCGAID)
	if err != nil {
		return err
	}
	if row == nil {
		p.log.Debug("no reference row", "tcga_id", smp.TCGAID)
	}
	concepts := labels.Build(smp, row)

	return p.uploader.Upload(ctx, outPath, slidePath, concepts, smp.Metadata())
}

// GetVersion returns the library version
func GetVersion() string {
	return Version
}
