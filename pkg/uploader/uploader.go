// Package uploader posts scaled slides to the catalog service and cleans
// up local files once the service has accepted them.
package uploader

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/menta2k/slide-uploader/pkg/client"
	"github.com/menta2k/slide-uploader/pkg/types"
)

// Uploader sends one scaled image per call through an UploadClient.
type Uploader struct {
	client client.UploadClient
	log    *slog.Logger
}

// New creates an Uploader around the given client
func New(uc client.UploadClient, log *slog.Logger) *Uploader {
	if log == nil {
		log = slog.Default()
	}
	return &Uploader{client: uc, log: log}
}

// Upload reads the scaled image at imagePath and posts it with its concepts
// and metadata. On a success status both the scaled image and the original
// slide at sourcePath are deleted. On any other status the files stay on
// disk for inspection or a manual retry, and the service's response details
// are surfaced in the error. There are no automatic retries.
func (u *Uploader) Upload(ctx context.Context, imagePath, sourcePath string, concepts []types.Concept, meta map[string]string) error {
	raw, err := os.ReadFile(imagePath)
	if err != nil {
		return fmt.Errorf("read scaled image: %w", err)
	}

	u.log.Debug("posting input", "image", imagePath, "bytes", len(raw), "concepts", len(concepts))

	result, err := u.client.PostInput(ctx, &types.UploadRequest{
		ImageBytes: raw,
		Concepts:   concepts,
		Metadata:   meta,
	})
	if err != nil {
		return err
	}

	if !result.Success {
		u.log.Error("upload rejected",
			"code", result.Code,
			"description", result.Description,
			"details", result.Details)
		return fmt.Errorf("post input failed, status: %s", result.Details)
	}

	if err := os.Remove(imagePath); err != nil {
		return fmt.Errorf("remove scaled image: %w", err)
	}
	if err := os.Remove(sourcePath); err != nil {
		return fmt.Errorf("remove source slide: %w", err)
	}
	u.log.Info("upload accepted", "image", imagePath, "source", sourcePath)
	return nil
}
