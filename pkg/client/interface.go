package client

import (
	"context"

	"github.com/menta2k/slide-uploader/pkg/types"
)

type UploadClient interface {
	PostInput(ctx context.Context, req *types.UploadRequest) (*types.UploadResult, error)
}
