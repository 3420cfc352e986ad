package media

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/presssence/presssence-api/internal/application/service"
	"github.com/presssence/presssence-api/pkg/apperror"
	"github.com/presssence/presssence-api/pkg/logger"
)

type UploadMediaUseCase struct {
	uploader service.Uploader
	logger   logger.Logger
}

func NewUploadMediaUseCase(uploader service.Uploader, log logger.Logger) *UploadMediaUseCase {
	return &UploadMediaUseCase{uploader: uploader, logger: log}
}

type UploadMediaInput struct {
	OwnerID  uuid.UUID
	File     io.Reader
	Filename string
	Kind     string // "cover" or "project"
}

type UploadMediaOutput struct {
	URL string
}

// Execute stores one image blob and returns its durable URL. Uploads are
// write-once: the public id is derived from the owner and filename, so
// re-uploading the same file overwrites rather than accumulates.
func (uc *UploadMediaUseCase) Execute(ctx context.Context, input UploadMediaInput) (*UploadMediaOutput, error) {
	if input.File == nil {
		return nil, apperror.NewInvalidInput("file is required", nil)
	}

	kind := input.Kind
	if kind == "" {
		kind = "cover"
	}

	name := strings.TrimSuffix(filepath.Base(input.Filename), filepath.Ext(input.Filename))
	publicID := fmt.Sprintf("%s-%s", input.OwnerID, name)

	url, err := uc.uploader.Upload(ctx, input.File, "presssence/"+kind, publicID)
	if err != nil {
		return nil, apperror.NewInternal("failed to upload image", err)
	}

	return &UploadMediaOutput{URL: url}, nil
}
