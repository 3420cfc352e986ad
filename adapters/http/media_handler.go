package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	mediaUC "github.com/presssence/presssence-api/internal/application/usecase/media"
	"github.com/presssence/presssence-api/pkg/apperror"
)

type MediaHandler struct {
	uploadUseCase *mediaUC.UploadMediaUseCase
}

func NewMediaHandler(uploadUC *mediaUC.UploadMediaUseCase) *MediaHandler {
	return &MediaHandler{uploadUseCase: uploadUC}
}

// UploadMedia accepts a multipart "file" plus an optional "kind" form field
// ("cover" or "project") and returns the stored URL.
func (h *MediaHandler) UploadMedia(c *gin.Context) {
	ownerID, ok := GetOwnerIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewPermissionDenied("ownerID not found in context"))
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.Error(apperror.NewInvalidInput("'file' is required", err))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.Error(apperror.NewInternal("failed to open file", err))
		return
	}
	defer file.Close()

	input := mediaUC.UploadMediaInput{
		OwnerID:  ownerID,
		File:     file,
		Filename: fileHeader.Filename,
		Kind:     c.PostForm("kind"),
	}
	output, err := h.uploadUseCase.Execute(c.Request.Context(), input)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"url": output.URL})
}
