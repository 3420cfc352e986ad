package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	socialUC "github.com/presssence/presssence-api/internal/application/usecase/social"
)

type SocialHandler struct {
	metadataUseCase *socialUC.MetadataUseCase
}

func NewSocialHandler(uc *socialUC.MetadataUseCase) *SocialHandler {
	return &SocialHandler{metadataUseCase: uc}
}

// GetSocialMediaInfo returns cached profile metadata for one platform, e.g.
// GET /api/socialMediaInfo?platform=github&username=johndoe.
func (h *SocialHandler) GetSocialMediaInfo(c *gin.Context) {
	input := socialUC.GetMetadataInput{
		Platform:      c.Query("platform"),
		Username:      c.Query("username"),
		SpotifyUserID: c.Query("spotifyUserId"),
	}

	output, err := h.metadataUseCase.Execute(c.Request.Context(), input)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, output.Metadata)
}
