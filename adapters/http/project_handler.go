package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	portfolioUC "github.com/presssence/presssence-api/internal/application/usecase/portfolio"
	"github.com/presssence/presssence-api/pkg/apperror"
)

type ProjectHandler struct {
	deleteUseCase *portfolioUC.DeleteProjectUseCase
}

func NewProjectHandler(deleteUC *portfolioUC.DeleteProjectUseCase) *ProjectHandler {
	return &ProjectHandler{deleteUseCase: deleteUC}
}

func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	ownerID, ok := GetOwnerIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewPermissionDenied("ownerID not found in context"))
		return
	}

	projectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.Error(apperror.NewInvalidInput("invalid project ID", err))
		return
	}

	input := portfolioUC.DeleteProjectInput{
		ProjectID: projectID,
		CallerID:  ownerID,
	}
	if err := h.deleteUseCase.Execute(c.Request.Context(), input); err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
