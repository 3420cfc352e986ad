package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	portfolioUC "github.com/presssence/presssence-api/internal/application/usecase/portfolio"
	"github.com/presssence/presssence-api/pkg/apperror"
	"github.com/presssence/presssence-api/pkg/logger"
)

type PortfolioHandler struct {
	createUseCase *portfolioUC.CreatePortfolioUseCase
	getUseCase    *portfolioUC.GetPortfolioUseCase
	updateUseCase *portfolioUC.UpdatePortfolioUseCase
	logger        logger.Logger
}

func NewPortfolioHandler(
	createUC *portfolioUC.CreatePortfolioUseCase,
	getUC *portfolioUC.GetPortfolioUseCase,
	updateUC *portfolioUC.UpdatePortfolioUseCase,
	log logger.Logger,
) *PortfolioHandler {
	return &PortfolioHandler{
		createUseCase: createUC,
		getUseCase:    getUC,
		updateUseCase: updateUC,
		logger:        log,
	}
}

func (h *PortfolioHandler) CreatePortfolio(c *gin.Context) {
	ownerID, ok := GetOwnerIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewPermissionDenied("ownerID not found in context"))
		return
	}

	var req CreatePortfolioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid JSON body for portfolio create", err))
		return
	}

	input := portfolioUC.CreatePortfolioInput{
		UserID:      ownerID,
		Username:    req.Username,
		FullName:    req.FullName,
		Profession:  req.Profession,
		Headline:    req.Headline,
		Theme:       req.Theme,
		Features:    req.Features,
		Projects:    req.ToProjectInputs(),
		SocialLinks: req.SocialLinks,
	}

	output, err := h.createUseCase.Execute(c.Request.Context(), input)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, ToPortfolioDTO(output.Portfolio))
}

func (h *PortfolioHandler) GetPortfolio(c *gin.Context) {
	username := c.Query("portfolioUsername")
	if username == "" {
		c.Error(apperror.NewInvalidInput("'portfolioUsername' query parameter is required", nil))
		return
	}

	output, err := h.getUseCase.Execute(c.Request.Context(), portfolioUC.GetPortfolioInput{Username: username})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, ToPortfolioDTO(output.Portfolio))
}

// UpdatePortfolio applies a partial update and responds with the canonical
// merged aggregate the client reconciles against.
func (h *PortfolioHandler) UpdatePortfolio(c *gin.Context) {
	ownerID, ok := GetOwnerIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewPermissionDenied("ownerID not found in context"))
		return
	}

	username := c.Query("portfolioUsername")
	if username == "" {
		c.Error(apperror.NewInvalidInput("'portfolioUsername' query parameter is required", nil))
		return
	}

	var req UpdatePortfolioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid JSON body for portfolio update", err))
		return
	}

	input := portfolioUC.UpdatePortfolioInput{
		CallerID: ownerID,
		Username: username,
		Patches:  req.ToPatches(),
	}

	output, err := h.updateUseCase.Execute(c.Request.Context(), input)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, ToPortfolioDTO(output.Portfolio))
}
