package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	authUC "github.com/presssence/presssence-api/internal/application/usecase/auth"
	"github.com/presssence/presssence-api/pkg/apperror"
)

type AuthHandler struct {
	loginUseCase       *authUC.LoginUseCase
	registerUseCase    *authUC.RegisterUseCase
	currentUserUseCase *authUC.CurrentUserUseCase
}

func NewAuthHandler(
	loginUC *authUC.LoginUseCase,
	registerUC *authUC.RegisterUseCase,
	currentUserUC *authUC.CurrentUserUseCase,
) *AuthHandler {
	return &AuthHandler{
		loginUseCase:       loginUC,
		registerUseCase:    registerUC,
		currentUserUseCase: currentUserUC,
	}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid JSON body for register", err))
		return
	}

	input := authUC.RegisterInput{
		Email:    req.Email,
		Name:     req.Name,
		Password: req.Password,
	}
	output, err := h.registerUseCase.Execute(c.Request.Context(), input)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"userId":      output.UserID,
		"accessToken": output.AccessToken,
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid JSON body for login", err))
		return
	}

	input := authUC.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	}
	output, err := h.loginUseCase.Execute(c.Request.Context(), input)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"accessToken": output.AccessToken})
}

// GetCurrentUser returns the caller plus their portfolio when one exists.
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	ownerID, ok := GetOwnerIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewPermissionDenied("ownerID not found in context"))
		return
	}

	output, err := h.currentUserUseCase.Execute(c.Request.Context(), authUC.CurrentUserInput{UserID: ownerID})
	if err != nil {
		c.Error(err)
		return
	}

	resp := gin.H{"user": ToUserDTO(output.User)}
	if output.Portfolio != nil {
		resp["portfolio"] = ToPortfolioDTO(output.Portfolio)
	}
	c.JSON(http.StatusOK, resp)
}
