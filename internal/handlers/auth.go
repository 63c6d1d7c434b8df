package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/taskflow-dev/taskflow/internal/apperrors"
	"github.com/taskflow-dev/taskflow/internal/auth"
	"github.com/taskflow-dev/taskflow/internal/models"
	"github.com/taskflow-dev/taskflow/internal/service"
	"github.com/taskflow-dev/taskflow/internal/types"
	"github.com/taskflow-dev/taskflow/internal/utils"
)

type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

type AuthResponse struct {
	User   *models.User   `json:"user"`
	Tokens auth.TokenPair `json:"tokens"`
}

type AuthHandler struct {
	auth *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

func (h *AuthHandler) Register(ctx *gin.Context) {
	var input service.RegisterInput

	if err := ctx.ShouldBindJSON(&input); err != nil {
		abortWithError(ctx, apperrors.Validation("Invalid registration data", err.Error()))
		return
	}

	user, tokens, err := h.auth.Register(ctx.Request.Context(), input)
	if err != nil {
		abortWithError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated,
		types.Success(AuthResponse{User: user, Tokens: tokens}, "User registered successfully"))
}

func (h *AuthHandler) Login(ctx *gin.Context) {
	var input service.LoginInput

	if err := ctx.ShouldBindJSON(&input); err != nil {
		abortWithError(ctx, apperrors.Validation("Invalid login data", err.Error()))
		return
	}

	user, tokens, err := h.auth.Login(ctx.Request.Context(), input)
	if err != nil {
		abortWithError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK,
		types.Success(AuthResponse{User: user, Tokens: tokens}, "Login successful"))
}

func (h *AuthHandler) Refresh(ctx *gin.Context) {
	var req RefreshTokenRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		abortWithError(ctx, apperrors.Validation("Invalid refresh token data", err.Error()))
		return
	}

	user, tokens, err := h.auth.Refresh(ctx.Request.Context(), req.RefreshToken)
	if err != nil {
		abortWithError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK,
		types.Success(AuthResponse{User: user, Tokens: tokens}, "Token refreshed successfully"))
}

// Logout is deliberately a no-op beyond the envelope: tokens are discarded
// client-side.
func (h *AuthHandler) Logout(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, types.Success(nil, "Logout successful"))
}

func (h *AuthHandler) Profile(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)
	if err != nil {
		abortWithError(ctx, apperrors.Authentication("User not authenticated"))
		return
	}

	user, err := h.auth.Profile(ctx.Request.Context(), userID)
	if err != nil {
		abortWithError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, types.Success(user, ""))
}

func (h *AuthHandler) UpdateProfile(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)
	if err != nil {
		abortWithError(ctx, apperrors.Authentication("User not authenticated"))
		return
	}

	var input service.UpdateProfileInput

	if err := ctx.ShouldBindJSON(&input); err != nil {
		abortWithError(ctx, apperrors.Validation("Invalid profile data", err.Error()))
		return
	}

	user, err := h.auth.UpdateProfile(ctx.Request.Context(), userID, input)
	if err != nil {
		abortWithError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, types.Success(user, "Profile updated successfully"))
}
