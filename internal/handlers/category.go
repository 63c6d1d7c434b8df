package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/taskflow-dev/taskflow/internal/apperrors"
	"github.com/taskflow-dev/taskflow/internal/service"
	"github.com/taskflow-dev/taskflow/internal/types"
	"github.com/taskflow-dev/taskflow/internal/utils"
)

type CategoryHandler struct {
	categories *service.CategoryService
}

func NewCategoryHandler(categories *service.CategoryService) *CategoryHandler {
	return &CategoryHandler{categories: categories}
}

func (h *CategoryHandler) List(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)
	if err != nil {
		abortWithError(ctx, apperrors.Authentication("User not authenticated"))
		return
	}

	includeCounts := ctx.DefaultQuery("includeCounts", "false") == "true"

	categories, err := h.categories.List(ctx.Request.Context(), userID, includeCounts)
	if err != nil {
		abortWithError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, types.Success(categories, ""))
}

func (h *CategoryHandler) Create(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)
	if err != nil {
		abortWithError(ctx, apperrors.Authentication("User not authenticated"))
		return
	}

	var input service.CreateCategoryInput

	if err := ctx.ShouldBindJSON(&input); err != nil {
		abortWithError(ctx, apperrors.Validation("Invalid category data", err.Error()))
		return
	}

	category, err := h.categories.Create(ctx.Request.Context(), userID, input)
	if err != nil {
		abortWithError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, types.Success(category, "Category created successfully"))
}

func (h *CategoryHandler) Get(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)
	if err != nil {
		abortWithError(ctx, apperrors.Authentication("User not authenticated"))
		return
	}

	id, ok := parseIDParam(ctx)
	if !ok {
		return
	}

	category, err := h.categories.Get(ctx.Request.Context(), userID, id)
	if err != nil {
		abortWithError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, types.Success(category, ""))
}

func (h *CategoryHandler) Update(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)
	if err != nil {
		abortWithError(ctx, apperrors.Authentication("User not authenticated"))
		return
	}

	id, ok := parseIDParam(ctx)
	if !ok {
		return
	}

	var input service.UpdateCategoryInput

	if err := ctx.ShouldBindJSON(&input); err != nil {
		abortWithError(ctx, apperrors.Validation("Invalid category data", err.Error()))
		return
	}

	category, err := h.categories.Update(ctx.Request.Context(), userID, id, input)
	if err != nil {
		abortWithError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, types.Success(category, "Category updated successfully"))
}

func (h *CategoryHandler) Delete(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)
	if err != nil {
		abortWithError(ctx, apperrors.Authentication("User not authenticated"))
		return
	}

	id, ok := parseIDParam(ctx)
	if !ok {
		return
	}

	reassigned, err := h.categories.Delete(ctx.Request.Context(), userID, id)
	if err != nil {
		abortWithError(ctx, err)
		return
	}

	message := "Category deleted successfully"
	if reassigned > 0 {
		message = fmt.Sprintf("Category deleted successfully. %d tasks moved to no category.", reassigned)
	}

	ctx.JSON(http.StatusOK, types.Success(nil, message))
}
