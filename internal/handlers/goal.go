package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/taskflow-dev/taskflow/internal/apperrors"
	"github.com/taskflow-dev/taskflow/internal/service"
	"github.com/taskflow-dev/taskflow/internal/types"
	"github.com/taskflow-dev/taskflow/internal/utils"
)

type GoalHandler struct {
	goals *service.GoalService
}

func NewGoalHandler(goals *service.GoalService) *GoalHandler {
	return &GoalHandler{goals: goals}
}

func (h *GoalHandler) List(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)
	if err != nil {
		abortWithError(ctx, apperrors.Authentication("User not authenticated"))
		return
	}

	filters := types.GoalFilters{
		Category:     ctx.Query("category"),
		ParentGoalID: ctx.Query("parentGoalId"),
	}

	if raw := ctx.Query("isCompleted"); raw != "" {
		isCompleted := raw == "true"
		filters.IsCompleted = &isCompleted
	}

	goals, err := h.goals.List(ctx.Request.Context(), userID, filters)
	if err != nil {
		abortWithError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, types.Success(goals, ""))
}

func (h *GoalHandler) Create(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)
	if err != nil {
		abortWithError(ctx, apperrors.Authentication("User not authenticated"))
		return
	}

	var input service.CreateGoalInput

	if err := ctx.ShouldBindJSON(&input); err != nil {
		abortWithError(ctx, apperrors.Validation("Invalid goal data", err.Error()))
		return
	}

	goal, err := h.goals.Create(ctx.Request.Context(), userID, input)
	if err != nil {
		abortWithError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, types.Success(goal, "Goal created successfully"))
}

func (h *GoalHandler) Get(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)
	if err != nil {
		abortWithError(ctx, apperrors.Authentication("User not authenticated"))
		return
	}

	id, ok := parseIDParam(ctx)
	if !ok {
		return
	}

	goal, err := h.goals.Get(ctx.Request.Context(), userID, id)
	if err != nil {
		abortWithError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, types.Success(goal, ""))
}

func (h *GoalHandler) Update(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)
	if err != nil {
		abortWithError(ctx, apperrors.Authentication("User not authenticated"))
		return
	}

	id, ok := parseIDParam(ctx)
	if !ok {
		return
	}

	var input service.UpdateGoalInput

	if err := ctx.ShouldBindJSON(&input); err != nil {
		abortWithError(ctx, apperrors.Validation("Invalid goal data", err.Error()))
		return
	}

	goal, err := h.goals.Update(ctx.Request.Context(), userID, id, input)
	if err != nil {
		abortWithError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, types.Success(goal, "Goal updated successfully"))
}

func (h *GoalHandler) Delete(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)
	if err != nil {
		abortWithError(ctx, apperrors.Authentication("User not authenticated"))
		return
	}

	id, ok := parseIDParam(ctx)
	if !ok {
		return
	}

	if err := h.goals.Delete(ctx.Request.Context(), userID, id); err != nil {
		abortWithError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, types.Success(nil, "Goal deleted successfully"))
}

func (h *GoalHandler) Stats(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)
	if err != nil {
		abortWithError(ctx, apperrors.Authentication("User not authenticated"))
		return
	}

	stats, err := h.goals.Stats(ctx.Request.Context(), userID)
	if err != nil {
		abortWithError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, types.Success(stats, ""))
}
