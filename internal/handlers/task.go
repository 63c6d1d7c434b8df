package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/taskflow-dev/taskflow/internal/apperrors"
	"github.com/taskflow-dev/taskflow/internal/service"
	"github.com/taskflow-dev/taskflow/internal/types"
	"github.com/taskflow-dev/taskflow/internal/utils"
)

type TaskHandler struct {
	tasks *service.TaskService
}

func NewTaskHandler(tasks *service.TaskService) *TaskHandler {
	return &TaskHandler{tasks: tasks}
}

func (h *TaskHandler) List(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)
	if err != nil {
		abortWithError(ctx, apperrors.Authentication("User not authenticated"))
		return
	}

	filters, err := parseTaskFilters(ctx)
	if err != nil {
		abortWithError(ctx, err)
		return
	}

	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "50"))

	sort := types.Sort{
		Field: ctx.DefaultQuery("sortBy", "createdAt"),
		Order: ctx.DefaultQuery("sortOrder", "desc"),
	}

	result, err := h.tasks.List(ctx.Request.Context(), userID, filters, page, limit, sort)
	if err != nil {
		abortWithError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, types.Success(result, ""))
}

func (h *TaskHandler) Create(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)
	if err != nil {
		abortWithError(ctx, apperrors.Authentication("User not authenticated"))
		return
	}

	var input service.CreateTaskInput

	if err := ctx.ShouldBindJSON(&input); err != nil {
		abortWithError(ctx, apperrors.Validation("Invalid task data", err.Error()))
		return
	}

	task, err := h.tasks.Create(ctx.Request.Context(), userID, input)
	if err != nil {
		abortWithError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, types.Success(task, "Task created successfully"))
}

func (h *TaskHandler) Get(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)
	if err != nil {
		abortWithError(ctx, apperrors.Authentication("User not authenticated"))
		return
	}

	id, ok := parseIDParam(ctx)
	if !ok {
		return
	}

	task, err := h.tasks.Get(ctx.Request.Context(), userID, id)
	if err != nil {
		abortWithError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, types.Success(task, ""))
}

func (h *TaskHandler) Update(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)
	if err != nil {
		abortWithError(ctx, apperrors.Authentication("User not authenticated"))
		return
	}

	id, ok := parseIDParam(ctx)
	if !ok {
		return
	}

	var input service.UpdateTaskInput

	if err := ctx.ShouldBindJSON(&input); err != nil {
		abortWithError(ctx, apperrors.Validation("Invalid task data", err.Error()))
		return
	}

	task, err := h.tasks.Update(ctx.Request.Context(), userID, id, input)
	if err != nil {
		abortWithError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, types.Success(task, "Task updated successfully"))
}

func (h *TaskHandler) Delete(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)
	if err != nil {
		abortWithError(ctx, apperrors.Authentication("User not authenticated"))
		return
	}

	id, ok := parseIDParam(ctx)
	if !ok {
		return
	}

	if err := h.tasks.Delete(ctx.Request.Context(), userID, id); err != nil {
		abortWithError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, types.Success(nil, "Task deleted successfully"))
}

func (h *TaskHandler) DeleteCompleted(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)
	if err != nil {
		abortWithError(ctx, apperrors.Authentication("User not authenticated"))
		return
	}

	count, err := h.tasks.DeleteCompleted(ctx.Request.Context(), userID)
	if err != nil {
		abortWithError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, types.Success(nil, fmt.Sprintf("%d completed tasks deleted", count)))
}

func (h *TaskHandler) Stats(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)
	if err != nil {
		abortWithError(ctx, apperrors.Authentication("User not authenticated"))
		return
	}

	stats, err := h.tasks.Stats(ctx.Request.Context(), userID)
	if err != nil {
		abortWithError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, types.Success(stats, ""))
}

func parseTaskFilters(ctx *gin.Context) (types.TaskFilters, error) {
	filters := types.TaskFilters{
		Statuses:     ctx.QueryArray("status"),
		Priorities:   ctx.QueryArray("priority"),
		CategoryID:   ctx.Query("categoryId"),
		Search:       ctx.Query("search"),
		Tags:         ctx.QueryArray("tags"),
		ParentTaskID: ctx.Query("parentTaskId"),
	}

	if raw := ctx.Query("dueDate"); raw != "" {
		day, err := parseDay(raw)
		if err != nil {
			return filters, apperrors.Validation("Invalid task data", "dueDate: invalid date")
		}
		filters.DueDate = &day
	}

	return filters, nil
}

func parseDay(raw string) (time.Time, error) {
	if day, err := time.Parse(time.RFC3339, raw); err == nil {
		return day, nil
	}
	return time.Parse("2006-01-02", raw)
}
