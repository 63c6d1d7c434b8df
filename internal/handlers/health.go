package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/taskflow-dev/taskflow/internal/types"
)

func HealthCheck(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, types.Success(gin.H{"status": "ok"}, "Taskflow API is running"))
}
