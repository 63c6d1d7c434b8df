package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/taskflow-dev/taskflow/internal/apperrors"
)

// abortWithError hands the error to the error-funnel middleware, which owns
// status mapping and the response envelope.
func abortWithError(ctx *gin.Context, err error) {
	_ = ctx.Error(err)
	ctx.Abort()
}

func parseIDParam(ctx *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		abortWithError(ctx, apperrors.Validation("Invalid id format"))
		return uuid.Nil, false
	}
	return id, true
}
