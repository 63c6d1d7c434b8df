package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"github.com/taskflow-dev/taskflow/internal/apperrors"
	"github.com/taskflow-dev/taskflow/internal/types"
	"go.uber.org/zap"
)

// Errors is the single funnel every handler error flows through. It maps the
// error taxonomy (and translated store errors) to a status code and the
// uniform envelope. 5xx errors are always logged; everything is logged
// outside production, where the response also carries a stack.
func Errors(log *zap.Logger, production bool) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		ctx.Next()

		if len(ctx.Errors) == 0 {
			return
		}

		err := ctx.Errors.Last().Err
		appErr := apperrors.Translate(err)

		if appErr.StatusCode >= http.StatusInternalServerError {
			log.Error("request failed",
				zap.String("method", ctx.Request.Method),
				zap.String("path", ctx.Request.URL.Path),
				zap.Error(err),
			)
		} else if !production {
			log.Warn("request rejected",
				zap.String("method", ctx.Request.Method),
				zap.String("path", ctx.Request.URL.Path),
				zap.Int("status", appErr.StatusCode),
				zap.Error(err),
			)
		}

		response := types.Failure(appErr.Code, appErr.Message, appErr.Errors)

		if !production && appErr.StatusCode >= http.StatusInternalServerError {
			response.Stack = string(debug.Stack())
		}

		ctx.JSON(appErr.StatusCode, response)
	}
}

// Recovery turns panics into envelope-shaped 500s instead of gin's bare
// response.
func Recovery(log *zap.Logger, production bool) gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(nil, func(ctx *gin.Context, recovered interface{}) {
		log.Error("panic recovered",
			zap.Any("panic", recovered),
			zap.String("method", ctx.Request.Method),
			zap.String("path", ctx.Request.URL.Path),
			zap.ByteString("stack", debug.Stack()),
		)

		response := types.Failure("INTERNAL_ERROR", "Internal Server Error", nil)
		if !production {
			response.Stack = string(debug.Stack())
		}

		ctx.AbortWithStatusJSON(http.StatusInternalServerError, response)
	})
}
