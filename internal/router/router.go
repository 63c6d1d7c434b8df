package router

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	authpkg "github.com/taskflow-dev/taskflow/internal/auth"
	"github.com/taskflow-dev/taskflow/internal/config"
	"github.com/taskflow-dev/taskflow/internal/handlers"
	"github.com/taskflow-dev/taskflow/internal/middleware"
	"github.com/taskflow-dev/taskflow/internal/types"
	"go.uber.org/zap"
)

type Handlers struct {
	Auth       *handlers.AuthHandler
	Tasks      *handlers.TaskHandler
	Goals      *handlers.GoalHandler
	Categories *handlers.CategoryHandler
}

func New(cfg *config.Config, log *zap.Logger, tokens *authpkg.TokenManager, h Handlers) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	r.Use(gin.Logger())
	r.Use(middleware.Recovery(log, cfg.IsProduction()))
	r.Use(middleware.Errors(log, cfg.IsProduction()))

	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", handlers.HealthCheck)

	api := r.Group("/api/v1")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", h.Auth.Register)
			auth.POST("/login", h.Auth.Login)
			auth.POST("/refresh", h.Auth.Refresh)
			auth.POST("/logout", middleware.Auth(tokens), h.Auth.Logout)
			auth.GET("/profile", middleware.Auth(tokens), h.Auth.Profile)
			auth.PUT("/profile", middleware.Auth(tokens), h.Auth.UpdateProfile)
		}

		tasks := api.Group("/tasks", middleware.Auth(tokens))
		{
			tasks.GET("", h.Tasks.List)
			tasks.POST("", h.Tasks.Create)
			tasks.GET("/stats", h.Tasks.Stats)
			tasks.DELETE("/completed/bulk", h.Tasks.DeleteCompleted)
			tasks.GET("/:id", h.Tasks.Get)
			tasks.PUT("/:id", h.Tasks.Update)
			tasks.DELETE("/:id", h.Tasks.Delete)
		}

		goals := api.Group("/goals", middleware.Auth(tokens))
		{
			goals.GET("", h.Goals.List)
			goals.POST("", h.Goals.Create)
			goals.GET("/stats", h.Goals.Stats)
			goals.GET("/:id", h.Goals.Get)
			goals.PUT("/:id", h.Goals.Update)
			goals.DELETE("/:id", h.Goals.Delete)
		}

		categories := api.Group("/categories", middleware.Auth(tokens))
		{
			categories.GET("", h.Categories.List)
			categories.POST("", h.Categories.Create)
			categories.GET("/:id", h.Categories.Get)
			categories.PUT("/:id", h.Categories.Update)
			categories.DELETE("/:id", h.Categories.Delete)
		}
	}

	r.NoRoute(func(ctx *gin.Context) {
		ctx.JSON(http.StatusNotFound, types.Failure(
			"ENDPOINT_NOT_FOUND",
			fmt.Sprintf("Endpoint %s %s not found", ctx.Request.Method, ctx.Request.URL.Path),
			nil,
		))
	})

	return r
}
