package httpserver

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/cfolkers/caribou-portal/internal/handler"
	"github.com/cfolkers/caribou-portal/internal/service/auth"
)

func NewRouter(
	authHandler *handler.AuthHandler,
	dashboardHandler *handler.DashboardHandler,
	overrideHandler *handler.OverrideHandler,
	authService *auth.Service,
	logger *zap.Logger,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(TraceMiddleware())
	r.Use(RequestLogMiddleware(logger))

	// Health endpoints
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.HEAD("/healthz", func(c *gin.Context) {
		c.Status(200)
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.POST("/login", authHandler.Login)

	api := r.Group("/api")
	{
		api.GET("/dashboard", dashboardHandler.GetDashboard)
		api.GET("/projects", dashboardHandler.ListProjects)
		api.GET("/projects/:id", dashboardHandler.GetProject)
		api.GET("/categories", dashboardHandler.ListCategories)
		api.GET("/categories/:key", dashboardHandler.GetCategory)
		api.GET("/engagement", dashboardHandler.GetEngagement)
		api.GET("/clients", dashboardHandler.GetClients)
	}

	// Mutations require an operator token.
	protected := r.Group("/api")
	protected.Use(AuthMiddleware(authService))
	{
		protected.POST("/refresh", dashboardHandler.Refresh)
		protected.PUT("/projects/:id/status", overrideHandler.UpdateStatus)
		protected.DELETE("/projects/:id/status", overrideHandler.ResetStatus)
		protected.PUT("/projects/:id/notes", overrideHandler.UpdateNotes)
		protected.PUT("/projects/:id/actions", overrideHandler.UpdateActions)
	}

	return r
}
