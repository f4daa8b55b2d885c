package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes wires all API endpoints onto the router. metrics may
// be nil when telemetry is disabled.
func RegisterRoutes(router *gin.Engine, handler *Handler, metrics http.Handler) {
	router.GET("/health", handler.HealthCheck)
	router.GET("/ready", handler.ReadyCheck)
	if metrics != nil {
		router.GET("/metrics", gin.WrapH(metrics))
	}

	v1 := router.Group("/api/v1")
	{
		v1.POST("/classify", handler.Classify)
		v1.POST("/classify/batch", handler.ClassifyBatch)
		v1.POST("/feedback", handler.Feedback)
		v1.GET("/learning", handler.GetLearning)
		v1.DELETE("/learning", handler.ResetLearning)
		v1.GET("/learning/profile", handler.GetProfile)
		v1.GET("/categories", handler.ListCategories)
	}
}
