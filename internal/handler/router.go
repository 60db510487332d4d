package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/paweldywan/devops-test/internal/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupRouter configures all API routes
func SetupRouter(
	provision *ProvisionHandler,
	metrics *observability.Metrics,
	corsOrigin string,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(CORSMiddleware(corsOrigin))
	r.Use(PrometheusMiddleware(metrics))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	// Prometheus metrics
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	{
		api.POST("/provision", provision.Provision)
		api.GET("/runs", provision.ListRuns)
		api.GET("/runs/:run_id", provision.GetRun)
		api.POST("/runs/:run_id/teardown", provision.TeardownRun)
	}

	return r
}
