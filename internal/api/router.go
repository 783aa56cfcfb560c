// Package api exposes the pipeline's result artifacts over read-only HTTP
// routes.
package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/cognicore/gourmet/internal/logging"
)

// NewRouter builds the gin engine serving resultsDir.
func NewRouter(resultsDir string, logger logrus.FieldLogger) *gin.Engine {
	logger = logging.OrDiscard(logger)
	h := NewHandler(resultsDir, logger)

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(logger))

	r.GET("/healthz", h.HandleHealth)
	api := r.Group("/api")
	{
		api.GET("/sentiment", h.HandleSentiment)
		api.GET("/keywords", h.HandleKeywords)
		api.GET("/suggestions", h.HandleSuggestions)
		api.GET("/summary", h.HandleSummary)
	}
	return r
}

func requestLogger(logger logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.WithFields(logrus.Fields{
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"status":      c.Writer.Status(),
			"duration_ms": time.Since(start).Milliseconds(),
			"ip_address":  c.ClientIP(),
		}).Debug("Handled request")
	}
}
