package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/cognicore/gourmet/pkg/gourmet/artifact"
	"github.com/cognicore/gourmet/pkg/gourmet/config"
	"github.com/cognicore/gourmet/pkg/gourmet/internalerr"
	"github.com/cognicore/gourmet/pkg/gourmet/review"
)

// Handler serves precomputed artifacts from one results directory. It
// never writes.
type Handler struct {
	paths  config.Paths
	logger logrus.FieldLogger
}

// NewHandler creates a handler over resultsDir.
func NewHandler(resultsDir string, logger logrus.FieldLogger) *Handler {
	return &Handler{paths: config.ResultPaths(resultsDir), logger: logger}
}

// HandleHealth reports liveness.
func (h *Handler) HandleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// HandleSentiment returns review counts per sentiment label.
func (h *Handler) HandleSentiment(c *gin.Context) {
	reviews, _, err := artifact.ReadAnalysis(h.paths.Analysis)
	if err != nil {
		h.fail(c, "analysis", err)
		return
	}
	counts := map[review.Sentiment]int{}
	for _, r := range reviews {
		counts[r.Sentiment]++
	}
	successResponse(c, http.StatusOK, counts)
}

// HandleKeywords returns the keyword table, optionally truncated by ?limit=N.
func (h *Handler) HandleKeywords(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			errorResponse(c, http.StatusBadRequest, "limit must be a non-negative integer", nil)
			return
		}
		limit = n
	}

	keywords, _, err := artifact.ReadKeywords(h.paths.Keywords)
	if err != nil {
		h.fail(c, "keywords", err)
		return
	}
	if limit > 0 && limit < len(keywords) {
		keywords = keywords[:limit]
	}
	successResponse(c, http.StatusOK, keywords)
}

// HandleSuggestions returns the ranked suggestion table.
func (h *Handler) HandleSuggestions(c *gin.Context) {
	suggestions, _, err := artifact.ReadSuggestions(h.paths.Suggestions)
	if err != nil {
		h.fail(c, "suggestions", err)
		return
	}
	successResponse(c, http.StatusOK, suggestions)
}

// HandleSummary returns the consolidated summary bundle.
func (h *Handler) HandleSummary(c *gin.Context) {
	summary, err := artifact.ReadSummary(h.paths.Summary)
	if err != nil {
		h.fail(c, "summary", err)
		return
	}
	successResponse(c, http.StatusOK, summary)
}

func (h *Handler) fail(c *gin.Context, name string, err error) {
	if errors.Is(err, internalerr.ErrMissingInput) {
		errorResponse(c, http.StatusNotFound, name+" artifact not found", err)
		return
	}
	h.logger.WithError(err).WithField("artifact", name).Error("Failed to read artifact")
	errorResponse(c, http.StatusInternalServerError, "Failed to read "+name+" artifact", err)
}
