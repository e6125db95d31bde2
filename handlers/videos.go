package handlers

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/bestxosh-ops/video-downloader/engine"
	"github.com/bestxosh-ops/video-downloader/services"
	"github.com/bestxosh-ops/video-downloader/types"
)

// VideoHandler handles media analysis endpoints
type VideoHandler struct {
	engine engine.Engine
}

// NewVideoHandler creates a new video handler
func NewVideoHandler(eng engine.Engine) *VideoHandler {
	return &VideoHandler{engine: eng}
}

// Analyze probes a URL for metadata and available formats without
// downloading anything.
func (h *VideoHandler) Analyze(c *gin.Context) {
	var req types.AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.URL == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "URL is required",
		})
		return
	}

	parsed, err := url.Parse(req.URL)
	if err != nil || parsed.Host == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid URL",
		})
		return
	}

	info, err := h.engine.Probe(c.Request.Context(), req.URL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": types.VideoInfo{
			Title:     info.Title,
			Thumbnail: info.Thumbnail,
			Duration:  info.Duration,
			Uploader:  info.Uploader,
			Formats:   services.SelectFormats(info.Formats),
		},
	})
}
