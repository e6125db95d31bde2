package handlers

import (
	"log"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/bestxosh-ops/video-downloader/services"
	"github.com/bestxosh-ops/video-downloader/types"
	"github.com/bestxosh-ops/video-downloader/websocket"
)

// DownloadHandler handles download dispatch, progress and artifact fetch
type DownloadHandler struct {
	dispatcher *services.Dispatcher
	registry   *services.Registry
	hub        websocket.Hub
}

// NewDownloadHandler creates a new download handler
func NewDownloadHandler(dispatcher *services.Dispatcher, registry *services.Registry, hub websocket.Hub) *DownloadHandler {
	return &DownloadHandler{
		dispatcher: dispatcher,
		registry:   registry,
		hub:        hub,
	}
}

// StartDownload dispatches an asynchronous download job and returns its id
// immediately.
func (h *DownloadHandler) StartDownload(c *gin.Context) {
	var req types.DownloadRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.URL == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "URL is required",
		})
		return
	}

	job := h.dispatcher.Dispatch(req.URL, req.FormatID)

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"download_id": job.ID,
	})
}

// GetProgress returns the current snapshot of one job
func (h *DownloadHandler) GetProgress(c *gin.Context) {
	id := c.Param("id")
	job, ok := h.registry.Get(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Download not found",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    job,
	})
}

// ListDownloads returns snapshots of every known job
func (h *DownloadHandler) ListDownloads(c *gin.Context) {
	jobs := h.registry.All()
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    jobs,
		"count":   len(jobs),
	})
}

// FetchFile streams a completed job's artifact as an attachment
func (h *DownloadHandler) FetchFile(c *gin.Context) {
	id := c.Param("id")
	job, ok := h.registry.Get(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Download not found",
		})
		return
	}

	if job.Status != types.JobStatusCompleted {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Download not completed",
		})
		return
	}

	if job.FilePath == "" {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "File not found",
		})
		return
	}
	if _, err := os.Stat(job.FilePath); err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "File not found",
		})
		return
	}

	c.FileAttachment(job.FilePath, filepath.Base(job.FilePath))
}

// HandleWebSocket upgrades the connection and subscribes it to one job's
// progress; the id "all" subscribes to every job.
func (h *DownloadHandler) HandleWebSocket(c *gin.Context) {
	id := c.Param("id")
	if id != websocket.SubscribeAll {
		if _, ok := h.registry.Get(id); !ok {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Download not found",
			})
			return
		}
	}

	upgrader := websocket.GetUpgrader()
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("websocket upgrade failed: %v", err)
		return
	}

	client := websocket.NewClient(h.hub, conn, id)
	h.hub.RegisterClient(client)
	client.StartPumps()
}
