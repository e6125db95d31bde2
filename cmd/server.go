package cmd

import (
	"log"
	"os"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/bestxosh-ops/video-downloader/config"
	"github.com/bestxosh-ops/video-downloader/engine"
	"github.com/bestxosh-ops/video-downloader/handlers"
	"github.com/bestxosh-ops/video-downloader/middleware"
	"github.com/bestxosh-ops/video-downloader/services"
	"github.com/bestxosh-ops/video-downloader/websocket"
)

// StartWebServer starts the web server. portFlagSet reports whether the
// port was given explicitly on the command line, in which case it wins
// over the SERVER_PORT environment variable.
func StartWebServer(port int, portFlagSet bool) {
	if mode := os.Getenv("GIN_MODE"); mode != "" {
		gin.SetMode(mode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	downloadDir, err := config.EnsureDownloadDir()
	if err != nil {
		log.Fatalf("Failed to create download directory: %v", err)
	}

	// Initialize services
	hub := websocket.NewHub()
	go hub.Run()

	eng := engine.NewYtDlp(config.GetEngineBinary())
	registry := services.NewRegistry(hub)
	dispatcher := services.NewDispatcher(registry, eng, downloadDir)

	// Initialize handlers
	videoHandler := handlers.NewVideoHandler(eng)
	downloadHandler := handlers.NewDownloadHandler(dispatcher, registry, hub)
	healthHandler := handlers.NewHealthHandler()

	// Setup router
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.Logging())

	setupRoutes(r, videoHandler, downloadHandler, healthHandler)

	portStr := resolvePort(port, portFlagSet)

	log.Printf("video-downloader server starting on port %s", portStr)
	if err := r.Run(":" + portStr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// resolvePort picks the listen port: an explicitly set flag wins, then
// SERVER_PORT, then the flag default.
func resolvePort(flagPort int, flagSet bool) string {
	if !flagSet {
		if serverPort := os.Getenv("SERVER_PORT"); serverPort != "" {
			return serverPort
		}
	}
	return strconv.Itoa(flagPort)
}

// setupRoutes configures all the HTTP routes
func setupRoutes(r *gin.Engine, videoHandler *handlers.VideoHandler, downloadHandler *handlers.DownloadHandler, healthHandler *handlers.HealthHandler) {
	// Health check endpoint
	r.GET("/health", healthHandler.HealthCheck)

	// API routes group
	apiGroup := r.Group("/api")
	{
		apiGroup.POST("/analyze", videoHandler.Analyze)

		apiGroup.POST("/download", downloadHandler.StartDownload)
		apiGroup.GET("/download/:id", downloadHandler.FetchFile)
		apiGroup.GET("/downloads", downloadHandler.ListDownloads)
		apiGroup.GET("/progress/:id", downloadHandler.GetProgress)

		// WebSocket progress push; ":id" may be "all"
		apiGroup.GET("/ws/progress/:id", downloadHandler.HandleWebSocket)
	}
}
