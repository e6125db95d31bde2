package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/bestxosh-ops/video-downloader/engine"
	"github.com/bestxosh-ops/video-downloader/services"
	"github.com/bestxosh-ops/video-downloader/types"
	"github.com/bestxosh-ops/video-downloader/websocket"
)

// fakeEngine scripts probe and download behavior for handler tests
type fakeEngine struct {
	mu        sync.Mutex
	probeInfo *engine.MediaInfo
	probeErr  error
	probed    []string
	download  func(spec engine.Spec, fn engine.ProgressFunc) error
}

func (f *fakeEngine) Probe(ctx context.Context, url string) (*engine.MediaInfo, error) {
	f.mu.Lock()
	f.probed = append(f.probed, url)
	f.mu.Unlock()
	if f.probeErr != nil {
		return nil, f.probeErr
	}
	return f.probeInfo, nil
}

func (f *fakeEngine) Download(ctx context.Context, spec engine.Spec, fn engine.ProgressFunc) error {
	if f.download == nil {
		fn(engine.Update{Status: engine.StatusFinished, Filename: "downloads/out.mp4"})
		return nil
	}
	return f.download(spec, fn)
}

// testServer wires the real handlers into a throwaway HTTP server
type testServer struct {
	*httptest.Server
	Registry *services.Registry
}

func newTestServer(t *testing.T, eng engine.Engine) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	hub := websocket.NewHub()
	go hub.Run()

	registry := services.NewRegistry(hub)
	dispatcher := services.NewDispatcher(registry, eng, t.TempDir())

	videoHandler := NewVideoHandler(eng)
	downloadHandler := NewDownloadHandler(dispatcher, registry, hub)
	healthHandler := NewHealthHandler()

	router := gin.New()
	router.Use(gin.Recovery())
	router.GET("/health", healthHandler.HealthCheck)
	apiGroup := router.Group("/api")
	{
		apiGroup.POST("/analyze", videoHandler.Analyze)
		apiGroup.POST("/download", downloadHandler.StartDownload)
		apiGroup.GET("/download/:id", downloadHandler.FetchFile)
		apiGroup.GET("/downloads", downloadHandler.ListDownloads)
		apiGroup.GET("/progress/:id", downloadHandler.GetProgress)
		apiGroup.GET("/ws/progress/:id", downloadHandler.HandleWebSocket)
	}

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return &testServer{Server: server, Registry: registry}
}

// doJSON performs a request and unmarshals the JSON response into target
func (s *testServer) doJSON(t *testing.T, method, path string, body, target interface{}) *http.Response {
	t.Helper()

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, s.URL+path, reqBody)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()

	if target != nil {
		require.NoError(t, json.Unmarshal(data, target), "body: %s", data)
	}
	return resp
}

func (s *testServer) getJSON(t *testing.T, path string, target interface{}) *http.Response {
	return s.doJSON(t, http.MethodGet, path, nil, target)
}

func (s *testServer) postJSON(t *testing.T, path string, body, target interface{}) *http.Response {
	return s.doJSON(t, http.MethodPost, path, body, target)
}

// progressResponse mirrors the GET /api/progress/:id envelope
type progressResponse struct {
	Success bool              `json:"success"`
	Data    types.DownloadJob `json:"data"`
}

// waitForJobStatus polls the progress endpoint until the job reaches the
// wanted status
func (s *testServer) waitForJobStatus(t *testing.T, id string, status types.JobStatus) types.DownloadJob {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		var response progressResponse
		resp := s.getJSON(t, "/api/progress/"+id, &response)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		if response.Data.Status == status {
			return response.Data
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("job %s did not reach status %q in time", id, status)
	return types.DownloadJob{}
}
