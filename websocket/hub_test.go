package websocket

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	gws "github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bestxosh-ops/video-downloader/types"
)

// newHubServer starts a hub and an HTTP endpoint that subscribes each
// connection to the job id given in the query string
func newHubServer(t *testing.T) (Hub, *httptest.Server) {
	t.Helper()

	hub := NewHub()
	go hub.Run()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		client := NewClient(hub, conn, r.URL.Query().Get("job"))
		hub.RegisterClient(client)
		client.StartPumps()
	}))
	t.Cleanup(server.Close)

	return hub, server
}

func dial(t *testing.T, server *httptest.Server, jobID string) *gws.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/?job=" + jobID
	conn, _, err := gws.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *gws.Conn) types.ProgressMessage {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg types.ProgressMessage
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

// TestHubBroadcastToJobSubscriber verifies a subscriber receives its own
// job's updates
func TestHubBroadcastToJobSubscriber(t *testing.T) {
	hub, server := newHubServer(t)
	conn := dial(t, server, "job-1")

	// Registration races the broadcast; give the hub a beat.
	time.Sleep(50 * time.Millisecond)

	hub.Broadcast(types.ProgressMessage{
		JobID:    "job-1",
		Status:   types.JobStatusDownloading,
		Progress: "42%",
		Speed:    "2.1MiB/s",
	})

	msg := readMessage(t, conn)
	assert.Equal(t, "job-1", msg.JobID)
	assert.Equal(t, types.JobStatusDownloading, msg.Status)
	assert.Equal(t, "42%", msg.Progress)
	assert.False(t, msg.Timestamp.IsZero())
}

// TestHubBroadcastToAllSubscriber verifies the "all" subscription sees
// every job's updates
func TestHubBroadcastToAllSubscriber(t *testing.T) {
	hub, server := newHubServer(t)
	conn := dial(t, server, SubscribeAll)

	time.Sleep(50 * time.Millisecond)

	hub.Broadcast(types.ProgressMessage{JobID: "job-1", Status: types.JobStatusCompleted, FilePath: "downloads/a.mp4"})
	hub.Broadcast(types.ProgressMessage{JobID: "job-2", Status: types.JobStatusError, Error: "boom"})

	first := readMessage(t, conn)
	second := readMessage(t, conn)

	assert.Equal(t, "job-1", first.JobID)
	assert.Equal(t, "downloads/a.mp4", first.FilePath)
	assert.Equal(t, "job-2", second.JobID)
	assert.Equal(t, "boom", second.Error)
}
