package websocket

import (
	"log"
	"sync"
	"time"

	"github.com/bestxosh-ops/video-downloader/types"
)

// SubscribeAll is the pseudo job id that receives every job's updates.
const SubscribeAll = "all"

// Hub fans job progress updates out to WebSocket subscribers
type Hub interface {
	Run()
	Broadcast(msg types.ProgressMessage)
	RegisterClient(client *Client)
	UnregisterClient(client *Client)
}

// hub maintains the active subscribers per job id
type hub struct {
	// subscribers keyed by job id; SubscribeAll receives everything
	clients map[string]map[*Client]bool

	broadcast  chan types.ProgressMessage
	register   chan *Client
	unregister chan *Client

	mu sync.RWMutex
}

// NewHub creates a new progress hub
func NewHub() Hub {
	return &hub{
		clients:    make(map[string]map[*Client]bool),
		broadcast:  make(chan types.ProgressMessage, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run starts the hub's event loop
func (h *hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if h.clients[client.jobID] == nil {
				h.clients[client.jobID] = make(map[*Client]bool)
			}
			h.clients[client.jobID][client] = true
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.clients[client.jobID]; ok {
				if clients[client] {
					delete(clients, client)
					close(client.send)
					if len(clients) == 0 {
						delete(h.clients, client.jobID)
					}
				}
			}
			h.mu.Unlock()

		case msg := <-h.broadcast:
			h.mu.Lock()
			h.deliver(msg.JobID, msg)
			h.deliver(SubscribeAll, msg)
			h.mu.Unlock()
		}
	}
}

// deliver sends msg to every subscriber under key, dropping clients whose
// send buffer is full. Callers hold the write lock.
func (h *hub) deliver(key string, msg types.ProgressMessage) {
	clients, ok := h.clients[key]
	if !ok {
		return
	}
	for client := range clients {
		select {
		case client.send <- msg:
		default:
			close(client.send)
			delete(clients, client)
		}
	}
	if len(clients) == 0 {
		delete(h.clients, key)
	}
}

// Broadcast queues a progress message for delivery. Messages are dropped
// rather than blocking job workers when the hub is saturated.
func (h *hub) Broadcast(msg types.ProgressMessage) {
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now()
	}
	select {
	case h.broadcast <- msg:
	default:
		log.Printf("progress broadcast dropped for job %s", msg.JobID)
	}
}

// RegisterClient subscribes a client to its job's updates
func (h *hub) RegisterClient(client *Client) {
	h.register <- client
}

// UnregisterClient removes a client from the hub
func (h *hub) UnregisterClient(client *Client) {
	h.unregister <- client
}
