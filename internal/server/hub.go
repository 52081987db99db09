package server

import (
	"log"
	"sync"

	"github.com/google/uuid"
)

// Hub owns the set of connected clients. Every change to the set and
// every broadcast is handled by the single goroutine running run.
type Hub struct {
	clients map[uuid.UUID]*Client

	register   chan *Client
	unregister chan *Client
	broadcast  chan frame
	count      chan chan int
	done       chan struct{}
	closeOnce  sync.Once
}

// NewHub creates a hub. Call run in its own goroutine.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[uuid.UUID]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan frame),
		count:      make(chan chan int),
		done:       make(chan struct{}),
	}
}

func (h *Hub) run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client.ID] = client
			log.Printf("Client %s joined (%d connected)", client.ID, len(h.clients))

		case client := <-h.unregister:
			if _, ok := h.clients[client.ID]; !ok {
				continue
			}
			delete(h.clients, client.ID)
			close(client.Send)
			log.Printf("Client %s left (%d connected)", client.ID, len(h.clients))

		case f := <-h.broadcast:
			for _, client := range h.clients {
				client.enqueue(f)
			}

		case reply := <-h.count:
			reply <- len(h.clients)

		case <-h.done:
			for id, client := range h.clients {
				delete(h.clients, id)
				close(client.Send)
			}
			return
		}
	}
}

// Register adds a client. It reports false once the hub is closed.
func (h *Hub) Register(c *Client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	}
}

// Unregister removes a client and closes its send channel. Unknown
// clients are ignored.
func (h *Hub) Unregister(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// Broadcast queues f for every connected client, the sender included.
func (h *Hub) Broadcast(f frame) {
	select {
	case h.broadcast <- f:
	case <-h.done:
	}
}

// ClientCount returns the number of connected clients, or 0 once the hub
// is closed.
func (h *Hub) ClientCount() int {
	reply := make(chan int, 1)
	select {
	case h.count <- reply:
		return <-reply
	case <-h.done:
		return 0
	}
}

// Close stops the hub and closes every client's send channel.
func (h *Hub) Close() {
	h.closeOnce.Do(func() { close(h.done) })
}
