package server

import (
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// sendBufferSize is how many frames may wait for a slow client before new
// ones are dropped.
const sendBufferSize = 256

// frame is one websocket message, kept with its frame type so that it can
// be relayed verbatim.
type frame struct {
	Type int
	Data []byte
}

// Client is one relay connection.
type Client struct {
	ID          uuid.UUID
	Conn        *websocket.Conn
	Send        chan frame
	ConnectedAt time.Time
}

// NewClient wraps an upgraded connection.
func NewClient(conn *websocket.Conn) *Client {
	return &Client{
		ID:          uuid.New(),
		Conn:        conn,
		Send:        make(chan frame, sendBufferSize),
		ConnectedAt: time.Now(),
	}
}

// enqueue queues a frame for the write pump without blocking. It reports
// false when the client is too slow and the frame was dropped.
func (c *Client) enqueue(f frame) bool {
	select {
	case c.Send <- f:
		return true
	default:
		// Channel full, skip
		log.Printf("Could not relay frame to client %s", c.ID)
		return false
	}
}
