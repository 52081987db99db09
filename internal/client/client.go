package client

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/pkg/errors"

	"starduel/internal/protocol"
)

const (
	sendBufferSize    = 64
	updateBufferSize  = 64
	writeTimeout      = 10 * time.Second
	closeGraceTimeout = time.Second
)

// Client is a persistent connection to the score relay. Emit never
// blocks; received score updates arrive on Updates. When the connection
// is lost Done is closed and the client stays offline.
type Client struct {
	conn  *websocket.Conn
	codec protocol.Codec

	send    chan []byte
	updates chan protocol.ScoreUpdate

	done      chan struct{}
	quit      chan struct{}
	closeOnce sync.Once
	lostOnce  sync.Once
}

// Dial connects to the relay at url and starts the connection pumps.
func Dial(ctx context.Context, url string, codec protocol.Codec) (*Client, error) {
	if codec == nil {
		codec = protocol.JSON
	}
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "connecting to relay %s", url)
	}

	c := &Client{
		conn:    conn,
		codec:   codec,
		send:    make(chan []byte, sendBufferSize),
		updates: make(chan protocol.ScoreUpdate, updateBufferSize),
		done:    make(chan struct{}),
		quit:    make(chan struct{}),
	}
	go c.readPump()
	go c.writePump()

	log.Printf("Connected to relay %s (%s)", url, codec.Name())
	return c, nil
}

// Emit queues a score update for the relay. It drops the update when the
// connection is gone or the outbound buffer is full.
func (c *Client) Emit(u protocol.ScoreUpdate) {
	select {
	case <-c.done:
		return
	default:
	}

	data, err := protocol.EncodeScore(c.codec, u)
	if err != nil {
		log.Printf("Error encoding score update: %v", err)
		return
	}

	select {
	case c.send <- data:
	default:
		log.Printf("Dropping score update %+v, send buffer full", u)
	}
}

// Updates delivers validated score updates from the relay. The channel is
// closed when the connection ends.
func (c *Client) Updates() <-chan protocol.ScoreUpdate {
	return c.updates
}

// Done is closed once the connection is lost or closed.
func (c *Client) Done() <-chan struct{} {
	return c.done
}

// Close ends the connection. It is safe to call more than once.
func (c *Client) Close() error {
	c.closeOnce.Do(func() { close(c.quit) })

	select {
	case <-c.done:
	case <-time.After(closeGraceTimeout):
		c.conn.Close()
		<-c.done
	}
	return nil
}

func (c *Client) lost() {
	c.lostOnce.Do(func() { close(c.done) })
}

// readPump decodes frames from the relay until the connection fails.
func (c *Client) readPump() {
	defer func() {
		c.conn.Close()
		c.lost()
		close(c.updates)
	}()

	for {
		frameType, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("Relay connection lost: %v", err)
			}
			return
		}

		codec, ok := protocol.CodecForFrame(frameType)
		if !ok {
			continue
		}
		u, err := protocol.DecodeScore(codec, data)
		if err != nil {
			log.Printf("Ignoring relay frame: %v", err)
			continue
		}

		select {
		case c.updates <- u:
		case <-c.quit:
			return
		}
	}
}

// writePump sends queued updates, and the close handshake on Close.
func (c *Client) writePump() {
	defer c.conn.Close()

	for {
		select {
		case data := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.conn.WriteMessage(c.codec.FrameType(), data); err != nil {
				log.Printf("Write error: %v", err)
				return
			}

		case <-c.quit:
			c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			c.conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			// The read pump ends when the relay answers or the grace
			// period in Close runs out.
			<-c.done
			return

		case <-c.done:
			return
		}
	}
}
