package server

import (
	"encoding/json"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
	"github.com/ttacon/chalk"

	"starduel/internal/protocol"
)

const (
	readTimeout  = 60 * time.Second
	pingInterval = 54 * time.Second
	writeTimeout = 10 * time.Second
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow connections from any origin
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// Server relays score events between game clients. It keeps no game
// state: every valid score frame is sent back out, unchanged, to all
// connected clients.
type Server struct {
	hub    *Hub
	router *mux.Router
}

// NewServer creates a server and starts its hub.
func NewServer() *Server {
	s := &Server{
		hub:    NewHub(),
		router: mux.NewRouter(),
	}
	s.router.HandleFunc("/ws", s.handleWebSocket).Methods("GET")
	s.router.HandleFunc("/healthz", s.handleHealth).Methods("GET")

	go s.hub.run()
	return s
}

// Handler returns the HTTP routes of the relay.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ClientCount returns the number of connected clients.
func (s *Server) ClientCount() int {
	return s.hub.ClientCount()
}

// Start listens on addr and serves until the listener fails.
func (s *Server) Start(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return errors.Wrapf(err, "listening on %s", addr)
	}
	return s.Serve(ln)
}

// Serve accepts connections on ln.
func (s *Server) Serve(ln net.Listener) error {
	log.Print(chalk.Green)
	log.Printf("Relay listening on %s (ws://%s/ws)", ln.Addr(), ln.Addr())
	log.Print(chalk.Reset)

	return http.Serve(ln, s.router)
}

// Close stops the hub. Open connections are closed by their write pumps.
func (s *Server) Close() {
	s.hub.Close()
}

// handleWebSocket handles WebSocket connections
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		return
	}

	client := NewClient(conn)
	if !s.hub.Register(client) {
		conn.Close()
		return
	}

	// Start client goroutines
	go s.handleClientReads(client)
	go s.handleClientWrites(client)
}

type healthResponse struct {
	Status  string `json:"status"`
	Clients int    `json:"clients"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	data, err := json.Marshal(healthResponse{Status: "ok", Clients: s.hub.ClientCount()})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

// handleClientReads reads frames from the client and relays score events
func (s *Server) handleClientReads(client *Client) {
	defer func() {
		client.Conn.Close()
		s.hub.Unregister(client)
	}()

	// Set read deadline and pong handler for keepalive
	client.Conn.SetReadDeadline(time.Now().Add(readTimeout))
	client.Conn.SetPongHandler(func(string) error {
		client.Conn.SetReadDeadline(time.Now().Add(readTimeout))
		return nil
	})

	for {
		frameType, data, err := client.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}

		if !s.accept(client, frameType, data) {
			continue
		}
		s.hub.Broadcast(frame{Type: frameType, Data: data})
	}
}

// accept reports whether a frame is a score event the relay forwards. The
// payload is not checked: relayed frames are passed on as received.
func (s *Server) accept(client *Client, frameType int, data []byte) bool {
	codec, ok := protocol.CodecForFrame(frameType)
	if !ok {
		log.Printf("Dropping frame of type %d from client %s", frameType, client.ID)
		return false
	}
	event, err := protocol.DecodeEvent(codec, data)
	if err != nil {
		log.Printf("Error decoding %s frame from client %s: %v", codec.Name(), client.ID, err)
		return false
	}
	if event != protocol.EventScore {
		log.Printf("Dropping %q event from client %s", event, client.ID)
		return false
	}
	return true
}

// handleClientWrites sends frames to the client
func (s *Server) handleClientWrites(client *Client) {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		client.Conn.Close()
	}()

	for {
		select {
		case f, ok := <-client.Send:
			client.Conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if !ok {
				client.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := client.Conn.WriteMessage(f.Type, f.Data); err != nil {
				log.Printf("Write error: %v", err)
				return
			}

		case <-ticker.C:
			client.Conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := client.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
