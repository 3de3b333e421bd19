// Package preview streams rendered frames to browser clients over a
// websocket so the staircase can be watched (and wiring verified)
// without standing on it. It is observe-only: there is no control
// surface here.
package preview

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/uPaymeiFixit/tims-led-staircase/internal/topology"
)

// clientSendBuffer is how many frames a slow viewer may fall behind
// before Broadcast starts skipping frames for them.
const clientSendBuffer = 8

type Server struct {
	mu      sync.RWMutex
	grid    *topology.Grid
	fps     int
	bright  float64
	start   time.Time
	frameID uint64
	clients map[*client]bool

	// live probes the scheduler's live-instance count; may be nil.
	live func() int
}

// client pairs a connection with its send queue. The write pump is the
// connection's only writer; everyone else goes through send.
type client struct {
	conn *websocket.Conn
	send chan []byte
}

func NewServer(g *topology.Grid, fps int, brightness float64, live func() int) *Server {
	return &Server{
		grid:    g,
		fps:     fps,
		bright:  brightness,
		start:   time.Now(),
		clients: map[*client]bool{},
		live:    live,
	}
}

// HandleFrames upgrades the connection and hands it to a write pump,
// which sends the topology handshake and then relays frames until the
// client disconnects.
func (s *Server) HandleFrames(w http.ResponseWriter, r *http.Request) {
	up := websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}
	conn, err := up.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	c := &client{conn: conn, send: make(chan []byte, clientSendBuffer)}
	go s.writePump(c)
	go s.readPump(c)
}

// writePump owns all writes on the connection. The handshake goes out
// before the client is registered, so Broadcast can never touch a
// connection mid-handshake.
func (s *Server) writePump(c *client) {
	defer c.conn.Close()
	if err := s.sendTopology(c.conn); err != nil {
		return
	}
	s.mu.Lock()
	s.clients[c] = true
	s.mu.Unlock()

	for msg := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(200 * time.Millisecond))
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			log.Debug().Err(err).Msg("preview write")
			return
		}
	}
}

// readPump drains the connection to detect disconnects. It unregisters
// the client before closing the send queue; Broadcast sends under the
// same lock, so no send can race the close.
func (s *Server) readPump(c *client) {
	defer func() {
		s.mu.Lock()
		delete(s.clients, c)
		s.mu.Unlock()
		close(c.send)
		c.conn.Close()
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	resp := map[string]any{
		"frame_id":   s.frameID,
		"uptime_s":   time.Since(s.start).Seconds(),
		"count":      s.grid.Count(),
		"rows":       s.grid.Rows(),
		"fps":        s.fps,
		"brightness": s.bright,
	}
	if s.live != nil {
		resp["live_instances"] = s.live()
	}
	_ = json.NewEncoder(w).Encode(resp)
}

func (s *Server) sendTopology(conn *websocket.Conn) error {
	type rowOut struct {
		Length        int    `json:"length"`
		Start         int    `json:"start"`
		Direction     string `json:"direction"`
		VirtualPrefix int    `json:"virtual_prefix,omitempty"`
	}
	rows := make([]rowOut, s.grid.Rows())
	for i := range rows {
		r := s.grid.Row(i)
		rows[i] = rowOut{
			Length:        r.Length,
			Start:         r.PhysicalStart,
			Direction:     r.Direction.String(),
			VirtualPrefix: r.VirtualPrefix,
		}
	}
	b, _ := json.Marshal(map[string]any{
		"count": s.grid.Count(),
		"rows":  rows,
	})
	conn.SetWriteDeadline(time.Now().Add(200 * time.Millisecond))
	return conn.WriteMessage(websocket.TextMessage, b)
}

// Broadcast queues one frame for every connected client. The send is
// non-blocking: a viewer whose queue is full just misses the frame, so
// the render loop never waits on the network.
func (s *Server) Broadcast(rgb []byte, frameID uint64) {
	s.mu.Lock()
	s.frameID = frameID
	s.mu.Unlock()

	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.clients) == 0 {
		return
	}
	type frame struct {
		T       int64  `json:"t"`
		FrameID uint64 `json:"frame_id"`
		RGB     []byte `json:"rgb"`
	}
	b, _ := json.Marshal(frame{T: time.Now().UnixNano(), FrameID: frameID, RGB: rgb})
	for c := range s.clients {
		select {
		case c.send <- b:
		default:
		}
	}
}
