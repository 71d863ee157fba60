// Package control serves a websocket API that lets external tools drive a
// running session and watch its events.
package control

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10

	sendBuffer    = 64
	commandBuffer = 64
)

var upgrader = websocket.Upgrader{
	// The server binds to loopback by default; any local page may connect.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Server is the websocket hub. Commands from clients are queued for the
// frontend loop; events from the session are broadcast to every client.
type Server struct {
	commands   chan Command
	broadcast  chan any
	direct     chan directMessage
	register   chan *client
	unregister chan *client
	done       chan struct{}
	closeOnce  sync.Once

	httpServer *http.Server
	listener   net.Listener
}

type client struct {
	id   string
	conn *websocket.Conn
	send chan any
	srv  *Server
}

type directMessage struct {
	to  string
	msg any
}

// NewServer starts the hub. Call Close to stop it.
func NewServer() *Server {
	s := &Server{
		commands:   make(chan Command, commandBuffer),
		broadcast:  make(chan any, 256),
		direct:     make(chan directMessage, 256),
		register:   make(chan *client),
		unregister: make(chan *client),
		done:       make(chan struct{}),
	}
	go s.run()
	return s
}

// Handler returns the HTTP handler serving the websocket at /ws.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	return mux
}

// ListenAndServe listens on addr and serves in the background. It returns
// once the listener is bound.
func (s *Server) ListenAndServe(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	s.listener = ln
	s.httpServer = &http.Server{Handler: s.Handler(), ReadHeaderTimeout: 10 * time.Second}
	log.Printf("[control] listening on ws://%s/ws", ln.Addr())
	go func() {
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("Warning: control server stopped: %v", err)
		}
	}()
	return nil
}

// Addr is the bound address, or nil before ListenAndServe.
func (s *Server) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Close stops the listener and the hub and disconnects every client.
func (s *Server) Close() error {
	var err error
	s.closeOnce.Do(func() {
		if s.httpServer != nil {
			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			err = s.httpServer.Shutdown(ctx)
		}
		close(s.done)
	})
	return err
}

// Commands returns the queue the frontend drains between frames.
func (s *Server) Commands() <-chan Command {
	return s.commands
}

// Broadcast sends msg to every connected client. It never blocks; when
// the hub is backed up the message is dropped.
func (s *Server) Broadcast(msg any) {
	select {
	case s.broadcast <- msg:
	case <-s.done:
	default:
		log.Printf("Warning: control broadcast queue full, dropping message")
	}
}

// Send delivers msg to one client. Unknown clients are ignored.
func (s *Server) Send(clientID string, msg any) {
	select {
	case s.direct <- directMessage{to: clientID, msg: msg}:
	case <-s.done:
	default:
		log.Printf("Warning: control reply queue full, dropping message")
	}
}

func (s *Server) run() {
	clients := make(map[string]*client)
	drop := func(c *client) {
		if _, ok := clients[c.id]; ok {
			delete(clients, c.id)
			close(c.send)
		}
	}
	deliver := func(c *client, msg any) {
		select {
		case c.send <- msg:
		default:
			log.Printf("Warning: control client %s is not reading, disconnecting", c.id)
			drop(c)
		}
	}

	for {
		select {
		case c := <-s.register:
			clients[c.id] = c
			deliver(c, Hello{Event: "hello", Client: c.id})
			log.Printf("[control] client %s connected", c.id)

		case c := <-s.unregister:
			if _, ok := clients[c.id]; ok {
				drop(c)
				log.Printf("[control] client %s disconnected", c.id)
			}

		case msg := <-s.broadcast:
			for _, c := range clients {
				deliver(c, msg)
			}

		case dm := <-s.direct:
			if c, ok := clients[dm.to]; ok {
				deliver(c, dm.msg)
			}

		case <-s.done:
			for _, c := range clients {
				drop(c)
			}
			return
		}
	}
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("Warning: websocket upgrade failed: %v", err)
		return
	}
	c := &client{
		id:   uuid.NewString(),
		conn: conn,
		send: make(chan any, sendBuffer),
		srv:  s,
	}
	select {
	case s.register <- c:
	case <-s.done:
		conn.Close()
		return
	}
	go c.writePump()
	go c.readPump()
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := c.conn.WriteJSON(msg); err != nil {
				log.Printf("Warning: failed to write to control client %s: %v", c.id, err)
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *client) readPump() {
	defer func() {
		select {
		case c.srv.unregister <- c:
		case <-c.srv.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(64 * 1024)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var cmd Command
		if err := c.conn.ReadJSON(&cmd); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("Warning: control client %s: %v", c.id, err)
			}
			return
		}
		cmd.Client = c.id
		if err := cmd.Validate(); err != nil {
			c.srv.Send(c.id, Result{Event: "result", ID: cmd.ID, Error: err.Error()})
			continue
		}
		select {
		case c.srv.commands <- cmd:
		default:
			c.srv.Send(c.id, Result{Event: "result", ID: cmd.ID, Error: "command queue full"})
		}
	}
}
