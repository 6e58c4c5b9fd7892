// Package scanfeed pushes recorded badge scans to organizer dashboards
// over websockets.
package scanfeed

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"lanyard/models"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
)

type Client struct {
	Conn *websocket.Conn
	Send chan []byte
}

// Hub fans recorded scans out to every connected dashboard. Slow
// clients are dropped rather than allowed to back up the feed.
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	done       chan struct{}
	mu         sync.Mutex
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte),
		done:       make(chan struct{}),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case c := <-h.register:
			h.mu.Lock()
			h.clients[c] = true
			h.mu.Unlock()

		case c := <-h.unregister:
			h.mu.Lock()
			if h.clients[c] {
				delete(h.clients, c)
				close(c.Send)
			}
			h.mu.Unlock()

		case data := <-h.broadcast:
			h.mu.Lock()
			for c := range h.clients {
				select {
				case c.Send <- data:
				default:
					close(c.Send)
					delete(h.clients, c)
				}
			}
			h.mu.Unlock()

		case <-h.done:
			h.mu.Lock()
			for c := range h.clients {
				close(c.Send)
				delete(h.clients, c)
			}
			h.mu.Unlock()
			return
		}
	}
}

// Stop closes all client channels and ends Run.
func (h *Hub) Stop() {
	close(h.done)
}

// BroadcastScan satisfies the scan processor's Feed interface.
func (h *Hub) BroadcastScan(s *models.BadgeScan) {
	data, err := json.Marshal(s)
	if err != nil {
		log.Printf("[scanfeed] marshal failed: %v", err)
		return
	}
	select {
	case h.broadcast <- data:
	case <-h.done:
	case <-time.After(time.Second):
		// the feed is best-effort; never stall a scan on it
	}
}

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

// WebSocketHandler registers a dashboard client and writes the feed.
func WebSocketHandler(hub *Hub) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Println("upgrade:", err)
			return
		}
		client := &Client{
			Conn: conn,
			Send: make(chan []byte, 256),
		}
		hub.register <- client

		go func() {
			defer conn.Close()
			for data := range client.Send {
				if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
					break
				}
			}
		}()

		go func() {
			defer func() { hub.unregister <- client }()
			for {
				// the feed is write-only; drain pings and drop on error
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()
	}
}
