package ws

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/rs/zerolog/log"
)

// Event is the envelope every dashboard client receives.
type Event struct {
	Type    string      `json:"type"`
	Action  string      `json:"action"`
	Data    interface{} `json:"data"`
	ActorID uint        `json:"actor_id,omitempty"`
	SentAt  time.Time   `json:"sent_at"`
}

type Hub struct {
	Clients    map[*websocket.Conn]bool
	Register   chan *websocket.Conn
	Unregister chan *websocket.Conn
	Broadcast  chan []byte
	mutex      sync.Mutex
}

func NewHub() *Hub {
	return &Hub{
		Clients:    make(map[*websocket.Conn]bool),
		Register:   make(chan *websocket.Conn),
		Unregister: make(chan *websocket.Conn),
		Broadcast:  make(chan []byte, 64),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case conn := <-h.Register:
			h.mutex.Lock()
			h.Clients[conn] = true
			n := len(h.Clients)
			h.mutex.Unlock()
			log.Debug().Int("clients", n).Msg("ws client connected")

		case conn := <-h.Unregister:
			h.mutex.Lock()
			if _, ok := h.Clients[conn]; ok {
				delete(h.Clients, conn)
				conn.Close()
			}
			h.mutex.Unlock()

		case message := <-h.Broadcast:
			h.mutex.Lock()
			for conn := range h.Clients {
				if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
					log.Warn().Err(err).Msg("ws write failed, dropping client")
					conn.Close()
					delete(h.Clients, conn)
				}
			}
			h.mutex.Unlock()
		}
	}
}

func (h *Hub) ClientCount() int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.Clients)
}

// Publish queues an order event for every connected client without blocking
// the caller. When the broadcast buffer is full the event is dropped.
func (h *Hub) Publish(action string, actorID uint, data interface{}) {
	msg, err := json.Marshal(Event{
		Type:    "sales_update",
		Action:  action,
		Data:    data,
		ActorID: actorID,
		SentAt:  time.Now(),
	})
	if err != nil {
		log.Error().Err(err).Str("action", action).Msg("ws event marshal failed")
		return
	}
	select {
	case h.Broadcast <- msg:
	default:
		log.Warn().Str("action", action).Int("buffered", len(h.Broadcast)).Msg("ws broadcast buffer full, event dropped")
	}
}
