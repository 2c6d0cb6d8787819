package websocket

import (
	"encoding/json"
	"sync"

	"github.com/pool-ladder/pool-ladder-backend/pkg/logger"
)

// Event 구독자에게 내려보내는 실시간 이벤트
type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

// Hub 웹소켓 연결 관리 및 브로드캐스트
// 순위표 화면은 이 허브를 구독해서 포지션 변경을 즉시 반영한다.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run 허브 이벤트 루프 (고루틴으로 실행)
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			logger.Debug("WebSocket client connected", "total", h.ClientCount())

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()
			logger.Debug("WebSocket client disconnected", "total", h.ClientCount())

		case message := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// 느린 클라이언트는 버린다
					close(client.send)
					delete(h.clients, client)
				}
			}
			h.mu.Unlock()
		}
	}
}

// Broadcast 모든 구독자에게 이벤트 전송. 실패해도 호출자를 막지 않는다.
func (h *Hub) Broadcast(event string, payload interface{}) {
	data, err := json.Marshal(Event{Type: event, Payload: payload})
	if err != nil {
		logger.Error("Failed to marshal websocket event", "event", event, "error", err)
		return
	}

	select {
	case h.broadcast <- data:
	default:
		logger.Warn("WebSocket broadcast buffer full, dropping event", "event", event)
	}
}

// ClientCount 현재 연결 수
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
