package notification

import (
	"encoding/json"
	"sync"

	"github.com/gofiber/contrib/websocket"
	"go.uber.org/zap"
)

// Hub tracks live websocket connections per user and pushes notifications
// to them as they are created. Delivery is best-effort; the stored record
// is the durable copy.
type Hub struct {
	mu     sync.RWMutex
	conns  map[string][]*websocket.Conn
	logger *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		conns:  make(map[string][]*websocket.Conn),
		logger: logger,
	}
}

func (h *Hub) Register(userID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conns[userID] = append(h.conns[userID], conn)
}

func (h *Hub) Unregister(userID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	remaining := h.conns[userID][:0]
	for _, c := range h.conns[userID] {
		if c != conn {
			remaining = append(remaining, c)
		}
	}
	if len(remaining) == 0 {
		delete(h.conns, userID)
	} else {
		h.conns[userID] = remaining
	}
}

// Push sends the notification to every open connection of the user.
func (h *Hub) Push(n Notification) {
	payload, err := json.Marshal(n)
	if err != nil {
		h.logger.Error("marshal notification", zap.Error(err))
		return
	}

	h.mu.RLock()
	conns := append([]*websocket.Conn(nil), h.conns[n.UserID]...)
	h.mu.RUnlock()

	for _, conn := range conns {
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			h.logger.Debug("websocket push failed", zap.String("user_id", n.UserID), zap.Error(err))
		}
	}
}
