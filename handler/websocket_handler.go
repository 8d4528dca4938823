package handler

import (
	"sync"
	"time"

	"github.com/gofiber/contrib/websocket"

	"keepsakes/config/logger"
	"keepsakes/dto"
	"keepsakes/metrics"
	"keepsakes/middleware"
)

const (
	broadcastBuffer = 256
	writeWait       = 5 * time.Second
)

// eventConn is the part of a websocket connection the hub writes to.
type eventConn interface {
	WriteJSON(v interface{}) error
	SetWriteDeadline(t time.Time) error
	Close() error
}

type delivery struct {
	userID string
	conn   eventConn
}

// WebSocketHandler keeps the open realtime connections per user and fans
// message events out to them.
type WebSocketHandler struct {
	Log *logger.AppLogger
	sync.Mutex
	Clients   map[string]map[eventConn]bool // userId -> connections
	Broadcast chan dto.MessageEvent
	done      chan struct{}
	stopOnce  sync.Once
}

func NewWebSocketHandler(log *logger.AppLogger) *WebSocketHandler {
	if log == nil {
		log = logger.NewNopLogger()
	}
	handler := &WebSocketHandler{
		Log:       log,
		Clients:   make(map[string]map[eventConn]bool),
		Broadcast: make(chan dto.MessageEvent, broadcastBuffer),
		done:      make(chan struct{}),
	}
	go handler.runBroadcast()
	return handler
}

// Publish queues the event without blocking; it is dropped when the queue is
// full.
func (handler *WebSocketHandler) Publish(event dto.MessageEvent) {
	select {
	case handler.Broadcast <- event:
	default:
		handler.Log.WS.Warning.Warn().
			Str("type", string(event.Type)).
			Str("conversationId", event.ConversationID).
			Msg("Broadcast queue full, dropping event")
	}
}

func (handler *WebSocketHandler) HandleWebSocket(c *websocket.Conn) {
	userID, _ := c.Locals(middleware.UserIDKey).(string)
	if userID == "" {
		handler.Log.WS.Warning.Warn().Msg("Rejecting websocket without user")
		_ = c.Close()
		return
	}

	handler.registerClient(userID, c)
	defer func() {
		handler.removeClient(userID, c)
		_ = c.Close()
	}()

	// inbound frames are ignored; reading detects the disconnect
	for {
		if _, _, err := c.ReadMessage(); err != nil {
			handler.Log.WS.Trace.Trace().Err(err).Str("userId", userID).Msg("Websocket read ended")
			return
		}
	}
}

// Stop ends the broadcast loop.
func (handler *WebSocketHandler) Stop() {
	handler.stopOnce.Do(func() { close(handler.done) })
}

func (handler *WebSocketHandler) registerClient(userID string, conn eventConn) {
	handler.Mutex.Lock()
	defer handler.Mutex.Unlock()

	if handler.Clients[userID] == nil {
		handler.Clients[userID] = make(map[eventConn]bool)
	}
	handler.Clients[userID][conn] = true
	metrics.WebSocketConnections.Inc()
	handler.Log.WS.Info.Info().Str("userId", userID).Int("connections", len(handler.Clients[userID])).Msg("Client connected")
}

func (handler *WebSocketHandler) removeClient(userID string, conn eventConn) {
	handler.Mutex.Lock()
	defer handler.Mutex.Unlock()

	if clients, ok := handler.Clients[userID]; ok {
		if clients[conn] {
			delete(clients, conn)
			metrics.WebSocketConnections.Dec()
		}
		if len(clients) == 0 {
			delete(handler.Clients, userID)
		}
	}
	handler.Log.WS.Info.Info().Str("userId", userID).Msg("Client disconnected")
}

func (handler *WebSocketHandler) runBroadcast() {
	for {
		select {
		case <-handler.done:
			return
		case event := <-handler.Broadcast:
			handler.deliver(event)
		}
	}
}

// deliver writes outside the lock; a slow connection only delays this loop,
// bounded by writeWait, and is dropped when the write fails.
func (handler *WebSocketHandler) deliver(event dto.MessageEvent) {
	for _, target := range handler.targets(event.Recipients) {
		_ = target.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := target.conn.WriteJSON(event); err != nil {
			handler.Log.WS.Error.Error().Err(err).Str("userId", target.userID).Str("type", string(event.Type)).Msg("Error broadcasting event")
			_ = target.conn.Close()
			handler.removeClient(target.userID, target.conn)
		}
	}
}

// targets snapshots the open connections of each distinct recipient.
func (handler *WebSocketHandler) targets(recipients []string) []delivery {
	handler.Mutex.Lock()
	defer handler.Mutex.Unlock()

	seen := make(map[string]bool, len(recipients))
	var targets []delivery
	for _, userID := range recipients {
		if seen[userID] {
			continue
		}
		seen[userID] = true
		for conn := range handler.Clients[userID] {
			targets = append(targets, delivery{userID: userID, conn: conn})
		}
	}
	return targets
}
