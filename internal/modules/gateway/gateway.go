// Package gateway pushes live dashboard events (content updates, new
// contact messages) to connected admin clients over socket.io. Broadcasts
// fan out through Redis so every instance behind a load balancer delivers
// them.
package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	pkgredis "github.com/libribooks/core/internal/pkg/redis"
	socketio "github.com/zishang520/socket.io/v2/socket"
	"go.uber.org/zap"
)

const (
	namespaceAdmin = "/admin"
	redisChanAdmin = "lb:gateway:admin"
)

// Message is the envelope used by hub broadcasts and Redis fan-out. ID
// de-duplicates messages that arrive both locally and via Redis.
type Message struct {
	ID      string      `json:"id"`
	Event   string      `json:"event"`
	Payload interface{} `json:"payload"`
}

type gatewayPayload struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// Hub manages the admin namespace and cluster fan-out.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]struct{}
	seen    map[string]struct{}

	broadcast chan Message

	rc             *pkgredis.Client
	logger         *zap.Logger
	sio            *socketio.Server
	tokenValidator func(string) bool
}

func NewHub(rc *pkgredis.Client, logger *zap.Logger, tokenValidator func(string) bool) *Hub {
	h := &Hub{
		clients:        make(map[string]struct{}),
		seen:           make(map[string]struct{}),
		broadcast:      make(chan Message, 256),
		rc:             rc,
		logger:         logger,
		sio:            socketio.NewServer(nil, nil),
		tokenValidator: tokenValidator,
	}
	h.registerNamespace()
	return h
}

// Run starts the hub loop and Redis subscriber. Blocks until ctx is done.
func (h *Hub) Run(ctx context.Context) {
	if h.rc != nil {
		go h.subscribeRedis(ctx)
	}

	for {
		select {
		case <-ctx.Done():
			h.sio.Close(nil)
			return

		case msg := <-h.broadcast:
			h.deliver(msg)
			if h.rc == nil {
				continue
			}
			data, err := json.Marshal(msg)
			if err != nil {
				continue
			}
			if err := h.rc.Publish(ctx, redisChanAdmin, string(data)); err != nil && h.logger != nil {
				h.logger.Warn("gateway publish failed", zap.Error(err))
			}
		}
	}
}

// BroadcastAdmin queues an event for every connected admin client.
func (h *Hub) BroadcastAdmin(event string, payload interface{}) {
	msg := Message{ID: uuid.NewString(), Event: event, Payload: payload}
	h.markSeen(msg.ID)
	select {
	case h.broadcast <- msg:
	default:
		if h.logger != nil {
			h.logger.Warn("gateway broadcast queue full, dropping event", zap.String("event", event))
		}
	}
}

// ClientCount returns the number of connected admin clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Handler returns the socket.io HTTP handler mounted at /socket.io.
func (h *Hub) Handler() http.Handler {
	return h.sio.ServeHandler(nil)
}

func (h *Hub) deliver(msg Message) {
	h.sio.Of(namespaceAdmin, nil).Emit("message", gatewayPayload{Type: msg.Event, Data: msg.Payload})
}

// markSeen records a message id; returns false when already recorded. The
// set is bounded by periodic reset rather than eviction.
func (h *Hub) markSeen(id string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.seen[id]; ok {
		return false
	}
	if len(h.seen) > 4096 {
		h.seen = make(map[string]struct{})
	}
	h.seen[id] = struct{}{}
	return true
}

// subscribeRedis delivers broadcasts originating on other instances.
func (h *Hub) subscribeRedis(ctx context.Context) {
	pubsub := h.rc.Subscribe(ctx, redisChanAdmin)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return

		case redisMsg, ok := <-ch:
			if !ok {
				return
			}
			var msg Message
			if err := json.Unmarshal([]byte(redisMsg.Payload), &msg); err != nil {
				continue
			}
			if msg.ID != "" && !h.markSeen(msg.ID) {
				continue
			}
			h.deliver(msg)
		}
	}
}

func (h *Hub) registerNamespace() {
	adminNS := h.sio.Of(namespaceAdmin, nil)
	_ = adminNS.On("connection", func(args ...any) {
		client, ok := args[0].(*socketio.Socket)
		if !ok {
			return
		}

		token := normalizeToken(extractToken(client))
		if token == "" || h.tokenValidator == nil || !h.tokenValidator(token) {
			_ = client.Emit("message", gatewayPayload{Type: "AUTH_FAILED", Data: "auth failed"})
			client.Disconnect(true)
			return
		}

		sid := string(client.Id())
		h.mu.Lock()
		h.clients[sid] = struct{}{}
		h.mu.Unlock()
		_ = client.Emit("message", gatewayPayload{Type: "GATEWAY_CONNECT", Data: "WebSocket connected"})

		_ = client.On("disconnect", func(_ ...any) {
			h.mu.Lock()
			delete(h.clients, sid)
			h.mu.Unlock()
		})
	})
}

func extractToken(client *socketio.Socket) string {
	handshake := client.Handshake()
	if handshake == nil {
		return ""
	}
	if token := firstValue(handshake.Query, "token"); token != "" {
		return token
	}
	return firstValue(handshake.Headers, "authorization")
}

func firstValue(values map[string][]string, key string) string {
	for k, list := range values {
		if !strings.EqualFold(strings.TrimSpace(k), key) || len(list) == 0 {
			continue
		}
		if v := strings.TrimSpace(list[0]); v != "" {
			return v
		}
	}
	return ""
}

func normalizeToken(raw string) string {
	token := strings.TrimSpace(raw)
	if strings.HasPrefix(strings.ToLower(token), "bearer ") {
		return strings.TrimSpace(token[7:])
	}
	return token
}

// RegisterRoutes mounts socket.io and the stats endpoint.
func RegisterRoutes(rg *gin.RouterGroup, hub *Hub) {
	handler := gin.WrapH(hub.Handler())
	rg.Any("/socket.io", handler)
	rg.Any("/socket.io/*any", handler)

	rg.GET("/gateway/stats", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"admin": hub.ClientCount()})
	})
}
