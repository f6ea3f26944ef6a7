package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"ppods-be/internal/dto"
	"ppods-be/internal/pkg/logger"
	"ppods-be/pkg/appstate"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ClusterChannel carries state pushes between instances sharing one redis.
const ClusterChannel = "ppods_state_events"

const outboundBuffer = 1024

type clusterMessage struct {
	Origin       string          `json:"origin"`
	TargetUserID string          `json:"target_user_id"`
	Message      json.RawMessage `json:"message"`
}

// Hub fans committed state snapshots out to every connection of the owning user.
type Hub struct {
	// UserID -> connections (multi-device)
	clients map[string][]*Client
	mu      sync.RWMutex

	// Redis connection for cross-instance delivery; nil on a single instance.
	rdb        *redis.Client
	instanceID string
	outbound   chan clusterMessage

	logger logger.ILogger
}

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		clients:    make(map[string][]*Client),
		rdb:        rdb,
		instanceID: uuid.NewString(),
		outbound:   make(chan clusterMessage, outboundBuffer),
		logger:     log,
	}
}

// EncodeState renders the frame pushed to the view layer.
func EncodeState(st appstate.State) []byte {
	data, _ := json.Marshal(map[string]interface{}{
		"type": "state",
		"data": dto.NewStateResponse(st),
	})
	return data
}

// Run relays pushes through redis until ctx is done. Without redis it only waits.
func (h *Hub) Run(ctx context.Context) {
	if h.rdb == nil {
		<-ctx.Done()
		return
	}

	go h.subscribeToRedis(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-h.outbound:
			payload, _ := json.Marshal(msg)
			if err := h.rdb.Publish(ctx, ClusterChannel, payload).Err(); err != nil {
				h.logger.Warn("Hub", "Failed to publish to redis", map[string]interface{}{
					"user_id": msg.TargetUserID,
					"error":   err.Error(),
				})
			}
		}
	}
}

// Register adds c synchronously so a snapshot sent right after cannot miss a commit.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	h.clients[c.UserID] = append(h.clients[c.UserID], c)
	n := len(h.clients[c.UserID])
	h.mu.Unlock()

	h.logger.Info("Hub", "Client registered", map[string]interface{}{"user_id": c.UserID, "connections": n})
}

// Unregister removes c and closes its send channel. Calling it twice is harmless.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients := h.clients[c.UserID]
	for i, existing := range clients {
		if existing == c {
			h.clients[c.UserID] = append(clients[:i], clients[i+1:]...)
			close(c.Send)
			break
		}
	}
	if len(h.clients[c.UserID]) == 0 {
		delete(h.clients, c.UserID)
	}
}

// SendState pushes st to the user's local connections and, with redis, to other
// instances. It never blocks: it runs inside the store's commit.
func (h *Hub) SendState(userID string, st appstate.State) {
	data := EncodeState(st)
	h.deliverLocal(userID, data)

	if h.rdb == nil {
		return
	}
	select {
	case h.outbound <- clusterMessage{Origin: h.instanceID, TargetUserID: userID, Message: data}:
	default:
		h.logger.Warn("Hub", "Cluster outbound buffer full, dropping push", map[string]interface{}{"user_id": userID})
	}
}

// SendSnapshot pushes st to one registered connection, typically right after Register.
func (h *Hub) SendSnapshot(c *Client, st appstate.State) {
	data := EncodeState(st)

	h.mu.RLock()
	registered := false
	for _, existing := range h.clients[c.UserID] {
		if existing == c {
			registered = true
			break
		}
	}
	if registered {
		select {
		case c.Send <- data:
		default:
		}
	}
	h.mu.RUnlock()
}

func (h *Hub) ConnectionCount(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}

func (h *Hub) deliverLocal(userID string, data []byte) {
	var slow []*Client

	h.mu.RLock()
	for _, c := range h.clients[userID] {
		select {
		case c.Send <- data:
		default:
			slow = append(slow, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range slow {
		h.logger.Warn("Hub", "Client send buffer full, disconnecting", map[string]interface{}{"user_id": userID})
		h.Unregister(c)
	}
}

func (h *Hub) subscribeToRedis(ctx context.Context) {
	pubsub := h.rdb.Subscribe(ctx, ClusterChannel)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var payload clusterMessage
			if err := json.Unmarshal([]byte(msg.Payload), &payload); err != nil {
				h.logger.Warn("Hub", "Malformed cluster message", map[string]interface{}{"error": err.Error()})
				continue
			}
			if payload.Origin == h.instanceID {
				continue
			}
			h.deliverLocal(payload.TargetUserID, payload.Message)
		}
	}
}
