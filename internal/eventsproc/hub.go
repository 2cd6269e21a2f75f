package eventsproc

import (
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"github.com/tom-bartk/tuicub-server/internal/logger"
	"go.uber.org/zap"
)

// connectFrame is the one line a client must send immediately after
// connecting, binding the socket to a user (§4.10).
type connectFrame struct {
	Token string `json:"token"`
}

// Authorizer resolves a client's connect-frame token into a user id.
// *TokenRegistry is the concrete implementation the server wires up.
type Authorizer interface {
	AuthorizeUser(token string) (userID uuid.UUID, err error)
}

// DisconnectNotifier is called once a bound connection is lost, so the
// API process can react (§4.10: DisconnectGame via the disconnect
// callback, and lobby.Disconnect for gamerooms still in the lobby).
type DisconnectNotifier interface {
	NotifyDisconnect(userID uuid.UUID)
}

// Hub owns every live Connection and is the one place userID->socket
// lookups happen. It implements Sink, receiving each Connection's
// lifecycle callbacks (§9's explicit-ownership reinterpretation of the
// source's weak delegate pattern).
type Hub struct {
	auth     Authorizer
	notifier DisconnectNotifier

	mu          sync.RWMutex
	byConn      map[uuid.UUID]*Connection
	byUser      map[uuid.UUID]*Connection
}

func NewHub(auth Authorizer, notifier DisconnectNotifier) *Hub {
	return &Hub{
		auth:     auth,
		notifier: notifier,
		byConn:   make(map[uuid.UUID]*Connection),
		byUser:   make(map[uuid.UUID]*Connection),
	}
}

// Accept registers conn and starts its read loop. Callers should run
// Accept in its own goroutine per accepted socket.
func (h *Hub) Accept(c *Connection) {
	h.mu.Lock()
	h.byConn[c.ID] = c
	h.mu.Unlock()

	c.ReadLoop()
}

func (h *Hub) OnConnected(c *Connection) {
	logger.Get().Debug("connection_accepted", zap.String("connection_id", c.ID.String()))
}

// OnData handles the single connect frame a client is expected to send.
// Anything received after the connection is already bound is ignored
// (§4.10).
func (h *Hub) OnData(c *Connection, line []byte) {
	if c.State() != StateAccepted {
		return
	}

	var frame connectFrame
	if err := json.Unmarshal(line, &frame); err != nil {
		logger.Get().Warn("connect_frame_malformed", zap.String("connection_id", c.ID.String()))
		c.Close()
		return
	}

	userID, err := h.auth.AuthorizeUser(frame.Token)
	if err != nil {
		logger.Get().Warn("connect_frame_unauthorized", zap.String("connection_id", c.ID.String()))
		c.Close()
		return
	}

	if !c.Bind(userID) {
		return
	}

	h.mu.Lock()
	if prior, ok := h.byUser[userID]; ok && prior != c {
		prior.Close()
	}
	h.byUser[userID] = c
	h.mu.Unlock()

	logger.Get().Info("connection_bound",
		zap.String("connection_id", c.ID.String()),
		zap.String("user_id", userID.String()))
}

// OnDisconnected removes c from the hub and, if it had been bound,
// notifies the API process so it can run the disconnect business logic
// (§4.10).
func (h *Hub) OnDisconnected(c *Connection) {
	h.mu.Lock()
	delete(h.byConn, c.ID)
	userID, bound := c.UserID()
	if bound {
		if cur, ok := h.byUser[userID]; ok && cur == c {
			delete(h.byUser, userID)
		}
	}
	h.mu.Unlock()

	logger.Get().Debug("connection_lost", zap.String("connection_id", c.ID.String()))

	if bound {
		h.notifier.NotifyDisconnect(userID)
	}
}

// Send writes data to userID's bound connection, if any. Recipients not
// currently connected silently miss the event — they will receive the
// gameroom/game's current state on their next request (§4.9).
func (h *Hub) Send(userID uuid.UUID, data []byte) {
	h.mu.RLock()
	c, ok := h.byUser[userID]
	h.mu.RUnlock()
	if !ok {
		return
	}

	if err := c.Write(data); err != nil {
		logger.Get().Warn("send_failed",
			zap.String("user_id", userID.String()), zap.Error(err))
	}
}
