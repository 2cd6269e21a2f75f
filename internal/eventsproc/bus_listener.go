package eventsproc

import (
	"bufio"
	"encoding/json"
	"net"

	"github.com/tom-bartk/tuicub-server/internal/bus"
	"github.com/tom-bartk/tuicub-server/internal/logger"
	"go.uber.org/zap"
)

// MessageAuthorizer validates the shared-secret digest on an inbound bus
// frame (§4.9).
type MessageAuthorizer interface {
	AuthorizeMessage(digest string) error
}

// BusListener accepts the API process's single persistent bus
// connection(s) and fans each frame out to its recipients via the Hub
// (§4.9, §4.10). Unlike Server, frames here are whole JSON objects
// rather than client protocol lines, so it runs its own accept/read
// loop instead of reusing Connection. Control frames (bus.NameUserRegistered)
// are intercepted here and fed to registry instead of being fanned out.
type BusListener struct {
	auth     MessageAuthorizer
	hub      *Hub
	registry *TokenRegistry
	queues   *recipientQueues
}

func NewBusListener(auth MessageAuthorizer, hub *Hub, registry *TokenRegistry) *BusListener {
	return &BusListener{auth: auth, hub: hub, registry: registry, queues: newRecipientQueues(hub)}
}

// ListenAndServe blocks accepting bus connections on addr.
func (b *BusListener) ListenAndServe(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	defer ln.Close()

	logger.Get().Info("bus_listener_listening", zap.String("addr", addr))

	for {
		conn, err := ln.Accept()
		if err != nil {
			logger.Get().Error("bus_listener_accept_failed", zap.Error(err))
			continue
		}
		go b.handle(conn)
	}
}

func (b *BusListener) handle(conn net.Conn) {
	defer conn.Close()

	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 0, 4096), 1<<20)
	for scanner.Scan() {
		b.handleFrame(scanner.Bytes())
	}
}

func (b *BusListener) handleFrame(line []byte) {
	var frame bus.Frame
	if err := json.Unmarshal(line, &frame); err != nil {
		logger.Get().Warn("bus_frame_malformed")
		return
	}

	if err := b.auth.AuthorizeMessage(frame.Token); err != nil {
		logger.Get().Warn("bus_frame_unauthorized")
		return
	}

	if frame.Message.Event.Name == bus.NameUserRegistered {
		b.handleUserRegistered(frame.Message.Event.Data)
		return
	}

	data, err := json.Marshal(frame.Message.Event)
	if err != nil {
		logger.Get().Warn("bus_frame_event_encode_failed", zap.Error(err))
		return
	}

	// Fan-out is concurrent across recipients, but each recipient's own
	// queue is FIFO, so one slow/blocked client delays only itself, never
	// reordering frames for anyone (§4.10).
	for _, recipient := range frame.Message.Recipients {
		b.queues.enqueue(recipient, data)
	}
}

func (b *BusListener) handleUserRegistered(rawData any) {
	encoded, err := json.Marshal(rawData)
	if err != nil {
		logger.Get().Warn("user_registered_frame_malformed", zap.Error(err))
		return
	}
	var payload bus.UserRegisteredData
	if err := json.Unmarshal(encoded, &payload); err != nil {
		logger.Get().Warn("user_registered_frame_malformed", zap.Error(err))
		return
	}
	b.registry.Register(payload.Token, payload.UserID)
}
