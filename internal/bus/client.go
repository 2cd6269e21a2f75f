package bus

import (
	"encoding/json"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tom-bartk/tuicub-server/internal/event"
	"github.com/tom-bartk/tuicub-server/internal/logger"
	"go.uber.org/zap"
)

// Client is the API process's outbound connection to the events process.
// It dials lazily on first Send and reconnects on the next Send after a
// write failure — the reconnect policy spec.md leaves
// implementation-defined (§4.9).
type Client struct {
	addr       string
	tokenHash  string
	dialTimeout time.Duration

	mu   sync.Mutex
	conn net.Conn
}

// NewClient builds a Client dialing addr (host:port of the events
// process's bus listener), authenticating every frame with tokenHash
// (the SHA-256 hex digest of the configured messages_secret).
func NewClient(addr, tokenHash string) *Client {
	return &Client{addr: addr, tokenHash: tokenHash, dialTimeout: 5 * time.Second}
}

// ToDataFn renders an event's domain payload into its wire data object.
// Supplied by the caller (internal/dto) to avoid bus depending on the
// delivery-layer DTO package.
type ToDataFn func(event.Event) any

// Send writes evs as one frame per event, in order. Failures are the
// caller's to log; per §7, bus send failures must not fail the
// already-committed mutation that produced these events.
func (c *Client) Send(evs []event.Event, toData ToDataFn) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		if err := c.dialLocked(); err != nil {
			return err
		}
	}

	for _, ev := range evs {
		frame := Frame{
			Token: c.tokenHash,
			Message: Message{
				Recipients: ev.Recipients(),
				Event: EventPayload{
					Name: ev.Name(),
					Data: toData(ev),
				},
			},
		}
		line, err := json.Marshal(frame)
		if err != nil {
			return fmt.Errorf("marshal bus frame: %w", err)
		}
		line = append(line, '\n')

		if _, err := c.conn.Write(line); err != nil {
			c.conn.Close()
			c.conn = nil
			logger.Get().Warn("bus_send_failed", zap.String("event", ev.Name()), zap.Error(err))
			return fmt.Errorf("write bus frame: %w", err)
		}
	}
	return nil
}

// SendUserRegistered mirrors a freshly issued token to the events process
// so its TokenRegistry can authorize that user's connect frame later
// (§4.5, §4.10).
func (c *Client) SendUserRegistered(userID uuid.UUID, token string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		if err := c.dialLocked(); err != nil {
			return err
		}
	}

	frame := Frame{
		Token: c.tokenHash,
		Message: Message{
			Recipients: nil,
			Event: EventPayload{
				Name: NameUserRegistered,
				Data: UserRegisteredData{UserID: userID, Token: token},
			},
		},
	}
	line, err := json.Marshal(frame)
	if err != nil {
		return fmt.Errorf("marshal control frame: %w", err)
	}
	line = append(line, '\n')

	if _, err := c.conn.Write(line); err != nil {
		c.conn.Close()
		c.conn = nil
		return fmt.Errorf("write control frame: %w", err)
	}
	return nil
}

func (c *Client) dialLocked() error {
	conn, err := net.DialTimeout("tcp", c.addr, c.dialTimeout)
	if err != nil {
		return fmt.Errorf("dial events bus at %s: %w", c.addr, err)
	}
	c.conn = conn
	return nil
}

// Close releases the underlying connection, if any.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	return err
}
