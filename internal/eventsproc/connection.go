// Package eventsproc is the events process of §4.10: it accepts client
// TCP connections, binds each to a user via a connect frame, receives
// event frames from the API's message bus, and fans them out to bound
// recipients.
package eventsproc

import (
	"bufio"
	"errors"
	"net"
	"sync"

	"github.com/google/uuid"
)

// ErrTransportClosed is returned by Write once the connection's socket
// has been closed.
var ErrTransportClosed = errors.New("eventsproc: transport closed")

// State is a Connection's position in the §4.10 state machine.
type State int

const (
	StateAccepted State = iota
	StateBound
	StateLost
)

// Sink receives a Connection's lifecycle callbacks. The connection holds
// a non-owning reference to its Sink; the Sink's owner (the Hub) outlives
// any single Connection — this is the explicit-ownership reimplementation
// of the source's weak-reference ConnectionDelegate (§9).
type Sink interface {
	OnConnected(c *Connection)
	OnData(c *Connection, line []byte)
	OnDisconnected(c *Connection)
}

// Connection wraps one accepted client socket. Reads happen on a single
// goroutine per connection (ReadLoop); writeMu only makes each individual
// Write call atomic against concurrent callers — it does not by itself
// order those calls. Preserving bus arrival order per recipient (§4.10)
// is the caller's job (see recipientQueues), not this type's.
type Connection struct {
	ID uuid.UUID

	conn net.Conn
	sink Sink

	mu     sync.Mutex
	state  State
	userID *uuid.UUID

	writeMu sync.Mutex
}

// NewConnection wraps conn, ready for ReadLoop to be started.
func NewConnection(conn net.Conn, sink Sink) *Connection {
	return &Connection{
		ID:    uuid.New(),
		conn:  conn,
		sink:  sink,
		state: StateAccepted,
	}
}

// State returns the connection's current state.
func (c *Connection) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// UserID returns the bound user id, if any.
func (c *Connection) UserID() (uuid.UUID, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.userID == nil {
		return uuid.Nil, false
	}
	return *c.userID, true
}

// Bind transitions ACCEPTED -> BOUND, associating the connection with
// userID. Only the first valid token frame may bind a connection;
// subsequent attempts are ignored (§4.10: "Subsequent messages from the
// client are ignored").
func (c *Connection) Bind(userID uuid.UUID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateAccepted {
		return false
	}
	c.state = StateBound
	c.userID = &userID
	return true
}

// Write sends data as one line to the client, returning ErrTransportClosed
// if the socket is already gone.
func (c *Connection) Write(data []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if c.State() == StateLost {
		return ErrTransportClosed
	}

	line := append(append([]byte(nil), data...), '\n')
	if _, err := c.conn.Write(line); err != nil {
		return ErrTransportClosed
	}
	return nil
}

// ReadLoop blocks reading newline-delimited frames from the client until
// the socket closes or errors, then reports the loss to the sink. It is
// meant to run on its own goroutine, one per connection.
func (c *Connection) ReadLoop() {
	c.sink.OnConnected(c)

	scanner := bufio.NewScanner(c.conn)
	scanner.Buffer(make([]byte, 0, 4096), 1<<20)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		c.sink.OnData(c, append([]byte(nil), line...))
	}

	c.markLost()
	c.sink.OnDisconnected(c)
}

func (c *Connection) markLost() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = StateLost
}

// Close closes the underlying socket, triggering ReadLoop's scanner to
// end and report the disconnect.
func (c *Connection) Close() error {
	return c.conn.Close()
}
