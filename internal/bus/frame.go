// Package bus implements the internal message bus of §4.9: a single
// persistent, authenticated, newline-delimited JSON TCP connection from
// each API process to the events process.
package bus

import "github.com/google/uuid"

// Frame is one line on the wire. The "recipents" field name is the
// wire's, not a typo we introduced — clients and the events process on
// the other side of this channel expect it verbatim.
type Frame struct {
	Token   string  `json:"token"`
	Message Message `json:"message"`
}

type Message struct {
	Recipients []uuid.UUID  `json:"recipents"`
	Event      EventPayload `json:"event"`
}

type EventPayload struct {
	Name string `json:"name"`
	Data any    `json:"data"`
}

// NameUserRegistered is a control frame, not a client-facing event: the
// API mirrors each newly issued user token to the events process so its
// TokenRegistry can resolve connect frames without a shared store
// (§4.5, §4.10). Its Recipients list is always empty; the events process
// recognizes it by name before treating a frame as ordinary fan-out.
const NameUserRegistered = "__user_registered__"

// UserRegisteredData is the Data payload of a NameUserRegistered frame.
type UserRegisteredData struct {
	UserID uuid.UUID `json:"user_id"`
	Token  string    `json:"token"`
}
