package eventsproc

import (
	"sync"

	"github.com/google/uuid"
)

// recipientQueues serializes frame delivery per recipient while still
// dispatching to distinct recipients concurrently (§4.10: fan-out across
// recipients is concurrent, but within one recipient delivery order must
// equal bus arrival order). Each recipient gets its own buffered queue and
// worker goroutine, so one slow or blocked client only stalls its own
// queue, not anyone else's.
type recipientQueues struct {
	hub *Hub

	mu     sync.Mutex
	queues map[uuid.UUID]chan []byte
}

const recipientQueueSize = 64

func newRecipientQueues(hub *Hub) *recipientQueues {
	return &recipientQueues{hub: hub, queues: make(map[uuid.UUID]chan []byte)}
}

// enqueue hands data to recipientID's queue, starting its worker on first
// use. Enqueuing from a single caller goroutine (BusListener's one
// scanner loop per bus connection) is what guarantees FIFO order per
// recipient; the worker only ever drains, never reorders.
func (q *recipientQueues) enqueue(recipientID uuid.UUID, data []byte) {
	q.mu.Lock()
	ch, ok := q.queues[recipientID]
	if !ok {
		ch = make(chan []byte, recipientQueueSize)
		q.queues[recipientID] = ch
		go q.drain(recipientID, ch)
	}
	q.mu.Unlock()

	ch <- data
}

func (q *recipientQueues) drain(recipientID uuid.UUID, ch chan []byte) {
	for data := range ch {
		q.hub.Send(recipientID, data)
	}
}
