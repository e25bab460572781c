package ws

import (
	"fmt"
	"sync"
)

// queue buffers outbound wire events for one participant's connection,
// decoupling the controller's synchronous notification from socket writes.
// Pushes never block: a full buffer drops the event with an error so one
// slow consumer cannot stall the room.
type queue struct {
	mu     sync.Mutex
	events chan []byte
	closed bool
}

func newQueue(bufferSize int) *queue {
	if bufferSize <= 0 {
		bufferSize = 64
	}
	return &queue{events: make(chan []byte, bufferSize)}
}

// push enqueues data for delivery.
//
// Postcondition: Data is enqueued in push order, or an error if the queue
// is closed or full.
func (q *queue) push(data []byte) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return fmt.Errorf("event queue is closed")
	}
	select {
	case q.events <- data:
		return nil
	default:
		return fmt.Errorf("event queue full (%d buffered)", cap(q.events))
	}
}

// channel returns the read side for the write pump. The channel closes
// after close; buffered events remain readable until drained.
func (q *queue) channel() <-chan []byte {
	return q.events
}

// close marks the queue closed. Further pushes fail; already-buffered
// events still drain to the consumer.
func (q *queue) close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if !q.closed {
		q.closed = true
		close(q.events)
	}
}
