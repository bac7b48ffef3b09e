package mqtt

import "log"

// pendingMsg stores a serialized MQTT message for replay after reconnection.
type pendingMsg struct {
	topic    string
	payload  []byte
	qos      byte
	retained bool
}

// pendingQueue is a bounded FIFO holding messages while the broker is
// unreachable. When full, the oldest message is dropped; the gateway keeps
// latest-value semantics even in its offline buffer.
// Not safe for concurrent use; caller must synchronize.
type pendingQueue struct {
	msgs     []pendingMsg
	capacity int
	dropped  bool // true if any message was dropped since last drain
}

func newPendingQueue(capacity int) *pendingQueue {
	return &pendingQueue{capacity: capacity}
}

func (q *pendingQueue) push(msg pendingMsg) {
	if len(q.msgs) == q.capacity {
		if !q.dropped {
			log.Printf("mqtt: offline buffer full (%d messages), dropping oldest", q.capacity)
			q.dropped = true
		}
		copy(q.msgs, q.msgs[1:])
		q.msgs = q.msgs[:q.capacity-1]
	}
	q.msgs = append(q.msgs, msg)
}

// drain removes and returns all buffered messages, oldest first.
func (q *pendingQueue) drain() []pendingMsg {
	if len(q.msgs) == 0 {
		return nil
	}
	out := q.msgs
	q.msgs = nil
	q.dropped = false
	return out
}

func (q *pendingQueue) len() int {
	return len(q.msgs)
}
