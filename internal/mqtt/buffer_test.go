package mqtt

import (
	"fmt"
	"testing"
)

func TestPendingQueueEmpty(t *testing.T) {
	q := newPendingQueue(10)
	if q.len() != 0 {
		t.Errorf("len: got %d, want 0", q.len())
	}
	if msgs := q.drain(); msgs != nil {
		t.Errorf("drain of empty queue: got %v, want nil", msgs)
	}
}

func TestPendingQueuePushDrain(t *testing.T) {
	q := newPendingQueue(10)
	q.push(pendingMsg{topic: "a", payload: []byte("1")})
	q.push(pendingMsg{topic: "b", payload: []byte("2")})
	q.push(pendingMsg{topic: "c", payload: []byte("3")})

	if q.len() != 3 {
		t.Fatalf("len: got %d, want 3", q.len())
	}

	msgs := q.drain()
	if len(msgs) != 3 {
		t.Fatalf("drained: got %d, want 3", len(msgs))
	}
	// Order preserved, oldest first.
	for i, want := range []string{"a", "b", "c"} {
		if msgs[i].topic != want {
			t.Errorf("msg %d: got topic %q, want %q", i, msgs[i].topic, want)
		}
	}

	if q.len() != 0 {
		t.Errorf("len after drain: got %d, want 0", q.len())
	}
}

func TestPendingQueueDropsOldestWhenFull(t *testing.T) {
	const capacity = 5
	q := newPendingQueue(capacity)

	for i := 0; i < capacity+3; i++ {
		q.push(pendingMsg{topic: fmt.Sprintf("t%d", i)})
	}

	if q.len() != capacity {
		t.Fatalf("len: got %d, want %d", q.len(), capacity)
	}

	msgs := q.drain()
	// Oldest three (t0..t2) were dropped; t3..t7 remain in order.
	for i, m := range msgs {
		want := fmt.Sprintf("t%d", i+3)
		if m.topic != want {
			t.Errorf("msg %d: got topic %q, want %q", i, m.topic, want)
		}
	}
}

func TestPendingQueueReusableAfterDrain(t *testing.T) {
	q := newPendingQueue(3)
	q.push(pendingMsg{topic: "a"})
	q.drain()

	q.push(pendingMsg{topic: "b"})
	msgs := q.drain()
	if len(msgs) != 1 || msgs[0].topic != "b" {
		t.Errorf("after reuse: got %v", msgs)
	}
}
