package engine

import "sync"

// workQueue is an unbounded FIFO hand-off between the discovery producer
// and the consumer pool. An explicit close wakes blocked consumers once
// the remaining items are drained; each item is popped exactly once.
type workQueue struct {
	mu     sync.Mutex
	cond   *sync.Cond
	items  []Step
	closed bool
}

func newWorkQueue() *workQueue {
	q := &workQueue{}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// push appends a step. Pushing after close is a programming error.
func (q *workQueue) push(s Step) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		panic("engine: push on closed work queue")
	}
	q.items = append(q.items, s)
	q.cond.Signal()
}

// close marks the queue complete; consumers drain what remains and stop.
func (q *workQueue) close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.closed = true
	q.cond.Broadcast()
}

// pop blocks until an item is available or the queue is closed and empty.
// The second return value is false once the queue is exhausted.
func (q *workQueue) pop() (Step, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for len(q.items) == 0 && !q.closed {
		q.cond.Wait()
	}
	if len(q.items) == 0 {
		return nil, false
	}
	s := q.items[0]
	q.items = q.items[1:]
	return s, true
}
