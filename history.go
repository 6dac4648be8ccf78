package pledge

import (
	"sync"
	"time"
)

// Failure records one submission that did not complete.
type Failure struct {
	At    time.Time
	Stage string
	Err   error
}

// failureRing keeps the most recent submission failures.
// A nil ring records nothing.
type failureRing struct {
	mu    sync.RWMutex
	items []Failure
	next  int
	count int
}

// newFailureRing creates a ring holding up to size failures.
// It returns nil when size is not positive.
func newFailureRing(size int) *failureRing {
	if size <= 0 {
		return nil
	}
	return &failureRing{items: make([]Failure, size)}
}

func (r *failureRing) push(f Failure) {
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[r.next] = f
	r.next = (r.next + 1) % len(r.items)
	if r.count < len(r.items) {
		r.count++
	}
}

func (r *failureRing) clear() {
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	clear(r.items)
	r.next = 0
	r.count = 0
}

// all returns the recorded failures, oldest first.
func (r *failureRing) all() []Failure {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.count == 0 {
		return nil
	}
	size := len(r.items)
	out := make([]Failure, r.count)
	start := (r.next - r.count + size) % size
	for i := range out {
		out[i] = r.items[(start+i)%size]
	}
	return out
}
