package allfiles

import (
	"context"
	"sync"
)

// notifier is a reusable single-slot wake-up signal. Producers call signal
// once per completed listing; the consumer waits on whatever slot is armed at
// the time it starts waiting. Wake-ups are not coalesced: every signal closes
// exactly one slot.
type notifier struct {
	mu     sync.Mutex
	slot   chan struct{}
	closed bool // the current slot is closed for good (fail or finish)
	done   bool
	err    error
}

func newNotifier() *notifier {
	n := &notifier{}
	n.arm()
	return n
}

// arm installs a fresh slot. Waiters on a previous slot are unaffected.
func (n *notifier) arm() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.armLocked()
}

func (n *notifier) armLocked() {
	n.slot = make(chan struct{})
	n.closed = false
}

// signal wakes the current waiter and arms the next slot.
func (n *notifier) signal() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.closed {
		return
	}
	old := n.slot
	n.armLocked()
	close(old)
}

// fail wakes the current waiter with err. The slot is not re-armed and only
// the first failure is kept.
func (n *notifier) fail(err error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.closed {
		return
	}
	n.err = err
	n.closed = true
	close(n.slot)
}

// finish marks the walk done and wakes the current waiter, so a walk whose
// last batch was entirely excluded still terminates.
func (n *notifier) finish() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.done = true
	if n.closed {
		return
	}
	n.closed = true
	close(n.slot)
}

// wait blocks until the slot armed at call time is closed or ctx ends. It
// returns the failure reported through fail, if any.
func (n *notifier) wait(ctx context.Context) error {
	n.mu.Lock()
	slot := n.slot
	n.mu.Unlock()

	select {
	case <-slot:
		n.mu.Lock()
		defer n.mu.Unlock()
		return n.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Done reports whether no directories remain to be listed.
func (n *notifier) Done() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.done
}
