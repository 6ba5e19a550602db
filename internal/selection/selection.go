// Package selection keeps the state that is currently selected across the
// chart views of one dashboard session and decides how each view
// highlights a state.
package selection

import "sync"

// Selection is a selected state name, or None.
type Selection struct {
	state string
	set   bool
}

// None is the empty selection.
var None = Selection{}

// Of returns the selection of state. An empty name is None.
func Of(state string) Selection {
	if state == "" {
		return None
	}
	return Selection{state: state, set: true}
}

func (s Selection) IsNone() bool { return !s.set }

// State returns the selected state name, or "" for None.
func (s Selection) State() string { return s.state }

func (s Selection) String() string {
	if !s.set {
		return "none"
	}
	return s.state
}

// Change is broadcast to subscribers after every transition.
type Change struct {
	Previous Selection
	Current  Selection
}

// Coordinator owns one session's selection. Toggle and Clear are the
// only mutation paths; all access is serialized.
type Coordinator struct {
	mu       sync.Mutex
	selected Selection
	subs     map[int]chan Change
	nextSub  int
	closed   bool
}

func NewCoordinator() *Coordinator {
	return &Coordinator{subs: make(map[int]chan Change)}
}

// Toggle deselects when candidate is already selected and selects
// candidate otherwise. It returns the new selection.
func (c *Coordinator) Toggle(candidate Selection) Selection {
	c.mu.Lock()
	defer c.mu.Unlock()

	prev := c.selected
	if candidate == c.selected {
		c.selected = None
	} else {
		c.selected = candidate
	}
	c.broadcast(Change{Previous: prev, Current: c.selected})
	return c.selected
}

// Clear sets the selection to None.
func (c *Coordinator) Clear() Selection {
	c.mu.Lock()
	defer c.mu.Unlock()

	prev := c.selected
	c.selected = None
	c.broadcast(Change{Previous: prev, Current: None})
	return None
}

// Current returns the selection without changing it.
func (c *Coordinator) Current() Selection {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selected
}

// Subscribe returns a channel receiving every subsequent change and a
// cancel func that closes it. Close also closes it. A subscriber that falls behind only sees
// the most recent change.
func (c *Coordinator) Subscribe() (<-chan Change, func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ch := make(chan Change, 1)
	if c.closed {
		close(ch)
		return ch, func() {}
	}
	id := c.nextSub
	c.nextSub++
	c.subs[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			if _, ok := c.subs[id]; ok {
				delete(c.subs, id)
				close(ch)
			}
		})
	}
	return ch, cancel
}

// Close ends every subscription. Later subscriptions receive an already
// closed channel.
func (c *Coordinator) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	for id, ch := range c.subs {
		delete(c.subs, id)
		close(ch)
	}
}

// broadcast must be called with c.mu held.
func (c *Coordinator) broadcast(ch Change) {
	for _, sub := range c.subs {
		select {
		case sub <- ch:
			continue
		default:
		}
		// Drop the stale change and deliver the latest one.
		select {
		case <-sub:
		default:
		}
		select {
		case sub <- ch:
		default:
		}
	}
}
