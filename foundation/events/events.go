// Package events fans node events out to registered subscribers, such as
// websocket clients watching the ledger.
package events

import (
	"fmt"
	"sync"
)

// messageBuffer is how many events a subscriber can fall behind before
// events are dropped for it. A websocket write can be slow.
const messageBuffer = 100

// Events maintains a mapping of unique id and channels so goroutines
// can register and receive events.
type Events struct {
	m       map[string]chan string
	dropped map[string]uint64
	mu      sync.RWMutex
}

// New constructs an events for registering and receiving events.
func New() *Events {
	return &Events{
		m:       make(map[string]chan string),
		dropped: make(map[string]uint64),
	}
}

// Shutdown closes and removes all channels that were provided by
// the call to Acquire.
func (evt *Events) Shutdown() {
	evt.mu.Lock()
	defer evt.mu.Unlock()

	for id, ch := range evt.m {
		delete(evt.m, id)
		delete(evt.dropped, id)
		close(ch)
	}
}

// Acquire takes a unique id and returns a channel that can be used
// to receive events.
func (evt *Events) Acquire(id string) <-chan string {
	evt.mu.Lock()
	defer evt.mu.Unlock()

	if ch, exists := evt.m[id]; exists {
		return ch
	}

	ch := make(chan string, messageBuffer)
	evt.m[id] = ch

	return ch
}

// Release closes and removes the channel that was provided by
// the call to Acquire. It returns the number of events that were dropped
// because the subscriber fell behind.
func (evt *Events) Release(id string) (uint64, error) {
	evt.mu.Lock()
	defer evt.mu.Unlock()

	ch, exists := evt.m[id]
	if !exists {
		return 0, fmt.Errorf("id %q does not exist", id)
	}

	dropped := evt.dropped[id]

	delete(evt.m, id)
	delete(evt.dropped, id)
	close(ch)

	return dropped, nil
}

// Subscribers returns the number of registered channels.
func (evt *Events) Subscribers() int {
	evt.mu.RLock()
	defer evt.mu.RUnlock()

	return len(evt.m)
}

// Send signals a message to every registered channel. Send will not block
// waiting for a receiver on any given channel.
func (evt *Events) Send(s string) {
	evt.mu.Lock()
	defer evt.mu.Unlock()

	for id, ch := range evt.m {
		select {
		case ch <- s:
		default:
			evt.dropped[id]++
		}
	}
}
