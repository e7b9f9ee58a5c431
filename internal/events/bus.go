// Package events is an in-process fan-out bus for application-wide signals
// such as "instances changed".
package events

import (
	"sync"
	"sync/atomic"
	"time"
)

// Topic names an event kind.
type Topic string

const (
	// InstancesChanged fires when instances are added, removed or renamed.
	InstancesChanged Topic = "huntarr:instances-changed"
	// DirectoryRefreshed carries the directory.Snapshot produced by a refresh.
	DirectoryRefreshed Topic = "huntsched:directory-refreshed"
	// SaveCompleted carries the error (nil on success) of a schedule save.
	SaveCompleted Topic = "huntsched:save-completed"
)

// Event is a small signal. Publish never blocks; a subscriber whose buffer
// is full misses the event.
type Event struct {
	Topic Topic
	Time  time.Time
	Data  any
}

// Bus delivers events to every subscriber.
type Bus struct {
	mu   sync.RWMutex
	subs map[uint64]chan Event
	seq  atomic.Uint64
}

// New returns an empty Bus.
func New() *Bus {
	return &Bus{subs: map[uint64]chan Event{}}
}

// Publish fans e out to all subscribers without blocking.
func (b *Bus) Publish(e Event) {
	if e.Time.IsZero() {
		e.Time = time.Now()
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, ch := range b.subs {
		select {
		case ch <- e:
		default:
		}
	}
}

// Subscribe returns a buffered channel of events and a function that
// unsubscribes and closes it.
func (b *Bus) Subscribe(buffer int) (<-chan Event, func()) {
	if buffer <= 0 {
		buffer = 8
	}
	ch := make(chan Event, buffer)
	id := b.seq.Add(1)

	b.mu.Lock()
	b.subs[id] = ch
	b.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			b.mu.Unlock()
			close(ch)
		})
	}
}
