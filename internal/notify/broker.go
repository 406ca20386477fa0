// Package notify fans out "trip changed" signals to live watchers in the
// same process.
package notify

import (
	"log/slog"
	"sync"
)

// Broker delivers change signals per trip. Signals carry no payload; a
// watcher reloads the trip when it receives one. Pending signals coalesce,
// so a slow watcher sees at most one queued signal.
type Broker struct {
	mu     sync.Mutex
	nextID uint64
	subs   map[string]map[uint64]chan struct{}
}

func NewBroker() *Broker {
	return &Broker{subs: make(map[string]map[uint64]chan struct{})}
}

// Subscribe registers a watcher for tripID. The returned cancel func
// unregisters it and closes the channel; it is safe to call more than once.
func (b *Broker) Subscribe(tripID string) (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)

	b.mu.Lock()
	id := b.nextID
	b.nextID++
	if b.subs[tripID] == nil {
		b.subs[tripID] = make(map[uint64]chan struct{})
	}
	b.subs[tripID][id] = ch
	b.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.subs[tripID], id)
			if len(b.subs[tripID]) == 0 {
				delete(b.subs, tripID)
			}
			close(ch)
		})
	}
	return ch, cancel
}

// Publish signals every watcher of tripID. It never blocks.
func (b *Broker) Publish(tripID string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, ch := range b.subs[tripID] {
		select {
		case ch <- struct{}{}:
		default:
			// already has a pending signal
		}
	}
	slog.Debug("Published trip change", "trip_id", tripID, "watchers", len(b.subs[tripID]))
}

// Watchers returns the number of watchers registered for tripID.
func (b *Broker) Watchers(tripID string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs[tripID])
}
