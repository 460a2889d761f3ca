// Package events implements a generic, type-safe publish/subscribe bus used
// to drive triggered abilities, end-of-turn ones included. Publishing
// never crosses a goroutine boundary — handlers run synchronously on the
// publisher's call stack, preserving the engine's single-threaded-per-match
// contract (spec §5): the bus is a dispatch mechanism, not a concurrency
// primitive.
package events

import (
	"fmt"
	"sort"
	"sync"

	"tcg-match-engine/internal/logger"

	"go.uber.org/zap"
)

// SubscriptionID identifies a registered handler so it can be removed later.
type SubscriptionID string

// Handler is a type-safe event handler function.
type Handler[T any] func(event T)

type subscription struct {
	id          SubscriptionID
	seq         uint64
	eventType   string
	handlerFunc func(event any)
}

// Bus is a thread-safe, type-erased event bus. Use the package-level
// Subscribe function to register a typed handler.
type Bus struct {
	mu            sync.RWMutex
	subscriptions map[SubscriptionID]*subscription
	nextID        uint64
	matchID       string
}

// NewBus creates an event bus scoped to a single match. matchID is attached
// to log lines only; it does not gate delivery.
func NewBus(matchID string) *Bus {
	return &Bus{
		subscriptions: make(map[SubscriptionID]*subscription),
		nextID:        1,
		matchID:       matchID,
	}
}

// Subscribe registers a type-safe handler for events of type T.
func Subscribe[T any](b *Bus, handler Handler[T]) SubscriptionID {
	b.mu.Lock()
	defer b.mu.Unlock()

	seq := b.nextID
	id := SubscriptionID(fmt.Sprintf("sub-%d", seq))
	b.nextID++

	var zero T
	typeName := fmt.Sprintf("%T", zero)

	b.subscriptions[id] = &subscription{
		id:        id,
		seq:       seq,
		eventType: typeName,
		handlerFunc: func(event any) {
			typed, ok := event.(T)
			if !ok {
				return
			}
			handler(typed)
		},
	}
	return id
}

// Unsubscribe removes a previously registered handler.
func (b *Bus) Unsubscribe(id SubscriptionID) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.subscriptions, id)
}

// Publish delivers event to every handler subscribed to its concrete type,
// in subscription order, synchronously on the calling goroutine.
func Publish[T any](b *Bus, event T) {
	typeName := fmt.Sprintf("%T", event)

	b.mu.RLock()
	var matching []*subscription
	for _, sub := range b.subscriptions {
		if sub.eventType == typeName {
			matching = append(matching, sub)
		}
	}
	b.mu.RUnlock()
	sort.Slice(matching, func(i, j int) bool { return matching[i].seq < matching[j].seq })

	if len(matching) == 0 {
		return
	}

	log := logger.WithMatchContext(b.matchID, "")
	log.Debug("dispatching event", zap.String("event_type", typeName), zap.Int("handlers", len(matching)))

	for _, sub := range matching {
		sub.handlerFunc(event)
	}
}
