package repository

import (
	"context"
	"sync"

	"tcg-match-engine/internal/deck"
	"tcg-match-engine/internal/events"
	"tcg-match-engine/internal/logger"

	"go.uber.org/zap"
)

// memoryDeckRepository is an in-memory DeckRepository, grounded on the
// teacher's GameRepositoryImpl: a mutex-guarded map that publishes through
// the event bus on every mutating call.
type memoryDeckRepository struct {
	mu    sync.RWMutex
	decks map[string]*deck.Deck
	bus   *events.Bus
}

// NewMemoryDeckRepository constructs an empty in-memory DeckRepository. bus
// may be nil in tests that don't care about published events.
func NewMemoryDeckRepository(bus *events.Bus) DeckRepository {
	return &memoryDeckRepository{
		decks: make(map[string]*deck.Deck),
		bus:   bus,
	}
}

func (r *memoryDeckRepository) FindByID(ctx context.Context, id string) (*deck.Deck, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.decks[id]
	if !ok {
		return nil, ErrNotFound
	}
	return d, nil
}

func (r *memoryDeckRepository) FindAll(ctx context.Context, tournamentID *string) ([]*deck.Deck, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*deck.Deck, 0, len(r.decks))
	for _, d := range r.decks {
		if tournamentID != nil {
			dt := d.TournamentID()
			if dt == nil || *dt != *tournamentID {
				continue
			}
		}
		out = append(out, d)
	}
	return out, nil
}

func (r *memoryDeckRepository) FindByCreator(ctx context.Context, createdBy string) ([]*deck.Deck, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*deck.Deck, 0)
	for _, d := range r.decks {
		if d.CreatedBy() == createdBy {
			out = append(out, d)
		}
	}
	return out, nil
}

func (r *memoryDeckRepository) Save(ctx context.Context, d *deck.Deck) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.decks[d.ID()] = d

	log := logger.Get()
	log.Debug("saved deck", zap.String("deck_id", d.ID()))
	if r.bus != nil {
		events.Publish(r.bus, events.DeckSavedEvent{
			DeckID:       d.ID(),
			CreatedBy:    d.CreatedBy(),
			TournamentID: d.TournamentID(),
		})
	}
	return nil
}

func (r *memoryDeckRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.decks[id]; !ok {
		return ErrNotFound
	}
	delete(r.decks, id)

	if r.bus != nil {
		events.Publish(r.bus, events.DeckDeletedEvent{DeckID: id})
	}
	return nil
}
