package repository

import (
	"context"
	"sync"

	"tcg-match-engine/internal/events"
	"tcg-match-engine/internal/logger"
	"tcg-match-engine/internal/match"

	"go.uber.org/zap"
)

// memoryMatchRepository is an in-memory MatchRepository, the match-shaped
// twin of memoryDeckRepository.
type memoryMatchRepository struct {
	mu      sync.RWMutex
	matches map[string]*match.Match
	bus     *events.Bus
}

// NewMemoryMatchRepository constructs an empty in-memory MatchRepository.
func NewMemoryMatchRepository(bus *events.Bus) MatchRepository {
	return &memoryMatchRepository{
		matches: make(map[string]*match.Match),
		bus:     bus,
	}
}

func (r *memoryMatchRepository) FindByID(ctx context.Context, id string) (*match.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.matches[id]
	if !ok {
		return nil, ErrNotFound
	}
	return m, nil
}

func (r *memoryMatchRepository) FindAll(ctx context.Context, tournamentID *string, playerID *string) ([]*match.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*match.Match, 0, len(r.matches))
	for _, m := range r.matches {
		if tournamentID != nil {
			if m.TournamentID == nil || *m.TournamentID != *tournamentID {
				continue
			}
		}
		if playerID != nil && m.Player1ID != *playerID && m.Player2ID != *playerID {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

func (r *memoryMatchRepository) FindActiveMatchesByPlayer(ctx context.Context, playerID string) ([]*match.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*match.Match, 0)
	for _, m := range r.matches {
		if (m.Player1ID == playerID || m.Player2ID == playerID) && m.IsActive() {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *memoryMatchRepository) Save(ctx context.Context, m *match.Match) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.matches[m.ID] = m

	log := logger.Get()
	log.Debug("saved match", zap.String("match_id", m.ID), zap.String("state", string(m.State)))
	if r.bus != nil {
		events.Publish(r.bus, events.MatchSavedEvent{
			MatchID:   m.ID,
			State:     string(m.State),
			Player1ID: m.Player1ID,
			Player2ID: m.Player2ID,
		})
	}
	return nil
}

func (r *memoryMatchRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.matches[id]; !ok {
		return ErrNotFound
	}
	delete(r.matches, id)

	if r.bus != nil {
		events.Publish(r.bus, events.MatchDeletedEvent{MatchID: id})
	}
	return nil
}
