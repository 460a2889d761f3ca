// Package repository implements C10: the MatchRepository and DeckRepository
// contracts (spec §6.1), each with an in-memory implementation and a
// modernc.org/sqlite-backed one, following the teacher's
// GameRepository/GameRepositoryImpl split (internal/repository/game_repository.go).
// internal/catalog already owns the CardRepository half of §6.1; it has no
// mutating operations and so needs neither a sqlite-backed implementation nor
// event publishing.
package repository

import (
	"context"
	"errors"

	"tcg-match-engine/internal/deck"
	"tcg-match-engine/internal/match"
)

// ErrNotFound is returned by any Get/find-by-id call when no record exists
// for the given id, mirroring the teacher's "game with ID %s not found"
// convention but as a sentinel so callers can errors.Is it.
var ErrNotFound = errors.New("repository: not found")

// DeckRepository is the deck persistence contract (spec §6.1).
type DeckRepository interface {
	FindByID(ctx context.Context, id string) (*deck.Deck, error)
	FindAll(ctx context.Context, tournamentID *string) ([]*deck.Deck, error)
	Save(ctx context.Context, d *deck.Deck) error
	Delete(ctx context.Context, id string) error
	FindByCreator(ctx context.Context, createdBy string) ([]*deck.Deck, error)
}

// MatchRepository is the match persistence contract (spec §6.1).
type MatchRepository interface {
	FindByID(ctx context.Context, id string) (*match.Match, error)
	FindAll(ctx context.Context, tournamentID *string, playerID *string) ([]*match.Match, error)
	Save(ctx context.Context, m *match.Match) error
	Delete(ctx context.Context, id string) error
	FindActiveMatchesByPlayer(ctx context.Context, playerID string) ([]*match.Match, error)
}
