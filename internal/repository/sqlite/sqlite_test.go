package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tcg-match-engine/internal/deck"
	"tcg-match-engine/internal/events"
	"tcg-match-engine/internal/match"
	"tcg-match-engine/internal/repository"
	"tcg-match-engine/internal/zone"
)

func fixedNow() time.Time { return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC) }

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestDeckRepository_SaveRoundTripsThroughJSON(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	repo := NewDeckRepository(db, events.NewBus("decks"))

	tournamentID := "t1"
	d := deck.NewDeck("deck-1", "Lightning Rush", "alice", fixedNow())
	require.NoError(t, d.AddCard("pikachu", "base1", 4))
	require.NoError(t, d.AddCard("energy-lightning", "base1", 10))
	d.SetTournamentID(&tournamentID)
	d.SetValid(true)

	require.NoError(t, repo.Save(ctx, d))

	found, err := repo.FindByID(ctx, "deck-1")
	require.NoError(t, err)
	assert.Equal(t, "Lightning Rush", found.Name())
	assert.Equal(t, "alice", found.CreatedBy())
	assert.True(t, found.IsValid())
	assert.Equal(t, 4, found.GetCardQuantity("pikachu", "base1"))
	assert.Equal(t, 10, found.GetCardQuantity("energy-lightning", "base1"))
	require.NotNil(t, found.TournamentID())
	assert.Equal(t, "t1", *found.TournamentID())

	all, err := repo.FindAll(ctx, &tournamentID)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	byCreator, err := repo.FindByCreator(ctx, "alice")
	require.NoError(t, err)
	assert.Len(t, byCreator, 1)

	require.NoError(t, repo.Delete(ctx, "deck-1"))
	_, err = repo.FindByID(ctx, "deck-1")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestDeckRepository_SaveUpserts(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	repo := NewDeckRepository(db, nil)

	d := deck.NewDeck("deck-1", "V1", "alice", fixedNow())
	require.NoError(t, repo.Save(ctx, d))

	d2 := deck.NewDeck("deck-1", "V2", "alice", fixedNow())
	require.NoError(t, repo.Save(ctx, d2))

	found, err := repo.FindByID(ctx, "deck-1")
	require.NoError(t, err)
	assert.Equal(t, "V2", found.Name())
}

func TestMatchRepository_SaveRoundTripsAndRehydratesPRNG(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	repo := NewMatchRepository(db, events.NewBus("matches"))

	now := fixedNow()
	m := match.NewMatch("m1", now)
	require.NoError(t, m.Join("alice", "deck-1", now))
	require.NoError(t, m.Join("bob", "deck-2", now))
	require.NoError(t, m.ValidateDecks(true, true, "", now))
	require.NoError(t, m.Start(42, now))
	m.GameState.Player1State.Deck = append(m.GameState.Player1State.Deck,
		zone.NewCardInstance("a-1", "pikachu", zone.PositionDeck, 60))

	require.NoError(t, repo.Save(ctx, m))

	found, err := repo.FindByID(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, match.StateDrawingCards, found.State)
	assert.Equal(t, "alice", found.Player1ID)
	require.Len(t, found.GameState.Player1State.Deck, 1)
	assert.Equal(t, "pikachu", found.GameState.Player1State.Deck[0].CardID)

	require.NotNil(t, found.RNG())
	assert.NotPanics(t, func() { found.RNG().Intn(10) })

	active, err := repo.FindActiveMatchesByPlayer(ctx, "alice")
	require.NoError(t, err)
	assert.Len(t, active, 1)

	require.NoError(t, repo.Delete(ctx, "m1"))
	_, err = repo.FindByID(ctx, "m1")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestMatchRepository_DeleteUnknownReturnsNotFound(t *testing.T) {
	db := openTestDB(t)
	repo := NewMatchRepository(db, nil)
	err := repo.Delete(context.Background(), "missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
