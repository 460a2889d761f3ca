package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tcg-match-engine/internal/deck"
	"tcg-match-engine/internal/events"
	"tcg-match-engine/internal/match"
)

func fixedNow() time.Time { return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC) }

func TestMemoryDeckRepository_SaveFindUpdateDelete(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryDeckRepository(events.NewBus("decks"))

	tournamentID := "t1"
	d := deck.NewDeck("deck-1", "Lightning Rush", "alice", fixedNow())
	require.NoError(t, d.AddCard("pikachu", "base1", 4))
	d.SetTournamentID(&tournamentID)
	require.NoError(t, repo.Save(ctx, d))

	found, err := repo.FindByID(ctx, "deck-1")
	require.NoError(t, err)
	assert.Equal(t, "Lightning Rush", found.Name())

	all, err := repo.FindAll(ctx, &tournamentID)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	byCreator, err := repo.FindByCreator(ctx, "alice")
	require.NoError(t, err)
	assert.Len(t, byCreator, 1)

	byCreator, err = repo.FindByCreator(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, byCreator)

	require.NoError(t, repo.Delete(ctx, "deck-1"))
	_, err = repo.FindByID(ctx, "deck-1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryDeckRepository_DeleteUnknownReturnsNotFound(t *testing.T) {
	repo := NewMemoryDeckRepository(nil)
	err := repo.Delete(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryMatchRepository_SaveFindActiveDelete(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryMatchRepository(events.NewBus("matches"))

	now := fixedNow()
	m := match.NewMatch("m1", now)
	require.NoError(t, m.Join("alice", "deck-1", now))
	require.NoError(t, m.Join("bob", "deck-2", now))
	require.NoError(t, repo.Save(ctx, m))

	found, err := repo.FindByID(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, "alice", found.Player1ID)

	active, err := repo.FindActiveMatchesByPlayer(ctx, "alice")
	require.NoError(t, err)
	assert.Len(t, active, 1)

	require.NoError(t, m.Concede("alice", now))
	require.NoError(t, repo.Save(ctx, m))

	active, err = repo.FindActiveMatchesByPlayer(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, active)

	require.NoError(t, repo.Delete(ctx, "m1"))
	_, err = repo.FindByID(ctx, "m1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryMatchRepository_FindAllFiltersByTournament(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryMatchRepository(nil)
	now := fixedNow()

	t1 := "t1"
	m1 := match.NewMatch("m1", now)
	m1.TournamentID = &t1
	m2 := match.NewMatch("m2", now)

	require.NoError(t, repo.Save(ctx, m1))
	require.NoError(t, repo.Save(ctx, m2))

	filtered, err := repo.FindAll(ctx, &t1)
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "m1", filtered[0].ID)

	all, err := repo.FindAll(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
