package engine

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tcg-match-engine/internal/card"
	"tcg-match-engine/internal/catalog"
	"tcg-match-engine/internal/deck"
	"tcg-match-engine/internal/events"
	"tcg-match-engine/internal/match"
	"tcg-match-engine/internal/repository"
)

// fakeCards is a minimal catalog.CardRepository backed by a plain map,
// mirroring internal/action's test-only fakeCards so fixtures don't have to
// round-trip through catalog.ParseCard's JSON shape.
type fakeCards struct {
	byID map[string]*card.Card
}

func newFakeCards() *fakeCards { return &fakeCards{byID: make(map[string]*card.Card)} }

func (f *fakeCards) put(c *card.Card) *card.Card {
	f.byID[c.CardID] = c
	return c
}

func (f *fakeCards) LoadSet(context.Context, catalog.SetMetadata, []catalog.JSONCard) (catalog.LoadSetResult, error) {
	return catalog.LoadSetResult{}, nil
}
func (f *fakeCards) IsSetLoaded(string, string, string) bool { return false }
func (f *fakeCards) Clear()                                  {}
func (f *fakeCards) ClearSet(string, string, string)         {}
func (f *fakeCards) GetByID(cardID string) (*card.Card, error) {
	c, ok := f.byID[cardID]
	if !ok {
		return nil, fmt.Errorf("card not found: %s", cardID)
	}
	cp := *c
	return &cp, nil
}
func (f *fakeCards) GetBySet(string, string, string) []card.Card { return nil }

func fixedNow() time.Time { return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC) }

// legalDeck builds a 60-card deck (spec §3/§4.3): one Basic Pokemon at the
// 4-copy limit, one Energy card likewise at the limit, and enough distinct
// filler Energy entries to reach 60 without exceeding MaxCopiesPerCard.
func legalDeck(t *testing.T, cards *fakeCards, id, owner string) *deck.Deck {
	t.Helper()
	now := fixedNow()
	pikachu, err := card.NewPokemon("pikachu", "Pikachu", "base1", "25", "common", card.EnergyLightning, card.StageBasic, 60, 1)
	require.NoError(t, err)
	require.NoError(t, pikachu.AddAttack(card.Attack{Name: "Thunder Shock", EnergyCost: []card.EnergyType{card.EnergyLightning}, Damage: "20"}))
	cards.put(pikachu)
	cards.put(card.NewEnergy("energy-lightning", "Lightning Energy", "base1", "98", "common", card.EnergyLightning, false))

	d := deck.NewDeck(id, "Test Deck", owner, now)
	require.NoError(t, d.AddCard("pikachu", "base1", 4))
	require.NoError(t, d.AddCard("energy-lightning", "base1", 4))

	remaining := 52
	for i := 0; remaining > 0; i++ {
		cardID := fmt.Sprintf("filler-%d", i)
		cards.put(card.NewEnergy(cardID, "Filler Energy", "base1", fmt.Sprintf("%d", 100+i), "common", card.EnergyColorless, false))
		qty := 4
		if remaining < 4 {
			qty = remaining
		}
		require.NoError(t, d.AddCard(cardID, "base1", qty))
		remaining -= qty
	}
	require.Equal(t, 60, d.GetTotalCardCount())
	return d
}

func newTestEngine(t *testing.T) (*Engine, *fakeCards) {
	t.Helper()
	cards := newFakeCards()
	bus := events.NewBus("repository")
	matches := repository.NewMemoryMatchRepository(bus)
	decks := repository.NewMemoryDeckRepository(bus)
	e := New(matches, decks, cards, nil, nil)
	return e, cards
}

func TestEngine_CreateMatchWalkthrough(t *testing.T) {
	e, cards := newTestEngine(t)
	ctx := context.Background()

	d1 := legalDeck(t, cards, "deck-1", "alice")
	d2 := legalDeck(t, cards, "deck-2", "bob")
	require.NoError(t, e.Decks.Save(ctx, d1))
	require.NoError(t, e.Decks.Save(ctx, d2))

	m, err := e.CreateMatch(ctx, "alice", "bob", "deck-1", "deck-2", 7, fixedNow())
	require.NoError(t, err)
	assert.Equal(t, match.StateDrawingCards, m.State)
	assert.True(t, m.FirstPlayerID == "alice" || m.FirstPlayerID == "bob")
	assert.Len(t, m.GameState.Player1State.Deck, 60)
	assert.Len(t, m.GameState.Player2State.Deck, 60)

	stored, err := e.Matches.FindByID(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, m.ID, stored.ID)
}

func TestEngine_CreateMatchRejectsUndersizedDeck(t *testing.T) {
	e, cards := newTestEngine(t)
	ctx := context.Background()

	good := legalDeck(t, cards, "deck-good", "alice")
	require.NoError(t, e.Decks.Save(ctx, good))

	bad := deck.NewDeck("deck-bad", "Too Small", "bob", fixedNow())
	cards.put(func() *card.Card {
		c, _ := card.NewPokemon("squirtle", "Squirtle", "base1", "63", "common", card.EnergyWater, card.StageBasic, 40, 1)
		return c
	}())
	require.NoError(t, bad.AddCard("squirtle", "base1", 4))
	require.NoError(t, e.Decks.Save(ctx, bad))

	m, err := e.CreateMatch(ctx, "alice", "bob", "deck-good", "deck-bad", 7, fixedNow())
	require.Error(t, err)
	require.NotNil(t, m)
	assert.Equal(t, match.StateCancelled, m.State)
}

func TestEngine_GetProjectionAndExecuteDrawCard(t *testing.T) {
	e, cards := newTestEngine(t)
	ctx := context.Background()

	d1 := legalDeck(t, cards, "deck-1", "alice")
	d2 := legalDeck(t, cards, "deck-2", "bob")
	require.NoError(t, e.Decks.Save(ctx, d1))
	require.NoError(t, e.Decks.Save(ctx, d2))

	m, err := e.CreateMatch(ctx, "alice", "bob", "deck-1", "deck-2", 7, fixedNow())
	require.NoError(t, err)

	view, err := e.GetProjection(ctx, m.ID, "alice")
	require.NoError(t, err)
	assert.Equal(t, m.ID, view.MatchID)
	assert.Equal(t, match.StateDrawingCards, view.State)
	assert.Contains(t, view.AvailableActions, match.ActionDrawCard)

	deckCountBefore := len(m.GameState.PlayerState("alice").Deck)
	rec, err := e.Execute(ctx, m.ID, "alice", match.ActionDrawCard, nil)
	require.NoError(t, err)
	assert.Equal(t, string(match.ActionDrawCard), rec.ActionType)

	stored, err := e.Matches.FindByID(ctx, m.ID)
	require.NoError(t, err)
	assert.Len(t, stored.GameState.PlayerState("alice").Hand, 7)
	assert.Len(t, stored.GameState.PlayerState("alice").Deck, deckCountBefore-7)
}

func TestEngine_ExecuteRejectsActionOutsideTurn(t *testing.T) {
	e, cards := newTestEngine(t)
	ctx := context.Background()

	d1 := legalDeck(t, cards, "deck-1", "alice")
	d2 := legalDeck(t, cards, "deck-2", "bob")
	require.NoError(t, e.Decks.Save(ctx, d1))
	require.NoError(t, e.Decks.Save(ctx, d2))

	m, err := e.CreateMatch(ctx, "alice", "bob", "deck-1", "deck-2", 7, fixedNow())
	require.NoError(t, err)

	_, err = e.Execute(ctx, m.ID, "alice", match.ActionAttack, nil)
	require.Error(t, err)
}
