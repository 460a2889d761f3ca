package projection

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tcg-match-engine/internal/filter"
	"tcg-match-engine/internal/match"
	"tcg-match-engine/internal/zone"
)

func twoPlayerMatch(t *testing.T) *match.Match {
	t.Helper()
	now := time.Now()
	m := match.NewMatch("m1", now)
	require.NoError(t, m.Join("alice", "deck1", now))
	require.NoError(t, m.Join("bob", "deck2", now))
	require.NoError(t, m.ValidateDecks(true, true, "", now))
	require.NoError(t, m.Start(1, now))
	m.FirstPlayerID = "alice"
	m.State = match.StatePlayerTurn
	m.GameState.CurrentPlayer = "alice"
	return m
}

func TestProject_OwnHandShowsCardIDs(t *testing.T) {
	m := twoPlayerMatch(t)
	m.GameState.Player1State.Hand = []*zone.CardInstance{
		zone.NewCardInstance("h1", "pikachu", zone.PositionHand, 0),
	}

	v := Project(m, "alice", filter.DefaultRegistry())
	assert.Equal(t, []string{"pikachu"}, v.PlayerState.HandCardIDs)
}

func TestProject_OpponentHandIsCountOnly(t *testing.T) {
	m := twoPlayerMatch(t)
	m.GameState.Player2State.Hand = []*zone.CardInstance{
		zone.NewCardInstance("h1", "squirtle", zone.PositionHand, 0),
		zone.NewCardInstance("h2", "bulbasaur", zone.PositionHand, 0),
	}

	v := Project(m, "alice", filter.DefaultRegistry())
	assert.Equal(t, 2, v.OpponentState.HandCount)
	assert.Nil(t, v.OpponentState.RevealedHand)
}

func TestProject_OpponentHandRevealedDuringDrawingCards(t *testing.T) {
	m := twoPlayerMatch(t)
	m.State = match.StateDrawingCards
	m.GameState.Player2State.Hand = []*zone.CardInstance{
		zone.NewCardInstance("h1", "squirtle", zone.PositionHand, 0),
	}

	v := Project(m, "alice", filter.DefaultRegistry())
	require.NotNil(t, v.OpponentState.RevealedHand)
	assert.Equal(t, []string{"squirtle"}, v.OpponentState.RevealedHand)
}

func TestProject_ActiveAndBenchVisibleForOpponent(t *testing.T) {
	m := twoPlayerMatch(t)
	m.GameState.Player2State.ActivePokemon = zone.NewCardInstance("a1", "charmander", zone.PositionActive, 50)

	v := Project(m, "alice", filter.DefaultRegistry())
	require.NotNil(t, v.OpponentState.ActivePokemon)
	assert.Equal(t, "charmander", v.OpponentState.ActivePokemon.CardID)
}

func TestProject_LastActionReflectsHistory(t *testing.T) {
	m := twoPlayerMatch(t)
	m.GameState.AppendAction(zone.ActionRecord{ActionID: "a1", PlayerID: "alice", ActionType: "DRAW_CARD", TurnNumber: 1})

	v := Project(m, "alice", filter.DefaultRegistry())
	require.NotNil(t, v.LastAction)
	assert.Equal(t, "a1", v.LastAction.ActionID)
}

func TestProject_AvailableActionsComeFromRegistry(t *testing.T) {
	m := twoPlayerMatch(t)
	m.GameState.Phase = zone.PhaseDraw

	v := Project(m, "alice", filter.DefaultRegistry())
	found := false
	for _, a := range v.AvailableActions {
		if a == match.ActionDrawCard {
			found = true
		}
	}
	assert.True(t, found)
}
