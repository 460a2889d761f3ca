package filter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tcg-match-engine/internal/match"
	"tcg-match-engine/internal/zone"
)

func startedMatch(t *testing.T) *match.Match {
	t.Helper()
	now := time.Now()
	m := match.NewMatch("m1", now)
	require.NoError(t, m.Join("alice", "deck1", now))
	require.NoError(t, m.Join("bob", "deck2", now))
	require.NoError(t, m.ValidateDecks(true, true, "", now))
	require.NoError(t, m.Start(1, now))
	m.FirstPlayerID = "alice"
	return m
}

func contains(actions []match.ActionType, want match.ActionType) bool {
	for _, a := range actions {
		if a == want {
			return true
		}
	}
	return false
}

func TestRegistry_DefaultFallback_TerminalState(t *testing.T) {
	m := startedMatch(t)
	m.State = match.StateMatchEnded

	r := DefaultRegistry()
	actions := r.Available(m, "alice")
	assert.Equal(t, []match.ActionType{match.ActionConcede}, actions)
}

func TestRegistry_TurnOwner_DrawPhase(t *testing.T) {
	m := startedMatch(t)
	m.State = match.StatePlayerTurn
	m.GameState.CurrentPlayer = "alice"
	m.GameState.Phase = zone.PhaseDraw

	r := DefaultRegistry()
	actions := r.Available(m, "alice")
	assert.True(t, contains(actions, match.ActionDrawCard))
	assert.True(t, contains(actions, match.ActionConcede))
}

func TestRegistry_Opponent_OnlyConcedeUnlessCoinFlipOrReplacement(t *testing.T) {
	m := startedMatch(t)
	m.State = match.StatePlayerTurn
	m.GameState.CurrentPlayer = "alice"
	m.GameState.Phase = zone.PhaseMainPhase
	m.GameState.Player2State.ActivePokemon = zone.NewCardInstance("b1", "pika", zone.PositionActive, 60)

	r := DefaultRegistry()
	actions := r.Available(m, "bob")
	assert.Equal(t, []match.ActionType{match.ActionConcede}, actions)
}

func TestRegistry_Opponent_CanSubmitCoinFlipDuringAttackContext(t *testing.T) {
	m := startedMatch(t)
	m.State = match.StatePlayerTurn
	m.GameState.CurrentPlayer = "alice"
	m.GameState.Phase = zone.PhaseAttack
	require.NoError(t, m.RequestCoinFlip(match.CoinFlipContextAttack, 1, "alice"))

	r := DefaultRegistry()
	actions := r.Available(m, "bob")
	assert.True(t, contains(actions, match.ActionGenerateCoinFlip))
}

func TestRegistry_TurnOwner_AttachEnergyRemovedAfterUse(t *testing.T) {
	m := startedMatch(t)
	m.State = match.StatePlayerTurn
	m.GameState.CurrentPlayer = "alice"
	m.GameState.Phase = zone.PhaseMainPhase

	r := DefaultRegistry()
	before := r.Available(m, "alice")
	assert.True(t, contains(before, match.ActionAttachEnergy))

	m.GameState.Player1State.HasAttachedEnergyThisTurn = true
	after := r.Available(m, "alice")
	assert.False(t, contains(after, match.ActionAttachEnergy))
}

func TestRegistry_SetupFlagFilter_OffersActionUntilFlagSet(t *testing.T) {
	m := startedMatch(t)
	m.State = match.StateSetPrizeCards

	r := DefaultRegistry()
	before := r.Available(m, "alice")
	assert.True(t, contains(before, match.ActionSetPrizeCards))

	require.NoError(t, m.MarkSetupFlag("alice", match.FlagHasSetPrizeCards, true))
	after := r.Available(m, "alice")
	assert.Equal(t, []match.ActionType{match.ActionConcede}, after)
}

func TestRegistry_SelectActivePokemon_GatedByActiveNil(t *testing.T) {
	m := startedMatch(t)
	m.State = match.StateSelectActivePokemon

	r := DefaultRegistry()
	actions := r.Available(m, "alice")
	assert.True(t, contains(actions, match.ActionSetActivePokemon))

	m.GameState.Player1State.ActivePokemon = zone.NewCardInstance("a1", "pika", zone.PositionActive, 60)
	actions = r.Available(m, "alice")
	assert.Equal(t, []match.ActionType{match.ActionConcede}, actions)
}

func TestRegistry_SelectBenchPokemon_OffersCompleteUntilReady(t *testing.T) {
	m := startedMatch(t)
	m.State = match.StateSelectBenchPokemon

	r := DefaultRegistry()
	actions := r.Available(m, "bob")
	assert.True(t, contains(actions, match.ActionCompleteInitialSetup))
	assert.True(t, contains(actions, match.ActionPlayPokemon))

	require.NoError(t, m.MarkSetupFlag("bob", match.FlagReadyToStart, true))
	actions = r.Available(m, "bob")
	assert.Equal(t, []match.ActionType{match.ActionConcede}, actions)
}

func TestRegistry_DuplicateRegistrationRejected(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(turnOwnerFilter{}))
	err := r.Register(turnOwnerFilter{})
	assert.Error(t, err)
}
