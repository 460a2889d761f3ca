package match

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tcg-match-engine/internal/zone"
)

func now() time.Time { return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC) }

func dummyInstance(instanceID string) *zone.CardInstance {
	return zone.NewCardInstance(instanceID, "pika", zone.PositionActive, 60)
}

func nonEmptyPrizes(n int) []*zone.CardInstance {
	out := make([]*zone.CardInstance, n)
	for i := range out {
		out[i] = zone.NewCardInstance("prize", "pika", zone.PositionPrize, 60)
	}
	return out
}

func setupStartedMatch(t *testing.T) *Match {
	t.Helper()
	m := NewMatch("m1", now())
	require.NoError(t, m.Join("p1", "deck1", now()))
	require.NoError(t, m.Join("p2", "deck2", now()))
	require.Equal(t, StateDeckValidation, m.State)
	require.NoError(t, m.ValidateDecks(true, true, "", now()))
	require.Equal(t, StatePreGameSetup, m.State)
	require.NoError(t, m.Start(42, now()))
	require.Equal(t, StateDrawingCards, m.State)
	return m
}

func TestMatch_FullSetupSequence(t *testing.T) {
	m := setupStartedMatch(t)

	require.NoError(t, m.MarkSetupFlag("p1", FlagHasDrawnValidHand, true))
	assert.Equal(t, StateDrawingCards, m.State, "only one player ready, state unchanged")
	require.NoError(t, m.MarkSetupFlag("p2", FlagHasDrawnValidHand, true))
	assert.Equal(t, StateSetPrizeCards, m.State)

	require.NoError(t, m.MarkSetupFlag("p1", FlagHasSetPrizeCards, true))
	require.NoError(t, m.MarkSetupFlag("p2", FlagHasSetPrizeCards, true))
	assert.Equal(t, StateFirstPlayerSelection, m.State)

	require.NoError(t, m.MarkSetupFlag("p1", FlagHasConfirmedFirstPlayer, true))
	require.NoError(t, m.MarkSetupFlag("p2", FlagHasConfirmedFirstPlayer, true))
	assert.Equal(t, StateSelectActivePokemon, m.State)

	m.GameState.Player1State.ActivePokemon = nil
	m.CheckBothActiveSet()
	assert.Equal(t, StateSelectActivePokemon, m.State, "neither active set yet")

	m.GameState.Player1State.ActivePokemon = dummyInstance("a1")
	m.GameState.Player2State.ActivePokemon = dummyInstance("a2")
	m.CheckBothActiveSet()
	assert.Equal(t, StateSelectBenchPokemon, m.State)

	m.FirstPlayerID = "p1"
	require.NoError(t, m.MarkSetupFlag("p1", FlagReadyToStart, true))
	require.NoError(t, m.MarkSetupFlag("p2", FlagReadyToStart, true))
	assert.Equal(t, StatePlayerTurn, m.State)
	assert.Equal(t, "p1", m.GameState.CurrentPlayer)
}

func TestMatch_Join_WrongState(t *testing.T) {
	m := setupStartedMatch(t)
	err := m.Join("p3", "deck3", now())
	assert.Error(t, err)
}

func TestMatch_ValidateDecks_Invalid(t *testing.T) {
	m := NewMatch("m1", now())
	require.NoError(t, m.Join("p1", "deck1", now()))
	require.NoError(t, m.Join("p2", "deck2", now()))

	require.NoError(t, m.ValidateDecks(false, true, "deck too small", now()))
	assert.Equal(t, StateCancelled, m.State)
	require.NotNil(t, m.CancelReason)
	assert.Equal(t, "deck too small", *m.CancelReason)
}

func TestMatch_Cancel_OnlyInWaitingForPlayers(t *testing.T) {
	m := NewMatch("m1", now())
	require.NoError(t, m.Join("p1", "deck1", now()))
	require.NoError(t, m.Cancel("player left", now()))
	assert.Equal(t, StateCancelled, m.State)

	m2 := setupStartedMatch(t)
	assert.Error(t, m2.Cancel("too late", now()))
}

func TestMatch_Concede_EndsMatchWithOpponentAsWinner(t *testing.T) {
	m := setupStartedMatch(t)
	require.NoError(t, m.Concede("p1", now()))

	assert.Equal(t, StateMatchEnded, m.State)
	require.NotNil(t, m.WinnerID)
	assert.Equal(t, "p2", *m.WinnerID)
	require.NotNil(t, m.WinCondition)
	assert.Equal(t, WinConditionConcede, *m.WinCondition)
	assert.False(t, m.IsActive())
}

func TestMatch_Concede_AlreadyTerminal(t *testing.T) {
	m := setupStartedMatch(t)
	require.NoError(t, m.Concede("p1", now()))
	assert.Error(t, m.Concede("p2", now()))
}

func TestMatch_EndTurn_SwapsPlayerAndResetsFlags(t *testing.T) {
	m := setupStartedMatch(t)
	m.State = StatePlayerTurn
	m.GameState.CurrentPlayer = "p1"
	m.GameState.Player1State.HasAttachedEnergyThisTurn = true
	turnBefore := m.GameState.TurnNumber

	require.NoError(t, m.EndTurn(now()))

	assert.Equal(t, StatePlayerTurn, m.State)
	assert.Equal(t, "p2", m.GameState.CurrentPlayer)
	assert.False(t, m.GameState.Player1State.HasAttachedEnergyThisTurn)
	assert.Equal(t, turnBefore+1, m.GameState.TurnNumber)
}

func TestMatch_EndTurn_WrongState(t *testing.T) {
	m := setupStartedMatch(t)
	assert.Error(t, m.EndTurn(now()))
}

func TestCoinFlip_RequestGenerateComplete(t *testing.T) {
	m := setupStartedMatch(t)

	require.NoError(t, m.RequestCoinFlip(CoinFlipContextAttack, 1, "p1"))
	assert.True(t, m.CanSubmitCoinFlip("p1"))
	assert.True(t, m.CanSubmitCoinFlip("p2"), "ATTACK context allows either player")

	results, err := m.GenerateCoinFlip()
	require.NoError(t, err)
	assert.Len(t, results, 1)
	assert.Equal(t, results, m.GameState.CoinFlipState.ResultBits)

	m.CompleteCoinFlip()
	require.NoError(t, m.RequestCoinFlip(CoinFlipContextFirstPlayer, 1, "p1"))
	assert.True(t, m.CanSubmitCoinFlip("p1"))
	assert.False(t, m.CanSubmitCoinFlip("p2"), "non-ATTACK context restricts to owner")
}

func TestCoinFlip_CannotRequestWhileInFlight(t *testing.T) {
	m := setupStartedMatch(t)
	require.NoError(t, m.RequestCoinFlip(CoinFlipContextAttack, 1, "p1"))
	assert.Error(t, m.RequestCoinFlip(CoinFlipContextAttack, 1, "p1"))
}

func TestCoinFlip_DeterministicGivenSameSeed(t *testing.T) {
	m1 := setupStartedMatch(t)
	m2 := setupStartedMatch(t)

	require.NoError(t, m1.RequestCoinFlip(CoinFlipContextAttack, 5, "p1"))
	require.NoError(t, m2.RequestCoinFlip(CoinFlipContextAttack, 5, "p1"))

	r1, err := m1.GenerateCoinFlip()
	require.NoError(t, err)
	r2, err := m2.GenerateCoinFlip()
	require.NoError(t, err)

	assert.Equal(t, r1, r2, "same seed produces the same flip sequence")
}

func TestCheckWinConditions_PrizeCards(t *testing.T) {
	m := setupStartedMatch(t)
	m.State = StatePlayerTurn
	m.GameState.Player1State.PrizeCards = nil
	m.GameState.Player2State.PrizeCards = nonEmptyPrizes(6)
	result := CheckWinConditions(m.State, m.GameState)
	require.NotNil(t, result)
	assert.Equal(t, "p1", result.WinnerID)
	assert.Equal(t, WinConditionPrizeCards, result.Condition)
}

func TestCheckWinConditions_PrizesNotYetDealt(t *testing.T) {
	m := setupStartedMatch(t)
	// Both players still have zero prizes because SET_PRIZE_CARDS hasn't run
	// yet, not because either has drawn them all — must not read as a win.
	assert.Nil(t, CheckWinConditions(m.State, m.GameState))
}

func TestCheckWinConditions_NoPokemon(t *testing.T) {
	m := setupStartedMatch(t)
	m.State = StatePlayerTurn
	m.GameState.Player1State.PrizeCards = nonEmptyPrizes(6)
	m.GameState.Player2State.PrizeCards = nonEmptyPrizes(6)
	m.GameState.Player1State.ActivePokemon = dummyInstance("a1")
	m.GameState.Player2State.ActivePokemon = nil

	result := CheckWinConditions(m.State, m.GameState)
	require.NotNil(t, result)
	assert.Equal(t, "p1", result.WinnerID)
	assert.Equal(t, WinConditionNoPokemon, result.Condition)
}

func TestCheckWinConditions_None(t *testing.T) {
	m := setupStartedMatch(t)
	m.State = StatePlayerTurn
	m.GameState.Player1State.PrizeCards = nonEmptyPrizes(6)
	m.GameState.Player2State.PrizeCards = nonEmptyPrizes(6)
	m.GameState.Player1State.ActivePokemon = dummyInstance("a1")
	m.GameState.Player2State.ActivePokemon = dummyInstance("a2")

	assert.Nil(t, CheckWinConditions(m.State, m.GameState))
}

func TestApplyWinCheck_ConcludesMatch(t *testing.T) {
	m := setupStartedMatch(t)
	m.ApplyWinCheck(&WinResult{WinnerID: "p1", Condition: WinConditionDeckOut}, now())

	assert.Equal(t, StateMatchEnded, m.State)
	assert.Equal(t, "p1", *m.WinnerID)
	assert.Equal(t, WinConditionDeckOut, *m.WinCondition)
}
