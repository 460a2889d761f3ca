package match

import "tcg-match-engine/internal/zone"

// WinCondition names why a match ended (spec §4.5/§8).
type WinCondition string

const (
	WinConditionPrizeCards WinCondition = "PRIZE_CARDS"
	WinConditionNoPokemon  WinCondition = "NO_POKEMON"
	WinConditionDeckOut    WinCondition = "DECK_OUT"
	WinConditionConcede    WinCondition = "CONCEDE"
)

// WinResult reports a detected win condition and its winner.
type WinResult struct {
	WinnerID  string
	Condition WinCondition
}

// prizesNotYetDealt lists every state reachable strictly before both players
// have run SET_PRIZE_CARDS (spec §4.5's setup gate order guarantees prizes
// are dealt by the time FIRST_PLAYER_SELECTION is entered). PRIZE_CARDS can
// only be checked once both players genuinely started with a nonzero prize
// count — otherwise "0 prizes remaining" is indistinguishable from "prizes
// never dealt" and would fire a false win on the very first setup action.
var prizesNotYetDealt = map[State]bool{
	StateCreated:           true,
	StateWaitingForPlayers: true,
	StateDeckValidation:    true,
	StatePreGameSetup:      true,
	StateInitialSetup:      true,
	StateDrawingCards:      true,
	StateSetPrizeCards:     true,
}

// CheckWinConditions runs the win-condition checks spec §4.5 requires after
// every action: PRIZE_CARDS and NO_POKEMON are derivable from gs alone.
// DECK_OUT is checked at the DRAW_CARD call site (internal/action), since it
// depends on an attempted draw rather than steady-state zone contents; see
// IsDeckOut. Returns nil when no condition is met.
func CheckWinConditions(state State, gs *zone.GameState) *WinResult {
	if gs == nil || prizesNotYetDealt[state] {
		return nil
	}
	if len(gs.Player1State.PrizeCards) == 0 {
		return &WinResult{WinnerID: gs.Player1State.PlayerID, Condition: WinConditionPrizeCards}
	}
	if len(gs.Player2State.PrizeCards) == 0 {
		return &WinResult{WinnerID: gs.Player2State.PlayerID, Condition: WinConditionPrizeCards}
	}

	if state != StatePlayerTurn && state != StateBetweenTurns {
		return nil
	}
	if isNoPokemon(gs.Player1State) {
		return &WinResult{WinnerID: gs.Player2State.PlayerID, Condition: WinConditionNoPokemon}
	}
	if isNoPokemon(gs.Player2State) {
		return &WinResult{WinnerID: gs.Player1State.PlayerID, Condition: WinConditionNoPokemon}
	}
	return nil
}

func isNoPokemon(ps *zone.PlayerGameState) bool {
	return ps.ActivePokemon == nil && ps.BenchCount() == 0
}

// IsDeckOut reports whether ps must draw but cannot (spec §8: "Draw on
// empty deck ⇒ DECK_OUT loss immediately, not an error").
func IsDeckOut(ps *zone.PlayerGameState) bool {
	return len(ps.Deck) == 0
}
