package match

import (
	"fmt"

	"tcg-match-engine/internal/zone"
)

// State is a top-level match lifecycle state (spec §4.5).
type State string

const (
	StateCreated               State = "CREATED"
	StateWaitingForPlayers     State = "WAITING_FOR_PLAYERS"
	StateDeckValidation        State = "DECK_VALIDATION"
	StatePreGameSetup          State = "PRE_GAME_SETUP"
	StateInitialSetup          State = "INITIAL_SETUP" // legacy combined state, kept for back-compat snapshots
	StateDrawingCards          State = "DRAWING_CARDS"
	StateSetPrizeCards         State = "SET_PRIZE_CARDS"
	StateFirstPlayerSelection  State = "FIRST_PLAYER_SELECTION"
	StateSelectActivePokemon   State = "SELECT_ACTIVE_POKEMON"
	StateSelectBenchPokemon    State = "SELECT_BENCH_POKEMON"
	StatePlayerTurn            State = "PLAYER_TURN"
	StateBetweenTurns          State = "BETWEEN_TURNS"
	StateMatchEnded            State = "MATCH_ENDED"
	StateCancelled             State = "CANCELLED"
)

// SetupFlagKind names one of the four independent per-player setup flags
// that gate parallel setup (spec §4.5): the engine advances state only once
// both players have the flag required by the current state.
type SetupFlagKind string

const (
	FlagHasDrawnValidHand       SetupFlagKind = "hasDrawnValidHand"
	FlagHasSetPrizeCards        SetupFlagKind = "hasSetPrizeCards"
	FlagHasConfirmedFirstPlayer SetupFlagKind = "hasConfirmedFirstPlayer"
	FlagReadyToStart            SetupFlagKind = "readyToStart"
)

// SetupFlags tracks one player's progress through parallel setup.
type SetupFlags struct {
	HasDrawnValidHand       bool
	HasSetPrizeCards        bool
	HasConfirmedFirstPlayer bool
	ReadyToStart            bool
}

// Has reports whether the named flag is currently set, for callers outside
// this package (e.g. internal/filter's setup-state gating).
func (f *SetupFlags) Has(kind SetupFlagKind) bool {
	return f.get(kind)
}

func (f *SetupFlags) get(kind SetupFlagKind) bool {
	switch kind {
	case FlagHasDrawnValidHand:
		return f.HasDrawnValidHand
	case FlagHasSetPrizeCards:
		return f.HasSetPrizeCards
	case FlagHasConfirmedFirstPlayer:
		return f.HasConfirmedFirstPlayer
	case FlagReadyToStart:
		return f.ReadyToStart
	default:
		return false
	}
}

func (f *SetupFlags) set(kind SetupFlagKind, v bool) {
	switch kind {
	case FlagHasDrawnValidHand:
		f.HasDrawnValidHand = v
	case FlagHasSetPrizeCards:
		f.HasSetPrizeCards = v
	case FlagHasConfirmedFirstPlayer:
		f.HasConfirmedFirstPlayer = v
	case FlagReadyToStart:
		f.ReadyToStart = v
	}
}

// setupGate maps a state that's waiting on a parallel-setup flag to the
// flag it needs and the state it advances to once both players have it.
var setupGate = map[State]struct {
	flag SetupFlagKind
	next State
}{
	StateDrawingCards:         {FlagHasDrawnValidHand, StateSetPrizeCards},
	StateSetPrizeCards:        {FlagHasSetPrizeCards, StateFirstPlayerSelection},
	StateFirstPlayerSelection: {FlagHasConfirmedFirstPlayer, StateSelectActivePokemon},
	StateSelectBenchPokemon:   {FlagReadyToStart, "" /* set by advanceSetup to PLAYER_TURN with side-effects */},
}

// MarkSetupFlag sets kind=v for playerID and advances the match state if
// both players now satisfy the current state's gate.
func (m *Match) MarkSetupFlag(playerID string, kind SetupFlagKind, v bool) error {
	flags, err := m.flagsFor(playerID)
	if err != nil {
		return err
	}
	flags.set(kind, v)
	return m.advanceSetupIfReady()
}

func (m *Match) flagsFor(playerID string) (*SetupFlags, error) {
	switch playerID {
	case m.Player1ID:
		return &m.Player1Flags, nil
	case m.Player2ID:
		return &m.Player2Flags, nil
	default:
		return nil, fmt.Errorf("match %s: unknown player %s", m.ID, playerID)
	}
}

func (m *Match) advanceSetupIfReady() error {
	gate, ok := setupGate[m.State]
	if !ok {
		return nil
	}
	if !m.Player1Flags.get(gate.flag) || !m.Player2Flags.get(gate.flag) {
		return nil
	}
	if m.State == StateSelectBenchPokemon {
		return m.enterPlayerTurn()
	}
	m.State = gate.next
	return nil
}

// CheckBothActiveSet advances SELECT_ACTIVE_POKEMON → SELECT_BENCH_POKEMON
// once both players have a non-nil ActivePokemon (spec §4.5's "[both active
// set]" guard, derived from game state rather than a boolean flag).
func (m *Match) CheckBothActiveSet() {
	if m.State != StateSelectActivePokemon || m.GameState == nil {
		return
	}
	if m.GameState.Player1State.ActivePokemon != nil && m.GameState.Player2State.ActivePokemon != nil {
		m.State = StateSelectBenchPokemon
	}
}

func (m *Match) enterPlayerTurn() error {
	if m.FirstPlayerID == "" {
		return fmt.Errorf("match %s: cannot enter PLAYER_TURN, no first player set", m.ID)
	}
	m.State = StatePlayerTurn
	m.GameState.CurrentPlayer = m.FirstPlayerID
	m.GameState.Phase = zone.PhaseDraw
	return nil
}
