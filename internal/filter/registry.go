// Package filter implements C8: the action-filter registry. A Filter is
// registered against the single match.State it handles; the registry
// dispatches to the first registered filter for the match's current state,
// falling back to a default that allows only CONCEDE (spec §4.8).
package filter

import (
	"fmt"

	"tcg-match-engine/internal/match"
	"tcg-match-engine/internal/zone"
)

// Filter narrows match.AllActionTypes down to what playerID may submit
// against m's current state.
type Filter interface {
	State() match.State
	Apply(m *match.Match, playerID string) []match.ActionType
}

// Registry dispatches to the Filter registered for the match's current
// state, following the teacher's handler-registry idiom (one entry per key,
// duplicate registration rejected) adapted from a cardID-keyed map to a
// State-keyed one.
type Registry struct {
	filters map[match.State]Filter
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{filters: make(map[match.State]Filter)}
}

// Register attaches f under the state it reports via State(). Registering a
// second filter for the same state is an error.
func (r *Registry) Register(f Filter) error {
	if _, exists := r.filters[f.State()]; exists {
		return fmt.Errorf("filter already registered for state %s", f.State())
	}
	r.filters[f.State()] = f
	return nil
}

// Available returns the action types playerID may submit right now. States
// with no registered filter (terminal states, BETWEEN_TURNS, and any state
// not listed below) fall back to the spec's default: CONCEDE only.
func (r *Registry) Available(m *match.Match, playerID string) []match.ActionType {
	if f, ok := r.filters[m.State]; ok {
		return f.Apply(m, playerID)
	}
	return []match.ActionType{match.ActionConcede}
}

// DefaultRegistry wires one filter per state spec §4.8 names explicitly.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	must := func(f Filter) {
		if err := r.Register(f); err != nil {
			panic(err) // only reachable from a programming error: duplicate state registration
		}
	}
	must(turnOwnerFilter{})
	must(setupFlagFilter{state: match.StateDrawingCards, flag: match.FlagHasDrawnValidHand, action: match.ActionDrawCard})
	must(setupFlagFilter{state: match.StateSetPrizeCards, flag: match.FlagHasSetPrizeCards, action: match.ActionSetPrizeCards})
	must(setupFlagFilter{state: match.StateFirstPlayerSelection, flag: match.FlagHasConfirmedFirstPlayer, action: match.ActionConfirmFirstPlayer})
	must(selectActivePokemonFilter{})
	must(selectBenchPokemonFilter{})
	return r
}

// turnOwnerFilter handles StatePlayerTurn: it applies the opponent-only
// rule to the non-acting player and the phase-gated rule to the turn owner
// (spec §4.8 rules 1 and 2).
type turnOwnerFilter struct{}

func (turnOwnerFilter) State() match.State { return match.StatePlayerTurn }

func (turnOwnerFilter) Apply(m *match.Match, playerID string) []match.ActionType {
	actions := []match.ActionType{match.ActionConcede}
	if m.CanSubmitCoinFlip(playerID) {
		actions = append(actions, match.ActionGenerateCoinFlip)
	}

	if playerID != m.GameState.CurrentPlayer {
		// Opponent-only: a knockout mid-opponent's-turn can still leave this
		// player without an active Pokemon to replace.
		if ps := m.GameState.PlayerState(playerID); ps != nil && ps.ActivePokemon == nil {
			actions = append(actions, match.ActionSetActivePokemon)
		}
		return actions
	}

	switch m.GameState.Phase {
	case zone.PhaseDraw:
		actions = append(actions, match.ActionDrawCard)
	case zone.PhaseMainPhase:
		actions = append(actions,
			match.ActionPlayPokemon,
			match.ActionPlayTrainer,
			match.ActionEvolvePokemon,
			match.ActionRetreat,
			match.ActionAttack,
			match.ActionUseAbility,
			match.ActionEndTurn,
		)
		ps := m.GameState.PlayerState(playerID)
		if ps != nil && !ps.HasAttachedEnergyThisTurn {
			actions = append(actions, match.ActionAttachEnergy)
		}
	case zone.PhaseAttack:
		// A coin-flip-gated attack suspends at READY_TO_FLIP (offered
		// above) then resumes once GENERATE_COIN_FLIP has delivered
		// FLIP_RESULT: the attacker resubmits ATTACK to consume the bits
		// and finish resolving, so it must still be offered here.
		cf := m.GameState.CoinFlipState
		if cf != nil && cf.Status == zone.CoinFlipStatusFlipResult && cf.Context == string(match.CoinFlipContextAttack) {
			actions = append(actions, match.ActionAttack)
		}
	case zone.PhaseEnd:
		actions = append(actions, match.ActionEndTurn)
	}
	return actions
}

// setupFlagFilter handles a parallel-setup state gated by a single
// per-player flag: offer the flag-setting action until the player has set
// it, then wait on the opponent.
type setupFlagFilter struct {
	state  match.State
	flag   match.SetupFlagKind
	action match.ActionType
}

func (f setupFlagFilter) State() match.State { return f.state }

func (f setupFlagFilter) Apply(m *match.Match, playerID string) []match.ActionType {
	flags := flagsFor(m, playerID)
	if flags == nil || flags.Has(f.flag) {
		return []match.ActionType{match.ActionConcede}
	}
	return []match.ActionType{f.action, match.ActionConcede}
}

// selectActivePokemonFilter handles StateSelectActivePokemon: both the
// initial-setup active-selection step and the post-knockout side-phase
// reduce to the same derived guard (spec §4.5's "[both active set]"):
// whether this player currently lacks an active Pokemon.
type selectActivePokemonFilter struct{}

func (selectActivePokemonFilter) State() match.State { return match.StateSelectActivePokemon }

func (selectActivePokemonFilter) Apply(m *match.Match, playerID string) []match.ActionType {
	ps := m.GameState.PlayerState(playerID)
	if ps != nil && ps.ActivePokemon == nil {
		return []match.ActionType{match.ActionSetActivePokemon, match.ActionConcede}
	}
	return []match.ActionType{match.ActionConcede}
}

// selectBenchPokemonFilter handles StateSelectBenchPokemon: a player may
// keep benching Basic Pokemon from hand until they mark readyToStart.
type selectBenchPokemonFilter struct{}

func (selectBenchPokemonFilter) State() match.State { return match.StateSelectBenchPokemon }

func (selectBenchPokemonFilter) Apply(m *match.Match, playerID string) []match.ActionType {
	flags := flagsFor(m, playerID)
	if flags == nil || flags.Has(match.FlagReadyToStart) {
		return []match.ActionType{match.ActionConcede}
	}
	return []match.ActionType{match.ActionPlayPokemon, match.ActionCompleteInitialSetup, match.ActionConcede}
}

func flagsFor(m *match.Match, playerID string) *match.SetupFlags {
	switch playerID {
	case m.Player1ID:
		return &m.Player1Flags
	case m.Player2ID:
		return &m.Player2Flags
	default:
		return nil
	}
}
