// Package action implements C6: the action executor. One handler per
// match.ActionType runs the five-step sequence spec §4.6 specifies for
// every submitted action — state guard (via internal/filter's registry),
// phase guard, precondition validation, mutation, side-effect queue
// (knockout sweep, win check) — and returns the zone.ActionRecord appended
// to history, or a typed internal/matcherr error that leaves history
// untouched.
package action

import "tcg-match-engine/internal/match"

// Request is one submitted action, addressed to a single match by the
// caller (internal/engine). Fields not relevant to ActionType are left
// zero-valued; handlers read only the fields their action type defines.
type Request struct {
	PlayerID string
	Type     match.ActionType

	// InstanceID is the hand/bench/active card instance the action centers
	// on: the Pokemon played, the energy attached, the trainer played, the
	// evolution card, the bench Pokemon promoted on retreat or knockout.
	InstanceID string

	// TargetInstanceID is the instance InstanceID acts upon, when distinct:
	// ATTACH_ENERGY's destination Pokemon, EVOLVE_POKEMON's evolving target.
	TargetInstanceID string

	// BenchSlot is PLAY_POKEMON's destination: -1 means ACTIVE (only legal
	// when the player has no active Pokemon), 0-4 an empty bench slot.
	BenchSlot int

	AttackName  string // ATTACK
	AbilityName string // USE_ABILITY

	Choice string // resolves a "choice" selector an in-flight effect needs
	Count  int    // SET_PRIZE_CARDS' prize count

	PrizeInstanceID string // SELECT_PRIZE/DRAW_PRIZE's chosen prize card
}
