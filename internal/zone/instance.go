// Package zone implements C4: the per-match mutable game-state model —
// card instances, per-player zones, and the top-level GameState. State is
// updated in place: PlayerGameState's mutators build each change on a Clone
// and copy it back over the receiver, so Clones taken earlier keep their
// own copies, but no mutator returns a new state value.
package zone

import "tcg-match-engine/internal/card"

// Position identifies which zone a CardInstance currently occupies.
type Position string

const (
	PositionActive  Position = "ACTIVE"
	PositionBench0  Position = "BENCH_0"
	PositionBench1  Position = "BENCH_1"
	PositionBench2  Position = "BENCH_2"
	PositionBench3  Position = "BENCH_3"
	PositionBench4  Position = "BENCH_4"
	PositionHand    Position = "HAND"
	PositionDeck    Position = "DECK"
	PositionDiscard Position = "DISCARD"
	PositionPrize   Position = "PRIZE"
)

// CardInstance is a runtime card with identity (spec §3's CardInstance): the
// catalog Card it's printed as, plus every piece of state that accrues to a
// specific physical copy during a match.
type CardInstance struct {
	InstanceID            string
	CardID                string
	Position               Position
	CurrentHP              int
	MaxHP                  int
	AttachedEnergy         []string // ordered instanceIds
	StatusEffects          map[card.Status]bool
	EvolutionChain         []string // ordered prior cardIds, oldest first
	PoisonDamageAmount     int      // 0 when not poisoned
	EvolvedAtTurn          *int
	ParalysisClearsAtTurn  *int

	// PreventionIsAll / PreventionAmount / PreventionExpiresAtTurn track an
	// in-flight PREVENT_DAMAGE effect (spec §4.7). ExpiresAtTurn is the last
	// turnNumber the prevention still applies to; it is cleared by the
	// effect package's turn-boundary expiry pass.
	PreventionIsAll        bool
	PreventionAmount       int
	PreventionExpiresAtTurn *int
}

// NewCardInstance constructs a fresh instance at the given position, with no
// damage, no attached energy, and no status effects.
func NewCardInstance(instanceID, cardID string, position Position, maxHP int) *CardInstance {
	return &CardInstance{
		InstanceID:    instanceID,
		CardID:        cardID,
		Position:      position,
		CurrentHP:     maxHP,
		MaxHP:         maxHP,
		StatusEffects: make(map[card.Status]bool),
	}
}

// Clone returns a deep copy of the instance, per the structural-sharing
// snapshot discipline spec §4.4 requires of every mutation.
func (ci *CardInstance) Clone() *CardInstance {
	if ci == nil {
		return nil
	}
	energyCopy := make([]string, len(ci.AttachedEnergy))
	copy(energyCopy, ci.AttachedEnergy)

	chainCopy := make([]string, len(ci.EvolutionChain))
	copy(chainCopy, ci.EvolutionChain)

	statusCopy := make(map[card.Status]bool, len(ci.StatusEffects))
	for k, v := range ci.StatusEffects {
		statusCopy[k] = v
	}

	var evolvedAt *int
	if ci.EvolvedAtTurn != nil {
		v := *ci.EvolvedAtTurn
		evolvedAt = &v
	}
	var paralysisClears *int
	if ci.ParalysisClearsAtTurn != nil {
		v := *ci.ParalysisClearsAtTurn
		paralysisClears = &v
	}
	var preventionExpires *int
	if ci.PreventionExpiresAtTurn != nil {
		v := *ci.PreventionExpiresAtTurn
		preventionExpires = &v
	}

	return &CardInstance{
		InstanceID:              ci.InstanceID,
		CardID:                  ci.CardID,
		Position:                ci.Position,
		CurrentHP:               ci.CurrentHP,
		MaxHP:                   ci.MaxHP,
		AttachedEnergy:          energyCopy,
		StatusEffects:           statusCopy,
		EvolutionChain:          chainCopy,
		PoisonDamageAmount:      ci.PoisonDamageAmount,
		EvolvedAtTurn:           evolvedAt,
		ParalysisClearsAtTurn:   paralysisClears,
		PreventionIsAll:         ci.PreventionIsAll,
		PreventionAmount:        ci.PreventionAmount,
		PreventionExpiresAtTurn: preventionExpires,
	}
}

// HasStatus reports whether the instance currently carries the given status.
func (ci *CardInstance) HasStatus(s card.Status) bool {
	return ci.StatusEffects[s]
}

// IsKnockedOut reports whether the instance's current HP has reached zero.
func (ci *CardInstance) IsKnockedOut() bool {
	return ci.CurrentHP <= 0
}

// EvolveOnto overlays a new top card while preserving damage taken (spec
// §4.4): maxHp changes to newMaxHP; currentHp = newMaxHP - damage-taken, so
// the absolute damage a Pokemon has suffered survives the evolution; status
// effects and poison are cleared; attached energy is preserved; the
// previous cardId is appended to the evolution chain.
func (ci *CardInstance) EvolveOnto(newCardID string, newMaxHP int, atTurn int) *CardInstance {
	next := ci.Clone()
	damageTaken := ci.MaxHP - ci.CurrentHP

	next.EvolutionChain = append(next.EvolutionChain, ci.CardID)
	next.CardID = newCardID
	next.MaxHP = newMaxHP
	next.CurrentHP = newMaxHP - damageTaken
	if next.CurrentHP < 0 {
		next.CurrentHP = 0
	}
	next.StatusEffects = make(map[card.Status]bool)
	next.PoisonDamageAmount = 0
	turn := atTurn
	next.EvolvedAtTurn = &turn

	return next
}
