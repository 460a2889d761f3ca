// Package effect implements C7: the attack/ability/trainer effect engines
// and the damage pipeline, sharing one Condition evaluator. It generalizes
// the teacher's dispatch-by-tagged-type style (seen throughout
// internal/action/validator and internal/usecase/asteroid.go's
// cost-validate-mutate-log sequencing) to this domain's effect variants.
package effect

import (
	"math/rand"
	"strconv"
	"strings"

	"tcg-match-engine/internal/card"
	"tcg-match-engine/internal/zone"
)

// Context carries everything a condition or effect needs to evaluate or
// apply against live state: both players' zones, who's attacking, and the
// resolved coin-flip bits for this action, if any.
type Context struct {
	GameState      *zone.GameState
	ActingPlayerID string
	Self           *zone.CardInstance // the acting Pokemon
	Defending      *zone.CardInstance // the opponent's active, if relevant
	CoinFlipHeads  []bool             // resolved results consumed by this action
	TurnNumber     int

	// RNG backs "random" selectors (energy acceleration, switch choices).
	// Callers pass the match's seeded PRNG (spec §6.4) so outcomes replay.
	RNG *rand.Rand

	// Choose resolves a "choice" selector: given candidate instanceIds, it
	// returns the one the acting player picked. Supplied by the action
	// executor from the submitted action's payload.
	Choose func(candidates []string) string

	// NewEnergyInstance mints a fresh zone.CardInstance for an energy
	// cardID. The effect package has no catalog dependency, so the caller
	// (the internal/action executor) supplies it. ENERGY_ACCELERATION does
	// nothing while it is nil; otherwise it moves the pulled instances
	// themselves onto the target.
	NewEnergyInstance func(cardID string) *zone.CardInstance
}

func (c *Context) actingState() *zone.PlayerGameState    { return c.GameState.PlayerState(c.ActingPlayerID) }
func (c *Context) opponentState() *zone.PlayerGameState { return c.GameState.Opponent(c.ActingPlayerID) }

func headsCount(bits []bool) int {
	n := 0
	for _, b := range bits {
		if b {
			n++
		}
	}
	return n
}

// EvalAll reports whether every condition in conditions holds (conditions
// combine by AND, per spec §4.7/§9).
func EvalAll(ctx *Context, conditions []card.Condition) bool {
	for _, c := range conditions {
		if !Eval(ctx, c) {
			return false
		}
	}
	return true
}

// Eval evaluates a single condition against ctx.
func Eval(ctx *Context, c card.Condition) bool {
	switch c.Type {
	case card.ConditionAlways:
		return true
	case card.ConditionCoinFlipSuccess:
		return headsCount(ctx.CoinFlipHeads) > 0
	case card.ConditionCoinFlipFailure:
		return headsCount(ctx.CoinFlipHeads) == 0
	case card.ConditionSelfHasDamage:
		return ctx.Self != nil && ctx.Self.CurrentHP < ctx.Self.MaxHP
	case card.ConditionSelfNoDamage:
		return ctx.Self != nil && ctx.Self.CurrentHP == ctx.Self.MaxHP
	case card.ConditionSelfMinDamage:
		threshold, _ := strconv.Atoi(c.Value)
		return ctx.Self != nil && (ctx.Self.MaxHP-ctx.Self.CurrentHP) >= threshold
	case card.ConditionSelfHasStatus:
		return ctx.Self != nil && ctx.Self.HasStatus(card.Status(c.Value))
	case card.ConditionSelfHasEnergyType:
		return selfHasEnergyType(ctx, c.Value)
	case card.ConditionSelfMinEnergy:
		threshold, _ := strconv.Atoi(c.Value)
		return ctx.Self != nil && len(ctx.Self.AttachedEnergy) >= threshold
	case card.ConditionOpponentHasDamage:
		return ctx.Defending != nil && ctx.Defending.CurrentHP < ctx.Defending.MaxHP
	case card.ConditionOpponentHasStatus:
		return ctx.Defending != nil && ctx.Defending.HasStatus(card.Status(c.Value))
	case card.ConditionStadiumInPlay:
		return evalStadiumInPlay(ctx, c.Value)
	default:
		return false
	}
}

func evalStadiumInPlay(ctx *Context, name string) bool {
	if ctx.GameState.StadiumInPlay == nil {
		return false
	}
	if name == "" {
		return true
	}
	return strings.EqualFold(*ctx.GameState.StadiumInPlay, name)
}

// selfHasEnergyType checks a "type:count" encoded condition value (spec
// §3's Condition.Value note) against the attached-energy card instance IDs.
// The instance IDs alone don't carry energy type, so the type part is not
// checked: with a count, the condition holds when at least that many energy
// cards of any type are attached; without one, when any energy is attached.
func selfHasEnergyType(ctx *Context, value string) bool {
	parts := strings.SplitN(value, ":", 2)
	if ctx.Self == nil {
		return false
	}
	if len(parts) == 2 {
		count, err := strconv.Atoi(parts[1])
		if err == nil {
			return len(ctx.Self.AttachedEnergy) >= count
		}
	}
	return len(ctx.Self.AttachedEnergy) > 0
}
