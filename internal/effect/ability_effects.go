package effect

import (
	"tcg-match-engine/internal/card"
	"tcg-match-engine/internal/zone"
)

// AbilityResult carries the passive, continuously-applied deltas an
// ability effect list contributes (spec §4.7): BOOST_ATTACK/BOOST_HP/
// REDUCE_DAMAGE don't mutate state directly, they modify how the damage
// pipeline or HP calculation behaves while the ability is active, so the
// caller folds these into that calculation rather than treating them as a
// one-time state change.
type AbilityResult struct {
	BoostAttackDelta   int
	BoostHPDelta       int
	ReduceDamageAmount card.AmountExpr
}

// ApplyAbilityEffects runs an activated or triggered ability's effects.
func ApplyAbilityEffects(ctx *Context, effects []card.AbilityEffect) AbilityResult {
	var result AbilityResult
	for _, e := range effects {
		switch e.Type {
		case card.AbilityEffectHeal:
			_, target := resolveTarget(ctx, e.Target)
			heal(target, e.Amount)
		case card.AbilityEffectPreventDamage:
			_, target := resolveTarget(ctx, e.Target)
			applyPreventDamage(target, e.Amount, e.Duration, ctx.TurnNumber)
		case card.AbilityEffectStatusCondition:
			_, target := resolveTarget(ctx, e.Target)
			setStatus(target, e.Status)
		case card.AbilityEffectEnergyAccel:
			applyEnergyAcceleration(ctx, ctx.Self, e.Source, e.Count, e.Selector)
		case card.AbilityEffectSwitchPokemon:
			switchActivePokemon(ctx.actingState(), ctx)
		case card.AbilityEffectDrawCards:
			drawCards(ctx.actingState(), e.Count)
		case card.AbilityEffectSearchDeck:
			searchFromZone(ctx, &ctx.actingState().Deck, e.Count, e.Selector)
		case card.AbilityEffectBoostAttack:
			result.BoostAttackDelta += e.Amount.Value
		case card.AbilityEffectBoostHP:
			result.BoostHPDelta += e.Amount.Value
		case card.AbilityEffectReduceDamage:
			result.ReduceDamageAmount = e.Amount
		case card.AbilityEffectDiscardFromHand:
			discardFromZone(ctx.actingState(), &ctx.actingState().Hand, e.Count, e.Selector, ctx)
		case card.AbilityEffectAttachFromDiscard:
			applyEnergyAcceleration(ctx, ctx.Self, card.SourceDiscard, e.Count, e.Selector)
		case card.AbilityEffectRetrieveFromDiscard:
			searchFromZone(ctx, &ctx.actingState().DiscardPile, e.Count, e.Selector)
		}
	}
	return result
}

func drawCards(ps *zone.PlayerGameState, count int) {
	for i := 0; i < count; i++ {
		if _, err := ps.DrawCard(); err != nil {
			return
		}
	}
}

// searchFromZone moves count cards from the given zone to hand (SEARCH_DECK,
// RETRIEVE_FROM_DISCARD): the card stays a real instance, only its Position
// and containing slice change.
func searchFromZone(ctx *Context, pool *[]*zone.CardInstance, count int, selector card.Selector) {
	ps := ctx.actingState()
	for i := 0; i < count && len(*pool) > 0; i++ {
		idx := pickIndex(ctx, *pool, selector)
		found := (*pool)[idx]
		*pool = append((*pool)[:idx], (*pool)[idx+1:]...)
		found.Position = zone.PositionHand
		ps.Hand = append(ps.Hand, found)
	}
}

// discardFromZone moves count cards from pool to the discard pile
// (DISCARD_FROM_HAND).
func discardFromZone(ps *zone.PlayerGameState, pool *[]*zone.CardInstance, count int, selector card.Selector, ctx *Context) {
	for i := 0; i < count && len(*pool) > 0; i++ {
		idx := pickIndex(ctx, *pool, selector)
		found := (*pool)[idx]
		*pool = append((*pool)[:idx], (*pool)[idx+1:]...)
		found.Position = zone.PositionDiscard
		ps.DiscardPile = append(ps.DiscardPile, found)
	}
}
