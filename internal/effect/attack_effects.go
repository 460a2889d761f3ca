package effect

import (
	"tcg-match-engine/internal/card"
	"tcg-match-engine/internal/zone"
)

// ApplyAttackEffects runs effects in order against ctx, mutating live zone
// state directly (the caller is expected to have taken its own GameState
// snapshot for atomic commit-or-discard, per spec §5). It returns the sum
// of any DAMAGE_MODIFIER deltas, which the caller folds into the damage
// pipeline's selfDamageModifier term — DAMAGE_MODIFIER itself has no other
// observable side effect.
func ApplyAttackEffects(ctx *Context, effects []card.AttackEffect) (damageModifierTotal int) {
	for _, e := range effects {
		if !EvalAll(ctx, e.Conditions) {
			continue
		}
		switch e.Type {
		case card.AttackEffectDiscardEnergy:
			ps, target := resolveTarget(ctx, e.Target)
			discardEnergyFrom(ps, target, e.Amount)
		case card.AttackEffectStatusCondition:
			setStatus(ctx.Defending, e.Status)
		case card.AttackEffectDamageModifier:
			damageModifierTotal += e.Amount.Value
		case card.AttackEffectHeal:
			_, target := resolveTarget(ctx, e.Target)
			heal(target, e.Amount)
		case card.AttackEffectPreventDamage:
			_, target := resolveTarget(ctx, e.Target)
			applyPreventDamage(target, e.Amount, e.Duration, ctx.TurnNumber)
		case card.AttackEffectRecoilDamage:
			applyRecoil(ctx.Self, e.Amount)
		case card.AttackEffectEnergyAccel:
			applyEnergyAcceleration(ctx, ctx.Self, e.Source, e.Count, e.Selector)
		case card.AttackEffectSwitchPokemon:
			switchActivePokemon(ctx.actingState(), ctx)
		}
	}
	return damageModifierTotal
}

func applyRecoil(self *zone.CardInstance, amount card.AmountExpr) {
	if self == nil {
		return
	}
	self.CurrentHP -= amount.Value
	if self.CurrentHP < 0 {
		self.CurrentHP = 0
	}
}

// applyEnergyAcceleration attaches count energy instances pulled from
// source onto target, choosing among candidates per selector.
func applyEnergyAcceleration(ctx *Context, target *zone.CardInstance, source card.EnergySource, count int, selector card.Selector) {
	if target == nil || ctx.NewEnergyInstance == nil {
		return
	}
	ps := ctx.actingState()
	var pool *[]*zone.CardInstance
	switch source {
	case card.SourceDeck:
		pool = &ps.Deck
	case card.SourceDiscard:
		pool = &ps.DiscardPile
	case card.SourceHand:
		pool = &ps.Hand
	default:
		return
	}

	for i := 0; i < count && len(*pool) > 0; i++ {
		idx := pickIndex(ctx, *pool, selector)
		energyInstance := (*pool)[idx]
		*pool = append((*pool)[:idx], (*pool)[idx+1:]...)
		target.AttachedEnergy = append(target.AttachedEnergy, energyInstance.InstanceID)
		ps.RegisterAttachedEnergy(energyInstance)
	}
}

func pickIndex(ctx *Context, pool []*zone.CardInstance, selector card.Selector) int {
	if selector == card.SelectorRandom && ctx.RNG != nil {
		return ctx.RNG.Intn(len(pool))
	}
	if selector == card.SelectorChoice && ctx.Choose != nil {
		ids := make([]string, len(pool))
		for i, ci := range pool {
			ids[i] = ci.InstanceID
		}
		chosen := ctx.Choose(ids)
		for i, id := range ids {
			if id == chosen {
				return i
			}
		}
	}
	return 0
}

// switchActivePokemon swaps the acting player's active Pokemon with a
// chosen bench Pokemon (SWITCH_POKEMON, target=self always).
func switchActivePokemon(ps *zone.PlayerGameState, ctx *Context) {
	candidates := make([]string, 0, 5)
	for _, b := range ps.Bench {
		if b != nil {
			candidates = append(candidates, b.InstanceID)
		}
	}
	if len(candidates) == 0 {
		return
	}
	chosenID := candidates[0]
	if ctx.Choose != nil {
		if c := ctx.Choose(candidates); c != "" {
			chosenID = c
		}
	}
	for i, b := range ps.Bench {
		if b != nil && b.InstanceID == chosenID {
			ps.Bench[i], ps.ActivePokemon = ps.ActivePokemon, b
			return
		}
	}
}
