package effect

import (
	"tcg-match-engine/internal/card"
	"tcg-match-engine/internal/zone"
)

// resolveTarget returns the PlayerGameState and CardInstance a Target
// refers to. TargetYours additionally consults ctx.Choose among the acting
// player's in-play Pokemon (active + bench).
func resolveTarget(ctx *Context, t card.Target) (*zone.PlayerGameState, *zone.CardInstance) {
	switch t {
	case card.TargetSelf:
		return ctx.actingState(), ctx.Self
	case card.TargetDefending:
		return ctx.opponentState(), ctx.Defending
	case card.TargetYours:
		ps := ctx.actingState()
		candidates := inPlayInstanceIDs(ps)
		if len(candidates) == 0 {
			return ps, nil
		}
		id := candidates[0]
		if ctx.Choose != nil {
			if chosen := ctx.Choose(candidates); chosen != "" {
				id = chosen
			}
		}
		return ps, findInPlay(ps, id)
	default:
		return nil, nil
	}
}

func inPlayInstanceIDs(ps *zone.PlayerGameState) []string {
	var out []string
	if ps.ActivePokemon != nil {
		out = append(out, ps.ActivePokemon.InstanceID)
	}
	for _, b := range ps.Bench {
		if b != nil {
			out = append(out, b.InstanceID)
		}
	}
	return out
}

func findInPlay(ps *zone.PlayerGameState, instanceID string) *zone.CardInstance {
	if ps.ActivePokemon != nil && ps.ActivePokemon.InstanceID == instanceID {
		return ps.ActivePokemon
	}
	for _, b := range ps.Bench {
		if b != nil && b.InstanceID == instanceID {
			return b
		}
	}
	return nil
}

// discardEnergyFrom removes up to amount (or all, if amount.IsAll) of
// target's attached-energy instanceIds, discarding the underlying energy
// CardInstance via ps.DiscardAttachedEnergy. Returns the count discarded.
func discardEnergyFrom(ps *zone.PlayerGameState, target *zone.CardInstance, amount card.AmountExpr) int {
	if target == nil {
		return 0
	}
	n := len(target.AttachedEnergy)
	if !amount.IsAll && amount.Value < n {
		n = amount.Value
	}
	discarded := append([]string(nil), target.AttachedEnergy[:n]...)
	target.AttachedEnergy = target.AttachedEnergy[n:]
	for _, instanceID := range discarded {
		ps.DiscardAttachedEnergy(instanceID)
	}
	return n
}

// DiscardEnergyFrom is the exported form of discardEnergyFrom, for callers
// outside this package that need to pay an energy cost directly (e.g.
// internal/action's retreat handler discarding the retreat cost).
func DiscardEnergyFrom(ps *zone.PlayerGameState, target *zone.CardInstance, amount card.AmountExpr) int {
	return discardEnergyFrom(ps, target, amount)
}

func heal(target *zone.CardInstance, amount card.AmountExpr) {
	if target == nil {
		return
	}
	if amount.IsAll {
		target.CurrentHP = target.MaxHP
		return
	}
	target.CurrentHP += amount.Value
	if target.CurrentHP > target.MaxHP {
		target.CurrentHP = target.MaxHP
	}
}

func applyPreventDamage(target *zone.CardInstance, amount card.AmountExpr, duration card.Duration, turnNumber int) {
	if target == nil {
		return
	}
	target.PreventionIsAll = amount.IsAll
	target.PreventionAmount = amount.Value
	expires := turnNumber
	if duration == card.DurationNextTurn {
		expires++
	}
	target.PreventionExpiresAtTurn = &expires
}

func setStatus(target *zone.CardInstance, status card.Status) {
	if target == nil {
		return
	}
	if target.StatusEffects == nil {
		target.StatusEffects = make(map[card.Status]bool)
	}
	target.StatusEffects[status] = true
}

// ExpirePreventionAtTurnBoundary clears any prevention effect on every
// in-play Pokemon whose ExpiresAtTurn has passed (called from BETWEEN_TURNS
// processing, spec §4.6's END_TURN contract).
func ExpirePreventionAtTurnBoundary(ps *zone.PlayerGameState, newTurnNumber int) {
	clear := func(ci *zone.CardInstance) {
		if ci == nil || ci.PreventionExpiresAtTurn == nil {
			return
		}
		if newTurnNumber > *ci.PreventionExpiresAtTurn {
			ci.PreventionIsAll = false
			ci.PreventionAmount = 0
			ci.PreventionExpiresAtTurn = nil
		}
	}
	clear(ps.ActivePokemon)
	for _, b := range ps.Bench {
		clear(b)
	}
}
