package effect

import "tcg-match-engine/internal/card"

// ApplyTrainerEffects runs a Trainer card's effects in the order they
// appear on the card (spec §4.7). Target for trainer effects is always the
// acting player's side unless the effect name says otherwise
// (OPPONENT_DRAWS, SWITCH_ACTIVE acts on the opponent's active).
func ApplyTrainerEffects(ctx *Context, effects []card.TrainerEffect) {
	for _, e := range effects {
		switch e.Type {
		case card.TrainerEffectHeal:
			_, target := resolveTarget(ctx, e.Target)
			heal(target, e.Amount)
		case card.TrainerEffectCureStatus:
			cureStatus(ctx, e.Target, e.Status)
		case card.TrainerEffectIncreaseDamage, card.TrainerEffectReduceDamage:
			// Folded into the caller's damage pipeline call for this
			// action; trainer effects of these types carry no other
			// state mutation.
		case card.TrainerEffectDrawCards:
			drawCards(ctx.actingState(), e.Count)
		case card.TrainerEffectSearchDeck:
			searchFromZone(ctx, &ctx.actingState().Deck, e.Count, card.SelectorChoice)
		case card.TrainerEffectShuffleDeck:
			shuffleDeck(ctx)
		case card.TrainerEffectDiscardHand:
			ps := ctx.actingState()
			discardFromZone(ps, &ps.Hand, len(ps.Hand), card.SelectorChoice, ctx)
		case card.TrainerEffectRetrieveFromDiscard:
			searchFromZone(ctx, &ctx.actingState().DiscardPile, e.Count, card.SelectorChoice)
		case card.TrainerEffectOpponentDraws:
			drawCards(ctx.opponentState(), e.Count)
		case card.TrainerEffectSwitchActive:
			switchActivePokemon(ctx.opponentState(), ctx)
		case card.TrainerEffectRemoveEnergy:
			discardEnergyFrom(ctx.opponentState(), ctx.Defending, card.AmountExpr{Value: e.Count})
		case card.TrainerEffectTradeCards:
			tradeCards(ctx, e.Count)
		}
	}
}

func cureStatus(ctx *Context, t card.Target, status card.Status) {
	_, target := resolveTarget(ctx, t)
	if target == nil {
		return
	}
	if status == "" {
		target.StatusEffects = make(map[card.Status]bool)
		return
	}
	delete(target.StatusEffects, status)
}

func shuffleDeck(ctx *Context) {
	ps := ctx.actingState()
	if ctx.RNG == nil {
		return
	}
	ctx.RNG.Shuffle(len(ps.Deck), func(i, j int) {
		ps.Deck[i], ps.Deck[j] = ps.Deck[j], ps.Deck[i]
	})
}

// tradeCards discards count hand cards and draws count replacements.
func tradeCards(ctx *Context, count int) {
	ps := ctx.actingState()
	discardFromZone(ps, &ps.Hand, count, card.SelectorChoice, ctx)
	drawCards(ps, count)
}

