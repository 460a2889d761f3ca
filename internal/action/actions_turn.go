package action

import (
	"time"

	"tcg-match-engine/internal/card"
	"tcg-match-engine/internal/effect"
	"tcg-match-engine/internal/events"
	"tcg-match-engine/internal/match"
	"tcg-match-engine/internal/matcherr"
	"tcg-match-engine/internal/zone"
)

// handleDrawCard branches on state: during DRAWING_CARDS it's the initial
// 7-card hand draw (gated by the flag filter, not phase); during
// PLAYER_TURN it's the once-per-turn draw that opens MAIN_PHASE. An empty
// deck on the turn draw is DECK_OUT, not a validation error (spec §8).
func handleDrawCard(ex *Executor, m *match.Match, bus *events.Bus, req Request, now time.Time) (map[string]any, error) {
	ps := m.GameState.PlayerState(req.PlayerID)

	if m.State == match.StateDrawingCards {
		for i := 0; i < 7; i++ {
			if _, err := ps.DrawCard(); err != nil {
				return nil, &matcherr.InsufficientResourcesError{MatchID: m.ID, Action: string(req.Type), Resource: "deck", Needed: 7, Have: i}
			}
		}
		if err := m.MarkSetupFlag(req.PlayerID, match.FlagHasDrawnValidHand, true); err != nil {
			return nil, &matcherr.InvalidActionError{MatchID: m.ID, Action: string(req.Type), Reason: err.Error()}
		}
		return map[string]any{"drawn": 7}, nil
	}

	if m.GameState.Phase != zone.PhaseDraw {
		return nil, &matcherr.InvalidPhaseError{MatchID: m.ID, Action: string(req.Type), Phase: string(m.GameState.Phase)}
	}
	if match.IsDeckOut(ps) {
		m.ApplyWinCheck(&match.WinResult{WinnerID: m.Opponent(req.PlayerID), Condition: match.WinConditionDeckOut}, now)
		return map[string]any{"deckOut": true}, nil
	}
	drawn, err := ps.DrawCard()
	if err != nil {
		return nil, &matcherr.InsufficientResourcesError{MatchID: m.ID, Action: string(req.Type), Resource: "deck", Needed: 1, Have: 0}
	}
	m.GameState.Phase = zone.PhaseMainPhase
	return map[string]any{"instanceId": drawn.InstanceID, "cardId": drawn.CardID}, nil
}

// handlePlayPokemon plays a Basic Pokemon from hand to ACTIVE (only if
// empty) or an empty bench slot. Also legal during SELECT_BENCH_POKEMON,
// where it has no phase to check.
func handlePlayPokemon(ex *Executor, m *match.Match, bus *events.Bus, req Request, now time.Time) (map[string]any, error) {
	if m.State == match.StatePlayerTurn && m.GameState.Phase != zone.PhaseMainPhase {
		return nil, &matcherr.InvalidPhaseError{MatchID: m.ID, Action: string(req.Type), Phase: string(m.GameState.Phase)}
	}

	ps := m.GameState.PlayerState(req.PlayerID)
	ci, def, err := findInHand(ex, m.ID, ps, req.InstanceID, string(req.Type))
	if err != nil {
		return nil, err
	}
	if !def.IsBasic() {
		return nil, &matcherr.InvalidTargetError{MatchID: m.ID, Action: string(req.Type), Target: req.InstanceID, Reason: "only Basic Pokemon may be played from hand"}
	}

	if req.BenchSlot == -1 {
		if ps.ActivePokemon != nil {
			return nil, &matcherr.InvalidTargetError{MatchID: m.ID, Action: string(req.Type), Target: "active", Reason: "active pokemon already set"}
		}
		removeFromHand(ps, req.InstanceID)
		ci.Position = zone.PositionActive
		ci.CurrentHP = def.HP
		ci.MaxHP = def.HP
		ps.ActivePokemon = ci
		return map[string]any{"instanceId": ci.InstanceID, "position": "ACTIVE"}, nil
	}

	slot := req.BenchSlot
	if slot < 0 || slot > 4 {
		slot = ps.FirstEmptyBenchSlot()
	}
	if slot == -1 || ps.Bench[slot] != nil {
		return nil, &matcherr.InsufficientResourcesError{MatchID: m.ID, Action: string(req.Type), Resource: "bench slot", Needed: 1, Have: 0}
	}
	removeFromHand(ps, req.InstanceID)
	ci.Position = benchPosition(slot)
	ci.CurrentHP = def.HP
	ci.MaxHP = def.HP
	ps.Bench[slot] = ci
	return map[string]any{"instanceId": ci.InstanceID, "benchSlot": slot}, nil
}

func removeFromHand(ps *zone.PlayerGameState, instanceID string) {
	for i, ci := range ps.Hand {
		if ci.InstanceID == instanceID {
			ps.Hand = append(ps.Hand[:i], ps.Hand[i+1:]...)
			return
		}
	}
}

func benchPosition(slot int) zone.Position {
	switch slot {
	case 0:
		return zone.PositionBench0
	case 1:
		return zone.PositionBench1
	case 2:
		return zone.PositionBench2
	case 3:
		return zone.PositionBench3
	default:
		return zone.PositionBench4
	}
}

// handleAttachEnergy attaches req.InstanceID (an energy card in hand) onto
// req.TargetInstanceID (active or bench), at most once per turn.
func handleAttachEnergy(ex *Executor, m *match.Match, bus *events.Bus, req Request, now time.Time) (map[string]any, error) {
	if m.GameState.Phase != zone.PhaseMainPhase {
		return nil, &matcherr.InvalidPhaseError{MatchID: m.ID, Action: string(req.Type), Phase: string(m.GameState.Phase)}
	}
	ps := m.GameState.PlayerState(req.PlayerID)
	if ps.HasAttachedEnergyThisTurn {
		return nil, &matcherr.RuleViolationError{MatchID: m.ID, Action: string(req.Type), Rule: "at most one energy attachment per turn"}
	}
	_, def, err := findInHand(ex, m.ID, ps, req.InstanceID, string(req.Type))
	if err != nil {
		return nil, err
	}
	if def.CardType != card.TypeEnergy {
		return nil, &matcherr.InvalidTargetError{MatchID: m.ID, Action: string(req.Type), Target: req.InstanceID, Reason: "not an energy card"}
	}
	if err := ps.AttachEnergy(req.InstanceID, req.TargetInstanceID); err != nil {
		return nil, &matcherr.InvalidTargetError{MatchID: m.ID, Action: string(req.Type), Target: req.TargetInstanceID, Reason: err.Error()}
	}
	publish(bus, events.EnergyAttachedEvent{MatchID: m.ID, PlayerID: req.PlayerID, InstanceID: req.TargetInstanceID, EnergyType: string(def.EnergyType)})
	return map[string]any{"instanceId": req.InstanceID, "targetInstanceId": req.TargetInstanceID}, nil
}

// handlePlayTrainer resolves req.InstanceID's trainer effects and moves it
// to discard (Item: unlimited; Supporter: once per turn; Stadium: discarded
// too, with its name recorded as GameState.StadiumInPlay, replacing any
// previous stadium).
func handlePlayTrainer(ex *Executor, m *match.Match, bus *events.Bus, req Request, now time.Time) (map[string]any, error) {
	if m.GameState.Phase != zone.PhaseMainPhase {
		return nil, &matcherr.InvalidPhaseError{MatchID: m.ID, Action: string(req.Type), Phase: string(m.GameState.Phase)}
	}
	ps := m.GameState.PlayerState(req.PlayerID)
	tc, def, err := findInHand(ex, m.ID, ps, req.InstanceID, string(req.Type))
	if err != nil {
		return nil, err
	}
	if def.CardType != card.TypeTrainer {
		return nil, &matcherr.InvalidTargetError{MatchID: m.ID, Action: string(req.Type), Target: req.InstanceID, Reason: "not a trainer card"}
	}
	if def.TrainerType == card.TrainerSupporter && ps.HasPlayedSupporterThisTurn {
		return nil, &matcherr.RuleViolationError{MatchID: m.ID, Action: string(req.Type), Rule: "at most one supporter per turn"}
	}

	ctx := effectContext(m, req.PlayerID, req, nil)
	effect.ApplyTrainerEffects(ctx, def.TrainerEffects)

	if err := ps.Discard(tc.InstanceID); err != nil {
		return nil, &matcherr.InvalidActionError{MatchID: m.ID, Action: string(req.Type), Reason: err.Error()}
	}
	if def.TrainerType == card.TrainerStadium {
		name := def.Name
		m.GameState.StadiumInPlay = &name
	}
	if def.TrainerType == card.TrainerSupporter {
		ps.HasPlayedSupporterThisTurn = true
	}
	publish(bus, events.CardPlayedEvent{MatchID: m.ID, PlayerID: req.PlayerID, CardID: def.CardID, CardType: string(def.TrainerType)})
	return map[string]any{"instanceId": req.InstanceID, "cardId": def.CardID}, nil
}

// handleEvolvePokemon overlays req.TargetInstanceID with the hand card
// req.InstanceID. The evolution card's hand instance is consumed entirely
// (not discarded) since EvolveOnto reuses the target's InstanceID — the
// card it was printed as lives on only in EvolutionChain.
func handleEvolvePokemon(ex *Executor, m *match.Match, bus *events.Bus, req Request, now time.Time) (map[string]any, error) {
	if m.GameState.Phase != zone.PhaseMainPhase {
		return nil, &matcherr.InvalidPhaseError{MatchID: m.ID, Action: string(req.Type), Phase: string(m.GameState.Phase)}
	}
	ps := m.GameState.PlayerState(req.PlayerID)
	_, def, err := findInHand(ex, m.ID, ps, req.InstanceID, string(req.Type))
	if err != nil {
		return nil, err
	}
	target := findActiveOrBench(ps, req.TargetInstanceID)
	if target == nil {
		return nil, &matcherr.InvalidTargetError{MatchID: m.ID, Action: string(req.Type), Target: req.TargetInstanceID, Reason: "not active or benched"}
	}
	targetDef, err := ex.Cards.GetByID(target.CardID)
	if err != nil {
		return nil, &matcherr.InvalidTargetError{MatchID: m.ID, Action: string(req.Type), Target: req.TargetInstanceID, Reason: err.Error()}
	}
	if def.EvolvesFromRef == nil || def.EvolvesFromRef.Name != targetDef.Name {
		return nil, &matcherr.InvalidTargetError{MatchID: m.ID, Action: string(req.Type), Target: req.TargetInstanceID, Reason: "evolvesFrom does not match target"}
	}
	if target.EvolvedAtTurn != nil && *target.EvolvedAtTurn == m.GameState.TurnNumber {
		return nil, &matcherr.InvalidTargetError{MatchID: m.ID, Action: string(req.Type), Target: req.TargetInstanceID, Reason: "already evolved this turn"}
	}

	if err := ps.Evolve(req.TargetInstanceID, def.CardID, def.HP, m.GameState.TurnNumber); err != nil {
		return nil, &matcherr.InvalidTargetError{MatchID: m.ID, Action: string(req.Type), Target: req.TargetInstanceID, Reason: err.Error()}
	}
	removeFromHand(ps, req.InstanceID)
	return map[string]any{"instanceId": req.TargetInstanceID, "evolvedTo": def.CardID}, nil
}

// handleRetreat pays req's active Pokemon's retreat cost by discarding that
// many attached energy instances, then swaps it with req.TargetInstanceID
// (a bench Pokemon).
func handleRetreat(ex *Executor, m *match.Match, bus *events.Bus, req Request, now time.Time) (map[string]any, error) {
	if m.GameState.Phase != zone.PhaseMainPhase {
		return nil, &matcherr.InvalidPhaseError{MatchID: m.ID, Action: string(req.Type), Phase: string(m.GameState.Phase)}
	}
	ps := m.GameState.PlayerState(req.PlayerID)
	active := ps.ActivePokemon
	if active == nil {
		return nil, &matcherr.InvalidTargetError{MatchID: m.ID, Action: string(req.Type), Target: "active", Reason: "no active pokemon"}
	}
	if active.HasStatus(card.StatusParalyzed) || active.HasStatus(card.StatusAsleep) {
		return nil, &matcherr.RuleViolationError{MatchID: m.ID, Action: string(req.Type), Rule: "cannot retreat while paralyzed or asleep"}
	}
	def, err := ex.Cards.GetByID(active.CardID)
	if err != nil {
		return nil, &matcherr.InvalidTargetError{MatchID: m.ID, Action: string(req.Type), Target: active.CardID, Reason: err.Error()}
	}
	if !def.CanRetreat() {
		return nil, &matcherr.RuleViolationError{MatchID: m.ID, Action: string(req.Type), Rule: "cannot retreat (CANNOT_RETREAT)"}
	}

	benchIdx := benchIndexOf(ps, req.TargetInstanceID)
	if benchIdx == -1 {
		return nil, &matcherr.InvalidTargetError{MatchID: m.ID, Action: string(req.Type), Target: req.TargetInstanceID, Reason: "not on bench"}
	}
	if len(active.AttachedEnergy) < def.RetreatCost {
		return nil, &matcherr.InsufficientResourcesError{MatchID: m.ID, Action: string(req.Type), Resource: "attached energy", Needed: def.RetreatCost, Have: len(active.AttachedEnergy)}
	}
	if def.RetreatCost > 0 {
		effect.DiscardEnergyFrom(ps, active, card.AmountExpr{Value: def.RetreatCost})
	}

	benched := ps.Bench[benchIdx]
	ps.Bench[benchIdx] = active
	active.Position = benchPosition(benchIdx)
	benched.Position = zone.PositionActive
	ps.ActivePokemon = benched
	return map[string]any{"newActiveInstanceId": benched.InstanceID}, nil
}

// attackNeedsCoinFlip reports whether atk's preconditions or effects
// reference a coin-flip condition, meaning the executor must request
// exactly one flip before resolving damage (spec §4.6/§4.7: the Condition
// model supports a single pass/fail flip, not repeated-until-tails).
func attackNeedsCoinFlip(atk card.Attack) bool {
	refs := func(conditions []card.Condition) bool {
		for _, c := range conditions {
			if c.Type == card.ConditionCoinFlipSuccess || c.Type == card.ConditionCoinFlipFailure {
				return true
			}
		}
		return false
	}
	if refs(atk.Preconditions) {
		return true
	}
	for _, e := range atk.Effects {
		if refs(e.Conditions) {
			return true
		}
	}
	return false
}

// attachedEnergyTypes resolves target's AttachedEnergy instance ids back to
// their catalog energy types, via ps.AttachedEnergyInstance.
func attachedEnergyTypes(ex *Executor, ps *zone.PlayerGameState, target *zone.CardInstance) []card.EnergyType {
	types := make([]card.EnergyType, 0, len(target.AttachedEnergy))
	for _, id := range target.AttachedEnergy {
		inst := ps.AttachedEnergyInstance(id)
		if inst == nil {
			continue
		}
		def, err := ex.Cards.GetByID(inst.CardID)
		if err != nil {
			continue
		}
		types = append(types, def.EnergyType)
	}
	return types
}

// satisfiesEnergyCost reports whether attached covers atk's energy cost:
// every specific-type requirement must be met first, and whatever's left
// over (plus any attached type the attack doesn't name) pays Colorless.
func satisfiesEnergyCost(attached []card.EnergyType, atk card.Attack) bool {
	have := map[card.EnergyType]int{}
	for _, t := range attached {
		have[t]++
	}
	needed := map[card.EnergyType]int{}
	colorlessNeeded := 0
	for _, e := range atk.EnergyCost {
		if e == card.EnergyColorless {
			colorlessNeeded++
		} else {
			needed[e]++
		}
	}
	spare := 0
	for t, n := range needed {
		if have[t] < n {
			return false
		}
		spare += have[t] - n
	}
	for t, n := range have {
		if _, ok := needed[t]; !ok {
			spare += n
		}
	}
	return spare >= colorlessNeeded
}

// handleAttack resolves req.AttackName against the opponent's active
// Pokemon. A coin-flip-gated attack suspends at the precondition boundary:
// the first ATTACK submission requests the flip and returns with
// coinFlipPending=true instead of resolving, matching spec §8 scenario 4's
// walkthrough; the client resubmits ATTACK once GENERATE_COIN_FLIP has run.
func handleAttack(ex *Executor, m *match.Match, bus *events.Bus, req Request, now time.Time) (map[string]any, error) {
	ps := m.GameState.PlayerState(req.PlayerID)
	opp := m.GameState.Opponent(req.PlayerID)

	active := ps.ActivePokemon
	if active == nil {
		return nil, &matcherr.InvalidTargetError{MatchID: m.ID, Action: string(req.Type), Target: "active", Reason: "no active pokemon"}
	}
	if active.HasStatus(card.StatusParalyzed) || active.HasStatus(card.StatusAsleep) {
		return nil, &matcherr.RuleViolationError{MatchID: m.ID, Action: string(req.Type), Rule: "cannot attack while paralyzed or asleep"}
	}
	def, err := ex.Cards.GetByID(active.CardID)
	if err != nil {
		return nil, &matcherr.InvalidTargetError{MatchID: m.ID, Action: string(req.Type), Target: active.CardID, Reason: err.Error()}
	}
	var atk *card.Attack
	for i := range def.Attacks {
		if def.Attacks[i].Name == req.AttackName {
			atk = &def.Attacks[i]
			break
		}
	}
	if atk == nil {
		return nil, &matcherr.InvalidActionError{MatchID: m.ID, Action: string(req.Type), Reason: "no such attack: " + req.AttackName}
	}
	if opp.ActivePokemon == nil {
		return nil, &matcherr.InvalidTargetError{MatchID: m.ID, Action: string(req.Type), Target: "defending", Reason: "opponent has no active pokemon"}
	}
	if !satisfiesEnergyCost(attachedEnergyTypes(ex, ps, active), *atk) {
		return nil, &matcherr.InsufficientResourcesError{MatchID: m.ID, Action: string(req.Type), Resource: "energy", Needed: atk.TotalEnergyCost(), Have: len(active.AttachedEnergy)}
	}

	m.GameState.Phase = zone.PhaseAttack
	needsFlip := attackNeedsCoinFlip(*atk)
	var coinHeads []bool
	if needsFlip {
		cf := m.GameState.CoinFlipState
		if cf == nil || cf.Status == zone.CoinFlipStatusCompleted {
			if err := m.RequestCoinFlip(match.CoinFlipContextAttack, 1, req.PlayerID); err != nil {
				return nil, &matcherr.InvalidActionError{MatchID: m.ID, Action: string(req.Type), Reason: err.Error()}
			}
			return map[string]any{"coinFlipPending": true}, nil
		}
		if cf.Status != zone.CoinFlipStatusFlipResult {
			return map[string]any{"coinFlipPending": true}, nil
		}
		coinHeads = cf.ResultBits
	}

	ctx := effectContext(m, req.PlayerID, req, coinHeads)
	bonusEnergy := len(active.AttachedEnergy) - atk.TotalEnergyCost()
	if bonusEnergy < 0 {
		bonusEnergy = 0
	}
	base := effect.ResolveBaseDamage(atk.Damage, atk.EnergyBonusCap, bonusEnergy, coinHeads)
	modifierTotal := effect.ApplyAttackEffects(ctx, atk.Effects)

	var weakness, resistance *card.Modifier
	oppDef, err := ex.Cards.GetByID(opp.ActivePokemon.CardID)
	if err == nil {
		weakness = oppDef.Weakness
		resistance = oppDef.Resistance
	}
	prevention := card.AmountExpr{IsAll: opp.ActivePokemon.PreventionIsAll, Value: opp.ActivePokemon.PreventionAmount}
	damage := effect.ResolveDamage(base, 0, modifierTotal, weakness, resistance, prevention)
	opp.ActivePokemon.CurrentHP -= damage
	if opp.ActivePokemon.CurrentHP < 0 {
		opp.ActivePokemon.CurrentHP = 0
	}

	if needsFlip {
		m.CompleteCoinFlip()
	}
	m.GameState.Phase = zone.PhaseEnd
	publish(bus, events.AttackResolvedEvent{MatchID: m.ID, AttackerID: req.PlayerID, AttackName: atk.Name, DamageDealt: damage})
	return map[string]any{"damage": damage}, nil
}

// handleUseAbility activates req.InstanceID's ability, subject to
// usageLimit. ONCE_PER_TURN/ONCE_PER_GAME usage is found by scanning
// ActionHistory for earlier USE_ABILITY records with the same instanceId
// (for ONCE_PER_TURN, only those of the current turnNumber) rather than
// through a separate counter — history is the engine's source of truth
// for "has this already fired".
func handleUseAbility(ex *Executor, m *match.Match, bus *events.Bus, req Request, now time.Time) (map[string]any, error) {
	if m.GameState.Phase != zone.PhaseMainPhase {
		return nil, &matcherr.InvalidPhaseError{MatchID: m.ID, Action: string(req.Type), Phase: string(m.GameState.Phase)}
	}
	ps := m.GameState.PlayerState(req.PlayerID)
	target := findActiveOrBench(ps, req.InstanceID)
	if target == nil {
		return nil, &matcherr.InvalidTargetError{MatchID: m.ID, Action: string(req.Type), Target: req.InstanceID, Reason: "not active or benched"}
	}
	def, err := ex.Cards.GetByID(target.CardID)
	if err != nil || !def.HasAbility() {
		return nil, &matcherr.InvalidTargetError{MatchID: m.ID, Action: string(req.Type), Target: req.InstanceID, Reason: "no ability"}
	}
	ability := def.PokemonAbility
	if ability.Triggered {
		return nil, &matcherr.InvalidActionError{MatchID: m.ID, Action: string(req.Type), Reason: "ability is triggered, not activated"}
	}
	if usedAlready(m, target.InstanceID, ability.UsageLimit) {
		return nil, &matcherr.RuleViolationError{MatchID: m.ID, Action: string(req.Type), Rule: "ability usage limit reached"}
	}

	ctx := effectContext(m, req.PlayerID, req, nil)
	ctx.Self = target
	effect.ApplyAbilityEffects(ctx, ability.Effects)
	return map[string]any{"instanceId": target.InstanceID, "ability": ability.Name}, nil
}

func usedAlready(m *match.Match, instanceID string, limit card.UsageLimit) bool {
	if limit == card.UsageUnlimited {
		return false
	}
	for _, rec := range m.GameState.ActionHistory {
		if rec.ActionType != string(match.ActionUseAbility) {
			continue
		}
		used, _ := rec.Payload["instanceId"].(string)
		if used != instanceID {
			continue
		}
		if limit == card.UsageOncePerGame {
			return true
		}
		if limit == card.UsageOncePerTurn && rec.TurnNumber == m.GameState.TurnNumber {
			return true
		}
	}
	return false
}

// handleEndTurn runs BETWEEN_TURNS processing (poison, paralysis countdown,
// asleep check) against the ending player's state and publishes
// TurnEndedEvent before handing off to match.Match.EndTurn, which performs
// the player swap and phase reset; prevention expiry then runs on both
// players' Pokemon against the new turn number.
func handleEndTurn(ex *Executor, m *match.Match, bus *events.Bus, req Request, now time.Time) (map[string]any, error) {
	ps := m.GameState.PlayerState(req.PlayerID)
	applyBetweenTurns(ctxForBetweenTurns(m), ps)

	publish(bus, events.TurnEndedEvent{MatchID: m.ID, EndingPlayerID: req.PlayerID, TurnNumber: m.GameState.TurnNumber})

	if err := m.EndTurn(now); err != nil {
		return nil, &matcherr.InvalidStateError{MatchID: m.ID, Action: string(req.Type), State: string(m.State)}
	}
	effect.ExpirePreventionAtTurnBoundary(m.GameState.Player1State, m.GameState.TurnNumber)
	effect.ExpirePreventionAtTurnBoundary(m.GameState.Player2State, m.GameState.TurnNumber)
	return nil, nil
}

func ctxForBetweenTurns(m *match.Match) *effect.Context {
	return &effect.Context{GameState: m.GameState, TurnNumber: m.GameState.TurnNumber, RNG: m.RNG()}
}

// applyBetweenTurns processes one player's poison damage and paralysis
// countdown at the start of BETWEEN_TURNS (spec §4.6's END_TURN contract).
func applyBetweenTurns(ctx *effect.Context, ps *zone.PlayerGameState) {
	apply := func(ci *zone.CardInstance) {
		if ci == nil {
			return
		}
		if ci.HasStatus(card.StatusPoisoned) {
			amount := ci.PoisonDamageAmount
			if amount == 0 {
				amount = 10
			}
			ci.CurrentHP -= amount
			if ci.CurrentHP < 0 {
				ci.CurrentHP = 0
			}
		}
		if ci.HasStatus(card.StatusParalyzed) && ci.ParalysisClearsAtTurn != nil && ctx.TurnNumber+1 >= *ci.ParalysisClearsAtTurn {
			delete(ci.StatusEffects, card.StatusParalyzed)
			ci.ParalysisClearsAtTurn = nil
		}
		if ci.HasStatus(card.StatusAsleep) && ctx.RNG != nil && ctx.RNG.Intn(2) == 0 {
			delete(ci.StatusEffects, card.StatusAsleep)
		}
	}
	apply(ps.ActivePokemon)
	for _, b := range ps.Bench {
		apply(b)
	}
}

// handleConcede ends the match immediately in the submitting player's
// opponent's favor.
func handleConcede(ex *Executor, m *match.Match, bus *events.Bus, req Request, now time.Time) (map[string]any, error) {
	if err := m.Concede(req.PlayerID, now); err != nil {
		return nil, &matcherr.InvalidStateError{MatchID: m.ID, Action: string(req.Type), State: string(m.State)}
	}
	return nil, nil
}

// handleSelectPrize draws req.PrizeInstanceID into the submitting player's
// hand, one of the prizes earned by a knockout (spec §4.6's SELECT_PRIZE /
// DRAW_PRIZE, modeled as one handler since both names the same mutation).
func handleSelectPrize(ex *Executor, m *match.Match, bus *events.Bus, req Request, now time.Time) (map[string]any, error) {
	ps := m.GameState.PlayerState(req.PlayerID)
	if err := ps.DrawPrize(req.PrizeInstanceID); err != nil {
		return nil, &matcherr.InvalidTargetError{MatchID: m.ID, Action: string(req.Type), Target: req.PrizeInstanceID, Reason: err.Error()}
	}
	return map[string]any{"instanceId": req.PrizeInstanceID}, nil
}

// handleGenerateCoinFlip advances the in-flight coin flip from
// READY_TO_FLIP to FLIP_RESULT.
func handleGenerateCoinFlip(ex *Executor, m *match.Match, bus *events.Bus, req Request, now time.Time) (map[string]any, error) {
	results, err := m.GenerateCoinFlip()
	if err != nil {
		return nil, &matcherr.InvalidActionError{MatchID: m.ID, Action: string(req.Type), Reason: err.Error()}
	}
	return map[string]any{"results": results}, nil
}
