package action

import (
	"time"

	"tcg-match-engine/internal/events"
	"tcg-match-engine/internal/match"
	"tcg-match-engine/internal/matcherr"
	"tcg-match-engine/internal/zone"
)

// handleConfirmFirstPlayer marks hasConfirmedFirstPlayer for req.PlayerID.
// The FIRST_PLAYER coin flip (if any) is resolved by the caller before both
// players confirm; this handler only records the flag.
func handleConfirmFirstPlayer(ex *Executor, m *match.Match, bus *events.Bus, req Request, now time.Time) (map[string]any, error) {
	if err := m.MarkSetupFlag(req.PlayerID, match.FlagHasConfirmedFirstPlayer, true); err != nil {
		return nil, &matcherr.InvalidActionError{MatchID: m.ID, Action: string(req.Type), Reason: err.Error()}
	}
	return nil, nil
}

// handleSetPrizeCards moves req.Count cards (spec §8's walkthrough: 6) from
// the top of the deck into PrizeCards, face down, then marks
// hasSetPrizeCards.
func handleSetPrizeCards(ex *Executor, m *match.Match, bus *events.Bus, req Request, now time.Time) (map[string]any, error) {
	ps := m.GameState.PlayerState(req.PlayerID)
	count := req.Count
	if count <= 0 {
		count = 6
	}
	if len(ps.Deck) < count {
		return nil, &matcherr.InsufficientResourcesError{MatchID: m.ID, Action: string(req.Type), Resource: "deck", Needed: count, Have: len(ps.Deck)}
	}
	for i := 0; i < count; i++ {
		ci := ps.Deck[0]
		ps.Deck = ps.Deck[1:]
		ci.Position = zone.PositionPrize
		ps.PrizeCards = append(ps.PrizeCards, ci)
	}
	if err := m.MarkSetupFlag(req.PlayerID, match.FlagHasSetPrizeCards, true); err != nil {
		return nil, &matcherr.InvalidActionError{MatchID: m.ID, Action: string(req.Type), Reason: err.Error()}
	}
	return map[string]any{"prizeCount": count}, nil
}

// handleCompleteInitialSetup marks readyToStart for req.PlayerID once their
// bench is as full as they want it (spec §4.5's SELECT_BENCH_POKEMON).
func handleCompleteInitialSetup(ex *Executor, m *match.Match, bus *events.Bus, req Request, now time.Time) (map[string]any, error) {
	if err := m.MarkSetupFlag(req.PlayerID, match.FlagReadyToStart, true); err != nil {
		return nil, &matcherr.InvalidActionError{MatchID: m.ID, Action: string(req.Type), Reason: err.Error()}
	}
	return nil, nil
}

// handleSetActivePokemon promotes req.InstanceID to ACTIVE. Spec §4.6 says
// "must be from bench", but the same action and state also cover the
// initial-setup active pick, which precedes any bench existing — so this
// looks in both hand and bench for the instance and promotes from
// whichever zone holds it, rather than branching on context.
func handleSetActivePokemon(ex *Executor, m *match.Match, bus *events.Bus, req Request, now time.Time) (map[string]any, error) {
	ps := m.GameState.PlayerState(req.PlayerID)
	if ps.ActivePokemon != nil {
		return nil, &matcherr.RuleViolationError{MatchID: m.ID, Action: string(req.Type), Rule: "active pokemon already set"}
	}

	if idx := benchIndexOf(ps, req.InstanceID); idx != -1 {
		promoted := ps.Bench[idx]
		ps.Bench[idx] = nil
		promoted.Position = zone.PositionActive
		ps.ActivePokemon = promoted
	} else if handIdx := handIndexOf(ps, req.InstanceID); handIdx != -1 {
		def, err := ex.Cards.GetByID(ps.Hand[handIdx].CardID)
		if err != nil || !def.IsBasic() {
			return nil, &matcherr.InvalidTargetError{MatchID: m.ID, Action: string(req.Type), Target: req.InstanceID, Reason: "must be a Basic Pokemon"}
		}
		promoted := ps.Hand[handIdx]
		ps.Hand = append(ps.Hand[:handIdx], ps.Hand[handIdx+1:]...)
		promoted.Position = zone.PositionActive
		ps.ActivePokemon = promoted
	} else {
		return nil, &matcherr.InvalidTargetError{MatchID: m.ID, Action: string(req.Type), Target: req.InstanceID, Reason: "not in hand or bench"}
	}

	if m.State == match.StateSelectActivePokemon {
		m.CheckBothActiveSet()
	} else {
		m.ResumePlayerTurnAfterSidePhase()
	}
	return map[string]any{"instanceId": req.InstanceID}, nil
}

func handIndexOf(ps *zone.PlayerGameState, instanceID string) int {
	for i, ci := range ps.Hand {
		if ci.InstanceID == instanceID {
			return i
		}
	}
	return -1
}
