package action

import (
	"time"

	"tcg-match-engine/internal/card"
	"tcg-match-engine/internal/catalog"
	"tcg-match-engine/internal/effect"
	"tcg-match-engine/internal/events"
	"tcg-match-engine/internal/filter"
	"tcg-match-engine/internal/logger"
	"tcg-match-engine/internal/match"
	"tcg-match-engine/internal/matcherr"
	"tcg-match-engine/internal/zone"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Executor dispatches a Request to the handler registered for its
// match.ActionType, running the five-step sequence spec §4.6 names before
// and after the handler's own mutation (state guard, phase guard inside the
// handler, mutation, then the shared side-effect queue: knockout sweep,
// win-check, action-history append).
type Executor struct {
	Cards    catalog.CardRepository
	Registry *filter.Registry
}

// handlerFunc is one action type's mutation step. It returns the
// ActionData payload recorded alongside the action, or an error from
// internal/matcherr. Handlers never append to ActionHistory themselves —
// Execute does that once, uniformly, after a handler succeeds.
type handlerFunc func(ex *Executor, m *match.Match, bus *events.Bus, req Request, now time.Time) (map[string]any, error)

var handlers = map[match.ActionType]handlerFunc{
	match.ActionConfirmFirstPlayer:   handleConfirmFirstPlayer,
	match.ActionSetPrizeCards:        handleSetPrizeCards,
	match.ActionCompleteInitialSetup: handleCompleteInitialSetup,
	match.ActionSetActivePokemon:     handleSetActivePokemon,
	match.ActionDrawCard:             handleDrawCard,
	match.ActionPlayPokemon:          handlePlayPokemon,
	match.ActionAttachEnergy:         handleAttachEnergy,
	match.ActionPlayTrainer:          handlePlayTrainer,
	match.ActionEvolvePokemon:        handleEvolvePokemon,
	match.ActionRetreat:              handleRetreat,
	match.ActionAttack:               handleAttack,
	match.ActionUseAbility:           handleUseAbility,
	match.ActionEndTurn:              handleEndTurn,
	match.ActionConcede:              handleConcede,
	match.ActionSelectPrize:          handleSelectPrize,
	match.ActionDrawPrize:            handleSelectPrize,
	match.ActionGenerateCoinFlip:     handleGenerateCoinFlip,
}

// Execute runs req against m. The caller (internal/engine) holds m's
// per-match mutex for the duration (spec §5); Execute itself performs no
// locking.
func (ex *Executor) Execute(m *match.Match, bus *events.Bus, req Request, now time.Time) (*zone.ActionRecord, error) {
	log := logger.WithMatchContext(m.ID, req.PlayerID)

	if err := ex.checkAllowed(m, req); err != nil {
		log.Warn("action rejected by filter", zap.String("action", string(req.Type)), zap.Error(err))
		return nil, err
	}

	h, ok := handlers[req.Type]
	if !ok {
		return nil, &matcherr.InvalidActionError{MatchID: m.ID, Action: string(req.Type), Reason: "no handler registered"}
	}

	data, err := h(ex, m, bus, req, now)
	if err != nil {
		log.Info("action failed validation", zap.String("action", string(req.Type)), zap.Error(err))
		return nil, err
	}

	ex.processKnockouts(m, bus, req.PlayerID, now)
	ex.processKnockouts(m, bus, m.Opponent(req.PlayerID), now)

	if result := match.CheckWinConditions(m.State, m.GameState); result != nil {
		m.ApplyWinCheck(result, now)
	}

	rec := zone.ActionRecord{
		ActionID:   uuid.NewString(),
		PlayerID:   req.PlayerID,
		ActionType: string(req.Type),
		TurnNumber: m.GameState.TurnNumber,
		Payload:    data,
	}
	m.GameState.AppendAction(rec)
	log.Debug("action applied", zap.String("action", string(req.Type)))
	return &rec, nil
}

// checkAllowed enforces the state guard (spec §4.6 step a) via the C8
// registry: req.Type must be among the action types the registry currently
// offers req.PlayerID.
func (ex *Executor) checkAllowed(m *match.Match, req Request) error {
	for _, allowed := range ex.Registry.Available(m, req.PlayerID) {
		if allowed == req.Type {
			return nil
		}
	}
	return &matcherr.InvalidStateError{MatchID: m.ID, Action: string(req.Type), State: string(m.State)}
}

// processKnockouts sweeps playerID's active and bench for instances with
// currentHp<=0, discarding each and publishing PokemonKnockedOutEvent. If
// the active Pokemon falls, it enters SELECT_ACTIVE_POKEMON (spec §4.5);
// the caller is responsible for the replacement being offered via the C8
// registry on the next poll.
func (ex *Executor) processKnockouts(m *match.Match, bus *events.Bus, playerID string, now time.Time) {
	ps := m.GameState.PlayerState(playerID)
	if ps == nil {
		return
	}

	if ps.ActivePokemon != nil && ps.ActivePokemon.IsKnockedOut() {
		fallen := ps.ActivePokemon
		_ = ps.Discard(fallen.InstanceID)
		publish(bus, events.PokemonKnockedOutEvent{
			MatchID:       m.ID,
			OwnerPlayerID: playerID,
			InstanceID:    fallen.InstanceID,
			CardID:        fallen.CardID,
			WasActive:     true,
		})
		if m.State == match.StatePlayerTurn {
			m.EnterKnockoutSidePhase()
		}
	}

	for _, b := range ps.Bench {
		if b != nil && b.IsKnockedOut() {
			fallen := b
			_ = ps.Discard(fallen.InstanceID)
			publish(bus, events.PokemonKnockedOutEvent{
				MatchID:       m.ID,
				OwnerPlayerID: playerID,
				InstanceID:    fallen.InstanceID,
				CardID:        fallen.CardID,
				WasActive:     false,
			})
		}
	}
}

// publish is a nil-safe wrapper so handlers and processKnockouts don't each
// need a bus-nil check (tests may exercise a handler without a bus).
func publish[T any](bus *events.Bus, ev T) {
	if bus == nil {
		return
	}
	events.Publish(bus, ev)
}

// effectContext builds an effect.Context for playerID's action against m,
// wiring the match's seeded PRNG and a Choose resolver backed by req.Choice
// (spec §6.4's determinism requirement: all randomness flows through
// m.RNG()).
func effectContext(m *match.Match, playerID string, req Request, coinFlipHeads []bool) *effect.Context {
	gs := m.GameState
	ps := gs.PlayerState(playerID)
	opp := gs.Opponent(playerID)
	return &effect.Context{
		GameState:      gs,
		ActingPlayerID: playerID,
		Self:           ps.ActivePokemon,
		Defending:      opp.ActivePokemon,
		CoinFlipHeads:  coinFlipHeads,
		TurnNumber:     gs.TurnNumber,
		RNG:            m.RNG(),
		Choose: func(candidates []string) string {
			if req.Choice != "" {
				for _, c := range candidates {
					if c == req.Choice {
						return c
					}
				}
			}
			if len(candidates) > 0 {
				return candidates[0]
			}
			return ""
		},
		NewEnergyInstance: func(cardID string) *zone.CardInstance {
			return zone.NewCardInstance(uuid.NewString(), cardID, zone.PositionHand, 0)
		},
	}
}

// findInHand locates instanceID in ps.Hand, returning its catalog
// definition too. action names the caller for InvalidTargetError's message.
func findInHand(ex *Executor, matchID string, ps *zone.PlayerGameState, instanceID, action string) (*zone.CardInstance, *card.Card, error) {
	for _, ci := range ps.Hand {
		if ci.InstanceID == instanceID {
			def, err := ex.Cards.GetByID(ci.CardID)
			if err != nil {
				return nil, nil, &matcherr.InvalidTargetError{MatchID: matchID, Action: action, Target: instanceID, Reason: err.Error()}
			}
			return ci, def, nil
		}
	}
	return nil, nil, &matcherr.InvalidTargetError{MatchID: matchID, Action: action, Target: instanceID, Reason: "not in hand"}
}

func findActiveOrBench(ps *zone.PlayerGameState, instanceID string) *zone.CardInstance {
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

func benchIndexOf(ps *zone.PlayerGameState, instanceID string) int {
	for i, b := range ps.Bench {
		if b != nil && b.InstanceID == instanceID {
			return i
		}
	}
	return -1
}
