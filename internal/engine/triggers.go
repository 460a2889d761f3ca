package engine

import (
	"sync"

	"tcg-match-engine/internal/catalog"
	"tcg-match-engine/internal/effect"
	"tcg-match-engine/internal/events"
	"tcg-match-engine/internal/match"
	"tcg-match-engine/internal/zone"
)

// Trigger-name vocabulary a card's Ability.TriggerName may declare (spec
// §4.7's triggered-ability category, as opposed to an activated ability
// submitted via USE_ABILITY — handleUseAbility rejects a Triggered ability
// for exactly that reason). Named after the domain event each corresponds
// to, not the card text describing it.
const (
	TriggerOnKnockout       = "ON_KNOCKOUT"
	TriggerOnEnergyAttached = "ON_ENERGY_ATTACHED"
	TriggerOnTurnEnd        = "ON_TURN_END"
)

// activeMatches holds, for each matchID currently inside an Engine.Execute
// call, the *match.Match being mutated. Execute's per-match mutex guarantees
// only one goroutine ever touches a given entry, so triggered-ability
// listeners — invoked synchronously on Execute's call stack via the event
// bus — can look the match back up without Engine threading it through
// every event struct.
var activeMatches sync.Map

// registerTriggeredAbilities wires bus so that every Triggered ability on
// the board runs its effects automatically when its TriggerName's event
// fires, instead of waiting for a USE_ABILITY submission that would never
// come (the C8 registry never offers USE_ABILITY for a triggered ability).
func registerTriggeredAbilities(bus *events.Bus, cards catalog.CardRepository) {
	events.Subscribe(bus, func(ev events.PokemonKnockedOutEvent) {
		dispatchTrigger(ev.MatchID, cards, TriggerOnKnockout)
	})
	events.Subscribe(bus, func(ev events.EnergyAttachedEvent) {
		dispatchTrigger(ev.MatchID, cards, TriggerOnEnergyAttached)
	})
	events.Subscribe(bus, func(ev events.TurnEndedEvent) {
		dispatchTrigger(ev.MatchID, cards, TriggerOnTurnEnd)
	})
}

// dispatchTrigger scans both players' active and bench Pokemon for a
// Triggered ability whose TriggerName matches triggerName, and runs each
// one's effects. A card the catalog can't resolve, or with no ability,
// is silently skipped — this fires after every event of the relevant type,
// so most scanned instances won't match.
func dispatchTrigger(matchID string, cards catalog.CardRepository, triggerName string) {
	v, ok := activeMatches.Load(matchID)
	if !ok {
		return
	}
	m := v.(*match.Match)
	if m.GameState == nil {
		return
	}

	for _, ps := range []*zone.PlayerGameState{m.GameState.Player1State, m.GameState.Player2State} {
		for _, ci := range boardInstances(ps) {
			def, err := cards.GetByID(ci.CardID)
			if err != nil || def.PokemonAbility == nil {
				continue
			}
			ab := def.PokemonAbility
			if !ab.Triggered || ab.TriggerName != triggerName {
				continue
			}
			opp := m.GameState.Opponent(ps.PlayerID)
			ctx := &effect.Context{
				GameState:      m.GameState,
				ActingPlayerID: ps.PlayerID,
				Self:           ci,
				Defending:      opp.ActivePokemon,
				TurnNumber:     m.GameState.TurnNumber,
				RNG:            m.RNG(),
				Choose: func(candidates []string) string {
					if len(candidates) > 0 {
						return candidates[0]
					}
					return ""
				},
			}
			effect.ApplyAbilityEffects(ctx, ab.Effects)
		}
	}
}

// boardInstances returns ps's active Pokemon (if any) followed by its
// occupied bench slots, the set of positions a triggered ability can fire
// from.
func boardInstances(ps *zone.PlayerGameState) []*zone.CardInstance {
	instances := make([]*zone.CardInstance, 0, 1+len(ps.Bench))
	if ps.ActivePokemon != nil {
		instances = append(instances, ps.ActivePokemon)
	}
	for _, b := range ps.Bench {
		if b != nil {
			instances = append(instances, b)
		}
	}
	return instances
}
