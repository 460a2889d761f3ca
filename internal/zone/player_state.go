package zone

import (
	"encoding/json"
	"fmt"
)

// PlayerGameState holds one player's ordered zones and per-turn flags (spec
// §3's PlayerGameState). Mutating methods update the receiver in place —
// most by building the change on a Clone and copying it back with
// *s = *next — and none returns a new *PlayerGameState.
type PlayerGameState struct {
	PlayerID      string
	Deck          []*CardInstance // ordered, index 0 is the top of the deck
	Hand          []*CardInstance
	ActivePokemon *CardInstance // nil if no active Pokemon
	Bench         [5]*CardInstance
	PrizeCards    []*CardInstance
	DiscardPile   []*CardInstance

	// attachedEnergy holds energy-card instances once attached: they no
	// longer occupy hand/deck/active/bench/prize/discard, by design (spec
	// §4.4's zone-conservation sum excludes attached energy).
	attachedEnergy map[string]*CardInstance

	HasAttachedEnergyThisTurn  bool
	HasPlayedSupporterThisTurn bool
}

// NewPlayerGameState constructs an empty player state for playerID.
func NewPlayerGameState(playerID string) *PlayerGameState {
	return &PlayerGameState{
		PlayerID:       playerID,
		attachedEnergy: make(map[string]*CardInstance),
	}
}

// Clone deep-copies the player state, following the teacher's
// Player.DeepCopy idiom generalized to this domain's zones.
func (s *PlayerGameState) Clone() *PlayerGameState {
	next := &PlayerGameState{
		PlayerID:                   s.PlayerID,
		ActivePokemon:              s.ActivePokemon.Clone(),
		HasAttachedEnergyThisTurn:  s.HasAttachedEnergyThisTurn,
		HasPlayedSupporterThisTurn: s.HasPlayedSupporterThisTurn,
	}
	next.Deck = cloneInstances(s.Deck)
	next.Hand = cloneInstances(s.Hand)
	next.PrizeCards = cloneInstances(s.PrizeCards)
	next.DiscardPile = cloneInstances(s.DiscardPile)
	for i, b := range s.Bench {
		next.Bench[i] = b.Clone()
	}
	next.attachedEnergy = make(map[string]*CardInstance, len(s.attachedEnergy))
	for k, v := range s.attachedEnergy {
		next.attachedEnergy[k] = v.Clone()
	}
	return next
}

func cloneInstances(in []*CardInstance) []*CardInstance {
	out := make([]*CardInstance, len(in))
	for i, ci := range in {
		out[i] = ci.Clone()
	}
	return out
}

// TotalZoneCount is the conservation-invariant quantity spec §4.4 pins:
// |hand|+|deck|+(active?1:0)+|bench|+|prizes|+|discard|. It must be
// monotone across every transition except the documented legal-consumption
// actions (attach-energy, certain discard/remove effects).
func (s *PlayerGameState) TotalZoneCount() int {
	total := len(s.Deck) + len(s.Hand) + len(s.PrizeCards) + len(s.DiscardPile)
	if s.ActivePokemon != nil {
		total++
	}
	for _, b := range s.Bench {
		if b != nil {
			total++
		}
	}
	return total
}

// BenchCount returns the number of occupied bench slots.
func (s *PlayerGameState) BenchCount() int {
	count := 0
	for _, b := range s.Bench {
		if b != nil {
			count++
		}
	}
	return count
}

// FirstEmptyBenchSlot returns the index of the first unoccupied bench slot,
// or -1 if the bench is full.
func (s *PlayerGameState) FirstEmptyBenchSlot() int {
	for i, b := range s.Bench {
		if b == nil {
			return i
		}
	}
	return -1
}

// DrawCard moves the top card of the deck into hand, returning the drawn
// instance.
func (s *PlayerGameState) DrawCard() (*CardInstance, error) {
	if len(s.Deck) == 0 {
		return nil, fmt.Errorf("player %s: cannot draw, deck is empty", s.PlayerID)
	}
	next := s.Clone()
	drawn := next.Deck[0]
	next.Deck = next.Deck[1:]
	drawn.Position = PositionHand
	next.Hand = append(next.Hand, drawn)
	*s = *next
	return drawn, nil
}

// DrawPrize moves one prize card into hand (spec §4.4: "prize-draw moves a
// prize to hand").
func (s *PlayerGameState) DrawPrize(instanceID string) error {
	idx := -1
	for i, p := range s.PrizeCards {
		if p.InstanceID == instanceID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return fmt.Errorf("player %s: prize instance %s not found", s.PlayerID, instanceID)
	}
	next := s.Clone()
	drawn := next.PrizeCards[idx]
	next.PrizeCards = append(next.PrizeCards[:idx], next.PrizeCards[idx+1:]...)
	drawn.Position = PositionHand
	next.Hand = append(next.Hand, drawn)
	*s = *next
	return nil
}

// findInSlices locates instanceID in the deck, hand, prize or discard
// slice, returning a pointer to that slice and the index within it.
func (s *PlayerGameState) findInSlices(instanceID string) (zone *[]*CardInstance, idx int) {
	for _, z := range []*[]*CardInstance{&s.Deck, &s.Hand, &s.PrizeCards, &s.DiscardPile} {
		for i, ci := range *z {
			if ci.InstanceID == instanceID {
				return z, i
			}
		}
	}
	return nil, -1
}

// Discard moves instanceID from wherever it currently resides (hand, bench,
// active, deck, or prize) to the discard pile.
func (s *PlayerGameState) Discard(instanceID string) error {
	next := s.Clone()

	if next.ActivePokemon != nil && next.ActivePokemon.InstanceID == instanceID {
		ci := next.ActivePokemon
		next.ActivePokemon = nil
		ci.Position = PositionDiscard
		next.DiscardPile = append(next.DiscardPile, ci)
		*s = *next
		return nil
	}
	for i, b := range next.Bench {
		if b != nil && b.InstanceID == instanceID {
			next.Bench[i] = nil
			b.Position = PositionDiscard
			next.DiscardPile = append(next.DiscardPile, b)
			*s = *next
			return nil
		}
	}
	if zone, idx := next.findInSlices(instanceID); zone != nil {
		ci := (*zone)[idx]
		*zone = append((*zone)[:idx], (*zone)[idx+1:]...)
		ci.Position = PositionDiscard
		next.DiscardPile = append(next.DiscardPile, ci)
		*s = *next
		return nil
	}
	return fmt.Errorf("player %s: instance %s not found in any zone", s.PlayerID, instanceID)
}

// AttachEnergy moves an energy instance from hand onto targetInstanceID's
// AttachedEnergy list. This removes the energy instance from the zone
// accounting entirely (spec §4.4), a documented legal decrease in
// TotalZoneCount.
func (s *PlayerGameState) AttachEnergy(energyInstanceID, targetInstanceID string) error {
	handIdx := -1
	for i, ci := range s.Hand {
		if ci.InstanceID == energyInstanceID {
			handIdx = i
			break
		}
	}
	if handIdx == -1 {
		return fmt.Errorf("player %s: energy instance %s not in hand", s.PlayerID, energyInstanceID)
	}

	target := s.findTarget(targetInstanceID)
	if target == nil {
		return fmt.Errorf("player %s: attach target %s not active or benched", s.PlayerID, targetInstanceID)
	}

	next := s.Clone()
	energy := next.Hand[handIdx]
	next.Hand = append(next.Hand[:handIdx], next.Hand[handIdx+1:]...)

	var targetClone *CardInstance
	if next.ActivePokemon != nil && next.ActivePokemon.InstanceID == targetInstanceID {
		targetClone = next.ActivePokemon
	} else {
		for _, b := range next.Bench {
			if b != nil && b.InstanceID == targetInstanceID {
				targetClone = b
				break
			}
		}
	}
	targetClone.AttachedEnergy = append(targetClone.AttachedEnergy, energy.InstanceID)
	next.attachedEnergy[energy.InstanceID] = energy
	next.HasAttachedEnergyThisTurn = true

	*s = *next
	return nil
}

// AttachedEnergyInstance resolves an id from a host Pokemon's
// AttachedEnergy list back to its CardInstance, for callers outside this
// package that need the underlying card (e.g. internal/action validating
// an attack's energy cost by type). Returns nil if instanceID is not a
// currently-attached energy.
func (s *PlayerGameState) AttachedEnergyInstance(instanceID string) *CardInstance {
	return s.attachedEnergy[instanceID]
}

// RegisterAttachedEnergy records an energy instance as attached without
// touching any zone (used by effect engines that move energy straight from
// deck/discard/hand onto a Pokemon, e.g. ENERGY_ACCELERATION, bypassing the
// ordinary hand-attach path in AttachEnergy).
func (s *PlayerGameState) RegisterAttachedEnergy(ci *CardInstance) {
	s.attachedEnergy[ci.InstanceID] = ci
}

// DiscardAttachedEnergy moves a previously-attached energy instance into the
// discard pile. The caller is responsible for having already detached it
// from its host Pokemon's AttachedEnergy list.
func (s *PlayerGameState) DiscardAttachedEnergy(instanceID string) {
	energy, ok := s.attachedEnergy[instanceID]
	if !ok {
		return
	}
	delete(s.attachedEnergy, instanceID)
	energy.Position = PositionDiscard
	s.DiscardPile = append(s.DiscardPile, energy)
}

func (s *PlayerGameState) findTarget(instanceID string) *CardInstance {
	if s.ActivePokemon != nil && s.ActivePokemon.InstanceID == instanceID {
		return s.ActivePokemon
	}
	for _, b := range s.Bench {
		if b != nil && b.InstanceID == instanceID {
			return b
		}
	}
	return nil
}

// Evolve overlays fromInstanceID with an evolution, preserving damage taken
// (spec §4.4 / internal/zone.CardInstance.EvolveOnto).
func (s *PlayerGameState) Evolve(fromInstanceID, newCardID string, newMaxHP int, atTurn int) error {
	target := s.findTarget(fromInstanceID)
	if target == nil {
		return fmt.Errorf("player %s: evolve target %s not active or benched", s.PlayerID, fromInstanceID)
	}
	evolved := target.EvolveOnto(newCardID, newMaxHP, atTurn)

	next := s.Clone()
	if next.ActivePokemon != nil && next.ActivePokemon.InstanceID == fromInstanceID {
		next.ActivePokemon = evolved
	} else {
		for i, b := range next.Bench {
			if b != nil && b.InstanceID == fromInstanceID {
				next.Bench[i] = evolved
				break
			}
		}
	}
	*s = *next
	return nil
}

// ResetTurnFlags clears the per-turn flags at the start of a player's turn.
func (s *PlayerGameState) ResetTurnFlags() {
	next := s.Clone()
	next.HasAttachedEnergyThisTurn = false
	next.HasPlayedSupporterThisTurn = false
	*s = *next
}

// playerGameStateSnapshot mirrors PlayerGameState but exports attachedEnergy,
// so a persisted match doesn't silently lose the CardInstances backing
// already-attached energy (spec §4.4 excludes them from zone slices, but a
// repository round-trip still needs them).
type playerGameStateSnapshot struct {
	PlayerID                   string                   `json:"playerId"`
	Deck                       []*CardInstance          `json:"deck"`
	Hand                       []*CardInstance          `json:"hand"`
	ActivePokemon              *CardInstance            `json:"activePokemon"`
	Bench                      [5]*CardInstance         `json:"bench"`
	PrizeCards                 []*CardInstance          `json:"prizeCards"`
	DiscardPile                []*CardInstance          `json:"discardPile"`
	AttachedEnergy             map[string]*CardInstance `json:"attachedEnergy"`
	HasAttachedEnergyThisTurn  bool                     `json:"hasAttachedEnergyThisTurn"`
	HasPlayedSupporterThisTurn bool                     `json:"hasPlayedSupporterThisTurn"`
}

// MarshalJSON encodes the player state including the otherwise-unexported
// attachedEnergy map.
func (s *PlayerGameState) MarshalJSON() ([]byte, error) {
	return json.Marshal(playerGameStateSnapshot{
		PlayerID:                   s.PlayerID,
		Deck:                       s.Deck,
		Hand:                       s.Hand,
		ActivePokemon:              s.ActivePokemon,
		Bench:                      s.Bench,
		PrizeCards:                 s.PrizeCards,
		DiscardPile:                s.DiscardPile,
		AttachedEnergy:             s.attachedEnergy,
		HasAttachedEnergyThisTurn:  s.HasAttachedEnergyThisTurn,
		HasPlayedSupporterThisTurn: s.HasPlayedSupporterThisTurn,
	})
}

// UnmarshalJSON restores a player state, including attachedEnergy.
func (s *PlayerGameState) UnmarshalJSON(data []byte) error {
	var snap playerGameStateSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return err
	}
	s.PlayerID = snap.PlayerID
	s.Deck = snap.Deck
	s.Hand = snap.Hand
	s.ActivePokemon = snap.ActivePokemon
	s.Bench = snap.Bench
	s.PrizeCards = snap.PrizeCards
	s.DiscardPile = snap.DiscardPile
	s.HasAttachedEnergyThisTurn = snap.HasAttachedEnergyThisTurn
	s.HasPlayedSupporterThisTurn = snap.HasPlayedSupporterThisTurn
	s.attachedEnergy = snap.AttachedEnergy
	if s.attachedEnergy == nil {
		s.attachedEnergy = make(map[string]*CardInstance)
	}
	return nil
}
