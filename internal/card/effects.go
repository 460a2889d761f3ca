package card

import "fmt"

// Target identifies whose Pokemon an effect acts on.
type Target string

const (
	TargetSelf      Target = "self"
	TargetDefending Target = "defending"
	TargetYours     Target = "yours" // any of the acting player's in-play Pokemon
)

// EnergySource identifies where an energy-acceleration effect draws from.
type EnergySource string

const (
	SourceDeck    EnergySource = "deck"
	SourceDiscard EnergySource = "discard"
	SourceHand    EnergySource = "hand"
)

// Selector identifies how a card/target is chosen when an effect offers more
// than one option.
type Selector string

const (
	SelectorChoice Selector = "choice"
	SelectorRandom Selector = "random"
)

// Duration bounds how long a damage-prevention effect lasts.
type Duration string

const (
	DurationThisTurn Duration = "this_turn"
	DurationNextTurn Duration = "next_turn"
)

// Status is one of the five status effects (GLOSSARY).
type Status string

const (
	StatusParalyzed Status = "PARALYZED"
	StatusPoisoned  Status = "POISONED"
	StatusBurned    Status = "BURNED"
	StatusAsleep    Status = "ASLEEP"
	StatusConfused  Status = "CONFUSED"
)

// ---- Attack effects (spec §4.7) ----

type AttackEffectType string

const (
	AttackEffectDiscardEnergy    AttackEffectType = "DISCARD_ENERGY"
	AttackEffectStatusCondition  AttackEffectType = "STATUS_CONDITION"
	AttackEffectDamageModifier   AttackEffectType = "DAMAGE_MODIFIER"
	AttackEffectHeal             AttackEffectType = "HEAL"
	AttackEffectPreventDamage    AttackEffectType = "PREVENT_DAMAGE"
	AttackEffectRecoilDamage     AttackEffectType = "RECOIL_DAMAGE"
	AttackEffectEnergyAccel      AttackEffectType = "ENERGY_ACCELERATION"
	AttackEffectSwitchPokemon    AttackEffectType = "SWITCH_POKEMON"
)

// AttackEffect is a tagged variant: only the fields relevant to Type are
// populated, per spec §9's "encode variant-specific fields at the variant".
type AttackEffect struct {
	Type       AttackEffectType
	Conditions []Condition

	Target EnergySourceOrNone
	Status Status
	Amount AmountExpr
	Duration Duration
	Source EnergySource
	Count  int
	Selector Selector
}

// EnergySourceOrNone is Target reused for attack effects (self/defending).
type EnergySourceOrNone = Target

// AmountExpr represents an effect's numeric amount: either a fixed integer
// or the literal "all" (spec §4.7: "amount: integer>=1 or 'all'").
type AmountExpr struct {
	IsAll bool
	Value int
}

// Validate applies the structural checks spec §4.7 enumerates per variant.
func (e AttackEffect) Validate() error {
	for _, c := range e.Conditions {
		if err := c.Validate(); err != nil {
			return err
		}
	}

	switch e.Type {
	case AttackEffectDiscardEnergy:
		if e.Target != TargetSelf && e.Target != TargetDefending {
			return fmt.Errorf("DISCARD_ENERGY target must be self or defending")
		}
		if !e.Amount.IsAll && e.Amount.Value < 1 {
			return fmt.Errorf("DISCARD_ENERGY amount must be >=1 or 'all'")
		}
	case AttackEffectStatusCondition:
		if e.Target != TargetDefending {
			return fmt.Errorf("STATUS_CONDITION target must be defending")
		}
		if !validStatus(e.Status) {
			return fmt.Errorf("STATUS_CONDITION invalid status %q", e.Status)
		}
	case AttackEffectDamageModifier:
		if e.Amount.IsAll || e.Amount.Value == 0 {
			return fmt.Errorf("DAMAGE_MODIFIER amount must be a nonzero integer")
		}
	case AttackEffectHeal:
		if e.Amount.IsAll || e.Amount.Value < 1 {
			return fmt.Errorf("HEAL amount must be >=1")
		}
	case AttackEffectPreventDamage:
		if e.Duration != DurationThisTurn && e.Duration != DurationNextTurn {
			return fmt.Errorf("PREVENT_DAMAGE duration must be this_turn or next_turn")
		}
		if !e.Amount.IsAll && e.Amount.Value < 1 {
			return fmt.Errorf("PREVENT_DAMAGE amount must be >=1 or 'all'")
		}
	case AttackEffectRecoilDamage:
		if e.Target != TargetSelf {
			return fmt.Errorf("RECOIL_DAMAGE target must be self")
		}
		if e.Amount.IsAll || e.Amount.Value < 1 {
			return fmt.Errorf("RECOIL_DAMAGE amount must be >=1")
		}
	case AttackEffectEnergyAccel:
		if e.Source != SourceDeck && e.Source != SourceDiscard && e.Source != SourceHand {
			return fmt.Errorf("ENERGY_ACCELERATION source invalid %q", e.Source)
		}
		if e.Count < 1 {
			return fmt.Errorf("ENERGY_ACCELERATION count must be >=1")
		}
		if e.Selector != SelectorChoice && e.Selector != SelectorRandom {
			return fmt.Errorf("ENERGY_ACCELERATION selector invalid %q", e.Selector)
		}
	case AttackEffectSwitchPokemon:
		if e.Target != TargetSelf {
			return fmt.Errorf("SWITCH_POKEMON target must be self")
		}
	default:
		return fmt.Errorf("unknown attack effect type %q", e.Type)
	}
	return nil
}

func validStatus(s Status) bool {
	switch s {
	case StatusParalyzed, StatusPoisoned, StatusBurned, StatusAsleep, StatusConfused:
		return true
	}
	return false
}

// ---- Ability effects (spec §4.7) ----

type AbilityEffectType string

const (
	AbilityEffectHeal             AbilityEffectType = "HEAL"
	AbilityEffectPreventDamage    AbilityEffectType = "PREVENT_DAMAGE"
	AbilityEffectStatusCondition  AbilityEffectType = "STATUS_CONDITION"
	AbilityEffectEnergyAccel      AbilityEffectType = "ENERGY_ACCELERATION"
	AbilityEffectSwitchPokemon    AbilityEffectType = "SWITCH_POKEMON"
	AbilityEffectDrawCards        AbilityEffectType = "DRAW_CARDS"
	AbilityEffectSearchDeck       AbilityEffectType = "SEARCH_DECK"
	AbilityEffectBoostAttack      AbilityEffectType = "BOOST_ATTACK"
	AbilityEffectBoostHP          AbilityEffectType = "BOOST_HP"
	AbilityEffectReduceDamage     AbilityEffectType = "REDUCE_DAMAGE"
	AbilityEffectDiscardFromHand  AbilityEffectType = "DISCARD_FROM_HAND"
	AbilityEffectAttachFromDiscard AbilityEffectType = "ATTACH_FROM_DISCARD"
	AbilityEffectRetrieveFromDiscard AbilityEffectType = "RETRIEVE_FROM_DISCARD"
)

// AbilityEffect is a tagged variant for passive/activated ability effects.
// HEAL is normalized to TargetSelf at load time if constructed with
// TargetDefending (spec §4.7: "DEFENDING is invalid and normalized to SELF").
type AbilityEffect struct {
	Type     AbilityEffectType
	Target   Target
	Amount   AmountExpr
	Status   Status
	Duration Duration
	Source   EnergySource
	Count    int
	Selector Selector
}

func (e AbilityEffect) Validate() error {
	switch e.Type {
	case AbilityEffectHeal:
		if e.Target == TargetDefending {
			return fmt.Errorf("HEAL target may not be defending for ability effects")
		}
		if !e.Amount.IsAll && e.Amount.Value < 1 {
			return fmt.Errorf("HEAL amount must be >=1")
		}
	case AbilityEffectPreventDamage:
		if e.Duration != DurationThisTurn && e.Duration != DurationNextTurn {
			return fmt.Errorf("PREVENT_DAMAGE duration invalid")
		}
	case AbilityEffectStatusCondition:
		if !validStatus(e.Status) {
			return fmt.Errorf("STATUS_CONDITION invalid status %q", e.Status)
		}
	case AbilityEffectEnergyAccel:
		if e.Count < 1 {
			return fmt.Errorf("ENERGY_ACCELERATION count must be >=1")
		}
	case AbilityEffectSwitchPokemon, AbilityEffectDrawCards, AbilityEffectSearchDeck,
		AbilityEffectBoostAttack, AbilityEffectBoostHP, AbilityEffectReduceDamage,
		AbilityEffectDiscardFromHand, AbilityEffectAttachFromDiscard, AbilityEffectRetrieveFromDiscard:
		// no further structural constraints beyond Type membership
	default:
		return fmt.Errorf("unknown ability effect type %q", e.Type)
	}
	return nil
}

// ---- Trainer effects (spec §4.7) ----

type TrainerEffectType string

const (
	TrainerEffectHeal               TrainerEffectType = "HEAL"
	TrainerEffectCureStatus         TrainerEffectType = "CURE_STATUS"
	TrainerEffectIncreaseDamage     TrainerEffectType = "INCREASE_DAMAGE"
	TrainerEffectReduceDamage       TrainerEffectType = "REDUCE_DAMAGE"
	TrainerEffectDrawCards          TrainerEffectType = "DRAW_CARDS"
	TrainerEffectSearchDeck         TrainerEffectType = "SEARCH_DECK"
	TrainerEffectShuffleDeck        TrainerEffectType = "SHUFFLE_DECK"
	TrainerEffectDiscardHand        TrainerEffectType = "DISCARD_HAND"
	TrainerEffectRetrieveFromDiscard TrainerEffectType = "RETRIEVE_FROM_DISCARD"
	TrainerEffectOpponentDraws      TrainerEffectType = "OPPONENT_DRAWS"
	TrainerEffectSwitchActive       TrainerEffectType = "SWITCH_ACTIVE"
	TrainerEffectRemoveEnergy       TrainerEffectType = "REMOVE_ENERGY"
	TrainerEffectTradeCards         TrainerEffectType = "TRADE_CARDS"
)

// TrainerEffect is a tagged variant for item/supporter/stadium effects,
// applied in the order they appear in Card.TrainerEffects.
type TrainerEffect struct {
	Type   TrainerEffectType
	Target Target
	Amount AmountExpr
	Status Status
	Count  int
}

func (e TrainerEffect) Validate() error {
	switch e.Type {
	case TrainerEffectHeal, TrainerEffectIncreaseDamage, TrainerEffectReduceDamage:
		if !e.Amount.IsAll && e.Amount.Value < 1 {
			return fmt.Errorf("%s amount must be >=1", e.Type)
		}
	case TrainerEffectCureStatus:
		// Status may be empty, meaning "cure all statuses".
	case TrainerEffectDrawCards, TrainerEffectSearchDeck, TrainerEffectOpponentDraws, TrainerEffectRemoveEnergy:
		if e.Count < 1 {
			return fmt.Errorf("%s count must be >=1", e.Type)
		}
	case TrainerEffectShuffleDeck, TrainerEffectDiscardHand, TrainerEffectRetrieveFromDiscard,
		TrainerEffectSwitchActive, TrainerEffectTradeCards:
		// no further structural constraints
	default:
		return fmt.Errorf("unknown trainer effect type %q", e.Type)
	}
	return nil
}
