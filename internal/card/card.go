// Package card implements the immutable card catalog model (spec §3, §4.1,
// C1): card definitions, attacks, abilities, and the tagged-variant effect
// families attached to them. A Card, once constructed, never mutates —
// per-match mutable state belongs to zone.CardInstance, not here.
package card

import "fmt"

// Type is the top-level kind of a card.
type Type string

const (
	TypePokemon Type = "Pokemon"
	TypeTrainer Type = "Trainer"
	TypeEnergy  Type = "Energy"
)

// Stage is a Pokemon's evolution stage.
type Stage string

const (
	StageBasic  Stage = "Basic"
	StageStage1 Stage = "Stage1"
	StageStage2 Stage = "Stage2"
	StageVMax   Stage = "VMax"
)

// EnergyType is a Pokemon energy color.
type EnergyType string

const (
	EnergyColorless EnergyType = "Colorless"
	EnergyFire      EnergyType = "Fire"
	EnergyWater     EnergyType = "Water"
	EnergyGrass     EnergyType = "Grass"
	EnergyLightning EnergyType = "Lightning"
	EnergyPsychic   EnergyType = "Psychic"
	EnergyFighting  EnergyType = "Fighting"
	EnergyDarkness  EnergyType = "Darkness"
	EnergyMetal     EnergyType = "Metal"
	EnergyFairy     EnergyType = "Fairy"
	EnergyDragon    EnergyType = "Dragon"
)

// TrainerType distinguishes the three kinds of Trainer card.
type TrainerType string

const (
	TrainerItem      TrainerType = "Item"
	TrainerSupporter TrainerType = "Supporter"
	TrainerStadium   TrainerType = "Stadium"
)

// Modifier is a weakness/resistance modifier, kept as the raw source string
// ("×2", "-30") per spec §6.2's "compatibility with source data" note.
type Modifier struct {
	EnergyType EnergyType
	Modifier   string
}

// CardRule is a named rule attached to a Pokemon card (e.g. "CANNOT_RETREAT").
type CardRule string

const (
	RuleCannotRetreat CardRule = "CANNOT_RETREAT"
	RuleCannotAttack  CardRule = "CANNOT_ATTACK"
)

// Ability is a Pokemon's passive or activated power.
type Ability struct {
	Name        string
	Text        string
	UsageLimit  UsageLimit
	Effects     []AbilityEffect
	Triggered   bool   // fires automatically on a game event rather than USE_ABILITY
	TriggerName string // event name this ability listens for, when Triggered
}

// UsageLimit bounds how often an ability may be activated.
type UsageLimit string

const (
	UsageOncePerTurn UsageLimit = "ONCE_PER_TURN"
	UsageOncePerGame UsageLimit = "ONCE_PER_GAME"
	UsageUnlimited   UsageLimit = "UNLIMITED"
)

// EvolvesFrom is a symbolic reference to a pre-evolution card, resolved at
// use time by name rather than by a cyclic pointer (spec §9: "Cyclic
// references → store evolvesFrom as a symbolic reference").
type EvolvesFrom struct {
	Name  string
	Stage Stage
}

// Card is an immutable catalog record. Exactly one of the type-specific
// field groups below is populated, matching Type.
type Card struct {
	CardID         string
	PokemonNumber  *string
	Name           string
	SetName        string
	CardNumber     string
	Rarity         string
	CardType       Type

	// Pokemon-only fields.
	PokemonType  EnergyType
	Stage        Stage
	Level        *string
	HP           int
	RetreatCost  int
	Weakness     *Modifier
	Resistance   *Modifier
	Attacks      []Attack
	PokemonAbility *Ability
	EvolvesFromRef *EvolvesFrom
	CardRules    []CardRule

	// Trainer-only fields.
	TrainerType    TrainerType
	TrainerEffects []TrainerEffect

	// Energy-only fields.
	EnergyType      EnergyType
	IsSpecialEnergy bool
	EnergyProvision *EnergyProvision
}

// EnergyProvision describes what a special energy card provides when
// attached (e.g. "provides one Water or Fighting energy").
type EnergyProvision struct {
	Types  []EnergyType
	Amount int
}

// NewPokemon constructs a Pokemon card, validating the Pokemon-only
// invariants from spec §3: hp>0, retreatCost>=0, Basic may not have
// EvolvesFromRef.
func NewPokemon(cardID, name, setName, cardNumber, rarity string, pokemonType EnergyType, stage Stage, hp, retreatCost int) (*Card, error) {
	if hp <= 0 {
		return nil, fmt.Errorf("card %s: hp must be > 0, got %d", cardID, hp)
	}
	if retreatCost < 0 {
		return nil, fmt.Errorf("card %s: retreatCost must be >= 0, got %d", cardID, retreatCost)
	}

	return &Card{
		CardID:      cardID,
		Name:        name,
		SetName:     setName,
		CardNumber:  cardNumber,
		Rarity:      rarity,
		CardType:    TypePokemon,
		PokemonType: pokemonType,
		Stage:       stage,
		HP:          hp,
		RetreatCost: retreatCost,
	}, nil
}

// NewTrainer constructs a Trainer card.
func NewTrainer(cardID, name, setName, cardNumber, rarity string, trainerType TrainerType) *Card {
	return &Card{
		CardID:      cardID,
		Name:        name,
		SetName:     setName,
		CardNumber:  cardNumber,
		Rarity:      rarity,
		CardType:    TypeTrainer,
		TrainerType: trainerType,
	}
}

// NewEnergy constructs an Energy card.
func NewEnergy(cardID, name, setName, cardNumber, rarity string, energyType EnergyType, isSpecial bool) *Card {
	return &Card{
		CardID:          cardID,
		Name:            name,
		SetName:         setName,
		CardNumber:      cardNumber,
		Rarity:          rarity,
		CardType:        TypeEnergy,
		EnergyType:      energyType,
		IsSpecialEnergy: isSpecial,
	}
}

// SetEvolvesFrom sets the evolution-chain predecessor. Fails for a Basic
// Pokemon (spec §3 invariant) or a non-Pokemon card.
func (c *Card) SetEvolvesFrom(ref EvolvesFrom) error {
	if c.CardType != TypePokemon {
		return fmt.Errorf("card %s: SetEvolvesFrom only valid on Pokemon cards", c.CardID)
	}
	if c.Stage == StageBasic {
		return fmt.Errorf("card %s: a Basic Pokemon may not have evolvesFrom", c.CardID)
	}
	c.EvolvesFromRef = &ref
	return nil
}

// SetWeakness sets the weakness modifier. Pokemon-only.
func (c *Card) SetWeakness(m Modifier) error {
	if c.CardType != TypePokemon {
		return fmt.Errorf("card %s: SetWeakness only valid on Pokemon cards", c.CardID)
	}
	c.Weakness = &m
	return nil
}

// SetResistance sets the resistance modifier. Pokemon-only.
func (c *Card) SetResistance(m Modifier) error {
	if c.CardType != TypePokemon {
		return fmt.Errorf("card %s: SetResistance only valid on Pokemon cards", c.CardID)
	}
	c.Resistance = &m
	return nil
}

// SetAbility attaches an ability. Pokemon-only.
func (c *Card) SetAbility(a Ability) error {
	if c.CardType != TypePokemon {
		return fmt.Errorf("card %s: SetAbility only valid on Pokemon cards", c.CardID)
	}
	// Ability HEAL effects targeting DEFENDING are invalid for abilities and
	// are normalized to SELF at load time (spec §4.7).
	for i := range a.Effects {
		if a.Effects[i].Type == AbilityEffectHeal && a.Effects[i].Target == TargetDefending {
			a.Effects[i].Target = TargetSelf
		}
	}
	c.PokemonAbility = &a
	return nil
}

// AddAttack appends a validated attack. Pokemon-only.
func (c *Card) AddAttack(a Attack) error {
	if c.CardType != TypePokemon {
		return fmt.Errorf("card %s: AddAttack only valid on Pokemon cards", c.CardID)
	}
	if err := a.Validate(); err != nil {
		return fmt.Errorf("card %s: invalid attack %q: %w", c.CardID, a.Name, err)
	}
	c.Attacks = append(c.Attacks, a)
	return nil
}

// SetCardRules sets the card-rules list. Pokemon-only.
func (c *Card) SetCardRules(rules []CardRule) error {
	if c.CardType != TypePokemon {
		return fmt.Errorf("card %s: SetCardRules only valid on Pokemon cards", c.CardID)
	}
	c.CardRules = rules
	return nil
}

// SetTrainerEffects sets the ordered trainer-effect list. Trainer-only.
func (c *Card) SetTrainerEffects(effects []TrainerEffect) error {
	if c.CardType != TypeTrainer {
		return fmt.Errorf("card %s: SetTrainerEffects only valid on Trainer cards", c.CardID)
	}
	for _, e := range effects {
		if err := e.Validate(); err != nil {
			return fmt.Errorf("card %s: invalid trainer effect: %w", c.CardID, err)
		}
	}
	c.TrainerEffects = effects
	return nil
}

// SetEnergyProvision sets what a special energy card provides. Energy-only.
func (c *Card) SetEnergyProvision(p EnergyProvision) error {
	if c.CardType != TypeEnergy {
		return fmt.Errorf("card %s: SetEnergyProvision only valid on Energy cards", c.CardID)
	}
	c.EnergyProvision = &p
	return nil
}

// IsBasic reports whether this is a Basic-stage Pokemon.
func (c *Card) IsBasic() bool {
	return c.CardType == TypePokemon && c.Stage == StageBasic
}

// HasAbility reports whether this Pokemon has an attached ability.
func (c *Card) HasAbility() bool {
	return c.CardType == TypePokemon && c.PokemonAbility != nil
}

// HasRule reports whether this Pokemon carries the given card rule.
func (c *Card) HasRule(rule CardRule) bool {
	for _, r := range c.CardRules {
		if r == rule {
			return true
		}
	}
	return false
}

// CanRetreat reports whether this Pokemon is permitted to retreat at all,
// ignoring current-state concerns (paralysis/asleep/retreat cost payment),
// which are runtime checks made by the action executor.
func (c *Card) CanRetreat() bool {
	return c.CardType == TypePokemon && !c.HasRule(RuleCannotRetreat)
}
