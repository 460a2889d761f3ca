// Package catalog implements C1's load-time surface: JSON import DTOs and the
// process-wide CardRepository (spec §6.1, §6.2). Validation at load time uses
// explicit parse/validate functions rather than decorator-style struct tags
// (spec §9: "replace with explicit parse/validate functions that transform
// raw JSON into typed DTOs, returning rich error lists").
package catalog

import (
	"fmt"
	"regexp"
	"strings"

	"tcg-match-engine/internal/card"
)

// SetMetadata describes a card set being loaded, per spec §6.1's
// load(cards[], metadata{author, setName, version, totalCards, official?,
// dateReleased?}).
type SetMetadata struct {
	Author        string
	SetName       string
	Version       string
	TotalCards    int
	Official      bool
	DateReleased  string
}

// JSONModifier mirrors the weakness/resistance wire shape: modifiers are
// strings ("×2", "-30") for compatibility with source data (spec §6.2).
type JSONModifier struct {
	EnergyType string `json:"energyType"`
	Modifier   string `json:"modifier"`
}

// JSONEvolvesFrom mirrors the symbolic evolvesFrom reference (spec §9).
type JSONEvolvesFrom struct {
	Name  string `json:"name"`
	Stage string `json:"stage"`
}

// JSONCondition mirrors a reusable Condition (spec §3).
type JSONCondition struct {
	Type  string `json:"type"`
	Value string `json:"value,omitempty"`
}

// JSONAmount mirrors AmountExpr: either an integer or the literal "all".
type JSONAmount struct {
	All   bool `json:"all,omitempty"`
	Value int  `json:"value,omitempty"`
}

// JSONAttackEffect mirrors card.AttackEffect.
type JSONAttackEffect struct {
	Type       string          `json:"type"`
	Conditions []JSONCondition `json:"conditions,omitempty"`
	Target     string          `json:"target,omitempty"`
	Status     string          `json:"status,omitempty"`
	Amount     JSONAmount      `json:"amount,omitempty"`
	Duration   string          `json:"duration,omitempty"`
	Source     string          `json:"source,omitempty"`
	Count      int             `json:"count,omitempty"`
	Selector   string          `json:"selector,omitempty"`
}

// JSONAbilityEffect mirrors card.AbilityEffect.
type JSONAbilityEffect struct {
	Type     string     `json:"type"`
	Target   string     `json:"target,omitempty"`
	Amount   JSONAmount `json:"amount,omitempty"`
	Status   string     `json:"status,omitempty"`
	Duration string     `json:"duration,omitempty"`
	Source   string     `json:"source,omitempty"`
	Count    int        `json:"count,omitempty"`
	Selector string     `json:"selector,omitempty"`
}

// JSONTrainerEffect mirrors card.TrainerEffect.
type JSONTrainerEffect struct {
	Type   string     `json:"type"`
	Target string     `json:"target,omitempty"`
	Amount JSONAmount `json:"amount,omitempty"`
	Status string     `json:"status,omitempty"`
	Count  int        `json:"count,omitempty"`
}

// JSONAbility mirrors card.Ability.
type JSONAbility struct {
	Name        string              `json:"name"`
	Text        string              `json:"text,omitempty"`
	UsageLimit  string              `json:"usageLimit,omitempty"`
	Effects     []JSONAbilityEffect `json:"effects,omitempty"`
	Triggered   bool                `json:"triggered,omitempty"`
	TriggerName string              `json:"triggerName,omitempty"`
}

// JSONAttack mirrors card.Attack.
type JSONAttack struct {
	Name           string             `json:"name"`
	EnergyCost     []string           `json:"energyCost,omitempty"`
	Damage         string             `json:"damage,omitempty"`
	Text           string             `json:"text,omitempty"`
	Preconditions  []JSONCondition    `json:"preconditions,omitempty"`
	Effects        []JSONAttackEffect `json:"effects,omitempty"`
	EnergyBonusCap int                `json:"energyBonusCap,omitempty"`
}

// JSONEnergyProvision mirrors card.EnergyProvision.
type JSONEnergyProvision struct {
	Types  []string `json:"types,omitempty"`
	Amount int      `json:"amount,omitempty"`
}

// JSONCard is the wire format for a single card import record (spec §3, §6.2).
type JSONCard struct {
	PokemonNumber *string `json:"pokemonNumber,omitempty"`
	Name          string  `json:"name"`
	CardNumber    string  `json:"cardNumber"`
	Rarity        string  `json:"rarity"`
	CardType      string  `json:"cardType"`

	PokemonType    string              `json:"pokemonType,omitempty"`
	Stage          string              `json:"stage,omitempty"`
	Level          *string             `json:"level,omitempty"`
	HP             int                 `json:"hp,omitempty"`
	RetreatCost    int                 `json:"retreatCost,omitempty"`
	Weakness       *JSONModifier       `json:"weakness,omitempty"`
	Resistance     *JSONModifier       `json:"resistance,omitempty"`
	Attacks        []JSONAttack        `json:"attacks,omitempty"`
	Ability        *JSONAbility        `json:"ability,omitempty"`
	EvolvesFrom    *JSONEvolvesFrom    `json:"evolvesFrom,omitempty"`
	CardRules      []string            `json:"cardRules,omitempty"`

	TrainerType    string              `json:"trainerType,omitempty"`
	TrainerEffects []JSONTrainerEffect `json:"trainerEffects,omitempty"`

	EnergyType      string               `json:"energyType,omitempty"`
	IsSpecialEnergy bool                 `json:"isSpecialEnergy,omitempty"`
	EnergyProvision *JSONEnergyProvision `json:"energyProvision,omitempty"`
}

// JSONCardSet is the top-level wire format for a set-load request: set
// metadata plus the cards it contains.
type JSONCardSet struct {
	Author       string     `json:"author"`
	SetName      string     `json:"setName"`
	Version      string     `json:"version"`
	Official     bool       `json:"official,omitempty"`
	DateReleased string     `json:"dateReleased,omitempty"`
	Cards        []JSONCard `json:"cards"`
}

var kebabPattern = regexp.MustCompile(`[^a-z0-9]+`)

// kebab lowercases and hyphenates a display name for use in a cardId.
func kebab(name string) string {
	s := kebabPattern.ReplaceAllString(strings.ToLower(name), "-")
	return strings.Trim(s, "-")
}

// BuildCardID reproduces spec §6.1's cardId template:
// "<author>-<setName>-v<version>-<name-kebab>-<level|empty>-<cardNumber>",
// with a double dash separating name and cardNumber when level is absent.
func BuildCardID(author, setName, version, name string, level *string, cardNumber string) string {
	levelSegment := ""
	if level != nil {
		levelSegment = *level
	}
	return fmt.Sprintf("%s-%s-v%s-%s-%s-%s", author, setName, version, kebab(name), levelSegment, cardNumber)
}

// ParseCard converts a JSONCard into a validated card.Card, per the
// constructors/setters in internal/card which themselves enforce spec §3's
// invariants. Returns every structural error found, not just the first.
func ParseCard(author, setName, version string, jc JSONCard) (*card.Card, []error) {
	var errs []error

	cardID := BuildCardID(author, setName, version, jc.Name, jc.Level, jc.CardNumber)

	switch card.Type(jc.CardType) {
	case card.TypePokemon:
		c, err := card.NewPokemon(cardID, jc.Name, setName, jc.CardNumber, jc.Rarity,
			card.EnergyType(jc.PokemonType), card.Stage(jc.Stage), jc.HP, jc.RetreatCost)
		if err != nil {
			return nil, append(errs, err)
		}
		c.PokemonNumber = jc.PokemonNumber
		c.Level = jc.Level

		if jc.Weakness != nil {
			if err := c.SetWeakness(card.Modifier{EnergyType: card.EnergyType(jc.Weakness.EnergyType), Modifier: jc.Weakness.Modifier}); err != nil {
				errs = append(errs, err)
			}
		}
		if jc.Resistance != nil {
			if err := c.SetResistance(card.Modifier{EnergyType: card.EnergyType(jc.Resistance.EnergyType), Modifier: jc.Resistance.Modifier}); err != nil {
				errs = append(errs, err)
			}
		}
		if jc.EvolvesFrom != nil {
			if err := c.SetEvolvesFrom(card.EvolvesFrom{Name: jc.EvolvesFrom.Name, Stage: card.Stage(jc.EvolvesFrom.Stage)}); err != nil {
				errs = append(errs, err)
			}
		}
		if len(jc.CardRules) > 0 {
			rules := make([]card.CardRule, len(jc.CardRules))
			for i, r := range jc.CardRules {
				rules[i] = card.CardRule(r)
			}
			if err := c.SetCardRules(rules); err != nil {
				errs = append(errs, err)
			}
		}
		if jc.Ability != nil {
			a, aErrs := parseAbility(*jc.Ability)
			errs = append(errs, aErrs...)
			if err := c.SetAbility(a); err != nil {
				errs = append(errs, err)
			}
		}
		for _, ja := range jc.Attacks {
			a, aErrs := parseAttack(ja)
			errs = append(errs, aErrs...)
			if err := c.AddAttack(a); err != nil {
				errs = append(errs, err)
			}
		}
		if len(errs) > 0 {
			return nil, errs
		}
		return c, nil

	case card.TypeTrainer:
		c := card.NewTrainer(cardID, jc.Name, setName, jc.CardNumber, jc.Rarity, card.TrainerType(jc.TrainerType))
		effects, eErrs := parseTrainerEffects(jc.TrainerEffects)
		errs = append(errs, eErrs...)
		if err := c.SetTrainerEffects(effects); err != nil {
			errs = append(errs, err)
		}
		if len(errs) > 0 {
			return nil, errs
		}
		return c, nil

	case card.TypeEnergy:
		c := card.NewEnergy(cardID, jc.Name, setName, jc.CardNumber, jc.Rarity, card.EnergyType(jc.EnergyType), jc.IsSpecialEnergy)
		if jc.EnergyProvision != nil {
			types := make([]card.EnergyType, len(jc.EnergyProvision.Types))
			for i, t := range jc.EnergyProvision.Types {
				types[i] = card.EnergyType(t)
			}
			if err := c.SetEnergyProvision(card.EnergyProvision{Types: types, Amount: jc.EnergyProvision.Amount}); err != nil {
				errs = append(errs, err)
			}
		}
		if len(errs) > 0 {
			return nil, errs
		}
		return c, nil

	default:
		return nil, append(errs, fmt.Errorf("card %q: unknown cardType %q", jc.Name, jc.CardType))
	}
}

func parseConditions(jcs []JSONCondition) []card.Condition {
	conds := make([]card.Condition, len(jcs))
	for i, jc := range jcs {
		conds[i] = card.Condition{Type: card.ConditionType(jc.Type), Value: jc.Value}
	}
	return conds
}

func parseAmount(ja JSONAmount) card.AmountExpr {
	return card.AmountExpr{IsAll: ja.All, Value: ja.Value}
}

func parseAttack(ja JSONAttack) (card.Attack, []error) {
	var errs []error
	energyCost := make([]card.EnergyType, len(ja.EnergyCost))
	for i, e := range ja.EnergyCost {
		energyCost[i] = card.EnergyType(e)
	}
	effects := make([]card.AttackEffect, len(ja.Effects))
	for i, je := range ja.Effects {
		effects[i] = card.AttackEffect{
			Type:       card.AttackEffectType(je.Type),
			Conditions: parseConditions(je.Conditions),
			Target:     card.Target(je.Target),
			Status:     card.Status(je.Status),
			Amount:     parseAmount(je.Amount),
			Duration:   card.Duration(je.Duration),
			Source:     card.EnergySource(je.Source),
			Count:      je.Count,
			Selector:   card.Selector(je.Selector),
		}
	}
	return card.Attack{
		Name:           ja.Name,
		EnergyCost:     energyCost,
		Damage:         ja.Damage,
		Text:           ja.Text,
		Preconditions:  parseConditions(ja.Preconditions),
		Effects:        effects,
		EnergyBonusCap: ja.EnergyBonusCap,
	}, errs
}

func parseAbility(ja JSONAbility) (card.Ability, []error) {
	var errs []error
	effects := make([]card.AbilityEffect, len(ja.Effects))
	for i, je := range ja.Effects {
		effects[i] = card.AbilityEffect{
			Type:     card.AbilityEffectType(je.Type),
			Target:   card.Target(je.Target),
			Amount:   parseAmount(je.Amount),
			Status:   card.Status(je.Status),
			Duration: card.Duration(je.Duration),
			Source:   card.EnergySource(je.Source),
			Count:    je.Count,
			Selector: card.Selector(je.Selector),
		}
	}
	return card.Ability{
		Name:        ja.Name,
		Text:        ja.Text,
		UsageLimit:  card.UsageLimit(ja.UsageLimit),
		Effects:     effects,
		Triggered:   ja.Triggered,
		TriggerName: ja.TriggerName,
	}, errs
}

func parseTrainerEffects(jes []JSONTrainerEffect) ([]card.TrainerEffect, []error) {
	var errs []error
	effects := make([]card.TrainerEffect, len(jes))
	for i, je := range jes {
		effects[i] = card.TrainerEffect{
			Type:   card.TrainerEffectType(je.Type),
			Target: card.Target(je.Target),
			Amount: parseAmount(je.Amount),
			Status: card.Status(je.Status),
			Count:  je.Count,
		}
	}
	return effects, errs
}
