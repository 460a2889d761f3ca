package deck

import "fmt"

// ValidationResult reports the outcome of validating a deck (spec §4.3).
type ValidationResult struct {
	IsValid  bool
	Errors   []string
	Warnings []string
}

// BasicValidationParams bounds deck size and per-card copy count.
type BasicValidationParams struct {
	MinDeckSize      int
	MaxDeckSize      int
	MaxCopiesPerCard int
}

// ValidateBasic checks deck size and per-card copy limits (spec §4.3:
// "deck too small, deck too large, per-card copies exceed limit").
func ValidateBasic(d *Deck, params BasicValidationParams) ValidationResult {
	result := ValidationResult{IsValid: true}

	total := d.GetTotalCardCount()
	if total < params.MinDeckSize {
		result.IsValid = false
		result.Errors = append(result.Errors, fmt.Sprintf("deck has %d cards, minimum is %d", total, params.MinDeckSize))
	}
	if total > params.MaxDeckSize {
		result.IsValid = false
		result.Errors = append(result.Errors, fmt.Sprintf("deck has %d cards, maximum is %d", total, params.MaxDeckSize))
	}

	for _, e := range d.Entries() {
		if e.Qty > params.MaxCopiesPerCard {
			result.IsValid = false
			result.Errors = append(result.Errors, fmt.Sprintf("card %s/%s has %d copies, maximum is %d", e.CardID, e.SetName, e.Qty, params.MaxCopiesPerCard))
		}
	}

	return result
}

// CardLookup resolves a cardId to the attributes a tournament rule needs to
// check (Pokemon basic-ness, energy type, ban status). Implemented by
// internal/catalog.CardRepository at call sites.
type CardLookup interface {
	IsBasicPokemon(cardID string) bool
	IsBanned(cardID string) bool
	IsEnergy(cardID string) bool
}

// TournamentRule is a pluggable tournament-specific composition check (spec
// §4.3: "layered on top and pluggable").
type TournamentRule interface {
	Name() string
	Check(d *Deck, lookup CardLookup) []string // returns violation messages, empty if satisfied
}

// ValidateTournament runs every rule against the deck and merges violations
// into errors (a tournament rule violation always invalidates the deck).
func ValidateTournament(d *Deck, lookup CardLookup, rules []TournamentRule) ValidationResult {
	result := ValidationResult{IsValid: true}
	for _, rule := range rules {
		violations := rule.Check(d, lookup)
		if len(violations) > 0 {
			result.IsValid = false
			result.Errors = append(result.Errors, violations...)
		}
	}
	return result
}

// BasicPokemonRequiredRule requires at least one Basic Pokemon in the deck.
type BasicPokemonRequiredRule struct{}

func (BasicPokemonRequiredRule) Name() string { return "basic-pokemon-required" }

func (BasicPokemonRequiredRule) Check(d *Deck, lookup CardLookup) []string {
	for _, e := range d.Entries() {
		if lookup.IsBasicPokemon(e.CardID) {
			return nil
		}
	}
	return []string{"deck must contain at least one Basic Pokemon"}
}

// BannedCardsRule rejects any entry whose card is on the format's ban list.
type BannedCardsRule struct{}

func (BannedCardsRule) Name() string { return "banned-cards" }

func (BannedCardsRule) Check(d *Deck, lookup CardLookup) []string {
	var violations []string
	for _, e := range d.Entries() {
		if lookup.IsBanned(e.CardID) {
			violations = append(violations, fmt.Sprintf("card %s/%s is banned in this format", e.CardID, e.SetName))
		}
	}
	return violations
}

// EnergyMinimumRule requires at least MinEnergyCards Energy cards in the deck.
type EnergyMinimumRule struct {
	MinEnergyCards int
}

func (EnergyMinimumRule) Name() string { return "energy-minimum" }

func (r EnergyMinimumRule) Check(d *Deck, lookup CardLookup) []string {
	count := 0
	for _, e := range d.Entries() {
		if lookup.IsEnergy(e.CardID) {
			count += e.Qty
		}
	}
	if count < r.MinEnergyCards {
		return []string{fmt.Sprintf("deck has %d Energy cards, minimum is %d", count, r.MinEnergyCards)}
	}
	return nil
}
