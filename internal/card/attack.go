package card

import "fmt"

// Attack is a Pokemon's named move: an energy cost, a damage expression, and
// the preconditions/effects that gate or accompany it (spec §3 "Attack").
type Attack struct {
	Name             string
	EnergyCost       []EnergyType // ordered, duplicates allowed (e.g. two Water)
	Damage           string       // raw expression: "", "20", "30+", "20×", "20+" w/ cap
	Text             string
	Preconditions    []Condition
	Effects          []AttackEffect
	EnergyBonusCap   int // caps the "+" bonus-energy contribution, per §3/§4.2
}

// Validate checks the attack's structural invariants: a non-empty name, and
// that every effect/condition attached to it is itself well-formed.
func (a Attack) Validate() error {
	if a.Name == "" {
		return fmt.Errorf("attack name must not be empty")
	}
	for i, c := range a.Preconditions {
		if err := c.Validate(); err != nil {
			return fmt.Errorf("precondition %d: %w", i, err)
		}
	}
	for i, e := range a.Effects {
		if err := e.Validate(); err != nil {
			return fmt.Errorf("effect %d: %w", i, err)
		}
	}
	return nil
}

// EnergyCostFor returns the count of a given energy type required, plus the
// count of Colorless slots (which any energy type may satisfy).
func (a Attack) EnergyCostFor(t EnergyType) (specific, colorless int) {
	for _, e := range a.EnergyCost {
		if e == EnergyColorless {
			colorless++
		} else if e == t {
			specific++
		}
	}
	return
}

// TotalEnergyCost returns the number of energy cards required to use this
// attack, regardless of type.
func (a Attack) TotalEnergyCost() int {
	return len(a.EnergyCost)
}
