package scoring

import (
	"testing"

	"tcg-match-engine/internal/card"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestScore_BaseSetBasicScenario reproduces spec.md §8 scenario 6 exactly:
// a Base-Set Basic 60 HP card, one 30-damage two-energy colorless attack, no
// ability, retreat cost 1, no weakness/resistance, should score ~37 (weak).
func TestScore_BaseSetBasicScenario(t *testing.T) {
	c, err := card.NewPokemon("base-1", "Testmon", "Base", "1", "common", card.EnergyColorless, card.StageBasic, 60, 1)
	require.NoError(t, err)

	require.NoError(t, c.AddAttack(card.Attack{
		Name:       "Tackle",
		EnergyCost: []card.EnergyType{card.EnergyColorless, card.EnergyColorless},
		Damage:     "30",
	}))

	s := Score(c, ScoringHints{})

	assert.InDelta(t, 37, s.Total, 1)
	assert.Equal(t, CategoryWeak, s.Category)
}

func TestEvolveValue(t *testing.T) {
	assert.Equal(t, 1.0, EvolveValue(card.StageBasic))
	assert.Equal(t, 0.5, EvolveValue(card.StageStage1))
	assert.Equal(t, 0.33, EvolveValue(card.StageStage2))
}

func TestParseDamage(t *testing.T) {
	tests := []struct {
		name string
		expr string
		cap  int
		want float64
	}{
		{"empty", "", 0, 0},
		{"plain", "30", 0, 30},
		{"coin flip", "20×", 0, 10},
		{"trailing plus cap 1", "10+", 1, 15},
		{"trailing plus cap 2", "10+", 2, 20},
		{"two literals", "30+20", 0, 50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseDamage(tt.expr, tt.cap)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseDamage_AmbiguousCombinedGrammarUsesLeadingInt(t *testing.T) {
	got := ParseDamage("40+×", 1)
	assert.Equal(t, 40.0, got)
}

func TestScore_NonPokemonReturnsZeroValue(t *testing.T) {
	trainer := card.NewTrainer("t1", "Potion", "Base", "5", "common", card.TrainerItem)
	s := Score(trainer, ScoringHints{})
	assert.Equal(t, Score{}, s)
}

func TestScore_WeaknessLowersHPStrength(t *testing.T) {
	weak, err := card.NewPokemon("w1", "Weakmon", "Base", "2", "common", card.EnergyFire, card.StageBasic, 60, 1)
	require.NoError(t, err)
	require.NoError(t, weak.SetWeakness(card.Modifier{EnergyType: card.EnergyWater, Modifier: "×2"}))
	require.NoError(t, weak.AddAttack(card.Attack{
		Name:       "Tackle",
		EnergyCost: []card.EnergyType{card.EnergyColorless, card.EnergyColorless},
		Damage:     "30",
	}))

	plain, err := card.NewPokemon("p1", "Plainmon", "Base", "3", "common", card.EnergyFire, card.StageBasic, 60, 1)
	require.NoError(t, err)
	require.NoError(t, plain.AddAttack(card.Attack{
		Name:       "Tackle",
		EnergyCost: []card.EnergyType{card.EnergyColorless, card.EnergyColorless},
		Damage:     "30",
	}))

	weakScore := Score(weak, ScoringHints{})
	plainScore := Score(plain, ScoringHints{})

	assert.Less(t, weakScore.HPStrength, plainScore.HPStrength)
}

func TestScore_ExplicitEvolutionPenaltyLowersTotal(t *testing.T) {
	c, err := card.NewPokemon("e1", "Evomon", "Base", "4", "common", card.EnergyFire, card.StageBasic, 60, 1)
	require.NoError(t, err)
	require.NoError(t, c.AddAttack(card.Attack{
		Name:       "Tackle",
		EnergyCost: []card.EnergyType{card.EnergyColorless, card.EnergyColorless},
		Damage:     "30",
	}))

	base := Score(c, ScoringHints{})
	penalized := Score(c, ScoringHints{ExplicitEvolutionPenalty: 10})

	assert.Equal(t, base.Total-10, penalized.Total)
}
