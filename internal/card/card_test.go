package card

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPokemon_Invariants(t *testing.T) {
	t.Run("rejects non-positive hp", func(t *testing.T) {
		_, err := NewPokemon("c1", "Pika", "base", "1", "common", EnergyLightning, StageBasic, 0, 1)
		assert.Error(t, err)
	})

	t.Run("rejects negative retreat cost", func(t *testing.T) {
		_, err := NewPokemon("c1", "Pika", "base", "1", "common", EnergyLightning, StageBasic, 60, -1)
		assert.Error(t, err)
	})

	t.Run("accepts valid basic", func(t *testing.T) {
		c, err := NewPokemon("c1", "Pika", "base", "1", "common", EnergyLightning, StageBasic, 60, 1)
		require.NoError(t, err)
		assert.True(t, c.IsBasic())
	})
}

func TestCard_SetEvolvesFrom_RejectsBasic(t *testing.T) {
	c, err := NewPokemon("c1", "Charmander", "base", "1", "common", EnergyFire, StageBasic, 50, 1)
	require.NoError(t, err)

	err = c.SetEvolvesFrom(EvolvesFrom{Name: "Charmander", Stage: StageBasic})
	assert.Error(t, err)
}

func TestCard_SetEvolvesFrom_AllowsStage1(t *testing.T) {
	c, err := NewPokemon("c2", "Charmeleon", "base", "2", "common", EnergyFire, StageStage1, 80, 2)
	require.NoError(t, err)

	err = c.SetEvolvesFrom(EvolvesFrom{Name: "Charmander", Stage: StageBasic})
	assert.NoError(t, err)
	assert.Equal(t, "Charmander", c.EvolvesFromRef.Name)
}

func TestCard_TypeSpecificSetters_RejectWrongType(t *testing.T) {
	trainer := NewTrainer("t1", "Potion", "base", "99", "common", TrainerItem)

	err := trainer.SetWeakness(Modifier{EnergyType: EnergyFire, Modifier: "×2"})
	assert.Error(t, err)

	err = trainer.AddAttack(Attack{Name: "x"})
	assert.Error(t, err)

	pokemon, err := NewPokemon("c1", "Pika", "base", "1", "common", EnergyLightning, StageBasic, 60, 1)
	require.NoError(t, err)
	err = pokemon.SetTrainerEffects([]TrainerEffect{{Type: TrainerEffectDrawCards, Count: 1}})
	assert.Error(t, err)
}

func TestCard_SetAbility_NormalizesHealDefendingToSelf(t *testing.T) {
	pokemon, err := NewPokemon("c1", "Blissey", "base", "1", "rare", EnergyColorless, StageBasic, 120, 0)
	require.NoError(t, err)

	err = pokemon.SetAbility(Ability{
		Name: "Soothe",
		Effects: []AbilityEffect{
			{Type: AbilityEffectHeal, Target: TargetDefending, Amount: AmountExpr{Value: 20}},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, TargetSelf, pokemon.PokemonAbility.Effects[0].Target)
}

func TestCard_AddAttack_ValidatesEffectsAndConditions(t *testing.T) {
	pokemon, err := NewPokemon("c1", "Raichu", "base", "1", "rare", EnergyLightning, StageStage1, 90, 1)
	require.NoError(t, err)

	badAttack := Attack{
		Name:       "Thunder",
		EnergyCost: []EnergyType{EnergyLightning, EnergyLightning},
		Damage:     "60",
		Effects: []AttackEffect{
			{Type: AttackEffectDamageModifier, Amount: AmountExpr{Value: 0}},
		},
	}
	err = pokemon.AddAttack(badAttack)
	assert.Error(t, err)

	goodAttack := Attack{
		Name:       "Thunder Shock",
		EnergyCost: []EnergyType{EnergyLightning},
		Damage:     "10",
		Effects: []AttackEffect{
			{
				Type:       AttackEffectStatusCondition,
				Target:     TargetDefending,
				Status:     StatusParalyzed,
				Conditions: []Condition{{Type: ConditionCoinFlipSuccess}},
			},
		},
	}
	err = pokemon.AddAttack(goodAttack)
	assert.NoError(t, err)
	assert.Len(t, pokemon.Attacks, 1)
}

func TestCard_CanRetreat_RespectsCardRule(t *testing.T) {
	pokemon, err := NewPokemon("c1", "Snorlax", "base", "1", "rare", EnergyColorless, StageBasic, 110, 3)
	require.NoError(t, err)
	assert.True(t, pokemon.CanRetreat())

	require.NoError(t, pokemon.SetCardRules([]CardRule{RuleCannotRetreat}))
	assert.False(t, pokemon.CanRetreat())
}
