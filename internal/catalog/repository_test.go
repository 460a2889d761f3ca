package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSet() (SetMetadata, []JSONCard) {
	meta := SetMetadata{Author: "acme", SetName: "base", Version: "1"}
	cards := []JSONCard{
		{
			Name:        "Pikachu",
			CardNumber:  "25",
			Rarity:      "common",
			CardType:    "Pokemon",
			PokemonType: "Lightning",
			Stage:       "Basic",
			HP:          60,
			RetreatCost: 1,
			Attacks: []JSONAttack{
				{Name: "Thundershock", EnergyCost: []string{"Lightning"}, Damage: "10"},
			},
		},
		{
			Name:       "Potion",
			CardNumber: "99",
			Rarity:     "common",
			CardType:   "Trainer",
			TrainerType: "Item",
			TrainerEffects: []JSONTrainerEffect{
				{Type: "HEAL", Amount: JSONAmount{Value: 20}},
			},
		},
		{
			// Missing CardType -> should fail to parse.
			Name:       "Broken",
			CardNumber: "1",
		},
	}
	return meta, cards
}

func TestBuildCardID_WithAndWithoutLevel(t *testing.T) {
	level := "36"
	withLevel := BuildCardID("acme", "base", "1", "Pikachu", &level, "25")
	assert.Equal(t, "acme-base-v1-pikachu-36-25", withLevel)

	withoutLevel := BuildCardID("acme", "base", "1", "Pikachu", nil, "25")
	assert.Equal(t, "acme-base-v1-pikachu--25", withoutLevel)
}

func TestMemoryCardRepository_LoadSet(t *testing.T) {
	repo := NewMemoryCardRepository()
	meta, cards := sampleSet()

	result, err := repo.LoadSet(context.Background(), meta, cards)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Loaded)
	assert.Equal(t, 1, result.Failed)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "Broken", result.Errors[0].Name)

	assert.True(t, repo.IsSetLoaded("acme", "base", "1"))
	assert.False(t, repo.IsSetLoaded("acme", "base", "2"))

	bySet := repo.GetBySet("acme", "base", "1")
	assert.Len(t, bySet, 2)

	pikaID := BuildCardID("acme", "base", "1", "Pikachu", nil, "25")
	c, err := repo.GetByID(pikaID)
	require.NoError(t, err)
	assert.Equal(t, "Pikachu", c.Name)
}

func TestMemoryCardRepository_GetByID_NotFound(t *testing.T) {
	repo := NewMemoryCardRepository()
	_, err := repo.GetByID("nonexistent")
	assert.Error(t, err)
}

func TestMemoryCardRepository_ClearSet(t *testing.T) {
	repo := NewMemoryCardRepository()
	meta, cards := sampleSet()
	_, err := repo.LoadSet(context.Background(), meta, cards)
	require.NoError(t, err)

	repo.ClearSet("acme", "base", "1")

	assert.False(t, repo.IsSetLoaded("acme", "base", "1"))
	assert.Empty(t, repo.GetBySet("acme", "base", "1"))
}

func TestMemoryCardRepository_Clear(t *testing.T) {
	repo := NewMemoryCardRepository()
	meta, cards := sampleSet()
	_, err := repo.LoadSet(context.Background(), meta, cards)
	require.NoError(t, err)

	repo.Clear()

	assert.False(t, repo.IsSetLoaded("acme", "base", "1"))
	pikaID := BuildCardID("acme", "base", "1", "Pikachu", nil, "25")
	_, err = repo.GetByID(pikaID)
	assert.Error(t, err)
}
