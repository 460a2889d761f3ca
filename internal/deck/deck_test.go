package deck

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeck_AddRemoveCard(t *testing.T) {
	d := NewDeck("d1", "My Deck", "alice", time.Now())

	require.NoError(t, d.AddCard("pika", "base", 2))
	require.NoError(t, d.AddCard("pika", "base", 1))
	assert.Equal(t, 3, d.GetCardQuantity("pika", "base"))
	assert.True(t, d.HasCard("pika", "base"))

	require.NoError(t, d.RemoveCard("pika", "base", 3))
	assert.False(t, d.HasCard("pika", "base"))
}

func TestDeck_RemoveCard_InsufficientQuantity(t *testing.T) {
	d := NewDeck("d1", "My Deck", "alice", time.Now())
	require.NoError(t, d.AddCard("pika", "base", 1))

	err := d.RemoveCard("pika", "base", 2)
	assert.Error(t, err)
}

func TestDeck_SetCardQuantity_ZeroRemoves(t *testing.T) {
	d := NewDeck("d1", "My Deck", "alice", time.Now())
	require.NoError(t, d.AddCard("pika", "base", 4))

	require.NoError(t, d.SetCardQuantity("pika", "base", 0))
	assert.False(t, d.HasCard("pika", "base"))
}

func TestDeck_GetTotalCardCount(t *testing.T) {
	d := NewDeck("d1", "My Deck", "alice", time.Now())
	require.NoError(t, d.AddCard("pika", "base", 2))
	require.NoError(t, d.AddCard("charmander", "base", 3))
	assert.Equal(t, 5, d.GetTotalCardCount())
}

func TestDeck_GetUniqueSets(t *testing.T) {
	d := NewDeck("d1", "My Deck", "alice", time.Now())
	require.NoError(t, d.AddCard("pika", "base", 1))
	require.NoError(t, d.AddCard("charmander", "jungle", 1))
	require.NoError(t, d.AddCard("squirtle", "base", 1))

	sets := d.GetUniqueSets()
	assert.ElementsMatch(t, []string{"base", "jungle"}, sets)
}

func TestDeck_ClearCards(t *testing.T) {
	d := NewDeck("d1", "My Deck", "alice", time.Now())
	require.NoError(t, d.AddCard("pika", "base", 1))
	d.ClearCards()
	assert.Equal(t, 0, d.GetTotalCardCount())
}

func TestValidateBasic(t *testing.T) {
	d := NewDeck("d1", "My Deck", "alice", time.Now())
	require.NoError(t, d.AddCard("pika", "base", 4))

	params := BasicValidationParams{MinDeckSize: 60, MaxDeckSize: 60, MaxCopiesPerCard: 4}
	result := ValidateBasic(d, params)

	assert.False(t, result.IsValid)
	assert.Contains(t, result.Errors[0], "minimum is 60")
}

func TestValidateBasic_TooManyCopies(t *testing.T) {
	d := NewDeck("d1", "My Deck", "alice", time.Now())
	for i := 0; i < 60; i++ {
		require.NoError(t, d.AddCard("pika", "base", 1))
	}

	params := BasicValidationParams{MinDeckSize: 60, MaxDeckSize: 60, MaxCopiesPerCard: 4}
	result := ValidateBasic(d, params)

	assert.False(t, result.IsValid)
	assert.Contains(t, result.Errors[0], "maximum is 4")
}

type fakeLookup struct {
	basics map[string]bool
	banned map[string]bool
	energy map[string]bool
}

func (f fakeLookup) IsBasicPokemon(cardID string) bool { return f.basics[cardID] }
func (f fakeLookup) IsBanned(cardID string) bool       { return f.banned[cardID] }
func (f fakeLookup) IsEnergy(cardID string) bool       { return f.energy[cardID] }

func TestValidateTournament_BasicPokemonRequired(t *testing.T) {
	d := NewDeck("d1", "My Deck", "alice", time.Now())
	require.NoError(t, d.AddCard("charmeleon", "base", 1))

	lookup := fakeLookup{basics: map[string]bool{}}
	result := ValidateTournament(d, lookup, []TournamentRule{BasicPokemonRequiredRule{}})

	assert.False(t, result.IsValid)
}

func TestValidateTournament_BannedCards(t *testing.T) {
	d := NewDeck("d1", "My Deck", "alice", time.Now())
	require.NoError(t, d.AddCard("lysandre-trump-card", "promo", 1))

	lookup := fakeLookup{banned: map[string]bool{"lysandre-trump-card": true}}
	result := ValidateTournament(d, lookup, []TournamentRule{BannedCardsRule{}})

	assert.False(t, result.IsValid)
	assert.Contains(t, result.Errors[0], "banned")
}

func TestValidateTournament_EnergyMinimum(t *testing.T) {
	d := NewDeck("d1", "My Deck", "alice", time.Now())
	require.NoError(t, d.AddCard("water-energy", "base", 5))

	lookup := fakeLookup{energy: map[string]bool{"water-energy": true}}
	result := ValidateTournament(d, lookup, []TournamentRule{EnergyMinimumRule{MinEnergyCards: 10}})

	assert.False(t, result.IsValid)
}
