package effect

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tcg-match-engine/internal/card"
	"tcg-match-engine/internal/zone"
)

func newCtx(self, defending *zone.CardInstance) *Context {
	gs := zone.NewGameState("alice", "bob")
	gs.Player1State.ActivePokemon = self
	gs.Player2State.ActivePokemon = defending
	return &Context{
		GameState:      gs,
		ActingPlayerID: "alice",
		Self:           self,
		Defending:      defending,
		TurnNumber:     1,
	}
}

func TestResolveBaseDamage(t *testing.T) {
	cases := []struct {
		name    string
		expr    string
		cap     int
		bonus   int
		heads   []bool
		want    int
	}{
		{"empty", "", 2, 0, nil, 0},
		{"plain", "30", 2, 0, nil, 30},
		{"coin multiplicative two heads", "20×", 2, 0, []bool{true, true}, 40},
		{"coin multiplicative no heads", "20×", 2, 0, []bool{false}, 0},
		{"trailing plus capped", "20+", 2, 5, nil, 40}, // 20 + 10*min(5,2)
		{"two literals", "30+20", 2, 0, nil, 50},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := ResolveBaseDamage(c.expr, c.cap, c.bonus, c.heads)
			assert.Equal(t, c.want, got)
		})
	}
}

func TestResolveDamage_WeaknessAndResistance(t *testing.T) {
	// spec §8 scenario 3: base 30, weakness ×2, resistance -30 => 30
	weakness := &card.Modifier{EnergyType: card.EnergyFire, Modifier: "×2"}
	resistance := &card.Modifier{EnergyType: card.EnergyFire, Modifier: "-30"}

	got := ResolveDamage(30, 0, 0, weakness, resistance, card.AmountExpr{})
	assert.Equal(t, 30, got)
}

func TestResolveDamage_ClampsAtZero(t *testing.T) {
	resistance := &card.Modifier{Modifier: "-100"}
	got := ResolveDamage(30, 0, 0, nil, resistance, card.AmountExpr{})
	assert.Equal(t, 0, got)
}

func TestResolveDamage_PreventionAll(t *testing.T) {
	got := ResolveDamage(50, 0, 0, nil, nil, card.AmountExpr{IsAll: true})
	assert.Equal(t, 0, got)
}

func TestEval_CoinFlipSuccessAndFailure(t *testing.T) {
	ctx := newCtx(nil, nil)
	ctx.CoinFlipHeads = []bool{true}
	assert.True(t, Eval(ctx, card.Condition{Type: card.ConditionCoinFlipSuccess}))

	ctx.CoinFlipHeads = []bool{false}
	assert.True(t, Eval(ctx, card.Condition{Type: card.ConditionCoinFlipFailure}))
}

func TestEval_SelfHasDamage(t *testing.T) {
	self := zone.NewCardInstance("s1", "pika", zone.PositionActive, 60)
	self.CurrentHP = 40
	ctx := newCtx(self, nil)

	assert.True(t, Eval(ctx, card.Condition{Type: card.ConditionSelfHasDamage}))
	assert.False(t, Eval(ctx, card.Condition{Type: card.ConditionSelfNoDamage}))
}

func TestEvalAll_CombinesByAnd(t *testing.T) {
	ctx := newCtx(nil, nil)
	conds := []card.Condition{
		{Type: card.ConditionAlways},
		{Type: card.ConditionCoinFlipSuccess},
	}
	ctx.CoinFlipHeads = nil
	assert.False(t, EvalAll(ctx, conds), "no heads means COIN_FLIP_SUCCESS fails, AND combination fails")
}

func TestApplyAttackEffects_DiscardEnergyFromSelf(t *testing.T) {
	self := zone.NewCardInstance("s1", "pika", zone.PositionActive, 60)
	energy := zone.NewCardInstance("e1", "lightning-energy", zone.PositionHand, 0)
	self.AttachedEnergy = []string{"e1"}

	ctx := newCtx(self, nil)
	ctx.GameState.Player1State.RegisterAttachedEnergy(energy)

	ApplyAttackEffects(ctx, []card.AttackEffect{
		{Type: card.AttackEffectDiscardEnergy, Target: card.TargetSelf, Amount: card.AmountExpr{IsAll: true}},
	})

	assert.Empty(t, self.AttachedEnergy)
	assert.Len(t, ctx.GameState.Player1State.DiscardPile, 1)
}

func TestApplyAttackEffects_StatusConditionOnDefending(t *testing.T) {
	defending := zone.NewCardInstance("d1", "squirtle", zone.PositionActive, 60)
	ctx := newCtx(nil, defending)

	ApplyAttackEffects(ctx, []card.AttackEffect{
		{Type: card.AttackEffectStatusCondition, Target: card.TargetDefending, Status: card.StatusParalyzed},
	})

	assert.True(t, defending.HasStatus(card.StatusParalyzed))
}

func TestApplyAttackEffects_DamageModifierReturnsTotal(t *testing.T) {
	ctx := newCtx(nil, nil)
	total := ApplyAttackEffects(ctx, []card.AttackEffect{
		{Type: card.AttackEffectDamageModifier, Amount: card.AmountExpr{Value: 10}},
	})
	assert.Equal(t, 10, total)
}

func TestApplyAttackEffects_RecoilDamage(t *testing.T) {
	self := zone.NewCardInstance("s1", "pika", zone.PositionActive, 60)
	ctx := newCtx(self, nil)

	ApplyAttackEffects(ctx, []card.AttackEffect{
		{Type: card.AttackEffectRecoilDamage, Target: card.TargetSelf, Amount: card.AmountExpr{Value: 20}},
	})

	assert.Equal(t, 40, self.CurrentHP)
}

func TestApplyAttackEffects_HealCappedAtMaxHP(t *testing.T) {
	self := zone.NewCardInstance("s1", "pika", zone.PositionActive, 60)
	self.CurrentHP = 50
	ctx := newCtx(self, nil)

	ApplyAttackEffects(ctx, []card.AttackEffect{
		{Type: card.AttackEffectHeal, Target: card.TargetSelf, Amount: card.AmountExpr{Value: 30}},
	})

	assert.Equal(t, 60, self.CurrentHP)
}

func TestApplyAttackEffects_PreventDamageSetsExpiry(t *testing.T) {
	self := zone.NewCardInstance("s1", "pika", zone.PositionActive, 60)
	ctx := newCtx(self, nil)
	ctx.TurnNumber = 3

	ApplyAttackEffects(ctx, []card.AttackEffect{
		{Type: card.AttackEffectPreventDamage, Target: card.TargetSelf, Amount: card.AmountExpr{IsAll: true}, Duration: card.DurationNextTurn},
	})

	require.NotNil(t, self.PreventionExpiresAtTurn)
	assert.Equal(t, 4, *self.PreventionExpiresAtTurn)
	assert.True(t, self.PreventionIsAll)
}

func TestExpirePreventionAtTurnBoundary(t *testing.T) {
	ps := zone.NewPlayerGameState("alice")
	ps.ActivePokemon = zone.NewCardInstance("a1", "pika", zone.PositionActive, 60)
	expiry := 2
	ps.ActivePokemon.PreventionIsAll = true
	ps.ActivePokemon.PreventionExpiresAtTurn = &expiry

	ExpirePreventionAtTurnBoundary(ps, 2)
	assert.True(t, ps.ActivePokemon.PreventionIsAll, "not yet expired: newTurn == expiry")

	ExpirePreventionAtTurnBoundary(ps, 3)
	assert.False(t, ps.ActivePokemon.PreventionIsAll)
	assert.Nil(t, ps.ActivePokemon.PreventionExpiresAtTurn)
}

func TestApplyAbilityEffects_DrawCards(t *testing.T) {
	ctx := newCtx(nil, nil)
	ctx.GameState.Player1State.Deck = []*zone.CardInstance{
		zone.NewCardInstance("d1", "pika", zone.PositionDeck, 60),
		zone.NewCardInstance("d2", "pika", zone.PositionDeck, 60),
	}

	ApplyAbilityEffects(ctx, []card.AbilityEffect{
		{Type: card.AbilityEffectDrawCards, Count: 2},
	})

	assert.Len(t, ctx.GameState.Player1State.Hand, 2)
	assert.Len(t, ctx.GameState.Player1State.Deck, 0)
}

func TestApplyAbilityEffects_BoostAttackIsReturnedNotMutated(t *testing.T) {
	ctx := newCtx(nil, nil)
	result := ApplyAbilityEffects(ctx, []card.AbilityEffect{
		{Type: card.AbilityEffectBoostAttack, Amount: card.AmountExpr{Value: 20}},
	})
	assert.Equal(t, 20, result.BoostAttackDelta)
}

func TestApplyTrainerEffects_Heal(t *testing.T) {
	self := zone.NewCardInstance("s1", "pika", zone.PositionActive, 60)
	self.CurrentHP = 10
	ctx := newCtx(self, nil)

	ApplyTrainerEffects(ctx, []card.TrainerEffect{
		{Type: card.TrainerEffectHeal, Target: card.TargetSelf, Amount: card.AmountExpr{Value: 30}},
	})

	assert.Equal(t, 40, self.CurrentHP)
}

func TestApplyTrainerEffects_CureStatusAll(t *testing.T) {
	self := zone.NewCardInstance("s1", "pika", zone.PositionActive, 60)
	self.StatusEffects[card.StatusBurned] = true
	ctx := newCtx(self, nil)

	ApplyTrainerEffects(ctx, []card.TrainerEffect{
		{Type: card.TrainerEffectCureStatus, Target: card.TargetSelf},
	})

	assert.Empty(t, self.StatusEffects)
}

func TestApplyTrainerEffects_ShuffleDeckUsesRNG(t *testing.T) {
	ctx := newCtx(nil, nil)
	ctx.RNG = rand.New(rand.NewSource(1))
	ctx.GameState.Player1State.Deck = []*zone.CardInstance{
		zone.NewCardInstance("d1", "pika", zone.PositionDeck, 60),
		zone.NewCardInstance("d2", "pika", zone.PositionDeck, 60),
		zone.NewCardInstance("d3", "pika", zone.PositionDeck, 60),
	}
	before := len(ctx.GameState.Player1State.Deck)

	ApplyTrainerEffects(ctx, []card.TrainerEffect{{Type: card.TrainerEffectShuffleDeck}})

	assert.Equal(t, before, len(ctx.GameState.Player1State.Deck), "shuffle preserves count")
}

func TestApplyTrainerEffects_RemoveEnergyFromDefending(t *testing.T) {
	defending := zone.NewCardInstance("d1", "squirtle", zone.PositionActive, 60)
	energy := zone.NewCardInstance("e1", "water-energy", zone.PositionHand, 0)
	defending.AttachedEnergy = []string{"e1"}

	ctx := newCtx(nil, defending)
	ctx.GameState.Player2State.RegisterAttachedEnergy(energy)

	ApplyTrainerEffects(ctx, []card.TrainerEffect{
		{Type: card.TrainerEffectRemoveEnergy, Count: 1},
	})

	assert.Empty(t, defending.AttachedEnergy)
}
