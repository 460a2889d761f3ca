package card

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAttackEffect_Validate(t *testing.T) {
	tests := []struct {
		name    string
		effect  AttackEffect
		wantErr bool
	}{
		{"discard energy self ok", AttackEffect{Type: AttackEffectDiscardEnergy, Target: TargetSelf, Amount: AmountExpr{Value: 1}}, false},
		{"discard energy all ok", AttackEffect{Type: AttackEffectDiscardEnergy, Target: TargetSelf, Amount: AmountExpr{IsAll: true}}, false},
		{"discard energy bad target", AttackEffect{Type: AttackEffectDiscardEnergy, Target: "bogus", Amount: AmountExpr{Value: 1}}, true},
		{"status on self invalid", AttackEffect{Type: AttackEffectStatusCondition, Target: TargetSelf, Status: StatusBurned}, true},
		{"status bad name", AttackEffect{Type: AttackEffectStatusCondition, Target: TargetDefending, Status: "FROZEN"}, true},
		{"damage modifier zero invalid", AttackEffect{Type: AttackEffectDamageModifier, Amount: AmountExpr{Value: 0}}, true},
		{"damage modifier negative ok", AttackEffect{Type: AttackEffectDamageModifier, Amount: AmountExpr{Value: -10}}, false},
		{"heal zero invalid", AttackEffect{Type: AttackEffectHeal, Amount: AmountExpr{Value: 0}}, true},
		{"recoil on defending invalid", AttackEffect{Type: AttackEffectRecoilDamage, Target: TargetDefending, Amount: AmountExpr{Value: 10}}, true},
		{"energy accel bad source", AttackEffect{Type: AttackEffectEnergyAccel, Source: "bogus", Count: 1, Selector: SelectorChoice}, true},
		{"energy accel ok", AttackEffect{Type: AttackEffectEnergyAccel, Source: SourceDeck, Count: 1, Selector: SelectorRandom}, false},
		{"switch pokemon wrong target", AttackEffect{Type: AttackEffectSwitchPokemon, Target: TargetDefending}, true},
		{"unknown type", AttackEffect{Type: "BOGUS"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.effect.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestAbilityEffect_Validate(t *testing.T) {
	tests := []struct {
		name    string
		effect  AbilityEffect
		wantErr bool
	}{
		{"heal defending invalid", AbilityEffect{Type: AbilityEffectHeal, Target: TargetDefending, Amount: AmountExpr{Value: 10}}, true},
		{"heal self ok", AbilityEffect{Type: AbilityEffectHeal, Target: TargetSelf, Amount: AmountExpr{Value: 10}}, false},
		{"energy accel count 0 invalid", AbilityEffect{Type: AbilityEffectEnergyAccel, Count: 0}, true},
		{"draw cards ok", AbilityEffect{Type: AbilityEffectDrawCards, Count: 2}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.effect.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestTrainerEffect_Validate(t *testing.T) {
	tests := []struct {
		name    string
		effect  TrainerEffect
		wantErr bool
	}{
		{"heal zero invalid", TrainerEffect{Type: TrainerEffectHeal, Amount: AmountExpr{Value: 0}}, true},
		{"heal all ok", TrainerEffect{Type: TrainerEffectHeal, Amount: AmountExpr{IsAll: true}}, false},
		{"draw zero count invalid", TrainerEffect{Type: TrainerEffectDrawCards, Count: 0}, true},
		{"cure status ok", TrainerEffect{Type: TrainerEffectCureStatus}, false},
		{"unknown type", TrainerEffect{Type: "BOGUS"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.effect.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCondition_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cond    Condition
		wantErr bool
	}{
		{"always no value ok", Condition{Type: ConditionAlways}, false},
		{"always with value invalid", Condition{Type: ConditionAlways, Value: "x"}, true},
		{"min damage needs value", Condition{Type: ConditionSelfMinDamage}, true},
		{"min damage with value ok", Condition{Type: ConditionSelfMinDamage, Value: "20"}, false},
		{"stadium in play empty ok", Condition{Type: ConditionStadiumInPlay}, false},
		{"unknown type", Condition{Type: "BOGUS"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cond.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
